package submit

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"storeops/internal/app/client"
)

var (
	photoCaption string
	photoBy      string
	photoPaths   []string
)

var PhotoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Отправить фотоотчет",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		if len(photoPaths) == 0 {
			return fmt.Errorf("нужна хотя бы одна фотография (--photo путь)")
		}
		// Ранняя проверка путей: при синхронизации файлы должны существовать
		for _, path := range photoPaths {
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("фотография недоступна: %s", path)
			}
		}

		payload := &client.PhotoPayload{
			StoreID:     app.Config().StoreID,
			Caption:     photoCaption,
			TakenBy:     photoBy,
			TakenAt:     time.Now(),
			LocalPhotos: photoPaths,
		}

		item, err := app.Enqueue(client.TypePhoto, payload)
		if err != nil {
			return err
		}

		printQueued(item)
		return nil
	},
}

func init() {
	PhotoCmd.Flags().StringVar(&photoCaption, "caption", "", "подпись фотоотчета")
	PhotoCmd.Flags().StringVar(&photoBy, "by", "", "сотрудник")
	PhotoCmd.Flags().StringArrayVar(&photoPaths, "photo", nil, "путь к локальной фотографии (повторяемый)")
}
