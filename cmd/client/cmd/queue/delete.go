package queue

import (
	"fmt"

	"github.com/spf13/cobra"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить отправку из очереди",
	Long:  `Удаляет отправку и связанный с ней конфликт. Данные не восстанавливаются.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		item, err := app.Queue().Get(args[0])
		if err != nil {
			return err
		}

		if err := app.Syncer().DeleteItem(item.ID); err != nil {
			return err
		}

		fmt.Printf("Удалено: %s\n", item.Title())
		return nil
	},
}
