package queue

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var ClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Очистить очередь",
	Long: `Удаляет ВСЕ отправки из очереди, включая не доставленные на сервер.
Требует подтверждения.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		count, err := app.Queue().Count()
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Println("Очередь пуста.")
			return nil
		}

		if !clearYes {
			fmt.Printf("⚠️  Будет удалено %d отправок, включая не доставленные. Продолжить? [y/N]: ", count)
			var answer string
			_, _ = fmt.Scanln(&answer)
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Отменено.")
				return nil
			}
		}

		removed, err := app.Queue().Clear()
		if err != nil {
			return err
		}

		fmt.Printf("Удалено отправок: %d\n", removed)
		return nil
	},
}

func init() {
	ClearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "не спрашивать подтверждение")
}
