package queue

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние очереди и синхронизации",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		status, err := app.Status().Snapshot()
		if err != nil {
			return err
		}

		fmt.Println("=== Состояние очереди ===")
		fmt.Printf("Ожидают отправки: %s\n", color.YellowString("%d", status.PendingCount))
		fmt.Printf("С ошибками:       %s\n", color.RedString("%d", status.FailedCount))
		fmt.Printf("Конфликтов:       %s\n", color.MagentaString("%d", status.ConflictCount))

		if status.Syncing {
			fmt.Printf("Синхронизация:    %s\n", color.CyanString("идет"))
		} else {
			fmt.Println("Синхронизация:    нет")
		}

		if status.LastDrain.IsZero() {
			fmt.Println("Последний успешный проход: еще не было")
		} else {
			fmt.Printf("Последний успешный проход: %s\n",
				status.LastDrain.Format("2006-01-02 15:04:05"))
		}

		if app.Monitor().Online() {
			fmt.Printf("Сеть: %s\n", color.GreenString("online"))
		} else {
			fmt.Printf("Сеть: %s\n", color.RedString("offline"))
		}

		if status.ConflictCount > 0 {
			fmt.Println()
			fmt.Println("Есть конфликты. Просмотр: storeops conflicts list")
		}

		return nil
	},
}
