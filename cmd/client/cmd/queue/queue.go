package queue

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"storeops/cmd/client/cmd/types"
	"storeops/internal/app/client"
)

// QueueCmd - родительская команда для операций с очередью отправок
var QueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Управление очередью отправок",
	Long: `Просмотр очереди, ручной повтор отказавших отправок,
удаление и очистка.`,
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}

// coloredStatus возвращает статус с цветовой подсветкой
func coloredStatus(status client.ItemStatus) string {
	switch status {
	case client.StatusPending:
		return color.YellowString(string(status))
	case client.StatusSyncing:
		return color.CyanString(string(status))
	case client.StatusFailed:
		return color.RedString(string(status))
	case client.StatusSynced:
		return color.GreenString(string(status))
	}
	return string(status)
}
