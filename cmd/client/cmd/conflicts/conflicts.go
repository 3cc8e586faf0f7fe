package conflicts

import (
	"fmt"

	"github.com/spf13/cobra"

	"storeops/cmd/client/cmd/types"
	"storeops/internal/app/client"
)

// ConflictsCmd - родительская команда для работы с конфликтами синхронизации
var ConflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Разрешение конфликтов синхронизации",
	Long: `Конфликт возникает, когда сущность изменилась на сервере, пока
отправка ждала в очереди. Такие отправки не повторяются автоматически:
выберите авторитетную версию командой resolve.`,
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}
