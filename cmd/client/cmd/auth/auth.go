package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"storeops/cmd/client/cmd/types"
	"storeops/internal/app/client"
)

// AuthCmd - родительская команда для операций с сессией устройства
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление сессией устройства",
	Long:  `Вход устройства по PIN магазина и завершение сессии.`,
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}
