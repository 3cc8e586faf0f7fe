package auth

import (
	"fmt"

	"github.com/spf13/cobra"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Завершить сессию устройства",
	Long: `Удаляет локальный токен устройства. Очередь не очищается:
накопленные отправки уйдут после следующего входа.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		if !app.IsAuthenticated() {
			fmt.Println("Сессии нет.")
			return nil
		}

		app.Logout()
		fmt.Println("Сессия завершена.")
		return nil
	},
}
