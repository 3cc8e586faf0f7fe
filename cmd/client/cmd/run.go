package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Запустить фоновый агент синхронизации",
	Long: `Запускает клиент в режиме агента: монитор сети, оркестратор
синхронизации и статусную панель. Очередь разгружается автоматически
при появлении сети, постановке новых отправок и по таймеру.

Завершается по Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !app.IsAuthenticated() {
			fmt.Println("⚠️  Устройство не аутентифицировано. Выполните: storeops auth login")
			fmt.Println("Отправки будут копиться в очереди до входа.")
		}

		defer app.Close()
		return app.Run()
	},
}
