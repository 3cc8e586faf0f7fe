package sync

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"storeops/cmd/client/cmd/types"
	"storeops/internal/app/client"
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Запустить синхронизацию вручную",
	Long: `Выполняет один проход синхронизации очереди. Обычно этого не
требуется: фоновый агент (storeops run) разгружает очередь сам.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if !app.IsAuthenticated() {
			return fmt.Errorf("требуется аутентификация. Выполните: storeops auth login")
		}

		count, err := app.Queue().Count()
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Println("Очередь пуста, синхронизировать нечего.")
			return nil
		}

		fmt.Printf("В очереди отправок: %d\n", count)
		fmt.Println("Проверка соединения с сервером...")
		if err := app.CheckConnection(); err != nil {
			return fmt.Errorf("сервер недоступен: %v", err)
		}

		fmt.Println("Начало синхронизации...")
		start := time.Now()

		if err := app.SyncNow(cmd.Context()); err != nil {
			return fmt.Errorf("ошибка синхронизации: %w", err)
		}

		status, err := app.Status().Snapshot()
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("Проход завершен за %v\n", time.Since(start).Round(time.Millisecond))
		fmt.Printf("Осталось в очереди: %d\n", status.PendingCount)

		if status.FailedCount > 0 {
			fmt.Printf("%s %d\n", color.RedString("С ошибками:"), status.FailedCount)
			fmt.Println("Подробности: storeops queue list --status failed")
		}
		if status.ConflictCount > 0 {
			fmt.Printf("%s %d\n", color.MagentaString("Конфликтов:"), status.ConflictCount)
			fmt.Println("Разрешение: storeops conflicts list")
		}
		if status.FailedCount == 0 && status.ConflictCount == 0 {
			fmt.Println(color.GreenString("✅ Все отправки доставлены"))
		}

		return nil
	},
}
