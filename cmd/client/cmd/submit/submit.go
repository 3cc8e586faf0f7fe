package submit

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storeops/cmd/client/cmd/types"
	"storeops/internal/app/client"
)

// SubmitCmd - родительская команда для постановки отправок в очередь
var SubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Поставить отправку в очередь",
	Long: `Создание отправок: чек-листы, заявки на замену товара, фотоотчеты.

Команды возвращаются сразу после записи в локальную очередь — сеть
не требуется. Доставкой занимается фоновый оркестратор (storeops run)
или ручная синхронизация (storeops sync).`,
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}

// parseKeyValues разбирает повторяемый флаг вида key=value
func parseKeyValues(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("ожидался формат ключ=значение, получено: %q", pair)
		}
		result[key] = value
	}
	return result, nil
}

func printQueued(item *client.QueueItem) {
	fmt.Println("✅ Отправка поставлена в очередь")
	fmt.Printf("ID: %s\n", item.ID)
	fmt.Printf("Заголовок: %s\n", item.Title())
	fmt.Println()
	fmt.Println("Статус очереди: storeops queue status")
}
