package queue

import (
	"fmt"

	"github.com/spf13/cobra"
)

var RetryCmd = &cobra.Command{
	Use:   "retry <id>",
	Short: "Повторить отказавшую отправку",
	Long: `Возвращает отправку со статусом failed в очередь и сразу
запускает проход синхронизации, не дожидаясь окна backoff. Работает
и для отправок с исчерпанными попытками.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		if err := app.Syncer().RetryItem(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Println("✅ Отправка возвращена в очередь")
		return nil
	},
}
