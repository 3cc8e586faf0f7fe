package conflicts

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storeops/internal/app/client"
)

var (
	resolveUse  string
	resolveFile string
)

var ResolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Разрешить конфликт",
	Long: `Выбирает авторитетную версию для конфликтующей отправки:

  --use local   оставить локальную версию и отправить ее повторно
  --use server  принять серверную версию
  --use merge   использовать объединенный payload из файла (--file)

После разрешения отправка возвращается в очередь и уходит при
следующем проходе синхронизации.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		resolution := client.Resolution(resolveUse)

		var merged json.RawMessage
		if resolution == client.ResolutionMerge {
			if resolveFile == "" {
				return fmt.Errorf("для merge нужен файл с объединенным payload (--file)")
			}
			merged, err = os.ReadFile(resolveFile)
			if err != nil {
				return fmt.Errorf("ошибка чтения файла: %w", err)
			}
		}

		if err := app.Resolver().Resolve(args[0], resolution, merged); err != nil {
			return err
		}

		fmt.Println("✅ Конфликт разрешен, отправка возвращена в очередь")
		return app.SyncNow(cmd.Context())
	},
}

func init() {
	ResolveCmd.Flags().StringVar(&resolveUse, "use", "", "способ разрешения: local, server, merge")
	ResolveCmd.Flags().StringVar(&resolveFile, "file", "", "файл с объединенным payload (для merge)")

	_ = ResolveCmd.MarkFlagRequired("use")
}
