package conflicts

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listFull bool

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список неразрешенных конфликтов",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		list, err := app.Resolver().List()
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Println("Конфликтов нет.")
			return nil
		}

		for i, conflict := range list {
			fmt.Printf("%d. %s  [%s]  %s\n",
				i+1,
				color.MagentaString(conflict.ItemID),
				conflict.Type,
				conflict.CreatedAt.Format("2006-01-02 15:04:05"))

			if listFull {
				fmt.Printf("   Локальная версия:  %s\n", indentJSON(conflict.LocalVersion))
				fmt.Printf("   Серверная версия:  %s\n", indentJSON(conflict.ServerVersion))
			}
		}

		fmt.Println()
		fmt.Println("Разрешение: storeops conflicts resolve <id> --use local|server|merge")
		return nil
	},
}

func indentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "   ", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func init() {
	ListCmd.Flags().BoolVar(&listFull, "full", false, "показывать содержимое версий")
}
