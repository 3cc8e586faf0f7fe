package queue

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storeops/internal/app/client"
)

var (
	listStatus string
	listType   string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список отправок в очереди",
	Long: `Просмотр очереди в порядке создания с возможностью фильтрации
по статусу (--status) и типу (--type).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var items []*client.QueueItem
		switch {
		case listStatus != "":
			items, err = app.Queue().ListByStatus(client.ItemStatus(listStatus))
		case listType != "":
			items, err = app.Queue().ListByType(client.ItemType(listType))
		default:
			items, err = app.Queue().ListAll()
		}
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("Очередь пуста.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tТИП\tСТАТУС\tПОПЫТКИ\tСОЗДАНО\tОШИБКА")
		for _, item := range items {
			errText := item.Error
			if runes := []rune(errText); len(runes) > 40 {
				errText = string(runes[:40]) + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				item.ID, item.Type, coloredStatus(item.Status), item.Attempts,
				item.CreatedAt.Format("2006-01-02 15:04:05"), errText)
		}
		w.Flush()

		fmt.Printf("\nВсего: %d\n", len(items))
		return nil
	},
}

func init() {
	ListCmd.Flags().StringVar(&listStatus, "status", "", "фильтр по статусу: pending, syncing, failed")
	ListCmd.Flags().StringVar(&listType, "type", "", "фильтр по типу: checklist, replacement, photo")
}
