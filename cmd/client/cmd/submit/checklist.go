package submit

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"storeops/internal/app/client"
)

var (
	checklistID      string
	checklistName    string
	checklistBaseVer int64
	checklistAnswers []string
	checklistBy      string
	checklistPhotos  []string
)

var ChecklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Отправить заполненный чек-лист",
	Long: `Ставит результат заполнения чек-листа в очередь отправки.

Ответы передаются повторяемым флагом --answer пункт=ответ.
Локальные фотографии (--photo) будут загружены при синхронизации.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		answers, err := parseKeyValues(checklistAnswers)
		if err != nil {
			return err
		}
		if len(answers) == 0 {
			return fmt.Errorf("нужен хотя бы один ответ (--answer пункт=ответ)")
		}

		payload := &client.ChecklistPayload{
			ChecklistID:   checklistID,
			ChecklistName: checklistName,
			StoreID:       app.Config().StoreID,
			BaseVersion:   checklistBaseVer,
			Answers:       answers,
			CompletedBy:   checklistBy,
			CompletedAt:   time.Now(),
			LocalPhotos:   checklistPhotos,
		}

		item, err := app.Enqueue(client.TypeChecklist, payload)
		if err != nil {
			return err
		}

		printQueued(item)
		return nil
	},
}

func init() {
	ChecklistCmd.Flags().StringVar(&checklistID, "id", "", "ID шаблона чек-листа")
	ChecklistCmd.Flags().StringVar(&checklistName, "name", "", "название чек-листа")
	ChecklistCmd.Flags().Int64Var(&checklistBaseVer, "base-version", 0, "версия сущности на момент заполнения")
	ChecklistCmd.Flags().StringArrayVar(&checklistAnswers, "answer", nil, "ответ в формате пункт=ответ (повторяемый)")
	ChecklistCmd.Flags().StringVar(&checklistBy, "by", "", "сотрудник, заполнивший чек-лист")
	ChecklistCmd.Flags().StringArrayVar(&checklistPhotos, "photo", nil, "путь к локальной фотографии (повторяемый)")

	_ = ChecklistCmd.MarkFlagRequired("id")
}
