package submit

import (
	"time"

	"github.com/spf13/cobra"

	"storeops/internal/app/client"
)

var (
	replProduct string
	replSKU     string
	replBaseVer int64
	replQty     int
	replReason  string
	replBy      string
	replPhotos  []string
)

var ReplacementCmd = &cobra.Command{
	Use:   "replacement",
	Short: "Отправить заявку на замену товара",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		payload := &client.ReplacementPayload{
			ProductName: replProduct,
			SKU:         replSKU,
			StoreID:     app.Config().StoreID,
			BaseVersion: replBaseVer,
			Quantity:    replQty,
			Reason:      replReason,
			RequestedBy: replBy,
			RequestedAt: time.Now(),
			LocalPhotos: replPhotos,
		}

		item, err := app.Enqueue(client.TypeReplacement, payload)
		if err != nil {
			return err
		}

		printQueued(item)
		return nil
	},
}

func init() {
	ReplacementCmd.Flags().StringVar(&replProduct, "product", "", "название товара")
	ReplacementCmd.Flags().StringVar(&replSKU, "sku", "", "артикул товара")
	ReplacementCmd.Flags().Int64Var(&replBaseVer, "base-version", 0, "версия сущности")
	ReplacementCmd.Flags().IntVar(&replQty, "quantity", 1, "количество")
	ReplacementCmd.Flags().StringVar(&replReason, "reason", "", "причина замены")
	ReplacementCmd.Flags().StringVar(&replBy, "by", "", "сотрудник")
	ReplacementCmd.Flags().StringArrayVar(&replPhotos, "photo", nil, "путь к локальной фотографии (повторяемый)")

	_ = ReplacementCmd.MarkFlagRequired("product")
	_ = ReplacementCmd.MarkFlagRequired("sku")
}
