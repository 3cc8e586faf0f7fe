package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginStoreID string

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти по PIN магазина",
	Long: `Аутентификация устройства на сервере StoreOps.

После входа токен сохраняется локально, накопленная очередь
начнет синхронизироваться при следующем проходе.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		storeID := loginStoreID
		if storeID == "" {
			storeID = app.Config().StoreID
		}
		if storeID == "" {
			fmt.Print("Магазин: ")
			_, _ = fmt.Scanln(&storeID)
		}

		fmt.Print("PIN: ")
		pin, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения PIN: %w", err)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Login(ctx, storeID, string(pin)); err != nil {
			return err
		}

		fmt.Println("✅ Вход выполнен успешно!")

		count, err := app.Queue().Count()
		if err == nil && count > 0 {
			fmt.Printf("В очереди %d отправок, запускаю синхронизацию...\n", count)
			if err := app.SyncNow(ctx); err != nil {
				fmt.Printf("⚠️  Ошибка синхронизации: %v\n", err)
			}
		}

		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVar(&loginStoreID, "store", "", "идентификатор магазина")
}
