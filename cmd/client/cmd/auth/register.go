package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var registerStoreID string

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать магазин",
	Long: `Регистрация магазина на сервере StoreOps.

После регистрации устройства магазина смогут входить по PIN:
storeops auth login`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		storeID := registerStoreID
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

		fmt.Print("Повторите PIN: ")
		pinConfirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения PIN: %w", err)
		}
		fmt.Println()

		if string(pin) != string(pinConfirm) {
			return fmt.Errorf("PIN-коды не совпадают")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		fmt.Println("Регистрация...")
		if err := app.Register(ctx, storeID, string(pin)); err != nil {
			return err
		}

		fmt.Println("✅ Магазин зарегистрирован!")
		fmt.Println("Теперь можно войти: storeops auth login")
		return nil
	},
}

func init() {
	RegisterCmd.Flags().StringVar(&registerStoreID, "store", "", "идентификатор магазина")
}
