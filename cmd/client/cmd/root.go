package cmd

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/exp/slog"

	"storeops/cmd/client/cmd/types"
	"storeops/internal/app/client"
	"storeops/internal/app/client/config"
	"storeops/internal/utils/logger"

	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	serverURL string
	storeID   string
)

var rootCmd = &cobra.Command{
	Use:   "storeops",
	Short: "StoreOps - клиент операций магазина с офлайн-очередью",
	Long: `StoreOps — клиентское приложение для персонала магазина: чек-листы,
заявки на замену товара и фотоотчеты.

Все отправки сначала попадают в локальную очередь и переживают перезапуск
приложения. Доставкой на сервер занимается фоновый оркестратор: он следит
за сетью, повторяет отправки с нарастающей задержкой и откладывает
конфликты до ручного разрешения.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}
	if storeID != "" {
		cfg.StoreID = storeID
	}

	log = logger.New(cfg.Env)

	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func init() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера StoreOps")
	rootCmd.PersistentFlags().StringVar(&storeID, "store", "", "идентификатор магазина")
}
