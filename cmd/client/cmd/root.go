package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vera/cmd/client/cmd/types"
	"vera/internal/app/client"
	"vera/internal/app/client/config"
	"vera/internal/app/client/di"
)

var (
	cfgFile string
	debug   bool
	baseURL string

	app     *client.App
	cleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "vera",
	Short: "Vera - персональный ассистент с голосовой аутентификацией",
	Long: `Vera хранит ваши карты, контакты, гардероб, знакомых и историю перемещений
на удаленном сервере и открывает к ним доступ по голосу или паролю.

Все данные живут на сервере. Клиент хранит только токен сессии и, при желании,
ключ для шифрования данных карт.`,
	PersistentPreRunE: setupApp,
	PersistentPostRun: shutdownApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	defer shutdownApp(nil, nil)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		shutdownApp(nil, nil)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if debug {
		cfg.Env = config.EnvLocal
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	app, cleanup, err = di.InitApp(cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func shutdownApp(_ *cobra.Command, _ []string) {
	if app != nil {
		app.Shutdown()
		app = nil
	}
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл (YAML)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "подробный цветной лог")
	rootCmd.PersistentFlags().StringVar(&baseURL, "server", "", "базовый URL API, например http://localhost:5000/api")
}
