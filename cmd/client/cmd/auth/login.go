package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"vera/cmd/client/cmd/types"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти по email и паролю",
	Long: `Аутентификация на сервере Vera.

После входа токен и профиль сохраняются локально для последующих операций.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if email == "" {
			email = types.ReadLine("Email: ")
		}
		password, err := types.ReadSecret("Пароль: ")
		if err != nil {
			return err
		}

		res, err := app.Auth.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		types.Success("Вход выполнен")
		if res.User != nil {
			fmt.Printf("Здравствуйте, %s!\n", res.User.Username)
		}
		return nil
	},
}

var VoiceLoginCmd = &cobra.Command{
	Use:   "voice-login",
	Short: "Войти по голосу",
	Long: `Записывает фразу (до 5 секунд) и сравнивает ее с образцом на сервере.
Несовпадение голоса не является ошибкой: команда сообщает степень сходства.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if email == "" {
			email = types.ReadLine("Email: ")
		}
		rec, err := app.Recorder(voiceFile)
		if err != nil {
			return err
		}

		types.Info("Говорите... запись остановится через 5 секунд")
		res, err := app.VoiceLogin(cmd.Context(), email, rec)
		if err != nil {
			return fmt.Errorf("ошибка голосовой аутентификации: %w", err)
		}

		if !res.Verified {
			types.Warn("Голос не распознан (сходство %.0f%%)", res.Similarity()*100)
			return nil
		}
		types.Success("Голос подтвержден (сходство %.0f%%)", res.Similarity()*100)
		return nil
	},
}

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти и удалить локальную сессию",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.Auth.Logout(cmd.Context()); err != nil {
			return err
		}
		types.Success("Сессия завершена")
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVar(&email, "email", "", "email")
	VoiceLoginCmd.Flags().StringVar(&email, "email", "", "email")
	VoiceLoginCmd.Flags().StringVar(&voiceFile, "voice-file", "", "готовый файл с записью голоса")
}
