package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vera/cmd/client/cmd/types"
	"vera/internal/domain/user"
)

var newUsername string

var ProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Показать или изменить профиль",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		var p *user.Profile
		if newUsername != "" {
			p, err = app.Auth.UpdateProfile(cmd.Context(), user.ProfilePatch{Username: newUsername})
		} else {
			p, err = app.Auth.Profile(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("ошибка загрузки профиля: %w", err)
		}
		if p == nil {
			return errors.New("сервер не вернул профиль")
		}

		fmt.Printf("ID:           %d\n", p.ID)
		fmt.Printf("Email:        %s\n", p.Email)
		fmt.Printf("Имя:          %s\n", p.Username)
		fmt.Printf("Хранилище:    %s\n", p.StorageFolderLink)
		fmt.Printf("Создан:       %s\n", p.CreatedAt)
		return nil
	},
}

var ChangeEmailCmd = &cobra.Command{
	Use:   "change-email <email>",
	Short: "Сменить email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		password, err := types.ReadSecret("Текущий пароль: ")
		if err != nil {
			return err
		}

		p, err := app.Auth.ChangeEmail(cmd.Context(), args[0], password)
		if err != nil {
			return fmt.Errorf("ошибка смены email: %w", err)
		}
		if p != nil {
			types.Success("Email изменен на %s", p.Email)
		} else {
			types.Success("Email изменен")
		}
		return nil
	},
}

var ChangePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Сменить пароль",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		current, err := types.ReadSecret("Текущий пароль: ")
		if err != nil {
			return err
		}
		next, err := types.ReadSecret("Новый пароль: ")
		if err != nil {
			return err
		}
		confirm, err := types.ReadSecret("Повторите новый пароль: ")
		if err != nil {
			return err
		}
		if next != confirm {
			return errors.New("пароли не совпадают")
		}

		if err := app.Auth.ChangePassword(cmd.Context(), current, next); err != nil {
			return fmt.Errorf("ошибка смены пароля: %w", err)
		}
		types.Success("Пароль изменен")
		return nil
	},
}

var PhotoCmd = &cobra.Command{
	Use:   "photo <path>",
	Short: "Загрузить фото профиля",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.Auth.UpdatePhoto(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("ошибка загрузки фото: %w", err)
		}
		types.Success("Фото обновлено")
		return nil
	},
}

var VoiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Перезаписать образец голоса",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		rec, err := app.Recorder(voiceFile)
		if err != nil {
			return err
		}

		types.Info("Говорите... запись остановится через 5 секунд")
		if err := app.UpdateVoice(cmd.Context(), rec); err != nil {
			return fmt.Errorf("ошибка обновления голоса: %w", err)
		}
		types.Success("Образец голоса обновлен")
		return nil
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Удалить аккаунт",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if !types.Confirm("Аккаунт и все данные будут удалены безвозвратно. Продолжить?") {
			return nil
		}
		password, err := types.ReadSecret("Пароль: ")
		if err != nil {
			return err
		}

		if err := app.Auth.DeleteAccount(cmd.Context(), password); err != nil {
			return fmt.Errorf("ошибка удаления аккаунта: %w", err)
		}
		types.Success("Аккаунт удален")
		return nil
	},
}

func init() {
	ProfileCmd.Flags().StringVar(&newUsername, "username", "", "новое имя пользователя")
	VoiceCmd.Flags().StringVar(&voiceFile, "voice-file", "", "готовый файл с образцом голоса")
}
