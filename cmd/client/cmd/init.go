package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vera/cmd/client/cmd/auth"
	"vera/cmd/client/cmd/chat"
	"vera/cmd/client/cmd/clothes"
	"vera/cmd/client/cmd/location"
	"vera/cmd/client/cmd/person"
	"vera/cmd/client/cmd/types"
	"vera/cmd/client/cmd/vault"
)

const minPassphraseLen = 8

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Инициализировать клиент Vera",
	Long: `Команда init выполняет первоначальную настройку клиента:
	1. Создает ключ для шифрования номеров карт и CVV
	2. Проверяет соединение с интернетом

Ключ защищен парольной фразой. Без нее открыть сохраненные карты невозможно.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if app.Vault().IsInitialized() {
			fmt.Println("Клиент уже инициализирован.")
			return nil
		}

		fmt.Println("=== Инициализация Vera ===")
		fmt.Println()

		passphrase, err := types.ReadSecret("Введите парольную фразу: ")
		if err != nil {
			return err
		}
		confirm, err := types.ReadSecret("Повторите парольную фразу: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return errors.New("парольные фразы не совпадают")
		}
		if len(passphrase) < minPassphraseLen {
			return fmt.Errorf("парольная фраза должна содержать минимум %d символов", minPassphraseLen)
		}

		fmt.Println("Создание ключа...")
		if err := app.Vault().Init(passphrase); err != nil {
			return fmt.Errorf("ошибка создания ключа: %w", err)
		}

		fmt.Println("Проверка соединения...")
		if err := app.CheckConnectivity(cmd.Context()); err != nil {
			types.Warn("Нет соединения: %v", err)
		} else {
			types.Success("Соединение установлено")
		}

		fmt.Println()
		types.Success("Инициализация успешно завершена")
		fmt.Println()
		fmt.Println("Что дальше:")
		fmt.Println("1. Зарегистрируйтесь: vera auth register")
		fmt.Println("2. Войдите в систему: vera auth login")
		fmt.Println("3. Добавьте первую запись: vera vault add --type email --title Почта --value me@example.com")
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Проверить соединение с интернетом",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		for {
			err := app.CheckConnectivity(cmd.Context())
			if err == nil {
				types.Success("Соединение установлено")
				return nil
			}
			types.Warn("Нет подключения к интернету. Проверьте сеть и попробуйте снова.")
			if !types.Confirm("Повторить?") {
				return err
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkCmd)

	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.VoiceLoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.ProfileCmd)
	auth.AuthCmd.AddCommand(auth.ChangeEmailCmd)
	auth.AuthCmd.AddCommand(auth.ChangePasswordCmd)
	auth.AuthCmd.AddCommand(auth.PhotoCmd)
	auth.AuthCmd.AddCommand(auth.VoiceCmd)
	auth.AuthCmd.AddCommand(auth.DeleteCmd)

	rootCmd.AddCommand(vault.VaultCmd)
	vault.VaultCmd.AddCommand(vault.ListCmd)
	vault.VaultCmd.AddCommand(vault.AddCmd)
	vault.VaultCmd.AddCommand(vault.UpdateCmd)
	vault.VaultCmd.AddCommand(vault.DeleteCmd)
	vault.VaultCmd.AddCommand(vault.PasswdCmd)

	rootCmd.AddCommand(clothes.ClothesCmd)
	clothes.ClothesCmd.AddCommand(clothes.ListCmd)
	clothes.ClothesCmd.AddCommand(clothes.AddCmd)
	clothes.ClothesCmd.AddCommand(clothes.UpdateCmd)
	clothes.ClothesCmd.AddCommand(clothes.DeleteCmd)
	clothes.ClothesCmd.AddCommand(clothes.ImageCmd)

	rootCmd.AddCommand(person.PersonCmd)
	person.PersonCmd.AddCommand(person.ListCmd)
	person.PersonCmd.AddCommand(person.AddCmd)
	person.PersonCmd.AddCommand(person.UpdateCmd)
	person.PersonCmd.AddCommand(person.DeleteCmd)
	person.PersonCmd.AddCommand(person.ImageCmd)

	rootCmd.AddCommand(location.LocationCmd)
	location.LocationCmd.AddCommand(location.CurrentCmd)
	location.LocationCmd.AddCommand(location.HistoryCmd)
	location.LocationCmd.AddCommand(location.SetCmd)
	location.LocationCmd.AddCommand(location.TrackCmd)

	rootCmd.AddCommand(chat.ChatCmd)
	chat.ChatCmd.AddCommand(chat.ListCmd)
	chat.ChatCmd.AddCommand(chat.SendCmd)
}
