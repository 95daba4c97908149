package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"vera/cmd/client/cmd/types"
	"vera/internal/domain/user"
)

var (
	username  string
	cin       string
	withVoice bool
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать нового пользователя",
	Long: `Регистрация нового пользователя на сервере Vera.

CIN служит паролем для входа по email. С флагом --voice записывается образец голоса
(до 5 секунд) для последующего входа по голосу. Вместо записи с микрофона можно
передать готовый файл через --voice-file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if email == "" {
			email = types.ReadLine("Email: ")
		}
		if username == "" {
			username = types.ReadLine("Имя пользователя: ")
		}
		if cin == "" && !withVoice && voiceFile == "" {
			if cin, err = types.ReadSecret("CIN (пароль): "); err != nil {
				return err
			}
		}

		req := user.RegisterRequest{Email: email, Username: username, CIN: cin}

		var res *user.AuthResult
		if withVoice || voiceFile != "" {
			rec, err := app.Recorder(voiceFile)
			if err != nil {
				return err
			}
			types.Info("Говорите... запись остановится через 5 секунд")
			res, err = app.RegisterWithVoice(cmd.Context(), req, rec)
			if err != nil {
				return fmt.Errorf("ошибка регистрации: %w", err)
			}
		} else {
			res, err = app.Auth.Register(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("ошибка регистрации: %w", err)
			}
		}

		types.Success("Регистрация завершена")
		if res.User != nil {
			fmt.Printf("Пользователь: %s <%s>\n", res.User.Username, res.User.Email)
		}
		if res.Token == "" {
			fmt.Println("Теперь вы можете войти в систему: vera auth login")
		}
		return nil
	},
}

func init() {
	RegisterCmd.Flags().StringVar(&email, "email", "", "email")
	RegisterCmd.Flags().StringVar(&username, "username", "", "имя пользователя")
	RegisterCmd.Flags().StringVar(&cin, "cin", "", "CIN (используется как пароль)")
	RegisterCmd.Flags().BoolVar(&withVoice, "voice", false, "записать образец голоса")
	RegisterCmd.Flags().StringVar(&voiceFile, "voice-file", "", "готовый файл с образцом голоса")
}
