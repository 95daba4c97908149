package types

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vera/internal/app/client"
)

type contextKey string

// ClientAppKey - ключ, под которым экземпляр приложения лежит в контексте команды
const ClientAppKey contextKey = "client_app"

var ErrNoApp = errors.New("приложение не инициализировано")

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	infoColor = color.New(color.FgCyan)
)

var stdin = bufio.NewReader(os.Stdin)

// App достает приложение из контекста команды
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, ErrNoApp
	}
	return app, nil
}

func Success(format string, args ...any) {
	okColor.Printf("✓ "+format+"\n", args...)
}

func Warn(format string, args ...any) {
	warnColor.Printf("! "+format+"\n", args...)
}

func Info(format string, args ...any) {
	infoColor.Printf(format+"\n", args...)
}

// ReadLine печатает подсказку и читает строку из stdin
func ReadLine(prompt string) string {
	fmt.Print(prompt)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// ReadSecret читает строку без эха. Если stdin не терминал, строка читается как есть.
func ReadSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := stdin.ReadString('\n')
		fmt.Println()
		if err != nil && line == "" {
			return "", fmt.Errorf("ошибка чтения: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("ошибка чтения пароля: %w", err)
	}
	return string(secret), nil
}

// Confirm задает вопрос да/нет, по умолчанию нет
func Confirm(prompt string) bool {
	answer := strings.ToLower(ReadLine(prompt + " [y/N]: "))
	return answer == "y" || answer == "yes" || answer == "д" || answer == "да"
}

// PassphraseEnv - переменная окружения с парольной фразой хранилища карт
const PassphraseEnv = "VAULT_PASSPHRASE"

// UnlockVault открывает ключ карт, если он создан. Без ключа карты хранятся открытым текстом.
func UnlockVault(app *client.App) error {
	v := app.Vault()
	if !v.IsInitialized() {
		Warn("Ключ шифрования не создан, данные карт хранятся без шифрования (vera init)")
		return nil
	}
	if !v.Locked() {
		return nil
	}

	passphrase := os.Getenv(PassphraseEnv)
	if passphrase == "" {
		var err error
		if passphrase, err = ReadSecret("Парольная фраза: "); err != nil {
			return err
		}
	}
	return app.UnlockVault(passphrase)
}
