package chat

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vera/cmd/client/cmd/types"
	"vera/internal/domain/chat"
)

// ChatCmd - родительская команда для переписки с ассистентом
var ChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Сообщения ассистенту",
}

var (
	userColor      = color.New(color.FgCyan, color.Bold)
	assistantColor = color.New(color.FgMagenta, color.Bold)
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать сообщения",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		messages, err := app.Chat.Messages(cmd.Context())
		if err != nil {
			return err
		}
		if len(messages) == 0 {
			fmt.Println("Сообщений нет")
			return nil
		}
		for _, m := range messages {
			printMessage(m)
		}
		return nil
	},
}

var SendCmd = &cobra.Command{
	Use:   "send <text>...",
	Short: "Отправить сообщение",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		m, err := app.Chat.Send(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		printMessage(*m)
		return nil
	},
}

func printMessage(m chat.Message) {
	who := userColor
	if m.Type == chat.TypeAssistant {
		who = assistantColor
	}
	who.Printf("[%s] %s: ", m.CreatedAt.Local().Format("2006-01-02 15:04"), m.Type)
	fmt.Println(m.Content)
}
