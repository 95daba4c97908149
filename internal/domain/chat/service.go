package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"

	"vera/internal/domain/storage"
)

const messagesEndpoint = "/chat/messages"

var ErrEmptyMessage = errors.New("message is empty")

const (
	TypeUser      = "user"
	TypeAssistant = "assistant"
)

type Message struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Content   string            `json:"content"`
	Type      string            `json:"type"`
	CreatedAt storage.Timestamp `json:"created_at"`
}

type sendRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

type Service struct {
	remote storage.Remote
	log    *slog.Logger
}

func NewService(remote storage.Remote, log *slog.Logger) *Service {
	return &Service{
		remote: remote,
		log:    log.With(slog.String("component", "chat")),
	}
}

// Messages возвращает историю переписки
func (s *Service) Messages(ctx context.Context) ([]Message, error) {
	var resp struct {
		Messages []Message `json:"messages"`
	}
	if err := s.remote.GetJSON(ctx, messagesEndpoint, &resp); err != nil {
		return nil, fmt.Errorf("ошибка загрузки сообщений: %w", err)
	}
	if resp.Messages == nil {
		return []Message{}, nil
	}
	return resp.Messages, nil
}

// Send отправляет сообщение пользователя и возвращает сохраненную сервером запись
func (s *Service) Send(ctx context.Context, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	var resp struct {
		Data *Message `json:"data"`
	}
	if err := s.remote.PostJSON(ctx, messagesEndpoint, sendRequest{Content: content, Type: TypeUser}, &resp); err != nil {
		return nil, fmt.Errorf("ошибка отправки сообщения: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("сервер не вернул сообщение")
	}

	s.log.Debug("message sent", "id", resp.Data.ID)
	return resp.Data, nil
}
