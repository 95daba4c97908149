package chat

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"vera/internal/app/server/api/http/middleware/auth"
	"vera/internal/app/server/api/http/response"
	"vera/internal/domain/drive"
)

type sendInput struct {
	Body struct {
		Content string `json:"content"`
		Type    string `json:"type,omitempty"`
	}
}

type sendOutput struct {
	Body struct {
		Data *drive.Message `json:"data"`
	}
}

type messagesOutput struct {
	Body struct {
		Messages []drive.Message `json:"messages"`
	}
}

type Handler struct {
	service    drive.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service drive.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With(slog.String("component", "chat_handler")),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "chat-messages",
		Method:      http.MethodGet,
		Path:        "/chat/messages",
		Summary:     "История чата",
		Tags:        []string{"chat"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}, h.messages)

	huma.Register(api, huma.Operation{
		OperationID:   "chat-send",
		Method:        http.MethodPost,
		Path:          "/chat/messages",
		Summary:       "Отправить сообщение",
		Tags:          []string{"chat"},
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
		DefaultStatus: http.StatusCreated,
	}, h.send)
}

func (h *Handler) messages(ctx context.Context, _ *struct{}) (*messagesOutput, error) {
	owner, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	messages, err := h.service.Messages(ctx, owner)
	if err != nil {
		return nil, response.Fail(err)
	}

	out := &messagesOutput{}
	out.Body.Messages = messages
	return out, nil
}

func (h *Handler) send(ctx context.Context, input *sendInput) (*sendOutput, error) {
	owner, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	msg, err := h.service.PostMessage(ctx, owner, input.Body.Content, input.Body.Type)
	if err != nil {
		return nil, response.Fail(err)
	}

	out := &sendOutput{}
	out.Body.Data = msg
	return out, nil
}
