package location

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"vera/internal/app/server/api/http/middleware/auth"
	"vera/internal/app/server/api/http/response"
	"vera/internal/domain/drive"
)

type sampleBody struct {
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Source    string    `json:"source,omitempty" enum:"manual,automatic"`
}

type updateInput struct {
	Body sampleBody
}

type updateOutput struct {
	Body struct {
		Message      string `json:"message"`
		HistoryCount int    `json:"history_count"`
	}
}

type overviewOutput struct {
	Body struct {
		Current *drive.Location `json:"current_location"`
		History []drive.Stay    `json:"location_history"`
	}
}

type historyOutput struct {
	Body struct {
		History []drive.Stay `json:"location_history"`
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
		log:        log.With(slog.String("component", "location_handler")),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.op("location-current", http.MethodGet, "/location", "Текущее местоположение и история"), h.current)
	huma.Register(api, h.op("location-update", http.MethodPost, "/location", "Новое местоположение"), h.update)
	huma.Register(api, h.op("location-history", http.MethodGet, "/location/history", "История местоположений"), h.history)
}

func (h *Handler) op(id, method, path, summary string) huma.Operation {
	return huma.Operation{
		OperationID: id,
		Method:      method,
		Path:        path,
		Summary:     summary,
		Tags:        []string{"location"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) current(ctx context.Context, _ *struct{}) (*overviewOutput, error) {
	owner, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	current, err := h.service.CurrentLocation(ctx, owner)
	if err != nil {
		return nil, response.Fail(err)
	}
	history, err := h.service.LocationHistory(ctx, owner)
	if err != nil {
		return nil, response.Fail(err)
	}

	out := &overviewOutput{}
	out.Body.Current = current
	out.Body.History = history
	return out, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*updateOutput, error) {
	owner, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	b := input.Body
	n, err := h.service.RecordLocation(ctx, owner, drive.Location{
		Address:   b.Address,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		City:      b.City,
		Country:   b.Country,
		Timestamp: b.Timestamp,
		Source:    b.Source,
	})
	if err != nil {
		return nil, response.Fail(err)
	}

	out := &updateOutput{}
	out.Body.Message = "Location updated"
	out.Body.HistoryCount = n
	return out, nil
}

func (h *Handler) history(ctx context.Context, _ *struct{}) (*historyOutput, error) {
	owner, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	history, err := h.service.LocationHistory(ctx, owner)
	if err != nil {
		return nil, response.Fail(err)
	}

	out := &historyOutput{}
	out.Body.History = history
	return out, nil
}
