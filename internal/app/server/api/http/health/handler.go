package health

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"vera/internal/utils/logger"
)

const pingTimeout = 2 * time.Second

// Pinger - хранилище, доступность которого проверяет /health
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

type Handler struct {
	store      Pinger
	log        *slog.Logger
	middleware huma.Middlewares
	started    time.Time
}

func NewHandler(store Pinger, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		store:      store,
		log:        log,
		middleware: middleware,
		started:    time.Now(),
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Error("storage is unavailable", "storage", h.store.Name(), logger.Err(err))
		return nil, huma.NewError(http.StatusServiceUnavailable, "Storage is unavailable")
	}

	return &Output{
		Body: Response{
			Status:  "OK",
			Storage: h.store.Name(),
			Uptime:  time.Since(h.started).Round(time.Second).String(),
		},
	}, nil
}
