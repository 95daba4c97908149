// Dev-сервер Vera: регистрация и вход (email или голос), профиль, файловое хранилище
// пользователя, документы гардероба и знакомых, местоположение и чат.
//
//	POST /api/auth/register, /api/auth/login, /api/auth/verify-voice   (публичные)
//	GET|PUT /api/user/profile, PUT /api/user/email, /api/user/password   (auth)
//	POST /api/user/photo, /api/user/voice, DELETE /api/user/delete       (auth)
//	/api/storage/..., /api/location..., /api/chat/messages               (auth)
//	GET /api/health, GET /metrics
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/exp/slog"

	"vera/internal/app/server/api/http/chat"
	healthAPI "vera/internal/app/server/api/http/health"
	locationAPI "vera/internal/app/server/api/http/location"
	"vera/internal/app/server/api/http/middleware/auth"
	"vera/internal/app/server/api/http/middleware/logger"
	"vera/internal/app/server/api/http/response"
	storageAPI "vera/internal/app/server/api/http/storage"
	userAPI "vera/internal/app/server/api/http/user"
	"vera/internal/app/server/config"
	"vera/internal/domain/account"
	"vera/internal/domain/drive"
	"vera/internal/infrastructure/metrics"
	"vera/internal/infrastructure/storage"
)

// BasePath - префикс всех операций API
const BasePath = "/api"

type Handlers struct {
	Health   *healthAPI.Handler
	User     *userAPI.Handler
	Storage  *storageAPI.Handler
	Location *locationAPI.Handler
	Chat     *chat.Handler
}

func init() {
	huma.NewError = response.NewError
}

// New создает корневой http.Handler dev-сервера
func New(cfg *config.Config, store storage.Storage, m metrics.Provider, log *slog.Logger) http.Handler {
	root := chi.NewMux()
	root.Use(middleware.Recoverer)
	root.Use(metrics.Middleware(m))
	root.Handle("/metrics", m.Handler())

	h, loggerMW := handlers(cfg, store, log)

	root.Route(BasePath, func(r chi.Router) {
		r.Group(func(raw chi.Router) {
			raw.Use(loggerMW.Handler)
			h.User.Mount(raw)
		})

		humaConfig := huma.DefaultConfig("Vera API", "1.0.0")
		humaConfig.Servers = []*huma.Server{{URL: BasePath}}
		// тела ответов без ссылки $schema: ошибки строго {"error": msg}
		humaConfig.CreateHooks = nil
		humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
			"bearer": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
		}
		api := humachi.New(r, humaConfig)

		h.Health.SetupRoutes(api)
		h.User.SetupRoutes(api)
		h.Storage.SetupRoutes(api)
		h.Location.SetupRoutes(api)
		h.Chat.SetupRoutes(api)
	})

	return gzhttp.GzipHandler(root)
}

func handlers(cfg *config.Config, store storage.Storage, log *slog.Logger) (*Handlers, *logger.Logger) {
	tokens := account.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	accountService := account.NewService(store, tokens, account.NewPasswordValidator(), cfg.VoiceThreshold, log)
	driveService := drive.NewService(store, log)

	authMW := auth.New(accountService, log)
	loggerMW := logger.New(log)

	public := huma.Middlewares{loggerMW.Middleware()}
	protected := huma.Middlewares{authMW.Middleware(), loggerMW.Middleware()}

	return &Handlers{
		Health:   healthAPI.NewHandler(store, log, public),
		User:     userAPI.NewHandler(accountService, log, public, protected, authMW.Handler, cfg.MaxUploadBytes()),
		Storage:  storageAPI.NewHandler(driveService, log, protected),
		Location: locationAPI.NewHandler(driveService, log, protected),
		Chat:     chat.NewHandler(driveService, log, protected),
	}, loggerMW
}
