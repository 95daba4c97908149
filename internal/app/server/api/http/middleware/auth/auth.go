package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/goccy/go-json"
	"golang.org/x/exp/slog"

	"vera/internal/utils/logger"
)

// Authorizer проверяет токен и возвращает идентификатор пользователя
type Authorizer interface {
	Authorize(ctx context.Context, token string) (int64, error)
}

type Auth struct {
	authorizer Authorizer
	log        *slog.Logger
}

func New(authorizer Authorizer, log *slog.Logger) *Auth {
	return &Auth{
		authorizer: authorizer,
		log:        log.With(slog.String("component", "auth_middleware")),
	}
}

type contextKey string

const UserIDKey contextKey = "userID"

const bearerPrefix = "Bearer "

// Middleware возвращает middleware для Huma с сигнатурой func(ctx Context, next func(Context))
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		userID, ok := a.authorize(ctx.Context(), ctx.Header("Authorization"))
		if !ok {
			ctx.SetStatus(http.StatusUnauthorized)
			ctx.SetHeader("Content-Type", "application/json")
			if err := json.NewEncoder(ctx.BodyWriter()).Encode(unauthorized); err != nil {
				a.log.Error("json encode", logger.Err(err))
			}
			return
		}

		next(huma.WithContext(ctx, WithUserID(ctx.Context(), userID)))
	}
}

// Handler - тот же middleware для обработчиков net/http (multipart-загрузки)
func (a *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.authorize(r.Context(), r.Header.Get("Authorization"))
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			if err := json.NewEncoder(w).Encode(unauthorized); err != nil {
				a.log.Error("json encode", logger.Err(err))
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

var unauthorized = map[string]string{"error": "Unauthorized"}

func (a *Auth) authorize(ctx context.Context, header string) (int64, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		a.log.Debug("missing bearer token")
		return 0, false
	}

	userID, err := a.authorizer.Authorize(ctx, strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		a.log.Debug("token rejected", logger.Err(err))
		return 0, false
	}
	return userID, true
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
