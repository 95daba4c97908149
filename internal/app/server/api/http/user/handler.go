package user

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	"vera/internal/app/server/api/http/middleware/auth"
	"vera/internal/app/server/api/http/response"
	"vera/internal/domain/account"
)

type Handler struct {
	service        account.Servicer
	log            *slog.Logger
	middleware     huma.Middlewares
	authMiddleware huma.Middlewares
	requireAuth    func(http.Handler) http.Handler
	maxUpload      int64
}

// NewHandler создает обработчики аккаунта. middleware применяются к публичным операциям,
// authMiddleware и requireAuth к операциям, требующим токен.
func NewHandler(
	service account.Servicer,
	log *slog.Logger,
	middleware, authMiddleware huma.Middlewares,
	requireAuth func(http.Handler) http.Handler,
	maxUpload int64,
) *Handler {
	return &Handler{
		service:        service,
		log:            log.With(slog.String("component", "user_handler")),
		middleware:     middleware,
		authMiddleware: authMiddleware,
		requireAuth:    requireAuth,
		maxUpload:      maxUpload,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.profileOp(), h.profile)
	huma.Register(api, h.updateProfileOp(), h.updateProfile)
	huma.Register(api, h.changeEmailOp(), h.changeEmail)
	huma.Register(api, h.changePasswordOp(), h.changePassword)
	huma.Register(api, h.deleteOp(), h.delete)
}

// Mount регистрирует multipart-маршруты, которые huma не описывает
func (h *Handler) Mount(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/verify-voice", h.verifyVoice)
	r.With(h.requireAuth).Post("/user/photo", h.uploadPhoto)
	r.With(h.requireAuth).Post("/user/voice", h.uploadVoice)
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, token, err := h.service.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		h.log.Debug("login failed", "email", input.Body.Email, "error", err)
		return nil, response.Fail(err)
	}

	return &loginOutput{
		Body: AuthResponse{User: profileOf(u), Token: token, Message: "Login successful"},
	}, nil
}

func (h *Handler) profile(ctx context.Context, _ *struct{}) (*profileOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	u, err := h.service.Profile(ctx, userID)
	if err != nil {
		return nil, response.Fail(err)
	}
	return &profileOutput{Body: profileOf(u)}, nil
}

func (h *Handler) updateProfile(ctx context.Context, input *updateProfileInput) (*userOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	u, err := h.service.UpdateProfile(ctx, userID, input.Body.Username, input.Body.Email)
	if err != nil {
		return nil, response.Fail(err)
	}
	return &userOutput{Body: UserResponse{User: profileOf(u)}}, nil
}

func (h *Handler) changeEmail(ctx context.Context, input *changeEmailInput) (*userOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	u, err := h.service.ChangeEmail(ctx, userID, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, response.Fail(err)
	}
	return &userOutput{Body: UserResponse{User: profileOf(u)}}, nil
}

func (h *Handler) changePassword(ctx context.Context, input *changePasswordInput) (*messageOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.ChangePassword(ctx, userID, input.Body.CurrentPassword, input.Body.NewPassword); err != nil {
		return nil, response.Fail(err)
	}
	return &messageOutput{Body: MessageResponse{Message: "Password updated"}}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*messageOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, userID, input.Body.Password); err != nil {
		return nil, response.Fail(err)
	}
	h.log.Info("account deleted", "user_id", userID)
	return &messageOutput{Body: MessageResponse{Message: "Account deleted"}}, nil
}
