package client

import (
	"context"
	"net/http"

	"vera/internal/domain/user"
)

var _ user.API = (*HTTPClient)(nil)

type registerBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	CIN      string `json:"cin,omitempty"`
}

func (h *HTTPClient) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResult, error) {
	var res user.AuthResult
	body := registerBody{Email: req.Email, Username: req.Username, CIN: req.CIN}
	if err := h.doJSON(ctx, false, http.MethodPost, "/auth/register", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// RegisterWithVoice отправляет регистрацию multipart-формой вместе с образцом голоса
func (h *HTTPClient) RegisterWithVoice(ctx context.Context, req user.RegisterRequest, voice user.Attachment) (*user.AuthResult, error) {
	fields := []formField{
		{"email", req.Email},
		{"username", req.Username},
	}
	if req.CIN != "" {
		fields = append(fields, formField{"cin", req.CIN})
	}

	var res user.AuthResult
	if err := h.doMultipart(ctx, false, "/auth/register", fields, voice, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTPClient) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResult, error) {
	var res user.AuthResult
	if err := h.doJSON(ctx, false, http.MethodPost, "/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTPClient) VerifyVoice(ctx context.Context, email string, voice user.Attachment) (*user.VoiceResult, error) {
	var res user.VoiceResult
	if err := h.doMultipart(ctx, false, "/auth/verify-voice", []formField{{"email", email}}, voice, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Profile возвращает профиль. Сервер отдает объект пользователя без обертки,
// обертка {user} тоже поддерживается.
func (h *HTTPClient) Profile(ctx context.Context) (*user.Profile, error) {
	var res struct {
		user.Profile
		User *user.Profile `json:"user"`
	}
	if err := h.doJSON(ctx, true, http.MethodGet, "/user/profile", nil, &res); err != nil {
		return nil, err
	}
	if res.User != nil {
		return res.User, nil
	}
	return &res.Profile, nil
}

type userEnvelope struct {
	User *user.Profile `json:"user"`
}

func (h *HTTPClient) UpdateProfile(ctx context.Context, patch user.ProfilePatch) (*user.Profile, error) {
	var res userEnvelope
	if err := h.doJSON(ctx, true, http.MethodPut, "/user/profile", patch, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

func (h *HTTPClient) ChangeEmail(ctx context.Context, req user.ChangeEmailRequest) (*user.Profile, error) {
	var res userEnvelope
	if err := h.doJSON(ctx, true, http.MethodPut, "/user/email", req, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

func (h *HTTPClient) ChangePassword(ctx context.Context, req user.ChangePasswordRequest) error {
	return h.doJSON(ctx, true, http.MethodPut, "/user/password", req, nil)
}

func (h *HTTPClient) UploadPhoto(ctx context.Context, photo user.Attachment) error {
	return h.doMultipart(ctx, true, "/user/photo", nil, photo, nil)
}

func (h *HTTPClient) UploadVoice(ctx context.Context, voice user.Attachment) error {
	return h.doMultipart(ctx, true, "/user/voice", nil, voice, nil)
}

func (h *HTTPClient) DeleteAccount(ctx context.Context, req user.DeleteAccountRequest) error {
	return h.doJSON(ctx, true, http.MethodDelete, "/user/delete", req, nil)
}
