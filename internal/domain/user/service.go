package user

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slog"
)

// API - HTTP-методы бэкенда, которые использует AuthService
type API interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	RegisterWithVoice(ctx context.Context, req RegisterRequest, voice Attachment) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	VerifyVoice(ctx context.Context, email string, voice Attachment) (*VoiceResult, error)
	Profile(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, patch ProfilePatch) (*Profile, error)
	ChangeEmail(ctx context.Context, req ChangeEmailRequest) (*Profile, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	UploadPhoto(ctx context.Context, photo Attachment) error
	UploadVoice(ctx context.Context, voice Attachment) error
	DeleteAccount(ctx context.Context, req DeleteAccountRequest) error
}

// Sessions - локальное хранилище сессии
type Sessions interface {
	SaveToken(ctx context.Context, token string) error
	SaveUser(ctx context.Context, p *Profile) error
	Token(ctx context.Context) (string, error)
	ClearAuth(ctx context.Context) error
}

type Servicer interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyVoice(ctx context.Context, email, voicePath string) (*VoiceResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, patch ProfilePatch) (*Profile, error)
	State(ctx context.Context) State
}

type AuthService struct {
	api       API
	sessions  Sessions
	validator Validator
	log       *slog.Logger
	pending   atomic.Int32
	now       func() time.Time
}

func NewAuthService(api API, sessions Sessions, validator Validator, log *slog.Logger) *AuthService {
	return &AuthService{
		api:       api,
		sessions:  sessions,
		validator: validator,
		log:       log.With(slog.String("component", "auth")),
		now:       time.Now,
	}
}

// State вычисляет состояние: идет обмен учетных данных на токен, есть сохраненный токен, или нет
func (s *AuthService) State(ctx context.Context) State {
	if s.pending.Load() > 0 {
		return Authenticating
	}
	if _, err := s.sessions.Token(ctx); err == nil {
		return Authenticated
	}
	return Anonymous
}

func (s *AuthService) begin() func() {
	s.pending.Add(1)
	return func() { s.pending.Add(-1) }
}

// Register регистрирует пользователя. С образцом голоса запрос уходит multipart-формой,
// чтобы сервер сохранил биометрический эталон, без него - обычным JSON.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := s.validator.ValidateRegister(req); err != nil {
		s.log.Debug("validation failed", "email", req.Email, "error", err)
		return nil, err
	}

	defer s.begin()()

	var (
		res *AuthResult
		err error
	)
	if req.VoicePath != "" {
		res, err = s.api.RegisterWithVoice(ctx, req, Attachment{
			Field:       "voice",
			Path:        req.VoicePath,
			FileName:    fmt.Sprintf("voice_registration_%d.mp3", s.now().UnixMilli()),
			ContentType: "audio/mpeg",
		})
	} else {
		res, err = s.api.Register(ctx, req)
	}
	if err != nil {
		s.log.Warn("registration failed", "email", req.Email, "error", err)
		return nil, userFacing(err, ErrRegisterFailed)
	}

	if res.Token != "" {
		if err := s.persist(ctx, res.Token, res.User); err != nil {
			return nil, err
		}
	}

	s.log.Info("user registered", "email", req.Email, "with_token", res.Token != "")
	return res, nil
}

// Login выполняет вход по паролю. Пустой пароль заменяется VoicePasswordSentinel.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if password == "" {
		password = VoicePasswordSentinel
	}
	req := LoginRequest{Email: email, Password: password}
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, err
	}

	defer s.begin()()

	res, err := s.api.Login(ctx, req)
	if err != nil {
		s.log.Warn("login failed", "email", email, "error", err)
		return nil, userFacing(err, ErrLoginFailed)
	}

	if res.Token != "" {
		if err := s.persist(ctx, res.Token, res.User); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// VerifyVoice сравнивает запись голоса с эталоном. Сессия сохраняется только при совпадении.
// Удаление локальной записи остается за вызывающим кодом.
func (s *AuthService) VerifyVoice(ctx context.Context, email, voicePath string) (*VoiceResult, error) {
	if err := s.validator.Validate(&struct {
		Email string `validate:"required|email"`
		Voice string `validate:"required"`
	}{Email: email, Voice: voicePath}); err != nil {
		return nil, err
	}

	defer s.begin()()

	res, err := s.api.VerifyVoice(ctx, email, Attachment{
		Field:       "voice",
		Path:        voicePath,
		FileName:    fmt.Sprintf("voice_login_%d.mp3", s.now().UnixMilli()),
		ContentType: "audio/mp3",
	})
	if err != nil {
		s.log.Warn("voice verification failed", "email", email, "error", err)
		return nil, userFacing(err, ErrVoiceFailed)
	}

	if res.Verified && res.Token != "" {
		if err := s.persist(ctx, res.Token, res.User); err != nil {
			return nil, err
		}
	}

	s.log.Info("voice verification", "email", email, "verified", res.Verified, "similarity", res.Similarity())
	return res, nil
}

// Logout очищает локальную сессию, сервер не уведомляется
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.ClearAuth(ctx); err != nil {
		return fmt.Errorf("ошибка очистки сессии: %w", err)
	}
	return nil
}

// Profile запрашивает профиль и обновляет кеш
func (s *AuthService) Profile(ctx context.Context) (*Profile, error) {
	p, err := s.api.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SaveUser(ctx, p); err != nil {
		return nil, fmt.Errorf("ошибка сохранения профиля: %w", err)
	}
	return p, nil
}

// UpdateProfile отправляет изменения; кеш обновляется, если сервер вернул пользователя
func (s *AuthService) UpdateProfile(ctx context.Context, patch ProfilePatch) (*Profile, error) {
	p, err := s.api.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, err
	}
	if p != nil {
		if err := s.sessions.SaveUser(ctx, p); err != nil {
			return nil, fmt.Errorf("ошибка сохранения профиля: %w", err)
		}
	}
	return p, nil
}

func (s *AuthService) ChangeEmail(ctx context.Context, email, password string) (*Profile, error) {
	req := ChangeEmailRequest{Email: email, Password: password}
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	p, err := s.api.ChangeEmail(ctx, req)
	if err != nil {
		return nil, err
	}
	if p != nil {
		if err := s.sessions.SaveUser(ctx, p); err != nil {
			return nil, fmt.Errorf("ошибка сохранения профиля: %w", err)
		}
	}
	return p, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	req := ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	if err := s.validator.Validate(&req); err != nil {
		return err
	}
	return s.api.ChangePassword(ctx, req)
}

func (s *AuthService) UpdatePhoto(ctx context.Context, path string) error {
	return s.api.UploadPhoto(ctx, Attachment{
		Field:       "photo",
		Path:        path,
		FileName:    fmt.Sprintf("face_%d%s", s.now().UnixMilli(), extOr(path, ".jpg")),
		ContentType: "image/jpeg",
	})
}

func (s *AuthService) UpdateVoice(ctx context.Context, path string) error {
	return s.api.UploadVoice(ctx, Attachment{
		Field:       "voice",
		Path:        path,
		FileName:    fmt.Sprintf("voice_%d.mp3", s.now().UnixMilli()),
		ContentType: "audio/mpeg",
	})
}

// DeleteAccount удаляет аккаунт на сервере и после подтверждения очищает сессию
func (s *AuthService) DeleteAccount(ctx context.Context, password string) error {
	if err := s.api.DeleteAccount(ctx, DeleteAccountRequest{Password: password}); err != nil {
		return err
	}
	return s.Logout(ctx)
}

func (s *AuthService) persist(ctx context.Context, token string, p *Profile) error {
	if err := s.sessions.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	if p != nil {
		if err := s.sessions.SaveUser(ctx, p); err != nil {
			return fmt.Errorf("ошибка сохранения профиля: %w", err)
		}
	}
	return nil
}

func extOr(path, fallback string) string {
	if ext := filepath.Ext(path); ext != "" {
		return ext
	}
	return fallback
}
