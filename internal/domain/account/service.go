package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/validate"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// DefaultVoiceThreshold - минимальное сходство голоса для входа
const DefaultVoiceThreshold = 0.8

type Servicer interface {
	Register(ctx context.Context, in RegisterInput) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
	VerifyVoice(ctx context.Context, email string, sample []byte) (*VoiceResult, error)
	Authorize(ctx context.Context, token string) (int64, error)
	Profile(ctx context.Context, id int64) (*User, error)
	UpdateProfile(ctx context.Context, id int64, username, email string) (*User, error)
	ChangeEmail(ctx context.Context, id int64, email, password string) (*User, error)
	ChangePassword(ctx context.Context, id int64, current, next string) error
	SetPhoto(ctx context.Context, id int64, photo []byte) error
	SetVoice(ctx context.Context, id int64, sample []byte) error
	Delete(ctx context.Context, id int64, password string) error
}

type Service struct {
	repo      Repository
	tokens    *Tokens
	validator Validator
	threshold float64
	log       *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, tokens *Tokens, validator Validator, threshold float64, log *slog.Logger) *Service {
	if threshold <= 0 {
		threshold = DefaultVoiceThreshold
	}
	return &Service{
		repo:      repo,
		tokens:    tokens,
		validator: validator,
		threshold: threshold,
		log:       log.With(slog.String("component", "account")),
		now:       time.Now,
	}
}

// Register создает пользователя. CIN служит паролем для входа по email.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validator.ValidateRegister(in); err != nil {
		s.log.Debug("validation failed", "email", in.Email, "error", err)
		return nil, "", err
	}

	if _, err := s.repo.UserByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}

	u := &User{
		Email:      in.Email,
		Username:   strings.TrimSpace(in.Username),
		VoicePrint: in.Voice,
		FolderLink: "folder/" + uuid.NewString(),
		CreatedAt:  s.now().UTC(),
	}
	u.UpdatedAt = u.CreatedAt

	if in.CIN != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.CIN), bcrypt.DefaultCost)
		if err != nil {
			return nil, "", fmt.Errorf("Хэш пароля: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user registered", "id", u.ID, "voice", len(in.Voice) > 0)
	return u, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidAuth
		}
		return nil, "", err
	}

	if !u.HasPassword() {
		return nil, "", ErrVoiceOnly
	}
	if password == "" || password == VoicePasswordSentinel {
		return nil, "", ErrInvalidAuth
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidAuth
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// VerifyVoice сравнивает образец с сохраненным. Несовпадение не является ошибкой.
func (s *Service) VerifyVoice(ctx context.Context, email string, sample []byte) (*VoiceResult, error) {
	u, err := s.repo.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if len(u.VoicePrint) == 0 {
		return nil, ErrNoVoiceprint
	}

	res := &VoiceResult{Similarity: Similarity(u.VoicePrint, sample)}
	s.log.Debug("voice compared", "id", u.ID, "similarity", res.Similarity)
	if res.Similarity < s.threshold {
		return res, nil
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	res.Verified = true
	res.User = u
	res.Token = token
	return res, nil
}

// Authorize проверяет токен и существование пользователя
func (s *Service) Authorize(ctx context.Context, token string) (int64, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return 0, err
	}
	if _, err := s.repo.UserByID(ctx, id); err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

func (s *Service) Profile(ctx context.Context, id int64) (*User, error) {
	return s.repo.UserByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, username, email string) (*User, error) {
	u, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if username = strings.TrimSpace(username); username != "" {
		u.Username = username
	}
	if email != "" {
		if err := s.setEmail(ctx, u, email); err != nil {
			return nil, err
		}
	}
	return s.save(ctx, u)
}

func (s *Service) ChangeEmail(ctx context.Context, id int64, email, password string) (*User, error) {
	u, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPassword(u, password); err != nil {
		return nil, err
	}
	if err := s.setEmail(ctx, u, email); err != nil {
		return nil, err
	}
	return s.save(ctx, u)
}

func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	u, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return err
	}
	if u.HasPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
			return ErrWrongPassword
		}
	}
	if err := s.validator.ValidatePassword(next); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("Хэш пароля: %w", err)
	}
	u.PasswordHash = string(hash)
	_, err = s.save(ctx, u)
	return err
}

func (s *Service) SetPhoto(ctx context.Context, id int64, photo []byte) error {
	u, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return err
	}
	u.Photo = photo
	_, err = s.save(ctx, u)
	return err
}

func (s *Service) SetVoice(ctx context.Context, id int64, sample []byte) error {
	u, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return err
	}
	u.VoicePrint = sample
	_, err = s.save(ctx, u)
	return err
}

// Delete удаляет аккаунт вместе с файлами (каскадно в хранилище)
func (s *Service) Delete(ctx context.Context, id int64, password string) error {
	u, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkPassword(u, password); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", "id", id)
	return nil
}

// checkPassword пропускает аккаунты без пароля (только голос)
func (s *Service) checkPassword(u *User, password string) error {
	if !u.HasPassword() {
		return nil
	}
	if password == "" {
		return ErrPasswordMissing
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

func (s *Service) setEmail(ctx context.Context, u *User, email string) error {
	email = normalizeEmail(email)
	if !validate.IsEmail(email) {
		return fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if email == u.Email {
		return nil
	}
	if other, err := s.repo.UserByEmail(ctx, email); err == nil && other.ID != u.ID {
		return ErrEmailTaken
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	u.Email = email
	return nil
}

func (s *Service) save(ctx context.Context, u *User) (*User, error) {
	u.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
