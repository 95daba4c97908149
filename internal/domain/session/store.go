package session

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
	"golang.org/x/oauth2"

	"vera/internal/domain/user"
)

// Store хранит токен и профиль текущего пользователя
type Store struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewStore(repo Repository, log *slog.Logger) *Store {
	return &Store{
		repo: repo,
		log:  log.With(slog.String("component", "session")),
		now:  time.Now,
	}
}

func (s *Store) SaveToken(ctx context.Context, token string) error {
	if err := s.repo.Set(ctx, keyToken, []byte(token)); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	return nil
}

// Token возвращает сохраненный токен. Для JWT проверяется срок действия (подпись не проверяется).
func (s *Store) Token(ctx context.Context) (string, error) {
	raw, err := s.repo.Get(ctx, keyToken)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения токена: %w", err)
	}
	if len(raw) == 0 {
		return "", ErrNoToken
	}

	token := string(raw)
	if exp, ok := expiry(token); ok && !exp.After(s.now()) {
		s.log.Debug("stored token expired", "exp", exp)
		return "", ErrTokenExpired
	}
	return token, nil
}

func (s *Store) RemoveToken(ctx context.Context) error {
	if err := s.repo.Delete(ctx, keyToken); err != nil {
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}
	return nil
}

func (s *Store) SaveUser(ctx context.Context, p *user.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("ошибка сериализации профиля: %w", err)
	}
	if err := s.repo.Set(ctx, keyUser, data); err != nil {
		return fmt.Errorf("ошибка сохранения профиля: %w", err)
	}
	return nil
}

func (s *Store) User(ctx context.Context) (*user.Profile, error) {
	raw, err := s.repo.Get(ctx, keyUser)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения профиля: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoUser
	}

	var p user.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("ошибка разбора профиля: %w", err)
	}
	return &p, nil
}

func (s *Store) RemoveUser(ctx context.Context) error {
	if err := s.repo.Delete(ctx, keyUser); err != nil {
		return fmt.Errorf("ошибка удаления профиля: %w", err)
	}
	return nil
}

// ClearAuth удаляет токен и профиль
func (s *Store) ClearAuth(ctx context.Context) error {
	if err := s.repo.DeleteMany(ctx, keyToken, keyUser); err != nil {
		return fmt.Errorf("ошибка очистки сессии: %w", err)
	}
	s.log.Debug("session cleared")
	return nil
}

// TokenSource отдает сохраненный токен транспорту oauth2
func (s *Store) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, store: s}
}

type tokenSource struct {
	ctx   context.Context
	store *Store
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	token, err := ts.store.Token(ts.ctx)
	if err != nil {
		return nil, err
	}

	t := &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
	if exp, ok := expiry(token); ok {
		t.Expiry = exp
	}
	return t, nil
}

// expiry читает claim exp без проверки подписи. ok=false для непрозрачных токенов.
func expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
