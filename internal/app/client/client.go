package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"vera/internal/app/client/config"
	"vera/internal/app/client/crypto"
	"vera/internal/domain/chat"
	"vera/internal/domain/clothing"
	"vera/internal/domain/credential"
	"vera/internal/domain/location"
	"vera/internal/domain/person"
	"vera/internal/domain/session"
	"vera/internal/domain/user"
	"vera/internal/domain/voice"
	"vera/internal/infrastructure/metrics"
	"vera/internal/infrastructure/recorder"
	"vera/internal/utils/logger"
)

const connectivityTimeout = 5 * time.Second

var ErrOffline = errors.New("no internet connection")

type App struct {
	config   *config.Config
	log      *slog.Logger
	metrics  metrics.Provider
	sessions *session.Store
	vault    *crypto.Vault
	recorder voice.Recorder
	probe    *http.Client

	Auth        *user.AuthService
	Credentials *credential.Service
	Clothing    *clothing.Service
	Persons     *person.Service
	Location    *location.Service
	Tracker     *location.Tracker
	Chat        *chat.Service

	wg     gosync.WaitGroup
	cancel context.CancelFunc
}

func NewApp(
	cfg *config.Config,
	log *slog.Logger,
	m metrics.Provider,
	sessions *session.Store,
	vault *crypto.Vault,
	rec voice.Recorder,
	auth *user.AuthService,
	credentials *credential.Service,
	clothes *clothing.Service,
	persons *person.Service,
	loc *location.Service,
	tracker *location.Tracker,
	chatService *chat.Service,
) *App {
	return &App{
		config:      cfg,
		log:         log,
		metrics:     m,
		sessions:    sessions,
		vault:       vault,
		recorder:    rec,
		probe:       &http.Client{Timeout: connectivityTimeout},
		Auth:        auth,
		Credentials: credentials,
		Clothing:    clothes,
		Persons:     persons,
		Location:    loc,
		Tracker:     tracker,
		Chat:        chatService,
	}
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Log() *slog.Logger {
	return a.log
}

func (a *App) Vault() *crypto.Vault {
	return a.vault
}

// CurrentUser возвращает профиль из локальной сессии
func (a *App) CurrentUser(ctx context.Context) (*user.Profile, error) {
	return a.sessions.User(ctx)
}

// CheckConnectivity делает HEAD-запрос к CONNECTIVITY_URL с таймаутом 5 секунд
func (a *App) CheckConnectivity(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectivityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, a.config.ConnectivityURL, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := a.probe.Do(req)
	if err != nil {
		a.log.Debug("Проверка соединения не прошла", logger.Err(err))
		return fmt.Errorf("%w: %v", ErrOffline, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: status %d", ErrOffline, resp.StatusCode)
	}
	return nil
}

// Recorder выбирает источник записи голоса: готовый файл или настроенная команда
func (a *App) Recorder(voiceFile string) (voice.Recorder, error) {
	if voiceFile != "" {
		return &recorder.File{Source: voiceFile}, nil
	}
	if a.recorder == nil {
		return nil, recorder.ErrNoCommand
	}
	return a.recorder, nil
}

// RegisterWithVoice записывает образец голоса и регистрирует пользователя.
// Запись удаляется при любом исходе.
func (a *App) RegisterWithVoice(ctx context.Context, req user.RegisterRequest, rec voice.Recorder) (*user.AuthResult, error) {
	clip, err := voice.Capture(ctx, rec, os.TempDir())
	if err != nil {
		return nil, err
	}
	defer a.discard(clip)

	req.VoicePath = clip.Path
	return a.Auth.Register(ctx, req)
}

// VoiceLogin записывает голос и проверяет его на сервере
func (a *App) VoiceLogin(ctx context.Context, email string, rec voice.Recorder) (*user.VoiceResult, error) {
	clip, err := voice.Capture(ctx, rec, os.TempDir())
	if err != nil {
		return nil, err
	}
	defer a.discard(clip)

	return a.Auth.VerifyVoice(ctx, email, clip.Path)
}

func (a *App) UpdateVoice(ctx context.Context, rec voice.Recorder) error {
	clip, err := voice.Capture(ctx, rec, os.TempDir())
	if err != nil {
		return err
	}
	defer a.discard(clip)

	return a.Auth.UpdateVoice(ctx, clip.Path)
}

func (a *App) discard(clip *voice.Clip) {
	if err := voice.Discard(clip); err != nil {
		a.log.Warn("Не удалось удалить запись голоса", logger.Err(err))
	}
}

// UnlockVault открывает ключ хранилища карт
func (a *App) UnlockVault(passphrase string) error {
	if err := a.vault.Unlock(passphrase); err != nil {
		return fmt.Errorf("ошибка разблокировки хранилища: %w", err)
	}
	return nil
}

// StartTracking запускает отслеживание местоположения в фоне
func (a *App) StartTracking(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.Tracker.Run(ctx)
	}()
}

// Shutdown останавливает фоновые задачи и сохраняет метрики
func (a *App) Shutdown() {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()

	a.vault.Lock()
	if err := a.metrics.WriteToTextfile(a.config.MetricsFile); err != nil {
		a.log.Warn("Не удалось сохранить метрики", logger.Err(err))
	}
	a.log.Debug("Клиент завершил работу")
}
