package client

import (
	"fmt"

	"golang.org/x/exp/slog"

	"vera/internal/app/client/config"
	"vera/internal/app/client/crypto"
	"vera/internal/domain/credential"
	"vera/internal/domain/location"
	"vera/internal/domain/session"
	"vera/internal/domain/voice"
	"vera/internal/infrastructure/geocode"
	"vera/internal/infrastructure/locator"
	"vera/internal/infrastructure/metrics"
	"vera/internal/infrastructure/recorder"
	"vera/internal/infrastructure/storage/sqlite"
	"vera/internal/utils/logger"
)

func ProvideLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Env)
}

// ProvideMetrics включает метрики, только если задан файл для их выгрузки
func ProvideMetrics(cfg *config.Config) metrics.Provider {
	return metrics.New("vera_client", cfg.MetricsFile != "")
}

func ProvideDB(cfg *config.Config, log *slog.Logger) (*sqlite.Storage, func(), error) {
	db, err := sqlite.New(cfg.DBPath, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Warn("Ошибка закрытия базы", logger.Err(err))
		}
	}
	return db, cleanup, nil
}

func ProvideSessionRepository(db *sqlite.Storage) session.Repository {
	return sqlite.NewKVRepository(db)
}

func ProvideVault(cfg *config.Config) (*crypto.Vault, error) {
	v, err := crypto.NewVault(cfg.VaultKeyPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации ключа хранилища: %w", err)
	}
	return v, nil
}

// ProvideSealer возвращает nil, пока ключ хранилища не создан: карты тогда хранятся открыто
func ProvideSealer(v *crypto.Vault) credential.Sealer {
	if !v.IsInitialized() {
		return nil
	}
	return v
}

// ProvideRecorder возвращает nil, если команда записи не настроена
func ProvideRecorder(cfg *config.Config) voice.Recorder {
	rec, err := recorder.NewCommand(cfg.RecorderCommand)
	if err != nil {
		return nil
	}
	return rec
}

func ProvideLocator(cfg *config.Config) location.Locator {
	if cfg.HasStaticLocation() {
		return locator.NewStatic(cfg.StaticLatitude, cfg.StaticLongitude)
	}
	return locator.NewIPLocator(cfg.IPLocatorURL)
}

func ProvidePermission(cfg *config.Config) location.Permission {
	return locator.Permission{Enabled: cfg.LocationEnabled}
}

func ProvideGeocoder(cfg *config.Config, m metrics.Provider, log *slog.Logger) location.Geocoder {
	cache := geocode.NewCache(cfg.GeocodeCacheMB, geocode.CacheTTL)
	return geocode.NewNominatim(cfg.GeocoderURL, cfg.GeocoderRPS, cache, m, log)
}

func ProvideTracker(
	cfg *config.Config,
	loc location.Locator,
	geo location.Geocoder,
	perm location.Permission,
	svc *location.Service,
	m metrics.Provider,
	log *slog.Logger,
) *location.Tracker {
	return location.NewTracker(loc, geo, perm, svc, m, cfg.TrackerInterval(), log)
}
