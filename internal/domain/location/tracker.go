package location

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"vera/internal/domain/storage"
)

// DefaultInterval - период автоматических измерений
const DefaultInterval = 3 * time.Minute

// Locator определяет текущие координаты устройства
type Locator interface {
	Locate(ctx context.Context) (Point, error)
}

// Geocoder превращает координаты в адрес
type Geocoder interface {
	Reverse(ctx context.Context, p Point) (*Place, error)
}

// Permission возвращает ErrPermissionDenied, если доступ к местоположению запрещен
type Permission interface {
	Request(ctx context.Context) error
}

type Updater interface {
	Update(ctx context.Context, sample Sample) error
}

type SampleCounter interface {
	IncSamples(result string)
}

// Tracker периодически определяет местоположение и отправляет его на сервер
type Tracker struct {
	locator    Locator
	geocoder   Geocoder
	permission Permission
	updater    Updater
	metrics    SampleCounter
	interval   time.Duration
	log        *slog.Logger
	now        func() time.Time

	// OnPermissionDenied вызывается один раз после отказа в доступе
	OnPermissionDenied func()

	mu       sync.Mutex
	enabled  bool
	prompted bool
	current  *Sample
}

func NewTracker(
	locator Locator,
	geocoder Geocoder,
	permission Permission,
	updater Updater,
	metrics SampleCounter,
	interval time.Duration,
	log *slog.Logger,
) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Tracker{
		locator:    locator,
		geocoder:   geocoder,
		permission: permission,
		updater:    updater,
		metrics:    metrics,
		interval:   interval,
		log:        log.With(slog.String("component", "tracker")),
		now:        time.Now,
		enabled:    true,
	}
}

// Run делает измерение сразу и затем раз в interval, пока не отменен ctx
func (t *Tracker) Run(ctx context.Context) {
	t.log.Info("Запуск отслеживания местоположения", "interval", t.interval)

	t.tick(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.log.Info("Отслеживание местоположения остановлено")
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

func (t *Tracker) tick(ctx context.Context) {
	if !t.Enabled() {
		t.log.Debug("tracker disabled, tick skipped")
		return
	}
	if _, err := t.sample(ctx); err != nil {
		t.log.Warn("Ошибка определения местоположения", "error", err)
	}
}

// Refresh снова включает отслеживание и сразу делает измерение
func (t *Tracker) Refresh(ctx context.Context) (*Sample, error) {
	t.mu.Lock()
	t.enabled = true
	t.prompted = false
	t.mu.Unlock()

	return t.sample(ctx)
}

// SetManual отправляет координаты, введенные пользователем
func (t *Tracker) SetManual(ctx context.Context, latText, lonText string) (*Sample, error) {
	p, err := ParseCoordinates(latText, lonText)
	if err != nil {
		return nil, err
	}
	return t.push(ctx, p, SourceManual)
}

// Current возвращает копию последнего отправленного измерения
func (t *Tracker) Current() *Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	c := *t.current
	return &c
}

func (t *Tracker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

func (t *Tracker) sample(ctx context.Context) (*Sample, error) {
	if err := t.permission.Request(ctx); err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			t.deny()
		}
		t.metrics.IncSamples("denied")
		return nil, err
	}

	p, err := t.locator.Locate(ctx)
	if err != nil {
		t.metrics.IncSamples("error")
		return nil, fmt.Errorf("ошибка определения координат: %w", err)
	}

	return t.push(ctx, p, SourceAutomatic)
}

func (t *Tracker) push(ctx context.Context, p Point, source Source) (*Sample, error) {
	s := Sample{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Timestamp: storage.At(t.now()),
		Source:    source,
	}

	place, err := t.geocoder.Reverse(ctx, p)
	if err != nil || place == nil || place.Address == "" {
		if err != nil {
			t.log.Debug("reverse geocoding failed, using coordinates", "error", err)
		}
		s.Address = FormatCoordinates(p)
	} else {
		s.Address, s.City, s.Country = place.Address, place.City, place.Country
	}

	if err := t.updater.Update(ctx, s); err != nil {
		t.metrics.IncSamples("error")
		return nil, err
	}

	t.mu.Lock()
	t.current = &s
	t.mu.Unlock()

	t.metrics.IncSamples("ok")
	t.log.Debug("location sample sent", "address", s.Address, "source", s.Source)
	return &s, nil
}

func (t *Tracker) deny() {
	t.mu.Lock()
	t.enabled = false
	notify := !t.prompted
	t.prompted = true
	t.mu.Unlock()

	if notify && t.OnPermissionDenied != nil {
		t.OnPermissionDenied()
	}
}
