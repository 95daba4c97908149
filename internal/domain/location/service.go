package location

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"vera/internal/domain/storage"
)

const (
	locationEndpoint = "/location"
	historyEndpoint  = "/location/history"
)

type Service struct {
	remote storage.Remote
	log    *slog.Logger
	now    func() time.Time
}

func NewService(remote storage.Remote, log *slog.Logger) *Service {
	return &Service{
		remote: remote,
		log:    log.With(slog.String("component", "location")),
		now:    time.Now,
	}
}

// Current возвращает текущее местоположение и историю
func (s *Service) Current(ctx context.Context) (*Overview, error) {
	var ov Overview
	if err := s.remote.GetJSON(ctx, locationEndpoint, &ov); err != nil {
		return nil, fmt.Errorf("ошибка загрузки местоположения: %w", err)
	}
	if ov.History == nil {
		ov.History = []HistoryEntry{}
	}
	return &ov, nil
}

// Update отправляет измерение. Пустые timestamp и source заменяются на текущее время и manual.
func (s *Service) Update(ctx context.Context, sample Sample) error {
	if sample.Timestamp.IsZero() {
		sample.Timestamp = storage.At(s.now())
	}
	if sample.Source == "" {
		sample.Source = SourceManual
	}

	var resp struct {
		Message      string `json:"message"`
		HistoryCount int    `json:"history_count"`
	}
	if err := s.remote.PostJSON(ctx, locationEndpoint, sample, &resp); err != nil {
		return fmt.Errorf("ошибка обновления местоположения: %w", err)
	}

	s.log.Debug("location updated", "address", sample.Address, "source", sample.Source, "history", resp.HistoryCount)
	return nil
}

func (s *Service) History(ctx context.Context) ([]HistoryEntry, error) {
	var resp struct {
		History []HistoryEntry `json:"location_history"`
	}
	if err := s.remote.GetJSON(ctx, historyEndpoint, &resp); err != nil {
		return nil, fmt.Errorf("ошибка загрузки истории местоположений: %w", err)
	}
	if resp.History == nil {
		return []HistoryEntry{}, nil
	}
	return resp.History, nil
}
