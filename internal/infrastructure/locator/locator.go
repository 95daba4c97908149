package locator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"vera/internal/domain/location"
)

const DefaultIPLocatorURL = "http://ip-api.com/json/"

// Static всегда возвращает координаты из конфигурации
type Static struct {
	Point location.Point
}

func NewStatic(lat, lon float64) *Static {
	return &Static{Point: location.Point{Latitude: lat, Longitude: lon}}
}

func (s *Static) Locate(_ context.Context) (location.Point, error) {
	return s.Point, nil
}

// IPLocator определяет примерное местоположение по внешнему IP (формат ip-api.com)
type IPLocator struct {
	url    string
	client *http.Client
}

func NewIPLocator(url string) *IPLocator {
	if url == "" {
		url = DefaultIPLocatorURL
	}
	return &IPLocator{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type ipResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (l *IPLocator) Locate(ctx context.Context) (location.Point, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return location.Point{}, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return location.Point{}, fmt.Errorf("ошибка определения местоположения по IP: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return location.Point{}, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return location.Point{}, fmt.Errorf("сервис геолокации вернул статус %d", resp.StatusCode)
	}

	var r ipResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return location.Point{}, fmt.Errorf("ошибка разбора ответа: %w", err)
	}
	if r.Status != "" && r.Status != "success" {
		return location.Point{}, fmt.Errorf("сервис геолокации: %s", r.Message)
	}

	return location.Point{Latitude: r.Lat, Longitude: r.Lon}, nil
}

// Permission разрешает доступ к местоположению в зависимости от настройки LOCATION_ENABLED
type Permission struct {
	Enabled bool
}

func (p Permission) Request(_ context.Context) error {
	if !p.Enabled {
		return location.ErrPermissionDenied
	}
	return nil
}
