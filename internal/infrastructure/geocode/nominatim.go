package geocode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"

	"vera/internal/domain/location"
)

const (
	DefaultURL = "https://nominatim.openstreetmap.org"
	userAgent  = "vera-cli/1.0"

	// CacheTTL задает время жизни адреса в кеше, секунды
	CacheTTL = 24 * 60 * 60
)

// CacheMetrics считает попадания в кеш
type CacheMetrics interface {
	IncCacheHits()
	IncCacheMisses()
}

// Nominatim - обратный геокодер OpenStreetMap. Не чаще rps запросов в секунду.
type Nominatim struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	cache   Cache
	metrics CacheMetrics
	log     *slog.Logger
}

func NewNominatim(baseURL string, rps float64, cache Cache, metrics CacheMetrics, log *slog.Logger) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if rps <= 0 {
		rps = 1
	}
	return &Nominatim{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		cache:   cache,
		metrics: metrics,
		log:     log.With(slog.String("component", "geocode")),
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

// cacheKey округляет координаты до 4 знаков (около 11 м)
func cacheKey(p location.Point) string {
	return fmt.Sprintf("%.4f,%.4f", p.Latitude, p.Longitude)
}

func (n *Nominatim) Reverse(ctx context.Context, p location.Point) (*location.Place, error) {
	key := cacheKey(p)
	if raw, ok := n.cache.Get(key); ok {
		var place location.Place
		if err := json.Unmarshal(raw, &place); err == nil {
			n.metrics.IncCacheHits()
			return &place, nil
		}
	}
	n.metrics.IncCacheMisses()

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	place, err := n.fetch(ctx, p)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(place); err == nil {
		n.cache.Set(key, raw)
	}
	return place, nil
}

func (n *Nominatim) fetch(ctx context.Context, p location.Point) (*location.Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(p.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Longitude, 'f', -1, 64))
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса геокодера: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа геокодера: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("геокодер вернул статус %d", resp.StatusCode)
	}

	var r reverseResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа геокодера: %w", err)
	}
	if r.Error != "" {
		return nil, fmt.Errorf("геокодер: %s", r.Error)
	}

	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}
	if city == "" {
		city = r.Address.Village
	}

	n.log.Debug("reverse geocoded", "key", cacheKey(p), "address", r.DisplayName)
	return &location.Place{Address: r.DisplayName, City: city, Country: r.Address.Country}, nil
}
