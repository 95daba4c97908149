package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider собирает метрики клиента и dev-сервера
type Provider interface {
	ObserveRequest(endpoint string, status int, duration time.Duration)
	IncSamples(result string)
	IncCacheHits()
	IncCacheMisses()
	Handler() http.Handler
	WriteToTextfile(path string) error
}

type prometheusProvider struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	samplesTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// New создает провайдер метрик. namespace - префикс метрик ("vera_client", "vera_server").
// При enabled=false возвращается noop-реализация.
func New(namespace string, enabled bool) Provider {
	if !enabled {
		return &noopMetrics{}
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &prometheusProvider{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),

		samplesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_samples_total",
			Help:      "Location samples by result",
		}, []string{"result"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_hits_total",
			Help:      "Total number of geocode cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_misses_total",
			Help:      "Total number of geocode cache misses",
		}),
	}
}

func (m *prometheusProvider) ObserveRequest(endpoint string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(endpoint, StatusBucket(status)).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *prometheusProvider) IncSamples(result string) {
	m.samplesTotal.WithLabelValues(result).Inc()
}

func (m *prometheusProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *prometheusProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *prometheusProvider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteToTextfile сохраняет метрики в формате textfile-коллектора node_exporter
func (m *prometheusProvider) WriteToTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// StatusBucket сворачивает код ответа в класс (2xx, 4xx, ...). Код 0 означает сетевую ошибку.
func StatusBucket(code int) string {
	switch {
	case code == 0:
		return "error"
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

type noopMetrics struct{}

func (n *noopMetrics) ObserveRequest(_ string, _ int, _ time.Duration) {}
func (n *noopMetrics) IncSamples(_ string)                             {}
func (n *noopMetrics) IncCacheHits()                                   {}
func (n *noopMetrics) IncCacheMisses()                                 {}
func (n *noopMetrics) Handler() http.Handler                           { return http.NotFoundHandler() }
func (n *noopMetrics) WriteToTextfile(_ string) error                  { return nil }
