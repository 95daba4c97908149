package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/exp/slog"
	"golang.org/x/oauth2"

	"vera/internal/app/client/config"
	"vera/internal/domain/session"
	"vera/internal/domain/storage"
	"vera/internal/domain/user"
	"vera/internal/infrastructure/metrics"
)

// ErrTransport - сбой сети, запрос мог не дойти до сервера
var ErrTransport = storage.ErrTransport

// ServerError - ошибка, которую вернул сервер в поле error
type ServerError = storage.ServerError

// TokenSourcer отдает токен текущей сессии
type TokenSourcer interface {
	TokenSource(ctx context.Context) oauth2.TokenSource
}

type HTTPClient struct {
	base      http.RoundTripper
	timeout   time.Duration
	tokens    TokenSourcer
	metrics   metrics.Provider
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, tokens TokenSourcer, m metrics.Provider, log *slog.Logger) *HTTPClient {
	return &HTTPClient{
		base: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
		timeout:   cfg.RequestTimeout(),
		tokens:    tokens,
		metrics:   m,
		log:       log.With(slog.String("component", "http")),
		baseURL:   cfg.BaseURL,
		userAgent: "Vera-CLI/1.0",
	}
}

// client возвращает HTTP-клиент. Для авторизованных запросов заголовок
// Authorization добавляет oauth2.Transport из токена сессии.
func (h *HTTPClient) client(ctx context.Context, authed bool) *http.Client {
	if !authed {
		return &http.Client{Timeout: h.timeout, Transport: h.base}
	}
	return &http.Client{
		Timeout: h.timeout,
		Transport: &oauth2.Transport{
			Source: h.tokens.TokenSource(ctx),
			Base:   h.base,
		},
	}
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	authed      bool
}

func (h *HTTPClient) doRequest(ctx context.Context, r request) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, h.baseURL+r.path, r.body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	h.log.Debug("Отправка запроса",
		"method", r.method,
		"url", req.URL.String(),
	)

	started := time.Now()
	resp, err := h.client(ctx, r.authed).Do(req)
	if err != nil {
		// нет токена: запрос не отправлялся
		if errors.Is(err, session.ErrNoToken) || errors.Is(err, session.ErrTokenExpired) {
			return nil, unwrapURLError(err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			h.metrics.ObserveRequest(routeOf(r.path), 0, time.Since(started))
			return nil, fmt.Errorf("%w: %w", ErrTransport, ctxErr)
		}
		h.metrics.ObserveRequest(routeOf(r.path), 0, time.Since(started))
		return nil, fmt.Errorf("%w: не удалось выполнить запрос: %v", ErrTransport, err)
	}

	h.metrics.ObserveRequest(routeOf(r.path), resp.StatusCode, time.Since(started))
	return resp, nil
}

// parseResponse разбирает ответ. Непустое поле error означает ошибку даже при статусе 2xx.
func (h *HTTPClient) parseResponse(resp *http.Response, result any) error {
	body, err := h.readBody(resp)
	if err != nil {
		return err
	}

	if result != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}
	return nil
}

// readBody читает тело и превращает ответ с ошибкой в *ServerError
func (h *HTTPClient) readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка чтения ответа: %v", ErrTransport, err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"size", len(body),
	)

	if msg := errorMessage(body); msg != "" {
		return nil, &ServerError{Status: resp.StatusCode, Message: msg}
	}
	if resp.StatusCode >= 400 {
		return nil, &ServerError{Status: resp.StatusCode}
	}
	return body, nil
}

func (h *HTTPClient) doJSON(ctx context.Context, authed bool, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := h.doRequest(ctx, request{
		method:      method,
		path:        path,
		body:        body,
		contentType: contentType,
		authed:      authed,
	})
	if err != nil {
		return err
	}
	return h.parseResponse(resp, out)
}

type formField struct {
	name, value string
}

// doMultipart отправляет поля формы и один файл
func (h *HTTPClient) doMultipart(ctx context.Context, authed bool, path string, fields []formField, file user.Attachment, out any) error {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return fmt.Errorf("ошибка чтения файла %s: %w", file.Path, err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("ошибка формирования формы: %w", err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.FileName))
	header.Set("Content-Type", file.ContentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("ошибка формирования формы: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("ошибка формирования формы: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("ошибка формирования формы: %w", err)
	}

	resp, err := h.doRequest(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        &buf,
		contentType: w.FormDataContentType(),
		authed:      authed,
	})
	if err != nil {
		return err
	}
	return h.parseResponse(resp, out)
}

// errorMessage достает поле error из JSON-ответа
func errorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}

	var env struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return ""
	}

	switch v := env.Error.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			return msg
		}
	}
	return fmt.Sprint(env.Error)
}

func routeOf(path string) string {
	for _, prefix := range []string{"/storage/download/", "/storage/delete/"} {
		if strings.HasPrefix(path, prefix) {
			return prefix + ":id"
		}
	}
	return path
}

func unwrapURLError(err error) error {
	for _, target := range []error{session.ErrNoToken, session.ErrTokenExpired} {
		if errors.Is(err, target) {
			return target
		}
	}
	return err
}
