package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"vera/internal/domain/storage"
)

var _ storage.Remote = (*HTTPClient)(nil)

func (h *HTTPClient) Files(ctx context.Context) ([]storage.File, error) {
	var res struct {
		Files []storage.File `json:"files"`
	}
	if err := h.doJSON(ctx, true, http.MethodGet, "/storage/files", nil, &res); err != nil {
		return nil, err
	}
	return res.Files, nil
}

// Download возвращает содержимое файла без разбора
func (h *HTTPClient) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := h.doRequest(ctx, request{
		method: http.MethodGet,
		path:   "/storage/download/" + url.PathEscape(fileID),
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return h.readBody(resp)
}

type uploadDataBody struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func (h *HTTPClient) UploadData(ctx context.Context, filename string, content []byte) (string, error) {
	var res struct {
		FileLink string `json:"file_link"`
	}
	body := uploadDataBody{Filename: filename, Content: string(content)}
	if err := h.doJSON(ctx, true, http.MethodPost, "/storage/upload-data", body, &res); err != nil {
		return "", err
	}
	return res.FileLink, nil
}

func (h *HTTPClient) UploadImage(ctx context.Context, endpoint string, img storage.ImageUpload) (string, error) {
	var res struct {
		FileID any `json:"file_id"`
	}
	if err := h.doJSON(ctx, true, http.MethodPost, endpoint, img, &res); err != nil {
		return "", err
	}

	// идентификатор иногда приходит числом
	switch v := res.FileID.(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("сервер не вернул идентификатор файла")
}

func (h *HTTPClient) DeleteFile(ctx context.Context, fileID string) error {
	return h.doJSON(ctx, true, http.MethodDelete, "/storage/delete/"+url.PathEscape(fileID), nil, nil)
}

func (h *HTTPClient) GetJSON(ctx context.Context, endpoint string, out any) error {
	return h.doJSON(ctx, true, http.MethodGet, endpoint, nil, out)
}

func (h *HTTPClient) PostJSON(ctx context.Context, endpoint string, in, out any) error {
	return h.doJSON(ctx, true, http.MethodPost, endpoint, in, out)
}
