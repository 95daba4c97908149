package storage

import (
	"encoding/base64"
	"fmt"
	"os"
)

// ReadImageBase64 читает локальное изображение и кодирует его для передачи в JSON
func ReadImageBase64(uri string) (string, error) {
	data, err := os.ReadFile(LocalPath(uri))
	if err != nil {
		return "", fmt.Errorf("ошибка чтения изображения: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("изображение пустое: %s", uri)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
