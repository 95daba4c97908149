package storage

import "context"

// ImageUpload тело запроса загрузки изображения в base64
type ImageUpload struct {
	Filename  string `json:"filename"`
	ImageData string `json:"imageData"`
	Subfolder string `json:"subfolder,omitempty"`
}

// Remote описывает удаленное хранилище пользователя.
// Все методы требуют сохраненного токена.
type Remote interface {
	Files(ctx context.Context) ([]File, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	// UploadData сохраняет текстовый документ и возвращает ссылку на файл
	UploadData(ctx context.Context, filename string, content []byte) (string, error)
	// UploadImage отправляет изображение на endpoint и возвращает идентификатор файла
	UploadImage(ctx context.Context, endpoint string, img ImageUpload) (string, error)
	DeleteFile(ctx context.Context, fileID string) error
	GetJSON(ctx context.Context, endpoint string, out any) error
	PostJSON(ctx context.Context, endpoint string, in, out any) error
}
