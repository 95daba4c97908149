package drive

import "context"

type Repository interface {
	// PutFile создает файл или заменяет содержимое файла с тем же именем в папке.
	// Идентификатор существующего файла сохраняется.
	PutFile(ctx context.Context, f *File) error
	File(ctx context.Context, ownerID int64, id string) (*File, error)
	FileByName(ctx context.Context, ownerID int64, folder, name string) (*File, error)
	// Files возвращает файлы папки без содержимого
	Files(ctx context.Context, ownerID int64, folder string) ([]File, error)
	DeleteFile(ctx context.Context, ownerID int64, id string) error
	EnsureFolder(ctx context.Context, ownerID int64, name string) (bool, error)
}
