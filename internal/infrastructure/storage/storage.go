package storage

import (
	"context"

	"vera/internal/domain/account"
	"vera/internal/domain/drive"
)

// Storage - хранилище dev-сервера: пользователи и их файлы
type Storage interface {
	account.Repository
	drive.Repository

	// Name возвращает тип хранилища для логов и /health
	Name() string
	Ping(ctx context.Context) error
	Close() error
}
