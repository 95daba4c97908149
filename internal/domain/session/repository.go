package session

import (
	"context"
)

const (
	keyToken = "auth_token"
	keyUser  = "user_data"
)

// Repository хранит значения сессии по строковому ключу.
// Get возвращает (nil, nil), если ключ отсутствует.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
}
