package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"vera/internal/infrastructure/migration"
	"vera/internal/infrastructure/storage"
)

var _ storage.Storage = (*Storage)(nil)

type Storage struct {
	*UserRepository
	*FileRepository

	pool *pgxpool.Pool
}

// New открывает пул соединений и применяет миграции dev-сервера
func New(ctx context.Context, uri string, log *slog.Logger) (*Storage, error) {
	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	mg := migration.NewMigration(migration.Postgres, uri, nil)
	if err := mg.Up(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Storage{
		UserRepository: NewUserRepository(pool, log),
		FileRepository: NewFileRepository(pool, log),
		pool:           pool,
	}, nil
}

func (s *Storage) Name() string {
	return "postgres"
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.pool
}
