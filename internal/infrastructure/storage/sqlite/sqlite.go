package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"vera/internal/infrastructure/migration"
)

// Storage - локальная SQLite база клиента
type Storage struct {
	db  *sql.DB
	log *slog.Logger
}

// New открывает (или создает) файл базы и применяет миграции
func New(path string, log *slog.Logger) (*Storage, error) {
	if err := migration.NewMigration(migration.SQLite, "sqlite3://"+path, nil).Up(); err != nil {
		return nil, fmt.Errorf("ошибка миграции локальной базы: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	log.Debug("локальная база открыта", slog.String("path", path))

	return &Storage{db: db, log: log}, nil
}

func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) Close() error {
	return s.db.Close()
}
