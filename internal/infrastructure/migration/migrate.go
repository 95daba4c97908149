package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Драйверы БД для миграций: sqlite3 для локального хранилища клиента, postgres для dev-сервера
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

const (
	// SQLite - схема локального хранилища сессии клиента
	SQLite = "migrations/sqlite"
	// Postgres - схема dev-сервера
	Postgres = "migrations/postgres"
)

// Migrator - интерфейс для самой библиотеки migrate.Migrate
type Migrator interface {
	Up() error
	Close() (error, error)
}

// MigrationEngine - фабрика для создания мигратора (чтобы не лезть в ФС и БД в тестах)
type MigrationEngine func(src source.Driver, databaseURL string) (Migrator, error)

type Migration struct {
	dir         string
	databaseURL string
	engine      MigrationEngine
}

// NewMigration создает миграцию набора dir (SQLite или Postgres) для базы databaseURL
func NewMigration(dir, databaseURL string, engine MigrationEngine) *Migration {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Migration{
		dir:         dir,
		databaseURL: databaseURL,
		engine:      engine,
	}
}

// DefaultEngine - реальная реализация поверх встроенных файлов миграций
func DefaultEngine(src source.Driver, databaseURL string) (Migrator, error) {
	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}

func (mg *Migration) Up() (err error) {
	src, err := iofs.New(migrationsFS, mg.dir)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := mg.engine(src, mg.databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration source error: %v", err, serr)
			} else {
				err = serr
			}
		}
		if dberr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration database error: %v", err, dberr)
			} else {
				err = dberr
			}
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w; migration up error", err)
	}
	return nil
}
