package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"vera/internal/domain/account"
)

const uniqueViolation = "23505"

func NewUserRepository(pool *pgxpool.Pool, log *slog.Logger) *UserRepository {
	return &UserRepository{
		pool: pool,
		log:  log.With(slog.String("component", "user_repository")),
	}
}

type UserRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

const userColumns = `id, email, username, password_hash, voice_print, photo, folder_link, created_at, updated_at`

func (r *UserRepository) CreateUser(ctx context.Context, u *account.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, username, password_hash, voice_print, photo, folder_link, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		u.Email, u.Username, u.PasswordHash, u.VoicePrint, u.Photo, u.FolderLink, u.CreatedAt, u.UpdatedAt).
		Scan(&u.ID)
	if isUniqueViolation(err) {
		return account.ErrEmailTaken
	}
	if err != nil {
		r.log.Error("failed to create user", "error", err)
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) UserByID(ctx context.Context, id int64) (*account.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) UserByEmail(ctx context.Context, email string) (*account.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) UpdateUser(ctx context.Context, u *account.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $2, username = $3, password_hash = $4, voice_print = $5,
		        photo = $6, folder_link = $7, updated_at = $8
		 WHERE id = $1`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.VoicePrint, u.Photo, u.FolderLink, u.UpdatedAt)
	if isUniqueViolation(err) {
		return account.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

// DeleteUser удаляет пользователя, файлы и папки удаляются каскадно
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*account.User, error) {
	var u account.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.VoicePrint, &u.Photo,
		&u.FolderLink, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
