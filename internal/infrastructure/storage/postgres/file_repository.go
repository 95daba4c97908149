package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"vera/internal/domain/drive"
)

func NewFileRepository(pool *pgxpool.Pool, log *slog.Logger) *FileRepository {
	return &FileRepository{
		pool: pool,
		log:  log.With(slog.String("component", "file_repository")),
	}
}

type FileRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func (r *FileRepository) PutFile(ctx context.Context, f *drive.File) error {
	const query = `
		INSERT INTO files (id, owner_id, folder, name, mime_type, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_id, folder, name) DO UPDATE
		SET mime_type = EXCLUDED.mime_type, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		f.ID, f.OwnerID, f.Folder, f.Name, f.MimeType, f.Data, f.CreatedAt, f.UpdatedAt).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		r.log.Error("failed to put file", "owner", f.OwnerID, "name", f.Name, "error", err)
		return fmt.Errorf("put file: %w", err)
	}
	return nil
}

func (r *FileRepository) File(ctx context.Context, ownerID int64, id string) (*drive.File, error) {
	const query = `
		SELECT id, owner_id, folder, name, mime_type, data, created_at, updated_at
		FROM files WHERE id = $1 AND owner_id = $2`

	return scanFile(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *FileRepository) FileByName(ctx context.Context, ownerID int64, folder, name string) (*drive.File, error) {
	const query = `
		SELECT id, owner_id, folder, name, mime_type, data, created_at, updated_at
		FROM files WHERE owner_id = $1 AND folder = $2 AND name = $3`

	return scanFile(r.pool.QueryRow(ctx, query, ownerID, folder, name))
}

func (r *FileRepository) Files(ctx context.Context, ownerID int64, folder string) ([]drive.File, error) {
	const query = `
		SELECT id, owner_id, folder, name, mime_type, created_at, updated_at
		FROM files WHERE owner_id = $1 AND folder = $2
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID, folder)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := make([]drive.File, 0)
	for rows.Next() {
		var f drive.File
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Folder, &f.Name, &f.MimeType, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *FileRepository) DeleteFile(ctx context.Context, ownerID int64, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return drive.ErrNotFound
	}
	return nil
}

func (r *FileRepository) EnsureFolder(ctx context.Context, ownerID int64, name string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO folders (owner_id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`, ownerID, name)
	if err != nil {
		return false, fmt.Errorf("ensure folder: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanFile(row pgx.Row) (*drive.File, error) {
	var f drive.File
	err := row.Scan(&f.ID, &f.OwnerID, &f.Folder, &f.Name, &f.MimeType, &f.Data, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, drive.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return &f, nil
}
