package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"cryptoupi/internal/models"
)

type DirectoryEntryRepository struct {
	db *sql.DB
}

func NewDirectoryEntryRepository(db *sql.DB) *DirectoryEntryRepository {
	return &DirectoryEntryRepository{db: db}
}

func (r *DirectoryEntryRepository) Create(ctx context.Context, id, name string) (*models.DirectoryEntry, error) {
	const q = `
		INSERT INTO directory_entries (id, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, name, created_at
	`
	var e models.DirectoryEntry
	if err := r.db.QueryRowContext(ctx, q, id, name).Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("create directory entry: %w", err)
	}
	return &e, nil
}

// Update renames the entry; nil, nil when it does not exist.
func (r *DirectoryEntryRepository) Update(ctx context.Context, id, name string) (*models.DirectoryEntry, error) {
	const q = `
		UPDATE directory_entries
		SET name = $1
		WHERE id = $2
		RETURNING id, name, created_at
	`
	var e models.DirectoryEntry
	if err := r.db.QueryRowContext(ctx, q, name, id).Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("update directory entry: %w", err)
	}
	return &e, nil
}

func (r *DirectoryEntryRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM directory_entries WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete directory entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete directory entry: %w", err)
	}
	return n > 0, nil
}

func (r *DirectoryEntryRepository) GetByID(ctx context.Context, id string) (*models.DirectoryEntry, error) {
	const q = `
		SELECT id, name, created_at
		FROM directory_entries
		WHERE id = $1
	`
	var e models.DirectoryEntry
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get directory entry: %w", err)
	}
	return &e, nil
}

func (r *DirectoryEntryRepository) List(ctx context.Context, limit, offset int) ([]*models.DirectoryEntry, error) {
	const q = `
		SELECT id, name, created_at
		FROM directory_entries
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list directory entries: %w", err)
	}
	defer rows.Close()

	res := []*models.DirectoryEntry{}
	for rows.Next() {
		var e models.DirectoryEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &e)
	}
	return res, rows.Err()
}
