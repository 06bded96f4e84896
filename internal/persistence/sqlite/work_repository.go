package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/streamerd/cocoso/internal/persistence"
)

// WorkRepository implements persistence.WorkRepository using SQLite.
type WorkRepository struct {
	pool *ConnectionPool
}

// NewWorkRepository creates a new SQLite work repository.
func NewWorkRepository(pool *ConnectionPool) *WorkRepository {
	return &WorkRepository{pool: pool}
}

const workColumns = `id, author_id, author_username, title, short_description,
	long_description, category_label, category_color, images, created_at, updated_at`

// CreateWork inserts a new work.
func (r *WorkRepository) CreateWork(ctx context.Context, work persistence.Work) error {
	if work.ID == "" {
		return persistence.ErrConstraintViolation
	}

	images, err := encodeJSON(work.Images)
	if err != nil {
		return err
	}

	_, err = r.pool.db.ExecContext(ctx, `
		INSERT INTO works (`+workColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		work.ID,
		work.AuthorID,
		work.AuthorUsername,
		work.Title,
		work.ShortDescription,
		work.LongDescription,
		work.CategoryLabel,
		work.CategoryColor,
		images,
		formatTime(work.CreatedAt),
		formatTime(work.UpdatedAt),
	)
	return mapError(err)
}

// UpdateWork overwrites a work's editable columns.
func (r *WorkRepository) UpdateWork(ctx context.Context, work persistence.Work) error {
	if work.ID == "" {
		return persistence.ErrNotFound
	}

	images, err := encodeJSON(work.Images)
	if err != nil {
		return err
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE works
		SET title = ?, short_description = ?, long_description = ?,
			category_label = ?, category_color = ?, images = ?, updated_at = ?
		WHERE id = ?`,
		work.Title,
		work.ShortDescription,
		work.LongDescription,
		work.CategoryLabel,
		work.CategoryColor,
		images,
		formatTime(work.UpdatedAt),
		work.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return rowsAffectedOrNotFound(result)
}

// GetWork retrieves a work by ID.
func (r *WorkRepository) GetWork(ctx context.Context, id string) (persistence.Work, error) {
	if id == "" {
		return persistence.Work{}, persistence.ErrNotFound
	}

	work, err := scanWork(r.pool.db.QueryRowContext(ctx,
		"SELECT "+workColumns+" FROM works WHERE id = ?", id,
	).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Work{}, persistence.ErrNotFound
		}
		return persistence.Work{}, err
	}
	return work, nil
}

// DeleteWork removes a work by ID.
func (r *WorkRepository) DeleteWork(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM works WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return rowsAffectedOrNotFound(result)
}

// ListWorksByAuthor returns the author's works, newest first.
func (r *WorkRepository) ListWorksByAuthor(ctx context.Context, authorID string) ([]persistence.Work, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+workColumns+" FROM works WHERE author_id = ? ORDER BY created_at DESC, id ASC",
		authorID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	works := []persistence.Work{}
	for rows.Next() {
		work, err := scanWork(rows.Scan)
		if err != nil {
			return nil, err
		}
		works = append(works, work)
	}
	return works, mapError(rows.Err())
}

func scanWork(scan func(dest ...any) error) (persistence.Work, error) {
	var work persistence.Work
	var images, createdAt, updatedAt string

	err := scan(
		&work.ID,
		&work.AuthorID,
		&work.AuthorUsername,
		&work.Title,
		&work.ShortDescription,
		&work.LongDescription,
		&work.CategoryLabel,
		&work.CategoryColor,
		&images,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Work{}, err
		}
		return persistence.Work{}, mapError(err)
	}

	if work.Images, err = decodeStringList(images, "images"); err != nil {
		return persistence.Work{}, err
	}
	if work.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return persistence.Work{}, err
	}
	if work.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return persistence.Work{}, err
	}
	return work, nil
}
