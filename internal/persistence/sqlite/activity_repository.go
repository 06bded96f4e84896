package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/streamerd/cocoso/internal/persistence"
)

// ActivityRepository implements persistence.ActivityRepository using SQLite.
// Occurrences live in their own table keyed by (activity_id, position) and
// are rewritten wholesale on update.
type ActivityRepository struct {
	pool *ConnectionPool
}

// NewActivityRepository creates a new SQLite activity repository.
func NewActivityRepository(pool *ConnectionPool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// CreateActivity inserts an activity and its occurrence rows in one transaction.
func (r *ActivityRepository) CreateActivity(ctx context.Context, activity persistence.Activity) error {
	if activity.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO activities (id, author_id, author_name, title, long_description,
				room, image_url, is_public, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			activity.ID,
			activity.AuthorID,
			activity.AuthorName,
			activity.Title,
			activity.LongDescription,
			activity.Room,
			activity.ImageURL,
			activity.IsPublic,
			formatTime(activity.CreatedAt),
			formatTime(activity.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		return insertOccurrencesTx(ctx, tx, activity.ID, activity.Occurrences)
	})
}

// UpdateActivity overwrites an activity and replaces its occurrence rows in
// one transaction.
func (r *ActivityRepository) UpdateActivity(ctx context.Context, activity persistence.Activity) error {
	if activity.ID == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE activities
			SET title = ?, long_description = ?, room = ?, image_url = ?,
				is_public = ?, updated_at = ?
			WHERE id = ?`,
			activity.Title,
			activity.LongDescription,
			activity.Room,
			activity.ImageURL,
			activity.IsPublic,
			formatTime(activity.UpdatedAt),
			activity.ID,
		)
		if err != nil {
			return mapError(err)
		}
		if err := rowsAffectedOrNotFound(result); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM activity_occurrences WHERE activity_id = ?", activity.ID,
		); err != nil {
			return mapError(err)
		}
		return insertOccurrencesTx(ctx, tx, activity.ID, activity.Occurrences)
	})
}

// GetActivity retrieves an activity by ID with its occurrences loaded.
func (r *ActivityRepository) GetActivity(ctx context.Context, id string) (persistence.Activity, error) {
	if id == "" {
		return persistence.Activity{}, persistence.ErrNotFound
	}

	activity, err := scanActivity(r.pool.db.QueryRowContext(ctx, `
		SELECT id, author_id, author_name, title, long_description,
			room, image_url, is_public, created_at, updated_at
		FROM activities WHERE id = ?`, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Activity{}, persistence.ErrNotFound
		}
		return persistence.Activity{}, err
	}

	if activity.Occurrences, err = r.listOccurrences(ctx, activity.ID); err != nil {
		return persistence.Activity{}, err
	}
	return activity, nil
}

// ListActivitiesByAuthor returns the author's activities, newest first.
func (r *ActivityRepository) ListActivitiesByAuthor(ctx context.Context, authorID string) ([]persistence.Activity, error) {
	return r.listActivities(ctx, "author_id = ?", authorID)
}

// ListPublicActivities returns every public activity, newest first.
func (r *ActivityRepository) ListPublicActivities(ctx context.Context) ([]persistence.Activity, error) {
	return r.listActivities(ctx, "is_public = ?", true)
}

func (r *ActivityRepository) listActivities(ctx context.Context, where string, arg any) ([]persistence.Activity, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, author_id, author_name, title, long_description,
			room, image_url, is_public, created_at, updated_at
		FROM activities WHERE `+where+` ORDER BY created_at DESC, id ASC`,
		arg,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	activities := []persistence.Activity{}
	for rows.Next() {
		activity, err := scanActivity(rows.Scan)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range activities {
		if activities[i].Occurrences, err = r.listOccurrences(ctx, activities[i].ID); err != nil {
			return nil, err
		}
	}
	return activities, nil
}

func (r *ActivityRepository) listOccurrences(ctx context.Context, activityID string) ([]persistence.Occurrence, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT activity_id, position, start_date, end_date, start_time, end_time, capacity, attendees
		FROM activity_occurrences WHERE activity_id = ? ORDER BY position ASC`,
		activityID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	occurrences := []persistence.Occurrence{}
	for rows.Next() {
		var occurrence persistence.Occurrence
		var attendees string
		if err := rows.Scan(
			&occurrence.ActivityID,
			&occurrence.Position,
			&occurrence.StartDate,
			&occurrence.EndDate,
			&occurrence.StartTime,
			&occurrence.EndTime,
			&occurrence.Capacity,
			&attendees,
		); err != nil {
			return nil, mapError(err)
		}
		if occurrence.Attendees, err = decodeStringList(attendees, "attendees"); err != nil {
			return nil, err
		}
		occurrences = append(occurrences, occurrence)
	}
	return occurrences, mapError(rows.Err())
}

func insertOccurrencesTx(ctx context.Context, tx *sql.Tx, activityID string, occurrences []persistence.Occurrence) error {
	for position, occurrence := range occurrences {
		attendees, err := encodeJSON(occurrence.Attendees)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO activity_occurrences (activity_id, position, start_date, end_date,
				start_time, end_time, capacity, attendees)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			activityID,
			position,
			occurrence.StartDate,
			occurrence.EndDate,
			occurrence.StartTime,
			occurrence.EndTime,
			occurrence.Capacity,
			attendees,
		); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func scanActivity(scan func(dest ...any) error) (persistence.Activity, error) {
	var activity persistence.Activity
	var createdAt, updatedAt string

	err := scan(
		&activity.ID,
		&activity.AuthorID,
		&activity.AuthorName,
		&activity.Title,
		&activity.LongDescription,
		&activity.Room,
		&activity.ImageURL,
		&activity.IsPublic,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Activity{}, err
		}
		return persistence.Activity{}, mapError(err)
	}

	if activity.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return persistence.Activity{}, err
	}
	if activity.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return persistence.Activity{}, err
	}
	return activity, nil
}
