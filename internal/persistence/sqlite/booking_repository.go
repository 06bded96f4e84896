package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/streamerd/cocoso/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
type BookingRepository struct {
	pool *ConnectionPool
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, author_id, author_name, title, long_description,
	room, room_index, start_date, end_date, start_time, end_time,
	is_full_day, is_published, is_sent_for_review, created_at, updated_at`

// CreateBooking inserts a new booking.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ID,
		booking.AuthorID,
		booking.AuthorName,
		booking.Title,
		booking.LongDescription,
		booking.Room,
		booking.RoomIndex,
		booking.StartDate,
		booking.EndDate,
		booking.StartTime,
		booking.EndTime,
		booking.IsFullDay,
		booking.IsPublished,
		booking.IsSentForReview,
		formatTime(booking.CreatedAt),
		formatTime(booking.UpdatedAt),
	)
	return mapError(err)
}

// UpdateBooking overwrites an existing booking's editable columns.
func (r *BookingRepository) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE bookings
		SET title = ?, long_description = ?, room = ?, room_index = ?,
			start_date = ?, end_date = ?, start_time = ?, end_time = ?,
			is_full_day = ?, is_published = ?, is_sent_for_review = ?, updated_at = ?
		WHERE id = ?`,
		booking.Title,
		booking.LongDescription,
		booking.Room,
		booking.RoomIndex,
		booking.StartDate,
		booking.EndDate,
		booking.StartTime,
		booking.EndTime,
		booking.IsFullDay,
		booking.IsPublished,
		booking.IsSentForReview,
		formatTime(booking.UpdatedAt),
		booking.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return rowsAffectedOrNotFound(result)
}

// GetBooking retrieves a booking by ID.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id,
	)
	booking, err := scanBooking(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, err
	}
	return booking, nil
}

// ListBookingsByAuthor returns the author's bookings, newest first.
func (r *BookingRepository) ListBookingsByAuthor(ctx context.Context, authorID string) ([]persistence.Booking, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE author_id = ? ORDER BY created_at DESC, id ASC",
		authorID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	bookings := []persistence.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, mapError(rows.Err())
}

// ListPublishedBookings returns every published booking ordered by start date.
func (r *BookingRepository) ListPublishedBookings(ctx context.Context) ([]persistence.Booking, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE is_published = 1 ORDER BY start_date ASC, start_time ASC, id ASC",
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	bookings := []persistence.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, mapError(rows.Err())
}

func scanBooking(scan func(dest ...any) error) (persistence.Booking, error) {
	var booking persistence.Booking
	var createdAt, updatedAt string

	err := scan(
		&booking.ID,
		&booking.AuthorID,
		&booking.AuthorName,
		&booking.Title,
		&booking.LongDescription,
		&booking.Room,
		&booking.RoomIndex,
		&booking.StartDate,
		&booking.EndDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.IsFullDay,
		&booking.IsPublished,
		&booking.IsSentForReview,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Booking{}, err
		}
		return persistence.Booking{}, mapError(err)
	}

	if booking.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return persistence.Booking{}, err
	}
	if booking.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return persistence.Booking{}, err
	}
	return booking, nil
}
