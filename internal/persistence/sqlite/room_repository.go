package sqlite

import (
	"context"

	"github.com/streamerd/cocoso/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool *ConnectionPool
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// CreateRoom appends a room to the catalog. Names are unique ignoring case.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" || room.Name == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx,
		"INSERT INTO rooms (id, name, created_at) VALUES (?, ?, ?)",
		room.ID, room.Name, formatTime(room.CreatedAt),
	)
	return mapError(err)
}

// ListRooms returns the catalog in insertion order. The position of a room in
// this list is what bookings record as their room index.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM rooms ORDER BY created_at ASC, id ASC",
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	rooms := []persistence.Room{}
	for rows.Next() {
		var room persistence.Room
		var createdAt string
		if err := rows.Scan(&room.ID, &room.Name, &createdAt); err != nil {
			return nil, mapError(err)
		}
		if room.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, mapError(rows.Err())
}
