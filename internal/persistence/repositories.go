package persistence

import (
	"context"
	"time"
)

// UserRepository exposes account and profile operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// RoomRepository exposes the ordered room catalog.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	ListRooms(ctx context.Context) ([]Room, error)
}

// BookingRepository stores room reservations.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	UpdateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookingsByAuthor(ctx context.Context, authorID string) ([]Booking, error)
	ListPublishedBookings(ctx context.Context) ([]Booking, error)
}

// GroupRepository stores groups and the two-sided membership records. The
// mutating member operations write the group-side row and the user-side
// mirror in a single transaction.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group Group, adminRef GroupRef) error
	UpdateGroup(ctx context.Context, group Group) error
	GetGroup(ctx context.Context, id string) (Group, error)
	ListGroups(ctx context.Context) ([]Group, error)
	AddMember(ctx context.Context, groupID string, member GroupMember, ref GroupRef) error
	RemoveMember(ctx context.Context, groupID, userID string) error
}

// HostRepository stores per-tenant settings and the host-side participant
// list. AddParticipant and RemoveParticipant also write the user-side
// membership mirror, in a single transaction.
type HostRepository interface {
	UpsertHostSettings(ctx context.Context, settings HostSettings) error
	GetHostSettings(ctx context.Context, host string) (HostSettings, error)
	AddParticipant(ctx context.Context, host string, member HostMember, membership Membership) error
	RemoveParticipant(ctx context.Context, host, userID string) error
}

// ActivityRepository stores activities and their occurrence lists.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) error
	UpdateActivity(ctx context.Context, activity Activity) error
	GetActivity(ctx context.Context, id string) (Activity, error)
	ListActivitiesByAuthor(ctx context.Context, authorID string) ([]Activity, error)
	ListPublicActivities(ctx context.Context) ([]Activity, error)
}

// WorkRepository stores portfolio works.
type WorkRepository interface {
	CreateWork(ctx context.Context, work Work) error
	UpdateWork(ctx context.Context, work Work) error
	GetWork(ctx context.Context, id string) (Work, error)
	DeleteWork(ctx context.Context, id string) error
	ListWorksByAuthor(ctx context.Context, authorID string) ([]Work, error)
}
