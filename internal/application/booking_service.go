package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// BookingRepository captures the persistence operations needed by the booking service.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBooking(ctx context.Context, booking Booking) (Booking, error)
	ListBookingsByAuthor(ctx context.Context, authorID string) ([]Booking, error)
	ListPublishedBookings(ctx context.Context) ([]Booking, error)
}

// RoomCatalog exposes the ordered room list that backs RoomIndex resolution.
type RoomCatalog interface {
	ListRooms(ctx context.Context) ([]Room, error)
	AddRoom(ctx context.Context, room Room) (Room, error)
}

// SnapshotPublisher receives entity snapshots after successful mutations so
// presentation collaborators can react to new state.
type SnapshotPublisher interface {
	PublishSnapshot(kind, id string, data any)
}

// BookingService orchestrates validation, authorization, and persistence for
// room bookings. The room catalog is an explicit dependency resolved per call
// rather than a list loaded once at server start.
type BookingService struct {
	bookings    BookingRepository
	rooms       RoomCatalog
	publisher   SnapshotPublisher
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for the booking service.
func NewBookingService(bookings BookingRepository, rooms RoomCatalog, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, rooms, idGenerator, now, nil)
}

// NewBookingServiceWithLogger constructs a BookingService with a specified logger.
func NewBookingServiceWithLogger(bookings BookingRepository, rooms RoomCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		rooms:       rooms,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// SetPublisher attaches a snapshot publisher. A nil publisher disables publishing.
func (s *BookingService) SetPublisher(publisher SnapshotPublisher) {
	s.publisher = publisher
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBooking inserts a booking for any authenticated user. The room name
// is resolved to its position in the current room list and stored as a
// snapshot index.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (Booking, error) {
	if s == nil {
		return Booking{}, fmt.Errorf("BookingService is nil")
	}
	if params.Principal.UserID == "" {
		return Booking{}, ErrUnauthorized
	}

	vErr := validateBookingInput(params.Input)
	if vErr.HasErrors() {
		return Booking{}, vErr
	}

	roomIndex, err := s.resolveRoomIndex(ctx, params.Input.Room)
	if err != nil {
		return Booking{}, err
	}

	now := s.now()
	booking := Booking{
		ID:              s.idGenerator(),
		AuthorID:        params.Principal.UserID,
		AuthorName:      params.Principal.Username,
		Title:           params.Input.Title,
		LongDescription: params.Input.LongDescription,
		Room:            params.Input.Room,
		RoomIndex:       roomIndex,
		StartDate:       params.Input.StartDate,
		EndDate:         params.Input.EndDate,
		StartTime:       params.Input.StartTime,
		EndTime:         params.Input.EndTime,
		IsFullDay:       params.Input.IsFullDay,
		IsPublished:     true,
		IsSentForReview: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if s.bookings == nil {
		return booking, nil
	}

	persisted, err := s.bookings.CreateBooking(ctx, booking)
	if err != nil {
		s.loggerWith(ctx, "CreateBooking", "author_id", booking.AuthorID).
			ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
		return Booking{}, err
	}

	s.publish("booking", persisted.ID, persisted)
	return persisted, nil
}

// UpdateBooking overwrites a booking's fields in full. Only the original
// author may update a booking; a mismatch aborts before any mutation.
func (s *BookingService) UpdateBooking(ctx context.Context, params UpdateBookingParams) (Booking, error) {
	if s == nil {
		return Booking{}, fmt.Errorf("BookingService is nil")
	}
	if params.Principal.UserID == "" {
		return Booking{}, ErrUnauthorized
	}
	if s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}

	existing, err := s.bookings.GetBooking(ctx, params.BookingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, err
	}

	if existing.AuthorID != params.Principal.UserID {
		return Booking{}, ErrUnauthorized
	}

	vErr := validateBookingInput(params.Input)
	if vErr.HasErrors() {
		return Booking{}, vErr
	}

	roomIndex, err := s.resolveRoomIndex(ctx, params.Input.Room)
	if err != nil {
		return Booking{}, err
	}

	updated := existing
	updated.Title = params.Input.Title
	updated.LongDescription = params.Input.LongDescription
	updated.Room = params.Input.Room
	updated.RoomIndex = roomIndex
	updated.StartDate = params.Input.StartDate
	updated.EndDate = params.Input.EndDate
	updated.StartTime = params.Input.StartTime
	updated.EndTime = params.Input.EndTime
	updated.IsFullDay = params.Input.IsFullDay
	updated.UpdatedAt = s.now()

	persisted, err := s.bookings.UpdateBooking(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, err
	}

	s.publish("booking", persisted.ID, persisted)
	return persisted, nil
}

// ListOwnBookings returns the caller's bookings.
func (s *BookingService) ListOwnBookings(ctx context.Context, principal Principal) ([]Booking, error) {
	if s == nil {
		return nil, fmt.Errorf("BookingService is nil")
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}
	if s.bookings == nil {
		return nil, nil
	}
	return s.bookings.ListBookingsByAuthor(ctx, principal.UserID)
}

// ListPublishedBookings returns every published booking, used by the public
// calendar feed.
func (s *BookingService) ListPublishedBookings(ctx context.Context) ([]Booking, error) {
	if s == nil || s.bookings == nil {
		return nil, nil
	}
	return s.bookings.ListPublishedBookings(ctx)
}

// AddRoom appends a room to the catalog for registered members.
func (s *BookingService) AddRoom(ctx context.Context, principal Principal, name string) (Room, error) {
	if s == nil {
		return Room{}, fmt.Errorf("BookingService is nil")
	}
	if principal.UserID == "" || !principal.IsRegisteredMember {
		return Room{}, ErrUnauthorized
	}
	if s.rooms == nil {
		return Room{}, fmt.Errorf("room catalog not configured")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return Room{}, vErr
	}

	existing, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return Room{}, err
	}
	for _, room := range existing {
		if strings.EqualFold(room.Name, name) {
			return Room{}, ErrAlreadyExists
		}
	}

	room := Room{
		ID:        s.idGenerator(),
		Name:      name,
		CreatedAt: s.now(),
	}
	persisted, err := s.rooms.AddRoom(ctx, room)
	if err != nil {
		return Room{}, err
	}

	s.loggerWith(ctx, "AddRoom", "room", name).InfoContext(ctx, "room added to catalog")
	return persisted, nil
}

// ListRooms returns the ordered room catalog.
func (s *BookingService) ListRooms(ctx context.Context) ([]Room, error) {
	if s == nil || s.rooms == nil {
		return nil, nil
	}
	return s.rooms.ListRooms(ctx)
}

// resolveRoomIndex returns the position of the named room in the current
// ordered room list, formatted as a string. An unknown room resolves to the
// empty string rather than an error, matching the lookup this replaces.
func (s *BookingService) resolveRoomIndex(ctx context.Context, room string) (string, error) {
	if s.rooms == nil {
		return "", nil
	}
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return "", err
	}
	for i, candidate := range rooms {
		if candidate.Name == room {
			return strconv.Itoa(i), nil
		}
	}
	return "", nil
}

func (s *BookingService) publish(kind, id string, data any) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishSnapshot(kind, id, data)
}

// validateBookingInput checks presence of the required fields only. Range,
// format, and cross-field consistency (start before end) are deliberately not
// verified here.
func validateBookingInput(input BookingInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if strings.TrimSpace(input.Room) == "" {
		vErr.add("room", "room is required")
	}
	if input.StartDate == "" {
		vErr.add("start_date", "start date is required")
	}
	if input.EndDate == "" {
		vErr.add("end_date", "end date is required")
	}

	return vErr
}
