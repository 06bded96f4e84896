package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type bookingRepoStub struct {
	created Booking
	stored  Booking
	updated *Booking
	getErr  error
	list    []Booking
}

func (r *bookingRepoStub) CreateBooking(ctx context.Context, booking Booking) (Booking, error) {
	r.created = booking
	return booking, nil
}

func (r *bookingRepoStub) GetBooking(ctx context.Context, id string) (Booking, error) {
	if r.getErr != nil {
		return Booking{}, r.getErr
	}
	if r.stored.ID == "" || r.stored.ID != id {
		return Booking{}, ErrNotFound
	}
	return r.stored, nil
}

func (r *bookingRepoStub) UpdateBooking(ctx context.Context, booking Booking) (Booking, error) {
	r.updated = &booking
	return booking, nil
}

func (r *bookingRepoStub) ListBookingsByAuthor(ctx context.Context, authorID string) ([]Booking, error) {
	return r.list, nil
}

func (r *bookingRepoStub) ListPublishedBookings(ctx context.Context) ([]Booking, error) {
	published := []Booking{}
	for _, booking := range r.list {
		if booking.IsPublished {
			published = append(published, booking)
		}
	}
	return published, nil
}

type roomCatalogStub struct {
	rooms []Room
	added []Room
}

func (r *roomCatalogStub) ListRooms(ctx context.Context) ([]Room, error) {
	return r.rooms, nil
}

func (r *roomCatalogStub) AddRoom(ctx context.Context, room Room) (Room, error) {
	r.added = append(r.added, room)
	return room, nil
}

func testClock() func() time.Time {
	return func() time.Time { return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC) }
}

func sequentialIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return prefix + "-" + string(rune('0'+counter))
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	t.Run("requires an authenticated caller", func(t *testing.T) {
		svc := NewBookingService(&bookingRepoStub{}, &roomCatalogStub{}, sequentialIDs("b"), testClock())

		_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Input: BookingInput{Title: "Rehearsal", Room: "Studio", StartDate: "2024-03-02", EndDate: "2024-03-02"},
		})

		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("checks presence of required fields only", func(t *testing.T) {
		svc := NewBookingService(&bookingRepoStub{}, &roomCatalogStub{}, sequentialIDs("b"), testClock())

		_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal: Principal{UserID: "u1", Username: "ada"},
			Input:     BookingInput{Title: "  ", Room: ""},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["title"]; !ok {
			t.Fatalf("expected title validation error, got %v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["room"]; !ok {
			t.Fatalf("expected room validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("start after end is accepted without complaint", func(t *testing.T) {
		repo := &bookingRepoStub{}
		svc := NewBookingService(repo, &roomCatalogStub{}, sequentialIDs("b"), testClock())

		_, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal: Principal{UserID: "u1", Username: "ada"},
			Input: BookingInput{
				Title: "Rehearsal", Room: "Studio",
				StartDate: "2024-03-10", EndDate: "2024-03-02",
				StartTime: "20:00", EndTime: "09:00",
			},
		})

		if err != nil {
			t.Fatalf("expected cross-field ordering to go unchecked, got %v", err)
		}
	})

	t.Run("snapshots the room's position in the catalog", func(t *testing.T) {
		repo := &bookingRepoStub{}
		rooms := &roomCatalogStub{rooms: []Room{{Name: "Atelier"}, {Name: "Studio"}, {Name: "Hall"}}}
		svc := NewBookingService(repo, rooms, sequentialIDs("b"), testClock())

		booking, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal: Principal{UserID: "u1", Username: "ada"},
			Input:     BookingInput{Title: "Rehearsal", Room: "Studio", StartDate: "2024-03-02", EndDate: "2024-03-02"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if booking.RoomIndex != "1" {
			t.Fatalf("expected room index snapshot \"1\", got %q", booking.RoomIndex)
		}
		if !booking.IsPublished || !booking.IsSentForReview {
			t.Fatalf("expected new booking to be published and sent for review")
		}
	})

	t.Run("unknown room resolves to an empty index", func(t *testing.T) {
		rooms := &roomCatalogStub{rooms: []Room{{Name: "Atelier"}}}
		svc := NewBookingService(&bookingRepoStub{}, rooms, sequentialIDs("b"), testClock())

		booking, err := svc.CreateBooking(context.Background(), CreateBookingParams{
			Principal: Principal{UserID: "u1", Username: "ada"},
			Input:     BookingInput{Title: "Rehearsal", Room: "Basement", StartDate: "2024-03-02", EndDate: "2024-03-02"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.RoomIndex != "" {
			t.Fatalf("expected empty room index, got %q", booking.RoomIndex)
		}
	})
}

func TestBookingService_UpdateBooking(t *testing.T) {
	t.Run("rejects a caller who is not the author and leaves the booking untouched", func(t *testing.T) {
		repo := &bookingRepoStub{stored: Booking{ID: "b1", AuthorID: "owner", Title: "Original"}}
		svc := NewBookingService(repo, &roomCatalogStub{}, sequentialIDs("b"), testClock())

		_, err := svc.UpdateBooking(context.Background(), UpdateBookingParams{
			Principal: Principal{UserID: "intruder", Username: "eve"},
			BookingID: "b1",
			Input:     BookingInput{Title: "Hijacked", Room: "Studio", StartDate: "2024-03-02", EndDate: "2024-03-02"},
		})

		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if repo.updated != nil {
			t.Fatalf("expected no mutation after permission failure, got %+v", repo.updated)
		}
	})

	t.Run("overwrites all fields for the author", func(t *testing.T) {
		repo := &bookingRepoStub{stored: Booking{
			ID: "b1", AuthorID: "owner", AuthorName: "ada",
			Title: "Original", Room: "Atelier", RoomIndex: "0",
			CreatedAt: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		}}
		rooms := &roomCatalogStub{rooms: []Room{{Name: "Atelier"}, {Name: "Studio"}}}
		svc := NewBookingService(repo, rooms, sequentialIDs("b"), testClock())

		updated, err := svc.UpdateBooking(context.Background(), UpdateBookingParams{
			Principal: Principal{UserID: "owner", Username: "ada"},
			BookingID: "b1",
			Input: BookingInput{
				Title: "Moved", Room: "Studio",
				StartDate: "2024-03-05", EndDate: "2024-03-05",
				StartTime: "10:00", EndTime: "12:00",
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if updated.Title != "Moved" || updated.Room != "Studio" || updated.RoomIndex != "1" {
			t.Fatalf("expected full overwrite with fresh room index, got %+v", updated)
		}
		if !updated.CreatedAt.Equal(repo.stored.CreatedAt) {
			t.Fatalf("expected creation timestamp to be preserved")
		}
	})

	t.Run("missing booking yields ErrNotFound", func(t *testing.T) {
		svc := NewBookingService(&bookingRepoStub{}, &roomCatalogStub{}, sequentialIDs("b"), testClock())

		_, err := svc.UpdateBooking(context.Background(), UpdateBookingParams{
			Principal: Principal{UserID: "owner"},
			BookingID: "missing",
			Input:     BookingInput{Title: "x", Room: "y", StartDate: "2024-01-01", EndDate: "2024-01-01"},
		})

		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBookingService_AddRoom(t *testing.T) {
	t.Run("requires a registered member", func(t *testing.T) {
		svc := NewBookingService(&bookingRepoStub{}, &roomCatalogStub{}, sequentialIDs("r"), testClock())

		_, err := svc.AddRoom(context.Background(), Principal{UserID: "u1"}, "Annex")

		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects duplicate names case-insensitively", func(t *testing.T) {
		rooms := &roomCatalogStub{rooms: []Room{{Name: "Annex"}}}
		svc := NewBookingService(&bookingRepoStub{}, rooms, sequentialIDs("r"), testClock())

		_, err := svc.AddRoom(context.Background(), Principal{UserID: "u1", IsRegisteredMember: true}, "annex")

		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}
