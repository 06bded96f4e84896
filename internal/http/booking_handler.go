package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/streamerd/cocoso/internal/application"
)

type bookingService interface {
	CreateBooking(ctx context.Context, params application.CreateBookingParams) (application.Booking, error)
	UpdateBooking(ctx context.Context, params application.UpdateBookingParams) (application.Booking, error)
	ListOwnBookings(ctx context.Context, principal application.Principal) ([]application.Booking, error)
	AddRoom(ctx context.Context, principal application.Principal, name string) (application.Room, error)
	ListRooms(ctx context.Context) ([]application.Room, error)
}

// BookingHandler serves the booking and room endpoints.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

type bookingRequest struct {
	Title           string `json:"title"`
	LongDescription string `json:"long_description"`
	Room            string `json:"room"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	IsFullDay       bool   `json:"is_full_day"`
}

func (r bookingRequest) toInput() application.BookingInput {
	return application.BookingInput{
		Title:           r.Title,
		LongDescription: r.LongDescription,
		Room:            r.Room,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		IsFullDay:       r.IsFullDay,
	}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), application.CreateBookingParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "CreateBooking", "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to create booking", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "CreateBooking", "booking_id", booking.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	bookingID, ok := EntityIDFromContext(r.Context())
	if !ok || bookingID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntityID)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), application.UpdateBookingParams{
		Principal: principal,
		BookingID: bookingID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "UpdateBooking", "booking_id", bookingID).
			ErrorContext(r.Context(), "failed to update booking", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) ListOwnBookings(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	bookings, err := h.service.ListOwnBookings(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "ListOwnBookings", "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to list bookings", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingResponses(bookings))
}

type createRoomRequest struct {
	Name string `json:"name"`
}

func (h *BookingHandler) AddRoom(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	room, err := h.service.AddRoom(r.Context(), principal, req.Name)
	if err != nil {
		h.log(r.Context(), "AddRoom", "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to add room", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "AddRoom", "room_id", room.ID).InfoContext(r.Context(), "room added")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomResponse{
		ID:        room.ID,
		Name:      room.Name,
		CreatedAt: formatTimestamp(room.CreatedAt),
	})
}

func (h *BookingHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		h.log(r.Context(), "ListRooms").
			ErrorContext(r.Context(), "failed to list rooms", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomResponses(rooms))
}
