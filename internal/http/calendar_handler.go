package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/streamerd/cocoso/internal/application"
	"github.com/streamerd/cocoso/internal/calendar"
)

type calendarActivitySource interface {
	ListPublicActivities(ctx context.Context) ([]application.Activity, error)
}

type calendarBookingSource interface {
	ListPublishedBookings(ctx context.Context) ([]application.Booking, error)
}

// CalendarHandler serves the public iCalendar feed.
type CalendarHandler struct {
	feed       *calendar.Feed
	activities calendarActivitySource
	bookings   calendarBookingSource
	responder  responder
	logger     *slog.Logger
}

func NewCalendarHandler(feed *calendar.Feed, activities calendarActivitySource, bookings calendarBookingSource, logger *slog.Logger) *CalendarHandler {
	base := defaultLogger(logger)
	return &CalendarHandler{
		feed:       feed,
		activities: activities,
		bookings:   bookings,
		responder:  newResponder(base),
		logger:     base,
	}
}

func (h *CalendarHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r.Context(), h.logger, "CalendarHandler", "GetFeed")

	activities, err := h.activities.ListPublicActivities(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load public activities", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	bookings, err := h.bookings.ListPublishedBookings(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load published bookings", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cocoso.ics"`)
	if _, err := w.Write([]byte(h.feed.Render(activities, bookings))); err != nil {
		logger.ErrorContext(r.Context(), "failed to write calendar feed", "error", err)
	}
}
