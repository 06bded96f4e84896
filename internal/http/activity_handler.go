package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/streamerd/cocoso/internal/application"
)

type activityService interface {
	CreateActivity(ctx context.Context, params application.CreateActivityParams) (application.Activity, error)
	UpdateActivity(ctx context.Context, params application.UpdateActivityParams) (application.Activity, error)
	ListOwnActivities(ctx context.Context, principal application.Principal) ([]application.Activity, error)
	ListPublicActivities(ctx context.Context) ([]application.Activity, error)
}

// ActivityHandler serves the activity endpoints.
type ActivityHandler struct {
	service   activityService
	responder responder
	logger    *slog.Logger
}

func NewActivityHandler(service activityService, logger *slog.Logger) *ActivityHandler {
	base := defaultLogger(logger)
	return &ActivityHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ActivityHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ActivityHandler", operation, attrs...)
}

type activityRequest struct {
	Title           string              `json:"title"`
	LongDescription string              `json:"long_description"`
	Room            string              `json:"room"`
	ImageURL        string              `json:"image_url"`
	IsPublic        bool                `json:"is_public"`
	Occurrences     []occurrencePayload `json:"occurrences"`
}

func (r activityRequest) toInput() application.ActivityInput {
	occurrences := make([]application.Occurrence, 0, len(r.Occurrences))
	for _, occ := range r.Occurrences {
		occurrences = append(occurrences, application.Occurrence{
			StartDate: occ.StartDate,
			EndDate:   occ.EndDate,
			StartTime: occ.StartTime,
			EndTime:   occ.EndTime,
			Capacity:  occ.Capacity,
			Attendees: occ.Attendees,
		})
	}
	return application.ActivityInput{
		Title:           r.Title,
		LongDescription: r.LongDescription,
		Room:            r.Room,
		ImageURL:        r.ImageURL,
		IsPublic:        r.IsPublic,
		Occurrences:     occurrences,
	}
}

func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	activity, err := h.service.CreateActivity(r.Context(), application.CreateActivityParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "CreateActivity", "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to create activity", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "CreateActivity", "activity_id", activity.ID).InfoContext(r.Context(), "activity created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toActivityResponse(activity))
}

func (h *ActivityHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	activityID, ok := EntityIDFromContext(r.Context())
	if !ok || activityID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntityID)
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	activity, err := h.service.UpdateActivity(r.Context(), application.UpdateActivityParams{
		Principal:  principal,
		ActivityID: activityID,
		Input:      req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "UpdateActivity", "activity_id", activityID).
			ErrorContext(r.Context(), "failed to update activity", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toActivityResponse(activity))
}

func (h *ActivityHandler) ListOwnActivities(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	activities, err := h.service.ListOwnActivities(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "ListOwnActivities", "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to list activities", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toActivityResponses(activities))
}

func (h *ActivityHandler) ListPublicActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.service.ListPublicActivities(r.Context())
	if err != nil {
		h.log(r.Context(), "ListPublicActivities").
			ErrorContext(r.Context(), "failed to list public activities", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toActivityResponses(activities))
}
