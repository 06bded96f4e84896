package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/streamerd/cocoso/internal/application"
)

type workService interface {
	CreateWork(ctx context.Context, params application.CreateWorkParams) (application.Work, error)
	UpdateWork(ctx context.Context, params application.UpdateWorkParams) (application.Work, error)
	DeleteWork(ctx context.Context, principal application.Principal, workID string) error
	ListOwnWorks(ctx context.Context, principal application.Principal) ([]application.Work, error)
}

// WorkHandler serves the portfolio work endpoints.
type WorkHandler struct {
	service   workService
	responder responder
	logger    *slog.Logger
}

func NewWorkHandler(service workService, logger *slog.Logger) *WorkHandler {
	base := defaultLogger(logger)
	return &WorkHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *WorkHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "WorkHandler", operation, attrs...)
}

type workRequest struct {
	Title            string              `json:"title"`
	ShortDescription string              `json:"short_description"`
	LongDescription  string              `json:"long_description"`
	Category         workCategoryPayload `json:"category"`
	Images           []string            `json:"images"`
}

func (r workRequest) toInput() application.WorkInput {
	return application.WorkInput{
		Title:            r.Title,
		ShortDescription: r.ShortDescription,
		LongDescription:  r.LongDescription,
		Category:         application.WorkCategory{Label: r.Category.Label, Color: r.Category.Color},
		Images:           r.Images,
	}
}

func (h *WorkHandler) CreateWork(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req workRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	work, err := h.service.CreateWork(r.Context(), application.CreateWorkParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "CreateWork", "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to create work", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "CreateWork", "work_id", work.ID).InfoContext(r.Context(), "work created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toWorkResponse(work))
}

func (h *WorkHandler) UpdateWork(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	workID, ok := EntityIDFromContext(r.Context())
	if !ok || workID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntityID)
		return
	}

	var req workRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	work, err := h.service.UpdateWork(r.Context(), application.UpdateWorkParams{
		Principal: principal,
		WorkID:    workID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "UpdateWork", "work_id", workID).
			ErrorContext(r.Context(), "failed to update work", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toWorkResponse(work))
}

func (h *WorkHandler) DeleteWork(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	workID, ok := EntityIDFromContext(r.Context())
	if !ok || workID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntityID)
		return
	}

	if err := h.service.DeleteWork(r.Context(), principal, workID); err != nil {
		h.log(r.Context(), "DeleteWork", "work_id", workID).
			ErrorContext(r.Context(), "failed to delete work", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "DeleteWork", "work_id", workID).InfoContext(r.Context(), "work deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *WorkHandler) ListOwnWorks(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	works, err := h.service.ListOwnWorks(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "ListOwnWorks", "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to list works", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toWorkResponses(works))
}
