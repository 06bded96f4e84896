package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/streamerd/cocoso/internal/application"
)

type groupService interface {
	CreateGroup(ctx context.Context, params application.CreateGroupParams) (application.Group, error)
	UpdateGroup(ctx context.Context, params application.UpdateGroupParams) (application.Group, error)
	GetGroup(ctx context.Context, id string) (application.Group, error)
	ListGroups(ctx context.Context) ([]application.Group, error)
	JoinGroup(ctx context.Context, principal application.Principal, groupID string) error
	LeaveGroup(ctx context.Context, principal application.Principal, groupID string) error
}

// GroupHandler serves the group endpoints including membership changes.
type GroupHandler struct {
	service   groupService
	responder responder
	logger    *slog.Logger
}

func NewGroupHandler(service groupService, logger *slog.Logger) *GroupHandler {
	base := defaultLogger(logger)
	return &GroupHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *GroupHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "GroupHandler", operation, attrs...)
}

type groupRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	ReadingMaterial string `json:"reading_material"`
	Capacity        int    `json:"capacity"`
	ImageURL        string `json:"image_url"`
}

func (r groupRequest) toInput() application.GroupInput {
	return application.GroupInput{
		Title:           r.Title,
		Description:     r.Description,
		ReadingMaterial: r.ReadingMaterial,
		Capacity:        r.Capacity,
		ImageURL:        r.ImageURL,
	}
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	group, err := h.service.CreateGroup(r.Context(), application.CreateGroupParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "CreateGroup", "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to create group", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "CreateGroup", "group_id", group.ID).InfoContext(r.Context(), "group created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toGroupResponse(group))
}

func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	groupID, ok := EntityIDFromContext(r.Context())
	if !ok || groupID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntityID)
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	group, err := h.service.UpdateGroup(r.Context(), application.UpdateGroupParams{
		Principal: principal,
		GroupID:   groupID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "UpdateGroup", "group_id", groupID).
			ErrorContext(r.Context(), "failed to update group", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toGroupResponse(group))
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := EntityIDFromContext(r.Context())
	if !ok || groupID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntityID)
		return
	}

	group, err := h.service.GetGroup(r.Context(), groupID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toGroupResponse(group))
}

func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListGroups(r.Context())
	if err != nil {
		h.log(r.Context(), "ListGroups").
			ErrorContext(r.Context(), "failed to list groups", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toGroupResponses(groups))
}

func (h *GroupHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	groupID, ok := EntityIDFromContext(r.Context())
	if !ok || groupID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntityID)
		return
	}

	if err := h.service.JoinGroup(r.Context(), principal, groupID); err != nil {
		h.log(r.Context(), "JoinGroup", "group_id", groupID, "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to join group", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "JoinGroup", "group_id", groupID, "user_id", principal.UserID).InfoContext(r.Context(), "member joined group")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *GroupHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	groupID, ok := EntityIDFromContext(r.Context())
	if !ok || groupID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntityID)
		return
	}

	if err := h.service.LeaveGroup(r.Context(), principal, groupID); err != nil {
		h.log(r.Context(), "LeaveGroup", "group_id", groupID, "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to leave group", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "LeaveGroup", "group_id", groupID, "user_id", principal.UserID).InfoContext(r.Context(), "member left group")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
