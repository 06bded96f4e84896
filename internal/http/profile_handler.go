package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/streamerd/cocoso/internal/application"
)

type profileService interface {
	GetProfile(ctx context.Context, principal application.Principal) (application.User, error)
	SaveUserInfo(ctx context.Context, principal application.Principal, input application.ProfileInput) (application.User, error)
	SetAvatar(ctx context.Context, principal application.Principal, src string) (application.User, error)
	DeleteAccount(ctx context.Context, principal application.Principal) error
	SetSelfAsParticipant(ctx context.Context, principal application.Principal, host string) error
	RemoveAsParticipant(ctx context.Context, principal application.Principal, host string) error
}

// ProfileHandler serves the caller's own profile and host participation.
type ProfileHandler struct {
	service   profileService
	responder responder
	logger    *slog.Logger
}

func NewProfileHandler(service profileService, logger *slog.Logger) *ProfileHandler {
	base := defaultLogger(logger)
	return &ProfileHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ProfileHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ProfileHandler", operation, attrs...)
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	user, err := h.service.GetProfile(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toUserResponse(user))
}

type profileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}

func (h *ProfileHandler) SaveUserInfo(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	user, err := h.service.SaveUserInfo(r.Context(), principal, application.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		h.log(r.Context(), "SaveUserInfo", "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to save profile", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toUserResponse(user))
}

type avatarRequest struct {
	Src string `json:"src"`
}

func (h *ProfileHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req avatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	user, err := h.service.SetAvatar(r.Context(), principal, req.Src)
	if err != nil {
		h.log(r.Context(), "SetAvatar", "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to set avatar", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toUserResponse(user))
}

func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	if err := h.service.DeleteAccount(r.Context(), principal); err != nil {
		h.log(r.Context(), "DeleteAccount", "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to delete account", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	clearSessionCookie(w)
	h.log(r.Context(), "DeleteAccount", "user_id", principal.UserID).InfoContext(r.Context(), "account deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ProfileHandler) JoinHost(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	host, ok := TenantHostFromContext(r.Context())
	if !ok || host == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntityID)
		return
	}

	if err := h.service.SetSelfAsParticipant(r.Context(), principal, host); err != nil {
		h.log(r.Context(), "JoinHost", "host", host, "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to register participant", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "JoinHost", "host", host, "user_id", principal.UserID).InfoContext(r.Context(), "participant registered")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ProfileHandler) LeaveHost(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	host, ok := TenantHostFromContext(r.Context())
	if !ok || host == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntityID)
		return
	}

	if err := h.service.RemoveAsParticipant(r.Context(), principal, host); err != nil {
		h.log(r.Context(), "LeaveHost", "host", host, "user_id", principal.UserID).
			ErrorContext(r.Context(), "failed to remove participant", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "LeaveHost", "host", host, "user_id", principal.UserID).InfoContext(r.Context(), "participant removed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
