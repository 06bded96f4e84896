package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/streamerd/cocoso/internal/application"
)

type hostService interface {
	GetSettings(ctx context.Context, host string) (application.HostSettings, error)
	UpdateSettings(ctx context.Context, principal application.Principal, host string, input application.HostSettingsInput) (application.HostSettings, error)
	UpdateMenu(ctx context.Context, principal application.Principal, host string, menu []application.MenuItem) (application.HostSettings, error)
	SetMainColor(ctx context.Context, principal application.Principal, host string, color application.HSLColor) (application.HostSettings, error)
	SetWorkCategories(ctx context.Context, principal application.Principal, host string, categories []application.WorkCategory) (application.HostSettings, error)
}

// HostHandler serves the per-tenant settings endpoints. Reads are public,
// writes require the admin role on the resolved tenant.
type HostHandler struct {
	service   hostService
	responder responder
	logger    *slog.Logger
}

func NewHostHandler(service hostService, logger *slog.Logger) *HostHandler {
	base := defaultLogger(logger)
	return &HostHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *HostHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "HostHandler", operation, attrs...)
}

func (h *HostHandler) tenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	host, ok := TenantHostFromContext(r.Context())
	if !ok || host == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntityID)
		return "", false
	}
	return host, true
}

func (h *HostHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	host, ok := h.tenant(w, r)
	if !ok {
		return
	}

	settings, err := h.service.GetSettings(r.Context(), host)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toHostSettingsResponse(settings))
}

type hostSettingsRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	LogoURL string `json:"logo_url"`
}

func (h *HostHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	host, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req hostSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), principal, host, application.HostSettingsInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		h.log(r.Context(), "UpdateSettings", "host", host).
			ErrorContext(r.Context(), "failed to update host settings", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "UpdateSettings", "host", host).InfoContext(r.Context(), "host settings updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toHostSettingsResponse(settings))
}

type menuRequest struct {
	Menu []menuItemPayload `json:"menu"`
}

func (h *HostHandler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	host, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req menuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	menu := make([]application.MenuItem, 0, len(req.Menu))
	for _, item := range req.Menu {
		menu = append(menu, application.MenuItem{Name: item.Name, Label: item.Label, IsVisible: item.IsVisible})
	}

	settings, err := h.service.UpdateMenu(r.Context(), principal, host, menu)
	if err != nil {
		h.log(r.Context(), "UpdateMenu", "host", host).
			ErrorContext(r.Context(), "failed to update menu", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toHostSettingsResponse(settings))
}

type mainColorRequest struct {
	Hue        int `json:"hue"`
	Saturation int `json:"saturation"`
	Lightness  int `json:"lightness"`
}

func (h *HostHandler) SetMainColor(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	host, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req mainColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	settings, err := h.service.SetMainColor(r.Context(), principal, host, application.HSLColor{
		Hue:        req.Hue,
		Saturation: req.Saturation,
		Lightness:  req.Lightness,
	})
	if err != nil {
		h.log(r.Context(), "SetMainColor", "host", host).
			ErrorContext(r.Context(), "failed to set main color", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toHostSettingsResponse(settings))
}

type categoriesRequest struct {
	Categories []workCategoryPayload `json:"categories"`
}

func (h *HostHandler) SetWorkCategories(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	host, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req categoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	categories := make([]application.WorkCategory, 0, len(req.Categories))
	for _, category := range req.Categories {
		categories = append(categories, application.WorkCategory{Label: category.Label, Color: category.Color})
	}

	settings, err := h.service.SetWorkCategories(r.Context(), principal, host, categories)
	if err != nil {
		h.log(r.Context(), "SetWorkCategories", "host", host).
			ErrorContext(r.Context(), "failed to set work categories", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toHostSettingsResponse(settings))
}
