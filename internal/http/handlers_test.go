package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/streamerd/cocoso/internal/application"
	"github.com/streamerd/cocoso/internal/calendar"
	"github.com/streamerd/cocoso/internal/notify"
)

type authServiceStub struct {
	createAccountErr error
	authenticateErr  error
	revokeErr        error
	revokedToken     string
	user             application.User
	session          application.Session
}

func (s *authServiceStub) CreateAccount(ctx context.Context, params application.CreateAccountParams) (application.User, error) {
	if s.createAccountErr != nil {
		return application.User{}, s.createAccountErr
	}
	return s.user, nil
}

func (s *authServiceStub) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	if s.authenticateErr != nil {
		return application.AuthenticateResult{}, s.authenticateErr
	}
	return application.AuthenticateResult{User: s.user, Session: s.session}, nil
}

func (s *authServiceStub) RevokeSession(ctx context.Context, token string) error {
	s.revokedToken = token
	return s.revokeErr
}

func TestAuthHandler_CreateSession(t *testing.T) {
	t.Run("issues the session token via cookie and header", func(t *testing.T) {
		stub := &authServiceStub{
			user: application.User{ID: "u1", Email: "ada@example.com", Username: "ada"},
			session: application.Session{
				Token:     "tok-123",
				ExpiresAt: time.Date(2024, time.March, 1, 13, 0, 0, 0, time.UTC),
			},
		}
		handler := NewAuthHandler(stub, nil)

		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"Ada@Example.com","password":"secret"}`))
		rec := httptest.NewRecorder()
		handler.CreateSession(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		if got := rec.Header().Get("X-Session-Token"); got != "tok-123" {
			t.Errorf("X-Session-Token = %q", got)
		}
		cookies := rec.Result().Cookies()
		var found bool
		for _, cookie := range cookies {
			if cookie.Name == "session_token" && cookie.Value == "tok-123" && cookie.HttpOnly {
				found = true
			}
		}
		if !found {
			t.Errorf("session cookie not set: %v", cookies)
		}

		var body loginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Token != "tok-123" || body.User.ID != "u1" {
			t.Errorf("unexpected body: %+v", body)
		}
	})

	t.Run("maps wrong credentials to 401 with a stable error code", func(t *testing.T) {
		stub := &authServiceStub{authenticateErr: application.ErrInvalidCredentials}
		handler := NewAuthHandler(stub, nil)

		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`))
		rec := httptest.NewRecorder()
		handler.CreateSession(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
			t.Errorf("error_code = %q", body.ErrorCode)
		}
	})

	t.Run("rejects an unreadable body", func(t *testing.T) {
		handler := NewAuthHandler(&authServiceStub{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()
		handler.CreateSession(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestAuthHandler_CreateAccount(t *testing.T) {
	t.Run("surfaces field errors as 422", func(t *testing.T) {
		vErr := &application.ValidationError{FieldErrors: map[string]string{"email": "email is required"}}
		handler := NewAuthHandler(&authServiceStub{createAccountErr: vErr}, nil)

		req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{"username":"ada"}`))
		rec := httptest.NewRecorder()
		handler.CreateAccount(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Errors["email"] != "email is required" {
			t.Errorf("field errors = %v", body.Errors)
		}
	})

	t.Run("returns the created account", func(t *testing.T) {
		stub := &authServiceStub{user: application.User{ID: "u1", Email: "ada@example.com", Username: "ada"}}
		handler := NewAuthHandler(stub, nil)

		req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{"email":"ada@example.com","username":"ada","password":"secret-pw"}`))
		rec := httptest.NewRecorder()
		handler.CreateAccount(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var body userResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.ID != "u1" || body.Username != "ada" {
			t.Errorf("unexpected body: %+v", body)
		}
	})
}

func TestAuthHandler_DeleteCurrentSession(t *testing.T) {
	t.Run("revokes the token from the bearer header and clears the cookie", func(t *testing.T) {
		stub := &authServiceStub{}
		handler := NewAuthHandler(stub, nil)

		req := httptest.NewRequest(http.MethodDelete, "/sessions/current", nil)
		req.Header.Set("Authorization", "Bearer tok-123")
		rec := httptest.NewRecorder()
		handler.DeleteCurrentSession(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
		}
		if stub.revokedToken != "tok-123" {
			t.Errorf("revoked token = %q", stub.revokedToken)
		}
		var cleared bool
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == "session_token" && cookie.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Errorf("session cookie was not cleared")
		}
	})

	t.Run("responds 401 without a token", func(t *testing.T) {
		handler := NewAuthHandler(&authServiceStub{}, nil)

		req := httptest.NewRequest(http.MethodDelete, "/sessions/current", nil)
		rec := httptest.NewRecorder()
		handler.DeleteCurrentSession(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}

type groupServiceStub struct {
	group      application.Group
	groups     []application.Group
	joinErr    error
	joinedID   string
	leftID     string
	createErr  error
	lastParams application.CreateGroupParams
}

func (s *groupServiceStub) CreateGroup(ctx context.Context, params application.CreateGroupParams) (application.Group, error) {
	s.lastParams = params
	if s.createErr != nil {
		return application.Group{}, s.createErr
	}
	return s.group, nil
}

func (s *groupServiceStub) UpdateGroup(ctx context.Context, params application.UpdateGroupParams) (application.Group, error) {
	return s.group, nil
}

func (s *groupServiceStub) GetGroup(ctx context.Context, id string) (application.Group, error) {
	if s.group.ID != id {
		return application.Group{}, application.ErrNotFound
	}
	return s.group, nil
}

func (s *groupServiceStub) ListGroups(ctx context.Context) ([]application.Group, error) {
	return s.groups, nil
}

func (s *groupServiceStub) JoinGroup(ctx context.Context, principal application.Principal, groupID string) error {
	if s.joinErr != nil {
		return s.joinErr
	}
	s.joinedID = groupID
	return nil
}

func (s *groupServiceStub) LeaveGroup(ctx context.Context, principal application.Principal, groupID string) error {
	s.leftID = groupID
	return nil
}

func memberPrincipal() application.Principal {
	return application.Principal{
		UserID:             "u1",
		Username:           "ada",
		IsRegisteredMember: true,
		Memberships:        []application.Membership{{Host: "example.org", Role: application.RoleContributor}},
	}
}

func TestGroupHandler_Membership(t *testing.T) {
	t.Run("join resolves the group from the path", func(t *testing.T) {
		stub := &groupServiceStub{group: application.Group{ID: "g1"}}
		handler := NewGroupHandler(stub, nil)

		req := httptest.NewRequest(http.MethodPost, "/groups/g1/members", nil)
		ctx := ContextWithPrincipal(req.Context(), memberPrincipal())
		req = req.WithContext(ContextWithEntityID(ctx, "g1"))
		rec := httptest.NewRecorder()
		handler.JoinGroup(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}
		if stub.joinedID != "g1" {
			t.Errorf("joined group = %q", stub.joinedID)
		}
	})

	t.Run("join without a principal is rejected", func(t *testing.T) {
		handler := NewGroupHandler(&groupServiceStub{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/groups/g1/members", nil)
		req = req.WithContext(ContextWithEntityID(req.Context(), "g1"))
		rec := httptest.NewRecorder()
		handler.JoinGroup(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("joining an unknown group maps to 404", func(t *testing.T) {
		stub := &groupServiceStub{joinErr: application.ErrNotFound}
		handler := NewGroupHandler(stub, nil)

		req := httptest.NewRequest(http.MethodPost, "/groups/missing/members", nil)
		ctx := ContextWithPrincipal(req.Context(), memberPrincipal())
		req = req.WithContext(ContextWithEntityID(ctx, "missing"))
		rec := httptest.NewRecorder()
		handler.JoinGroup(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

type hostServiceStub struct {
	settings  application.HostSettings
	updateErr error
}

func (s *hostServiceStub) GetSettings(ctx context.Context, host string) (application.HostSettings, error) {
	if s.settings.Host != host {
		return application.HostSettings{}, application.ErrNotFound
	}
	return s.settings, nil
}

func (s *hostServiceStub) UpdateSettings(ctx context.Context, principal application.Principal, host string, input application.HostSettingsInput) (application.HostSettings, error) {
	if s.updateErr != nil {
		return application.HostSettings{}, s.updateErr
	}
	return s.settings, nil
}

func (s *hostServiceStub) UpdateMenu(ctx context.Context, principal application.Principal, host string, menu []application.MenuItem) (application.HostSettings, error) {
	return s.settings, nil
}

func (s *hostServiceStub) SetMainColor(ctx context.Context, principal application.Principal, host string, color application.HSLColor) (application.HostSettings, error) {
	return s.settings, nil
}

func (s *hostServiceStub) SetWorkCategories(ctx context.Context, principal application.Principal, host string, categories []application.WorkCategory) (application.HostSettings, error) {
	return s.settings, nil
}

func TestHostHandler(t *testing.T) {
	t.Run("settings reads are public and scoped to the resolved tenant", func(t *testing.T) {
		stub := &hostServiceStub{settings: application.HostSettings{Host: "example.org", Name: "Example"}}
		handler := NewHostHandler(stub, nil)

		req := httptest.NewRequest(http.MethodGet, "/host/settings", nil)
		req = req.WithContext(ContextWithTenantHost(req.Context(), "example.org"))
		rec := httptest.NewRecorder()
		handler.GetSettings(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var body hostSettingsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Host != "example.org" || body.Name != "Example" {
			t.Errorf("unexpected body: %+v", body)
		}
	})

	t.Run("non-admin updates map to 403", func(t *testing.T) {
		stub := &hostServiceStub{updateErr: application.ErrUnauthorized}
		handler := NewHostHandler(stub, nil)

		req := httptest.NewRequest(http.MethodPut, "/host/settings", strings.NewReader(`{"name":"Renamed"}`))
		ctx := ContextWithPrincipal(req.Context(), memberPrincipal())
		req = req.WithContext(ContextWithTenantHost(ctx, "example.org"))
		rec := httptest.NewRecorder()
		handler.UpdateSettings(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
		}
	})
}

type sessionValidatorStub struct {
	principal application.Principal
	err       error
}

func (s *sessionValidatorStub) ValidateSession(ctx context.Context, token string) (application.Principal, error) {
	if s.err != nil {
		return application.Principal{}, s.err
	}
	return s.principal, nil
}

func TestRequireSession(t *testing.T) {
	t.Run("rejects requests without a token", func(t *testing.T) {
		middleware := RequireSession(&sessionValidatorStub{}, nil)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("next handler should not run")
		})

		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		rec := httptest.NewRecorder()
		middleware(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("expired sessions carry a distinct error code", func(t *testing.T) {
		middleware := RequireSession(&sessionValidatorStub{err: application.ErrSessionExpired}, nil)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("next handler should not run")
		})

		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		middleware(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.ErrorCode != "AUTH_SESSION_EXPIRED" {
			t.Errorf("error_code = %q", body.ErrorCode)
		}
	})

	t.Run("attaches the rebuilt principal to the context", func(t *testing.T) {
		validator := &sessionValidatorStub{principal: memberPrincipal()}
		middleware := RequireSession(validator, nil)

		var seen application.Principal
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = PrincipalFromContext(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-123"})
		rec := httptest.NewRecorder()
		middleware(next).ServeHTTP(rec, req)

		if seen.UserID != "u1" || !seen.IsRegisteredMember {
			t.Errorf("principal = %+v", seen)
		}
	})
}

func TestResolveTenant(t *testing.T) {
	tests := []struct {
		name   string
		header string
		host   string
		want   string
	}{
		{name: "forwarded header wins", header: "community.example.org", host: "internal:8080", want: "community.example.org"},
		{name: "request host without port", host: "example.org:443", want: "example.org"},
		{name: "falls back to the default", want: "default.example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = TenantHostFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/host/settings", nil)
			req.Host = tt.host
			if tt.header != "" {
				req.Header.Set(tenantHostHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			ResolveTenant("default.example.org")(next).ServeHTTP(rec, req)

			if seen != tt.want {
				t.Errorf("tenant host = %q, want %q", seen, tt.want)
			}
		})
	}
}

func TestMetricPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/groups", want: "/groups"},
		{path: "/groups/g1", want: "/groups/:id"},
		{path: "/groups/g1/members", want: "/groups/:id/members"},
		{path: "/", want: "/"},
	}
	for _, tt := range tests {
		if got := metricPath(tt.path); got != tt.want {
			t.Errorf("metricPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

type calendarSourceStub struct {
	activities []application.Activity
	bookings   []application.Booking
}

func (s *calendarSourceStub) ListPublicActivities(ctx context.Context) ([]application.Activity, error) {
	return s.activities, nil
}

func (s *calendarSourceStub) ListPublishedBookings(ctx context.Context) ([]application.Booking, error) {
	return s.bookings, nil
}

func TestRouter(t *testing.T) {
	newTestRouter := func(validator SessionValidator) http.Handler {
		groups := &groupServiceStub{group: application.Group{ID: "g1", Title: "Readers"}}
		source := &calendarSourceStub{
			activities: []application.Activity{{
				ID:    "act-1",
				Title: "Workshop",
				Occurrences: []application.Occurrence{
					{StartDate: "2024-04-01", EndDate: "2024-04-01", StartTime: "10:00", EndTime: "12:00"},
				},
			}},
		}
		return NewRouter(RouterConfig{
			Groups:         NewGroupHandler(groups, nil),
			Calendar:       NewCalendarHandler(calendar.NewFeed("Test"), source, source, nil),
			RequireSession: RequireSession(validator, nil),
			Middleware:     []func(http.Handler) http.Handler{ResolveTenant("example.org")},
		})
	}

	t.Run("group reads are public", func(t *testing.T) {
		router := newTestRouter(&sessionValidatorStub{err: application.ErrUnauthorized})

		req := httptest.NewRequest(http.MethodGet, "/groups/g1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
	})

	t.Run("group membership writes require a session", func(t *testing.T) {
		router := newTestRouter(&sessionValidatorStub{err: application.ErrUnauthorized})

		req := httptest.NewRequest(http.MethodPost, "/groups/g1/members", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("unsupported methods advertise the allowed set", func(t *testing.T) {
		router := newTestRouter(&sessionValidatorStub{})

		req := httptest.NewRequest(http.MethodDelete, "/groups", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
		if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) {
			t.Errorf("Allow header = %q", allow)
		}
	})

	t.Run("calendar feed is served as text/calendar", func(t *testing.T) {
		router := newTestRouter(&sessionValidatorStub{})

		req := httptest.NewRequest(http.MethodGet, "/calendar.ics", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
			t.Errorf("Content-Type = %q", ct)
		}
		if !strings.Contains(rec.Body.String(), "SUMMARY:Workshop") {
			t.Errorf("feed missing activity: %s", rec.Body.String())
		}
	})
}

func TestEventsHandler_Stream(t *testing.T) {
	hub := notify.NewHub(4, nil)
	handler := NewEventsHandler(hub, nil)

	server := httptest.NewServer(http.HandlerFunc(handler.Stream))
	defer server.Close()

	resp, err := http.Get(server.URL + "/events?topic=group")
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	// The subscription is registered before the handler writes headers, so
	// once headers arrive the publish below is guaranteed to be delivered.
	hub.PublishSnapshot("group", "g1", map[string]string{"title": "Readers"})

	reader := bufio.NewReader(resp.Body)
	deadline := time.After(5 * time.Second)
	lines := make(chan string, 4)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			lines <- strings.TrimRight(line, "\n")
		}
	}()

	var data string
	for data == "" {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatalf("stream closed before a snapshot arrived")
			}
			if strings.HasPrefix(line, "data: ") {
				data = strings.TrimPrefix(line, "data: ")
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a snapshot")
		}
	}

	var snapshot notify.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.Topic != "group" || snapshot.EntityID != "g1" {
		t.Errorf("snapshot = %+v", snapshot)
	}
}

func TestEventsHandler_RequiresTopic(t *testing.T) {
	handler := NewEventsHandler(notify.NewHub(1, nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	handler.Stream(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
