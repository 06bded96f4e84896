package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/streamerd/cocoso/internal/application"
	httptransport "github.com/streamerd/cocoso/internal/http"
	"github.com/streamerd/cocoso/internal/persistence/sqlite"
)

// These tests compose the real stack end to end: SQLite store, adapters,
// services, and router. The package tests elsewhere stub the repositories
// with application sentinels, which leaves the adapter translation itself
// unverified; here the sentinels have to travel from the driver all the way
// to the HTTP status.

func setupStorage(t *testing.T) *sqlite.ConnectionPool {
	t.Helper()

	pool, err := sqlite.Open(filepath.Join(t.TempDir(), "cocoso.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return pool
}

func sequentialIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%03d", prefix, counter)
	}
}

func TestComposedStack_StatusMapping(t *testing.T) {
	logger := slog.Default()

	t.Run("missing group resolves to 404 through the store", func(t *testing.T) {
		pool := setupStorage(t)
		groups := newGroupRepositoryAdapter(sqlite.NewGroupRepository(pool))
		service := application.NewGroupServiceWithLogger(groups, newChatAnnouncer(logger), sequentialIDs("group"), time.Now, logger)
		router := httptransport.NewRouter(httptransport.RouterConfig{
			Groups: httptransport.NewGroupHandler(service, logger),
		})

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/groups/missing-id", nil))

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404, body = %s", recorder.Code, recorder.Body.String())
		}
	})

	t.Run("unknown session token resolves to 401 through the store", func(t *testing.T) {
		pool := setupStorage(t)
		users := newUserRepositoryAdapter(sqlite.NewUserRepository(pool))
		sessions := newSessionRepositoryAdapter(sqlite.NewSessionRepository(pool))
		hosts := newHostRepositoryAdapter(sqlite.NewHostRepository(pool))
		authService := application.NewAuthServiceWithLogger(users, sessions, sequentialIDs("user"), sequentialIDs("token"), time.Now, time.Hour, "Cocoso", logger)
		profileService := application.NewProfileServiceWithLogger(users, hosts, time.Now, logger)
		router := httptransport.NewRouter(httptransport.RouterConfig{
			Profile:        httptransport.NewProfileHandler(profileService, logger),
			RequireSession: httptransport.RequireSession(authService, logger),
		})

		request := httptest.NewRequest(http.MethodGet, "/profile", nil)
		request.Header.Set("Authorization", "Bearer not-a-real-token")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401, body = %s", recorder.Code, recorder.Body.String())
		}
	})

	t.Run("duplicate email registration resolves to 409 through the store", func(t *testing.T) {
		pool := setupStorage(t)
		users := newUserRepositoryAdapter(sqlite.NewUserRepository(pool))
		sessions := newSessionRepositoryAdapter(sqlite.NewSessionRepository(pool))
		authService := application.NewAuthServiceWithLogger(users, sessions, sequentialIDs("user"), sequentialIDs("token"), time.Now, time.Hour, "Cocoso", logger)
		router := httptransport.NewRouter(httptransport.RouterConfig{
			Auth: httptransport.NewAuthHandler(authService, logger),
		})

		register := func(username string) *httptest.ResponseRecorder {
			body := `{"email":"kadri@example.org","username":"` + username + `","password":"correct horse"}`
			request := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(body))
			request.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)
			return recorder
		}

		if first := register("kadri"); first.Code != http.StatusCreated {
			t.Fatalf("first registration status = %d, body = %s", first.Code, first.Body.String())
		}
		if second := register("kadri2"); second.Code != http.StatusConflict {
			t.Fatalf("second registration status = %d, want 409, body = %s", second.Code, second.Body.String())
		}
	})
}
