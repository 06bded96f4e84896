package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/streamerd/cocoso/internal/persistence"
)

func setupPool(t *testing.T) *ConnectionPool {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "cocoso_test.db")
	pool, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return pool
}

func fixedTime() time.Time {
	return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func seedUser(t *testing.T, pool *ConnectionPool, id, email, username string) {
	t.Helper()

	repo := NewUserRepository(pool)
	err := repo.CreateUser(context.Background(), persistence.User{
		ID:            id,
		Email:         email,
		Username:      username,
		PasswordHash:  "hash",
		Attending:     []string{},
		Processes:     []string{},
		Notifications: []string{},
		CreatedAt:     fixedTime(),
		UpdatedAt:     fixedTime(),
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}
