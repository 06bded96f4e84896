package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type accountRepoStub struct {
	createdUser User
	createdHash string
	createErr   error
	user        User
	credentials UserCredentials
	credsErr    error
}

func (r *accountRepoStub) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	if r.createErr != nil {
		return User{}, r.createErr
	}
	r.createdUser = user
	r.createdHash = passwordHash
	return user, nil
}

func (r *accountRepoStub) GetUser(ctx context.Context, id string) (User, error) {
	if r.user.ID == "" || r.user.ID != id {
		return User{}, ErrNotFound
	}
	return r.user, nil
}

func (r *accountRepoStub) GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error) {
	if r.credsErr != nil {
		return UserCredentials{}, r.credsErr
	}
	if r.credentials.User.Email != email {
		return UserCredentials{}, ErrNotFound
	}
	return r.credentials, nil
}

type sessionRepoStub struct {
	created        Session
	stored         Session
	revoked        *Session
	purgedBefore   *time.Time
	getErr         error
	purgeCallCount int
}

func (r *sessionRepoStub) CreateSession(ctx context.Context, session Session) (Session, error) {
	r.created = session
	return session, nil
}

func (r *sessionRepoStub) GetSession(ctx context.Context, token string) (Session, error) {
	if r.getErr != nil {
		return Session{}, r.getErr
	}
	if r.stored.Token == "" || r.stored.Token != token {
		return Session{}, ErrNotFound
	}
	return r.stored, nil
}

func (r *sessionRepoStub) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error) {
	if r.stored.Token != token {
		return Session{}, ErrNotFound
	}
	session := r.stored
	session.RevokedAt = &revokedAt
	r.revoked = &session
	return session, nil
}

func (r *sessionRepoStub) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	r.purgedBefore = &reference
	r.purgeCallCount++
	return nil
}

func newTestAuthService(accounts *accountRepoStub, sessions *sessionRepoStub) *AuthService {
	svc := NewAuthService(accounts, sessions, sequentialIDs("s"), sequentialIDs("tok"), testClock(), time.Hour, "Commons")
	// Argon2id is too slow for a unit loop.
	svc.hashPassword = func(password string) (string, error) { return "hashed:" + password, nil }
	svc.verifyPassword = func(hashedPassword, password string) error {
		if hashedPassword != "hashed:"+password {
			return ErrInvalidCredentials
		}
		return nil
	}
	return svc
}

func TestAuthService_CreateAccount(t *testing.T) {
	t.Run("collects field errors for bad input", func(t *testing.T) {
		svc := newTestAuthService(&accountRepoStub{}, &sessionRepoStub{})

		_, err := svc.CreateAccount(context.Background(), CreateAccountParams{
			Email: "not-an-email", Username: "", Password: "short",
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"email", "username", "password"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("persists a hashed password and empty activity arrays", func(t *testing.T) {
		repo := &accountRepoStub{}
		svc := newTestAuthService(repo, &sessionRepoStub{})

		user, err := svc.CreateAccount(context.Background(), CreateAccountParams{
			Email: " Ada@Example.org ", Username: "ada", Password: "correct horse",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if user.Email != "ada@example.org" {
			t.Fatalf("expected normalized email, got %q", user.Email)
		}
		if repo.createdHash != "hashed:correct horse" {
			t.Fatalf("expected the derived hash to be stored, got %q", repo.createdHash)
		}
		if user.Memberships == nil || user.Groups == nil || user.Attending == nil {
			t.Fatalf("expected empty arrays to be seeded, got %+v", user)
		}
		if len(user.Memberships) != 0 {
			t.Fatalf("expected a fresh account to hold no memberships")
		}
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	creds := UserCredentials{
		User:         User{ID: "u1", Username: "ada", Email: "ada@example.org"},
		PasswordHash: "hashed:correct horse",
	}

	t.Run("wrong password maps to invalid credentials", func(t *testing.T) {
		svc := newTestAuthService(&accountRepoStub{credentials: creds}, &sessionRepoStub{})

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{
			Email: "ada@example.org", Password: "wrong",
		})

		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		svc := newTestAuthService(&accountRepoStub{}, &sessionRepoStub{})

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{
			Email: "nobody@example.org", Password: "whatever",
		})

		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("issues a session and purges stale ones first", func(t *testing.T) {
		sessions := &sessionRepoStub{}
		svc := newTestAuthService(&accountRepoStub{credentials: creds}, sessions)

		result, err := svc.Authenticate(context.Background(), AuthenticateParams{
			Email: "ada@example.org", Password: "correct horse",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if sessions.purgeCallCount != 1 {
			t.Fatalf("expected one purge before issuing, got %d", sessions.purgeCallCount)
		}
		if result.Session.Token == "" {
			t.Fatalf("expected a session token")
		}
		wantExpiry := testClock()().Add(time.Hour)
		if !result.Session.ExpiresAt.Equal(wantExpiry) {
			t.Fatalf("expected expiry %v, got %v", wantExpiry, result.Session.ExpiresAt)
		}
		if result.User.ID != "u1" {
			t.Fatalf("expected the stored user back, got %+v", result.User)
		}
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	now := testClock()()
	user := User{
		ID: "u1", Username: "ada", Email: "ada@example.org",
		Memberships: []Membership{{Host: "commons.example", Role: RoleContributor, JoinedAt: now}},
	}

	t.Run("rebuilds the principal from the stored user", func(t *testing.T) {
		accounts := &accountRepoStub{user: user}
		sessions := &sessionRepoStub{stored: Session{ID: "s1", UserID: "u1", Token: "tok-1", ExpiresAt: now.Add(time.Hour)}}
		svc := newTestAuthService(accounts, sessions)

		principal, err := svc.ValidateSession(context.Background(), "tok-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if principal.UserID != "u1" || !principal.IsRegisteredMember {
			t.Fatalf("expected a registered principal, got %+v", principal)
		}
		if principal.RoleFor("commons.example") != RoleContributor {
			t.Fatalf("expected the contributor role to be carried over")
		}
	})

	t.Run("expired session is rejected", func(t *testing.T) {
		sessions := &sessionRepoStub{stored: Session{ID: "s1", UserID: "u1", Token: "tok-1", ExpiresAt: now.Add(-time.Minute)}}
		svc := newTestAuthService(&accountRepoStub{user: user}, sessions)

		_, err := svc.ValidateSession(context.Background(), "tok-1")

		if !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("revoked session is rejected", func(t *testing.T) {
		revokedAt := now.Add(-time.Minute)
		sessions := &sessionRepoStub{stored: Session{
			ID: "s1", UserID: "u1", Token: "tok-1",
			ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt,
		}}
		svc := newTestAuthService(&accountRepoStub{user: user}, sessions)

		_, err := svc.ValidateSession(context.Background(), "tok-1")

		if !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})

	t.Run("empty token is unauthorized", func(t *testing.T) {
		svc := newTestAuthService(&accountRepoStub{}, &sessionRepoStub{})

		if _, err := svc.ValidateSession(context.Background(), "  "); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestAuthService_RevokeSession(t *testing.T) {
	sessions := &sessionRepoStub{stored: Session{ID: "s1", UserID: "u1", Token: "tok-1"}}
	svc := newTestAuthService(&accountRepoStub{}, sessions)

	if err := svc.RevokeSession(context.Background(), "tok-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessions.revoked == nil || sessions.revoked.RevokedAt == nil {
		t.Fatalf("expected the session to carry a revocation timestamp")
	}

	if err := svc.RevokeSession(context.Background(), "unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown token, got %v", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := CreatePasswordHash("correct horse battery staple", DefaultArgon2idParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := VerifyPassword(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("expected the original password to verify, got %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected a mismatched password to fail")
	}
}
