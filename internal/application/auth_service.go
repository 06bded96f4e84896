package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

// AccountRepository captures the persistence operations needed for account
// registration and credential lookup.
type AccountRepository interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error)
}

// SessionRepository captures the persistence interactions for issued sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// AuthService coordinates account registration, login, and session validation.
type AuthService struct {
	accounts       AccountRepository
	sessions       SessionRepository
	hashPassword   PasswordHasher
	verifyPassword PasswordVerifier
	idGenerator    func() string
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	contextName    string
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(accounts AccountRepository, sessions SessionRepository, idGenerator, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, contextName string) *AuthService {
	return NewAuthServiceWithLogger(accounts, sessions, idGenerator, tokenGenerator, now, sessionTTL, contextName, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(accounts AccountRepository, sessions SessionRepository, idGenerator, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, contextName string, logger *slog.Logger) *AuthService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		accounts:       accounts,
		sessions:       sessions,
		hashPassword:   func(password string) (string, error) { return CreatePasswordHash(password, DefaultArgon2idParams) },
		verifyPassword: VerifyPassword,
		idGenerator:    idGenerator,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		contextName:    contextName,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// CreateAccount registers a new user with empty activity arrays and composes
// the welcome message. Sending the message is currently a no-op; the composed
// body is logged instead.
func (s *AuthService) CreateAccount(ctx context.Context, params CreateAccountParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("AuthService is nil")
	}
	if s.accounts == nil {
		return User{}, fmt.Errorf("account repository not configured")
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	username := strings.TrimSpace(params.Username)

	vErr := &ValidationError{}
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email is invalid")
	}
	if username == "" {
		vErr.add("username", "username is required")
	}
	if len(params.Password) < 8 {
		vErr.add("password", "password must be at least 8 characters")
	}
	if vErr.HasErrors() {
		return User{}, vErr
	}

	hash, err := s.hashPassword(params.Password)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	user := User{
		ID:            s.idGenerator(),
		Email:         email,
		Username:      username,
		Memberships:   []Membership{},
		Groups:        []GroupRef{},
		Attending:     []string{},
		Processes:     []string{},
		Notifications: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	persisted, err := s.accounts.CreateUser(ctx, user, hash)
	if err != nil {
		s.loggerWith(ctx, "CreateAccount", "email", email).
			ErrorContext(ctx, "failed to create account", "error", err, "error_kind", ErrorKind(err))
		return User{}, err
	}

	s.loggerWith(ctx, "CreateAccount", "user_id", persisted.ID).
		InfoContext(ctx, "welcome message composed", "body", s.welcomeMessage(persisted.Username))

	return persisted, nil
}

// welcomeMessage composes the greeting body from the configured context name.
func (s *AuthService) welcomeMessage(username string) string {
	name := s.contextName
	if name == "" {
		name = "Cocoso"
	}
	return fmt.Sprintf(
		"Hi %s,\n\nWe are delighted to have you at %s.\nBy being a subscriber, you can easily take part in our public events and processes.\n\nRegards,\n%s Team",
		username, name, name,
	)
}

// Authenticate validates credentials and issues a new session token.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (AuthenticateResult, error) {
	if s == nil {
		return AuthenticateResult{}, fmt.Errorf("AuthService is nil")
	}
	if s.accounts == nil {
		return AuthenticateResult{}, fmt.Errorf("account repository not configured")
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || params.Password == "" {
		return AuthenticateResult{}, ErrInvalidCredentials
	}

	logger := s.loggerWith(ctx, "Authenticate", "email", email)

	creds, err := s.accounts.GetUserCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		return AuthenticateResult{}, err
	}

	if err := s.verifyPassword(creds.PasswordHash, params.Password); err != nil {
		logger.InfoContext(ctx, "authentication rejected", "error_kind", ErrorKind(ErrInvalidCredentials))
		return AuthenticateResult{}, ErrInvalidCredentials
	}

	now := s.now()
	session := Session{
		ID:        s.idGenerator(),
		UserID:    creds.User.ID,
		Token:     s.tokenGenerator(),
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if s.sessions != nil {
		if err := s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
			return AuthenticateResult{}, err
		}
		persisted, err := s.sessions.CreateSession(ctx, session)
		if err != nil {
			return AuthenticateResult{}, err
		}
		session = persisted
	}

	logger.With("user_id", creds.User.ID, "session_id", session.ID).
		InfoContext(ctx, "authentication succeeded")

	return AuthenticateResult{User: creds.User, Session: session}, nil
}

// ValidateSession resolves a session token to the acting principal. The
// principal is rebuilt from the stored user record on every call.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if s == nil {
		return Principal{}, fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil || s.accounts == nil {
		return Principal{}, fmt.Errorf("auth service not fully configured")
	}
	if strings.TrimSpace(token) == "" {
		return Principal{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrNotFound
		}
		return Principal{}, err
	}

	now := s.now()
	if session.RevokedAt != nil {
		return Principal{}, ErrSessionRevoked
	}
	if !session.ExpiresAt.After(now) {
		return Principal{}, ErrSessionExpired
	}

	user, err := s.accounts.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}

	return Principal{
		UserID:             user.ID,
		Username:           user.Username,
		Email:              user.Email,
		IsRegisteredMember: len(user.Memberships) > 0,
		Memberships:        append([]Membership(nil), user.Memberships...),
	}, nil
}

// RevokeSession invalidates the presented session token.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}
	if strings.TrimSpace(token) == "" {
		return ErrUnauthorized
	}

	if _, err := s.sessions.RevokeSession(ctx, token, s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
