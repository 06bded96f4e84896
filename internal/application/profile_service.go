package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ProfileRepository captures the persistence operations needed for a user's
// own account and profile.
type ProfileRepository interface {
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

// HostMembershipRepository manages a host's embedded participant list and the
// mirrored membership entry on the user record. AddParticipant and
// RemoveParticipant write both sides in a single transaction.
type HostMembershipRepository interface {
	GetHostSettings(ctx context.Context, host string) (HostSettings, error)
	AddParticipant(ctx context.Context, host string, member HostMember, membership Membership) error
	RemoveParticipant(ctx context.Context, host, userID string) error
}

// ProfileService orchestrates the operations a user performs on their own
// account: profile fields, avatar, tenant participation, and deletion.
type ProfileService struct {
	users  ProfileRepository
	hosts  HostMembershipRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewProfileService wires dependencies for the profile service.
func NewProfileService(users ProfileRepository, hosts HostMembershipRepository, now func() time.Time) *ProfileService {
	return NewProfileServiceWithLogger(users, hosts, now, nil)
}

// NewProfileServiceWithLogger constructs a ProfileService with a specified logger.
func NewProfileServiceWithLogger(users ProfileRepository, hosts HostMembershipRepository, now func() time.Time, logger *slog.Logger) *ProfileService {
	if now == nil {
		now = time.Now
	}
	return &ProfileService{
		users:  users,
		hosts:  hosts,
		now:    now,
		logger: defaultLogger(logger),
	}
}

func (s *ProfileService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ProfileService", operation, attrs...)
}

// SaveUserInfo overwrites the caller's profile fields.
func (s *ProfileService) SaveUserInfo(ctx context.Context, principal Principal, input ProfileInput) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("ProfileService is nil")
	}
	if principal.UserID == "" {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("profile repository not configured")
	}

	existing, err := s.users.GetUser(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	updated := existing
	updated.FirstName = strings.TrimSpace(input.FirstName)
	updated.LastName = strings.TrimSpace(input.LastName)
	updated.Bio = input.Bio
	updated.UpdatedAt = s.now()

	return s.users.UpdateUser(ctx, updated)
}

// SetAvatar overwrites the caller's avatar reference and stamps the change.
func (s *ProfileService) SetAvatar(ctx context.Context, principal Principal, src string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("ProfileService is nil")
	}
	if principal.UserID == "" {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("profile repository not configured")
	}

	existing, err := s.users.GetUser(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	now := s.now()
	updated := existing
	updated.Avatar = &Avatar{Src: src, SetAt: now}
	updated.UpdatedAt = now

	return s.users.UpdateUser(ctx, updated)
}

// DeleteAccount removes the caller's own user record. Groups and bookings
// authored by the user are left in place; there is no cascading cleanup.
func (s *ProfileService) DeleteAccount(ctx context.Context, principal Principal) error {
	if s == nil {
		return fmt.Errorf("ProfileService is nil")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}
	if s.users == nil {
		return fmt.Errorf("profile repository not configured")
	}

	if err := s.users.DeleteUser(ctx, principal.UserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.loggerWith(ctx, "DeleteAccount", "user_id", principal.UserID).
		InfoContext(ctx, "account deleted")
	return nil
}

// SetSelfAsParticipant registers the caller as a participant of the given
// host. Both the host's member list and the caller's membership mirror are
// checked first; either side already containing the caller aborts the
// operation.
func (s *ProfileService) SetSelfAsParticipant(ctx context.Context, principal Principal, host string) error {
	if s == nil {
		return fmt.Errorf("ProfileService is nil")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}
	if s.hosts == nil {
		return fmt.Errorf("host repository not configured")
	}

	settings, err := s.hosts.GetHostSettings(ctx, host)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	for _, member := range settings.Members {
		if member.ID == principal.UserID {
			return fmt.Errorf("host already has you as a participant: %w", ErrAlreadyExists)
		}
	}
	for _, membership := range principal.Memberships {
		if membership.Host == host {
			return fmt.Errorf("you are already a participant: %w", ErrAlreadyExists)
		}
	}

	now := s.now()
	member := HostMember{
		ID:       principal.UserID,
		Username: principal.Username,
		Email:    principal.Email,
		Role:     RoleParticipant,
		JoinedAt: now,
	}
	membership := Membership{
		Host:     host,
		Role:     RoleParticipant,
		JoinedAt: now,
	}

	if err := s.hosts.AddParticipant(ctx, host, member, membership); err != nil {
		s.loggerWith(ctx, "SetSelfAsParticipant", "host", host, "user_id", principal.UserID).
			ErrorContext(ctx, "failed to register participant", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	return nil
}

// RemoveAsParticipant removes the caller's participant registration from both
// sides. Either side already missing the caller aborts the operation.
func (s *ProfileService) RemoveAsParticipant(ctx context.Context, principal Principal, host string) error {
	if s == nil {
		return fmt.Errorf("ProfileService is nil")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}
	if s.hosts == nil {
		return fmt.Errorf("host repository not configured")
	}

	settings, err := s.hosts.GetHostSettings(ctx, host)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	found := false
	for _, member := range settings.Members {
		if member.ID == principal.UserID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("host does not have you as a participant: %w", ErrNotFound)
	}

	found = false
	for _, membership := range principal.Memberships {
		if membership.Host == host {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("you are already not a participant: %w", ErrNotFound)
	}

	if err := s.hosts.RemoveParticipant(ctx, host, principal.UserID); err != nil {
		s.loggerWith(ctx, "RemoveAsParticipant", "host", host, "user_id", principal.UserID).
			ErrorContext(ctx, "failed to remove participant", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	return nil
}

// GetProfile returns the caller's own user record.
func (s *ProfileService) GetProfile(ctx context.Context, principal Principal) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("ProfileService is nil")
	}
	if principal.UserID == "" {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("profile repository not configured")
	}
	return s.users.GetUser(ctx, principal.UserID)
}
