package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// GroupRepository captures the persistence operations needed by the group
// service. CreateGroup, AddMember, and RemoveMember each write the group's
// member list and the user's mirrored group summary in a single transaction.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group Group, adminRef GroupRef) (Group, error)
	GetGroup(ctx context.Context, id string) (Group, error)
	UpdateGroup(ctx context.Context, group Group) (Group, error)
	ListGroups(ctx context.Context) ([]Group, error)
	AddMember(ctx context.Context, groupID string, member GroupMember, ref GroupRef) error
	RemoveMember(ctx context.Context, groupID, userID string) error
}

// ChatCreator creates the companion chat channel for a new group. Creation is
// best effort: failures are logged, never surfaced to the caller.
type ChatCreator interface {
	CreateChat(ctx context.Context, title, groupID string) error
}

// GroupService orchestrates validation, authorization, and persistence for groups.
type GroupService struct {
	groups      GroupRepository
	chats       ChatCreator
	publisher   SnapshotPublisher
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewGroupService wires dependencies for the group service.
func NewGroupService(groups GroupRepository, chats ChatCreator, idGenerator func() string, now func() time.Time) *GroupService {
	return NewGroupServiceWithLogger(groups, chats, idGenerator, now, nil)
}

// NewGroupServiceWithLogger constructs a GroupService with a specified logger.
func NewGroupServiceWithLogger(groups GroupRepository, chats ChatCreator, idGenerator func() string, now func() time.Time, logger *slog.Logger) *GroupService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &GroupService{
		groups:      groups,
		chats:       chats,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// SetPublisher attaches a snapshot publisher. A nil publisher disables publishing.
func (s *GroupService) SetPublisher(publisher SnapshotPublisher) {
	s.publisher = publisher
}

func (s *GroupService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "GroupService", operation, attrs...)
}

// CreateGroup inserts a group for registered members. The admin becomes the
// first entry of the member list and the membership is mirrored onto the
// admin's user record in the same transaction. A companion chat is attempted
// afterwards and its failure only logged.
func (s *GroupService) CreateGroup(ctx context.Context, params CreateGroupParams) (Group, error) {
	if s == nil {
		return Group{}, fmt.Errorf("GroupService is nil")
	}
	if params.Principal.UserID == "" || !params.Principal.IsRegisteredMember {
		return Group{}, ErrUnauthorized
	}

	vErr := validateGroupInput(params.Input)
	if vErr.HasErrors() {
		return Group{}, vErr
	}

	capacity := params.Input.Capacity
	if capacity == 0 {
		capacity = DefaultGroupCapacity
	}

	now := s.now()
	group := Group{
		ID:              s.idGenerator(),
		AdminID:         params.Principal.UserID,
		AdminUsername:   params.Principal.Username,
		Title:           params.Input.Title,
		Description:     params.Input.Description,
		ReadingMaterial: params.Input.ReadingMaterial,
		Capacity:        capacity,
		ImageURL:        params.Input.ImageURL,
		IsPublished:     true,
		Members: []GroupMember{{
			MemberID: params.Principal.UserID,
			Username: params.Principal.Username,
			JoinedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	adminRef := GroupRef{
		GroupID:  group.ID,
		Name:     group.Title,
		IsAdmin:  true,
		JoinedAt: now,
	}

	if s.groups == nil {
		return group, nil
	}

	persisted, err := s.groups.CreateGroup(ctx, group, adminRef)
	if err != nil {
		s.loggerWith(ctx, "CreateGroup", "admin_id", group.AdminID).
			ErrorContext(ctx, "failed to create group", "error", err, "error_kind", ErrorKind(err))
		return Group{}, err
	}

	if s.chats != nil {
		if chatErr := s.chats.CreateChat(ctx, persisted.Title, persisted.ID); chatErr != nil {
			s.loggerWith(ctx, "CreateGroup", "group_id", persisted.ID).
				ErrorContext(ctx, "chat was not created", "error", chatErr)
		}
	}

	s.publish("group", persisted.ID, persisted)
	return persisted, nil
}

// UpdateGroup overwrites the editable fields of a group. Only the group admin
// may update it.
func (s *GroupService) UpdateGroup(ctx context.Context, params UpdateGroupParams) (Group, error) {
	if s == nil {
		return Group{}, fmt.Errorf("GroupService is nil")
	}
	if params.Principal.UserID == "" || !params.Principal.IsRegisteredMember {
		return Group{}, ErrUnauthorized
	}
	if s.groups == nil {
		return Group{}, fmt.Errorf("group repository not configured")
	}

	existing, err := s.groups.GetGroup(ctx, params.GroupID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Group{}, ErrNotFound
		}
		return Group{}, err
	}

	if existing.AdminID != params.Principal.UserID {
		return Group{}, ErrUnauthorized
	}

	vErr := validateGroupInput(params.Input)
	if vErr.HasErrors() {
		return Group{}, vErr
	}

	updated := existing
	updated.Title = params.Input.Title
	updated.Description = params.Input.Description
	updated.ReadingMaterial = params.Input.ReadingMaterial
	updated.Capacity = params.Input.Capacity
	updated.ImageURL = params.Input.ImageURL
	updated.UpdatedAt = s.now()

	persisted, err := s.groups.UpdateGroup(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Group{}, ErrNotFound
		}
		return Group{}, err
	}

	s.publish("group", persisted.ID, persisted)
	return persisted, nil
}

// JoinGroup adds the caller to the group's member list and mirrors the
// membership onto the caller's user record. Both writes happen in one
// transaction; joining a group the caller already belongs to is a no-op at
// the member-set level.
func (s *GroupService) JoinGroup(ctx context.Context, principal Principal, groupID string) error {
	if s == nil {
		return fmt.Errorf("GroupService is nil")
	}
	if principal.UserID == "" || !principal.IsRegisteredMember {
		return ErrUnauthorized
	}
	if s.groups == nil {
		return fmt.Errorf("group repository not configured")
	}

	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	now := s.now()
	member := GroupMember{
		MemberID: principal.UserID,
		Username: principal.Username,
		JoinedAt: now,
	}
	ref := GroupRef{
		GroupID:  group.ID,
		Name:     group.Title,
		JoinedAt: now,
	}

	if err := s.groups.AddMember(ctx, group.ID, member, ref); err != nil {
		s.loggerWith(ctx, "JoinGroup", "group_id", group.ID, "user_id", principal.UserID).
			ErrorContext(ctx, "could not join the group", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.publishGroup(ctx, group.ID)
	return nil
}

// LeaveGroup removes the caller from the member list and removes the mirrored
// summary from the caller's user record, in one transaction.
func (s *GroupService) LeaveGroup(ctx context.Context, principal Principal, groupID string) error {
	if s == nil {
		return fmt.Errorf("GroupService is nil")
	}
	if principal.UserID == "" || !principal.IsRegisteredMember {
		return ErrUnauthorized
	}
	if s.groups == nil {
		return fmt.Errorf("group repository not configured")
	}

	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.groups.RemoveMember(ctx, group.ID, principal.UserID); err != nil {
		s.loggerWith(ctx, "LeaveGroup", "group_id", group.ID, "user_id", principal.UserID).
			ErrorContext(ctx, "could not leave the group", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.publishGroup(ctx, group.ID)
	return nil
}

// GetGroup loads one group.
func (s *GroupService) GetGroup(ctx context.Context, id string) (Group, error) {
	if s == nil || s.groups == nil {
		return Group{}, ErrNotFound
	}
	return s.groups.GetGroup(ctx, id)
}

// ListGroups returns all groups.
func (s *GroupService) ListGroups(ctx context.Context) ([]Group, error) {
	if s == nil || s.groups == nil {
		return nil, nil
	}
	return s.groups.ListGroups(ctx)
}

func (s *GroupService) publish(kind, id string, data any) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishSnapshot(kind, id, data)
}

// publishGroup re-reads the group so subscribers receive the post-mutation state.
func (s *GroupService) publishGroup(ctx context.Context, groupID string) {
	if s.publisher == nil {
		return
	}
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return
	}
	s.publish("group", group.ID, group)
}

func validateGroupInput(input GroupInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		vErr.add("description", "description is required")
	}
	if input.Capacity < 0 {
		vErr.add("capacity", "capacity must not be negative")
	}

	return vErr
}
