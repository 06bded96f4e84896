package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ActivityRepository captures the persistence operations needed by the activity service.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) (Activity, error)
	GetActivity(ctx context.Context, id string) (Activity, error)
	UpdateActivity(ctx context.Context, activity Activity) (Activity, error)
	ListActivitiesByAuthor(ctx context.Context, authorID string) ([]Activity, error)
	ListPublicActivities(ctx context.Context) ([]Activity, error)
}

// ActivityService orchestrates validation, authorization, and persistence for
// published activities and their occurrence lists.
type ActivityService struct {
	activities  ActivityRepository
	publisher   SnapshotPublisher
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewActivityService wires dependencies for the activity service.
func NewActivityService(activities ActivityRepository, idGenerator func() string, now func() time.Time) *ActivityService {
	return NewActivityServiceWithLogger(activities, idGenerator, now, nil)
}

// NewActivityServiceWithLogger constructs an ActivityService with a specified logger.
func NewActivityServiceWithLogger(activities ActivityRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ActivityService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ActivityService{
		activities:  activities,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// SetPublisher attaches a snapshot publisher. A nil publisher disables publishing.
func (s *ActivityService) SetPublisher(publisher SnapshotPublisher) {
	s.publisher = publisher
}

func (s *ActivityService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ActivityService", operation, attrs...)
}

// CreateActivity inserts an activity for any authenticated user. An activity
// always carries at least one occurrence.
func (s *ActivityService) CreateActivity(ctx context.Context, params CreateActivityParams) (Activity, error) {
	if s == nil {
		return Activity{}, fmt.Errorf("ActivityService is nil")
	}
	if params.Principal.UserID == "" {
		return Activity{}, ErrUnauthorized
	}

	vErr := validateActivityInput(params.Input)
	if vErr.HasErrors() {
		return Activity{}, vErr
	}

	now := s.now()
	activity := Activity{
		ID:              s.idGenerator(),
		AuthorID:        params.Principal.UserID,
		AuthorName:      params.Principal.Username,
		Title:           params.Input.Title,
		LongDescription: params.Input.LongDescription,
		Room:            params.Input.Room,
		ImageURL:        params.Input.ImageURL,
		IsPublic:        params.Input.IsPublic,
		Occurrences:     cloneOccurrences(params.Input.Occurrences),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if s.activities == nil {
		return activity, nil
	}

	persisted, err := s.activities.CreateActivity(ctx, activity)
	if err != nil {
		s.loggerWith(ctx, "CreateActivity", "author_id", activity.AuthorID).
			ErrorContext(ctx, "failed to create activity", "error", err, "error_kind", ErrorKind(err))
		return Activity{}, err
	}

	if s.publisher != nil {
		s.publisher.PublishSnapshot("activity", persisted.ID, persisted)
	}
	return persisted, nil
}

// UpdateActivity overwrites an activity. Only the original author may update it.
func (s *ActivityService) UpdateActivity(ctx context.Context, params UpdateActivityParams) (Activity, error) {
	if s == nil {
		return Activity{}, fmt.Errorf("ActivityService is nil")
	}
	if params.Principal.UserID == "" {
		return Activity{}, ErrUnauthorized
	}
	if s.activities == nil {
		return Activity{}, fmt.Errorf("activity repository not configured")
	}

	existing, err := s.activities.GetActivity(ctx, params.ActivityID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Activity{}, ErrNotFound
		}
		return Activity{}, err
	}

	if existing.AuthorID != params.Principal.UserID {
		return Activity{}, ErrUnauthorized
	}

	vErr := validateActivityInput(params.Input)
	if vErr.HasErrors() {
		return Activity{}, vErr
	}

	updated := existing
	updated.Title = params.Input.Title
	updated.LongDescription = params.Input.LongDescription
	updated.Room = params.Input.Room
	updated.ImageURL = params.Input.ImageURL
	updated.IsPublic = params.Input.IsPublic
	updated.Occurrences = cloneOccurrences(params.Input.Occurrences)
	updated.UpdatedAt = s.now()

	persisted, err := s.activities.UpdateActivity(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Activity{}, ErrNotFound
		}
		return Activity{}, err
	}

	if s.publisher != nil {
		s.publisher.PublishSnapshot("activity", persisted.ID, persisted)
	}
	return persisted, nil
}

// ListOwnActivities returns the caller's activities.
func (s *ActivityService) ListOwnActivities(ctx context.Context, principal Principal) ([]Activity, error) {
	if s == nil {
		return nil, fmt.Errorf("ActivityService is nil")
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}
	if s.activities == nil {
		return nil, nil
	}
	return s.activities.ListActivitiesByAuthor(ctx, principal.UserID)
}

// ListPublicActivities returns activities visible without authentication,
// used by the public calendar surfaces.
func (s *ActivityService) ListPublicActivities(ctx context.Context) ([]Activity, error) {
	if s == nil {
		return nil, fmt.Errorf("ActivityService is nil")
	}
	if s.activities == nil {
		return nil, nil
	}
	return s.activities.ListPublicActivities(ctx)
}

func cloneOccurrences(occurrences []Occurrence) []Occurrence {
	out := make([]Occurrence, len(occurrences))
	for i, occurrence := range occurrences {
		out[i] = occurrence
		out[i].Attendees = append([]string(nil), occurrence.Attendees...)
	}
	return out
}

func validateActivityInput(input ActivityInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if len(input.Occurrences) == 0 {
		vErr.add("occurrences", "at least one occurrence is required")
	}

	return vErr
}
