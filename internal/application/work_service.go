package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// WorkRepository captures the persistence operations needed by the work service.
type WorkRepository interface {
	CreateWork(ctx context.Context, work Work) (Work, error)
	GetWork(ctx context.Context, id string) (Work, error)
	UpdateWork(ctx context.Context, work Work) (Work, error)
	DeleteWork(ctx context.Context, id string) error
	ListWorksByAuthor(ctx context.Context, authorID string) ([]Work, error)
}

// WorkService orchestrates the portfolio pieces members publish.
type WorkService struct {
	works       WorkRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewWorkService wires dependencies for the work service.
func NewWorkService(works WorkRepository, idGenerator func() string, now func() time.Time) *WorkService {
	return NewWorkServiceWithLogger(works, idGenerator, now, nil)
}

// NewWorkServiceWithLogger constructs a WorkService with a specified logger.
func NewWorkServiceWithLogger(works WorkRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *WorkService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &WorkService{works: works, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

// CreateWork inserts a work for any authenticated user.
func (s *WorkService) CreateWork(ctx context.Context, params CreateWorkParams) (Work, error) {
	if s == nil {
		return Work{}, fmt.Errorf("WorkService is nil")
	}
	if params.Principal.UserID == "" {
		return Work{}, ErrUnauthorized
	}

	vErr := validateWorkInput(params.Input)
	if vErr.HasErrors() {
		return Work{}, vErr
	}

	now := s.now()
	work := Work{
		ID:               s.idGenerator(),
		AuthorID:         params.Principal.UserID,
		AuthorUsername:   params.Principal.Username,
		Title:            params.Input.Title,
		ShortDescription: params.Input.ShortDescription,
		LongDescription:  params.Input.LongDescription,
		Category:         params.Input.Category,
		Images:           append([]string(nil), params.Input.Images...),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if s.works == nil {
		return work, nil
	}
	return s.works.CreateWork(ctx, work)
}

// UpdateWork overwrites a work. Only the original author may update it.
func (s *WorkService) UpdateWork(ctx context.Context, params UpdateWorkParams) (Work, error) {
	if s == nil {
		return Work{}, fmt.Errorf("WorkService is nil")
	}
	if params.Principal.UserID == "" {
		return Work{}, ErrUnauthorized
	}
	if s.works == nil {
		return Work{}, fmt.Errorf("work repository not configured")
	}

	existing, err := s.works.GetWork(ctx, params.WorkID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Work{}, ErrNotFound
		}
		return Work{}, err
	}

	if existing.AuthorID != params.Principal.UserID {
		return Work{}, ErrUnauthorized
	}

	vErr := validateWorkInput(params.Input)
	if vErr.HasErrors() {
		return Work{}, vErr
	}

	updated := existing
	updated.Title = params.Input.Title
	updated.ShortDescription = params.Input.ShortDescription
	updated.LongDescription = params.Input.LongDescription
	updated.Category = params.Input.Category
	updated.Images = append([]string(nil), params.Input.Images...)
	updated.UpdatedAt = s.now()

	return s.works.UpdateWork(ctx, updated)
}

// DeleteWork removes a work. Only the original author may delete it.
func (s *WorkService) DeleteWork(ctx context.Context, principal Principal, workID string) error {
	if s == nil {
		return fmt.Errorf("WorkService is nil")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}
	if s.works == nil {
		return fmt.Errorf("work repository not configured")
	}

	existing, err := s.works.GetWork(ctx, workID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if existing.AuthorID != principal.UserID {
		return ErrUnauthorized
	}

	return s.works.DeleteWork(ctx, workID)
}

// ListOwnWorks returns the caller's works.
func (s *WorkService) ListOwnWorks(ctx context.Context, principal Principal) ([]Work, error) {
	if s == nil {
		return nil, fmt.Errorf("WorkService is nil")
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}
	if s.works == nil {
		return nil, nil
	}
	return s.works.ListWorksByAuthor(ctx, principal.UserID)
}

func validateWorkInput(input WorkInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}

	return vErr
}
