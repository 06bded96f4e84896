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

// HostRepository captures the persistence operations needed by the host service.
type HostRepository interface {
	GetHostSettings(ctx context.Context, host string) (HostSettings, error)
	UpdateHostSettings(ctx context.Context, settings HostSettings) (HostSettings, error)
}

// HostService orchestrates per-tenant branding and settings. Every mutation
// requires the caller to hold the admin role on the host being changed.
type HostService struct {
	hosts     HostRepository
	publisher SnapshotPublisher
	now       func() time.Time
	logger    *slog.Logger
}

// NewHostService wires dependencies for the host service.
func NewHostService(hosts HostRepository, now func() time.Time) *HostService {
	return NewHostServiceWithLogger(hosts, now, nil)
}

// NewHostServiceWithLogger constructs a HostService with a specified logger.
func NewHostServiceWithLogger(hosts HostRepository, now func() time.Time, logger *slog.Logger) *HostService {
	if now == nil {
		now = time.Now
	}
	return &HostService{hosts: hosts, now: now, logger: defaultLogger(logger)}
}

// SetPublisher attaches a snapshot publisher. A nil publisher disables publishing.
func (s *HostService) SetPublisher(publisher SnapshotPublisher) {
	s.publisher = publisher
}

func (s *HostService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "HostService", operation, attrs...)
}

// GetSettings returns the settings for a host. No role is required to read
// them; branding and menus are public chrome.
func (s *HostService) GetSettings(ctx context.Context, host string) (HostSettings, error) {
	if s == nil || s.hosts == nil {
		return HostSettings{}, ErrNotFound
	}
	return s.hosts.GetHostSettings(ctx, host)
}

// UpdateSettings overwrites the contact and branding fields of a host.
func (s *HostService) UpdateSettings(ctx context.Context, principal Principal, host string, input HostSettingsInput) (HostSettings, error) {
	return s.mutate(ctx, principal, host, "UpdateSettings", func(settings *HostSettings) *ValidationError {
		vErr := &ValidationError{}
		if strings.TrimSpace(input.Name) == "" {
			vErr.add("name", "name is required")
		}
		if email := strings.TrimSpace(input.Email); email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				vErr.add("email", "email is invalid")
			}
		}
		if vErr.HasErrors() {
			return vErr
		}

		settings.Name = strings.TrimSpace(input.Name)
		settings.Email = strings.TrimSpace(input.Email)
		settings.Address = input.Address
		settings.City = input.City
		settings.Country = input.Country
		settings.LogoURL = input.LogoURL
		return nil
	})
}

// UpdateMenu replaces the host's menu item list, preserving caller order.
func (s *HostService) UpdateMenu(ctx context.Context, principal Principal, host string, menu []MenuItem) (HostSettings, error) {
	return s.mutate(ctx, principal, host, "UpdateMenu", func(settings *HostSettings) *ValidationError {
		vErr := &ValidationError{}
		for _, item := range menu {
			if strings.TrimSpace(item.Name) == "" {
				vErr.add("menu", "menu item name is required")
				break
			}
		}
		if vErr.HasErrors() {
			return vErr
		}

		settings.Menu = append([]MenuItem(nil), menu...)
		return nil
	})
}

// SetMainColor replaces the host's main brand color.
func (s *HostService) SetMainColor(ctx context.Context, principal Principal, host string, color HSLColor) (HostSettings, error) {
	return s.mutate(ctx, principal, host, "SetMainColor", func(settings *HostSettings) *ValidationError {
		vErr := &ValidationError{}
		if color.Hue < 0 || color.Hue > 360 {
			vErr.add("hue", "hue must be between 0 and 360")
		}
		if color.Saturation < 0 || color.Saturation > 100 {
			vErr.add("saturation", "saturation must be between 0 and 100")
		}
		if color.Lightness < 0 || color.Lightness > 100 {
			vErr.add("lightness", "lightness must be between 0 and 100")
		}
		if vErr.HasErrors() {
			return vErr
		}

		settings.MainColor = color
		return nil
	})
}

// SetWorkCategories replaces the host's work category list.
func (s *HostService) SetWorkCategories(ctx context.Context, principal Principal, host string, categories []WorkCategory) (HostSettings, error) {
	return s.mutate(ctx, principal, host, "SetWorkCategories", func(settings *HostSettings) *ValidationError {
		vErr := &ValidationError{}
		for _, category := range categories {
			if strings.TrimSpace(category.Label) == "" {
				vErr.add("categories", "category label is required")
				break
			}
		}
		if vErr.HasErrors() {
			return vErr
		}

		settings.Categories = append([]WorkCategory(nil), categories...)
		return nil
	})
}

// mutate loads the host settings, checks the admin role, applies fn, and
// persists the result.
func (s *HostService) mutate(ctx context.Context, principal Principal, host, operation string, fn func(*HostSettings) *ValidationError) (HostSettings, error) {
	if s == nil {
		return HostSettings{}, fmt.Errorf("HostService is nil")
	}
	if principal.UserID == "" || principal.RoleFor(host) != RoleAdmin {
		return HostSettings{}, ErrUnauthorized
	}
	if s.hosts == nil {
		return HostSettings{}, fmt.Errorf("host repository not configured")
	}

	settings, err := s.hosts.GetHostSettings(ctx, host)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return HostSettings{}, ErrNotFound
		}
		return HostSettings{}, err
	}

	if vErr := fn(&settings); vErr.HasErrors() {
		return HostSettings{}, vErr
	}
	settings.UpdatedAt = s.now()

	persisted, err := s.hosts.UpdateHostSettings(ctx, settings)
	if err != nil {
		s.loggerWith(ctx, operation, "host", host).
			ErrorContext(ctx, "failed to update host settings", "error", err, "error_kind", ErrorKind(err))
		return HostSettings{}, err
	}

	if s.publisher != nil {
		s.publisher.PublishSnapshot("host", persisted.Host, persisted)
	}
	return persisted, nil
}
