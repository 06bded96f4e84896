package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/streamerd/cocoso/internal/persistence"
)

// HostRepository implements persistence.HostRepository using SQLite. The
// participant operations write the host-side row and the user-side membership
// mirror in one transaction.
type HostRepository struct {
	pool *ConnectionPool
}

// NewHostRepository creates a new SQLite host repository.
func NewHostRepository(pool *ConnectionPool) *HostRepository {
	return &HostRepository{pool: pool}
}

// UpsertHostSettings inserts or overwrites the settings row for a host.
func (r *HostRepository) UpsertHostSettings(ctx context.Context, settings persistence.HostSettings) error {
	if settings.Host == "" {
		return persistence.ErrConstraintViolation
	}

	menu, err := encodeJSON(settings.Menu)
	if err != nil {
		return err
	}
	categories, err := encodeJSON(settings.Categories)
	if err != nil {
		return err
	}

	_, err = r.pool.db.ExecContext(ctx, `
		INSERT INTO hosts (host, name, email, address, city, country, logo_url,
			main_color_h, main_color_s, main_color_l, menu, categories, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(host) DO UPDATE SET
			name = excluded.name, email = excluded.email, address = excluded.address,
			city = excluded.city, country = excluded.country, logo_url = excluded.logo_url,
			main_color_h = excluded.main_color_h, main_color_s = excluded.main_color_s,
			main_color_l = excluded.main_color_l, menu = excluded.menu,
			categories = excluded.categories, updated_at = excluded.updated_at`,
		settings.Host,
		settings.Name,
		settings.Email,
		settings.Address,
		settings.City,
		settings.Country,
		settings.LogoURL,
		settings.MainColorH,
		settings.MainColorS,
		settings.MainColorL,
		menu,
		categories,
		formatTime(settings.UpdatedAt),
	)
	return mapError(err)
}

// GetHostSettings retrieves a host's settings with the participant list loaded.
func (r *HostRepository) GetHostSettings(ctx context.Context, host string) (persistence.HostSettings, error) {
	if host == "" {
		return persistence.HostSettings{}, persistence.ErrNotFound
	}

	var (
		settings   persistence.HostSettings
		menu       string
		categories string
		updatedAt  string
	)
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT host, name, email, address, city, country, logo_url,
			main_color_h, main_color_s, main_color_l, menu, categories, updated_at
		FROM hosts WHERE host = ?`,
		host,
	).Scan(
		&settings.Host,
		&settings.Name,
		&settings.Email,
		&settings.Address,
		&settings.City,
		&settings.Country,
		&settings.LogoURL,
		&settings.MainColorH,
		&settings.MainColorS,
		&settings.MainColorL,
		&menu,
		&categories,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.HostSettings{}, persistence.ErrNotFound
		}
		return persistence.HostSettings{}, mapError(err)
	}

	if err := json.Unmarshal([]byte(menu), &settings.Menu); err != nil {
		return persistence.HostSettings{}, fmt.Errorf("decode menu: %w", err)
	}
	if err := json.Unmarshal([]byte(categories), &settings.Categories); err != nil {
		return persistence.HostSettings{}, fmt.Errorf("decode categories: %w", err)
	}
	if settings.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return persistence.HostSettings{}, err
	}

	if settings.Members, err = r.listMembers(ctx, host); err != nil {
		return persistence.HostSettings{}, err
	}
	return settings, nil
}

// AddParticipant writes the host-side member row and the user-side membership
// mirror in one transaction.
func (r *HostRepository) AddParticipant(ctx context.Context, host string, member persistence.HostMember, membership persistence.Membership) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO host_members (host, user_id, username, email, role, joined_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			host, member.UserID, member.Username, member.Email, member.Role, formatTime(member.JoinedAt),
		)
		if err != nil {
			return mapError(err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO user_memberships (user_id, host, role, joined_at)
			VALUES (?, ?, ?, ?)`,
			membership.UserID, host, membership.Role, formatTime(membership.JoinedAt),
		)
		return mapError(err)
	})
}

// RemoveParticipant deletes the host-side member row and the user-side
// membership mirror in one transaction.
func (r *HostRepository) RemoveParticipant(ctx context.Context, host, userID string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM host_members WHERE host = ? AND user_id = ?",
			host, userID,
		); err != nil {
			return mapError(err)
		}

		_, err := tx.ExecContext(ctx,
			"DELETE FROM user_memberships WHERE user_id = ? AND host = ?",
			userID, host,
		)
		return mapError(err)
	})
}

func (r *HostRepository) listMembers(ctx context.Context, host string) ([]persistence.HostMember, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT host, user_id, username, email, role, joined_at
		FROM host_members WHERE host = ? ORDER BY joined_at ASC, user_id ASC`,
		host,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	members := []persistence.HostMember{}
	for rows.Next() {
		var member persistence.HostMember
		var joinedAt string
		if err := rows.Scan(&member.Host, &member.UserID, &member.Username, &member.Email, &member.Role, &joinedAt); err != nil {
			return nil, mapError(err)
		}
		if member.JoinedAt, err = parseTime(joinedAt, "joined_at"); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, mapError(rows.Err())
}
