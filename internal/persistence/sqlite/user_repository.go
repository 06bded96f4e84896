package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/streamerd/cocoso/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	pool *ConnectionPool
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{pool: pool}
}

// CreateUser inserts a new user together with its membership and group rows.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	attending, err := encodeJSON(user.Attending)
	if err != nil {
		return err
	}
	processes, err := encodeJSON(user.Processes)
	if err != nil {
		return err
	}
	notifications, err := encodeJSON(user.Notifications)
	if err != nil {
		return err
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, email, username, first_name, last_name, bio,
				avatar_src, avatar_set_at, password_hash,
				attending, processes, notifications, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			user.ID,
			normalizeEmail(user.Email),
			user.Username,
			user.FirstName,
			user.LastName,
			user.Bio,
			user.AvatarSrc,
			formatNullableTime(user.AvatarSetAt),
			user.PasswordHash,
			attending,
			processes,
			notifications,
			formatTime(user.CreatedAt),
			formatTime(user.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}

		for _, membership := range user.Memberships {
			if err := insertMembershipTx(ctx, tx, user.ID, membership); err != nil {
				return err
			}
		}
		for _, ref := range user.Groups {
			if err := insertGroupRefTx(ctx, tx, user.ID, ref); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateUser overwrites the user's own columns. Membership and group rows are
// owned by their respective repositories and left untouched.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrNotFound
	}

	attending, err := encodeJSON(user.Attending)
	if err != nil {
		return err
	}
	processes, err := encodeJSON(user.Processes)
	if err != nil {
		return err
	}
	notifications, err := encodeJSON(user.Notifications)
	if err != nil {
		return err
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, username = ?, first_name = ?, last_name = ?, bio = ?,
			avatar_src = ?, avatar_set_at = ?,
			attending = ?, processes = ?, notifications = ?, updated_at = ?
		WHERE id = ?`,
		normalizeEmail(user.Email),
		user.Username,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.AvatarSrc,
		formatNullableTime(user.AvatarSetAt),
		attending,
		processes,
		notifications,
		formatTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return rowsAffectedOrNotFound(result)
}

// GetUser retrieves a user by ID with memberships and group refs loaded.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	return r.getUserWhere(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by normalized email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	if email == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	return r.getUserWhere(ctx, "email = ?", normalizeEmail(email))
}

func (r *UserRepository) getUserWhere(ctx context.Context, where string, arg any) (persistence.User, error) {
	var (
		user          persistence.User
		avatarSetAt   *string
		attending     string
		processes     string
		notifications string
		createdAt     string
		updatedAt     string
	)

	err := r.pool.db.QueryRowContext(ctx, `
		SELECT id, email, username, first_name, last_name, bio,
			avatar_src, avatar_set_at, password_hash,
			attending, processes, notifications, created_at, updated_at
		FROM users WHERE `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.AvatarSrc,
		&avatarSetAt,
		&user.PasswordHash,
		&attending,
		&processes,
		&notifications,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, mapError(err)
	}

	if user.AvatarSetAt, err = parseNullableTime(avatarSetAt, "avatar_set_at"); err != nil {
		return persistence.User{}, err
	}
	if user.Attending, err = decodeStringList(attending, "attending"); err != nil {
		return persistence.User{}, err
	}
	if user.Processes, err = decodeStringList(processes, "processes"); err != nil {
		return persistence.User{}, err
	}
	if user.Notifications, err = decodeStringList(notifications, "notifications"); err != nil {
		return persistence.User{}, err
	}
	if user.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return persistence.User{}, err
	}

	if user.Memberships, err = r.listMemberships(ctx, user.ID); err != nil {
		return persistence.User{}, err
	}
	if user.Groups, err = r.listGroupRefs(ctx, user.ID); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

func (r *UserRepository) listMemberships(ctx context.Context, userID string) ([]persistence.Membership, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT user_id, host, role, joined_at
		FROM user_memberships WHERE user_id = ? ORDER BY joined_at ASC, host ASC`,
		userID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	memberships := []persistence.Membership{}
	for rows.Next() {
		var membership persistence.Membership
		var joinedAt string
		if err := rows.Scan(&membership.UserID, &membership.Host, &membership.Role, &joinedAt); err != nil {
			return nil, mapError(err)
		}
		if membership.JoinedAt, err = parseTime(joinedAt, "joined_at"); err != nil {
			return nil, err
		}
		memberships = append(memberships, membership)
	}
	return memberships, mapError(rows.Err())
}

func (r *UserRepository) listGroupRefs(ctx context.Context, userID string) ([]persistence.GroupRef, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT user_id, group_id, name, is_admin, joined_at
		FROM user_groups WHERE user_id = ? ORDER BY joined_at ASC, group_id ASC`,
		userID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	refs := []persistence.GroupRef{}
	for rows.Next() {
		var ref persistence.GroupRef
		var joinedAt string
		if err := rows.Scan(&ref.UserID, &ref.GroupID, &ref.Name, &ref.IsAdmin, &joinedAt); err != nil {
			return nil, mapError(err)
		}
		if ref.JoinedAt, err = parseTime(joinedAt, "joined_at"); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, mapError(rows.Err())
}

// DeleteUser removes a user and its membership and group rows. Content
// authored by the user is left in place.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", id); err != nil {
			return mapError(err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM host_members WHERE user_id = ?", id); err != nil {
			return mapError(err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE member_id = ?", id); err != nil {
			return mapError(err)
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
		if err != nil {
			return mapError(err)
		}
		return rowsAffectedOrNotFound(result)
	})
}

func insertMembershipTx(ctx context.Context, tx *sql.Tx, userID string, membership persistence.Membership) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_memberships (user_id, host, role, joined_at)
		VALUES (?, ?, ?, ?)`,
		userID, membership.Host, membership.Role, formatTime(membership.JoinedAt),
	)
	return mapError(err)
}

func insertGroupRefTx(ctx context.Context, tx *sql.Tx, userID string, ref persistence.GroupRef) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_groups (user_id, group_id, name, is_admin, joined_at)
		VALUES (?, ?, ?, ?, ?)`,
		userID, ref.GroupID, ref.Name, ref.IsAdmin, formatTime(ref.JoinedAt),
	)
	return mapError(err)
}

// normalizeEmail normalizes email addresses for consistent storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
