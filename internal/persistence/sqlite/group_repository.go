package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/streamerd/cocoso/internal/persistence"
)

// GroupRepository implements persistence.GroupRepository using SQLite. The
// member operations keep the group-side row and the user-side mirror in sync
// by writing both inside one transaction.
type GroupRepository struct {
	pool *ConnectionPool
}

// NewGroupRepository creates a new SQLite group repository.
func NewGroupRepository(pool *ConnectionPool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

// CreateGroup inserts a group, its seeded member rows, and the admin's
// user-side mirror in one transaction.
func (r *GroupRepository) CreateGroup(ctx context.Context, group persistence.Group, adminRef persistence.GroupRef) error {
	if group.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO groups (id, admin_id, admin_username, title, description,
				reading_material, capacity, image_url, is_published, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			group.ID,
			group.AdminID,
			group.AdminUsername,
			group.Title,
			group.Description,
			group.ReadingMaterial,
			group.Capacity,
			group.ImageURL,
			group.IsPublished,
			formatTime(group.CreatedAt),
			formatTime(group.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}

		for _, member := range group.Members {
			if err := insertGroupMemberTx(ctx, tx, group.ID, member); err != nil {
				return err
			}
		}
		return insertGroupRefTx(ctx, tx, adminRef.UserID, adminRef)
	})
}

// UpdateGroup overwrites a group's editable columns. Member rows are owned by
// AddMember and RemoveMember.
func (r *GroupRepository) UpdateGroup(ctx context.Context, group persistence.Group) error {
	if group.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE groups
		SET title = ?, description = ?, reading_material = ?, capacity = ?,
			image_url = ?, is_published = ?, updated_at = ?
		WHERE id = ?`,
		group.Title,
		group.Description,
		group.ReadingMaterial,
		group.Capacity,
		group.ImageURL,
		group.IsPublished,
		formatTime(group.UpdatedAt),
		group.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return rowsAffectedOrNotFound(result)
}

// GetGroup retrieves a group by ID with its member list loaded.
func (r *GroupRepository) GetGroup(ctx context.Context, id string) (persistence.Group, error) {
	if id == "" {
		return persistence.Group{}, persistence.ErrNotFound
	}

	group, err := r.scanGroupRow(r.pool.db.QueryRowContext(ctx, `
		SELECT id, admin_id, admin_username, title, description, reading_material,
			capacity, image_url, is_published, created_at, updated_at
		FROM groups WHERE id = ?`, id))
	if err != nil {
		return persistence.Group{}, err
	}

	if group.Members, err = r.listMembers(ctx, group.ID); err != nil {
		return persistence.Group{}, err
	}
	return group, nil
}

// ListGroups returns all groups, newest first, with members loaded.
func (r *GroupRepository) ListGroups(ctx context.Context) ([]persistence.Group, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, admin_id, admin_username, title, description, reading_material,
			capacity, image_url, is_published, created_at, updated_at
		FROM groups ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	groups := []persistence.Group{}
	for rows.Next() {
		group, err := r.scanGroup(rows.Scan)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range groups {
		if groups[i].Members, err = r.listMembers(ctx, groups[i].ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// AddMember writes the group-side member row and the user-side mirror in one
// transaction. Both inserts ignore an already present row, giving the member
// list set semantics under concurrent joins.
func (r *GroupRepository) AddMember(ctx context.Context, groupID string, member persistence.GroupMember, ref persistence.GroupRef) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM groups WHERE id = ?", groupID).Scan(&exists)
		if err != nil {
			return mapError(err)
		}
		if exists == 0 {
			return persistence.ErrNotFound
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO group_members (group_id, member_id, username, avatar_src, joined_at)
			VALUES (?, ?, ?, ?, ?)`,
			groupID, member.MemberID, member.Username, member.AvatarSrc, formatTime(member.JoinedAt),
		)
		if err != nil {
			return mapError(err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO user_groups (user_id, group_id, name, is_admin, joined_at)
			VALUES (?, ?, ?, ?, ?)`,
			ref.UserID, groupID, ref.Name, ref.IsAdmin, formatTime(ref.JoinedAt),
		)
		return mapError(err)
	})
}

// RemoveMember deletes the group-side member row and the user-side mirror in
// one transaction. Missing rows are ignored so a repeated leave is a no-op.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM groups WHERE id = ?", groupID).Scan(&exists)
		if err != nil {
			return mapError(err)
		}
		if exists == 0 {
			return persistence.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM group_members WHERE group_id = ? AND member_id = ?",
			groupID, userID,
		); err != nil {
			return mapError(err)
		}

		_, err = tx.ExecContext(ctx,
			"DELETE FROM user_groups WHERE user_id = ? AND group_id = ?",
			userID, groupID,
		)
		return mapError(err)
	})
}

func (r *GroupRepository) listMembers(ctx context.Context, groupID string) ([]persistence.GroupMember, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT group_id, member_id, username, avatar_src, joined_at
		FROM group_members WHERE group_id = ? ORDER BY joined_at ASC, member_id ASC`,
		groupID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	members := []persistence.GroupMember{}
	for rows.Next() {
		var member persistence.GroupMember
		var joinedAt string
		if err := rows.Scan(&member.GroupID, &member.MemberID, &member.Username, &member.AvatarSrc, &joinedAt); err != nil {
			return nil, mapError(err)
		}
		if member.JoinedAt, err = parseTime(joinedAt, "joined_at"); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, mapError(rows.Err())
}

func (r *GroupRepository) scanGroupRow(row *sql.Row) (persistence.Group, error) {
	group, err := r.scanGroup(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Group{}, persistence.ErrNotFound
		}
		return persistence.Group{}, err
	}
	return group, nil
}

func (r *GroupRepository) scanGroup(scan func(dest ...any) error) (persistence.Group, error) {
	var group persistence.Group
	var createdAt, updatedAt string

	err := scan(
		&group.ID,
		&group.AdminID,
		&group.AdminUsername,
		&group.Title,
		&group.Description,
		&group.ReadingMaterial,
		&group.Capacity,
		&group.ImageURL,
		&group.IsPublished,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Group{}, err
		}
		return persistence.Group{}, mapError(err)
	}

	if group.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return persistence.Group{}, err
	}
	if group.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return persistence.Group{}, err
	}
	return group, nil
}

func insertGroupMemberTx(ctx context.Context, tx *sql.Tx, groupID string, member persistence.GroupMember) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO group_members (group_id, member_id, username, avatar_src, joined_at)
		VALUES (?, ?, ?, ?, ?)`,
		groupID, member.MemberID, member.Username, member.AvatarSrc, formatTime(member.JoinedAt),
	)
	return mapError(err)
}
