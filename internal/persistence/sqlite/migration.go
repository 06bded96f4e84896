package sqlite

import (
	"context"
	"fmt"
)

// schema holds the full table layout. Statements are idempotent so Migrate
// can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		avatar_src TEXT,
		avatar_set_at TEXT,
		password_hash TEXT NOT NULL,
		attending TEXT NOT NULL DEFAULT '[]',
		processes TEXT NOT NULL DEFAULT '[]',
		notifications TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_memberships (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		host TEXT NOT NULL,
		role TEXT NOT NULL,
		joined_at TEXT NOT NULL,
		PRIMARY KEY (user_id, host)
	)`,
	`CREATE TABLE IF NOT EXISTS user_groups (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		group_id TEXT NOT NULL,
		name TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0,
		joined_at TEXT NOT NULL,
		PRIMARY KEY (user_id, group_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		revoked_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		author_name TEXT NOT NULL,
		title TEXT NOT NULL,
		long_description TEXT NOT NULL DEFAULT '',
		room TEXT NOT NULL,
		room_index TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		is_full_day INTEGER NOT NULL DEFAULT 0,
		is_published INTEGER NOT NULL DEFAULT 0,
		is_sent_for_review INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		admin_id TEXT NOT NULL,
		admin_username TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		reading_material TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL DEFAULT 20,
		image_url TEXT NOT NULL DEFAULT '',
		is_published INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		member_id TEXT NOT NULL,
		username TEXT NOT NULL,
		avatar_src TEXT NOT NULL DEFAULT '',
		joined_at TEXT NOT NULL,
		PRIMARY KEY (group_id, member_id)
	)`,
	`CREATE TABLE IF NOT EXISTS hosts (
		host TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		logo_url TEXT NOT NULL DEFAULT '',
		main_color_h INTEGER NOT NULL DEFAULT 0,
		main_color_s INTEGER NOT NULL DEFAULT 0,
		main_color_l INTEGER NOT NULL DEFAULT 0,
		menu TEXT NOT NULL DEFAULT '[]',
		categories TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS host_members (
		host TEXT NOT NULL REFERENCES hosts(host) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		joined_at TEXT NOT NULL,
		PRIMARY KEY (host, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		author_name TEXT NOT NULL,
		title TEXT NOT NULL,
		long_description TEXT NOT NULL DEFAULT '',
		room TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		is_public INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activity_occurrences (
		activity_id TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL DEFAULT 40,
		attendees TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (activity_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS works (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		author_username TEXT NOT NULL,
		title TEXT NOT NULL,
		short_description TEXT NOT NULL DEFAULT '',
		long_description TEXT NOT NULL DEFAULT '',
		category_label TEXT NOT NULL DEFAULT '',
		category_color TEXT NOT NULL DEFAULT '',
		images TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_author ON bookings(author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_author ON activities(author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_works_author ON works(author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at)`,
}

// Migrate creates any missing tables and indexes.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	for _, statement := range schema {
		if _, err := cp.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
