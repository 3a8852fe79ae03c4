package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: users must be created before groups (manager FK), groups before
// participants, and both before installments and draw_entries.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    phone TEXT NOT NULL DEFAULT '',
    pix_key TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    capacity INTEGER NOT NULL,
    prize_value REAL NOT NULL,
    initial_share REAL NOT NULL,
    monthly_increment REAL NOT NULL DEFAULT 0,
    payment_day INTEGER NOT NULL,
    late_fee REAL NOT NULL DEFAULT 0,
    start_month TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'awaiting',
    manager_id TEXT NOT NULL,
    invite_token TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (manager_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    user_id TEXT,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    draw_order INTEGER,
    contemplation_month INTEGER,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id),
    UNIQUE (group_id, draw_order)
);

CREATE TABLE IF NOT EXISTS installments (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    month_number INTEGER NOT NULL,
    reference_month TEXT NOT NULL,
    due_date TEXT NOT NULL,
    amount REAL NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    paid_on TEXT,
    late_fee REAL NOT NULL DEFAULT 0,
    note TEXT,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS draw_entries (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    month INTEGER NOT NULL,
    drawn_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    event_type TEXT NOT NULL,
    event_data TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_groups_manager_id ON groups(manager_id);
CREATE INDEX IF NOT EXISTS idx_participants_group_id ON participants(group_id);
CREATE INDEX IF NOT EXISTS idx_participants_user_id ON participants(user_id);
CREATE INDEX IF NOT EXISTS idx_installments_group_id ON installments(group_id);
CREATE INDEX IF NOT EXISTS idx_installments_participant_id ON installments(participant_id);
CREATE INDEX IF NOT EXISTS idx_installments_status_due ON installments(status, due_date);
CREATE INDEX IF NOT EXISTS idx_draw_entries_group_id ON draw_entries(group_id);
CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
