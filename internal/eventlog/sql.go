package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
)

type sqlLogger struct {
	db *sql.DB
}

// NewSQLLogger persists events to the events table of the given database.
func NewSQLLogger(db *sql.DB) Logger {
	return &sqlLogger{db: db}
}

func (l *sqlLogger) Save(ctx context.Context, e Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO events (id, event_type, event_data, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Type, string(data), e.CreatedAt)
	return err
}
