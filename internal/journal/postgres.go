package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

const eventsSchema = `
CREATE TABLE IF NOT EXISTS events (
	id          BIGSERIAL PRIMARY KEY,
	time        TIMESTAMPTZ NOT NULL,
	type        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	data        JSONB
);
CREATE INDEX IF NOT EXISTS idx_events_type_time ON events (type, time);
`

// PostgresJournal persists events in a single append-only table. It is
// enabled only when a DSN is configured; the simulation itself never depends
// on it.
type PostgresJournal struct {
	db *sql.DB
}

// NewPostgres opens the database, verifies connectivity and migrates the
// events table.
func NewPostgres(dsn string) (*PostgresJournal, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := db.Exec(eventsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating events table: %w", err)
	}
	return &PostgresJournal{db: db}, nil
}

func (p *PostgresJournal) LogEvent(ctx context.Context, event Event) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	var data []byte
	if event.Data != nil {
		var err error
		data, err = json.Marshal(event.Data)
		if err != nil {
			return fmt.Errorf("marshaling event data: %w", err)
		}
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO events (time, type, description, data) VALUES ($1, $2, $3, $4)`,
		event.Time, event.Type, event.Description, data)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

func (p *PostgresJournal) GetEvents(ctx context.Context, eventType string, start, end time.Time) ([]Event, error) {
	query := `SELECT time, type, description, data FROM events WHERE 1=1`
	args := make([]any, 0, 3)
	if eventType != "" {
		args = append(args, eventType)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if !start.IsZero() {
		args = append(args, start)
		query += fmt.Sprintf(" AND time >= $%d", len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		query += fmt.Sprintf(" AND time <= $%d", len(args))
	}
	query += " ORDER BY time"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var data []byte
		if err := rows.Scan(&e.Time, &e.Type, &e.Description, &data); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &e.Data); err != nil {
				return nil, fmt.Errorf("unmarshaling event data: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *PostgresJournal) Close() error { return p.db.Close() }
