package deliverylog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Event is one recorded delivery action: a transferred sample, a
// lifecycle marker transition, or a skipped sample with its reason.
type Event struct {
	ID           int64
	InvocationID string
	Command      string
	Flowcell     string
	Project      string
	Sample       string
	Action       string
	Detail       string
	CreatedAt    time.Time
}

// Append records one event.
func (s *Store) Append(ctx context.Context, event Event) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO delivery_events (
            invocation_id, command, flowcell, project, sample, action, detail, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.InvocationID,
		event.Command,
		nullableString(event.Flowcell),
		nullableString(event.Project),
		nullableString(event.Sample),
		event.Action,
		nullableString(event.Detail),
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert delivery event: %w", err)
	}
	return nil
}

// Recent returns the newest events, newest first. An empty project
// matches everything; limit <= 0 applies a default of 50.
func (s *Store) Recent(ctx context.Context, project string, limit int) ([]Event, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, invocation_id, command, flowcell, project, sample, action, detail, created_at
        FROM delivery_events`
	args := []any{}
	if project != "" {
		query += " WHERE project = ?"
		args = append(args, project)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query delivery events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate delivery events: %w", err)
	}
	return events, nil
}

func scanEvent(rows *sql.Rows) (Event, error) {
	var (
		event     Event
		flowcell  sql.NullString
		project   sql.NullString
		sample    sql.NullString
		detail    sql.NullString
		createdAt string
	)
	if err := rows.Scan(&event.ID, &event.InvocationID, &event.Command,
		&flowcell, &project, &sample, &event.Action, &detail, &createdAt); err != nil {
		return Event{}, fmt.Errorf("scan delivery event: %w", err)
	}
	event.Flowcell = flowcell.String
	event.Project = project.String
	event.Sample = sample.String
	event.Detail = detail.String
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		event.CreatedAt = ts
	}
	return event, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
