package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	audit "lotolink/pkg/platform/audit"
	"lotolink/pkg/platform/tx"
)

const selectColumns = `
	category, timestamp, subject, action,
	COALESCE(actor_id, '') AS actor_id,
	COALESCE(reason, '') AS reason,
	COALESCE(request_id, '') AS request_id,
	COALESCE(client_ip, '') AS client_ip,
	COALESCE(device, '') AS device`

// Store persists audit events in the audit_events table. It is the audit
// sink when Postgres is configured and Kafka is not.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type eventRow struct {
	ID        uuid.UUID `db:"id"`
	Category  string    `db:"category"`
	Timestamp time.Time `db:"timestamp"`
	Subject   string    `db:"subject"`
	Action    string    `db:"action"`
	ActorID   string    `db:"actor_id"`
	Reason    string    `db:"reason"`
	RequestID string    `db:"request_id"`
	ClientIP  string    `db:"client_ip"`
	Device    string    `db:"device"`
}

func (r eventRow) toEvent() audit.Event {
	return audit.Event{
		Category:  audit.EventCategory(r.Category),
		Timestamp: r.Timestamp,
		Subject:   r.Subject,
		Action:    r.Action,
		ActorID:   r.ActorID,
		Reason:    r.Reason,
		RequestID: r.RequestID,
		ClientIP:  r.ClientIP,
		Device:    r.Device,
	}
}

type namedExecer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// execer joins the caller's transaction when one is in the context, so an
// audit row commits or rolls back with the change it records.
func (s *Store) execer(ctx context.Context) namedExecer {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

// Append inserts event. The category is always derived from the action.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	row := eventRow{
		ID:        uuid.New(),
		Category:  string(audit.AuditEvent(event.Action).Category()),
		Timestamp: ts.UTC(),
		Subject:   event.Subject,
		Action:    event.Action,
		ActorID:   event.ActorID,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ClientIP:  event.ClientIP,
		Device:    event.Device,
	}
	_, err := s.execer(ctx).NamedExecContext(ctx, `
		INSERT INTO audit_events (
			id, category, timestamp, subject, action,
			actor_id, reason, request_id, client_ip, device
		) VALUES (
			:id, :category, :timestamp, :subject, :action,
			NULLIF(:actor_id, ''), NULLIF(:reason, ''), NULLIF(:request_id, ''),
			NULLIF(:client_ip, ''), NULLIF(:device, '')
		)`, row)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListBySubject returns the subject's events, oldest first.
func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT `+selectColumns+` FROM audit_events WHERE subject = $1 ORDER BY timestamp, id`, subject); err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	return toEvents(rows), nil
}

// ListRecent returns up to limit events, most recent last.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM (
			SELECT `+selectColumns+` FROM audit_events ORDER BY timestamp DESC LIMIT $1
		) recent ORDER BY timestamp`, limit); err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	return toEvents(rows), nil
}

func toEvents(rows []eventRow) []audit.Event {
	events := make([]audit.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.toEvent())
	}
	return events
}
