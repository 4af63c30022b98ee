package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

type EventWriteRecord struct {
	UserID     *int64
	Name       string
	OccurredAt time.Time
	Context    map[string]any
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Insert(ctx context.Context, event EventWriteRecord) error {
	if r.pool == nil {
		return nil
	}
	if event.Name == "" {
		return fmt.Errorf("event name is required")
	}

	payload, err := json.Marshal(event.Context)
	if err != nil {
		return fmt.Errorf("marshal event context: %w", err)
	}

	var uid any
	if event.UserID != nil && *event.UserID > 0 {
		uid = *event.UserID
	}

	occurredAt := event.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO event_logs (
	event_id,
	user_id,
	event_name,
	context,
	occurred_at,
	created_at
) VALUES ($1, $2, $3, $4::jsonb, $5, NOW())
`, uuid.NewString(), uid, event.Name, string(payload), occurredAt); err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}
