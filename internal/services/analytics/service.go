package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgrepo "github.com/TumaeProject/tumae-be/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type Store interface {
	Insert(ctx context.Context, event pgrepo.EventWriteRecord) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Record writes one event row. Callers treat failures as non-fatal; the
// request that produced the event never depends on the event landing.
func (s *Service) Record(ctx context.Context, userID *int64, name string, props map[string]any) error {
	if s.store == nil {
		return fmt.Errorf("analytics store is nil")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrValidation
	}

	if err := s.store.Insert(ctx, pgrepo.EventWriteRecord{
		UserID:     userID,
		Name:       name,
		OccurredAt: s.now().UTC(),
		Context:    cloneContext(props),
	}); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

func cloneContext(props map[string]any) map[string]any {
	if len(props) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(props))
	for key, value := range props {
		out[key] = value
	}
	return out
}
