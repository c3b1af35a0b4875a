package projection

import (
	"context"
	"errors"
	"fmt"

	v1 "github.com/aevon-lab/project-tally/internal/api/v1"
	"github.com/aevon-lab/project-tally/internal/core/storage"
)

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid query")

// Service implements the read side over committed records.
type Service struct {
	store storage.EventStore
}

// NewService creates a new projection service.
func NewService(store storage.EventStore) *Service {
	if store == nil {
		panic("projection: store must not be nil")
	}
	return &Service{store: store}
}

// ClientTotals returns per-client count and amount sum, ordered by client id.
// Never returns a nil slice on success.
func (s *Service) ClientTotals(ctx context.Context) ([]v1.ClientAggregate, error) {
	rows, err := s.store.AggregateByClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate by client: %w", err)
	}
	if rows == nil {
		rows = []v1.ClientAggregate{}
	}
	return rows, nil
}

// RecentEvents returns up to limit records, newest first.
// limit must be positive; values above storage.RecentEventsLimit are capped.
func (s *Service) RecentEvents(ctx context.Context, limit int) ([]*v1.Record, error) {
	if limit <= 0 {
		return nil, invalidQueryf("limit must be positive, got %d", limit)
	}
	if limit > storage.RecentEventsLimit {
		limit = storage.RecentEventsLimit
	}

	rows, err := s.store.RecentEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	if rows == nil {
		rows = []*v1.Record{}
	}
	return rows, nil
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
