package storage

import (
	"context"
	"errors"

	v1 "github.com/aevon-lab/project-tally/internal/api/v1"
)

// RecentEventsLimit is the maximum number of rows RecentEvents returns.
const RecentEventsLimit = 50

// ErrDuplicate is returned when a record with the same event_fingerprint already exists.
var ErrDuplicate = errors.New("event fingerprint already exists")

// ErrClosed is returned by operations on a store that is not open.
var ErrClosed = errors.New("store is closed")

// EventStore is the single shared resource of the pipeline. Its uniqueness
// constraint on event_fingerprint is the final arbiter of deduplication under
// concurrent writers.
type EventStore interface {
	// Open acquires the store's resources. Must be called before any other method.
	Open(ctx context.Context) error

	// Close releases the store's resources.
	Close() error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// HasFingerprint reports whether a record with this fingerprint is committed.
	HasFingerprint(ctx context.Context, fingerprint string) (bool, error)

	// InsertEvent commits rec and populates rec.ID and rec.CreatedAt.
	// Returns ErrDuplicate if the fingerprint is already committed; in that
	// case nothing is written.
	InsertEvent(ctx context.Context, rec *v1.Record) error

	// AggregateByClient returns count and amount sum per client over processed
	// records, ordered by client_id.
	AggregateByClient(ctx context.Context) ([]v1.ClientAggregate, error)

	// RecentEvents returns up to limit records, newest commit first.
	RecentEvents(ctx context.Context, limit int) ([]*v1.Record, error)
}
