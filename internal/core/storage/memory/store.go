// Package memory is a volatile, process-lifetime EventStore.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	v1 "github.com/aevon-lab/project-tally/internal/api/v1"
	"github.com/aevon-lab/project-tally/internal/core/storage"
	"github.com/shopspring/decimal"
)

// Store keeps records in memory. The mutex serializes writers the same way a
// database serializes conflicting inserts on a unique index.
type Store struct {
	mu            sync.RWMutex
	open          bool
	nextID        int64
	records       []*v1.Record
	byFingerprint map[string]*v1.Record
	nowFn         func() time.Time
}

// NewStore creates a closed, empty store.
func NewStore() *Store {
	return &Store{
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// WithClock overrides the commit clock. Used by tests.
func (s *Store) WithClock(nowFn func() time.Time) *Store {
	s.nowFn = nowFn
	return s
}

// Open resets the store to an empty table.
func (s *Store) Open(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = true
	s.nextID = 0
	s.records = nil
	s.byFingerprint = make(map[string]*v1.Record)
	return nil
}

// Close drops all records.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
	s.records = nil
	s.byFingerprint = nil
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return storage.ErrClosed
	}
	return nil
}

func (s *Store) HasFingerprint(_ context.Context, fingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return false, storage.ErrClosed
	}
	_, ok := s.byFingerprint[fingerprint]
	return ok, nil
}

// InsertEvent assigns the next id and the commit time.
func (s *Store) InsertEvent(_ context.Context, rec *v1.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return storage.ErrClosed
	}
	if _, exists := s.byFingerprint[rec.EventFingerprint]; exists {
		return storage.ErrDuplicate
	}

	s.nextID++
	rec.ID = s.nextID
	rec.CreatedAt = s.nowFn()

	// Store a copy to prevent external modification
	stored := *rec
	s.records = append(s.records, &stored)
	s.byFingerprint[stored.EventFingerprint] = &stored
	return nil
}

func (s *Store) AggregateByClient(_ context.Context) ([]v1.ClientAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, storage.ErrClosed
	}

	type total struct {
		count int64
		sum   decimal.Decimal
	}
	totals := make(map[string]*total)
	for _, rec := range s.records {
		if rec.Status != v1.StatusProcessed {
			continue
		}
		t, ok := totals[rec.ClientID]
		if !ok {
			t = &total{sum: decimal.Zero}
			totals[rec.ClientID] = t
		}
		t.count++
		t.sum = t.sum.Add(decimal.NewFromFloat(rec.CanonicalAmount))
	}

	out := make([]v1.ClientAggregate, 0, len(totals))
	for clientID, t := range totals {
		out = append(out, v1.ClientAggregate{
			ClientID:    clientID,
			Count:       t.count,
			TotalAmount: t.sum.InexactFloat64(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ClientID < out[j].ClientID
	})
	return out, nil
}

func (s *Store) RecentEvents(_ context.Context, limit int) ([]*v1.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, storage.ErrClosed
	}
	if limit <= 0 || limit > storage.RecentEventsLimit {
		limit = storage.RecentEventsLimit
	}

	sorted := make([]*v1.Record, len(s.records))
	copy(sorted, s.records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]*v1.Record, len(sorted))
	for i, rec := range sorted {
		c := *rec
		out[i] = &c
	}
	return out, nil
}

var _ storage.EventStore = (*Store)(nil)
