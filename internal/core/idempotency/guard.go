// Package idempotency implements the fast-path duplicate check that runs before
// any normalization work. The check is an optimization only: the store's
// uniqueness constraint on the fingerprint is what guarantees at most one
// record per payload.
package idempotency

import (
	"context"
	"log/slog"
	"time"

	"github.com/aevon-lab/project-tally/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// sharedLookupTimeout bounds a coalesced store lookup, which no longer follows
// any one caller's deadline.
const sharedLookupTimeout = 5 * time.Second

// FingerprintLookup is the read the guard needs from the store.
type FingerprintLookup interface {
	HasFingerprint(ctx context.Context, fingerprint string) (bool, error)
}

// Guard answers "has this fingerprint already been committed?".
type Guard struct {
	store FingerprintLookup
	cache Cache

	// Concurrent retries of one payload share a single store lookup.
	lookups singleflight.Group
}

// NewGuard creates a guard. cache may be nil.
func NewGuard(store FingerprintLookup, cache Cache) *Guard {
	if store == nil {
		panic("idempotency: store must not be nil")
	}
	return &Guard{store: store, cache: cache}
}

// Seen reports whether fingerprint is known to be committed.
// Cache errors are logged and fall through to the store.
func (g *Guard) Seen(ctx context.Context, fingerprint string) (bool, error) {
	if g.cache != nil {
		hit, err := g.cache.Contains(ctx, fingerprint)
		switch {
		case err != nil:
			metrics.FingerprintCacheLookups.WithLabelValues("error").Inc()
			slog.Warn("[Idempotency] Cache lookup failed, falling back to store",
				"fingerprint", fingerprint, "error", err)
		case hit:
			metrics.FingerprintCacheLookups.WithLabelValues("hit").Inc()
			return true, nil
		default:
			metrics.FingerprintCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	// The shared lookup must outlive any single caller: a disconnecting
	// client may not fail the others waiting on the same fingerprint.
	ch := g.lookups.DoChan(fingerprint, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()
		return g.store.HasFingerprint(lookupCtx, fingerprint)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	if res.Err != nil {
		return false, res.Err
	}
	found := res.Val.(bool)

	if found {
		g.remember(ctx, fingerprint)
	}
	return found, nil
}

// Remember records a fingerprint after its insert succeeded or lost a race.
func (g *Guard) Remember(ctx context.Context, fingerprint string) {
	g.remember(ctx, fingerprint)
}

func (g *Guard) remember(ctx context.Context, fingerprint string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Add(ctx, fingerprint); err != nil {
		slog.Warn("[Idempotency] Cache write failed", "fingerprint", fingerprint, "error", err)
	}
}
