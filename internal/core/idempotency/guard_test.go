package idempotency

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	mu      sync.Mutex
	present map[string]bool
	err     error
	calls   int
}

func (f *fakeLookup) HasFingerprint(_ context.Context, fp string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.present[fp], nil
}

type failingCache struct{}

func (failingCache) Contains(context.Context, string) (bool, error) {
	return false, errors.New("cache down")
}

func (failingCache) Add(context.Context, string) error {
	return errors.New("cache down")
}

func TestGuard_SeenWithoutCache(t *testing.T) {
	store := &fakeLookup{present: map[string]bool{"fp-1": true}}
	g := NewGuard(store, nil)

	seen, err := g.Seen(context.Background(), "fp-1")
	require.NoError(t, err)
	require.True(t, seen)

	seen, err = g.Seen(context.Background(), "fp-2")
	require.NoError(t, err)
	require.False(t, seen)
	require.Equal(t, 2, store.calls)
}

func TestGuard_CacheHitSkipsStore(t *testing.T) {
	store := &fakeLookup{present: map[string]bool{}}
	cache := NewLRUCache(10)
	g := NewGuard(store, cache)

	g.Remember(context.Background(), "fp-1")

	seen, err := g.Seen(context.Background(), "fp-1")
	require.NoError(t, err)
	require.True(t, seen)
	require.Equal(t, 0, store.calls)
}

func TestGuard_StoreHitIsCached(t *testing.T) {
	store := &fakeLookup{present: map[string]bool{"fp-1": true}}
	cache := NewLRUCache(10)
	g := NewGuard(store, cache)

	for i := 0; i < 3; i++ {
		seen, err := g.Seen(context.Background(), "fp-1")
		require.NoError(t, err)
		require.True(t, seen)
	}
	require.Equal(t, 1, store.calls)
}

func TestGuard_MissIsNotCached(t *testing.T) {
	store := &fakeLookup{present: map[string]bool{}}
	cache := NewLRUCache(10)
	g := NewGuard(store, cache)

	seen, err := g.Seen(context.Background(), "fp-new")
	require.NoError(t, err)
	require.False(t, seen)
	require.Equal(t, 0, cache.Len())
}

func TestGuard_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	g := NewGuard(&fakeLookup{err: storeErr}, NewLRUCache(10))

	_, err := g.Seen(context.Background(), "fp-1")
	require.ErrorIs(t, err, storeErr)
}

func TestGuard_CacheFailureFallsBackToStore(t *testing.T) {
	store := &fakeLookup{present: map[string]bool{"fp-1": true}}
	g := NewGuard(store, failingCache{})

	seen, err := g.Seen(context.Background(), "fp-1")
	require.NoError(t, err)
	require.True(t, seen)

	// write failures are swallowed
	g.Remember(context.Background(), "fp-2")
}

func TestNewGuard_NilStorePanics(t *testing.T) {
	require.Panics(t, func() { NewGuard(nil, nil) })
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(2)

	require.NoError(t, c.Add(ctx, "a"))
	require.NoError(t, c.Add(ctx, "b"))

	// touch "a" so "b" becomes the eviction candidate
	hit, _ := c.Contains(ctx, "a")
	require.True(t, hit)

	require.NoError(t, c.Add(ctx, "c"))
	require.Equal(t, 2, c.Len())

	hit, _ = c.Contains(ctx, "b")
	require.False(t, hit)
	hit, _ = c.Contains(ctx, "a")
	require.True(t, hit)
	hit, _ = c.Contains(ctx, "c")
	require.True(t, hit)
}

func TestLRUCache_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Add(ctx, "same"))
	}
	require.Equal(t, 1, c.Len())
}

func TestLRUCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(64)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				fp := fmt.Sprintf("fp-%d-%d", i, j%8)
				_ = c.Add(ctx, fp)
				_, _ = c.Contains(ctx, fp)
			}
		}(i)
	}
	wg.Wait()

	require.LessOrEqual(t, c.Len(), 64)
}

type blockingLookup struct {
	fakeLookup
	release chan struct{}
}

func (b *blockingLookup) HasFingerprint(ctx context.Context, fp string) (bool, error) {
	<-b.release
	return b.fakeLookup.HasFingerprint(ctx, fp)
}

func TestGuard_ConcurrentLookupsShareStoreCall(t *testing.T) {
	store := &blockingLookup{
		fakeLookup: fakeLookup{present: map[string]bool{"fp-1": true}},
		release:    make(chan struct{}),
	}
	g := NewGuard(store, nil)

	const callers = 8
	results := make(chan bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen, err := g.Seen(context.Background(), "fp-1")
			require.NoError(t, err)
			results <- seen
		}()
	}
	close(store.release)
	wg.Wait()
	close(results)

	for seen := range results {
		require.True(t, seen)
	}
	require.GreaterOrEqual(t, store.calls, 1)
	require.LessOrEqual(t, store.calls, callers)
}

type slowLookup struct {
	started   chan struct{}
	release   chan struct{}
	startOnce sync.Once

	mu      sync.Mutex
	ctxErrs []error
}

func (s *slowLookup) HasFingerprint(ctx context.Context, _ string) (bool, error) {
	s.startOnce.Do(func() { close(s.started) })
	<-s.release

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return true, nil
}

func TestGuard_CancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	store := &slowLookup{started: make(chan struct{}), release: make(chan struct{})}
	g := NewGuard(store, nil)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := g.Seen(leaderCtx, "fp-1")
		leaderErr <- err
	}()
	<-store.started

	type result struct {
		seen bool
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		seen, err := g.Seen(context.Background(), "fp-1")
		follower <- result{seen: seen, err: err}
	}()

	cancelLeader()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	close(store.release)
	got := <-follower
	require.NoError(t, got.err)
	require.True(t, got.seen)

	store.mu.Lock()
	defer store.mu.Unlock()
	for _, err := range store.ctxErrs {
		require.NoError(t, err)
	}
}
