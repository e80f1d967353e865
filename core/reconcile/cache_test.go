package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCache_ReusesFreshEntries(t *testing.T) {
	cache := NewSnapshotCache[int](time.Minute)
	var builds int32
	build := func(context.Context) (int, error) {
		return int(atomic.AddInt32(&builds, 1)), nil
	}

	v1, err := cache.Get(context.Background(), "catalog", build)
	require.NoError(t, err)
	v2, err := cache.Get(context.Background(), "catalog", build)
	require.NoError(t, err)

	assert.Equal(t, 1, v1)
	assert.Equal(t, 1, v2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))

	cache.Invalidate("catalog")
	v3, err := cache.Get(context.Background(), "catalog", build)
	require.NoError(t, err)
	assert.Equal(t, 2, v3)
}

func TestSnapshotCache_Expiry(t *testing.T) {
	cache := NewSnapshotCache[string](time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	calls := 0
	build := func(context.Context) (string, error) {
		calls++
		return "snapshot", nil
	}

	_, err := cache.Get(context.Background(), "k", build)
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	_, err = cache.Get(context.Background(), "k", build)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	now = now.Add(time.Minute)
	_, err = cache.Get(context.Background(), "k", build)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSnapshotCache_ZeroTTLAlwaysBuilds(t *testing.T) {
	cache := NewSnapshotCache[int](0)
	calls := 0
	for i := 0; i < 3; i++ {
		_, err := cache.Get(context.Background(), "k", func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestSnapshotCache_ErrorsAreNotCached(t *testing.T) {
	cache := NewSnapshotCache[int](time.Minute)
	boom := errors.New("db error")

	_, err := cache.Get(context.Background(), "k", func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := cache.Get(context.Background(), "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestSnapshotCache_ConcurrentMissesShareBuild(t *testing.T) {
	cache := NewSnapshotCache[int](time.Minute)
	var builds int32
	release := make(chan struct{})

	build := func(context.Context) (int, error) {
		atomic.AddInt32(&builds, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := cache.Get(context.Background(), "k", build)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, v := range results {
		assert.Equal(t, 42, v)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&builds), int32(2))

	cache.InvalidateAll()
	_, ok := cache.fresh("k")
	assert.False(t, ok)
}
