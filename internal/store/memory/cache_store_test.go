package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/lodestar/internal/domain"
	"github.com/davidbz/lodestar/internal/store/memory"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCacheStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCacheStore(10)

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	value := []byte("answer")
	require.NoError(t, store.Set(ctx, "k", value, 0))
	value[0] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("answer"), got)

	got[0] = 'Y'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("answer"), again)
}

func TestCacheStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := memory.NewCacheStore(10).WithClock(clock.Now)

	require.NoError(t, store.Set(ctx, "short", []byte("v"), time.Minute))
	require.NoError(t, store.Set(ctx, "forever", []byte("v"), 0))

	clock.Advance(30 * time.Second)
	require.NoError(t, store.Expire(ctx, "short", time.Minute))

	clock.Advance(45 * time.Second)
	_, err := store.Get(ctx, "short")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = store.Get(ctx, "short")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, store.Expire(ctx, "short", time.Minute), domain.ErrNotFound)

	_, err = store.Get(ctx, "forever")
	require.NoError(t, err)
}

func TestCacheStore_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCacheStore(2)

	require.NoError(t, store.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), 0))

	_, err := store.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "c", []byte("3"), 0))

	_, err = store.Get(ctx, "b")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Get(ctx, "a")
	require.NoError(t, err)
	_, err = store.Get(ctx, "c")
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, "memory", stats.Backend)
	require.EqualValues(t, 2, stats.Keys)
	require.Equal(t, "2", stats.Details["capacity"])
}

func TestCacheStore_Sets(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCacheStore(10)

	members, err := store.SetMembers(ctx, "kw:syria")
	require.NoError(t, err)
	require.Empty(t, members)

	require.NoError(t, store.AddToSet(ctx, "kw:syria", 0, "e1", "e2"))
	require.NoError(t, store.AddToSet(ctx, "kw:syria", 0, "e2", "e3"))

	members, err = store.SetMembers(ctx, "kw:syria")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"e1", "e2", "e3"}, members)

	_, err = store.Get(ctx, "kw:syria")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set(ctx, "plain", []byte("v"), 0))
	require.Error(t, store.AddToSet(ctx, "plain", 0, "x"))

	require.NoError(t, store.Delete(ctx, "kw:syria", "plain", "missing"))
	members, err = store.SetMembers(ctx, "kw:syria")
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestCacheStore_Ping(t *testing.T) {
	require.NoError(t, memory.NewCacheStore(0).Ping(context.Background()))
}

func TestCacheStore_SetExpiryOnlyGrows(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := memory.NewCacheStore(10).WithClock(clock.Now)

	require.NoError(t, store.AddToSet(ctx, "persistent", 0, "seed"))
	require.NoError(t, store.AddToSet(ctx, "persistent", time.Hour, "generated"))

	require.NoError(t, store.AddToSet(ctx, "long", 48*time.Hour, "a"))
	require.NoError(t, store.AddToSet(ctx, "long", time.Hour, "b"))

	require.NoError(t, store.AddToSet(ctx, "short", time.Hour, "a"))
	require.NoError(t, store.AddToSet(ctx, "short", 0, "b"))

	clock.Advance(2 * time.Hour)

	for _, key := range []string{"persistent", "long", "short"} {
		members, err := store.SetMembers(ctx, key)
		require.NoError(t, err)
		require.Len(t, members, 2, key)
	}

	clock.Advance(47 * time.Hour)

	members, err := store.SetMembers(ctx, "long")
	require.NoError(t, err)
	require.Empty(t, members)

	members, err = store.SetMembers(ctx, "persistent")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"seed", "generated"}, members)
}
