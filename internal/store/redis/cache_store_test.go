package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/lodestar/internal/domain"
	"github.com/davidbz/lodestar/internal/store/redis"
)

func newStore(t *testing.T) (*redis.CacheStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewCacheStore(client), mr
}

func TestCacheStore_GetSet(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}

func TestCacheStore_TTL(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	require.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(30 * time.Second)
	require.NoError(t, store.Expire(ctx, "k", time.Minute))
	require.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "k")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.ErrorIs(t, store.Expire(ctx, "k", time.Minute), domain.ErrNotFound)
}

func TestCacheStore_PersistentKeyHasNoTTL(t *testing.T) {
	store, mr := newStore(t)

	require.NoError(t, store.Set(context.Background(), "seed", []byte("v"), 0))
	require.Zero(t, mr.TTL("seed"))
}

func TestCacheStore_Sets(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddToSet(ctx, "tok", time.Hour, "a", "b"))
	require.NoError(t, store.AddToSet(ctx, "tok", time.Hour, "b", "c"))
	require.NoError(t, store.AddToSet(ctx, "tok", time.Hour))

	members, err := store.SetMembers(ctx, "tok")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c"}, members)
	require.Equal(t, time.Hour, mr.TTL("tok"))

	empty, err := store.SetMembers(ctx, "nothing")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestCacheStore_SetExpiryOnlyGrows(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddToSet(ctx, "persistent", 0, "seed"))
	require.NoError(t, store.AddToSet(ctx, "persistent", time.Hour, "generated"))
	require.Zero(t, mr.TTL("persistent"))

	require.NoError(t, store.AddToSet(ctx, "long", 48*time.Hour, "a"))
	require.NoError(t, store.AddToSet(ctx, "long", time.Hour, "b"))
	require.Equal(t, 48*time.Hour, mr.TTL("long"))

	require.NoError(t, store.AddToSet(ctx, "grows", time.Hour, "a"))
	require.NoError(t, store.AddToSet(ctx, "grows", 2*time.Hour, "b"))
	require.Equal(t, 2*time.Hour, mr.TTL("grows"))

	require.NoError(t, store.AddToSet(ctx, "grows", 0, "c"))
	require.Zero(t, mr.TTL("grows"))

	mr.FastForward(3 * time.Hour)

	members, err := store.SetMembers(ctx, "persistent")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"seed", "generated"}, members)

	members, err = store.SetMembers(ctx, "grows")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c"}, members)
}

func TestCacheStore_Delete(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, store.Delete(ctx, "a", "b", "missing"))
	require.NoError(t, store.Delete(ctx))

	require.False(t, mr.Exists("a"))
	require.False(t, mr.Exists("b"))
}

func TestCacheStore_PingAndStats(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Set(ctx, "a", []byte("1"), 0))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, "redis", stats.Backend)
	require.EqualValues(t, 1, stats.Keys)

	mr.Close()
	require.Error(t, store.Ping(ctx))
	_, err = store.Get(ctx, "a")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestCacheStore_BacksCacheTier(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	cfg := domain.DefaultPipelineConfig()
	tier := domain.NewCacheTier(store, cfg)

	n, err := tier.Seed(ctx, []domain.SeedEntry{{
		ID:               "capital",
		QuestionVariants: []string{"What is the capital of Syria?"},
		Answer:           "Damascus",
		Keywords:         []string{"capital", "syria"},
		Confidence:       1,
	}})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	exact := tier.Lookup(ctx, domain.Normalize("What is the capital   of Syria"))
	require.Equal(t, domain.LookupHit, exact.Status)
	require.Equal(t, domain.MatchExact, exact.Match)
	require.Equal(t, "Damascus", exact.Entry.Answer)

	fuzzy := tier.Lookup(ctx, domain.Normalize("syria capital city"))
	require.Equal(t, domain.LookupHit, fuzzy.Status)
	require.Equal(t, domain.MatchFuzzy, fuzzy.Match)
	require.Equal(t, "capital", fuzzy.Entry.ID)
}
