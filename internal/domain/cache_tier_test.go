package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/lodestar/internal/domain"
	"github.com/davidbz/lodestar/internal/store/memory"
)

func newCacheTier(store domain.CacheStore) *domain.CacheTier {
	return domain.NewCacheTier(store, domain.DefaultPipelineConfig())
}

func TestCacheTier_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("should hit exact key after put", func(t *testing.T) {
		tier := newCacheTier(memory.NewCacheStore(0))
		q := domain.Normalize("What is the capital of Syria")

		err := tier.Put(ctx, q.Text, &domain.CacheEntry{
			Answer:     "Damascus",
			Confidence: 0.9,
			Provenance: domain.ProvenanceGenerative,
		}, time.Hour)
		require.NoError(t, err)

		lookup := tier.Lookup(ctx, q)
		require.Equal(t, domain.LookupHit, lookup.Status)
		require.Equal(t, domain.MatchExact, lookup.Match)
		require.Equal(t, "Damascus", lookup.Entry.Answer)
		require.Equal(t, domain.EntryID(q.Text), lookup.Entry.ID)
	})

	t.Run("should miss on empty store", func(t *testing.T) {
		tier := newCacheTier(memory.NewCacheStore(0))

		lookup := tier.Lookup(ctx, domain.Normalize("anything at all"))
		require.Equal(t, domain.LookupMiss, lookup.Status)
		require.Nil(t, lookup.Entry)
	})

	t.Run("should return highest confidence fuzzy candidate", func(t *testing.T) {
		tier := newCacheTier(memory.NewCacheStore(0))

		require.NoError(t, tier.Put(ctx, "Where is Aleppo?", &domain.CacheEntry{
			Answer:     "Northern Syria",
			Keywords:   []string{"aleppo", "syria"},
			Confidence: 0.6,
		}, time.Hour))
		require.NoError(t, tier.Put(ctx, "What is the capital of Syria?", &domain.CacheEntry{
			Answer:     "Damascus",
			Keywords:   []string{"capital", "syria"},
			Confidence: 0.9,
		}, time.Hour))

		lookup := tier.Lookup(ctx, domain.Normalize("syria capital city"))
		require.Equal(t, domain.LookupHit, lookup.Status)
		require.Equal(t, domain.MatchFuzzy, lookup.Match)
		require.Equal(t, "Damascus", lookup.Entry.Answer)
	})

	t.Run("should not fuzzy match on question words that are not keywords", func(t *testing.T) {
		tier := newCacheTier(memory.NewCacheStore(0))

		require.NoError(t, tier.Put(ctx, "What is the capital of Syria?", &domain.CacheEntry{
			Answer:   "Damascus",
			Keywords: []string{"damascus"},
		}, time.Hour))

		lookup := tier.Lookup(ctx, domain.Normalize("What is the weather"))
		require.Equal(t, domain.LookupMiss, lookup.Status)
	})

	t.Run("should degrade when store is down", func(t *testing.T) {
		tier := newCacheTier(downCacheStore{})

		lookup := tier.Lookup(ctx, domain.Normalize("hello"))
		require.Equal(t, domain.LookupDegraded, lookup.Status)
		require.ErrorIs(t, lookup.Err, domain.ErrDependencyUnavailable)
		require.Nil(t, lookup.Entry)
	})

	t.Run("should expire entries after ttl and refresh on hit", func(t *testing.T) {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		store := memory.NewCacheStore(0).WithClock(func() time.Time { return now })
		tier := newCacheTier(store)
		q := domain.Normalize("refresh me")

		require.NoError(t, tier.Put(ctx, q.Text, &domain.CacheEntry{
			Answer:     "ok",
			Provenance: domain.ProvenanceGenerative,
		}, 24*time.Hour))

		now = now.Add(23 * time.Hour)
		require.Equal(t, domain.LookupHit, tier.Lookup(ctx, q).Status)

		// The hit re-armed the ttl for another 24h.
		now = now.Add(23 * time.Hour)
		require.Equal(t, domain.LookupHit, tier.Lookup(ctx, q).Status)

		now = now.Add(25 * time.Hour)
		require.Equal(t, domain.LookupMiss, tier.Lookup(ctx, q).Status)
	})

	t.Run("should keep persistent seed keywords when a later entry shares them", func(t *testing.T) {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		store := memory.NewCacheStore(0).WithClock(func() time.Time { return now })
		tier := newCacheTier(store)

		_, err := tier.Seed(ctx, []domain.SeedEntry{{
			ID:               "syria_overview",
			QuestionVariants: []string{"What is Syria"},
			Answer:           "A country in the Levant.",
			Keywords:         []string{"syria"},
			Confidence:       1.0,
		}})
		require.NoError(t, err)

		about := domain.Normalize("Tell me about Syria")
		require.Equal(t, domain.LookupHit, tier.Lookup(ctx, about).Status)

		require.NoError(t, tier.Put(ctx, domain.Normalize("Where is Syria").Text, &domain.CacheEntry{
			Answer:     "In western Asia.",
			Keywords:   []string{"syria"},
			Confidence: 0.8,
			Provenance: domain.ProvenanceGenerative,
		}, 24*time.Hour))

		now = now.Add(25 * time.Hour)
		lookup := tier.Lookup(ctx, about)
		require.Equal(t, domain.LookupHit, lookup.Status)
		require.Equal(t, domain.MatchFuzzy, lookup.Match)
		require.Equal(t, "syria_overview", lookup.Entry.ID)
	})

	t.Run("should keep refreshed entries reachable by keyword", func(t *testing.T) {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		store := memory.NewCacheStore(0).WithClock(func() time.Time { return now })
		tier := newCacheTier(store)
		q := domain.Normalize("What is the capital of Syria")

		require.NoError(t, tier.Put(ctx, q.Text, &domain.CacheEntry{
			Answer:     "Damascus",
			Keywords:   []string{"damascus"},
			Provenance: domain.ProvenanceGenerative,
		}, 24*time.Hour))

		now = now.Add(20 * time.Hour)
		require.Equal(t, domain.MatchExact, tier.Lookup(ctx, q).Match)

		now = now.Add(20 * time.Hour)
		lookup := tier.Lookup(ctx, domain.Normalize("damascus facts"))
		require.Equal(t, domain.LookupHit, lookup.Status)
		require.Equal(t, domain.MatchFuzzy, lookup.Match)
		require.Equal(t, "Damascus", lookup.Entry.Answer)
	})
}

func TestCacheTier_ExpiresAt(t *testing.T) {
	ctx := context.Background()

	t.Run("should record expiry for entries with ttl", func(t *testing.T) {
		tier := newCacheTier(memory.NewCacheStore(0))
		q := domain.Normalize("how long do you last")

		require.NoError(t, tier.Put(ctx, q.Text, &domain.CacheEntry{
			Answer:     "a day",
			Provenance: domain.ProvenanceGenerative,
		}, 24*time.Hour))

		lookup := tier.Lookup(ctx, q)
		require.Equal(t, domain.LookupHit, lookup.Status)
		require.NotNil(t, lookup.Entry.ExpiresAt)
		require.WithinDuration(t, time.Now().Add(24*time.Hour), *lookup.Entry.ExpiresAt, time.Minute)
	})

	t.Run("should push expiry forward on refresh", func(t *testing.T) {
		tier := newCacheTier(memory.NewCacheStore(0))
		q := domain.Normalize("refresh my expiry")

		entry := &domain.CacheEntry{Answer: "ok", Provenance: domain.ProvenanceGenerative}
		require.NoError(t, tier.Put(ctx, q.Text, entry, time.Minute))
		require.NotNil(t, entry.ExpiresAt)

		lookup := tier.Lookup(ctx, q)
		require.NotNil(t, lookup.Entry.ExpiresAt)
		require.True(t, lookup.Entry.ExpiresAt.After(*entry.ExpiresAt))
	})

	t.Run("should leave persistent seeds without expiry", func(t *testing.T) {
		tier := newCacheTier(memory.NewCacheStore(0))

		_, err := tier.Seed(ctx, []domain.SeedEntry{{
			ID:               "forever",
			QuestionVariants: []string{"Are you permanent"},
			Answer:           "yes",
		}})
		require.NoError(t, err)

		lookup := tier.Lookup(ctx, domain.Normalize("Are you permanent"))
		require.Equal(t, domain.LookupHit, lookup.Status)
		require.Nil(t, lookup.Entry.ExpiresAt)
	})
}

func TestCacheTier_Put(t *testing.T) {
	t.Run("should fail when store is down", func(t *testing.T) {
		tier := newCacheTier(downCacheStore{})

		err := tier.Put(context.Background(), "q?", &domain.CacheEntry{Answer: "a"}, time.Hour)
		require.ErrorIs(t, err, domain.ErrDependencyUnavailable)
	})

	t.Run("should reject nil entry", func(t *testing.T) {
		tier := newCacheTier(memory.NewCacheStore(0))

		require.Error(t, tier.Put(context.Background(), "q?", nil, time.Hour))
	})
}

func TestCacheTier_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("should match every normalized variant", func(t *testing.T) {
		tier := newCacheTier(memory.NewCacheStore(0))

		seeded, err := tier.Seed(ctx, []domain.SeedEntry{{
			ID:               "syria_capital",
			QuestionVariants: []string{"ما هي عاصمة سوريا", "What is the capital of Syria"},
			Answer:           "دمشق",
			Keywords:         []string{"عاصمة", "سوريا"},
			Confidence:       1.0,
		}})
		require.NoError(t, err)
		require.Equal(t, 1, seeded)

		for _, question := range []string{"ما هي عاصمة سوريا؟", "What is the capital of Syria?"} {
			lookup := tier.Lookup(ctx, domain.Normalize(question))
			require.Equal(t, domain.LookupHit, lookup.Status)
			require.Equal(t, domain.MatchExact, lookup.Match)
			require.Equal(t, "دمشق", lookup.Entry.Answer)
			require.Equal(t, domain.ProvenanceSeed, lookup.Entry.Provenance)
		}
	})

	t.Run("should report invalid seeds and keep valid ones", func(t *testing.T) {
		tier := newCacheTier(memory.NewCacheStore(0))

		seeded, err := tier.Seed(ctx, []domain.SeedEntry{
			{ID: "empty", QuestionVariants: []string{"  "}, Answer: "x"},
			{ID: "ok", QuestionVariants: []string{"ok"}, Answer: "yes"},
		})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		require.Equal(t, 1, seeded)
	})
}

func TestCacheTier_Invalidate(t *testing.T) {
	ctx := context.Background()
	tier := newCacheTier(memory.NewCacheStore(0))
	q := domain.Normalize("forget me")

	require.NoError(t, tier.Put(ctx, q.Text, &domain.CacheEntry{
		Answer:   "gone soon",
		Keywords: []string{"forget"},
	}, time.Hour))
	require.NoError(t, tier.Invalidate(ctx, q.Text))

	require.Equal(t, domain.LookupMiss, tier.Lookup(ctx, q).Status)
	require.NoError(t, tier.Invalidate(ctx, q.Text))
}

func TestCacheKey(t *testing.T) {
	require.Equal(t, domain.CacheKey("a?"), domain.CacheKey("a?"))
	require.NotEqual(t, domain.CacheKey("a?"), domain.CacheKey("b?"))
	require.Contains(t, domain.CacheKey("a?"), "qa:cache:")
}
