package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/lodestar/internal/domain"
	"github.com/davidbz/lodestar/internal/store/memory"
)

func record(id string, vector ...float64) *domain.EmbeddingRecord {
	return &domain.EmbeddingRecord{
		ID:       id,
		Question: "question " + id,
		Answer:   "answer " + id,
		Vector:   vector,
		Metadata: domain.RecordMetadata{Keywords: []string{id}},
	}
}

func TestVectorStore_QueryOrdersAndFilters(t *testing.T) {
	ctx := context.Background()
	store := memory.NewVectorStore(2)

	require.NoError(t, store.UpsertBatch(ctx, []*domain.EmbeddingRecord{
		record("same", 1, 0),
		record("close", 0.9, 0.1),
		record("orthogonal", 0, 1),
	}))
	require.Equal(t, 3, store.Len())

	matches, err := store.Query(ctx, []float64{1, 0}, 5, 0.5)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "same", matches[0].ID)
	require.InDelta(t, 1.0, matches[0].Score, 1e-9)
	require.Equal(t, "close", matches[1].ID)
	require.Equal(t, "answer close", matches[1].Answer)

	limited, err := store.Query(ctx, []float64{1, 0}, 1, 0)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, "same", limited[0].ID)
}

func TestVectorStore_UpsertReplacesAndCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewVectorStore(0)

	r := record("a", 1, 0, 0)
	require.NoError(t, store.Upsert(ctx, r))
	r.Vector[0] = 0
	r.Metadata.Keywords[0] = "mutated"

	got, ok := store.Get("a")
	require.True(t, ok)
	require.Equal(t, []float64{1, 0, 0}, got.Vector)
	require.Equal(t, []string{"a"}, got.Metadata.Keywords)

	updated := record("a", 0, 1, 0)
	updated.Answer = "new answer"
	require.NoError(t, store.Upsert(ctx, updated))
	require.Equal(t, 1, store.Len())

	got, ok = store.Get("a")
	require.True(t, ok)
	require.Equal(t, "new answer", got.Answer)

	_, ok = store.Get("missing")
	require.False(t, ok)
}

func TestVectorStore_RejectsBadRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewVectorStore(2)

	require.Error(t, store.Upsert(ctx, nil))
	require.Error(t, store.Upsert(ctx, record("", 1, 0)))
	require.Error(t, store.Upsert(ctx, record("a", 1, 0, 0)))

	err := store.UpsertBatch(ctx, []*domain.EmbeddingRecord{record("ok", 1, 0), record("bad", 1)})
	require.Error(t, err)
	require.Zero(t, store.Len())

	_, err = store.Query(ctx, []float64{1}, 5, 0)
	require.Error(t, err)

	require.NoError(t, store.Ping(ctx))
}
