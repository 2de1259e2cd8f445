package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/lodestar/internal/config"
	"github.com/davidbz/lodestar/internal/domain"
	"github.com/davidbz/lodestar/internal/http"
	"github.com/davidbz/lodestar/internal/knowledge"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()

	os.Clearenv()
	t.Setenv("CACHE_BACKEND", config.BackendMemory)
	t.Setenv("VECTOR_BACKEND", config.BackendMemory)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := config.Load()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestBuildContainer_MemoryBackends(t *testing.T) {
	cfg := memoryConfig(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed.json"), []byte(`{
		"category": "geography",
		"qa_pairs": [{"id": "capital", "question_variants": ["What is the capital of Syria?"], "answer": "Damascus"}]
	}`), 0o600))
	cfg.Knowledge.Dir = dir

	container := buildContainer(context.Background(), cfg)

	err := container.Invoke(func(
		server *http.Server,
		seeder *knowledge.Seeder,
		pipeline *domain.Pipeline,
		store domain.CacheStore,
		answers domain.AnswerStore,
		res *resources,
	) error {
		defer res.Close()

		require.NotNil(t, server)
		require.Nil(t, answers)

		summary, err := seeder.Seed(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, summary.Seeded)

		result, err := pipeline.Resolve(context.Background(), domain.ResolveRequest{Question: "What is the capital of Syria"})
		require.NoError(t, err)
		require.Equal(t, domain.SourceCache, result.Source)
		require.Equal(t, "Damascus", result.Answer)

		stats, err := store.Stats(context.Background())
		require.NoError(t, err)
		require.Equal(t, "memory", stats.Backend)
		return nil
	})
	require.NoError(t, err)
}

func TestBuildContainer_WithoutGenerativeKey(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Generative.APIKey = ""

	container := buildContainer(context.Background(), cfg)

	err := container.Invoke(func(generator domain.GenerativeProvider) {
		require.Nil(t, generator)
	})
	require.NoError(t, err)
}

func TestBuildContainer_DurableStore(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Postgres.DSN = "sqlite:" + filepath.Join(t.TempDir(), "answers.db")
	cfg.Postgres.MaxOpenConns = 1

	container := buildContainer(context.Background(), cfg)

	err := container.Invoke(func(answers domain.AnswerStore, res *resources) error {
		defer res.Close()
		require.NotNil(t, answers)
		return answers.Ping(context.Background())
	})
	require.NoError(t, err)
}

func TestResources_CloseInReverseOrder(t *testing.T) {
	var order []int
	res := &resources{}
	res.add(func() error { order = append(order, 1); return nil })
	res.add(func() error { order = append(order, 2); return errors.New("boom") })

	err := res.Close()
	require.ErrorContains(t, err, "boom")
	require.Equal(t, []int{2, 1}, order)
	require.NoError(t, res.Close())
}
