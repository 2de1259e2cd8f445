package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/lodestar/internal/config"
	"github.com/davidbz/lodestar/internal/domain"
	embedding "github.com/davidbz/lodestar/internal/embedding/openai"
	generative "github.com/davidbz/lodestar/internal/generative/openai"
	"github.com/davidbz/lodestar/internal/http"
	"github.com/davidbz/lodestar/internal/http/middleware"
	"github.com/davidbz/lodestar/internal/knowledge"
	"github.com/davidbz/lodestar/internal/observability"
	"github.com/davidbz/lodestar/internal/store/memory"
	"github.com/davidbz/lodestar/internal/store/postgres"
	"github.com/davidbz/lodestar/internal/store/qdrant"
	"github.com/davidbz/lodestar/internal/store/redis"
)

// resources tracks connections that must be closed on shutdown.
type resources struct {
	mu      sync.Mutex
	closers []func() error
}

func (r *resources) add(fn func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closers = append(r.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (r *resources) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// redisConnector connects on first use so that non-redis backends never dial Redis.
type redisConnector func() (*goredis.Client, error)

func newRedisConnector(ctx context.Context, cfg *redis.Config, res *resources) redisConnector {
	return sync.OnceValues(func() (*goredis.Client, error) {
		client, err := redis.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		res.add(client.Close)
		return client, nil
	})
}

func buildContainer(ctx context.Context, cfg *config.Config) *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}
	if err := container.Provide(func() *resources { return &resources{} }); err != nil {
		log.Fatalf("Failed to provide resources: %v", err)
	}

	// Observability
	if err := container.Provide(func(logCfg *observability.LogConfig) (*zap.Logger, error) {
		logger, err := observability.InitLogger(logCfg)
		if err != nil {
			return nil, err
		}
		observability.SetLogger(logger)
		return logger, nil
	}); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func(logger *zap.Logger) domain.EventPublisher {
		return observability.NewEventBus(logger)
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Models
	if err := container.Provide(func(c *embedding.Config) (domain.EmbeddingGenerator, error) {
		return embedding.NewGenerator(*c)
	}); err != nil {
		log.Fatalf("Failed to provide embedding generator: %v", err)
	}
	if err := container.Provide(provideGenerator); err != nil {
		log.Fatalf("Failed to provide generative provider: %v", err)
	}
	if err := container.Provide(func(c *config.PricingConfig) (domain.CostCalculator, error) {
		return domain.ParsePricing(c.Models)
	}); err != nil {
		log.Fatalf("Failed to provide cost calculator: %v", err)
	}

	// Stores
	if err := container.Provide(func(c *redis.Config, res *resources) redisConnector {
		return newRedisConnector(ctx, c, res)
	}); err != nil {
		log.Fatalf("Failed to provide redis connector: %v", err)
	}
	if err := container.Provide(provideCacheStore); err != nil {
		log.Fatalf("Failed to provide cache store: %v", err)
	}
	if err := container.Provide(func(
		stores *config.StoresConfig,
		embedder domain.EmbeddingGenerator,
		redisCfg *redis.Config,
		qdrantCfg *qdrant.Config,
		connect redisConnector,
		res *resources,
	) (domain.VectorStore, error) {
		return provideVectorStore(ctx, stores, embedder, redisCfg, qdrantCfg, connect, res)
	}); err != nil {
		log.Fatalf("Failed to provide vector store: %v", err)
	}
	if err := container.Provide(provideAnswerStore); err != nil {
		log.Fatalf("Failed to provide answer store: %v", err)
	}

	// Domain Services
	if err := container.Provide(func(store domain.CacheStore, c *domain.PipelineConfig) *domain.CacheTier {
		return domain.NewCacheTier(store, *c)
	}); err != nil {
		log.Fatalf("Failed to provide cache tier: %v", err)
	}
	if err := container.Provide(func(
		store domain.VectorStore,
		embedder domain.EmbeddingGenerator,
		stores *config.StoresConfig,
		c *domain.PipelineConfig,
	) *domain.SemanticSearchTier {
		return domain.NewSemanticSearchTier(store, vectorDimension(stores, embedder), *c)
	}); err != nil {
		log.Fatalf("Failed to provide semantic search tier: %v", err)
	}
	if err := container.Provide(func(
		cache *domain.CacheTier,
		search *domain.SemanticSearchTier,
		answers domain.AnswerStore,
		c *domain.PipelineConfig,
	) *domain.WriteBackCoordinator {
		return domain.NewWriteBackCoordinator(cache, search, answers, *c)
	}); err != nil {
		log.Fatalf("Failed to provide write-back coordinator: %v", err)
	}
	if err := container.Provide(domain.NewPipeline); err != nil {
		log.Fatalf("Failed to provide pipeline: %v", err)
	}
	if err := container.Provide(func(
		c *knowledge.Config,
		cache *domain.CacheTier,
		pipeline *domain.Pipeline,
	) *knowledge.Seeder {
		return knowledge.NewSeeder(c, cache, pipeline)
	}); err != nil {
		log.Fatalf("Failed to provide knowledge seeder: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

// provideGenerator returns a nil provider when no API key is configured. The pipeline then
// reports the generative tier as unavailable instead of refusing to start.
func provideGenerator(c *generative.Config) (domain.GenerativeProvider, error) {
	if c.APIKey == "" {
		return nil, nil
	}
	return generative.NewProvider(*c)
}

func provideCacheStore(stores *config.StoresConfig, connect redisConnector) (domain.CacheStore, error) {
	switch stores.CacheBackend {
	case config.BackendMemory:
		return memory.NewCacheStore(stores.CacheCapacity), nil
	case config.BackendRedis:
		client, err := connect()
		if err != nil {
			return nil, err
		}
		return redis.NewCacheStore(client), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", stores.CacheBackend)
	}
}

func provideVectorStore(
	ctx context.Context,
	stores *config.StoresConfig,
	embedder domain.EmbeddingGenerator,
	redisCfg *redis.Config,
	qdrantCfg *qdrant.Config,
	connect redisConnector,
	res *resources,
) (domain.VectorStore, error) {
	dimension := vectorDimension(stores, embedder)

	switch stores.VectorBackend {
	case config.BackendMemory:
		return memory.NewVectorStore(dimension), nil
	case config.BackendRedis:
		client, err := connect()
		if err != nil {
			return nil, err
		}
		return redis.NewVectorStore(ctx, client, redisCfg.IndexName, dimension)
	case config.BackendQdrant:
		client, err := qdrant.NewClient(qdrantCfg)
		if err != nil {
			return nil, err
		}
		res.add(client.Close)
		store := qdrant.NewStore(client, qdrantCfg)
		if err := store.Init(ctx, dimension); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", stores.VectorBackend)
	}
}

// provideAnswerStore returns a nil interface when no DSN is configured.
func provideAnswerStore(c *postgres.Config, res *resources) (domain.AnswerStore, error) {
	if !c.Enabled() {
		return nil, nil
	}
	store, err := postgres.Open(c)
	if err != nil {
		return nil, err
	}
	res.add(store.Close)
	return store, nil
}

func vectorDimension(stores *config.StoresConfig, embedder domain.EmbeddingGenerator) int {
	if stores.VectorDimension > 0 {
		return stores.VectorDimension
	}
	return embedder.Dimension()
}
