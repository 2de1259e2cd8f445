package domain

import (
	"context"
	"time"
)

// CacheStore is the key/value and set backend of the cache tier.
type CacheStore interface {
	// Get returns the value stored at key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key. A zero ttl keeps the key until it is deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Expire re-arms the ttl of an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// AddToSet adds members to the set at key. A zero ttl makes the set persistent.
	// Otherwise the expiry of the set is only ever extended, never shortened.
	AddToSet(ctx context.Context, key string, ttl time.Duration, members ...string) error

	// SetMembers returns all members of the set at key.
	SetMembers(ctx context.Context, key string) ([]string, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Stats reports backend statistics.
	Stats(ctx context.Context) (*CacheStoreStats, error)
}

// CacheStoreStats describes the state of a cache backend.
type CacheStoreStats struct {
	Backend string            `json:"backend"`
	Keys    int64             `json:"keys"`
	Details map[string]string `json:"details,omitempty"`
}

// VectorStore persists embedding records and answers nearest-neighbour queries.
type VectorStore interface {
	// Upsert inserts or replaces a record by ID.
	Upsert(ctx context.Context, record *EmbeddingRecord) error

	// UpsertBatch inserts or replaces many records.
	UpsertBatch(ctx context.Context, records []*EmbeddingRecord) error

	// Query returns up to limit matches with cosine similarity at or above threshold,
	// ordered by descending similarity.
	Query(ctx context.Context, vector []float64, limit int, threshold float64) ([]*SemanticMatch, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error
}

// EmbeddingGenerator creates vector embeddings from text.
type EmbeddingGenerator interface {
	// Generate creates a vector embedding from text.
	Generate(ctx context.Context, text string) ([]float64, error)

	// GenerateBatch creates one embedding per input, in input order.
	GenerateBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Name returns the generator identifier.
	Name() string

	// Dimension returns the vector dimension.
	Dimension() int

	// Ping checks that the backing model is reachable.
	Ping(ctx context.Context) error
}

// GenerativeProvider produces answers when no stored answer qualifies.
type GenerativeProvider interface {
	// Answer generates an answer. Empty or blocked responses are errors.
	Answer(ctx context.Context, req *GenerationRequest) (*GeneratedAnswer, error)

	// Name returns the provider identifier.
	Name() string

	// Ping checks that the backing model is reachable.
	Ping(ctx context.Context) error
}

// AnswerStore keeps a durable record of answers given to identified users.
type AnswerStore interface {
	// SaveAnswer persists the question and its answer.
	SaveAnswer(ctx context.Context, record *AnswerRecord) error

	// Ping checks connectivity.
	Ping(ctx context.Context) error
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
