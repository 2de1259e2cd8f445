// Package qdrant stores question/answer vectors in a Qdrant collection over the gRPC API.
package qdrant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/davidbz/lodestar/internal/domain"
	"github.com/davidbz/lodestar/internal/observability"
)

const (
	defaultTimeout = 15 * time.Second
	defaultLimit   = 5
	upsertBatch    = 100
)

// Payload keys written next to each point.
const (
	payloadRecordID = "record_id"
	payloadQuestion = "question"
	payloadAnswer   = "answer"
	payloadMetadata = "metadata"
)

// pointNamespace derives Qdrant point UUIDs from record IDs, which Qdrant would otherwise reject.
var pointNamespace = uuid.MustParse("0b6f1e5c-8a54-4c1e-9d0a-5f7b2f1c3e21")

// Config holds Qdrant connection settings.
type Config struct {
	Host       string        `env:"QDRANT_HOST"       envDefault:"localhost"`
	Port       int           `env:"QDRANT_PORT"       envDefault:"6334"`
	APIKey     string        `env:"QDRANT_API_KEY"`
	UseTLS     bool          `env:"QDRANT_USE_TLS"    envDefault:"false"`
	Collection string        `env:"QDRANT_COLLECTION" envDefault:"qa_embeddings"`
	Timeout    time.Duration `env:"QDRANT_TIMEOUT"    envDefault:"15s"`
}

// Client is the part of the Qdrant client used by Store.
type Client interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Close() error
}

// NewClient dials Qdrant with the configured credentials.
func NewClient(cfg *Config) (*qdrant.Client, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client for %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return client, nil
}

// Store implements domain.VectorStore on a Qdrant collection with cosine distance.
type Store struct {
	client     Client
	collection string
	timeout    time.Duration
	dimension  int
}

// NewStore creates a store. Call Init before use.
func NewStore(client Client, cfg *Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Store{
		client:     client,
		collection: cfg.Collection,
		timeout:    timeout,
	}
}

// Init creates the collection when it does not exist yet.
func (s *Store) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger := observability.FromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", s.collection, err)
	}
	if exists {
		logger.Info("qdrant collection already exists, skipping creation",
			observability.String("collection", s.collection))
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
	}

	logger.Info("created qdrant collection",
		observability.String("collection", s.collection),
		observability.Int("dimension", dimension))
	return nil
}

// PointID maps a record ID to its Qdrant point ID.
func PointID(recordID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(recordID)).String()
}

// Upsert implements domain.VectorStore.
func (s *Store) Upsert(ctx context.Context, record *domain.EmbeddingRecord) error {
	return s.UpsertBatch(ctx, []*domain.EmbeddingRecord{record})
}

// UpsertBatch implements domain.VectorStore.
func (s *Store) UpsertBatch(ctx context.Context, records []*domain.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(records))
	for i, r := range records {
		if r == nil || r.ID == "" {
			return errors.New("record id is required")
		}
		if s.dimension > 0 && len(r.Vector) != s.dimension {
			return fmt.Errorf("record %s: vector dimension %d, collection expects %d",
				r.ID, len(r.Vector), s.dimension)
		}
		point, err := toPoint(r)
		if err != nil {
			return err
		}
		points[i] = point
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	wait := true
	for start := 0; start < len(points); start += upsertBatch {
		end := min(start+upsertBatch, len(points))
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Wait:           &wait,
			Points:         points[start:end],
		})
		if err != nil {
			return fmt.Errorf("failed to upsert points %d-%d into %s: %w", start, end, s.collection, err)
		}
	}
	return nil
}

// Query implements domain.VectorStore.
func (s *Store) Query(
	ctx context.Context,
	vector []float64,
	limit int,
	threshold float64,
) ([]*domain.SemanticMatch, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	top := uint64(limit)
	minScore := float32(threshold)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(toFloat32(vector)...),
		Limit:          &top,
		ScoreThreshold: &minScore,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.collection, err)
	}

	matches := make([]*domain.SemanticMatch, 0, len(points))
	for _, p := range points {
		if p.GetScore() < minScore {
			continue
		}
		matches = append(matches, fromPoint(ctx, p))
	}
	return matches, nil
}

// Ping implements domain.VectorStore.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("collection %s does not exist", s.collection)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func toPoint(r *domain.EmbeddingRecord) (*qdrant.PointStruct, error) {
	metadata, err := json.Marshal(r.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata of %s: %w", r.ID, err)
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewID(PointID(r.ID)),
		Vectors: qdrant.NewVectors(toFloat32(r.Vector)...),
		Payload: map[string]*qdrant.Value{
			payloadRecordID: qdrant.NewValueString(r.ID),
			payloadQuestion: qdrant.NewValueString(r.Question),
			payloadAnswer:   qdrant.NewValueString(r.Answer),
			payloadMetadata: qdrant.NewValueString(string(metadata)),
		},
	}, nil
}

func fromPoint(ctx context.Context, p *qdrant.ScoredPoint) *domain.SemanticMatch {
	payload := p.GetPayload()

	match := &domain.SemanticMatch{
		ID:       payload[payloadRecordID].GetStringValue(),
		Question: payload[payloadQuestion].GetStringValue(),
		Answer:   payload[payloadAnswer].GetStringValue(),
		Score:    float64(p.GetScore()),
	}
	if match.ID == "" {
		match.ID = p.GetId().GetUuid()
	}

	if raw := payload[payloadMetadata].GetStringValue(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &match.Metadata); err != nil {
			observability.FromContext(ctx).Warn("failed to decode qdrant point metadata",
				observability.String("id", match.ID),
				observability.Error(err))
		}
	}
	return match
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
