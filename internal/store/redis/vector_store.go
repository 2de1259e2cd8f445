package redis

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/lodestar/internal/domain"
	"github.com/davidbz/lodestar/internal/observability"
)

const (
	redisDialectVersion = 2
	vectorKeyPrefix     = "qa:vec:"
)

// VectorStore implements domain.VectorStore using a RediSearch FLAT cosine index.
type VectorStore struct {
	client    *redis.Client
	indexName string
	dimension int
}

// vectorPayload is the JSON stored in the "data" field of each hash.
type vectorPayload struct {
	ID       string                `json:"id"`
	Question string                `json:"question"`
	Answer   string                `json:"answer"`
	Metadata domain.RecordMetadata `json:"metadata"`
}

// NewVectorStore creates the store and ensures its index exists.
func NewVectorStore(ctx context.Context, client *redis.Client, indexName string, dimension int) (*VectorStore, error) {
	v := &VectorStore{
		client:    client,
		indexName: indexName,
		dimension: dimension,
	}

	if err := v.createIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return v, nil
}

// floatsToBytes converts float64 slice to binary byte representation.
func floatsToBytes(fs []float64) []byte {
	const bytesPerFloat32 = 4
	buf := make([]byte, len(fs)*bytesPerFloat32)

	for i, f := range fs {
		u := math.Float32bits(float32(f))
		binary.LittleEndian.PutUint32(buf[i*bytesPerFloat32:], u)
	}

	return buf
}

func vectorKey(id string) string {
	return vectorKeyPrefix + id
}

// Upsert implements domain.VectorStore.
func (v *VectorStore) Upsert(ctx context.Context, record *domain.EmbeddingRecord) error {
	return v.UpsertBatch(ctx, []*domain.EmbeddingRecord{record})
}

// UpsertBatch implements domain.VectorStore. All records go out in one pipeline.
func (v *VectorStore) UpsertBatch(ctx context.Context, records []*domain.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	logger := observability.FromContext(ctx)
	pipe := v.client.Pipeline()

	for _, record := range records {
		if len(record.Vector) != v.dimension {
			return fmt.Errorf("record %s: vector dimension %d, index expects %d",
				record.ID, len(record.Vector), v.dimension)
		}

		data, err := json.Marshal(vectorPayload{
			ID:       record.ID,
			Question: record.Question,
			Answer:   record.Answer,
			Metadata: record.Metadata,
		})
		if err != nil {
			return fmt.Errorf("failed to encode record %s: %w", record.ID, err)
		}

		pipe.HSet(ctx, vectorKey(record.ID),
			"embedding", floatsToBytes(record.Vector),
			"data", string(data),
			"indexed_at", time.Now().Unix(),
		)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("vector upsert failed",
			observability.Int("records", len(records)),
			observability.Error(err))
		return fmt.Errorf("failed to index: %w", err)
	}

	logger.Debug("vector upsert completed",
		observability.Int("records", len(records)))
	return nil
}

// Query implements domain.VectorStore.
func (v *VectorStore) Query(
	ctx context.Context,
	vector []float64,
	limit int,
	threshold float64,
) ([]*domain.SemanticMatch, error) {
	logger := observability.FromContext(ctx)

	query := fmt.Sprintf("*=>[KNN %d @embedding $vec AS score]", limit)

	results, err := v.client.FTSearchWithArgs(ctx, v.indexName, query,
		&redis.FTSearchOptions{
			Return: []redis.FTSearchReturn{
				{FieldName: "data"},
				{FieldName: "score"},
			},
			DialectVersion: redisDialectVersion,
			Params: map[string]any{
				"vec": floatsToBytes(vector),
			},
		},
	).Result()
	if err != nil {
		logger.Error("vector search failed",
			observability.Error(err))
		return nil, fmt.Errorf("search failed: %w", err)
	}

	matches := parseSearchResults(ctx, results, threshold)

	logger.Debug("vector search completed",
		observability.Int("total_docs", results.Total),
		observability.Int("matches", len(matches)))

	return matches, nil
}

// Ping implements domain.VectorStore.
func (v *VectorStore) Ping(ctx context.Context) error {
	if _, err := v.client.FTInfo(ctx, v.indexName).Result(); err != nil {
		return fmt.Errorf("index %s: %w", v.indexName, err)
	}
	return nil
}

// createIndex creates the search index if it doesn't exist.
func (v *VectorStore) createIndex(ctx context.Context) error {
	logger := observability.FromContext(ctx)

	if _, err := v.client.FTInfo(ctx, v.indexName).Result(); err == nil {
		logger.Info("redis search index already exists, skipping creation",
			observability.String("index_name", v.indexName))
		return nil
	}

	logger.Info("creating redis search index",
		observability.String("index_name", v.indexName),
		observability.Int("embedding_dimension", v.dimension))

	_, err := v.client.FTCreate(ctx, v.indexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []any{vectorKeyPrefix},
		},
		&redis.FieldSchema{
			FieldName: "embedding",
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				FlatOptions: &redis.FTFlatOptions{
					Type:           "FLOAT32",
					Dim:            v.dimension,
					DistanceMetric: "COSINE",
				},
			},
		},
		&redis.FieldSchema{
			FieldName: "data",
			FieldType: redis.SearchFieldTypeText,
		},
		&redis.FieldSchema{
			FieldName: "indexed_at",
			FieldType: redis.SearchFieldTypeNumeric,
			Sortable:  true,
		},
	).Result()
	if err != nil {
		return err
	}

	logger.Info("successfully created redis search index",
		observability.String("index_name", v.indexName))
	return nil
}

// parseSearchResults converts KNN documents into matches at or above threshold,
// most similar first.
func parseSearchResults(ctx context.Context, result redis.FTSearchResult, threshold float64) []*domain.SemanticMatch {
	matches := make([]*domain.SemanticMatch, 0, len(result.Docs))

	for _, doc := range result.Docs {
		if match := parseSearchResult(ctx, doc, threshold); match != nil {
			matches = append(matches, match)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func parseSearchResult(ctx context.Context, doc redis.Document, threshold float64) *domain.SemanticMatch {
	logger := observability.FromContext(ctx)

	scoreStr, ok := doc.Fields["score"]
	if !ok {
		return nil
	}
	distance, err := strconv.ParseFloat(scoreStr, 64)
	if err != nil {
		return nil
	}

	// Cosine distance to similarity.
	similarity := 1.0 - distance
	if similarity < threshold {
		return nil
	}

	dataStr, ok := doc.Fields["data"]
	if !ok {
		logger.Warn("data field not found in search result",
			observability.String("key", doc.ID))
		return nil
	}

	var payload vectorPayload
	if err := json.Unmarshal([]byte(dataStr), &payload); err != nil {
		logger.Warn("undecodable search result",
			observability.String("key", doc.ID),
			observability.Error(err))
		return nil
	}

	return &domain.SemanticMatch{
		ID:       payload.ID,
		Question: payload.Question,
		Answer:   payload.Answer,
		Score:    similarity,
		Metadata: payload.Metadata,
	}
}
