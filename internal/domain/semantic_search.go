package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/davidbz/lodestar/internal/observability"
)

// SearchStatus is the outcome class of a semantic search.
type SearchStatus string

const (
	SearchOK       SearchStatus = "ok"
	SearchDegraded SearchStatus = "degraded"
)

// SearchOutcome is the result of SemanticSearchTier.Search. A degraded outcome has no matches.
type SearchOutcome struct {
	Status  SearchStatus
	Matches []*SemanticMatch
	Err     error
}

// SemanticSearchTier finds previously answered questions by vector similarity.
type SemanticSearchTier struct {
	store     VectorStore
	dimension int
	timeout   time.Duration
}

// NewSemanticSearchTier creates a semantic search tier. A zero dimension disables the length check.
func NewSemanticSearchTier(store VectorStore, dimension int, cfg PipelineConfig) *SemanticSearchTier {
	return &SemanticSearchTier{
		store:     store,
		dimension: dimension,
		timeout:   cfg.SearchTimeout,
	}
}

// Search returns matches at or above threshold, best first. Store failures degrade to an empty result.
func (s *SemanticSearchTier) Search(
	ctx context.Context,
	vector []float64,
	limit int,
	threshold float64,
) SearchOutcome {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	logger := observability.FromContext(ctx)

	matches, err := s.store.Query(ctx, vector, limit, threshold)
	if err != nil {
		logger.Warn("vector store unavailable, treating search as empty",
			observability.Error(err))
		return SearchOutcome{Status: SearchDegraded, Err: unavailable("vector store", err)}
	}

	filtered := make([]*SemanticMatch, 0, len(matches))
	for _, m := range matches {
		if m == nil || m.Score <= 0 || m.Score < threshold {
			continue
		}
		filtered = append(filtered, m)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	logger.Debug("semantic search completed",
		observability.Int("returned", len(matches)),
		observability.Int("kept", len(filtered)),
		observability.Float64("threshold", threshold))

	return SearchOutcome{Status: SearchOK, Matches: filtered}
}

// Store writes one record after checking its dimension.
func (s *SemanticSearchTier) Store(ctx context.Context, record *EmbeddingRecord) error {
	if err := s.checkRecord(record); err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, record); err != nil {
		return unavailable("vector store", err)
	}
	return nil
}

// Import writes records in one batch.
func (s *SemanticSearchTier) Import(ctx context.Context, records []*EmbeddingRecord) error {
	for _, r := range records {
		if err := s.checkRecord(r); err != nil {
			return err
		}
	}
	if err := s.store.UpsertBatch(ctx, records); err != nil {
		return unavailable("vector store", err)
	}
	return nil
}

// Ping checks the backing store.
func (s *SemanticSearchTier) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *SemanticSearchTier) checkRecord(record *EmbeddingRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}
	if record.ID == "" {
		return fmt.Errorf("%w: record id is required", ErrInvalidInput)
	}
	if s.dimension > 0 && len(record.Vector) != s.dimension {
		return fmt.Errorf("%w: record %s has dimension %d, want %d",
			ErrInvalidInput, record.ID, len(record.Vector), s.dimension)
	}
	return nil
}
