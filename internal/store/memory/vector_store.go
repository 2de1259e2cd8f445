package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davidbz/lodestar/internal/domain"
)

// VectorStore is a brute-force cosine similarity index.
type VectorStore struct {
	mu        sync.RWMutex
	dimension int
	records   map[string]*domain.EmbeddingRecord
}

// NewVectorStore creates an empty store. A zero dimension accepts any vector length.
func NewVectorStore(dimension int) *VectorStore {
	return &VectorStore{
		dimension: dimension,
		records:   make(map[string]*domain.EmbeddingRecord),
	}
}

// Upsert implements domain.VectorStore.
func (s *VectorStore) Upsert(_ context.Context, record *domain.EmbeddingRecord) error {
	if err := s.check(record); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = clone(record)
	return nil
}

// UpsertBatch implements domain.VectorStore.
func (s *VectorStore) UpsertBatch(_ context.Context, records []*domain.EmbeddingRecord) error {
	for _, r := range records {
		if err := s.check(r); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.records[r.ID] = clone(r)
	}
	return nil
}

// Query implements domain.VectorStore.
func (s *VectorStore) Query(
	_ context.Context,
	vector []float64,
	limit int,
	threshold float64,
) ([]*domain.SemanticMatch, error) {
	if s.dimension > 0 && len(vector) != s.dimension {
		return nil, fmt.Errorf("query dimension %d, want %d", len(vector), s.dimension)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*domain.SemanticMatch, 0)
	for _, r := range s.records {
		score := domain.CosineSimilarity(vector, r.Vector)
		if score < threshold {
			continue
		}
		matches = append(matches, &domain.SemanticMatch{
			ID:       r.ID,
			Question: r.Question,
			Answer:   r.Answer,
			Score:    score,
			Metadata: r.Metadata,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Ping implements domain.VectorStore.
func (s *VectorStore) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of stored records.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns a copy of the record with id.
func (s *VectorStore) Get(id string) (*domain.EmbeddingRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, false
	}
	return clone(r), true
}

func (s *VectorStore) check(record *domain.EmbeddingRecord) error {
	if record == nil || record.ID == "" {
		return errors.New("record id is required")
	}
	if s.dimension > 0 && len(record.Vector) != s.dimension {
		return fmt.Errorf("record %s has dimension %d, want %d", record.ID, len(record.Vector), s.dimension)
	}
	return nil
}

func clone(r *domain.EmbeddingRecord) *domain.EmbeddingRecord {
	c := *r
	c.Vector = append([]float64(nil), r.Vector...)
	c.Metadata.Keywords = append([]string(nil), r.Metadata.Keywords...)
	return &c
}
