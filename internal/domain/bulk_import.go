package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davidbz/lodestar/internal/observability"
)

const (
	defaultImportCategory   = "imported"
	defaultImportConfidence = 1.0
)

// ImportItem is one question/answer pair for BulkImport.
type ImportItem struct {
	ID         string   `json:"id,omitempty"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Category   string   `json:"category,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Source     string   `json:"source,omitempty"`
}

// ImportFailure describes a batch that could not be stored.
type ImportFailure struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Error string `json:"error"`
}

// ImportReport is the result of BulkImport.
type ImportReport struct {
	Imported    int             `json:"imported_count"`
	Total       int             `json:"total_count"`
	SuccessRate float64         `json:"success_rate"`
	Failures    []ImportFailure `json:"failures,omitempty"`
}

// BulkImport embeds items and stores them directly in the vector tier, bypassing resolution.
// Items without an ID are keyed by ImportID of their normalized question, so importing a list
// twice replaces its records and separate imports never overwrite each other.
func (p *Pipeline) BulkImport(ctx context.Context, items []ImportItem) (*ImportReport, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: nothing to import", ErrInvalidInput)
	}
	for i, item := range items {
		if strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.Answer) == "" {
			return nil, fmt.Errorf("%w: item %d requires question and answer", ErrInvalidInput, i)
		}
	}

	logger := observability.FromContext(ctx)
	logger.Info("bulk import started", observability.Int("total", len(items)))

	report := &ImportReport{Total: len(items)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if p.cfg.ImportConcurrency > 0 {
		g.SetLimit(p.cfg.ImportConcurrency)
	}

	importedAt := time.Now().UTC()
	for from := 0; from < len(items); from += p.cfg.ImportBatchSize {
		to := min(from+p.cfg.ImportBatchSize, len(items))
		g.Go(func() error {
			stored, err := p.importBatch(gctx, items, from, to, importedAt)

			mu.Lock()
			defer mu.Unlock()
			report.Imported += stored
			if err != nil {
				logger.Warn("bulk import batch failed",
					observability.Int("from", from),
					observability.Int("to", to),
					observability.Error(err))
				report.Failures = append(report.Failures, ImportFailure{From: from, To: to, Error: err.Error()})
			}
			return nil
		})
	}
	_ = g.Wait()

	report.SuccessRate = float64(report.Imported) / float64(report.Total)

	logger.Info("bulk import completed",
		observability.Int("imported", report.Imported),
		observability.Int("total", report.Total))

	return report, nil
}

func (p *Pipeline) importBatch(
	ctx context.Context,
	items []ImportItem,
	from, to int,
	importedAt time.Time,
) (int, error) {
	batch := items[from:to]

	questions := make([]string, len(batch))
	for i, item := range batch {
		questions[i] = Normalize(item.Question).Text
	}

	ectx, cancel := withTimeout(ctx, p.cfg.EmbeddingTimeout)
	vectors, err := p.embedder.GenerateBatch(ectx, questions)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEmbeddingFailure, err)
	}
	if len(vectors) != len(batch) {
		return 0, fmt.Errorf("%w: got %d vectors for %d questions", ErrEmbeddingFailure, len(vectors), len(batch))
	}

	records := make([]*EmbeddingRecord, len(batch))
	for i, item := range batch {
		records[i] = importRecord(item, questions[i], vectors[i], importedAt)
	}

	if err := p.search.Import(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ImportID is the record ID given to imported items that carry none.
func ImportID(normalized string) string {
	return digestID("import_", normalized)
}

func importRecord(item ImportItem, question string, vector []float64, importedAt time.Time) *EmbeddingRecord {
	id := item.ID
	if id == "" {
		id = ImportID(question)
	}
	category := item.Category
	if category == "" {
		category = defaultImportCategory
	}
	confidence := defaultImportConfidence
	if item.Confidence != nil {
		confidence = clampConfidence(*item.Confidence)
	}
	source := item.Source
	if source == "" {
		source = string(ProvenanceImport)
	}

	return &EmbeddingRecord{
		ID:       id,
		Question: question,
		Answer:   item.Answer,
		Vector:   vector,
		Metadata: RecordMetadata{
			Category:   category,
			Confidence: confidence,
			Keywords:   item.Keywords,
			Source:     source,
			Language:   Normalize(item.Question).Language(),
			CreatedAt:  importedAt,
		},
	}
}
