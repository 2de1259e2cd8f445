// Package knowledge loads curated question/answer files and seeds the resolution tiers with them.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/davidbz/lodestar/internal/domain"
	"github.com/davidbz/lodestar/internal/observability"
)

const defaultConfidence = 1.0

// Config holds knowledge seeding settings. An empty Dir disables seeding.
type Config struct {
	Dir          string `env:"KNOWLEDGE_DIR"`
	IndexVectors bool   `env:"KNOWLEDGE_INDEX_VECTORS" envDefault:"false"`
}

// File is one curated knowledge file.
type File struct {
	Path        string   `json:"-"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
	Pairs       []QAPair `json:"qa_pairs"`
}

// QAPair is a curated answer with the phrasings it should match.
type QAPair struct {
	ID               string   `json:"id"`
	QuestionVariants []string `json:"question_variants"`
	Answer           string   `json:"answer"`
	Keywords         []string `json:"keywords,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
	Source           string   `json:"source,omitempty"`
}

func (p QAPair) confidence() float64 {
	if p.Confidence == nil {
		return defaultConfidence
	}
	return *p.Confidence
}

// LoadDir reads every *.json file in dir, in name order.
func LoadDir(dir string) ([]*File, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("invalid knowledge dir %s: %w", dir, err)
	}
	sort.Strings(paths)

	files := make([]*File, 0, len(paths))
	for _, path := range paths {
		f, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// LoadFile reads a single knowledge file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	f.Path = path
	return &f, nil
}

// SeedEntries converts the file into cache seeds.
func (f *File) SeedEntries() []domain.SeedEntry {
	entries := make([]domain.SeedEntry, 0, len(f.Pairs))
	for _, p := range f.Pairs {
		entries = append(entries, domain.SeedEntry{
			ID:               p.ID,
			QuestionVariants: p.QuestionVariants,
			Answer:           p.Answer,
			Keywords:         p.Keywords,
			Confidence:       p.confidence(),
			Category:         f.Category,
			Source:           p.Source,
		})
	}
	return entries
}

// ImportItems converts the file into vector import items, one per pair keyed by its first variant.
func (f *File) ImportItems() []domain.ImportItem {
	items := make([]domain.ImportItem, 0, len(f.Pairs))
	for _, p := range f.Pairs {
		if len(p.QuestionVariants) == 0 {
			continue
		}
		c := p.confidence()
		items = append(items, domain.ImportItem{
			ID:         p.ID,
			Question:   p.QuestionVariants[0],
			Answer:     p.Answer,
			Category:   f.Category,
			Keywords:   p.Keywords,
			Confidence: &c,
			Source:     p.Source,
		})
	}
	return items
}

// Importer stores items in the vector tier.
type Importer interface {
	BulkImport(ctx context.Context, items []domain.ImportItem) (*domain.ImportReport, error)
}

// Seeder loads knowledge files into the cache tier and, optionally, the vector tier.
type Seeder struct {
	cfg      Config
	cache    *domain.CacheTier
	importer Importer
}

// NewSeeder creates a seeder. importer may be nil when vectors are not indexed.
func NewSeeder(cfg *Config, cache *domain.CacheTier, importer Importer) *Seeder {
	return &Seeder{cfg: *cfg, cache: cache, importer: importer}
}

// Summary counts what a Seed run stored.
type Summary struct {
	Files    int
	Pairs    int
	Seeded   int
	Imported int
}

// Seed loads the configured directory. Individual bad pairs are reported but do not stop the run.
func (s *Seeder) Seed(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	if s.cfg.Dir == "" {
		return summary, nil
	}

	logger := observability.FromContext(ctx)

	files, err := LoadDir(s.cfg.Dir)
	if err != nil {
		return nil, err
	}

	var errs []error
	var items []domain.ImportItem
	for _, f := range files {
		summary.Files++
		summary.Pairs += len(f.Pairs)

		n, seedErr := s.cache.Seed(ctx, f.SeedEntries())
		summary.Seeded += n
		if seedErr != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(f.Path), seedErr))
		}

		items = append(items, f.ImportItems()...)
	}

	if s.cfg.IndexVectors && s.importer != nil && len(items) > 0 {
		report, importErr := s.importer.BulkImport(ctx, items)
		if importErr != nil {
			errs = append(errs, fmt.Errorf("vector import: %w", importErr))
		} else {
			summary.Imported = report.Imported
		}
	}

	logger.Info("knowledge seeded",
		observability.String("dir", s.cfg.Dir),
		observability.Int("files", summary.Files),
		observability.Int("pairs", summary.Pairs),
		observability.Int("seeded", summary.Seeded),
		observability.Int("imported", summary.Imported))

	return summary, errors.Join(errs...)
}
