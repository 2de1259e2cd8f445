package domain

import (
	"errors"
	"fmt"
	"time"
)

// PipelineConfig tunes the resolution tiers.
type PipelineConfig struct {
	SearchThreshold     float64       `env:"PIPELINE_SEARCH_THRESHOLD"     envDefault:"0.85"`
	AcceptanceThreshold float64       `env:"PIPELINE_ACCEPTANCE_THRESHOLD" envDefault:"0.95"`
	SearchLimit         int           `env:"PIPELINE_SEARCH_LIMIT"         envDefault:"5"`
	ContextCandidates   int           `env:"PIPELINE_CONTEXT_CANDIDATES"   envDefault:"3"`
	CacheTTL            time.Duration `env:"PIPELINE_CACHE_TTL"            envDefault:"24h"`
	SeedTTL             time.Duration `env:"PIPELINE_SEED_TTL"             envDefault:"0s"`
	CacheTimeout        time.Duration `env:"PIPELINE_CACHE_TIMEOUT"        envDefault:"500ms"`
	EmbeddingTimeout    time.Duration `env:"PIPELINE_EMBEDDING_TIMEOUT"    envDefault:"10s"`
	SearchTimeout       time.Duration `env:"PIPELINE_SEARCH_TIMEOUT"       envDefault:"2s"`
	GenerativeTimeout   time.Duration `env:"PIPELINE_GENERATIVE_TIMEOUT"   envDefault:"30s"`
	WriteBackTimeout    time.Duration `env:"PIPELINE_WRITEBACK_TIMEOUT"    envDefault:"5s"`
	HealthTimeout       time.Duration `env:"PIPELINE_HEALTH_TIMEOUT"       envDefault:"3s"`
	ImportBatchSize     int           `env:"PIPELINE_IMPORT_BATCH_SIZE"    envDefault:"64"`
	ImportConcurrency   int           `env:"PIPELINE_IMPORT_CONCURRENCY"   envDefault:"4"`
	DedupInFlight       bool          `env:"PIPELINE_DEDUP_IN_FLIGHT"      envDefault:"false"`
}

// DefaultPipelineConfig mirrors the env defaults for callers that do not load the environment.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		SearchThreshold:     0.85,
		AcceptanceThreshold: 0.95,
		SearchLimit:         5,
		ContextCandidates:   3,
		CacheTTL:            24 * time.Hour,
		CacheTimeout:        500 * time.Millisecond,
		EmbeddingTimeout:    10 * time.Second,
		SearchTimeout:       2 * time.Second,
		GenerativeTimeout:   30 * time.Second,
		WriteBackTimeout:    5 * time.Second,
		HealthTimeout:       3 * time.Second,
		ImportBatchSize:     64,
		ImportConcurrency:   4,
	}
}

// Validate checks threshold ordering and limits.
func (c PipelineConfig) Validate() error {
	if c.SearchThreshold < 0 || c.SearchThreshold > 1 {
		return fmt.Errorf("search threshold %v out of range [0,1]", c.SearchThreshold)
	}
	if c.AcceptanceThreshold < 0 || c.AcceptanceThreshold > 1 {
		return fmt.Errorf("acceptance threshold %v out of range [0,1]", c.AcceptanceThreshold)
	}
	if c.AcceptanceThreshold < c.SearchThreshold {
		return errors.New("acceptance threshold must not be lower than search threshold")
	}
	if c.SearchLimit <= 0 {
		return errors.New("search limit must be positive")
	}
	if c.ImportBatchSize <= 0 {
		return errors.New("import batch size must be positive")
	}
	return nil
}
