package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/lodestar/internal/domain"
	embedding "github.com/davidbz/lodestar/internal/embedding/openai"
	generative "github.com/davidbz/lodestar/internal/generative/openai"
	"github.com/davidbz/lodestar/internal/knowledge"
	"github.com/davidbz/lodestar/internal/observability"
	"github.com/davidbz/lodestar/internal/store/postgres"
	"github.com/davidbz/lodestar/internal/store/qdrant"
	"github.com/davidbz/lodestar/internal/store/redis"
)

// Backend names accepted by StoresConfig.
const (
	BackendRedis  = "redis"
	BackendQdrant = "qdrant"
	BackendMemory = "memory"
)

// Config represents the service configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Log        observability.LogConfig
	Pipeline   domain.PipelineConfig
	Pricing    PricingConfig
	Stores     StoresConfig
	Redis      redis.Config
	Qdrant     qdrant.Config
	Postgres   postgres.Config
	Embedding  embedding.Config
	Generative generative.Config
	Knowledge  knowledge.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int `env:"SERVER_PORT"             envDefault:"8080"`
	ReadTimeout     int `env:"SERVER_READ_TIMEOUT"     envDefault:"30"`
	WriteTimeout    int `env:"SERVER_WRITE_TIMEOUT"    envDefault:"60"`
	ShutdownTimeout int `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string      `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string      `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	ExposedHeaders   []string      `env:"CORS_EXPOSED_HEADERS"   envSeparator:"," envDefault:"X-Resolution-Source"`
	AllowCredentials bool          `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"false"`
	MaxAge           time.Duration `env:"CORS_MAX_AGE"                            envDefault:"24h"`
}

// PricingConfig lists generative model prices as "model:input:output", USD per 1K tokens.
type PricingConfig struct {
	Models []string `env:"GENERATIVE_PRICING" envSeparator:"," envDefault:"gpt-4o-mini:0.00015:0.0006,gpt-4o:0.0025:0.01"`
}

// StoresConfig selects the cache and vector backends.
type StoresConfig struct {
	CacheBackend    string `env:"CACHE_BACKEND"    envDefault:"redis"`
	CacheCapacity   int    `env:"CACHE_CAPACITY"   envDefault:"10000"`
	VectorBackend   string `env:"VECTOR_BACKEND"   envDefault:"qdrant"`
	VectorDimension int    `env:"VECTOR_DIMENSION"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server     *ServerConfig
	CORS       *CORSConfig
	Log        *observability.LogConfig
	Pipeline   *domain.PipelineConfig
	Pricing    *PricingConfig
	Stores     *StoresConfig
	Redis      *redis.Config
	Qdrant     *qdrant.Config
	Postgres   *postgres.Config
	Embedding  *embedding.Config
	Generative *generative.Config
	Knowledge  *knowledge.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// Validate checks settings that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Pipeline.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch c.Stores.CacheBackend {
	case BackendRedis, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Stores.CacheBackend))
	}

	switch c.Stores.VectorBackend {
	case BackendRedis, BackendQdrant, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown vector backend %q", c.Stores.VectorBackend))
	}

	if c.Stores.VectorDimension < 0 {
		errs = append(errs, errors.New("vector dimension cannot be negative"))
	}
	if _, err := domain.ParsePricing(c.Pricing.Models); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Port <= 0 {
		errs = append(errs, errors.New("server port must be positive"))
	}

	return errors.Join(errs...)
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Server:     &cfg.Server,
		CORS:       &cfg.CORS,
		Log:        &cfg.Log,
		Pipeline:   &cfg.Pipeline,
		Pricing:    &cfg.Pricing,
		Stores:     &cfg.Stores,
		Redis:      &cfg.Redis,
		Qdrant:     &cfg.Qdrant,
		Postgres:   &cfg.Postgres,
		Embedding:  &cfg.Embedding,
		Generative: &cfg.Generative,
		Knowledge:  &cfg.Knowledge,
	}
}
