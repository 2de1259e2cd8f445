package domain

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davidbz/lodestar/internal/observability"
)

// HealthStatus is the overall state of the pipeline dependencies.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// Component names reported by Health.
const (
	ComponentCache      = "cache"
	ComponentVector     = "vector_store"
	ComponentEmbedding  = "embedding"
	ComponentGenerative = "generative"
	ComponentDurable    = "answer_store"
)

const (
	healthyThreshold  = 3
	degradedThreshold = 2
)

// ComponentHealth is the connectivity of one dependency.
type ComponentHealth struct {
	Name      string  `json:"name"`
	Available bool    `json:"available"`
	Optional  bool    `json:"optional,omitempty"`
	Detail    string  `json:"detail,omitempty"`
	LatencyMS float64 `json:"latency_ms"`
}

// HealthReport is returned by Pipeline.Health.
type HealthReport struct {
	Status          HealthStatus      `json:"status"`
	Components      []ComponentHealth `json:"components"`
	Available       int               `json:"available"`
	Total           int               `json:"total"`
	Recommendations []string          `json:"recommendations,omitempty"`
	CheckedAt       time.Time         `json:"checked_at"`
}

type healthCheck struct {
	name     string
	optional bool
	detail   string
	ping     func(ctx context.Context) error
}

// Health pings every dependency concurrently. The four core components decide the status:
// three or more available is healthy, two is degraded, fewer is unhealthy.
func (p *Pipeline) Health(ctx context.Context) *HealthReport {
	checks := []healthCheck{
		{name: ComponentCache, ping: p.cache.Ping},
		{name: ComponentVector, ping: p.search.Ping},
		{
			name:   ComponentEmbedding,
			detail: fmt.Sprintf("%s, dimension %d", p.embedder.Name(), p.embedder.Dimension()),
			ping:   p.embedder.Ping,
		},
		{name: ComponentGenerative, ping: p.pingGenerator},
	}
	if p.answers != nil {
		checks = append(checks, healthCheck{name: ComponentDurable, optional: true, ping: p.answers.Ping})
	}

	components := make([]ComponentHealth, len(checks))

	var g errgroup.Group
	for i, check := range checks {
		g.Go(func() error {
			components[i] = runCheck(ctx, check, p.cfg.HealthTimeout)
			return nil
		})
	}
	_ = g.Wait()

	report := &HealthReport{Components: components, CheckedAt: time.Now().UTC()}
	for _, c := range components {
		if c.Optional {
			if !c.Available {
				report.Recommendations = append(report.Recommendations, recommendation(c.Name))
			}
			continue
		}
		report.Total++
		if c.Available {
			report.Available++
		} else {
			report.Recommendations = append(report.Recommendations, recommendation(c.Name))
		}
	}

	switch {
	case report.Available >= healthyThreshold:
		report.Status = HealthHealthy
	case report.Available >= degradedThreshold:
		report.Status = HealthDegraded
	default:
		report.Status = HealthUnhealthy
	}

	observability.FromContext(ctx).Info("health check completed",
		observability.String("status", string(report.Status)),
		observability.Int("available", report.Available),
		observability.Int("total", report.Total))

	return report
}

func (p *Pipeline) pingGenerator(ctx context.Context) error {
	if p.generator == nil {
		return fmt.Errorf("generative provider: %w", ErrDependencyUnavailable)
	}
	return p.generator.Ping(ctx)
}

func runCheck(ctx context.Context, check healthCheck, timeout time.Duration) ComponentHealth {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := check.ping(ctx)

	health := ComponentHealth{
		Name:      check.name,
		Available: err == nil,
		Optional:  check.optional,
		Detail:    check.detail,
		LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		health.Detail = err.Error()
	}
	return health
}

func recommendation(component string) string {
	switch component {
	case ComponentCache:
		return "cache store is unreachable: answers fall through to semantic search, check the Redis connection"
	case ComponentVector:
		return "vector store is unreachable: semantic search returns no candidates, check the vector backend"
	case ComponentEmbedding:
		return "embedding model is unreachable: uncached questions fail, check the embedding API key and endpoint"
	case ComponentGenerative:
		return "generative model is unreachable: questions without a stored answer fail, check the generative API key"
	case ComponentDurable:
		return "answer store is unreachable: answers for identified users are not persisted, check the database DSN"
	default:
		return component + " is unreachable"
	}
}
