package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/davidbz/lodestar/internal/observability"
)

const maxSimilarQuestions = 3

// Pipeline resolves questions by escalating from the cache tier to semantic search and finally
// to the generative provider. A request never returns to a cheaper tier once a more expensive
// one has run.
type Pipeline struct {
	cfg       PipelineConfig
	cache     *CacheTier
	search    *SemanticSearchTier
	gate      *QualityGate
	embedder  EmbeddingGenerator
	generator GenerativeProvider
	writeBack *WriteBackCoordinator
	costs     CostCalculator
	events    EventPublisher
	answers   AnswerStore
	inFlight  singleflight.Group
}

// NewPipeline creates a pipeline (DI constructor). generator, costs, events and answers may be nil.
func NewPipeline(
	cfg *PipelineConfig,
	cache *CacheTier,
	search *SemanticSearchTier,
	embedder EmbeddingGenerator,
	generator GenerativeProvider,
	writeBack *WriteBackCoordinator,
	costs CostCalculator,
	events EventPublisher,
	answers AnswerStore,
) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	if cache == nil || search == nil || embedder == nil || writeBack == nil {
		return nil, errors.New("cache, search, embedder and write-back are required")
	}

	return &Pipeline{
		cfg:       *cfg,
		cache:     cache,
		search:    search,
		gate:      NewQualityGate(*cfg),
		embedder:  embedder,
		generator: generator,
		writeBack: writeBack,
		costs:     costs,
		events:    events,
		answers:   answers,
	}, nil
}

// Resolve answers a question. On terminal failure it returns a failed result together with a
// *ResolutionError; the result still lists the steps taken.
func (p *Pipeline) Resolve(ctx context.Context, req ResolveRequest) (*PipelineResult, error) {
	start := time.Now()

	if req.UserID != "" {
		ctx = observability.WithUserID(ctx, req.UserID)
	}

	if err := ValidateQuestion(req.Question); err != nil {
		result := &PipelineResult{RequestID: observability.GetRequestID(ctx), Steps: []Step{}}
		return p.fail(ctx, result, start, newResolutionError(ErrInvalidInput, "", err))
	}

	q := Normalize(req.Question)

	if !p.cfg.DedupInFlight {
		return p.resolve(ctx, q, req, start)
	}

	key := strings.Join([]string{q.Text, req.Language, req.Context, req.UserID}, "\x00")
	value, err, shared := p.inFlight.Do(key, func() (interface{}, error) {
		return p.resolve(ctx, q, req, start)
	})
	result, _ := value.(*PipelineResult)
	if shared && result != nil {
		copied := *result
		copied.RequestID = observability.GetRequestID(ctx)
		result = &copied
	}
	return result, err
}

func (p *Pipeline) resolve(
	ctx context.Context,
	q NormalizedQuestion,
	req ResolveRequest,
	start time.Time,
) (*PipelineResult, error) {
	logger := observability.FromContext(ctx)

	language := req.Language
	if language == "" {
		language = q.Language()
	}

	result := &PipelineResult{
		RequestID: observability.GetRequestID(ctx),
		Question:  q.Text,
		Steps:     []Step{StepInputNormalized},
		Metadata:  ResultMetadata{Language: language},
	}

	logger.Info("resolving question",
		observability.String("script", string(q.Script)),
		observability.String("language", language))

	// Cache tier.
	lookup := p.cache.Lookup(observability.WithTier(ctx, string(SourceCache)), q)
	switch lookup.Status {
	case LookupHit:
		result.Steps = append(result.Steps, StepCacheHit)
		entry := lookup.Entry
		result.Answer = entry.Answer
		result.Source = SourceCache
		result.Confidence = entry.Confidence
		result.Metadata.MatchKind = lookup.Match
		result.Metadata.CacheEntryID = entry.ID
		result.Metadata.Keywords = entry.Keywords
		result.Metadata.QuestionVariants = entry.QuestionVariants
		return p.succeed(ctx, result, start), nil
	case LookupDegraded:
		result.Steps = append(result.Steps, StepCacheDegraded, StepCacheMiss)
		result.Metadata.Degraded = append(result.Metadata.Degraded, TargetCache)
	default:
		result.Steps = append(result.Steps, StepCacheMiss)
	}

	// Embedding.
	vector, err := p.embed(ctx, q.Text)
	if err != nil {
		result.Steps = append(result.Steps, StepEmbeddingFailure)
		return p.fail(ctx, result, start, newResolutionError(ErrEmbeddingFailure, StepEmbeddingFailure, err))
	}
	result.Steps = append(result.Steps, StepEmbeddingGenerated)

	// Semantic search.
	outcome := p.search.Search(
		observability.WithTier(ctx, string(SourceSemantic)),
		vector,
		p.cfg.SearchLimit,
		p.cfg.SearchThreshold,
	)
	if outcome.Status == SearchDegraded {
		result.Steps = append(result.Steps, StepSemanticSearchDegraded)
		result.Metadata.Degraded = append(result.Metadata.Degraded, TargetVector)
	}
	if len(outcome.Matches) > 0 {
		result.Steps = append(result.Steps, StepSemanticSearchHit)
		result.Metadata.SimilarQuestions = summarize(outcome.Matches)
	} else {
		result.Steps = append(result.Steps, StepSemanticSearchMiss)
	}

	// Quality gate.
	decision := p.gate.Decide(outcome.Matches)
	if match := decision.Accepted; match != nil {
		result.Steps = append(result.Steps, StepQualityGateAccepted)
		result.Answer = match.Answer
		result.Source = SourceSemantic
		result.Confidence = clampConfidence(match.Score)
		result.Metadata.MatchedID = match.ID
		result.Metadata.Keywords = match.Metadata.Keywords

		p.recordWriteBack(result, p.writeBack.AfterSemantic(ctx, q, match))
		return p.succeed(ctx, result, start), nil
	}
	if len(outcome.Matches) > 0 {
		result.Steps = append(result.Steps, StepQualityGateRejected)
	}

	// Generative fallback.
	gen, err := p.generate(observability.WithTier(ctx, string(SourceGenerative)), q, req, language, decision.Context)
	if err != nil {
		result.Steps = append(result.Steps, StepGenerativeFailure)
		return p.fail(ctx, result, start, newResolutionError(ErrGenerativeFailure, StepGenerativeFailure, err))
	}
	result.Steps = append(result.Steps, StepGenerativeSuccess)

	result.Answer = gen.Answer
	result.Source = SourceGenerative
	result.Confidence = gen.Confidence
	result.Metadata.Keywords = gen.Keywords
	result.Metadata.Sources = gen.Sources
	result.Metadata.QuestionVariants = gen.QuestionVariants
	result.Metadata.Model = gen.Model
	if gen.Language != "" {
		result.Metadata.Language = gen.Language
	}
	usage := gen.Usage
	result.Metadata.Usage = &usage

	p.recordWriteBack(result, p.writeBack.AfterGenerative(ctx, q, vector, gen, req.UserID))
	return p.succeed(ctx, result, start), nil
}

func (p *Pipeline) embed(ctx context.Context, text string) ([]float64, error) {
	ctx, cancel := withTimeout(ctx, p.cfg.EmbeddingTimeout)
	defer cancel()

	vector, err := p.embedder.Generate(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, errors.New("embedding provider returned an empty vector")
	}
	return vector, nil
}

func (p *Pipeline) generate(
	ctx context.Context,
	q NormalizedQuestion,
	req ResolveRequest,
	language string,
	candidates []*SemanticMatch,
) (*GeneratedAnswer, error) {
	if p.generator == nil {
		return nil, fmt.Errorf("generative provider: %w", ErrDependencyUnavailable)
	}

	ctx, cancel := withTimeout(ctx, p.cfg.GenerativeTimeout)
	defer cancel()

	gen, err := p.generator.Answer(ctx, &GenerationRequest{
		Question:   q,
		Context:    req.Context,
		Language:   language,
		Candidates: candidates,
	})
	if err != nil {
		return nil, err
	}
	if gen == nil || strings.TrimSpace(gen.Answer) == "" {
		return nil, errors.New("generative provider returned no answer")
	}

	gen.Confidence = clampConfidence(gen.Confidence)

	if p.costs != nil && gen.Model != "" {
		if cost, costErr := p.costs.Calculate(ctx, gen.Model, gen.Usage); costErr == nil {
			gen.Usage.Cost = cost
		}
	}

	return gen, nil
}

func (p *Pipeline) recordWriteBack(result *PipelineResult, report *WriteBackReport) {
	result.Metadata.WriteBack = report
	if report.Success() {
		result.Steps = append(result.Steps, StepAnswerStored)
	} else {
		result.Steps = append(result.Steps, StepStorageFailed)
	}
}

func (p *Pipeline) succeed(ctx context.Context, result *PipelineResult, start time.Time) *PipelineResult {
	result.Status = StatusSuccess
	result.Elapsed = time.Since(start)
	result.ElapsedMS = float64(result.Elapsed.Microseconds()) / 1000

	observability.FromContext(ctx).Info("question resolved",
		observability.String("source", string(result.Source)),
		observability.Float64("confidence", result.Confidence),
		observability.Duration("elapsed", result.Elapsed))

	p.publish(ctx, "qa.resolved", map[string]interface{}{
		"source":     string(result.Source),
		"confidence": result.Confidence,
		"elapsed_ms": result.ElapsedMS,
		"steps":      len(result.Steps),
	})

	return result
}

func (p *Pipeline) fail(
	ctx context.Context,
	result *PipelineResult,
	start time.Time,
	err *ResolutionError,
) (*PipelineResult, error) {
	result.Status = StatusError
	result.Source = SourceError
	result.Answer = ""
	result.Confidence = 0
	result.Error = err.Error()
	result.Elapsed = time.Since(start)
	result.ElapsedMS = float64(result.Elapsed.Microseconds()) / 1000

	observability.FromContext(ctx).Error("question resolution failed",
		observability.String("step", string(err.Step)),
		observability.Error(err))

	p.publish(ctx, "qa.failed", map[string]interface{}{
		"kind":       err.Kind.Error(),
		"step":       string(err.Step),
		"elapsed_ms": result.ElapsedMS,
	})

	return result, err
}

func (p *Pipeline) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.events == nil {
		return
	}
	p.events.Publish(ctx, eventType, data)
}

// Invalidate drops the cached answer for a question.
func (p *Pipeline) Invalidate(ctx context.Context, question string) error {
	if err := ValidateQuestion(question); err != nil {
		return err
	}
	return p.cache.Invalidate(ctx, Normalize(question).Text)
}

// CacheStats returns statistics from the cache backend.
func (p *Pipeline) CacheStats(ctx context.Context) (*CacheStoreStats, error) {
	return p.cache.Stats(ctx)
}

func summarize(matches []*SemanticMatch) []SimilarQuestion {
	n := len(matches)
	if n > maxSimilarQuestions {
		n = maxSimilarQuestions
	}
	out := make([]SimilarQuestion, 0, n)
	for _, m := range matches[:n] {
		out = append(out, SimilarQuestion{ID: m.ID, Question: m.Question, Score: m.Score})
	}
	return out
}
