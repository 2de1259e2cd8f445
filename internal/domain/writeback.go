package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/davidbz/lodestar/internal/observability"
)

// Write-back targets.
const (
	TargetCache   = "cache"
	TargetVector  = "vector"
	TargetDurable = "durable"
)

// WriteOutcome is the result of one write-back target.
type WriteOutcome struct {
	Target string `json:"target"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// WriteBackReport summarizes a write-back fan-out.
type WriteBackReport struct {
	Outcomes  []WriteOutcome `json:"outcomes"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}

// Success reports whether at least one target was written.
func (r *WriteBackReport) Success() bool {
	return r != nil && r.Succeeded > 0
}

// Err returns ErrPartialWriteBack when any target failed.
func (r *WriteBackReport) Err() error {
	if r == nil || r.Failed == 0 {
		return nil
	}
	failed := make([]string, 0, r.Failed)
	for _, o := range r.Outcomes {
		if !o.OK {
			failed = append(failed, o.Target)
		}
	}
	return fmt.Errorf("%w: %s", ErrPartialWriteBack, strings.Join(failed, ", "))
}

type writeTask struct {
	target string
	run    func(ctx context.Context) error
}

// WriteBackCoordinator persists resolved answers into the cheaper tiers.
type WriteBackCoordinator struct {
	cache   *CacheTier
	search  *SemanticSearchTier
	answers AnswerStore
	timeout time.Duration
}

// NewWriteBackCoordinator creates a coordinator. answers may be nil when no durable store is configured.
func NewWriteBackCoordinator(
	cache *CacheTier,
	search *SemanticSearchTier,
	answers AnswerStore,
	cfg PipelineConfig,
) *WriteBackCoordinator {
	return &WriteBackCoordinator{
		cache:   cache,
		search:  search,
		answers: answers,
		timeout: cfg.WriteBackTimeout,
	}
}

// AfterSemantic caches an accepted semantic match under the asked question.
func (w *WriteBackCoordinator) AfterSemantic(
	ctx context.Context,
	q NormalizedQuestion,
	match *SemanticMatch,
) *WriteBackReport {
	variants := []string{q.Text}
	if match.Question != "" && match.Question != q.Text {
		variants = append(variants, match.Question)
	}

	entry := &CacheEntry{
		ID:               EntryID(q.Text),
		QuestionVariants: variants,
		Answer:           match.Answer,
		Keywords:         match.Metadata.Keywords,
		Confidence:       clampConfidence(match.Score),
		Provenance:       ProvenanceSemantic,
		Category:         match.Metadata.Category,
	}

	return w.run(ctx, []writeTask{
		{target: TargetCache, run: func(ctx context.Context) error {
			return w.cache.Put(ctx, q.Text, entry, w.cache.TTL())
		}},
	})
}

// AfterGenerative writes a generated answer to the cache, the vector store and, for identified
// users, the durable store.
func (w *WriteBackCoordinator) AfterGenerative(
	ctx context.Context,
	q NormalizedQuestion,
	vector []float64,
	gen *GeneratedAnswer,
	userID string,
) *WriteBackReport {
	now := time.Now().UTC()
	id := EntryID(q.Text)

	entry := &CacheEntry{
		ID:               id,
		QuestionVariants: append([]string{q.Text}, gen.QuestionVariants...),
		Answer:           gen.Answer,
		Keywords:         gen.Keywords,
		Confidence:       gen.Confidence,
		Provenance:       ProvenanceGenerative,
		Category:         string(ProvenanceGenerative),
		CachedAt:         now,
	}

	record := &EmbeddingRecord{
		ID:       id,
		Question: q.Text,
		Answer:   gen.Answer,
		Vector:   vector,
		Metadata: RecordMetadata{
			Category:   string(ProvenanceGenerative),
			Confidence: gen.Confidence,
			Keywords:   gen.Keywords,
			Source:     string(SourceGenerative),
			Language:   gen.Language,
			Model:      gen.Model,
			CreatedAt:  now,
		},
	}

	tasks := []writeTask{
		{target: TargetCache, run: func(ctx context.Context) error {
			return w.cache.Put(ctx, q.Text, entry, w.cache.TTL())
		}},
		{target: TargetVector, run: func(ctx context.Context) error {
			return w.search.Store(ctx, record)
		}},
	}

	if userID != "" && w.answers != nil {
		answer := &AnswerRecord{
			UserID:     userID,
			Question:   q.Text,
			Answer:     gen.Answer,
			Source:     SourceGenerative,
			Confidence: gen.Confidence,
			Language:   gen.Language,
			Keywords:   gen.Keywords,
			Model:      gen.Model,
			CreatedAt:  now,
		}
		tasks = append(tasks, writeTask{target: TargetDurable, run: func(ctx context.Context) error {
			if err := w.answers.SaveAnswer(ctx, answer); err != nil {
				return unavailable("answer store", err)
			}
			return nil
		}})
	}

	return w.run(ctx, tasks)
}

// run executes tasks concurrently and waits for all of them. Writes are detached from the
// caller's cancellation so a client disconnect does not abort persistence.
func (w *WriteBackCoordinator) run(ctx context.Context, tasks []writeTask) *WriteBackReport {
	ctx, cancel := withTimeout(context.WithoutCancel(ctx), w.timeout)
	defer cancel()

	logger := observability.FromContext(ctx)

	outcomes := make([]WriteOutcome, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := task.run(ctx)
			outcomes[i] = WriteOutcome{Target: task.target, OK: err == nil}
			if err != nil {
				outcomes[i].Error = err.Error()
			}
		}()
	}
	wg.Wait()

	report := &WriteBackReport{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.OK {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	if err := report.Err(); err != nil {
		level := logger.Warn
		if !report.Success() {
			level = logger.Error
		}
		level("write-back incomplete",
			observability.Int("succeeded", report.Succeeded),
			observability.Int("failed", report.Failed),
			observability.Error(err))
	}

	return report
}
