package domain

import "time"

// Script identifies the writing system detected in a question.
type Script string

const (
	ScriptArabic Script = "arabic"
	ScriptLatin  Script = "latin"
)

// NormalizedQuestion is the canonical form of an incoming question.
type NormalizedQuestion struct {
	Original string `json:"original"`
	Text     string `json:"text"`
	Script   Script `json:"script"`
}

// Language maps the detected script to a language hint.
func (q NormalizedQuestion) Language() string {
	if q.Script == ScriptArabic {
		return LanguageArabic
	}
	return LanguageEnglish
}

const (
	LanguageArabic  = "ar"
	LanguageEnglish = "en"
)

// Provenance records which path created a cache entry.
type Provenance string

const (
	ProvenanceSeed       Provenance = "cache_seed"
	ProvenanceSemantic   Provenance = "semantic_match"
	ProvenanceGenerative Provenance = "generative"
	ProvenanceImport     Provenance = "bulk_import"
)

// CacheEntry is an answer stored in the cache tier.
type CacheEntry struct {
	ID               string     `json:"id"`
	QuestionVariants []string   `json:"question_variants"`
	Answer           string     `json:"answer"`
	Keywords         []string   `json:"keywords,omitempty"`
	Confidence       float64    `json:"confidence"`
	Provenance       Provenance `json:"provenance"`
	Category         string     `json:"category,omitempty"`
	CachedAt         time.Time  `json:"cached_at"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// RecordMetadata is the payload stored next to a vector.
type RecordMetadata struct {
	Category   string    `json:"category,omitempty"`
	Confidence float64   `json:"confidence"`
	Keywords   []string  `json:"keywords,omitempty"`
	Source     string    `json:"source,omitempty"`
	Language   string    `json:"language,omitempty"`
	Model      string    `json:"model,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmbeddingRecord is a question/answer pair indexed by its question vector.
type EmbeddingRecord struct {
	ID       string         `json:"id"`
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Vector   []float64      `json:"-"`
	Metadata RecordMetadata `json:"metadata"`
}

// SemanticMatch is one ranked result from the vector store.
type SemanticMatch struct {
	ID       string         `json:"id"`
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Score    float64        `json:"score"`
	Metadata RecordMetadata `json:"metadata"`
}

// GenerationRequest is the input to the generative provider.
type GenerationRequest struct {
	Question   NormalizedQuestion
	Context    string
	Language   string
	Candidates []*SemanticMatch
}

// GeneratedAnswer is the parsed payload returned by the generative provider.
type GeneratedAnswer struct {
	Answer           string
	Confidence       float64
	Keywords         []string
	Sources          []string
	QuestionVariants []string
	Language         string
	Model            string
	Usage            Usage
}

// Usage tracks token consumption of a generative call.
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Cost             float64 `json:"cost,omitempty"`
}

// AnswerRecord is the durable copy of a generated answer for an identified user.
type AnswerRecord struct {
	UserID     string
	Question   string
	Answer     string
	Source     Source
	Confidence float64
	Language   string
	Keywords   []string
	Model      string
	CreatedAt  time.Time
}

// ResolveRequest is the input to Pipeline.Resolve.
type ResolveRequest struct {
	Question string `json:"question"`
	UserID   string `json:"user_id,omitempty"`
	Context  string `json:"context,omitempty"`
	Language string `json:"language,omitempty"`
}

// Source names the tier that produced an answer.
type Source string

const (
	SourceCache      Source = "cache"
	SourceSemantic   Source = "semantic"
	SourceGenerative Source = "generative"
	SourceError      Source = "error"
)

// Status is the overall outcome of a resolution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Step is one entry in the ordered trail of a resolution.
type Step string

const (
	StepInputNormalized        Step = "input_normalized"
	StepCacheHit               Step = "cache_hit"
	StepCacheMiss              Step = "cache_miss"
	StepCacheDegraded          Step = "cache_degraded"
	StepEmbeddingGenerated     Step = "embedding_generated"
	StepEmbeddingFailure       Step = "embedding_failure"
	StepSemanticSearchHit      Step = "semantic_search_hit"
	StepSemanticSearchMiss     Step = "semantic_search_miss"
	StepSemanticSearchDegraded Step = "semantic_search_degraded"
	StepQualityGateAccepted    Step = "quality_gate_accepted"
	StepQualityGateRejected    Step = "quality_gate_rejected"
	StepGenerativeSuccess      Step = "generative_api_success"
	StepGenerativeFailure      Step = "generative_api_failure"
	StepAnswerStored           Step = "answer_stored"
	StepStorageFailed          Step = "storage_failed"
)

// MatchKind distinguishes exact cache hits from token-overlap hits.
type MatchKind string

const (
	MatchExact MatchKind = "exact"
	MatchFuzzy MatchKind = "fuzzy"
)

// SimilarQuestion summarizes a semantic candidate in result metadata.
type SimilarQuestion struct {
	ID       string  `json:"id"`
	Question string  `json:"question"`
	Score    float64 `json:"score"`
}

// ResultMetadata carries optional details about how an answer was produced.
type ResultMetadata struct {
	MatchKind        MatchKind         `json:"match_kind,omitempty"`
	CacheEntryID     string            `json:"cache_entry_id,omitempty"`
	MatchedID        string            `json:"matched_id,omitempty"`
	SimilarQuestions []SimilarQuestion `json:"similar_questions,omitempty"`
	Keywords         []string          `json:"keywords,omitempty"`
	Sources          []string          `json:"sources,omitempty"`
	QuestionVariants []string          `json:"question_variants,omitempty"`
	Language         string            `json:"language,omitempty"`
	Model            string            `json:"model,omitempty"`
	Usage            *Usage            `json:"usage,omitempty"`
	WriteBack        *WriteBackReport  `json:"write_back,omitempty"`
	Degraded         []string          `json:"degraded,omitempty"`
	Extra            map[string]string `json:"extra,omitempty"`
}

// PipelineResult is the outcome of one resolution.
type PipelineResult struct {
	RequestID  string         `json:"request_id,omitempty"`
	Status     Status         `json:"status"`
	Question   string         `json:"question"`
	Answer     string         `json:"answer,omitempty"`
	Source     Source         `json:"source"`
	Confidence float64        `json:"confidence"`
	Steps      []Step         `json:"steps"`
	Elapsed    time.Duration  `json:"-"`
	ElapsedMS  float64        `json:"elapsed_ms"`
	Metadata   ResultMetadata `json:"metadata"`
	Error      string         `json:"error,omitempty"`
}

// HasStep reports whether the resolution passed through step.
func (r *PipelineResult) HasStep(step Step) bool {
	for _, s := range r.Steps {
		if s == step {
			return true
		}
	}
	return false
}
