package domain

// GateDecision splits semantic candidates into a direct answer and generative context.
type GateDecision struct {
	Accepted *SemanticMatch
	Context  []*SemanticMatch
}

// QualityGate accepts the top semantic candidate only when it is close enough to stand in for
// a fresh answer.
type QualityGate struct {
	acceptance        float64
	contextCandidates int
}

// NewQualityGate creates a gate from the pipeline thresholds.
func NewQualityGate(cfg PipelineConfig) *QualityGate {
	return &QualityGate{
		acceptance:        cfg.AcceptanceThreshold,
		contextCandidates: cfg.ContextCandidates,
	}
}

// Decide expects matches ordered best first.
func (g *QualityGate) Decide(matches []*SemanticMatch) GateDecision {
	if len(matches) == 0 {
		return GateDecision{}
	}

	if matches[0].Score >= g.acceptance {
		return GateDecision{Accepted: matches[0]}
	}

	limit := len(matches)
	if g.contextCandidates >= 0 && limit > g.contextCandidates {
		limit = g.contextCandidates
	}

	return GateDecision{Context: matches[:limit]}
}

// clampConfidence bounds a confidence value to [0,1].
func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
