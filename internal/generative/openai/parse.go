package openai

import (
	"encoding/json"
	"strings"
)

const (
	defaultConfidence  = 0.8
	fallbackConfidence = 0.7
)

// answerPayload is the JSON shape requested from the model.
type answerPayload struct {
	Answer           string   `json:"answer"`
	Confidence       *float64 `json:"confidence"`
	Sources          []string `json:"sources"`
	Language         string   `json:"language"`
	QuestionVariants []string `json:"question_variants"`
	Keywords         []string `json:"keywords"`
}

// parseAnswer extracts the answer payload from model output. Output that is not JSON
// becomes the answer itself with a lower confidence. A JSON payload with a blank answer
// yields an empty Answer.
func parseAnswer(raw string) answerPayload {
	text := strings.TrimSpace(raw)

	candidate := stripFence(text)
	if start, end := strings.Index(candidate, "{"), strings.LastIndex(candidate, "}"); start >= 0 && end > start {
		candidate = candidate[start : end+1]
	}

	var p answerPayload
	if err := json.Unmarshal([]byte(candidate), &p); err != nil {
		c := fallbackConfidence
		return answerPayload{Answer: text, Confidence: &c}
	}

	p.Answer = strings.TrimSpace(p.Answer)
	c := defaultConfidence
	if p.Confidence != nil {
		c = clamp(*p.Confidence)
	}
	p.Confidence = &c

	return p
}

// stripFence returns the body of the first ``` fenced block, or text unchanged.
func stripFence(text string) string {
	start := strings.Index(text, "```")
	if start < 0 {
		return text
	}
	body := text[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
