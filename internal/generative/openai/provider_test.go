package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/lodestar/internal/domain"
	"github.com/davidbz/lodestar/internal/generative/openai"
)

func completion(content, finishReason string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 0,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": finishReason,
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150},
	})
	return string(body)
}

func newProvider(t *testing.T, handler http.HandlerFunc) *openai.Provider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	provider, err := openai.NewProvider(openai.Config{
		APIKey:      "test-key",
		BaseURL:     srv.URL + "/v1/",
		Model:       "gpt-4o-mini",
		Topic:       "Syria",
		Temperature: 0.3,
		MaxTokens:   2000,
	})
	require.NoError(t, err)
	return provider
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := openai.NewProvider(openai.Config{Model: "m"})
	require.ErrorContains(t, err, "OpenAI API key is required")

	_, err = openai.NewProvider(openai.Config{APIKey: "k"})
	require.Error(t, err)

	p, err := openai.NewProvider(openai.Config{APIKey: "k", Model: "m"})
	require.NoError(t, err)
	require.Equal(t, "openai", p.Name())
}

func TestProvider_Answer(t *testing.T) {
	var sent struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	content := "```json\n{\"answer\":\"Damascus\",\"confidence\":0.93,\"keywords\":[\"capital\",\"syria\"],\"sources\":[\"atlas\"],\"language\":\"en\",\"question_variants\":[\"Syria's capital?\"]}\n```"

	provider := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		respond(completion(content, "stop"))(w, r)
	})

	answer, err := provider.Answer(context.Background(), &domain.GenerationRequest{
		Question: domain.Normalize("What is the capital of Syria"),
		Candidates: []*domain.SemanticMatch{
			{Question: "Largest city in Syria?", Answer: "Aleppo", Score: 0.88},
		},
	})
	require.NoError(t, err)

	require.Equal(t, "Damascus", answer.Answer)
	require.InDelta(t, 0.93, answer.Confidence, 1e-9)
	require.Equal(t, []string{"capital", "syria"}, answer.Keywords)
	require.Equal(t, []string{"atlas"}, answer.Sources)
	require.Equal(t, []string{"Syria's capital?"}, answer.QuestionVariants)
	require.Equal(t, "en", answer.Language)
	require.Equal(t, "gpt-4o-mini", answer.Model)
	require.Equal(t, domain.Usage{PromptTokens: 120, CompletionTokens: 30, TotalTokens: 150}, answer.Usage)

	require.Equal(t, "gpt-4o-mini", sent.Model)
	require.InDelta(t, 0.3, sent.Temperature, 1e-9)
	require.Equal(t, 2000, sent.MaxTokens)
	require.Len(t, sent.Messages, 2)
	require.Equal(t, "system", sent.Messages[0].Role)
	require.Contains(t, sent.Messages[0].Content, "Syria")
	require.Equal(t, "user", sent.Messages[1].Role)
	require.Contains(t, sent.Messages[1].Content, "1. Q: Largest city in Syria?")
}

func TestProvider_AnswerArabicPlainText(t *testing.T) {
	provider := newProvider(t, respond(completion("دمشق هي عاصمة سوريا", "stop")))

	answer, err := provider.Answer(context.Background(), &domain.GenerationRequest{
		Question: domain.Normalize("ما هي عاصمة سوريا"),
	})
	require.NoError(t, err)
	require.Equal(t, "دمشق هي عاصمة سوريا", answer.Answer)
	require.InDelta(t, 0.7, answer.Confidence, 1e-9)
	require.Equal(t, domain.LanguageArabic, answer.Language)
}

func TestProvider_AnswerFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "content filter", handler: respond(completion("", "content_filter"))},
		{name: "empty content", handler: respond(completion("   ", "stop"))},
		{name: "blank answer field", handler: respond(completion(`{"answer":"","confidence":0.9}`, "stop"))},
		{name: "no choices", handler: respond(`{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`)},
		{name: "server error", handler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"bad","type":"invalid_request_error"}}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newProvider(t, tt.handler)
			answer, err := provider.Answer(context.Background(), &domain.GenerationRequest{
				Question: domain.Normalize("hello"),
			})
			require.Error(t, err)
			require.Nil(t, answer)
		})
	}
}

func TestProvider_AnswerNilRequest(t *testing.T) {
	provider := newProvider(t, respond(completion("x", "stop")))
	_, err := provider.Answer(context.Background(), nil)
	require.ErrorContains(t, err, "request cannot be nil")
}

func TestProvider_Ping(t *testing.T) {
	provider := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/models/gpt-4o-mini", r.URL.Path)
		respond(`{"id":"gpt-4o-mini","object":"model","created":0,"owned_by":"openai"}`)(w, r)
	})
	require.NoError(t, provider.Ping(context.Background()))
}
