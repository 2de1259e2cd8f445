// Package openai answers questions with an OpenAI-compatible chat completion model.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/lodestar/internal/domain"
	"github.com/davidbz/lodestar/internal/observability"
)

const finishReasonContentFilter = "content_filter"

// Provider implements domain.GenerativeProvider.
type Provider struct {
	client      openai.Client
	model       string
	topic       string
	temperature float64
	maxTokens   int
}

// NewProvider creates a new generative provider.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if config.Model == "" {
		return nil, errors.New("generative model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(config.MaxRetries),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	return &Provider{
		client:      openai.NewClient(opts...),
		model:       config.Model,
		topic:       config.Topic,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
	}, nil
}

// Answer implements domain.GenerativeProvider.
func (p *Provider) Answer(ctx context.Context, req *domain.GenerationRequest) (*domain.GeneratedAnswer, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	language := promptLanguage(req)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildSystemPrompt(p.topic, language)),
			openai.UserMessage(buildUserPrompt(req)),
		},
	}
	if p.temperature > 0 {
		params.Temperature = openai.Float(p.temperature)
	}
	if p.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.maxTokens))
	}

	logger.Debug("calling generative model",
		observability.String("model", p.model),
		observability.String("language", language),
		observability.Int("candidates", len(req.Candidates)))

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("generative API call failed", observability.Error(err))
		return nil, fmt.Errorf("generative API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("generative model returned no choices")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == finishReasonContentFilter {
		return nil, errors.New("generative response blocked by content filter")
	}
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return nil, errors.New("generative model returned an empty response")
	}

	parsed := parseAnswer(content)
	if parsed.Answer == "" {
		return nil, errors.New("generative model returned a payload without an answer")
	}

	answerLanguage := parsed.Language
	if answerLanguage == "" || answerLanguage == "auto" {
		answerLanguage = language
	}

	logger.Debug("generative API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)))

	return &domain.GeneratedAnswer{
		Answer:           parsed.Answer,
		Confidence:       *parsed.Confidence,
		Keywords:         parsed.Keywords,
		Sources:          parsed.Sources,
		QuestionVariants: parsed.QuestionVariants,
		Language:         answerLanguage,
		Model:            resp.Model,
		Usage: domain.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "openai"
}

// Ping checks that the configured model is reachable.
func (p *Provider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.Get(ctx, p.model); err != nil {
		return fmt.Errorf("generative model %s: %w", p.model, err)
	}
	return nil
}
