package domain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const tokensToPerK = 1000.0

// PricingConfig contains model pricing information.
type PricingConfig struct {
	InputCostPer1K  float64 // USD per 1K input tokens
	OutputCostPer1K float64 // USD per 1K output tokens
}

// CostCalculator prices the token usage of a generative call.
type CostCalculator interface {
	// Calculate returns the total cost for a given model and usage.
	Calculate(ctx context.Context, model string, usage Usage) (float64, error)
}

// PricingTable holds per-model prices for generative calls.
type PricingTable struct {
	mu      sync.RWMutex
	pricing map[string]PricingConfig
}

// NewPricingTable creates an empty pricing table.
func NewPricingTable() *PricingTable {
	return &PricingTable{
		pricing: make(map[string]PricingConfig),
	}
}

// ParsePricing builds a table from "model:input:output" entries, prices in USD per 1K tokens.
func ParsePricing(entries []string) (*PricingTable, error) {
	table := NewPricingTable()
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		parts := strings.Split(raw, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid pricing entry %q: want model:input:output", raw)
		}

		input, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid input price in %q: %w", raw, err)
		}
		output, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid output price in %q: %w", raw, err)
		}

		if err := table.Register(parts[0], PricingConfig{InputCostPer1K: input, OutputCostPer1K: output}); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// Register sets the price of a model.
func (t *PricingTable) Register(model string, config PricingConfig) error {
	if model == "" {
		return errors.New("model cannot be empty")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pricing[model] = config
	return nil
}

// Lookup returns the price of a model. Dated snapshots such as "gpt-4o-2024-08-06" fall back
// to the longest registered model name they extend.
func (t *PricingTable) Lookup(model string) (PricingConfig, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if config, ok := t.pricing[model]; ok {
		return config, true
	}

	best := ""
	for name := range t.pricing {
		if len(name) > len(best) && strings.HasPrefix(model, name+"-") {
			best = name
		}
	}
	if best == "" {
		return PricingConfig{}, false
	}
	return t.pricing[best], true
}

// Calculate implements CostCalculator. Unknown models cost nothing.
func (t *PricingTable) Calculate(_ context.Context, model string, usage Usage) (float64, error) {
	if model == "" {
		return 0, errors.New("model cannot be empty")
	}

	pricing, ok := t.Lookup(model)
	if !ok {
		return 0, nil
	}

	inputCost := float64(usage.PromptTokens) / tokensToPerK * pricing.InputCostPer1K
	outputCost := float64(usage.CompletionTokens) / tokensToPerK * pricing.OutputCostPer1K

	return inputCost + outputCost, nil
}
