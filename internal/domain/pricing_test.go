package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/lodestar/internal/domain"
)

func TestPricingTable_Calculate(t *testing.T) {
	ctx := context.Background()

	t.Run("should price known model", func(t *testing.T) {
		table := domain.NewPricingTable()
		require.NoError(t, table.Register("gpt-4o-mini", domain.PricingConfig{
			InputCostPer1K:  0.00015,
			OutputCostPer1K: 0.0006,
		}))

		cost, err := table.Calculate(ctx, "gpt-4o-mini", domain.Usage{PromptTokens: 2000, CompletionTokens: 1000})
		require.NoError(t, err)
		require.InDelta(t, 0.0009, cost, 1e-12)
	})

	t.Run("should return zero for unknown model", func(t *testing.T) {
		cost, err := domain.NewPricingTable().Calculate(ctx, "unknown", domain.Usage{PromptTokens: 100})
		require.NoError(t, err)
		require.Zero(t, cost)
	})

	t.Run("should reject empty model", func(t *testing.T) {
		_, err := domain.NewPricingTable().Calculate(ctx, "", domain.Usage{})
		require.Error(t, err)
	})
}

func TestParsePricing(t *testing.T) {
	t.Run("should parse entries", func(t *testing.T) {
		table, err := domain.ParsePricing([]string{"gpt-4o:0.0025:0.01", " ", "gpt-4o-mini:0.00015:0.0006"})
		require.NoError(t, err)

		pricing, ok := table.Lookup("gpt-4o")
		require.True(t, ok)
		require.InDelta(t, 0.0025, pricing.InputCostPer1K, 1e-12)
		require.InDelta(t, 0.01, pricing.OutputCostPer1K, 1e-12)
	})

	t.Run("should price dated snapshots by their base model", func(t *testing.T) {
		table, err := domain.ParsePricing([]string{"gpt-4o:0.0025:0.01", "gpt-4o-mini:0.00015:0.0006"})
		require.NoError(t, err)

		pricing, ok := table.Lookup("gpt-4o-mini-2024-07-18")
		require.True(t, ok)
		require.InDelta(t, 0.00015, pricing.InputCostPer1K, 1e-12)

		pricing, ok = table.Lookup("gpt-4o-2024-08-06")
		require.True(t, ok)
		require.InDelta(t, 0.0025, pricing.InputCostPer1K, 1e-12)

		_, ok = table.Lookup("gpt-4")
		require.False(t, ok)
	})

	t.Run("should reject malformed entries", func(t *testing.T) {
		for _, entry := range []string{"gpt-4o", "gpt-4o:x:1", "gpt-4o:1:y", ":1:1"} {
			_, err := domain.ParsePricing([]string{entry})
			require.Error(t, err, entry)
		}
	})
}

func TestResolutionError(t *testing.T) {
	t.Run("should match kind and cause", func(t *testing.T) {
		cause := context.DeadlineExceeded
		err := &domain.ResolutionError{Kind: domain.ErrEmbeddingFailure, Step: domain.StepEmbeddingFailure, Err: cause}

		require.ErrorIs(t, err, domain.ErrEmbeddingFailure)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, "embedding failure at embedding_failure: context deadline exceeded", err.Error())
	})

	t.Run("should not repeat the kind for input errors", func(t *testing.T) {
		err := &domain.ResolutionError{Kind: domain.ErrInvalidInput, Err: domain.ValidateQuestion("")}

		require.Equal(t, "invalid input: question cannot be empty", err.Error())
	})
}
