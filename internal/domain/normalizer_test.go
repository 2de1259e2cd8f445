package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/lodestar/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		script domain.Script
	}{
		{
			name:   "should append latin question mark",
			input:  "What is the capital of Syria",
			want:   "What is the capital of Syria?",
			script: domain.ScriptLatin,
		},
		{
			name:   "should append arabic question mark",
			input:  "ما هي عاصمة سوريا",
			want:   "ما هي عاصمة سوريا؟",
			script: domain.ScriptArabic,
		},
		{
			name:   "should collapse whitespace and trim",
			input:  "  What   is\tthe \n capital  ",
			want:   "What is the capital?",
			script: domain.ScriptLatin,
		},
		{
			name:   "should keep existing arabic terminal mark",
			input:  "ما هي عاصمة سوريا؟",
			want:   "ما هي عاصمة سوريا؟",
			script: domain.ScriptArabic,
		},
		{
			name:   "should keep period",
			input:  "Tell me about Damascus.",
			want:   "Tell me about Damascus.",
			script: domain.ScriptLatin,
		},
		{
			name:   "should keep exclamation mark",
			input:  "Explain this!",
			want:   "Explain this!",
			script: domain.ScriptLatin,
		},
		{
			name:   "should use arabic mark for mixed script",
			input:  "What does سوريا mean",
			want:   "What does سوريا mean؟",
			script: domain.ScriptArabic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := domain.Normalize(tt.input)
			require.Equal(t, tt.want, q.Text)
			require.Equal(t, tt.script, q.Script)
			require.Equal(t, tt.input, q.Original)
		})
	}
}

func TestNormalize_IsIdempotent(t *testing.T) {
	for _, input := range []string{"Hello there", "ما هي عاصمة سوريا", "  a  b  "} {
		once := domain.Normalize(input).Text
		require.Equal(t, once, domain.Normalize(once).Text)
	}
}

func TestNormalizedQuestion_Language(t *testing.T) {
	require.Equal(t, domain.LanguageArabic, domain.Normalize("مرحبا").Language())
	require.Equal(t, domain.LanguageEnglish, domain.Normalize("hello").Language())
}

func TestValidateQuestion(t *testing.T) {
	t.Run("should reject empty and whitespace input", func(t *testing.T) {
		for _, input := range []string{"", "   ", "\t\n"} {
			err := domain.ValidateQuestion(input)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		}
	})

	t.Run("should accept text", func(t *testing.T) {
		require.NoError(t, domain.ValidateQuestion("why?"))
	})
}

func TestCosineSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, domain.CosineSimilarity([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	require.InDelta(t, 0.0, domain.CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	require.InDelta(t, -1.0, domain.CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	require.Zero(t, domain.CosineSimilarity([]float64{1, 0}, []float64{1, 0, 0}))
	require.Zero(t, domain.CosineSimilarity([]float64{0, 0}, []float64{1, 0}))
}

func TestTokenize(t *testing.T) {
	t.Run("should split on punctuation and drop short tokens", func(t *testing.T) {
		require.Equal(t, []string{"what", "is", "syria", "capital"}, domain.Tokenize("What is Syria's capital?"))
	})

	t.Run("should deduplicate and handle arabic", func(t *testing.T) {
		require.Equal(t, []string{"عاصمة", "سوريا"}, domain.Tokenize("عاصمة سوريا؟ سوريا"))
	})
}
