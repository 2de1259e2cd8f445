package domain

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	questionMarkLatin  = "?"
	questionMarkArabic = "؟"
)

// terminalPunctuation ends a sentence in either script; '۔' is the Arabic-script full stop.
const terminalPunctuation = "?؟.!۔"

// Normalize canonicalizes a raw question. Callers reject empty input with ValidateQuestion first.
func Normalize(raw string) NormalizedQuestion {
	text := strings.Join(strings.Fields(raw), " ")

	script := DetectScript(text)

	if text != "" {
		last := []rune(text)
		if !strings.ContainsRune(terminalPunctuation, last[len(last)-1]) {
			if script == ScriptArabic {
				text += questionMarkArabic
			} else {
				text += questionMarkLatin
			}
		}
	}

	return NormalizedQuestion{
		Original: raw,
		Text:     text,
		Script:   script,
	}
}

// DetectScript returns ScriptArabic when any Arabic code point is present.
func DetectScript(text string) Script {
	for _, r := range text {
		if unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r) {
			return ScriptArabic
		}
	}
	return ScriptLatin
}

// ValidateQuestion rejects questions that are empty after trimming.
func ValidateQuestion(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: question cannot be empty", ErrInvalidInput)
	}
	return nil
}
