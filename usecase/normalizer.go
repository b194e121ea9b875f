package usecase

import (
	"strings"
	"unicode"
)

// Normalizer decides whether a transcription result is an actionable user
// utterance. Policy: the trimmed text must contain at least one letter or
// digit. Whitespace, punctuation runs and noise markers ("...", "-") are not
// actionable.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// IsActionable reports whether text should be sent to the language model.
func (n *Normalizer) IsActionable(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// Normalize returns the trimmed transcript as it will be recorded.
func (n *Normalizer) Normalize(text string) string {
	return strings.TrimSpace(text)
}
