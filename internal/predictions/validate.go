package predictions

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MaxLength is the longest accepted text, counted in Unicode code points.
const MaxLength = 512

// Validate checks text against the submission rules. The returned error
// wraps ErrInvalidInput and the specific rule that failed.
func Validate(text string) error {
	if text == "" {
		return invalid(ErrEmptyText)
	}
	if utf8.RuneCountInString(text) > MaxLength {
		return invalid(ErrTextTooLong)
	}
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return invalid(ErrDisallowedScript)
		}
	}
	return nil
}

func invalid(rule error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, rule)
}
