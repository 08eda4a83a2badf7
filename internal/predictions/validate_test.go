package predictions_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/toxiguard/internal/predictions"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		text string
		rule error
	}{
		{"plain", "hello", nil},
		{"slovak diacritics", "Dobrý deň, ľščťžýáíéúäôň", nil},
		{"max length", strings.Repeat("a", 512), nil},
		{"max length multibyte", strings.Repeat("ž", 512), nil},
		{"empty", "", predictions.ErrEmptyText},
		{"over max", strings.Repeat("a", 513), predictions.ErrTextTooLong},
		{"over max multibyte", strings.Repeat("ž", 513), predictions.ErrTextTooLong},
		{"cyrillic", "Привет", predictions.ErrDisallowedScript},
		{"single cyrillic rune", "hello ж", predictions.ErrDisallowedScript},
		{"cyrillic yo", "ёж", predictions.ErrDisallowedScript},
		{"extended cyrillic", "ѣ", predictions.ErrDisallowedScript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := predictions.Validate(tt.text)

			if tt.rule == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, predictions.ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
			}
			if !errors.Is(err, tt.rule) {
				t.Errorf("Validate() error = %v, want %v", err, tt.rule)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty", predictions.Validate(""), "Text nesmie byť prázdny."},
		{"too long", predictions.Validate(strings.Repeat("a", 513)), "Text je príliš dlhý. Maximálne 512 znakov."},
		{"cyrillic", predictions.Validate("да"), "Text nesmie obsahovať azbuku (cyriliku)."},
		{"classify", errors.Join(predictions.ErrClassify, errors.New("dial tcp: refused")), "classification failed"},
		{"unknown", errors.New("boom"), "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := predictions.Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
