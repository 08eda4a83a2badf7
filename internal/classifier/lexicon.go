package classifier

import (
	"context"
	"strings"
)

// Lexicon labels text toxic when it contains any configured term,
// compared case-insensitively.
type Lexicon struct {
	terms []string
}

// NewLexicon creates a Lexicon over the given terms. Blank terms are ignored.
func NewLexicon(terms []string) *Lexicon {
	l := &Lexicon{terms: make([]string, 0, len(terms))}
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			l.terms = append(l.terms, t)
		}
	}
	return l
}

func (l *Lexicon) Classify(_ context.Context, text string) (Label, error) {
	lower := strings.ToLower(text)
	for _, t := range l.terms {
		if strings.Contains(lower, t) {
			return Toxic, nil
		}
	}
	return Neutral, nil
}
