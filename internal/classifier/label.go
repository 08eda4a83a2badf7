package classifier

import (
	"errors"
	"fmt"
)

// Label is the binary verdict assigned to a text.
type Label string

const (
	Toxic   Label = "toxic"
	Neutral Label = "neutral"
)

const (
	toxicDisplay   = "Pravdepodobne toxický"
	neutralDisplay = "Neutrálny text"
)

// ErrUnknownLabel is returned when a string names neither label.
var ErrUnknownLabel = errors.New("unknown label")

// Display returns the user-facing text shown in responses and stored in history.
func (l Label) Display() string {
	switch l {
	case Toxic:
		return toxicDisplay
	case Neutral:
		return neutralDisplay
	}
	return string(l)
}

// Valid reports whether l is one of the two known labels.
func (l Label) Valid() bool {
	return l == Toxic || l == Neutral
}

// ParseLabel accepts either the label code or its display text.
func ParseLabel(s string) (Label, error) {
	switch s {
	case string(Toxic), toxicDisplay:
		return Toxic, nil
	case string(Neutral), neutralDisplay:
		return Neutral, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
}
