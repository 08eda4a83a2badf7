// Package fingerprint derives the deduplication key for submitted text.
package fingerprint

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint is a 64-bit xxhash digest of a text's exact UTF-8 bytes.
// It keys the result cache and is never persisted.
type Fingerprint uint64

// Of returns the fingerprint of text. Equal strings always yield equal fingerprints.
func Of(text string) Fingerprint {
	return Fingerprint(xxhash.Sum64String(text))
}

// String renders the fingerprint as 16 lowercase hex characters.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}
