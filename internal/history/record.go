// Package history implements the classification ledger: an authoritative SQL
// table of every classification occurrence plus a JSON snapshot mirror that is
// only ever regenerated wholesale from a full read of the table.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/toxiguard/internal/classifier"
)

// TimestampLayout is the wire and snapshot timestamp format (DD.MM.YYYY HH:MM:SS).
const TimestampLayout = "02.01.2006 15:04:05"

// Record is one classification occurrence as stored in the durable table.
type Record struct {
	ID        uuid.UUID
	Text      string
	Label     classifier.Label
	Timestamp time.Time
}

// Entry is the wire and snapshot shape of a Record.
type Entry struct {
	Text       string `json:"text"`
	Prediction string `json:"prediction"`
	Timestamp  string `json:"timestamp"`
}

// Entry renders r with its timestamp in loc.
func (r Record) Entry(loc *time.Location) Entry {
	return Entry{
		Text:       r.Text,
		Prediction: r.Label.Display(),
		Timestamp:  r.Timestamp.In(loc).Format(TimestampLayout),
	}
}

// Entries renders records in order. Never returns nil.
func Entries(records []Record, loc *time.Location) []Entry {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = r.Entry(loc)
	}
	return entries
}

// ImportResult reports the outcome of a snapshot import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Add accumulates another batch's counts into r.
func (r *ImportResult) Add(other ImportResult) {
	r.Imported += other.Imported
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}
