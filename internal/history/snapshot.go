package history

import (
	"bytes"
	"encoding/json"
)

const snapshotContentType = "application/json"

// encodeSnapshot renders entries as an indented JSON array with non-ASCII and
// HTML characters kept verbatim.
func encodeSnapshot(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
