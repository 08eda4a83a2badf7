package history

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/pkg/query"
	"github.com/JaimeStill/toxiguard/pkg/repository"
)

var projection = query.
	NewProjectionMap("", "history", "h").
	Project("id", "ID").
	Project("text", "Text").
	Project("prediction", "Label").
	Project("timestamp", "Timestamp")

var defaultSort = query.SortField{
	Field:      "Timestamp",
	Descending: true,
}

// sortKeys maps client sort keys to projected fields.
var sortKeys = map[string]string{
	"text":       "Text",
	"prediction": "Label",
	"timestamp":  "Timestamp",
}

// sortable keeps only known sort keys, translated to projected fields.
// An empty result falls back to the default sort.
func sortable(fields []query.SortField) []query.SortField {
	var out []query.SortField
	for _, f := range fields {
		if name, ok := sortKeys[strings.ToLower(f.Field)]; ok {
			out = append(out, query.SortField{Field: name, Descending: f.Descending})
		}
	}
	return out
}

// Filters narrows reads of the durable store. The zero value selects every record.
type Filters struct {
	Label  *classifier.Label
	Search *string
	Limit  int
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Label != nil {
		b.WhereEquals("Label", f.Label.Display())
	}
	return b.WhereContains("Text", f.Search)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unrecognized labels and non-positive limits are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if p := values.Get("prediction"); p != "" {
		if label, err := classifier.ParseLabel(p); err == nil {
			f.Label = &label
		}
	}

	if s := strings.TrimSpace(values.Get("search")); s != "" {
		f.Search = &s
	}

	if l := values.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			f.Limit = n
		}
	}

	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	var prediction string

	if err := s.Scan(&r.ID, &r.Text, &prediction, &r.Timestamp); err != nil {
		return r, err
	}

	label, err := classifier.ParseLabel(prediction)
	if err != nil {
		// rows written by other tools keep their stored text
		label = classifier.Label(prediction)
	}
	r.Label = label

	return r, nil
}
