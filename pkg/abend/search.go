package abend

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Search ranks records for type-ahead: query characters must appear in order
// in "code name". Best matches first, at most limit results.
func (x *Index) Search(query string, limit int) []Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if x == nil || query == "" || limit <= 0 {
		return nil
	}

	matches := fuzzy.Find(query, x.haystack)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Record, 0, len(matches))
	for _, m := range matches {
		out = append(out, x.records[m.Index])
	}
	return out
}
