// FILE: pkg/abend/record.go
// PURPOSE: Abend reference records and the immutable lookup index built from them

package abend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecords is returned when a record set cannot be indexed.
var ErrInvalidRecords = errors.New("invalid abend record set")

// Record is one row of the abend reference dataset.
type Record struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Solution string `json:"solution"`
}

// Index is a read-only view over a record set. It is never mutated after
// NewIndex returns, so it can be shared between goroutines freely.
type Index struct {
	records    []Record
	byCode     map[string]int
	lowerNames []string
	candidates []string
	haystack   []string // "code name", lower-cased, for Search
}

// CanonicalCode is the key used for code lookups.
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewIndex validates records and builds the lookup structures.
// Codes must be non-empty and unique ignoring case; names must be non-empty.
func NewIndex(records []Record) (*Index, error) {
	idx := &Index{
		records:    make([]Record, 0, len(records)),
		byCode:     make(map[string]int, len(records)),
		lowerNames: make([]string, 0, len(records)),
		candidates: make([]string, 0, len(records)*2),
	}

	for i, r := range records {
		code := CanonicalCode(r.Code)
		name := strings.TrimSpace(r.Name)
		if code == "" {
			return nil, fmt.Errorf("%w: row %d has an empty code", ErrInvalidRecords, i)
		}
		if name == "" {
			return nil, fmt.Errorf("%w: code %s has an empty name", ErrInvalidRecords, code)
		}
		if _, dup := idx.byCode[code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %s", ErrInvalidRecords, code)
		}

		idx.byCode[code] = len(idx.records)
		idx.records = append(idx.records, Record{
			Code:     strings.TrimSpace(r.Code),
			Name:     name,
			Solution: strings.TrimSpace(r.Solution),
		})
		idx.lowerNames = append(idx.lowerNames, strings.ToLower(name))
		idx.haystack = append(idx.haystack, strings.ToLower(code+" "+name))
	}

	// Fuzzy candidates: every code first, then every name, in dataset order.
	for _, r := range idx.records {
		idx.candidates = append(idx.candidates, r.Code)
	}
	for _, r := range idx.records {
		idx.candidates = append(idx.candidates, r.Name)
	}

	return idx, nil
}

// Len returns the number of records.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.records)
}

// Records returns a copy of the records in dataset order.
func (x *Index) Records() []Record {
	if x == nil {
		return nil
	}
	out := make([]Record, len(x.records))
	copy(out, x.records)
	return out
}

// LookupByCode finds a record by code, ignoring case and surrounding whitespace.
func (x *Index) LookupByCode(code string) (Record, bool) {
	if x == nil {
		return Record{}, false
	}
	i, ok := x.byCode[CanonicalCode(code)]
	if !ok {
		return Record{}, false
	}
	return x.records[i], true
}

// HasCode reports whether code is a known key.
func (x *Index) HasCode(code string) bool {
	_, ok := x.LookupByCode(code)
	return ok
}

// SearchByName returns every record whose name contains text (case-insensitive),
// in dataset order.
func (x *Index) SearchByName(text string) []Record {
	if x == nil {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil
	}
	var out []Record
	for i, name := range x.lowerNames {
		if strings.Contains(name, needle) {
			out = append(out, x.records[i])
		}
	}
	return out
}

// FindNameIn returns the first record name related to text by literal
// substring containment in either direction. The reverse direction (text
// inside a name) only applies when text has at least minFragment runes.
func (x *Index) FindNameIn(text string, minFragment int) (string, bool) {
	if x == nil {
		return "", false
	}
	hay := strings.ToLower(strings.TrimSpace(text))
	if hay == "" {
		return "", false
	}
	reverse := len([]rune(hay)) >= minFragment
	for i, name := range x.lowerNames {
		if strings.Contains(hay, name) || (reverse && strings.Contains(name, hay)) {
			return x.records[i].Name, true
		}
	}
	return "", false
}

// Candidates returns the fuzzy-matching vocabulary: all codes, then all names.
func (x *Index) Candidates() []string {
	if x == nil {
		return nil
	}
	return x.candidates
}
