package abend

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

var columnAliases = map[string]string{
	"abendcode": "code", "code": "code", "abend_code": "code",
	"abendname": "name", "name": "name", "abend_name": "name",
	"solution": "solution",
}

// ReadCSV parses an export of the abend spreadsheet. The header row must
// name the code, name and solution columns (AbendCode, AbendName, Solution);
// other columns are ignored. Rows are returned as-is, NewIndex validates them.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := columnAliases[key]; ok {
			cols[field] = i
		}
	}
	for _, field := range []string{"code", "name", "solution"} {
		if _, ok := cols[field]; !ok {
			return nil, fmt.Errorf("%w: missing %s column", ErrInvalidRecords, field)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		get := func(field string) string {
			if i := cols[field]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		if get("code") == "" && get("name") == "" && get("solution") == "" {
			continue
		}
		records = append(records, Record{Code: get("code"), Name: get("name"), Solution: get("solution")})
	}
	return records, nil
}
