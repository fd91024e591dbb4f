package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// VALIDATION — Header resolution against the canonical shapes
// ============================================================================
// A table conforms when every required column can be located in its header
// row. Anything less is a mismatch; the error names the table and every
// missing column so the caller can report the whole problem at once.
// ============================================================================

// ErrSchemaMismatch marks a table that does not conform to its canonical shape.
var ErrSchemaMismatch = errors.New("schema mismatch")

// MismatchError reports the offending table and the full missing-column list.
type MismatchError struct {
	Table   string
	Missing []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("table %q is missing required columns: %s", e.Table, strings.Join(e.Missing, ", "))
}

func (e *MismatchError) Unwrap() error { return ErrSchemaMismatch }

// NormalizeHeader folds a header for matching: lowercased, trimmed, inner
// whitespace collapsed. "Task  ID " and "task id" resolve to the same column.
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// MapHeaders resolves a CSV header row against the table shape. The result
// maps column keys to positions in the row. Columns match on the normalized
// upstream header or, for derived tables, on the key itself. Missing optional
// columns are simply absent from the map; missing required columns make the
// whole row nonconforming.
func (t Table) MapHeaders(headers []string) (map[string]int, error) {
	byHeader := make(map[string]int, len(headers))
	for i, h := range headers {
		norm := NormalizeHeader(h)
		if _, dup := byHeader[norm]; !dup {
			byHeader[norm] = i
		}
	}

	index := make(map[string]int, len(t.Columns))
	var missing []string
	for _, c := range t.Columns {
		pos, ok := -1, false
		if c.Header != "" {
			pos, ok = lookup(byHeader, c.Header)
		}
		if !ok {
			pos, ok = lookup(byHeader, c.Key)
		}
		if ok {
			index[c.Key] = pos
			continue
		}
		if c.Required {
			missing = append(missing, c.Key)
		}
	}
	if len(missing) > 0 {
		return nil, &MismatchError{Table: t.Name, Missing: missing}
	}
	return index, nil
}

func lookup(byHeader map[string]int, name string) (int, bool) {
	pos, ok := byHeader[NormalizeHeader(name)]
	return pos, ok
}
