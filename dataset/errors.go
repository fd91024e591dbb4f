package dataset

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable marks a source that could not be fetched or decoded.
// The loader recovers from it by substituting synthetic tables; it escapes
// Load only through logs and the bundle's Source field.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceError reports which table failed, where it was looked for, and why.
type SourceError struct {
	Table string
	Ref   string
	Err   error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("table %q unavailable at %s: %v", e.Table, e.Ref, e.Err)
}

func (e *SourceError) Unwrap() []error { return []error{ErrSourceUnavailable, e.Err} }
