package landscape

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateTaskKey marks a task table whose key column is not unique.
// The derivation refuses to pick a winner; the source has to be fixed.
var ErrDuplicateTaskKey = errors.New("duplicate task key")

// DuplicateKeyError lists every key that appears more than once.
type DuplicateKeyError struct {
	Keys []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("task table has duplicate keys: %s", strings.Join(e.Keys, ", "))
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateTaskKey }

// ErrInvalidFilter marks a query that cannot be evaluated as stated.
// No partial view is ever returned alongside it.
var ErrInvalidFilter = errors.New("invalid filter")

// InvalidFilterError names the offending field and why it was rejected.
type InvalidFilterError struct {
	Field  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter: %s: %s", e.Field, e.Reason)
}

func (e *InvalidFilterError) Unwrap() error { return ErrInvalidFilter }
