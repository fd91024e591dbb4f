package landscape

import (
	"fmt"
	"strings"
)

// ============================================================================
// FILTERS — Narrow a view along the landscape's dimensions
// ============================================================================
// Dimensions AND together; values within one dimension OR together. Label
// matching is case-insensitive. Rating ranges are inclusive and a sentinel
// never satisfies one: a task with no ratings only survives filters that
// say nothing about ratings.
// ============================================================================

// Range bounds a rating dimension, inclusive on both ends.
type Range struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// contains reports whether a valid score falls inside the range.
func (r Range) contains(s Score) bool {
	return s.Valid() && s.Value() >= r.Lo && s.Value() <= r.Hi
}

// Filter selects rows. The zero value selects everything.
type Filter struct {
	Domains     []string   `json:"domains,omitempty"`
	Occupations []string   `json:"occupations,omitempty"`
	Quadrants   []Quadrant `json:"quadrants,omitempty"`
	Desire      *Range     `json:"desire,omitempty"`
	Capability  *Range     `json:"capability,omitempty"`
	Ready       *bool      `json:"ready,omitempty"`
}

// IsEmpty reports whether the filter constrains anything.
func (f Filter) IsEmpty() bool {
	return len(f.Domains) == 0 && len(f.Occupations) == 0 && len(f.Quadrants) == 0 &&
		f.Desire == nil && f.Capability == nil && f.Ready == nil
}

// Validate rejects filters that cannot be evaluated: inverted ranges and
// unknown quadrant labels. Detection happens here, before any row is read.
func (f Filter) Validate() error {
	if f.Desire != nil && f.Desire.Lo > f.Desire.Hi {
		return &InvalidFilterError{Field: "desire", Reason: rangeReason(*f.Desire)}
	}
	if f.Capability != nil && f.Capability.Lo > f.Capability.Hi {
		return &InvalidFilterError{Field: "capability", Reason: rangeReason(*f.Capability)}
	}
	for _, q := range f.Quadrants {
		if err := q.Validate(); err != nil {
			return &InvalidFilterError{Field: "quadrants", Reason: err.Error()}
		}
	}
	return nil
}

// Filter returns the subset of the view the filter selects, in the view's
// order. An empty filter returns the view unchanged.
func (v View) Filter(f Filter) (View, error) {
	if err := f.Validate(); err != nil {
		return View{}, err
	}
	if f.IsEmpty() {
		return v, nil
	}

	domains := toLowerSet(f.Domains)
	occupations := toLowerSet(f.Occupations)
	quadrants := make(map[Quadrant]bool, len(f.Quadrants))
	for _, q := range f.Quadrants {
		quadrants[q] = true
	}

	idx := make([]int, 0, len(v.idx))
	for _, ix := range v.idx {
		row := v.ls.rows[ix]
		if len(domains) > 0 && !domains[strings.ToLower(row.Domain)] {
			continue
		}
		if len(occupations) > 0 && !occupations[strings.ToLower(row.Occupation)] {
			continue
		}
		if len(quadrants) > 0 && !quadrants[row.Quadrant] {
			continue
		}
		if f.Desire != nil && !f.Desire.contains(row.DesireMean) {
			continue
		}
		if f.Capability != nil && !f.Capability.contains(row.CapabilityMean) {
			continue
		}
		if f.Ready != nil && row.Ready != *f.Ready {
			continue
		}
		idx = append(idx, ix)
	}
	return v.narrowed(idx), nil
}

func rangeReason(r Range) string {
	return fmt.Sprintf("lower bound %g exceeds upper bound %g", r.Lo, r.Hi)
}

// toLowerSet builds a case-insensitive membership set.
func toLowerSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}
