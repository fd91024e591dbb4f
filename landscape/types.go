package landscape

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/worklens-org/worklens/schema"
)

// ============================================================================
// TYPES — Derived rows, derivation parameters, render-ready outputs
// ============================================================================
// AnnotatedTask is the unit everything downstream consumes: one task with
// its aggregated ratings, gap, readiness, and quadrant. TableData and
// ChartConfig are presentation-agnostic shapes a consumer renders without
// further computation.
// ============================================================================

// Score is an aggregated rating. NaN is the sentinel for "no records", which
// is never the same thing as a zero rating. It marshals to JSON null.
type Score float64

// Unrated returns the sentinel score.
func Unrated() Score { return Score(math.NaN()) }

// Valid reports whether the score holds an actual value.
func (s Score) Valid() bool { return !math.IsNaN(float64(s)) }

// Value unwraps the score; only meaningful when Valid.
func (s Score) Value() float64 { return float64(s) }

// String renders two decimals, or "n/a" for the sentinel.
func (s Score) String() string {
	if !s.Valid() {
		return "n/a"
	}
	return strconv.FormatFloat(float64(s), 'f', 2, 64)
}

// MarshalJSON encodes the sentinel as null so consumers never see NaN.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(s))
}

// UnmarshalJSON accepts null as the sentinel.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Unrated()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Score(v)
	return nil
}

// AnnotatedTask is one task joined with its aggregated worker and expert
// ratings and the metrics derived from them.
type AnnotatedTask struct {
	TaskID     string `json:"taskId"`
	Task       string `json:"task"`
	Occupation string `json:"occupation"`
	SOCCode    string `json:"socCode,omitempty"`
	Domain     string `json:"domain"`
	Category   string `json:"category,omitempty"`

	WorkerCount     int   `json:"workerCount"`
	DesireMean      Score `json:"desireMean"`
	DesireStdDev    Score `json:"desireStdDev"`
	JobSecurityMean Score `json:"jobSecurityMean"`
	EnjoymentMean   Score `json:"enjoymentMean"`

	ExpertCount    int   `json:"expertCount"`
	CapabilityMean Score `json:"capabilityMean"`
	ConfidenceMean Score `json:"confidenceMean"`

	// AlignmentGap is desire minus capability: positive means workers want
	// more automation than experts think the technology can deliver.
	AlignmentGap   Score    `json:"alignmentGap"`
	ReadinessScore Score    `json:"readinessScore"`
	Ready          bool     `json:"ready"`
	Quadrant       Quadrant `json:"quadrant"`
}

// Complete reports whether both aggregates are backed by records.
func (t AnnotatedTask) Complete() bool {
	return t.DesireMean.Valid() && t.CapabilityMean.Valid()
}

// Thresholds split each rating axis for readiness and quadrant placement.
type Thresholds struct {
	Desire     float64 `json:"desire"`
	Capability float64 `json:"capability"`
}

// DefaultThresholds centers both axes on the scale midpoint.
func DefaultThresholds(scale schema.Scale) Thresholds {
	m := scale.Midpoint()
	return Thresholds{Desire: m, Capability: m}
}

// Params carries everything the derivation depends on besides the data.
type Params struct {
	Scale      schema.Scale `json:"scale"`
	Thresholds Thresholds   `json:"thresholds"`
}

// DefaultParams is the upstream 1-5 scale with midpoint thresholds.
func DefaultParams() Params {
	s := schema.DefaultScale()
	return Params{Scale: s, Thresholds: DefaultThresholds(s)}
}

// Validate rejects parameters the derivation cannot honor.
func (p Params) Validate() error {
	if err := p.Scale.Validate(); err != nil {
		return err
	}
	if !p.Scale.Contains(p.Thresholds.Desire) {
		return fmt.Errorf("desire threshold %v outside scale [%v, %v]", p.Thresholds.Desire, p.Scale.Min, p.Scale.Max)
	}
	if !p.Scale.Contains(p.Thresholds.Capability) {
		return fmt.Errorf("capability threshold %v outside scale [%v, %v]", p.Thresholds.Capability, p.Scale.Min, p.Scale.Max)
	}
	return nil
}

// key is the cache-relevant identity of the parameters.
func (p Params) key() string {
	return fmt.Sprintf("%g|%g|%g|%g", p.Scale.Min, p.Scale.Max, p.Thresholds.Desire, p.Thresholds.Capability)
}

// Column describes one table column for rendering.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "string", "number", "flag"
	Align string `json:"align"` // "left", "right"
}

// TableData is a render-ready table.
type TableData struct {
	Columns []Column          `json:"columns"`
	Rows    [][]string        `json:"rows"`
	Summary map[string]string `json:"summary,omitempty"`
}

// ChartConfig is a render-ready chart description.
type ChartConfig struct {
	Type   string        `json:"type"` // "scatter", "bar"
	Title  string        `json:"title"`
	XLabel string        `json:"xLabel"`
	YLabel string        `json:"yLabel"`
	Series []ChartSeries `json:"series"`
}

// ChartSeries is one named series with a stable color.
type ChartSeries struct {
	Name   string       `json:"name"`
	Color  string       `json:"color"`
	Points []ChartPoint `json:"points"`
}

// ChartPoint is one plotted point.
type ChartPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}
