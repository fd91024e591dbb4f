package schema

import "fmt"

// ============================================================================
// SCHEMA — Canonical table shapes for the task-automation pipeline
// ============================================================================
// The three source tables are an upstream contract (the WORKBank dataset
// layout); the annotated table is what the derivation engine produces.
// The loader uses the registry to map CSV headers to column keys, the
// engine uses it to validate inputs, and the synthetic generator uses it
// to emit conformant tables.
// ============================================================================

// Table names resolvable through the Registry.
const (
	TableTasks        = "task_metadata"
	TableDesires      = "worker_desires"
	TableCapabilities = "expert_ratings"
	TableAnnotated    = "annotated_tasks"
)

// Kind classifies what a column holds.
type Kind string

const (
	// KindKey joins rows across tables.
	KindKey Kind = "key"
	// KindText is free text (task statements, identifiers).
	KindText Kind = "text"
	// KindCategory is a low-cardinality label used for grouping/filtering.
	KindCategory Kind = "category"
	// KindRating is a numeric rating bounded by the registry's Scale.
	KindRating Kind = "rating"
	// KindScore is a derived numeric, not bounded by the scale (gaps can be negative).
	KindScore Kind = "score"
	// KindCount is a non-negative integer.
	KindCount Kind = "count"
	// KindFlag is a boolean.
	KindFlag Kind = "flag"
)

// Scale bounds every rating column. Ratings outside it are invalid input.
type Scale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultScale is the upstream survey scale (1-5 Likert).
func DefaultScale() Scale { return Scale{Min: 1, Max: 5} }

// Midpoint returns the center of the scale, the default classification threshold.
func (s Scale) Midpoint() float64 { return (s.Min + s.Max) / 2 }

// Contains reports whether v lies inside the scale, inclusive.
func (s Scale) Contains(v float64) bool { return v >= s.Min && v <= s.Max }

// Validate rejects inverted or degenerate scales.
func (s Scale) Validate() error {
	if s.Min >= s.Max {
		return fmt.Errorf("scale min %v must be below max %v", s.Min, s.Max)
	}
	return nil
}

// Column describes one column of a table.
type Column struct {
	Key         string `json:"key"`
	Header      string `json:"header,omitempty"` // upstream CSV header; empty for derived columns
	DisplayName string `json:"displayName"`
	Kind        Kind   `json:"kind"`
	Required    bool   `json:"required"`
}

// Table describes the full column set of one table.
type Table struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	KeyColumn   string   `json:"keyColumn"`
	Columns     []Column `json:"columns"`
}

// Column returns the column with the given key.
func (t Table) Column(key string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnKeys returns all column keys in declaration order.
func (t Table) ColumnKeys() []string {
	keys := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		keys[i] = c.Key
	}
	return keys
}

// RequiredColumns returns the keys a conforming table cannot omit.
func (t Table) RequiredColumns() []string {
	var keys []string
	for _, c := range t.Columns {
		if c.Required {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// Registry resolves table shapes by name and carries the rating scale
// the shapes were declared against.
type Registry struct {
	Version string  `json:"version"`
	Scale   Scale   `json:"scale"`
	Tables  []Table `json:"tables"`
}

// Table resolves a table shape by name.
func (r *Registry) Table(name string) (Table, error) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, nil
		}
	}
	return Table{}, fmt.Errorf("unknown table %q", name)
}

// SourceTables returns the three upstream tables, in load order.
func (r *Registry) SourceTables() []Table {
	out := make([]Table, 0, 3)
	for _, name := range []string{TableTasks, TableDesires, TableCapabilities} {
		if t, err := r.Table(name); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// Default builds the canonical registry. The source headers are the exact
// upstream CSV headers; matching is case-insensitive on a normalized form
// (see MapHeaders).
func Default() *Registry {
	return WithScale(DefaultScale())
}

// WithScale builds the canonical registry against a custom rating scale.
func WithScale(scale Scale) *Registry {
	return &Registry{
		Version: "1.0",
		Scale:   scale,
		Tables: []Table{
			{
				Name:        TableTasks,
				Description: "One row per task: statement, occupation, and grouping labels.",
				KeyColumn:   "task_id",
				Columns: []Column{
					{Key: "task_id", Header: "Task ID", DisplayName: "Task ID", Kind: KindKey, Required: true},
					{Key: "task", Header: "Task", DisplayName: "Task", Kind: KindText, Required: true},
					{Key: "occupation", Header: "Occupation (O*NET-SOC Title)", DisplayName: "Occupation", Kind: KindCategory, Required: true},
					{Key: "soc_code", Header: "O*NET-SOC Code", DisplayName: "O*NET-SOC Code", Kind: KindText},
					{Key: "domain", Header: "Domain", DisplayName: "Domain", Kind: KindCategory, Required: true},
					{Key: "task_category", Header: "Task Category", DisplayName: "Task Category", Kind: KindCategory},
				},
			},
			{
				Name:        TableDesires,
				Description: "One row per worker rating of a task.",
				KeyColumn:   "task_id",
				Columns: []Column{
					{Key: "task_id", Header: "Task ID", DisplayName: "Task ID", Kind: KindKey, Required: true},
					{Key: "task", Header: "Task", DisplayName: "Task", Kind: KindText},
					{Key: "occupation", Header: "Occupation (O*NET-SOC Title)", DisplayName: "Occupation", Kind: KindCategory},
					{Key: "desire_rating", Header: "Automation Desire Rating", DisplayName: "Automation Desire", Kind: KindRating, Required: true},
					{Key: "job_security_rating", Header: "Job Security Rating", DisplayName: "Job Security", Kind: KindRating},
					{Key: "enjoyment_rating", Header: "Enjoyment Rating", DisplayName: "Enjoyment", Kind: KindRating},
					{Key: "worker_id", Header: "Worker ID", DisplayName: "Worker ID", Kind: KindText},
					{Key: "domain", Header: "Domain", DisplayName: "Domain", Kind: KindCategory},
				},
			},
			{
				Name:        TableCapabilities,
				Description: "One row per expert rating of a task's technological capability.",
				KeyColumn:   "task_id",
				Columns: []Column{
					{Key: "task_id", Header: "Task ID", DisplayName: "Task ID", Kind: KindKey, Required: true},
					{Key: "task", Header: "Task", DisplayName: "Task", Kind: KindText},
					{Key: "capability_rating", Header: "Expert Capability Rating", DisplayName: "Expert Capability", Kind: KindRating, Required: true},
					{Key: "expert_id", Header: "Expert ID", DisplayName: "Expert ID", Kind: KindText},
					{Key: "confidence", Header: "Confidence", DisplayName: "Confidence", Kind: KindRating},
				},
			},
			{
				Name:        TableAnnotated,
				Description: "Derived: one row per task with aggregated ratings, gap, readiness, and quadrant.",
				KeyColumn:   "task_id",
				Columns: []Column{
					{Key: "task_id", DisplayName: "Task ID", Kind: KindKey, Required: true},
					{Key: "task", DisplayName: "Task", Kind: KindText, Required: true},
					{Key: "occupation", DisplayName: "Occupation", Kind: KindCategory, Required: true},
					{Key: "soc_code", DisplayName: "O*NET-SOC Code", Kind: KindText},
					{Key: "domain", DisplayName: "Domain", Kind: KindCategory, Required: true},
					{Key: "task_category", DisplayName: "Task Category", Kind: KindCategory},
					{Key: "worker_count", DisplayName: "Workers", Kind: KindCount, Required: true},
					{Key: "desire_mean", DisplayName: "Desire Mean", Kind: KindRating, Required: true},
					{Key: "desire_stddev", DisplayName: "Desire Std Dev", Kind: KindScore},
					{Key: "job_security_mean", DisplayName: "Job Security Mean", Kind: KindRating},
					{Key: "enjoyment_mean", DisplayName: "Enjoyment Mean", Kind: KindRating},
					{Key: "expert_count", DisplayName: "Expert Ratings", Kind: KindCount, Required: true},
					{Key: "capability_mean", DisplayName: "Capability Mean", Kind: KindRating, Required: true},
					{Key: "confidence_mean", DisplayName: "Confidence Mean", Kind: KindRating},
					{Key: "alignment_gap", DisplayName: "Alignment Gap", Kind: KindScore, Required: true},
					{Key: "readiness_score", DisplayName: "Readiness Score", Kind: KindScore},
					{Key: "ready", DisplayName: "Ready", Kind: KindFlag, Required: true},
					{Key: "quadrant", DisplayName: "Quadrant", Kind: KindCategory, Required: true},
				},
			},
		},
	}
}
