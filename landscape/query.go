package landscape

import (
	"fmt"
	"sort"
	"strings"
)

// ============================================================================
// QUERIES — Filter, sort, and page in one explicit parameter object
// ============================================================================
// Query is the full request a presentation layer sends: which rows, in what
// order, which window. Everything is validated before any row is touched,
// and the result is always a fresh view, so callers can hold several at once.
// ============================================================================

// Sort orders a view by one column key.
type Sort struct {
	Key        string `json:"key"`
	Descending bool   `json:"descending"`
}

// Page bounds the result window. Limit zero means "to the end".
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Query bundles filter, sort, and page.
type Query struct {
	Filter Filter `json:"filter"`
	Sort   Sort   `json:"sort"`
	Page   Page   `json:"page"`
}

// sortables maps sortable column keys to their comparison kind.
var sortables = map[string]string{
	"task_id":           "string",
	"task":              "string",
	"occupation":        "string",
	"domain":            "string",
	"task_category":     "string",
	"quadrant":          "string",
	"worker_count":      "count",
	"expert_count":      "count",
	"desire_mean":       "score",
	"desire_stddev":     "score",
	"job_security_mean": "score",
	"enjoyment_mean":    "score",
	"capability_mean":   "score",
	"confidence_mean":   "score",
	"alignment_gap":     "score",
	"readiness_score":   "score",
}

// SortKeys lists every sortable column, alphabetically.
func SortKeys() []string {
	keys := make([]string, 0, len(sortables))
	for k := range sortables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate rejects unknown sort keys and negative windows along with
// everything Filter.Validate rejects.
func (q Query) Validate() error {
	if err := q.Filter.Validate(); err != nil {
		return err
	}
	if q.Sort.Key != "" {
		if _, ok := sortables[q.Sort.Key]; !ok {
			return &InvalidFilterError{Field: "sort", Reason: fmt.Sprintf("unknown sort key %q", q.Sort.Key)}
		}
	}
	if q.Page.Offset < 0 {
		return &InvalidFilterError{Field: "page", Reason: "offset must not be negative"}
	}
	if q.Page.Limit < 0 {
		return &InvalidFilterError{Field: "page", Reason: "limit must not be negative"}
	}
	return nil
}

// Query applies the full pipeline: validate, filter, sort, page.
func (v View) Query(q Query) (View, error) {
	if err := q.Validate(); err != nil {
		return View{}, err
	}
	out, err := v.Filter(q.Filter)
	if err != nil {
		return View{}, err
	}
	out, err = out.Sort(q.Sort)
	if err != nil {
		return View{}, err
	}
	return out.Page(q.Page), nil
}

// Sort returns a reordered sibling view. Ordering is stable, and rows whose
// sort key holds the sentinel go last in both directions; "top by desire"
// never leads with unrated tasks.
func (v View) Sort(s Sort) (View, error) {
	if s.Key == "" {
		return v, nil
	}
	kind, ok := sortables[s.Key]
	if !ok {
		return View{}, &InvalidFilterError{Field: "sort", Reason: fmt.Sprintf("unknown sort key %q", s.Key)}
	}

	idx := make([]int, len(v.idx))
	copy(idx, v.idx)

	sort.SliceStable(idx, func(i, j int) bool {
		a, b := v.ls.rows[idx[i]], v.ls.rows[idx[j]]
		switch kind {
		case "score":
			return scoreLess(scoreField(a, s.Key), scoreField(b, s.Key), s.Descending)
		case "count":
			ai, bi := countField(a, s.Key), countField(b, s.Key)
			if s.Descending {
				return ai > bi
			}
			return ai < bi
		default:
			as, bs := strings.ToLower(stringField(a, s.Key)), strings.ToLower(stringField(b, s.Key))
			if s.Descending {
				return as > bs
			}
			return as < bs
		}
	})
	return v.narrowed(idx), nil
}

// Page returns the requested window of the view. Windows past the end are
// empty, never an error.
func (v View) Page(p Page) View {
	if p.Offset <= 0 && p.Limit <= 0 {
		return v
	}
	start := p.Offset
	if start > len(v.idx) {
		start = len(v.idx)
	}
	end := len(v.idx)
	if p.Limit > 0 && start+p.Limit < end {
		end = start + p.Limit
	}
	return v.narrowed(v.idx[start:end])
}

// scoreLess orders valid scores by value and parks sentinels at the end.
func scoreLess(a, b Score, descending bool) bool {
	switch {
	case a.Valid() && !b.Valid():
		return true
	case !a.Valid():
		return false
	case descending:
		return a.Value() > b.Value()
	default:
		return a.Value() < b.Value()
	}
}

func scoreField(t AnnotatedTask, key string) Score {
	switch key {
	case "desire_mean":
		return t.DesireMean
	case "desire_stddev":
		return t.DesireStdDev
	case "job_security_mean":
		return t.JobSecurityMean
	case "enjoyment_mean":
		return t.EnjoymentMean
	case "capability_mean":
		return t.CapabilityMean
	case "confidence_mean":
		return t.ConfidenceMean
	case "alignment_gap":
		return t.AlignmentGap
	case "readiness_score":
		return t.ReadinessScore
	}
	return Unrated()
}

func countField(t AnnotatedTask, key string) int {
	switch key {
	case "worker_count":
		return t.WorkerCount
	case "expert_count":
		return t.ExpertCount
	}
	return 0
}

func stringField(t AnnotatedTask, key string) string {
	switch key {
	case "task_id":
		return t.TaskID
	case "task":
		return t.Task
	case "occupation":
		return t.Occupation
	case "domain":
		return t.Domain
	case "task_category":
		return t.Category
	case "quadrant":
		return string(t.Quadrant)
	}
	return ""
}
