package landscape

import "github.com/worklens-org/worklens/dataset"

// ============================================================================
// VIEWS — Zero-copy windows over the derived table
// ============================================================================
// The Landscape owns the rows and never changes after Derive. A View is an
// index list into those rows: filtering, sorting, and paging build new index
// lists and share the backing array, so a thousand views cost a thousand
// int slices, not a thousand row copies.
// ============================================================================

// Landscape is the immutable derived table plus the provenance it was
// computed from.
type Landscape struct {
	rows    []AnnotatedTask
	params  Params
	version string
	source  dataset.Source
}

// Len is the number of derived rows.
func (l *Landscape) Len() int { return len(l.rows) }

// Params returns the parameters the landscape was derived under.
func (l *Landscape) Params() Params { return l.params }

// Version is the source bundle's content token.
func (l *Landscape) Version() string { return l.version }

// Source reports where the underlying tables came from.
func (l *Landscape) Source() dataset.Source { return l.source }

// All returns the identity view: every row, task-table order.
func (l *Landscape) All() View {
	idx := make([]int, len(l.rows))
	for i := range idx {
		idx[i] = i
	}
	return View{ls: l, idx: idx}
}

// View is an ordered selection of landscape rows. Views are values; passing
// one around never copies rows.
type View struct {
	ls  *Landscape
	idx []int
}

// Len is the number of rows in the view.
func (v View) Len() int { return len(v.idx) }

// Task returns the i-th row of the view, by value.
func (v View) Task(i int) AnnotatedTask { return v.ls.rows[v.idx[i]] }

// Tasks materializes the view into a fresh slice, for JSON output and the
// like. The landscape's own rows stay untouched.
func (v View) Tasks() []AnnotatedTask {
	out := make([]AnnotatedTask, len(v.idx))
	for i, ix := range v.idx {
		out[i] = v.ls.rows[ix]
	}
	return out
}

// Landscape returns the backing table.
func (v View) Landscape() *Landscape { return v.ls }

// narrowed builds a sibling view over the same landscape.
func (v View) narrowed(idx []int) View { return View{ls: v.ls, idx: idx} }
