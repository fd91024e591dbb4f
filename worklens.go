// Package worklens maps the automation landscape of occupational tasks:
// what workers want automated, measured against what experts say current
// AI can do.
//
// Usage:
//
//	import (
//	    "github.com/worklens-org/worklens/dataset"
//	    "github.com/worklens-org/worklens/landscape"
//	    "github.com/worklens-org/worklens/schema"
//	)
//
//	tables, err := dataset.NewLoader(schema.Default()).Load(ctx)
//	ls, err := landscape.Derive(tables, landscape.DefaultParams())
//	view, err := ls.All().Query(landscape.Query{
//	    Filter: landscape.Filter{Domains: []string{"Finance"}},
//	    Sort:   landscape.Sort{Key: "alignment_gap", Descending: true},
//	})
//
// The dataset package loads the three source tables (task statements,
// worker desire ratings, expert capability ratings) from the upstream
// dataset, a local directory, or a seeded synthetic generator when no
// source is reachable. The landscape package joins them on task key,
// derives per-task metrics, places each task in a quadrant, and serves
// filtered, sorted, paginated views plus render-ready tables and charts.
// All computation is local; the only network call is the initial fetch.
package worklens
