package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/worklens-org/worklens/internal/printer"
	"github.com/worklens-org/worklens/landscape"
	"github.com/worklens-org/worklens/schema"
)

var (
	taskDomains     []string
	taskOccupations []string
	taskQuadrants   []string
	desireMin       float64
	desireMax       float64
	capabilityMin   float64
	capabilityMax   float64
	readyOnly       bool
	sortKey         string
	sortDesc        bool
	pageLimit       int
	pageOffset      int
	taskFormat      string
	taskOut         string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks with filters, sorting, and paging",
	Long: `List the derived task table. Filters combine with AND across
dimensions and OR within one; rating ranges are inclusive and never match
tasks missing that rating. Sentinel rows sort last regardless of direction.`,
	RunE: runTasks,
}

func init() {
	f := tasksCmd.Flags()
	f.StringSliceVar(&taskDomains, "domain", nil, "Keep tasks in these domains (repeatable)")
	f.StringSliceVar(&taskOccupations, "occupation", nil, "Keep tasks in these occupations (repeatable)")
	f.StringSliceVar(&taskQuadrants, "quadrant", nil, "Keep tasks in these quadrants, by key or name (repeatable)")
	f.Float64Var(&desireMin, "desire-min", 0, "Keep tasks with desire mean at or above this")
	f.Float64Var(&desireMax, "desire-max", 0, "Keep tasks with desire mean at or below this")
	f.Float64Var(&capabilityMin, "capability-min", 0, "Keep tasks with capability mean at or above this")
	f.Float64Var(&capabilityMax, "capability-max", 0, "Keep tasks with capability mean at or below this")
	f.BoolVar(&readyOnly, "ready", false, "Keep only ready tasks (--ready=false for the rest)")
	f.StringVar(&sortKey, "sort", "", fmt.Sprintf("Sort column, one of: %s", strings.Join(landscape.SortKeys(), ", ")))
	f.BoolVar(&sortDesc, "desc", false, "Sort descending")
	f.IntVar(&pageLimit, "limit", 0, "Maximum rows to show (0 = all)")
	f.IntVar(&pageOffset, "offset", 0, "Rows to skip")
	f.StringVar(&taskFormat, "format", "table", "Output format: table, json, or csv")
	f.StringVar(&taskOut, "out", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	view, err := buildView(cmd.Context())
	if err != nil {
		return err
	}

	query, err := tasksQuery(cmd.Flags())
	if err != nil {
		return err
	}
	result, err := view.Query(query)
	if err != nil {
		return describeError(err)
	}

	return writeView(result, taskFormat, taskOut)
}

// tasksQuery assembles the query object from whatever flags were actually set.
func tasksQuery(flags *pflag.FlagSet) (landscape.Query, error) {
	filter := landscape.Filter{
		Domains:     taskDomains,
		Occupations: taskOccupations,
	}

	for _, raw := range taskQuadrants {
		q, err := landscape.ParseQuadrant(raw)
		if err != nil {
			return landscape.Query{}, printer.Error("Invalid filter", err.Error(), []string{
				fmt.Sprintf("Known quadrants: %s", strings.Join(quadrantKeys(), ", ")),
			})
		}
		filter.Quadrants = append(filter.Quadrants, q)
	}

	scale := cfg.Params().Scale
	filter.Desire = rangeFromFlags(flags, "desire-min", "desire-max", desireMin, desireMax, scale)
	filter.Capability = rangeFromFlags(flags, "capability-min", "capability-max", capabilityMin, capabilityMax, scale)
	if flags.Changed("ready") {
		filter.Ready = &readyOnly
	}

	return landscape.Query{
		Filter: filter,
		Sort:   landscape.Sort{Key: sortKey, Descending: sortDesc},
		Page:   landscape.Page{Offset: pageOffset, Limit: pageLimit},
	}, nil
}

// rangeFromFlags builds an inclusive range when either bound was given,
// defaulting the other bound to the scale edge.
func rangeFromFlags(flags *pflag.FlagSet, loName, hiName string, lo, hi float64, scale schema.Scale) *landscape.Range {
	if !flags.Changed(loName) && !flags.Changed(hiName) {
		return nil
	}
	r := landscape.Range{Lo: scale.Min, Hi: scale.Max}
	if flags.Changed(loName) {
		r.Lo = lo
	}
	if flags.Changed(hiName) {
		r.Hi = hi
	}
	return &r
}

func quadrantKeys() []string {
	keys := make([]string, 0, len(landscape.AllQuadrants()))
	for _, q := range landscape.AllQuadrants() {
		keys = append(keys, string(q))
	}
	return keys
}

// writeView renders a view in the requested format, to stdout or a file.
func writeView(v landscape.View, format, outPath string) error {
	out, closeOut, err := openOut(outPath)
	if err != nil {
		return err
	}
	defer closeOut()

	switch format {
	case "table":
		printer.RenderTable(out, landscape.BuildTable(v))
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v.Tasks()); err != nil {
			return printer.Error("Export failed", err.Error(), nil)
		}
	case "csv":
		if err := landscape.WriteCSV(out, v); err != nil {
			return printer.Error("Export failed", err.Error(), nil)
		}
	default:
		return printer.Error("Unknown format",
			fmt.Sprintf("%q is not a supported output format", format),
			[]string{"Use table, json, or csv"})
	}

	if outPath != "" {
		printer.Success("wrote %d tasks to %s\n", v.Len(), outPath)
	}
	return nil
}

// openOut resolves the output writer; an empty path means stdout.
func openOut(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, printer.Error("Cannot write output file", err.Error(), nil)
	}
	return f, func() { _ = f.Close() }, nil
}
