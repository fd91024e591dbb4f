package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/worklens-org/worklens/internal/printer"
	"github.com/worklens-org/worklens/landscape"
)

var (
	quadrantShow  string
	quadrantLimit int
)

var quadrantsCmd = &cobra.Command{
	Use:   "quadrants",
	Short: "Show the quadrant census, or the tasks inside one quadrant",
	Long: `Without flags, counts the tasks in each quadrant. With --show, lists
the tasks of that quadrant, most ready first.`,
	RunE: runQuadrants,
}

func init() {
	f := quadrantsCmd.Flags()
	f.StringVar(&quadrantShow, "show", "", "List the tasks of this quadrant, by key or name")
	f.IntVar(&quadrantLimit, "limit", 20, "Maximum tasks to list with --show (0 = all)")
	rootCmd.AddCommand(quadrantsCmd)
}

func runQuadrants(cmd *cobra.Command, args []string) error {
	view, err := buildView(cmd.Context())
	if err != nil {
		return err
	}

	if quadrantShow == "" {
		printCensus(landscape.Summarize(view))
		return nil
	}

	q, err := landscape.ParseQuadrant(quadrantShow)
	if err != nil {
		return printer.Error("Unknown quadrant", err.Error(), []string{
			"Known quadrants: " + strings.Join(quadrantKeys(), ", "),
		})
	}

	result, err := view.Query(landscape.Query{
		Filter: landscape.Filter{Quadrants: []landscape.Quadrant{q}},
		Sort:   landscape.Sort{Key: "readiness_score", Descending: true},
		Page:   landscape.Page{Limit: quadrantLimit},
	})
	if err != nil {
		return describeError(err)
	}

	printer.Printf("%s: %d of %d tasks\n\n", printer.Quadrant(q), result.Len(), view.Len())
	printer.RenderTable(cmd.OutOrStdout(), landscape.BuildTable(result))
	return nil
}
