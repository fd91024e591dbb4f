package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/worklens-org/worklens/internal/printer"
	"github.com/worklens-org/worklens/landscape"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the headline numbers for the whole landscape",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	view, err := buildView(cmd.Context())
	if err != nil {
		return err
	}
	stats := landscape.Summarize(view)
	ls := view.Landscape()

	printer.Printf("Source: %s (version %s)\n\n", ls.Source(), ls.Version()[:12])
	printer.Printf("Tasks:             %d (%d complete, %d insufficient)\n",
		stats.TotalTasks, stats.CompleteTasks, stats.IncompleteTasks)
	printer.Printf("Workers surveyed:  %d\n", stats.WorkersSurveyed)
	printer.Printf("Expert ratings:    %d\n", stats.ExpertRatings)
	printer.Printf("Occupations:       %d across %d domains\n\n",
		stats.UniqueOccupations, stats.UniqueDomains)

	printer.Printf("Avg desire:        %s\n", stats.AvgDesire)
	printer.Printf("Avg capability:    %s\n", stats.AvgCapability)
	printer.Printf("Avg gap:           %s\n", stats.AvgGap)
	printer.Printf("Avg readiness:     %s\n\n", stats.AvgReadiness)

	printer.Println("Quadrants:")
	printCensus(stats)
	return nil
}

// printCensus renders the quadrant counts with aligned, colored labels.
// Padding is computed before coloring; ANSI codes would break %-*s widths.
func printCensus(stats landscape.SummaryStats) {
	width := 0
	for _, qc := range stats.QuadrantCensus {
		if n := len(qc.Quadrant.DisplayName()); n > width {
			width = n
		}
	}
	for _, qc := range stats.QuadrantCensus {
		name := qc.Quadrant.DisplayName()
		pad := strings.Repeat(" ", width-len(name))
		printer.Printf("  %s%s  %5d  %s\n",
			printer.Quadrant(qc.Quadrant), pad, qc.Count, share(qc.Count, stats.TotalTasks))
	}
}

func share(n, total int) string {
	if total == 0 {
		return "(0%)"
	}
	return fmt.Sprintf("(%.0f%%)", float64(n)/float64(total)*100)
}
