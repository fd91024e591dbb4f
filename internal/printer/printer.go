package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/worklens-org/worklens/landscape"
)

func init() {
	// Force color output even when not connected to a TTY.
	// Users can disable with the NO_COLOR environment variable.
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

var quadrantColors = map[landscape.Quadrant]*color.Color{
	landscape.QuadrantAutomationReady:  green,
	landscape.QuadrantWantedNotReady:   yellow,
	landscape.QuadrantCapableNotWanted: cyan,
	landscape.QuadrantLowPriority:      faint,
	landscape.QuadrantInsufficientData: faint,
}

// Quadrant renders a quadrant's display name in its color.
func Quadrant(q landscape.Quadrant) string {
	if c, ok := quadrantColors[q]; ok {
		return c.Sprint(q.DisplayName())
	}
	return q.DisplayName()
}

// Success prints a success message in green with a checkmark prefix.
func Success(format string, a ...any) {
	green.Printf("✓ %s", fmt.Sprintf(format, a...))
}

// Info prints an informational message in the default color.
func Info(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Warning prints a warning message in yellow.
func Warning(format string, a ...any) {
	yellow.Printf("! %s", fmt.Sprintf(format, a...))
}

// Error prints a formatted error with explanation and suggestions to stderr,
// and returns a bare error carrying only the title for Cobra.
func Error(title string, explanation string, suggestions []string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(os.Stderr, "%s\n", explanation)
	}
	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		for _, suggestion := range suggestions {
			fmt.Fprintf(os.Stderr, "  - %s\n", suggestion)
		}
	}
	return fmt.Errorf("%s", title)
}

// ErrorWithContext is Error with key/value details between the explanation
// and the suggestions.
func ErrorWithContext(title string, explanation string, context map[string]string, suggestions []string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(os.Stderr, "%s\n", explanation)
	}
	if len(context) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		for key, value := range context {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", key, value)
		}
	}
	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		for _, suggestion := range suggestions {
			fmt.Fprintf(os.Stderr, "  - %s\n", suggestion)
		}
	}
	return fmt.Errorf("%s", title)
}

// Println prints a plain message.
func Println(a ...any) {
	fmt.Println(a...)
}

// Printf prints a plain formatted message.
func Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}

// maxCellWidth keeps long task statements from blowing the table apart.
const maxCellWidth = 44

// summaryOrder fixes the footer layout; map iteration order would jitter.
var summaryOrder = []struct{ key, label string }{
	{"tasks", "tasks"},
	{"workers", "workers"},
	{"expert_ratings", "expert ratings"},
	{"avg_desire", "avg desire"},
	{"avg_capability", "avg capability"},
	{"avg_gap", "avg gap"},
}

// RenderTable writes a render-ready table with padded columns and a summary
// footer.
func RenderTable(w io.Writer, table landscape.TableData) {
	rows := make([][]string, len(table.Rows))
	for r, row := range table.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = clip(cell)
		}
		rows[r] = cells
	}

	widths := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		widths[i] = len(col.Label)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	header := make([]string, len(table.Columns))
	rule := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = pad(strings.ToUpper(col.Label), widths[i], col.Align)
		rule[i] = strings.Repeat("-", widths[i])
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(header, "  "), " "))
	fmt.Fprintln(w, strings.Join(rule, "  "))

	for _, row := range rows {
		line := make([]string, len(row))
		for i, cell := range row {
			align := "left"
			if i < len(table.Columns) {
				align = table.Columns[i].Align
			}
			line[i] = pad(cell, widths[i], align)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(line, "  "), " "))
	}

	var parts []string
	for _, s := range summaryOrder {
		val, ok := table.Summary[s.key]
		if !ok {
			continue
		}
		if strings.HasPrefix(s.key, "avg_") {
			parts = append(parts, fmt.Sprintf("%s %s", s.label, val))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", val, s.label))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "\n%s\n", strings.Join(parts, ", "))
	}
}

func pad(s string, width int, align string) string {
	if align == "right" {
		return fmt.Sprintf("%*s", width, s)
	}
	return fmt.Sprintf("%-*s", width, s)
}

func clip(s string) string {
	if len(s) <= maxCellWidth {
		return s
	}
	return s[:maxCellWidth-3] + "..."
}
