package landscape

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Render-ready rows and the CSV export
// ============================================================================
// BuildTable produces the display table: formatted numbers, display labels,
// "n/a" for sentinels, plus headline summary entries. WriteCSV is the
// machine form: every derived column, raw keys, empty cells for sentinels.
// ============================================================================

// BuildTable converts a view into a render-ready table.
func BuildTable(v View) TableData {
	columns := []Column{
		{Key: "task_id", Label: "Task ID", Type: "string", Align: "left"},
		{Key: "task", Label: "Task", Type: "string", Align: "left"},
		{Key: "occupation", Label: "Occupation", Type: "string", Align: "left"},
		{Key: "domain", Label: "Domain", Type: "string", Align: "left"},
		{Key: "worker_count", Label: "Workers", Type: "number", Align: "right"},
		{Key: "desire_mean", Label: "Desire", Type: "number", Align: "right"},
		{Key: "capability_mean", Label: "Capability", Type: "number", Align: "right"},
		{Key: "alignment_gap", Label: "Gap", Type: "number", Align: "right"},
		{Key: "readiness_score", Label: "Readiness", Type: "number", Align: "right"},
		{Key: "ready", Label: "Ready", Type: "flag", Align: "left"},
		{Key: "quadrant", Label: "Quadrant", Type: "string", Align: "left"},
	}

	rows := make([][]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		t := v.Task(i)
		rows = append(rows, []string{
			t.TaskID,
			t.Task,
			t.Occupation,
			t.Domain,
			formatInt(t.WorkerCount),
			t.DesireMean.String(),
			t.CapabilityMean.String(),
			t.AlignmentGap.String(),
			t.ReadinessScore.String(),
			boolWord(t.Ready),
			t.Quadrant.DisplayName(),
		})
	}

	stats := Summarize(v)
	return TableData{
		Columns: columns,
		Rows:    rows,
		Summary: map[string]string{
			"tasks":          formatInt(stats.TotalTasks),
			"workers":        formatInt(stats.WorkersSurveyed),
			"expert_ratings": formatInt(stats.ExpertRatings),
			"avg_desire":     stats.AvgDesire.String(),
			"avg_capability": stats.AvgCapability.String(),
			"avg_gap":        stats.AvgGap.String(),
		},
	}
}

// csvHeader is the machine-form column order, matching the derived table's
// canonical shape.
var csvHeader = []string{
	"task_id", "task", "occupation", "soc_code", "domain", "task_category",
	"worker_count", "desire_mean", "desire_stddev", "job_security_mean",
	"enjoyment_mean", "expert_count", "capability_mean", "confidence_mean",
	"alignment_gap", "readiness_score", "ready", "quadrant",
}

// WriteCSV streams the full derived table for the view.
func WriteCSV(w io.Writer, v View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := 0; i < v.Len(); i++ {
		t := v.Task(i)
		record := []string{
			t.TaskID,
			t.Task,
			t.Occupation,
			t.SOCCode,
			t.Domain,
			t.Category,
			strconv.Itoa(t.WorkerCount),
			rawScore(t.DesireMean),
			rawScore(t.DesireStdDev),
			rawScore(t.JobSecurityMean),
			rawScore(t.EnjoymentMean),
			strconv.Itoa(t.ExpertCount),
			rawScore(t.CapabilityMean),
			rawScore(t.ConfidenceMean),
			rawScore(t.AlignmentGap),
			rawScore(t.ReadinessScore),
			strconv.FormatBool(t.Ready),
			string(t.Quadrant),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// rawScore is the machine form: full precision, empty for the sentinel.
func rawScore(s Score) string {
	if !s.Valid() {
		return ""
	}
	return strconv.FormatFloat(s.Value(), 'g', -1, 64)
}

// formatInt renders an integer with thousands separators.
func formatInt(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
