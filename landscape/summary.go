package landscape

import "strings"

// ============================================================================
// SUMMARY — Headline numbers for a view
// ============================================================================

// QuadrantCount is one quadrant's population within a view.
type QuadrantCount struct {
	Quadrant Quadrant `json:"quadrant"`
	Count    int      `json:"count"`
}

// SummaryStats are the headline numbers a dashboard shows above the table.
// Averages are unweighted means of task-level means, computed over the rows
// whose side is backed by records.
type SummaryStats struct {
	TotalTasks      int `json:"totalTasks"`
	CompleteTasks   int `json:"completeTasks"`
	IncompleteTasks int `json:"incompleteTasks"`
	WorkersSurveyed int `json:"workersSurveyed"`
	ExpertRatings   int `json:"expertRatings"`

	AvgDesire     Score `json:"avgDesire"`
	AvgCapability Score `json:"avgCapability"`
	AvgGap        Score `json:"avgGap"`
	AvgReadiness  Score `json:"avgReadiness"`

	UniqueOccupations int `json:"uniqueOccupations"`
	UniqueDomains     int `json:"uniqueDomains"`

	QuadrantCensus []QuadrantCount `json:"quadrantCensus"`
}

// Summarize computes the stats for exactly the rows in the view.
func Summarize(v View) SummaryStats {
	stats := SummaryStats{TotalTasks: v.Len()}

	var desireSum, capSum, gapSum, readySum float64
	var desireN, capN, completeN int
	occupations := make(map[string]bool)
	domains := make(map[string]bool)
	census := make(map[Quadrant]int)

	for i := 0; i < v.Len(); i++ {
		row := v.Task(i)

		stats.WorkersSurveyed += row.WorkerCount
		stats.ExpertRatings += row.ExpertCount
		occupations[strings.ToLower(row.Occupation)] = true
		domains[strings.ToLower(row.Domain)] = true
		census[row.Quadrant]++

		if row.DesireMean.Valid() {
			desireN++
			desireSum += row.DesireMean.Value()
		}
		if row.CapabilityMean.Valid() {
			capN++
			capSum += row.CapabilityMean.Value()
		}
		if row.Complete() {
			completeN++
			gapSum += row.AlignmentGap.Value()
			readySum += row.ReadinessScore.Value()
		}
	}

	stats.CompleteTasks = completeN
	stats.IncompleteTasks = stats.TotalTasks - completeN
	stats.AvgDesire = meanOf(desireSum, desireN)
	stats.AvgCapability = meanOf(capSum, capN)
	stats.AvgGap = meanOf(gapSum, completeN)
	stats.AvgReadiness = meanOf(readySum, completeN)
	stats.UniqueOccupations = len(occupations)
	stats.UniqueDomains = len(domains)

	stats.QuadrantCensus = make([]QuadrantCount, 0, len(AllQuadrants()))
	for _, q := range AllQuadrants() {
		stats.QuadrantCensus = append(stats.QuadrantCensus, QuadrantCount{Quadrant: q, Count: census[q]})
	}
	return stats
}
