package landscape

import (
	"fmt"
	"math"
	"sort"

	"github.com/worklens-org/worklens/dataset"
)

// ============================================================================
// DERIVATION — Join the three tables, aggregate, classify
// ============================================================================
// One output row per task-table row, in task-table order. Rating rows group
// by task key; a task with no rows on a side keeps the sentinel there and
// classifies as insufficient data. Rating rows pointing at unknown task keys
// have no metadata to join against and are dropped.
// ============================================================================

// Derive builds the landscape for one loaded bundle under the given
// parameters. A task table with duplicate keys is unusable and fails with
// every duplicate listed.
func Derive(tables *dataset.Tables, params Params) (*Landscape, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid derivation params: %w", err)
	}
	if err := checkDuplicateKeys(tables.Tasks); err != nil {
		return nil, err
	}

	desires := aggregateDesires(tables.Desires)
	capabilities := aggregateCapabilities(tables.Capabilities)

	rows := make([]AnnotatedTask, 0, len(tables.Tasks))
	for _, task := range tables.Tasks {
		row := AnnotatedTask{
			TaskID:          task.TaskID,
			Task:            task.Task,
			Occupation:      task.Occupation,
			SOCCode:         task.SOCCode,
			Domain:          task.Domain,
			Category:        task.Category,
			DesireMean:      Unrated(),
			DesireStdDev:    Unrated(),
			JobSecurityMean: Unrated(),
			EnjoymentMean:   Unrated(),
			CapabilityMean:  Unrated(),
			ConfidenceMean:  Unrated(),
			AlignmentGap:    Unrated(),
			ReadinessScore:  Unrated(),
		}

		if agg, ok := desires[task.TaskID]; ok {
			row.WorkerCount = agg.n
			row.DesireMean = Score(agg.sum / float64(agg.n))
			row.DesireStdDev = agg.stdDev()
			row.JobSecurityMean = meanOf(agg.secSum, agg.secN)
			row.EnjoymentMean = meanOf(agg.enjSum, agg.enjN)
		}
		if agg, ok := capabilities[task.TaskID]; ok {
			row.ExpertCount = agg.n
			row.CapabilityMean = Score(agg.sum / float64(agg.n))
			row.ConfidenceMean = meanOf(agg.confSum, agg.confN)
		}

		if row.Complete() {
			row.AlignmentGap = Score(row.DesireMean.Value() - row.CapabilityMean.Value())
			row.ReadinessScore = Score(math.Min(row.DesireMean.Value(), row.CapabilityMean.Value()))
			row.Ready = row.DesireMean.Value() >= params.Thresholds.Desire &&
				row.CapabilityMean.Value() >= params.Thresholds.Capability
		}
		row.Quadrant = Classify(row.DesireMean, row.CapabilityMean, params.Thresholds)

		rows = append(rows, row)
	}

	return &Landscape{
		rows:    rows,
		params:  params,
		version: tables.Version(),
		source:  tables.Source,
	}, nil
}

func checkDuplicateKeys(tasks []dataset.TaskRecord) error {
	counts := make(map[string]int, len(tasks))
	for _, t := range tasks {
		counts[t.TaskID]++
	}
	var dup []string
	for key, n := range counts {
		if n > 1 {
			dup = append(dup, key)
		}
	}
	if len(dup) == 0 {
		return nil
	}
	sort.Strings(dup)
	return &DuplicateKeyError{Keys: dup}
}

// desireAgg accumulates one task's worker rows. The secondary ratings count
// separately because a row can carry a desire rating but no job-security or
// enjoyment answer.
type desireAgg struct {
	n      int
	sum    float64
	sumSq  float64
	secN   int
	secSum float64
	enjN   int
	enjSum float64
}

// stdDev is the sample standard deviation; undefined below two rows.
func (a *desireAgg) stdDev() Score {
	if a.n < 2 {
		return Unrated()
	}
	variance := (a.sumSq - a.sum*a.sum/float64(a.n)) / float64(a.n-1)
	if variance < 0 {
		variance = 0 // guard against rounding
	}
	return Score(math.Sqrt(variance))
}

func aggregateDesires(rows []dataset.DesireRecord) map[string]*desireAgg {
	out := make(map[string]*desireAgg)
	for _, r := range rows {
		agg, ok := out[r.TaskID]
		if !ok {
			agg = &desireAgg{}
			out[r.TaskID] = agg
		}
		agg.n++
		agg.sum += r.Desire
		agg.sumSq += r.Desire * r.Desire
		if !math.IsNaN(r.JobSecurity) {
			agg.secN++
			agg.secSum += r.JobSecurity
		}
		if !math.IsNaN(r.Enjoyment) {
			agg.enjN++
			agg.enjSum += r.Enjoyment
		}
	}
	return out
}

type capabilityAgg struct {
	n       int
	sum     float64
	confN   int
	confSum float64
}

func aggregateCapabilities(rows []dataset.CapabilityRecord) map[string]*capabilityAgg {
	out := make(map[string]*capabilityAgg)
	for _, r := range rows {
		agg, ok := out[r.TaskID]
		if !ok {
			agg = &capabilityAgg{}
			out[r.TaskID] = agg
		}
		agg.n++
		agg.sum += r.Capability
		if !math.IsNaN(r.Confidence) {
			agg.confN++
			agg.confSum += r.Confidence
		}
	}
	return out
}

func meanOf(sum float64, n int) Score {
	if n == 0 {
		return Unrated()
	}
	return Score(sum / float64(n))
}
