package landscape

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklens-org/worklens/dataset"
	"github.com/worklens-org/worklens/schema"
)

// scoreCmp compares Scores treating sentinels as equal and values approximately.
var scoreCmp = cmp.Comparer(func(a, b Score) bool {
	if !a.Valid() || !b.Valid() {
		return a.Valid() == b.Valid()
	}
	return math.Abs(a.Value()-b.Value()) < 1e-9
})

// fixture17 is the two-task bundle on a 1-7 scale: T1 fully rated, T2 bare.
func fixture17() *dataset.Tables {
	return dataset.NewTables(dataset.SourceLocal,
		[]dataset.TaskRecord{
			{TaskID: "T1", Task: "Reconcile monthly ledgers", Occupation: "Accountants and Auditors", SOCCode: "13-2011.00", Domain: "Business and Financial Operations", Category: "Analysis"},
			{TaskID: "T2", Task: "Interview new clients", Occupation: "Lawyers", SOCCode: "23-1011.00", Domain: "Legal", Category: "Client Interaction"},
		},
		[]dataset.DesireRecord{
			{TaskID: "T1", WorkerID: "W1", Desire: 4, JobSecurity: 3, Enjoyment: 2},
			{TaskID: "T1", WorkerID: "W2", Desire: 6, JobSecurity: 5, Enjoyment: 6},
		},
		[]dataset.CapabilityRecord{
			{TaskID: "T1", ExpertID: "E1", Capability: 5, Confidence: 6},
		},
	)
}

func params17() Params {
	return Params{Scale: schema.Scale{Min: 1, Max: 7}, Thresholds: Thresholds{Desire: 4, Capability: 4}}
}

// fixture15 is the six-task bundle on the default scale, one task per
// quadrant plus both sentinel directions.
func fixture15() *dataset.Tables {
	nan := math.NaN()
	return dataset.NewTables(dataset.SourceLocal,
		[]dataset.TaskRecord{
			{TaskID: "T1", Task: "Reconcile billing statements", Occupation: "Accountants and Auditors", SOCCode: "13-2011.00", Domain: "Finance", Category: "Quality Assurance"},
			{TaskID: "T2", Task: "Review patient intake forms", Occupation: "Registered Nurses", SOCCode: "29-1141.00", Domain: "Healthcare", Category: "Documentation"},
			{TaskID: "T3", Task: "Draft contract clauses", Occupation: "Lawyers", SOCCode: "23-1011.00", Domain: "Legal", Category: "Analysis"},
			{TaskID: "T4", Task: "Audit expense reports", Occupation: "Accountants and Auditors", SOCCode: "13-2011.00", Domain: "Finance", Category: "Quality Assurance"},
			{TaskID: "T5", Task: "Schedule patient follow-ups", Occupation: "Registered Nurses", SOCCode: "29-1141.00", Domain: "Healthcare", Category: "Coordination"},
			{TaskID: "T6", Task: "Summarize deposition transcripts", Occupation: "Lawyers", SOCCode: "23-1011.00", Domain: "Legal", Category: "Documentation"},
		},
		[]dataset.DesireRecord{
			{TaskID: "T1", WorkerID: "W1", Desire: 4, JobSecurity: 3, Enjoyment: 2},
			{TaskID: "T1", WorkerID: "W2", Desire: 5, JobSecurity: 3, Enjoyment: 2},
			{TaskID: "T1", WorkerID: "W3", Desire: 3, JobSecurity: 3, Enjoyment: 2},
			{TaskID: "T2", WorkerID: "W4", Desire: 2, JobSecurity: nan, Enjoyment: 4},
			{TaskID: "T2", WorkerID: "W5", Desire: 2, JobSecurity: 4, Enjoyment: nan},
			{TaskID: "T3", WorkerID: "W6", Desire: 5, JobSecurity: 1, Enjoyment: 1},
			{TaskID: "T3", WorkerID: "W7", Desire: 4, JobSecurity: 2, Enjoyment: 3},
			{TaskID: "T4", WorkerID: "W8", Desire: 1, JobSecurity: 5, Enjoyment: 5},
			{TaskID: "T4", WorkerID: "W9", Desire: 2, JobSecurity: 5, Enjoyment: 4},
			{TaskID: "T6", WorkerID: "W10", Desire: 3, JobSecurity: 3, Enjoyment: 3},
		},
		[]dataset.CapabilityRecord{
			{TaskID: "T1", ExpertID: "E1", Capability: 4, Confidence: 4},
			{TaskID: "T1", ExpertID: "E2", Capability: 4, Confidence: 2},
			{TaskID: "T2", ExpertID: "E3", Capability: 5, Confidence: 5},
			{TaskID: "T3", ExpertID: "E4", Capability: 2, Confidence: nan},
			{TaskID: "T4", ExpertID: "E5", Capability: 1, Confidence: 3},
			{TaskID: "T4", ExpertID: "E6", Capability: 2, Confidence: 3},
			{TaskID: "T5", ExpertID: "E7", Capability: 3, Confidence: 4},
		},
	)
}

func landscape15(t *testing.T) *Landscape {
	t.Helper()
	ls, err := Derive(fixture15(), DefaultParams())
	require.NoError(t, err)
	return ls
}

func TestDeriveJoinsAndAggregates(t *testing.T) {
	ls, err := Derive(fixture17(), params17())
	require.NoError(t, err)
	require.Equal(t, 2, ls.Len())

	got := ls.All().Task(0)
	want := AnnotatedTask{
		TaskID:          "T1",
		Task:            "Reconcile monthly ledgers",
		Occupation:      "Accountants and Auditors",
		SOCCode:         "13-2011.00",
		Domain:          "Business and Financial Operations",
		Category:        "Analysis",
		WorkerCount:     2,
		DesireMean:      Score(5),
		DesireStdDev:    Score(math.Sqrt2),
		JobSecurityMean: Score(4),
		EnjoymentMean:   Score(4),
		ExpertCount:     1,
		CapabilityMean:  Score(5),
		ConfidenceMean:  Score(6),
		AlignmentGap:    Score(0),
		ReadinessScore:  Score(5),
		Ready:           true,
		Quadrant:        QuadrantAutomationReady,
	}
	if diff := cmp.Diff(want, got, scoreCmp); diff != "" {
		t.Fatalf("annotated task mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveSentinelsForUnratedTask(t *testing.T) {
	ls, err := Derive(fixture17(), params17())
	require.NoError(t, err)

	got := ls.All().Task(1)
	assert.Equal(t, "T2", got.TaskID)
	assert.Zero(t, got.WorkerCount)
	assert.Zero(t, got.ExpertCount)
	assert.False(t, got.DesireMean.Valid(), "no records must mean sentinel, not zero")
	assert.False(t, got.CapabilityMean.Valid())
	assert.False(t, got.AlignmentGap.Valid())
	assert.False(t, got.ReadinessScore.Valid())
	assert.False(t, got.Ready)
	assert.Equal(t, QuadrantInsufficientData, got.Quadrant)
}

func TestDeriveDuplicateTaskKey(t *testing.T) {
	tables := fixture17()
	dup := append([]dataset.TaskRecord{}, tables.Tasks...)
	dup = append(dup, tables.Tasks[0], tables.Tasks[1])
	tables = dataset.NewTables(tables.Source, dup, tables.Desires, tables.Capabilities)

	_, err := Derive(tables, params17())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateTaskKey))

	var dupErr *DuplicateKeyError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, []string{"T1", "T2"}, dupErr.Keys, "every duplicate key, sorted")
}

func TestDeriveGapSign(t *testing.T) {
	ls := landscape15(t)
	byID := make(map[string]AnnotatedTask)
	for _, task := range ls.All().Tasks() {
		byID[task.TaskID] = task
	}

	// Positive gap: workers want more automation than experts rate feasible.
	t3 := byID["T3"]
	assert.InDelta(t, 4.5, t3.DesireMean.Value(), 1e-9)
	assert.InDelta(t, 2.0, t3.CapabilityMean.Value(), 1e-9)
	assert.InDelta(t, 2.5, t3.AlignmentGap.Value(), 1e-9)

	// Negative gap: capability outruns desire.
	t2 := byID["T2"]
	assert.InDelta(t, -3.0, t2.AlignmentGap.Value(), 1e-9)
}

func TestDeriveQuadrantPerTask(t *testing.T) {
	ls := landscape15(t)
	want := map[string]Quadrant{
		"T1": QuadrantAutomationReady,
		"T2": QuadrantCapableNotWanted,
		"T3": QuadrantWantedNotReady,
		"T4": QuadrantLowPriority,
		"T5": QuadrantInsufficientData, // capability only
		"T6": QuadrantInsufficientData, // desire only
	}
	for _, task := range ls.All().Tasks() {
		assert.Equal(t, want[task.TaskID], task.Quadrant, "task %s", task.TaskID)
	}
}

func TestDeriveSecondaryAggregates(t *testing.T) {
	ls := landscape15(t)
	byID := make(map[string]AnnotatedTask)
	for _, task := range ls.All().Tasks() {
		byID[task.TaskID] = task
	}

	t.Run("optional ratings average only answered rows", func(t *testing.T) {
		t2 := byID["T2"]
		assert.InDelta(t, 4.0, t2.JobSecurityMean.Value(), 1e-9, "one of two rows answered")
		assert.InDelta(t, 4.0, t2.EnjoymentMean.Value(), 1e-9)
	})

	t.Run("confidence skips missing answers", func(t *testing.T) {
		t3 := byID["T3"]
		assert.False(t, t3.ConfidenceMean.Valid(), "only expert gave no confidence")
		t1 := byID["T1"]
		assert.InDelta(t, 3.0, t1.ConfidenceMean.Value(), 1e-9)
	})

	t.Run("std dev needs two rows", func(t *testing.T) {
		assert.False(t, byID["T6"].DesireStdDev.Valid())
		assert.InDelta(t, 1.0, byID["T1"].DesireStdDev.Value(), 1e-9, "sample std of {4,5,3}")
	})

	t.Run("readiness is the weaker side", func(t *testing.T) {
		assert.InDelta(t, 2.0, byID["T3"].ReadinessScore.Value(), 1e-9, "min(4.5, 2.0)")
		assert.InDelta(t, 2.0, byID["T2"].ReadinessScore.Value(), 1e-9, "min(2.0, 5.0)")
	})
}

func TestDeriveKeepsTaskTableOrder(t *testing.T) {
	ls := landscape15(t)
	var ids []string
	for _, task := range ls.All().Tasks() {
		ids = append(ids, task.TaskID)
	}
	assert.Equal(t, []string{"T1", "T2", "T3", "T4", "T5", "T6"}, ids)
}

func TestDeriveDropsRatingsForUnknownTasks(t *testing.T) {
	tables := fixture17()
	desires := append([]dataset.DesireRecord{}, tables.Desires...)
	desires = append(desires, dataset.DesireRecord{TaskID: "T999", WorkerID: "W9", Desire: 7, JobSecurity: 7, Enjoyment: 7})
	tables = dataset.NewTables(tables.Source, tables.Tasks, desires, tables.Capabilities)

	ls, err := Derive(tables, params17())
	require.NoError(t, err)
	assert.Equal(t, 2, ls.Len())
	assert.InDelta(t, 5.0, ls.All().Task(0).DesireMean.Value(), 1e-9, "stray rows change nothing")
}

func TestDeriveThresholdBoundary(t *testing.T) {
	tables := dataset.NewTables(dataset.SourceLocal,
		[]dataset.TaskRecord{{TaskID: "T1", Task: "Compile inventory records", Occupation: "Accountants and Auditors", Domain: "Finance"}},
		[]dataset.DesireRecord{{TaskID: "T1", WorkerID: "W1", Desire: 3, JobSecurity: 3, Enjoyment: 3}},
		[]dataset.CapabilityRecord{{TaskID: "T1", ExpertID: "E1", Capability: 3, Confidence: 3}},
	)

	ls, err := Derive(tables, DefaultParams()) // thresholds sit at 3.0
	require.NoError(t, err)

	got := ls.All().Task(0)
	assert.True(t, got.Ready, "exactly at threshold satisfies the comparison")
	assert.Equal(t, QuadrantAutomationReady, got.Quadrant)
}

func TestDeriveRejectsBadParams(t *testing.T) {
	bad := Params{Scale: schema.Scale{Min: 1, Max: 5}, Thresholds: Thresholds{Desire: 9, Capability: 3}}
	_, err := Derive(fixture15(), bad)
	assert.Error(t, err)

	inverted := Params{Scale: schema.Scale{Min: 5, Max: 1}, Thresholds: Thresholds{Desire: 3, Capability: 3}}
	_, err = Derive(fixture15(), inverted)
	assert.Error(t, err)
}
