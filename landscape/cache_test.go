package landscape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklens-org/worklens/dataset"
)

func TestCacheHitOnSameInputs(t *testing.T) {
	cache := NewCache()
	tables := fixture15()
	params := DefaultParams()

	first, err := cache.Landscape(tables, params)
	require.NoError(t, err)
	second, err := cache.Landscape(tables, params)
	require.NoError(t, err)

	assert.Same(t, first, second, "same version and params share one derivation")
	assert.Equal(t, 1, cache.Len())
}

func TestCacheMissOnThresholdChange(t *testing.T) {
	cache := NewCache()
	tables := fixture15()

	base, err := cache.Landscape(tables, DefaultParams())
	require.NoError(t, err)

	strict := DefaultParams()
	strict.Thresholds = Thresholds{Desire: 4.2, Capability: 4}
	other, err := cache.Landscape(tables, strict)
	require.NoError(t, err)

	assert.NotSame(t, base, other)
	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, QuadrantAutomationReady, base.All().Task(0).Quadrant)
	assert.Equal(t, QuadrantCapableNotWanted, other.All().Task(0).Quadrant,
		"T1's desire mean of 4.0 falls below the raised desire threshold")
}

func TestCacheMissOnDataChange(t *testing.T) {
	cache := NewCache()
	params := DefaultParams()

	a := fixture15()
	_, err := cache.Landscape(a, params)
	require.NoError(t, err)

	// One extra worker row changes the version token, so the entry cannot
	// be reused.
	desires := append([]dataset.DesireRecord{}, a.Desires...)
	desires = append(desires, dataset.DesireRecord{TaskID: "T6", WorkerID: "W99", Desire: 5, JobSecurity: 5, Enjoyment: 5})
	b := dataset.NewTables(a.Source, a.Tasks, desires, a.Capabilities)
	require.NotEqual(t, a.Version(), b.Version())

	_, err = cache.Landscape(b, params)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	cache := NewCache()
	good := fixture15()

	dup := append([]dataset.TaskRecord{}, good.Tasks...)
	dup = append(dup, good.Tasks[0])
	bad := dataset.NewTables(good.Source, dup, good.Desires, good.Capabilities)

	_, err := cache.Landscape(bad, DefaultParams())
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	_, err = cache.Landscape(good, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
}

func TestCachePurge(t *testing.T) {
	cache := NewCache()
	_, err := cache.Landscape(fixture15(), DefaultParams())
	require.NoError(t, err)

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}
