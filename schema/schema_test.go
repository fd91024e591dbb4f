package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	t.Run("resolves all canonical tables", func(t *testing.T) {
		for _, name := range []string{TableTasks, TableDesires, TableCapabilities, TableAnnotated} {
			tbl, err := reg.Table(name)
			require.NoError(t, err)
			assert.Equal(t, name, tbl.Name)
			assert.NotEmpty(t, tbl.Columns)
		}
	})

	t.Run("unknown table errors", func(t *testing.T) {
		_, err := reg.Table("sentiment_scores")
		assert.Error(t, err)
	})

	t.Run("key column is declared", func(t *testing.T) {
		for _, tbl := range reg.Tables {
			col, ok := tbl.Column(tbl.KeyColumn)
			require.True(t, ok, "table %s key column %s", tbl.Name, tbl.KeyColumn)
			assert.Equal(t, KindKey, col.Kind)
			assert.True(t, col.Required)
		}
	})

	t.Run("source tables carry upstream headers", func(t *testing.T) {
		src := reg.SourceTables()
		require.Len(t, src, 3)
		assert.Equal(t, TableTasks, src[0].Name)
		for _, tbl := range src {
			for _, col := range tbl.Columns {
				assert.NotEmpty(t, col.Header, "table %s column %s", tbl.Name, col.Key)
			}
		}
	})

	t.Run("annotated table covers the derived metrics", func(t *testing.T) {
		tbl, err := reg.Table(TableAnnotated)
		require.NoError(t, err)
		for _, key := range []string{"desire_mean", "capability_mean", "alignment_gap", "ready", "quadrant"} {
			_, ok := tbl.Column(key)
			assert.True(t, ok, "missing derived column %s", key)
		}
	})
}

func TestScale(t *testing.T) {
	t.Run("default is the 1-5 survey scale", func(t *testing.T) {
		s := DefaultScale()
		assert.Equal(t, 1.0, s.Min)
		assert.Equal(t, 5.0, s.Max)
		assert.Equal(t, 3.0, s.Midpoint())
	})

	t.Run("midpoint follows the bounds", func(t *testing.T) {
		assert.Equal(t, 4.0, Scale{Min: 1, Max: 7}.Midpoint())
	})

	t.Run("contains is inclusive", func(t *testing.T) {
		s := Scale{Min: 1, Max: 5}
		assert.True(t, s.Contains(1))
		assert.True(t, s.Contains(5))
		assert.False(t, s.Contains(0.99))
		assert.False(t, s.Contains(5.01))
	})

	t.Run("validate rejects inverted scales", func(t *testing.T) {
		assert.Error(t, Scale{Min: 5, Max: 1}.Validate())
		assert.Error(t, Scale{Min: 3, Max: 3}.Validate())
		assert.NoError(t, Scale{Min: 1, Max: 7}.Validate())
	})
}

func TestRequiredColumns(t *testing.T) {
	reg := Default()
	desires, err := reg.Table(TableDesires)
	require.NoError(t, err)

	// Only the join key and the rating itself are mandatory; provenance
	// columns may be absent from a conforming source.
	assert.ElementsMatch(t, []string{"task_id", "desire_rating"}, desires.RequiredColumns())
}
