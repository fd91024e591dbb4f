package landscape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	th := Thresholds{Desire: 3, Capability: 3}

	cases := []struct {
		name               string
		desire, capability Score
		want               Quadrant
	}{
		{"high desire, high capability", Score(4), Score(4), QuadrantAutomationReady},
		{"high desire, low capability", Score(4), Score(2), QuadrantWantedNotReady},
		{"low desire, high capability", Score(2), Score(4), QuadrantCapableNotWanted},
		{"low desire, low capability", Score(2), Score(2), QuadrantLowPriority},
		{"both exactly at threshold", Score(3), Score(3), QuadrantAutomationReady},
		{"desire at threshold, capability below", Score(3), Score(2.99), QuadrantWantedNotReady},
		{"desire below, capability at threshold", Score(2.99), Score(3), QuadrantCapableNotWanted},
		{"missing desire", Unrated(), Score(5), QuadrantInsufficientData},
		{"missing capability", Score(5), Unrated(), QuadrantInsufficientData},
		{"missing both", Unrated(), Unrated(), QuadrantInsufficientData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.desire, tc.capability, th))
		})
	}
}

func TestClassifyIsTotalAndExclusive(t *testing.T) {
	th := Thresholds{Desire: 3, Capability: 3}
	grid := []Score{Score(1), Score(2.9), Score(3), Score(3.1), Score(5), Unrated()}

	for _, d := range grid {
		for _, c := range grid {
			q := Classify(d, c, th)
			require.NoError(t, q.Validate(), "classify(%v, %v) produced unknown quadrant", d, c)

			// The quadrant must agree with the region predicates.
			if !d.Valid() || !c.Valid() {
				assert.Equal(t, QuadrantInsufficientData, q)
				continue
			}
			wanted := d.Value() >= th.Desire
			capable := c.Value() >= th.Capability
			switch q {
			case QuadrantAutomationReady:
				assert.True(t, wanted && capable)
			case QuadrantWantedNotReady:
				assert.True(t, wanted && !capable)
			case QuadrantCapableNotWanted:
				assert.True(t, !wanted && capable)
			case QuadrantLowPriority:
				assert.True(t, !wanted && !capable)
			default:
				t.Fatalf("complete inputs must never classify as %s", q)
			}
		}
	}
}

func TestQuadrantValidate(t *testing.T) {
	for _, q := range AllQuadrants() {
		assert.NoError(t, q.Validate())
	}
	assert.Error(t, Quadrant("almost_ready").Validate())
	assert.Error(t, Quadrant("").Validate())
}

func TestParseQuadrant(t *testing.T) {
	cases := map[string]Quadrant{
		"automation_ready":       QuadrantAutomationReady,
		"Automation Ready":       QuadrantAutomationReady,
		"automation-ready":       QuadrantAutomationReady,
		"WANTED_NOT_READY":       QuadrantWantedNotReady,
		"Wanted but Not Ready":   QuadrantWantedNotReady,
		"capable but not wanted": QuadrantCapableNotWanted,
		"low priority":           QuadrantLowPriority,
		"Insufficient Data":      QuadrantInsufficientData,
		" insufficient_data ":    QuadrantInsufficientData,
	}
	for in, want := range cases {
		got, err := ParseQuadrant(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseQuadrant("somewhat ready")
	assert.Error(t, err)
}

func TestQuadrantDisplayNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, q := range AllQuadrants() {
		name := q.DisplayName()
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "display names must be distinct")
		seen[name] = true
	}
}
