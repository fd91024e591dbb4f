package landscape

import (
	"fmt"
	"strings"
)

// Quadrant places a task on the desire/capability plane.
type Quadrant string

const (
	// QuadrantAutomationReady: workers want the automation and experts rate
	// the technology capable. High desire, high capability.
	QuadrantAutomationReady Quadrant = "automation_ready"

	// QuadrantWantedNotReady: workers want the automation but the
	// technology is not there yet. High desire, low capability.
	QuadrantWantedNotReady Quadrant = "wanted_not_ready"

	// QuadrantCapableNotWanted: the technology could do it but workers do
	// not want it automated. Low desire, high capability.
	QuadrantCapableNotWanted Quadrant = "capable_not_wanted"

	// QuadrantLowPriority: neither desired nor feasible. Low desire, low
	// capability.
	QuadrantLowPriority Quadrant = "low_priority"

	// QuadrantInsufficientData: one or both aggregates have no records.
	// Never folded into the other four.
	QuadrantInsufficientData Quadrant = "insufficient_data"
)

// AllQuadrants returns every quadrant in display order.
func AllQuadrants() []Quadrant {
	return []Quadrant{
		QuadrantAutomationReady,
		QuadrantWantedNotReady,
		QuadrantCapableNotWanted,
		QuadrantLowPriority,
		QuadrantInsufficientData,
	}
}

// Validate checks that the quadrant is one of the defined values.
func (q Quadrant) Validate() error {
	switch q {
	case QuadrantAutomationReady, QuadrantWantedNotReady, QuadrantCapableNotWanted,
		QuadrantLowPriority, QuadrantInsufficientData:
		return nil
	}
	return fmt.Errorf("unknown quadrant %q", string(q))
}

// DisplayName returns the human-readable label.
func (q Quadrant) DisplayName() string {
	switch q {
	case QuadrantAutomationReady:
		return "Automation Ready"
	case QuadrantWantedNotReady:
		return "Wanted but Not Ready"
	case QuadrantCapableNotWanted:
		return "Capable but Not Wanted"
	case QuadrantLowPriority:
		return "Low Priority"
	case QuadrantInsufficientData:
		return "Insufficient Data"
	}
	return string(q)
}

// ParseQuadrant resolves a user-supplied label: keys and display names both
// work, case-insensitively, with spaces, hyphens, and underscores folded.
func ParseQuadrant(s string) (Quadrant, error) {
	folded := strings.ToLower(strings.TrimSpace(s))
	folded = strings.ReplaceAll(folded, "-", " ")
	folded = strings.ReplaceAll(folded, "_", " ")
	folded = strings.Join(strings.Fields(folded), " ")

	for _, q := range AllQuadrants() {
		key := strings.ReplaceAll(string(q), "_", " ")
		if folded == key || folded == strings.ToLower(q.DisplayName()) {
			return q, nil
		}
	}
	return "", fmt.Errorf("unknown quadrant %q", s)
}

// Classify places one pair of aggregates. Pure and total: every input lands
// in exactly one quadrant, and a sentinel on either side is insufficient
// data regardless of the other side.
func Classify(desire, capability Score, th Thresholds) Quadrant {
	if !desire.Valid() || !capability.Valid() {
		return QuadrantInsufficientData
	}
	wanted := desire.Value() >= th.Desire
	capable := capability.Value() >= th.Capability
	switch {
	case wanted && capable:
		return QuadrantAutomationReady
	case wanted:
		return QuadrantWantedNotReady
	case capable:
		return QuadrantCapableNotWanted
	default:
		return QuadrantLowPriority
	}
}
