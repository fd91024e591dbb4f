package landscape

import (
	"fmt"
	"math"
)

// ============================================================================
// CHART BUILDER — Scatter and histogram configs for the viability landscape
// ============================================================================
// The scatter is the landscape itself: capability across, desire up, one
// series per domain. The histogram shows how any one derived measure
// distributes. Sentinel rows have no position on either, so they are left
// out; the table is where incomplete tasks show up.
// ============================================================================

var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildScatter plots desire against capability, one series per domain in
// first-appearance order.
func BuildScatter(v View) ChartConfig {
	seriesIndex := make(map[string]int)
	var series []ChartSeries

	for i := 0; i < v.Len(); i++ {
		t := v.Task(i)
		if !t.Complete() {
			continue
		}
		si, ok := seriesIndex[t.Domain]
		if !ok {
			si = len(series)
			seriesIndex[t.Domain] = si
			series = append(series, ChartSeries{
				Name:  t.Domain,
				Color: defaultColors[si%len(defaultColors)],
			})
		}
		series[si].Points = append(series[si].Points, ChartPoint{
			X:     t.CapabilityMean.Value(),
			Y:     t.DesireMean.Value(),
			Label: t.TaskID,
		})
	}

	return ChartConfig{
		Type:   "scatter",
		Title:  "Desire vs. Capability",
		XLabel: "Expert capability (mean)",
		YLabel: "Worker desire (mean)",
		Series: series,
	}
}

// BuildHistogram bins one score column of the view. Rating-kind measures bin
// across the derivation scale; unbounded ones bin across the observed range.
func BuildHistogram(v View, key string, bins int) (ChartConfig, error) {
	if kind, ok := sortables[key]; !ok || kind != "score" {
		return ChartConfig{}, &InvalidFilterError{Field: "measure", Reason: fmt.Sprintf("unknown measure %q", key)}
	}
	if bins < 1 {
		return ChartConfig{}, &InvalidFilterError{Field: "bins", Reason: "bin count must be positive"}
	}

	var values []float64
	for i := 0; i < v.Len(); i++ {
		if s := scoreField(v.Task(i), key); s.Valid() {
			values = append(values, s.Value())
		}
	}

	lo, hi := histogramBounds(v, key, values)
	width := (hi - lo) / float64(bins)
	counts := make([]int, bins)
	for _, val := range values {
		b := int((val - lo) / width)
		if b >= bins { // the top edge belongs to the last bin
			b = bins - 1
		}
		if b < 0 {
			b = 0
		}
		counts[b]++
	}

	points := make([]ChartPoint, bins)
	for b := 0; b < bins; b++ {
		start := lo + float64(b)*width
		points[b] = ChartPoint{
			X:     start + width/2,
			Y:     float64(counts[b]),
			Label: fmt.Sprintf("%.1f to %.1f", start, start+width),
		}
	}

	return ChartConfig{
		Type:   "bar",
		Title:  fmt.Sprintf("Distribution of %s", key),
		XLabel: key,
		YLabel: "Tasks",
		Series: []ChartSeries{{Name: key, Color: defaultColors[0], Points: points}},
	}, nil
}

// histogramBounds picks the bin range: the scale for bounded measures, the
// observed extent otherwise.
func histogramBounds(v View, key string, values []float64) (float64, float64) {
	scale := v.ls.params.Scale
	switch key {
	case "desire_mean", "job_security_mean", "enjoyment_mean",
		"capability_mean", "confidence_mean", "readiness_score":
		return scale.Min, scale.Max
	}
	// gap and std dev are not scale-bounded; use the observed extent
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, val := range values {
		lo = math.Min(lo, val)
		hi = math.Max(hi, val)
	}
	if lo > hi { // no values at all
		return 0, 1
	}
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	return lo, hi
}
