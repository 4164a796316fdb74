// Package scale chooses human-friendly tick values for a chart axis.
package scale

import (
	"math"
	"slices"
)

// TargetTicks is the number of grid lines the interval policy aims for.
const TargetTicks = 10

// niceMultipliers are the mantissas an interval is snapped to.
var niceMultipliers = []float64{1, 2, 5}

// Interval returns the spacing between ticks for values. The axis starts at
// zero, so the range is measured from zero to the largest value. Degenerate
// input yields 1.
func Interval(values []float64) float64 {
	_, hi, ok := bounds(values)
	if !ok {
		return 1
	}
	rng := hi
	if !(rng > 0) || math.IsInf(rng, 0) {
		return 1
	}
	magnitude := math.Pow(10, math.Floor(math.Log10(rng)))
	factor := rng / magnitude
	nice := 10.0
	for _, m := range niceMultipliers {
		if m >= factor {
			nice = m
			break
		}
	}
	interval := nice * magnitude

	numTicks := int(math.Round(rng / interval))
	switch {
	case numTicks < 3:
		interval /= 5
	case numTicks < TargetTicks/2:
		interval /= 2
	case numTicks > TargetTicks*2:
		interval *= 2
	}
	return interval
}

// Ticks returns the ascending tick values for an axis covering values. Ticks
// are whole multiples of the rounded-up interval, stopping once they pass the
// largest value by more than one interval. The result is never empty and its
// last element is at least the largest value.
func Ticks(values []float64) []float64 {
	_, hi, ok := bounds(values)
	if !ok || hi <= 0 {
		return []float64{1}
	}
	interval := Interval(values)
	step := math.Ceil(interval)
	if !(step > 0) {
		step = 1
	}
	if math.IsInf(step, 0) {
		return []float64{hi}
	}
	var ticks []float64
	for i := 1; i <= TargetTicks*2; i++ {
		t := step * float64(i)
		if t > hi+interval {
			break
		}
		ticks = append(ticks, t)
	}
	// Rounding the interval up can leave the largest value above every tick.
	if len(ticks) == 0 || ticks[len(ticks)-1] < hi {
		ticks = append(ticks, step*float64(len(ticks)+1))
	}
	return ticks
}

// bounds reports the extrema of the finite values.
func bounds(values []float64) (lo, hi float64, ok bool) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
	}
	if len(finite) == 0 {
		return 0, 0, false
	}
	slices.Sort(finite)
	return finite[0], finite[len(finite)-1], true
}
