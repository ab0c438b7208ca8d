// Package stats holds the small numeric primitives the feature and scoring
// engines are built on. Missing observations travel as nil pointers, never as
// NaN, so every helper here is explicit about what it does when data is
// absent.
package stats

import "math"

// Ptr returns a pointer to v. Convenience for building optional values.
func Ptr(v float64) *float64 {
	return &v
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopStd returns the population standard deviation of values. A window of
// identical values reports exactly zero so downstream equality checks do not
// trip over float rounding.
func PopStd(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	identical := true
	for _, v := range values[1:] {
		if v != values[0] {
			identical = false
			break
		}
	}
	if identical {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// SampleStd returns the sample standard deviation (n-1 denominator) used for
// the consistency read on long profiles. Fewer than two values report 0.
func SampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

// Slope returns the ordinary-least-squares slope of values against their
// positions 0..n-1. A degenerate denominator counts as 1, so a single
// observation yields slope 0 instead of dividing by zero.
func Slope(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	meanX := float64(n-1) / 2
	meanY := Mean(values)
	var num, den float64
	for i, v := range values {
		dx := float64(i) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}
	if den == 0 {
		den = 1
	}
	return num / den
}

// Rolling applies fn over a trailing window of size window and returns one
// result per input index. The result is nil until the window is fully
// observed (fewer than window games so far) and nil whenever any value inside
// the window is missing.
func Rolling(values []*float64, window int, fn func([]float64) float64) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 {
		return out
	}
	buf := make([]float64, 0, window)
	for i := range values {
		if i+1 < window {
			continue
		}
		buf = buf[:0]
		complete := true
		for _, v := range values[i+1-window : i+1] {
			if v == nil {
				complete = false
				break
			}
			buf = append(buf, *v)
		}
		if !complete {
			continue
		}
		out[i] = Ptr(fn(buf))
	}
	return out
}

// MeanPresent averages the non-nil values and returns nil when none are
// present.
func MeanPresent(values []*float64) *float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	return Ptr(sum / float64(n))
}

// Coalesce returns the first non-nil value, or nil when every candidate is
// nil.
func Coalesce(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
