package stats

import (
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestMean(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"spread", []float64{10, 20, 30}, 20},
		{"negative", []float64{-4, 4}, 0},
	}
	for _, tc := range cases {
		if got := Mean(tc.values); !almostEqual(got, tc.want) {
			t.Errorf("%s: Mean = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPopStdIdenticalValuesIsExactlyZero(t *testing.T) {
	got := PopStd([]float64{20.1, 20.1, 20.1, 20.1})
	if got != 0 {
		t.Fatalf("PopStd of identical values = %v, want exactly 0", got)
	}
}

func TestPopStd(t *testing.T) {
	// Population std of {2,4,4,4,5,5,7,9} is exactly 2.
	got := PopStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !almostEqual(got, 2) {
		t.Fatalf("PopStd = %v, want 2", got)
	}
}

func TestSlope(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 0},
		{"flat", []float64{3, 3, 3, 3}, 0},
		{"unit ramp", []float64{1, 2, 3, 4, 5}, 1},
		{"descending", []float64{10, 8, 6}, -2},
	}
	for _, tc := range cases {
		if got := Slope(tc.values); !almostEqual(got, tc.want) {
			t.Errorf("%s: Slope = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRollingWindowBoundary(t *testing.T) {
	series := []*float64{Ptr(1), Ptr(2), Ptr(3), Ptr(4), Ptr(5)}
	out := Rolling(series, 3, Mean)
	if len(out) != len(series) {
		t.Fatalf("Rolling length = %d, want %d", len(out), len(series))
	}
	for i := 0; i < 2; i++ {
		if out[i] != nil {
			t.Errorf("index %d: want nil before window fills, got %v", i, *out[i])
		}
	}
	if out[2] == nil || !almostEqual(*out[2], 2) {
		t.Errorf("index 2: want 2, got %v", out[2])
	}
	if out[4] == nil || !almostEqual(*out[4], 4) {
		t.Errorf("index 4: want 4, got %v", out[4])
	}
}

func TestRollingMissingValuePoisonsWindow(t *testing.T) {
	series := []*float64{Ptr(1), nil, Ptr(3), Ptr(4), Ptr(5)}
	out := Rolling(series, 3, Mean)
	if out[2] != nil || out[3] != nil {
		t.Fatalf("windows covering a missing value must be nil, got %v %v", out[2], out[3])
	}
	if out[4] == nil || !almostEqual(*out[4], 4) {
		t.Fatalf("index 4 covers only present values, want 4, got %v", out[4])
	}
}

func TestMeanPresent(t *testing.T) {
	if got := MeanPresent([]*float64{nil, nil}); got != nil {
		t.Fatalf("all-nil MeanPresent = %v, want nil", *got)
	}
	got := MeanPresent([]*float64{Ptr(10), nil, Ptr(20)})
	if got == nil || !almostEqual(*got, 15) {
		t.Fatalf("MeanPresent = %v, want 15", got)
	}
}

func TestCoalesce(t *testing.T) {
	a, b := Ptr(1), Ptr(2)
	if got := Coalesce(nil, a, b); got != a {
		t.Fatalf("Coalesce skipped first non-nil value")
	}
	if got := Coalesce(nil, nil); got != nil {
		t.Fatalf("Coalesce of all nil = %v, want nil", *got)
	}
}
