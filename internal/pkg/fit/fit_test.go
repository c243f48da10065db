package fit

import (
	"errors"
	"math"
	"testing"
)

func TestLinear_ExactLine(t *testing.T) {
	slope, intercept, err := Linear([]float64{1, 2, 3}, []float64{2, 4, 6})
	if err != nil {
		t.Fatalf("Linear returned error: %v", err)
	}
	if math.Abs(slope-2) > 1e-12 {
		t.Errorf("slope = %v; want 2", slope)
	}
	if math.Abs(intercept) > 1e-12 {
		t.Errorf("intercept = %v; want 0", intercept)
	}
}

func TestLinear_InsufficientData(t *testing.T) {
	if _, _, err := Linear([]float64{1}, []float64{2}); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("err = %v; want ErrInsufficientData", err)
	}
}

func TestExponential_RecoversCoefficients(t *testing.T) {
	var xs, ys []float64
	for x := 0; x <= 10; x++ {
		xs = append(xs, float64(x))
		ys = append(ys, 2*math.Exp(0.1*float64(x)))
	}

	f, err := Exponential(xs, ys)
	if err != nil {
		t.Fatalf("Exponential returned error: %v", err)
	}
	if math.Abs(f.A-2) > 1e-2 {
		t.Errorf("a = %v; want 2 within 1e-2", f.A)
	}
	if math.Abs(f.B-0.1) > 1e-2 {
		t.Errorf("b = %v; want 0.1 within 1e-2", f.B)
	}
	if f.StdErrA > 1e-3 || f.StdErrB > 1e-3 {
		t.Errorf("stderr = (%v, %v); want near zero for noiseless data", f.StdErrA, f.StdErrB)
	}
}

func TestExponential_DecayingSeries(t *testing.T) {
	var xs, ys []float64
	for x := 0; x < 14; x++ {
		xs = append(xs, float64(x))
		ys = append(ys, 100*math.Exp(-0.2*float64(x)))
	}

	f, err := Exponential(xs, ys)
	if err != nil {
		t.Fatalf("Exponential returned error: %v", err)
	}
	if math.Abs(f.A-100) > 1 {
		t.Errorf("a = %v; want 100 within 1", f.A)
	}
	if math.Abs(f.B+0.2) > 1e-2 {
		t.Errorf("b = %v; want -0.2 within 1e-2", f.B)
	}
}

func TestExponential_InsufficientData(t *testing.T) {
	if _, err := Exponential([]float64{0, 1}, []float64{1, 2}); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("err = %v; want ErrInsufficientData", err)
	}
}

// The suppression band replaces a comparison in an earlier revision that
// could never be true: a daily growth factor inside [0.999, 1.001] is
// treated as effectively flat and the exponential curve is withheld.
func TestExpFit_NearFlat(t *testing.T) {
	cases := []struct {
		name string
		b    float64
		want bool
	}{
		{"flat", 0, true},
		{"lower bound", math.Log(0.999), true},
		{"upper bound", math.Log(1.001), true},
		{"growing", 0.1, false},
		{"shrinking", -0.1, false},
	}

	for _, tc := range cases {
		f := ExpFit{A: 10, B: tc.b}
		if got := f.NearFlat(); got != tc.want {
			t.Errorf("%s: NearFlat() = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestExpFit_Band(t *testing.T) {
	f := ExpFit{A: 2, B: 0.1, StdErrA: 0.5, StdErrB: 0.02}
	xs := []float64{0, 1}

	low, mid, high := f.Band(xs)

	if math.Abs(mid[0]-2) > 1e-12 {
		t.Errorf("mid[0] = %v; want 2", mid[0])
	}
	if math.Abs(low[0]-1.5) > 1e-12 {
		t.Errorf("low[0] = %v; want 1.5", low[0])
	}
	if math.Abs(high[0]-2.5) > 1e-12 {
		t.Errorf("high[0] = %v; want 2.5", high[0])
	}

	wantLow := 1.5 * math.Exp(0.08)
	if math.Abs(low[1]-wantLow) > 1e-12 {
		t.Errorf("low[1] = %v; want %v", low[1], wantLow)
	}
	wantHigh := 2.5 * math.Exp(0.12)
	if math.Abs(high[1]-wantHigh) > 1e-12 {
		t.Errorf("high[1] = %v; want %v", high[1], wantHigh)
	}
}

func TestExpFit_GrowthFactor(t *testing.T) {
	f := ExpFit{A: 3, B: 0.25}
	want := math.Exp(0.25)
	if got := f.GrowthFactor(); math.Abs(got-want) > 1e-12 {
		t.Errorf("GrowthFactor() = %v; want %v", got, want)
	}
}
