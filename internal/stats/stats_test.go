package stats

import (
	"math"
	"testing"
)

func TestMean_Median(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	if m := Mean(values); m != 25 {
		t.Errorf("expected mean 25, got %.2f", m)
	}
	if m := Median(values); m != 25 {
		t.Errorf("expected median 25, got %.2f", m)
	}
	if m := Median([]float64{10, 20, 30}); m != 20 {
		t.Errorf("expected median 20, got %.2f", m)
	}
	if m := Mean(nil); m != 0 {
		t.Errorf("expected 0 for empty slice, got %.2f", m)
	}
}

func TestStdDev_Population(t *testing.T) {
	// Population stddev of {2,4,4,4,5,5,7,9} is exactly 2.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if sd := StdDev(values); math.Abs(sd-2) > 1e-9 {
		t.Errorf("expected stddev 2, got %.6f", sd)
	}
	if sd := StdDev([]float64{5}); sd != 0 {
		t.Errorf("expected 0 for single value, got %.6f", sd)
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	cv := CoefficientOfVariation(values)
	if math.Abs(cv-0.4) > 1e-9 {
		t.Errorf("expected CV 0.4, got %.6f", cv)
	}
	if cv := CoefficientOfVariation([]float64{1, -1}); cv != 0 {
		t.Errorf("expected 0 for zero mean, got %.6f", cv)
	}
}

func TestPercentile_Interpolation(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{25, 20},
		{50, 30},
		{90, 46},
		{100, 50},
	}
	for _, tt := range tests {
		got := Percentile(values, tt.p)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("percentile %.0f: expected %.2f, got %.2f", tt.p, tt.want, got)
		}
	}
}

func TestGini_KnownDistributions(t *testing.T) {
	tests := []struct {
		name   string
		wealth []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{100}, 0},
		{"perfect equality", []float64{50, 50, 50, 50}, 0},
		{"linear ramp", []float64{10, 20, 30, 40, 50}, 0.26667},
		{"all zero", []float64{0, 0, 0}, 0},
	}
	for _, tt := range tests {
		got := Gini(tt.wealth)
		if math.Abs(got-tt.want) > 1e-4 {
			t.Errorf("%s: expected gini %.5f, got %.5f", tt.name, tt.want, got)
		}
	}
}

func TestGini_NegativeClampedAndBounded(t *testing.T) {
	g := Gini([]float64{-100, 0, 0, 0, 1000})
	if g < 0 || g > 1 {
		t.Fatalf("gini out of [0,1]: %.4f", g)
	}
	// Extreme concentration approaches (n-1)/n.
	if g < 0.7 {
		t.Errorf("expected high inequality, got %.4f", g)
	}
}
