package stats

import (
	"math"
	"testing"
)

func TestSampler_Deterministic(t *testing.T) {
	a := NewSampler(42)
	b := NewSampler(42)
	for i := 0; i < 100; i++ {
		if a.Gauss(0, 1) != b.Gauss(0, 1) {
			t.Fatalf("draw %d diverged for identical seeds", i)
		}
	}
}

func TestGauss_MomentsConverge(t *testing.T) {
	s := NewSampler(7)
	const n = 10000
	draws := make([]float64, n)
	for i := range draws {
		draws[i] = s.Gauss(0.5, 0.2)
	}
	mean := Mean(draws)
	sd := StdDev(draws)
	if math.Abs(mean-0.5) > 0.01 {
		t.Errorf("expected mean near 0.5, got %.4f", mean)
	}
	if math.Abs(sd-0.2) > 0.01 {
		t.Errorf("expected stddev near 0.2, got %.4f", sd)
	}
}

func TestGaussClamped_Bounds(t *testing.T) {
	s := NewSampler(11)
	for i := 0; i < 1000; i++ {
		v := s.GaussClamped(0.5, 0.2, 0.1, 1.0)
		if v < 0.1 || v > 1.0 {
			t.Fatalf("draw %d out of [0.1, 1.0]: %.4f", i, v)
		}
	}
	// A negative min still never yields a negative draw.
	for i := 0; i < 1000; i++ {
		if v := s.GaussClamped(0.1, 2.0, -100, 100); v < 0 {
			t.Fatalf("draw %d negative: %.4f", i, v)
		}
	}
}

func TestBernoulli_Extremes(t *testing.T) {
	s := NewSampler(3)
	for i := 0; i < 100; i++ {
		if s.Bernoulli(0) {
			t.Fatal("p=0 returned true")
		}
		if !s.Bernoulli(1) {
			t.Fatal("p=1 returned false")
		}
	}
}

func TestLogNormal_Positive(t *testing.T) {
	s := NewSampler(9)
	for i := 0; i < 1000; i++ {
		if v := s.LogNormal(math.Log(1000), 0.6); v <= 0 {
			t.Fatalf("draw %d not positive: %.4f", i, v)
		}
	}
}
