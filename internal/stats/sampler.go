package stats

import (
	"math"
	"math/rand"
)

// Sampler is a seedable pseudo-random source for all stochastic draws
// in a simulation run. Injecting one per run keeps runs reproducible.
type Sampler struct {
	rng      *rand.Rand
	spare    float64
	hasSpare bool
}

// NewSampler creates a Sampler from a fixed seed.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform draw in [0, 1).
func (s *Sampler) Float64() float64 {
	return s.rng.Float64()
}

// Intn returns a uniform draw in [0, n).
func (s *Sampler) Intn(n int) int {
	return s.rng.Intn(n)
}

// Bernoulli returns true with probability p.
func (s *Sampler) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}

// Gauss draws from a Gaussian with the given mean and stddev using the
// Box-Muller transform over two independent uniform draws. The second
// variate of each transform is cached and returned on the next call.
func (s *Sampler) Gauss(mean, stddev float64) float64 {
	if s.hasSpare {
		s.hasSpare = false
		return mean + stddev*s.spare
	}
	var u1 float64
	for u1 == 0 {
		u1 = s.rng.Float64()
	}
	u2 := s.rng.Float64()
	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	s.spare = r * math.Sin(theta)
	s.hasSpare = true
	return mean + stddev*r*math.Cos(theta)
}

// GaussClamped draws from Gauss(mean, stddev) clamped to [min, max]
// and floored at zero.
func (s *Sampler) GaussClamped(mean, stddev, min, max float64) float64 {
	v := s.Gauss(mean, stddev)
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	if v < 0 {
		v = 0
	}
	return v
}

// LogNormal draws from a log-normal distribution parameterized by the
// mean and sigma of the underlying normal.
func (s *Sampler) LogNormal(meanLog, sigmaLog float64) float64 {
	return math.Exp(s.Gauss(meanLog, sigmaLog))
}
