package scenario

import (
	"math"
	"sort"

	"CoopSim/internal/stats"
)

// WeeklyMetrics describes the simulated economy for one week, under
// both scenarios.
type WeeklyMetrics struct {
	Week    int
	Year    int
	Quarter int

	AvgWealthA    float64
	AvgWealthB    float64
	MedianWealthA float64
	MedianWealthB float64
	TotalWealthA  float64
	TotalWealthB  float64

	QuintilesA     [4]float64
	QuintilesB     [4]float64
	Top10PercentA  float64
	Top10PercentB  float64
	Bottom10PctA   float64
	Bottom10PctB   float64

	GiniA           float64
	GiniB           float64
	WealthGapA      float64
	WealthGapB      float64
	Bottom20Share   float64

	PovertyRateA float64
	PovertyRateB float64

	LocalEconomyStrength float64
	SocialSafetyNet      float64
	CommunityEngagement  float64
	InnovationIndex      float64
	RiskResilience       float64

	Trends map[string]float64
}

type metricsCalculator struct {
	cfg      Config
	members  []*Member
	previous *WeeklyMetrics
}

func newMetricsCalculator(cfg Config, members []*Member) *metricsCalculator {
	return &metricsCalculator{cfg: cfg, members: members}
}

func (c *metricsCalculator) calculate(wealthA, wealthB []float64, week int) WeeklyMetrics {
	m := WeeklyMetrics{
		Week:    week,
		Year:    week/52 + 1,
		Quarter: (week%52)/13 + 1,

		AvgWealthA:    stats.Mean(wealthA),
		AvgWealthB:    stats.Mean(wealthB),
		MedianWealthA: stats.Median(wealthA),
		MedianWealthB: stats.Median(wealthB),
		TotalWealthA:  stats.Sum(wealthA),
		TotalWealthB:  stats.Sum(wealthB),

		Top10PercentA: stats.Percentile(wealthA, 90),
		Top10PercentB: stats.Percentile(wealthB, 90),
		Bottom10PctA:  stats.Percentile(wealthA, 10),
		Bottom10PctB:  stats.Percentile(wealthB, 10),

		GiniA:         stats.Gini(wealthA),
		GiniB:         stats.Gini(wealthB),
		WealthGapA:    wealthGap(wealthA),
		WealthGapB:    wealthGap(wealthB),
		Bottom20Share: bottom20Share(wealthB),

		PovertyRateA: c.povertyRate(wealthA),
		PovertyRateB: c.povertyRate(wealthB),
	}
	for i, p := range []float64{20, 40, 60, 80} {
		m.QuintilesA[i] = stats.Percentile(wealthA, p)
		m.QuintilesB[i] = stats.Percentile(wealthB, p)
	}

	m.LocalEconomyStrength = c.avgInternalPropensity()
	m.CommunityEngagement = m.LocalEconomyStrength
	m.SocialSafetyNet = 1 - c.povertyRate(wealthB)
	m.InnovationIndex = (c.tokenAdoption() + m.LocalEconomyStrength) / 2
	m.RiskResilience = c.riskResilience(wealthB, m.SocialSafetyNet)

	if c.previous != nil {
		m.Trends = trends(c.previous, &m)
	}
	snapshot := m
	c.previous = &snapshot
	return m
}

// povertyRate is the fraction of members below the poverty line,
// defined as the poverty multiplier times the average weekly budget.
func (c *metricsCalculator) povertyRate(wealth []float64) float64 {
	if len(wealth) == 0 {
		return 0
	}
	line := c.cfg.WeeklyFoodBudgetMean * c.cfg.PovertyLineMultiplier
	below := 0
	for _, w := range wealth {
		if w < line {
			below++
		}
	}
	return float64(below) / float64(len(wealth))
}

func (c *metricsCalculator) avgInternalPropensity() float64 {
	if len(c.members) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range c.members {
		sum += m.InternalPropensity
	}
	return sum / float64(len(c.members))
}

func (c *metricsCalculator) tokenAdoption() float64 {
	if len(c.members) == 0 {
		return 0
	}
	holders := 0
	for _, m := range c.members {
		if m.Tokens > 0 {
			holders++
		}
	}
	return float64(holders) / float64(len(c.members))
}

// riskResilience blends the safety net with wealth stability
// (1 - CV of the scenario-B distribution).
func (c *metricsCalculator) riskResilience(wealthB []float64, safetyNet float64) float64 {
	mean := stats.Mean(wealthB)
	stability := 0.0
	if mean > 1e-6 {
		stability = 1 - stats.StdDev(wealthB)/mean
	}
	return (safetyNet + stability) / 2
}

// wealthGap is mean(top 20%) / mean(bottom 20%). Fewer than five
// members, or an empty bottom quintile, yields +Inf.
func wealthGap(wealth []float64) float64 {
	if len(wealth) < 5 {
		return math.Inf(1)
	}
	sorted := nonNegativeSorted(wealth)
	n := len(sorted)
	topIdx := int(float64(n) * 0.8)
	bottomIdx := int(float64(n) * 0.2)
	topMean := stats.Mean(sorted[topIdx:])
	bottomMean := stats.Mean(sorted[:bottomIdx])
	if bottomMean <= 1e-6 {
		return math.Inf(1)
	}
	return topMean / bottomMean
}

// bottom20Share is the bottom quintile's share of total wealth.
func bottom20Share(wealth []float64) float64 {
	if len(wealth) < 5 {
		return 0
	}
	sorted := nonNegativeSorted(wealth)
	total := stats.Sum(sorted)
	if total <= 1e-6 {
		return 0
	}
	bottomIdx := int(float64(len(sorted)) * 0.2)
	return stats.Sum(sorted[:bottomIdx]) / total
}

func nonNegativeSorted(wealth []float64) []float64 {
	sorted := make([]float64, len(wealth))
	for i, w := range wealth {
		if w < 0 {
			w = 0
		}
		sorted[i] = w
	}
	sort.Float64s(sorted)
	return sorted
}

// trends computes relative week-over-week change for the headline
// scenario-B metrics. A (near) zero previous value maps to ±1 or 0.
func trends(prev, cur *WeeklyMetrics) map[string]float64 {
	out := make(map[string]float64)
	pairs := []struct {
		name       string
		prevV, curV float64
	}{
		{"AvgWealth_B", prev.AvgWealthB, cur.AvgWealthB},
		{"Gini_B", prev.GiniB, cur.GiniB},
		{"PovertyRate_B", prev.PovertyRateB, cur.PovertyRateB},
		{"LocalEconomyStrength", prev.LocalEconomyStrength, cur.LocalEconomyStrength},
		{"SocialSafetyNet", prev.SocialSafetyNet, cur.SocialSafetyNet},
		{"InnovationIndex", prev.InnovationIndex, cur.InnovationIndex},
	}
	for _, p := range pairs {
		switch {
		case math.Abs(p.prevV) > 1e-6:
			out[p.name] = (p.curV - p.prevV) / math.Abs(p.prevV)
		case p.curV > p.prevV:
			out[p.name] = 1
		case p.curV < p.prevV:
			out[p.name] = -1
		default:
			out[p.name] = 0
		}
	}
	return out
}
