// Package scenario compares a traditional household economy (scenario
// A) against the cooperative token economy (scenario B) over a
// multi-year weekly simulation.
package scenario

import (
	"fmt"
	"log"

	"CoopSim/internal/model"
	"CoopSim/internal/stats"
)

// Config holds the comparison-run parameters.
type Config struct {
	Members int
	Weeks   int
	Seed    int64

	InitialWealthMeanLog  float64
	InitialWealthSigmaLog float64

	WeeklyFoodBudgetMean   float64
	WeeklyFoodBudgetStdDev float64
	MinWeeklyBudget        float64

	WeeklyIncomeMean   float64
	WeeklyIncomeStdDev float64
	MinWeeklyIncome    float64

	GroupBuySavings        float64
	LocalProductionSavings float64

	InternalSpendMean   float64
	InternalSpendStdDev float64

	TokenRewardMean   float64
	TokenRewardStdDev float64
	TokenValueUSD     float64

	WeeklyCoopFee float64

	// PovertyLineMultiplier times the average weekly food budget
	// defines the poverty line. The historical Orshansky convention
	// used 3; the default here is the more conservative 4.
	PovertyLineMultiplier float64
}

// Member is one simulated community member, tracked under both
// scenarios at once.
type Member struct {
	ID                 string
	InitialWealth      float64
	WealthA            float64
	WealthB            float64
	FoodUSD            float64
	Tokens             float64
	WeeklyBudget       float64
	WeeklyIncome       float64
	InternalPropensity float64
}

// KeyEvent flags a significant week-over-week shift.
type KeyEvent struct {
	Week        int
	Type        string
	Description string
}

// Result is the complete product of one comparison run.
type Result struct {
	History      []WeeklyMetrics
	FinalMembers []Member
	KeyEvents    []KeyEvent
	Summary      Narrative
}

// Run executes the comparison over the configured horizon.
func Run(cfg Config) (*Result, error) {
	if cfg.Members <= 0 {
		return nil, model.NewConfigError("scenario.members", "must be positive, got %d", cfg.Members)
	}
	if cfg.Weeks <= 0 {
		return nil, model.NewConfigError("scenario.weeks", "must be positive, got %d", cfg.Weeks)
	}
	if cfg.PovertyLineMultiplier <= 0 {
		cfg.PovertyLineMultiplier = 4
	}
	log.Printf("[INFO] scenario comparison: %d members over %d weeks", cfg.Members, cfg.Weeks)

	sampler := stats.NewSampler(cfg.Seed)
	members := initializeMembers(cfg, sampler)
	calc := newMetricsCalculator(cfg, members)

	result := &Result{}
	avgSavings := (cfg.GroupBuySavings + cfg.LocalProductionSavings) / 2

	for week := 1; week <= cfg.Weeks; week++ {
		wealthA := make([]float64, len(members))
		wealthB := make([]float64, len(members))
		for i, m := range members {
			// Scenario A: income in, budget out, floored at zero.
			m.WealthA += m.WeeklyIncome
			spendA := m.WeeklyBudget
			if spendA > m.WealthA {
				spendA = m.WealthA
			}
			m.WealthA -= spendA

			// Scenario B: FoodUSD funding, discounted internal
			// spending, coop fee, and the weekly token reward.
			m.FoodUSD += m.WeeklyIncome
			intendedInternal := m.WeeklyBudget * m.InternalPropensity
			intendedExternal := m.WeeklyBudget * (1 - m.InternalPropensity)
			effectiveCost := intendedInternal*(1-avgSavings) + intendedExternal
			if effectiveCost > m.FoodUSD {
				effectiveCost = m.FoodUSD
			}
			m.FoodUSD -= effectiveCost

			fee := cfg.WeeklyCoopFee
			if fee > m.FoodUSD {
				fee = m.FoodUSD
			}
			m.FoodUSD -= fee

			reward := sampler.Gauss(cfg.TokenRewardMean, cfg.TokenRewardStdDev)
			if reward < 0 {
				reward = 0
			}
			m.Tokens += reward

			m.WealthB = m.FoodUSD + m.Tokens*cfg.TokenValueUSD

			wealthA[i] = m.WealthA
			wealthB[i] = m.WealthB
		}

		weekly := calc.calculate(wealthA, wealthB, week)
		if len(result.History) > 0 {
			prev := result.History[len(result.History)-1]
			if weekly.GiniB < prev.GiniB*0.95 {
				result.KeyEvents = append(result.KeyEvents, KeyEvent{
					Week: week, Type: "equality_improvement",
					Description: fmt.Sprintf("Significant reduction in wealth inequality (Gini B < %.3f)", prev.GiniB*0.95),
				})
			}
			if weekly.PovertyRateB < prev.PovertyRateB*0.9 {
				result.KeyEvents = append(result.KeyEvents, KeyEvent{
					Week: week, Type: "poverty_reduction",
					Description: fmt.Sprintf("Significant poverty reduction (Rate B < %.1f%%)", prev.PovertyRateB*0.9*100),
				})
			}
		}
		result.History = append(result.History, weekly)
	}

	result.FinalMembers = make([]Member, len(members))
	for i, m := range members {
		result.FinalMembers[i] = *m
	}
	result.Summary = buildNarrative(result.History, result.KeyEvents)
	return result, nil
}

// initializeMembers draws each member's starting wealth from a
// log-normal distribution and fixes their weekly income, budget, and
// internal-spend propensity.
func initializeMembers(cfg Config, sampler *stats.Sampler) []*Member {
	members := make([]*Member, cfg.Members)
	for i := range members {
		wealth := sampler.LogNormal(cfg.InitialWealthMeanLog, cfg.InitialWealthSigmaLog)
		budget := sampler.Gauss(cfg.WeeklyFoodBudgetMean, cfg.WeeklyFoodBudgetStdDev)
		if budget < cfg.MinWeeklyBudget {
			budget = cfg.MinWeeklyBudget
		}
		income := sampler.Gauss(cfg.WeeklyIncomeMean, cfg.WeeklyIncomeStdDev)
		if income < cfg.MinWeeklyIncome {
			income = cfg.MinWeeklyIncome
		}
		propensity := sampler.Gauss(cfg.InternalSpendMean, cfg.InternalSpendStdDev)
		if propensity < 0 {
			propensity = 0
		}
		if propensity > 1 {
			propensity = 1
		}
		members[i] = &Member{
			ID:                 fmt.Sprintf("M_%d", i),
			InitialWealth:      wealth,
			WealthA:            wealth,
			WealthB:            wealth,
			FoodUSD:            wealth,
			WeeklyBudget:       budget,
			WeeklyIncome:       income,
			InternalPropensity: propensity,
		}
	}
	return members
}
