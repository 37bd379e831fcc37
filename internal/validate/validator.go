// Package validate runs business projections against a bottom-up
// weekly simulation and reports variance, risk, and confidence.
package validate

import (
	"fmt"
	"log"
	"math"

	"CoopSim/internal/model"
	"CoopSim/internal/sim"
	"CoopSim/internal/stats"
)

// WeeksPerMonth converts break-even weeks to months.
const WeeksPerMonth = 4.33

// DefaultHorizonWeeks is the 5-year validation horizon.
const DefaultHorizonWeeks = 260

// Validator drives a fresh SimulationCoordinator per projection model
// and compares the outcome against the projected figures.
type Validator struct {
	base    sim.Config
	horizon int

	wealthMeanLog  float64
	wealthSigmaLog float64
}

// NewValidator creates a validator. The base config is a template:
// every run copies it, overrides the projection-specific knobs, and
// constructs its own coordinator so runs never share state.
func NewValidator(base sim.Config, horizonWeeks int) *Validator {
	if horizonWeeks <= 0 {
		horizonWeeks = DefaultHorizonWeeks
	}
	return &Validator{
		base:           base,
		horizon:        horizonWeeks,
		wealthMeanLog:  math.Log(1000),
		wealthSigmaLog: 0.6,
	}
}

// Validate simulates the projection model over the full horizon and
// returns the immutable report. Configuration problems fail fast
// before any simulation work.
func (v *Validator) Validate(pm model.ProjectionModel) (*model.ValidationReport, error) {
	if err := checkProjection(pm); err != nil {
		return nil, err
	}
	log.Printf("[INFO] validating projection model %q over %d weeks", pm.Name, v.horizon)

	cfg := v.runConfig(pm)
	coordinator := sim.NewCoordinator(cfg, nil)
	if err := coordinator.Initialize(v.population(pm, cfg.Seed)); err != nil {
		return nil, err
	}

	active := activeParticipants(pm)
	report := &model.ValidationReport{Model: pm.Name}
	cumulativeRevenue := 0.0
	breakEvenWeek := 0

	for week := 1; week <= v.horizon; week++ {
		if _, err := coordinator.ProcessWeek(week, nil); err != nil {
			return nil, fmt.Errorf("week %d: %w", week, err)
		}
		weeklyRevenue := pm.WeeklyRevenuePerParticipant * float64(active) *
			math.Pow(1+pm.GrowthRatePerWeek, float64(week-1))
		cumulativeRevenue += weeklyRevenue
		profit := cumulativeRevenue - pm.InitialInvestment
		roi := 0.0
		if pm.InitialInvestment > 0 {
			roi = profit / pm.InitialInvestment * 100
		}
		if breakEvenWeek == 0 && profit >= 0 {
			breakEvenWeek = week
		}
		report.WeeklyData = append(report.WeeklyData, model.WeeklyPoint{
			Week:    week,
			Revenue: weeklyRevenue,
			Profit:  profit,
			ROI:     roi,
		})
	}

	finalProfit := cumulativeRevenue - pm.InitialInvestment
	report.Actual = model.ActualResults{
		Revenue:       cumulativeRevenue,
		Profit:        finalProfit,
		ROI:           percentROI(finalProfit, pm.InitialInvestment),
		BreakEvenWeek: breakEvenWeek,
	}
	if breakEvenWeek > 0 {
		report.Actual.BreakEvenMonths = float64(breakEvenWeek) / WeeksPerMonth
	}

	report.Variance = computeVariance(report.Actual, pm)
	report.RiskAssessment = model.RiskAssessment{
		RiskLevel:       riskLevel(report.Variance.RevenueVariance),
		ConfidenceLevel: confidenceLevel(report.WeeklyData),
	}
	report.Insights = buildInsights(pm, report, coordinator.AggregateStatistics())
	return report, nil
}

// CompareModels validates each model strictly sequentially. Every run
// gets its own freshly constructed coordinator; reusing one across
// runs would leak week counters and balances between models.
func (v *Validator) CompareModels(models []model.ProjectionModel) ([]*model.ValidationReport, error) {
	reports := make([]*model.ValidationReport, 0, len(models))
	for _, pm := range models {
		report, err := v.Validate(pm)
		if err != nil {
			return nil, fmt.Errorf("validate %s: %w", pm.Name, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// runConfig copies the base template and applies the projection
// model's behavioral knobs.
func (v *Validator) runConfig(pm model.ProjectionModel) sim.Config {
	cfg := v.base
	if pm.TokenDistributionRate > 0 {
		cfg.Issuance.ParticipationRate = pm.TokenDistributionRate
	}
	if pm.GroupBuyingSavings > 0 {
		cfg.GroupBuy.SavingsRate = pm.GroupBuyingSavings
	}
	if pm.StakingParticipation > 0 {
		cfg.Activity.StakeProbability = pm.StakingParticipation
	}
	return cfg
}

// population builds a deterministic roster with log-normal initial
// wealth. Seeding from the run seed keeps repeated runs identical.
func (v *Validator) population(pm model.ProjectionModel, seed int64) *model.PopulationConfig {
	sampler := stats.NewSampler(seed + 1)
	participants := make([]model.Participant, pm.PopulationSize)
	for i := range participants {
		participants[i] = model.Participant{
			ID:            fmt.Sprintf("P_%04d", i),
			InitialWealth: sampler.LogNormal(v.wealthMeanLog, v.wealthSigmaLog),
		}
	}
	return &model.PopulationConfig{Participants: participants}
}

func checkProjection(pm model.ProjectionModel) error {
	switch {
	case pm.Name == "":
		return model.NewConfigError("projection.name", "must not be empty")
	case pm.PopulationSize <= 0:
		return model.NewConfigError("projection.population_size", "must be positive, got %d", pm.PopulationSize)
	case pm.InitialInvestment <= 0:
		return model.NewConfigError("projection.initial_investment", "must be positive, got %.2f", pm.InitialInvestment)
	case pm.WeeklyRevenuePerParticipant < 0:
		return model.NewConfigError("projection.weekly_revenue_per_participant", "must not be negative")
	case pm.ParticipationRate < 0 || pm.ParticipationRate > 1:
		return model.NewConfigError("projection.participation_rate", "must be in [0,1], got %.3f", pm.ParticipationRate)
	case pm.GrowthRatePerWeek < -1:
		return model.NewConfigError("projection.growth_rate_per_week", "must be greater than -1")
	}
	return nil
}

func activeParticipants(pm model.ProjectionModel) int {
	active := int(float64(pm.PopulationSize) * pm.ParticipationRate)
	if active < 1 {
		active = 1
	}
	return active
}

func percentROI(profit, investment float64) float64 {
	if investment <= 0 {
		return 0
	}
	return profit / investment * 100
}
