// Package calibrate adjusts simulation parameters against externally
// observed spending and participation data.
package calibrate

import (
	"fmt"
	"log"
	"math"
	"sort"

	"CoopSim/internal/model"
	"CoopSim/internal/sim"
	"CoopSim/internal/stats"
)

// Confidence tier boundaries on absolute variance, in percent.
const (
	highConfidenceVariance   = 10.0
	mediumConfidenceVariance = 25.0
)

// Savings-rate tiers keyed on the coefficient of variation of the
// external weekly spend series: volatile spending implies less
// reliable bulk-buy pricing power.
const (
	stableSpendCV   = 0.2
	volatileSpendCV = 0.4

	savingsRateStable   = 0.15
	savingsRateModerate = 0.10
	savingsRateVolatile = 0.05
)

// Engine derives calibrated parameters from one validation run plus
// external aggregated data.
type Engine struct {
	baseline sim.Config
}

// NewEngine creates a calibration engine over the given baseline
// simulation parameters.
func NewEngine(baseline sim.Config) *Engine {
	return &Engine{baseline: baseline}
}

// Calibrate compares externally observed weekly spend, participation,
// and category distribution against the baselines used by the
// simulation and produces adjusted values with confidence tiers.
func (e *Engine) Calibrate(modelName string, external *model.AggregatedData, validation *model.ValidationReport, population int) (*model.CalibrationReport, error) {
	if external == nil || len(external.WeeklySpending) == 0 {
		return nil, model.NewConfigError("external_data", "weekly spending series must not be empty")
	}
	if population <= 0 {
		return nil, model.NewConfigError("population", "must be positive, got %d", population)
	}
	log.Printf("[INFO] calibrating %q against %d weeks of external data", modelName, len(external.WeeklySpending))

	report := &model.CalibrationReport{Model: modelName}

	report.ParameterAdjustments = append(report.ParameterAdjustments,
		e.calibrateWeeklyBudget(external))
	report.ParameterAdjustments = append(report.ParameterAdjustments,
		e.calibrateParticipation(external, population))
	report.ParameterAdjustments = append(report.ParameterAdjustments,
		e.calibrateCategorySplit(external)...)
	report.ParameterAdjustments = append(report.ParameterAdjustments,
		e.calibrateSavingsRate(external))

	report.Overall = overallAccuracy(report.ParameterAdjustments, validation)
	return report, nil
}

// calibrateWeeklyBudget fits the average weekly budget to the
// observed per-participant spend.
func (e *Engine) calibrateWeeklyBudget(external *model.AggregatedData) model.ParameterAdjustment {
	baseline := e.baseline.Spending.WeeklyBudgetMean
	observedTotal := stats.Mean(external.WeeklySpending)
	calibrated := baseline
	if external.ActiveParticipants > 0 {
		calibrated = observedTotal / float64(external.ActiveParticipants)
	}
	adj := adjustment("weekly_budget", baseline, calibrated)
	adj.Reasoning = fmt.Sprintf(
		"Observed average weekly spend of $%.2f across %d active participants implies $%.2f per head vs the $%.2f baseline.",
		observedTotal, external.ActiveParticipants, calibrated, baseline)
	return adj
}

// calibrateParticipation fits the participation rate to the observed
// active-participant count.
func (e *Engine) calibrateParticipation(external *model.AggregatedData, population int) model.ParameterAdjustment {
	baseline := e.baseline.Issuance.ParticipationRate
	calibrated := float64(external.ActiveParticipants) / float64(population)
	if calibrated > 1 {
		calibrated = 1
	}
	adj := adjustment("participation_rate", baseline, calibrated)
	adj.Reasoning = fmt.Sprintf(
		"%d of %d participants were active in the external data, a %.1f%% rate vs the %.1f%% baseline.",
		external.ActiveParticipants, population, calibrated*100, baseline*100)
	return adj
}

// calibrateCategorySplit fits each configured category share to the
// observed distribution. Categories are walked alphabetically so the
// adjustment order in the report is stable.
func (e *Engine) calibrateCategorySplit(external *model.AggregatedData) []model.ParameterAdjustment {
	categories := make([]string, 0, len(e.baseline.Spending.CategorySplit))
	for category := range e.baseline.Spending.CategorySplit {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var adjs []model.ParameterAdjustment
	for _, category := range categories {
		baseline := e.baseline.Spending.CategorySplit[category]
		observed, ok := external.CategoryPercents[category]
		if !ok {
			continue
		}
		adj := adjustment("category_split."+category, baseline, observed)
		adj.Reasoning = fmt.Sprintf(
			"External data attributes %.1f%% of spend to %s vs the %.1f%% baseline split.",
			observed*100, category, baseline*100)
		adjs = append(adjs, adj)
	}
	return adjs
}

// calibrateSavingsRate derives the group-purchase savings rate
// indirectly from spend volatility.
func (e *Engine) calibrateSavingsRate(external *model.AggregatedData) model.ParameterAdjustment {
	baseline := e.baseline.GroupBuy.SavingsRate
	cv := stats.CoefficientOfVariation(external.WeeklySpending)
	var calibrated float64
	switch {
	case cv < stableSpendCV:
		calibrated = savingsRateStable
	case cv < volatileSpendCV:
		calibrated = savingsRateModerate
	default:
		calibrated = savingsRateVolatile
	}
	adj := adjustment("group_buy_savings_rate", baseline, calibrated)
	adj.Reasoning = fmt.Sprintf(
		"Weekly spend CV of %.2f indicates %s demand; bulk-buy pricing power supports a %.0f%% savings rate.",
		cv, spendStability(cv), calibrated*100)
	return adj
}

func spendStability(cv float64) string {
	switch {
	case cv < stableSpendCV:
		return "stable"
	case cv < volatileSpendCV:
		return "moderately variable"
	default:
		return "volatile"
	}
}

// adjustment fills the shared fields of a parameter adjustment.
func adjustment(name string, baseline, calibrated float64) model.ParameterAdjustment {
	adj := model.ParameterAdjustment{
		Parameter:  name,
		Baseline:   baseline,
		Calibrated: calibrated,
	}
	if baseline != 0 {
		adj.AdjustmentPercent = (calibrated - baseline) / baseline * 100
	}
	adj.Confidence = confidenceTier(math.Abs(adj.AdjustmentPercent))
	return adj
}

// confidenceTier maps absolute variance to HIGH/MEDIUM/LOW.
func confidenceTier(absVariance float64) model.ConfidenceLevel {
	switch {
	case absVariance <= highConfidenceVariance:
		return model.ConfidenceHigh
	case absVariance <= mediumConfidenceVariance:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// overallAccuracy averages the absolute parameter variance, folding
// in the validation run's revenue variance when available.
func overallAccuracy(adjs []model.ParameterAdjustment, validation *model.ValidationReport) model.OverallAccuracy {
	var variances []float64
	for _, adj := range adjs {
		variances = append(variances, math.Abs(adj.AdjustmentPercent))
	}
	if validation != nil {
		variances = append(variances, math.Abs(validation.Variance.RevenueVariance))
	}
	avg := stats.Mean(variances)
	score := 100 - avg
	if score < 0 {
		score = 0
	}
	return model.OverallAccuracy{
		ConfidenceLevel: confidenceTier(avg),
		ConfidenceScore: score,
		AverageVariance: avg,
	}
}
