package validate

import (
	"math"

	"CoopSim/internal/model"
	"CoopSim/internal/stats"
)

// Risk tier boundaries on absolute revenue variance, in percent.
const (
	lowRiskVariance    = 25.0
	mediumRiskVariance = 75.0
)

// Confidence tier boundaries on the coefficient of variation of
// weekly revenue growth.
const (
	highConfidenceCV   = 0.10
	mediumConfidenceCV = 0.30
)

// computeVariance derives actual-vs-projected deviations. ROI values
// are normalized to the same unit (percent) before comparison: the
// projection carries ROI as a decimal multiple (13.66 = 1366%) while
// the simulation reports percent. Comparing them raw silently
// produces order-of-magnitude errors.
func computeVariance(actual model.ActualResults, pm model.ProjectionModel) model.VarianceResults {
	var v model.VarianceResults
	if pm.ProjectedYear5Revenue != 0 {
		v.RevenueVariance = (actual.Revenue - pm.ProjectedYear5Revenue) / pm.ProjectedYear5Revenue * 100
	}
	projectedROIPercent := pm.ProjectedRiskAdjustedROI * 100
	if projectedROIPercent != 0 {
		v.ROIVariance = (actual.ROI - projectedROIPercent) / projectedROIPercent * 100
	}
	if pm.ProjectedBreakEvenMonths != 0 && actual.BreakEvenMonths > 0 {
		v.BreakEvenVariance = (actual.BreakEvenMonths - pm.ProjectedBreakEvenMonths) / pm.ProjectedBreakEvenMonths * 100
	}
	return v
}

// riskLevel maps revenue variance magnitude to a tier.
func riskLevel(revenueVariance float64) model.RiskLevel {
	mag := math.Abs(revenueVariance)
	switch {
	case mag <= lowRiskVariance:
		return model.RiskLow
	case mag <= mediumRiskVariance:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// confidenceLevel grades data consistency from the volatility of
// week-over-week revenue growth.
func confidenceLevel(series []model.WeeklyPoint) model.ConfidenceLevel {
	var growth []float64
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Revenue
		if prev == 0 {
			continue
		}
		growth = append(growth, (series[i].Revenue-prev)/prev)
	}
	if len(growth) == 0 {
		return model.ConfidenceLow
	}
	cv := math.Abs(stats.CoefficientOfVariation(growth))
	switch {
	case cv < highConfidenceCV:
		return model.ConfidenceHigh
	case cv < mediumConfidenceCV:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
