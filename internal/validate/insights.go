package validate

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"CoopSim/internal/model"
)

// buildInsights turns the numeric report into analyst-facing
// narrative lines.
func buildInsights(pm model.ProjectionModel, report *model.ValidationReport, agg model.AggregateStatistics) []string {
	var insights []string

	rv := report.Variance.RevenueVariance
	direction := "above"
	if rv < 0 {
		direction = "below"
	}
	insights = append(insights, fmt.Sprintf(
		"Simulated 5-year revenue of $%s lands %.1f%% %s the projected $%s.",
		humanize.CommafWithDigits(report.Actual.Revenue, 0),
		math.Abs(rv), direction,
		humanize.CommafWithDigits(pm.ProjectedYear5Revenue, 0)))

	if report.Actual.BreakEvenWeek > 0 {
		insights = append(insights, fmt.Sprintf(
			"Break-even reached in week %d (%.1f months) against a projected %.1f months.",
			report.Actual.BreakEvenWeek, report.Actual.BreakEvenMonths, pm.ProjectedBreakEvenMonths))
	} else {
		insights = append(insights, fmt.Sprintf(
			"Cumulative revenue never covered the $%s initial investment within the horizon.",
			humanize.CommafWithDigits(pm.InitialInvestment, 0)))
	}

	insights = append(insights, fmt.Sprintf(
		"Simulated ROI of %.1f%% vs a projected %.1f%% (ROI variance %.1f%%).",
		report.Actual.ROI, pm.ProjectedRiskAdjustedROI*100, report.Variance.ROIVariance))

	switch report.RiskAssessment.RiskLevel {
	case model.RiskLow:
		insights = append(insights, "Revenue variance sits inside the low-risk band; the projection is broadly consistent with simulated behavior.")
	case model.RiskMedium:
		insights = append(insights, "Revenue variance is material; the projection's growth assumptions deserve a second look.")
	default:
		insights = append(insights, "Revenue variance is large; the projection and the simulated economy disagree fundamentally.")
	}

	if agg.TotalValueLocked > 0 {
		insights = append(insights, fmt.Sprintf(
			"Participants locked %s tokens in staking and generated $%s of group-purchase savings.",
			humanize.CommafWithDigits(agg.TotalValueLocked, 0),
			humanize.CommafWithDigits(agg.TotalSavingsGenerated, 0)))
	}
	return insights
}
