package model

// ProjectionModel holds externally supplied 5-year business projections
// to be validated against a bottom-up weekly simulation.
type ProjectionModel struct {
	Name                  string  `yaml:"name"`
	InitialInvestment     float64 `yaml:"initial_investment"`
	ProjectedYear5Revenue float64 `yaml:"projected_year5_revenue"`
	// ProjectedRiskAdjustedROI is a decimal multiple: 13.66 means 1366%.
	ProjectedRiskAdjustedROI    float64 `yaml:"projected_risk_adjusted_roi"`
	ProjectedBreakEvenMonths    float64 `yaml:"projected_break_even_months"`
	PopulationSize              int     `yaml:"population_size"`
	ParticipationRate           float64 `yaml:"participation_rate"`
	WeeklyRevenuePerParticipant float64 `yaml:"weekly_revenue_per_participant"`
	GrowthRatePerWeek           float64 `yaml:"growth_rate_per_week"`
	TokenDistributionRate       float64 `yaml:"token_distribution_rate"`
	GroupBuyingSavings          float64 `yaml:"group_buying_savings"`
	StakingParticipation        float64 `yaml:"staking_participation"`
}
