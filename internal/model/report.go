package model

// RiskLevel buckets the magnitude of projection variance.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ConfidenceLevel buckets how consistent the underlying data was.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// ActualResults holds figures produced by the simulation run.
type ActualResults struct {
	Revenue         float64
	Profit          float64
	// ROI is expressed in percent (100 = doubled the investment).
	ROI             float64
	BreakEvenWeek   int
	BreakEvenMonths float64
}

// VarianceResults holds actual-vs-projected deviations in percent.
type VarianceResults struct {
	RevenueVariance   float64
	ROIVariance       float64
	BreakEvenVariance float64
}

// RiskAssessment combines variance risk and data-consistency confidence.
type RiskAssessment struct {
	RiskLevel       RiskLevel
	ConfidenceLevel ConfidenceLevel
}

// WeeklyPoint is one sample of the validator's weekly series.
type WeeklyPoint struct {
	Week    int
	Revenue float64
	Profit  float64
	ROI     float64
}

// ValidationReport is the immutable product of one validation run.
type ValidationReport struct {
	Model          string
	Actual         ActualResults
	Variance       VarianceResults
	RiskAssessment RiskAssessment
	WeeklyData     []WeeklyPoint
	Insights       []string
}

// ParameterAdjustment is one calibrated parameter in a CalibrationReport.
type ParameterAdjustment struct {
	Parameter         string
	Baseline          float64
	Calibrated        float64
	AdjustmentPercent float64
	Confidence        ConfidenceLevel
	Reasoning         string
}

// OverallAccuracy summarizes a calibration run.
type OverallAccuracy struct {
	ConfidenceLevel ConfidenceLevel
	ConfidenceScore float64
	AverageVariance float64
}

// CalibrationReport is the product of one calibration run.
type CalibrationReport struct {
	Model                string
	Overall              OverallAccuracy
	ParameterAdjustments []ParameterAdjustment
}

// AggregatedData is externally observed spending data, already
// transformed (category mapping, weekly bucketing) by the
// finance-tracking collaborator.
type AggregatedData struct {
	WeeklySpending     []float64          `json:"weekly_spending"`
	CategoryPercents   map[string]float64 `json:"category_percents"`
	ActiveParticipants int                `json:"active_participants"`
}
