package model

// WeeklySnapshot aggregates per-model statistics for one simulated week.
type WeeklySnapshot struct {
	Week                    int
	TokensDistributed       float64
	TotalSupplyDistributed  float64
	TotalSpend              float64
	SavingsGenerated        float64
	OpenOrders              int
	FulfilledOrders         int
	TotalStaked             float64
	TotalInterestAccrued    float64
	ActiveLocks             int
	ProposalsActive         int
	ProposalsPassed         int
	VotesCast               int
	GovernanceParticipation float64
	ParticipationRate       float64
}

// AggregateStatistics merges all sub-model statistics at a point in time.
type AggregateStatistics struct {
	Week                    int
	Participants            int
	TotalTokensDistributed  float64
	TreasuryReserve         float64
	TotalCurrencyBalance    float64
	TotalSpend              float64
	TotalSavingsGenerated   float64
	TotalValueLocked        float64
	TotalInterestAccrued    float64
	ParticipationRate       float64
	GovernanceEngagement    float64
	ProposalsResolved       int
}
