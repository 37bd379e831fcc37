package model

// ProposalStatus tracks the lifecycle of a governance proposal.
type ProposalStatus string

const (
	ProposalVoting   ProposalStatus = "VOTING"
	ProposalPassed   ProposalStatus = "PASSED"
	ProposalRejected ProposalStatus = "REJECTED"
	ProposalExpired  ProposalStatus = "EXPIRED"
)

// Proposal is a governance item resolved by quadratic voting.
type Proposal struct {
	ID           string
	Proposer     string
	Description  string
	Category     string
	WeekCreated  int
	DeadlineWeek int
	VotesFor     float64
	VotesAgainst float64
	Status       ProposalStatus
}

// Vote records a single quadratic-cost ballot. Immutable once cast.
type Vote struct {
	ProposalID string
	Voter      string
	Votes      float64
	Cost       float64
	Support    bool
	Week       int
}
