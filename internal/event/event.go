// Package event defines the typed domain events the simulation emits.
// Routing them anywhere (the pub/sub bus, exporters) is the job of
// external collaborators; the simulation only produces records.
package event

import "CoopSim/internal/model"

// TokenDistribution is emitted once per participant funded in a week.
type TokenDistribution struct {
	Week        int
	Participant string
	Amount      float64
}

// ContributionAccepted is emitted when a group-order contribution is
// debited and recorded.
type ContributionAccepted struct {
	Week        int
	OrderID     string
	Participant string
	Amount      float64
}

// LockCreated is emitted when a stake lock is opened.
type LockCreated struct {
	Week int
	Lock model.StakeLock
}

// VoteCast is emitted when a quadratic vote is recorded.
type VoteCast struct {
	Week int
	Vote model.Vote
}

// Emitter receives domain events. Implementations must not block the
// weekly loop; the simulation treats emission as fire-and-forget.
type Emitter interface {
	EmitDistribution(e TokenDistribution)
	EmitContribution(e ContributionAccepted)
	EmitLockCreated(e LockCreated)
	EmitVoteCast(e VoteCast)
}

// Noop discards all events. Used when no bus is wired.
type Noop struct{}

func (Noop) EmitDistribution(TokenDistribution)    {}
func (Noop) EmitContribution(ContributionAccepted) {}
func (Noop) EmitLockCreated(LockCreated)           {}
func (Noop) EmitVoteCast(VoteCast)                 {}
