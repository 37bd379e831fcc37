// Package governance implements quadratic-cost voting on proposals,
// with voting power derived from the staking vault.
package governance

import (
	"github.com/google/uuid"

	"CoopSim/internal/model"
	"CoopSim/internal/staking"
)

// Config holds governance parameters.
type Config struct {
	// ProposalThreshold is the minimum voting power a proposer needs.
	ProposalThreshold float64
	VotingPeriodWeeks int
	// QuorumPercent is the fraction of total eligible voting power
	// that must be spent on a proposal for it to be decidable.
	QuorumPercent float64
}

// Model manages proposals and votes for one simulation run.
type Model struct {
	cfg   Config
	vault *staking.Vault

	proposals  map[string]*model.Proposal
	proposalID []string
	votes      []model.Vote
	// spent tracks voting power used per proposal per voter.
	spent map[string]map[string]float64
	// spentPower accumulates each proposal's total spent power in
	// cast order, so quorum checks do not depend on map iteration.
	spentPower map[string]float64

	passed   int
	rejected int
	expired  int
	voters   map[string]bool
}

// NewModel creates a governance model reading voting power from the
// given vault.
func NewModel(cfg Config, vault *staking.Vault) *Model {
	return &Model{
		cfg:        cfg,
		vault:      vault,
		proposals:  make(map[string]*model.Proposal),
		spent:      make(map[string]map[string]float64),
		spentPower: make(map[string]float64),
		voters:     make(map[string]bool),
	}
}

// CreateProposal opens a proposal if the proposer's voting power meets
// the threshold. Returns the proposal id and whether it was accepted.
func (m *Model) CreateProposal(proposer, description, category string, week int) (string, bool) {
	if m.vault.VotingPower(proposer) < m.cfg.ProposalThreshold {
		return "", false
	}
	p := &model.Proposal{
		ID:           uuid.NewString(),
		Proposer:     proposer,
		Description:  description,
		Category:     category,
		WeekCreated:  week,
		DeadlineWeek: week + m.cfg.VotingPeriodWeeks,
		Status:       model.ProposalVoting,
	}
	m.proposals[p.ID] = p
	m.proposalID = append(m.proposalID, p.ID)
	m.spent[p.ID] = make(map[string]float64)
	return p.ID, true
}

// CastVote casts v votes at quadratic cost v². The cost is drawn from
// the voter's per-proposal voting-power budget; a request exceeding
// the remaining budget is rejected.
func (m *Model) CastVote(proposalID, voter string, votes float64, support bool, week int) bool {
	p, ok := m.proposals[proposalID]
	if !ok || p.Status != model.ProposalVoting || votes <= 0 {
		return false
	}
	if week > p.DeadlineWeek {
		return false
	}
	cost := votes * votes
	budget := m.vault.VotingPower(voter)
	if m.spent[proposalID][voter]+cost > budget {
		return false
	}
	m.spent[proposalID][voter] += cost
	m.spentPower[proposalID] += cost
	if support {
		p.VotesFor += votes
	} else {
		p.VotesAgainst += votes
	}
	m.votes = append(m.votes, model.Vote{
		ProposalID: proposalID,
		Voter:      voter,
		Votes:      votes,
		Cost:       cost,
		Support:    support,
		Week:       week,
	})
	m.voters[voter] = true
	return true
}

// Tick force-resolves every proposal whose deadline has passed.
// Passed requires spent voting power to reach the quorum share of
// total eligible power and a strict for-majority. A proposal with no
// votes at all expires instead.
func (m *Model) Tick(week int) {
	for _, id := range m.proposalID {
		p := m.proposals[id]
		if p.Status != model.ProposalVoting || week < p.DeadlineWeek {
			continue
		}
		if p.VotesFor == 0 && p.VotesAgainst == 0 {
			p.Status = model.ProposalExpired
			m.expired++
			continue
		}
		participation := m.spentPower[id]
		eligible := m.vault.TotalVotingPower()
		quorumMet := eligible > 0 && participation >= m.cfg.QuorumPercent*eligible
		if quorumMet && p.VotesFor > p.VotesAgainst {
			p.Status = model.ProposalPassed
			m.passed++
		} else {
			p.Status = model.ProposalRejected
			m.rejected++
		}
	}
}

// Proposal returns the proposal with the given id, or nil.
func (m *Model) Proposal(id string) *model.Proposal {
	return m.proposals[id]
}

// SpentPower returns the total voting power spent on a proposal so
// far, accumulated in cast order.
func (m *Model) SpentPower(proposalID string) float64 {
	return m.spentPower[proposalID]
}

// OpenProposals returns ids of proposals still in voting, in creation
// order.
func (m *Model) OpenProposals() []string {
	var open []string
	for _, id := range m.proposalID {
		if m.proposals[id].Status == model.ProposalVoting {
			open = append(open, id)
		}
	}
	return open
}

// Votes returns all recorded votes in cast order.
func (m *Model) Votes() []model.Vote {
	return m.votes
}

// VoteCount returns the number of recorded votes.
func (m *Model) VoteCount() int {
	return len(m.votes)
}

// DistinctVoters returns how many participants have ever voted.
func (m *Model) DistinctVoters() int {
	return len(m.voters)
}

// ResolvedCounts returns passed, rejected, and expired totals.
func (m *Model) ResolvedCounts() (passed, rejected, expired int) {
	return m.passed, m.rejected, m.expired
}
