// Package issuance implements weekly stochastic GroToken distribution.
package issuance

import (
	"log"

	"CoopSim/internal/event"
	"CoopSim/internal/stats"
)

// Config holds the token distribution parameters.
type Config struct {
	// ParticipationRate is the per-week probability that a given
	// participant receives a distribution.
	ParticipationRate float64
	RewardMean        float64
	RewardStdDev      float64
	RewardMin         float64
	RewardMax         float64
	// SupplyCap is the total mintable supply. Distribution stops,
	// without error, once it is reached.
	SupplyCap     float64
	TokenValueUSD float64
}

// Model distributes tokens to a random subset of participants each week.
type Model struct {
	cfg     Config
	sampler *stats.Sampler

	order            []string
	balances         map[string]float64
	totalDistributed float64
	capReached       bool
	weeksDistributed int
}

// NewModel creates an issuance model drawing from the given sampler.
func NewModel(cfg Config, sampler *stats.Sampler) *Model {
	return &Model{
		cfg:      cfg,
		sampler:  sampler,
		balances: make(map[string]float64),
	}
}

// Initialize seeds zero balances for the participant roster. The
// roster order fixes the iteration order for reproducibility.
func (m *Model) Initialize(participants []string) {
	m.order = make([]string, len(participants))
	copy(m.order, participants)
	for _, id := range participants {
		m.balances[id] = 0
	}
}

// DistributeWeekly selects participants with the configured
// probability and grants each a Gaussian-drawn amount clamped to
// [RewardMin, RewardMax] and floored at zero. Returns one event per
// participant funded.
func (m *Model) DistributeWeekly(week int) []event.TokenDistribution {
	if m.capReached {
		return nil
	}
	var events []event.TokenDistribution
	for _, id := range m.order {
		if m.capReached {
			break
		}
		if !m.sampler.Bernoulli(m.cfg.ParticipationRate) {
			continue
		}
		amount := m.sampler.GaussClamped(m.cfg.RewardMean, m.cfg.RewardStdDev, m.cfg.RewardMin, m.cfg.RewardMax)
		remaining := m.cfg.SupplyCap - m.totalDistributed
		if amount >= remaining {
			amount = remaining
			m.capReached = true
			log.Printf("[WARN] token supply cap %.2f reached in week %d, distribution stopped", m.cfg.SupplyCap, week)
		}
		if amount <= 0 {
			continue
		}
		m.balances[id] += amount
		m.totalDistributed += amount
		events = append(events, event.TokenDistribution{Week: week, Participant: id, Amount: amount})
	}
	m.weeksDistributed++
	return events
}

// Balance returns the liquid token balance of a participant.
func (m *Model) Balance(id string) float64 {
	return m.balances[id]
}

// Debit removes tokens from a participant's liquid balance. Returns
// false, leaving the balance untouched, if funds are insufficient.
func (m *Model) Debit(id string, amount float64) bool {
	if amount <= 0 {
		return false
	}
	if m.balances[id] < amount {
		return false
	}
	m.balances[id] -= amount
	return true
}

// Credit adds tokens back to a participant's liquid balance (stake
// withdrawals, refunds).
func (m *Model) Credit(id string, amount float64) {
	if amount <= 0 {
		return
	}
	m.balances[id] += amount
}

// TotalDistributed returns cumulative tokens minted to participants.
func (m *Model) TotalDistributed() float64 {
	return m.totalDistributed
}

// TreasuryReserve returns the unminted remainder of the supply cap.
func (m *Model) TreasuryReserve() float64 {
	return m.cfg.SupplyCap - m.totalDistributed
}

// CapReached reports whether the supply cap stopped distribution.
func (m *Model) CapReached() bool {
	return m.capReached
}

// TokenValueUSD returns the fixed currency value of one token.
func (m *Model) TokenValueUSD() float64 {
	return m.cfg.TokenValueUSD
}

// TotalLiquidBalance sums all participant liquid balances in roster
// order.
func (m *Model) TotalLiquidBalance() float64 {
	total := 0.0
	for _, id := range m.order {
		total += m.balances[id]
	}
	return total
}
