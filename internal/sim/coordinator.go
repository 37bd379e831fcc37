// Package sim steps the five economy models together week by week.
package sim

import (
	"fmt"

	"CoopSim/internal/event"
	"CoopSim/internal/governance"
	"CoopSim/internal/groupbuy"
	"CoopSim/internal/issuance"
	"CoopSim/internal/ledger"
	"CoopSim/internal/model"
	"CoopSim/internal/staking"
	"CoopSim/internal/stats"
)

// SpendingConfig parameterizes per-participant weekly funding and
// spending draws.
type SpendingConfig struct {
	WeeklyIncomeMean   float64
	WeeklyIncomeStdDev float64
	MinWeeklyIncome    float64
	WeeklyBudgetMean   float64
	WeeklyBudgetStdDev float64
	MinWeeklyBudget    float64
	// CategorySplit is the proportional breakdown of each weekly
	// spend, e.g. groceries 0.60 / prepared 0.25 / dining 0.15.
	CategorySplit map[string]float64
	CoopFee       float64
}

// ActivityConfig parameterizes the stochastic participant behavior
// that feeds the group-buy, staking, and governance models.
type ActivityConfig struct {
	OrderProbability        float64
	OrderTargetMean         float64
	OrderTargetStdDev       float64
	ContributionProbability float64
	ContributionMean        float64
	StakeProbability        float64
	// StakeShare is the fraction of the liquid token balance staked
	// when a participant decides to lock.
	StakeShare          float64
	MaxLockYears        int
	ProposalProbability float64
	VoteProbability     float64
	MaxVotesPerBallot   int
}

// Config assembles everything a Coordinator needs for one run.
type Config struct {
	Seed       int64
	Issuance   issuance.Config
	GroupBuy   groupbuy.Config
	Staking    staking.Config
	Governance governance.Config
	Spending   SpendingConfig
	Activity   ActivityConfig
}

// Coordinator exclusively owns one instance of each sub-model for the
// duration of one run. It must never be shared across runs: every
// validation run constructs a fresh Coordinator.
type Coordinator struct {
	cfg     Config
	sampler *stats.Sampler
	emitter event.Emitter

	Tokens     *issuance.Model
	Ledger     *ledger.Model
	GroupBuy   *groupbuy.Model
	Vault      *staking.Vault
	Governance *governance.Model

	roster      []string
	incomes     map[string]float64
	budgets     map[string]float64
	initialized bool
	lastWeek    int

	history []model.WeeklySnapshot
}

// NewCoordinator wires the five sub-models together with explicit
// references (vault reads token balances, group buying reads ledger
// balances). A nil emitter discards events.
func NewCoordinator(cfg Config, emitter event.Emitter) *Coordinator {
	if emitter == nil {
		emitter = event.Noop{}
	}
	sampler := stats.NewSampler(cfg.Seed)
	tokens := issuance.NewModel(cfg.Issuance, sampler)
	led := ledger.NewModel()
	return &Coordinator{
		cfg:        cfg,
		sampler:    sampler,
		emitter:    emitter,
		Tokens:     tokens,
		Ledger:     led,
		GroupBuy:   groupbuy.NewModel(cfg.GroupBuy, led),
		Vault:      staking.NewVault(cfg.Staking, tokens),
		Governance: nil,
		incomes:    make(map[string]float64),
		budgets:    make(map[string]float64),
	}
}

// Initialize seeds all five sub-models from the population roster and
// draws each participant's fixed weekly income and budget. Calling it
// twice is a fatal misuse: a Coordinator serves exactly one run.
func (c *Coordinator) Initialize(population *model.PopulationConfig) error {
	if c.initialized {
		return fmt.Errorf("coordinator already initialized: construct a fresh coordinator per run")
	}
	if population == nil || len(population.Participants) == 0 {
		return model.NewConfigError("population", "must contain at least one participant")
	}
	c.roster = population.IDs()
	c.Tokens.Initialize(c.roster)
	c.Governance = governance.NewModel(c.cfg.Governance, c.Vault)
	for _, p := range population.Participants {
		c.Ledger.Fund(p.ID, p.InitialWealth)
		income := c.sampler.Gauss(c.cfg.Spending.WeeklyIncomeMean, c.cfg.Spending.WeeklyIncomeStdDev)
		if income < c.cfg.Spending.MinWeeklyIncome {
			income = c.cfg.Spending.MinWeeklyIncome
		}
		c.incomes[p.ID] = income
		budget := c.sampler.Gauss(c.cfg.Spending.WeeklyBudgetMean, c.cfg.Spending.WeeklyBudgetStdDev)
		if budget < c.cfg.Spending.MinWeeklyBudget {
			budget = c.cfg.Spending.MinWeeklyBudget
		}
		c.budgets[p.ID] = budget
	}
	c.initialized = true
	return nil
}

// ProcessWeek advances the economy by one week. The sub-model order
// is fixed: issuance, funding and spending, group-order lifecycle,
// staking accrual, governance resolution. Later steps read balances
// mutated by earlier ones in the same week, so the order is part of
// the contract. Weeks must be processed strictly in sequence.
func (c *Coordinator) ProcessWeek(week int, budgets map[string]float64) (*model.WeeklySnapshot, error) {
	if !c.initialized {
		return nil, fmt.Errorf("coordinator not initialized")
	}
	if week != c.lastWeek+1 {
		return nil, fmt.Errorf("week %d out of order: expected %d", week, c.lastWeek+1)
	}
	c.lastWeek = week
	if budgets == nil {
		budgets = c.budgets
	}

	snap := model.WeeklySnapshot{Week: week}

	// 1. Token issuance.
	for _, e := range c.Tokens.DistributeWeekly(week) {
		snap.TokensDistributed += e.Amount
		c.emitter.EmitDistribution(e)
	}

	// 2. Funding, then the weekly spend. All-or-nothing per
	// participant; declines leave the week intact for everyone else.
	spendAccepted := 0
	for _, id := range c.roster {
		c.Ledger.Fund(id, c.incomes[id])
		res := c.Ledger.Spend(id, budgets[id], c.cfg.Spending.CategorySplit)
		if res.Accepted {
			snap.TotalSpend += res.Spent
			spendAccepted++
		}
		if c.cfg.Spending.CoopFee > 0 {
			c.Ledger.Debit(id, c.cfg.Spending.CoopFee)
		}
	}

	// 3. Group purchasing: new orders, contributions, then lifecycle.
	savingsBefore := c.GroupBuy.TotalSavings()
	c.stepGroupBuying(week)
	c.GroupBuy.Tick(week)
	snap.SavingsGenerated = c.GroupBuy.TotalSavings() - savingsBefore
	snap.OpenOrders = len(c.GroupBuy.OpenOrders())
	snap.FulfilledOrders = c.GroupBuy.FulfilledCount()

	// 4. Staking: new locks, interest accrual, matured withdrawals.
	c.stepStaking(week)
	c.Vault.AccrueInterest(week)
	for _, id := range c.Vault.MaturedLocks() {
		c.Vault.Withdraw(id, week)
	}
	snap.TotalStaked = c.Vault.TotalStaked()
	snap.TotalInterestAccrued = c.Vault.TotalInterestAccrued()
	snap.ActiveLocks = c.Vault.ActiveLockCount()

	// 5. Governance: proposals, votes, then deadline resolution.
	votesBefore := c.Governance.VoteCount()
	c.stepGovernance(week)
	c.Governance.Tick(week)
	snap.VotesCast = c.Governance.VoteCount() - votesBefore
	snap.ProposalsActive = len(c.Governance.OpenProposals())
	passed, _, _ := c.Governance.ResolvedCounts()
	snap.ProposalsPassed = passed

	snap.TotalSupplyDistributed = c.Tokens.TotalDistributed()
	if len(c.roster) > 0 {
		snap.ParticipationRate = float64(spendAccepted) / float64(len(c.roster))
		snap.GovernanceParticipation = float64(c.Governance.DistinctVoters()) / float64(len(c.roster))
	}

	c.history = append(c.history, snap)
	return &snap, nil
}

// stepGroupBuying draws this week's order creations and contributions.
func (c *Coordinator) stepGroupBuying(week int) {
	a := c.cfg.Activity
	for _, id := range c.roster {
		if !c.sampler.Bernoulli(a.OrderProbability) {
			continue
		}
		target := c.sampler.Gauss(a.OrderTargetMean, a.OrderTargetStdDev)
		if target <= 0 {
			continue
		}
		supplier := fmt.Sprintf("supplier-%d", c.sampler.Intn(10))
		c.GroupBuy.CreateOrder(id, supplier, target, "groceries", week)
	}
	open := c.GroupBuy.OpenOrders()
	if len(open) == 0 {
		return
	}
	for _, id := range c.roster {
		if !c.sampler.Bernoulli(a.ContributionProbability) {
			continue
		}
		orderID := open[c.sampler.Intn(len(open))]
		amount := c.sampler.Gauss(a.ContributionMean, a.ContributionMean/4)
		if amount <= 0 {
			continue
		}
		if c.GroupBuy.Contribute(orderID, id, amount, week) {
			c.emitter.EmitContribution(event.ContributionAccepted{
				Week: week, OrderID: orderID, Participant: id, Amount: amount,
			})
		}
	}
}

// stepStaking draws this week's lock creations.
func (c *Coordinator) stepStaking(week int) {
	a := c.cfg.Activity
	for _, id := range c.roster {
		if !c.sampler.Bernoulli(a.StakeProbability) {
			continue
		}
		amount := c.Tokens.Balance(id) * a.StakeShare
		if amount <= 0 {
			continue
		}
		maxYears := a.MaxLockYears
		if maxYears < 1 {
			maxYears = 1
		}
		years := 1 + c.sampler.Intn(maxYears)
		if lock := c.Vault.CreateLock(id, amount, years, week); lock != nil {
			c.emitter.EmitLockCreated(event.LockCreated{Week: week, Lock: *lock})
		}
	}
}

// stepGovernance draws this week's proposals and votes.
func (c *Coordinator) stepGovernance(week int) {
	a := c.cfg.Activity
	for _, id := range c.roster {
		if !c.sampler.Bernoulli(a.ProposalProbability) {
			continue
		}
		desc := fmt.Sprintf("week %d community proposal by %s", week, id)
		c.Governance.CreateProposal(id, desc, "operations", week)
	}
	open := c.Governance.OpenProposals()
	if len(open) == 0 {
		return
	}
	maxVotes := a.MaxVotesPerBallot
	if maxVotes < 1 {
		maxVotes = 1
	}
	for _, id := range c.roster {
		if !c.sampler.Bernoulli(a.VoteProbability) {
			continue
		}
		proposalID := open[c.sampler.Intn(len(open))]
		votes := float64(1 + c.sampler.Intn(maxVotes))
		support := c.sampler.Bernoulli(0.6)
		if c.Governance.CastVote(proposalID, id, votes, support, week) {
			c.emitter.EmitVoteCast(event.VoteCast{Week: week, Vote: model.Vote{
				ProposalID: proposalID, Voter: id, Votes: votes, Cost: votes * votes, Support: support, Week: week,
			}})
		}
	}
}

// History returns the weekly snapshots accumulated so far.
func (c *Coordinator) History() []model.WeeklySnapshot {
	return c.history
}

// AggregateStatistics merges each sub-model's statistics into one
// cross-model view at the current week.
func (c *Coordinator) AggregateStatistics() model.AggregateStatistics {
	agg := model.AggregateStatistics{
		Week:                   c.lastWeek,
		Participants:           len(c.roster),
		TotalTokensDistributed: c.Tokens.TotalDistributed(),
		TreasuryReserve:        c.Tokens.TreasuryReserve(),
		TotalCurrencyBalance:   c.Ledger.TotalBalance(),
		TotalSpend:             c.Ledger.TotalSpend(),
		TotalSavingsGenerated:  c.GroupBuy.TotalSavings(),
		TotalValueLocked:       c.Vault.TotalStaked(),
		TotalInterestAccrued:   c.Vault.TotalInterestAccrued(),
	}
	if len(c.history) > 0 {
		last := c.history[len(c.history)-1]
		agg.ParticipationRate = last.ParticipationRate
		agg.GovernanceEngagement = last.GovernanceParticipation
	}
	if c.Governance != nil {
		passed, rejected, expired := c.Governance.ResolvedCounts()
		agg.ProposalsResolved = passed + rejected + expired
	}
	return agg
}
