package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"CoopSim/internal/governance"
	"CoopSim/internal/groupbuy"
	"CoopSim/internal/issuance"
	"CoopSim/internal/model"
	"CoopSim/internal/scenario"
	"CoopSim/internal/sim"
	"CoopSim/internal/staking"
)

// Config holds all application configuration.
type Config struct {
	Simulation struct {
		Seed               int64   `yaml:"seed"`
		HorizonWeeks       int     `yaml:"horizon_weeks"`
		WeeklyIncomeMean   float64 `yaml:"weekly_income_mean"`
		WeeklyIncomeStdDev float64 `yaml:"weekly_income_std_dev"`
		MinWeeklyIncome    float64 `yaml:"min_weekly_income"`
		WeeklyBudgetMean   float64 `yaml:"weekly_budget_mean"`
		WeeklyBudgetStdDev float64 `yaml:"weekly_budget_std_dev"`
		MinWeeklyBudget    float64 `yaml:"min_weekly_budget"`
		CoopFee            float64 `yaml:"coop_fee"`
		// CategorySplit shares should sum to 1.
		CategorySplit map[string]float64 `yaml:"category_split"`
	} `yaml:"simulation"`
	Issuance struct {
		ParticipationRate float64 `yaml:"participation_rate"`
		RewardMean        float64 `yaml:"reward_mean"`
		RewardStdDev      float64 `yaml:"reward_std_dev"`
		RewardMin         float64 `yaml:"reward_min"`
		RewardMax         float64 `yaml:"reward_max"`
		SupplyCap         float64 `yaml:"supply_cap"`
		TokenValueUSD     float64 `yaml:"token_value_usd"`
	} `yaml:"issuance"`
	GroupBuy struct {
		SavingsRate     float64 `yaml:"savings_rate"`
		MinParticipants int     `yaml:"min_participants"`
		ExpiryWeeks     int     `yaml:"expiry_weeks"`
	} `yaml:"group_buy"`
	Staking struct {
		BaseAPR          float64 `yaml:"base_apr"`
		LockBonusPerYear float64 `yaml:"lock_bonus_per_year"`
		MaxAPR           float64 `yaml:"max_apr"`
		PeriodsPerYear   float64 `yaml:"periods_per_year"`
	} `yaml:"staking"`
	Governance struct {
		ProposalThreshold float64 `yaml:"proposal_threshold"`
		VotingPeriodWeeks int     `yaml:"voting_period_weeks"`
		QuorumPercent     float64 `yaml:"quorum_percent"`
	} `yaml:"governance"`
	Activity struct {
		OrderProbability        float64 `yaml:"order_probability"`
		OrderTargetMean         float64 `yaml:"order_target_mean"`
		OrderTargetStdDev       float64 `yaml:"order_target_std_dev"`
		ContributionProbability float64 `yaml:"contribution_probability"`
		ContributionMean        float64 `yaml:"contribution_mean"`
		StakeProbability        float64 `yaml:"stake_probability"`
		StakeShare              float64 `yaml:"stake_share"`
		MaxLockYears            int     `yaml:"max_lock_years"`
		ProposalProbability     float64 `yaml:"proposal_probability"`
		VoteProbability         float64 `yaml:"vote_probability"`
		MaxVotesPerBallot       int     `yaml:"max_votes_per_ballot"`
	} `yaml:"activity"`
	Scenario struct {
		Members                int     `yaml:"members"`
		Weeks                  int     `yaml:"weeks"`
		InitialWealthMeanLog   float64 `yaml:"initial_wealth_mean_log"`
		InitialWealthSigmaLog  float64 `yaml:"initial_wealth_sigma_log"`
		LocalProductionSavings float64 `yaml:"local_production_savings"`
		InternalSpendMean      float64 `yaml:"internal_spend_mean"`
		InternalSpendStdDev    float64 `yaml:"internal_spend_std_dev"`
		TokenRewardMean        float64 `yaml:"token_reward_mean"`
		TokenRewardStdDev      float64 `yaml:"token_reward_std_dev"`
		PovertyLineMultiplier  float64 `yaml:"poverty_line_multiplier"`
	} `yaml:"scenario"`
	Projections []model.ProjectionModel `yaml:"projections"`
	External    struct {
		DataFile string `yaml:"data_file"`
	} `yaml:"external"`
	Schedule struct {
		ValidationCron  string `yaml:"validation_cron"`
		CalibrationCron string `yaml:"calibration_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("COOPSIM_SEED"); v != "" {
		var seed int64
		if _, err := fmt.Sscanf(v, "%d", &seed); err == nil {
			cfg.Simulation.Seed = seed
		}
	}
	if v := os.Getenv("COOPSIM_HORIZON_WEEKS"); v != "" {
		var weeks int
		if _, err := fmt.Sscanf(v, "%d", &weeks); err == nil {
			cfg.Simulation.HorizonWeeks = weeks
		}
	}
	if v := os.Getenv("COOPSIM_EXTERNAL_DATA"); v != "" {
		cfg.External.DataFile = v
	}
	if v := os.Getenv("CRON_VALIDATION"); v != "" {
		cfg.Schedule.ValidationCron = v
	}
	if v := os.Getenv("CRON_CALIBRATION"); v != "" {
		cfg.Schedule.CalibrationCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Simulation.Seed == 0 {
		c.Simulation.Seed = 42
	}
	if c.Simulation.HorizonWeeks == 0 {
		c.Simulation.HorizonWeeks = 260
	}
	if c.Simulation.WeeklyIncomeMean == 0 {
		c.Simulation.WeeklyIncomeMean = 150
	}
	if c.Simulation.WeeklyIncomeStdDev == 0 {
		c.Simulation.WeeklyIncomeStdDev = 40
	}
	if c.Simulation.WeeklyBudgetMean == 0 {
		c.Simulation.WeeklyBudgetMean = 75
	}
	if c.Simulation.WeeklyBudgetStdDev == 0 {
		c.Simulation.WeeklyBudgetStdDev = 15
	}
	if c.Simulation.MinWeeklyBudget == 0 {
		c.Simulation.MinWeeklyBudget = 20
	}
	if c.Simulation.CoopFee == 0 {
		c.Simulation.CoopFee = 1
	}
	if len(c.Simulation.CategorySplit) == 0 {
		c.Simulation.CategorySplit = map[string]float64{
			"groceries": 0.60,
			"prepared":  0.25,
			"dining":    0.15,
		}
	}
	if c.Issuance.ParticipationRate == 0 {
		c.Issuance.ParticipationRate = 0.5
	}
	if c.Issuance.RewardMean == 0 {
		c.Issuance.RewardMean = 0.5
	}
	if c.Issuance.RewardStdDev == 0 {
		c.Issuance.RewardStdDev = 0.2
	}
	if c.Issuance.RewardMax == 0 {
		c.Issuance.RewardMax = 5
	}
	if c.Issuance.SupplyCap == 0 {
		c.Issuance.SupplyCap = 1_000_000
	}
	if c.Issuance.TokenValueUSD == 0 {
		c.Issuance.TokenValueUSD = 2
	}
	if c.GroupBuy.SavingsRate == 0 {
		c.GroupBuy.SavingsRate = 0.15
	}
	if c.GroupBuy.MinParticipants == 0 {
		c.GroupBuy.MinParticipants = 5
	}
	if c.GroupBuy.ExpiryWeeks == 0 {
		c.GroupBuy.ExpiryWeeks = 4
	}
	if c.Staking.BaseAPR == 0 {
		c.Staking.BaseAPR = 0.05
	}
	if c.Staking.LockBonusPerYear == 0 {
		c.Staking.LockBonusPerYear = 0.02
	}
	if c.Staking.MaxAPR == 0 {
		c.Staking.MaxAPR = 0.15
	}
	if c.Staking.PeriodsPerYear == 0 {
		c.Staking.PeriodsPerYear = 52
	}
	if c.Governance.ProposalThreshold == 0 {
		c.Governance.ProposalThreshold = 10
	}
	if c.Governance.VotingPeriodWeeks == 0 {
		c.Governance.VotingPeriodWeeks = 2
	}
	if c.Governance.QuorumPercent == 0 {
		c.Governance.QuorumPercent = 0.10
	}
	if c.Activity.OrderProbability == 0 {
		c.Activity.OrderProbability = 0.05
	}
	if c.Activity.OrderTargetMean == 0 {
		c.Activity.OrderTargetMean = 500
	}
	if c.Activity.OrderTargetStdDev == 0 {
		c.Activity.OrderTargetStdDev = 100
	}
	if c.Activity.ContributionProbability == 0 {
		c.Activity.ContributionProbability = 0.30
	}
	if c.Activity.ContributionMean == 0 {
		c.Activity.ContributionMean = 25
	}
	if c.Activity.StakeProbability == 0 {
		c.Activity.StakeProbability = 0.10
	}
	if c.Activity.StakeShare == 0 {
		c.Activity.StakeShare = 0.5
	}
	if c.Activity.MaxLockYears == 0 {
		c.Activity.MaxLockYears = 4
	}
	if c.Activity.ProposalProbability == 0 {
		c.Activity.ProposalProbability = 0.01
	}
	if c.Activity.VoteProbability == 0 {
		c.Activity.VoteProbability = 0.20
	}
	if c.Activity.MaxVotesPerBallot == 0 {
		c.Activity.MaxVotesPerBallot = 5
	}
	if c.Scenario.Members == 0 {
		c.Scenario.Members = 50
	}
	if c.Scenario.Weeks == 0 {
		c.Scenario.Weeks = 52
	}
	if c.Scenario.InitialWealthMeanLog == 0 {
		c.Scenario.InitialWealthMeanLog = math.Log(1000)
	}
	if c.Scenario.InitialWealthSigmaLog == 0 {
		c.Scenario.InitialWealthSigmaLog = 0.6
	}
	if c.Scenario.LocalProductionSavings == 0 {
		c.Scenario.LocalProductionSavings = 0.25
	}
	if c.Scenario.InternalSpendMean == 0 {
		c.Scenario.InternalSpendMean = 0.60
	}
	if c.Scenario.InternalSpendStdDev == 0 {
		c.Scenario.InternalSpendStdDev = 0.20
	}
	if c.Scenario.TokenRewardMean == 0 {
		c.Scenario.TokenRewardMean = 0.5
	}
	if c.Scenario.TokenRewardStdDev == 0 {
		c.Scenario.TokenRewardStdDev = 0.2
	}
	if c.Scenario.PovertyLineMultiplier == 0 {
		c.Scenario.PovertyLineMultiplier = 4
	}
	if c.Schedule.ValidationCron == "" {
		c.Schedule.ValidationCron = "0 0 8 * * 1"
	}
	if c.Schedule.CalibrationCron == "" {
		c.Schedule.CalibrationCron = "0 0 9 1 * *"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/coopsim.db"
	}
}

// Validate checks that all required fields are set and coherent.
func (c *Config) Validate() error {
	if c.Simulation.HorizonWeeks <= 0 {
		return model.NewConfigError("simulation.horizon_weeks", "must be positive, got %d", c.Simulation.HorizonWeeks)
	}
	if c.Issuance.ParticipationRate < 0 || c.Issuance.ParticipationRate > 1 {
		return model.NewConfigError("issuance.participation_rate", "must be within [0, 1], got %.4f", c.Issuance.ParticipationRate)
	}
	if c.Issuance.SupplyCap <= 0 {
		return model.NewConfigError("issuance.supply_cap", "must be positive, got %.2f", c.Issuance.SupplyCap)
	}
	if c.GroupBuy.SavingsRate < 0 || c.GroupBuy.SavingsRate >= 1 {
		return model.NewConfigError("group_buy.savings_rate", "must be within [0, 1), got %.4f", c.GroupBuy.SavingsRate)
	}
	if c.Staking.BaseAPR < 0 || c.Staking.MaxAPR < c.Staking.BaseAPR {
		return model.NewConfigError("staking", "require 0 <= base_apr <= max_apr, got base %.4f max %.4f", c.Staking.BaseAPR, c.Staking.MaxAPR)
	}
	if c.Governance.QuorumPercent < 0 || c.Governance.QuorumPercent > 1 {
		return model.NewConfigError("governance.quorum_percent", "must be within [0, 1], got %.4f", c.Governance.QuorumPercent)
	}
	var split float64
	for _, share := range c.Simulation.CategorySplit {
		split += share
	}
	if split < 0.999 || split > 1.001 {
		return model.NewConfigError("simulation.category_split", "shares must sum to 1, got %.4f", split)
	}
	for i, p := range c.Projections {
		if p.Name == "" {
			return model.NewConfigError("projections", "entry %d has no name", i)
		}
	}
	return nil
}

// SimConfig assembles the baseline coordinator configuration.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Seed: c.Simulation.Seed,
		Issuance: issuance.Config{
			ParticipationRate: c.Issuance.ParticipationRate,
			RewardMean:        c.Issuance.RewardMean,
			RewardStdDev:      c.Issuance.RewardStdDev,
			RewardMin:         c.Issuance.RewardMin,
			RewardMax:         c.Issuance.RewardMax,
			SupplyCap:         c.Issuance.SupplyCap,
			TokenValueUSD:     c.Issuance.TokenValueUSD,
		},
		GroupBuy: groupbuy.Config{
			SavingsRate:     c.GroupBuy.SavingsRate,
			MinParticipants: c.GroupBuy.MinParticipants,
			ExpiryWeeks:     c.GroupBuy.ExpiryWeeks,
		},
		Staking: staking.Config{
			BaseAPR:          c.Staking.BaseAPR,
			LockBonusPerYear: c.Staking.LockBonusPerYear,
			MaxAPR:           c.Staking.MaxAPR,
			PeriodsPerYear:   c.Staking.PeriodsPerYear,
		},
		Governance: governance.Config{
			ProposalThreshold: c.Governance.ProposalThreshold,
			VotingPeriodWeeks: c.Governance.VotingPeriodWeeks,
			QuorumPercent:     c.Governance.QuorumPercent,
		},
		Spending: sim.SpendingConfig{
			WeeklyIncomeMean:   c.Simulation.WeeklyIncomeMean,
			WeeklyIncomeStdDev: c.Simulation.WeeklyIncomeStdDev,
			MinWeeklyIncome:    c.Simulation.MinWeeklyIncome,
			WeeklyBudgetMean:   c.Simulation.WeeklyBudgetMean,
			WeeklyBudgetStdDev: c.Simulation.WeeklyBudgetStdDev,
			MinWeeklyBudget:    c.Simulation.MinWeeklyBudget,
			CategorySplit:      c.Simulation.CategorySplit,
			CoopFee:            c.Simulation.CoopFee,
		},
		Activity: sim.ActivityConfig{
			OrderProbability:        c.Activity.OrderProbability,
			OrderTargetMean:         c.Activity.OrderTargetMean,
			OrderTargetStdDev:       c.Activity.OrderTargetStdDev,
			ContributionProbability: c.Activity.ContributionProbability,
			ContributionMean:        c.Activity.ContributionMean,
			StakeProbability:        c.Activity.StakeProbability,
			StakeShare:              c.Activity.StakeShare,
			MaxLockYears:            c.Activity.MaxLockYears,
			ProposalProbability:     c.Activity.ProposalProbability,
			VoteProbability:         c.Activity.VoteProbability,
			MaxVotesPerBallot:       c.Activity.MaxVotesPerBallot,
		},
	}
}

// ScenarioConfig assembles the A/B comparison configuration.
func (c *Config) ScenarioConfig() scenario.Config {
	return scenario.Config{
		Members:                c.Scenario.Members,
		Weeks:                  c.Scenario.Weeks,
		Seed:                   c.Simulation.Seed,
		InitialWealthMeanLog:   c.Scenario.InitialWealthMeanLog,
		InitialWealthSigmaLog:  c.Scenario.InitialWealthSigmaLog,
		WeeklyFoodBudgetMean:   c.Simulation.WeeklyBudgetMean,
		WeeklyFoodBudgetStdDev: c.Simulation.WeeklyBudgetStdDev,
		MinWeeklyBudget:        c.Simulation.MinWeeklyBudget,
		WeeklyIncomeMean:       c.Simulation.WeeklyIncomeMean,
		WeeklyIncomeStdDev:     c.Simulation.WeeklyIncomeStdDev,
		MinWeeklyIncome:        c.Simulation.MinWeeklyIncome,
		GroupBuySavings:        c.GroupBuy.SavingsRate,
		LocalProductionSavings: c.Scenario.LocalProductionSavings,
		InternalSpendMean:      c.Scenario.InternalSpendMean,
		InternalSpendStdDev:    c.Scenario.InternalSpendStdDev,
		TokenRewardMean:        c.Scenario.TokenRewardMean,
		TokenRewardStdDev:      c.Scenario.TokenRewardStdDev,
		TokenValueUSD:          c.Issuance.TokenValueUSD,
		WeeklyCoopFee:          c.Simulation.CoopFee,
		PovertyLineMultiplier:  c.Scenario.PovertyLineMultiplier,
	}
}
