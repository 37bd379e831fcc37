package staking

import (
	"math"
	"testing"

	"CoopSim/internal/issuance"
	"CoopSim/internal/model"
	"CoopSim/internal/stats"
)

func testVault(t *testing.T) (*Vault, *issuance.Model) {
	t.Helper()
	tokens := issuance.NewModel(issuance.Config{SupplyCap: 1e6}, stats.NewSampler(1))
	tokens.Initialize([]string{"alice", "bob"})
	tokens.Credit("alice", 1000)
	tokens.Credit("bob", 1000)
	v := NewVault(Config{BaseAPR: 0.05, LockBonusPerYear: 0.02, MaxAPR: 0.15, PeriodsPerYear: 52}, tokens)
	return v, tokens
}

func TestEffectiveAPR_MonotonicAndClamped(t *testing.T) {
	v, _ := testVault(t)
	prev := 0.0
	for years := 1; years <= 4; years++ {
		apr := v.EffectiveAPR(years)
		if apr < prev {
			t.Fatalf("APR decreased at %d years: %.4f < %.4f", years, apr, prev)
		}
		prev = apr
	}
	if apr := v.EffectiveAPR(1); apr != 0.05 {
		t.Errorf("expected base APR 0.05 for 1 year, got %.4f", apr)
	}
	// 0.05 + 0.02*99 clamps at the cap.
	if apr := v.EffectiveAPR(100); apr != 0.15 {
		t.Errorf("expected clamped APR 0.15, got %.4f", apr)
	}
}

func TestCreateLock_Validation(t *testing.T) {
	v, tokens := testVault(t)
	if v.CreateLock("alice", 100, 0, 1) != nil {
		t.Error("accepted 0-year lock")
	}
	if v.CreateLock("alice", 100, 5, 1) != nil {
		t.Error("accepted 5-year lock")
	}
	if v.CreateLock("alice", 5000, 2, 1) != nil {
		t.Error("accepted lock over liquid balance")
	}
	if tokens.Balance("alice") != 1000 {
		t.Fatalf("rejected locks mutated balance: %.2f", tokens.Balance("alice"))
	}
	lock := v.CreateLock("alice", 100, 2, 1)
	if lock == nil {
		t.Fatal("valid lock rejected")
	}
	if lock.Owner != "alice" || lock.Principal != 100 || lock.LockYears != 2 || lock.WeekCreated != 1 {
		t.Fatalf("returned lock does not match request: %+v", lock)
	}
	if lock.Status != model.LockActive {
		t.Fatalf("expected active status on new lock, got %s", lock.Status)
	}
	if tokens.Balance("alice") != 900 {
		t.Fatalf("expected liquid balance 900 after lock, got %.2f", tokens.Balance("alice"))
	}
	if v.TotalStaked() != 100 {
		t.Fatalf("expected total staked 100, got %.2f", v.TotalStaked())
	}
}

func TestAccrueInterest_CompoundAndIdempotent(t *testing.T) {
	v, _ := testVault(t)
	v.CreateLock("alice", 100, 1, 0)

	v.AccrueInterest(52)
	// 100 * ((1 + 0.05/52)^(52/52) - 1)
	want := 100 * (math.Pow(1+0.05/52, 1) - 1)
	locks := v.MaturedLocks()
	if len(locks) != 1 {
		t.Fatalf("expected lock matured at week 52, got %d matured", len(locks))
	}
	got := v.Lock(locks[0]).AccruedInterest
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected accrued %.8f, got %.8f", want, got)
	}

	// Re-accruing the same week must not double-count.
	v.AccrueInterest(52)
	if math.Abs(v.TotalInterestAccrued()-want) > 1e-9 {
		t.Fatalf("repeated accrual changed total: %.8f vs %.8f", v.TotalInterestAccrued(), want)
	}
}

func TestWithdraw_EarlyRejected(t *testing.T) {
	v, tokens := testVault(t)
	v.CreateLock("alice", 100, 2, 0)
	v.AccrueInterest(50)

	locks := v.MaturedLocks()
	if len(locks) != 0 {
		t.Fatalf("lock matured early: %v", locks)
	}
	// Reach into the vault's only lock directly.
	id := v.lockID[0]
	if v.Withdraw(id, 50) {
		t.Fatal("early withdrawal accepted")
	}

	v.AccrueInterest(104)
	if !v.Withdraw(id, 104) {
		t.Fatal("matured withdrawal rejected")
	}
	if tokens.Balance("alice") <= 1000 {
		t.Fatalf("expected principal plus interest back, balance %.4f", tokens.Balance("alice"))
	}
	if v.Withdraw(id, 104) {
		t.Fatal("double withdrawal accepted")
	}
	if v.Lock(id).Status != model.LockWithdrawn {
		t.Fatalf("expected withdrawn status, got %s", v.Lock(id).Status)
	}
}

func TestVotingPower_Formula(t *testing.T) {
	v, _ := testVault(t)
	v.CreateLock("alice", 100, 1, 0)
	v.CreateLock("bob", 100, 4, 0)

	// sqrt(100) * (1 + 0.5*(years-1))
	if p := v.VotingPower("alice"); math.Abs(p-10) > 1e-9 {
		t.Errorf("expected power 10 for 1-year lock, got %.4f", p)
	}
	if p := v.VotingPower("bob"); math.Abs(p-25) > 1e-9 {
		t.Errorf("expected power 25 for 4-year lock, got %.4f", p)
	}
	if p := v.TotalVotingPower(); math.Abs(p-35) > 1e-9 {
		t.Errorf("expected total power 35, got %.4f", p)
	}
	if p := v.VotingPower("carol"); p != 0 {
		t.Errorf("expected zero power without locks, got %.4f", p)
	}
}
