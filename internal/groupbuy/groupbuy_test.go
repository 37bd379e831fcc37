package groupbuy

import (
	"fmt"
	"math"
	"testing"

	"CoopSim/internal/ledger"
	"CoopSim/internal/model"
)

func testSetup(t *testing.T, members int) (*Model, *ledger.Model) {
	t.Helper()
	led := ledger.NewModel()
	for i := 0; i < members; i++ {
		led.Fund(fmt.Sprintf("P%d", i), 1000)
	}
	m := NewModel(Config{SavingsRate: 0.15, MinParticipants: 5, ExpiryWeeks: 4}, led)
	return m, led
}

func TestContribute_Fulfillment(t *testing.T) {
	m, led := testSetup(t, 5)
	orderID := m.CreateOrder("P0", "supplier-a", 500, "groceries", 1)

	// Five $100 contributions hit the target and the contributor floor.
	for i := 0; i < 5; i++ {
		if !m.Contribute(orderID, fmt.Sprintf("P%d", i), 100, 1) {
			t.Fatalf("contribution %d rejected", i)
		}
	}
	order := m.Order(orderID)
	if order.Status != model.OrderFulfilled {
		t.Fatalf("expected fulfilled, got %s", order.Status)
	}
	// Each $100 contribution costs $85 net at a 15% savings rate.
	for i := 0; i < 5; i++ {
		balance := led.Balance(fmt.Sprintf("P%d", i))
		if math.Abs(balance-915) > 1e-9 {
			t.Errorf("P%d: expected balance 915, got %.2f", i, balance)
		}
	}
	if math.Abs(m.TotalSavings()-75) > 1e-9 {
		t.Errorf("expected total savings 75, got %.2f", m.TotalSavings())
	}
	if m.FulfilledCount() != 1 {
		t.Errorf("expected 1 fulfilled order, got %d", m.FulfilledCount())
	}
}

func TestContribute_TargetWithoutEnoughContributors(t *testing.T) {
	m, _ := testSetup(t, 5)
	orderID := m.CreateOrder("P0", "supplier-a", 200, "groceries", 1)

	// Target reached by two contributors, below the floor of five.
	m.Contribute(orderID, "P0", 100, 1)
	m.Contribute(orderID, "P1", 150, 1)
	if m.Order(orderID).Status != model.OrderOpen {
		t.Fatalf("expected order to stay open, got %s", m.Order(orderID).Status)
	}
}

func TestTick_ExpiryRefunds(t *testing.T) {
	m, led := testSetup(t, 5)
	orderID := m.CreateOrder("P0", "supplier-a", 500, "groceries", 1)
	m.Contribute(orderID, "P0", 100, 1)
	m.Contribute(orderID, "P1", 50, 2)

	m.Tick(4) // week 4 - week 1 < 4, still open
	if m.Order(orderID).Status == model.OrderExpired {
		t.Fatal("order expired before its window elapsed")
	}
	m.Tick(5)
	if m.Order(orderID).Status != model.OrderExpired {
		t.Fatalf("expected expired, got %s", m.Order(orderID).Status)
	}
	if led.Balance("P0") != 1000 || led.Balance("P1") != 1000 {
		t.Errorf("expected full refunds, got %.2f and %.2f", led.Balance("P0"), led.Balance("P1"))
	}
	if m.ExpiredCount() != 1 {
		t.Errorf("expected 1 expired order, got %d", m.ExpiredCount())
	}
}

func TestContribute_RejectedCases(t *testing.T) {
	m, led := testSetup(t, 2)
	orderID := m.CreateOrder("P0", "supplier-a", 500, "groceries", 1)

	if m.Contribute("no-such-order", "P0", 100, 1) {
		t.Error("contribution to unknown order accepted")
	}
	if m.Contribute(orderID, "P0", -5, 1) {
		t.Error("negative contribution accepted")
	}
	if m.Contribute(orderID, "P0", 5000, 1) {
		t.Error("contribution over ledger balance accepted")
	}
	if led.Balance("P0") != 1000 {
		t.Errorf("rejected contributions mutated balance: %.2f", led.Balance("P0"))
	}
}

func TestFulfill_SavingsBitStableAcrossRuns(t *testing.T) {
	// Fractional contributions make the savings total sensitive to
	// floating-point accumulation order. Repeating the identical
	// order in fresh models must reproduce it bit for bit.
	amounts := []float64{71.3, 44.21, 99.7, 63.05, 18.9, 120.37, 83.19}

	run := func() (float64, float64) {
		m, _ := testSetup(t, len(amounts))
		orderID := m.CreateOrder("P0", "supplier-a", 500, "groceries", 1)
		for i, amount := range amounts {
			if !m.Contribute(orderID, fmt.Sprintf("P%d", i), amount, 1) {
				t.Fatalf("contribution %d rejected", i)
			}
		}
		order := m.Order(orderID)
		if order.Status != model.OrderFulfilled {
			t.Fatalf("expected fulfilled, got %s", order.Status)
		}
		return order.SavingsGenerated, m.TotalSavings()
	}

	wantGenerated, wantTotal := run()
	for trial := 1; trial < 10; trial++ {
		generated, total := run()
		if generated != wantGenerated {
			t.Fatalf("trial %d: SavingsGenerated %v, want %v", trial, generated, wantGenerated)
		}
		if total != wantTotal {
			t.Fatalf("trial %d: TotalSavings %v, want %v", trial, total, wantTotal)
		}
	}
}

func TestOpenOrders_CreationOrder(t *testing.T) {
	m, _ := testSetup(t, 2)
	first := m.CreateOrder("P0", "supplier-a", 500, "groceries", 1)
	second := m.CreateOrder("P1", "supplier-b", 300, "prepared", 1)

	open := m.OpenOrders()
	if len(open) != 2 || open[0] != first || open[1] != second {
		t.Fatalf("expected [%s %s], got %v", first, second, open)
	}
}
