// Package groupbuy pools participant contributions into bulk orders
// that unlock a savings discount when fulfilled.
package groupbuy

import (
	"github.com/google/uuid"

	"CoopSim/internal/ledger"
	"CoopSim/internal/model"
)

// Config holds group purchasing parameters.
type Config struct {
	// SavingsRate is the discount applied pro-rata on fulfillment.
	SavingsRate float64
	// MinParticipants is the distinct-contributor floor for
	// fulfillment.
	MinParticipants int
	// ExpiryWeeks is how many weeks an order stays open before
	// contributions are returned.
	ExpiryWeeks int
}

// Model manages the group order lifecycle. Contributions are debited
// from the injected spending ledger and refunded to it on expiry.
type Model struct {
	cfg    Config
	ledger *ledger.Model

	orders  map[string]*model.GroupOrder
	orderID []string

	totalSavings    float64
	fulfilledOrders int
	expiredOrders   int
}

// NewModel creates a group purchase model backed by the given ledger.
func NewModel(cfg Config, led *ledger.Model) *Model {
	return &Model{
		cfg:    cfg,
		ledger: led,
		orders: make(map[string]*model.GroupOrder),
	}
}

// CreateOrder opens a new order and returns its id.
func (m *Model) CreateOrder(creator, supplier string, targetAmount float64, category string, week int) string {
	order := &model.GroupOrder{
		ID:            uuid.NewString(),
		Creator:       creator,
		Supplier:      supplier,
		TargetAmount:  targetAmount,
		Category:      category,
		WeekCreated:   week,
		Contributions: make(map[string]float64),
		Status:        model.OrderOpen,
	}
	m.orders[order.ID] = order
	m.orderID = append(m.orderID, order.ID)
	return order.ID
}

// Contribute debits the participant's ledger balance and records the
// contribution. It is accepted only while the order is open and the
// participant can cover the amount. Fulfillment is checked
// immediately so an order can close mid-week.
func (m *Model) Contribute(orderID, participant string, amount float64, week int) bool {
	order, ok := m.orders[orderID]
	if !ok || order.Status != model.OrderOpen || amount <= 0 {
		return false
	}
	if !m.ledger.Debit(participant, amount) {
		return false
	}
	if _, seen := order.Contributions[participant]; !seen {
		order.Contributors = append(order.Contributors, participant)
	}
	order.Contributions[participant] += amount
	if order.TotalContributed() >= order.TargetAmount && order.ContributorCount() >= m.cfg.MinParticipants {
		m.fulfill(order, week)
	}
	return true
}

// Tick expires orders whose window has elapsed, refunding all
// contributions to the ledger.
func (m *Model) Tick(week int) {
	for _, id := range m.orderID {
		order := m.orders[id]
		if order.Status != model.OrderOpen {
			continue
		}
		if week-order.WeekCreated >= m.cfg.ExpiryWeeks {
			order.Status = model.OrderExpired
			order.WeekResolved = week
			m.expiredOrders++
			for _, participant := range order.Contributors {
				m.ledger.Credit(participant, order.Contributions[participant])
			}
		}
	}
}

// fulfill closes the order and refunds the savings share of each
// contribution, so a $100 contribution costs $85 at the default 15%.
// Contributors are walked in first-contribution order so the savings
// total accumulates identically on every run.
func (m *Model) fulfill(order *model.GroupOrder, week int) {
	order.Status = model.OrderFulfilled
	order.WeekResolved = week
	for _, participant := range order.Contributors {
		saving := order.Contributions[participant] * m.cfg.SavingsRate
		m.ledger.Credit(participant, saving)
		order.SavingsGenerated += saving
	}
	m.totalSavings += order.SavingsGenerated
	m.fulfilledOrders++
}

// Order returns the order with the given id, or nil.
func (m *Model) Order(id string) *model.GroupOrder {
	return m.orders[id]
}

// OpenOrders returns ids of orders still accepting contributions, in
// creation order.
func (m *Model) OpenOrders() []string {
	var open []string
	for _, id := range m.orderID {
		if m.orders[id].Status == model.OrderOpen {
			open = append(open, id)
		}
	}
	return open
}

// TotalSavings returns cumulative savings generated by fulfilled
// orders.
func (m *Model) TotalSavings() float64 {
	return m.totalSavings
}

// FulfilledCount returns how many orders have been fulfilled.
func (m *Model) FulfilledCount() int {
	return m.fulfilledOrders
}

// ExpiredCount returns how many orders have expired.
func (m *Model) ExpiredCount() int {
	return m.expiredOrders
}
