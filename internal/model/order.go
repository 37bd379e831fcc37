package model

// OrderStatus tracks the lifecycle of a group purchase order.
type OrderStatus string

const (
	OrderOpen      OrderStatus = "OPEN"
	OrderFulfilled OrderStatus = "FULFILLED"
	OrderExpired   OrderStatus = "EXPIRED"
)

// GroupOrder pools participant contributions toward a bulk purchase.
type GroupOrder struct {
	ID            string
	Creator       string
	Supplier      string
	TargetAmount  float64
	Category      string
	WeekCreated   int
	Contributions map[string]float64
	// Contributors lists distinct contributors in first-contribution
	// order. Aggregations iterate this slice so their floating-point
	// accumulation order is stable across runs.
	Contributors []string
	Status       OrderStatus
	// SavingsGenerated is total discount refunded when fulfilled.
	SavingsGenerated float64
	WeekResolved     int
}

// TotalContributed sums all contributions on the order, in
// first-contribution order.
func (o *GroupOrder) TotalContributed() float64 {
	total := 0.0
	for _, id := range o.Contributors {
		total += o.Contributions[id]
	}
	return total
}

// ContributorCount returns the number of distinct contributors.
func (o *GroupOrder) ContributorCount() int {
	return len(o.Contributions)
}
