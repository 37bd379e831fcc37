// Package ledger tracks FoodUSD accounts, a 1:1 value-stable internal
// currency used for budget and spending tracking.
package ledger

// Account holds one participant's currency balance and cumulative
// per-category spend. Accounts persist to the end of a run.
type Account struct {
	Owner         string
	Balance       float64
	CategorySpend map[string]float64
}

// SpendResult reports the outcome of a weekly spend attempt. A
// declined spend is a normal result, not an error; the week continues
// for other participants.
type SpendResult struct {
	Accepted  bool
	Requested float64
	Spent     float64
}

// Model is the spending ledger for all participants in one run.
// Accounts are summed in creation order so aggregate balances come
// out identical run to run.
type Model struct {
	accounts   map[string]*Account
	order      []string
	totalSpend float64
}

// NewModel creates an empty ledger.
func NewModel() *Model {
	return &Model{accounts: make(map[string]*Account)}
}

// Fund credits a participant's account, creating it on first use.
func (m *Model) Fund(id string, amount float64) {
	if amount <= 0 {
		return
	}
	m.account(id).Balance += amount
}

// Spend applies a category breakdown (proportional splits summing to
// 1.0) of the given weekly budget. The whole spend either succeeds or
// is skipped: if the total exceeds the available balance the spend is
// declined and nothing is debited.
func (m *Model) Spend(id string, budget float64, categorySplit map[string]float64) SpendResult {
	acct := m.account(id)
	if budget <= 0 {
		return SpendResult{Accepted: true}
	}
	if budget > acct.Balance {
		return SpendResult{Accepted: false, Requested: budget}
	}
	for category, share := range categorySplit {
		acct.CategorySpend[category] += budget * share
	}
	acct.Balance -= budget
	m.totalSpend += budget
	return SpendResult{Accepted: true, Requested: budget, Spent: budget}
}

// Debit removes funds without category attribution (group-order
// contributions). Returns false if the balance is insufficient.
func (m *Model) Debit(id string, amount float64) bool {
	acct := m.account(id)
	if amount <= 0 || amount > acct.Balance {
		return false
	}
	acct.Balance -= amount
	return true
}

// Credit returns funds to an account (refunds, savings).
func (m *Model) Credit(id string, amount float64) {
	if amount <= 0 {
		return
	}
	m.account(id).Balance += amount
}

// Balance returns a participant's current currency balance.
func (m *Model) Balance(id string) float64 {
	if acct, ok := m.accounts[id]; ok {
		return acct.Balance
	}
	return 0
}

// CategorySpend returns a copy of a participant's cumulative spend by
// category.
func (m *Model) CategorySpend(id string) map[string]float64 {
	out := make(map[string]float64)
	if acct, ok := m.accounts[id]; ok {
		for k, v := range acct.CategorySpend {
			out[k] = v
		}
	}
	return out
}

// TotalSpend returns cumulative successful spending across all
// participants.
func (m *Model) TotalSpend() float64 {
	return m.totalSpend
}

// TotalBalance sums all account balances in creation order.
func (m *Model) TotalBalance() float64 {
	total := 0.0
	for _, id := range m.order {
		total += m.accounts[id].Balance
	}
	return total
}

func (m *Model) account(id string) *Account {
	acct, ok := m.accounts[id]
	if !ok {
		acct = &Account{Owner: id, CategorySpend: make(map[string]float64)}
		m.accounts[id] = acct
		m.order = append(m.order, id)
	}
	return acct
}
