package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single recorded purchase. Amount is always positive.
type Transaction struct {
	ID             string          `json:"id"`
	Description    string          `json:"description"`
	Vendor         string          `json:"vendor"`
	Amount         decimal.Decimal `json:"amount"`
	Category       Category        `json:"category"`
	Date           time.Time       `json:"date"`
	SubscriptionID string          `json:"subscriptionId,omitempty"`
}

// Recurring reports whether the transaction carries a subscription tag.
// The referenced subscription may no longer exist.
func (t Transaction) Recurring() bool {
	return t.SubscriptionID != ""
}

// Subscription is a recurring payment template. DayOfMonth is 1-31 and is
// clamped to the month length when a transaction is synthesized from it.
type Subscription struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Vendor      string          `json:"vendor"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	DayOfMonth  int             `json:"dayOfMonth"`
	Active      bool            `json:"active"`
}

// DefaultBudget is the monthly limit used until the user sets one.
var DefaultBudget = decimal.NewFromInt(2000)

// State is the full persisted dataset.
type State struct {
	Transactions  []Transaction   `json:"transactions"`
	Subscriptions []Subscription  `json:"subscriptions"`
	Budget        decimal.Decimal `json:"budget"`
}

// EmptyState returns a first-run dataset.
func EmptyState() State {
	return State{
		Transactions:  []Transaction{},
		Subscriptions: []Subscription{},
		Budget:        DefaultBudget,
	}
}

// Clone returns a copy whose slices can be modified without affecting s.
func (s State) Clone() State {
	out := State{
		Transactions:  make([]Transaction, len(s.Transactions)),
		Subscriptions: make([]Subscription, len(s.Subscriptions)),
		Budget:        s.Budget,
	}
	copy(out.Transactions, s.Transactions)
	copy(out.Subscriptions, s.Subscriptions)
	return out
}

// FindTransaction returns the index of the transaction with id, or -1.
func (s State) FindTransaction(id string) int {
	for i, t := range s.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// FindSubscription returns the index of the subscription with id, or -1.
func (s State) FindSubscription(id string) int {
	for i, sub := range s.Subscriptions {
		if sub.ID == id {
			return i
		}
	}
	return -1
}
