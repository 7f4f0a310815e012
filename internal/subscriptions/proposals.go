// Package subscriptions decides which recurring payments are due this month
// and turns accepted proposals into transactions. Nothing here runs on a
// timer; every answer is derived from the inputs at call time.
package subscriptions

import (
	"time"

	"github.com/spendwise-dev/spendwise/internal/aggregate"
	"github.com/spendwise-dev/spendwise/internal/model"
)

// State is the derived per-month status of a subscription.
type State string

const (
	Inactive  State = "inactive"
	Fulfilled State = "fulfilled"
	Proposed  State = "proposed"
)

// Status reports where sub stands for now's calendar month. A subscription
// is fulfilled once any transaction tagged with its id falls in that month.
func Status(sub model.Subscription, txns []model.Transaction, now time.Time) State {
	if !sub.Active {
		return Inactive
	}
	for _, t := range txns {
		if t.SubscriptionID == sub.ID && aggregate.SameMonth(t.Date, now) {
			return Fulfilled
		}
	}
	return Proposed
}

// ListProposals returns the subscriptions that are still due this month, in
// registry order. Transactions tagged with ids no longer in subs are ignored.
func ListProposals(subs []model.Subscription, txns []model.Transaction, now time.Time) []model.Subscription {
	fulfilled := make(map[string]bool)
	for _, t := range txns {
		if t.SubscriptionID != "" && aggregate.SameMonth(t.Date, now) {
			fulfilled[t.SubscriptionID] = true
		}
	}

	out := []model.Subscription{}
	for _, s := range subs {
		if s.Active && !fulfilled[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// DueDate is local midnight on the subscription's day in now's month, with
// the day clamped to the month length.
func DueDate(sub model.Subscription, now time.Time) time.Time {
	day := min(max(sub.DayOfMonth, 1), aggregate.LastDayOfMonth(now))
	return time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location())
}

// Accept builds this month's transaction for sub. The caller supplies the
// new transaction id and is responsible for storing the result.
func Accept(sub model.Subscription, now time.Time, id string) model.Transaction {
	return model.Transaction{
		ID:             id,
		Description:    sub.Description,
		Vendor:         sub.Vendor,
		Amount:         sub.Amount,
		Category:       sub.Category.Normalize(),
		Date:           DueDate(sub, now),
		SubscriptionID: sub.ID,
	}
}

// FromTransaction creates the subscription spawned by a transaction recorded
// as recurring. The transaction's day becomes the billing day.
func FromTransaction(t model.Transaction, id string) model.Subscription {
	return model.Subscription{
		ID:          id,
		Description: t.Description,
		Vendor:      t.Vendor,
		Amount:      t.Amount,
		Category:    t.Category.Normalize(),
		DayOfMonth:  t.Date.Day(),
		Active:      true,
	}
}

// Remove returns subs without id and whether anything was removed. The input
// slice is not modified. Transactions that reference id keep their tag.
func Remove(subs []model.Subscription, id string) ([]model.Subscription, bool) {
	out := make([]model.Subscription, 0, len(subs))
	found := false
	for _, s := range subs {
		if s.ID == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	return out, found
}
