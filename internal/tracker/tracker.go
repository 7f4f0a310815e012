// Package tracker owns the in-memory state, applies every change through the
// aggregation and subscription engines, and persists each change as it
// happens.
package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/activity"
	"github.com/spendwise-dev/spendwise/internal/aggregate"
	"github.com/spendwise-dev/spendwise/internal/id"
	"github.com/spendwise-dev/spendwise/internal/model"
	"github.com/spendwise-dev/spendwise/internal/store"
	"github.com/spendwise-dev/spendwise/internal/subscriptions"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNotProposed    = errors.New("subscription is not proposed this month")
	ErrNegativeBudget = errors.New("budget must not be negative")
)

// Persister is the subset of store.Store the tracker writes through.
type Persister interface {
	Load() (model.State, error)
	SaveTransactions([]model.Transaction) error
	SaveSubscriptions([]model.Subscription) error
	SaveBudget(decimal.Decimal) error
	SaveAll(model.State) error
}

var _ Persister = (*store.Store)(nil)

// Recorder receives one entry per successful change.
type Recorder interface {
	Append(entries ...activity.Entry) error
}

// Committer snapshots the data directory after a change.
type Committer interface {
	Commit(action, summary string)
}

// Tracker serializes all mutations behind one lock. Readers get copies.
type Tracker struct {
	mu    sync.Mutex
	state model.State

	store     Persister
	recorder  Recorder
	committer Committer
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDs replaces the random id generator.
func WithIDs(next func() string) Option {
	return func(t *Tracker) { t.newID = next }
}

// WithRecorder sets where activity entries go.
func WithRecorder(r Recorder) Option {
	return func(t *Tracker) { t.recorder = r }
}

// WithCommitter enables data-dir snapshots after each change.
func WithCommitter(c Committer) Option {
	return func(t *Tracker) { t.committer = c }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// Open loads the persisted state and returns a ready Tracker.
func Open(p Persister, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store: p,
		log:   zerolog.Nop(),
		now:   time.Now,
		newID: id.New,
	}
	for _, o := range opts {
		o(t)
	}
	state, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	t.state = state
	t.log.Debug().
		Int("transactions", len(state.Transactions)).
		Int("subscriptions", len(state.Subscriptions)).
		Str("budget", state.Budget.String()).
		Msg("state loaded")
	return t, nil
}

// Now returns the tracker's clock reading.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() model.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Add validates in and stores a new transaction at the head of the list.
// When recurring is set it also registers a subscription billed on the
// transaction's day and tags the transaction with its id.
func (t *Tracker) Add(in TransactionInput, recurring bool) (model.Transaction, error) {
	if problems := Validate(in); len(problems) > 0 {
		return model.Transaction{}, &InputError{Problems: problems}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	txn := build(in, t.newID(), t.now())
	next := t.state.Clone()

	var sub model.Subscription
	if recurring {
		sub = subscriptions.FromTransaction(txn, t.newID())
		txn.SubscriptionID = sub.ID
		next.Subscriptions = append(next.Subscriptions, sub)
	}

	next.Transactions = append([]model.Transaction{txn}, next.Transactions...)
	if err := t.store.SaveTransactions(next.Transactions); err != nil {
		return model.Transaction{}, err
	}
	if recurring {
		// A failure here leaves an inert tag on a saved transaction.
		if err := t.store.SaveSubscriptions(next.Subscriptions); err != nil {
			t.state.Transactions = next.Transactions
			return txn, fmt.Errorf("saving subscription %s: %w", sub.ID, err)
		}
	}
	t.state = next

	t.record(activity.ActionAdd, describe(txn), txn.ID)
	return txn, nil
}

// AddMany stores every valid input with a single write and a single activity
// entry, as a bulk import does. The result holds the same order as
// sequential Add calls would. problems[i] is non-nil for each ins[i] that
// failed validation and was skipped. Nothing is stored if the write fails.
func (t *Tracker) AddMany(ins []TransactionInput, source string) ([]model.Transaction, []error, error) {
	problems := make([]error, len(ins))

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var added []model.Transaction
	for i, in := range ins {
		if p := Validate(in); len(p) > 0 {
			problems[i] = &InputError{Problems: p}
			continue
		}
		added = append(added, build(in, t.newID(), now))
	}
	if len(added) == 0 {
		return nil, problems, nil
	}

	next := t.state.Clone()
	head := make([]model.Transaction, 0, len(added)+len(next.Transactions))
	for i := len(added) - 1; i >= 0; i-- {
		head = append(head, added[i])
	}
	next.Transactions = append(head, next.Transactions...)
	if err := t.store.SaveTransactions(next.Transactions); err != nil {
		return nil, problems, err
	}
	t.state = next

	t.record(activity.ActionImport, fmt.Sprintf("%d transactions from %s", len(added), source), "")
	return added, problems, nil
}

// Edit replaces the transaction with id using in. The id and any
// subscription tag are kept. A zero in.Date keeps the existing date.
func (t *Tracker) Edit(txnID string, in TransactionInput) (model.Transaction, error) {
	if problems := Validate(in); len(problems) > 0 {
		return model.Transaction{}, &InputError{Problems: problems}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.state.FindTransaction(txnID)
	if i < 0 {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", txnID, ErrNotFound)
	}
	old := t.state.Transactions[i]

	txn := build(in, old.ID, t.now())
	if in.Date.IsZero() {
		txn.Date = old.Date
	}
	txn.SubscriptionID = old.SubscriptionID

	next := t.state.Clone()
	next.Transactions[i] = txn
	if err := t.store.SaveTransactions(next.Transactions); err != nil {
		return model.Transaction{}, err
	}
	t.state = next

	t.record(activity.ActionEdit, describe(txn), txn.ID)
	return txn, nil
}

// Delete removes a transaction.
func (t *Tracker) Delete(txnID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.state.FindTransaction(txnID)
	if i < 0 {
		return fmt.Errorf("transaction %s: %w", txnID, ErrNotFound)
	}
	removed := t.state.Transactions[i]

	next := t.state.Clone()
	next.Transactions = append(next.Transactions[:i], next.Transactions[i+1:]...)
	if err := t.store.SaveTransactions(next.Transactions); err != nil {
		return err
	}
	t.state = next

	t.record(activity.ActionDelete, describe(removed), removed.ID)
	return nil
}

// DeleteSubscription removes a subscription permanently. Transactions that
// were created from it keep their tag.
func (t *Tracker) DeleteSubscription(subID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.state.FindSubscription(subID)
	if i < 0 {
		return fmt.Errorf("subscription %s: %w", subID, ErrNotFound)
	}
	removed := t.state.Subscriptions[i]

	rest, _ := subscriptions.Remove(t.state.Subscriptions, subID)
	if err := t.store.SaveSubscriptions(rest); err != nil {
		return err
	}
	t.state.Subscriptions = rest

	t.record(activity.ActionDeleteSubscription, removed.Description+", "+removed.Vendor, removed.ID)
	return nil
}

// Proposals lists the subscriptions still due this month.
func (t *Tracker) Proposals() []model.Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()
	return subscriptions.ListProposals(t.state.Subscriptions, t.state.Transactions, t.now())
}

// AcceptProposal records this month's transaction for a proposed
// subscription.
func (t *Tracker) AcceptProposal(subID string) (model.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.state.FindSubscription(subID)
	if i < 0 {
		return model.Transaction{}, fmt.Errorf("subscription %s: %w", subID, ErrNotFound)
	}
	sub := t.state.Subscriptions[i]
	now := t.now()
	if st := subscriptions.Status(sub, t.state.Transactions, now); st != subscriptions.Proposed {
		return model.Transaction{}, fmt.Errorf("subscription %s is %s: %w", subID, st, ErrNotProposed)
	}

	txn := subscriptions.Accept(sub, now, t.newID())
	next := t.state.Clone()
	next.Transactions = append([]model.Transaction{txn}, next.Transactions...)
	if err := t.store.SaveTransactions(next.Transactions); err != nil {
		return model.Transaction{}, err
	}
	t.state = next

	t.record(activity.ActionAccept, describe(txn), txn.ID)
	return txn, nil
}

// SetBudget replaces the monthly budget.
func (t *Tracker) SetBudget(v decimal.Decimal) error {
	if v.IsNegative() {
		return ErrNegativeBudget
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.SaveBudget(v); err != nil {
		return err
	}
	t.state.Budget = v

	t.record(activity.ActionBudget, "set to "+v.StringFixed(2), "")
	return nil
}

// Replace overwrites all state, as a backup import does. Nothing changes
// if the write fails.
func (t *Tracker) Replace(state model.State) error {
	next := state.Clone()
	if next.Transactions == nil {
		next.Transactions = []model.Transaction{}
	}
	if next.Subscriptions == nil {
		next.Subscriptions = []model.Subscription{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.SaveAll(next); err != nil {
		return err
	}
	t.state = next

	t.record(activity.ActionImport, fmt.Sprintf("%d transactions, %d subscriptions, budget %s",
		len(next.Transactions), len(next.Subscriptions), next.Budget.StringFixed(2)), "")
	return nil
}

// Dashboard summarizes the chosen window. month only matters for
// model.TimeframeMonth; zero means the current month.
func (t *Tracker) Dashboard(tf model.Timeframe, month time.Time) (aggregate.Dashboard, error) {
	state := t.Snapshot()
	return aggregate.Summarize(state, tf, month, t.now())
}

// Months lists the months that have (or could have) data, newest first.
func (t *Tracker) Months() []time.Time {
	state := t.Snapshot()
	return aggregate.AvailableMonths(state.Transactions, t.now())
}

// record is called with t.mu held, after the change is saved.
func (t *Tracker) record(action, details, entityID string) {
	t.log.Debug().Str("action", action).Str("id", entityID).Msg(details)
	if t.recorder != nil {
		err := t.recorder.Append(activity.Entry{
			Timestamp: t.now(),
			Action:    action,
			Details:   details,
			EntityID:  entityID,
		})
		if err != nil {
			t.log.Warn().Err(err).Msg("activity log append failed")
		}
	}
	if t.committer != nil {
		t.committer.Commit(action, details)
	}
}

func describe(txn model.Transaction) string {
	return fmt.Sprintf("%s, %s %s (%s)", txn.Description, txn.Vendor, txn.Amount.StringFixed(2), txn.Category)
}
