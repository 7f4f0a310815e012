// Package backup writes and reads the single-document JSON backup format.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// Document is the exported file. Budget is written as a bare JSON number.
type Document struct {
	Transactions  []model.Transaction  `json:"transactions"`
	Subscriptions []model.Subscription `json:"subscriptions"`
	Budget        json.Number          `json:"budget"`
	ExportedAt    time.Time            `json:"exportedAt"`
	Version       string               `json:"version"`
}

// FileName is the default export name for the given day.
func FileName(now time.Time) string {
	return "spendwise-backup-" + now.Format("2006-01-02") + ".json"
}

// Export writes state as an indented backup document.
func Export(w io.Writer, state model.State, now time.Time, version string) error {
	doc := Document{
		Transactions:  state.Transactions,
		Subscriptions: state.Subscriptions,
		Budget:        json.Number(state.Budget.String()),
		ExportedAt:    now,
		Version:       version,
	}
	if doc.Transactions == nil {
		doc.Transactions = []model.Transaction{}
	}
	if doc.Subscriptions == nil {
		doc.Subscriptions = []model.Subscription{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

// ImportError explains why a backup was rejected. State is never touched
// when it is returned.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid backup: %s: %v", e.Reason, e.Err)
	}
	return "invalid backup: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

type incoming struct {
	Transactions  *[]model.Transaction  `json:"transactions"`
	Subscriptions *[]model.Subscription `json:"subscriptions"`
	Budget        *decimal.Decimal      `json:"budget"`
}

// Import decodes a backup into a complete replacement state. Missing lists
// become empty and a missing budget becomes the default. Unknown categories
// map to Other; unknown top-level fields are ignored.
func Import(r io.Reader) (model.State, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return model.State{}, &ImportError{Reason: "reading file", Err: err}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return model.State{}, &ImportError{Reason: "file is empty"}
	}

	var in incoming
	if err := json.Unmarshal(raw, &in); err != nil {
		return model.State{}, &ImportError{Reason: "malformed JSON", Err: err}
	}
	if in.Transactions == nil && in.Subscriptions == nil && in.Budget == nil {
		return model.State{}, &ImportError{Reason: "no transactions, subscriptions or budget found"}
	}

	state := model.EmptyState()
	if in.Transactions != nil && *in.Transactions != nil {
		state.Transactions = *in.Transactions
	}
	if in.Subscriptions != nil && *in.Subscriptions != nil {
		state.Subscriptions = *in.Subscriptions
	}
	if in.Budget != nil {
		state.Budget = *in.Budget
	}

	if err := check(state); err != nil {
		return model.State{}, err
	}
	return state, nil
}

func check(state model.State) error {
	if state.Budget.IsNegative() {
		return &ImportError{Reason: fmt.Sprintf("budget %s is negative", state.Budget)}
	}

	seen := make(map[string]bool, len(state.Transactions))
	for i, t := range state.Transactions {
		switch {
		case t.ID == "":
			return &ImportError{Reason: fmt.Sprintf("transaction %d has no id", i)}
		case seen[t.ID]:
			return &ImportError{Reason: fmt.Sprintf("transaction id %q appears twice", t.ID)}
		case !t.Amount.IsPositive():
			return &ImportError{Reason: fmt.Sprintf("transaction %q amount %s is not positive", t.ID, t.Amount)}
		case t.Date.IsZero():
			return &ImportError{Reason: fmt.Sprintf("transaction %q has no date", t.ID)}
		}
		seen[t.ID] = true
	}

	seen = make(map[string]bool, len(state.Subscriptions))
	for i, s := range state.Subscriptions {
		switch {
		case s.ID == "":
			return &ImportError{Reason: fmt.Sprintf("subscription %d has no id", i)}
		case seen[s.ID]:
			return &ImportError{Reason: fmt.Sprintf("subscription id %q appears twice", s.ID)}
		case s.DayOfMonth < 1 || s.DayOfMonth > 31:
			return &ImportError{Reason: fmt.Sprintf("subscription %q dayOfMonth %d is out of range", s.ID, s.DayOfMonth)}
		}
		seen[s.ID] = true
	}
	return nil
}
