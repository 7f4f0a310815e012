package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// ErrInvalidInput matches any *InputError.
var ErrInvalidInput = errors.New("invalid transaction input")

// TransactionInput is what a user supplies for a new or edited transaction.
// Category is free text and falls back to Other. A zero Date means now; a
// date at exactly midnight takes the current clock time on that day.
type TransactionInput struct {
	Description string
	Vendor      string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
}

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string
	Problem string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Problem)
}

// InputError carries every problem found in a TransactionInput.
type InputError struct {
	Problems []ValidationError
}

func (e *InputError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return "invalid transaction: " + strings.Join(msgs, "; ")
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validate checks the required fields. It never modifies in.
func Validate(in TransactionInput) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, ValidationError{Field: "description", Problem: "is required"})
	}
	if strings.TrimSpace(in.Vendor) == "" {
		errs = append(errs, ValidationError{Field: "vendor", Problem: "is required"})
	}
	if !in.Amount.IsPositive() {
		errs = append(errs, ValidationError{Field: "amount", Problem: "must be greater than zero"})
	}
	return errs
}

// resolveDate applies the date defaulting rules relative to now.
func resolveDate(d, now time.Time) time.Time {
	if d.IsZero() {
		return now
	}
	h, m, s := d.Clock()
	if h != 0 || m != 0 || s != 0 || d.Nanosecond() != 0 {
		return d
	}
	nh, nm, ns := now.Clock()
	return time.Date(d.Year(), d.Month(), d.Day(), nh, nm, ns, 0, d.Location())
}

func build(in TransactionInput, id string, now time.Time) model.Transaction {
	return model.Transaction{
		ID:          id,
		Description: strings.TrimSpace(in.Description),
		Vendor:      strings.TrimSpace(in.Vendor),
		Amount:      in.Amount,
		Category:    model.ParseCategory(in.Category),
		Date:        resolveDate(in.Date, now),
	}
}
