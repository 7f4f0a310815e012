// Package textparse turns free-form text like "coffee at blue bottle 4.50"
// into a best-effort transaction guess.
package textparse

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// Guess is a parser's reading of the text. Amount is zero when none was
// found. Category is always a valid enum value.
type Guess struct {
	Description string
	Amount      decimal.Decimal
	Category    model.Category
}

// Parser reads a guess out of text. An error means the parser could not be
// reached at all; callers treat it as "no guess".
type Parser interface {
	Parse(ctx context.Context, text string) (Guess, error)
}

// Fallback is the guess used when a reply cannot be understood.
func Fallback(text string) Guess {
	return Guess{
		Description: strings.TrimSpace(text),
		Amount:      decimal.Zero,
		Category:    model.CategoryOther,
	}
}

// sanitize applies the rules every parser result must satisfy.
func sanitize(g Guess, text string) Guess {
	g.Description = strings.TrimSpace(g.Description)
	if g.Description == "" {
		g.Description = strings.TrimSpace(text)
	}
	if g.Amount.IsNegative() {
		g.Amount = decimal.Zero
	}
	g.Category = g.Category.Normalize()
	return g
}
