package textparse

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// RulesParser guesses offline with an amount regex and a keyword table.
type RulesParser struct{}

func NewRulesParser() *RulesParser { return &RulesParser{} }

// amountRe tries thousands-grouped amounts ("1,200.50") before plain ones,
// where a comma may be the decimal mark ("15,49").
var amountRe = regexp.MustCompile(`(?:[$€£]\s*)?\b(?:(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?)|(\d+(?:[.,]\d{1,2})?))\b`)

var keywords = map[model.Category][]string{
	model.CategoryShopping:      {"amazon", "target", "clothes", "shoes", "mall", "ikea", "shopping"},
	model.CategoryFitness:       {"gym", "yoga", "fitness", "equinox", "peloton", "pilates"},
	model.CategoryDining:        {"coffee", "cafe", "restaurant", "lunch", "dinner", "breakfast", "pizza", "burger", "starbucks", "takeout", "sushi"},
	model.CategoryGroceries:     {"grocery", "groceries", "supermarket", "whole foods", "trader joe's", "safeway", "kroger", "aldi"},
	model.CategoryAutomotive:    {"gas", "fuel", "shell", "chevron", "parking", "car wash", "oil change", "tires"},
	model.CategoryTravel:        {"flight", "airline", "hotel", "airbnb", "uber", "lyft", "train", "taxi"},
	model.CategoryHealth:        {"pharmacy", "doctor", "dentist", "cvs", "walgreens", "medicine", "clinic"},
	model.CategoryEntertainment: {"netflix", "spotify", "movie", "cinema", "concert", "hulu", "disney", "tickets"},
	model.CategoryUtilities:     {"electric", "electricity", "water bill", "internet", "phone bill", "utility", "comcast", "verizon"},
	model.CategoryBabyItems:     {"diaper", "diapers", "baby", "formula", "stroller"},
	model.CategoryEducation:     {"tuition", "course", "textbook", "udemy", "school", "class"},
}

var keywordRes = compileKeywords()

func compileKeywords() map[model.Category]*regexp.Regexp {
	out := make(map[model.Category]*regexp.Regexp, len(keywords))
	for c, words := range keywords {
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(w)
		}
		out[c] = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return out
}

// Parse never fails.
func (p *RulesParser) Parse(_ context.Context, text string) (Guess, error) {
	text = strings.Join(strings.Fields(text), " ")
	g := Guess{Amount: decimal.Zero, Category: guessCategory(text)}

	if loc := amountRe.FindStringSubmatchIndex(text); loc != nil {
		var num string
		if loc[2] >= 0 {
			num = strings.ReplaceAll(text[loc[2]:loc[3]], ",", "")
		} else {
			num = strings.Replace(text[loc[4]:loc[5]], ",", ".", 1)
		}
		if d, err := decimal.NewFromString(num); err == nil {
			g.Amount = d
		}
		g.Description = strings.TrimSpace(text[:loc[0]] + " " + text[loc[1]:])
		g.Description = strings.Join(strings.Fields(g.Description), " ")
	}
	return sanitize(g, text), nil
}

// guessCategory returns the first category in enum order whose keywords
// appear in text.
func guessCategory(text string) model.Category {
	for _, c := range model.Categories {
		if re, ok := keywordRes[c]; ok && re.MatchString(text) {
			return c
		}
	}
	return model.CategoryOther
}
