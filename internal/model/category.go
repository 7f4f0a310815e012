package model

import "strings"

// Category is one of the fixed spending classifications.
type Category string

const (
	CategoryShopping      Category = "Shopping"
	CategoryFitness       Category = "Fitness"
	CategoryDining        Category = "Dining"
	CategoryGroceries     Category = "Groceries"
	CategoryAutomotive    Category = "Automotive"
	CategoryTravel        Category = "Travel"
	CategoryHealth        Category = "Health"
	CategoryEntertainment Category = "Entertainment"
	CategoryUtilities     Category = "Utilities"
	CategoryBabyItems     Category = "Baby Items"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

// DefaultCategory is used wherever an unknown category value shows up.
const DefaultCategory = CategoryOther

// Categories lists every category in display order.
var Categories = []Category{
	CategoryShopping,
	CategoryFitness,
	CategoryDining,
	CategoryGroceries,
	CategoryAutomotive,
	CategoryTravel,
	CategoryHealth,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryBabyItems,
	CategoryEducation,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Normalize returns c, or DefaultCategory when c is not a known value.
func (c Category) Normalize() Category {
	if c.Valid() {
		return c
	}
	return DefaultCategory
}

// ParseCategory matches s case-insensitively against the known categories.
// "baby_items", "babyitems" and "Baby Items" are all accepted. Anything else
// maps to DefaultCategory.
func ParseCategory(s string) Category {
	key := categoryKey(s)
	for _, c := range Categories {
		if categoryKey(string(c)) == key {
			return c
		}
	}
	return DefaultCategory
}

// UnmarshalText applies the ParseCategory fallback while decoding JSON or YAML.
func (c *Category) UnmarshalText(text []byte) error {
	*c = ParseCategory(string(text))
	return nil
}

// MarshalText writes the display name, normalizing unknown values.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Normalize()), nil
}

func categoryKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r >= 'a' && r <= 'z':
			return r
		}
		return -1
	}, s)
}
