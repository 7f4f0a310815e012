// Package categories holds the static display table for spending categories.
package categories

import "github.com/spendwise-dev/spendwise/internal/model"

// Meta is the display metadata for one category.
type Meta struct {
	Category model.Category
	Color    string // "#RRGGBB"
	Icon     string
}

// Label is the human readable name.
func (m Meta) Label() string {
	return string(m.Category)
}

var (
	table = defaultTable()
	byCat = indexTable(table)
)

func indexTable(metas []Meta) map[model.Category]Meta {
	idx := make(map[model.Category]Meta, len(metas))
	for _, m := range metas {
		idx[m.Category] = m
	}
	return idx
}

// All returns the metadata for every category in display order.
func All() []Meta {
	out := make([]Meta, len(table))
	copy(out, table)
	return out
}

// Lookup returns the metadata for c. Unknown categories get the Other entry.
func Lookup(c model.Category) Meta {
	if m, ok := byCat[c]; ok {
		return m
	}
	return byCat[model.DefaultCategory]
}

// Color is shorthand for Lookup(c).Color.
func Color(c model.Category) string {
	return Lookup(c).Color
}
