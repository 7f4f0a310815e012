package categories

import "github.com/spendwise-dev/spendwise/internal/model"

// defaultTable returns the display metadata for every category.
func defaultTable() []Meta {
	return []Meta{
		{Category: model.CategoryShopping, Color: "#FF2D55", Icon: "shopping-bag"},
		{Category: model.CategoryFitness, Color: "#5856D6", Icon: "dumbbell"},
		{Category: model.CategoryDining, Color: "#FF9500", Icon: "utensils"},
		{Category: model.CategoryGroceries, Color: "#4CD964", Icon: "shopping-cart"},
		{Category: model.CategoryAutomotive, Color: "#8E8E93", Icon: "car"},
		{Category: model.CategoryTravel, Color: "#5AC8FA", Icon: "plane"},
		{Category: model.CategoryHealth, Color: "#FF3B30", Icon: "heart-pulse"},
		{Category: model.CategoryEntertainment, Color: "#AF52DE", Icon: "ticket"},
		{Category: model.CategoryUtilities, Color: "#FFCC00", Icon: "zap"},
		{Category: model.CategoryBabyItems, Color: "#1AC2E6", Icon: "baby"},
		{Category: model.CategoryEducation, Color: "#007AFF", Icon: "graduation-cap"},
		{Category: model.CategoryOther, Color: "#C7C7CC", Icon: "more-horizontal"},
	}
}
