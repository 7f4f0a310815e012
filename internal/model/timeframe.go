package model

import (
	"fmt"
	"strings"
)

// Timeframe names a dashboard date range selector.
type Timeframe string

const (
	TimeframeMonth       Timeframe = "Month"
	TimeframeSixMonths   Timeframe = "6 Months"
	TimeframeTwelveMonth Timeframe = "12 Months"
	TimeframeYTD         Timeframe = "YTD"
)

// Timeframes lists the selectors in display order.
var Timeframes = []Timeframe{TimeframeMonth, TimeframeSixMonths, TimeframeTwelveMonth, TimeframeYTD}

// ParseTimeframe accepts the display names plus the short forms
// month, 6m, 12m and ytd.
func ParseTimeframe(s string) (Timeframe, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month", "current":
		return TimeframeMonth, nil
	case "6m", "6 months", "6months":
		return TimeframeSixMonths, nil
	case "12m", "12 months", "12months":
		return TimeframeTwelveMonth, nil
	case "ytd":
		return TimeframeYTD, nil
	}
	return "", fmt.Errorf("unknown timeframe %q (want month, 6m, 12m or ytd)", s)
}
