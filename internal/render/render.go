// Package render formats tracker state for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/activity"
	"github.com/spendwise-dev/spendwise/internal/aggregate"
	"github.com/spendwise-dev/spendwise/internal/categories"
	"github.com/spendwise-dev/spendwise/internal/id"
	"github.com/spendwise-dev/spendwise/internal/model"
	"github.com/spendwise-dev/spendwise/internal/subscriptions"
)

const (
	barWidth    = 30
	nameWidth   = 14
	vendorWidth = 16
	descWidth   = 24
)

var (
	red   = lipgloss.Color("#f38ba8")
	green = lipgloss.Color("#a6e3a1")
	blue  = lipgloss.Color("#89b4fa")
	muted = lipgloss.Color("#7f849c")
)

// Printer writes human readable views. With Styled off the output is plain
// text, which is what tests and pipes get.
type Printer struct {
	w        io.Writer
	currency string
	styled   bool
}

func New(w io.Writer, currency string, styled bool) *Printer {
	return &Printer{w: w, currency: currency, styled: styled}
}

func (p *Printer) paint(s string, color lipgloss.TerminalColor, bold bool) string {
	if !p.styled {
		return s
	}
	return lipgloss.NewStyle().Foreground(color).Bold(bold).Render(s)
}

func (p *Printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Money formats an amount with two decimals and the currency symbol.
func (p *Printer) Money(d decimal.Decimal) string {
	return p.currency + d.StringFixed(2)
}

// Bar draws a fixed-width progress bar for percent (0-100).
func Bar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Summary prints the budget card for a dashboard window.
func (p *Printer) Summary(d aggregate.Dashboard) {
	st := d.Status
	p.line("%s", p.paint(strings.ToUpper(d.Range.Label())+" SPENDING", muted, false))

	goal := "Goal: " + p.Money(st.Budget)
	if st.Over {
		goal = p.paint(goal, red, true)
	} else {
		goal = p.paint(goal, green, true)
	}
	p.line("%s  %s", p.paint(p.Money(d.Total), lipgloss.NoColor{}, true), goal)

	barColor := blue
	if st.Over {
		barColor = red
	}
	p.line("%s", p.paint(Bar(st.Percent, barWidth), barColor, false))

	if st.Over {
		p.line("You're %s over limit.", p.Money(st.OverAmount))
	} else {
		p.line("You've used %d%% of your target.", st.Percent)
	}
}

// Breakdown prints category totals largest first, with each share of total.
func (p *Printer) Breakdown(rows []aggregate.CategoryTotal, total decimal.Decimal) {
	if len(rows) == 0 {
		p.line("%s", p.paint("No spending in this period.", muted, false))
		return
	}
	for _, r := range rows {
		meta := categories.Lookup(r.Category)
		share := 0
		if total.IsPositive() {
			share = int(r.Total.Div(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
		}
		name := fmt.Sprintf("%-*s", nameWidth, ansi.Truncate(meta.Label(), nameWidth, ""))
		p.line("%s %12s %4d%%", p.paint(name, lipgloss.Color(meta.Color), false), p.Money(r.Total), share)
	}
}

// Transactions prints one row per transaction in the given order.
func (p *Printer) Transactions(txns []model.Transaction) {
	if len(txns) == 0 {
		p.line("%s", p.paint("No transactions yet.", muted, false))
		return
	}
	for _, t := range txns {
		marker := " "
		if t.Recurring() {
			marker = "↻"
		}
		cat := fmt.Sprintf("%-*s", nameWidth, ansi.Truncate(categories.Lookup(t.Category).Label(), nameWidth, ""))
		p.line("%s  %s  %-*s  %-*s %s %12s  %s",
			t.Date.Format("2006-01-02"),
			t.ID,
			descWidth, ansi.Truncate(t.Description, descWidth, "…"),
			vendorWidth, ansi.Truncate(t.Vendor, vendorWidth, "…"),
			marker,
			p.Money(t.Amount),
			p.paint(cat, lipgloss.Color(categories.Color(t.Category)), false),
		)
	}
}

// Proposals prints the subscriptions still due this month with the date
// accepting them would use.
func (p *Printer) Proposals(subs []model.Subscription, now time.Time) {
	if len(subs) == 0 {
		p.line("%s", p.paint("Nothing due this month.", muted, false))
		return
	}
	p.line("%s", p.paint(fmt.Sprintf("%d pending this month", len(subs)), blue, true))
	for _, s := range subs {
		due := subscriptions.DueDate(s, now)
		p.line("%s  %s  %-*s %12s  due %s",
			p.paint("+", blue, true),
			s.ID,
			descWidth, ansi.Truncate(s.Description+" ("+s.Vendor+")", descWidth, "…"),
			p.Money(s.Amount),
			due.Format("Jan 2"),
		)
	}
}

// Subscriptions prints the whole registry with each entry's state for now's
// month.
func (p *Printer) Subscriptions(subs []model.Subscription, txns []model.Transaction, now time.Time) {
	if len(subs) == 0 {
		p.line("%s", p.paint("No subscriptions.", muted, false))
		return
	}
	for _, s := range subs {
		state := subscriptions.Status(s, txns, now)
		label := string(state)
		switch state {
		case subscriptions.Fulfilled:
			label = p.paint(label, green, false)
		case subscriptions.Proposed:
			label = p.paint(label, blue, false)
		default:
			label = p.paint(label, muted, false)
		}
		p.line("%s  %-*s %12s  day %2d  %s",
			s.ID,
			descWidth, ansi.Truncate(s.Description, descWidth, "…"),
			p.Money(s.Amount),
			s.DayOfMonth,
			label,
		)
	}
}

// Months prints the selectable months, marking the current one.
func (p *Printer) Months(months []time.Time, now time.Time) {
	for _, m := range months {
		mark := " "
		if aggregate.SameMonth(m, now) {
			mark = "*"
		}
		p.line("%s %s  %s", mark, id.FormatMonthKey(m), m.Format("January 2006"))
	}
}

// Activity prints log entries oldest first.
func (p *Printer) Activity(entries []activity.Entry) {
	if len(entries) == 0 {
		p.line("%s", p.paint("No activity recorded.", muted, false))
		return
	}
	for _, e := range entries {
		p.line("%s  %-20s %s", e.Timestamp.Format("2006-01-02 15:04"), e.Action, e.Details)
	}
}
