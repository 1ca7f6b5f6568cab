// Package filter narrows an in-memory transaction list to user-selected criteria.
package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type DateRange string

const (
	AllDates  DateRange = "all"
	Today     DateRange = "today"
	ThisWeek  DateRange = "thisWeek"
	ThisMonth DateRange = "thisMonth"
)

// ParseDateRange never fails: anything it does not recognise selects all dates.
func ParseDateRange(s string) DateRange {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return Today
	case "thisweek", "this_week", "week":
		return ThisWeek
	case "thismonth", "this_month", "month":
		return ThisMonth
	default:
		return AllDates
	}
}

type Type string

const (
	AllTypes Type = "all"
	Income   Type = "income"
	Expense  Type = "expense"
)

func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income
	case "expense", "expenses":
		return Expense
	default:
		return AllTypes
	}
}

// AllCategories matches every category.
const AllCategories = "all"

type Criteria struct {
	DateRange DateRange
	Type      Type
	Category  string
}

// ParseCriteria builds criteria from raw user input, falling back to "all" for anything unknown.
func ParseCriteria(dateRange, typ, cat string) Criteria {
	c := strings.ToLower(strings.TrimSpace(cat))
	if c == "" {
		c = AllCategories
	}

	return Criteria{
		DateRange: ParseDateRange(dateRange),
		Type:      ParseType(typ),
		Category:  c,
	}
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (c Criteria) matchDate(d, now time.Time) bool {
	switch c.DateRange {
	case Today:
		return day(d).Equal(day(now))
	case ThisWeek:
		return !day(d).Before(day(now.AddDate(0, 0, -7)))
	case ThisMonth:
		return d.Year() == now.Year() && d.Month() == now.Month()
	default:
		return true
	}
}

func (c Criteria) matchType(t transaction.Type) bool {
	switch c.Type {
	case Income:
		return t == transaction.TypeIncome
	case Expense:
		return t == transaction.TypeExpense
	default:
		return true
	}
}

func (c Criteria) matchCategory(tx *transaction.Transaction) bool {
	if c.Category == "" || c.Category == AllCategories {
		return true
	}

	return tx.NormalizedCategory() == c.Category
}

// Match reports whether tx satisfies every predicate of c relative to now.
func (c Criteria) Match(tx *transaction.Transaction, now time.Time) bool {
	return c.matchType(tx.Type) && c.matchCategory(tx) && c.matchDate(tx.Date, now)
}

// Apply returns a new slice with the matching transactions, newest first.
// Transactions sharing a date keep their input order.
func Apply(txs []*transaction.Transaction, c Criteria, now time.Time) []*transaction.Transaction {
	out := make([]*transaction.Transaction, 0, len(txs))

	for _, tx := range txs {
		if c.Match(tx, now) {
			out = append(out, tx)
		}
	}

	slices.SortStableFunc(out, func(a, b *transaction.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	return out
}
