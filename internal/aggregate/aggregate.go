// Package aggregate derives summary views from already fetched transactions.
//
// Every function is pure: inputs are never mutated, the reference time is always
// passed in, and empty input degrades to zero values instead of errors.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

var hundred = decimal.NewFromInt(100)

// TotalByType sums the amounts of all transactions of type t.
func TotalByType(txs []*transaction.Transaction, t transaction.Type) decimal.Decimal {
	total := decimal.Zero

	for _, tx := range txs {
		if tx.Type == t {
			total = total.Add(tx.Amount)
		}
	}

	return total
}

// Balance is total income minus total expenses. It may be negative.
func Balance(txs []*transaction.Transaction) decimal.Decimal {
	return TotalByType(txs, transaction.TypeIncome).Sub(TotalByType(txs, transaction.TypeExpense))
}

// MonthRange returns the first instant of t's calendar month and the first instant of the next one.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

func inMonth(d time.Time, year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

type Bucket struct {
	Label string
	Year  int
	Month time.Month
	Total decimal.Decimal
}

// MonthlySeries returns monthCount expense buckets, oldest first, ending with the month containing ref.
// Months without expenses are present with a zero total.
func MonthlySeries(txs []*transaction.Transaction, monthCount int, ref time.Time) []Bucket {
	if monthCount <= 0 {
		return []Bucket{}
	}

	first, _ := MonthRange(ref)
	first = first.AddDate(0, -(monthCount - 1), 0)

	buckets := make([]Bucket, monthCount)
	for i := range buckets {
		m := first.AddDate(0, i, 0)
		buckets[i] = Bucket{
			Label: m.Month().String()[:3],
			Year:  m.Year(),
			Month: m.Month(),
			Total: decimal.Zero,
		}
	}

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		// months elapsed since the first bucket
		idx := (tx.Date.Year()-first.Year())*12 + int(tx.Date.Month()) - int(first.Month())
		if idx < 0 || idx >= monthCount {
			continue
		}

		buckets[idx].Total = buckets[idx].Total.Add(tx.Amount)
	}

	return buckets
}

type CategoryTotal struct {
	Total    decimal.Decimal
	Count    int
	LastDate time.Time
}

// CategoryBreakdown groups transactions of type t by their category. Only observed
// categories appear; unknown category values are counted under "other".
func CategoryBreakdown(txs []*transaction.Transaction, t transaction.Type) map[string]CategoryTotal {
	out := make(map[string]CategoryTotal)

	for _, tx := range txs {
		if tx.Type != t {
			continue
		}

		key := categoryKey(tx)
		ct, ok := out[key]

		if !ok {
			ct.Total = decimal.Zero
		}

		ct.Total = ct.Total.Add(tx.Amount)
		ct.Count++

		if tx.Date.After(ct.LastDate) {
			ct.LastDate = tx.Date
		}

		out[key] = ct
	}

	return out
}

func categoryKey(tx *transaction.Transaction) string {
	return tx.NormalizedCategory()
}

// Trend is the percentage change from previous to current, rounded to two places.
// The result keeps the sign of the ratio, so a negative previous value flips it.
// A zero previous value yields 100, 0 or -100 depending on the sign of current.
func Trend(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		switch current.Sign() {
		case 1:
			return hundred
		case -1:
			return hundred.Neg()
		default:
			return decimal.Zero
		}
	}

	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

type Trends struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

type monthTotals struct {
	income, expenses decimal.Decimal
}

func totalsFor(txs []*transaction.Transaction, year int, month time.Month) monthTotals {
	mt := monthTotals{income: decimal.Zero, expenses: decimal.Zero}

	for _, tx := range txs {
		if !inMonth(tx.Date, year, month) {
			continue
		}

		switch tx.Type {
		case transaction.TypeIncome:
			mt.income = mt.income.Add(tx.Amount)
		case transaction.TypeExpense:
			mt.expenses = mt.expenses.Add(tx.Amount)
		}
	}

	return mt
}

// MonthTrends compares the calendar month containing ref with the month before it.
func MonthTrends(txs []*transaction.Transaction, ref time.Time) Trends {
	start, _ := MonthRange(ref)
	prev := start.AddDate(0, -1, 0)

	cur := totalsFor(txs, start.Year(), start.Month())
	last := totalsFor(txs, prev.Year(), prev.Month())

	return Trends{
		Income:   Trend(cur.income, last.income),
		Expenses: Trend(cur.expenses, last.expenses),
		Balance:  Trend(cur.income.Sub(cur.expenses), last.income.Sub(last.expenses)),
	}
}
