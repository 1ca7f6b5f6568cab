// Package report builds the downloadable period report: one row per transaction plus a summary block.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/aggregate"
	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type Period string

const (
	OneMonth    Period = "1M"
	ThreeMonths Period = "3M"
	OneYear     Period = "1Y"
)

// ParsePeriod accepts 1M, 3M and 1Y in any case. Anything else is one month.
func ParsePeriod(s string) Period {
	switch Period(strings.ToUpper(strings.TrimSpace(s))) {
	case ThreeMonths:
		return ThreeMonths
	case OneYear:
		return OneYear
	default:
		return OneMonth
	}
}

// Range returns [start of the day now - period falls on, now]. The start is a calendar day so
// the whole first day of the period is included.
func (p Period) Range(now time.Time) (time.Time, time.Time) {
	var from time.Time

	switch p {
	case ThreeMonths:
		from = now.AddDate(0, -3, 0)
	case OneYear:
		from = now.AddDate(-1, 0, 0)
	default:
		from = now.AddDate(0, -1, 0)
	}

	return time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()), now
}

type Row struct {
	Date        time.Time
	Type        transaction.Type
	Category    string
	Amount      decimal.Decimal
	Description string
}

type Report struct {
	Period        Period
	GeneratedAt   time.Time
	Rows          []Row
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetBalance    decimal.Decimal
}

type Service struct {
	txs       *transaction.Service
	formatter *money.Formatter
}

func NewService(txs *transaction.Service, formatter *money.Formatter) *Service {
	return &Service{txs: txs, formatter: formatter}
}

// Build collects the transactions dated within period before now. Totals keep full precision.
func (s *Service) Build(ctx context.Context, period Period, now time.Time) (*Report, error) {
	start, end := period.Range(now)

	txs, err := s.txs.List(ctx, transaction.ListFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, toRow(tx))
	}

	return &Report{
		Period:        period,
		GeneratedAt:   now,
		Rows:          rows,
		TotalIncome:   aggregate.TotalByType(txs, transaction.TypeIncome),
		TotalExpenses: aggregate.TotalByType(txs, transaction.TypeExpense),
		NetBalance:    aggregate.Balance(txs),
	}, nil
}

func toRow(tx *transaction.Transaction) Row {
	cat := "Uncategorized"

	switch {
	case tx.Type == transaction.TypeIncome && tx.IncomeCategory != "":
		cat = category.NormalizeIncome(string(tx.IncomeCategory)).Name()
	case tx.Type == transaction.TypeExpense && tx.ExpenseCategory != "":
		cat = category.NormalizeExpense(string(tx.ExpenseCategory)).Name()
	}

	desc := strings.TrimSpace(tx.Description)
	if desc == "" {
		desc = "-"
	}

	return Row{
		Date:        tx.Date,
		Type:        tx.Type,
		Category:    cat,
		Amount:      tx.Amount,
		Description: desc,
	}
}

// FileName is SpendWise_Report_<period>_<YYYY-MM-DD>.<ext>.
func FileName(period Period, now time.Time, ext string) string {
	return fmt.Sprintf("SpendWise_Report_%s_%s.%s", period, now.Format(time.DateOnly), ext)
}

var headers = []string{"Date", "Type", "Category", "Amount", "Description"}

func typeLabel(t transaction.Type) string {
	s := string(t)
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

// cells renders a row for display: day/month/year dates and grouped whole-unit amounts.
func (s *Service) cells(r Row) []string {
	return []string{
		r.Date.Format("2/1/2006"),
		typeLabel(r.Type),
		r.Category,
		s.formatter.Format(r.Amount),
		r.Description,
	}
}

func (s *Service) summary(r *Report) [][]string {
	return [][]string{
		{"Total Income", s.formatter.Format(r.TotalIncome)},
		{"Total Expenses", s.formatter.Format(r.TotalExpenses)},
		{"Net Balance", s.formatter.Format(r.NetBalance)},
	}
}
