// Package dashboard computes the overview and per-category views shown on the landing screens.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/aggregate"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

const DefaultMonths = 6

type Service struct {
	txs    *transaction.Service
	months int
}

// NewService builds a dashboard over txs. months is the length of the spending series;
// values below one fall back to DefaultMonths.
func NewService(txs *transaction.Service, months int) *Service {
	if months < 1 {
		months = DefaultMonths
	}

	return &Service{txs: txs, months: months}
}

type Overview struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
	Spending      []aggregate.Bucket
	Trends        aggregate.Trends
}

func (s *Service) Overview(ctx context.Context, ref time.Time) (*Overview, error) {
	txs, err := s.txs.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return &Overview{
		TotalIncome:   aggregate.TotalByType(txs, transaction.TypeIncome),
		TotalExpenses: aggregate.TotalByType(txs, transaction.TypeExpense),
		Balance:       aggregate.Balance(txs),
		Spending:      aggregate.MonthlySeries(txs, s.months, ref),
		Trends:        aggregate.MonthTrends(txs, ref),
	}, nil
}

type CategoryView struct {
	Type         transaction.Type
	Transactions []*transaction.Transaction
	Total        decimal.Decimal
	Breakdown    map[string]aggregate.CategoryTotal
}

// Categories returns the transactions of type t, newest first, with their per-category totals.
func (s *Service) Categories(ctx context.Context, t transaction.Type) (*CategoryView, error) {
	if !t.Valid() {
		return nil, transaction.ErrInvalidType
	}

	txs, err := s.txs.List(ctx, transaction.ListFilter{Type: &t})
	if err != nil {
		return nil, fmt.Errorf("listing %s transactions: %w", t, err)
	}

	return &CategoryView{
		Type:         t,
		Transactions: txs,
		Total:        aggregate.TotalByType(txs, t),
		Breakdown:    aggregate.CategoryBreakdown(txs, t),
	}, nil
}
