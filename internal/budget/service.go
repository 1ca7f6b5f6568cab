package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/aggregate"
	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	CreateBudget(ctx context.Context, b *Budget) error
	ListBudgets(ctx context.Context, filter ListFilter) ([]*Budget, error)
}

// Service has no update or delete: budgets are append-only.
type Service struct {
	repo Repository
	txs  *transaction.Service
}

func NewService(repo Repository, txs *transaction.Service) *Service {
	return &Service{repo: repo, txs: txs}
}

type CreateParams struct {
	ExpenseCategory category.Expense
	Month           time.Time
	Amount          decimal.Decimal
}

func (p CreateParams) Validate() error {
	if _, ok := category.ParseExpense(string(p.ExpenseCategory)); !ok {
		return fmt.Errorf("%w %q", ErrUnknownCategory, p.ExpenseCategory)
	}

	if p.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if p.Month.IsZero() {
		return ErrMissingMonth
	}

	return nil
}

// ListFilter restricts budgets to one month when Month is set.
type ListFilter struct {
	Month *time.Time
}

// Create stores a budget for the month containing params.Month.
// A second budget for the same category and month fails with ErrDuplicate.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Budget, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	cat, _ := category.ParseExpense(string(params.ExpenseCategory))

	b := &Budget{
		ExpenseCategory: cat,
		Month:           FirstOfMonth(params.Month),
		Amount:          params.Amount,
	}

	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// List returns budgets enriched with the amount spent in each budget's own month.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Summary, error) {
	if filter.Month != nil {
		m := FirstOfMonth(*filter.Month)
		filter.Month = &m
	}

	budgets, err := s.repo.ListBudgets(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}

	breakdowns := make(map[time.Time]map[string]aggregate.CategoryTotal)
	summaries := make([]*Summary, 0, len(budgets))

	for _, b := range budgets {
		month := FirstOfMonth(b.Month)

		breakdown, ok := breakdowns[month]
		if !ok {
			breakdown, err = s.spentByCategory(ctx, month)
			if err != nil {
				return nil, err
			}

			breakdowns[month] = breakdown
		}

		spent := decimal.Zero
		if ct, ok := breakdown[string(b.ExpenseCategory)]; ok {
			spent = ct.Total
		}

		summaries = append(summaries, &Summary{
			Budget:    b,
			Spent:     spent,
			Status:    aggregate.BudgetStatus(b.Amount, spent),
			Percent:   aggregate.SpentPercent(b.Amount, spent),
			Remaining: aggregate.Remaining(b.Amount, spent),
		})
	}

	return summaries, nil
}

func (s *Service) spentByCategory(ctx context.Context, month time.Time) (map[string]aggregate.CategoryTotal, error) {
	start, next := aggregate.MonthRange(month)
	end := next.AddDate(0, 0, -1)
	expense := transaction.TypeExpense

	txs, err := s.txs.List(ctx, transaction.ListFilter{
		Type:      &expense,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("listing expenses for %s: %w", month.Format("2006-01"), err)
	}

	return aggregate.CategoryBreakdown(txs, transaction.TypeExpense), nil
}
