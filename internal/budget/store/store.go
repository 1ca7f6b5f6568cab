package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/spendwise/internal/budget"
	"github.com/MrJamesThe3rd/spendwise/internal/category"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (expense_category, month, amount, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, b.ExpenseCategory, b.Month, b.Amount).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return budget.ErrDuplicate
		}

		return fmt.Errorf("creating budget: %w", err)
	}

	return nil
}

func (s *Store) ListBudgets(ctx context.Context, filter budget.ListFilter) ([]*budget.Budget, error) {
	query := `SELECT id, expense_category, month, amount, created_at FROM budgets`

	var args []any

	if filter.Month != nil {
		query += " WHERE month = $1"

		args = append(args, *filter.Month)
	}

	query += " ORDER BY month DESC, expense_category ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget

	for rows.Next() {
		var b budget.Budget

		var cat string

		if err := rows.Scan(&b.ID, &cat, &b.Month, &b.Amount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		b.ExpenseCategory = category.NormalizeExpense(cat)
		budgets = append(budgets, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budgets: %w", err)
	}

	return budgets, nil
}
