package budget

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/aggregate"
	"github.com/MrJamesThe3rd/spendwise/internal/category"
)

// Budget is a monthly spending ceiling for one expense category.
// Month is always the first day of the calendar month.
type Budget struct {
	ID              uuid.UUID
	ExpenseCategory category.Expense
	Month           time.Time
	Amount          decimal.Decimal
	CreatedAt       time.Time
}

// Summary is a budget together with what has been spent against it.
type Summary struct {
	*Budget
	Spent     decimal.Decimal
	Status    aggregate.Status
	Percent   decimal.Decimal
	Remaining decimal.Decimal
}

var (
	ErrInvalid   = errors.New("invalid budget")
	ErrDuplicate = errors.New("budget already exists for this category and month")
)

var (
	ErrUnknownCategory = fmt.Errorf("%w: unknown expense category", ErrInvalid)
	ErrNegativeAmount  = fmt.Errorf("%w: amount cannot be negative", ErrInvalid)
	ErrMissingMonth    = fmt.Errorf("%w: month is required", ErrInvalid)
)

// FirstOfMonth truncates t to midnight UTC on the first day of its month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
