package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a single dated income or expense record.
// Exactly one of IncomeCategory and ExpenseCategory is set, matching Type.
type Transaction struct {
	ID              uuid.UUID
	Date            time.Time
	Description     string
	Type            Type
	IncomeCategory  category.Income
	ExpenseCategory category.Expense
	PaymentMode     string
	Amount          decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// Category returns whichever category field is populated.
func (t *Transaction) Category() string {
	if t.Type == TypeIncome {
		return string(t.IncomeCategory)
	}

	return string(t.ExpenseCategory)
}

// NormalizedCategory is Category mapped onto the closed set for the type, so unknown
// stored values read as "other".
func (t *Transaction) NormalizedCategory() string {
	if t.Type == TypeIncome {
		return string(category.NormalizeIncome(string(t.IncomeCategory)))
	}

	return string(category.NormalizeExpense(string(t.ExpenseCategory)))
}

var (
	ErrNotFound = errors.New("transaction not found")
	ErrInvalid  = errors.New("invalid transaction")
)

var (
	ErrInvalidType        = fmt.Errorf("%w: type must be income or expense", ErrInvalid)
	ErrMissingCategory    = fmt.Errorf("%w: category is required for the transaction type", ErrInvalid)
	ErrCategoryMismatch   = fmt.Errorf("%w: category does not match the transaction type", ErrInvalid)
	ErrUnknownCategory    = fmt.Errorf("%w: unknown category", ErrInvalid)
	ErrNegativeAmount     = fmt.Errorf("%w: amount cannot be negative", ErrInvalid)
	ErrMissingDate        = fmt.Errorf("%w: date is required", ErrInvalid)
	ErrMissingDescription = fmt.Errorf("%w: description is required", ErrInvalid)
	ErrDescriptionTooLong = fmt.Errorf("%w: description too long (max 200 characters)", ErrInvalid)
	ErrMissingPaymentMode = fmt.Errorf("%w: payment mode is required", ErrInvalid)
)
