package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

// Response is the JSON shape of a stored transaction. Date is YYYY-MM-DD.
type Response struct {
	ID              uuid.UUID        `json:"id"`
	Date            string           `json:"date"`
	Description     string           `json:"description"`
	Type            transaction.Type `json:"type"`
	IncomeCategory  category.Income  `json:"income_category,omitempty"`
	ExpenseCategory category.Expense `json:"expense_category,omitempty"`
	CategoryName    string           `json:"category_name"`
	PaymentMode     string           `json:"payment_mode"`
	Amount          decimal.Decimal  `json:"amount"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       *time.Time       `json:"updated_at,omitempty"`
}

// ParamsResponse is the JSON shape of a transaction that has not been stored yet.
type ParamsResponse struct {
	Date            string           `json:"date"`
	Description     string           `json:"description"`
	Type            transaction.Type `json:"type"`
	IncomeCategory  category.Income  `json:"income_category,omitempty"`
	ExpenseCategory category.Expense `json:"expense_category,omitempty"`
	PaymentMode     string           `json:"payment_mode"`
	Amount          decimal.Decimal  `json:"amount"`
}

func categoryName(t transaction.Type, in category.Income, ex category.Expense) string {
	if t == transaction.TypeIncome {
		return in.Name()
	}

	return ex.Name()
}

func ToResponse(tx *transaction.Transaction) Response {
	return Response{
		ID:              tx.ID,
		Date:            tx.Date.Format(time.DateOnly),
		Description:     tx.Description,
		Type:            tx.Type,
		IncomeCategory:  tx.IncomeCategory,
		ExpenseCategory: tx.ExpenseCategory,
		CategoryName:    categoryName(tx.Type, tx.IncomeCategory, tx.ExpenseCategory),
		PaymentMode:     tx.PaymentMode,
		Amount:          tx.Amount,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

func ToResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}

func ToParamsResponse(p transaction.CreateParams) ParamsResponse {
	return ParamsResponse{
		Date:            p.Date.Format(time.DateOnly),
		Description:     p.Description,
		Type:            p.Type,
		IncomeCategory:  p.IncomeCategory,
		ExpenseCategory: p.ExpenseCategory,
		PaymentMode:     p.PaymentMode,
		Amount:          p.Amount,
	}
}

// Request is the JSON body accepted when creating transactions. Category is a shorthand
// for the category field matching Type.
type Request struct {
	Date            string           `json:"date"`
	Description     string           `json:"description"`
	Type            transaction.Type `json:"type"`
	Category        string           `json:"category,omitempty"`
	IncomeCategory  category.Income  `json:"income_category,omitempty"`
	ExpenseCategory category.Expense `json:"expense_category,omitempty"`
	PaymentMode     string           `json:"payment_mode"`
	Amount          decimal.Decimal  `json:"amount"`
}

// ParseDate accepts YYYY-MM-DD or RFC 3339. An empty string is the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, s)
}

// Params converts the request. A malformed date is reported as a validation error.
func (req Request) Params() (transaction.CreateParams, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return transaction.CreateParams{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", transaction.ErrInvalid, req.Date)
	}

	p := transaction.CreateParams{
		Date:            date,
		Description:     req.Description,
		Type:            req.Type,
		IncomeCategory:  req.IncomeCategory,
		ExpenseCategory: req.ExpenseCategory,
		PaymentMode:     req.PaymentMode,
		Amount:          req.Amount,
	}

	if req.Category != "" {
		switch req.Type {
		case transaction.TypeIncome:
			if p.IncomeCategory == "" {
				p.IncomeCategory = category.Income(req.Category)
			}
		case transaction.TypeExpense:
			if p.ExpenseCategory == "" {
				p.ExpenseCategory = category.Expense(req.Category)
			}
		}
	}

	return p, nil
}
