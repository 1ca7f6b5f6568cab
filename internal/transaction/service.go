package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Date            time.Time
	Description     string
	Type            Type
	IncomeCategory  category.Income
	ExpenseCategory category.Expense
	PaymentMode     string
	Amount          decimal.Decimal
}

// Validate checks the params before anything reaches the store. A category of the wrong
// kind is rejected rather than cleared.
func (p CreateParams) Validate() error {
	switch p.Type {
	case TypeIncome:
		if p.ExpenseCategory != "" {
			return ErrCategoryMismatch
		}

		if p.IncomeCategory == "" {
			return ErrMissingCategory
		}

		if _, ok := category.ParseIncome(string(p.IncomeCategory)); !ok {
			return fmt.Errorf("%w %q", ErrUnknownCategory, p.IncomeCategory)
		}
	case TypeExpense:
		if p.IncomeCategory != "" {
			return ErrCategoryMismatch
		}

		if p.ExpenseCategory == "" {
			return ErrMissingCategory
		}

		if _, ok := category.ParseExpense(string(p.ExpenseCategory)); !ok {
			return fmt.Errorf("%w %q", ErrUnknownCategory, p.ExpenseCategory)
		}
	default:
		return ErrInvalidType
	}

	if p.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if p.Date.IsZero() {
		return ErrMissingDate
	}

	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		return ErrMissingDescription
	}

	if utf8.RuneCountInString(desc) > 200 {
		return ErrDescriptionTooLong
	}

	if strings.TrimSpace(p.PaymentMode) == "" {
		return ErrMissingPaymentMode
	}

	return nil
}

// toTransaction assumes Validate passed and canonicalises categories, text and date.
func (p CreateParams) toTransaction() *Transaction {
	tx := &Transaction{
		Date:        time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, time.UTC),
		Description: strings.TrimSpace(p.Description),
		Type:        p.Type,
		PaymentMode: strings.TrimSpace(p.PaymentMode),
		Amount:      p.Amount,
	}

	switch p.Type {
	case TypeIncome:
		tx.IncomeCategory, _ = category.ParseIncome(string(p.IncomeCategory))
	case TypeExpense:
		tx.ExpenseCategory, _ = category.ParseExpense(string(p.ExpenseCategory))
	}

	return tx
}

type ListFilter struct {
	Type      *Type
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx := params.toTransaction()
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// List returns matching transactions, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// Delete removes a transaction. Unknown ids yield ErrNotFound.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

// RowError identifies which imported row failed validation (1-based).
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func validateAll(params []CreateParams) error {
	for i, p := range params {
		if err := p.Validate(); err != nil {
			return &RowError{Row: i + 1, Err: err}
		}
	}

	return nil
}

type dupKey struct {
	Date        string
	Amount      string
	Type        Type
	Description string
}

func keyOf(date time.Time, amount decimal.Decimal, t Type, desc string) dupKey {
	return dupKey{
		Date:        date.Format(time.DateOnly),
		Amount:      amount.StringFixed(2),
		Type:        t,
		Description: strings.TrimSpace(desc),
	}
}

// ImportBatch writes params unless some of them already exist. When duplicates are
// found nothing is written and the split between new and conflicting rows is returned.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	if err := validateAll(params); err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.Date, d.Amount, d.Type, d.Description)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[keyOf(p.Date, p.Amount, p.Type, p.Description)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(newParams)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "imported transactions", "count", len(txs))

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch writes already reviewed params without duplicate detection.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	if err := validateAll(params); err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := paramsToTransactions(params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func paramsToTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = p.toTransaction()
	}

	return txs
}
