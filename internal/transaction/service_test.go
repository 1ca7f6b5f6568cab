package transaction_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

func validExpense() transaction.CreateParams {
	return transaction.CreateParams{
		Date:            time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Description:     "Weekly groceries",
		Type:            transaction.TypeExpense,
		ExpenseCategory: category.Groceries,
		PaymentMode:     "UPI",
		Amount:          decimal.NewFromInt(230),
	}
}

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{params: validExpense()},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "RepoError",
			args: args{params: validExpense()},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
		{
			name: "IncomeWithExpenseCategory",
			args: args{params: transaction.CreateParams{
				Date:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				Description:     "March salary",
				Type:            transaction.TypeIncome,
				ExpenseCategory: category.Groceries,
				PaymentMode:     "Bank Transfer",
				Amount:          decimal.NewFromInt(5000),
			}},
			wantErr: transaction.ErrCategoryMismatch,
		},
		{
			name: "MissingCategory",
			args: args{params: func() transaction.CreateParams {
				p := validExpense()
				p.ExpenseCategory = ""
				return p
			}()},
			wantErr: transaction.ErrMissingCategory,
		},
		{
			name: "UnknownCategory",
			args: args{params: func() transaction.CreateParams {
				p := validExpense()
				p.ExpenseCategory = "rent"
				return p
			}()},
			wantErr: transaction.ErrUnknownCategory,
		},
		{
			name: "NegativeAmount",
			args: args{params: func() transaction.CreateParams {
				p := validExpense()
				p.Amount = decimal.NewFromInt(-1)
				return p
			}()},
			wantErr: transaction.ErrNegativeAmount,
		},
		{
			name: "InvalidType",
			args: args{params: func() transaction.CreateParams {
				p := validExpense()
				p.Type = "transfer"
				return p
			}()},
			wantErr: transaction.ErrInvalidType,
		},
		{
			name: "BlankDescription",
			args: args{params: func() transaction.CreateParams {
				p := validExpense()
				p.Description = "   "
				return p
			}()},
			wantErr: transaction.ErrMissingDescription,
		},
		{
			name: "DescriptionTooLong",
			args: args{params: func() transaction.CreateParams {
				p := validExpense()
				p.Description = strings.Repeat("a", 201)
				return p
			}()},
			wantErr: transaction.ErrDescriptionTooLong,
		},
		{
			name: "MissingPaymentMode",
			args: args{params: func() transaction.CreateParams {
				p := validExpense()
				p.PaymentMode = ""
				return p
			}()},
			wantErr: transaction.ErrMissingPaymentMode,
		},
		{
			name: "MissingDate",
			args: args{params: func() transaction.CreateParams {
				p := validExpense()
				p.Date = time.Time{}
				return p
			}()},
			wantErr: transaction.ErrMissingDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, transaction.ErrInvalid) {
					assert.ErrorIs(t, err, tt.wantErr)
					assert.ErrorIs(t, err, transaction.ErrInvalid)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, category.Groceries, got.ExpenseCategory)
			assert.Empty(t, got.IncomeCategory)
		})
	}
}

func TestService_Create_Canonicalises(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)

	svc := transaction.NewService(repo)

	got, err := svc.Create(context.Background(), transaction.CreateParams{
		Date:           time.Date(2024, 3, 1, 18, 45, 0, 0, time.UTC),
		Description:    "  March salary ",
		Type:           transaction.TypeIncome,
		IncomeCategory: "Salary",
		PaymentMode:    " Bank Transfer",
		Amount:         decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	assert.Equal(t, category.Salary, got.IncomeCategory)
	assert.Equal(t, "March salary", got.Description)
	assert.Equal(t, "Bank Transfer", got.PaymentMode)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, "salary", got.Category())
}

func TestService_List(t *testing.T) {
	expense := transaction.TypeExpense

	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "FilterPassedThrough",
			args: args{filter: transaction.ListFilter{Type: &expense, Category: "groceries"}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{Type: &expense, Category: "groceries"}).
					Return([]*transaction.Transaction{{ID: uuid.New()}}, nil)
			},
			wantLen: 1,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().DeleteTransaction(gomock.Any(), id).Return(transaction.ErrNotFound)

	err := transaction.NewService(repo).Delete(context.Background(), id)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	params := []transaction.CreateParams{validExpense()}
	date := params[0].Date

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	coffee := validExpense()
	coffee.Description = "Coffee"
	coffee.ExpenseCategory = category.Entertainment
	coffee.Amount = decimal.RequireFromString("120.50")

	lunch := validExpense()
	lunch.Description = "Lunch"

	params := []transaction.CreateParams{coffee, lunch}
	date := coffee.Date

	existing := &transaction.Transaction{
		ID:              uuid.New(),
		Date:            date,
		Description:     "Coffee",
		Type:            transaction.TypeExpense,
		ExpenseCategory: category.Entertainment,
		Amount:          decimal.RequireFromString("120.5"),
	}

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Equal(t, []transaction.CreateParams{lunch}, result.New)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, coffee, result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_InvalidRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	bad := validExpense()
	bad.PaymentMode = ""

	_, err := svc.ImportBatch(context.Background(), []transaction.CreateParams{validExpense(), bad})
	require.Error(t, err)

	var rowErr *transaction.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.ErrorIs(t, err, transaction.ErrMissingPaymentMode)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	result, err := svc.ImportBatch(context.Background(), []transaction.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	early := validExpense()
	early.Date = time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	late := validExpense()
	late.Date = time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().BeginImport(gomock.Any(), early.Date, late.Date).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateBatch(context.Background(), []transaction.CreateParams{late, early})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.True(t, decimal.NewFromInt(230).Equal(txs[0].Amount))
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
}
