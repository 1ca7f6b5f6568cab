package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type stubSuggester struct {
	rules map[string]string
	err   error
}

func (s *stubSuggester) Suggest(_ context.Context, _ transaction.Type, description string) (string, error) {
	if s.err != nil {
		return "", s.err
	}

	for pattern, cat := range s.rules {
		if strings.Contains(description, pattern) {
			return cat, nil
		}
	}

	return "", nil
}

const statement = `Date,Description,Amount
2024-01-18,UPI-BIGBASKET-1,-150
2024-01-19,UPI-RANDOM-2,-20
2024-01-15,ACME PAYROLL,5000
`

func TestService_Import(t *testing.T) {
	svc := importer.NewService(&stubSuggester{rules: map[string]string{
		"BIGBASKET": "groceries",
		"PAYROLL":   "salary",
	}})

	txs, err := svc.Import(context.Background(), importer.FormatCSV, strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, category.Groceries, txs[0].ExpenseCategory)
	assert.Equal(t, category.OtherExpense, txs[1].ExpenseCategory)
	assert.Equal(t, category.Salary, txs[2].IncomeCategory)

	for _, tx := range txs {
		assert.NoError(t, tx.Validate())
	}
}

func TestService_Import_NoSuggester(t *testing.T) {
	txs, err := importer.NewService(nil).Import(context.Background(), importer.FormatCSV, strings.NewReader(statement))
	require.NoError(t, err)

	assert.Equal(t, category.OtherExpense, txs[0].ExpenseCategory)
	assert.Equal(t, category.OtherIncome, txs[2].IncomeCategory)
}

func TestService_Import_SuggesterError(t *testing.T) {
	svc := importer.NewService(&stubSuggester{err: errors.New("db down")})

	_, err := svc.Import(context.Background(), importer.FormatCSV, strings.NewReader(statement))
	require.Error(t, err)
	assert.NotErrorIs(t, err, importer.ErrUnreadable)
}

func TestService_Import_Unreadable(t *testing.T) {
	_, err := importer.NewService(nil).Import(context.Background(), importer.FormatCSV, strings.NewReader("foo,bar\n1,2\n"))
	assert.ErrorIs(t, err, importer.ErrUnreadable)
}

func TestService_Import_UnknownFormat(t *testing.T) {
	_, err := importer.NewService(nil).Import(context.Background(), "qif", strings.NewReader(statement))
	assert.ErrorIs(t, err, importer.ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	type testCase struct {
		input   string
		want    importer.Format
		wantErr bool
	}

	tests := []testCase{
		{input: "csv", want: importer.FormatCSV},
		{input: ".QFX", want: importer.FormatOFX},
		{input: "ofx", want: importer.FormatOFX},
		{input: "xls", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := importer.ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, importer.ErrUnknownFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
