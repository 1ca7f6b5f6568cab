package report_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
	"github.com/MrJamesThe3rd/spendwise/internal/report"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

var now = time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

func ledger() []*transaction.Transaction {
	return []*transaction.Transaction{
		{Type: transaction.TypeExpense, ExpenseCategory: category.Utilities, Amount: decimal.RequireFromString("80"), Date: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), Description: "Electricity"},
		{Type: transaction.TypeExpense, ExpenseCategory: category.Groceries, Amount: decimal.RequireFromString("150.40"), Date: time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)},
		{Type: transaction.TypeIncome, IncomeCategory: category.Salary, Amount: decimal.RequireFromString("5000"), Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Description: "January salary"},
	}
}

func build(t *testing.T) (*report.Service, *report.Report) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	start := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	repo.EXPECT().
		ListTransactions(gomock.Any(), transaction.ListFilter{StartDate: &start, EndDate: &now}).
		Return(ledger(), nil)

	svc := report.NewService(transaction.NewService(repo), money.NewFormatter("en-IN", "₹"))

	r, err := svc.Build(context.Background(), report.OneMonth, now)
	require.NoError(t, err)

	return svc, r
}

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, report.OneMonth, report.ParsePeriod("1M"))
	assert.Equal(t, report.ThreeMonths, report.ParsePeriod("3m"))
	assert.Equal(t, report.OneYear, report.ParsePeriod("1Y"))
	assert.Equal(t, report.OneMonth, report.ParsePeriod("6M"))
	assert.Equal(t, report.OneMonth, report.ParsePeriod(""))
}

func TestPeriod_Range(t *testing.T) {
	start, end := report.OneYear.Range(now)
	assert.Equal(t, time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)

	start, _ = report.ThreeMonths.Range(now)
	assert.Equal(t, time.Date(2023, 10, 31, 0, 0, 0, 0, time.UTC), start)

	start, _ = report.OneMonth.Range(time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), start, "first day of the period is included")
}

func TestService_Build(t *testing.T) {
	_, r := build(t)

	require.Len(t, r.Rows, 3)
	assert.Equal(t, "Utilities", r.Rows[0].Category)
	assert.Equal(t, "-", r.Rows[1].Description)
	assert.Equal(t, "Salary", r.Rows[2].Category)

	assert.True(t, decimal.RequireFromString("5000").Equal(r.TotalIncome))
	assert.True(t, decimal.RequireFromString("230.40").Equal(r.TotalExpenses))
	assert.True(t, decimal.RequireFromString("4769.60").Equal(r.NetBalance))
}

func TestService_WriteCSV(t *testing.T) {
	svc, r := build(t)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, r))

	want := strings.Join([]string{
		"Date,Type,Category,Amount,Description",
		"20/1/2024,Expense,Utilities,₹80,Electricity",
		"18/1/2024,Expense,Groceries,₹150,-",
		`15/1/2024,Income,Salary,"₹5,000",January salary`,
		"",
		"Summary,Amount",
		`Total Income,"₹5,000"`,
		"Total Expenses,₹230",
		`Net Balance,"₹4,770"`,
		"",
	}, "\n")

	assert.Equal(t, want, buf.String())
}

func TestService_WriteXLSX(t *testing.T) {
	svc, r := build(t)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteXLSX(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	defer f.Close()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "Type", "Category", "Amount", "Description"}, rows[0])
	assert.Equal(t, []string{"15/1/2024", "Income", "Salary", "₹5,000", "January salary"}, rows[3])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, []string{"Net Balance", "₹4,770"}, summary[3])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "SpendWise_Report_3M_2024-01-31.xlsx", report.FileName(report.ThreeMonths, now, "xlsx"))
}
