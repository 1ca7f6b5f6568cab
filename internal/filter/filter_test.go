package filter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/filter"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

var now = time.Date(2024, 3, 14, 16, 30, 0, 0, time.UTC)

func tx(desc string, typ transaction.Type, cat string, d time.Time) *transaction.Transaction {
	t := &transaction.Transaction{Description: desc, Type: typ, Date: d}
	if typ == transaction.TypeIncome {
		t.IncomeCategory = category.Income(cat)
	} else {
		t.ExpenseCategory = category.Expense(cat)
	}

	return t
}

func descriptions(txs []*transaction.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.Description
	}

	return out
}

func ledger() []*transaction.Transaction {
	return []*transaction.Transaction{
		tx("last month", transaction.TypeExpense, "groceries", time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)),
		tx("ten days ago", transaction.TypeExpense, "utilities", now.AddDate(0, 0, -10)),
		tx("today", transaction.TypeExpense, "groceries", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)),
		tx("three days ago", transaction.TypeIncome, "salary", now.AddDate(0, 0, -3)),
	}
}

func TestApply(t *testing.T) {
	type args struct {
		criteria filter.Criteria
	}

	type testCase struct {
		name string
		args args
		want []string
	}

	tests := []testCase{
		{
			name: "AllNewestFirst",
			args: args{criteria: filter.ParseCriteria("", "", "")},
			want: []string{"today", "three days ago", "ten days ago", "last month"},
		},
		{
			name: "ThisWeek",
			args: args{criteria: filter.ParseCriteria("thisWeek", "all", "all")},
			want: []string{"today", "three days ago"},
		},
		{
			name: "Today",
			args: args{criteria: filter.ParseCriteria("today", "all", "all")},
			want: []string{"today"},
		},
		{
			name: "ThisMonth",
			args: args{criteria: filter.ParseCriteria("thisMonth", "all", "all")},
			want: []string{"today", "three days ago", "ten days ago"},
		},
		{
			name: "TypeIncome",
			args: args{criteria: filter.ParseCriteria("all", "income", "all")},
			want: []string{"three days ago"},
		},
		{
			name: "CategoryOnlyMatchesPopulatedField",
			args: args{criteria: filter.ParseCriteria("all", "all", "groceries")},
			want: []string{"today", "last month"},
		},
		{
			name: "Conjunction",
			args: args{criteria: filter.ParseCriteria("thisMonth", "expense", "groceries")},
			want: []string{"today"},
		},
		{
			name: "IncomeTypeWithExpenseCategory",
			args: args{criteria: filter.ParseCriteria("all", "income", "groceries")},
			want: []string{},
		},
		{
			name: "UnknownValuesMeanAll",
			args: args{criteria: filter.ParseCriteria("fortnight", "transfers", "")},
			want: []string{"today", "three days ago", "ten days ago", "last month"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Apply(ledger(), tt.args.criteria, now)
			assert.Equal(t, tt.want, descriptions(got))
		})
	}
}

func TestApply_CategoryMatchesNormalizedValue(t *testing.T) {
	txs := []*transaction.Transaction{
		tx("legacy", transaction.TypeExpense, "dining", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		tx("other", transaction.TypeExpense, "other", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
		tx("groceries", transaction.TypeExpense, "groceries", time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)),
	}

	got := filter.Apply(txs, filter.ParseCriteria("all", "expense", "other"), now)
	assert.Equal(t, []string{"other", "legacy"}, descriptions(got))

	got = filter.Apply(txs, filter.ParseCriteria("all", "all", "dining"), now)
	assert.Empty(t, got)
}

func TestApply_ThisWeekBoundaryIsInclusive(t *testing.T) {
	txs := []*transaction.Transaction{
		tx("seven days ago", transaction.TypeExpense, "internet", time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)),
		tx("eight days ago", transaction.TypeExpense, "internet", time.Date(2024, 3, 6, 23, 0, 0, 0, time.UTC)),
	}

	got := filter.Apply(txs, filter.Criteria{DateRange: filter.ThisWeek}, now)
	assert.Equal(t, []string{"seven days ago"}, descriptions(got))
}

func TestApply_StableAndNonMutating(t *testing.T) {
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []*transaction.Transaction{
		tx("first", transaction.TypeExpense, "internet", d),
		tx("older", transaction.TypeExpense, "internet", d.AddDate(0, 0, -1)),
		tx("second", transaction.TypeIncome, "salary", d),
	}

	got := filter.Apply(txs, filter.Criteria{}, now)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"first", "second", "older"}, descriptions(got))
	assert.Equal(t, []string{"first", "older", "second"}, descriptions(txs))
}

func TestParse(t *testing.T) {
	assert.Equal(t, filter.ThisWeek, filter.ParseDateRange("week"))
	assert.Equal(t, filter.ThisMonth, filter.ParseDateRange("month"))
	assert.Equal(t, filter.Today, filter.ParseDateRange(" TODAY "))
	assert.Equal(t, filter.AllDates, filter.ParseDateRange("yesterday"))
	assert.Equal(t, filter.Expense, filter.ParseType("expense"))
	assert.Equal(t, filter.AllTypes, filter.ParseType(""))
}
