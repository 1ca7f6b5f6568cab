// Package category defines the closed sets of income and expense categories.
//
// Unknown values never disappear: Normalize maps them to the "other" variant of their kind.
package category

import "strings"

// Income is a category for income transactions.
type Income string

const (
	Salary      Income = "salary"
	Freelance   Income = "freelance"
	OtherIncome Income = "other"
)

// Expense is a category for expense transactions and budgets.
type Expense string

const (
	Groceries      Expense = "groceries"
	Utilities      Expense = "utilities"
	Internet       Expense = "internet"
	Entertainment  Expense = "entertainment"
	Transportation Expense = "transportation"
	OtherExpense   Expense = "other"
)

var incomeNames = map[Income]string{
	Salary:      "Salary",
	Freelance:   "Freelance",
	OtherIncome: "Other",
}

var expenseNames = map[Expense]string{
	Groceries:      "Groceries",
	Utilities:      "Utilities",
	Internet:       "Internet",
	Entertainment:  "Entertainment",
	Transportation: "Transportation",
	OtherExpense:   "Other",
}

func Incomes() []Income {
	return []Income{Salary, Freelance, OtherIncome}
}

func Expenses() []Expense {
	return []Expense{Groceries, Utilities, Internet, Entertainment, Transportation, OtherExpense}
}

// ParseIncome reports whether s names a known income category. Matching ignores case and surrounding space.
func ParseIncome(s string) (Income, bool) {
	c := Income(strings.ToLower(strings.TrimSpace(s)))
	_, ok := incomeNames[c]

	return c, ok
}

func ParseExpense(s string) (Expense, bool) {
	c := Expense(strings.ToLower(strings.TrimSpace(s)))
	_, ok := expenseNames[c]

	return c, ok
}

// NormalizeIncome returns the known category for s, or OtherIncome.
func NormalizeIncome(s string) Income {
	if c, ok := ParseIncome(s); ok {
		return c
	}

	return OtherIncome
}

func NormalizeExpense(s string) Expense {
	if c, ok := ParseExpense(s); ok {
		return c
	}

	return OtherExpense
}

func (c Income) Name() string {
	if n, ok := incomeNames[c]; ok {
		return n
	}

	return string(c)
}

func (c Expense) Name() string {
	if n, ok := expenseNames[c]; ok {
		return n
	}

	return string(c)
}
