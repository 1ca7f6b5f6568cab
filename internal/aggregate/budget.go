package aggregate

import "github.com/shopspring/decimal"

type Status string

const (
	StatusGood     Status = "good"
	StatusWarning  Status = "warning"
	StatusExceeded Status = "exceeded"
)

var eighty = decimal.NewFromInt(80)

// BudgetStatus classifies consumption: exceeded at 100% or more, warning from 80%, good below.
// A zero budget is exceeded by any spending.
func BudgetStatus(budgeted, spent decimal.Decimal) Status {
	if budgeted.IsZero() {
		if spent.IsPositive() {
			return StatusExceeded
		}

		return StatusGood
	}

	switch {
	case spent.GreaterThanOrEqual(budgeted):
		return StatusExceeded
	case spent.Mul(hundred).GreaterThanOrEqual(budgeted.Mul(eighty)):
		return StatusWarning
	default:
		return StatusGood
	}
}

// SpentPercent is spent as a percentage of budgeted, rounded to two places.
func SpentPercent(budgeted, spent decimal.Decimal) decimal.Decimal {
	if budgeted.IsZero() {
		if spent.IsPositive() {
			return hundred
		}

		return decimal.Zero
	}

	return spent.Div(budgeted).Mul(hundred).Round(2)
}

// Remaining is negative once the budget is overspent.
func Remaining(budgeted, spent decimal.Decimal) decimal.Decimal {
	return budgeted.Sub(spent)
}
