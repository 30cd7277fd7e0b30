package core

import "github.com/shopspring/decimal"

// CategoryTotal is an amount summed over one category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// MonthlyReport is the derived income/expense breakdown for one user and
// one calendar month. Expense amounts are reported as positive magnitudes.
// An empty Income or Expense slice is an explicit "nothing this month"
// state; a month with no rows at all is signalled by ErrNoActivity instead
// of a zero-valued report.
type MonthlyReport struct {
	Month        Month
	Income       []CategoryTotal
	Expense      []CategoryTotal
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
}

// HasIncome reports whether any income was recorded in the month.
func (r MonthlyReport) HasIncome() bool { return len(r.Income) > 0 }

// HasExpense reports whether any expense was recorded in the month.
func (r MonthlyReport) HasExpense() bool { return len(r.Expense) > 0 }
