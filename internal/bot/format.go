package bot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"budgetbot/internal/core"
)

func formatBalance(balance decimal.Decimal) string {
	return fmt.Sprintf("Current balance: %s", core.FormatAmount(balance))
}

// formatReport renders the monthly breakdown as text. Empty groups are
// spelled out so "no income" is visible rather than silently missing.
func formatReport(r core.MonthlyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Statistics for %s:\n\n", r.Month)

	if r.HasIncome() {
		b.WriteString("Income:\n")
		for _, ct := range r.Income {
			fmt.Fprintf(&b, "%s: %s\n", ct.Category, core.FormatAmount(ct.Amount))
		}
		fmt.Fprintf(&b, "Total income: %s\n\n", core.FormatAmount(r.IncomeTotal))
	} else {
		b.WriteString("No income this month.\n\n")
	}

	if r.HasExpense() {
		b.WriteString("Expenses:\n")
		for _, ct := range r.Expense {
			fmt.Fprintf(&b, "%s: %s\n", ct.Category, core.FormatAmount(ct.Amount))
		}
		fmt.Fprintf(&b, "Total expenses: %s\n", core.FormatAmount(r.ExpenseTotal))
	} else {
		b.WriteString("No expenses this month.\n")
	}

	return b.String()
}
