// Package report derives balance and monthly breakdown reports from the
// ledger store.
package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"budgetbot/internal/core"
	"budgetbot/internal/storage"
)

// Ledger is the read side of the ledger store.
type Ledger interface {
	Balance(ctx context.Context, userID int64) (decimal.Decimal, error)
	MonthlyBreakdown(ctx context.Context, userID int64, month core.Month) ([]storage.CategoryRow, error)
}

type Service struct {
	ledger Ledger
}

func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// Balance returns the user's running balance, zero when the user has no
// transactions.
func (s *Service) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read balance: %w", err)
	}
	return balance, nil
}

// MonthlyReport partitions the month's breakdown into income and expense
// groups with per-group totals. Expense amounts are reported as positive
// magnitudes. Groups are sorted by descending amount, then name, for stable
// rendering. A month with no rows at all yields core.ErrNoActivity so
// callers can tell "no transactions" apart from a zero-valued report.
func (s *Service) MonthlyReport(ctx context.Context, userID int64, month core.Month) (core.MonthlyReport, error) {
	rows, err := s.ledger.MonthlyBreakdown(ctx, userID, month)
	if err != nil {
		return core.MonthlyReport{}, fmt.Errorf("read monthly breakdown: %w", err)
	}
	if len(rows) == 0 {
		return core.MonthlyReport{}, core.ErrNoActivity
	}

	r := core.MonthlyReport{
		Month:   month,
		Income:  []core.CategoryTotal{},
		Expense: []core.CategoryTotal{},
	}

	for _, row := range rows {
		switch row.Type {
		case core.Income:
			r.Income = append(r.Income, core.CategoryTotal{
				Category: row.Category,
				Amount:   row.Amount,
			})
			r.IncomeTotal = r.IncomeTotal.Add(row.Amount)
		case core.Expense:
			// Stored negative; reported as a positive magnitude.
			magnitude := row.Amount.Neg()
			r.Expense = append(r.Expense, core.CategoryTotal{
				Category: row.Category,
				Amount:   magnitude,
			})
			r.ExpenseTotal = r.ExpenseTotal.Add(magnitude)
		}
	}

	sortTotals(r.Income)
	sortTotals(r.Expense)

	return r, nil
}

func sortTotals(totals []core.CategoryTotal) {
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Amount.Equal(totals[j].Amount) {
			return totals[i].Amount.GreaterThan(totals[j].Amount)
		}
		return totals[i].Category < totals[j].Category
	})
}
