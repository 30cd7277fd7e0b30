package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbot/internal/core"
	"budgetbot/internal/storage"
)

type fakeLedger struct {
	balance decimal.Decimal
	rows    []storage.CategoryRow
	err     error
}

func (f *fakeLedger) Balance(context.Context, int64) (decimal.Decimal, error) {
	return f.balance, f.err
}

func (f *fakeLedger) MonthlyBreakdown(context.Context, int64, core.Month) ([]storage.CategoryRow, error) {
	return f.rows, f.err
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBalancePassThrough(t *testing.T) {
	svc := NewService(&fakeLedger{balance: dec("650")})

	balance, err := svc.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("650")))
}

func TestBalanceWrapsStorageError(t *testing.T) {
	cause := errors.New("disk gone")
	svc := NewService(&fakeLedger{err: cause})

	_, err := svc.Balance(context.Background(), 1)
	assert.ErrorIs(t, err, cause)
}

func TestMonthlyReportPartitionsAndTotals(t *testing.T) {
	svc := NewService(&fakeLedger{rows: []storage.CategoryRow{
		{Category: "Salary", Amount: dec("1000"), Type: core.Income},
		{Category: "Food", Amount: dec("-250"), Type: core.Expense},
	}})

	month := core.Month{Year: 2025, Month: time.June}
	r, err := svc.MonthlyReport(context.Background(), 1, month)
	require.NoError(t, err)

	assert.Equal(t, month, r.Month)

	require.Len(t, r.Income, 1)
	assert.Equal(t, "Salary", r.Income[0].Category)
	assert.True(t, r.Income[0].Amount.Equal(dec("1000")))
	assert.True(t, r.IncomeTotal.Equal(dec("1000")))

	require.Len(t, r.Expense, 1)
	assert.Equal(t, "Food", r.Expense[0].Category)
	assert.True(t, r.Expense[0].Amount.Equal(dec("250")), "expense reported as magnitude")
	assert.True(t, r.ExpenseTotal.Equal(dec("250")))
}

func TestMonthlyReportSortsByAmountThenName(t *testing.T) {
	svc := NewService(&fakeLedger{rows: []storage.CategoryRow{
		{Category: "Car", Amount: dec("-50"), Type: core.Expense},
		{Category: "Food", Amount: dec("-250"), Type: core.Expense},
		{Category: "Leisure", Amount: dec("-50"), Type: core.Expense},
	}})

	r, err := svc.MonthlyReport(context.Background(), 1, core.Month{Year: 2025, Month: time.June})
	require.NoError(t, err)

	require.Len(t, r.Expense, 3)
	assert.Equal(t, "Food", r.Expense[0].Category)
	assert.Equal(t, "Car", r.Expense[1].Category)
	assert.Equal(t, "Leisure", r.Expense[2].Category)
	assert.True(t, r.ExpenseTotal.Equal(dec("350")))
}

func TestMonthlyReportEmptyGroupsAreExplicit(t *testing.T) {
	svc := NewService(&fakeLedger{rows: []storage.CategoryRow{
		{Category: "Salary", Amount: dec("1000"), Type: core.Income},
	}})

	r, err := svc.MonthlyReport(context.Background(), 1, core.Month{Year: 2025, Month: time.June})
	require.NoError(t, err)

	assert.True(t, r.HasIncome())
	assert.False(t, r.HasExpense())
	assert.NotNil(t, r.Expense, "empty group is an explicit empty state")
	assert.True(t, r.ExpenseTotal.IsZero())
}

func TestMonthlyReportNoActivity(t *testing.T) {
	svc := NewService(&fakeLedger{})

	_, err := svc.MonthlyReport(context.Background(), 1, core.Month{Year: 2025, Month: time.June})
	assert.ErrorIs(t, err, core.ErrNoActivity)
}

func TestMonthlyReportWrapsStorageError(t *testing.T) {
	cause := errors.New("db locked")
	svc := NewService(&fakeLedger{err: cause})

	_, err := svc.MonthlyReport(context.Background(), 1, core.Month{Year: 2025, Month: time.June})
	assert.ErrorIs(t, err, cause)
}
