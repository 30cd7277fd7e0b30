package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbot/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustRecord(t *testing.T, repo *SQLiteRepository, userID int64, amount string, category string, typ core.TransactionType, at time.Time) int64 {
	t.Helper()
	id, err := repo.Record(context.Background(), core.Transaction{
		UserID:    userID,
		Amount:    decimal.RequireFromString(amount),
		Category:  core.Category(category),
		Type:      typ,
		CreatedAt: at,
	})
	require.NoError(t, err)
	return id
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "budget.db")

	repo, err := NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	// Reopening the same file re-runs migrations against an initialized store.
	repo, err = NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.Close())
}

func TestRecordAssignsMonotonicIDs(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	first := mustRecord(t, repo, 1, "100", "Salary", core.Income, now)
	second := mustRecord(t, repo, 1, "-50", "Food", core.Expense, now)

	assert.Greater(t, second, first)
}

func TestRecordRejectsInvalidTransactions(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now()

	_, err := repo.Record(context.Background(), core.Transaction{
		UserID:    1,
		Amount:    decimal.NewFromInt(100),
		Category:  "Salary",
		Type:      "transfer",
		CreatedAt: now,
	})
	assert.ErrorIs(t, err, core.ErrInvalidType)

	// Sign disagreeing with the type never reaches the table.
	_, err = repo.Record(context.Background(), core.Transaction{
		UserID:    1,
		Amount:    decimal.NewFromInt(100),
		Category:  "Food",
		Type:      core.Expense,
		CreatedAt: now,
	})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	balance, err := repo.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestBalance(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	mustRecord(t, repo, 1, "1000", "Salary", core.Income, now)
	mustRecord(t, repo, 1, "-300", "Food", core.Expense, now)
	mustRecord(t, repo, 1, "-50", "Car", core.Expense, now)

	balance, err := repo.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(650)), "got %s", balance)
}

func TestBalanceIsZeroForUnknownUser(t *testing.T) {
	repo := newTestRepo(t)

	balance, err := repo.Balance(context.Background(), 99)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestBalanceIsPerUser(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	mustRecord(t, repo, 1, "1000", "Salary", core.Income, now)
	mustRecord(t, repo, 2, "-40", "Food", core.Expense, now)

	balance, err := repo.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(1000)))

	balance, err = repo.Balance(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(-40)))
}

func TestMonthlyBreakdownGroupsAndSums(t *testing.T) {
	repo := newTestRepo(t)
	june := time.Date(2025, time.June, 5, 9, 30, 0, 0, time.UTC)

	mustRecord(t, repo, 1, "1000", "Salary", core.Income, june)
	mustRecord(t, repo, 1, "-200", "Food", core.Expense, june)
	mustRecord(t, repo, 1, "-50", "Food", core.Expense, june.Add(48*time.Hour))

	rows, err := repo.MonthlyBreakdown(context.Background(), 1, core.Month{Year: 2025, Month: time.June})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byCategory := map[string]CategoryRow{}
	for _, row := range rows {
		byCategory[row.Category] = row
	}

	require.Contains(t, byCategory, "Salary")
	assert.Equal(t, core.Income, byCategory["Salary"].Type)
	assert.True(t, byCategory["Salary"].Amount.Equal(decimal.NewFromInt(1000)))

	require.Contains(t, byCategory, "Food")
	assert.Equal(t, core.Expense, byCategory["Food"].Type)
	assert.True(t, byCategory["Food"].Amount.Equal(decimal.NewFromInt(-250)))
}

func TestMonthlyBreakdownRespectsMonthBoundaries(t *testing.T) {
	repo := newTestRepo(t)

	mustRecord(t, repo, 1, "-10", "Food", core.Expense,
		time.Date(2025, time.May, 31, 23, 59, 59, 0, time.UTC))
	mustRecord(t, repo, 1, "-20", "Food", core.Expense,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	mustRecord(t, repo, 1, "-40", "Food", core.Expense,
		time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))

	rows, err := repo.MonthlyBreakdown(context.Background(), 1, core.Month{Year: 2025, Month: time.June})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(-20)), "got %s", rows[0].Amount)
}

func TestMonthlyBreakdownEmptyMonth(t *testing.T) {
	repo := newTestRepo(t)

	rows, err := repo.MonthlyBreakdown(context.Background(), 1, core.Month{Year: 2025, Month: time.June})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTransactionsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	at := time.Date(2025, time.June, 10, 12, 34, 56, 0, time.UTC)

	id := mustRecord(t, repo, 1, "-12.34", "Food", core.Expense, at)

	txs, err := repo.Transactions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	got := txs[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, int64(1), got.UserID)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("-12.34")))
	assert.Equal(t, core.Category("Food"), got.Category)
	assert.Equal(t, core.Expense, got.Type)
	assert.Equal(t, at, got.CreatedAt)
}
