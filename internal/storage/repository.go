package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"budgetbot/internal/core"

	_ "modernc.org/sqlite"
)

// DateLayout is the persisted timestamp format. Lexicographic order matches
// chronological order, so month queries can prefix-match on YYYY-MM.
const DateLayout = "2006-01-02 15:04:05"

// CategoryRow is one grouped-and-summed breakdown row for a month.
type CategoryRow struct {
	Category string
	Amount   decimal.Decimal
	Type     core.TransactionType
}

// SQLiteRepository is the durable, append-only ledger store.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Record appends one transaction row and returns its id. The amount must
// already carry the type-appropriate sign; rows are never updated or
// deleted afterwards. The write is committed before Record returns.
func (r *SQLiteRepository) Record(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, amount_cents, category, type, date)
		 VALUES (?, ?, ?, ?, ?)`,
		t.UserID, core.Cents(t.Amount), t.Category.String(), string(t.Type),
		t.CreatedAt.Format(DateLayout))
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"id", id,
		"user_id", t.UserID,
		"amount_cents", core.Cents(t.Amount),
		"category", t.Category.String(),
		"transaction_type", string(t.Type))

	return id, nil
}

// Balance returns the signed sum of all amounts for the user. A user with
// no transactions has a zero balance; absence is not an error.
func (r *SQLiteRepository) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE user_id = ?`,
		userID).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum balance: %w", err)
	}
	return core.FromCents(cents), nil
}

// MonthlyBreakdown returns the user's rows for the given calendar month,
// grouped and summed by (category, type). Row order is not significant.
func (r *SQLiteRepository) MonthlyBreakdown(ctx context.Context, userID int64, month core.Month) ([]CategoryRow, error) {
	if err := month.Validate(); err != nil {
		return nil, fmt.Errorf("validate month: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents), type
		 FROM transactions
		 WHERE user_id = ? AND date LIKE ?
		 GROUP BY category, type`,
		userID, month.String()+"%")
	if err != nil {
		return nil, fmt.Errorf("query monthly breakdown: %w", err)
	}
	defer rows.Close()

	var out []CategoryRow
	for rows.Next() {
		var (
			category string
			cents    int64
			typ      string
		)
		if err := rows.Scan(&category, &cents, &typ); err != nil {
			return nil, fmt.Errorf("scan breakdown row: %w", err)
		}
		out = append(out, CategoryRow{
			Category: category,
			Amount:   core.FromCents(cents),
			Type:     core.TransactionType(typ),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate breakdown rows: %w", err)
	}

	return out, nil
}

// Transactions returns all of the user's rows, oldest first. Used by tests
// and diagnostics; the conversational surface only aggregates.
func (r *SQLiteRepository) Transactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, category, type, date
		 FROM transactions
		 WHERE user_id = ?
		 ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t        core.Transaction
			cents    int64
			category string
			typ      string
			date     string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &cents, &category, &typ, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Amount = core.FromCents(cents)
		t.Category = core.Category(category)
		t.Type = core.TransactionType(typ)
		t.CreatedAt, err = time.Parse(DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}
