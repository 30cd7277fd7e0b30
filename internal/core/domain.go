package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType is the closed set of ledger entry kinds.
	TransactionType string

	// Category is a non-empty, trimmed label chosen or typed by the user.
	Category string

	// Month identifies one calendar month for report bucketing.
	Month struct {
		Year  int
		Month time.Month
	}

	// Transaction is one immutable ledger row. Amount carries the
	// type-appropriate sign: income >= 0, expense <= 0.
	Transaction struct {
		ID        int64
		UserID    int64
		Amount    decimal.Decimal
		Category  Category
		Type      TransactionType
		CreatedAt time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrNoActivity    = errors.New("no activity for month")
)

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return ErrInvalidType
}

// Sign returns +1 for income and -1 for expense.
func (t TransactionType) Sign() decimal.Decimal {
	if t == Expense {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// NewCategory trims the input and rejects empty labels. Anything else is
// accepted verbatim, including free text outside the suggested set.
func NewCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyCategory
	}
	return Category(s), nil
}

func (c Category) String() string { return string(c) }

func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if _, err := NewCategory(string(t.Category)); err != nil {
		return err
	}
	// Sign must agree with the type at write time.
	if t.Type == Income && t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if t.Type == Expense && t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !fitsCents(t.Amount) {
		return ErrInvalidAmount
	}
	return nil
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String formats the month as YYYY-MM, the prefix used for date matching.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) Validate() error {
	if m.Year < 1 {
		return errors.New("invalid year")
	}
	if m.Month < time.January || m.Month > time.December {
		return errors.New("invalid month")
	}
	return nil
}
