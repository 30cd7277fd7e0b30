// Package core holds the ledger domain types and amount parsing.
//
// Amounts are decimal values with cent precision. User input accepts both
// dot (12.34) and comma (12,34) separators; anything past two decimal
// places is rounded half-up.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user-entered text into a non-negative decimal
// amount. The sign is applied later from the transaction type, so explicit
// negative input is rejected. Zero is accepted.
//
// Examples:
//
//	ParseAmount("1000")   -> 1000, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil (rounds half-up)
//	ParseAmount("-5")     -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	// An amount whose cent value overflows int64 cannot be stored exactly.
	if !fitsCents(d) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// fitsCents reports whether the amount's cent value fits int64, the range
// the store can persist without wrapping.
func fitsCents(d decimal.Decimal) bool {
	return d.Shift(2).BigInt().IsInt64()
}

// Cents returns the amount as integer cents for exact storage and SQL
// aggregation. The input must already be rounded to cent precision.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// FromCents converts stored integer cents back into a decimal amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

// FormatAmount renders an amount with two decimal places for display.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
