// Package session holds per-user dialogue state for in-progress
// transaction entry. State is a tagged variant: pending data only exists in
// the states that own it, so reading an amount while idle cannot compile.
package session

import (
	"github.com/shopspring/decimal"

	"budgetbot/internal/core"
)

// State is the dialogue position of one user.
type State interface {
	dialogState()
}

// Idle means no dialogue is in progress. An idle user has no session entry
// and no pending data.
type Idle struct{}

// AwaitingAmount means the user picked an entry type and owes an amount.
type AwaitingAmount struct {
	Type core.TransactionType
}

// AwaitingCategory means the amount was accepted and the user owes a
// category.
type AwaitingCategory struct {
	Type   core.TransactionType
	Amount decimal.Decimal
}

func (Idle) dialogState()             {}
func (AwaitingAmount) dialogState()   {}
func (AwaitingCategory) dialogState() {}

var (
	_ State = Idle{}
	_ State = AwaitingAmount{}
	_ State = AwaitingCategory{}
)
