// Package dialog implements the finite-state conversation that captures one
// transaction: choose type, enter amount, choose or type a category,
// commit.
package dialog

import (
	"context"
	"fmt"
	"time"

	"budgetbot/internal/core"
	"budgetbot/internal/log"
	"budgetbot/internal/session"
)

// Recorder is the write side of the ledger store.
type Recorder interface {
	Record(ctx context.Context, t core.Transaction) (int64, error)
}

// Clock supplies the commit timestamp and keeps tests deterministic.
type Clock func() time.Time

type Machine struct {
	sessions *session.Registry
	ledger   Recorder
	clock    Clock
	logger   *log.Logger
}

func NewMachine(sessions *session.Registry, ledger Recorder, clock Clock, logger *log.Logger) *Machine {
	if clock == nil {
		clock = time.Now
	}
	return &Machine{
		sessions: sessions,
		ledger:   ledger,
		clock:    clock,
		logger:   logger.WithComponent(log.ComponentDialog),
	}
}

// HandleMessage advances the user's dialogue with one inbound message. The
// whole step runs under the user's session lock, so concurrent messages
// from the same user serialize. The second result is false when the
// message is not for the dialogue (idle user, unrecognized text); such
// messages are dispatched by the transport instead.
func (m *Machine) HandleMessage(ctx context.Context, userID int64, text string) (Reply, bool) {
	var (
		reply   Reply
		handled bool
	)
	m.sessions.Do(userID, func(st session.State) session.State {
		var next session.State
		next, reply, handled = m.step(ctx, userID, st, text)
		return next
	})
	return reply, handled
}

func (m *Machine) step(ctx context.Context, userID int64, st session.State, text string) (session.State, Reply, bool) {
	switch st := st.(type) {
	case session.Idle:
		return m.stepIdle(st, text)
	case session.AwaitingAmount:
		return m.stepAwaitingAmount(st, text)
	case session.AwaitingCategory:
		return m.stepAwaitingCategory(ctx, userID, st, text)
	default:
		// Unknown state, recover by discarding the session.
		m.logger.Warn("Unknown dialogue state, clearing session", log.FieldUserID, userID)
		return session.Idle{}, Reply{Text: msgCancelled, Keyboard: KeyboardMain}, true
	}
}

func (m *Machine) stepIdle(st session.Idle, text string) (session.State, Reply, bool) {
	switch Normalize(text) {
	case CmdAddIncome:
		return session.AwaitingAmount{Type: core.Income},
			Reply{Text: msgIncomeAmountPrompt, Keyboard: KeyboardIncomeCategories}, true
	case CmdAddExpense:
		return session.AwaitingAmount{Type: core.Expense},
			Reply{Text: msgExpenseAmountPrompt, Keyboard: KeyboardExpenseCategories}, true
	}
	return st, Reply{}, false
}

func (m *Machine) stepAwaitingAmount(st session.AwaitingAmount, text string) (session.State, Reply, bool) {
	if IsCancel(text) {
		return session.Idle{}, Reply{Text: msgCancelled, Keyboard: KeyboardMain}, true
	}

	amount, err := core.ParseAmount(text)
	if err != nil {
		// Recoverable validation error: same state, same question.
		return st, Reply{Text: msgInvalidAmount}, true
	}

	return session.AwaitingCategory{Type: st.Type, Amount: amount},
		Reply{Text: msgCategoryPrompt, Keyboard: categoryKeyboard(st.Type)}, true
}

func (m *Machine) stepAwaitingCategory(ctx context.Context, userID int64, st session.AwaitingCategory, text string) (session.State, Reply, bool) {
	// Reserved keyword wins over category use.
	if IsCancel(text) {
		return session.Idle{}, Reply{Text: msgCancelled, Keyboard: KeyboardMain}, true
	}

	category, err := core.NewCategory(text)
	if err != nil {
		return st, Reply{Text: msgEmptyCategory, Keyboard: categoryKeyboard(st.Type)}, true
	}

	tx := core.Transaction{
		UserID:    userID,
		Amount:    st.Amount.Mul(st.Type.Sign()),
		Category:  category,
		Type:      st.Type,
		CreatedAt: m.clock().Truncate(time.Second),
	}

	id, err := m.ledger.Record(ctx, tx)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to record transaction",
			log.FieldUserID, userID,
			log.FieldCategory, category.String(),
			log.FieldType, string(st.Type),
			log.FieldError, err)
		// The write may not be retried with stale pending data; drop the
		// session and ask the user to start the entry again.
		return session.Idle{}, Reply{Text: msgStorageFailure, Keyboard: KeyboardMain}, true
	}

	m.logger.InfoContext(ctx, "Dialogue committed transaction",
		"id", id,
		log.FieldUserID, userID,
		log.FieldAmountCents, core.Cents(tx.Amount),
		log.FieldCategory, category.String(),
		log.FieldType, string(st.Type))

	return session.Idle{}, Reply{
		Text:     recordedMessage(st.Type, core.FormatAmount(st.Amount), category.String()),
		Keyboard: KeyboardMain,
	}, true
}

func categoryKeyboard(t core.TransactionType) KeyboardKind {
	if t == core.Income {
		return KeyboardIncomeCategories
	}
	return KeyboardExpenseCategories
}

const (
	msgIncomeAmountPrompt  = "Enter the income amount (e.g. 1000):"
	msgExpenseAmountPrompt = "Enter the expense amount (e.g. 500):"
	msgInvalidAmount       = "Please enter a valid number!"
	msgCategoryPrompt      = "Choose a category or type your own:"
	msgEmptyCategory       = "Please choose a category or type your own."
	msgCancelled           = "Back to the main menu."
	msgStorageFailure      = "Something went wrong while saving. Please start the entry again."
)

func recordedMessage(t core.TransactionType, amount, category string) string {
	label := "Income"
	if t == core.Expense {
		label = "Expense"
	}
	return fmt.Sprintf("%s %s (%s) recorded.", label, amount, category)
}
