package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"budgetbot/internal/dialog"
)

// Main menu button labels mirror the dialogue command surface.
const (
	btnAddIncome  = "Add income"
	btnAddExpense = "Add expense"
	btnBalance    = "Balance"
	btnStatistics = "Statistics"
	btnMainMenu   = "Main menu"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddIncome),
			tgbotapi.NewKeyboardButton(btnAddExpense),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBalance),
			tgbotapi.NewKeyboardButton(btnStatistics),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// categoryKeyboard offers the suggested categories one per row, with the
// escape button last.
func categoryKeyboard(categories []string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(categories)+1)
	for _, c := range categories {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(c)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnMainMenu)))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// markupFor maps a dialogue keyboard kind to Telegram reply markup, nil for
// KeyboardNone.
func markupFor(kind dialog.KeyboardKind) any {
	switch kind {
	case dialog.KeyboardMain:
		return mainKeyboard()
	case dialog.KeyboardIncomeCategories:
		return categoryKeyboard(dialog.IncomeCategories)
	case dialog.KeyboardExpenseCategories:
		return categoryKeyboard(dialog.ExpenseCategories)
	default:
		return nil
	}
}
