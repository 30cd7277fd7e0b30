package dialog

import "strings"

// The text-triggered command surface. Matching is case-insensitive on the
// trimmed message text; these are button labels, not slash commands.
const (
	CmdAddIncome  = "add income"
	CmdAddExpense = "add expense"
	CmdBalance    = "balance"
	CmdStatistics = "statistics"
	CmdMainMenu   = "main menu"
)

// Suggested categories offered on the reply keyboard. Free text outside
// these sets is accepted as-is.
var (
	IncomeCategories  = []string{"Salary", "Bonus"}
	ExpenseCategories = []string{"Food", "Medicine", "Car", "Utilities", "Leisure"}
)

// KeyboardKind tells the transport which reply keyboard to attach. The
// dialogue stays agnostic to how (or whether) the transport renders it.
type KeyboardKind int

const (
	KeyboardNone KeyboardKind = iota
	KeyboardMain
	KeyboardIncomeCategories
	KeyboardExpenseCategories
)

// Reply is a transport-agnostic response to one inbound message.
type Reply struct {
	Text     string
	Keyboard KeyboardKind
}

// Normalize canonicalizes message text for command matching.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsCancel reports whether the text is the escape-to-main-menu signal. It
// is checked before any other interpretation, so a category spelled like
// the reserved keyword cancels instead.
func IsCancel(text string) bool {
	return Normalize(text) == CmdMainMenu
}
