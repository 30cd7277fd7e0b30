package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldUserID      = "user_id"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldType        = "transaction_type"
	FieldMonth       = "month"
	FieldState       = "dialog_state"
	FieldOperation   = "operation"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentBot     = "bot"
	ComponentDialog  = "dialog"
	ComponentSession = "session"
	ComponentStorage = "storage"
	ComponentReport  = "report"
	ComponentChart   = "chart"
)

// Operations defines standard operation names
const (
	OpRecord   = "record"
	OpBalance  = "balance"
	OpReport   = "report"
	OpRender   = "render"
	OpDispatch = "dispatch"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
