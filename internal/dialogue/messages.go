package dialogue

import (
	"errors"
	"strings"

	"github.com/bnema/practice-ledger/internal/domain"
)

const (
	msgApology        = "Sorry, something went wrong. Please try again."
	msgStoreFailure   = "Sorry, the ledger could not be saved. Nothing was changed; please try again later."
	msgCancelled      = "Operation cancelled."
	msgNoConversation = "No active conversation. Send /help to see the commands."
	msgNoClients      = "No clients registered yet."
	msgNoPayments     = "No payments recorded yet."
)

// recoverable errors keep the conversation in its current state.
func recoverable(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict)
}

func userMessage(err error, e *Engine) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return "Please enter a positive amount (at most 2 decimal places)."
	case errors.Is(err, domain.ErrInvalidDate):
		return "Date/time not recognized. Use the format of the example (" + e.dateTimeExample() + ")."
	case errors.Is(err, domain.ErrClientNotFound):
		return "Client not found. Names must match exactly."
	case errors.Is(err, domain.ErrNameAlreadyExists):
		return "A client with that name already exists."
	case errors.Is(err, domain.ErrClientInactive):
		return "That client's sessions have ended."
	case errors.Is(err, domain.ErrNoScheduledSession):
		return "That client has no scheduled session."
	default:
		return "That answer is not valid."
	}
}

var helpCommands = []struct {
	kind Kind
	text string
}{
	{KindAddClient, "add a new client"},
	{KindRecordPayment, "record a payment"},
	{KindReschedule, "move the next session"},
	{KindCancelSession, "cancel the next session"},
	{KindAddExtraSession, "book an extra session"},
	{KindChangeFee, "change the session fee"},
	{KindCompleteSession, "mark the next session as held"},
	{KindEndClient, "end a client's sessions"},
	{KindClientReport, "client report"},
	{KindFinancialReport, "financial report"},
	{KindScheduleReport, "schedule report"},
	{KindCancel, "abort the current conversation"},
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Practice ledger is ready.\n\nCommands:\n")
	for _, cmd := range helpCommands {
		b.WriteString(cmd.kind.Command())
		b.WriteString(" - ")
		b.WriteString(cmd.text)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
