package dialogue

import "strings"

type Kind string

const (
	KindAddClient       Kind = "add-client"
	KindRecordPayment   Kind = "record-payment"
	KindReschedule      Kind = "reschedule"
	KindCancelSession   Kind = "cancel-session"
	KindAddExtraSession Kind = "add-extra-session"
	KindChangeFee       Kind = "change-fee"
	KindCompleteSession Kind = "complete-session"
	KindEndClient       Kind = "end-client"
	KindClientReport    Kind = "client-report"
	KindFinancialReport Kind = "financial-report"
	KindScheduleReport  Kind = "schedule-report"
	KindCancel          Kind = "cancel"
	KindHelp            Kind = "help"
)

var aliases = map[string]Kind{
	"start":     KindHelp,
	"add-extra": KindAddExtraSession,
}

// ParseCommand accepts "add_client", "/add_client" and "add-client".
func ParseCommand(raw string) (Kind, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.TrimPrefix(name, "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	name = strings.ReplaceAll(name, "_", "-")

	if kind, ok := aliases[name]; ok {
		return kind, true
	}

	kind := Kind(name)
	if kind == KindCancel || kind == KindHelp {
		return kind, true
	}
	if _, ok := flows[kind]; ok {
		return kind, true
	}
	return "", false
}

// Command is the slash form shown to users, e.g. /add_client.
func (k Kind) Command() string {
	return "/" + strings.ReplaceAll(string(k), "-", "_")
}
