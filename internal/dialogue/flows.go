package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/practice-ledger/internal/application"
	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/bnema/practice-ledger/internal/ports"
	"github.com/shopspring/decimal"
)

// step is one state of a conversation. accept returns a reply only when the
// conversation is over; a nil reply with a nil error moves to the next step.
type step struct {
	state  string
	prompt func(e *Engine, c *conversation) Reply
	accept func(ctx context.Context, e *Engine, c *conversation, input string) (*Reply, error)
}

type flow struct {
	// guard may end the conversation before the first prompt.
	guard func(e *Engine) *Reply
	steps []step
}

// addClientNameStep is the AwaitName index in the add-client flow.
const addClientNameStep = 0

var flows = map[Kind]flow{
	KindAddClient: {steps: []step{
		{state: "AwaitName", prompt: textPrompt("Enter the client's name:"), accept: acceptName},
		{state: "AwaitCurrency", prompt: currencyPrompt, accept: acceptCurrency},
		{state: "AwaitFee", prompt: textPrompt("Enter the fee per session:"), accept: acceptFee},
		{state: "AwaitCadence", prompt: cadencePrompt, accept: acceptCadence},
		{state: "AwaitFirstSessionDateTime", prompt: dateTimePrompt("Enter the first session date and time"), accept: createClient},
	}},
	KindRecordPayment: {guard: clientsGuard(anyClient, msgNoClients), steps: []step{
		{state: "AwaitClientSelection", prompt: clientPrompt(anyClient), accept: selectClient(anyClient)},
		{state: "AwaitAmount", prompt: amountDuePrompt, accept: recordPayment},
	}},
	KindReschedule: {guard: clientsGuard(activeBookedClient, "No active client has a scheduled session."), steps: []step{
		{state: "AwaitClientSelection", prompt: clientPrompt(activeBookedClient), accept: selectClient(activeBookedClient)},
		{state: "AwaitNewDateTime", prompt: newDateTimePrompt, accept: reschedule},
	}},
	KindCancelSession: {guard: clientsGuard(bookedClient, "No client has a scheduled session."), steps: []step{
		{state: "AwaitClientSelection", prompt: clientPrompt(bookedClient), accept: selectClient(bookedClient)},
		{state: "AwaitConfirmation", prompt: confirmCancelPrompt, accept: cancelSession},
	}},
	KindAddExtraSession: {guard: clientsGuard(activeClient, "No active clients."), steps: []step{
		{state: "AwaitClientSelection", prompt: clientPrompt(activeClient), accept: selectClient(activeClient)},
		{state: "AwaitDateTime", prompt: dateTimePrompt("Enter the extra session date and time"), accept: addExtraSession},
	}},
	KindChangeFee: {guard: clientsGuard(anyClient, msgNoClients), steps: []step{
		{state: "AwaitClientSelection", prompt: clientPrompt(anyClient), accept: selectClient(anyClient)},
		{state: "AwaitNewFee", prompt: newFeePrompt, accept: changeFee},
	}},
	KindCompleteSession: {guard: clientsGuard(bookedClient, "No client has a scheduled session."), steps: []step{
		{state: "AwaitClientSelection", prompt: clientPrompt(bookedClient), accept: completeSession},
	}},
	KindEndClient: {guard: clientsGuard(activeClient, "No active clients."), steps: []step{
		{state: "AwaitClientSelection", prompt: clientPrompt(activeClient), accept: selectClient(activeClient)},
		{state: "AwaitConfirmation", prompt: confirmEndPrompt, accept: endClient},
	}},
	KindClientReport: {guard: clientsGuard(anyClient, msgNoClients), steps: []step{
		{state: "AwaitSelection", prompt: clientPrompt(anyClient), accept: clientReport},
	}},
	KindFinancialReport: {guard: paymentsGuard, steps: []step{
		{state: "AwaitSelection", prompt: periodPrompt, accept: financialReport},
	}},
	KindScheduleReport: {steps: []step{
		{state: "AwaitSelection", prompt: dayPrompt, accept: scheduleReport},
	}},
}

// staleSelection ends a conversation whose chosen client stopped qualifying
// while it was open, since re-prompting the final step cannot help.
func staleSelection(c *conversation, err error) (*Reply, error) {
	switch {
	case errors.Is(err, domain.ErrClientInactive):
		return &Reply{Text: fmt.Sprintf("Sessions of %s have already ended. Nothing was changed.", c.draft.client)}, nil
	case errors.Is(err, domain.ErrNoScheduledSession):
		return &Reply{Text: fmt.Sprintf("%s no longer has a scheduled session. Nothing was changed.", c.draft.client)}, nil
	default:
		return nil, err
	}
}

// example is the instant shown in date prompts, 1403-05-15 14:30 in Jalali.
func (e *Engine) example() time.Time {
	return time.Date(2024, time.August, 5, 14, 30, 0, 0, e.calendar.Location())
}

func (e *Engine) dateTimeExample() string {
	return e.calendar.ToDisplay(e.example())
}

func textPrompt(text string) func(*Engine, *conversation) Reply {
	return func(*Engine, *conversation) Reply {
		return Reply{Text: text}
	}
}

func dateTimePrompt(label string) func(*Engine, *conversation) Reply {
	return func(e *Engine, _ *conversation) Reply {
		return Reply{Text: fmt.Sprintf("%s (e.g. %s):", label, e.dateTimeExample())}
	}
}

func money(amount decimal.Decimal, currency domain.Currency) string {
	return amount.String() + " " + string(currency)
}

func parseAmount(input string) (decimal.Decimal, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, input)
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%q: %w", input, err)
	}
	return amount, nil
}

// parseDateTime accepts a date with a time of day and requires the parsed
// instant to survive a display round trip.
func (e *Engine) parseDateTime(input string) (time.Time, error) {
	if !strings.Contains(input, ":") {
		return time.Time{}, fmt.Errorf("%w: time of day is missing in %q", domain.ErrInvalidDate, input)
	}
	return parseInstant(e.calendar, input)
}

func parseInstant(cal ports.Calendar, input string) (time.Time, error) {
	parsed, err := cal.Parse(input)
	if err != nil {
		return time.Time{}, err
	}

	back, err := cal.Parse(cal.ToDisplay(parsed))
	if err != nil || !back.Equal(parsed) {
		return time.Time{}, fmt.Errorf("%w: %q does not round-trip", domain.ErrInvalidDate, input)
	}
	return parsed, nil
}

// ResolveDay reads "today", "tomorrow" (relative to now in the calendar's
// location) or a calendar date.
func ResolveDay(cal ports.Calendar, now time.Time, input string) (time.Time, error) {
	now = now.In(cal.Location())
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	default:
		return parseInstant(cal, strings.TrimSpace(input))
	}
}

// Client selection.

type clientFilter func(domain.Client) error

func anyClient(domain.Client) error { return nil }

func activeClient(client domain.Client) error {
	if !client.Active {
		return fmt.Errorf("%w: %q", domain.ErrClientInactive, client.Name)
	}
	return nil
}

func bookedClient(client domain.Client) error {
	if client.NextSession == nil {
		return fmt.Errorf("%w for %q", domain.ErrNoScheduledSession, client.Name)
	}
	return nil
}

func activeBookedClient(client domain.Client) error {
	if err := activeClient(client); err != nil {
		return err
	}
	return bookedClient(client)
}

func eligibleClients(e *Engine, filter clientFilter) []domain.Client {
	eligible := make([]domain.Client, 0)
	for _, client := range e.ledger.ListClients() {
		if filter(client) == nil {
			eligible = append(eligible, client)
		}
	}
	return eligible
}

func clientsGuard(filter clientFilter, empty string) func(*Engine) *Reply {
	return func(e *Engine) *Reply {
		if len(eligibleClients(e, filter)) == 0 {
			return &Reply{Text: empty}
		}
		return nil
	}
}

func clientPrompt(filter clientFilter) func(*Engine, *conversation) Reply {
	return func(e *Engine, _ *conversation) Reply {
		reply := Reply{Text: "Choose the client:"}
		for _, client := range eligibleClients(e, filter) {
			reply.Buttons = append(reply.Buttons, Button{Label: client.Name, Data: client.Name})
		}
		return reply
	}
}

func selectClient(filter clientFilter) func(context.Context, *Engine, *conversation, string) (*Reply, error) {
	return func(_ context.Context, e *Engine, c *conversation, input string) (*Reply, error) {
		client, err := e.ledger.Client(input)
		if err != nil {
			return nil, err
		}
		if err := filter(client); err != nil {
			return nil, err
		}
		c.draft.client = client.Name
		return nil, nil
	}
}

// Add client.

func acceptName(_ context.Context, e *Engine, c *conversation, input string) (*Reply, error) {
	if input == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if _, err := e.ledger.Client(input); err == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrNameAlreadyExists, input)
	}
	c.draft.name = input
	return nil, nil
}

func currencyPrompt(*Engine, *conversation) Reply {
	return Reply{
		Text: "Choose the currency:",
		Buttons: []Button{
			{Label: "Toman (IRR)", Data: string(domain.CurrencyIRR)},
			{Label: "Dollar (USD)", Data: string(domain.CurrencyUSD)},
			{Label: "Euro (EUR)", Data: string(domain.CurrencyEUR)},
		},
	}
}

func acceptCurrency(_ context.Context, _ *Engine, c *conversation, input string) (*Reply, error) {
	currency := domain.Currency(strings.ToUpper(input))
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: unsupported currency %q", domain.ErrValidation, input)
	}
	c.draft.currency = currency
	return nil, nil
}

func acceptFee(_ context.Context, _ *Engine, c *conversation, input string) (*Reply, error) {
	fee, err := parseAmount(input)
	if err != nil {
		return nil, err
	}
	c.draft.fee = fee
	return nil, nil
}

func cadencePrompt(*Engine, *conversation) Reply {
	return Reply{
		Text: "Choose the session cadence:",
		Buttons: []Button{
			{Label: "Weekly", Data: string(domain.CadenceWeekly)},
			{Label: "Every two weeks", Data: string(domain.CadenceBiweekly)},
			{Label: "Variable", Data: string(domain.CadenceVariable)},
		},
	}
}

func acceptCadence(_ context.Context, _ *Engine, c *conversation, input string) (*Reply, error) {
	cadence := domain.Cadence(strings.ToLower(input))
	if !cadence.Valid() {
		return nil, fmt.Errorf("%w: unsupported cadence %q", domain.ErrValidation, input)
	}
	c.draft.cadence = cadence
	return nil, nil
}

func createClient(ctx context.Context, e *Engine, c *conversation, input string) (*Reply, error) {
	firstSession, err := e.parseDateTime(input)
	if err != nil {
		return nil, err
	}

	client, err := e.ledger.CreateClient(ctx, application.CreateClientCommand{
		Name:         c.draft.name,
		Currency:     c.draft.currency,
		SessionFee:   c.draft.fee,
		Cadence:      c.draft.cadence,
		FirstSession: firstSession,
	})
	if errors.Is(err, domain.ErrNameAlreadyExists) {
		c.draft.name = ""
		c.step = addClientNameStep
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	return &Reply{Text: fmt.Sprintf("Client %s added.\nFirst session on %s.\nBalance: %s",
		client.Name, e.calendar.ToDisplay(firstSession), money(client.Balance, client.Currency))}, nil
}

// Record payment.

func amountDuePrompt(e *Engine, c *conversation) Reply {
	client, err := e.ledger.Client(c.draft.client)
	if err != nil {
		return Reply{Text: "Enter the amount paid:"}
	}

	standing := "Balance: " + money(client.Balance, client.Currency)
	if client.Owes() {
		standing = "Amount due: " + money(client.Balance.Abs(), client.Currency)
	}
	return Reply{Text: fmt.Sprintf("Client: %s\n%s\nEnter the amount paid:", client.Name, standing)}
}

func recordPayment(ctx context.Context, e *Engine, c *conversation, input string) (*Reply, error) {
	amount, err := parseAmount(input)
	if err != nil {
		return nil, err
	}
	client, err := e.ledger.Client(c.draft.client)
	if err != nil {
		return nil, err
	}

	balance, err := e.ledger.RecordPayment(ctx, application.RecordPaymentCommand{ClientName: client.Name, Amount: amount})
	if err != nil {
		return nil, err
	}

	return &Reply{Text: fmt.Sprintf("Recorded a payment of %s for %s.\nNew balance: %s",
		money(amount, client.Currency), client.Name, money(balance, client.Currency))}, nil
}

// Session changes.

func (e *Engine) nextSessionText(clientName string) string {
	client, err := e.ledger.Client(clientName)
	if err != nil || client.NextSession == nil {
		return "none"
	}
	return e.calendar.ToDisplay(*client.NextSession)
}

func newDateTimePrompt(e *Engine, c *conversation) Reply {
	return Reply{Text: fmt.Sprintf("Next session of %s is on %s.\nEnter the new date and time (e.g. %s):",
		c.draft.client, e.nextSessionText(c.draft.client), e.dateTimeExample())}
}

func reschedule(ctx context.Context, e *Engine, c *conversation, input string) (*Reply, error) {
	startsAt, err := e.parseDateTime(input)
	if err != nil {
		return nil, err
	}

	moved, err := e.ledger.Reschedule(ctx, c.draft.client, startsAt)
	if err != nil {
		return staleSelection(c, err)
	}
	return &Reply{Text: fmt.Sprintf("Session of %s moved to %s.", c.draft.client, e.calendar.ToDisplay(moved.StartsAt))}, nil
}

var confirmButtons = []Button{{Label: "Yes", Data: "yes"}, {Label: "No", Data: "no"}}

// confirmed reads a yes/no answer.
func confirmed(input string) (bool, error) {
	switch strings.ToLower(input) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("%w: answer yes or no", domain.ErrValidation)
	}
}

func confirmCancelPrompt(e *Engine, c *conversation) Reply {
	return Reply{
		Text:    fmt.Sprintf("Cancel the session of %s on %s?", c.draft.client, e.nextSessionText(c.draft.client)),
		Buttons: confirmButtons,
	}
}

func cancelSession(ctx context.Context, e *Engine, c *conversation, input string) (*Reply, error) {
	ok, err := confirmed(input)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Reply{Text: "Nothing was changed."}, nil
	}

	cancelled, err := e.ledger.CancelSession(ctx, c.draft.client)
	if err != nil {
		return staleSelection(c, err)
	}
	client, err := e.ledger.Client(c.draft.client)
	if err != nil {
		return nil, err
	}
	return &Reply{Text: fmt.Sprintf("Session of %s on %s cancelled. The fee was credited back.\nBalance: %s",
		client.Name, e.calendar.ToDisplay(cancelled.StartsAt), money(client.Balance, client.Currency))}, nil
}

func addExtraSession(ctx context.Context, e *Engine, c *conversation, input string) (*Reply, error) {
	startsAt, err := e.parseDateTime(input)
	if err != nil {
		return nil, err
	}

	session, err := e.ledger.AddExtraSession(ctx, c.draft.client, startsAt)
	if err != nil {
		return staleSelection(c, err)
	}
	client, err := e.ledger.Client(c.draft.client)
	if err != nil {
		return nil, err
	}
	return &Reply{Text: fmt.Sprintf("Extra session for %s booked on %s at %s.\nBalance: %s",
		client.Name, e.calendar.ToDisplay(session.StartsAt), money(session.Fee, client.Currency), money(client.Balance, client.Currency))}, nil
}

func newFeePrompt(e *Engine, c *conversation) Reply {
	client, err := e.ledger.Client(c.draft.client)
	if err != nil {
		return Reply{Text: "Enter the new fee per session:"}
	}
	return Reply{Text: fmt.Sprintf("Current fee for %s: %s\nEnter the new fee per session:", client.Name, money(client.SessionFee, client.Currency))}
}

func changeFee(ctx context.Context, e *Engine, c *conversation, input string) (*Reply, error) {
	fee, err := parseAmount(input)
	if err != nil {
		return nil, err
	}

	client, err := e.ledger.ChangeFee(ctx, c.draft.client, fee)
	if err != nil {
		return nil, err
	}
	return &Reply{Text: fmt.Sprintf("Fee for %s is now %s. Sessions already booked keep their fee.",
		client.Name, money(client.SessionFee, client.Currency))}, nil
}

func completeSession(ctx context.Context, e *Engine, c *conversation, input string) (*Reply, error) {
	if _, err := selectClient(bookedClient)(ctx, e, c, input); err != nil {
		return nil, err
	}

	session, err := e.ledger.CompleteSession(ctx, c.draft.client)
	if err != nil {
		return nil, err
	}
	return &Reply{Text: fmt.Sprintf("Session of %s on %s marked as held.", c.draft.client, e.calendar.ToDisplay(session.StartsAt))}, nil
}

func confirmEndPrompt(_ *Engine, c *conversation) Reply {
	return Reply{
		Text:    fmt.Sprintf("End the sessions of %s? Their history is kept.", c.draft.client),
		Buttons: confirmButtons,
	}
}

func endClient(ctx context.Context, e *Engine, c *conversation, input string) (*Reply, error) {
	ok, err := confirmed(input)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Reply{Text: "Nothing was changed."}, nil
	}

	if err := e.ledger.EndClient(ctx, c.draft.client); err != nil {
		return staleSelection(c, err)
	}
	return &Reply{Text: fmt.Sprintf("Sessions of %s have ended.", c.draft.client)}, nil
}

// Reports.

func clientReport(_ context.Context, e *Engine, _ *conversation, input string) (*Reply, error) {
	report, err := e.ledger.ComputeClientReport(input)
	if err != nil {
		return nil, err
	}
	return &Reply{Text: e.renderer.RenderClientReport(report)}, nil
}

func paymentsGuard(e *Engine) *Reply {
	if !e.ledger.HasPayments() {
		return &Reply{Text: msgNoPayments}
	}
	return nil
}

func periodPrompt(*Engine, *conversation) Reply {
	return Reply{
		Text: "Choose the report period:",
		Buttons: []Button{
			{Label: "Daily", Data: string(application.PeriodDaily)},
			{Label: "Weekly", Data: string(application.PeriodWeekly)},
			{Label: "Monthly", Data: string(application.PeriodMonthly)},
			{Label: "Yearly", Data: string(application.PeriodYearly)},
		},
	}
}

func financialReport(_ context.Context, e *Engine, _ *conversation, input string) (*Reply, error) {
	period := application.Period(strings.ToLower(input))
	if !period.Valid() {
		return nil, fmt.Errorf("%w: unsupported period %q", domain.ErrValidation, input)
	}

	report, err := e.ledger.ComputeFinancialReportForPeriod(period)
	if errors.Is(err, domain.ErrNoData) {
		return &Reply{Text: fmt.Sprintf("No payments found for the %s report.", period)}, nil
	}
	if err != nil {
		return nil, err
	}

	return &Reply{
		Text:  e.renderer.RenderFinancialReport(report),
		Chart: &Chart{Title: fmt.Sprintf("Revenue (%s)", period), Points: report.Series},
	}, nil
}

func dayPrompt(e *Engine, _ *conversation) Reply {
	return Reply{
		Text: fmt.Sprintf("Which day? Choose below or enter a date (e.g. %s):", e.calendar.ToDisplayDate(e.example())),
		Buttons: []Button{
			{Label: "Today", Data: "today"},
			{Label: "Tomorrow", Data: "tomorrow"},
		},
	}
}

func scheduleReport(_ context.Context, e *Engine, _ *conversation, input string) (*Reply, error) {
	day, err := ResolveDay(e.calendar, e.clock.Now(), input)
	if err != nil {
		return nil, err
	}

	return &Reply{Text: e.renderer.RenderSchedule(e.ledger.ComputeScheduleForDay(day))}, nil
}
