package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bnema/practice-ledger/internal/application"
	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/bnema/practice-ledger/internal/ports"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Renderer formats reports as text, with dates in the practitioner's
// calendar.
type Renderer struct {
	calendar ports.Calendar
	styles   styles
}

// New returns a renderer whose colors follow out's terminal capabilities.
func New(calendar ports.Calendar, out io.Writer) *Renderer {
	if out == nil {
		out = io.Discard
	}
	return &Renderer{calendar: calendar, styles: newStyles(out)}
}

func (r *Renderer) RenderClientReport(report application.ClientReport) string {
	s := r.styles
	client := report.Client

	next := "none"
	if client.NextSession != nil {
		next = r.calendar.ToDisplay(*client.NextSession)
	}
	status := "active"
	if !client.Active {
		status = "ended"
	}

	lines := []string{
		s.title.Render("Client report: " + client.Name),
		r.field("Currency", string(client.Currency)),
		r.field("Fee per session", client.SessionFee.String()),
		r.field("Cadence", string(client.Cadence)),
		r.field("Sessions held", fmt.Sprintf("%d", client.SessionsCount)),
		r.field("Cancellations", fmt.Sprintf("%d", client.Cancellations)),
		r.field("Reschedules", fmt.Sprintf("%d", client.Reschedules)),
		r.field("Payments", fmt.Sprintf("%d totalling %s", report.PaymentsCount, report.PaymentsSum.String())),
		s.label.Render("Balance:") + " " + r.balance(client),
		r.field("Next session", next),
		r.field("Status", status),
		s.header.Render(fmt.Sprintf("sessions: %d scheduled, %d completed, %d cancelled, %d rescheduled",
			report.Scheduled, report.Completed, report.Cancelled, report.Rescheduled)),
	}

	if len(report.Upcoming) > 0 {
		upcoming := []string{s.label.Render("Upcoming:")}
		for _, session := range report.Upcoming {
			upcoming = append(upcoming, s.value.Render("- "+r.calendar.ToDisplay(session.StartsAt)))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, upcoming...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) RenderFinancialReport(report application.FinancialReport) string {
	s := r.styles

	title := "Financial report"
	if report.Period != "" {
		title += " (" + string(report.Period) + ")"
	}

	lines := []string{
		s.title.Render(title),
		s.header.Render("from " + r.calendar.ToDisplayDate(report.PeriodStart) + " until now"),
		r.field("Payments", fmt.Sprintf("%d", report.Count)),
		r.field("Total", report.Total.StringFixed(2)),
		r.field("Average", report.Average.StringFixed(2)),
	}

	byCurrency := []string{s.label.Render("By currency:")}
	for _, currency := range report.Currencies() {
		byCurrency = append(byCurrency, s.value.Render(fmt.Sprintf("- %s: %s", currency, report.ByCurrency[currency].StringFixed(2))))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, byCurrency...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) RenderSchedule(schedule application.Schedule) string {
	s := r.styles
	loc := r.calendar.Location()

	lines := []string{
		s.title.Render("Schedule for " + r.calendar.ToDisplayDate(schedule.Day)),
		s.header.Render(fmt.Sprintf("sessions: %d", len(schedule.Booked))),
	}

	booked := []string{s.label.Render("Booked:")}
	if len(schedule.Booked) == 0 {
		booked = append(booked, s.empty.Render("No sessions booked."))
	}
	for _, session := range schedule.Booked {
		booked = append(booked, s.value.Render(fmt.Sprintf("- %s at %s", session.ClientName, session.Clock(loc))))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, booked...)))

	free := []string{s.label.Render("Free slots:")}
	if len(schedule.FreeSlots) == 0 {
		free = append(free, s.empty.Render("No free slots."))
	}
	for _, slot := range schedule.FreeSlots {
		free = append(free, s.value.Render("- "+slot))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, free...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderClients lists clients one per line with their balance.
func (r *Renderer) RenderClients(clients []domain.Client) string {
	s := r.styles

	lines := []string{
		s.title.Render("Clients"),
		s.header.Render(fmt.Sprintf("clients: %d", len(clients))),
	}
	if len(clients) == 0 {
		lines = append(lines, s.empty.Render("No clients registered yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	width := 0
	for _, client := range clients {
		width = max(width, lipgloss.Width(client.Name))
	}
	for _, client := range clients {
		name := client.Name + strings.Repeat(" ", width-lipgloss.Width(client.Name))
		line := s.value.Render(name) + "  " + r.balance(client)
		if !client.Active {
			line += " " + s.empty.Render("[ended]")
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) field(label, value string) string {
	return r.styles.label.Render(label+":") + " " + r.styles.value.Render(value)
}

func (r *Renderer) balance(client domain.Client) string {
	amount := client.Balance.String() + " " + string(client.Currency)
	switch {
	case client.Owes():
		return r.styles.owes.Render(amount + " (owes)")
	case client.Balance.GreaterThan(decimal.Zero):
		return r.styles.credit.Render(amount + " (credit)")
	default:
		return r.styles.value.Render(amount + " (settled)")
	}
}
