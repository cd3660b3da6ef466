package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bnema/practice-ledger/internal/application"
	"github.com/bnema/practice-ledger/internal/dialogue"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const transcriptLimit = 40

type Handler interface {
	Handle(ctx context.Context, ev dialogue.Event) dialogue.Reply
}

type ChartRenderer interface {
	RenderChart(title string, points []application.SeriesPoint) (string, error)
}

type replyMsg struct {
	reply dialogue.Reply
}

// Model is a line-oriented chat with the dialogue engine.
type Model struct {
	ctx     context.Context
	handler Handler
	charts  ChartRenderer
	user    string

	input      textinput.Model
	spinner    spinner.Model
	transcript []string
	buttons    []dialogue.Button
	pending    bool
	quitting   bool

	promptStyle lipgloss.Style
	hintStyle   lipgloss.Style
}

func NewModel(ctx context.Context, handler Handler, charts ChartRenderer, user string) Model {
	input := textinput.New()
	input.Placeholder = "type /help"
	input.Prompt = "> "
	input.Focus()

	return Model{
		ctx:     ctx,
		handler: handler,
		charts:  charts,
		user:    user,
		input:   input,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		promptStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		hintStyle:   lipgloss.NewStyle().Faint(true),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	case replyMsg:
		m.pending = false
		m.buttons = msg.reply.Buttons
		m.transcript = append(m.transcript, FormatReply(msg.reply, m.charts))
		return m, nil
	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if m.pending || line == "" {
		return m, nil
	}
	m.input.Reset()

	if line == "/quit" || line == "/exit" {
		m.quitting = true
		return m, tea.Quit
	}

	m.transcript = append(m.transcript, m.promptStyle.Render("> "+line))
	m.pending = true

	ev := EventFor(m.user, line, m.buttons)
	send := func() tea.Msg {
		return replyMsg{reply: m.handler.Handle(m.ctx, ev)}
	}
	return m, tea.Batch(m.spinner.Tick, send)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	transcript := m.transcript
	if len(transcript) > transcriptLimit {
		transcript = transcript[len(transcript)-transcriptLimit:]
	}

	parts := make([]string, 0, len(transcript)+3)
	parts = append(parts, transcript...)
	if m.pending {
		parts = append(parts, m.spinner.View()+" working...")
	}
	parts = append(parts, m.input.View(), m.hintStyle.Render("/help lists commands, #N picks a button, /quit leaves"))

	return strings.Join(parts, "\n")
}

// EventFor turns a typed line into an engine event. "/x" is a command, "#N"
// or an exact button label picks that button, anything else is text.
func EventFor(user, line string, buttons []dialogue.Button) dialogue.Event {
	ev := dialogue.Event{UserID: user}

	if strings.HasPrefix(line, "/") {
		ev.Command = line
		return ev
	}

	if strings.HasPrefix(line, "#") {
		if n, err := strconv.Atoi(strings.TrimPrefix(line, "#")); err == nil && n >= 1 && n <= len(buttons) {
			ev.Callback = buttons[n-1].Data
			return ev
		}
	}

	for _, button := range buttons {
		if strings.EqualFold(button.Label, line) {
			ev.Callback = button.Data
			return ev
		}
	}

	ev.Text = line
	return ev
}

// FormatReply renders a reply for the terminal, buttons and chart included.
func FormatReply(reply dialogue.Reply, charts ChartRenderer) string {
	parts := []string{reply.Text}

	if len(reply.Buttons) > 0 {
		labels := make([]string, 0, len(reply.Buttons))
		for i, button := range reply.Buttons {
			labels = append(labels, fmt.Sprintf("[#%d] %s", i+1, button.Label))
		}
		parts = append(parts, strings.Join(labels, "  "))
	}

	if reply.Chart != nil && charts != nil {
		chart, err := charts.RenderChart(reply.Chart.Title, reply.Chart.Points)
		if err != nil {
			chart = "(chart unavailable: " + err.Error() + ")"
		}
		parts = append(parts, "", chart)
	}

	return strings.Join(parts, "\n")
}

// Run chats on in/out until the user quits or ctx is done.
func Run(ctx context.Context, handler Handler, charts ChartRenderer, user string, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(
		NewModel(ctx, handler, charts, user),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run chat: %w", err)
	}
	return nil
}
