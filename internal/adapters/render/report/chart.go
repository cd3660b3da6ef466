package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/practice-ledger/internal/application"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const chartWidth = 30

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

// chartModel renders the chart once and quits.
type chartModel struct {
	title    string
	points   []application.SeriesPoint
	renderer *Renderer
	output   string
}

func (m chartModel) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m chartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.renderer.chartView(m.title, m.points)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m chartModel) View() string {
	return m.output
}

// RenderChart draws the revenue series as a horizontal bar chart, one bar
// per day.
func (r *Renderer) RenderChart(title string, points []application.SeriesPoint) (string, error) {
	p := tea.NewProgram(
		chartModel{title: title, points: points, renderer: r},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}

	rendered, ok := finalModel.(chartModel)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}

func (r *Renderer) chartView(title string, points []application.SeriesPoint) string {
	s := r.styles
	lines := []string{s.title.Render(title)}

	if len(points) == 0 {
		lines = append(lines, s.empty.Render("No data."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	peak := decimal.Zero
	for _, point := range points {
		if point.Amount.GreaterThan(peak) {
			peak = point.Amount
		}
	}

	for _, point := range points {
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.label.Render(r.calendar.ToDisplayDate(point.Date)),
			" ",
			r.bar(point.Amount, peak, chartWidth),
			" ",
			s.barText.Render(point.Amount.StringFixed(2)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) bar(amount, peak decimal.Decimal, width int) string {
	filled := 0
	if peak.IsPositive() {
		filled = int(amount.Div(peak).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	}
	if amount.IsPositive() && filled == 0 {
		filled = 1
	}
	filled = min(max(filled, 0), width)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		r.styles.barBracket.Render("|"),
		r.styles.barFill.Render(strings.Repeat("#", filled)),
		strings.Repeat(" ", width-filled),
		r.styles.barBracket.Render("|"),
	)
}
