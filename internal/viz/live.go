package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/safetyctl/internal/metrics"
	"github.com/san-kum/safetyctl/internal/scenario"
)

const (
	historyCapacity = 300
	jogStep         = 0.05
)

type TickMsg time.Time

// LiveModel steps a scenario runner once per tick and shows the latest
// cycle next to a rolling graph of the scaling factor.
type LiveModel struct {
	runner   *scenario.Runner
	interval time.Duration
	running  bool
	last     metrics.Sample
	factors  []float64
	err      error
}

func NewLiveModel(r *scenario.Runner, fps int) LiveModel {
	if fps <= 0 {
		fps = 30
	}
	return LiveModel{
		runner:   r,
		interval: time.Second / time.Duration(fps),
		running:  true,
		factors:  make([]float64, 0, historyCapacity),
	}
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.runner.Reset()
			m.factors = m.factors[:0]
			m.last = metrics.Sample{}
			m.running = true
		case "up", "k":
			m.runner.SetMaxPower(m.runner.MaxPower() * 1.1)
		case "down", "j":
			m.runner.SetMaxPower(m.runner.MaxPower() * 0.9)
		case "h":
			m.err = m.runner.Hold(!m.runner.Held())
		case "left", "right":
			jog := m.runner.Jog()
			if msg.String() == "left" {
				jog[0] -= jogStep
			} else {
				jog[0] += jogStep
			}
			m.err = m.runner.SetJog(jog)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *LiveModel) step() {
	s, ok := m.runner.Step()
	if !ok {
		m.running = false
		return
	}
	m.last = s
	if len(m.factors) == historyCapacity {
		copy(m.factors, m.factors[1:])
		m.factors = m.factors[:historyCapacity-1]
	}
	m.factors = append(m.factors, s.Factor)
}

func (m LiveModel) View() string {
	var status string
	switch {
	case m.runner.Done():
		status = statusDone.Render("DONE")
	case m.runner.Held():
		status = statusPaused.Render("HOLD")
	case m.running:
		status = statusRunning.Render("RUNNING")
	default:
		status = statusPaused.Render("PAUSED")
	}

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}

	stats := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("%s  %s", m.runner.Config().Name, status)),
		row("phase", m.last.Phase),
		row("cycle", fmt.Sprintf("%d / %d", m.runner.Controller().Cycle(), m.runner.Config().TotalCycles())),
		row("max power (W)", fmt.Sprintf("%.3f", m.runner.MaxPower())),
		row("jog x (m/s)", fmt.Sprintf("%.2f", m.runner.Jog()[0])),
		row("desired power (W)", fmt.Sprintf("%.3f", m.last.Power)),
		row("commanded power (W)", fmt.Sprintf("%.3f", m.last.TCPPower)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render("factor"),
			factorStyle(m.last.Factor).Bold(true).Render(fmt.Sprintf("%.4f", m.last.Factor)),
		),
	)

	var b strings.Builder
	b.WriteString(panelStyle.Render(stats))
	if len(m.factors) > 1 {
		b.WriteString("\n")
		b.WriteString(graphStyle.Render(asciigraph.Plot(m.factors,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Caption("scaling factor"),
		)))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(factorStopped.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space pause • h hold • ←/→ jog • r restart • ↑/↓ power bound • q quit"))
	return b.String()
}

// RunLive blocks until the user quits.
func RunLive(r *scenario.Runner, fps int) error {
	_, err := tea.NewProgram(NewLiveModel(r, fps)).Run()
	return err
}
