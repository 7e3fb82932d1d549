package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/episim/internal/epi"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Live replays a finished run sample by sample, charting prevalence as
// the playhead advances.
type Live struct {
	scenario string
	result   *epi.Result

	frame  int
	paused bool
	speed  int
	width  int
	height int
}

func NewLive(scenario string, result *epi.Result) *Live {
	return &Live{
		scenario: scenario,
		result:   result,
		speed:    1,
		width:    80,
		height:   24,
	}
}

func (m *Live) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "r":
			m.frame = 0
		case "+", "=":
			if m.speed < 16 {
				m.speed *= 2
			}
		case "-":
			if m.speed > 1 {
				m.speed /= 2
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && m.frame < m.result.Trajectory.Len()-1 {
			m.frame += m.speed
			if m.frame >= m.result.Trajectory.Len() {
				m.frame = m.result.Trajectory.Len() - 1
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Live) View() string {
	tr := m.result.Trajectory
	if tr.Len() == 0 {
		return dim.Render("no samples")
	}

	t := tr.Times[m.frame]
	x := tr.States[m.frame]
	beta := tr.Betas[m.frame]

	var b strings.Builder

	b.WriteString(cyan.Render(fmt.Sprintf("  %s scenario", m.scenario)))
	b.WriteString(dim.Render(fmt.Sprintf("  day %.0f / %.0f", t, tr.Times[tr.Len()-1])))
	if m.paused {
		b.WriteString(yellow.Render("  [paused]"))
	} else if m.speed > 1 {
		b.WriteString(dim.Render(fmt.Sprintf("  %dx", m.speed)))
	}
	b.WriteString("\n\n")

	graphWidth := m.width - 12
	if graphWidth < 20 {
		graphWidth = 20
	}
	infected := tr.Infected()[:m.frame+1]
	graph := asciigraph.Plot(infected,
		asciigraph.Height(10),
		asciigraph.Width(graphWidth),
		asciigraph.Caption("infected fraction"),
	)
	b.WriteString(graph)
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(green.Render(fmt.Sprintf("S %.4f", x[epi.S])))
	b.WriteString("   ")
	b.WriteString(red.Render(fmt.Sprintf("I %.4f", x[epi.I])))
	b.WriteString("   ")
	b.WriteString(white.Render(fmt.Sprintf("R %.4f", x[epi.R])))
	b.WriteString("   ")
	b.WriteString(yellow.Render(fmt.Sprintf("beta %.3f", beta)))
	b.WriteString("\n")

	if n := len(m.result.Events); n > 1 {
		last := m.result.Events[0]
		for _, ev := range m.result.Events {
			if ev.T <= t {
				last = ev
			}
		}
		b.WriteString(dim.Render(fmt.Sprintf("  rate changes: %d, last at day %.0f", n-1, last.T)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("  space pause  r restart  +/- speed  q quit"))
	b.WriteString("\n")

	return b.String()
}

// Run starts the replay in the alternate screen buffer and blocks until
// the viewer quits.
func Run(scenario string, result *epi.Result) error {
	p := tea.NewProgram(NewLive(scenario, result), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
