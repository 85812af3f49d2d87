// Package tui is an interactive explorer for the logistic map: adjust the
// parameter and initial condition from the keyboard and watch the forecast
// and its error respond.
package tui

import (
	"fmt"
	"math/rand"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hailcloud-um/logistic-map/internal/config"
	"github.com/hailcloud-um/logistic-map/internal/engine"
	"github.com/hailcloud-um/logistic-map/internal/viz"
)

const (
	rStep   = 0.01
	x0Step  = 0.01
	errStep = 1e-6
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	regimeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// parameter indexes for the cursor.
const (
	paramR = iota
	paramX0
	paramInitError
	paramCount
)

var paramNames = [paramCount]string{"r", "x0", "init error"}

// Model holds the scenario under exploration and the last computed bundle.
type Model struct {
	req      engine.Request
	seed     int64
	selected int
	bundle   *engine.Bundle
	err      error
	showHelp bool
}

// NewModel builds the explorer around a starting scenario.
func NewModel(req engine.Request, seed int64) Model {
	m := Model{req: req, seed: seed}
	m.recompute()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.selected = (m.selected + 1) % paramCount
		case "up", "k":
			m.adjust(1)
			m.recompute()
		case "down", "j":
			m.adjust(-1)
			m.recompute()
		case "e":
			m.req.Ensemble = !m.req.Ensemble
			if m.req.Ensemble && m.req.EnsembleSize <= 0 {
				m.req.EnsembleSize = config.DefaultEnsembleSize
			}
			m.recompute()
		case "s":
			m.req.Statistic = (m.req.Statistic + 1) % 3
			m.recompute()
		case "r":
			m.seed++
			m.recompute()
		case "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

// adjust nudges the selected parameter. The map only makes sense for
// r in [0,4] and x0 in [0,1], so the cursor saturates there.
func (m *Model) adjust(dir float64) {
	switch m.selected {
	case paramR:
		m.req.RTrue = clamp(m.req.RTrue+dir*rStep, 0, 4)
		m.req.RModel = m.req.RTrue
	case paramX0:
		m.req.X0True = clamp(m.req.X0True+dir*x0Step, 0, 1)
		m.req.X0Model = clamp(m.req.X0Model+dir*x0Step, 0, 1)
	case paramInitError:
		offset := m.req.X0Model - m.req.X0True
		offset = clamp(offset+dir*errStep, 0, 0.1)
		m.req.X0Model = clamp(m.req.X0True+offset, 0, 1)
	}
}

func (m *Model) recompute() {
	m.bundle, m.err = engine.RunSimulation(m.req, rand.New(rand.NewSource(m.seed)))
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("LOGISTIC MAP EXPLORER") + "\n")

	regime := config.ClassifyRegime(m.req.RTrue)
	values := [paramCount]string{
		fmt.Sprintf("%.4f  (%s)", m.req.RTrue, regimeStyle.Render(string(regime))),
		fmt.Sprintf("%.4f", m.req.X0True),
		fmt.Sprintf("%.2e", m.req.X0Model-m.req.X0True),
	}
	for i, name := range paramNames {
		line := labelStyle.Render(name) + valueStyle.Render(values[i])
		if i == m.selected {
			s.WriteString(activeStyle.Render("> ") + line + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	if m.req.Ensemble {
		s.WriteString("  " + labelStyle.Render("ensemble") +
			valueStyle.Render(fmt.Sprintf("%d members, %s", m.req.EnsembleSize, m.req.Statistic)) + "\n")
	} else {
		s.WriteString("  " + labelStyle.Render("ensemble") + valueStyle.Render("off") + "\n")
	}
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString(errStyle.Render("error: "+m.err.Error()) + "\n")
	} else {
		s.WriteString(viz.TrajectoryChart(m.bundle.Truth, m.bundle.Selected) + "\n")
		s.WriteString(viz.ErrorChart(m.bundle.AbsError, m.req.Threshold) + "\n")
		if m.bundle.Exceeded() {
			s.WriteString(errStyle.Render(fmt.Sprintf("predictability lost at step %d of %d",
				m.bundle.CrossingIndex, m.req.Steps)) + "\n")
		} else {
			s.WriteString(valueStyle.Render(fmt.Sprintf("forecast held for all %d steps", m.req.Steps)) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("tab:select  ↑↓:adjust  e:ensemble  s:statistic  r:reseed  ?:help  q:quit"))
	if m.showHelp {
		s.WriteString(helpStyle.Render("\n" + helpText))
	}
	return s.String()
}

const helpText = `tab      cycle the selected parameter
up/k     increase the selected parameter
down/j   decrease the selected parameter
e        toggle the perturbed ensemble forecast
s        cycle the forecast statistic (mean, median, mode)
r        redraw ensemble perturbations with a new seed
q        quit`

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
