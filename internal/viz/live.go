package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mcsim/internal/mc"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 400
	maxBatch        = 1 << 16
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a simulation from the Bubble Tea event loop.
type Model struct {
	ctx      context.Context
	sim      *mc.MonteCarlo
	name     string
	batch    int
	limit    int64
	running  bool
	err      error
	canvas   *Canvas
	camera   *Camera
	theme    Theme
	styles   styles
	energy   []float64
	showHelp bool
}

// NewModel wraps an initialized simulation. Each frame attempts batch
// trials; the run pauses once limit attempts have been made, or never when
// limit is zero.
func NewModel(ctx context.Context, sim *mc.MonteCarlo, name string, batch int, limit int64) Model {
	if batch < 1 {
		batch = 1
	}
	return Model{
		ctx:     ctx,
		sim:     sim,
		name:    name,
		batch:   batch,
		limit:   limit,
		running: true,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		camera:  NewCamera(),
		theme:   Themes[0],
		styles:  newStyles(Themes[0]),
		energy:  []float64{sim.Criteria().CurrentEnergy()},
	}
}

// Err returns the error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

func (m Model) Batch() int { return m.batch }

func (m Model) Running() bool { return m.running }

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running && m.err == nil
		case "+", "=":
			m.batch = min(maxBatch, m.batch*2)
		case "-", "_":
			m.batch = max(1, m.batch/2)
		case "up":
			m.camera.RotateX(-0.1)
		case "down":
			m.camera.RotateX(0.1)
		case "left":
			m.camera.RotateY(-0.1)
		case "right":
			m.camera.RotateY(0.1)
		case "z":
			m.camera.ZoomIn()
		case "x":
			m.camera.ZoomOut()
		case "t":
			m.theme = nextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step attempts one batch of trials and records the running energy.
func (m *Model) step() {
	n := m.batch
	if m.limit > 0 {
		left := m.limit - m.sim.NumAttempts()
		if left <= 0 {
			m.running = false
			return
		}
		n = int(min(int64(n), left))
	}
	if err := m.sim.Attempt(m.ctx, n); err != nil {
		m.err = err
		m.running = false
	}
	m.energy = append(m.energy, m.sim.Criteria().CurrentEnergy())
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[len(m.energy)-historyCapacity:]
	}
	if m.limit > 0 && m.sim.NumAttempts() >= m.limit {
		m.running = false
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.styles.failed.Render("FAILED")
	case m.running:
		return m.styles.running.Render("RUNNING")
	case m.limit > 0 && m.sim.NumAttempts() >= m.limit:
		return m.styles.paused.Render("DONE")
	}
	return m.styles.paused.Render("PAUSED")
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

func (m Model) View() string {
	m.canvas.Clear()
	Render(m.canvas, m.sim.System().Configuration(), m.camera)
	canvasView := m.styles.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(m.row("Attempts", fmt.Sprintf("%d", m.sim.NumAttempts())))
	s.WriteString(m.row("Batch", fmt.Sprintf("%d", m.batch)))
	s.WriteString(m.row("Energy", fmt.Sprintf("%.6g", m.sim.Criteria().CurrentEnergy())))
	s.WriteString(m.row("Trend", Sparkline(m.energy, 30)))
	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("energy"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
	}

	s.WriteString("\nTRIALS\n")
	for i := 0; i < m.sim.NumTrials(); i++ {
		t := m.sim.Trial(i)
		line := fmt.Sprintf("%s %5.1f%%", m.styles.ProgressBar(t.Acceptance(), 10), 100*t.Acceptance())
		if tn := t.Perturb().Tunable(); tn.Enabled {
			line += fmt.Sprintf("  %.3g", tn.Value)
		}
		s.WriteString("  " + m.styles.label.Render(t.Name()) + "\n    " + line + "\n")
	}

	if checks := m.sim.Checks(); len(checks) > 0 {
		s.WriteString("\nDRIFT\n")
		for _, c := range checks {
			d := c.Drift()
			if d.Count() == 0 {
				s.WriteString(m.row("  checks", "0"))
				continue
			}
			s.WriteString(m.row("  checks", fmt.Sprintf("%d", d.Count())))
			s.WriteString(m.row("  mean", fmt.Sprintf("%.3g", d.Average())))
			s.WriteString(m.row("  worst", fmt.Sprintf("%.3g", max(-d.Min(), d.Max()))))
		}
	}

	if m.err != nil {
		s.WriteString("\n" + m.styles.failed.Width(44).Render(m.err.Error()) + "\n")
	}
	s.WriteString(m.styles.help.Render("SP:Pause +/-:Batch Arrows:Rotate\nZ/X:Zoom T:Theme ?:Help Q:Quit"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(s.String()))
	if m.showHelp {
		return help + "\n" + view
	}
	return view
}

const help = `
 Space   pause or resume
 + / -   double or halve trials per frame
 Arrows  rotate the view
 Z / X   zoom in or out
 T       next color theme
 Q       quit
`
