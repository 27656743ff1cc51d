package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles holds the lipgloss styles derived from one Theme.
type styles struct {
	canvas  lipgloss.Style
	panel   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	failed  lipgloss.Style
	high    lipgloss.Style
	mid     lipgloss.Style
	low     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(48),
		header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		graph:   lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		failed:  lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		high:    lipgloss.NewStyle().Foreground(t.Success),
		mid:     lipgloss.NewStyle().Foreground(t.Warning),
		low:     lipgloss.NewStyle().Foreground(t.Error),
	}
}

// ProgressBar renders a fraction in [0, 1] as a bar of the given width.
func (s styles) ProgressBar(fraction float64, width int) string {
	if math.IsNaN(fraction) {
		fraction = 0
	}
	filled := max(0, min(width, int(fraction*float64(width))))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case fraction > 0.8:
		return s.high.Render(bar)
	case fraction > 0.4:
		return s.mid.Render(bar)
	}
	return s.low.Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the most recent width values as a one-line chart.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(sparkChars)-1))
		b.WriteRune(sparkChars[max(0, min(len(sparkChars)-1, idx))])
	}
	return b.String()
}
