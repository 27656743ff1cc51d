package viz

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/mc"
)

func newSim(t *testing.T, preset string) *mc.MonteCarlo {
	t.Helper()
	sim, err := config.GetPreset(preset).Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := sim.Initialize(); err != nil {
		t.Fatal(err)
	}
	return sim
}

func TestCanvasSetAndLine(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.DotWidth() != 8 || c.DotHeight() != 8 {
		t.Fatalf("dot size %dx%d", c.DotWidth(), c.DotHeight())
	}
	c.Set(-1, 0)
	c.Set(100, 100)
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("out of range dots should be ignored")
	}

	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal dot %d not set", i)
		}
	}
	if c.IsSet(7, 0) {
		t.Error("unexpected dot")
	}
	c.Clear()
	if c.IsSet(3, 3) {
		t.Error("clear left dots set")
	}
}

func TestRenderDrawsConfiguration(t *testing.T) {
	sim := newSim(t, "lj-dimers")
	c := NewCanvas(30, 12)
	Render(c, sim.System().Configuration(), NewCamera())
	if strings.Trim(c.String(), "⠀\n") == "" {
		t.Fatal("nothing drawn")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("empty sparkline %q", got)
	}
	got := Sparkline([]float64{9, 0, 1, 2, 3}, 4)
	if got != "▁▃▅█" {
		t.Errorf("got %q", got)
	}
	if got := Sparkline([]float64{2, 2}, 4); got != "▁▁" {
		t.Errorf("flat sparkline %q", got)
	}
}

func TestModelAdvancesSimulation(t *testing.T) {
	sim := newSim(t, "lj-atoms")
	m := NewModel(context.Background(), sim, "lj-atoms", 50, 120)

	next, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next frame")
	}
	m = next.(Model)
	if sim.NumAttempts() != 50 {
		t.Errorf("expected 50 attempts, got %d", sim.NumAttempts())
	}

	for i := 0; i < 5; i++ {
		next, _ = m.Update(TickMsg{})
		m = next.(Model)
	}
	if sim.NumAttempts() != 120 {
		t.Errorf("limit not honored: %d attempts", sim.NumAttempts())
	}
	if m.Running() {
		t.Error("model should stop at the limit")
	}
	if m.Err() != nil {
		t.Fatal(m.Err())
	}

	view := m.View()
	for _, want := range []string{"LJ-ATOMS", "DONE", "Energy", "TRIALS", "DRIFT"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelKeys(t *testing.T) {
	sim := newSim(t, "lj-atoms")
	m := NewModel(context.Background(), sim, "lj-atoms", 8, 0)

	press := func(k tea.KeyMsg) {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if m.Batch() != 16 {
		t.Errorf("batch %d", m.Batch())
	}
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	if m.Batch() != 4 {
		t.Errorf("batch %d", m.Batch())
	}

	press(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Running() {
		t.Error("space should pause")
	}
	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	if sim.NumAttempts() != 0 {
		t.Error("paused model should not attempt trials")
	}

	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if m.theme.Name != ThemeRetroGreen.Name {
		t.Errorf("theme %s", m.theme.Name)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit message")
	}
}

func TestModelStopsOnCancel(t *testing.T) {
	sim := newSim(t, "lj-atoms")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewModel(ctx, sim, "lj-atoms", 10, 0)
	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	if m.Err() == nil || m.Running() {
		t.Fatal("cancelled context should stop the model")
	}
	if !strings.Contains(m.View(), "FAILED") {
		t.Error("view should report the failure")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names")
	}
	if nextTheme(Themes[len(Themes)-1]).Name != Themes[0].Name {
		t.Error("themes should wrap")
	}
}
