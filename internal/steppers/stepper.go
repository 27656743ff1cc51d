package steppers

import (
	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/criteria"
	"github.com/san-kum/mcsim/internal/perturb"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/system"
)

// Host is the view of a running simulation given to modifiers.
type Host interface {
	serial.Serializable
	System() *system.System
	Criteria() criteria.Criteria
	NumTrials() int
	TrialTunable(i int) *perturb.Tunable
	// TrialAcceptance returns the attempts and acceptances of trial i since
	// the start of the run.
	TrialAcceptance(i int) (attempted, accepted int64)
	NumAttempts() int64
	// EnergySeries returns the running energies recorded so far, if any
	// modifier records them.
	EnergySeries() []float64
}

// Modifier is a scheduled action on the simulation.
type Modifier interface {
	serial.Serializable
	Stepper() *Stepper
	// Initialize runs once before the first trial and again after a
	// restart. It must not reset serialized state.
	Initialize(h Host) error
	Update(h Host) error
}

var Registry = registry.New[Modifier]("modifier")

// RegisterBuiltins installs the modifiers and checks of this package.
func RegisterBuiltins() {
	Registry.MustRegister(checkEnergyClassName, checkEnergyFactory())
	Registry.MustRegister(tuneClassName, tuneFactory())
	Registry.MustRegister(checkpointClassName, checkpointFactory())
	Registry.MustRegister(energyTraceClassName, energyTraceFactory())

	CheckRegistry.MustRegister(checkPositionsClassName, checkPositionsFactory())
}

const (
	stepperVersion    = 1
	updateOnlyVersion = 1604
)

// Stepper schedules a modifier every trials_per_update trials.
type Stepper struct {
	trialsPerUpdate int
	sinceUpdate     int
}

func parseStepper(p *args.Parser) Stepper {
	n := p.Int("trials_per_update", 1)
	if n < 1 {
		p.Fail("trials_per_update", "must be positive, got %d", n)
	}
	return Stepper{trialsPerUpdate: n}
}

func (s *Stepper) TrialsPerUpdate() int { return s.trialsPerUpdate }

// Due counts one trial and reports whether an update is now due.
func (s *Stepper) Due() bool {
	s.sinceUpdate++
	if s.sinceUpdate < s.trialsPerUpdate {
		return false
	}
	s.sinceUpdate = 0
	return true
}

func (s *Stepper) serialize(w *serial.Writer) {
	w.Version(stepperVersion)
	w.Int(s.trialsPerUpdate)
	w.Int(s.sinceUpdate)
}

func readStepper(r *serial.Reader, class string) Stepper {
	r.Version(class, stepperVersion)
	return Stepper{trialsPerUpdate: r.Int(), sinceUpdate: r.Int()}
}

// The update-only layer marks modifiers that act on the schedule alone and
// never write per-trial output.

func serializeUpdateOnly(w *serial.Writer, s *Stepper) {
	s.serialize(w)
	w.Version(updateOnlyVersion)
}

func readUpdateOnly(r *serial.Reader, class string) Stepper {
	s := readStepper(r, class)
	r.Version(class, updateOnlyVersion)
	return s
}
