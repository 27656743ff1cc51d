package mc

import (
	"context"
	"fmt"
	"io"

	"github.com/san-kum/mcsim/internal/criteria"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/perturb"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/steppers"
	"github.com/san-kum/mcsim/internal/system"
)

const (
	monteCarloClassName = "MonteCarlo"
	monteCarloVersion   = 1
)

// Observer is told about every completed trial.
type Observer interface {
	OnTrial(mc *MonteCarlo, out Outcome)
}

// MonteCarlo owns the simulation state. It is not safe for concurrent use.
type MonteCarlo struct {
	sys         *system.System
	crit        criteria.Criteria
	rnd         random.Random
	trials      []*Trial
	modifiers   []steppers.Modifier
	observers   []Observer
	attempts    int64
	initialized bool
}

func New(sys *system.System, crit criteria.Criteria, rnd random.Random) *MonteCarlo {
	return &MonteCarlo{sys: sys, crit: crit, rnd: rnd}
}

func (m *MonteCarlo) AddTrial(t *Trial)                 { m.trials = append(m.trials, t) }
func (m *MonteCarlo) AddModifier(mod steppers.Modifier) { m.modifiers = append(m.modifiers, mod) }
func (m *MonteCarlo) AddObserver(o Observer)            { m.observers = append(m.observers, o) }

func (m *MonteCarlo) System() *system.System { return m.sys }

func (m *MonteCarlo) Criteria() criteria.Criteria { return m.crit }

func (m *MonteCarlo) Random() random.Random { return m.rnd }

func (m *MonteCarlo) NumTrials() int { return len(m.trials) }

func (m *MonteCarlo) Trial(i int) *Trial { return m.trials[i] }

func (m *MonteCarlo) TrialTunable(i int) *perturb.Tunable { return m.trials[i].perturb.Tunable() }

func (m *MonteCarlo) TrialAcceptance(i int) (int64, int64) {
	return m.trials[i].attempted, m.trials[i].accepted
}

func (m *MonteCarlo) NumAttempts() int64 { return m.attempts }

func (m *MonteCarlo) NumModifiers() int { return len(m.modifiers) }

func (m *MonteCarlo) Modifier(i int) steppers.Modifier { return m.modifiers[i] }

// EnergySeries returns the series of the first energy trace, if any.
func (m *MonteCarlo) EnergySeries() []float64 {
	for _, mod := range m.modifiers {
		if tr, ok := mod.(interface{ Series() []float64 }); ok {
			return tr.Series()
		}
	}
	return nil
}

// Initialize precomputes every trial, sets the running energy from a full
// recompute and initializes the modifiers.
func (m *MonteCarlo) Initialize() error {
	if len(m.trials) == 0 {
		return fmt.Errorf("%w: no trials", mcsim.ErrConfig)
	}
	if err := m.prepare(); err != nil {
		return err
	}
	m.crit.SetCurrentEnergy(m.sys.UnoptimizedEnergy())
	mcsim.Logger().Info("initialized", "energy", m.crit.CurrentEnergy(),
		"trials", len(m.trials), "modifiers", len(m.modifiers))
	return nil
}

// prepare runs the idempotent part of initialization shared with restarts.
func (m *MonteCarlo) prepare() error {
	for i, t := range m.trials {
		if err := t.precompute(m.sys); err != nil {
			return fmt.Errorf("trial %d: %w", i, err)
		}
	}
	for _, mod := range m.modifiers {
		if err := mod.Initialize(m); err != nil {
			return fmt.Errorf("%s: %w", mod.ClassName(), err)
		}
	}
	m.initialized = true
	return nil
}

func (m *MonteCarlo) chooseTrial() int {
	if len(m.trials) == 1 {
		return 0
	}
	total := 0.0
	for _, t := range m.trials {
		total += t.weight
	}
	x := m.rnd.Uniform() * total
	for i, t := range m.trials {
		if x < t.weight {
			return i
		}
		x -= t.weight
	}
	return len(m.trials) - 1
}

// Attempt performs n trials. Errors from trials and modifiers end the run;
// the state is left as it was after the failing trial.
func (m *MonteCarlo) Attempt(ctx context.Context, n int) error {
	if !m.initialized {
		if err := m.Initialize(); err != nil {
			return err
		}
	}
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		index := m.chooseTrial()
		out, err := m.trials[index].attempt(m.sys, m.crit, m.rnd)
		if err != nil {
			return fmt.Errorf("attempt %d, %s: %w", m.attempts, m.trials[index].Name(), err)
		}
		out.Trial = index
		m.attempts++

		for _, obs := range m.observers {
			obs.OnTrial(m, out)
		}
		for _, mod := range m.modifiers {
			if !mod.Stepper().Due() {
				continue
			}
			if err := mod.Update(m); err != nil {
				return fmt.Errorf("attempt %d, %s: %w", m.attempts, mod.ClassName(), err)
			}
		}
	}
	return nil
}

func (m *MonteCarlo) ClassName() string { return monteCarloClassName }

func (m *MonteCarlo) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	w.Version(monteCarloVersion)
	w.Int64(m.attempts)
	w.Object(m.sys)
	w.Object(m.crit)
	w.Object(m.rnd)
	w.Int(len(m.trials))
	for _, t := range m.trials {
		t.serialize(w)
	}
	w.Int(len(m.modifiers))
	for _, mod := range m.modifiers {
		w.Object(mod)
	}
}

// Read restores a simulation written by Serialize and prepares it to
// continue. The running energy is kept as saved.
func Read(rd io.Reader) (*MonteCarlo, error) {
	r := serial.NewReader(rd)
	r.ExpectName(monteCarloClassName)
	r.Version(monteCarloClassName, monteCarloVersion)
	m := &MonteCarlo{attempts: r.Int64()}
	m.sys = system.Read(r)
	m.crit = criteria.Registry.Read(r)
	m.rnd = random.Registry.Read(r)
	n := r.Len()
	for i := 0; i < n && r.Err() == nil; i++ {
		m.trials = append(m.trials, readTrial(r))
	}
	n = r.Len()
	for i := 0; i < n && r.Err() == nil; i++ {
		m.modifiers = append(m.modifiers, steppers.Registry.Read(r))
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	if err := m.prepare(); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	return m, nil
}

// Checks returns the energy checks among the modifiers.
func (m *MonteCarlo) Checks() []*steppers.CheckEnergy {
	var checks []*steppers.CheckEnergy
	for _, mod := range m.modifiers {
		if c, ok := mod.(*steppers.CheckEnergy); ok {
			checks = append(checks, c)
		}
	}
	return checks
}
