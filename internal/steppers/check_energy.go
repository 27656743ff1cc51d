package steppers

import (
	"fmt"
	"math"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/stats"
)

const (
	checkEnergyClassName = "CheckEnergy"
	checkEnergyVersion   = 715

	DefaultTolerance = 1e-10
)

// CheckEnergy recomputes the total energy from scratch and compares it with
// the running energy of the criteria. A difference of tolerance or more
// fails the run; a smaller one is recorded and the running energy is reset
// to the recomputed value.
type CheckEnergy struct {
	stepper   Stepper
	tolerance float64
	check     Check
	drift     *stats.Accumulator
}

// NewCheckEnergy takes an optional nested check; nil means none.
func NewCheckEnergy(trialsPerUpdate int, tolerance float64, check Check) *CheckEnergy {
	return &CheckEnergy{
		stepper:   Stepper{trialsPerUpdate: trialsPerUpdate},
		tolerance: tolerance,
		check:     check,
		drift:     stats.NewAccumulator(),
	}
}

func checkEnergyFactory() registry.Factory[Modifier] {
	return registry.Factory[Modifier]{
		New: func(p *args.Parser) (Modifier, error) {
			s := parseStepper(p)
			tol := p.Float("tolerance", DefaultTolerance)
			if tol <= 0 {
				p.Fail("tolerance", "must be positive, got %g", tol)
			}
			name := p.Str("check", "")
			if err := p.Err(); err != nil {
				return nil, err
			}
			m := NewCheckEnergy(s.trialsPerUpdate, tol, nil)
			if name != "" {
				c, err := CheckRegistry.Build(name, p)
				if err != nil {
					return nil, err
				}
				m.check = c
			}
			return m, nil
		},
		Read: func(r *serial.Reader) Modifier {
			m := &CheckEnergy{stepper: readUpdateOnly(r, checkEnergyClassName)}
			r.Version(checkEnergyClassName, checkEnergyVersion)
			m.tolerance = r.Float()
			if c, ok := CheckRegistry.ReadOptional(r); ok {
				m.check = c
			}
			m.drift = stats.ReadAccumulator(r)
			return m
		},
	}
}

func (m *CheckEnergy) ClassName() string { return checkEnergyClassName }

func (m *CheckEnergy) Stepper() *Stepper { return &m.stepper }

func (m *CheckEnergy) Tolerance() float64 { return m.tolerance }

// Drift holds every recomputed-minus-running difference that passed.
func (m *CheckEnergy) Drift() *stats.Accumulator { return m.drift }

func (m *CheckEnergy) Initialize(Host) error { return nil }

func (m *CheckEnergy) Update(h Host) error {
	if m.check != nil {
		if err := m.check.Check(h); err != nil {
			return fmt.Errorf("%s: %w", m.check.ClassName(), err)
		}
	}
	sys := h.System()
	crit := h.Criteria()
	energy := sys.UnoptimizedEnergy()
	current := crit.CurrentEnergy()
	diff := energy - current
	mcsim.Logger().Debug("energy check", "energy", energy, "current_energy", current, "diff", diff)
	m.drift.Accumulate(diff)
	if !(math.Abs(diff) < m.tolerance) {
		return &mcsim.EnergyDriftError{
			Energy:        energy,
			RunningEnergy: current,
			Tolerance:     m.tolerance,
			Breakdown:     sys.Breakdown(),
		}
	}
	crit.SetCurrentEnergy(energy)
	return nil
}

func (m *CheckEnergy) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	serializeUpdateOnly(w, &m.stepper)
	w.Version(checkEnergyVersion)
	w.Float(m.tolerance)
	if m.check == nil {
		w.Present(false)
	} else {
		w.Optional(m.check)
	}
	m.drift.Serialize(w)
}
