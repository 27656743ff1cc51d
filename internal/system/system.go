// Package system ties a configuration to the potentials that score it and
// the thermodynamic state it is sampled at.
package system

import (
	"fmt"
	"strings"

	"github.com/san-kum/mcsim/internal/bond"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/potential"
	"github.com/san-kum/mcsim/internal/serial"
)

const (
	systemClassName = "System"
	systemVersion   = 1
)

type ThermoParams struct {
	Beta float64
}

// System is mutated in place by one trial at a time.
type System struct {
	config     *configuration.Configuration
	potentials []potential.Potential
	thermo     ThermoParams
	last       []float64
}

// New validates the bond models the configuration names.
func New(c *configuration.Configuration, thermo ThermoParams) (*System, error) {
	if thermo.Beta <= 0 {
		return nil, mcsim.NewConfigError("beta", "must be positive, got %g", thermo.Beta)
	}
	for t := 0; t < c.NumParticleTypes(); t++ {
		pt := c.ParticleType(t)
		for _, b := range pt.Bonds {
			if _, err := bond.Lookup(b.Model); err != nil {
				return nil, fmt.Errorf("particle type %s bond %d: %w", pt.Name, b.Type, err)
			}
		}
	}
	return &System{config: c, thermo: thermo}, nil
}

func (s *System) AddPotential(p potential.Potential) {
	s.potentials = append(s.potentials, p)
}

func (s *System) Configuration() *configuration.Configuration { return s.config }

func (s *System) Dimension() int { return s.config.Dimension() }

func (s *System) Thermo() ThermoParams { return s.thermo }

func (s *System) Beta() float64 { return s.thermo.Beta }

func (s *System) SetBeta(beta float64) { s.thermo.Beta = beta }

func (s *System) NumPotentials() int { return len(s.potentials) }

// Potential returns the potential at index, or an error naming the bad index.
func (s *System) Potential(index int) (potential.Potential, error) {
	if index < 0 || index >= len(s.potentials) {
		return nil, mcsim.NewConfigError("potential", "index %d out of range [0,%d)", index, len(s.potentials))
	}
	return s.potentials[index], nil
}

// UnoptimizedEnergy recomputes every potential from scratch and remembers
// the per-potential values for Breakdown.
func (s *System) UnoptimizedEnergy() float64 {
	s.last = make([]float64, len(s.potentials))
	total := 0.0
	for i, p := range s.potentials {
		s.last[i] = p.Energy(s.config)
		total += s.last[i]
	}
	return total
}

// SelectEnergy sums every potential's contribution from the selection.
func (s *System) SelectEnergy(sel configuration.Select) float64 {
	total := 0.0
	for _, p := range s.potentials {
		total += p.SelectEnergy(sel, s.config)
	}
	return total
}

// PotentialSelectEnergy is SelectEnergy restricted to one potential.
func (s *System) PotentialSelectEnergy(index int, sel configuration.Select) (float64, error) {
	p, err := s.Potential(index)
	if err != nil {
		return 0, err
	}
	return p.SelectEnergy(sel, s.config), nil
}

// Breakdown describes the per-potential energies of the last full recompute.
func (s *System) Breakdown() string {
	var sb strings.Builder
	sb.WriteString("energy breakdown:")
	for i, p := range s.potentials {
		e := 0.0
		if i < len(s.last) {
			e = s.last[i]
		}
		fmt.Fprintf(&sb, " %s[%d]=%.17g", p.ClassName(), i, e)
	}
	return sb.String()
}

func (s *System) ClassName() string { return systemClassName }

func (s *System) Serialize(w *serial.Writer) {
	w.Name(s.ClassName())
	w.Version(systemVersion)
	w.Float(s.thermo.Beta)
	w.Object(s.config)
	w.Int(len(s.potentials))
	for _, p := range s.potentials {
		w.Object(p)
	}
}

// Read rebuilds a system written by Serialize, tag included.
func Read(r *serial.Reader) *System {
	r.ExpectName(systemClassName)
	r.Version(systemClassName, systemVersion)
	s := &System{thermo: ThermoParams{Beta: r.Float()}}
	s.config = configuration.Read(r)
	n := r.Len()
	for i := 0; i < n && r.Err() == nil; i++ {
		s.AddPotential(potential.Registry.Read(r))
	}
	if r.Err() != nil {
		return nil
	}
	return s
}
