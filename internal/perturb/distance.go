package perturb

import (
	"fmt"
	"math"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/bond"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/selection"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/system"
)

const (
	distanceClassName = "PerturbDistance"
	distanceVersion   = 228

	// DefaultMaxAttempts caps the rejection sampler against the acceptance potential.
	DefaultMaxAttempts = 1000000

	// NoPotential disables the acceptance potential.
	NoPotential = -1
)

// Distance places the first mobile site at a bond length drawn from the bond
// model, in a random direction from the anchor. With an acceptance potential
// the placement is resampled until it passes a Metropolis test on that
// potential alone.
//
// The bond energy of the committed geometry is reported as exclude energy:
// the length was drawn from the bond's own Boltzmann distribution, so the
// trial's acceptance test must not count it again.
type Distance struct {
	tunable             Tunable
	bondType            int
	potentialAcceptance int
	maxAttempts         int
}

func NewDistance(potentialAcceptance, maxAttempts int) *Distance {
	d := &Distance{
		tunable:             defaultTunable(0, 0),
		potentialAcceptance: potentialAcceptance,
		maxAttempts:         maxAttempts,
	}
	d.tunable.Disable()
	return d
}

func distanceFactory() registry.Factory[Perturb] {
	return registry.Factory[Perturb]{
		New: func(p *args.Parser) (Perturb, error) {
			aux := p.Int("potential_acceptance", NoPotential)
			attempts := p.Int("max_attempts", DefaultMaxAttempts)
			if aux < NoPotential {
				p.Fail("potential_acceptance", "must be -1 or a potential index, got %d", aux)
			}
			if attempts < 1 {
				p.Fail("max_attempts", "must be positive, got %d", attempts)
			}
			if err := p.Err(); err != nil {
				return nil, err
			}
			return NewDistance(aux, attempts), nil
		},
		Read: func(r *serial.Reader) Perturb {
			d := &Distance{tunable: readTunable(r, distanceClassName)}
			r.Version(distanceClassName, distanceVersion)
			d.bondType = r.Int()
			d.potentialAcceptance = r.Int()
			d.maxAttempts = r.Int()
			return d
		},
	}
}

func (m *Distance) ClassName() string { return distanceClassName }

func (m *Distance) Tunable() *Tunable { return &m.tunable }

func (m *Distance) BondType() int { return m.bondType }

func (m *Distance) PotentialAcceptance() int { return m.potentialAcceptance }

func (m *Distance) MaxAttempts() int { return m.maxAttempts }

// Precompute takes the bond type from the selection's bond_type property.
func (m *Distance) Precompute(sel *selection.Selection, sys *system.System) error {
	if !sel.HasProperty("bond_type") {
		return mcsim.NewConfigError("bond_type", "cannot obtain bond properties from the selection")
	}
	m.bondType = int(math.Round(sel.Property("bond_type")))
	if m.potentialAcceptance >= sys.NumPotentials() {
		return mcsim.NewConfigError("potential_acceptance",
			"index %d but the system has %d potentials", m.potentialAcceptance, sys.NumPotentials())
	}
	return nil
}

// bondModel resolves the bond the selected particle's type declares for
// the precomputed bond type.
func (m *Distance) bondModel(sys *system.System, sel *selection.Selection) (configuration.Bond, bond.Model, error) {
	particle := sel.Mobile().Particle
	b, ok := sys.Configuration().BondOf(particle, m.bondType)
	if !ok {
		return b, nil, fmt.Errorf("particle %d has no bond of type %d: %w", particle, m.bondType, mcsim.ErrConfig)
	}
	model, err := bond.Lookup(b.Model)
	if err != nil {
		return b, nil, err
	}
	return b, model, nil
}

func (m *Distance) Move(held bool, sys *system.System, sel *selection.Selection, rnd random.Random) error {
	b, model, err := m.bondModel(sys, sel)
	if err != nil {
		return err
	}
	anchor, err := sel.AnchorPosition(0, sys.Configuration())
	if err != nil {
		return err
	}
	if held {
		sel.AddExcludeEnergy(model.EnergyBetween(sel.Position(0), anchor, b))
		return nil
	}

	if m.potentialAcceptance == NoPotential {
		energy, err := m.place(sys, sel, rnd, anchor, b, model)
		if err != nil {
			return err
		}
		sel.AddExcludeEnergy(energy)
		return nil
	}

	beta := sys.Beta()
	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		energy, err := m.place(sys, sel, rnd, anchor, b, model)
		if err != nil {
			return err
		}
		aux, err := sys.PotentialSelectEnergy(m.potentialAcceptance, sel.Mobile())
		if err != nil {
			return err
		}
		if rnd.Uniform() < math.Exp(-beta*aux) {
			mcsim.Logger().Debug("distance sample accepted",
				"attempt", attempt, "bond_energy", energy, "acceptance_energy", aux)
			sel.AddExcludeEnergy(energy)
			return nil
		}
	}
	return &mcsim.SamplingExhaustedError{Class: distanceClassName, MaxAttempts: m.maxAttempts}
}

// place draws one length and direction, commits the new position and returns
// the bond energy at that length.
func (m *Distance) place(sys *system.System, sel *selection.Selection, rnd random.Random,
	anchor geom.Position, b configuration.Bond, model bond.Model) (float64, error) {
	length, err := model.RandomDistance(b, sys.Beta(), sys.Dimension(), rnd)
	if err != nil {
		return 0, err
	}
	dir := rnd.UnitSphereSurface(sys.Dimension())
	sel.SetPosition(0, dir.Scale(length).Add(anchor))
	sel.Commit(sys.Configuration())
	return model.Energy(length, b), nil
}

func (m *Distance) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	m.tunable.serialize(w)
	w.Version(distanceVersion)
	w.Int(m.bondType)
	w.Int(m.potentialAcceptance)
	w.Int(m.maxAttempts)
}
