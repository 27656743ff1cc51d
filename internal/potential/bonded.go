package potential

import (
	"math"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/bond"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

const (
	bondedClassName = "Bonded"
	bondedVersion   = 2002
)

// Bonded sums the bond energies of every particle, using the bond model
// named on each bond of its particle type.
type Bonded struct{}

func NewBonded() *Bonded { return &Bonded{} }

func bondedFactory() registry.Factory[Potential] {
	return registry.Factory[Potential]{
		New: func(p *args.Parser) (Potential, error) { return NewBonded(), nil },
		Read: func(r *serial.Reader) Potential {
			r.Version(bondedClassName, bondedVersion)
			return NewBonded()
		},
	}
}

func (b *Bonded) ClassName() string { return bondedClassName }

func (b *Bonded) Serialize(w *serial.Writer) {
	w.Name(b.ClassName())
	w.Version(bondedVersion)
}

func bondEnergy(bnd configuration.Bond, p *configuration.Particle) float64 {
	m, err := bond.Lookup(bnd.Model)
	if err != nil {
		// systems validate bond models on construction; NaN fails the energy check
		return math.NaN()
	}
	return m.EnergyBetween(p.Sites[bnd.Sites[0]].Position, p.Sites[bnd.Sites[1]].Position, bnd)
}

func (b *Bonded) Energy(c *configuration.Configuration) float64 {
	sum := 0.0
	for i := 0; i < c.NumParticles(); i++ {
		p := c.Particle(i)
		for _, bnd := range c.ParticleType(p.Type).Bonds {
			sum += bondEnergy(bnd, p)
		}
	}
	return sum
}

// SelectEnergy counts each bond touching a selected site once.
func (b *Bonded) SelectEnergy(sel configuration.Select, c *configuration.Configuration) float64 {
	p := c.Particle(sel.Particle)
	sum := 0.0
	for _, bnd := range c.ParticleType(p.Type).Bonds {
		if sel.Contains(bnd.Sites[0]) || sel.Contains(bnd.Sites[1]) {
			sum += bondEnergy(bnd, p)
		}
	}
	return sum
}
