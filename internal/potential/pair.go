package potential

import (
	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

const (
	pairClassName = "Pair"
	pairVersion   = 2001
)

// Pair applies a two-body model between sites of different particles
// closer than the cutoff. Sites of one particle do not interact.
type Pair struct {
	model  Model
	cutoff float64
}

func NewPair(model Model, cutoff float64) *Pair {
	return &Pair{model: model, cutoff: cutoff}
}

func pairFactory() registry.Factory[Potential] {
	return registry.Factory[Potential]{
		New: func(p *args.Parser) (Potential, error) {
			name := p.RequiredStr("model")
			cutoff := p.Float("cutoff", 3)
			if cutoff <= 0 {
				p.Fail("cutoff", "must be positive, got %g", cutoff)
			}
			if err := p.Err(); err != nil {
				return nil, err
			}
			m, err := ModelRegistry.Build(name, p)
			if err != nil {
				return nil, err
			}
			return NewPair(m, cutoff), nil
		},
		Read: func(r *serial.Reader) Potential {
			r.Version(pairClassName, pairVersion)
			cutoff := r.Float()
			return NewPair(ModelRegistry.Read(r), cutoff)
		},
	}
}

func (p *Pair) Model() Model { return p.model }

func (p *Pair) Cutoff() float64 { return p.cutoff }

func (p *Pair) ClassName() string { return pairClassName }

func (p *Pair) Serialize(w *serial.Writer) {
	w.Name(p.ClassName())
	w.Version(pairVersion)
	w.Float(p.cutoff)
	w.Object(p.model)
}

func (p *Pair) siteEnergy(s configuration.Site, self int, c *configuration.Configuration) float64 {
	rc2 := p.cutoff * p.cutoff
	sum := 0.0
	for j := 0; j < c.NumParticles(); j++ {
		if j == self {
			continue
		}
		for _, other := range c.Particle(j).Sites {
			r2 := s.Position.SquaredDistance(other.Position)
			if r2 < rc2 {
				sum += p.model.Energy(r2, s.Type, other.Type)
			}
		}
	}
	return sum
}

func (p *Pair) Energy(c *configuration.Configuration) float64 {
	rc2 := p.cutoff * p.cutoff
	sum := 0.0
	for i := 0; i < c.NumParticles(); i++ {
		pi := c.Particle(i)
		for j := i + 1; j < c.NumParticles(); j++ {
			pj := c.Particle(j)
			for _, a := range pi.Sites {
				for _, b := range pj.Sites {
					r2 := a.Position.SquaredDistance(b.Position)
					if r2 < rc2 {
						sum += p.model.Energy(r2, a.Type, b.Type)
					}
				}
			}
		}
	}
	return sum
}

func (p *Pair) SelectEnergy(sel configuration.Select, c *configuration.Configuration) float64 {
	particle := c.Particle(sel.Particle)
	sum := 0.0
	for _, s := range sel.Sites {
		sum += p.siteEnergy(particle.Sites[s], sel.Particle, c)
	}
	return sum
}
