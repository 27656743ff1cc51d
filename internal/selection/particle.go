package selection

import (
	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/system"
)

const (
	particleClassName = "TrialSelectParticle"
	particleVersion   = 760
)

// Particle selects a random particle of its group. The mobile sites are the
// group's sites of that particle.
type Particle struct {
	state *Selection
	group *configuration.Group
}

func NewParticle(group *configuration.Group) *Particle {
	return &Particle{state: newSelection(-1), group: group}
}

func particleFactory() registry.Factory[Select] {
	return registry.Factory[Select]{
		New: func(p *args.Parser) (Select, error) {
			g, err := configuration.NewGroup(p)
			if err != nil {
				return nil, err
			}
			return NewParticle(g), nil
		},
		Read: func(r *serial.Reader) Select {
			state := readSelection(r)
			r.Version(particleClassName, particleVersion)
			return &Particle{state: state, group: configuration.ReadGroup(r)}
		},
	}
}

func (s *Particle) ClassName() string { return particleClassName }

func (s *Particle) Current() *Selection { return s.state }

func (s *Particle) Group() *configuration.Group { return s.group }

func (s *Particle) Precompute(*system.System) error { return nil }

func (s *Particle) Select(sys *system.System, rnd random.Random) bool {
	c := sys.Configuration()
	var candidates []int
	for i := 0; i < c.NumParticles(); i++ {
		if s.group.IsParticleIn(c.Particle(i)) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	index := candidates[rnd.Index(len(candidates))]
	sites := s.group.SiteIndices(c.Particle(index))
	if len(sites) == 0 {
		return false
	}
	s.state.particleType = c.Particle(index).Type
	s.state.set(c, configuration.Select{Particle: index, Sites: sites}, configuration.Select{})
	return true
}

func (s *Particle) Serialize(w *serial.Writer) {
	w.Name(s.ClassName())
	s.state.serialize(w)
	w.Version(particleVersion)
	s.group.Serialize(w)
}
