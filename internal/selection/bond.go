package selection

import (
	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/system"
)

const (
	bondClassName = "TrialSelectBond"
	bondVersion   = 235
)

// Bond selects one site of a random particle of particle_type, anchored to
// the site it is bonded to. Precompute publishes the bond's type as the
// bond_type property.
type Bond struct {
	state      *Selection
	mobileSite int
	anchorSite int
}

func NewBond(particleType, mobileSite, anchorSite int) *Bond {
	return &Bond{state: newSelection(particleType), mobileSite: mobileSite, anchorSite: anchorSite}
}

func bondFactory() registry.Factory[Select] {
	return registry.Factory[Select]{
		New: func(p *args.Parser) (Select, error) {
			b := NewBond(p.RequiredInt("particle_type"), p.RequiredInt("mobile_site"), p.RequiredInt("anchor_site"))
			if err := p.Err(); err != nil {
				return nil, err
			}
			if b.mobileSite == b.anchorSite {
				return nil, mcsim.NewConfigError("anchor_site", "must differ from mobile_site %d", b.mobileSite)
			}
			return b, nil
		},
		Read: func(r *serial.Reader) Select {
			state := readSelection(r)
			r.Version(bondClassName, bondVersion)
			return &Bond{state: state, mobileSite: r.Int(), anchorSite: r.Int()}
		},
	}
}

func (s *Bond) ClassName() string { return bondClassName }

func (s *Bond) Current() *Selection { return s.state }

// Precompute finds the bond joining the mobile and anchor sites. A missing
// bond leaves bond_type unset; perturbations that need it fail then.
func (s *Bond) Precompute(sys *system.System) error {
	c := sys.Configuration()
	pt := s.state.particleType
	if pt < 0 || pt >= c.NumParticleTypes() {
		return mcsim.NewConfigError("particle_type", "%d of %d", pt, c.NumParticleTypes())
	}
	n := len(c.ParticleType(pt).Sites)
	if s.mobileSite < 0 || s.mobileSite >= n {
		return mcsim.NewConfigError("mobile_site", "%d out of range for %d sites", s.mobileSite, n)
	}
	if s.anchorSite < 0 || s.anchorSite >= n {
		return mcsim.NewConfigError("anchor_site", "%d out of range for %d sites", s.anchorSite, n)
	}
	for _, b := range c.ParticleType(pt).Bonds {
		if (b.Sites[0] == s.mobileSite && b.Sites[1] == s.anchorSite) ||
			(b.Sites[1] == s.mobileSite && b.Sites[0] == s.anchorSite) {
			s.state.SetProperty("bond_type", float64(b.Type))
			return nil
		}
	}
	return nil
}

func (s *Bond) Select(sys *system.System, rnd random.Random) bool {
	c := sys.Configuration()
	var candidates []int
	for i := 0; i < c.NumParticles(); i++ {
		if c.Particle(i).Type == s.state.particleType {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	index := candidates[rnd.Index(len(candidates))]
	s.state.set(c,
		configuration.Select{Particle: index, Sites: []int{s.mobileSite}},
		configuration.Select{Particle: index, Sites: []int{s.anchorSite}})
	return true
}

func (s *Bond) Serialize(w *serial.Writer) {
	w.Name(s.ClassName())
	s.state.serialize(w)
	w.Version(bondVersion)
	w.Int(s.mobileSite)
	w.Int(s.anchorSite)
}
