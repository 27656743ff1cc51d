package configuration

import (
	"fmt"
	"strings"

	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/serial"
)

const (
	configurationClassName = "Configuration"
	configurationVersion   = 1
)

// Configuration is the mutable set of particles. It is mutated in place by
// one move at a time; callers serialize access.
type Configuration struct {
	dimension int
	types     []ParticleType
	particles []Particle
}

func New(dimension int) (*Configuration, error) {
	if dimension != 2 && dimension != 3 {
		return nil, mcsim.NewConfigError("dimension", "must be 2 or 3, got %d", dimension)
	}
	return &Configuration{dimension: dimension}, nil
}

func (c *Configuration) Dimension() int { return c.dimension }

// AddParticleType registers a template and returns its type index.
func (c *Configuration) AddParticleType(t ParticleType) (int, error) {
	for i, s := range t.Sites {
		if len(s.Position) != c.dimension {
			return 0, mcsim.NewConfigError("particle_type",
				"%s site %d has dimension %d, want %d", t.Name, i, len(s.Position), c.dimension)
		}
	}
	for _, b := range t.Bonds {
		for _, s := range b.Sites {
			if s < 0 || s >= len(t.Sites) {
				return 0, mcsim.NewConfigError("particle_type",
					"%s bond %d references site %d of %d", t.Name, b.Type, s, len(t.Sites))
			}
		}
	}
	c.types = append(c.types, t)
	return len(c.types) - 1, nil
}

func (c *Configuration) NumParticleTypes() int { return len(c.types) }

func (c *Configuration) ParticleType(index int) ParticleType { return c.types[index] }

// AddParticleOfType places a new particle of type t with its template
// offsets added to origin, returning the particle index.
func (c *Configuration) AddParticleOfType(t int, origin geom.Position) (int, error) {
	if t < 0 || t >= len(c.types) {
		return 0, fmt.Errorf("particle type %d of %d: %w", t, len(c.types), mcsim.ErrConfig)
	}
	tmpl := c.types[t]
	p := Particle{Type: t, Sites: make([]Site, len(tmpl.Sites))}
	for i, s := range tmpl.Sites {
		p.Sites[i] = Site{Type: s.Type, Position: s.Position.Add(origin)}
	}
	c.particles = append(c.particles, p)
	return len(c.particles) - 1, nil
}

func (c *Configuration) NumParticles() int { return len(c.particles) }

func (c *Configuration) NumSites() int {
	n := 0
	for _, p := range c.particles {
		n += len(p.Sites)
	}
	return n
}

// Particle returns the stored particle. Site positions are shared; use
// UpdatePositions to change them.
func (c *Configuration) Particle(index int) *Particle { return &c.particles[index] }

// SitePosition returns a copy of one site position.
func (c *Configuration) SitePosition(particle, site int) geom.Position {
	return c.particles[particle].Sites[site].Position.Clone()
}

// UpdatePositions writes positions for the listed sites of one particle.
func (c *Configuration) UpdatePositions(particle int, sites []int, positions []geom.Position) {
	p := &c.particles[particle]
	for i, s := range sites {
		p.Sites[s].Position = positions[i].Clone()
	}
}

// BondOf returns the bond of the given type on a particle's type.
func (c *Configuration) BondOf(particle, bondType int) (Bond, bool) {
	return c.types[c.particles[particle].Type].Bond(bondType)
}

func (c *Configuration) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "dimension=%d particles=%d sites=%d", c.dimension, len(c.particles), c.NumSites())
	return sb.String()
}

func (c *Configuration) ClassName() string { return configurationClassName }

func (c *Configuration) Serialize(w *serial.Writer) {
	w.Name(c.ClassName())
	w.Version(configurationVersion)
	w.Int(c.dimension)
	w.Int(len(c.types))
	for _, t := range c.types {
		w.String(t.Name)
		writeSites(w, t.Sites)
		w.Int(len(t.Bonds))
		for _, b := range t.Bonds {
			w.Int(b.Type)
			w.String(b.Model)
			w.Int(b.Sites[0])
			w.Int(b.Sites[1])
			w.FloatMap(b.Params)
		}
	}
	w.Int(len(c.particles))
	for _, p := range c.particles {
		w.Int(p.Type)
		writeSites(w, p.Sites)
	}
}

func writeSites(w *serial.Writer, sites []Site) {
	w.Int(len(sites))
	for _, s := range sites {
		w.Int(s.Type)
		w.Floats(s.Position)
	}
}

func readSites(r *serial.Reader, dimension int) []Site {
	n := r.Len()
	sites := make([]Site, 0, min(n, 64))
	for i := 0; i < n && r.Err() == nil; i++ {
		t := r.Int()
		pos := geom.Position(r.Floats())
		if r.Err() == nil && len(pos) != dimension {
			malformed(r, "site position of dimension %d, want %d", len(pos), dimension)
		}
		sites = append(sites, Site{Type: t, Position: pos})
	}
	return sites
}

func malformed(r *serial.Reader, format string, a ...any) {
	r.Fail(fmt.Errorf("%w: configuration: %s", mcsim.ErrMalformedStream, fmt.Sprintf(format, a...)))
}

// Read rebuilds a configuration written by Serialize, tag included.
func Read(r *serial.Reader) *Configuration {
	r.ExpectName(configurationClassName)
	r.Version(configurationClassName, configurationVersion)
	c := &Configuration{dimension: r.Int()}
	if r.Err() == nil && c.dimension != 2 && c.dimension != 3 {
		malformed(r, "dimension %d", c.dimension)
	}
	nt := r.Len()
	for i := 0; i < nt && r.Err() == nil; i++ {
		t := ParticleType{Name: r.String(), Sites: readSites(r, c.dimension)}
		nb := r.Len()
		for j := 0; j < nb && r.Err() == nil; j++ {
			b := Bond{Type: r.Int(), Model: r.String()}
			b.Sites[0] = r.Int()
			b.Sites[1] = r.Int()
			b.Params = r.FloatMap()
			for _, s := range b.Sites {
				if r.Err() == nil && (s < 0 || s >= len(t.Sites)) {
					malformed(r, "%s bond %d references site %d of %d", t.Name, b.Type, s, len(t.Sites))
				}
			}
			t.Bonds = append(t.Bonds, b)
		}
		c.types = append(c.types, t)
	}
	np := r.Len()
	for i := 0; i < np && r.Err() == nil; i++ {
		p := Particle{Type: r.Int()}
		if r.Err() == nil && (p.Type < 0 || p.Type >= len(c.types)) {
			malformed(r, "particle %d has type %d of %d", i, p.Type, len(c.types))
			break
		}
		p.Sites = readSites(r, c.dimension)
		if want := len(c.types[p.Type].Sites); r.Err() == nil && len(p.Sites) != want {
			malformed(r, "particle %d has %d sites, want %d", i, len(p.Sites), want)
		}
		c.particles = append(c.particles, p)
	}
	if r.Err() != nil {
		return nil
	}
	return c
}
