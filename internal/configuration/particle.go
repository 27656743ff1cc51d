package configuration

import (
	"github.com/san-kum/mcsim/internal/geom"
)

type Site struct {
	Type     int
	Position geom.Position
}

// Bond joins two sites of one particle type. Model names a bond model
// registered in package bond; Params are read by that model.
type Bond struct {
	Type   int
	Model  string
	Sites  [2]int
	Params map[string]float64
}

// Param returns a bond parameter, or def when it is not set.
func (b Bond) Param(name string, def float64) float64 {
	if v, ok := b.Params[name]; ok {
		return v
	}
	return def
}

type Particle struct {
	Type  int
	Sites []Site
}

func (p *Particle) NumSites() int { return len(p.Sites) }

// RemoveSite deletes one site, shifting later indices down by one.
func (p *Particle) RemoveSite(index int) {
	p.Sites = append(p.Sites[:index], p.Sites[index+1:]...)
}

func (p Particle) Clone() Particle {
	sites := make([]Site, len(p.Sites))
	for i, s := range p.Sites {
		sites[i] = Site{Type: s.Type, Position: s.Position.Clone()}
	}
	return Particle{Type: p.Type, Sites: sites}
}

// ParticleType is the template particles are created from. Site positions
// are relative to the particle's insertion point.
type ParticleType struct {
	Name  string
	Sites []Site
	Bonds []Bond
}

// Bond looks up a bond by its type index.
func (t ParticleType) Bond(bondType int) (Bond, bool) {
	for _, b := range t.Bonds {
		if b.Type == bondType {
			return b, true
		}
	}
	return Bond{}, false
}
