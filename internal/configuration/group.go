package configuration

import (
	"slices"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/serial"
)

const groupVersion = 1

// Group selects a subset of particles and sites by declared type. An empty
// type set is a wildcard: it admits every type, including negative sentinels.
// Groups are immutable after construction.
type Group struct {
	siteTypes     []int
	particleTypes []int
	dynamic       bool
	spatial       bool
}

// NewGroup consumes site_type[N], particle_type[N], dynamic and spatial.
// Spatial groups are reserved and rejected.
func NewGroup(p *args.Parser) (*Group, error) {
	g := &Group{
		siteTypes:     p.IndexedInts("site_type"),
		particleTypes: p.IndexedInts("particle_type"),
		dynamic:       p.Bool("dynamic", true),
		spatial:       p.Bool("spatial", false),
	}
	if g.spatial {
		p.Fail("spatial", "spatial groups are not implemented")
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// MakeGroup builds a group from a complete argument map.
func MakeGroup(a args.Args) (*Group, error) {
	p := args.NewParser(a)
	g, err := NewGroup(p)
	if err != nil {
		return nil, err
	}
	return g, p.Done()
}

// AllGroup admits everything.
func AllGroup() *Group { return &Group{dynamic: true} }

func (g *Group) SiteTypes() []int     { return slices.Clone(g.siteTypes) }
func (g *Group) ParticleTypes() []int { return slices.Clone(g.particleTypes) }
func (g *Group) IsDynamic() bool      { return g.dynamic }
func (g *Group) IsSpatial() bool      { return g.spatial }

// IsEmpty reports whether the group filters nothing.
func (g *Group) IsEmpty() bool {
	return len(g.siteTypes) == 0 && len(g.particleTypes) == 0
}

func (g *Group) IsSiteIn(s Site) bool {
	return len(g.siteTypes) == 0 || slices.Contains(g.siteTypes, s.Type)
}

func (g *Group) IsParticleIn(p *Particle) bool {
	return len(g.particleTypes) == 0 || slices.Contains(g.particleTypes, p.Type)
}

// RemoveSites deletes the sites of p outside the group. Removal runs from
// the last index down so pending indices stay valid.
func (g *Group) RemoveSites(p *Particle) {
	for index := p.NumSites() - 1; index >= 0; index-- {
		if !g.IsSiteIn(p.Sites[index]) {
			p.RemoveSite(index)
		}
	}
}

// SiteIndices lists, in order, the sites of p inside the group.
func (g *Group) SiteIndices(p *Particle) []int {
	var indices []int
	for index, s := range p.Sites {
		if g.IsSiteIn(s) {
			indices = append(indices, index)
		}
	}
	return indices
}

// Serialize writes the group's layer. Groups are not polymorphic and carry no tag.
func (g *Group) Serialize(w *serial.Writer) {
	w.Version(groupVersion)
	w.Ints(g.siteTypes)
	w.Ints(g.particleTypes)
	w.Bool(g.dynamic)
	w.Bool(g.spatial)
}

func ReadGroup(r *serial.Reader) *Group {
	r.Version("Group", groupVersion)
	g := &Group{
		siteTypes:     r.Ints(),
		particleTypes: r.Ints(),
		dynamic:       r.Bool(),
		spatial:       r.Bool(),
	}
	if r.Err() == nil && g.spatial {
		r.Fail(mcsim.NewConfigError("spatial", "spatial groups are not implemented"))
	}
	if len(g.siteTypes) == 0 {
		g.siteTypes = nil
	}
	if len(g.particleTypes) == 0 {
		g.particleTypes = nil
	}
	return g
}
