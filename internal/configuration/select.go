package configuration

import "slices"

// Select names a subset of the sites of one particle.
type Select struct {
	Particle int
	Sites    []int
}

func (s Select) Clone() Select {
	return Select{Particle: s.Particle, Sites: slices.Clone(s.Sites)}
}

func (s Select) NumSites() int { return len(s.Sites) }

func (s Select) Contains(site int) bool { return slices.Contains(s.Sites, site) }

// IsEmpty reports a selection with no sites.
func (s Select) IsEmpty() bool { return len(s.Sites) == 0 }
