// Package selection chooses which sites a trial perturbs.
//
// A [Select] is a registrable strategy (pick a random particle, pick a
// bonded site and its anchor, ...). Its working state lives in a
// [Selection]: the mobile sites, a scratch copy of their positions that
// perturbations edit, the positions before the move for reverting, the anchor
// site, and the numeric properties perturbations read (such as bond_type).
package selection

import (
	"fmt"

	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/system"
)

// Select is the strategy half of a trial.
type Select interface {
	serial.Serializable
	// Precompute resolves anything that depends on the system, once, before
	// the first trial.
	Precompute(sys *system.System) error
	// Select fills Current with a new mobile set. It returns false when
	// nothing in the system matches.
	Select(sys *system.System, rnd random.Random) bool
	Current() *Selection
}

var Registry = registry.New[Select]("select")

// RegisterBuiltins installs the selections of this package.
func RegisterBuiltins() {
	Registry.MustRegister(particleClassName, particleFactory())
	Registry.MustRegister(bondClassName, bondFactory())
}

const selectionVersion = 273

// Selection is the mutable state shared between a Select and the
// perturbation acting on it.
type Selection struct {
	mobile       configuration.Select
	positions    []geom.Position
	old          []geom.Position
	anchor       configuration.Select
	properties   map[string]float64
	particleType int
	exclude      float64
}

func newSelection(particleType int) *Selection {
	return &Selection{properties: map[string]float64{}, particleType: particleType}
}

// set loads the mobile sites and snapshots their positions.
func (s *Selection) set(c *configuration.Configuration, mobile, anchor configuration.Select) {
	s.mobile = mobile
	s.anchor = anchor
	s.positions = make([]geom.Position, len(mobile.Sites))
	s.old = make([]geom.Position, len(mobile.Sites))
	for i, site := range mobile.Sites {
		s.positions[i] = c.SitePosition(mobile.Particle, site)
		s.old[i] = s.positions[i].Clone()
	}
	s.exclude = 0
}

func (s *Selection) Mobile() configuration.Select { return s.mobile }

// Positions is the scratch copy of mobile site positions.
func (s *Selection) Positions() []geom.Position { return s.positions }

func (s *Selection) Position(i int) geom.Position { return s.positions[i] }

func (s *Selection) SetPosition(i int, p geom.Position) { s.positions[i] = p }

// Commit writes the scratch positions into the configuration.
func (s *Selection) Commit(c *configuration.Configuration) {
	c.UpdatePositions(s.mobile.Particle, s.mobile.Sites, s.positions)
}

// Revert restores the configuration and scratch copy to the state at selection.
func (s *Selection) Revert(c *configuration.Configuration) {
	for i := range s.old {
		s.positions[i] = s.old[i].Clone()
	}
	c.UpdatePositions(s.mobile.Particle, s.mobile.Sites, s.old)
}

// HasAnchor reports whether the selection carries an anchor site.
func (s *Selection) HasAnchor() bool { return !s.anchor.IsEmpty() }

// AnchorPosition returns the position of the index-th anchor site.
func (s *Selection) AnchorPosition(index int, c *configuration.Configuration) (geom.Position, error) {
	if index < 0 || index >= len(s.anchor.Sites) {
		return nil, fmt.Errorf("anchor %d of %d: %w", index, len(s.anchor.Sites), mcsim.ErrConfig)
	}
	return c.SitePosition(s.anchor.Particle, s.anchor.Sites[index]), nil
}

func (s *Selection) HasProperty(name string) bool {
	_, ok := s.properties[name]
	return ok
}

func (s *Selection) Property(name string) float64 { return s.properties[name] }

func (s *Selection) SetProperty(name string, v float64) { s.properties[name] = v }

func (s *Selection) ParticleType() int { return s.particleType }

// AddExcludeEnergy records energy a perturbation sampled exactly, which the
// acceptance test must not count a second time.
func (s *Selection) AddExcludeEnergy(e float64) { s.exclude += e }

func (s *Selection) ExcludeEnergy() float64 { return s.exclude }

func (s *Selection) ResetExcludeEnergy() { s.exclude = 0 }

func (s *Selection) serialize(w *serial.Writer) {
	w.Version(selectionVersion)
	w.Int(s.particleType)
	w.FloatMap(s.properties)
}

func readSelection(r *serial.Reader) *Selection {
	r.Version("TrialSelect", selectionVersion)
	s := newSelection(r.Int())
	s.properties = r.FloatMap()
	return s
}
