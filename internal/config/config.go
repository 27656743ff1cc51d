// Package config reads the YAML description of a simulation and builds the
// Monte Carlo run it describes through the type registries.
package config

import (
	"cmp"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/catalog"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/criteria"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/mc"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/perturb"
	"github.com/san-kum/mcsim/internal/potential"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/selection"
	"github.com/san-kum/mcsim/internal/steppers"
	"github.com/san-kum/mcsim/internal/system"
)

const (
	DefaultDimension = 3
	DefaultBeta      = 1.0
	DefaultAttempts  = 10000
	DefaultSeed      = 1
	DefaultCriteria  = "Metropolis"
	DefaultRandom    = "RandomPCG"
)

type Config struct {
	Name          string         `yaml:"name"`
	Dimension     int            `yaml:"dimension"`
	Beta          float64        `yaml:"beta"`
	Seed          uint64         `yaml:"seed"`
	Attempts      int            `yaml:"attempts"`
	Random        string         `yaml:"random,omitempty"`
	Criteria      string         `yaml:"criteria,omitempty"`
	ParticleTypes []ParticleType `yaml:"particle_types"`
	Particles     []Particle     `yaml:"particles,omitempty"`
	Lattice       *Lattice       `yaml:"lattice,omitempty"`
	Potentials    []Component    `yaml:"potentials"`
	Trials        []Trial        `yaml:"trials"`
	Modifiers     []Component    `yaml:"modifiers,omitempty"`
}

type Site struct {
	Type     int       `yaml:"type"`
	Position []float64 `yaml:"position"`
}

type Bond struct {
	Type   int                `yaml:"type"`
	Model  string             `yaml:"model"`
	Sites  [2]int             `yaml:"sites"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

type ParticleType struct {
	Name  string `yaml:"name"`
	Sites []Site `yaml:"sites"`
	Bonds []Bond `yaml:"bonds,omitempty"`
}

// Particle places one particle of Type with its template offset by Origin.
type Particle struct {
	Type   int       `yaml:"type"`
	Origin []float64 `yaml:"origin"`
}

// Lattice places Count particles of Type on a simple cubic (or square)
// lattice with the given spacing, filled row by row.
type Lattice struct {
	Type    int     `yaml:"type"`
	Count   int     `yaml:"count"`
	Spacing float64 `yaml:"spacing"`
}

// Component names a registered class and its construction arguments.
type Component struct {
	Class string    `yaml:"class"`
	Args  args.Args `yaml:"args,omitempty"`
}

type Trial struct {
	Weight  float64   `yaml:"weight"`
	Select  Component `yaml:"select"`
	Perturb Component `yaml:"perturb"`
}

func DefaultConfig() *Config {
	return &Config{
		Dimension: DefaultDimension,
		Beta:      DefaultBeta,
		Seed:      DefaultSeed,
		Attempts:  DefaultAttempts,
		Random:    DefaultRandom,
		Criteria:  DefaultCriteria,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone deep-copies c through its YAML form.
func (c *Config) Clone() (*Config, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Validate checks what can be checked without the registries.
func (c *Config) Validate() error {
	if c.Attempts < 0 {
		return mcsim.NewConfigError("attempts", "must be non-negative, got %d", c.Attempts)
	}
	if len(c.ParticleTypes) == 0 {
		return mcsim.NewConfigError("particle_types", "at least one particle type is required")
	}
	if len(c.Particles) == 0 && c.Lattice == nil {
		return mcsim.NewConfigError("particles", "no particles or lattice given")
	}
	if c.Lattice != nil && (c.Lattice.Count < 1 || c.Lattice.Spacing <= 0) {
		return mcsim.NewConfigError("lattice", "count and spacing must be positive")
	}
	if len(c.Trials) == 0 {
		return mcsim.NewConfigError("trials", "at least one trial is required")
	}
	return nil
}

// Build constructs the configured simulation, uninitialized.
func (c *Config) Build() (*mc.MonteCarlo, error) {
	catalog.Register()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	conf, err := c.buildConfiguration()
	if err != nil {
		return nil, err
	}
	sys, err := system.New(conf, system.ThermoParams{Beta: c.Beta})
	if err != nil {
		return nil, err
	}
	for i, p := range c.Potentials {
		pot, err := potential.Registry.Make(p.Class, p.Args)
		if err != nil {
			return nil, fmt.Errorf("potentials[%d]: %w", i, err)
		}
		sys.AddPotential(pot)
	}

	rnd, err := random.Registry.Make(cmp.Or(c.Random, DefaultRandom), args.Args{"seed": fmt.Sprint(c.Seed)})
	if err != nil {
		return nil, fmt.Errorf("random: %w", err)
	}
	crit, err := criteria.Registry.Make(cmp.Or(c.Criteria, DefaultCriteria), nil)
	if err != nil {
		return nil, fmt.Errorf("criteria: %w", err)
	}
	sim := mc.New(sys, crit, rnd)

	for i, t := range c.Trials {
		sel, err := selection.Registry.Make(t.Select.Class, t.Select.Args)
		if err != nil {
			return nil, fmt.Errorf("trials[%d].select: %w", i, err)
		}
		pert, err := perturb.Registry.Make(t.Perturb.Class, t.Perturb.Args)
		if err != nil {
			return nil, fmt.Errorf("trials[%d].perturb: %w", i, err)
		}
		weight := t.Weight
		if weight == 0 {
			weight = 1
		}
		trial, err := mc.NewTrial(sel, pert, weight)
		if err != nil {
			return nil, fmt.Errorf("trials[%d]: %w", i, err)
		}
		sim.AddTrial(trial)
	}
	for i, m := range c.Modifiers {
		mod, err := steppers.Registry.Make(m.Class, m.Args)
		if err != nil {
			return nil, fmt.Errorf("modifiers[%d]: %w", i, err)
		}
		sim.AddModifier(mod)
	}
	return sim, nil
}

func (c *Config) buildConfiguration() (*configuration.Configuration, error) {
	conf, err := configuration.New(c.Dimension)
	if err != nil {
		return nil, err
	}
	for _, pt := range c.ParticleTypes {
		t := configuration.ParticleType{Name: pt.Name}
		for _, s := range pt.Sites {
			t.Sites = append(t.Sites, configuration.Site{Type: s.Type, Position: geom.NewPosition(s.Position...)})
		}
		for _, b := range pt.Bonds {
			t.Bonds = append(t.Bonds, configuration.Bond{Type: b.Type, Model: b.Model, Sites: b.Sites, Params: b.Params})
		}
		if _, err := conf.AddParticleType(t); err != nil {
			return nil, fmt.Errorf("particle type %q: %w", pt.Name, err)
		}
	}
	for i, p := range c.Particles {
		if len(p.Origin) != c.Dimension {
			return nil, mcsim.NewConfigError("particles", "particle %d origin has dimension %d, want %d", i, len(p.Origin), c.Dimension)
		}
		if _, err := conf.AddParticleOfType(p.Type, geom.NewPosition(p.Origin...)); err != nil {
			return nil, fmt.Errorf("particles[%d]: %w", i, err)
		}
	}
	if c.Lattice != nil {
		for _, origin := range latticeSites(c.Lattice.Count, c.Dimension, c.Lattice.Spacing) {
			if _, err := conf.AddParticleOfType(c.Lattice.Type, origin); err != nil {
				return nil, fmt.Errorf("lattice: %w", err)
			}
		}
	}
	return conf, nil
}

// latticeSites returns the first count points of the smallest cube (square)
// lattice holding them.
func latticeSites(count, dim int, spacing float64) []geom.Position {
	side := 1
	for pow(side, dim) < count {
		side++
	}
	sites := make([]geom.Position, 0, count)
	for n := 0; len(sites) < count; n++ {
		p := geom.Zero(dim)
		rest := n
		for d := 0; d < dim; d++ {
			p[d] = float64(rest%side) * spacing
			rest /= side
		}
		sites = append(sites, p)
	}
	return sites
}

func pow(base, exp int) int {
	out := 1
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}
