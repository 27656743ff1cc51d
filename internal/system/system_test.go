package system

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/san-kum/mcsim/internal/bond"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/potential"
	"github.com/san-kum/mcsim/internal/serial"
)

var once sync.Once

func setup() {
	once.Do(func() {
		bond.RegisterBuiltins()
		potential.RegisterBuiltins()
	})
}

func dimers(t *testing.T, model string) *configuration.Configuration {
	t.Helper()
	c, _ := configuration.New(3)
	typ, err := c.AddParticleType(configuration.ParticleType{
		Name: "dimer",
		Sites: []configuration.Site{
			{Type: 0, Position: geom.Position{0, 0, 0}},
			{Type: 0, Position: geom.Position{1.05, 0, 0}},
		},
		Bonds: []configuration.Bond{{Model: model, Sites: [2]int{0, 1},
			Params: map[string]float64{"k_energy_per_length_sq": 20, "equilibrium_length": 1}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	c.AddParticleOfType(typ, geom.Position{0, 0, 0})
	c.AddParticleOfType(typ, geom.Position{0, 1.2, 0})
	return c
}

func TestNewValidates(t *testing.T) {
	setup()
	if _, err := New(dimers(t, "BondHarmonic"), ThermoParams{Beta: 0}); !errors.Is(err, mcsim.ErrConfig) {
		t.Errorf("beta 0: got %v", err)
	}
	if _, err := New(dimers(t, "BondFENE"), ThermoParams{Beta: 1}); !errors.Is(err, mcsim.ErrUnregistered) {
		t.Errorf("unknown bond model: got %v", err)
	}
}

func TestEnergyAndBreakdown(t *testing.T) {
	setup()
	s, err := New(dimers(t, "BondHarmonic"), ThermoParams{Beta: 1})
	if err != nil {
		t.Fatal(err)
	}
	s.AddPotential(potential.NewPair(potential.NewLennardJones(1, 1), 3))
	s.AddPotential(potential.NewBonded())

	e := s.UnoptimizedEnergy()
	bondE := 2 * 20 * 0.05 * 0.05
	pairE := potential.NewPair(potential.NewLennardJones(1, 1), 3).Energy(s.Configuration())
	if math.Abs(e-(bondE+pairE)) > 1e-12 {
		t.Errorf("energy = %v, want %v", e, bondE+pairE)
	}
	if b := s.Breakdown(); !strings.Contains(b, "Pair[0]") || !strings.Contains(b, "Bonded[1]") {
		t.Errorf("breakdown = %q", b)
	}
	if _, err := s.PotentialSelectEnergy(2, configuration.Select{}); err == nil {
		t.Error("out of range potential accepted")
	}
}

func TestSystemRoundTrip(t *testing.T) {
	setup()
	s, _ := New(dimers(t, "BondHarmonic"), ThermoParams{Beta: 1.7})
	s.AddPotential(potential.NewPair(potential.NewLennardJones(1, 1), 3))
	s.AddPotential(potential.NewBonded())

	data, err := serial.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	r := serial.NewBytesReader(data)
	got := Read(r)
	if err := r.Err(); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Beta() != 1.7 || got.NumPotentials() != 2 {
		t.Fatalf("got beta=%v potentials=%d", got.Beta(), got.NumPotentials())
	}
	if math.Float64bits(got.UnoptimizedEnergy()) != math.Float64bits(s.UnoptimizedEnergy()) {
		t.Error("energy differs after round trip")
	}
}
