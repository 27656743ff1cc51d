package potential

import (
	"math"
	"sync"
	"testing"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/bond"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var once sync.Once

func setup() {
	once.Do(func() {
		bond.RegisterBuiltins()
		RegisterBuiltins()
	})
}

func atoms(t *testing.T, positions ...geom.Position) *configuration.Configuration {
	t.Helper()
	c, err := configuration.New(3)
	require.NoError(t, err)
	typ, err := c.AddParticleType(configuration.ParticleType{
		Name:  "atom",
		Sites: []configuration.Site{{Type: 0, Position: geom.Position{0, 0, 0}}},
	})
	require.NoError(t, err)
	for _, pos := range positions {
		_, err := c.AddParticleOfType(typ, pos)
		require.NoError(t, err)
	}
	return c
}

func TestLennardJonesMinimum(t *testing.T) {
	lj := NewLennardJones(1, 1)
	rmin := math.Pow(2, 1.0/6.0)
	assert.InDelta(t, -1.0, lj.Energy(rmin*rmin, 0, 0), 1e-12)
	assert.InDelta(t, 0.0, lj.Energy(1, 0, 0), 1e-12)
}

func TestPairSelectEnergyMatchesTotal(t *testing.T) {
	c := atoms(t, geom.Position{0, 0, 0}, geom.Position{1.25, 0, 0}, geom.Position{0, 1.5, 0.3})
	p := NewPair(NewLennardJones(1, 1), 3)

	total := p.Energy(c)
	sum := 0.0
	for i := 0; i < c.NumParticles(); i++ {
		sum += p.SelectEnergy(configuration.Select{Particle: i, Sites: []int{0}}, c)
	}
	assert.InDelta(t, 2*total, sum, 1e-12)
}

func TestPairCutoff(t *testing.T) {
	c := atoms(t, geom.Position{0, 0, 0}, geom.Position{2.5, 0, 0})
	assert.Zero(t, NewPair(NewLennardJones(1, 1), 2).Energy(c))
	assert.NotZero(t, NewPair(NewLennardJones(1, 1), 3).Energy(c))
}

func TestModelTwoBodyFactorySums(t *testing.T) {
	setup()
	m, err := ModelRegistry.Make(factoryClassName, args.Args{
		"model0": ljClassName, "model0_sigma": "1",
		"model1": hardSphereClassName, "model1_sigma": "0.5",
	})
	require.NoError(t, err)
	f := m.(*ModelTwoBodyFactory)
	require.Equal(t, 2, f.Num())
	assert.InDelta(t, NewLennardJones(1, 1).Energy(1.44, 0, 0), f.Energy(1.44, 0, 0), 1e-15)
	assert.True(t, math.IsInf(f.Energy(0.1, 0, 0), 1))

	_, err = ModelRegistry.Make(factoryClassName, args.Args{})
	assert.Error(t, err)
}

func TestBondedEnergy(t *testing.T) {
	setup()
	c, _ := configuration.New(3)
	typ, err := c.AddParticleType(configuration.ParticleType{
		Name: "dimer",
		Sites: []configuration.Site{
			{Type: 0, Position: geom.Position{0, 0, 0}},
			{Type: 0, Position: geom.Position{1.1, 0, 0}},
		},
		Bonds: []configuration.Bond{{Model: "BondHarmonic", Sites: [2]int{0, 1},
			Params: map[string]float64{"k_energy_per_length_sq": 50, "equilibrium_length": 1}}},
	})
	require.NoError(t, err)
	_, err = c.AddParticleOfType(typ, geom.Position{0, 0, 0})
	require.NoError(t, err)

	b := NewBonded()
	assert.InDelta(t, 0.5, b.Energy(c), 1e-12)
	assert.InDelta(t, 0.5, b.SelectEnergy(configuration.Select{Particle: 0, Sites: []int{1}}, c), 1e-12)
	assert.InDelta(t, 0.5, b.SelectEnergy(configuration.Select{Particle: 0, Sites: []int{0, 1}}, c), 1e-12)
}

func TestPotentialRoundTrip(t *testing.T) {
	setup()
	pot, err := Registry.Make(pairClassName, args.Args{"model": ljClassName, "epsilon": "0.7", "sigma": "1.1", "cutoff": "2.5"})
	require.NoError(t, err)

	data, err := serial.Marshal(pot)
	require.NoError(t, err)
	rd := serial.NewBytesReader(data)
	got := Registry.Read(rd)
	require.NoError(t, rd.Err())

	c := atoms(t, geom.Position{0, 0, 0}, geom.Position{1.3, 0.2, 0})
	assert.Equal(t, math.Float64bits(pot.Energy(c)), math.Float64bits(got.Energy(c)))
	assert.Equal(t, 2.5, got.(*Pair).Cutoff())
}
