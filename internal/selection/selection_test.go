package selection

import (
	"sync"
	"testing"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/bond"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/system"
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

// trimers are three sites in a line with bonds 0-1 and 1-2.
func trimers(t *testing.T) *system.System {
	t.Helper()
	c, err := configuration.New(3)
	require.NoError(t, err)
	params := map[string]float64{"k_energy_per_length_sq": 10, "equilibrium_length": 1}
	typ, err := c.AddParticleType(configuration.ParticleType{
		Name: "trimer",
		Sites: []configuration.Site{
			{Type: 0, Position: geom.Position{0, 0, 0}},
			{Type: 1, Position: geom.Position{1, 0, 0}},
			{Type: 0, Position: geom.Position{2, 0, 0}},
		},
		Bonds: []configuration.Bond{
			{Type: 0, Model: "BondHarmonic", Sites: [2]int{0, 1}, Params: params},
			{Type: 1, Model: "BondHarmonic", Sites: [2]int{1, 2}, Params: params},
		},
	})
	require.NoError(t, err)
	_, err = c.AddParticleOfType(typ, geom.Position{0, 0, 0})
	require.NoError(t, err)
	_, err = c.AddParticleOfType(typ, geom.Position{0, 3, 0})
	require.NoError(t, err)
	sys, err := system.New(c, system.ThermoParams{Beta: 1})
	require.NoError(t, err)
	return sys
}

func TestParticleSelectsGroupSites(t *testing.T) {
	setup()
	sys := trimers(t)
	sel, err := Registry.Make(particleClassName, args.Args{"site_type": "0"})
	require.NoError(t, err)
	require.NoError(t, sel.Precompute(sys))

	rnd := random.NewPCG(3)
	for i := 0; i < 20; i++ {
		require.True(t, sel.Select(sys, rnd))
		cur := sel.Current()
		assert.Equal(t, []int{0, 2}, cur.Mobile().Sites)
		assert.False(t, cur.HasAnchor())
		assert.Len(t, cur.Positions(), 2)
	}
}

func TestParticleEmptyMatch(t *testing.T) {
	setup()
	sys := trimers(t)
	sel, err := Registry.Make(particleClassName, args.Args{"particle_type": "4"})
	require.NoError(t, err)
	assert.False(t, sel.Select(sys, random.NewPCG(1)))
}

func TestBondProperty(t *testing.T) {
	setup()
	sys := trimers(t)

	tests := []struct {
		name     string
		mobile   string
		anchor   string
		hasBond  bool
		bondType float64
	}{
		{"first bond", "0", "1", true, 0},
		{"reversed second bond", "1", "2", true, 1},
		{"unbonded pair", "0", "2", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Registry.Make(bondClassName, args.Args{
				"particle_type": "0", "mobile_site": tt.mobile, "anchor_site": tt.anchor,
			})
			require.NoError(t, err)
			require.NoError(t, sel.Precompute(sys))
			cur := sel.Current()
			assert.Equal(t, tt.hasBond, cur.HasProperty("bond_type"))
			if tt.hasBond {
				assert.Equal(t, tt.bondType, cur.Property("bond_type"))
			}
		})
	}
}

func TestBondSiteRange(t *testing.T) {
	setup()
	sys := trimers(t)

	tests := []struct {
		name string
		sel  *Bond
		key  string
	}{
		{"mobile past last site", NewBond(0, 5, 0), "mobile_site"},
		{"negative mobile", NewBond(0, -1, 0), "mobile_site"},
		{"anchor past last site", NewBond(0, 1, 3), "anchor_site"},
		{"unknown particle type", NewBond(2, 1, 0), "particle_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Precompute(sys)
			var ce *mcsim.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.key, ce.Key)
		})
	}
}

func TestBondRejectsSameSite(t *testing.T) {
	setup()
	_, err := Registry.Make(bondClassName, args.Args{"particle_type": "0", "mobile_site": "1", "anchor_site": "1"})
	assert.Error(t, err)
}

func TestCommitAndRevert(t *testing.T) {
	setup()
	sys := trimers(t)
	c := sys.Configuration()
	sel := NewBond(0, 2, 1)
	require.NoError(t, sel.Precompute(sys))
	require.True(t, sel.Select(sys, random.NewPCG(9)))

	cur := sel.Current()
	p := cur.Mobile().Particle
	before := c.SitePosition(p, 2).Clone()
	anchor, err := cur.AnchorPosition(0, c)
	require.NoError(t, err)
	assert.Equal(t, c.SitePosition(p, 1), anchor)

	cur.SetPosition(0, before.Add(geom.Position{0, 0, 0.5}))
	cur.Commit(c)
	assert.InDelta(t, 0.5, c.SitePosition(p, 2).Distance(before), 1e-15)

	cur.Revert(c)
	assert.Equal(t, before, c.SitePosition(p, 2))
	assert.Equal(t, before, cur.Position(0))

	_, err = cur.AnchorPosition(1, c)
	assert.Error(t, err)
}

func TestExcludeEnergy(t *testing.T) {
	s := newSelection(0)
	s.AddExcludeEnergy(1.5)
	s.AddExcludeEnergy(0.25)
	assert.Equal(t, 1.75, s.ExcludeEnergy())
	s.ResetExcludeEnergy()
	assert.Zero(t, s.ExcludeEnergy())
}

func TestSelectRoundTrip(t *testing.T) {
	setup()
	sys := trimers(t)
	for _, sel := range []Select{NewBond(0, 0, 1), NewParticle(configuration.AllGroup())} {
		require.NoError(t, sel.Precompute(sys))
		data, err := serial.Marshal(sel)
		require.NoError(t, err)

		got := Registry.Read(serial.NewBytesReader(data))
		require.NotNil(t, got, sel.ClassName())
		again, err := serial.Marshal(got)
		require.NoError(t, err)
		assert.Equal(t, string(data), string(again))
	}
}
