package configuration

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/serial"
)

func dimerConfiguration(t *testing.T) *Configuration {
	t.Helper()
	c, err := New(3)
	if err != nil {
		t.Fatal(err)
	}
	typ, err := c.AddParticleType(ParticleType{
		Name: "dimer",
		Sites: []Site{
			{Type: 0, Position: geom.Position{0, 0, 0}},
			{Type: 1, Position: geom.Position{1, 0, 0}},
		},
		Bonds: []Bond{{Type: 0, Model: "BondHarmonic", Sites: [2]int{0, 1},
			Params: map[string]float64{"k_energy_per_length_sq": 10, "equilibrium_length": 1}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, origin := range []geom.Position{{0, 0, 0}, {5, 5, 5}} {
		if _, err := c.AddParticleOfType(typ, origin); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestConfigurationBuild(t *testing.T) {
	c := dimerConfiguration(t)
	if c.NumParticles() != 2 || c.NumSites() != 4 {
		t.Fatalf("got %s", c)
	}
	if got := c.SitePosition(1, 1); got.Distance(geom.Position{6, 5, 5}) != 0 {
		t.Errorf("site position = %v", got)
	}
	b, ok := c.BondOf(1, 0)
	if !ok || b.Param("equilibrium_length", 0) != 1 {
		t.Errorf("bond lookup failed: %+v", b)
	}
	if _, ok := c.BondOf(1, 3); ok {
		t.Error("unexpected bond type 3")
	}
}

func TestConfigurationRejectsBadInput(t *testing.T) {
	if _, err := New(4); err == nil {
		t.Error("dimension 4 accepted")
	}
	c, _ := New(2)
	_, err := c.AddParticleType(ParticleType{Name: "x", Sites: []Site{{Position: geom.Position{0, 0, 0}}}})
	if err == nil {
		t.Error("3D site accepted in 2D configuration")
	}
	_, err = c.AddParticleType(ParticleType{Name: "y", Sites: []Site{{Position: geom.Position{0, 0}}},
		Bonds: []Bond{{Sites: [2]int{0, 1}}}})
	if err == nil {
		t.Error("bond to missing site accepted")
	}
	if _, err := c.AddParticleOfType(5, geom.Position{0, 0}); err == nil {
		t.Error("unknown particle type accepted")
	}
}

func TestConfigurationUpdateAndRoundTrip(t *testing.T) {
	c := dimerConfiguration(t)
	c.UpdatePositions(0, []int{1}, []geom.Position{{0.5, 0.25, 1.0 / 3.0}})

	data, err := serial.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	r := serial.NewBytesReader(data)
	got := Read(r)
	if err := r.Err(); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.NumParticles() != 2 || got.Dimension() != 3 {
		t.Fatalf("got %s", got)
	}
	if got.SitePosition(0, 1)[2] != 1.0/3.0 {
		t.Errorf("position not exact: %v", got.SitePosition(0, 1))
	}
	if b, ok := got.BondOf(0, 0); !ok || b.Model != "BondHarmonic" || b.Param("k_energy_per_length_sq", 0) != 10 {
		t.Errorf("bond lost: %+v", b)
	}
}

func TestReadRejectsCorruptStream(t *testing.T) {
	good, err := serial.Marshal(dimerConfiguration(t))
	if err != nil {
		t.Fatal(err)
	}
	tokens := strings.Fields(string(good))
	// Configuration 1 <dimension> <types> <name len> dimer <sites> ...
	corrupt := func(index int, value string) []byte {
		out := slices.Clone(tokens)
		out[index] = value
		return []byte(strings.Join(out, " ") + " ")
	}
	tests := []struct {
		name string
		data []byte
	}{
		{"dimension zero", corrupt(2, "0")},
		{"dimension huge", corrupt(2, "1000000000")},
		{"negative types", corrupt(3, "-2")},
		{"huge site count", corrupt(6, "9223372036854775807")},
		{"truncated", good[:len(good)/2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := serial.NewBytesReader(tt.data)
			var got *Configuration
			func() {
				defer func() {
					if p := recover(); p != nil {
						t.Fatalf("panic: %v", p)
					}
				}()
				got = Read(r)
			}()
			if got != nil {
				t.Errorf("got %s", got)
			}
			if !errors.Is(r.Err(), mcsim.ErrMalformedStream) {
				t.Errorf("err = %v", r.Err())
			}
		})
	}
}
