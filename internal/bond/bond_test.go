package bond

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/random"
)

var once sync.Once

func setup() { once.Do(RegisterBuiltins) }

func harmonicBond() configuration.Bond {
	return configuration.Bond{Model: harmonicClassName, Sites: [2]int{0, 1},
		Params: map[string]float64{"k_energy_per_length_sq": 50, "equilibrium_length": 1}}
}

func TestLookup(t *testing.T) {
	setup()
	for _, name := range []string{harmonicClassName, squareWellClassName, rigidClassName} {
		m, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", name, err)
		}
		if m.ClassName() != name {
			t.Errorf("got %s", m.ClassName())
		}
	}
	if _, err := Lookup("BondMorse"); !errors.Is(err, mcsim.ErrUnregistered) {
		t.Errorf("expected ErrUnregistered, got %v", err)
	}
}

func TestHarmonicEnergy(t *testing.T) {
	b := harmonicBond()
	h := Harmonic{}
	if e := h.Energy(1.1, b); math.Abs(e-0.5) > 1e-12 {
		t.Errorf("Energy(1.1) = %v, want 0.5", e)
	}
	if e := h.EnergyBetween(geom.Position{0, 0, 0}, geom.Position{0, 1.1, 0}, b); math.Abs(e-0.5) > 1e-12 {
		t.Errorf("EnergyBetween = %v", e)
	}
}

func TestHarmonicRandomDistanceMean(t *testing.T) {
	b := harmonicBond()
	rnd := random.NewPCG(3)
	sum := 0.0
	n := 4000
	for i := 0; i < n; i++ {
		r, err := (Harmonic{}).RandomDistance(b, 1, 3, rnd)
		if err != nil {
			t.Fatal(err)
		}
		sum += r
	}
	// the Jacobian pushes the mean slightly above l0
	if mean := sum / float64(n); mean < 1.0 || mean > 1.05 {
		t.Errorf("mean length %v outside expected band", mean)
	}
}

func TestSquareWellRandomDistanceInBounds(t *testing.T) {
	b := configuration.Bond{Params: map[string]float64{"minimum_distance": 0.9, "maximum_distance": 1.2}}
	rnd := random.NewPCG(5)
	for i := 0; i < 500; i++ {
		r, err := (SquareWell{}).RandomDistance(b, 1, 3, rnd)
		if err != nil {
			t.Fatal(err)
		}
		if r < 0.9 || r > 1.2 {
			t.Fatalf("r = %v outside well", r)
		}
		if (SquareWell{}).Energy(r, b) != 0 {
			t.Fatalf("sampled r has energy")
		}
	}
	if !math.IsInf((SquareWell{}).Energy(2, b), 1) {
		t.Error("outside well should be infinite")
	}
}

func TestRigid(t *testing.T) {
	b := configuration.Bond{Params: map[string]float64{"length": 1.5}}
	r, _ := (Rigid{}).RandomDistance(b, 1, 3, nil)
	if r != 1.5 || (Rigid{}).Energy(r, b) != 0 {
		t.Errorf("rigid sample %v", r)
	}
	if !math.IsInf((Rigid{}).Energy(1.6, b), 1) {
		t.Error("stretched rigid bond should be infinite")
	}
}
