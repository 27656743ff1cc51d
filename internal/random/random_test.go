package random

import (
	"math"
	"testing"

	"github.com/san-kum/mcsim/internal/serial"
)

func TestPCGRoundTripContinuesSequence(t *testing.T) {
	a := NewPCG(42)
	for i := 0; i < 17; i++ {
		a.Uniform()
	}

	data, err := serial.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rd := serial.NewBytesReader(data)
	rd.ExpectName(pcgClassName)
	b := readPCG(rd)
	if err := rd.Err(); err != nil {
		t.Fatalf("read: %v", err)
	}

	for i := 0; i < 100; i++ {
		x, y := a.Uniform(), b.Uniform()
		if math.Float64bits(x) != math.Float64bits(y) {
			t.Fatalf("draw %d diverged: %v vs %v", i, x, y)
		}
	}
}

func TestUnitSphereSurface(t *testing.T) {
	g := NewPCG(7)
	for _, dim := range []int{2, 3, 4} {
		for i := 0; i < 200; i++ {
			p := g.UnitSphereSurface(dim)
			if len(p) != dim {
				t.Fatalf("dim %d: got len %d", dim, len(p))
			}
			if math.Abs(p.Norm()-1) > 1e-12 {
				t.Fatalf("dim %d: norm %v", dim, p.Norm())
			}
		}
	}
}

func TestUniformBounds(t *testing.T) {
	g := NewPCG(0)
	if g.Seed() != defaultSeed {
		t.Errorf("seed 0 should select default, got %d", g.Seed())
	}
	for i := 0; i < 1000; i++ {
		if u := g.Uniform(); u < 0 || u >= 1 {
			t.Fatalf("uniform out of range: %v", u)
		}
		if v := g.UniformRange(-2, -1); v < -2 || v >= -1 {
			t.Fatalf("range out of bounds: %v", v)
		}
		if n := g.Index(3); n < 0 || n >= 3 {
			t.Fatalf("index out of bounds: %d", n)
		}
	}
}
