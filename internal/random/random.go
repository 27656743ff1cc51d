// Package random provides the swappable random source used by selections,
// perturbations and acceptance tests.
//
// A Random is itself a registrable, serializable type: its full generator
// state is written to checkpoints, so a restarted run continues the exact
// draw sequence it would have produced without the interruption.
package random

import (
	"math"

	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

// Random is the uniform source every stochastic decision draws from.
type Random interface {
	serial.Serializable
	// Uniform returns a value in [0, 1).
	Uniform() float64
	// UniformRange returns a value in [min, max).
	UniformRange(min, max float64) float64
	// Index returns an integer in [0, n).
	Index(n int) int
	// UnitSphereSurface returns a uniformly random unit vector.
	UnitSphereSurface(dim int) geom.Position
}

var Registry = registry.New[Random]("random")

// RegisterBuiltins installs the randoms defined in this package.
func RegisterBuiltins() {
	Registry.MustRegister(pcgClassName, pcgFactory())
}

// unitSphere draws a unit vector using only uniform draws, so every source
// shares the same geometry.
func unitSphere(u func() float64, dim int) geom.Position {
	switch dim {
	case 2:
		theta := 2 * math.Pi * u()
		return geom.Position{math.Cos(theta), math.Sin(theta)}
	case 3:
		// Marsaglia (1972)
		for {
			a := 2*u() - 1
			b := 2*u() - 1
			s := a*a + b*b
			if s >= 1 {
				continue
			}
			f := 2 * math.Sqrt(1-s)
			return geom.Position{a * f, b * f, 1 - 2*s}
		}
	default:
		p := make(geom.Position, dim)
		for {
			for i := range p {
				p[i] = 2*u() - 1
			}
			if n := p.SquaredNorm(); n > 0 && n <= 1 {
				return p.Scale(1 / math.Sqrt(n))
			}
		}
	}
}
