package bond

import (
	"math"

	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/serial"
)

const (
	harmonicClassName   = "BondHarmonic"
	harmonicVersion     = 7509
	squareWellClassName = "BondSquareWell"
	squareWellVersion   = 7510
	rigidClassName      = "RigidBond"
	rigidVersion        = 7511
)

// Harmonic is U = k (r - l0)^2 with params k_energy_per_length_sq and
// equilibrium_length.
type Harmonic struct{}

func (Harmonic) ClassName() string            { return harmonicClassName }
func (h Harmonic) Serialize(w *serial.Writer) { writeStateless(w, harmonicClassName, harmonicVersion) }

func (Harmonic) Energy(distance float64, b configuration.Bond) float64 {
	k := b.Param("k_energy_per_length_sq", 0)
	dr := distance - b.Param("equilibrium_length", 0)
	return k * dr * dr
}

func (h Harmonic) EnergyBetween(a, c geom.Position, b configuration.Bond) float64 {
	return h.Energy(a.Distance(c), b)
}

// RandomDistance samples within twelve standard deviations of the equilibrium length.
func (h Harmonic) RandomDistance(b configuration.Bond, beta float64, dim int, rnd random.Random) (float64, error) {
	k := b.Param("k_energy_per_length_sq", 0)
	l0 := b.Param("equilibrium_length", 0)
	if k <= 0 || beta <= 0 {
		return 0, mcsim.NewConfigError("k_energy_per_length_sq", "harmonic bond needs k > 0 and beta > 0")
	}
	sigma := 1 / math.Sqrt(2*beta*k)
	return sampleWithin(h, b, math.Max(0, l0-12*sigma), l0+12*sigma, beta, dim, rnd)
}

// SquareWell is zero inside [minimum_distance, maximum_distance] and
// infinite outside.
type SquareWell struct{}

func (SquareWell) ClassName() string { return squareWellClassName }
func (SquareWell) Serialize(w *serial.Writer) {
	writeStateless(w, squareWellClassName, squareWellVersion)
}

func (SquareWell) Energy(distance float64, b configuration.Bond) float64 {
	if distance < b.Param("minimum_distance", 0) || distance > b.Param("maximum_distance", 0) {
		return math.Inf(1)
	}
	return 0
}

func (s SquareWell) EnergyBetween(a, c geom.Position, b configuration.Bond) float64 {
	return s.Energy(a.Distance(c), b)
}

// RandomDistance inverts the r^(dim-1) cumulative distribution on the well.
func (SquareWell) RandomDistance(b configuration.Bond, beta float64, dim int, rnd random.Random) (float64, error) {
	lo := b.Param("minimum_distance", 0)
	hi := b.Param("maximum_distance", 0)
	if hi < lo {
		return 0, mcsim.NewConfigError("maximum_distance", "%g is below minimum_distance %g", hi, lo)
	}
	d := float64(dim)
	lo3, hi3 := math.Pow(lo, d), math.Pow(hi, d)
	return math.Pow(lo3+rnd.Uniform()*(hi3-lo3), 1/d), nil
}

// Rigid holds the bond at length to within delta (default 1e-4).
type Rigid struct{}

func (Rigid) ClassName() string          { return rigidClassName }
func (Rigid) Serialize(w *serial.Writer) { writeStateless(w, rigidClassName, rigidVersion) }

func (Rigid) Energy(distance float64, b configuration.Bond) float64 {
	if math.Abs(distance-b.Param("length", 0)) > b.Param("delta", 1e-4) {
		return math.Inf(1)
	}
	return 0
}

func (r Rigid) EnergyBetween(a, c geom.Position, b configuration.Bond) float64 {
	return r.Energy(a.Distance(c), b)
}

func (Rigid) RandomDistance(b configuration.Bond, _ float64, _ int, _ random.Random) (float64, error) {
	return b.Param("length", 0), nil
}
