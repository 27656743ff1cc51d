// Package bond implements the two-body bond models that give a bonded pair
// of sites its energy and its equilibrium distribution of lengths.
//
// Models are stateless; the parameters of a particular bond travel with the
// [configuration.Bond] itself. A model is looked up by the name stored on the
// bond through [Lookup].
package bond

import (
	"fmt"
	"math"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

// Model is a bond potential with a samplable length distribution.
type Model interface {
	serial.Serializable
	Energy(distance float64, b configuration.Bond) float64
	EnergyBetween(a, b geom.Position, bnd configuration.Bond) float64
	// RandomDistance draws a length from the Boltzmann distribution of the
	// bond at inverse temperature beta, including the r^(dim-1) Jacobian.
	RandomDistance(b configuration.Bond, beta float64, dim int, rnd random.Random) (float64, error)
}

var Registry = registry.New[Model]("bond")

// RegisterBuiltins installs the bond models defined in this package.
func RegisterBuiltins() {
	Registry.MustRegister(harmonicClassName, stateless(harmonicClassName, harmonicVersion, func() Model { return Harmonic{} }))
	Registry.MustRegister(squareWellClassName, stateless(squareWellClassName, squareWellVersion, func() Model { return SquareWell{} }))
	Registry.MustRegister(rigidClassName, stateless(rigidClassName, rigidVersion, func() Model { return Rigid{} }))
}

func stateless(name string, version int, make func() Model) registry.Factory[Model] {
	return registry.Factory[Model]{
		New: func(p *args.Parser) (Model, error) { return make(), nil },
		Read: func(r *serial.Reader) Model {
			r.Version(name, version)
			return make()
		},
	}
}

// Lookup returns the model a bond names.
func Lookup(name string) (Model, error) {
	m, err := Registry.Make(name, nil)
	if err != nil {
		return nil, fmt.Errorf("bond model %q not found: %w", name, err)
	}
	return m, nil
}

func writeStateless(w *serial.Writer, name string, version int) {
	w.Name(name)
	w.Version(version)
}

// maxDistanceAttempts bounds the internal length sampler of soft bonds.
const maxDistanceAttempts = 1000000

// sampleWithin draws r in [min, max] with density proportional to
// r^(dim-1) exp(-beta U(r)) by rejection against the envelope at max.
func sampleWithin(m Model, b configuration.Bond, min, max, beta float64, dim int, rnd random.Random) (float64, error) {
	for attempt := 0; attempt < maxDistanceAttempts; attempt++ {
		r := rnd.UniformRange(min, max)
		weight := math.Pow(r/max, float64(dim-1)) * math.Exp(-beta*m.Energy(r, b))
		if rnd.Uniform() < weight {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%s: no bond length accepted after %d attempts", m.ClassName(), maxDistanceAttempts)
}
