package potential

import (
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

// Potential is one energetic contribution to a system.
type Potential interface {
	serial.Serializable
	// Energy computes the full contribution of the configuration.
	Energy(c *configuration.Configuration) float64
	// SelectEnergy computes the contribution involving the selected sites.
	SelectEnergy(sel configuration.Select, c *configuration.Configuration) float64
}

// Model is a spherically symmetric two-body interaction.
type Model interface {
	serial.Serializable
	Energy(squaredDistance float64, type1, type2 int) float64
}

var (
	Registry      = registry.New[Potential]("potential")
	ModelRegistry = registry.New[Model]("model")
)

// RegisterBuiltins installs the potentials and two-body models of this package.
func RegisterBuiltins() {
	ModelRegistry.MustRegister(ljClassName, ljFactory())
	ModelRegistry.MustRegister(hardSphereClassName, hardSphereFactory())
	ModelRegistry.MustRegister(factoryClassName, modelFactoryFactory())

	Registry.MustRegister(pairClassName, pairFactory())
	Registry.MustRegister(bondedClassName, bondedFactory())
}
