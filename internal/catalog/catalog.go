// Package catalog installs every built-in type into its registry.
//
// Registration is explicit: nothing registers itself from an init function.
// Call Register once before building or restoring any simulation object.
package catalog

import (
	"sync"

	"github.com/san-kum/mcsim/internal/bond"
	"github.com/san-kum/mcsim/internal/criteria"
	"github.com/san-kum/mcsim/internal/perturb"
	"github.com/san-kum/mcsim/internal/potential"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/selection"
	"github.com/san-kum/mcsim/internal/steppers"
)

var once sync.Once

// Register is safe to call more than once; only the first call registers.
func Register() {
	once.Do(func() {
		random.RegisterBuiltins()
		bond.RegisterBuiltins()
		potential.RegisterBuiltins()
		criteria.RegisterBuiltins()
		selection.RegisterBuiltins()
		perturb.RegisterBuiltins()
		steppers.RegisterBuiltins()
	})
}
