// Package criteria decides whether a trial is accepted and owns the running
// energy of the simulation.
package criteria

import (
	"math"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

// Criteria holds the running energy and the acceptance rule.
type Criteria interface {
	serial.Serializable
	CurrentEnergy() float64
	SetCurrentEnergy(e float64)
	// IsAccepted tests a trial with energy change delta at inverse
	// temperature beta.
	IsAccepted(delta, beta float64, rnd random.Random) bool
}

var Registry = registry.New[Criteria]("criteria")

// RegisterBuiltins installs the criteria of this package.
func RegisterBuiltins() {
	Registry.MustRegister(metropolisClassName, registry.Factory[Criteria]{
		New: func(*args.Parser) (Criteria, error) { return NewMetropolis(), nil },
		Read: func(r *serial.Reader) Criteria {
			r.Version(metropolisClassName, metropolisVersion)
			return &Metropolis{current: r.Float()}
		},
	})
}

const (
	metropolisClassName = "Metropolis"
	metropolisVersion   = 3582
)

// Metropolis accepts with probability min(1, exp(-beta*delta)).
type Metropolis struct {
	current float64
}

func NewMetropolis() *Metropolis { return &Metropolis{} }

func (m *Metropolis) ClassName() string { return metropolisClassName }

func (m *Metropolis) CurrentEnergy() float64 { return m.current }

func (m *Metropolis) SetCurrentEnergy(e float64) { m.current = e }

func (m *Metropolis) IsAccepted(delta, beta float64, rnd random.Random) bool {
	if math.IsNaN(delta) {
		return false
	}
	if delta <= 0 {
		return true
	}
	return rnd.Uniform() < math.Exp(-beta*delta)
}

func (m *Metropolis) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	w.Version(metropolisVersion)
	w.Float(m.current)
}
