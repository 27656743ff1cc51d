// Package perturb implements the moves a trial applies to its selection.
//
// Every perturbation follows one contract. Called with held=true it leaves
// every position alone and only reports the energy its own model accounts
// for (through [selection.Selection.AddExcludeEnergy]); otherwise it moves
// exactly the mobile sites of the selection and writes them back to the
// configuration.
//
// Serialization is layered: the shared tunable layer first, then one layer
// per concrete type from the most general down, with the class-name tag of
// the outermost type in front.
package perturb

import (
	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/selection"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/system"
)

// Perturb is a registrable move.
type Perturb interface {
	serial.Serializable
	Tunable() *Tunable
	// Precompute resolves what the move needs from the selection and system.
	// It runs once, after the selection's own Precompute.
	Precompute(sel *selection.Selection, sys *system.System) error
	Move(held bool, sys *system.System, sel *selection.Selection, rnd random.Random) error
}

var Registry = registry.New[Perturb]("perturb")

// RegisterBuiltins installs the perturbations of this package.
func RegisterBuiltins() {
	Registry.MustRegister(translateClassName, translateFactory())
	Registry.MustRegister(rotateClassName, rotateFactory())
	Registry.MustRegister(rotateCOMClassName, rotateCOMFactory())
	Registry.MustRegister(distanceClassName, distanceFactory())
}

const tunableVersion = 263

// Tunable is a step size adjusted toward a target acceptance rate.
type Tunable struct {
	Value         float64
	Target        float64
	PercentChange float64
	Min           float64
	Max           float64
	Enabled       bool
}

func defaultTunable(value, max float64) Tunable {
	return Tunable{Value: value, Target: 0.25, PercentChange: 1, Min: 0, Max: max, Enabled: true}
}

// parseTunable reads the tunable_* arguments over the given defaults.
func parseTunable(p *args.Parser, def Tunable) Tunable {
	t := def
	t.Value = p.Float("tunable_param", def.Value)
	t.Target = p.Float("tunable_target_acceptance", def.Target)
	t.PercentChange = p.Float("tunable_percent_change", def.PercentChange)
	t.Min = p.Float("tunable_min", def.Min)
	t.Max = p.Float("tunable_max", def.Max)
	if t.Target <= 0 || t.Target >= 1 {
		p.Fail("tunable_target_acceptance", "must be in (0,1), got %g", t.Target)
	}
	if t.PercentChange <= 0 {
		p.Fail("tunable_percent_change", "must be positive, got %g", t.PercentChange)
	}
	if t.Min > t.Max {
		p.Fail("tunable_min", "%g exceeds tunable_max %g", t.Min, t.Max)
	}
	return t
}

// Disable freezes the value; Tune becomes a no-op.
func (t *Tunable) Disable() { t.Enabled = false }

// Tune grows the value when moves are accepted more often than the target
// and shrinks it otherwise, clamped to [Min, Max].
func (t *Tunable) Tune(acceptance float64) {
	if !t.Enabled {
		return
	}
	if acceptance > t.Target {
		t.Value *= 1 + t.PercentChange/100
	} else {
		t.Value *= 1 - t.PercentChange/100
	}
	t.Value = min(max(t.Value, t.Min), t.Max)
}

func (t *Tunable) serialize(w *serial.Writer) {
	w.Version(tunableVersion)
	w.Float(t.Value)
	w.Float(t.Target)
	w.Float(t.PercentChange)
	w.Float(t.Min)
	w.Float(t.Max)
	w.Bool(t.Enabled)
}

func readTunable(r *serial.Reader, class string) Tunable {
	r.Version(class, tunableVersion)
	return Tunable{
		Value:         r.Float(),
		Target:        r.Float(),
		PercentChange: r.Float(),
		Min:           r.Float(),
		Max:           r.Float(),
		Enabled:       r.Bool(),
	}
}
