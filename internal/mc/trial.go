package mc

import (
	"fmt"

	"github.com/san-kum/mcsim/internal/criteria"
	"github.com/san-kum/mcsim/internal/perturb"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/selection"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/system"
)

const trialVersion = 1

// Trial pairs a selection with the perturbation applied to it.
type Trial struct {
	sel       selection.Select
	perturb   perturb.Perturb
	weight    float64
	attempted int64
	accepted  int64
}

func NewTrial(sel selection.Select, p perturb.Perturb, weight float64) (*Trial, error) {
	if weight <= 0 {
		return nil, fmt.Errorf("trial weight must be positive, got %g", weight)
	}
	return &Trial{sel: sel, perturb: p, weight: weight}, nil
}

func (t *Trial) Select() selection.Select { return t.sel }

func (t *Trial) Perturb() perturb.Perturb { return t.perturb }

func (t *Trial) Weight() float64 { return t.weight }

func (t *Trial) Attempted() int64 { return t.attempted }

func (t *Trial) Accepted() int64 { return t.accepted }

// Name describes the trial by its perturbation and selection.
func (t *Trial) Name() string {
	return t.perturb.ClassName() + "/" + t.sel.ClassName()
}

func (t *Trial) Acceptance() float64 {
	if t.attempted == 0 {
		return 0
	}
	return float64(t.accepted) / float64(t.attempted)
}

func (t *Trial) precompute(sys *system.System) error {
	if err := t.sel.Precompute(sys); err != nil {
		return fmt.Errorf("%s: %w", t.sel.ClassName(), err)
	}
	if err := t.perturb.Precompute(t.sel.Current(), sys); err != nil {
		return fmt.Errorf("%s: %w", t.perturb.ClassName(), err)
	}
	return nil
}

// Outcome is the result of one attempt.
type Outcome struct {
	Trial    int
	Selected bool
	Accepted bool
	Delta    float64
}

// attempt runs select, held move, move, acceptance. The energy a
// perturbation sampled exactly (its exclude energy) is removed from the
// acceptance test but kept in the running energy.
func (t *Trial) attempt(sys *system.System, crit criteria.Criteria, rnd random.Random) (Outcome, error) {
	var out Outcome
	t.attempted++
	if !t.sel.Select(sys, rnd) {
		return out, nil
	}
	out.Selected = true
	cur := t.sel.Current()

	cur.ResetExcludeEnergy()
	if err := t.perturb.Move(true, sys, cur, rnd); err != nil {
		return out, err
	}
	oldExclude := cur.ExcludeEnergy()
	oldEnergy := sys.SelectEnergy(cur.Mobile())

	cur.ResetExcludeEnergy()
	if err := t.perturb.Move(false, sys, cur, rnd); err != nil {
		cur.Revert(sys.Configuration())
		return out, err
	}
	newExclude := cur.ExcludeEnergy()
	newEnergy := sys.SelectEnergy(cur.Mobile())

	out.Delta = newEnergy - oldEnergy
	if crit.IsAccepted(out.Delta-(newExclude-oldExclude), sys.Beta(), rnd) {
		crit.SetCurrentEnergy(crit.CurrentEnergy() + out.Delta)
		t.accepted++
		out.Accepted = true
	} else {
		cur.Revert(sys.Configuration())
	}
	return out, nil
}

func (t *Trial) serialize(w *serial.Writer) {
	w.Version(trialVersion)
	w.Float(t.weight)
	w.Int64(t.attempted)
	w.Int64(t.accepted)
	w.Object(t.sel)
	w.Object(t.perturb)
}

func readTrial(r *serial.Reader) *Trial {
	r.Version("Trial", trialVersion)
	t := &Trial{weight: r.Float(), attempted: r.Int64(), accepted: r.Int64()}
	t.sel = selection.Registry.Read(r)
	t.perturb = perturb.Registry.Read(r)
	return t
}
