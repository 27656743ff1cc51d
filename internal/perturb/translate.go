package perturb

import (
	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/selection"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/system"
)

const (
	translateClassName = "PerturbTranslate"
	translateVersion   = 3247
)

// Translate displaces every mobile site by one random vector with
// components in [-Value, Value].
type Translate struct {
	tunable Tunable
}

func NewTranslate(maxDisplacement float64) *Translate {
	t := defaultTunable(maxDisplacement, 1e300)
	return &Translate{tunable: t}
}

func translateFactory() registry.Factory[Perturb] {
	return registry.Factory[Perturb]{
		New: func(p *args.Parser) (Perturb, error) {
			t := parseTunable(p, defaultTunable(0.1, 1e300))
			if err := p.Err(); err != nil {
				return nil, err
			}
			return &Translate{tunable: t}, nil
		},
		Read: func(r *serial.Reader) Perturb {
			t := readTunable(r, translateClassName)
			r.Version(translateClassName, translateVersion)
			return &Translate{tunable: t}
		},
	}
}

func (m *Translate) ClassName() string { return translateClassName }

func (m *Translate) Tunable() *Tunable { return &m.tunable }

func (m *Translate) Precompute(*selection.Selection, *system.System) error { return nil }

func (m *Translate) Move(held bool, sys *system.System, sel *selection.Selection, rnd random.Random) error {
	if held {
		return nil
	}
	shift := make([]float64, sys.Dimension())
	for i := range shift {
		shift[i] = rnd.UniformRange(-m.tunable.Value, m.tunable.Value)
	}
	for i, pos := range sel.Positions() {
		sel.SetPosition(i, pos.Add(shift))
	}
	sel.Commit(sys.Configuration())
	return nil
}

func (m *Translate) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	m.tunable.serialize(w)
	w.Version(translateVersion)
}
