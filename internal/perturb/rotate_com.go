package perturb

import (
	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/selection"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/system"
)

const (
	rotateCOMClassName = "PerturbRotateCOM"
	rotateCOMVersion   = 409
)

// RotateCOM rotates the mobile sites rigidly about their geometric center.
type RotateCOM struct {
	Rotate
}

func NewRotateCOM(maxAngle float64) *RotateCOM {
	return &RotateCOM{Rotate: *NewRotate(maxAngle)}
}

func rotateCOMFactory() registry.Factory[Perturb] {
	return registry.Factory[Perturb]{
		New: func(p *args.Parser) (Perturb, error) {
			t := parseTunable(p, defaultRotateTunable())
			if err := p.Err(); err != nil {
				return nil, err
			}
			return &RotateCOM{Rotate: Rotate{tunable: t}}, nil
		},
		Read: func(r *serial.Reader) Perturb {
			t := readTunable(r, rotateCOMClassName)
			r.Version(rotateCOMClassName, rotateVersion)
			r.Version(rotateCOMClassName, rotateCOMVersion)
			return &RotateCOM{Rotate: Rotate{tunable: t}}
		},
	}
}

func (m *RotateCOM) ClassName() string { return rotateCOMClassName }

func (m *RotateCOM) Move(held bool, sys *system.System, sel *selection.Selection, rnd random.Random) error {
	if held {
		return nil
	}
	pivot := geom.GeometricCenter(sel.Positions())
	rotateAbout(pivot, m.tunable.Value, sys, sel, rnd)
	return nil
}

func (m *RotateCOM) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	m.serializeRotate(w)
	w.Version(rotateCOMVersion)
}
