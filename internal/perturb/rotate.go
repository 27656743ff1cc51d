package perturb

import (
	"math"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/selection"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/system"
)

const (
	rotateClassName = "PerturbRotate"
	rotateVersion   = 3254
)

// Rotate turns the mobile sites about the first anchor site, or about the
// first mobile site when the selection has no anchor. The tunable is the
// maximum angle in degrees.
type Rotate struct {
	tunable Tunable
}

func defaultRotateTunable() Tunable { return defaultTunable(25, 360) }

func NewRotate(maxAngle float64) *Rotate {
	t := defaultRotateTunable()
	t.Value = maxAngle
	return &Rotate{tunable: t}
}

func rotateFactory() registry.Factory[Perturb] {
	return registry.Factory[Perturb]{
		New: func(p *args.Parser) (Perturb, error) {
			t := parseTunable(p, defaultRotateTunable())
			if err := p.Err(); err != nil {
				return nil, err
			}
			return &Rotate{tunable: t}, nil
		},
		Read: func(r *serial.Reader) Perturb {
			t := readTunable(r, rotateClassName)
			r.Version(rotateClassName, rotateVersion)
			return &Rotate{tunable: t}
		},
	}
}

func (m *Rotate) ClassName() string { return rotateClassName }

func (m *Rotate) Tunable() *Tunable { return &m.tunable }

func (m *Rotate) Precompute(*selection.Selection, *system.System) error { return nil }

func (m *Rotate) Move(held bool, sys *system.System, sel *selection.Selection, rnd random.Random) error {
	if held {
		return nil
	}
	pivot := sel.Position(0)
	if sel.HasAnchor() {
		var err error
		if pivot, err = sel.AnchorPosition(0, sys.Configuration()); err != nil {
			return err
		}
	}
	rotateAbout(pivot, m.tunable.Value, sys, sel, rnd)
	return nil
}

func (m *Rotate) serializeRotate(w *serial.Writer) {
	m.tunable.serialize(w)
	w.Version(rotateVersion)
}

func (m *Rotate) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	m.serializeRotate(w)
}

// randomRotation draws a random axis and an angle uniform in
// [-maxAngle, maxAngle] degrees.
func randomRotation(dim int, maxAngle float64, rnd random.Random) geom.Rotation {
	angle := rnd.UniformRange(-maxAngle, maxAngle) * math.Pi / 180
	if dim == 2 {
		return geom.Planar(angle)
	}
	return geom.AxisAngle(rnd.UnitSphereSurface(dim), angle)
}

// rotateAbout applies one random rotation to every mobile site and commits.
func rotateAbout(pivot geom.Position, maxAngle float64, sys *system.System, sel *selection.Selection, rnd random.Random) {
	rot := randomRotation(sys.Dimension(), maxAngle, rnd)
	for i, pos := range sel.Positions() {
		sel.SetPosition(i, rot.About(pos, pivot))
	}
	sel.Commit(sys.Configuration())
}
