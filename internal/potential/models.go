package potential

import (
	"math"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

const (
	ljClassName         = "LennardJones"
	ljVersion           = 763
	hardSphereClassName = "HardSphere"
	hardSphereVersion   = 764
)

// LennardJones is 4ε[(σ/r)^12 - (σ/r)^6].
type LennardJones struct {
	Epsilon float64
	Sigma   float64
}

func NewLennardJones(epsilon, sigma float64) *LennardJones {
	return &LennardJones{Epsilon: epsilon, Sigma: sigma}
}

func ljFactory() registry.Factory[Model] {
	return registry.Factory[Model]{
		New: func(p *args.Parser) (Model, error) {
			m := NewLennardJones(p.Float("epsilon", 1), p.Float("sigma", 1))
			if m.Sigma <= 0 {
				p.Fail("sigma", "must be positive, got %g", m.Sigma)
			}
			return m, p.Err()
		},
		Read: func(r *serial.Reader) Model {
			r.Version(ljClassName, ljVersion)
			return &LennardJones{Epsilon: r.Float(), Sigma: r.Float()}
		},
	}
}

func (m *LennardJones) ClassName() string { return ljClassName }

func (m *LennardJones) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	w.Version(ljVersion)
	w.Float(m.Epsilon)
	w.Float(m.Sigma)
}

func (m *LennardJones) Energy(squaredDistance float64, _, _ int) float64 {
	s2 := m.Sigma * m.Sigma / squaredDistance
	s6 := s2 * s2 * s2
	return 4 * m.Epsilon * (s6*s6 - s6)
}

// HardSphere is infinite below σ and zero beyond.
type HardSphere struct {
	Sigma float64
}

func hardSphereFactory() registry.Factory[Model] {
	return registry.Factory[Model]{
		New: func(p *args.Parser) (Model, error) {
			return &HardSphere{Sigma: p.Float("sigma", 1)}, p.Err()
		},
		Read: func(r *serial.Reader) Model {
			r.Version(hardSphereClassName, hardSphereVersion)
			return &HardSphere{Sigma: r.Float()}
		},
	}
}

func (m *HardSphere) ClassName() string { return hardSphereClassName }

func (m *HardSphere) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	w.Version(hardSphereVersion)
	w.Float(m.Sigma)
}

func (m *HardSphere) Energy(squaredDistance float64, _, _ int) float64 {
	if squaredDistance < m.Sigma*m.Sigma {
		return math.Inf(1)
	}
	return 0
}
