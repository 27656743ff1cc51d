package steppers

import (
	"slices"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

const (
	energyTraceClassName = "EnergyTrace"
	energyTraceVersion   = 8810
)

// EnergyTrace records the running energy at every update.
type EnergyTrace struct {
	stepper Stepper
	series  []float64
}

func NewEnergyTrace(trialsPerUpdate int) *EnergyTrace {
	return &EnergyTrace{stepper: Stepper{trialsPerUpdate: trialsPerUpdate}}
}

func energyTraceFactory() registry.Factory[Modifier] {
	return registry.Factory[Modifier]{
		New: func(p *args.Parser) (Modifier, error) {
			s := parseStepper(p)
			if err := p.Err(); err != nil {
				return nil, err
			}
			return &EnergyTrace{stepper: s}, nil
		},
		Read: func(r *serial.Reader) Modifier {
			m := &EnergyTrace{stepper: readStepper(r, energyTraceClassName)}
			r.Version(energyTraceClassName, energyTraceVersion)
			m.series = r.Floats()
			return m
		},
	}
}

func (m *EnergyTrace) ClassName() string { return energyTraceClassName }

func (m *EnergyTrace) Stepper() *Stepper { return &m.stepper }

func (m *EnergyTrace) Series() []float64 { return slices.Clone(m.series) }

func (m *EnergyTrace) Initialize(Host) error { return nil }

func (m *EnergyTrace) Update(h Host) error {
	m.series = append(m.series, h.Criteria().CurrentEnergy())
	return nil
}

func (m *EnergyTrace) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	m.stepper.serialize(w)
	w.Version(energyTraceVersion)
	w.Floats(m.series)
}
