package steppers

import (
	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

const (
	tuneClassName = "Tune"
	tuneVersion   = 3214
)

// Tune moves every trial's tunable toward its target acceptance, using the
// acceptance observed since the previous update.
type Tune struct {
	stepper   Stepper
	attempted []int
	accepted  []int
}

func NewTune(trialsPerUpdate int) *Tune {
	return &Tune{stepper: Stepper{trialsPerUpdate: trialsPerUpdate}}
}

func tuneFactory() registry.Factory[Modifier] {
	return registry.Factory[Modifier]{
		New: func(p *args.Parser) (Modifier, error) {
			s := parseStepper(p)
			if err := p.Err(); err != nil {
				return nil, err
			}
			return &Tune{stepper: s}, nil
		},
		Read: func(r *serial.Reader) Modifier {
			m := &Tune{stepper: readUpdateOnly(r, tuneClassName)}
			r.Version(tuneClassName, tuneVersion)
			m.attempted = r.Ints()
			m.accepted = r.Ints()
			return m
		},
	}
}

func (m *Tune) ClassName() string { return tuneClassName }

func (m *Tune) Stepper() *Stepper { return &m.stepper }

func (m *Tune) Initialize(h Host) error {
	for len(m.attempted) < h.NumTrials() {
		m.attempted = append(m.attempted, 0)
		m.accepted = append(m.accepted, 0)
	}
	return nil
}

func (m *Tune) Update(h Host) error {
	if err := m.Initialize(h); err != nil {
		return err
	}
	for i := 0; i < h.NumTrials(); i++ {
		attempted, accepted := h.TrialAcceptance(i)
		da := int(attempted) - m.attempted[i]
		if da <= 0 {
			continue
		}
		rate := float64(int(accepted)-m.accepted[i]) / float64(da)
		t := h.TrialTunable(i)
		t.Tune(rate)
		mcsim.Logger().Debug("tuned", "trial", i, "acceptance", rate, "value", t.Value)
		m.attempted[i], m.accepted[i] = int(attempted), int(accepted)
	}
	return nil
}

func (m *Tune) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	serializeUpdateOnly(w, &m.stepper)
	w.Version(tuneVersion)
	w.Ints(m.attempted)
	w.Ints(m.accepted)
}
