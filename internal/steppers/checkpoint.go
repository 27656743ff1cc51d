package steppers

import (
	"fmt"
	"time"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/checkpoint"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

const (
	checkpointClassName = "Checkpoint"
	checkpointVersion   = 4412
)

// Checkpoint saves the whole simulation to a checkpoint store.
type Checkpoint struct {
	stepper Stepper
	store   string
	runID   string
	name    string
	created time.Time
}

func NewCheckpoint(trialsPerUpdate int, store, runID, name string) *Checkpoint {
	if runID == "" {
		runID = checkpoint.NewRunID()
	}
	return &Checkpoint{
		stepper: Stepper{trialsPerUpdate: trialsPerUpdate},
		store:   store,
		runID:   runID,
		name:    name,
	}
}

func checkpointFactory() registry.Factory[Modifier] {
	return registry.Factory[Modifier]{
		New: func(p *args.Parser) (Modifier, error) {
			s := parseStepper(p)
			store := p.RequiredStr("store")
			runID := p.Str("run_id", "")
			name := p.Str("name", "")
			if err := p.Err(); err != nil {
				return nil, err
			}
			return NewCheckpoint(s.trialsPerUpdate, store, runID, name), nil
		},
		Read: func(r *serial.Reader) Modifier {
			m := &Checkpoint{stepper: readUpdateOnly(r, checkpointClassName)}
			r.Version(checkpointClassName, checkpointVersion)
			m.store = r.String()
			m.runID = r.String()
			m.name = r.String()
			if ns := r.Int64(); ns != 0 {
				m.created = time.Unix(0, ns).UTC()
			}
			return m
		},
	}
}

func (m *Checkpoint) ClassName() string { return checkpointClassName }

func (m *Checkpoint) Stepper() *Stepper { return &m.stepper }

func (m *Checkpoint) RunID() string { return m.runID }

func (m *Checkpoint) Store() string { return m.store }

func (m *Checkpoint) Initialize(Host) error {
	if m.created.IsZero() {
		m.created = time.Now().UTC()
	}
	return nil
}

func (m *Checkpoint) Update(h Host) error {
	if err := m.Initialize(h); err != nil {
		return err
	}
	store, err := checkpoint.Open(m.store)
	if err != nil {
		return fmt.Errorf("checkpoint store %q: %w", m.store, err)
	}
	defer store.Close()

	run, err := Snapshot(h, checkpoint.Meta{ID: m.runID, Name: m.name, Created: m.created})
	if err != nil {
		return err
	}
	if err := store.Save(run); err != nil {
		return err
	}
	mcsim.Logger().Info("checkpoint", "run", m.runID, "attempts", run.Meta.Attempts)
	return nil
}

func (m *Checkpoint) Serialize(w *serial.Writer) {
	w.Name(m.ClassName())
	serializeUpdateOnly(w, &m.stepper)
	w.Version(checkpointVersion)
	w.String(m.store)
	w.String(m.runID)
	w.String(m.name)
	var ns int64
	if !m.created.IsZero() {
		ns = m.created.UnixNano()
	}
	w.Int64(ns)
}

// Snapshot serializes h and fills in the run-level fields of meta.
func Snapshot(h Host, meta checkpoint.Meta) (checkpoint.Run, error) {
	state, err := serial.Marshal(h)
	if err != nil {
		return checkpoint.Run{}, fmt.Errorf("serialize simulation: %w", err)
	}
	meta.Updated = time.Now().UTC()
	if meta.Created.IsZero() {
		meta.Created = meta.Updated
	}
	meta.Attempts = h.NumAttempts()
	meta.Energy = h.Criteria().CurrentEnergy()
	meta.Stats = make(map[string]float64, h.NumTrials())
	for i := 0; i < h.NumTrials(); i++ {
		attempted, accepted := h.TrialAcceptance(i)
		if attempted > 0 {
			meta.Stats[fmt.Sprintf("acceptance%d", i)] = float64(accepted) / float64(attempted)
		}
	}
	return checkpoint.Run{Meta: meta, State: state, Energy: h.EnergySeries()}, nil
}
