package steppers

import (
	"fmt"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

// Check is a validation that can be nested in another modifier.
type Check interface {
	serial.Serializable
	Check(h Host) error
}

var CheckRegistry = registry.New[Check]("check")

const (
	checkPositionsClassName = "CheckPositions"
	checkPositionsVersion   = 6902
)

// CheckPositions fails when any site position is not finite.
type CheckPositions struct{}

func checkPositionsFactory() registry.Factory[Check] {
	return registry.Factory[Check]{
		New: func(*args.Parser) (Check, error) { return CheckPositions{}, nil },
		Read: func(r *serial.Reader) Check {
			r.Version(checkPositionsClassName, checkPositionsVersion)
			return CheckPositions{}
		},
	}
}

func (CheckPositions) ClassName() string { return checkPositionsClassName }

func (CheckPositions) Check(h Host) error {
	c := h.System().Configuration()
	for i := 0; i < c.NumParticles(); i++ {
		p := c.Particle(i)
		for j, s := range p.Sites {
			if !s.Position.IsValid() {
				return fmt.Errorf("particle %d site %d has position %v", i, j, s.Position)
			}
		}
	}
	return nil
}

func (CheckPositions) Serialize(w *serial.Writer) {
	w.Name(checkPositionsClassName)
	w.Version(checkPositionsVersion)
}
