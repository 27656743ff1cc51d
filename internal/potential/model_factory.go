package potential

import (
	"strconv"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

const (
	factoryClassName = "ModelTwoBodyFactory"
	factoryVersion   = 1
)

// ModelTwoBodyFactory sums several two-body models so one pair visit can
// apply all of them.
type ModelTwoBodyFactory struct {
	models []Model
}

func NewModelTwoBodyFactory(models ...Model) *ModelTwoBodyFactory {
	return &ModelTwoBodyFactory{models: models}
}

// modelFactoryFactory reads model0, model1, ... with each model's own
// arguments prefixed by its key, e.g. model0_sigma.
func modelFactoryFactory() registry.Factory[Model] {
	return registry.Factory[Model]{
		New: func(p *args.Parser) (Model, error) {
			f := &ModelTwoBodyFactory{}
			for i := 0; ; i++ {
				key := "model" + strconv.Itoa(i)
				if !p.Has(key) {
					break
				}
				name := p.RequiredStr(key)
				sub := p.Sub(key + "_")
				m, err := ModelRegistry.Build(name, sub)
				if err != nil {
					return nil, err
				}
				if err := sub.Done(); err != nil {
					return nil, err
				}
				f.Add(m)
			}
			if f.Num() == 0 {
				p.Fail("model0", "at least one model is required")
			}
			return f, p.Err()
		},
		Read: func(r *serial.Reader) Model {
			r.Version(factoryClassName, factoryVersion)
			n := r.Len()
			f := &ModelTwoBodyFactory{}
			for i := 0; i < n && r.Err() == nil; i++ {
				f.Add(ModelRegistry.Read(r))
			}
			return f
		},
	}
}

func (f *ModelTwoBodyFactory) Add(m Model) { f.models = append(f.models, m) }

func (f *ModelTwoBodyFactory) Num() int { return len(f.models) }

func (f *ModelTwoBodyFactory) Model(index int) Model { return f.models[index] }

func (f *ModelTwoBodyFactory) ClassName() string { return factoryClassName }

func (f *ModelTwoBodyFactory) Serialize(w *serial.Writer) {
	w.Name(f.ClassName())
	w.Version(factoryVersion)
	w.Int(len(f.models))
	for _, m := range f.models {
		w.Object(m)
	}
}

func (f *ModelTwoBodyFactory) Energy(squaredDistance float64, type1, type2 int) float64 {
	sum := 0.0
	for _, m := range f.models {
		sum += m.Energy(squaredDistance, type1, type2)
	}
	return sum
}
