// Package registry maps class names to factories for one polymorphic family.
//
// Each family (perturbs, selects, potentials, ...) owns one Registry. A
// factory knows two ways to build an instance: from construction arguments
// and from a checkpoint stream. The stream path is the only place a class
// name read off a checkpoint is interpreted.
//
// Registries are filled once during startup and only read afterwards, so they
// carry no lock.
package registry

import (
	"fmt"
	"sort"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/serial"
)

// Factory builds instances of one concrete type.
type Factory[T any] struct {
	// New constructs from arguments. The parser is shared with nothing else;
	// New must leave every key it understands consumed.
	New func(p *args.Parser) (T, error)
	// Read rebuilds from a stream positioned just after the class-name tag.
	// Failures are recorded on the reader.
	Read func(r *serial.Reader) T
}

// Family is the read-only view used for listings.
type Family interface {
	Family() string
	Names() []string
	Has(name string) bool
}

var families []Family

// Families returns every registry created so far, in creation order.
func Families() []Family {
	out := make([]Family, len(families))
	copy(out, families)
	return out
}

type Registry[T any] struct {
	family  string
	entries map[string]Factory[T]
}

func New[T any](family string) *Registry[T] {
	r := &Registry[T]{
		family:  family,
		entries: make(map[string]Factory[T]),
	}
	families = append(families, r)
	return r
}

func (r *Registry[T]) Family() string { return r.family }

// Register installs a factory. A name may be registered once per family.
func (r *Registry[T]) Register(name string, f Factory[T]) error {
	if name == "" || f.New == nil || f.Read == nil {
		return fmt.Errorf("%s: incomplete factory for %q", r.family, name)
	}
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %s %q", mcsim.ErrDuplicateType, r.family, name)
	}
	r.entries[name] = f
	return nil
}

// MustRegister is Register for startup code where a duplicate is a programming error.
func (r *Registry[T]) MustRegister(name string, f Factory[T]) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

func (r *Registry[T]) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry[T]) lookup(name string) (Factory[T], error) {
	f, ok := r.entries[name]
	if !ok {
		return Factory[T]{}, fmt.Errorf("%w: %s %q", mcsim.ErrUnregistered, r.family, name)
	}
	return f, nil
}

// Make constructs name from a. Unused keys are a configuration error.
func (r *Registry[T]) Make(name string, a args.Args) (T, error) {
	var zero T
	f, err := r.lookup(name)
	if err != nil {
		return zero, err
	}
	p := args.NewParser(a)
	v, err := f.New(p)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", r.family, name, err)
	}
	if err := p.Done(); err != nil {
		return zero, fmt.Errorf("%s %s: %w", r.family, name, err)
	}
	return v, nil
}

// Build constructs name from a parser shared with an enclosing layer. The
// caller stays responsible for Done.
func (r *Registry[T]) Build(name string, p *args.Parser) (T, error) {
	var zero T
	f, err := r.lookup(name)
	if err != nil {
		return zero, err
	}
	v, err := f.New(p)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", r.family, name, err)
	}
	return v, nil
}

// Create rebuilds name from a stream positioned after its tag.
func (r *Registry[T]) Create(name string, rd *serial.Reader) (T, error) {
	var zero T
	f, err := r.lookup(name)
	if err != nil {
		return zero, err
	}
	v := f.Read(rd)
	if err := rd.Err(); err != nil {
		return zero, fmt.Errorf("%s %s: %w", r.family, name, err)
	}
	return v, nil
}

// Read reads a class-name tag and rebuilds the value it names. Errors are
// recorded on rd so nested reads compose with the enclosing layer.
func (r *Registry[T]) Read(rd *serial.Reader) T {
	var zero T
	name := rd.Name()
	if rd.Err() != nil {
		return zero
	}
	v, err := r.Create(name, rd)
	if err != nil {
		rd.Fail(err)
		return zero
	}
	return v
}

// ReadOptional reads a presence flag and, when set, the tagged value.
func (r *Registry[T]) ReadOptional(rd *serial.Reader) (T, bool) {
	var zero T
	if !rd.Present() {
		return zero, false
	}
	v := r.Read(rd)
	return v, rd.Err() == nil
}
