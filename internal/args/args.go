// Package args parses the flat string key/value arguments that every
// registrable type is constructed from.
//
// A Parser consumes keys as they are read. Class layers share one Parser,
// each taking its own keys, and the outermost constructor calls Done, which
// rejects any key nobody consumed.
package args

import (
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/mcsim/internal/mcsim"
)

// Args is the raw argument map, e.g. {"tunable_param": "0.5"}.
type Args map[string]string

// Clone returns an independent copy.
func (a Args) Clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Parser reads typed values out of Args with a sticky error.
type Parser struct {
	remaining Args
	err       error
}

// NewParser copies a so the caller's map is never mutated.
func NewParser(a Args) *Parser {
	return &Parser{remaining: a.Clone()}
}

func (p *Parser) fail(key, format string, v ...any) {
	if p.err == nil {
		p.err = mcsim.NewConfigError(key, format, v...)
	}
}

// Has reports whether key is still unconsumed.
func (p *Parser) Has(key string) bool {
	_, ok := p.remaining[key]
	return ok
}

func (p *Parser) take(key string) (string, bool) {
	v, ok := p.remaining[key]
	if ok {
		delete(p.remaining, key)
	}
	return v, ok
}

func (p *Parser) Str(key, def string) string {
	if v, ok := p.take(key); ok {
		return v
	}
	return def
}

func (p *Parser) RequiredStr(key string) string {
	v, ok := p.take(key)
	if !ok {
		p.fail(key, "required argument is missing")
	}
	return v
}

func (p *Parser) parseInt(key, raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		// accept integral floats such as "1e6"
		f, ferr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if ferr != nil || f != float64(int(f)) {
			p.fail(key, "%q is not an integer", raw)
			return 0
		}
		return int(f)
	}
	return v
}

func (p *Parser) Int(key string, def int) int {
	raw, ok := p.take(key)
	if !ok {
		return def
	}
	return p.parseInt(key, raw)
}

func (p *Parser) RequiredInt(key string) int {
	raw, ok := p.take(key)
	if !ok {
		p.fail(key, "required argument is missing")
		return 0
	}
	return p.parseInt(key, raw)
}

func (p *Parser) parseFloat(key, raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		p.fail(key, "%q is not a number", raw)
	}
	return v
}

func (p *Parser) Float(key string, def float64) float64 {
	raw, ok := p.take(key)
	if !ok {
		return def
	}
	return p.parseFloat(key, raw)
}

func (p *Parser) RequiredFloat(key string) float64 {
	raw, ok := p.take(key)
	if !ok {
		p.fail(key, "required argument is missing")
		return 0
	}
	return p.parseFloat(key, raw)
}

func (p *Parser) Bool(key string, def bool) bool {
	raw, ok := p.take(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	p.fail(key, "%q is not a boolean", raw)
	return def
}

// IndexedInts reads either the singular key or the subscripted series
// key0, key1, ... stopping at the first gap.
func (p *Parser) IndexedInts(key string) []int {
	if p.Has(key) {
		return []int{p.RequiredInt(key)}
	}
	var out []int
	for i := 0; ; i++ {
		k := key + strconv.Itoa(i)
		if !p.Has(k) {
			return out
		}
		out = append(out, p.RequiredInt(k))
	}
}

// Sub moves every key starting with prefix into a new parser, with the
// prefix stripped. The child must be checked with its own Done.
func (p *Parser) Sub(prefix string) *Parser {
	child := Args{}
	for k, v := range p.remaining {
		if strings.HasPrefix(k, prefix) {
			child[strings.TrimPrefix(k, prefix)] = v
			delete(p.remaining, k)
		}
	}
	return &Parser{remaining: child}
}

// Fail records a validation failure found by the caller.
func (p *Parser) Fail(key, format string, v ...any) { p.fail(key, format, v...) }

// Err reports the first parse failure, ignoring unconsumed keys.
func (p *Parser) Err() error { return p.err }

// Done reports the first parse failure, or an unconsumed key.
func (p *Parser) Done() error {
	if p.err != nil {
		return p.err
	}
	if len(p.remaining) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p.remaining))
	for k := range p.remaining {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return mcsim.NewConfigError(keys[0], "unused argument")
}
