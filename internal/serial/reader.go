package serial

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/mcsim/internal/mcsim"
)

// Reader consumes a token stream written by [Writer].
type Reader struct {
	br  *bufio.Reader
	err error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// NewBytesReader reads from an in-memory stream.
func NewBytesReader(b []byte) *Reader {
	return NewReader(bytes.NewReader(b))
}

func (r *Reader) fail(format string, a ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s", mcsim.ErrMalformedStream, fmt.Sprintf(format, a...))
	}
}

// Fail records err as the sticky error unless one is already set.
func (r *Reader) Fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func (r *Reader) token() string {
	if r.err != nil {
		return ""
	}
	var sb strings.Builder
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return sb.String()
			}
			r.fail("unexpected end of stream")
			return ""
		}
		if isSpace(b) {
			if sb.Len() == 0 {
				continue
			}
			return sb.String()
		}
		sb.WriteByte(b)
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

// Name reads a class-name tag.
func (r *Reader) Name() string { return r.token() }

// Version reads a layer version and asserts it equals want.
func (r *Reader) Version(class string, want int) {
	got := r.Int()
	if r.err == nil && got != want {
		r.err = &mcsim.VersionError{Class: class, Got: got, Want: want}
	}
}

// ExpectName asserts the next token is the given class name.
func (r *Reader) ExpectName(name string) {
	got := r.Name()
	if r.err == nil && got != name {
		r.fail("expected class %q, got %q", name, got)
	}
}

func (r *Reader) Int() int {
	tok := r.token()
	if r.err != nil {
		return 0
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		r.fail("int token %q", tok)
	}
	return v
}

func (r *Reader) Int64() int64 {
	tok := r.token()
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		r.fail("int64 token %q", tok)
	}
	return v
}

func (r *Reader) Float() float64 {
	tok := r.token()
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		r.fail("float token %q", tok)
	}
	return v
}

func (r *Reader) Bool() bool {
	switch tok := r.token(); tok {
	case "1":
		return true
	case "0":
		return false
	default:
		r.fail("bool token %q", tok)
		return false
	}
}

// Present reads the 0/1 flag written before an optional value.
func (r *Reader) Present() bool { return r.Bool() }

// String reads a length-prefixed string.
func (r *Reader) String() string {
	n := r.Len()
	if r.err != nil {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.br, buf); err != nil {
		r.fail("string of length %d", n)
		return ""
	}
	if b, err := r.br.ReadByte(); err == nil && !isSpace(b) {
		r.fail("string of length %d not terminated", n)
	}
	return string(buf)
}

// MaxLen bounds every count and string length read from a stream.
const MaxLen = 1 << 24

// Len reads a collection count. Counts outside [0, MaxLen] fail the stream.
func (r *Reader) Len() int {
	n := r.Int()
	if r.err == nil && (n < 0 || n > MaxLen) {
		r.fail("length %d out of range", n)
	}
	if r.err != nil {
		return 0
	}
	return n
}

// capacity limits preallocation so a corrupt count cannot reserve memory
// the stream does not back.
func capacity(n int) int { return min(n, 1024) }

func (r *Reader) Ints() []int {
	n := r.Len()
	out := make([]int, 0, capacity(n))
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, r.Int())
	}
	return out
}

func (r *Reader) Floats() []float64 {
	n := r.Len()
	out := make([]float64, 0, capacity(n))
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, r.Float())
	}
	return out
}

func (r *Reader) FloatMap() map[string]float64 {
	n := r.Len()
	out := make(map[string]float64, capacity(n))
	for i := 0; i < n && r.err == nil; i++ {
		k := r.String()
		out[k] = r.Float()
	}
	return out
}

func (r *Reader) Err() error { return r.err }
