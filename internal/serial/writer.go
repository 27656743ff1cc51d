package serial

import (
	"bufio"
	"bytes"
	"io"
	"sort"
	"strconv"
)

// Serializable is implemented by every value that can appear in a checkpoint.
type Serializable interface {
	ClassName() string
	Serialize(w *Writer)
}

// Writer produces a token stream.
type Writer struct {
	bw  *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

func (w *Writer) token(s string) {
	if w.err != nil {
		return
	}
	if _, err := w.bw.WriteString(s); err != nil {
		w.err = err
		return
	}
	w.err = w.bw.WriteByte(' ')
}

// Name writes the class-name tag of the outermost dynamic type.
func (w *Writer) Name(name string) { w.token(name) }

// Version writes the format version that opens a class layer.
func (w *Writer) Version(v int) { w.token(strconv.Itoa(v)) }

func (w *Writer) Int(v int) { w.token(strconv.Itoa(v)) }

func (w *Writer) Int64(v int64) { w.token(strconv.FormatInt(v, 10)) }

func (w *Writer) Float(v float64) { w.token(strconv.FormatFloat(v, 'g', -1, 64)) }

func (w *Writer) Bool(v bool) {
	if v {
		w.token("1")
	} else {
		w.token("0")
	}
}

// Present writes the 0/1 flag that precedes an optional nested value.
func (w *Writer) Present(ok bool) { w.Bool(ok) }

// String writes a length-prefixed string.
func (w *Writer) String(s string) {
	w.Int(len(s))
	w.token(s)
}

func (w *Writer) Ints(v []int) {
	w.Int(len(v))
	for _, x := range v {
		w.Int(x)
	}
}

func (w *Writer) Floats(v []float64) {
	w.Int(len(v))
	for _, x := range v {
		w.Float(x)
	}
}

// FloatMap writes the entries in key order so equal maps produce equal streams.
func (w *Writer) FloatMap(m map[string]float64) {
	keys := sortedKeys(m)
	w.Int(len(keys))
	for _, k := range keys {
		w.String(k)
		w.Float(m[k])
	}
}

// Object writes a nested polymorphic value; the value writes its own tag.
func (w *Writer) Object(s Serializable) {
	if w.err != nil {
		return
	}
	s.Serialize(w)
}

// Optional writes a presence flag and, when non-nil, the value itself.
func (w *Writer) Optional(s Serializable) {
	w.Present(s != nil)
	if s != nil {
		w.Object(s)
	}
}

func (w *Writer) Err() error { return w.err }

// Flush pushes buffered tokens to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.bw.Flush()
	return w.err
}

// Marshal writes s into a fresh buffer.
func Marshal(s Serializable) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Object(s)
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
