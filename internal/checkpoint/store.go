// Package checkpoint persists simulation runs: a metadata record, the full
// serialized simulation state and the recorded energy series.
//
// Two backends exist. A directory holds one sub-directory per run with
// metadata.json, checkpoint.txt and energy.csv. A SQLite database (a URI of
// the form sqlite:path) keeps the same data in a single table.
package checkpoint

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrRunNotFound = errors.New("mcsim: run not found")

// Meta describes a stored run.
type Meta struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Created  time.Time          `json:"created"`
	Updated  time.Time          `json:"updated"`
	Attempts int64              `json:"attempts"`
	Energy   float64            `json:"energy"`
	Stats    map[string]float64 `json:"stats,omitempty"`
}

// Run is everything a store keeps for one run.
type Run struct {
	Meta   Meta
	State  []byte
	Energy []float64
}

type Store interface {
	// Save creates or replaces the run with run.Meta.ID.
	Save(run Run) error
	Load(id string) (*Run, error)
	// List returns the metadata of every run, newest update first.
	List() ([]Meta, error)
	Close() error
}

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

// Open picks a backend from uri: "sqlite:<path>" or a directory.
func Open(uri string) (Store, error) {
	if path, ok := strings.CutPrefix(uri, "sqlite:"); ok {
		return OpenSQLite(path)
	}
	return OpenDir(uri)
}
