package checkpoint

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

const (
	metaFile   = "metadata.json"
	stateFile  = "checkpoint.txt"
	energyFile = "energy.csv"
)

// Dir stores runs as sub-directories of a base directory.
type Dir struct {
	baseDir string
}

func OpenDir(baseDir string) (*Dir, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &Dir{baseDir: baseDir}, nil
}

func (d *Dir) Save(run Run) error {
	if run.Meta.ID == "" {
		return fmt.Errorf("save run: empty id")
	}
	runDir := filepath.Join(d.baseDir, run.Meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	meta, err := json.MarshalIndent(run.Meta, "", "  ")
	if err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(runDir, metaFile), meta); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(runDir, stateFile), run.State); err != nil {
		return err
	}
	return writeEnergy(filepath.Join(runDir, energyFile), run.Energy)
}

// writeAtomic replaces path so a crash never leaves a half-written checkpoint.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func writeEnergy(path string, energy []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"update", "energy"}); err != nil {
		return err
	}
	for i, e := range energy {
		if err := w.Write([]string{strconv.Itoa(i), strconv.FormatFloat(e, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (d *Dir) Load(id string) (*Run, error) {
	runDir := filepath.Join(d.baseDir, id)
	data, err := os.ReadFile(filepath.Join(runDir, metaFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, err
	}
	run := &Run{}
	if err := json.Unmarshal(data, &run.Meta); err != nil {
		return nil, fmt.Errorf("run %s metadata: %w", id, err)
	}
	if run.State, err = os.ReadFile(filepath.Join(runDir, stateFile)); err != nil {
		return nil, err
	}
	if run.Energy, err = readEnergy(filepath.Join(runDir, energyFile)); err != nil {
		return nil, fmt.Errorf("run %s energy: %w", id, err)
	}
	return run, nil
}

func readEnergy(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}
	energy := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		e, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, err
		}
		energy = append(energy, e)
	}
	return energy, nil
}

func (d *Dir) List() ([]Meta, error) {
	entries, err := os.ReadDir(d.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Meta{}, nil
		}
		return nil, err
	}

	runs := make([]Meta, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(d.baseDir, entry.Name(), metaFile))
		if err != nil {
			continue
		}
		var meta Meta
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Updated.After(runs[j].Updated) })
	return runs, nil
}

func (d *Dir) Close() error { return nil }
