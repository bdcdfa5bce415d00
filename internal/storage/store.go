// Package storage persists headless benchmark runs as a directory per run
// holding metadata.json and ticks.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/stardust/internal/sim"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrMalformed   = errors.New("storage: malformed tick record")
)

var tickHeader = []string{
	"tick", "elapsed_ms", "free", "attracted", "flicked",
	"captured", "flicks", "radius", "interacting",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	TPS       int                `json:"tps"`
	Ticks     int                `json:"ticks"`
	Particles int                `json:"particles"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Runs      int                `json:"runs"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes meta and the tick history under a fresh run id, which is
// returned. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, ticks []sim.TickStats) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)
	for i := 1; ; i++ {
		if _, err := os.Stat(runDir); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", meta.Scenario, now.UnixMilli(), i)
		runDir = filepath.Join(s.baseDir, runID)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeTicks(filepath.Join(runDir, "ticks.csv"), ticks); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTicks(path string, ticks []sim.TickStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tickHeader); err != nil {
		return err
	}
	for _, t := range ticks {
		row := []string{
			strconv.Itoa(t.Tick),
			strconv.FormatInt(t.Elapsed.Milliseconds(), 10),
			strconv.Itoa(t.Free),
			strconv.Itoa(t.Attracted),
			strconv.Itoa(t.Flicked),
			strconv.Itoa(t.Captured),
			strconv.Itoa(t.Flicks),
			strconv.FormatFloat(t.Radius, 'f', 6, 64),
			strconv.FormatBool(t.Interacting),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTicks(runID string) ([]sim.TickStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "ticks.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(tickHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.TickStats{}, nil
	}

	ticks := make([]sim.TickStats, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := parseTick(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		ticks = append(ticks, t)
	}
	return ticks, nil
}

func parseTick(rec []string) (sim.TickStats, error) {
	var t sim.TickStats
	ints := make([]int, 7)
	for i := 0; i < 7; i++ {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			return t, fmt.Errorf("%w: %s %q", ErrMalformed, tickHeader[i], rec[i])
		}
		ints[i] = v
	}
	radius, err := strconv.ParseFloat(rec[7], 64)
	if err != nil {
		return t, fmt.Errorf("%w: radius %q", ErrMalformed, rec[7])
	}
	interacting, err := strconv.ParseBool(rec[8])
	if err != nil {
		return t, fmt.Errorf("%w: interacting %q", ErrMalformed, rec[8])
	}

	t.Tick = ints[0]
	t.Elapsed = time.Duration(ints[1]) * time.Millisecond
	t.Free, t.Attracted, t.Flicked = ints[2], ints[3], ints[4]
	t.Captured, t.Flicks = ints[5], ints[6]
	t.Radius = radius
	t.Interacting = interacting
	return t, nil
}
