package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/safetyctl/internal/config"
	"github.com/san-kum/safetyctl/internal/metrics"
	"github.com/san-kum/safetyctl/internal/scenario"
)

const (
	metadataFile = "metadata.json"
	cyclesFile   = "cycles.csv"
)

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
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          Float            `json:"dt"`
	MaxPower    Float            `json:"max_power"`
	Cycles      int              `json:"cycles"`
	Constraints []string         `json:"constraints"`
	Metrics     map[string]Float `json:"metrics"`
}

var cyclesHeader = []string{
	"cycle", "time", "phase", "max_power", "power", "tcp_power", "factor",
	"total0", "total1", "total2", "total3", "total4", "total5",
	"tcp0", "tcp1", "tcp2", "tcp3", "tcp4", "tcp5",
}

// Save writes the run under a fresh id and returns it. A failed save leaves
// no run directory behind.
func (s *Store) Save(cfg *config.Config, constraints []string, result *scenario.Result) (runID string, err error) {
	runID = fmt.Sprintf("%s_%s", result.Name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	meta := RunMetadata{
		ID:          runID,
		Scenario:    result.Name,
		Timestamp:   time.Now(),
		Dt:          Float(cfg.Dt),
		MaxPower:    Float(cfg.MaxPower),
		Cycles:      len(result.Samples),
		Constraints: constraints,
		Metrics:     toFloats(result.Metrics),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCycles(filepath.Join(runDir, cyclesFile), result.Samples); err != nil {
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

func writeCycles(path string, samples []metrics.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(cyclesHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, sm := range samples {
		row := []string{
			strconv.Itoa(sm.Cycle), format(sm.Time), sm.Phase, format(sm.MaxPower),
			format(sm.Power), format(sm.TCPPower), format(sm.Factor),
		}
		for _, v := range sm.Total {
			row = append(row, format(v))
		}
		for _, v := range sm.TCP {
			row = append(row, format(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the metadata of every stored run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]metrics.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, cyclesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(cyclesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		sm, err := parseSample(rec)
		if err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, i+2, err)
		}
		samples = append(samples, sm)
	}
	return samples, nil
}

func parseSample(rec []string) (metrics.Sample, error) {
	var sm metrics.Sample
	cycle, err := strconv.Atoi(rec[0])
	if err != nil {
		return sm, err
	}
	sm.Cycle = cycle
	sm.Phase = rec[2]

	fields := append([]string{rec[1]}, rec[3:]...)
	vals := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return sm, err
		}
		vals = append(vals, v)
	}

	sm.Time, sm.MaxPower, sm.Power, sm.TCPPower, sm.Factor = vals[0], vals[1], vals[2], vals[3], vals[4]
	copy(sm.Total[:], vals[5:11])
	copy(sm.TCP[:], vals[11:17])
	return sm, nil
}

type exportSample struct {
	Cycle    int      `json:"cycle"`
	Time     Float    `json:"time"`
	Phase    string   `json:"phase"`
	MaxPower Float    `json:"max_power"`
	Power    Float    `json:"power"`
	TCPPower Float    `json:"tcp_power"`
	Factor   Float    `json:"factor"`
	Total    [6]Float `json:"total"`
	TCP      [6]Float `json:"tcp"`
}

type exportData struct {
	RunMetadata
	Samples []exportSample `json:"samples"`
}

// ExportJSON writes the metadata and every sample of a run as one JSON
// document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	doc := exportData{RunMetadata: *meta, Samples: make([]exportSample, len(samples))}
	for i, sm := range samples {
		doc.Samples[i] = exportSample{
			Cycle:    sm.Cycle,
			Time:     Float(sm.Time),
			Phase:    sm.Phase,
			MaxPower: Float(sm.MaxPower),
			Power:    Float(sm.Power),
			TCPPower: Float(sm.TCPPower),
			Factor:   Float(sm.Factor),
			Total:    twistFloats(sm.Total),
			TCP:      twistFloats(sm.TCP),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
