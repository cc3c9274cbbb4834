package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/config"
)

const (
	metadataFile = "metadata.json"
	pointsDir    = "points"
)

// Store is a directory of sweep runs. Each run keeps one raw point file per
// worker next to a metadata.json summary.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type WorkerMetadata struct {
	Index        int     `json:"index"`
	BestX        float64 `json:"best_x"`
	BestV        float64 `json:"best_v"`
	BestTheta    float64 `json:"best_theta"`
	Found        bool    `json:"found"`
	Trajectories uint64  `json:"trajectories"`
	Bytes        uint64  `json:"bytes"`
	PointsFile   string  `json:"points_file,omitempty"`
}

type RunMetadata struct {
	ID             string           `json:"id"`
	Timestamp      time.Time        `json:"timestamp"`
	Config         *config.Config   `json:"config"`
	StartPoints    uint64           `json:"start_points"`
	Bytes          uint64           `json:"bytes"`
	CachedBytes    uint64           `json:"cached_bytes"`
	ElapsedSeconds float64          `json:"elapsed_seconds"`
	Best           *WorkerMetadata  `json:"best,omitempty"`
	Workers        []WorkerMetadata `json:"workers"`
}

// Run is an open run directory.
type Run struct {
	ID  string
	dir string
}

// CreateRun makes a new run directory named after prefix and the current
// time.
func (s *Store) CreateRun(prefix string) (*Run, error) {
	id := fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(filepath.Join(dir, pointsDir), 0755); err != nil {
		return nil, err
	}
	return &Run{ID: id, dir: dir}, nil
}

func (r *Run) Dir() string {
	return r.dir
}

// PointsPath is the raw point file of a worker.
func (r *Run) PointsPath(worker int) string {
	return filepath.Join(r.dir, pointsDir, fmt.Sprintf("%02d", worker))
}

// OpenPoints creates (or truncates) the point file of a worker.
func (r *Run) OpenPoints(worker int) (*PointFile, error) {
	return CreatePointFile(r.PointsPath(worker))
}

func (r *Run) WriteMetadata(meta *RunMetadata) error {
	meta.ID = r.ID
	f, err := os.Create(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the metadata of every completed run, oldest first.
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
		return nil, fmt.Errorf("storage: decode %s: %w", runID, err)
	}
	return &meta, nil
}

// PointsPath is the raw point file of a worker in an existing run.
func (s *Store) PointsPath(runID string, worker int) string {
	return filepath.Join(s.baseDir, runID, pointsDir, fmt.Sprintf("%02d", worker))
}
