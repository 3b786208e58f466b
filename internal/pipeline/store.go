package pipeline

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/beanbyte/roastcast-cli/internal/fsutil"
)

func init() {
	gob.Register(&RidgeModel{})
	gob.Register(&GBTModel{})
}

// ErrModelMissing marks a requested artifact that has not been trained yet.
// Callers surface it as a fatal error telling the user to run train first.
var ErrModelMissing = errors.New("model artifact not found")

const manifestName = "manifest.yaml"

// Store persists fitted pipelines as one gob file per target under a
// directory, plus a manifest describing the training run. Artifacts are
// immutable once written; retraining replaces them wholesale.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the artifact path for a target.
func (s *Store) Path(target string) string {
	return filepath.Join(s.Dir, target+".gob")
}

// Save gob-encodes a fitted pipeline and writes it atomically, creating the
// store directory if absent.
func (s *Store) Save(p *Pipeline) error {
	if err := fsutil.EnsureDir(s.Dir); err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("encode pipeline %s: %w", p.Target, err)
	}
	if err := fsutil.SafeWriteFile(s.Path(p.Target), buf.Bytes()); err != nil {
		return fmt.Errorf("write pipeline %s: %w", p.Target, err)
	}
	return nil
}

// Load reads a persisted pipeline. A missing file is reported as
// ErrModelMissing.
func (s *Store) Load(target string) (*Pipeline, error) {
	f, err := os.Open(s.Path(target))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run `roastcast train` first)", ErrModelMissing, s.Path(target))
		}
		return nil, fmt.Errorf("open pipeline %s: %w", target, err)
	}
	defer f.Close()
	var p Pipeline
	if err := gob.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode pipeline %s: %w", target, err)
	}
	return &p, nil
}

// Manifest records a training run beside the artifacts it produced.
type Manifest struct {
	RunID     string              `yaml:"run_id"`
	TrainedAt time.Time           `yaml:"trained_at"`
	Source    string              `yaml:"source"`
	Rows      map[string]RowUsage `yaml:"rows"`
}

// RowUsage is rows used for a target versus rows available in the source.
type RowUsage struct {
	Used  int `yaml:"used"`
	Total int `yaml:"total"`
}

// WriteManifest writes the run manifest atomically into the store dir.
func (s *Store) WriteManifest(m *Manifest) error {
	if err := fsutil.EnsureDir(s.Dir); err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := fsutil.SafeWriteFile(filepath.Join(s.Dir, manifestName), b); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
