package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ManifestName is the manifest file written into the output directory.
const ManifestName = "manifest.json"

const manifestLockTimeout = 5 * time.Second

// Manifest describes one batch run.
type Manifest struct {
	RunID   string          `json:"run_id"`
	Created time.Time       `json:"created"`
	Entries []ManifestEntry `json:"entries"`
}

// ManifestEntry represents one tree in the output manifest.
type ManifestEntry struct {
	Profile    string `json:"profile"`
	Seed       int64  `json:"seed"`
	Image      string `json:"image,omitempty"`
	Branches   int    `json:"branches"`
	Leaves     int    `json:"leaves"`
	Bones      int    `json:"bones"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// NewManifest stamps results with a fresh run id.
func NewManifest(results []Result) Manifest {
	m := Manifest{
		RunID:   uuid.New().String(),
		Created: time.Now().UTC(),
		Entries: make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		m.Entries[i] = ManifestEntry{
			Profile:    r.Profile,
			Seed:       r.Seed,
			Image:      r.Image,
			Branches:   r.Branches,
			Leaves:     r.Leaves,
			Bones:      r.Bones,
			DurationMS: r.Duration.Milliseconds(),
			Error:      r.Error,
		}
	}
	return m
}

// WriteManifest writes m to path. Concurrent batch runs sharing an output
// directory serialize on path + ".lock"; the file is replaced atomically.
func WriteManifest(ctx context.Context, path string, m Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("batch: mkdir %s: %w", filepath.Dir(path), err)
	}

	lock := flock.New(path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, manifestLockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("batch: lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("batch: timeout waiting for lock on %s", path)
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: marshal manifest: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("batch: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("batch: rename %s: %w", tmp, err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("batch: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("batch: parse %s: %w", path, err)
	}
	return m, nil
}
