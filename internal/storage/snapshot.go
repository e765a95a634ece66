// Package storage persists map snapshots for offline review.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/karstlab/cavemap/internal/api"
)

const snapshotsDir = "snapshots"

// Snapshot is a serialized copy of one scope's loaded map data. It uses the
// API wire types directly so a restored snapshot round-trips exactly what
// the backend sent.
type Snapshot struct {
	Scope           string        `json:"scope"`
	SavedAt         time.Time     `json:"saved_at"`
	Stations        []api.Station `json:"stations,omitempty"`
	SurfaceStations []api.Station `json:"surface_stations,omitempty"`
	POIs            []api.POI     `json:"pois,omitempty"`
	Tags            []api.Tag     `json:"tags,omitempty"`
}

// Storage handles snapshot file system operations for cavemap
type Storage struct {
	baseDir string
	cache   map[string]*Snapshot
}

// NewStorage creates a snapshot storage rooted at baseDir. An empty baseDir
// resolves to $CAVEMAP_HOME or ~/.cavemap, matching the config file location.
func NewStorage(baseDir string) (*Storage, error) {
	if baseDir == "" {
		baseDir = defaultBaseDir()
	}

	s := &Storage{
		baseDir: baseDir,
		cache:   make(map[string]*Snapshot),
	}

	if err := os.MkdirAll(s.snapshotsPath(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot directory: %w", err)
	}

	return s, nil
}

// GetBaseDir returns the current base directory
func (s *Storage) GetBaseDir() string {
	return s.baseDir
}

// snapshotsPath returns the path to the snapshots directory
func (s *Storage) snapshotsPath() string {
	return filepath.Join(s.baseDir, snapshotsDir)
}

// snapshotPath returns the path to a specific scope's snapshot file. Scope
// keys contain a colon, which is not filename-safe everywhere.
func (s *Storage) snapshotPath(scopeKey string) string {
	name := strings.ReplaceAll(scopeKey, ":", "-")
	return filepath.Join(s.snapshotsPath(), fmt.Sprintf("%s.json", name))
}

// Save writes a scope's snapshot with cache invalidation
func (s *Storage) Save(scopeKey string, snap *Snapshot) error {
	if scopeKey == "" {
		return fmt.Errorf("scope key cannot be empty")
	}
	snap.Scope = scopeKey
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.snapshotPath(scopeKey), data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	s.cache[scopeKey] = snap
	return nil
}

// Load reads a scope's snapshot with caching
func (s *Storage) Load(scopeKey string) (*Snapshot, error) {
	if cached, ok := s.cache[scopeKey]; ok {
		return cached, nil
	}

	data, err := os.ReadFile(s.snapshotPath(scopeKey))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	s.cache[scopeKey] = &snap
	return &snap, nil
}

// List returns the scope keys of all stored snapshots, sorted.
func (s *Storage) List() ([]string, error) {
	entries, err := os.ReadDir(s.snapshotsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.snapshotsPath(), entry.Name()))
		if err != nil {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}
		keys = append(keys, snap.Scope)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes a scope's snapshot
func (s *Storage) Delete(scopeKey string) error {
	if err := os.Remove(s.snapshotPath(scopeKey)); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	delete(s.cache, scopeKey)
	return nil
}

// defaultBaseDir mirrors the config file location rules.
func defaultBaseDir() string {
	if envDir := os.Getenv("CAVEMAP_HOME"); envDir != "" {
		return envDir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cavemap"
	}
	return filepath.Join(homeDir, ".cavemap")
}
