package dump

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	dirPermissions  = 0750
	filePermissions = 0600
)

// ErrNoDirectory is returned when the writer has no target directory.
var ErrNoDirectory = errors.New("dump: snapshot directory not configured")

// Snapshot is the on-disk envelope for one saved state.
type Snapshot struct {
	ID        string         `json:"id"`
	SavedAt   time.Time      `json:"saved_at"`
	Device    string         `json:"device"`
	Values    map[string]any `json:"values"`
}

// Writer saves snapshots to a directory. It satisfies the bridge's
// SnapshotWriter interface.
type Writer struct {
	dir    string
	device string

	// now is replaceable for tests.
	now func() time.Time
}

// NewWriter creates a Writer saving into dir. device names the mixer
// model recorded in each snapshot envelope.
func NewWriter(dir, device string) *Writer {
	return &Writer{dir: dir, device: device, now: time.Now}
}

// WriteSnapshot saves one snapshot and returns its id.
//
// The file is written to a temporary name and renamed into place so a
// crash mid-write never leaves a truncated snapshot behind.
func (w *Writer) WriteSnapshot(values map[string]any) (string, error) {
	if w.dir == "" {
		return "", ErrNoDirectory
	}
	if err := os.MkdirAll(w.dir, dirPermissions); err != nil {
		return "", fmt.Errorf("dump: creating snapshot directory: %w", err)
	}

	snap := Snapshot{
		ID:      uuid.NewString(),
		SavedAt: w.now().UTC(),
		Device:  w.device,
		Values:  values,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("dump: encoding snapshot: %w", err)
	}

	path := filepath.Join(w.dir, snap.ID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return "", fmt.Errorf("dump: writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck // Best effort cleanup on error path
		return "", fmt.Errorf("dump: committing snapshot: %w", err)
	}

	return snap.ID, nil
}

// Load reads a snapshot back by id.
func (w *Writer) Load(id string) (*Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("dump: invalid snapshot id %q: %w", id, err)
	}

	data, err := os.ReadFile(filepath.Join(w.dir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("dump: reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("dump: decoding snapshot: %w", err)
	}
	return &snap, nil
}

// List returns the ids of all snapshots in the directory.
func (w *Writer) List() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("dump: listing snapshots: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		id := name[:len(name)-len(".json")]
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
