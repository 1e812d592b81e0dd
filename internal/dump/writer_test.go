package dump

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestWriteAndLoadSnapshot(t *testing.T) {
	w := NewWriter(t.TempDir(), "ufxii")
	saved := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return saved }

	values := map[string]any{
		"/output/1/volume":    -10.5,
		"/output/1/mute":      false,
		"/system/clocksource": "Internal",
	}

	id, err := w.WriteSnapshot(values)
	if err != nil {
		t.Fatalf("WriteSnapshot() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("snapshot id %q is not a UUID: %v", id, err)
	}

	snap, err := w.Load(id)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if snap.ID != id || snap.Device != "ufxii" {
		t.Errorf("envelope = %+v", snap)
	}
	if !snap.SavedAt.Equal(saved) {
		t.Errorf("SavedAt = %v, want %v", snap.SavedAt, saved)
	}
	if got := snap.Values["/output/1/volume"]; got != -10.5 {
		t.Errorf("volume = %v, want -10.5", got)
	}
	if got := snap.Values["/system/clocksource"]; got != "Internal" {
		t.Errorf("clocksource = %v", got)
	}
}

func TestList(t *testing.T) {
	w := NewWriter(t.TempDir(), "ufxii")

	if ids, err := w.List(); err != nil || len(ids) != 0 {
		t.Fatalf("List() on empty dir = %v, %v", ids, err)
	}

	id1, err := w.WriteSnapshot(map[string]any{"/input/1/mute": true})
	if err != nil {
		t.Fatalf("WriteSnapshot() failed: %v", err)
	}
	id2, err := w.WriteSnapshot(map[string]any{"/input/1/mute": false})
	if err != nil {
		t.Fatalf("WriteSnapshot() failed: %v", err)
	}

	ids, err := w.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("List() returned %d ids, want 2", len(ids))
	}
	found := map[string]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found[id1] || !found[id2] {
		t.Errorf("List() = %v, want both %s and %s", ids, id1, id2)
	}
}

func TestListMissingDirectory(t *testing.T) {
	w := NewWriter("/nonexistent/path/for/test", "ufxii")
	ids, err := w.List()
	if err != nil || ids != nil {
		t.Errorf("List() on missing dir = %v, %v; want nil, nil", ids, err)
	}
}

func TestWriteSnapshotNoDirectory(t *testing.T) {
	w := NewWriter("", "ufxii")
	if _, err := w.WriteSnapshot(nil); err != ErrNoDirectory {
		t.Errorf("got %v, want ErrNoDirectory", err)
	}
}

func TestLoadRejectsBadID(t *testing.T) {
	w := NewWriter(t.TempDir(), "ufxii")
	if _, err := w.Load("../../etc/passwd"); err == nil {
		t.Error("Load() accepted a path-traversal id")
	}
}
