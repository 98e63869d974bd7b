package tmpfiles

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("%PDF"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestSweepRemovesOnlyExpiredDownloads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stale := filepath.Join(dir, "arxiv-2101.00001-1.pdf")
	fresh := filepath.Join(dir, "arxiv-2101.00002-2.pdf")
	unrelated := filepath.Join(dir, "notes.txt")
	touch(t, stale, 48*time.Hour)
	touch(t, fresh, time.Minute)
	touch(t, unrelated, 48*time.Hour)

	s := NewSweeper(dir, 24*time.Hour, "@hourly", nil)
	removed, err := s.Sweep()
	if err != nil {
		t.Fatalf("Sweep returned %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale download should be gone")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh download should survive")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("unrelated files must never be touched")
	}
}

func TestSweepEmptyDirIsANoOp(t *testing.T) {
	t.Parallel()

	s := NewSweeper(t.TempDir(), time.Hour, "@hourly", nil)
	removed, err := s.Sweep()
	if err != nil || removed != 0 {
		t.Fatalf("Sweep = (%d, %v), want (0, nil)", removed, err)
	}
}
