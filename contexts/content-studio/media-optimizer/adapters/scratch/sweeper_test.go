package scratchadapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

func writeAged(t *testing.T, path string, age time.Duration, now time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	mod := now.Add(-age)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestSweepOnceRemovesOnlyStaleMatches(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	stale := filepath.Join(dir, "contentflow-opt-111")
	staleOutput := filepath.Join(dir, "contentflow-opt-111.mp4")
	fresh := filepath.Join(dir, "contentflow-opt-222")
	unrelated := filepath.Join(dir, "other-file")
	writeAged(t, stale, 3*time.Hour, now)
	writeAged(t, staleOutput, 3*time.Hour, now)
	writeAged(t, fresh, 10*time.Minute, now)
	writeAged(t, unrelated, 5*time.Hour, now)

	sweeper := Sweeper{Dir: dir, Pattern: "contentflow-opt-*", MaxAge: time.Hour, Now: func() time.Time { return now }}
	removed, err := sweeper.SweepOnce(context.Background())
	if err != nil {
		t.Fatalf("SweepOnce returned error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	for _, path := range []string{stale, staleOutput} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed", path)
		}
	}
	for _, path := range []string{fresh, unrelated} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s kept: %v", path, err)
		}
	}
}

func TestSweepOnceSkipsWhenLockHeld(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	stale := filepath.Join(dir, "contentflow-opt-333")
	writeAged(t, stale, 3*time.Hour, now)

	holder := flock.New(filepath.Join(dir, lockFileName))
	ok, err := holder.TryLock()
	if err != nil || !ok {
		t.Fatalf("expected to hold lock, ok=%v err=%v", ok, err)
	}
	defer holder.Unlock()

	sweeper := Sweeper{Dir: dir, Pattern: "contentflow-opt-*", MaxAge: time.Hour, Now: func() time.Time { return now }}
	removed, err := sweeper.SweepOnce(context.Background())
	if err != nil {
		t.Fatalf("SweepOnce returned error: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected no removals while locked, got %d", removed)
	}
	if _, err := os.Stat(stale); err != nil {
		t.Fatalf("expected stale file kept while locked: %v", err)
	}
}
