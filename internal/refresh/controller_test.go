package refresh

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// neverTicks is a valid six-field schedule whose next firing is months
// away, so tests control triggering themselves.
const neverTicks = "0 0 0 1 1 *"

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestKickCoalescesWhileRunning(t *testing.T) {
	release := make(chan struct{})
	var runs atomic.Int64

	ctrl := NewController(func() {
		runs.Add(1)
		<-release
	}, time.Millisecond)
	if err := ctrl.Start(neverTicks, time.UTC); err != nil {
		t.Fatalf("start: %v", err)
	}

	if !ctrl.Kick() {
		t.Fatal("first kick should be accepted")
	}
	waitFor(t, func() bool { return ctrl.State() != Idle })

	if ctrl.Kick() {
		t.Error("kick during a cycle should coalesce")
	}
	if ctrl.Kick() {
		t.Error("repeated kicks should keep coalescing")
	}
	if ctrl.Coalesced() != 2 {
		t.Errorf("coalesced = %d, want 2", ctrl.Coalesced())
	}

	close(release)
	waitFor(t, func() bool { return ctrl.State() == Idle })
	ctrl.Stop()

	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
}

func TestInvalidSchedule(t *testing.T) {
	ctrl := NewController(func() {}, time.Millisecond)
	if err := ctrl.Start("not a schedule", time.UTC); err == nil {
		t.Error("expected error for malformed schedule")
	}
}

func TestNotifyChangeDebounces(t *testing.T) {
	var runs atomic.Int64
	ctrl := NewController(func() { runs.Add(1) }, 50*time.Millisecond)
	if err := ctrl.Start(neverTicks, time.UTC); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer ctrl.Stop()

	for i := 0; i < 10; i++ {
		ctrl.NotifyChange()
		time.Sleep(time.Millisecond)
	}
	waitFor(t, func() bool { return runs.Load() == 1 })

	// No further run arrives after the burst is flushed.
	time.Sleep(100 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("burst should collapse to one run, got %d", got)
	}
}

func TestRunOnce(t *testing.T) {
	var runs atomic.Int64
	ctrl := NewController(func() { runs.Add(1) }, time.Millisecond)

	ctrl.RunOnce()
	ctrl.RunOnce()
	if got := runs.Load(); got != 2 {
		t.Errorf("runs = %d, want 2", got)
	}
	if ctrl.State() != Idle {
		t.Errorf("state = %v, want Idle", ctrl.State())
	}
}

func TestStateString(t *testing.T) {
	if Scraping.String() != "scraping" || Idle.String() != "idle" {
		t.Error("unexpected state names")
	}
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.html")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	var hits atomic.Int64
	stop := make(chan struct{})
	defer close(stop)
	go WatchFile(path, 5*time.Millisecond, func() { hits.Add(1) }, stop)

	time.Sleep(20 * time.Millisecond)
	if hits.Load() != 0 {
		t.Fatal("no change yet, watcher should stay quiet")
	}

	// mtime granularity on some filesystems is one second
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return hits.Load() >= 1 })
}
