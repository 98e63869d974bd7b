package dedupe

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestHistoryRecordAndHasSeen(t *testing.T) {
	t.Parallel()

	h := NewHistory(5)
	if h.HasSeen("2101.00001") {
		t.Fatal("empty history should not contain anything")
	}
	if !h.Record("2101.00001") {
		t.Fatal("first record should report newly recorded")
	}
	if !h.HasSeen("2101.00001") {
		t.Fatal("recorded id should be seen")
	}
}

func TestHistoryRecordIsIdempotent(t *testing.T) {
	t.Parallel()

	h := NewHistory(5)
	h.Record("a")
	h.Record("b")
	if h.Record("a") {
		t.Fatal("second record of same id should be a no-op")
	}
	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}

	// "a" must keep its original (oldest) position: adding two more ids to a
	// capacity-3 history must evict "a" first.
	h3 := NewHistory(3)
	h3.Record("a")
	h3.Record("b")
	h3.Record("a")
	h3.Record("c")
	h3.Record("d")
	if h3.HasSeen("a") {
		t.Fatal("re-recording must not move an id to the newest position")
	}
	if !h3.HasSeen("b") || !h3.HasSeen("c") || !h3.HasSeen("d") {
		t.Fatal("newest three ids should survive")
	}
}

func TestHistoryEvictsOldestFirst(t *testing.T) {
	t.Parallel()

	h := NewHistory(20)
	for i := 0; i < 25; i++ {
		h.Record(fmt.Sprintf("id-%02d", i))
	}
	if h.Len() != 20 {
		t.Fatalf("Len = %d, want 20", h.Len())
	}
	for i := 0; i < 5; i++ {
		if h.HasSeen(fmt.Sprintf("id-%02d", i)) {
			t.Errorf("id-%02d should have been evicted", i)
		}
	}
	for i := 5; i < 25; i++ {
		if !h.HasSeen(fmt.Sprintf("id-%02d", i)) {
			t.Errorf("id-%02d should still be present", i)
		}
	}

	// An evicted id is recordable again, i.e. a repost notifies afresh.
	if !h.Record("id-00") {
		t.Fatal("evicted id should be newly recordable")
	}
}

func TestHistoryForget(t *testing.T) {
	t.Parallel()

	h := NewHistory(5)
	h.Record("x")
	h.Forget("x")
	if h.HasSeen("x") {
		t.Fatal("forgotten id should not be seen")
	}
	if h.Len() != 0 {
		t.Fatalf("Len = %d, want 0", h.Len())
	}
	if !h.Record("x") {
		t.Fatal("forgotten id should be recordable again")
	}
	h.Forget("never-recorded") // no-op
}

func TestHistoryConcurrentRecordClaimsOnce(t *testing.T) {
	t.Parallel()

	h := NewHistory(20)
	const workers = 32
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if h.Record("2101.00001") {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	if wins.Load() != 1 {
		t.Fatalf("Record claimed by %d goroutines, want exactly 1", wins.Load())
	}
	if h.Len() != 1 {
		t.Fatalf("Len = %d, want 1", h.Len())
	}
}
