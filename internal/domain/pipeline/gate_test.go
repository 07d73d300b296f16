package pipeline

import (
	"errors"
	"sync"
	"testing"
)

func TestWriteGate_LatestWins(t *testing.T) {
	g := newWriteGate()

	wrote, err := g.persist("k", 2, func() error { return nil })
	if err != nil || !wrote {
		t.Fatalf("run 2: wrote=%v err=%v", wrote, err)
	}

	// An older run arriving late must be discarded.
	var ran bool
	wrote, err = g.persist("k", 1, func() error { ran = true; return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wrote || ran {
		t.Error("superseded run must not persist")
	}

	// Same run number may retry (e.g. after a failed sibling).
	wrote, err = g.persist("k", 2, func() error { return nil })
	if err != nil || !wrote {
		t.Errorf("run 2 retry: wrote=%v err=%v", wrote, err)
	}
}

func TestWriteGate_FailedRunDoesNotAdvance(t *testing.T) {
	g := newWriteGate()

	boom := errors.New("boom")
	wrote, err := g.persist("k", 2, func() error { return boom })
	if wrote || !errors.Is(err, boom) {
		t.Fatalf("wrote=%v err=%v", wrote, err)
	}

	// Run 1 is still allowed because run 2 never persisted.
	wrote, err = g.persist("k", 1, func() error { return nil })
	if err != nil || !wrote {
		t.Errorf("run 1 after failed run 2: wrote=%v err=%v", wrote, err)
	}
}

func TestWriteGate_KeysAreIndependent(t *testing.T) {
	g := newWriteGate()

	if _, err := g.persist("a", 5, func() error { return nil }); err != nil {
		t.Fatal(err)
	}

	wrote, err := g.persist("b", 1, func() error { return nil })
	if err != nil || !wrote {
		t.Errorf("key b run 1: wrote=%v err=%v", wrote, err)
	}
}

func TestWriteGate_SerializesWriters(t *testing.T) {
	g := newWriteGate()

	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(run uint64) {
			defer wg.Done()
			_, _ = g.persist("k", run, func() error {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}(uint64(i))
	}
	wg.Wait()

	if maxActive > 1 {
		t.Errorf("concurrent writers on one key: %d", maxActive)
	}
}
