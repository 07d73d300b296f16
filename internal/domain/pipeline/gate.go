package pipeline

import (
	"sync"
)

// writeGate serializes derived-view writes per document key and enforces
// latest-wins across overlapping runs: a run may not persist a key that a
// newer run has already persisted. Superseded results are discarded, not
// written, so no distributed lock is needed.
type writeGate struct {
	mu      sync.Mutex
	locks   map[string]*sync.Mutex
	lastRun map[string]uint64
}

func newWriteGate() *writeGate {
	return &writeGate{
		locks:   make(map[string]*sync.Mutex),
		lastRun: make(map[string]uint64),
	}
}

func (g *writeGate) lockFor(key string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.locks[key]
	if !ok {
		l = &sync.Mutex{}
		g.locks[key] = l
	}
	return l
}

// persist runs fn under the key's writer lock unless a newer run already
// persisted that key. Returns whether fn ran (false means superseded or
// failed; the error distinguishes).
func (g *writeGate) persist(key string, run uint64, fn func() error) (bool, error) {
	l := g.lockFor(key)
	l.Lock()
	defer l.Unlock()

	g.mu.Lock()
	last := g.lastRun[key]
	g.mu.Unlock()
	if last > run {
		return false, nil
	}

	if err := fn(); err != nil {
		return false, err
	}

	g.mu.Lock()
	if g.lastRun[key] < run {
		g.lastRun[key] = run
	}
	g.mu.Unlock()
	return true, nil
}
