package dataset

import (
	"sync"
)

// The process-wide snapshot. Loading is guarded so the tables are
// parsed exactly once even under concurrent first access; after that
// all reads are lock-free because nothing is ever mutated in place.
var (
	defaultMu   sync.Mutex
	defaultOnce *sync.Once = new(sync.Once)
	defaultSnap *Snapshot
	defaultErr  error
)

// Default returns the process-wide snapshot, loading it from dir on
// first call. Subsequent calls ignore dir and return the same snapshot
// (or the same load error).
func Default(dir string) (*Snapshot, error) {
	defaultMu.Lock()
	once := defaultOnce
	defaultMu.Unlock()

	once.Do(func() {
		snap, err := Load(dir)
		defaultMu.Lock()
		defaultSnap, defaultErr = snap, err
		defaultMu.Unlock()
	})

	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultSnap, defaultErr
}

// Reset discards the process-wide snapshot so the next Default call
// loads again. For test isolation only.
func Reset() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultOnce = new(sync.Once)
	defaultSnap = nil
	defaultErr = nil
}

