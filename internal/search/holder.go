package search

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNotReady is returned by searches issued before an index is installed
var ErrNotReady = errors.New("search index not initialized")

// Holder manages concurrent access to the current index
type Holder struct {
	// current holds the active index pointer (atomic access for lock-free reads)
	current atomic.Pointer[Index]

	// swapMu serializes swaps; searches never take it
	swapMu sync.Mutex

	// wg tracks in-flight searches for graceful cleanup of replaced indexes
	wg sync.WaitGroup
}

// NewHolder returns a holder serving index
func NewHolder(index Index) *Holder {
	h := &Holder{}
	if index != nil {
		h.current.Store(&index)
	}
	return h
}

// Search runs a query against the current index without locking
func (h *Holder) Search(q Query) ([]Hit, uint64, error) {
	// Track in-flight searches (MUST be before Load)
	h.wg.Add(1)
	defer h.wg.Done()

	indexPtr := h.current.Load()
	if indexPtr == nil {
		return nil, 0, ErrNotReady
	}
	return Run(*indexPtr, q)
}

// DocCount returns the number of documents in the current index
func (h *Holder) DocCount() (uint64, error) {
	indexPtr := h.current.Load()
	if indexPtr == nil {
		return 0, ErrNotReady
	}
	return (*indexPtr).DocCount()
}

// Swap installs a new index. The previous one is closed once in-flight
// searches finish; the returned channel yields the close result.
func (h *Holder) Swap(index Index) <-chan error {
	h.swapMu.Lock()
	defer h.swapMu.Unlock()

	done := make(chan error, 1)
	old := h.current.Swap(&index)
	if old == nil {
		done <- nil
		close(done)
		return done
	}

	go func(old Index) {
		h.wg.Wait()
		done <- old.Close()
		close(done)
	}(*old)
	return done
}

// Close closes the current index after in-flight searches finish
func (h *Holder) Close() error {
	h.swapMu.Lock()
	defer h.swapMu.Unlock()

	old := h.current.Swap(nil)
	if old == nil {
		return nil
	}
	h.wg.Wait()
	return (*old).Close()
}
