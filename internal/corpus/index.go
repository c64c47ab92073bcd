package corpus

import "sync/atomic"

// Index publishes the current corpus snapshot. Readers take a reference once
// per request and keep it for the request's lifetime; Replace swaps the
// snapshot atomically so readers never observe a partial update.
type Index struct {
	current atomic.Pointer[Snapshot]
}

// NewIndex returns an index serving the given snapshot.
func NewIndex(s *Snapshot) *Index {
	idx := &Index{}
	if s != nil {
		idx.current.Store(s)
	}
	return idx
}

// Current returns the snapshot in effect, or nil before the first load.
func (i *Index) Current() *Snapshot {
	return i.current.Load()
}

// Replace atomically publishes a new snapshot.
func (i *Index) Replace(s *Snapshot) {
	i.current.Store(s)
}
