package booking

import "sync"

// Fetcher hands out monotonically increasing sequence numbers so that a slow
// earlier response cannot overwrite the result of a later fetch.
type Fetcher struct {
	mu  sync.Mutex
	seq uint64
}

// Begin marks the start of a new fetch and returns its sequence number.
func (f *Fetcher) Begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq
}

// Latest reports whether seq still identifies the most recent fetch.
func (f *Fetcher) Latest(seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return seq == f.seq
}
