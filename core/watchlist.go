package core

import "sync"

// WatchList is an append-only, ordered list of exact-match strings.
// Duplicates are kept: each entry produces its own match.
type WatchList struct {
	mu      sync.RWMutex
	entries []string
}

// NewWatchList creates an empty watch list.
func NewWatchList() *WatchList {
	return &WatchList{}
}

// Add appends text to the list.
func (w *WatchList) Add(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, text)
}

// Matches returns how many entries are strictly equal to text.
func (w *WatchList) Matches(text string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	n := 0
	for _, e := range w.entries {
		if e == text {
			n++
		}
	}
	return n
}

// List returns a copy of the entries in registration order.
func (w *WatchList) List() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, len(w.entries))
	copy(out, w.entries)
	return out
}
