package logging

import "sync"

// DefaultTailSize is the number of entries retained in interactive mode.
const DefaultTailSize = 64

// Tail is a fixed-size ring of the most recent entries.
type Tail struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewTail returns a Tail holding at most size entries.
func NewTail(size int) *Tail {
	if size <= 0 {
		size = DefaultTailSize
	}
	return &Tail{entries: make([]Entry, size)}
}

// Add appends an entry, overwriting the oldest one when full.
func (t *Tail) Add(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[t.next] = e
	t.next = (t.next + 1) % len(t.entries)
	if t.next == 0 {
		t.full = true
	}
}

// Len returns the number of retained entries.
func (t *Tail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.len()
}

func (t *Tail) len() int {
	if t.full {
		return len(t.entries)
	}
	return t.next
}

// Last returns a copy of the newest n entries, oldest first.
func (t *Tail) Last(n int) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := t.len()
	if n > count {
		n = count
	}
	if n <= 0 {
		return nil
	}

	out := make([]Entry, n)
	size := len(t.entries)
	first := (t.next - n + size) % size
	for i := range out {
		out[i] = t.entries[(first+i)%size]
	}
	return out
}
