// Package dedupe tracks identifiers that have already produced a
// notification, so repeat links in a busy channel stay quiet.
package dedupe

import "sync"

// DefaultCapacity bounds the history when no explicit capacity is given.
const DefaultCapacity = 20

// History is a bounded, insertion-ordered set of identifiers. Membership
// checks are O(1); once the capacity is exceeded the oldest entries are
// evicted first. All methods are safe for concurrent use and never fail:
// the state is purely in-memory and dies with the process.
type History struct {
	mu       sync.Mutex
	capacity int
	order    []string
	members  map[string]struct{}
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{
		capacity: capacity,
		members:  make(map[string]struct{}, capacity),
	}
}

// HasSeen reports whether id has been recorded and not yet evicted.
func (h *History) HasSeen(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.members[id]
	return ok
}

// Record inserts id at the newest position and reports whether it was newly
// recorded. A present id is left untouched: no duplicate, no reorder, and
// the return value is false. The check and the insert happen under one lock,
// so concurrent callers racing on the same id see exactly one true.
func (h *History) Record(id string) bool {
	if id == "" {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.members[id]; ok {
		return false
	}
	h.members[id] = struct{}{}
	h.order = append(h.order, id)
	if excess := len(h.order) - h.capacity; excess > 0 {
		for _, old := range h.order[:excess] {
			delete(h.members, old)
		}
		h.order = append(h.order[:0], h.order[excess:]...)
	}
	return true
}

// Forget removes id so a later attempt can notify again. Used when a fetch
// or post fails after the id was claimed.
func (h *History) Forget(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.members[id]; !ok {
		return
	}
	delete(h.members, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.order)
}
