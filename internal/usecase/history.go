package usecase

import (
	"sync"

	"coach-agent/internal/domain"
)

// History is the bounded, insertion-ordered list of completed exchanges.
// One History is owned by one ChatService; every caller of that service sees
// the same exchanges.
type History struct {
	mu    sync.Mutex
	cap   int
	pairs []domain.MessagePair
}

// NewHistory returns an empty History holding at most capacity pairs.
// A capacity of zero keeps nothing.
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{cap: capacity}
}

// Append records pair and evicts the oldest pairs until the cap holds.
func (h *History) Append(pair domain.MessagePair) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pairs = append(h.pairs, pair)
	if over := len(h.pairs) - h.cap; over > 0 {
		kept := make([]domain.MessagePair, h.cap)
		copy(kept, h.pairs[over:])
		h.pairs = kept
	}
}

func (h *History) Reset() {
	h.mu.Lock()
	h.pairs = nil
	h.mu.Unlock()
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pairs)
}

// Last returns a copy of the newest n pairs in chronological order.
func (h *History) Last(n int) []domain.MessagePair {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 || len(h.pairs) == 0 {
		return nil
	}
	if n > len(h.pairs) {
		n = len(h.pairs)
	}
	out := make([]domain.MessagePair, n)
	copy(out, h.pairs[len(h.pairs)-n:])
	return out
}

// Snapshot returns a copy of every retained pair.
func (h *History) Snapshot() []domain.MessagePair {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.MessagePair, len(h.pairs))
	copy(out, h.pairs)
	return out
}
