package event

import (
	"fmt"
	"io"
	"sync"
)

// Renderer is an insertion-ordered event feed.
// Ids grow forever and are never reused, even after expiry.
// It is safe for concurrent use.
type Renderer struct {
	events map[uint64]*Event
	order  []uint64
	base   Lifetime
	nextID uint64
	mu     sync.Mutex
}

// NewRenderer creates a feed whose Default events live for base.
func NewRenderer(base Lifetime) *Renderer {
	if base.IsDefault() {
		base = Forever()
	}

	return &Renderer{
		events: make(map[uint64]*Event),
		base:   base,
	}
}

// Base returns the lifetime assigned to events added with Default.
func (r *Renderer) Base() Lifetime { return r.base }

// Add stores e under a fresh id, resolving a Default lifetime to the feed base lifetime.
func (r *Renderer) Add(e *Event) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.lifetime.IsDefault() {
		e.lifetime = r.base
	}

	id := r.nextID
	r.nextID++
	r.events[id] = e
	r.order = append(r.order, id)

	return id
}

// Tick drops every event whose finite lifetime has elapsed.
func (r *Renderer) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.order[:0]
	for _, id := range r.order {
		if r.events[id].expired() {
			delete(r.events, id)
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
}

// Len returns the number of stored events.
func (r *Renderer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.order)
}

// Events returns the stored events newest first.
func (r *Renderer) Events() []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.newestFirst()
}

// Render writes one line per event, newest first.
func (r *Renderer) Render(w io.Writer) {
	for _, e := range r.Events() {
		_, _ = fmt.Fprintln(w, formatLine(e))
	}
}

func (r *Renderer) newestFirst() []*Event {
	out := make([]*Event, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.events[r.order[i]])
	}

	return out
}

func formatLine(e *Event) string {
	ago := fmt.Sprintf("%.1f seconds ago", e.Duration().Seconds())
	return e.Text() + agoStyle.Render(" - ") + agoStyle.Render(ago)
}
