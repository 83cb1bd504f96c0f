package realtime

import (
	"context"
	"sync"

	"github.com/gofrs/uuid/v5"
)

// Observer is a live connection that accepts broadcast payloads.
type Observer interface {
	// Send writes one payload. It must be safe to call from several goroutines.
	Send(ctx context.Context, payload string) error
	// Close releases the underlying connection.
	Close() error
}

// Member is a registered observer together with its handle.
type Member struct {
	ID       uuid.UUID
	Observer Observer
}

// Registry holds the observers currently connected. It keeps no history.
type Registry struct {
	mu      sync.RWMutex
	members map[uuid.UUID]Observer
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{members: make(map[uuid.UUID]Observer)}
}

// Register adds o and returns the handle used to unregister it.
func (r *Registry) Register(o Observer) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	r.mu.Lock()
	r.members[id] = o
	r.mu.Unlock()
	return id
}

// Unregister removes the observer with the given handle. It reports whether
// the handle was still registered, so exactly one caller gets to close it.
func (r *Registry) Unregister(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	return true
}

// Len returns the number of registered observers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Snapshot copies the current membership. Later registry changes do not
// affect the returned slice.
func (r *Registry) Snapshot() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Member, 0, len(r.members))
	for id, o := range r.members {
		out = append(out, Member{ID: id, Observer: o})
	}
	return out
}
