package ws

import "sync"

// Registry maps a user id to at most one live connection. Register is
// last-writer-wins: a user's previous session is evicted when a new one
// connects. All access is serialized behind a single mutex since connect and
// disconnect events arrive from arbitrary goroutines.
type Registry struct {
	mu      sync.RWMutex
	clients map[uint]*Client
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[uint]*Client)}
}

// Register installs c as the user's connection, evicting and shutting down any
// prior one.
func (r *Registry) Register(userID uint, c *Client) {
	r.mu.Lock()
	prev := r.clients[userID]
	r.clients[userID] = c
	r.mu.Unlock()
	if prev != nil && prev != c {
		prev.shutdown()
	}
}

// Unregister removes the entry only if it still points at c, so a stale
// handle can never race away a newer connection.
func (r *Registry) Unregister(userID uint, c *Client) {
	r.mu.Lock()
	if r.clients[userID] == c {
		delete(r.clients, userID)
	}
	r.mu.Unlock()
}

// Lookup returns the user's live connection, or nil.
func (r *Registry) Lookup(userID uint) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[userID]
}

// Push enqueues payload on the user's connection. Delivery is at-most-once:
// a missing, closed or saturated connection drops the frame and returns false.
func (r *Registry) Push(userID uint, payload []byte) bool {
	c := r.Lookup(userID)
	if c == nil {
		return false
	}
	return c.enqueue(payload)
}

// IsOnline reports whether the user has a registered connection.
func (r *Registry) IsOnline(userID uint) bool {
	return r.Lookup(userID) != nil
}

// OnlineIDs returns the ids of all currently connected users.
func (r *Registry) OnlineIDs() []uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uint, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	return ids
}
