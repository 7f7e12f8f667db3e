package rooms

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks who is connected right now, per room. It is process-local
// liveness state only; durable membership lives in the participant rows.
type Registry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*registryEntry
}

type registryEntry struct {
	mu    sync.Mutex
	conns map[string]*Connection
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[uuid.UUID]*registryEntry)}
}

func (r *Registry) entry(roomID uuid.UUID) *registryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[roomID]
	if !ok {
		e = &registryEntry{conns: make(map[string]*Connection)}
		r.entries[roomID] = e
	}
	return e
}

func (r *Registry) Add(roomID uuid.UUID, conn *Connection) {
	e := r.entry(roomID)
	e.mu.Lock()
	e.conns[conn.ID] = conn
	e.mu.Unlock()
}

func (r *Registry) Remove(roomID uuid.UUID, connID string) {
	r.mu.Lock()
	e, ok := r.entries[roomID]
	r.mu.Unlock()
	if !ok {
		return
	}
	e.mu.Lock()
	delete(e.conns, connID)
	empty := len(e.conns) == 0
	e.mu.Unlock()
	if empty {
		r.mu.Lock()
		if e2, ok := r.entries[roomID]; ok {
			e2.mu.Lock()
			if len(e2.conns) == 0 {
				delete(r.entries, roomID)
			}
			e2.mu.Unlock()
		}
		r.mu.Unlock()
	}
}

// Broadcast fans a frame out to every live connection in the room. Sends
// happen under the room's entry lock so every connection observes frames in
// the same relative order. A dead connection is skipped without failing the
// broadcast for the others.
func (r *Registry) Broadcast(roomID uuid.UUID, frame []byte) {
	r.mu.RLock()
	e, ok := r.entries[roomID]
	r.mu.RUnlock()
	if !ok {
		return
	}
	e.mu.Lock()
	for _, conn := range e.conns {
		conn.Send(frame)
	}
	e.mu.Unlock()
}

func (r *Registry) Count(roomID uuid.UUID) int {
	r.mu.RLock()
	e, ok := r.entries[roomID]
	r.mu.RUnlock()
	if !ok {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.conns)
}
