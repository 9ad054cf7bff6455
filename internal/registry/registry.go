// Package registry implements ServerPool: the process-global lobby
// id -> actor-handle registry.
package registry

import (
	"sync"

	"github.com/google/uuid"

	"draftlite/internal/archive"
	"draftlite/internal/cardpool"
	"draftlite/internal/lobby"
	"draftlite/internal/packbuilder"
)

// ServerPool maps lobby id to a running lobby.Server. It never mutates a
// handle in place: Spawn only inserts, Handle only reads.
type ServerPool struct {
	mu       sync.RWMutex
	lobbies  map[uuid.UUID]*lobby.Server
	archive  archive.Service
}

// New returns an empty registry. archiveSvc is handed to every spawned
// lobby; pass archive.NewNoop() (or nil, treated the same) when no
// backend is configured.
func New(archiveSvc archive.Service) *ServerPool {
	return &ServerPool{
		lobbies: make(map[uuid.UUID]*lobby.Server),
		archive: archiveSvc,
	}
}

// Spawn creates a new lobby actor for cfg+pool and registers it under a
// fresh id.
func (p *ServerPool) Spawn(cfg packbuilder.Config, pool *cardpool.DraftPool) uuid.UUID {
	id := uuid.New()
	server := lobby.New(id, cfg, pool, p.archive)

	p.mu.Lock()
	p.lobbies[id] = server
	p.mu.Unlock()

	return id
}

// Handle returns the lobby actor for id, if one is registered. The
// handle remains valid even after the lobby terminates. Once a Terminate
// request has stopped the actor, Submit returns lobby.ErrLobbyTerminated;
// a lobby terminated by a failed pack build keeps answering requests in
// its Terminated phase.
func (p *ServerPool) Handle(id uuid.UUID) (*lobby.Server, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	server, ok := p.lobbies[id]
	return server, ok
}

// Count returns the number of registered lobbies (including terminated
// ones still held by the registry — there is no eviction policy, per
// design).
func (p *ServerPool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.lobbies)
}
