package registry

import (
	"testing"

	"github.com/google/uuid"

	"draftlite/internal/archive"
	"draftlite/internal/card"
	"draftlite/internal/cardpool"
	"draftlite/internal/packbuilder"
)

func TestSpawnAndHandle(t *testing.T) {
	p := New(archive.NewNoop())
	pool := cardpool.New()
	pool.Add(card.New("Bolt", "", "TST", card.Common, ""))

	id := p.Spawn(packbuilder.DefaultConfig(), pool)

	server, ok := p.Handle(id)
	if !ok {
		t.Fatalf("Handle: lobby %v not found after Spawn", id)
	}
	if server.ID() != id {
		t.Fatalf("Handle: got id %v, want %v", server.ID(), id)
	}
	if p.Count() != 1 {
		t.Fatalf("Count: got %d, want 1", p.Count())
	}
}

func TestHandle_Unknown(t *testing.T) {
	p := New(archive.NewNoop())
	if _, ok := p.Handle(uuid.New()); ok {
		t.Fatalf("Handle: unknown id should not be found")
	}
}
