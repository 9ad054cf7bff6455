// Package archive records finished drafts for later inspection. It is
// never consulted by the core: a lobby's mid-draft state lives only in
// memory, and losing the archive changes nothing about resuming a seat.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"draftlite/internal/card"
	"draftlite/internal/packbuilder"
)

// DraftHistoryRecord is a write-once row created when a lobby transitions
// to Finished.
type DraftHistoryRecord struct {
	LobbyID    uuid.UUID
	FinishedAt time.Time
	Pools      map[uuid.UUID][]card.Card
	Config     packbuilder.Config
}

// Service is the archive backend contract. Implementations must not
// block the caller for long: RecordFinishedDraft is invoked from a
// detached goroutine by the lobby actor, never from its request loop.
type Service interface {
	Close() error
	RecordFinishedDraft(ctx context.Context, rec DraftHistoryRecord) error
	ListRecent(ctx context.Context, limit int) ([]DraftHistoryRecord, error)
}

type noopService struct{}

// NewNoop returns a Service that discards everything. This is the
// default when no archive backend is configured.
func NewNoop() Service { return &noopService{} }

func (n *noopService) Close() error { return nil }

func (n *noopService) RecordFinishedDraft(context.Context, DraftHistoryRecord) error { return nil }

func (n *noopService) ListRecent(context.Context, int) ([]DraftHistoryRecord, error) {
	return []DraftHistoryRecord{}, nil
}
