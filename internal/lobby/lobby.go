// Package lobby implements the per-lobby actor (DraftServer): a
// single-threaded reactor owning one lobby's Phase, its client table, and
// the draft state machine once drafting begins. All mutation happens on
// one goroutine; every external call is a message on the inbound queue.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"draftlite/internal/archive"
	"draftlite/internal/card"
	"draftlite/internal/cardpool"
	"draftlite/internal/draft"
	"draftlite/internal/packbuilder"
)

// ErrLobbyTerminated is returned by Submit once the actor has exited.
var ErrLobbyTerminated = errors.New("lobby terminated")

const requestBuffer = 64

type phase int

const (
	phaseLobby phase = iota
	phaseDraft
	phaseFinished
	phaseTerminated
)

type client struct {
	seat     uuid.UUID
	name     string
	outbound chan<- ServerMessage

	// lastHeartbeat is bumped by every inbound message (HeartBeat
	// included) but never read back — no path in this lobby currently
	// uses it to judge connection staleness.
	lastHeartbeat time.Time
	status        ClientStatus
}

// Server is one lobby's actor: one goroutine, one inbound queue, no
// locks on its own state.
type Server struct {
	id  uuid.UUID
	cfg packbuilder.Config

	// pristinePool is the pool as handed to the lobby at launch. The
	// actor clones it fresh for every attempt at make_packs, so a
	// catastrophic build failure could in principle retry — currently
	// it is fatal, matching the source's documented "future
	// enhancement" note.
	pristinePool *cardpool.DraftPool

	requests chan Request
	done     chan struct{}

	archiveSvc archive.Service

	phase       phase
	ready       map[uuid.UUID]bool
	clients     map[uuid.UUID]*client
	clientOrder []uuid.UUID

	draftState    *draft.Draft
	finishedPools map[uuid.UUID][]card.Card
}

// New constructs and starts a lobby actor. archiveSvc may be
// archive.NewNoop(); it is always safe to pass nil, treated the same way.
func New(id uuid.UUID, cfg packbuilder.Config, pool *cardpool.DraftPool, archiveSvc archive.Service) *Server {
	if archiveSvc == nil {
		archiveSvc = archive.NewNoop()
	}
	s := &Server{
		id:           id,
		cfg:          cfg,
		pristinePool: pool.Clone(),
		requests:     make(chan Request, requestBuffer),
		done:         make(chan struct{}),
		archiveSvc:   archiveSvc,
		phase:        phaseLobby,
		ready:        make(map[uuid.UUID]bool),
		clients:      make(map[uuid.UUID]*client),
	}
	go s.run()
	return s
}

// ID returns the lobby's id.
func (s *Server) ID() uuid.UUID { return s.id }

// Submit enqueues req and blocks until the actor has processed it (or has
// already exited). Safe to call from any goroutine.
func (s *Server) Submit(req Request) error {
	if req.Response == nil {
		req.Response = make(chan error, 1)
	}
	select {
	case s.requests <- req:
	case <-s.done:
		return ErrLobbyTerminated
	}
	select {
	case err := <-req.Response:
		return err
	case <-s.done:
		return ErrLobbyTerminated
	}
}

func (s *Server) run() {
	defer close(s.done)
	for req := range s.requests {
		if s.handleRequest(req) {
			return
		}
	}
}

func (s *Server) handleRequest(req Request) (terminated bool) {
	switch req.Kind {
	case RequestConnect:
		s.handleConnect(req)
		req.Response <- nil
		return false
	case RequestMessage:
		s.handleMessage(req)
		req.Response <- nil
		return false
	case RequestTerminate:
		s.terminate(req.Reason)
		req.Response <- nil
		return true
	default:
		req.Response <- fmt.Errorf("lobby: unknown request kind %d", req.Kind)
		return false
	}
}

// handleConnect implements §4.4.1: replace-channel-on-known-seat,
// allocate-on-unknown-seat-in-Lobby, reject-on-unknown-seat-elsewhere.
func (s *Server) handleConnect(req Request) {
	seat := req.Seat

	if c, known := s.clients[seat]; known {
		c.outbound = req.Outbound
		changed := c.status != StatusOk
		c.status = StatusOk
		c.lastHeartbeat = time.Now()
		if changed {
			s.broadcastPlayerUpdate(seat)
		}

		switch s.phase {
		case phaseLobby:
			s.sendTo(c, Connected(s.id, seat))
		case phaseDraft:
			pool, _ := s.draftState.DraftedCards(seat)
			pack, hasPack := s.draftState.CurrentPack(seat)
			s.sendTo(c, Reconnected(s.id, seat, true, pool, pack, hasPack))
			s.sendTo(c, s.playerListMessage())
		case phaseFinished:
			s.sendTo(c, Reconnected(s.id, seat, false, s.finishedPool(seat), nil, false))
			s.sendTo(c, s.playerListMessage())
		case phaseTerminated:
			s.sendTo(c, FatalError("Draft terminated."))
		}
		return
	}

	if s.phase != phaseLobby {
		select {
		case req.Outbound <- Started():
		default:
		}
		return
	}

	c := &client{
		seat:          seat,
		name:          shortName(seat),
		outbound:      req.Outbound,
		lastHeartbeat: time.Now(),
		status:        StatusOk,
	}
	s.clients[seat] = c
	s.clientOrder = append(s.clientOrder, seat)
	s.ready[seat] = false

	s.sendTo(c, Connected(s.id, seat))
	s.broadcast(s.playerListMessage(), uuid.Nil)
}

// handleMessage implements §4.4.2.
func (s *Server) handleMessage(req Request) {
	seat := req.Seat
	c, known := s.clients[seat]
	if !known {
		return
	}
	c.lastHeartbeat = time.Now()

	switch req.ClientMsg.Type {
	case ClientHeartBeat:
		// timestamp already bumped above; nothing else to do.

	case ClientReadyState:
		if s.phase != phaseLobby {
			return
		}
		s.ready[seat] = req.ClientMsg.Ready
		if !s.startIfReady() {
			s.broadcastPlayerUpdate(seat)
		}

	case ClientDisconnected:
		if s.phase == phaseLobby {
			delete(s.clients, seat)
			delete(s.ready, seat)
			s.removeFromOrder(seat)
			s.broadcast(s.playerListMessage(), uuid.Nil)
		} else {
			c.status = StatusError
			s.broadcastPlayerUpdate(seat)
		}

	case ClientSetName:
		c.name = req.ClientMsg.Name
		s.broadcastPlayerUpdate(seat)

	case ClientPick:
		if s.phase != phaseDraft {
			s.sendTo(c, Refresh())
			return
		}
		picked, events, err := s.draftState.HandlePick(seat, req.ClientMsg.PickIndex)
		if err != nil {
			if pack, ok := s.draftState.CurrentPack(seat); ok {
				s.sendTo(c, PackMessage(pack))
			}
			return
		}
		s.sendTo(c, PickSuccessful(picked))
		for _, ev := range events {
			if ec, ok := s.clients[ev.Seat]; ok {
				s.sendTo(ec, PackMessage(ev.Pack))
			}
		}
		s.finishIfDone()
	}
}

// startIfReady implements §4.4.3. Returns true if the call changed
// state (either a draft started or the lobby was terminated).
func (s *Server) startIfReady() bool {
	if s.phase != phaseLobby || len(s.clientOrder) == 0 {
		return false
	}
	for _, seat := range s.clientOrder {
		if !s.ready[seat] {
			return false
		}
	}

	players := append([]uuid.UUID(nil), s.clientOrder...)
	pool := s.pristinePool.Clone()
	packs, err := packbuilder.BuildPacks(len(players), s.cfg, pool)
	if err != nil {
		s.terminate(fmt.Sprintf("Failed to create packs for draft: %v", err))
		return true
	}

	d := draft.New(players, s.cfg.Rounds, packs)
	opened, _ := d.Begin()
	s.draftState = d
	s.phase = phaseDraft

	for _, ev := range opened {
		if c, ok := s.clients[ev.Seat]; ok {
			s.sendTo(c, PackMessage(ev.Pack))
		}
	}
	return true
}

// finishIfDone implements §4.4.4.
func (s *Server) finishIfDone() {
	if s.phase != phaseDraft || !s.draftState.DraftComplete() {
		return
	}
	pools := s.draftState.Pools()
	s.finishedPools = pools
	for seat, pool := range pools {
		if c, ok := s.clients[seat]; ok {
			s.sendTo(c, Finished(pool))
		}
	}
	s.phase = phaseFinished

	rec := archive.DraftHistoryRecord{LobbyID: s.id, FinishedAt: time.Now(), Pools: pools, Config: s.cfg}
	svc := s.archiveSvc
	lobbyID := s.id
	go func() {
		if err := svc.RecordFinishedDraft(context.Background(), rec); err != nil {
			log.Printf("[Lobby %s] archive record failed: %v", lobbyID, err)
		}
	}()
}

// terminate implements §4.4.5.
func (s *Server) terminate(reason string) {
	s.phase = phaseTerminated
	log.Printf("[Lobby %s] terminated: %s", s.id, reason)
	s.broadcast(FatalError(reason), uuid.Nil)
}

// broadcast implements §4.4.6: send to every known client except
// exclude (uuid.Nil excludes nobody).
func (s *Server) broadcast(msg ServerMessage, exclude uuid.UUID) {
	for _, seat := range s.clientOrder {
		if seat == exclude {
			continue
		}
		if c, ok := s.clients[seat]; ok {
			s.sendTo(c, msg)
		}
	}
}

func (s *Server) broadcastPlayerUpdate(seat uuid.UUID) {
	s.broadcast(PlayerUpdate(s.playerDetailsFor(seat)), seat)
}

func (s *Server) playerListMessage() ServerMessage {
	details := make([]PlayerDetails, 0, len(s.clientOrder))
	for _, seat := range s.clientOrder {
		details = append(details, s.playerDetailsFor(seat))
	}
	return PlayerList(details)
}

func (s *Server) playerDetailsFor(seat uuid.UUID) PlayerDetails {
	c := s.clients[seat]
	ready := true
	if s.phase == phaseLobby {
		ready = s.ready[seat]
	}
	return PlayerDetails{Seat: seat, Name: c.name, Ready: ready, Status: c.status}
}

// sendTo is a non-blocking best-effort send: a full (stuck-client)
// channel marks the client Error instead of blocking the actor.
func (s *Server) sendTo(c *client, msg ServerMessage) {
	if c == nil {
		return
	}
	select {
	case c.outbound <- msg:
	default:
		c.status = StatusError
	}
}

func (s *Server) finishedPool(seat uuid.UUID) []card.Card {
	return s.finishedPools[seat]
}

func (s *Server) removeFromOrder(seat uuid.UUID) {
	for i, sid := range s.clientOrder {
		if sid == seat {
			s.clientOrder = append(s.clientOrder[:i], s.clientOrder[i+1:]...)
			return
		}
	}
}

func shortName(seat uuid.UUID) string {
	return seat.String()[:8]
}
