// codec.go implements the JSON wire encoding for ClientMessage and
// ServerMessage. The core treats wire encoding as outside its contract
// (only the abstract variant set and field semantics matter), so this
// package is free to pick a concrete format: JSON objects tagged by a
// "type" field, the same shape encoding/json gives every other Go service in
// this tree, and the same general shape the original tool got from
// serde_json's default enum representation.
package transport

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"draftlite/internal/card"
	"draftlite/internal/lobby"
)

type wireCard struct {
	Name   string `json:"name"`
	Image  string `json:"image,omitempty"`
	Set    string `json:"set,omitempty"`
	Rarity string `json:"rarity"`
	Text   string `json:"text,omitempty"`
}

func toWireCard(c card.Card) wireCard {
	return wireCard{Name: c.Name, Image: c.Image, Set: c.Set, Rarity: c.Rarity.String(), Text: c.Text}
}

func toWireCards(cs []card.Card) []wireCard {
	out := make([]wireCard, len(cs))
	for i, c := range cs {
		out[i] = toWireCard(c)
	}
	return out
}

type wirePlayer struct {
	Seat   string `json:"seat"`
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Status string `json:"status"`
}

func toWirePlayer(p lobby.PlayerDetails) wirePlayer {
	return wirePlayer{Seat: p.Seat.String(), Name: p.Name, Ready: p.Ready, Status: p.Status.String()}
}

// wireClientMessage is the type-tagged ClientMessage encoding:
// {"type":"pick","index":3}, {"type":"ready_state","ready":true}, etc.
type wireClientMessage struct {
	Type  string `json:"type"`
	Ready bool   `json:"ready,omitempty"`
	Name  string `json:"name,omitempty"`
	Index int    `json:"index,omitempty"`
}

// DecodeClientMessage parses one inbound wire frame into a
// lobby.ClientMessage.
func DecodeClientMessage(data []byte) (lobby.ClientMessage, error) {
	var w wireClientMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return lobby.ClientMessage{}, fmt.Errorf("decode client message: %w", err)
	}
	switch w.Type {
	case "heartbeat":
		return lobby.HeartBeat(), nil
	case "ready_state":
		return lobby.ReadyState(w.Ready), nil
	case "disconnected":
		return lobby.Disconnected(), nil
	case "set_name":
		return lobby.SetName(w.Name), nil
	case "pick":
		return lobby.Pick(w.Index), nil
	default:
		return lobby.ClientMessage{}, fmt.Errorf("unrecognized client message type %q", w.Type)
	}
}

// wireServerMessage is the type-tagged ServerMessage encoding.
type wireServerMessage struct {
	Type string `json:"type"`

	Reason string `json:"reason,omitempty"`

	Pack []wireCard `json:"pack,omitempty"`
	Card *wireCard  `json:"card,omitempty"`
	Pool []wireCard `json:"pool,omitempty"`

	LobbyID    string `json:"draft,omitempty"`
	Seat       string `json:"seat,omitempty"`
	InProgress bool   `json:"in_progress,omitempty"`

	Players []wirePlayer `json:"players,omitempty"`
	Player  *wirePlayer  `json:"player,omitempty"`
}

// EncodeServerMessage serializes msg for one outbound wire frame.
func EncodeServerMessage(msg lobby.ServerMessage) ([]byte, error) {
	w := wireServerMessage{}
	switch msg.Type {
	case lobby.ServerStarted:
		w.Type = "started"
	case lobby.ServerEnded:
		w.Type = "ended"
	case lobby.ServerFatalError:
		w.Type = "fatal_error"
		w.Reason = msg.Reason
	case lobby.ServerPack:
		w.Type = "pack"
		w.Pack = toWireCards([]card.Card(msg.Pack))
	case lobby.ServerPickSuccessful:
		w.Type = "pick_successful"
		c := toWireCard(msg.Card)
		w.Card = &c
	case lobby.ServerFinished:
		w.Type = "finished"
		w.Pool = toWireCards(msg.Pool)
	case lobby.ServerConnected:
		w.Type = "connected"
		w.LobbyID = msg.LobbyID.String()
		w.Seat = msg.Seat.String()
	case lobby.ServerReconnected:
		w.Type = "reconnected"
		w.LobbyID = msg.LobbyID.String()
		w.Seat = msg.Seat.String()
		w.InProgress = msg.InProgress
		w.Pool = toWireCards(msg.Pool)
		if msg.HasPack {
			w.Pack = toWireCards([]card.Card(msg.Pack))
		}
	case lobby.ServerRefresh:
		w.Type = "refresh"
	case lobby.ServerPlayerList:
		w.Type = "player_list"
		w.Players = make([]wirePlayer, len(msg.Players))
		for i, p := range msg.Players {
			w.Players[i] = toWirePlayer(p)
		}
	case lobby.ServerPlayerUpdate:
		w.Type = "player_update"
		p := toWirePlayer(msg.Player)
		w.Player = &p
	default:
		return nil, fmt.Errorf("unrecognized server message type %d", msg.Type)
	}
	return json.Marshal(w)
}

// ParseSeat parses a seat id from a URL path segment.
func ParseSeat(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid seat id %q: %w", s, err)
	}
	return id, nil
}
