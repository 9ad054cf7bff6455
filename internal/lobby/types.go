package lobby

import (
	"github.com/google/uuid"

	"draftlite/internal/card"
	"draftlite/internal/packbuilder"
)

// RequestKind tags a Request's payload the way ClientMessageType and
// ServerMessageType tag theirs — a small closed set of variants, no
// dynamic dispatch.
type RequestKind int

const (
	RequestConnect RequestKind = iota
	RequestMessage
	RequestTerminate
)

// Request is everything that can arrive on a lobby actor's inbound
// queue: a new or resumed connection, a framed client message, or a
// shutdown.
type Request struct {
	Kind RequestKind

	Seat      uuid.UUID
	Outbound  chan<- ServerMessage // Connect only
	ClientMsg ClientMessage        // Message only
	Reason    string               // Terminate only

	Response chan error
}

// NewConnect builds a Connect request for seat, whose outbound channel
// the transport adapter owns and sizes.
func NewConnect(seat uuid.UUID, outbound chan<- ServerMessage) Request {
	return Request{Kind: RequestConnect, Seat: seat, Outbound: outbound}
}

// NewMessage builds a Message request carrying a decoded ClientMessage
// from seat's current connection.
func NewMessage(seat uuid.UUID, msg ClientMessage) Request {
	return Request{Kind: RequestMessage, Seat: seat, ClientMsg: msg}
}

// NewTerminate builds an external-shutdown request.
func NewTerminate(reason string) Request {
	return Request{Kind: RequestTerminate, Reason: reason}
}

// ClientMessageType tags the payload carried by a ClientMessage.
type ClientMessageType int

const (
	ClientHeartBeat ClientMessageType = iota
	ClientReadyState
	ClientDisconnected
	ClientSetName
	ClientPick
)

// ClientMessage is the single inbound message type the core exchanges
// with a connection, decoded by the transport adapter from wire frames.
type ClientMessage struct {
	Type      ClientMessageType
	Ready     bool   // ReadyState
	Name      string // SetName
	PickIndex int    // Pick
}

func HeartBeat() ClientMessage             { return ClientMessage{Type: ClientHeartBeat} }
func ReadyState(ready bool) ClientMessage  { return ClientMessage{Type: ClientReadyState, Ready: ready} }
func Disconnected() ClientMessage          { return ClientMessage{Type: ClientDisconnected} }
func SetName(name string) ClientMessage    { return ClientMessage{Type: ClientSetName, Name: name} }
func Pick(index int) ClientMessage         { return ClientMessage{Type: ClientPick, PickIndex: index} }

// ClientStatus is a seat's last-known connection health.
type ClientStatus int

const (
	StatusOk ClientStatus = iota
	StatusWarning
	StatusError
)

func (s ClientStatus) String() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusWarning:
		return "Warning"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// PlayerDetails is the externally-visible snapshot of one seat.
type PlayerDetails struct {
	Seat   uuid.UUID
	Name   string
	Ready  bool
	Status ClientStatus
}

// ServerMessageType tags the payload carried by a ServerMessage.
type ServerMessageType int

const (
	ServerStarted ServerMessageType = iota
	ServerEnded
	ServerFatalError
	ServerPack
	ServerPickSuccessful
	ServerFinished
	ServerConnected
	ServerReconnected
	ServerRefresh
	ServerPlayerList
	ServerPlayerUpdate
)

// ServerMessage is the single outbound message type the core sends to a
// connection, encoded by the transport adapter onto wire frames.
type ServerMessage struct {
	Type ServerMessageType

	Reason string // FatalError

	Pack packbuilder.Pack // Pack, Reconnected (CurrentPack)
	Card card.Card        // PickSuccessful
	Pool []card.Card      // Finished, Reconnected

	LobbyID    uuid.UUID // Connected, Reconnected
	Seat       uuid.UUID // Connected, Reconnected
	InProgress bool      // Reconnected
	HasPack    bool      // Reconnected: whether Pack is meaningful

	Players []PlayerDetails // PlayerList
	Player  PlayerDetails   // PlayerUpdate
}

func Started() ServerMessage { return ServerMessage{Type: ServerStarted} }
func Ended() ServerMessage   { return ServerMessage{Type: ServerEnded} }

func FatalError(reason string) ServerMessage {
	return ServerMessage{Type: ServerFatalError, Reason: reason}
}

func PackMessage(p packbuilder.Pack) ServerMessage {
	return ServerMessage{Type: ServerPack, Pack: p}
}

func PickSuccessful(c card.Card) ServerMessage {
	return ServerMessage{Type: ServerPickSuccessful, Card: c}
}

func Finished(pool []card.Card) ServerMessage {
	return ServerMessage{Type: ServerFinished, Pool: pool}
}

func Connected(lobbyID, seat uuid.UUID) ServerMessage {
	return ServerMessage{Type: ServerConnected, LobbyID: lobbyID, Seat: seat}
}

func Reconnected(lobbyID, seat uuid.UUID, inProgress bool, pool []card.Card, pack packbuilder.Pack, hasPack bool) ServerMessage {
	return ServerMessage{
		Type: ServerReconnected, LobbyID: lobbyID, Seat: seat,
		InProgress: inProgress, Pool: pool, Pack: pack, HasPack: hasPack,
	}
}

func Refresh() ServerMessage { return ServerMessage{Type: ServerRefresh} }

func PlayerList(players []PlayerDetails) ServerMessage {
	return ServerMessage{Type: ServerPlayerList, Players: players}
}

func PlayerUpdate(p PlayerDetails) ServerMessage {
	return ServerMessage{Type: ServerPlayerUpdate, Player: p}
}
