package websocket

import (
	"bufio"
	"encoding/json"
	"sync"

	"github.com/rocketscienceinc/matchrelay-backend/internal/entity"
)

const (
	actionFindMatch = "match:find"
	actionMakeMove  = "match:move"

	actionMatchFound = "match:found"
	actionMatchState = "match:state"
	actionMatchEnded = "match:ended"
)

// Message is the wire envelope: an action name and a raw payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries every field the protocol uses; unset fields are omitted.
type Payload struct {
	Name   string `json:"name,omitempty"`
	GameID string `json:"game_id,omitempty"`
	Move   *int   `json:"move,omitempty"`

	Player   *entity.Player `json:"player,omitempty"`
	Opponent *entity.Player `json:"opponent,omitempty"`
	Board    *entity.Board  `json:"board,omitempty"`
	Turn     string         `json:"player_turn,omitempty"`

	Reason string `json:"reason,omitempty"`
	Winner string `json:"winner,omitempty"`
	Error  string `json:"error,omitempty"`
}

// connection wraps a hijacked client socket. Writes are serialized through
// the mutex because broadcasts arrive from other connections' goroutines.
type connection struct {
	mu sync.Mutex
	rw *bufio.ReadWriter
}
