package match

import (
	"sync"

	"github.com/rocketscienceinc/matchrelay-backend/internal/apperror"
	"github.com/rocketscienceinc/matchrelay-backend/internal/entity"
)

// Session owns one match's authoritative state. All mutation goes through
// ApplyMove under the session mutex, so two moves can never be validated
// against the same pre-move turn.
type Session struct {
	mu sync.Mutex

	id       string
	players  [2]entity.Player
	board    entity.Board
	turn     string
	finished bool
	winner   string
}

// State is an immutable snapshot of a session, safe to hand to transports
// and storage after the mutex is released.
type State struct {
	ID       string           `json:"id"`
	Players  [2]entity.Player `json:"players"`
	Board    entity.Board     `json:"board"`
	Turn     string           `json:"player_turn"`
	Finished bool             `json:"finished"`
	Winner   string           `json:"winner,omitempty"`
}

// NewSession - creates a session for two freshly paired players. X moves first.
func NewSession(id string, playerX, playerO entity.Player) *Session {
	return &Session{
		id:      id,
		players: [2]entity.Player{playerX, playerO},
		board:   entity.NewBoard(),
		turn:    entity.TagX,
	}
}

func (that *Session) ID() string {
	return that.id
}

// Players - returns both participants. The slot order is X then O.
func (that *Session) Players() [2]entity.Player {
	return that.players
}

// Opponent - returns the participant other than connectionID.
func (that *Session) Opponent(connectionID string) (entity.Player, bool) {
	for i, player := range that.players {
		if player.ConnectionID == connectionID {
			return that.players[1-i], true
		}
	}

	return entity.Player{}, false
}

// HasParticipant - reports whether connectionID belongs to this match.
func (that *Session) HasParticipant(connectionID string) bool {
	return that.players[0].ConnectionID == connectionID || that.players[1].ConnectionID == connectionID
}

// ApplyMove - validates and applies a single move for the given connection.
//
// Rejected moves return a sentinel error and leave the session untouched:
// finished match, foreign connection, out-of-turn tag, out-of-range index,
// occupied cell. On a winning move the winner is recorded before the turn is
// toggled, so the returned snapshot reflects the move that won.
func (that *Session) ApplyMove(connectionID string, moveIndex int) (State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.finished {
		return State{}, apperror.ErrMatchFinished
	}

	tag, ok := that.tagOf(connectionID)
	if !ok {
		return State{}, apperror.ErrNotParticipant
	}

	if tag != that.turn {
		return State{}, apperror.ErrNotYourTurn
	}

	row, col, err := entity.CellFromIndex(moveIndex)
	if err != nil {
		return State{}, err
	}

	if err = that.board.ValidateMove(row, col); err != nil {
		return State{}, err
	}

	that.board.Apply(row, col, tag)

	if winner := that.board.DetectWinner(); winner != entity.EmptyCell {
		that.finished = true
		that.winner = winner
	} else if that.board.IsDraw() {
		that.finished = true
	}

	// The turn toggles even on a terminal move to keep the snapshot
	// internally consistent; no further moves are accepted once finished.
	that.turn = entity.ToggleTag(that.turn)

	return that.snapshot(), nil
}

// Abort - marks the session finished without a winner. Used on participant
// disconnect so that an in-flight move racing with teardown is rejected.
func (that *Session) Abort() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.finished = true
}

// State - returns the current snapshot.
func (that *Session) State() State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

func (that *Session) tagOf(connectionID string) (string, bool) {
	for _, player := range that.players {
		if player.ConnectionID == connectionID {
			return player.Tag, true
		}
	}

	return entity.EmptyCell, false
}

func (that *Session) snapshot() State {
	return State{
		ID:       that.id,
		Players:  that.players,
		Board:    that.board,
		Turn:     that.turn,
		Finished: that.finished,
		Winner:   that.winner,
	}
}
