package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/matchrelay-backend/internal/apperror"
	"github.com/rocketscienceinc/matchrelay-backend/internal/entity"
	"github.com/rocketscienceinc/matchrelay-backend/internal/match"
	"github.com/rocketscienceinc/matchrelay-backend/internal/matchmaking"
	"github.com/rocketscienceinc/matchrelay-backend/internal/registry"
)

const (
	ReasonWin          = "win"
	ReasonDraw         = "draw"
	ReasonOpponentLeft = "opponent_left"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, state *match.State) error
	GetByID(ctx context.Context, id string) (*match.State, error)
	DeleteByID(ctx context.Context, id string) error
}

// MatchStarted is the pairing outcome handed to the transport for the
// personalized matchFound notifications.
type MatchStarted struct {
	State match.State
}

// MoveResult is an accepted move's outcome. Ended carries the terminal
// broadcast: Reason is win or draw, Winner is set only on a win.
type MoveResult struct {
	State  match.State
	Ended  bool
	Reason string
	Winner string
}

// MatchAborted describes a session torn down by a participant disconnect.
type MatchAborted struct {
	SessionID string
	Opponent  entity.Player
}

// Relay is the connection coordinator: it routes findMatch, makeMove and
// disconnect intents through the queue, the registry and the sessions, and
// mirrors live snapshots into the session repository.
type Relay struct {
	logger *slog.Logger

	// mu serializes the pair-and-create sequence against disconnect
	// teardown, so a disconnect can never land between the queue pop and
	// the registry insert and leave a session holding a dead connection.
	mu sync.Mutex

	queue       *matchmaking.Queue
	sessions    *registry.Registry
	sessionRepo sessionRepo
}

func NewRelay(logger *slog.Logger, queue *matchmaking.Queue, sessions *registry.Registry, sessionRepo sessionRepo) *Relay {
	return &Relay{
		logger: logger.With("component", "relay"),

		queue:       queue,
		sessions:    sessions,
		sessionRepo: sessionRepo,
	}
}

// FindMatch - enqueues the connection. When it completes a pair, the two
// oldest waiting entries become a new session: the first enqueued plays X and
// moves first. A nil result means the connection is waiting.
//
// A connection already participating in a live match is rejected, so no
// connection can ever hold slots in two simultaneously-live sessions. The
// session id is not announced before the registry holds the session, so no
// caller can observe entries removed from the queue without a match.
func (that *Relay) FindMatch(ctx context.Context, connectionID, name string) (*MatchStarted, error) {
	log := that.logger.With("method", "FindMatch")

	that.mu.Lock()

	if that.sessions.HasParticipant(connectionID) {
		that.mu.Unlock()
		return nil, apperror.ErrAlreadyInMatch
	}

	pair, paired, err := that.queue.Enqueue(connectionID, name)
	if err != nil {
		that.mu.Unlock()
		return nil, fmt.Errorf("failed to enqueue: %w", err)
	}

	if !paired {
		that.mu.Unlock()
		log.Info("connection queued", "connectionID", connectionID)
		return nil, nil
	}

	playerX := entity.Player{ConnectionID: pair[0].ConnectionID, Name: pair[0].Name, Tag: entity.TagX}
	playerO := entity.Player{ConnectionID: pair[1].ConnectionID, Name: pair[1].Name, Tag: entity.TagO}

	session := that.sessions.Create(playerX, playerO)
	state := session.State()

	that.mu.Unlock()

	that.mirrorState(ctx, &state)

	log.Info("match created", "sessionID", state.ID)

	return &MatchStarted{State: state}, nil
}

// MakeMove - applies one move to the addressed session. Rejections surface as
// sentinel errors and never alter shared state; a terminal move removes the
// session from the registry before the result is returned.
func (that *Relay) MakeMove(ctx context.Context, connectionID, sessionID string, moveIndex int) (*MoveResult, error) {
	log := that.logger.With("method", "MakeMove", "sessionID", sessionID)

	session, ok := that.sessions.Lookup(sessionID)
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	state, err := session.ApplyMove(connectionID, moveIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to apply move: %w", err)
	}

	result := &MoveResult{State: state}

	if state.Finished {
		that.sessions.Terminate(sessionID)

		if err = that.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
			log.Error("failed to delete session snapshot", "error", err)
		}

		result.Ended = true
		result.Winner = state.Winner
		result.Reason = ReasonDraw
		if state.Winner != entity.EmptyCell {
			result.Reason = ReasonWin
		}

		log.Info("match finished", "reason", result.Reason, "winner", result.Winner)

		return result, nil
	}

	that.mirrorState(ctx, &state)

	return result, nil
}

// Disconnect - handles a dropped connection. A waiting entry is removed from
// the queue silently; a live match is terminated and the remaining
// participant is reported for the opponent_left notification. Both paths are
// safe no-ops when inapplicable.
func (that *Relay) Disconnect(ctx context.Context, connectionID string) *MatchAborted {
	log := that.logger.With("method", "Disconnect", "connectionID", connectionID)

	that.mu.Lock()
	removed := that.queue.DequeueIfWaiting(connectionID)
	session, opponent, ok := that.sessions.TerminateByConnection(connectionID)
	that.mu.Unlock()

	if removed {
		log.Info("waiting connection left the queue")
	}

	if !ok {
		return nil
	}

	if err := that.sessionRepo.DeleteByID(ctx, session.ID()); err != nil {
		log.Error("failed to delete session snapshot", "error", err)
	}

	log.Info("match aborted by disconnect", "sessionID", session.ID())

	return &MatchAborted{
		SessionID: session.ID(),
		Opponent:  opponent,
	}
}

// GetSession - returns the mirrored snapshot for the REST surface.
func (that *Relay) GetSession(ctx context.Context, id string) (*match.State, error) {
	state, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return state, nil
}

// mirrorState - best-effort snapshot write; gameplay never depends on it.
func (that *Relay) mirrorState(ctx context.Context, state *match.State) {
	if err := that.sessionRepo.CreateOrUpdate(ctx, state); err != nil {
		that.logger.Error("failed to mirror session snapshot", "sessionID", state.ID, "error", err)
	}
}
