package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/matchrelay-backend/internal/entity"
	"github.com/rocketscienceinc/matchrelay-backend/internal/match"
)

func (that *Server) handleFindMatch(ctx context.Context, connectionID string, msg *Message) error {
	log := that.logger.With("method", "handleFindMatch", "connectionID", connectionID)

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	started, err := that.relay.FindMatch(ctx, connectionID, payloadReq.Name)
	if err != nil {
		// Searching with an empty name or while already in a match never
		// touches the queue; only the sender hears about it.
		log.Info("find match rejected", "error", err)
		return that.sendErrorResponse(connectionID, msg.Action, err.Error())
	}

	// Still waiting for an opponent; the matchFound event arrives when the
	// pairing completes.
	if started == nil {
		return nil
	}

	that.notifyMatchFound(&started.State)

	return nil
}

// notifyMatchFound - sends each participant their personalized view: own
// player record, opponent name and tag, and the initial state.
func (that *Server) notifyMatchFound(state *match.State) {
	for i := range state.Players {
		player := state.Players[i]
		opponent := state.Players[1-i]

		board := state.Board

		that.sendToConnection(player.ConnectionID, actionMatchFound, Payload{
			GameID:   state.ID,
			Player:   &player,
			Opponent: &entity.Player{Name: opponent.Name, Tag: opponent.Tag},
			Board:    &board,
			Turn:     state.Turn,
		})
	}
}

func (that *Server) handleMakeMove(ctx context.Context, connectionID string, msg *Message) error {
	log := that.logger.With("method", "handleMakeMove", "connectionID", connectionID)

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.GameID == "" || payloadReq.Move == nil {
		return that.sendErrorResponse(connectionID, msg.Action, "game_id and move are required")
	}

	result, err := that.relay.MakeMove(ctx, connectionID, payloadReq.GameID, *payloadReq.Move)
	if err != nil {
		// A rejected move never altered shared state; only the sender hears
		// about it.
		log.Info("move rejected", "gameID", payloadReq.GameID, "error", err)
		return that.sendErrorResponse(connectionID, msg.Action, err.Error())
	}

	board := result.State.Board
	statePayload := Payload{
		GameID: result.State.ID,
		Board:  &board,
		Turn:   result.State.Turn,
	}

	for _, player := range result.State.Players {
		that.sendToConnection(player.ConnectionID, actionMatchState, statePayload)
	}

	if !result.Ended {
		return nil
	}

	endedPayload := Payload{
		GameID: result.State.ID,
		Reason: result.Reason,
		Winner: result.Winner,
	}

	for _, player := range result.State.Players {
		that.sendToConnection(player.ConnectionID, actionMatchEnded, endedPayload)
	}

	return nil
}

func (that *Server) sendErrorResponse(connectionID, action, errorMsg string) error {
	that.sendToConnection(connectionID, action, Payload{Error: errorMsg})
	return nil
}
