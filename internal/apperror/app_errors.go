package apperror

import "errors"

var (
	ErrMatchFinished   = errors.New("match is already finished")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidMove     = errors.New("invalid move index")
	ErrNotParticipant  = errors.New("not a participant of this match")
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyName       = errors.New("display name is required")
	ErrAlreadyInMatch  = errors.New("connection is already in a match")
)
