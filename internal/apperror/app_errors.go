package apperror

import "errors"

var (
	ErrGameIsNotStarted = errors.New("match is not started")
	ErrRoundNotPlaying  = errors.New("round is already decided")
	ErrMatchNotPlaying  = errors.New("match is not in progress")
	ErrMatchNotFinished = errors.New("match is not finished")
	ErrLastRound        = errors.New("no rounds left in the match")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrPlayersNotSet    = errors.New("players are not set")

	ErrPlayerNameTooShort = errors.New("player name must be at least 2 characters")
	ErrSamePlayerNames    = errors.New("players must have different names")

	ErrEmptyPlayerName = errors.New("player name is empty")
	ErrUnknownResult   = errors.New("unknown match result")

	ErrNotFound = errors.New("not found")
)
