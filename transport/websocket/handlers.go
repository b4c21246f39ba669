package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/playroom/internal/apperror"
	"github.com/rocketscienceinc/playroom/internal/entity"
)

const (
	actionGameNew        = "game:new"
	actionGameGet        = "game:get"
	actionGameTurn       = "game:turn"
	actionGameNextRound  = "game:next-round"
	actionGameResetRound = "game:reset-round"
	actionGameRematch    = "game:rematch"
	actionGameReset      = "game:reset"
	actionLeaderboardGet = "leaderboard:get"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	MatchID     string                    `json:"match_id,omitempty"`
	PlayerX     string                    `json:"player_x,omitempty"`
	PlayerO     string                    `json:"player_o,omitempty"`
	Cell        *int                      `json:"cell,omitempty"`
	Match       *entity.Match             `json:"match,omitempty"`
	Leaderboard []entity.LeaderboardEntry `json:"leaderboard,omitempty"`
	Error       string                    `json:"error,omitempty"`
}

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	match, err := that.games.StartGame(ctx, payloadReq.PlayerX, payloadReq.PlayerO)
	if err != nil {
		log.Warn("failed to start game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, clientError(err))
	}

	that.watch(match.ID, conn)

	log.Info("match created", "match_id", match.ID)

	return that.sendMessage(conn, msg.Action, Payload{Match: match})
}

func (that *Server) handleGetGame(ctx context.Context, conn *connection, msg *Message) error {
	payloadReq, err := decodePayload(msg)
	if err != nil || payloadReq.MatchID == "" {
		return that.sendErrorResponse(conn, msg.Action, "match_id is required")
	}

	match, err := that.games.GetMatch(ctx, payloadReq.MatchID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, clientError(err))
	}

	// joining a match by id makes this connection follow it
	that.watch(match.ID, conn)

	return that.sendMessage(conn, msg.Action, Payload{Match: match})
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, msg *Message) error {
	payloadReq, err := decodePayload(msg)
	if err != nil || payloadReq.MatchID == "" {
		return that.sendErrorResponse(conn, msg.Action, "match_id is required")
	}

	if payloadReq.Cell == nil {
		return that.sendErrorResponse(conn, msg.Action, "cell is required")
	}

	match, err := that.games.MakeMove(ctx, payloadReq.MatchID, *payloadReq.Cell)

	return that.respondMatch(conn, msg.Action, match, err)
}

func (that *Server) matchAction(action func(ctx context.Context, id string) (*entity.Match, error)) handlerFunc {
	return func(ctx context.Context, conn *connection, msg *Message) error {
		payloadReq, err := decodePayload(msg)
		if err != nil || payloadReq.MatchID == "" {
			return that.sendErrorResponse(conn, msg.Action, "match_id is required")
		}

		match, err := action(ctx, payloadReq.MatchID)

		return that.respondMatch(conn, msg.Action, match, err)
	}
}

func (that *Server) handleLeaderboard(_ context.Context, conn *connection, msg *Message) error {
	return that.sendMessage(conn, msg.Action, Payload{Leaderboard: that.scores.Entries()})
}

// respondMatch sends a rejection only to the caller, together with the
// unchanged match; accepted changes go to everyone following the match.
func (that *Server) respondMatch(conn *connection, action string, match *entity.Match, err error) error {
	if err != nil {
		payload := Payload{Error: clientError(err)}
		if !errors.Is(err, apperror.ErrNotFound) {
			payload.Match = match
		}

		return that.sendMessage(conn, action, payload)
	}

	that.watch(match.ID, conn)
	that.broadcast(conn, action, match)

	return nil
}

func (that *Server) sendMessage(conn *connection, action string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.writeJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(conn *connection, action, errorMsg string) error {
	if err := that.sendMessage(conn, action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func (that *Server) sendError(conn *connection, action, errorMsg string) {
	if err := that.sendErrorResponse(conn, action, errorMsg); err != nil {
		that.logger.Error("failed to send error", "error", err)
	}
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}

// clientError hides storage details behind a generic message.
func clientError(err error) string {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return "match not found"
	case isGameError(err):
		return err.Error()
	default:
		return "internal error"
	}
}

func isGameError(err error) bool {
	for _, target := range []error{
		apperror.ErrGameIsNotStarted,
		apperror.ErrRoundNotPlaying,
		apperror.ErrMatchNotPlaying,
		apperror.ErrLastRound,
		apperror.ErrCellOccupied,
		apperror.ErrInvalidCell,
		apperror.ErrPlayersNotSet,
		apperror.ErrPlayerNameTooShort,
		apperror.ErrSamePlayerNames,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
