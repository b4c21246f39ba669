package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/playroom/internal/entity"
	"github.com/rocketscienceinc/playroom/internal/tictactoe"
)

const outcomeDraw = "draw"

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameController interface {
	Reduce(match entity.Match, action tictactoe.Action) (entity.Match, error)
}

type matchResultRecorder interface {
	RecordMatch(ctx context.Context, match entity.Match) error
}

type gameMetrics interface {
	RecordMove()
	RecordRound(outcome string)
	RecordMatchFinished(winner string)
	RecordRejectedAction(action string)
}

// GameManager runs match sessions. Every action on every session goes through
// one lock, so reducers never interleave.
type GameManager struct {
	logger *slog.Logger
	mu     sync.Mutex

	matchRepo  matchRepo
	controller gameController
	results    matchResultRecorder
	metrics    gameMetrics
}

func NewGameManager(
	logger *slog.Logger,
	matchRepo matchRepo,
	controller gameController,
	results matchResultRecorder,
	metrics gameMetrics,
) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		matchRepo:  matchRepo,
		controller: controller,
		results:    results,
		metrics:    metrics,
	}
}

// StartGame opens a new session and starts round one for the two players.
func (that *GameManager) StartGame(ctx context.Context, playerX, playerO string) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	action := tictactoe.StartGame(playerX, playerO)

	match, err := that.controller.Reduce(entity.NewMatch(uuid.NewString()), action)
	if err != nil {
		that.metrics.RecordRejectedAction(string(action.Type))
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	match.Version = 1

	if err = that.matchRepo.CreateOrUpdate(ctx, &match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	that.logger.Info("match started", "match_id", match.ID)

	return &match, nil
}

func (that *GameManager) GetMatch(ctx context.Context, id string) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

func (that *GameManager) MakeMove(ctx context.Context, id string, cell int) (*entity.Match, error) {
	return that.apply(ctx, id, tictactoe.MakeMove(cell))
}

func (that *GameManager) NextRound(ctx context.Context, id string) (*entity.Match, error) {
	return that.apply(ctx, id, tictactoe.Action{Type: tictactoe.ActionNextRound})
}

func (that *GameManager) ResetRound(ctx context.Context, id string) (*entity.Match, error) {
	return that.apply(ctx, id, tictactoe.Action{Type: tictactoe.ActionResetRound})
}

// ResetMatch drops players and scores; the session id survives.
func (that *GameManager) ResetMatch(ctx context.Context, id string) (*entity.Match, error) {
	return that.apply(ctx, id, tictactoe.Action{Type: tictactoe.ActionResetMatch})
}

func (that *GameManager) Rematch(ctx context.Context, id string) (*entity.Match, error) {
	return that.apply(ctx, id, tictactoe.Action{Type: tictactoe.ActionRematch})
}

func (that *GameManager) DeleteMatch(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.matchRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	return nil
}

// apply loads the session, reduces the action and stores the result. A
// rejected action returns the stored match unchanged together with the reason.
func (that *GameManager) apply(ctx context.Context, id string, action tictactoe.Action) (*entity.Match, error) {
	log := that.logger.With("method", "apply", "match_id", id, "action", action.Type)

	that.mu.Lock()
	defer that.mu.Unlock()

	current, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	next, err := that.controller.Reduce(*current, action)
	if err != nil {
		that.metrics.RecordRejectedAction(string(action.Type))
		log.Debug("action rejected", "reason", err)

		return current, err
	}
	next.Version = current.Version + 1

	if err = that.matchRepo.CreateOrUpdate(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	that.observe(ctx, log, *current, next, action)

	return &next, nil
}

// observe records metrics and leaderboard results for the transition.
func (that *GameManager) observe(ctx context.Context, log *slog.Logger, prev, next entity.Match, action tictactoe.Action) {
	if action.Type == tictactoe.ActionMakeMove {
		that.metrics.RecordMove()
	}

	if prev.IsRoundPlaying() && !next.IsRoundPlaying() {
		outcome := next.Winner
		if next.RoundStatus == entity.RoundStatusDraw {
			outcome = outcomeDraw
		}
		that.metrics.RecordRound(outcome)
	}

	if prev.IsFinished() || !next.IsFinished() {
		return
	}

	winner := next.FinalWinner
	if winner == "" {
		winner = outcomeDraw
	}
	that.metrics.RecordMatchFinished(winner)

	// the match result stands even if the leaderboard cannot take it
	if err := that.results.RecordMatch(ctx, next); err != nil {
		log.Error("failed to record match result", "error", err)
		return
	}

	log.Info("match finished", "final_winner", winner)
}
