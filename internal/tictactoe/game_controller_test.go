package tictactoe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/playroom/internal/apperror"
	"github.com/rocketscienceinc/playroom/internal/entity"
)

func newTestController() *GameController {
	counter := 0
	return NewGameController(WithIDGenerator(func() string {
		counter++
		return fmt.Sprintf("player-%d", counter)
	}))
}

func startedMatch(t *testing.T, controller *GameController) entity.Match {
	t.Helper()

	match, err := controller.Reduce(entity.NewMatch("session-1"), StartGame("Alice", "Bob"))
	require.NoError(t, err)

	return match
}

func playMoves(t *testing.T, controller *GameController, match entity.Match, cells ...int) entity.Match {
	t.Helper()

	for _, cell := range cells {
		var err error
		match, err = controller.Reduce(match, MakeMove(cell))
		require.NoError(t, err, "move at cell %d", cell)
	}

	return match
}

// xWinsRound plays a top-row win for X from an empty board.
func xWinsRound(t *testing.T, controller *GameController, match entity.Match) entity.Match {
	t.Helper()
	return playMoves(t, controller, match, 0, 3, 1, 4, 2)
}

// oWinsRound plays a middle-row win for O from an empty board.
func oWinsRound(t *testing.T, controller *GameController, match entity.Match) entity.Match {
	t.Helper()
	return playMoves(t, controller, match, 0, 3, 1, 4, 8, 5)
}

// drawRound fills the board without a line.
func drawRound(t *testing.T, controller *GameController, match entity.Match) entity.Match {
	t.Helper()
	return playMoves(t, controller, match, 0, 1, 2, 4, 3, 5, 7, 6, 8)
}

func nextRoundOf(t *testing.T, controller *GameController, match entity.Match) entity.Match {
	t.Helper()

	match, err := controller.Reduce(match, Action{Type: ActionNextRound})
	require.NoError(t, err)

	return match
}

func TestCheckWinner(t *testing.T) {
	t.Run("Every line returns its symbol", func(t *testing.T) {
		for _, combo := range WinCombos {
			for _, symbol := range []string{entity.PlayerX, entity.PlayerO} {
				// Given: a board with only this line filled
				board := entity.Board{}
				for _, cell := range combo {
					board[cell] = symbol
				}

				// Then: the detector should return the line's symbol
				assert.Equal(t, symbol, CheckWinner(board), "combo %v", combo)
			}
		}
	})

	t.Run("No line returns empty", func(t *testing.T) {
		// Given: a full board without a line
		board := entity.Board{
			entity.PlayerX, entity.PlayerO, entity.PlayerX,
			entity.PlayerX, entity.PlayerO, entity.PlayerO,
			entity.PlayerO, entity.PlayerX, entity.PlayerX,
		}

		// Then: there should be no winner
		assert.Equal(t, entity.EmptyCell, CheckWinner(board))
		assert.Equal(t, entity.EmptyCell, CheckWinner(entity.Board{}))
	})

	t.Run("Mixed line is not a win", func(t *testing.T) {
		board := entity.Board{entity.PlayerX, entity.PlayerX, entity.PlayerO}

		assert.Equal(t, entity.EmptyCell, CheckWinner(board))
	})
}

func TestGameController_StartGame(t *testing.T) {
	t.Run("Creates players and starts the match", func(t *testing.T) {
		// Given: a match in setup
		controller := newTestController()

		// When: starting a game with two names
		match, err := controller.Reduce(entity.NewMatch("session-1"), StartGame(" Alice ", "Bob"))
		require.NoError(t, err)

		// Then: the match should be playing round 1 with fresh players
		expected := entity.Match{
			ID:            "session-1",
			CurrentPlayer: entity.PlayerX,
			Players: entity.Players{
				X: &entity.Player{ID: "player-1", Name: "Alice", Symbol: entity.PlayerX},
				O: &entity.Player{ID: "player-2", Name: "Bob", Symbol: entity.PlayerO},
			},
			CurrentRound: 1,
			MatchStatus:  entity.MatchStatusPlaying,
			RoundStatus:  entity.RoundStatusPlaying,
		}

		require.Equal(t, expected, match)
	})

	t.Run("Uses uuid identifiers by default", func(t *testing.T) {
		controller := NewGameController()

		match, err := controller.Reduce(entity.NewMatch("session-1"), StartGame("Alice", "Bob"))
		require.NoError(t, err)

		assert.Len(t, match.Players.X.ID, 36)
		assert.NotEqual(t, match.Players.X.ID, match.Players.O.ID)
	})

	t.Run("Rejects short names", func(t *testing.T) {
		controller := newTestController()
		initial := entity.NewMatch("session-1")

		match, err := controller.Reduce(initial, StartGame("A", "Bob"))

		require.ErrorIs(t, err, apperror.ErrPlayerNameTooShort)
		assert.Equal(t, initial, match)
	})

	t.Run("Rejects equal names", func(t *testing.T) {
		controller := newTestController()

		_, err := controller.Reduce(entity.NewMatch("session-1"), StartGame("Alice", " Alice"))

		require.ErrorIs(t, err, apperror.ErrSamePlayerNames)
	})
}

func TestGameController_MakeMove(t *testing.T) {
	t.Run("Places the mark and toggles the player", func(t *testing.T) {
		// Given: a started match
		controller := newTestController()
		match := startedMatch(t, controller)

		// When: X plays cell 4
		match = playMoves(t, controller, match, 4)

		// Then: the board should hold X and it should be O's turn
		assert.Equal(t, entity.PlayerX, match.Board[4])
		assert.Equal(t, entity.PlayerO, match.CurrentPlayer)
		assert.Equal(t, entity.RoundStatusPlaying, match.RoundStatus)
	})

	t.Run("Occupied cell never changes the board", func(t *testing.T) {
		// Given: X occupies cell 0
		controller := newTestController()
		match := playMoves(t, controller, startedMatch(t, controller), 0)

		// When: O tries the same cell
		next, err := controller.Reduce(match, MakeMove(0))

		// Then: the move should be rejected and nothing should change
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, match, next)
	})

	t.Run("Invalid cell index is rejected", func(t *testing.T) {
		controller := newTestController()
		match := startedMatch(t, controller)

		_, err := controller.Reduce(match, MakeMove(9))
		require.ErrorIs(t, err, apperror.ErrInvalidCell)

		_, err = controller.Reduce(match, MakeMove(-1))
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Move before start is rejected", func(t *testing.T) {
		controller := newTestController()

		_, err := controller.Reduce(entity.NewMatch("session-1"), MakeMove(0))

		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Win is detected on the completing move", func(t *testing.T) {
		// Given: a started match with X to play
		controller := newTestController()
		match := startedMatch(t, controller)

		// When: moves 0,4,1,3 are played
		match = playMoves(t, controller, match, 0, 4, 1, 3)
		require.Equal(t, entity.RoundStatusPlaying, match.RoundStatus)

		// And: X completes the top row at cell 2
		match = playMoves(t, controller, match, 2)

		// Then: the round should be won by X immediately
		assert.Equal(t, entity.Board{
			entity.PlayerX, entity.PlayerX, entity.PlayerX,
			entity.PlayerO, entity.PlayerO, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		}, match.Board)
		assert.Equal(t, entity.RoundStatusWon, match.RoundStatus)
		assert.Equal(t, entity.PlayerX, match.Winner)
		assert.Equal(t, entity.RoundWins{X: 1}, match.RoundWins)
		assert.Equal(t, 2, match.Players.X.Score)
		assert.Equal(t, 1, match.Players.O.Score)
		assert.Equal(t, entity.MatchStatusPlaying, match.MatchStatus)
	})

	t.Run("Move after the round is decided is rejected", func(t *testing.T) {
		controller := newTestController()
		match := xWinsRound(t, controller, startedMatch(t, controller))

		next, err := controller.Reduce(match, MakeMove(8))

		require.ErrorIs(t, err, apperror.ErrRoundNotPlaying)
		assert.Equal(t, match, next)
	})

	t.Run("Full board without a line is a draw without points", func(t *testing.T) {
		controller := newTestController()

		match := drawRound(t, controller, startedMatch(t, controller))

		assert.Equal(t, entity.RoundStatusDraw, match.RoundStatus)
		assert.Equal(t, entity.EmptyCell, match.Winner)
		assert.Equal(t, entity.RoundWins{}, match.RoundWins)
		assert.Equal(t, 0, match.Players.X.Score)
		assert.Equal(t, 0, match.Players.O.Score)
		assert.Equal(t, entity.MatchStatusPlaying, match.MatchStatus)
	})

	t.Run("Input match is not mutated", func(t *testing.T) {
		controller := newTestController()
		match := startedMatch(t, controller)
		before := match.Clone()

		_ = xWinsRound(t, controller, match)

		assert.Equal(t, before, match)
	})
}

func TestGameController_MatchFlow(t *testing.T) {
	t.Run("Three round wins finish the match", func(t *testing.T) {
		// Given: a started match
		controller := newTestController()
		match := startedMatch(t, controller)

		// When: X wins rounds 1 and 2
		match = xWinsRound(t, controller, match)
		match = nextRoundOf(t, controller, match)
		match = xWinsRound(t, controller, match)

		// Then: the match should still be playing
		assert.Equal(t, 2, match.CurrentRound)
		assert.Equal(t, entity.RoundWins{X: 2}, match.RoundWins)
		assert.Equal(t, 4, match.Players.X.Score)
		assert.Equal(t, 2, match.Players.O.Score)
		assert.Equal(t, entity.MatchStatusPlaying, match.MatchStatus)

		// When: X wins round 3
		match = nextRoundOf(t, controller, match)
		match = xWinsRound(t, controller, match)

		// Then: the match should be finished with X as final winner
		assert.Equal(t, entity.RoundWins{X: 3}, match.RoundWins)
		assert.Equal(t, entity.MatchStatusFinished, match.MatchStatus)
		assert.Equal(t, entity.PlayerX, match.FinalWinner)
		assert.Equal(t, 6, match.Players.X.Score)
		assert.Equal(t, 3, match.Players.O.Score)

		// And: no further round can be started
		_, err := controller.Reduce(match, Action{Type: ActionNextRound})
		require.ErrorIs(t, err, apperror.ErrMatchNotPlaying)
	})

	t.Run("Decided fifth round finishes the match", func(t *testing.T) {
		// Given: X 2 wins, O 2 wins after four rounds
		controller := newTestController()
		match := startedMatch(t, controller)
		match = xWinsRound(t, controller, match)
		match = nextRoundOf(t, controller, match)
		match = oWinsRound(t, controller, match)
		match = nextRoundOf(t, controller, match)
		match = xWinsRound(t, controller, match)
		match = nextRoundOf(t, controller, match)
		match = oWinsRound(t, controller, match)
		match = nextRoundOf(t, controller, match)
		require.Equal(t, entity.MatchStatusPlaying, match.MatchStatus)
		require.Equal(t, 5, match.CurrentRound)

		// When: O wins round 5
		match = oWinsRound(t, controller, match)

		// Then: O should take the match 3-2
		assert.Equal(t, entity.MatchStatusFinished, match.MatchStatus)
		assert.Equal(t, entity.PlayerO, match.FinalWinner)
	})

	t.Run("Drawn fifth round with equal wins has no final winner", func(t *testing.T) {
		// Given: two wins each after four rounds
		controller := newTestController()
		match := startedMatch(t, controller)
		match = xWinsRound(t, controller, match)
		match = nextRoundOf(t, controller, match)
		match = oWinsRound(t, controller, match)
		match = nextRoundOf(t, controller, match)
		match = xWinsRound(t, controller, match)
		match = nextRoundOf(t, controller, match)
		match = oWinsRound(t, controller, match)
		match = nextRoundOf(t, controller, match)

		// When: the fifth round is drawn
		match = drawRound(t, controller, match)

		// Then: the match should be finished without a final winner
		assert.Equal(t, entity.RoundStatusDraw, match.RoundStatus)
		assert.Equal(t, entity.MatchStatusFinished, match.MatchStatus)
		assert.Equal(t, entity.EmptyCell, match.FinalWinner)
	})

	t.Run("Drawn earlier rounds do not finish the match", func(t *testing.T) {
		controller := newTestController()
		match := drawRound(t, controller, startedMatch(t, controller))

		assert.Equal(t, entity.MatchStatusPlaying, match.MatchStatus)
	})

	t.Run("Round counter never exceeds five", func(t *testing.T) {
		// Given: a match advanced to round 5 with draws only
		controller := newTestController()
		match := startedMatch(t, controller)
		for round := 1; round < entity.MaxRounds; round++ {
			match = nextRoundOf(t, controller, match)
		}
		require.Equal(t, 5, match.CurrentRound)

		// When: advancing once more
		next, err := controller.Reduce(match, Action{Type: ActionNextRound})

		// Then: it should be rejected
		require.ErrorIs(t, err, apperror.ErrLastRound)
		assert.Equal(t, 5, next.CurrentRound)
	})

	t.Run("Next round before start is rejected", func(t *testing.T) {
		controller := newTestController()

		_, err := controller.Reduce(entity.NewMatch("session-1"), Action{Type: ActionNextRound})

		require.ErrorIs(t, err, apperror.ErrMatchNotPlaying)
	})
}

func TestGameController_Resets(t *testing.T) {
	t.Run("Reset round keeps round counter and scores", func(t *testing.T) {
		// Given: a match in round 2 after an X win, with moves on the board
		controller := newTestController()
		match := xWinsRound(t, controller, startedMatch(t, controller))
		match = nextRoundOf(t, controller, match)
		match = playMoves(t, controller, match, 4)

		// When: resetting the round
		next, err := controller.Reduce(match, Action{Type: ActionResetRound})
		require.NoError(t, err)

		// Then: only the round state should be cleared
		assert.Equal(t, entity.Board{}, next.Board)
		assert.Equal(t, entity.PlayerX, next.CurrentPlayer)
		assert.Equal(t, entity.RoundStatusPlaying, next.RoundStatus)
		assert.Equal(t, 2, next.CurrentRound)
		assert.Equal(t, entity.RoundWins{X: 1}, next.RoundWins)
		assert.Equal(t, 2, next.Players.X.Score)
	})

	t.Run("Reset match returns to setup", func(t *testing.T) {
		controller := newTestController()
		match := xWinsRound(t, controller, startedMatch(t, controller))

		next, err := controller.Reduce(match, Action{Type: ActionResetMatch})
		require.NoError(t, err)

		assert.Equal(t, entity.NewMatch("session-1"), next)
	})

	t.Run("Rematch keeps players with zeroed scores", func(t *testing.T) {
		// Given: a finished match
		controller := newTestController()
		match := startedMatch(t, controller)
		for round := 0; round < entity.RoundsToWin; round++ {
			if round > 0 {
				match = nextRoundOf(t, controller, match)
			}
			match = xWinsRound(t, controller, match)
		}
		require.True(t, match.IsFinished())

		// When: a rematch is requested
		next, err := controller.Reduce(match, Action{Type: ActionRematch})
		require.NoError(t, err)

		// Then: the same players should start a fresh match
		assert.Equal(t, entity.MatchStatusPlaying, next.MatchStatus)
		assert.Equal(t, 1, next.CurrentRound)
		assert.Equal(t, entity.RoundWins{}, next.RoundWins)
		assert.Equal(t, match.Players.X.ID, next.Players.X.ID)
		assert.Equal(t, 0, next.Players.X.Score)
		assert.Equal(t, 0, next.Players.O.Score)

		// And: the finished match should keep its scores
		assert.Equal(t, 6, match.Players.X.Score)
	})

	t.Run("Rematch without players is rejected", func(t *testing.T) {
		controller := newTestController()

		_, err := controller.Reduce(entity.NewMatch("session-1"), Action{Type: ActionRematch})

		require.ErrorIs(t, err, apperror.ErrPlayersNotSet)
	})

	t.Run("Unknown action is rejected", func(t *testing.T) {
		controller := newTestController()

		_, err := controller.Reduce(entity.NewMatch("session-1"), Action{Type: "jump"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown action")
	})
}
