package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatch(t *testing.T) {
	// When: a new match is created
	match := NewMatch("session-1")

	// Then: it should be in the initial setup configuration
	expected := Match{
		ID:            "session-1",
		Board:         Board{},
		CurrentPlayer: PlayerX,
		CurrentRound:  FirstRound,
		MatchStatus:   MatchStatusSetup,
		RoundStatus:   RoundStatusPlaying,
	}

	require.Equal(t, expected, match)
	assert.True(t, match.IsSetup())
	assert.True(t, match.IsRoundPlaying())
	assert.False(t, match.Players.IsSet())
}

func TestMatchStatusMethods(t *testing.T) {
	t.Run("IsPlaying returns true when match status is playing", func(t *testing.T) {
		// Given: a match with MatchStatusPlaying
		match := Match{MatchStatus: MatchStatusPlaying}

		// Then: only IsPlaying should be true
		assert.True(t, match.IsPlaying())
		assert.False(t, match.IsFinished())
		assert.False(t, match.IsSetup())
	})

	t.Run("IsFinished returns true when match status is finished", func(t *testing.T) {
		// Given: a match with MatchStatusFinished
		match := Match{MatchStatus: MatchStatusFinished}

		// Then: only IsFinished should be true
		assert.True(t, match.IsFinished())
		assert.False(t, match.IsPlaying())
	})
}

func TestBoard_IsFull(t *testing.T) {
	t.Run("Empty board is not full", func(t *testing.T) {
		assert.False(t, Board{}.IsFull())
	})

	t.Run("Board with one empty cell is not full", func(t *testing.T) {
		board := Board{
			PlayerX, PlayerO, PlayerX,
			PlayerO, PlayerX, PlayerO,
			PlayerO, PlayerX, EmptyCell,
		}

		assert.False(t, board.IsFull())
	})

	t.Run("Board without empty cells is full", func(t *testing.T) {
		board := Board{
			PlayerX, PlayerO, PlayerX,
			PlayerO, PlayerX, PlayerO,
			PlayerO, PlayerX, PlayerO,
		}

		assert.True(t, board.IsFull())
	})
}

func TestMatch_Clone(t *testing.T) {
	// Given: a match with two players
	match := NewMatch("session-1")
	match.Players = Players{
		X: &Player{ID: "x", Name: "Alice", Symbol: PlayerX},
		O: &Player{ID: "o", Name: "Bob", Symbol: PlayerO},
	}

	// When: the clone is mutated
	clone := match.Clone()
	clone.Players.X.Score = 10
	clone.Board[0] = PlayerX

	// Then: the original should stay untouched
	assert.Equal(t, 0, match.Players.X.Score)
	assert.Equal(t, EmptyCell, match.Board[0])
	assert.Equal(t, "Alice", clone.Players.X.Name)
}

func TestPlayers_BySymbol(t *testing.T) {
	players := Players{
		X: &Player{ID: "x", Symbol: PlayerX},
		O: &Player{ID: "o", Symbol: PlayerO},
	}

	assert.Equal(t, "x", players.BySymbol(PlayerX).ID)
	assert.Equal(t, "o", players.BySymbol(PlayerO).ID)
	assert.Nil(t, players.BySymbol("-"))
}

func TestRoundWins_Add(t *testing.T) {
	// Given: no round wins
	wins := RoundWins{}

	// When: X wins twice and O once
	wins.Add(PlayerX)
	count := wins.Add(PlayerX)
	wins.Add(PlayerO)

	// Then: counts should follow
	assert.Equal(t, 2, count)
	assert.Equal(t, RoundWins{X: 2, O: 1}, wins)
}

func TestToggleMark(t *testing.T) {
	assert.Equal(t, PlayerO, ToggleMark(PlayerX))
	assert.Equal(t, PlayerX, ToggleMark(PlayerO))
}
