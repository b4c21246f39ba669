package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/playroom/internal/entity"
	"github.com/rocketscienceinc/playroom/testing/suite"
)

func playingMatch(id string) *entity.Match {
	match := entity.NewMatch(id)
	match.MatchStatus = entity.MatchStatusPlaying
	match.Players = entity.Players{
		X: &entity.Player{ID: "x", Name: "Alice", Symbol: entity.PlayerX},
		O: &entity.Player{ID: "o", Name: "Bob", Symbol: entity.PlayerO},
	}
	match.Board[4] = entity.PlayerX
	match.CurrentPlayer = entity.PlayerO

	return &match
}

func TestMatchRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	matchRepo := NewMatchRepository(st.Storage, 0)

	// Given: a match in progress
	match := playingMatch("123")

	// When: CreateOrUpdate is called
	err := matchRepo.CreateOrUpdate(ctx, match)

	// Then: no error should be returned, and the match is stored without expiry
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "match:123").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)
}

func TestMatchRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage, time.Hour)

		// Given: a stored match
		match := playingMatch("123")
		require.NoError(t, matchRepo.CreateOrUpdate(ctx, match))

		// When: GetByID is called with the existing ID
		retrievedMatch, err := matchRepo.GetByID(ctx, match.ID)

		// Then: the retrieved match should equal the saved one
		require.NoError(t, err)
		assert.Equal(t, match, retrievedMatch)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage, 0)

		// When: GetByID is called with a non-existent ID
		retrievedMatch, err := matchRepo.GetByID(ctx, "9999999")

		// Then: an ErrMatchNotFound error should be returned
		require.ErrorIs(t, err, ErrMatchNotFound)
		assert.Empty(t, retrievedMatch.ID)
	})
}

func TestMatchRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage, 0)

		// Given: a stored match
		match := playingMatch("123")
		require.NoError(t, matchRepo.CreateOrUpdate(ctx, match))

		// When: DeleteByID is called with the existing ID
		err := matchRepo.DeleteByID(ctx, match.ID)

		// Then: the match should be gone
		require.NoError(t, err)

		_, err = matchRepo.GetByID(ctx, match.ID)
		require.ErrorIs(t, err, ErrMatchNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage, 0)

		// When: DeleteByID is called with a non-existent ID
		err := matchRepo.DeleteByID(ctx, "9999999")

		// Then: an ErrMatchNotFound error should be returned
		require.ErrorIs(t, err, ErrMatchNotFound)
	})
}
