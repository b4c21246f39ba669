package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/playroom/internal/entity"
)

const DefaultLeaderboardKey = "leaderboard"

type LeaderboardRepository interface {
	Load(ctx context.Context) ([]entity.LeaderboardEntry, error)
	Save(ctx context.Context, entries []entity.LeaderboardEntry) error
}

type dbLeaderboard struct {
	client *redis.Client
	key    string
}

// NewLeaderboardRepository keeps the whole leaderboard as one JSON document under key.
func NewLeaderboardRepository(client *redis.Client, key string) LeaderboardRepository {
	if key == "" {
		key = DefaultLeaderboardKey
	}

	return &dbLeaderboard{
		client: client,
		key:    key,
	}
}

// Load returns an empty collection when nothing was saved yet.
func (that *dbLeaderboard) Load(ctx context.Context) ([]entity.LeaderboardEntry, error) {
	response, err := that.client.Get(ctx, that.key).Result()
	if errors.Is(err, redis.Nil) {
		return []entity.LeaderboardEntry{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	var entries []entity.LeaderboardEntry
	if err = json.Unmarshal([]byte(response), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leaderboard: %w", err)
	}

	if entries == nil {
		entries = []entity.LeaderboardEntry{}
	}

	return entries, nil
}

func (that *dbLeaderboard) Save(ctx context.Context, entries []entity.LeaderboardEntry) error {
	if entries == nil {
		entries = []entity.LeaderboardEntry{}
	}

	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("could not marshal leaderboard: %w", err)
	}

	if err = that.client.Set(ctx, that.key, entriesJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set leaderboard: %w", err)
	}

	return nil
}
