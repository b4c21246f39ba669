package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/playroom/internal/entity"
	"github.com/rocketscienceinc/playroom/internal/leaderboard"
)

type leaderboardRepo interface {
	Load(ctx context.Context) ([]entity.LeaderboardEntry, error)
	Save(ctx context.Context, entries []entity.LeaderboardEntry) error
}

type leaderboardMetrics interface {
	SetLeaderboardSize(size int)
}

// LeaderboardManager owns the in-memory leaderboard and writes every change
// through to the repository. A failed save leaves the previous entries in place.
type LeaderboardManager struct {
	logger *slog.Logger
	mu     sync.Mutex

	repo       leaderboardRepo
	aggregator *leaderboard.Aggregator
	metrics    leaderboardMetrics

	entries []entity.LeaderboardEntry
}

func NewLeaderboardManager(
	logger *slog.Logger,
	repo leaderboardRepo,
	aggregator *leaderboard.Aggregator,
	metrics leaderboardMetrics,
) *LeaderboardManager {
	return &LeaderboardManager{
		logger: logger.With("component", "leaderboard_manager"),

		repo:       repo,
		aggregator: aggregator,
		metrics:    metrics,

		entries: []entity.LeaderboardEntry{},
	}
}

// Rehydrate replaces the in-memory entries with the persisted collection.
func (that *LeaderboardManager) Rehydrate(ctx context.Context) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	persisted, err := that.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}

	that.entries = that.aggregator.Load(persisted)
	that.metrics.SetLeaderboardSize(len(that.entries))

	that.logger.Info("leaderboard rehydrated", "entries", len(that.entries))

	return nil
}

func (that *LeaderboardManager) Entries() []entity.LeaderboardEntry {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.aggregator.Load(that.entries)
}

func (that *LeaderboardManager) Record(ctx context.Context, update leaderboard.Update) ([]entity.LeaderboardEntry, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	next, err := that.aggregator.Apply(that.entries, update)
	if err != nil {
		return nil, fmt.Errorf("failed to apply result: %w", err)
	}

	return that.commit(ctx, next)
}

// RecordMatch adds both players' results of a finished match in one change.
func (that *LeaderboardManager) RecordMatch(ctx context.Context, match entity.Match) error {
	updates, err := leaderboard.MatchResults(match)
	if err != nil {
		return fmt.Errorf("failed to read match results: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	next, err := that.aggregator.ApplyAll(that.entries, updates...)
	if err != nil {
		return fmt.Errorf("failed to apply match results: %w", err)
	}

	_, err = that.commit(ctx, next)

	return err
}

func (that *LeaderboardManager) Clear(ctx context.Context) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, err := that.commit(ctx, that.aggregator.Clear())

	return err
}

// Load replaces the collection with entries as given.
func (that *LeaderboardManager) Load(ctx context.Context, entries []entity.LeaderboardEntry) ([]entity.LeaderboardEntry, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.commit(ctx, that.aggregator.Load(entries))
}

func (that *LeaderboardManager) commit(ctx context.Context, next []entity.LeaderboardEntry) ([]entity.LeaderboardEntry, error) {
	if err := that.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save leaderboard: %w", err)
	}

	that.entries = next
	that.metrics.SetLeaderboardSize(len(next))

	return that.aggregator.Load(next), nil
}
