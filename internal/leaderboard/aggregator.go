// Package leaderboard folds match results into per-player standings.
package leaderboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/playroom/internal/apperror"
	"github.com/rocketscienceinc/playroom/internal/entity"
)

// Update is one result recorded against a player name.
type Update struct {
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
	Result     string `json:"result"`
}

type Aggregator struct {
	now   func() time.Time
	newID func() string
}

type Option func(*Aggregator)

func WithClock(now func() time.Time) Option {
	return func(that *Aggregator) {
		that.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(that *Aggregator) {
		that.newID = newID
	}
}

func NewAggregator(opts ...Option) *Aggregator {
	aggregator := &Aggregator{
		now:   time.Now,
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(aggregator)
	}

	return aggregator
}

// Apply returns a new collection with the update folded in, sorted by total
// score descending. Entries with equal scores keep their relative order.
func (that *Aggregator) Apply(entries []entity.LeaderboardEntry, update Update) ([]entity.LeaderboardEntry, error) {
	// entries are keyed on the exact name; blank names are refused
	name := update.PlayerName
	if strings.TrimSpace(name) == "" {
		return entries, apperror.ErrEmptyPlayerName
	}

	if !entity.IsKnownResult(update.Result) {
		return entries, fmt.Errorf("%w: %q", apperror.ErrUnknownResult, update.Result)
	}

	next := make([]entity.LeaderboardEntry, len(entries), len(entries)+1)
	copy(next, entries)

	now := that.now().UTC()

	index := indexByName(next, name)
	if index == -1 {
		next = append(next, entity.LeaderboardEntry{
			ID:   that.newID(),
			Name: name,
		})
		index = len(next) - 1
	}

	entry := &next[index]
	entry.TotalScore += update.Score
	entry.GamesPlayed++
	entry.LastPlayed = now

	switch update.Result {
	case entity.ResultWin:
		entry.Wins++
	case entity.ResultLoss:
		entry.Losses++
	case entity.ResultDraw:
		entry.Draws++
	}

	sort.SliceStable(next, func(i, j int) bool {
		return next[i].TotalScore > next[j].TotalScore
	})

	return next, nil
}

// ApplyAll folds the updates in order; the first rejected update aborts and
// leaves the collection untouched.
func (that *Aggregator) ApplyAll(entries []entity.LeaderboardEntry, updates ...Update) ([]entity.LeaderboardEntry, error) {
	next := entries
	for _, update := range updates {
		var err error
		if next, err = that.Apply(next, update); err != nil {
			return entries, err
		}
	}

	return next, nil
}

func (that *Aggregator) Clear() []entity.LeaderboardEntry {
	return []entity.LeaderboardEntry{}
}

// Load replaces the collection with a previously persisted one, as-is.
func (that *Aggregator) Load(entries []entity.LeaderboardEntry) []entity.LeaderboardEntry {
	loaded := make([]entity.LeaderboardEntry, len(entries))
	copy(loaded, entries)

	return loaded
}

// MatchResults converts a finished match into one update per player, each
// carrying that player's match score.
func MatchResults(match entity.Match) ([]Update, error) {
	if !match.IsFinished() {
		return nil, apperror.ErrMatchNotFinished
	}

	if !match.Players.IsSet() {
		return nil, apperror.ErrPlayersNotSet
	}

	x, o := match.Players.X, match.Players.O

	switch match.FinalWinner {
	case entity.PlayerX:
		return []Update{
			{PlayerName: x.Name, Score: x.Score, Result: entity.ResultWin},
			{PlayerName: o.Name, Score: o.Score, Result: entity.ResultLoss},
		}, nil
	case entity.PlayerO:
		return []Update{
			{PlayerName: o.Name, Score: o.Score, Result: entity.ResultWin},
			{PlayerName: x.Name, Score: x.Score, Result: entity.ResultLoss},
		}, nil
	default:
		return []Update{
			{PlayerName: x.Name, Score: x.Score, Result: entity.ResultDraw},
			{PlayerName: o.Name, Score: o.Score, Result: entity.ResultDraw},
		}, nil
	}
}

// WinRate is the share of won games in percent.
func WinRate(entry entity.LeaderboardEntry) float64 {
	if entry.GamesPlayed == 0 {
		return 0
	}

	return float64(entry.Wins) / float64(entry.GamesPlayed) * 100
}

func indexByName(entries []entity.LeaderboardEntry, name string) int {
	for i := range entries {
		if entries[i].Name == name {
			return i
		}
	}

	return -1
}
