package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/playroom/internal/entity"
	"github.com/rocketscienceinc/playroom/internal/leaderboard"
)

type leaderboardService interface {
	Entries() []entity.LeaderboardEntry
	Record(ctx context.Context, update leaderboard.Update) ([]entity.LeaderboardEntry, error)
	Clear(ctx context.Context) error
	Load(ctx context.Context, entries []entity.LeaderboardEntry) ([]entity.LeaderboardEntry, error)
}

type leaderboardEntryView struct {
	entity.LeaderboardEntry
	WinRate float64 `json:"winRate"`
}

type leaderboardHandlers struct {
	logger *slog.Logger
	scores leaderboardService
}

func newLeaderboardHandlers(logger *slog.Logger, scores leaderboardService) *leaderboardHandlers {
	return &leaderboardHandlers{
		logger: logger.With("handler", "leaderboard"),
		scores: scores,
	}
}

func (that *leaderboardHandlers) routes(r chi.Router) {
	r.Get("/", that.list)
	r.Post("/", that.record)
	r.Put("/", that.load)
	r.Delete("/", that.clear)
}

func (that *leaderboardHandlers) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toLeaderboardView(that.scores.Entries()))
}

func (that *leaderboardHandlers) record(w http.ResponseWriter, r *http.Request) {
	var update leaderboard.Update
	if err := decodeJSON(r, &update); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	entries, err := that.scores.Record(r.Context(), update)
	if err != nil {
		writeError(w, that.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toLeaderboardView(entries))
}

func (that *leaderboardHandlers) load(w http.ResponseWriter, r *http.Request) {
	var entries []entity.LeaderboardEntry
	if err := decodeJSON(r, &entries); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	loaded, err := that.scores.Load(r.Context(), entries)
	if err != nil {
		writeError(w, that.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toLeaderboardView(loaded))
}

func (that *leaderboardHandlers) clear(w http.ResponseWriter, r *http.Request) {
	if err := that.scores.Clear(r.Context()); err != nil {
		writeError(w, that.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toLeaderboardView(entries []entity.LeaderboardEntry) []leaderboardEntryView {
	views := make([]leaderboardEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, leaderboardEntryView{
			LeaderboardEntry: entry,
			WinRate:          leaderboard.WinRate(entry),
		})
	}

	return views
}
