package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/playroom/internal/entity"
)

type gameService interface {
	StartGame(ctx context.Context, playerX, playerO string) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Match, error)
	NextRound(ctx context.Context, id string) (*entity.Match, error)
	ResetRound(ctx context.Context, id string) (*entity.Match, error)
	ResetMatch(ctx context.Context, id string) (*entity.Match, error)
	Rematch(ctx context.Context, id string) (*entity.Match, error)
	DeleteMatch(ctx context.Context, id string) error
}

type matchAction func(ctx context.Context, id string) (*entity.Match, error)

type startGameRequest struct {
	PlayerX string `json:"playerX"`
	PlayerO string `json:"playerO"`
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type matchHandlers struct {
	logger *slog.Logger
	games  gameService
}

func newMatchHandlers(logger *slog.Logger, games gameService) *matchHandlers {
	return &matchHandlers{
		logger: logger.With("handler", "matches"),
		games:  games,
	}
}

func (that *matchHandlers) routes(r chi.Router) {
	r.Post("/", that.create)
	r.Get("/{id}", that.get)
	r.Delete("/{id}", that.delete)
	r.Post("/{id}/moves", that.move)
	r.Post("/{id}/next-round", that.act(that.games.NextRound))
	r.Post("/{id}/reset-round", that.act(that.games.ResetRound))
	r.Post("/{id}/rematch", that.act(that.games.Rematch))
	r.Post("/{id}/reset", that.act(that.games.ResetMatch))
}

func (that *matchHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	match, err := that.games.StartGame(r.Context(), req.PlayerX, req.PlayerO)
	if err != nil {
		writeError(w, that.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, match)
}

func (that *matchHandlers) get(w http.ResponseWriter, r *http.Request) {
	match, err := that.games.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, that.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, match)
}

func (that *matchHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteMatch(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, that.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *matchHandlers) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil || req.Cell == nil {
		writeBadRequest(w, "cell is required")
		return
	}

	match, err := that.games.MakeMove(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	that.writeMatch(w, match, err)
}

func (that *matchHandlers) act(action matchAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := action(r.Context(), chi.URLParam(r, "id"))
		that.writeMatch(w, match, err)
	}
}

// writeMatch answers a rejected action with 409 and the unchanged match.
func (that *matchHandlers) writeMatch(w http.ResponseWriter, match *entity.Match, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, match)
		return
	}

	if match != nil && isAny(err, rejectedActionErrors) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Match: match})
		return
	}

	writeError(w, that.logger, err)
}
