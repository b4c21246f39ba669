package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/playroom/internal/apperror"
	"github.com/rocketscienceinc/playroom/internal/entity"
	"github.com/rocketscienceinc/playroom/internal/transport/productapi"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	Match  *entity.Match     `json:"match,omitempty"`
}

var (
	rejectedActionErrors = []error{
		apperror.ErrGameIsNotStarted,
		apperror.ErrRoundNotPlaying,
		apperror.ErrMatchNotPlaying,
		apperror.ErrLastRound,
		apperror.ErrCellOccupied,
		apperror.ErrPlayersNotSet,
	}

	invalidInputErrors = []error{
		apperror.ErrInvalidCell,
		apperror.ErrPlayerNameTooShort,
		apperror.ErrSamePlayerNames,
		apperror.ErrEmptyPlayerName,
		apperror.ErrUnknownResult,
	}

	upstreamErrors = []error{
		productapi.ErrFetchProducts,
		productapi.ErrFetchProduct,
		productapi.ErrCreateProduct,
		productapi.ErrUpdateProduct,
		productapi.ErrDeleteProduct,
	}
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps err onto a status code. Not-found wins over upstream
// failures so a missing product answers 404.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var validationErr entity.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Fields: validationErr})
	case errors.Is(err, apperror.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case isAny(err, rejectedActionErrors):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case isAny(err, invalidInputErrors):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case isAny(err, upstreamErrors):
		log.Warn("products API failure", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
