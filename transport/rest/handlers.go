package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

const (
	gameIDParam = "gameID"

	maxBodySize = 4096
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, gameID string, step int) (*entity.Game, error)
	DeleteGame(ctx context.Context, gameID string) error
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Step *int `json:"step"`
}

// ErrorResponse - body of every non-2xx answer. Game is set when the request was understood but rejected,
// so the client can redraw the unchanged state.
type ErrorResponse struct {
	Error  string           `json:"error"`
	Reason string           `json:"reason"`
	Game   *entity.GameView `json:"game,omitempty"`
}

type gameHandlers struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

func (that *gameHandlers) createGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, "createGame", err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, tictactoe.Describe(game))
}

func (that *gameHandlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.GetGame(r.Context(), chi.URLParam(r, gameIDParam))
	if err != nil {
		that.writeError(w, "getGame", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, tictactoe.Describe(game))
}

func (that *gameHandlers) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeBody(w, r, &req); err != nil || req.Cell == nil {
		that.writeBadRequest(w, "cell is required")
		return
	}

	game, err := that.gameUseCase.MakeTurn(r.Context(), chi.URLParam(r, gameIDParam), *req.Cell)
	if err != nil {
		that.writeError(w, "makeTurn", err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, tictactoe.Describe(game))
}

func (that *gameHandlers) jumpTo(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := decodeBody(w, r, &req); err != nil || req.Step == nil {
		that.writeBadRequest(w, "step is required")
		return
	}

	game, err := that.gameUseCase.JumpTo(r.Context(), chi.URLParam(r, gameIDParam), *req.Step)
	if err != nil {
		that.writeError(w, "jumpTo", err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, tictactoe.Describe(game))
}

func (that *gameHandlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.DeleteGame(r.Context(), chi.URLParam(r, gameIDParam)); err != nil {
		that.writeError(w, "deleteGame", err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	decoder.DisallowUnknownFields()

	return decoder.Decode(dst)
}

func (that *gameHandlers) writeBadRequest(w http.ResponseWriter, message string) {
	that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Reason: "bad_request"})
}

func (that *gameHandlers) writeError(w http.ResponseWriter, method string, err error, game *entity.Game) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	}

	response := ErrorResponse{
		Error:  err.Error(),
		Reason: apperror.Code(err),
	}

	if game != nil {
		response.Game = tictactoe.Describe(game)
	}

	that.writeJSON(w, status, response)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrGameAlreadyWon):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCell), errors.Is(err, apperror.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrTooManyConflicts):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (that *gameHandlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
