package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type GameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, gameID string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, gameID string, step int) (*entity.Game, error)

	DeleteGame(ctx context.Context, gameID string) error
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, fn repository.UpdateFunc) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameUseCase struct {
	logger   *slog.Logger
	gameRepo gameRepo
}

func NewGameUseCase(logger *slog.Logger, gameRepo gameRepo) GameUseCase {
	return &gameUseCase{
		logger:   logger.With("component", "game_usecase"),
		gameRepo: gameRepo,
	}
}

func (that *gameUseCase) CreateGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString())

	if err := that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *gameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// MakeTurn - applies a move atomically. When the move is rejected the unchanged game is returned
// together with the error so the caller can still redraw it.
func (that *gameUseCase) MakeTurn(ctx context.Context, gameID string, cell int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", gameID, "cell", cell)

	game, err := that.gameRepo.Update(ctx, gameID, func(game *entity.Game) error {
		return tictactoe.ApplyMove(game, cell)
	})
	if err != nil {
		log.Debug("turn rejected", "error", err)
		return that.unchanged(ctx, gameID, fmt.Errorf("failed to make turn: %w", err))
	}

	if result := tictactoe.Evaluate(game.Current()); result.HasWinner() {
		log.Info("game won", "winner", result.Winner, "line", result.Line)
	}

	return game, nil
}

// JumpTo - moves the history pointer atomically.
func (that *gameUseCase) JumpTo(ctx context.Context, gameID string, step int) (*entity.Game, error) {
	log := that.logger.With("method", "JumpTo", "gameID", gameID, "step", step)

	game, err := that.gameRepo.Update(ctx, gameID, func(game *entity.Game) error {
		return tictactoe.JumpTo(game, step)
	})
	if err != nil {
		log.Debug("jump rejected", "error", err)
		return that.unchanged(ctx, gameID, fmt.Errorf("failed to jump: %w", err))
	}

	return game, nil
}

func (that *gameUseCase) DeleteGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", gameID)

	return nil
}

// unchanged - reloads the stored game after a rejected operation. Storage failures are logged and
// the original rejection is returned without a game.
func (that *gameUseCase) unchanged(ctx context.Context, gameID string, cause error) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if !errors.Is(cause, err) {
			that.logger.Warn("failed to reload game", "gameID", gameID, "error", err)
		}
		return nil, cause
	}

	return game, cause
}
