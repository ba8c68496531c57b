package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

type memGame struct {
	mu    sync.Mutex
	games map[string]*entity.Game
}

// NewMemoryGameRepository - keeps games in process memory. Callers only ever see clones.
func NewMemoryGameRepository() GameRepository {
	return &memGame{
		games: make(map[string]*entity.Game),
	}
}

func (that *memGame) Create(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[game.ID]; ok {
		return fmt.Errorf("%w: %s", ErrGameAlreadyExists, game.ID)
	}

	that.games[game.ID] = game.Clone()

	return nil
}

func (that *memGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return game.Clone(), nil
}

func (that *memGame) Update(_ context.Context, id string, fn UpdateFunc) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	game := stored.Clone()
	if err := fn(game); err != nil {
		return nil, err
	}

	that.games[id] = game

	return game.Clone(), nil
}

func (that *memGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}
