package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const gameKeyPrefix = "game:"

var ErrGameAlreadyExists = errors.New("game already exists")

// UpdateFunc changes a game in place. Returning an error discards the change.
type UpdateFunc func(game *entity.Game) error

type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client     *redis.Client
	ttl        time.Duration
	maxRetries int
}

// NewRedisGameRepository - stores games as JSON under game:<id>. Each write refreshes the ttl, so an abandoned
// game disappears after ttl of inactivity. Zero ttl keeps games until they are deleted.
func NewRedisGameRepository(client *redis.Client, ttl time.Duration, maxRetries int) GameRepository {
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &dbGame{
		client:     client,
		ttl:        ttl,
		maxRetries: maxRetries,
	}
}

func (that *dbGame) Create(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	created, err := that.client.SetNX(ctx, gameKey(game.ID), gameJSON, that.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	if !created {
		return fmt.Errorf("%w: %s", ErrGameAlreadyExists, game.ID)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return decodeGame(response)
}

// Update - runs fn inside WATCH/MULTI so concurrent writers to the same game never interleave
// between the read and the write. A conflicting write makes the transaction retry with fresh state.
func (that *dbGame) Update(ctx context.Context, id string, fn UpdateFunc) (*entity.Game, error) {
	key := gameKey(id)

	var updated *entity.Game

	txf := func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return apperror.ErrGameNotFound
		}

		if err != nil {
			return fmt.Errorf("failed to get game: %w", err)
		}

		game, err := decodeGame(response)
		if err != nil {
			return err
		}

		if err = fn(game); err != nil {
			return err
		}

		gameJSON, err := json.Marshal(game)
		if err != nil {
			return fmt.Errorf("could not marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, that.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = game

		return nil
	}

	for range that.maxRetries {
		err := that.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return nil, err
		}

		return updated, nil
	}

	return nil, fmt.Errorf("%w: game %s", apperror.ErrTooManyConflicts, id)
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrGameNotFound
	}

	return nil
}

func gameKey(id string) string {
	return gameKeyPrefix + id
}

func decodeGame(data []byte) (*entity.Game, error) {
	var existingGame entity.Game
	if err := json.Unmarshal(data, &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	if err := existingGame.Validate(); err != nil {
		return nil, err
	}

	return &existingGame, nil
}
