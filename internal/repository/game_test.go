package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-history/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRejected = errors.New("rejected")

type repoFactory func(t *testing.T) (context.Context, GameRepository)

func redisRepo(t *testing.T) (context.Context, GameRepository) {
	ctx, st := suite.New(t)

	return ctx, NewRedisGameRepository(st.Storage, time.Minute, 10)
}

func memoryRepo(_ *testing.T) (context.Context, GameRepository) {
	return context.Background(), NewMemoryGameRepository()
}

func TestRedisGameRepository(t *testing.T) {
	runGameRepositoryTests(t, redisRepo)
}

func TestMemoryGameRepository(t *testing.T) {
	runGameRepositoryTests(t, memoryRepo)
}

func runGameRepositoryTests(t *testing.T, newRepo repoFactory) {
	t.Run("Create_and_GetByID", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)

		// Given: a game with one move
		game := entity.NewGame("123")
		require.NoError(t, tictactoe.ApplyMove(game, 4))

		// When: it is stored and read back
		require.NoError(t, gameRepo.Create(ctx, game))
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the stored game matches
		require.NoError(t, err)
		require.Equal(t, game, retrievedGame)
	})

	t.Run("Create_Duplicate", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)

		require.NoError(t, gameRepo.Create(ctx, entity.NewGame("123")))

		err := gameRepo.Create(ctx, entity.NewGame("123"))

		assert.ErrorIs(t, err, ErrGameAlreadyExists)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})

	t.Run("Update_Success", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)
		require.NoError(t, gameRepo.Create(ctx, entity.NewGame("123")))

		// When: a move is applied through Update
		updated, err := gameRepo.Update(ctx, "123", func(game *entity.Game) error {
			return tictactoe.ApplyMove(game, 0)
		})
		require.NoError(t, err)

		// Then: both the returned and the stored game carry the move
		assert.Equal(t, 1, updated.CurrentStep)

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("Update_RejectedLeavesGameUnchanged", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)
		game := entity.NewGame("123")
		require.NoError(t, tictactoe.ApplyMove(game, 0))
		require.NoError(t, gameRepo.Create(ctx, game))

		// When: the update function mutates and then fails
		_, err := gameRepo.Update(ctx, "123", func(game *entity.Game) error {
			game.CurrentStep = 0
			return errRejected
		})

		// Then: the error is passed through and nothing is written
		require.ErrorIs(t, err, errRejected)

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, game, stored)
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)

		_, err := gameRepo.Update(ctx, "9999999", func(*entity.Game) error { return nil })

		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Update_ConcurrentMovesAreSerialized", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)
		require.NoError(t, gameRepo.Create(ctx, entity.NewGame("123")))

		// When: nine writers race for the nine cells
		var wg sync.WaitGroup
		for cell := range entity.BoardSize {
			wg.Add(1)
			go func(cell int) {
				defer wg.Done()
				_, _ = gameRepo.Update(ctx, "123", func(game *entity.Game) error {
					return tictactoe.ApplyMove(game, cell)
				})
			}(cell)
		}
		wg.Wait()

		// Then: every accepted move was applied on top of the previous one
		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		require.NoError(t, stored.Validate())
		assert.Equal(t, stored.LastStep(), stored.CurrentStep)
		assert.GreaterOrEqual(t, stored.LastStep(), 1)
	})

	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)
		require.NoError(t, gameRepo.Create(ctx, entity.NewGame("123")))

		// When: DeleteByID is called with existing ID
		err := gameRepo.DeleteByID(ctx, "123")
		require.NoError(t, err)

		// Then: the game is gone
		_, err = gameRepo.GetByID(ctx, "123")
		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)

		err := gameRepo.DeleteByID(ctx, "9999999")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestRedisGameRepository_CorruptedRecord(t *testing.T) {
	ctx, st := suite.New(t)
	gameRepo := NewRedisGameRepository(st.Storage, 0, 1)

	// Given: a record where O moved first
	err := st.Storage.Set(ctx, "game:bad", `{"id":"bad","history":[["","","","","","","","",""],["O","","","","","","","",""]],"current_step":1}`, 0).Err()
	require.NoError(t, err)

	// When: reading it
	_, err = gameRepo.GetByID(ctx, "bad")

	// Then: the record is refused
	assert.ErrorIs(t, err, apperror.ErrCorruptedGame)
}

func TestRedisGameRepository_TTL(t *testing.T) {
	ctx, st := suite.New(t)
	gameRepo := NewRedisGameRepository(st.Storage, time.Minute, 1)

	// Given: a stored game
	require.NoError(t, gameRepo.Create(ctx, entity.NewGame("123")))

	// When: checking the key expiry
	ttl, err := st.Storage.TTL(ctx, "game:123").Result()
	require.NoError(t, err)

	// Then: the session ttl is set
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisGameRepository_TTLRefreshedOnUpdate(t *testing.T) {
	ctx, st := suite.New(t)
	gameRepo := NewRedisGameRepository(st.Storage, time.Minute, 1)

	// Given: a stored game whose expiry was removed
	require.NoError(t, gameRepo.Create(ctx, entity.NewGame("123")))
	require.NoError(t, st.Storage.Persist(ctx, "game:123").Err())

	// When: a move is stored
	_, err := gameRepo.Update(ctx, "123", func(game *entity.Game) error {
		return tictactoe.ApplyMove(game, 4)
	})
	require.NoError(t, err)

	// Then: the key expires again within the session ttl
	ttl, err := st.Storage.TTL(ctx, "game:123").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisGameRepository_UpdateGivesUpAfterConflicts(t *testing.T) {
	const maxRetries = 2

	ctx, st := suite.New(t)
	gameRepo := NewRedisGameRepository(st.Storage, 0, maxRetries)
	require.NoError(t, gameRepo.Create(ctx, entity.NewGame("123")))

	// Given: another writer that stores X on 8 while every transaction is open
	concurrent := entity.NewGame("123")
	require.NoError(t, tictactoe.ApplyMove(concurrent, 8))
	concurrentJSON, err := json.Marshal(concurrent)
	require.NoError(t, err)

	attempts := 0

	// When: updating
	_, err = gameRepo.Update(ctx, "123", func(game *entity.Game) error {
		attempts++
		if setErr := st.Storage.Set(ctx, "game:123", concurrentJSON, 0).Err(); setErr != nil {
			return setErr
		}
		return tictactoe.ApplyMove(game, 4)
	})

	// Then: it retries the configured number of times and reports the conflict
	require.ErrorIs(t, err, apperror.ErrTooManyConflicts)
	assert.Equal(t, maxRetries, attempts)

	// And: only the other writer's state is stored
	stored, err := gameRepo.GetByID(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, concurrent, stored)
}

func TestMemoryGameRepository_ReturnsClones(t *testing.T) {
	ctx := context.Background()
	gameRepo := NewMemoryGameRepository()
	game := entity.NewGame("123")
	require.NoError(t, gameRepo.Create(ctx, game))

	// When: the caller modifies what it got back
	retrieved, err := gameRepo.GetByID(ctx, "123")
	require.NoError(t, err)
	retrieved.History[0][0] = entity.PlayerX
	game.CurrentStep = 7

	// Then: the stored copy is unaffected
	stored, err := gameRepo.GetByID(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, entity.NewGame("123"), stored)
}
