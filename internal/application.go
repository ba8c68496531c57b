package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-history/internal/config"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-history/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-history/transport/rest"
	"github.com/rocketscienceinc/tictactoe-history/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the REST and WebSocket servers until ctx is canceled or one of them fails.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gameRepo, check, closeStore, err := openGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStore(); err != nil {
			log.Error("could not close game storage", "error", err)
		}
	}()

	log.Info("game storage ready", "storage", conf.Storage)

	gameUseCase := usecase.NewGameUseCase(logger, gameRepo)

	errCh := make(chan error, 2)

	// run HTTP server
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameUseCase, check).Start(ctx, conf.HTTPPort); httpErr != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", httpErr)
		}
	}()

	// run Websocket server
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, gameUseCase).Start(ctx, conf.SocketPort); wsErr != nil {
			errCh <- fmt.Errorf("WebSocket server error: %w", wsErr)
		}
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// openGameRepository - builds the configured game store together with its health check and closer.
func openGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, rest.HealthCheck, func() error, error) {
	if conf.Storage != config.StorageRedis {
		return repository.NewMemoryGameRepository(), nil, func() error { return nil }, nil
	}

	addr := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return nil, nil, nil, ErrAddrNotFound
	}

	client, err := storage.NewRedisStorage(ctx, addr)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	check := func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}

	return repository.NewRedisGameRepository(client, conf.Redis.GameTTL, conf.Redis.MaxRetries), check, client.Close, nil
}
