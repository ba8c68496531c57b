package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	router chi.Router
}

func New(logger *slog.Logger, gameUseCase gameUseCase, check HealthCheck) *Server {
	log := logger.With("component", "rest")

	games := &gameHandlers{
		logger:      log,
		gameUseCase: gameUseCase,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Method(http.MethodGet, "/ping", newPingHandler(log, check))

	router.Route("/games", func(r chi.Router) {
		r.Post("/", games.createGame)

		r.Route("/{"+gameIDParam+"}", func(r chi.Router) {
			r.Get("/", games.getGame)
			r.Delete("/", games.deleteGame)
			r.Post("/moves", games.makeTurn)
			r.Post("/jump", games.jumpTo)
		})
	})

	return &Server{
		logger: log,
		router: router,
	}
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - serves HTTP until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
