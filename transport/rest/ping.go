package rest

import (
	"context"
	"log/slog"
	"net/http"
)

// HealthCheck reports whether a backing dependency (the game store) is usable.
type HealthCheck func(ctx context.Context) error

type pingHandler struct {
	logger *slog.Logger
	check  HealthCheck
}

func newPingHandler(logger *slog.Logger, check HealthCheck) *pingHandler {
	return &pingHandler{
		logger: logger.With("method", "Ping"),
		check:  check,
	}
}

func (that *pingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if that.check != nil {
		if err := that.check(r.Context()); err != nil {
			that.logger.Error("health check failed", "error", err)
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
