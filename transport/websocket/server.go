package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const (
	shutdownTimeout = 5 * time.Second
	maxMessageSize  = 4096
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, gameID string, step int) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, c *client, msg *Message) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	handlers  map[string]handlerFunc
	gameLocks *stripedLock

	mu            sync.RWMutex
	clients       map[*client]struct{}
	subscriptions map[string]map[*client]struct{}
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},

		handlers:      make(map[string]handlerFunc),
		gameLocks:     newStripedLock(gameLockStripes),
		clients:       make(map[*client]struct{}),
		subscriptions: make(map[string]map[*client]struct{}),
	}

	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameJump] = server.handleGameJump

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server. Open connections are closed once ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}

		that.closeAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and runs it until the peer goes away.
func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS", "remote", r.RemoteAddr)

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)

	c := newClient(conn)
	that.register(c)

	go func() {
		if err := c.writeLoop(); err != nil {
			log.Debug("writer stopped", "error", err)
		}
		_ = conn.Close()
	}()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(r.Context(), c); err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Error("error handling messages", "error", err)
	}

	that.unregister(c)
	log.Info("WebSocket connection closed")
}

// handleMessages - processes messages from the client until the connection fails.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			that.sendError(c, actionError, "malformed message", "bad_request", nil)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			that.sendError(c, message.Action, "unknown action", "unknown_action", nil)
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) register(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[c] = struct{}{}
}

// unregister - forgets the client everywhere and stops its writer.
func (that *Server) unregister(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[c]; !ok {
		return
	}

	delete(that.clients, c)

	for gameID, subscribers := range that.subscriptions {
		delete(subscribers, c)

		if len(subscribers) == 0 {
			delete(that.subscriptions, gameID)
		}
	}

	close(c.send)
}

func (that *Server) subscribe(gameID string, c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	subscribers, ok := that.subscriptions[gameID]
	if !ok {
		subscribers = make(map[*client]struct{})
		that.subscriptions[gameID] = subscribers
	}

	subscribers[c] = struct{}{}
}

func (that *Server) closeAll() {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for c := range that.clients {
		_ = c.conn.Close()
	}
}

// broadcast - sends the message to every connection watching gameID.
func (that *Server) broadcast(gameID string, msg []byte) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for c := range that.subscriptions[gameID] {
		if !c.enqueue(msg) {
			that.logger.Warn("dropping message for slow client", "gameID", gameID)
		}
	}
}

// reply - sends the message to one connection. Only called from that connection's reader.
func (that *Server) reply(c *client, msg []byte) {
	if !c.enqueue(msg) {
		that.logger.Warn("dropping reply for slow client")
	}
}
