package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

func (that *Server) handleNewGame(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	game, err := that.gameUseCase.CreateGame(ctx)
	if err != nil {
		that.sendError(c, msg.Action, "failed to create a new game", apperror.Code(err), nil)
		return fmt.Errorf("failed to create game: %w", err)
	}

	that.subscribe(game.ID, c)
	that.sendGame(c, msg.Action, game)

	log.Info("game created", "gameID", game.ID)

	return nil
}

func (that *Server) handleGameState(ctx context.Context, c *client, msg *Message) error {
	payloadReq, ok := that.readPayload(c, msg)
	if !ok {
		return nil
	}

	defer that.gameLocks.lock(payloadReq.GameID)()

	game, err := that.gameUseCase.GetGame(ctx, payloadReq.GameID)
	if err != nil {
		that.sendError(c, msg.Action, err.Error(), apperror.Code(err), nil)
		return nil
	}

	that.subscribe(game.ID, c)
	that.sendGame(c, msg.Action, game)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, ok := that.readPayload(c, msg)
	if !ok {
		return nil
	}

	if payloadReq.Cell == nil {
		that.sendError(c, msg.Action, "cell is required", "bad_request", nil)
		return nil
	}

	// held until the broadcast is queued so watchers get updates in the order they were stored
	defer that.gameLocks.lock(payloadReq.GameID)()

	game, err := that.gameUseCase.MakeTurn(ctx, payloadReq.GameID, *payloadReq.Cell)
	if err != nil {
		that.sendError(c, msg.Action, err.Error(), apperror.Code(err), game)
		return nil
	}

	that.subscribe(game.ID, c)
	that.broadcastGame(msg.Action, game)

	log.Info("turn made", "gameID", game.ID, "cell", *payloadReq.Cell)

	return nil
}

func (that *Server) handleGameJump(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameJump")

	payloadReq, ok := that.readPayload(c, msg)
	if !ok {
		return nil
	}

	if payloadReq.Step == nil {
		that.sendError(c, msg.Action, "step is required", "bad_request", nil)
		return nil
	}

	defer that.gameLocks.lock(payloadReq.GameID)()

	game, err := that.gameUseCase.JumpTo(ctx, payloadReq.GameID, *payloadReq.Step)
	if err != nil {
		that.sendError(c, msg.Action, err.Error(), apperror.Code(err), game)
		return nil
	}

	that.subscribe(game.ID, c)
	that.broadcastGame(msg.Action, game)

	log.Info("jumped", "gameID", game.ID, "step", *payloadReq.Step)

	return nil
}

// readPayload - decodes the request payload and checks that it names a game.
// On failure the error reply is already sent.
func (that *Server) readPayload(c *client, msg *Message) (*RequestPayload, bool) {
	var payloadReq RequestPayload

	if len(msg.Payload) == 0 {
		that.sendError(c, msg.Action, "payload is required", "bad_request", nil)
		return nil, false
	}

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		that.sendError(c, msg.Action, "malformed payload", "bad_request", nil)
		return nil, false
	}

	if payloadReq.GameID == "" {
		that.sendError(c, msg.Action, "game_id is required", "bad_request", nil)
		return nil, false
	}

	return &payloadReq, true
}

func (that *Server) sendGame(c *client, action string, game *entity.Game) {
	if data, ok := that.encode(action, ResponsePayload{Game: tictactoe.Describe(game)}); ok {
		that.reply(c, data)
	}
}

func (that *Server) broadcastGame(action string, game *entity.Game) {
	if data, ok := that.encode(action, ResponsePayload{Game: tictactoe.Describe(game)}); ok {
		that.broadcast(game.ID, data)
	}
}

// sendError - replies with the rejection. game, when known, is the unchanged state.
func (that *Server) sendError(c *client, action, errorMsg, reason string, game *entity.Game) {
	payload := ResponsePayload{Error: errorMsg, Reason: reason}
	if game != nil {
		payload.Game = tictactoe.Describe(game)
	}

	if data, ok := that.encode(action, payload); ok {
		that.reply(c, data)
	}
}

func (that *Server) encode(action string, payload ResponsePayload) ([]byte, bool) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		that.logger.Error("failed to marshal payload", "error", err)
		return nil, false
	}

	data, err := json.Marshal(Message{Action: action, Payload: payloadBytes})
	if err != nil {
		that.logger.Error("failed to marshal message", "error", err)
		return nil, false
	}

	return data, true
}
