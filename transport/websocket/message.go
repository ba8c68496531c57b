package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const (
	actionGameNew   = "game:new"
	actionGameState = "game:state"
	actionGameTurn  = "game:turn"
	actionGameJump  = "game:jump"
	actionError     = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload - fields accepted by the game actions. Which ones are required depends on the action.
type RequestPayload struct {
	GameID string `json:"game_id,omitempty"`
	Cell   *int   `json:"cell,omitempty"`
	Step   *int   `json:"step,omitempty"`
}

type ResponsePayload struct {
	Game   *entity.GameView `json:"game,omitempty"`
	Error  string           `json:"error,omitempty"`
	Reason string           `json:"reason,omitempty"`
}
