package entity

// GameView is what a presentation layer needs to draw one game.
type GameView struct {
	ID          string   `json:"id"`
	Board       Board    `json:"board"`
	Turn        Mark     `json:"turn"`
	Winner      Mark     `json:"winner,omitempty"`
	WinningLine []int    `json:"winning_line,omitempty"`
	Status      string   `json:"status"`
	CurrentStep int      `json:"current_step"`
	Moves       []string `json:"moves"`
	BoardFull   bool     `json:"board_full"`
}
