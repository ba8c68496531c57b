package apperror

import "errors"

var (
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrGameAlreadyWon   = errors.New("game is already won")
	ErrIndexOutOfRange  = errors.New("history index out of range")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrGameNotFound     = errors.New("game not found")
	ErrCorruptedGame    = errors.New("game record is corrupted")
	ErrTooManyConflicts = errors.New("too many concurrent updates")
)

// Code - a stable machine-readable name for known errors, used on the wire.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, ErrGameAlreadyWon):
		return "game_already_won"
	case errors.Is(err, ErrIndexOutOfRange):
		return "index_out_of_range"
	case errors.Is(err, ErrInvalidCell):
		return "invalid_cell"
	case errors.Is(err, ErrGameNotFound):
		return "game_not_found"
	case errors.Is(err, ErrTooManyConflicts):
		return "too_many_conflicts"
	default:
		return "internal"
	}
}
