// FILE: internal/core/errors.go
package core

import (
	"errors"
	"fmt"
)

// Rejection taxonomy. All of these are ordinary outcomes of play,
// returned as values and matchable with errors.Is; none aborts the
// process.
var (
	// ErrOutOfBounds marks a coordinate outside [0,7]x[0,7].
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrIllegalMove marks a move the validator refuses.
	ErrIllegalMove = errors.New("illegal move")

	// ErrGameNotStarted marks a move applied before Start.
	ErrGameNotStarted = errors.New("game not started")

	// ErrGameOver marks a move applied after a terminal status.
	ErrGameOver = errors.New("game already over")
)

// ErrIllegalCastling surfaces failed castling preconditions (moved king
// or rook, blocked path, king crossing an attacked square) distinctly.
// It wraps ErrIllegalMove, so errors.Is(err, ErrIllegalMove) still holds.
var ErrIllegalCastling = fmt.Errorf("%w: castling not allowed", ErrIllegalMove)
