// FILE: internal/game/events.go

package game

import (
	"chesskit/internal/core"
)

// EventKind enumerates the notifications a game emits over its
// lifecycle.
type EventKind uint8

const (
	EventGameStarted EventKind = iota
	EventMoveMade
	EventTurnChanged
	EventCheck
	EventCheckmate
	EventStalemate
	EventMoveRejected
	EventResigned
	EventGameEnded
)

func (k EventKind) String() string {
	switch k {
	case EventGameStarted:
		return "game_started"
	case EventMoveMade:
		return "move_made"
	case EventTurnChanged:
		return "turn_changed"
	case EventCheck:
		return "check"
	case EventCheckmate:
		return "checkmate"
	case EventStalemate:
		return "stalemate"
	case EventMoveRejected:
		return "move_rejected"
	case EventResigned:
		return "resigned"
	case EventGameEnded:
		return "game_ended"
	default:
		return "unknown"
	}
}

// Event carries the details of a single notification. Move is populated
// for move events, Err only for rejections. Color identifies the side
// the event concerns: the mover for moves, the checked or mated side
// for check events, the side to act for turn changes.
type Event struct {
	Kind   EventKind
	Color  core.Color
	Move   core.Move
	Status core.GameStatus
	Err    error
}

// Observer receives game events synchronously, in emission order, on
// the goroutine driving the game. Implementations that need to block
// should hand the event off themselves.
type Observer interface {
	HandleEvent(Event)
}
