// FILE: internal/core/core.go
package core

// Color identifies a side. The byte values match FEN's active-color field.
type Color byte

const (
	ColorWhite Color = 'w'
	ColorBlack Color = 'b'
)

func (c Color) Valid() bool {
	return c == ColorWhite || c == ColorBlack
}

func (c Color) Opposite() Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// PawnDirection is the row delta this color's pawns advance by.
func (c Color) PawnDirection() int {
	if c == ColorWhite {
		return 1
	}
	return -1
}

// BackRow is the row this color's pieces start on.
func (c Color) BackRow() int {
	if c == ColorWhite {
		return 0
	}
	return 7
}

// PawnRow is the row this color's pawns start on.
func (c Color) PawnRow() int {
	if c == ColorWhite {
		return 1
	}
	return 6
}

// PromotionRow is the row this color's pawns promote on.
func (c Color) PromotionRow() int {
	if c == ColorWhite {
		return 7
	}
	return 0
}

func (c Color) String() string {
	if c == ColorWhite {
		return "White"
	}
	return "Black"
}

// PieceKind enumerates the six piece kinds. The zero value marks the
// absence of a piece and stands in wherever a kind is optional.
type PieceKind uint8

const (
	NoKind PieceKind = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

func (k PieceKind) Valid() bool {
	return k >= King && k <= Pawn
}

func (k PieceKind) String() string {
	switch k {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	default:
		return "none"
	}
}

// GameStatus is the lifecycle state of a game. Transitions only move
// forward: NotStarted -> InProgress -> one terminal status.
type GameStatus uint8

const (
	StatusNotStarted GameStatus = iota
	StatusInProgress
	StatusWhiteWins
	StatusBlackWins
	StatusStalemate
	StatusDrawInsufficientMaterial
	StatusDrawFiftyMoves
	StatusResigned
)

// Terminal reports whether no further moves may be applied.
func (s GameStatus) Terminal() bool {
	return s != StatusNotStarted && s != StatusInProgress
}

func (s GameStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not started"
	case StatusInProgress:
		return "in progress"
	case StatusWhiteWins:
		return "White wins"
	case StatusBlackWins:
		return "Black wins"
	case StatusStalemate:
		return "Stalemate"
	case StatusDrawInsufficientMaterial:
		return "Draw by insufficient material"
	case StatusDrawFiftyMoves:
		return "Draw by fifty-move rule"
	case StatusResigned:
		return "Resigned"
	default:
		return "unknown"
	}
}

// Code returns the stable snake_case identifier used by storage and the
// archive API.
func (s GameStatus) Code() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusInProgress:
		return "in_progress"
	case StatusWhiteWins:
		return "white_wins"
	case StatusBlackWins:
		return "black_wins"
	case StatusStalemate:
		return "stalemate"
	case StatusDrawInsufficientMaterial:
		return "draw_insufficient_material"
	case StatusDrawFiftyMoves:
		return "draw_fifty_moves"
	case StatusResigned:
		return "resigned"
	default:
		return "unknown"
	}
}
