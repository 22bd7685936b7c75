// FILE: internal/core/move.go
package core

import "fmt"

// MoveKind classifies how a move mutates the board.
type MoveKind uint8

const (
	MoveNormal MoveKind = iota
	MoveCapture
	MovePawnDouble
	MoveEnPassant
	MoveCastleKingside
	MoveCastleQueenside
	MovePromotion
)

func (k MoveKind) String() string {
	switch k {
	case MoveCapture:
		return "capture"
	case MovePawnDouble:
		return "pawn double move"
	case MoveEnPassant:
		return "en passant"
	case MoveCastleKingside:
		return "castle kingside"
	case MoveCastleQueenside:
		return "castle queenside"
	case MovePromotion:
		return "promotion"
	default:
		return "normal"
	}
}

// Move describes a single move. Moves are immutable values built by the
// movement rules and consumed by the game's apply step; callers never
// assemble them by hand.
type Move struct {
	From      Position
	To        Position
	Piece     PieceKind
	Color     Color
	Kind      MoveKind
	Captured  PieceKind // NoKind when nothing is captured
	Promotion PieceKind // NoKind unless Kind is MovePromotion
}

// IsCapture reports whether the move removes an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoKind
}

// String renders the move in UCI form: from square, to square, and a
// trailing promotion letter when promoting. Castling appears as the
// king's two-square move.
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Kind == MovePromotion {
		s += PromotionLetter(m.Promotion)
	}
	return s
}

// PromotionLetter is the lowercase UCI letter for a promotable kind, or
// an empty string for anything else.
func PromotionLetter(k PieceKind) string {
	switch k {
	case Queen:
		return "q"
	case Rook:
		return "r"
	case Bishop:
		return "b"
	case Knight:
		return "n"
	default:
		return ""
	}
}

// ParseUCI splits a UCI move string ("e2e4", "e7e8q") into its squares
// and optional promotion kind. It performs no legality checking.
func ParseUCI(s string) (Position, Position, PieceKind, error) {
	if len(s) != 4 && len(s) != 5 {
		return Position{}, Position{}, NoKind, fmt.Errorf("%w: malformed move %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Position{}, Position{}, NoKind, fmt.Errorf("%w: malformed move %q", ErrIllegalMove, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Position{}, Position{}, NoKind, fmt.Errorf("%w: malformed move %q", ErrIllegalMove, s)
	}
	promotion := NoKind
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promotion = Queen
		case 'r':
			promotion = Rook
		case 'b':
			promotion = Bishop
		case 'n':
			promotion = Knight
		default:
			return Position{}, Position{}, NoKind, fmt.Errorf("%w: promotion letter %q", ErrIllegalMove, s[4])
		}
	}
	return from, to, promotion, nil
}
