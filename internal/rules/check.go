// FILE: internal/rules/check.go

package rules

import (
	"fmt"

	"chesskit/internal/board"
	"chesskit/internal/core"
)

// IsSquareAttacked reports whether any piece of the given color could
// capture on the square. Pawn forward moves never attack, so a pawn in
// front of the square does not count; its diagonals do.
func IsSquareAttacked(b *board.Board, sq core.Position, by core.Color) bool {
	for _, pc := range b.PiecesOf(by) {
		if CanReach(b, pc, sq) {
			return true
		}
	}
	return false
}

// IsInCheck reports whether the color's king is attacked. Every board
// reachable through Apply carries exactly one king per color, so a
// missing king is an internal inconsistency, not a legal state.
func IsInCheck(b *board.Board, c core.Color) bool {
	kingPos, ok := b.FindKing(c)
	if !ok {
		panic(fmt.Sprintf("rules: no %s king on board", c))
	}
	return IsSquareAttacked(b, kingPos, c.Opposite())
}

// IsCheckmate reports whether the color is in check with no legal reply.
func IsCheckmate(b *board.Board, c core.Color) bool {
	return IsInCheck(b, c) && !HasLegalMove(b, c)
}

// IsStalemate reports whether the color is not in check but has no
// legal move.
func IsStalemate(b *board.Board, c core.Color) bool {
	return !IsInCheck(b, c) && !HasLegalMove(b, c)
}

// HasInsufficientMaterial recognizes the drawn material sets: K vs K,
// K+B vs K, K+N vs K, and K+B vs K+B with both bishops on the same
// square color. Any pawn, rook or queen on the board can still deliver
// mate, as can two minor pieces on one side.
func HasInsufficientMaterial(b *board.Board) bool {
	var white, black []core.Piece
	for _, pc := range b.AllPieces() {
		switch pc.Kind {
		case core.King:
			continue
		case core.Pawn, core.Rook, core.Queen:
			return false
		}
		if pc.Color == core.ColorWhite {
			white = append(white, pc)
		} else {
			black = append(black, pc)
		}
	}

	switch {
	case len(white) == 0 && len(black) == 0:
		return true
	case len(white) == 0 && len(black) == 1:
		return true
	case len(white) == 1 && len(black) == 0:
		return true
	case len(white) == 1 && len(black) == 1:
		return white[0].Kind == core.Bishop && black[0].Kind == core.Bishop &&
			squareShade(white[0].Pos) == squareShade(black[0].Pos)
	default:
		return false
	}
}

// squareShade is 0 for dark squares and 1 for light ones; a1 is dark.
func squareShade(p core.Position) int {
	return (p.Row + p.Col) % 2
}
