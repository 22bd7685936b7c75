// FILE: internal/rules/movement.go

// Package rules implements move generation, move validation and check
// detection for standard chess. Movement is dispatched over the closed
// set of piece kinds; legality layers king-safety simulation on top of
// the pseudo-legal generators.
package rules

import (
	"chesskit/internal/board"
	"chesskit/internal/core"
)

// Direction tables. Declaration order fixes generation order, which
// keeps move lists deterministic for callers and tests.
var (
	rookDirs    = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs   = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingSteps   = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightJumps = [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// promotables lists the kinds a pawn may become, in emission order.
var promotables = [4]core.PieceKind{core.Queen, core.Rook, core.Bishop, core.Knight}

// PseudoLegalMoves enumerates the moves a piece could make by geometry
// and occupancy alone, ignoring whether the mover's king ends up in
// check. Dispatch is a closed switch over the six piece kinds.
func PseudoLegalMoves(b *board.Board, pc core.Piece) []core.Move {
	switch pc.Kind {
	case core.King:
		return kingMoves(b, pc)
	case core.Queen:
		return slideMoves(b, pc, queenDirs[:])
	case core.Rook:
		return slideMoves(b, pc, rookDirs[:])
	case core.Bishop:
		return slideMoves(b, pc, bishopDirs[:])
	case core.Knight:
		return stepMoves(b, pc, knightJumps[:])
	case core.Pawn:
		return pawnMoves(b, pc)
	default:
		return nil
	}
}

// CanReach reports whether the piece could move to the square under
// geometry and occupancy rules. For pawns this covers the capture
// diagonals (against an occupied square or the en-passant target) and
// advances onto empty squares, so attack queries against an occupied
// king square register exactly the diagonal threats. Castling is
// excluded here: it is never a capture.
func CanReach(b *board.Board, pc core.Piece, to core.Position) bool {
	if !to.Valid() || to == pc.Pos {
		return false
	}
	if target, ok := b.PieceAt(to); ok && target.Color == pc.Color {
		return false
	}
	dr := to.Row - pc.Pos.Row
	dc := to.Col - pc.Pos.Col
	switch pc.Kind {
	case core.King:
		return abs(dr) <= 1 && abs(dc) <= 1
	case core.Queen:
		return (dr == 0 || dc == 0 || abs(dr) == abs(dc)) && b.PathClear(pc.Pos, to)
	case core.Rook:
		return (dr == 0 || dc == 0) && b.PathClear(pc.Pos, to)
	case core.Bishop:
		return abs(dr) == abs(dc) && b.PathClear(pc.Pos, to)
	case core.Knight:
		return (abs(dr) == 2 && abs(dc) == 1) || (abs(dr) == 1 && abs(dc) == 2)
	case core.Pawn:
		return pawnCanReach(b, pc, to)
	default:
		return false
	}
}

func slideMoves(b *board.Board, pc core.Piece, dirs [][2]int) []core.Move {
	var moves []core.Move
	for _, d := range dirs {
		cur := pc.Pos.Offset(d[0], d[1])
		for cur.Valid() {
			target, occupied := b.PieceAt(cur)
			if !occupied {
				moves = append(moves, newMove(pc, cur, core.MoveNormal, core.NoKind))
				cur = cur.Offset(d[0], d[1])
				continue
			}
			if target.Color != pc.Color {
				moves = append(moves, newMove(pc, cur, core.MoveCapture, target.Kind))
			}
			break
		}
	}
	return moves
}

func stepMoves(b *board.Board, pc core.Piece, steps [][2]int) []core.Move {
	var moves []core.Move
	for _, d := range steps {
		cur := pc.Pos.Offset(d[0], d[1])
		if !cur.Valid() {
			continue
		}
		target, occupied := b.PieceAt(cur)
		if !occupied {
			moves = append(moves, newMove(pc, cur, core.MoveNormal, core.NoKind))
		} else if target.Color != pc.Color {
			moves = append(moves, newMove(pc, cur, core.MoveCapture, target.Kind))
		}
	}
	return moves
}

func kingMoves(b *board.Board, pc core.Piece) []core.Move {
	moves := stepMoves(b, pc, kingSteps[:])
	return append(moves, castleCandidates(b, pc)...)
}

// castleCandidates emits castling moves whose static preconditions hold:
// an unmoved king on its start square, an unmoved rook of the same color
// in the matching corner, and nothing between them. Whether the king
// stands in, crosses or lands on an attacked square is left to the
// validator, the same simulation that guards every other move.
func castleCandidates(b *board.Board, pc core.Piece) []core.Move {
	if pc.HasMoved {
		return nil
	}
	start := core.Position{Row: pc.Color.BackRow(), Col: 4}
	if pc.Pos != start {
		return nil
	}

	var moves []core.Move
	if castleRookReady(b, pc.Color, 7) && b.PathClear(start, core.Position{Row: start.Row, Col: 7}) {
		moves = append(moves, newMove(pc, core.Position{Row: start.Row, Col: 6}, core.MoveCastleKingside, core.NoKind))
	}
	if castleRookReady(b, pc.Color, 0) && b.PathClear(start, core.Position{Row: start.Row, Col: 0}) {
		moves = append(moves, newMove(pc, core.Position{Row: start.Row, Col: 2}, core.MoveCastleQueenside, core.NoKind))
	}
	return moves
}

func castleRookReady(b *board.Board, c core.Color, col int) bool {
	rook, ok := b.PieceAt(core.Position{Row: c.BackRow(), Col: col})
	return ok && rook.Kind == core.Rook && rook.Color == c && !rook.HasMoved
}

func pawnMoves(b *board.Board, pc core.Piece) []core.Move {
	var moves []core.Move
	dir := pc.Color.PawnDirection()

	one := pc.Pos.Offset(dir, 0)
	if one.Valid() && !b.Occupied(one) {
		moves = appendPawnMove(moves, pc, one, core.MoveNormal, core.NoKind)
		two := pc.Pos.Offset(2*dir, 0)
		if !pc.HasMoved && pc.Pos.Row == pc.Color.PawnRow() && two.Valid() && !b.Occupied(two) {
			moves = append(moves, newMove(pc, two, core.MovePawnDouble, core.NoKind))
		}
	}

	for _, dc := range [2]int{-1, 1} {
		diag := pc.Pos.Offset(dir, dc)
		if !diag.Valid() {
			continue
		}
		if target, ok := b.PieceAt(diag); ok {
			if target.Color != pc.Color {
				moves = appendPawnMove(moves, pc, diag, core.MoveCapture, target.Kind)
			}
			continue
		}
		if target, ok := b.EnPassantTarget(); ok && target == diag {
			moves = append(moves, newMove(pc, diag, core.MoveEnPassant, core.Pawn))
		}
	}
	return moves
}

func pawnCanReach(b *board.Board, pc core.Piece, to core.Position) bool {
	dir := pc.Color.PawnDirection()
	dr := to.Row - pc.Pos.Row
	dc := to.Col - pc.Pos.Col

	if dr == dir && abs(dc) == 1 {
		if b.Occupied(to) {
			return true
		}
		target, ok := b.EnPassantTarget()
		return ok && target == to
	}
	if dc != 0 {
		return false
	}
	if dr == dir {
		return !b.Occupied(to)
	}
	if dr == 2*dir && !pc.HasMoved && pc.Pos.Row == pc.Color.PawnRow() {
		return !b.Occupied(pc.Pos.Offset(dir, 0)) && !b.Occupied(to)
	}
	return false
}

// appendPawnMove fans a move landing on the promotion row out into one
// candidate per promotable kind.
func appendPawnMove(moves []core.Move, pc core.Piece, to core.Position, kind core.MoveKind, captured core.PieceKind) []core.Move {
	if to.Row != pc.Color.PromotionRow() {
		return append(moves, newMove(pc, to, kind, captured))
	}
	for _, promo := range promotables {
		m := newMove(pc, to, core.MovePromotion, captured)
		m.Promotion = promo
		moves = append(moves, m)
	}
	return moves
}

func newMove(pc core.Piece, to core.Position, kind core.MoveKind, captured core.PieceKind) core.Move {
	return core.Move{
		From:     pc.Pos,
		To:       to,
		Piece:    pc.Kind,
		Color:    pc.Color,
		Kind:     kind,
		Captured: captured,
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
