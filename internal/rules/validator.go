// FILE: internal/rules/validator.go

package rules

import (
	"fmt"

	"chesskit/internal/board"
	"chesskit/internal/core"
)

// LegalMoves filters the piece's pseudo-legal moves down to those that
// leave the mover's own king safe. Candidate order is preserved.
func LegalMoves(b *board.Board, pc core.Piece) []core.Move {
	var moves []core.Move
	for _, m := range PseudoLegalMoves(b, pc) {
		if isKingSafe(b, m) {
			moves = append(moves, m)
		}
	}
	return moves
}

// LegalMovesFor unions the legal moves of every piece of the color, in
// board scan order.
func LegalMovesFor(b *board.Board, c core.Color) []core.Move {
	var moves []core.Move
	for _, pc := range b.PiecesOf(c) {
		moves = append(moves, LegalMoves(b, pc)...)
	}
	return moves
}

// HasLegalMove reports whether the color has at least one legal move.
// It short-circuits on the first safe candidate, so checkmate and
// stalemate detection avoid building the full move union.
func HasLegalMove(b *board.Board, c core.Color) bool {
	for _, pc := range b.PiecesOf(c) {
		for _, m := range PseudoLegalMoves(b, pc) {
			if isKingSafe(b, m) {
				return true
			}
		}
	}
	return false
}

// Validate re-derives a move from the board state and returns the fully
// populated Move on success. The caller supplies only the endpoints and
// an optional promotion kind; the move's kind, captured piece and side
// effects always come from the movement rules, never from the request.
func Validate(b *board.Board, mover core.Color, from, to core.Position, promotion core.PieceKind) (core.Move, error) {
	if !from.Valid() || !to.Valid() {
		return core.Move{}, fmt.Errorf("%w: %s to %s", core.ErrOutOfBounds, from, to)
	}
	if from == to {
		return core.Move{}, fmt.Errorf("%w: source equals destination %s", core.ErrIllegalMove, from)
	}
	pc, ok := b.PieceAt(from)
	if !ok {
		return core.Move{}, fmt.Errorf("%w: no piece on %s", core.ErrIllegalMove, from)
	}
	if pc.Color != mover {
		return core.Move{}, fmt.Errorf("%w: %s belongs to %s", core.ErrIllegalMove, pc, pc.Color)
	}

	var match *core.Move
	promoting := false
	for _, m := range PseudoLegalMoves(b, pc) {
		if m.To != to {
			continue
		}
		if m.Kind == core.MovePromotion {
			promoting = true
			if m.Promotion != promotion {
				continue
			}
		}
		mm := m
		match = &mm
		break
	}

	if match == nil {
		if promoting {
			if promotion == core.NoKind {
				return core.Move{}, fmt.Errorf("%w: promotion choice required for %s%s", core.ErrIllegalMove, from, to)
			}
			return core.Move{}, fmt.Errorf("%w: cannot promote to %s", core.ErrIllegalMove, promotion)
		}
		if isCastleShape(pc, from, to) {
			return core.Move{}, fmt.Errorf("%w: %s%s", core.ErrIllegalCastling, from, to)
		}
		return core.Move{}, fmt.Errorf("%w: %s cannot reach %s", core.ErrIllegalMove, pc, to)
	}
	if promotion != core.NoKind && match.Kind != core.MovePromotion {
		return core.Move{}, fmt.Errorf("%w: promotion not available for %s%s", core.ErrIllegalMove, from, to)
	}

	if !isKingSafe(b, *match) {
		if match.Kind == core.MoveCastleKingside || match.Kind == core.MoveCastleQueenside {
			return core.Move{}, fmt.Errorf("%w: king moves through an attacked square", core.ErrIllegalCastling)
		}
		return core.Move{}, fmt.Errorf("%w: leaves own king in check", core.ErrIllegalMove)
	}
	return *match, nil
}

// isCastleShape recognizes a two-square lateral king move from its start
// square, so failed castling reports its own error kind even when the
// static preconditions removed it from the candidate list.
func isCastleShape(pc core.Piece, from, to core.Position) bool {
	start := core.Position{Row: pc.Color.BackRow(), Col: 4}
	return pc.Kind == core.King && from == start && to.Row == from.Row && abs(to.Col-from.Col) == 2
}

// isKingSafe simulates the move with all of its side effects on a
// scratch copy and checks the mover's king afterwards. Castling walks
// the king across its start, transit and destination squares, since the
// king may not castle out of, through or into check.
func isKingSafe(b *board.Board, m core.Move) bool {
	switch m.Kind {
	case core.MoveCastleKingside, core.MoveCastleQueenside:
		return castleSafe(b, m)
	}
	scratch := b.Copy()
	scratch.Apply(m)
	return !IsInCheck(scratch, m.Color)
}

func castleSafe(b *board.Board, m core.Move) bool {
	if IsInCheck(b, m.Color) {
		return false
	}
	step := sign(m.To.Col - m.From.Col)
	for col := m.From.Col + step; ; col += step {
		sq := core.Position{Row: m.From.Row, Col: col}
		scratch := b.Copy()
		scratch.Apply(core.Move{From: m.From, To: sq, Piece: core.King, Color: m.Color, Kind: core.MoveNormal})
		if IsInCheck(scratch, m.Color) {
			return false
		}
		if col == m.To.Col {
			return true
		}
	}
}
