// FILE: internal/board/board.go
package board

import (
	"fmt"
	"strings"

	"chesskit/internal/core"
)

// Board is an 8x8 grid of optional pieces plus the auxiliary state the
// rules need: the en-passant target square and the last applied move.
// The board owns its pieces; movement happens only through Apply so the
// grid and each piece's Pos field stay in agreement.
type Board struct {
	grid            [8][8]*core.Piece
	enPassantTarget *core.Position
	lastMove        *core.Move
}

// New returns an empty board.
func New() *Board {
	return &Board{}
}

// NewStandard returns a board holding the standard opening array.
func NewStandard() *Board {
	b := New()
	back := [8]core.PieceKind{
		core.Rook, core.Knight, core.Bishop, core.Queen,
		core.King, core.Bishop, core.Knight, core.Rook,
	}
	for col := 0; col < 8; col++ {
		b.Put(core.Piece{Color: core.ColorWhite, Kind: back[col], Pos: core.Position{Row: 0, Col: col}})
		b.Put(core.Piece{Color: core.ColorWhite, Kind: core.Pawn, Pos: core.Position{Row: 1, Col: col}})
		b.Put(core.Piece{Color: core.ColorBlack, Kind: core.Pawn, Pos: core.Position{Row: 6, Col: col}})
		b.Put(core.Piece{Color: core.ColorBlack, Kind: back[col], Pos: core.Position{Row: 7, Col: col}})
	}
	return b
}

// PieceAt returns the piece on the given square, if any.
func (b *Board) PieceAt(p core.Position) (core.Piece, bool) {
	if !p.Valid() {
		return core.Piece{}, false
	}
	pc := b.grid[p.Row][p.Col]
	if pc == nil {
		return core.Piece{}, false
	}
	return *pc, true
}

// Occupied reports whether the square holds a piece.
func (b *Board) Occupied(p core.Position) bool {
	return p.Valid() && b.grid[p.Row][p.Col] != nil
}

// Put places a piece on its Pos square, replacing whatever was there.
// Setup helper; during play all movement goes through Apply.
func (b *Board) Put(pc core.Piece) {
	if !pc.Pos.Valid() {
		panic(fmt.Sprintf("board: put %s off the board", pc))
	}
	p := pc
	b.grid[p.Pos.Row][p.Pos.Col] = &p
}

// Clear removes and returns the piece on the square, if any.
func (b *Board) Clear(p core.Position) (core.Piece, bool) {
	if !p.Valid() || b.grid[p.Row][p.Col] == nil {
		return core.Piece{}, false
	}
	pc := *b.grid[p.Row][p.Col]
	b.grid[p.Row][p.Col] = nil
	return pc, true
}

// Apply mutates the board according to a validated move: it relocates
// the moving piece, removes any captured piece (the en-passant victim
// sits beside the destination, not on it), relocates the rook when
// castling, substitutes the chosen piece on promotion, and maintains
// the en-passant target and last-move records. Apply trusts its input;
// legality is the validator's concern.
func (b *Board) Apply(m core.Move) {
	pc := b.grid[m.From.Row][m.From.Col]
	if pc == nil {
		panic(fmt.Sprintf("board: apply %s to empty square", m))
	}

	switch m.Kind {
	case core.MoveEnPassant:
		b.grid[m.From.Row][m.To.Col] = nil
	case core.MoveCastleKingside:
		b.relocate(core.Position{Row: m.From.Row, Col: 7}, core.Position{Row: m.From.Row, Col: 5})
	case core.MoveCastleQueenside:
		b.relocate(core.Position{Row: m.From.Row, Col: 0}, core.Position{Row: m.From.Row, Col: 3})
	}

	moved := *pc
	moved.Pos = m.To
	moved.HasMoved = true
	if m.Kind == core.MovePromotion {
		moved = core.Piece{Color: m.Color, Kind: m.Promotion, Pos: m.To, HasMoved: true}
	}
	b.grid[m.From.Row][m.From.Col] = nil
	b.grid[m.To.Row][m.To.Col] = &moved

	if m.Kind == core.MovePawnDouble {
		mid := core.Position{Row: (m.From.Row + m.To.Row) / 2, Col: m.From.Col}
		b.enPassantTarget = &mid
	} else {
		b.enPassantTarget = nil
	}
	mv := m
	b.lastMove = &mv
}

// relocate moves a piece between squares with no capture logic. Used for
// the rook half of castling.
func (b *Board) relocate(from, to core.Position) {
	pc := b.grid[from.Row][from.Col]
	if pc == nil {
		return
	}
	moved := *pc
	moved.Pos = to
	moved.HasMoved = true
	b.grid[from.Row][from.Col] = nil
	b.grid[to.Row][to.Col] = &moved
}

// PathClear reports whether every square strictly between from and to is
// empty. The endpoints must share a rank, file or diagonal.
func (b *Board) PathClear(from, to core.Position) bool {
	dr := sign(to.Row - from.Row)
	dc := sign(to.Col - from.Col)
	cur := from.Offset(dr, dc)
	for cur != to {
		if !cur.Valid() {
			return false
		}
		if b.grid[cur.Row][cur.Col] != nil {
			return false
		}
		cur = cur.Offset(dr, dc)
	}
	return true
}

// FindKing locates the king of the given color.
func (b *Board) FindKing(c core.Color) (core.Position, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			pc := b.grid[row][col]
			if pc != nil && pc.Kind == core.King && pc.Color == c {
				return pc.Pos, true
			}
		}
	}
	return core.Position{}, false
}

// PiecesOf collects the pieces of one color in row-then-column scan
// order, which fixes the engine's move generation order.
func (b *Board) PiecesOf(c core.Color) []core.Piece {
	var out []core.Piece
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if pc := b.grid[row][col]; pc != nil && pc.Color == c {
				out = append(out, *pc)
			}
		}
	}
	return out
}

// AllPieces collects every piece in scan order.
func (b *Board) AllPieces() []core.Piece {
	var out []core.Piece
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if pc := b.grid[row][col]; pc != nil {
				out = append(out, *pc)
			}
		}
	}
	return out
}

// Copy returns a deep copy sharing no piece storage with the original.
// The validator's what-if simulations run on copies only.
func (b *Board) Copy() *Board {
	nb := &Board{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if pc := b.grid[row][col]; pc != nil {
				cp := *pc
				nb.grid[row][col] = &cp
			}
		}
	}
	if b.enPassantTarget != nil {
		t := *b.enPassantTarget
		nb.enPassantTarget = &t
	}
	if b.lastMove != nil {
		m := *b.lastMove
		nb.lastMove = &m
	}
	return nb
}

// EnPassantTarget returns the square a pawn just skipped, when the last
// move was a double advance.
func (b *Board) EnPassantTarget() (core.Position, bool) {
	if b.enPassantTarget == nil {
		return core.Position{}, false
	}
	return *b.enPassantTarget, true
}

// LastMove returns the most recently applied move, if any.
func (b *Board) LastMove() (core.Move, bool) {
	if b.lastMove == nil {
		return core.Move{}, false
	}
	return *b.lastMove, true
}

// ASCII renders the board with rank and file legends, White at the
// bottom. Empty squares print as dots.
func (b *Board) ASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for row := 7; row >= 0; row-- {
		sb.WriteString(fmt.Sprintf("%d ", row+1))
		for col := 0; col < 8; col++ {
			pc := b.grid[row][col]
			if pc == nil {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", fenLetter(*pc)))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", row+1))
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
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
