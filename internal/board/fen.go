// FILE: internal/board/fen.go
package board

import (
	"fmt"
	"strings"

	"chesskit/internal/core"
)

// StartingFEN is the standard opening position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Meta carries the FEN fields that live outside the board itself.
type Meta struct {
	Turn     core.Color
	Halfmove int
	Fullmove int
}

// ParseFEN builds a board from a FEN string. Castling rights and pawn
// placement feed the HasMoved flags: an absent right marks its rook (or,
// when both rights are gone, the king) as moved, and a pawn off its home
// row is marked as moved.
func ParseFEN(fen string) (*Board, Meta, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, Meta{}, fmt.Errorf("invalid FEN: expected 6 parts, got %d", len(parts))
	}

	b := New()
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, Meta{}, fmt.Errorf("invalid FEN: expected 8 ranks")
	}
	for i, rank := range ranks {
		row := 7 - i
		col := 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			if col >= 8 {
				return nil, Meta{}, fmt.Errorf("invalid FEN: rank %d overflows", 8-i)
			}
			pc, err := pieceFromLetter(byte(ch), core.Position{Row: row, Col: col})
			if err != nil {
				return nil, Meta{}, err
			}
			b.Put(pc)
			col++
		}
		if col != 8 {
			return nil, Meta{}, fmt.Errorf("invalid FEN: rank %d has %d files", 8-i, col)
		}
	}

	meta := Meta{}
	switch parts[1] {
	case "w":
		meta.Turn = core.ColorWhite
	case "b":
		meta.Turn = core.ColorBlack
	default:
		return nil, Meta{}, fmt.Errorf("invalid FEN: turn must be 'w' or 'b'")
	}

	if err := b.applyCastlingRights(parts[2]); err != nil {
		return nil, Meta{}, err
	}

	if parts[3] != "-" {
		target, err := core.ParseSquare(parts[3])
		if err != nil {
			return nil, Meta{}, fmt.Errorf("invalid FEN: en passant square %q", parts[3])
		}
		b.enPassantTarget = &target
	}

	if _, err := fmt.Sscanf(parts[4], "%d", &meta.Halfmove); err != nil || meta.Halfmove < 0 {
		return nil, Meta{}, fmt.Errorf("invalid FEN: halfmove counter %q", parts[4])
	}
	if _, err := fmt.Sscanf(parts[5], "%d", &meta.Fullmove); err != nil || meta.Fullmove < 1 {
		return nil, Meta{}, fmt.Errorf("invalid FEN: fullmove counter %q", parts[5])
	}

	b.markMovedPawns()
	return b, meta, nil
}

// FEN renders the position with the given meta fields. Castling rights
// are derived from king and rook HasMoved flags.
func (b *Board) FEN(meta Meta) string {
	var sb strings.Builder
	for row := 7; row >= 0; row-- {
		empty := 0
		for col := 0; col < 8; col++ {
			pc := b.grid[row][col]
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(fenLetter(*pc))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteByte(byte(meta.Turn))
	sb.WriteByte(' ')
	sb.WriteString(b.castlingField())
	sb.WriteByte(' ')
	if b.enPassantTarget != nil {
		sb.WriteString(b.enPassantTarget.String())
	} else {
		sb.WriteByte('-')
	}
	fmt.Fprintf(&sb, " %d %d", meta.Halfmove, meta.Fullmove)
	return sb.String()
}

func (b *Board) applyCastlingRights(field string) error {
	if field == "" {
		return fmt.Errorf("invalid FEN: empty castling field")
	}
	rights := map[rune]bool{}
	if field != "-" {
		for _, ch := range field {
			switch ch {
			case 'K', 'Q', 'k', 'q':
				rights[ch] = true
			default:
				return fmt.Errorf("invalid FEN: castling field %q", field)
			}
		}
	}

	if !rights['K'] {
		b.markRookMoved(core.ColorWhite, 7)
	}
	if !rights['Q'] {
		b.markRookMoved(core.ColorWhite, 0)
	}
	if !rights['k'] {
		b.markRookMoved(core.ColorBlack, 7)
	}
	if !rights['q'] {
		b.markRookMoved(core.ColorBlack, 0)
	}
	if !rights['K'] && !rights['Q'] {
		b.markKingMoved(core.ColorWhite)
	}
	if !rights['k'] && !rights['q'] {
		b.markKingMoved(core.ColorBlack)
	}
	return nil
}

func (b *Board) markRookMoved(c core.Color, col int) {
	pc := b.grid[c.BackRow()][col]
	if pc != nil && pc.Kind == core.Rook && pc.Color == c {
		pc.HasMoved = true
	}
}

func (b *Board) markKingMoved(c core.Color) {
	pc := b.grid[c.BackRow()][4]
	if pc != nil && pc.Kind == core.King && pc.Color == c {
		pc.HasMoved = true
	}
}

// markMovedPawns flags pawns standing off their home row, keeping double
// advances limited to pawns that have not moved.
func (b *Board) markMovedPawns() {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			pc := b.grid[row][col]
			if pc != nil && pc.Kind == core.Pawn && row != pc.Color.PawnRow() {
				pc.HasMoved = true
			}
		}
	}
}

func (b *Board) castlingField() string {
	var sb strings.Builder
	if b.castleIntact(core.ColorWhite, 7) {
		sb.WriteByte('K')
	}
	if b.castleIntact(core.ColorWhite, 0) {
		sb.WriteByte('Q')
	}
	if b.castleIntact(core.ColorBlack, 7) {
		sb.WriteByte('k')
	}
	if b.castleIntact(core.ColorBlack, 0) {
		sb.WriteByte('q')
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// castleIntact means an unmoved king on its start square plus an unmoved
// rook of the same color in the given corner.
func (b *Board) castleIntact(c core.Color, rookCol int) bool {
	king := b.grid[c.BackRow()][4]
	if king == nil || king.Kind != core.King || king.Color != c || king.HasMoved {
		return false
	}
	rook := b.grid[c.BackRow()][rookCol]
	return rook != nil && rook.Kind == core.Rook && rook.Color == c && !rook.HasMoved
}

func fenLetter(pc core.Piece) byte {
	var ch byte
	switch pc.Kind {
	case core.King:
		ch = 'k'
	case core.Queen:
		ch = 'q'
	case core.Rook:
		ch = 'r'
	case core.Bishop:
		ch = 'b'
	case core.Knight:
		ch = 'n'
	case core.Pawn:
		ch = 'p'
	}
	if pc.Color == core.ColorWhite {
		ch -= 'a' - 'A'
	}
	return ch
}

func pieceFromLetter(ch byte, pos core.Position) (core.Piece, error) {
	color := core.ColorBlack
	if ch >= 'A' && ch <= 'Z' {
		color = core.ColorWhite
		ch += 'a' - 'A'
	}
	var kind core.PieceKind
	switch ch {
	case 'k':
		kind = core.King
	case 'q':
		kind = core.Queen
	case 'r':
		kind = core.Rook
	case 'b':
		kind = core.Bishop
	case 'n':
		kind = core.Knight
	case 'p':
		kind = core.Pawn
	default:
		return core.Piece{}, fmt.Errorf("invalid FEN: piece %q", string(ch))
	}
	return core.Piece{Color: color, Kind: kind, Pos: pos}, nil
}
