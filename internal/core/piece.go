// FILE: internal/core/piece.go
package core

// Piece is a chess piece as it sits on a board. Pieces are plain values;
// the owning board keeps Pos and its grid in agreement.
type Piece struct {
	Color    Color
	Kind     PieceKind
	Pos      Position
	HasMoved bool
}

func (p Piece) String() string {
	return p.Color.String() + " " + p.Kind.String() + " " + p.Pos.String()
}
