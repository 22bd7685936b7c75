// FILE: internal/core/position.go
package core

import "fmt"

// Position is a board coordinate. Row 0 is White's back rank and col 0 is
// the a-file, so a1 = (0,0) and h8 = (7,7).
type Position struct {
	Row int
	Col int
}

// NewPosition builds a bounds-checked Position.
func NewPosition(row, col int) (Position, error) {
	p := Position{Row: row, Col: col}
	if !p.Valid() {
		return Position{}, fmt.Errorf("%w: row=%d col=%d", ErrOutOfBounds, row, col)
	}
	return p, nil
}

// Valid reports whether the position lies on the board.
func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row <= 7 && p.Col >= 0 && p.Col <= 7
}

// Offset returns the position shifted by the given deltas. The result may
// lie off the board and must be checked with Valid before use.
func (p Position) Offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// ParseSquare converts an algebraic square such as "e4".
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: square %q", ErrOutOfBounds, s)
	}
	return NewPosition(int(s[1]-'1'), int(s[0]-'a'))
}

// String renders the algebraic square, or "-" for an off-board position.
func (p Position) String() string {
	if !p.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + p.Col), byte('1' + p.Row)})
}
