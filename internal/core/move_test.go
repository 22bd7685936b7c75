// FILE: internal/core/move_test.go
package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sq(t *testing.T, s string) Position {
	t.Helper()
	p, err := ParseSquare(s)
	require.NoError(t, err)
	return p
}

func TestMoveString(t *testing.T) {
	m := Move{From: sq(t, "e2"), To: sq(t, "e4"), Piece: Pawn, Color: ColorWhite, Kind: MovePawnDouble}
	assert.Equal(t, "e2e4", m.String())

	m = Move{From: sq(t, "e7"), To: sq(t, "e8"), Piece: Pawn, Color: ColorWhite, Kind: MovePromotion, Promotion: Knight}
	assert.Equal(t, "e7e8n", m.String())

	m = Move{From: sq(t, "e1"), To: sq(t, "g1"), Piece: King, Color: ColorWhite, Kind: MoveCastleKingside}
	assert.Equal(t, "e1g1", m.String())
}

func TestParseUCI(t *testing.T) {
	from, to, promo, err := ParseUCI("e2e4")
	require.NoError(t, err)
	assert.Equal(t, sq(t, "e2"), from)
	assert.Equal(t, sq(t, "e4"), to)
	assert.Equal(t, NoKind, promo)

	from, to, promo, err = ParseUCI("a7a8q")
	require.NoError(t, err)
	assert.Equal(t, sq(t, "a7"), from)
	assert.Equal(t, sq(t, "a8"), to)
	assert.Equal(t, Queen, promo)

	for _, s := range []string{"", "e2", "e2e", "e2e44", "e2e4k", "x2e4", "e9e4"} {
		_, _, _, err := ParseUCI(s)
		require.Error(t, err, "move %q", s)
		assert.True(t, errors.Is(err, ErrIllegalMove), "move %q", s)
	}
}

func TestIsCapture(t *testing.T) {
	assert.False(t, Move{Kind: MoveNormal}.IsCapture())
	assert.True(t, Move{Kind: MoveCapture, Captured: Pawn}.IsCapture())
	assert.True(t, Move{Kind: MoveEnPassant, Captured: Pawn}.IsCapture())
	assert.True(t, Move{Kind: MovePromotion, Promotion: Queen, Captured: Rook}.IsCapture())
	assert.False(t, Move{Kind: MovePromotion, Promotion: Queen}.IsCapture())
}

func TestErrIllegalCastlingWrapsIllegalMove(t *testing.T) {
	assert.True(t, errors.Is(ErrIllegalCastling, ErrIllegalMove))
}
