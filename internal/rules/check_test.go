// FILE: internal/rules/check_test.go

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesskit/internal/board"
	"chesskit/internal/core"
)

func TestIsInCheckByRook(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	assert.True(t, IsInCheck(b, core.ColorWhite))
	assert.False(t, IsInCheck(b, core.ColorBlack))
}

func TestIsInCheckThroughBlockerIsNoCheck(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/4r3/8/4P3/4K3 w - - 0 1")
	assert.False(t, IsInCheck(b, core.ColorWhite), "own pawn blocks the file")
}

func TestPawnChecksDiagonallyOnly(t *testing.T) {
	diagonal := mustBoard(t, "4k3/8/8/8/8/3p4/4K3/8 w - - 0 1")
	assert.True(t, IsInCheck(diagonal, core.ColorWhite))

	frontal := mustBoard(t, "4k3/8/8/8/8/4p3/4K3/8 w - - 0 1")
	assert.False(t, IsInCheck(frontal, core.ColorWhite), "a pawn cannot capture straight ahead")
}

func TestKnightChecksOverPieces(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/3n4/3PPP2/4K3 w - - 0 1")
	assert.True(t, IsInCheck(b, core.ColorWhite), "the pawn wall does not stop a knight")
}

func TestIsSquareAttacked(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/5r2/8/4K3 w - - 0 1")

	attacked := []string{"f1", "f8", "a3", "h3"}
	for _, s := range attacked {
		assert.True(t, IsSquareAttacked(b, sq(t, s), core.ColorBlack), s)
	}
	assert.False(t, IsSquareAttacked(b, sq(t, "g1"), core.ColorBlack))
	assert.False(t, IsSquareAttacked(b, sq(t, "f3"), core.ColorBlack), "own square does not attack itself")
}

func TestIsCheckmateFoolsMate(t *testing.T) {
	b := mustBoard(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	assert.True(t, IsCheckmate(b, core.ColorWhite))
	assert.False(t, IsStalemate(b, core.ColorWhite))
	assert.False(t, IsCheckmate(b, core.ColorBlack))
}

func TestIsCheckmateBackRank(t *testing.T) {
	b := mustBoard(t, "6k1/5ppp/8/8/8/8/8/4R1K1 b - - 0 1")
	assert.False(t, IsCheckmate(b, core.ColorBlack), "e-file rook gives no check yet")

	mated := mustBoard(t, "4R1k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	assert.True(t, IsCheckmate(mated, core.ColorBlack))
}

func TestCheckButNotMateIsNeither(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	assert.True(t, IsInCheck(b, core.ColorWhite))
	assert.False(t, IsCheckmate(b, core.ColorWhite), "the king can capture the rook")
	assert.False(t, IsStalemate(b, core.ColorWhite))
}

func TestIsStalemateCorneredKing(t *testing.T) {
	b := mustBoard(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	assert.True(t, IsStalemate(b, core.ColorBlack))
	assert.False(t, IsCheckmate(b, core.ColorBlack))
}

func TestIsStalemateBlockedPawn(t *testing.T) {
	b := mustBoard(t, "k7/P7/K7/8/8/8/8/8 b - - 0 1")
	assert.True(t, IsStalemate(b, core.ColorBlack))
}

func TestNoStalemateWhilePawnCanMove(t *testing.T) {
	b := mustBoard(t, "k7/7p/1Q6/8/8/8/8/K7 b - - 0 1")
	assert.False(t, IsStalemate(b, core.ColorBlack), "the king is locked but the h-pawn moves")
	assert.False(t, IsInCheck(b, core.ColorBlack))
}

func TestHasInsufficientMaterial(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want bool
	}{
		{"kings only", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"king and bishop vs king", "4k3/8/8/8/8/8/8/2B1K3 w - - 0 1", true},
		{"king and knight vs king", "4k3/8/8/8/8/8/8/1N2K3 w - - 0 1", true},
		{"same shade bishops", "4kb2/8/8/8/8/8/8/2B1K3 w - - 0 1", true},
		{"opposite shade bishops", "2b1k3/8/8/8/8/8/8/2B1K3 w - - 0 1", false},
		{"knight each", "1n2k3/8/8/8/8/8/8/1N2K3 w - - 0 1", false},
		{"bishop vs knight", "1n2k3/8/8/8/8/8/8/2B1K3 w - - 0 1", false},
		{"lone pawn", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", false},
		{"lone rook", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", false},
		{"lone queen", "4k3/8/8/8/8/8/8/3QK3 w - - 0 1", false},
		{"two minors one side", "4k3/8/8/8/8/8/8/1BB1K3 w - - 0 1", false},
		{"full opening position", board.StartingFEN, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := mustBoard(t, tc.fen)
			assert.Equal(t, tc.want, HasInsufficientMaterial(b))
		})
	}
}

func TestIsInCheckPanicsWithoutKing(t *testing.T) {
	b := board.New()
	pos, err := core.ParseSquare("d4")
	require.NoError(t, err)
	b.Put(core.Piece{Color: core.ColorWhite, Kind: core.Rook, Pos: pos})

	require.Panics(t, func() { IsInCheck(b, core.ColorWhite) })
}
