// FILE: internal/game/game_test.go

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesskit/internal/board"
	"chesskit/internal/core"
)

// scholarsMate is the four-move mate ending in Qxf7#.
var scholarsMate = []string{"e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7"}

type eventRecorder struct {
	kinds  []EventKind
	events []Event
}

func (r *eventRecorder) HandleEvent(e Event) {
	r.kinds = append(r.kinds, e.Kind)
	r.events = append(r.events, e)
}

func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, uci := range moves {
		_, err := g.MoveUCI(uci)
		require.NoError(t, err, "move %s", uci)
	}
}

func TestNewGameIsIdle(t *testing.T) {
	g := NewStandard()

	assert.Equal(t, core.StatusNotStarted, g.Status())
	assert.Equal(t, core.ColorWhite, g.Turn())
	assert.Nil(t, g.LegalMoves())

	_, err := g.MoveUCI("e2e4")
	assert.ErrorIs(t, err, core.ErrGameNotStarted)
}

func TestStartOpensPlay(t *testing.T) {
	g := NewStandard()
	g.Start()

	assert.Equal(t, core.StatusInProgress, g.Status())
	assert.Len(t, g.LegalMoves(), 20)

	g.Start()
	assert.Equal(t, core.StatusInProgress, g.Status(), "second start is a no-op")
}

func TestTurnAlternates(t *testing.T) {
	g := NewStandard()
	g.Start()

	play(t, g, "e2e4")
	assert.Equal(t, core.ColorBlack, g.Turn())

	_, err := g.MoveUCI("d2d4")
	assert.ErrorIs(t, err, core.ErrIllegalMove, "white cannot move twice")

	play(t, g, "e7e5")
	assert.Equal(t, core.ColorWhite, g.Turn())
}

func TestScholarsMate(t *testing.T) {
	g := NewStandard()
	g.Start()
	play(t, g, scholarsMate...)

	assert.Equal(t, core.StatusWhiteWins, g.Status())
	assert.True(t, g.InCheck(), "the mated king stands in check")
	winner, ok := g.Winner()
	require.True(t, ok)
	assert.Equal(t, core.ColorWhite, winner)
	assert.Equal(t, scholarsMate, g.History())
	assert.Nil(t, g.LegalMoves())

	_, err := g.MoveUCI("e8e7")
	assert.ErrorIs(t, err, core.ErrGameOver)
}

func TestGameOverLeavesBoardUntouched(t *testing.T) {
	g := NewStandard()
	g.Start()
	play(t, g, scholarsMate...)
	before := g.FEN()

	_, err := g.MoveUCI("a7a6")
	require.ErrorIs(t, err, core.ErrGameOver)
	assert.Equal(t, before, g.FEN())
}

func TestCheckMustBeAddressed(t *testing.T) {
	g := NewStandard()
	g.Start()
	play(t, g, "e2e4", "f7f5", "d1h5")

	require.True(t, g.InCheck())
	moves := g.LegalMoves()
	require.Len(t, moves, 1, "only the g-pawn block answers the check")
	assert.Equal(t, "g7g6", moves[0].String())

	_, err := g.MoveUCI("a7a6")
	assert.ErrorIs(t, err, core.ErrIllegalMove)
	play(t, g, "g7g6")
	assert.False(t, g.InCheck())
}

func TestPromotionRequiresChoice(t *testing.T) {
	g, err := FromFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	require.NoError(t, err)
	g.Start()

	_, err = g.MoveUCI("a7a8")
	assert.ErrorIs(t, err, core.ErrIllegalMove)

	m, err := g.MoveUCI("a7a8q")
	require.NoError(t, err)
	assert.Equal(t, core.MovePromotion, m.Kind)
	assert.Equal(t, core.Queen, m.Promotion)

	queen, ok := g.Board().PieceAt(m.To)
	require.True(t, ok)
	assert.Equal(t, core.Queen, queen.Kind)
}

func TestSeededMatePositionEndsAtStart(t *testing.T) {
	g, err := FromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)

	assert.Equal(t, core.StatusNotStarted, g.Status())
	g.Start()
	assert.Equal(t, core.StatusBlackWins, g.Status())
}

func TestStalemateByQueenMove(t *testing.T) {
	g, err := FromFEN("k7/8/1K6/8/8/8/8/2Q5 w - - 0 1")
	require.NoError(t, err)
	g.Start()

	play(t, g, "c1c7")
	assert.Equal(t, core.StatusStalemate, g.Status())
	_, hasWinner := g.Winner()
	assert.False(t, hasWinner)
}

func TestInsufficientMaterialAfterCapture(t *testing.T) {
	g, err := FromFEN("4k3/8/8/8/8/8/5p2/4K1B1 w - - 0 1")
	require.NoError(t, err)
	g.Start()

	play(t, g, "g1f2")
	assert.Equal(t, core.StatusDrawInsufficientMaterial, g.Status())
}

func TestFiftyMoveRule(t *testing.T) {
	g, err := FromFEN("4k3/8/8/8/8/8/8/4K2R w - - 99 80")
	require.NoError(t, err)
	g.Start()
	require.Equal(t, core.StatusInProgress, g.Status())

	play(t, g, "h1h2")
	assert.Equal(t, 100, g.HalfmoveClock())
	assert.Equal(t, core.StatusDrawFiftyMoves, g.Status())
}

func TestPawnMoveResetsFiftyMoveClock(t *testing.T) {
	g, err := FromFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 99 80")
	require.NoError(t, err)
	g.Start()

	play(t, g, "e2e3")
	assert.Equal(t, 0, g.HalfmoveClock())
	assert.Equal(t, core.StatusInProgress, g.Status())
}

func TestHalfmoveClockTracking(t *testing.T) {
	g := NewStandard()
	g.Start()

	play(t, g, "e2e4")
	assert.Equal(t, 0, g.HalfmoveClock(), "pawn move resets")
	play(t, g, "g8f6")
	assert.Equal(t, 1, g.HalfmoveClock())
	play(t, g, "b1c3")
	assert.Equal(t, 2, g.HalfmoveClock())
	play(t, g, "f6e4")
	assert.Equal(t, 0, g.HalfmoveClock(), "capture resets")
}

func TestResign(t *testing.T) {
	g := NewStandard()
	g.Start()
	play(t, g, "e2e4")

	require.NoError(t, g.Resign(core.ColorWhite))
	assert.Equal(t, core.StatusResigned, g.Status())
	winner, ok := g.Winner()
	require.True(t, ok)
	assert.Equal(t, core.ColorBlack, winner)

	assert.ErrorIs(t, g.Resign(core.ColorBlack), core.ErrGameOver)
	_, err := g.MoveUCI("e7e5")
	assert.ErrorIs(t, err, core.ErrGameOver)
}

func TestResignBeforeStart(t *testing.T) {
	g := NewStandard()
	assert.ErrorIs(t, g.Resign(core.ColorWhite), core.ErrGameNotStarted)
}

func TestUndoRestoresPositionAndClocks(t *testing.T) {
	g := NewStandard()
	g.Start()
	play(t, g, "e2e4", "g8f6", "b1c3")
	require.Equal(t, 2, g.HalfmoveClock())

	require.NoError(t, g.Undo(2))
	assert.Equal(t, []string{"e2e4"}, g.History())
	assert.Equal(t, core.ColorBlack, g.Turn())
	assert.Equal(t, 0, g.HalfmoveClock())
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", g.FEN())

	play(t, g, "g8f6")
	assert.Equal(t, []string{"e2e4", "g8f6"}, g.History())
}

func TestUndoBounds(t *testing.T) {
	g := NewStandard()
	g.Start()
	play(t, g, "e2e4")

	assert.Error(t, g.Undo(0))
	assert.Error(t, g.Undo(2))
	assert.NoError(t, g.Undo(1))
	assert.Empty(t, g.History())
}

func TestUndoReopensFinishedGame(t *testing.T) {
	g := NewStandard()
	g.Start()
	play(t, g, scholarsMate...)
	require.Equal(t, core.StatusWhiteWins, g.Status())

	require.NoError(t, g.Undo(1))
	assert.Equal(t, core.StatusInProgress, g.Status())
	assert.Equal(t, core.ColorWhite, g.Turn())

	play(t, g, "h5f7")
	assert.Equal(t, core.StatusWhiteWins, g.Status())
}

func TestUndoClearsResignation(t *testing.T) {
	g := NewStandard()
	g.Start()
	play(t, g, "e2e4")
	require.NoError(t, g.Resign(core.ColorBlack))

	require.NoError(t, g.Undo(1))
	assert.Equal(t, core.StatusInProgress, g.Status())
	_, hasWinner := g.Winner()
	assert.False(t, hasWinner)
}

func TestObserverSeesLifecycle(t *testing.T) {
	rec := &eventRecorder{}
	g := NewStandard()
	g.Observe(rec)
	g.Start()
	play(t, g, scholarsMate...)

	want := []EventKind{EventGameStarted, EventTurnChanged}
	for range scholarsMate[:len(scholarsMate)-1] {
		want = append(want, EventMoveMade, EventTurnChanged)
	}
	want = append(want, EventMoveMade, EventCheckmate, EventGameEnded)
	assert.Equal(t, want, rec.kinds)

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, core.StatusWhiteWins, last.Status)
	assert.Equal(t, core.ColorBlack, last.Color, "the mated side")
}

func TestObserverSeesCheckAndRejection(t *testing.T) {
	rec := &eventRecorder{}
	g := NewStandard()
	g.Observe(rec)
	g.Start()
	play(t, g, "e2e4", "f7f5", "d1h5")

	assert.Contains(t, rec.kinds, EventCheck)

	_, err := g.MoveUCI("a7a6")
	require.ErrorIs(t, err, core.ErrIllegalMove)
	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventMoveRejected, last.Kind)
	assert.ErrorIs(t, last.Err, core.ErrIllegalMove)
}

func TestObserverSeesResignation(t *testing.T) {
	rec := &eventRecorder{}
	g := NewStandard()
	g.Observe(rec)
	g.Start()
	require.NoError(t, g.Resign(core.ColorWhite))

	n := len(rec.kinds)
	require.GreaterOrEqual(t, n, 2)
	assert.Equal(t, EventResigned, rec.kinds[n-2])
	assert.Equal(t, EventGameEnded, rec.kinds[n-1])
}

func TestFromFENValidation(t *testing.T) {
	_, err := FromFEN("8/8/8/8/8/8/8/4K3 w - - 0 1")
	assert.Error(t, err, "black king missing")

	_, err = FromFEN("not a position")
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err, "board is required")

	rec := &eventRecorder{}
	g, err := New(Config{Board: board.NewStandard(), Observers: []Observer{rec}})
	require.NoError(t, err)

	assert.Equal(t, core.ColorWhite, g.Turn(), "turn defaults to white")
	assert.Equal(t, board.StartingFEN, g.FEN(), "clock fields default to a fresh game")

	g.Start()
	require.NotEmpty(t, rec.kinds, "config observers registered before start")
	assert.Equal(t, EventGameStarted, rec.kinds[0])
}

func TestLegalMovesFromFilters(t *testing.T) {
	g := NewStandard()
	g.Start()

	e2, err := core.ParseSquare("e2")
	require.NoError(t, err)
	assert.Len(t, g.LegalMovesFrom(e2), 2)

	e7, err := core.ParseSquare("e7")
	require.NoError(t, err)
	assert.Nil(t, g.LegalMovesFrom(e7), "not that side's turn")

	e4, err := core.ParseSquare("e4")
	require.NoError(t, err)
	assert.Nil(t, g.LegalMovesFrom(e4), "empty square")
}

func TestSnapshotsRecordTrail(t *testing.T) {
	g := NewStandard()
	g.Start()
	assert.Equal(t, board.StartingFEN, g.InitialFEN())

	play(t, g, "e2e4", "e7e5")
	snaps := g.Snapshots()
	require.Len(t, snaps, 3)
	assert.Equal(t, "", snaps[0].Move)
	assert.Equal(t, "e2e4", snaps[1].Move)
	assert.Equal(t, "e7e5", snaps[2].Move)
	assert.Equal(t, core.ColorWhite, snaps[2].NextTurn)
}

func TestMoveUCIRejectsGarbage(t *testing.T) {
	g := NewStandard()
	g.Start()

	for _, bad := range []string{"", "e2", "e2e9", "castle"} {
		_, err := g.MoveUCI(bad)
		assert.Error(t, err, bad)
	}
}

func TestEnPassantThroughGame(t *testing.T) {
	g := NewStandard()
	g.Start()
	play(t, g, "e2e4", "g8f6", "e4e5", "d7d5")

	m, err := g.MoveUCI("e5d6")
	require.NoError(t, err)
	assert.Equal(t, core.MoveEnPassant, m.Kind)

	d5, err := core.ParseSquare("d5")
	require.NoError(t, err)
	assert.False(t, g.Board().Occupied(d5), "captured pawn removed from d5")
}

func TestCastlingThroughGame(t *testing.T) {
	g := NewStandard()
	g.Start()
	play(t, g, "e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5")

	m, err := g.MoveUCI("e1g1")
	require.NoError(t, err)
	assert.Equal(t, core.MoveCastleKingside, m.Kind)

	f1, err := core.ParseSquare("f1")
	require.NoError(t, err)
	rook, ok := g.Board().PieceAt(f1)
	require.True(t, ok)
	assert.Equal(t, core.Rook, rook.Kind)
}
