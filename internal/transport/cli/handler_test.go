// FILE: internal/transport/cli/handler_test.go

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesskit/internal/cli"
	"chesskit/internal/core"
	"chesskit/internal/service"
)

func newSession(t *testing.T, input string) (*CLIHandler, *bytes.Buffer) {
	t.Helper()
	svc, err := service.New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	out := &bytes.Buffer{}
	view := cli.New(strings.NewReader(input), out)
	return New(svc, view), out
}

func TestRunScriptedSession(t *testing.T) {
	h, out := newSession(t, "new\ne2e4\ne7e5\nhistory\nquit\n")
	h.runScripted()

	text := out.String()
	assert.Contains(t, text, "Game started.")
	assert.Contains(t, text, "1. e2e4 | e7e5")
}

func TestMoveWithoutGame(t *testing.T) {
	h, out := newSession(t, "")
	assert.True(t, h.ProcessCommand(cli.Parse("e2e4")))
	assert.Contains(t, out.String(), "No active game.")
}

func TestQuitStopsLoop(t *testing.T) {
	h, _ := newSession(t, "")
	assert.False(t, h.ProcessCommand(cli.Parse("quit")))
	assert.False(t, h.ProcessCommand(cli.Parse("exit")))
}

func TestNewReplacesPreviousGame(t *testing.T) {
	h, _ := newSession(t, "")
	require.True(t, h.ProcessCommand(cli.Parse("new")))
	first := h.gameID
	require.True(t, h.ProcessCommand(cli.Parse("new")))

	assert.NotEqual(t, first, h.gameID)
	_, err := h.svc.GetGame(first)
	assert.Error(t, err, "previous session game dropped")
}

func TestNewWithFENStartsFromPosition(t *testing.T) {
	h, _ := newSession(t, "")
	require.True(t, h.ProcessCommand(cli.Parse("new 8/8/8/8/8/5k2/7p/5K2 b - - 0 1")))

	g, err := h.svc.GetGame(h.gameID)
	require.NoError(t, err)
	assert.Equal(t, core.ColorBlack, g.Turn())
}

func TestSplitMoveInput(t *testing.T) {
	h, out := newSession(t, "")
	require.True(t, h.ProcessCommand(cli.Parse("new")))

	out.Reset()
	require.True(t, h.ProcessCommand(cli.Parse("e2 e4")))
	assert.NotContains(t, out.String(), "invalid move")

	g, err := h.svc.GetGame(h.gameID)
	require.NoError(t, err)
	assert.Equal(t, []string{"e2e4"}, g.History())
}

func TestResumeFromFEN(t *testing.T) {
	h, out := newSession(t, "")
	require.True(t, h.ProcessCommand(cli.Parse("resume 4k3/8/8/8/8/8/8/4K2R w K - 0 1")))

	g, err := h.svc.GetGame(h.gameID)
	require.NoError(t, err)
	assert.Equal(t, "4k3/8/8/8/8/8/8/4K2R w K - 0 1", g.InitialFEN())
	assert.Contains(t, out.String(), "Game started.")
}

func TestResumeRejectsBadFEN(t *testing.T) {
	h, out := newSession(t, "")
	require.True(t, h.ProcessCommand(cli.Parse("resume nonsense")))
	assert.Empty(t, h.gameID)
	assert.Contains(t, out.String(), "could not start the game")
}

func TestMoveAndInvalidMove(t *testing.T) {
	h, out := newSession(t, "")
	require.True(t, h.ProcessCommand(cli.Parse("new")))

	out.Reset()
	require.True(t, h.ProcessCommand(cli.Parse("e2e4")))
	assert.NotContains(t, out.String(), "Error")

	out.Reset()
	require.True(t, h.ProcessCommand(cli.Parse("e2e4")))
	assert.Contains(t, out.String(), "invalid move")
}

func TestMovesCommandListsLegalMoves(t *testing.T) {
	h, out := newSession(t, "")
	require.True(t, h.ProcessCommand(cli.Parse("new")))

	out.Reset()
	require.True(t, h.ProcessCommand(cli.Parse("moves b1")))
	assert.Contains(t, out.String(), "b1a3 b1c3")

	out.Reset()
	require.True(t, h.ProcessCommand(cli.Parse("moves b9")))
	assert.Contains(t, out.String(), "Error")
}

func TestFENCommand(t *testing.T) {
	h, out := newSession(t, "")
	require.True(t, h.ProcessCommand(cli.Parse("new")))
	require.True(t, h.ProcessCommand(cli.Parse("e2e4")))

	out.Reset()
	require.True(t, h.ProcessCommand(cli.Parse("fen")))
	assert.Contains(t, out.String(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
}

func TestUndoCommand(t *testing.T) {
	h, out := newSession(t, "")
	require.True(t, h.ProcessCommand(cli.Parse("new")))
	require.True(t, h.ProcessCommand(cli.Parse("e2e4")))

	out.Reset()
	require.True(t, h.ProcessCommand(cli.Parse("undo")))
	assert.Contains(t, out.String(), "Move undone")

	out.Reset()
	require.True(t, h.ProcessCommand(cli.Parse("undo nope")))
	assert.Contains(t, out.String(), "Invalid undo count")
}

func TestResignEndsGame(t *testing.T) {
	h, out := newSession(t, "")
	require.True(t, h.ProcessCommand(cli.Parse("new")))

	out.Reset()
	require.True(t, h.ProcessCommand(cli.Parse("resign")))

	text := out.String()
	assert.Contains(t, text, "White resigns.")
	assert.Contains(t, text, "Game Over: Resigned")
}

func TestPromptShowsTurnAndCheck(t *testing.T) {
	h, _ := newSession(t, "")
	assert.Equal(t, "> ", h.getPrompt())

	require.True(t, h.ProcessCommand(cli.Parse("new")))
	assert.Equal(t, "[w]> ", h.getPrompt())

	require.True(t, h.ProcessCommand(cli.Parse("e2e4")))
	assert.Equal(t, "[b]> ", h.getPrompt())

	require.True(t, h.ProcessCommand(cli.Parse("resume 4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")))
	assert.Equal(t, "[w+]> ", h.getPrompt(), "check marker")
}

func TestCastleUCI(t *testing.T) {
	cases := []struct {
		input string
		turn  core.Color
		want  string
	}{
		{"O-O", core.ColorWhite, "e1g1"},
		{"O-O", core.ColorBlack, "e8g8"},
		{"o-o-o", core.ColorWhite, "e1c1"},
		{"0-0-0", core.ColorBlack, "e8c8"},
		{"e2e4", core.ColorWhite, "e2e4"},
		{"g7g8q", core.ColorBlack, "g7g8q"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, castleUCI(tc.input, tc.turn), "input %q", tc.input)
	}
}

func TestCastleNotationPlaysThrough(t *testing.T) {
	h, out := newSession(t, "")
	require.True(t, h.ProcessCommand(cli.Parse("resume r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")))

	require.True(t, h.ProcessCommand(cli.Parse("O-O")))
	g, err := h.svc.GetGame(h.gameID)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1g1"}, g.History())

	require.True(t, h.ProcessCommand(cli.Parse("0-0-0")))
	assert.Equal(t, []string{"e1g1", "e8c8"}, g.History())
	assert.NotContains(t, out.String(), "invalid move")
}

func TestPlayDemoFinishesWithMate(t *testing.T) {
	h, out := newSession(t, "")
	require.NoError(t, h.PlayDemo())

	g, err := h.svc.GetGame(h.gameID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusWhiteWins, g.Status())
	assert.Contains(t, out.String(), "Game Over: White wins")
}
