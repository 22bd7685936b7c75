// FILE: internal/transport/cli/handler.go
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"chesskit/internal/cli"
	"chesskit/internal/core"
	"chesskit/internal/service"
	"chesskit/internal/transport"
)

// The view contract the console renderer satisfies.
var _ transport.View = (*cli.CLI)(nil)

type CLIHandler struct {
	svc    *service.Service
	view   *cli.CLI
	gameID string
}

func New(svc *service.Service, view *cli.CLI) *CLIHandler {
	return &CLIHandler{
		svc:  svc,
		view: view,
	}
}

// Run drives the command loop until quit or end of input. A terminal
// gets the readline loop with history and interrupt handling; piped
// input falls back to plain line scanning.
func (h *CLIHandler) Run() {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		h.runInteractive()
		return
	}
	h.runScripted()
}

func (h *CLIHandler) runScripted() {
	for {
		h.view.ShowPrompt(h.getPrompt())

		cmd, err := h.view.GetCommand()
		if err != nil {
			break
		}

		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

func (h *CLIHandler) runInteractive() {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          h.getPrompt(),
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		h.runScripted()
		return
	}
	defer rl.Close()

	for {
		rl.SetPrompt(h.getPrompt())

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !h.ProcessCommand(cli.Parse(line)) {
			break
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chesskit_history")
}

// Generates the appropriate command prompt
func (h *CLIHandler) getPrompt() string {
	prompt := "> "
	if h.gameID != "" {
		g, err := h.svc.GetGame(h.gameID)
		if err == nil && g.Status() == core.StatusInProgress {
			// Always show whose turn it is, with a marker under check
			marker := ""
			if g.InCheck() {
				marker = "+"
			}
			prompt = fmt.Sprintf("[%c%s]> ", g.Turn(), marker)
		}
	}
	return prompt
}

// Handles user commands - returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		return true

	case cli.CmdNew:
		// An optional FEN starts from a custom position
		return h.handleNewGame(strings.Join(cmd.Args, " "))

	case cli.CmdResume:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: resume <FEN string>")
			return true
		}
		fen := strings.Join(cmd.Args, " ")
		return h.handleNewGame(fen)

	case cli.CmdMove:
		if h.gameID == "" {
			h.view.ShowMessage("No active game. Use 'new' or 'resume <FEN>'.")
			return true
		}

		g, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}

		uci := castleUCI(cmd.Args[0], g.Turn())
		_, status, err := h.svc.ApplyMove(h.gameID, uci)
		if err != nil {
			h.view.ShowError(fmt.Errorf("invalid move: %v", err))
			return true
		}

		h.displayBoard()
		if status.Terminal() {
			h.view.ShowGameOver(status)
		}

	case cli.CmdMoves:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}
		g, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}

		if len(cmd.Args) > 0 {
			pos, err := core.ParseSquare(cmd.Args[0])
			if err != nil {
				h.view.ShowError(err)
				return true
			}
			h.view.ShowLegalMoves(g.LegalMovesFrom(pos))
		} else {
			h.view.ShowLegalMoves(g.LegalMoves())
		}

	case cli.CmdBoard:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}
		h.displayBoard()

	case cli.CmdFEN:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}
		g, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(g.FEN())

	case cli.CmdUndo:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}

		// Parse undo count
		count := 1
		if len(cmd.Args) > 0 {
			if n, err := strconv.Atoi(cmd.Args[0]); err == nil && n > 0 {
				count = n
			} else {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return true
			}
		}

		if err := h.svc.UndoMoves(h.gameID, count); err != nil {
			h.view.ShowError(err)
		} else {
			if count == 1 {
				h.view.ShowMessage("Move undone")
			} else {
				h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
			}

			h.displayBoard()
		}

	case cli.CmdResign:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}
		g, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}

		if err := h.svc.Resign(h.gameID, g.Turn()); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowGameOver(g.Status())

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}

		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
		} else {
			h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
			if h.gameID != "" {
				h.displayBoard()
			}
		}

	case cli.CmdPieces:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: pieces <letters|unicode>")
			return true
		}

		set := cli.PieceSet(cmd.Args[0])
		if err := h.view.SetPieces(set); err != nil {
			h.view.ShowError(err)
		} else {
			h.view.ShowMessage(fmt.Sprintf("Piece glyphs set to: %s", set))
			if h.gameID != "" {
				h.displayBoard()
			}
		}

	case cli.CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))

	case cli.CmdHistory:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}
		g, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowGameHistory(g)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

// StartGame replaces the session game and announces the fresh board.
// An empty fen starts from the standard position. The recording of a
// dropped game stays in storage.
func (h *CLIHandler) StartGame(fen string) error {
	if h.gameID != "" {
		_ = h.svc.DeleteGame(h.gameID)
		h.gameID = ""
	}

	id := h.svc.GenerateGameID()
	if err := h.svc.CreateGame(id, fen, h.view); err != nil {
		return err
	}
	h.gameID = id

	h.view.ShowMessage("Game started.")
	h.displayBoard()

	return nil
}

func (h *CLIHandler) handleNewGame(fen string) bool {
	if err := h.StartGame(fen); err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %v", err))
	}
	return true
}

func (h *CLIHandler) displayBoard() {
	g, err := h.svc.GetGame(h.gameID)
	if err != nil {
		return
	}
	h.view.DisplayBoard(g.Board())
}

// operaGame is Morphy's 1858 opera box game, Paris, ending in 17.Rd8#.
var operaGame = []string{
	"e2e4", "e7e5", "g1f3", "d7d6", "d2d4", "c8g4", "d4e5", "g4f3",
	"d1f3", "d6e5", "f1c4", "g8f6", "f3b3", "d8e7", "b1c3", "c7c6",
	"c1g5", "b7b5", "c3b5", "c6b5", "c4b5", "b8d7", "e1c1", "a8d8",
	"d1d7", "d8d7", "h1d1", "e7e6", "b5d7", "f6d7", "b3b8", "d7b8",
	"d1d8",
}

// PlayDemo plays a complete scripted game through the service,
// announcing each move. When recording is on the game lands in the
// archive like any other session.
func (h *CLIHandler) PlayDemo() error {
	id := h.svc.GenerateGameID()
	if err := h.svc.CreateGame(id, "", h.view); err != nil {
		return err
	}
	h.gameID = id

	for _, uci := range operaGame {
		g, err := h.svc.GetGame(id)
		if err != nil {
			return err
		}
		h.view.ShowMessage(fmt.Sprintf("[%c] %s", g.Turn(), uci))
		if _, _, err := h.svc.ApplyMove(id, uci); err != nil {
			return fmt.Errorf("demo move %s: %w", uci, err)
		}
	}

	g, err := h.svc.GetGame(id)
	if err != nil {
		return err
	}
	h.view.DisplayBoard(g.Board())
	h.view.ShowGameOver(g.Status())
	return nil
}

// castleUCI rewrites O-O and O-O-O (also the zero-glyph spelling) into
// the king's coordinate move for the side to move. Anything else passes
// through untouched.
func castleUCI(input string, turn core.Color) string {
	s := strings.ToUpper(strings.ReplaceAll(input, "0", "O"))
	row := "1"
	if turn == core.ColorBlack {
		row = "8"
	}
	switch s {
	case "O-O":
		return "e" + row + "g" + row
	case "O-O-O":
		return "e" + row + "c" + row
	}
	return input
}
