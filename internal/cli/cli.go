// FILE: internal/cli/cli.go
package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"chesskit/internal/board"
	"chesskit/internal/core"
	"chesskit/internal/game"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdMove
	CmdMoves
	CmdBoard
	CmdFEN
	CmdUndo
	CmdResign
	CmdColor
	CmdPieces
	CmdVerbose
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {
		lightBg: "",
		darkBg:  "",
		white:   "",
		black:   "",
		reset:   "",
	},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

type PieceSet string

const (
	PiecesLetters PieceSet = "letters"
	PiecesUnicode PieceSet = "unicode"
)

var letterGlyphs = map[core.PieceKind]rune{
	core.King:   'k',
	core.Queen:  'q',
	core.Rook:   'r',
	core.Bishop: 'b',
	core.Knight: 'n',
	core.Pawn:   'p',
}

var whiteGlyphs = map[core.PieceKind]rune{
	core.King:   '♔',
	core.Queen:  '♕',
	core.Rook:   '♖',
	core.Bishop: '♗',
	core.Knight: '♘',
	core.Pawn:   '♙',
}

var blackGlyphs = map[core.PieceKind]rune{
	core.King:   '♚',
	core.Queen:  '♛',
	core.Rook:   '♜',
	core.Bishop: '♝',
	core.Knight: '♞',
	core.Pawn:   '♟',
}

type CLI struct {
	input   *bufio.Scanner
	output  io.Writer
	theme   ColorTheme
	pieces  PieceSet
	verbose bool
}

func New(input io.Reader, output io.Writer) *CLI {
	return &CLI{
		input:   bufio.NewScanner(input),
		output:  output,
		theme:   ThemeOff,
		pieces:  PiecesLetters,
		verbose: false,
	}
}

// Reads a command synchronously
func (c *CLI) GetCommand() (*Command, error) {
	if !c.input.Scan() {
		if err := c.input.Err(); err != nil {
			return nil, err
		}
		return &Command{Type: CmdQuit}, nil
	}

	input := strings.TrimSpace(c.input.Text())
	if input == "" {
		return &Command{Type: CmdNone}, nil
	}

	return c.parseCommand(input), nil
}

func (c *CLI) parseCommand(input string) *Command {
	return Parse(input)
}

// Parse maps one input line to a command. Unrecognized words are
// assumed to be moves.
func Parse(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "resume":
		return &Command{Type: CmdResume, Args: args, Raw: input}
	case "moves":
		return &Command{Type: CmdMoves, Args: args}
	case "board":
		return &Command{Type: CmdBoard}
	case "fen":
		return &Command{Type: CmdFEN}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "resign":
		return &Command{Type: CmdResign}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "pieces":
		return &Command{Type: CmdPieces, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		// Assume it's a move. "e2 e4" and "e2e4" read the same.
		return &Command{Type: CmdMove, Args: []string{strings.Join(parts, "")}}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) SetPieces(set PieceSet) error {
	if set != PiecesLetters && set != PiecesUnicode {
		return fmt.Errorf("invalid piece set: %s (use: letters, unicode)", set)
	}
	c.pieces = set
	return nil
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v\n", err))
}

func (c *CLI) ShowPrompt(prompt string) {
	fmt.Fprint(c.output, prompt)
}

func (c *CLI) ReadLine() string {
	if c.input.Scan() {
		return strings.TrimSpace(c.input.Text())
	}
	return ""
}

func (c *CLI) glyph(pc core.Piece) rune {
	if c.pieces == PiecesUnicode {
		if pc.Color == core.ColorWhite {
			return whiteGlyphs[pc.Kind]
		}
		return blackGlyphs[pc.Kind]
	}
	r := letterGlyphs[pc.Kind]
	if pc.Color == core.ColorWhite {
		r -= 'a' - 'A'
	}
	return r
}

func (c *CLI) DisplayBoard(b *board.Board) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < 8; f++ {
			pc, occupied := b.PieceAt(core.Position{Row: 7 - r, Col: f})

			if c.theme == ThemeOff {
				// No colors, just show piece or space
				if !occupied {
					sb.WriteString("  ")
				} else {
					sb.WriteString(fmt.Sprintf("%c ", c.glyph(pc)))
				}
			} else {
				// Apply theme colors
				bg := theme.darkBg
				if (r+f)%2 == 0 {
					bg = theme.lightBg
				}

				if !occupied {
					sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				} else {
					color := theme.black
					if pc.Color == core.ColorWhite {
						color = theme.white
					}
					sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, color, c.glyph(pc), theme.reset))
				}
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new [FEN]        - Start a new game, optionally from a position
  resume <FEN>     - Start a new game from a specific board position
  <move>           - Make a move (e.g., e2e4, e7e8q, O-O)
  moves [square]   - List legal moves, optionally for one square
  board            - Redraw the board
  fen              - Print the current position as FEN
  history          - Show game move history and positions
  undo [count]     - Undo last move(s), default 1
  resign           - Resign for the side to move
  color <theme>    - Set board color theme (off|brown|green|gray)
  pieces <set>     - Set piece glyphs (letters|unicode)
  verbose          - Toggle move and turn announcements
  quit/exit        - Exit the program
  help/?           - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to chesskit!")
	c.ShowMessage("Commands: new, resume <FEN>, <move>, moves, undo, resign, history, help/?")
	c.ShowMessage("Example: 'resume 4k3/8/8/8/8/8/8/4K2R w K - 0 1' to start from a puzzle.")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(g *game.Game) {
	c.ShowMessage(fmt.Sprintf("Starting FEN: %s\n", g.InitialFEN()))

	moves := g.History()
	for i := 0; i < len(moves); i += 2 {
		moveNum := i/2 + 1
		white := moves[i]
		if i+1 < len(moves) {
			black := moves[i+1]
			c.ShowMessage(fmt.Sprintf("%d. %s | %s\n", moveNum, white, black))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...\n", moveNum, white))
		}
	}
	c.ShowMessage(fmt.Sprintf("Current FEN: %s\n", g.FEN()))
	c.ShowMessage(fmt.Sprintf("Game state: %s\n", g.Status()))
}

func (c *CLI) ShowLegalMoves(moves []core.Move) {
	if len(moves) == 0 {
		c.ShowMessage("No legal moves.")
		return
	}
	ucis := make([]string, len(moves))
	for i, m := range moves {
		ucis[i] = m.String()
	}
	sort.Strings(ucis)
	c.ShowMessage(strings.Join(ucis, " "))
}

func (c *CLI) ShowGameOver(status core.GameStatus) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s\n", status))
	c.ShowMessage("Start a new game with 'new' or 'resume'.")
}

// HandleEvent announces position facts as they happen. Move rejections
// are reported by the command loop through the returned error, and game
// endings through ShowGameOver, so both are skipped here.
func (c *CLI) HandleEvent(e game.Event) {
	switch e.Kind {
	case game.EventCheck:
		c.ShowMessage("Check!")
	case game.EventCheckmate:
		c.ShowMessage("Checkmate!")
	case game.EventStalemate:
		c.ShowMessage("Stalemate.")
	case game.EventResigned:
		c.ShowMessage(fmt.Sprintf("%s resigns.", e.Color))
	case game.EventMoveMade:
		if c.verbose {
			c.ShowMessage(fmt.Sprintf("%s played %s", e.Move.Color, e.Move))
		}
	case game.EventTurnChanged:
		if c.verbose {
			c.ShowMessage(fmt.Sprintf("%s to move", e.Color))
		}
	}
}
