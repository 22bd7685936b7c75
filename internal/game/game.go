// FILE: internal/game/game.go

// Package game orchestrates a single chess game: it owns the board,
// tracks whose turn it is, applies validated moves, maintains the
// snapshot history that backs undo, and notifies observers of state
// changes. A Game is not safe for concurrent use; callers that share
// one serialize access, the way the service layer does.
package game

import (
	"fmt"

	"chesskit/internal/board"
	"chesskit/internal/core"
	"chesskit/internal/rules"
)

// A position is drawn once a hundred half moves pass with no pawn move
// or capture.
const fiftyMoveHalfmoves = 100

// Snapshot freezes the game after a move: the resulting position with
// its clocks folded into the FEN, the move that produced it, and the
// side to act next. The first snapshot carries the initial position and
// an empty move.
type Snapshot struct {
	FEN      string     `json:"fen"`
	Move     string     `json:"move"`
	NextTurn core.Color `json:"nextTurn"`
}

type Game struct {
	board     *board.Board
	turn      core.Color
	status    core.GameStatus
	resigned  core.Color
	started   bool
	halfmove  int
	fullmove  int
	snapshots []Snapshot
	observers []Observer
}

// Config assembles a game from explicit parts. Board is required; Turn
// defaults to White and Fullmove to 1 when left zero. Observers listed
// here are registered before any event fires.
type Config struct {
	Board     *board.Board
	Turn      core.Color
	Halfmove  int
	Fullmove  int
	Observers []Observer
}

// New returns an unstarted game built from cfg. The board takes
// ownership transfer: callers must not mutate cfg.Board afterwards.
// Both kings must be present; check evaluation has nothing to say about
// a board without them.
func New(cfg Config) (*Game, error) {
	if cfg.Board == nil {
		return nil, fmt.Errorf("game: nil board")
	}
	if cfg.Turn == 0 {
		cfg.Turn = core.ColorWhite
	}
	if !cfg.Turn.Valid() {
		return nil, fmt.Errorf("invalid color %q", cfg.Turn)
	}
	if cfg.Halfmove < 0 {
		return nil, fmt.Errorf("invalid halfmove clock: %d", cfg.Halfmove)
	}
	if cfg.Fullmove < 1 {
		cfg.Fullmove = 1
	}
	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		if _, ok := cfg.Board.FindKing(c); !ok {
			return nil, fmt.Errorf("invalid position: no %s king", c)
		}
	}

	g := &Game{
		board:     cfg.Board,
		turn:      cfg.Turn,
		status:    core.StatusNotStarted,
		halfmove:  cfg.Halfmove,
		fullmove:  cfg.Fullmove,
		observers: cfg.Observers,
	}
	g.snapshots = []Snapshot{{FEN: g.FEN(), NextTurn: g.turn}}
	return g, nil
}

// NewStandard returns an unstarted game from the standard initial
// position.
func NewStandard() *Game {
	g, err := FromFEN(board.StartingFEN)
	if err != nil {
		panic(fmt.Sprintf("game: standard position rejected: %v", err))
	}
	return g
}

// FromFEN returns an unstarted game seeded from an arbitrary position.
func FromFEN(fen string) (*Game, error) {
	b, meta, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return New(Config{Board: b, Turn: meta.Turn, Halfmove: meta.Halfmove, Fullmove: meta.Fullmove})
}

// Observe registers an observer for all subsequent events.
func (g *Game) Observe(obs Observer) {
	g.observers = append(g.observers, obs)
}

// Start moves the game out of its initial idle state and evaluates the
// position, so a seeded position that is already decided ends
// immediately. Starting a started game is a no-op.
func (g *Game) Start() {
	if g.started {
		return
	}
	g.started = true
	g.evaluateStatus()
	g.emit(Event{Kind: EventGameStarted, Color: g.turn, Status: g.status})
	g.emitPositionEvents()
}

// ApplyMove validates and plays a move for the side to move. The move
// is re-derived from the current position: callers supply endpoints and
// a promotion choice, never a move kind. On success the fully populated
// move is returned and the game advances; on failure the position is
// untouched and the error wraps one of the core sentinel errors.
func (g *Game) ApplyMove(from, to core.Position, promotion core.PieceKind) (core.Move, error) {
	attempted := core.Move{From: from, To: to, Promotion: promotion, Color: g.turn}

	if !g.started {
		return core.Move{}, g.reject(attempted, core.ErrGameNotStarted)
	}
	if g.status.Terminal() {
		return core.Move{}, g.reject(attempted, fmt.Errorf("%w: %s", core.ErrGameOver, g.status))
	}

	m, err := rules.Validate(g.board, g.turn, from, to, promotion)
	if err != nil {
		return core.Move{}, g.reject(attempted, err)
	}

	if m.Piece == core.Pawn || m.IsCapture() {
		g.halfmove = 0
	} else {
		g.halfmove++
	}
	if g.turn == core.ColorBlack {
		g.fullmove++
	}

	g.board.Apply(m)
	g.turn = g.turn.Opposite()
	g.evaluateStatus()
	g.snapshots = append(g.snapshots, Snapshot{FEN: g.FEN(), Move: m.String(), NextTurn: g.turn})

	g.emit(Event{Kind: EventMoveMade, Color: m.Color, Move: m, Status: g.status})
	g.emitPositionEvents()
	return m, nil
}

// MoveUCI parses coordinate notation such as "e2e4" or "e7e8q" and
// applies it for the side to move.
func (g *Game) MoveUCI(s string) (core.Move, error) {
	from, to, promotion, err := core.ParseUCI(s)
	if err != nil {
		return core.Move{}, err
	}
	return g.ApplyMove(from, to, promotion)
}

// Resign ends the game in favor of the resigner's opponent.
func (g *Game) Resign(c core.Color) error {
	if !g.started {
		return core.ErrGameNotStarted
	}
	if g.status.Terminal() {
		return fmt.Errorf("%w: %s", core.ErrGameOver, g.status)
	}
	if !c.Valid() {
		return fmt.Errorf("invalid color %q", c)
	}

	g.status = core.StatusResigned
	g.resigned = c
	g.emit(Event{Kind: EventResigned, Color: c, Status: g.status})
	g.emit(Event{Kind: EventGameEnded, Color: c.Opposite(), Status: g.status})
	return nil
}

// Undo rewinds the given number of moves by restoring the snapshot
// before them, clocks included. Undoing past a game-ending move reopens
// the game; the restored position is re-evaluated from scratch.
func (g *Game) Undo(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}
	available := len(g.snapshots) - 1
	if available < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, available)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	target := g.snapshots[len(g.snapshots)-1]
	b, meta, err := board.ParseFEN(target.FEN)
	if err != nil {
		return fmt.Errorf("corrupt snapshot: %w", err)
	}

	g.board = b
	g.turn = meta.Turn
	g.halfmove = meta.Halfmove
	g.fullmove = meta.Fullmove
	g.resigned = 0
	if g.started {
		g.evaluateStatus()
	}
	return nil
}

// Status reports the current lifecycle state.
func (g *Game) Status() core.GameStatus {
	return g.status
}

// Turn reports the side to move.
func (g *Game) Turn() core.Color {
	return g.turn
}

// InCheck reports whether the side to move is currently in check.
func (g *Game) InCheck() bool {
	return rules.IsInCheck(g.board, g.turn)
}

// LegalMoves lists every legal move for the side to move. The list is
// empty when the game has not started or is over.
func (g *Game) LegalMoves() []core.Move {
	if !g.started || g.status.Terminal() {
		return nil
	}
	return rules.LegalMovesFor(g.board, g.turn)
}

// LegalMovesFrom lists the legal moves of the piece on the square, if
// it belongs to the side to move.
func (g *Game) LegalMovesFrom(pos core.Position) []core.Move {
	if !g.started || g.status.Terminal() {
		return nil
	}
	pc, ok := g.board.PieceAt(pos)
	if !ok || pc.Color != g.turn {
		return nil
	}
	return rules.LegalMoves(g.board, pc)
}

// History returns the moves played so far in coordinate notation.
func (g *Game) History() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		if g.snapshots[i].Move != "" {
			moves = append(moves, g.snapshots[i].Move)
		}
	}
	return moves
}

// Snapshots returns the snapshot trail, index 0 being the initial
// position.
func (g *Game) Snapshots() []Snapshot {
	out := make([]Snapshot, len(g.snapshots))
	copy(out, g.snapshots)
	return out
}

// InitialFEN returns the position the game was seeded from.
func (g *Game) InitialFEN() string {
	return g.snapshots[0].FEN
}

// FEN renders the current position including clock fields.
func (g *Game) FEN() string {
	return g.board.FEN(board.Meta{Turn: g.turn, Halfmove: g.halfmove, Fullmove: g.fullmove})
}

// HalfmoveClock reports half moves since the last pawn move or capture.
func (g *Game) HalfmoveClock() int {
	return g.halfmove
}

// Winner reports the winning side for decided games; draws and open
// games have none.
func (g *Game) Winner() (core.Color, bool) {
	switch g.status {
	case core.StatusWhiteWins:
		return core.ColorWhite, true
	case core.StatusBlackWins:
		return core.ColorBlack, true
	case core.StatusResigned:
		return g.resigned.Opposite(), true
	default:
		return 0, false
	}
}

// Board returns a detached copy of the position for display and
// inspection. Mutating it does not affect the game.
func (g *Game) Board() *board.Board {
	return g.board.Copy()
}

func (g *Game) evaluateStatus() {
	switch {
	case rules.IsCheckmate(g.board, g.turn):
		if g.turn == core.ColorWhite {
			g.status = core.StatusBlackWins
		} else {
			g.status = core.StatusWhiteWins
		}
	case rules.IsStalemate(g.board, g.turn):
		g.status = core.StatusStalemate
	case rules.HasInsufficientMaterial(g.board):
		g.status = core.StatusDrawInsufficientMaterial
	case g.halfmove >= fiftyMoveHalfmoves:
		g.status = core.StatusDrawFiftyMoves
	default:
		g.status = core.StatusInProgress
	}
}

// emitPositionEvents reports check and termination facts about the
// position reached after a status evaluation.
func (g *Game) emitPositionEvents() {
	switch g.status {
	case core.StatusWhiteWins, core.StatusBlackWins:
		g.emit(Event{Kind: EventCheckmate, Color: g.turn, Status: g.status})
		g.emit(Event{Kind: EventGameEnded, Color: g.turn, Status: g.status})
	case core.StatusStalemate:
		g.emit(Event{Kind: EventStalemate, Color: g.turn, Status: g.status})
		g.emit(Event{Kind: EventGameEnded, Color: g.turn, Status: g.status})
	case core.StatusDrawInsufficientMaterial, core.StatusDrawFiftyMoves:
		g.emit(Event{Kind: EventGameEnded, Color: g.turn, Status: g.status})
	case core.StatusInProgress:
		if g.InCheck() {
			g.emit(Event{Kind: EventCheck, Color: g.turn, Status: g.status})
		}
		g.emit(Event{Kind: EventTurnChanged, Color: g.turn, Status: g.status})
	}
}

func (g *Game) reject(attempted core.Move, err error) error {
	g.emit(Event{Kind: EventMoveRejected, Color: g.turn, Move: attempted, Err: err})
	return err
}

func (g *Game) emit(e Event) {
	for _, obs := range g.observers {
		obs.HandleEvent(e)
	}
}
