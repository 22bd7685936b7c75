// FILE: internal/transport/transport.go
package transport

import (
	"chesskit/internal/board"
	"chesskit/internal/core"
	"chesskit/internal/game"
)

// View abstracts display/output operations so handlers stay independent
// of the rendering medium.
type View interface {
	DisplayBoard(b *board.Board)
	ShowMessage(msg string)
	ShowError(err error)
	ShowPrompt(prompt string)
	ShowLegalMoves(moves []core.Move)
	ShowGameHistory(g *game.Game)
	ShowGameOver(status core.GameStatus)
	ShowHelp()
	ShowWelcome()
}
