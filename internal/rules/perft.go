// FILE: internal/rules/perft.go

package rules

import (
	"context"

	"golang.org/x/sync/errgroup"

	"chesskit/internal/board"
	"chesskit/internal/core"
)

// Perft counts the leaf nodes of the legal move tree to the given
// depth. The counts for the standard verification positions are the
// usual cross-check for generator correctness.
func Perft(b *board.Board, turn core.Color, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var nodes uint64
	for _, pc := range b.PiecesOf(turn) {
		for _, m := range LegalMoves(b, pc) {
			if depth == 1 {
				nodes++
				continue
			}
			child := b.Copy()
			child.Apply(m)
			nodes += Perft(child, turn.Opposite(), depth-1)
		}
	}
	return nodes
}

// RootCount pairs a root move with the size of its subtree.
type RootCount struct {
	Move  core.Move
	Nodes uint64
}

// PerftSplit distributes the root moves across at most workers
// goroutines and returns per-move subtree counts in generation order
// along with the grand total. Depth must be at least 1; workers <= 0
// means no limit.
func PerftSplit(ctx context.Context, b *board.Board, turn core.Color, depth, workers int) ([]RootCount, uint64, error) {
	roots := LegalMovesFor(b, turn)
	counts := make([]RootCount, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, m := range roots {
		i, m := i, m
		counts[i].Move = m
		if depth <= 1 {
			counts[i].Nodes = 1
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			child := b.Copy()
			child.Apply(m)
			counts[i].Nodes = Perft(child, turn.Opposite(), depth-1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var total uint64
	for _, rc := range counts {
		total += rc.Nodes
	}
	return counts, total, nil
}
