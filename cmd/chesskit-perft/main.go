// FILE: cmd/chesskit-perft/main.go

// Perft walks the legal move tree of a position and reports leaf
// counts, the standard cross-check for move generator correctness.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"chesskit/internal/board"
	"chesskit/internal/config"
	"chesskit/internal/rules"
)

func main() {
	cfg := config.RegisterPerftFlags(flag.CommandLine)
	flag.Parse()

	if cfg.FEN == "" {
		cfg.FEN = board.StartingFEN
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Error: %v", err)
	}

	b, meta, err := board.ParseFEN(cfg.FEN)
	if err != nil {
		log.Fatalf("Bad position: %v", err)
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	fmt.Printf("Position: %s\n", cfg.FEN)
	fmt.Printf("Depth:    %d\n", cfg.Depth)
	fmt.Printf("Workers:  %d\n", workers)

	startAt := time.Now()
	counts, total, err := rules.PerftSplit(context.Background(), b, meta.Turn, cfg.Depth, workers)
	if err != nil {
		log.Fatalf("Perft failed: %v", err)
	}
	elapsed := time.Since(startAt)

	if cfg.Split {
		fmt.Println()
		for _, rc := range counts {
			fmt.Printf("%s: %d\n", rc.Move, rc.Nodes)
		}
	}

	fmt.Println()
	fmt.Printf("Nodes:   %d\n", total)
	fmt.Printf("Elapsed: %s\n", elapsed.Round(time.Millisecond))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Printf("Rate:    %.0f nodes/s\n", float64(total)/secs)
	}
}
