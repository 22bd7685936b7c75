// FILE: cmd/chesskit/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"chesskit/internal/cli"
	"chesskit/internal/config"
	"chesskit/internal/service"
	"chesskit/internal/storage"
	clitransport "chesskit/internal/transport/cli"
)

func main() {
	cfg := config.RegisterConsoleFlags(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid options: %v\n", err)
		os.Exit(1)
	}

	// Recording is optional; without it games live only in the session
	var store *storage.Store
	if cfg.StoragePath != "" {
		var err error
		store, err = storage.NewStore(cfg.StoragePath, false)
		if err != nil {
			fmt.Printf("Failed to open storage: %v\n", err)
			os.Exit(1)
		}
		if err := store.InitDB(); err != nil {
			fmt.Printf("Failed to initialize schema: %v\n", err)
			os.Exit(1)
		}
	}

	svc, err := service.New(store)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close() // Closes the store as well

	view := cli.New(os.Stdin, os.Stdout)

	// Color codes only go to real terminals
	theme := cli.ColorTheme(cfg.Theme)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		theme = cli.ThemeOff
	}
	if err := view.SetTheme(theme); err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	if err := view.SetPieces(cli.PieceSet(cfg.Pieces)); err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	if cfg.Verbose {
		view.ToggleVerbose()
	}

	handler := clitransport.New(svc, view)

	if cfg.Demo {
		if err := handler.PlayDemo(); err != nil {
			fmt.Printf("Demo failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	view.ShowWelcome()
	if cfg.FEN != "" {
		if err := handler.StartGame(cfg.FEN); err != nil {
			fmt.Printf("Cannot start from position %q: %v\n", cfg.FEN, err)
			os.Exit(1)
		}
	}
	handler.Run() // All game loop logic is in the handler
}
