package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"chesskit/internal/storage"
)

// Run is the entry point for the db maintenance mini-app
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, query, delete")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "query":
		return runQuery(args[1:])
	case "delete":
		return runDelete(args[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := fs.String("db", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *path == "" {
		return fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Printf("Database initialized at: %s\n", *path)
	return nil
}

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	path := fs.String("db", "", "Database file path (required)")
	gameID := fs.String("game", "", "Game ID to inspect (optional)")
	status := fs.String("status", "", "Status filter, e.g. white_wins (optional)")
	limit := fs.Int("limit", 0, "Maximum games to list, 0 for all")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *path == "" {
		return fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	if *gameID != "" {
		return printGame(store, *gameID)
	}

	games, err := store.ListGames(*status, *limit, 0)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Println("No games found")
		return nil
	}

	// Print results in tabular format
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tStatus\tWinner\tMoves\tStarted\tEnded")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, g := range games {
		winner := g.Winner
		if winner == "" {
			winner = "-"
		}
		ended := "-"
		if g.EndTimeUTC.Valid {
			ended = g.EndTimeUTC.Time.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			g.GameID,
			g.Status,
			winner,
			g.MoveCount,
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
			ended,
		)
	}
	w.Flush()

	fmt.Printf("\nFound %d game(s)\n", len(games))
	return nil
}

func printGame(store *storage.Store, gameID string) error {
	g, err := store.GetGame(gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	moves, err := store.GetMoves(gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Printf("Game ID:     %s\n", g.GameID)
	fmt.Printf("Status:      %s\n", g.Status)
	if g.Winner != "" {
		fmt.Printf("Winner:      %s\n", g.Winner)
	}
	fmt.Printf("Started:     %s\n", g.StartTimeUTC.Format("2006-01-02 15:04:05"))
	if g.EndTimeUTC.Valid {
		fmt.Printf("Ended:       %s\n", g.EndTimeUTC.Time.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Initial FEN: %s\n", g.InitialFEN)

	if len(moves) == 0 {
		fmt.Println("\nNo moves recorded")
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPlayer\tMove\tPlayed")
	for _, m := range moves {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			m.MoveNumber,
			m.PlayerColor,
			m.MoveUCI,
			m.MoveTimeUTC.Format("15:04:05"),
		)
	}
	w.Flush()

	fmt.Printf("\n%d move(s)\n", len(moves))
	return nil
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	path := fs.String("db", "", "Database file path (required)")
	gameID := fs.String("game", "", "Game ID to delete")
	all := fs.Bool("all", false, "Delete the whole database file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *path == "" {
		return fmt.Errorf("database path required")
	}
	if *gameID == "" && !*all {
		return fmt.Errorf("either -game or -all required")
	}
	if *gameID != "" && *all {
		return fmt.Errorf("specify either -game or -all, not both")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if *all {
		// DeleteDB closes the store itself
		if err := store.DeleteDB(); err != nil {
			return fmt.Errorf("failed to delete database: %w", err)
		}
		fmt.Printf("Database deleted: %s\n", *path)
		return nil
	}

	defer store.Close()
	if err := store.DeleteGame(*gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	fmt.Printf("Game deleted: %s\n", *gameID)
	return nil
}
