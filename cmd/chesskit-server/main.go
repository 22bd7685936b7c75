// Package main implements the archive server: a read-only HTTP API and
// embedded browser over a database of recorded games, plus database
// maintenance subcommands under "db".
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chesskit/cmd/chesskit-server/cli"
	"chesskit/internal/config"
	"chesskit/internal/storage"
	"chesskit/internal/transport/http"
)

const gracefulShutdownTimeout = time.Second * 5

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	cfg := config.RegisterServerFlags(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Error: %v", err)
	}

	// Manage PID file if requested
	if cfg.PIDPath != "" {
		cleanup, err := managePIDFile(cfg.PIDPath, cfg.PIDLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", cfg.PIDPath, cfg.PIDLock)
	}

	store, err := storage.NewStore(cfg.StoragePath, cfg.Dev)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	if err := store.InitDB(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Warning: failed to close storage cleanly: %v", err)
		}
	}()

	app := http.NewFiberApp(store, cfg.Dev)
	addr := cfg.Addr()

	go func() {
		log.Printf("Archive server starting...")
		log.Printf("Listening on: http://%s", addr)
		log.Printf("API Version: v1")
		if cfg.Dev {
			log.Printf("Rate Limit: 20 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate Limit: 10 requests/second per IP")
		}
		log.Printf("Archive: %s", cfg.StoragePath)
		log.Printf("Endpoints: http://%s/api/v1/games", addr)
		log.Printf("Browser: http://%s/", addr)
		log.Printf("Health: http://%s/health", addr)

		if err := app.Listen(addr); err != nil {
			log.Printf("Server listen error: %v", err)
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
