// FILE: internal/storage/schema.go
package storage

import (
	"database/sql"
	"time"
)

// GameRecord represents a row in the games table. MoveCount is derived
// from the moves table on reads and never written directly.
type GameRecord struct {
	GameID       string       `db:"game_id"`
	InitialFEN   string       `db:"initial_fen"`
	Status       string       `db:"status"`
	Winner       string       `db:"winner"` // "w", "b" or "" while undecided
	StartTimeUTC time.Time    `db:"start_time_utc"`
	EndTimeUTC   sql.NullTime `db:"end_time_utc"`
	MoveCount    int          `db:"-"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID       int64     `db:"move_id"`
	GameID       string    `db:"game_id"`
	MoveNumber   int       `db:"move_number"`
	MoveUCI      string    `db:"move_uci"`
	FENAfterMove string    `db:"fen_after_move"`
	PlayerColor  string    `db:"player_color"` // "w" or "b"
	MoveTimeUTC  time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_fen TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'in_progress',
	winner TEXT NOT NULL DEFAULT '' CHECK(winner IN ('', 'w', 'b')),
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	end_time_utc DATETIME
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move_uci TEXT NOT NULL,
	fen_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_status ON games(status);
CREATE INDEX IF NOT EXISTS idx_games_start_time ON games(start_time_utc);
`
