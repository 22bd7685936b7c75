// FILE: internal/transport/http/types.go
package http

import (
	"time"

	"chesskit/internal/storage"
)

// Query types

// ListGamesQuery carries the recognized parameters of the game list
// endpoint. Zero limit means the storage default of all rows, so the
// handler seeds its own cap before parsing.
type ListGamesQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=in_progress white_wins black_wins stalemate draw_insufficient_material draw_fifty_moves resigned"`
	Limit  int    `query:"limit" validate:"min=0,max=500"`
	Offset int    `query:"offset" validate:"min=0"`
}

// Response types

type GameSummary struct {
	GameID    string `json:"gameId"`
	Status    string `json:"status"`
	Winner    string `json:"winner,omitempty"` // "w" or "b"
	MoveCount int    `json:"moveCount"`
	StartedAt string `json:"startedAt"`
	EndedAt   string `json:"endedAt,omitempty"`
}

type GameListResponse struct {
	Games  []GameSummary `json:"games"`
	Count  int           `json:"count"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type MoveDetail struct {
	Number   int    `json:"number"`
	Player   string `json:"player"` // "w" or "b"
	Move     string `json:"move"`   // UCI format: "e2e4"
	FEN      string `json:"fen"`
	PlayedAt string `json:"playedAt"`
}

type GameDetailResponse struct {
	GameSummary
	InitialFEN string       `json:"initialFen"`
	FinalFEN   string       `json:"finalFen"`
	Moves      []MoveDetail `json:"moves"`
}

type BoardResponse struct {
	GameID  string `json:"gameId"`
	Ply     int    `json:"ply"`
	Move    string `json:"move,omitempty"` // move that produced this position
	FEN     string `json:"fen"`
	Board   string `json:"board"` // ASCII representation
	Turn    string `json:"turn"`  // "w" or "b"
	InCheck bool   `json:"inCheck"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// Helper functions

func summarize(rec storage.GameRecord) GameSummary {
	s := GameSummary{
		GameID:    rec.GameID,
		Status:    rec.Status,
		Winner:    rec.Winner,
		MoveCount: rec.MoveCount,
		StartedAt: rec.StartTimeUTC.UTC().Format(time.RFC3339),
	}
	if rec.EndTimeUTC.Valid {
		s.EndedAt = rec.EndTimeUTC.Time.UTC().Format(time.RFC3339)
	}
	return s
}

func detailMove(rec storage.MoveRecord) MoveDetail {
	return MoveDetail{
		Number:   rec.MoveNumber,
		Player:   rec.PlayerColor,
		Move:     rec.MoveUCI,
		FEN:      rec.FENAfterMove,
		PlayedAt: rec.MoveTimeUTC.UTC().Format(time.RFC3339),
	}
}

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInternalError     = "INTERNAL_ERROR"
)
