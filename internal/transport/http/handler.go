// FILE: internal/transport/http/handler.go
package http

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"chesskit/internal/game"
	"chesskit/internal/storage"
)

const rateLimitRate = 10 // req/sec

//go:embed web
var webFS embed.FS

// ArchiveHandler serves recorded games out of storage. The surface is
// read only; play happens at the console, never over HTTP.
type ArchiveHandler struct {
	store *storage.Store
}

func NewArchiveHandler(store *storage.Store) *ArchiveHandler {
	return &ArchiveHandler{store: store}
}

func NewFiberApp(store *storage.Store, devMode bool) *fiber.App {
	// Create handler
	h := NewArchiveHandler(store)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	// Archive browser page
	app.Get("/", h.Index)

	// API v1 routes with rate limiting
	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,          // Allow requests per second
		Expiration: 1 * time.Second, // Per second
		KeyGenerator: func(c *fiber.Ctx) string {
			// Check X-Forwarded-For first, then RemoteIP
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				// Take the first IP from X-Forwarded-For chain
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	// Register archive routes
	api.Get("/games", h.ListGames)
	api.Get("/games/:gameId", h.GetGame)
	api.Get("/games/:gameId/board", h.GetBoard)

	return app
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := ErrorResponse{
		Error: "internal server error",
		Code:  ErrInternalError,
	}

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		// Map HTTP status to error codes
		switch code {
		case fiber.StatusNotFound:
			response.Code = ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// Health check endpoint with storage status
func (h *ArchiveHandler) Health(c *fiber.Ctx) error {
	storageHealth := "ok"
	if !h.store.IsHealthy() {
		storageHealth = "degraded"
	}
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": storageHealth,
	})
}

// Index serves the embedded archive browser page
func (h *ArchiveHandler) Index(c *fiber.Ctx) error {
	data, err := webFS.ReadFile("web/index.html")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "index.html not found")
	}
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(data)
}

// ListGames returns recorded games newest first, filtered and paged by
// query parameters
func (h *ArchiveHandler) ListGames(c *fiber.Ctx) error {
	q := ListGamesQuery{Limit: 50}
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid query parameters",
			Code:    ErrInvalidRequest,
			Details: err.Error(),
		})
	}
	if err := validateQuery(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid query parameters",
			Code:    ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	records, err := h.store.ListGames(q.Status, q.Limit, q.Offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "archive query failed")
	}

	games := make([]GameSummary, len(records))
	for i, rec := range records {
		games[i] = summarize(rec)
	}

	return c.JSON(GameListResponse{
		Games:  games,
		Count:  len(games),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
}

// GetGame returns one recorded game with its full move list
func (h *ArchiveHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	// Validate UUID format
	if !isValidUUID(gameID) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid game ID format",
			Code:    ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
	}

	rec, err := h.store.GetGame(gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "game not found",
			Code:  ErrGameNotFound,
		})
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "archive query failed")
	}

	moves, err := h.store.GetMoves(gameID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "archive query failed")
	}

	detail := GameDetailResponse{
		GameSummary: summarize(rec),
		InitialFEN:  rec.InitialFEN,
		FinalFEN:    rec.InitialFEN,
		Moves:       make([]MoveDetail, len(moves)),
	}
	for i, mv := range moves {
		detail.Moves[i] = detailMove(mv)
	}
	if n := len(moves); n > 0 {
		detail.FinalFEN = moves[n-1].FENAfterMove
	}

	return c.JSON(detail)
}

// GetBoard replays a recorded game up to the requested ply and returns
// that position. Without a ply parameter the final position is served.
func (h *ArchiveHandler) GetBoard(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	// Validate UUID format
	if !isValidUUID(gameID) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid game ID format",
			Code:    ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
	}

	rec, err := h.store.GetGame(gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "game not found",
			Code:  ErrGameNotFound,
		})
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "archive query failed")
	}

	moves, err := h.store.GetMoves(gameID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "archive query failed")
	}

	ply := len(moves)
	if raw := c.Query("ply"); raw != "" {
		ply, err = strconv.Atoi(raw)
		if err != nil || ply < 0 || ply > len(moves) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid ply",
				Code:    ErrInvalidRequest,
				Details: fmt.Sprintf("ply must be between 0 and %d", len(moves)),
			})
		}
	}

	g, err := replay(rec.InitialFEN, moves, ply)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "corrupt recording")
	}

	resp := BoardResponse{
		GameID:  gameID,
		Ply:     ply,
		FEN:     g.FEN(),
		Board:   g.Board().ASCII(),
		Turn:    string(g.Turn()),
		InCheck: g.InCheck(),
	}
	if ply > 0 {
		resp.Move = moves[ply-1].MoveUCI
	}

	return c.JSON(resp)
}

// replay runs the first ply recorded moves through a fresh game. Every
// archived move was legal when recorded, so a rejection here means the
// rows no longer describe a real game.
func replay(initialFEN string, moves []storage.MoveRecord, ply int) (*game.Game, error) {
	g, err := game.FromFEN(initialFEN)
	if err != nil {
		return nil, err
	}
	g.Start()
	for _, mv := range moves[:ply] {
		if _, err := g.MoveUCI(mv.MoveUCI); err != nil {
			return nil, fmt.Errorf("recorded move %d (%s): %w", mv.MoveNumber, mv.MoveUCI, err)
		}
	}
	return g, nil
}
