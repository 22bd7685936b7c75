// FILE: internal/service/service.go
package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"chesskit/internal/core"
	"chesskit/internal/game"
	"chesskit/internal/storage"
)

// Service manages the set of live games and mirrors their progress into
// storage when persistence is enabled. Games themselves are not safe
// for concurrent use, so every operation on one runs under the service
// lock.
type Service struct {
	games map[string]*game.Game
	mu    sync.RWMutex
	store *storage.Store // nil if persistence disabled
}

// New creates a new service instance with optional storage
func New(store *storage.Store) (*Service, error) {
	return &Service{
		games: make(map[string]*game.Game),
		store: store,
	}, nil
}

// CreateGame creates and starts a game from the given position; an
// empty FEN means the standard initial position. Observers are attached
// before the game starts so they see the full event stream.
func (s *Service) CreateGame(id, initialFEN string, observers ...game.Observer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("game %s already exists", id)
	}

	var g *game.Game
	if initialFEN == "" {
		g = game.NewStandard()
	} else {
		var err error
		g, err = game.FromFEN(initialFEN)
		if err != nil {
			return err
		}
	}
	for _, obs := range observers {
		g.Observe(obs)
	}
	g.Start()
	s.games[id] = g

	// Persist if storage enabled
	if s.store != nil {
		record := storage.GameRecord{
			GameID:       id,
			InitialFEN:   g.InitialFEN(),
			Status:       g.Status().Code(),
			Winner:       winnerCode(g),
			StartTimeUTC: time.Now().UTC(),
		}
		s.store.RecordNewGame(record)
		if g.Status().Terminal() {
			s.store.RecordResult(id, g.Status().Code(), winnerCode(g), time.Now().UTC())
		}
	}

	return nil
}

// GetGame retrieves a game by ID. The returned game must only be read;
// mutations go through the service.
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game not found: %s", gameID)
	}
	return g, nil
}

// ListGameIDs returns the ids of all live games in stable order.
func (s *Service) ListGameIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Ensure UUID uniqueness (handle potential conflicts)
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// ApplyMove plays a move in coordinate notation for the side to move
// and returns the applied move with the resulting status.
func (s *Service) ApplyMove(gameID, moveUCI string) (core.Move, core.GameStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return core.Move{}, 0, fmt.Errorf("game not found: %s", gameID)
	}

	m, err := g.MoveUCI(moveUCI)
	if err != nil {
		return core.Move{}, g.Status(), err
	}

	// Persist if storage enabled
	if s.store != nil {
		record := storage.MoveRecord{
			GameID:       gameID,
			MoveNumber:   len(g.History()),
			MoveUCI:      m.String(),
			FENAfterMove: g.FEN(),
			PlayerColor:  string(m.Color),
			MoveTimeUTC:  time.Now().UTC(),
		}
		s.store.RecordMove(record)
		if g.Status().Terminal() {
			s.store.RecordResult(gameID, g.Status().Code(), winnerCode(g), time.Now().UTC())
		}
	}

	return m, g.Status(), nil
}

// Resign ends a game in favor of the resigner's opponent.
func (s *Service) Resign(gameID string, color core.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("game not found: %s", gameID)
	}

	if err := g.Resign(color); err != nil {
		return err
	}
	if s.store != nil {
		s.store.RecordResult(gameID, g.Status().Code(), winnerCode(g), time.Now().UTC())
	}
	return nil
}

// UndoMoves rewinds moves, reopening the game if it had ended.
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("game not found: %s", gameID)
	}

	if err := g.Undo(count); err != nil {
		return err
	}

	// Delete undone moves from storage if enabled
	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, len(g.History()))
		s.store.RecordStatus(gameID, g.Status().Code())
	}

	return nil
}

// DeleteGame removes a game from memory; archived rows stay in storage.
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("game not found: %s", gameID)
	}

	delete(s.games, gameID)
	return nil
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Close cleans up resources
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clear all games
	s.games = make(map[string]*game.Game)

	// Close storage if enabled
	if s.store != nil {
		return s.store.Close()
	}

	return nil
}

func winnerCode(g *game.Game) string {
	if winner, ok := g.Winner(); ok {
		return string(winner)
	}
	return ""
}
