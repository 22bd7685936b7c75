// FILE: internal/service/service_test.go
package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesskit/internal/core"
	"chesskit/internal/game"
	"chesskit/internal/storage"
)

var scholarsMate = []string{"e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7"}

type kindRecorder struct {
	kinds []game.EventKind
}

func (r *kindRecorder) HandleEvent(e game.Event) {
	r.kinds = append(r.kinds, e.Kind)
}

func newMemoryService(t *testing.T) *Service {
	t.Helper()
	s, err := New(nil)
	require.NoError(t, err)
	return s
}

func newStoredService(t *testing.T, path string) *Service {
	t.Helper()
	store, err := storage.NewStore(path, false)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())
	s, err := New(store)
	require.NoError(t, err)
	return s
}

func reopenStore(t *testing.T, path string) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(path, false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndGetGame(t *testing.T) {
	s := newMemoryService(t)
	defer s.Close()

	require.NoError(t, s.CreateGame("g1", ""))
	g, err := s.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusInProgress, g.Status())

	assert.Error(t, s.CreateGame("g1", ""), "duplicate id")
	_, err = s.GetGame("missing")
	assert.Error(t, err)
}

func TestCreateGameRejectsBadFEN(t *testing.T) {
	s := newMemoryService(t)
	defer s.Close()
	assert.Error(t, s.CreateGame("g1", "not a position"))
}

func TestCreateGameAttachesObserversBeforeStart(t *testing.T) {
	s := newMemoryService(t)
	defer s.Close()

	rec := &kindRecorder{}
	require.NoError(t, s.CreateGame("g1", "", rec))
	require.NotEmpty(t, rec.kinds)
	assert.Equal(t, game.EventGameStarted, rec.kinds[0])
}

func TestGenerateGameIDUnique(t *testing.T) {
	s := newMemoryService(t)
	defer s.Close()

	a := s.GenerateGameID()
	b := s.GenerateGameID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestListGameIDs(t *testing.T) {
	s := newMemoryService(t)
	defer s.Close()

	require.NoError(t, s.CreateGame("beta", ""))
	require.NoError(t, s.CreateGame("alpha", ""))
	assert.Equal(t, []string{"alpha", "beta"}, s.ListGameIDs())
}

func TestApplyMoveFlow(t *testing.T) {
	s := newMemoryService(t)
	defer s.Close()
	require.NoError(t, s.CreateGame("g1", ""))

	m, status, err := s.ApplyMove("g1", "e2e4")
	require.NoError(t, err)
	assert.Equal(t, core.MovePawnDouble, m.Kind)
	assert.Equal(t, core.StatusInProgress, status)

	_, _, err = s.ApplyMove("g1", "e2e4")
	assert.ErrorIs(t, err, core.ErrIllegalMove, "square is empty now")

	_, _, err = s.ApplyMove("missing", "e2e4")
	assert.Error(t, err)
}

func TestDeleteGameRemovesFromMemory(t *testing.T) {
	s := newMemoryService(t)
	defer s.Close()
	require.NoError(t, s.CreateGame("g1", ""))

	require.NoError(t, s.DeleteGame("g1"))
	_, err := s.GetGame("g1")
	assert.Error(t, err)
	assert.Error(t, s.DeleteGame("g1"))
}

func TestStorageHealthStates(t *testing.T) {
	s := newMemoryService(t)
	assert.Equal(t, "disabled", s.GetStorageHealth())
	s.Close()

	path := filepath.Join(t.TempDir(), "games.db")
	stored := newStoredService(t, path)
	defer stored.Close()
	assert.Equal(t, "ok", stored.GetStorageHealth())
}

func TestServicePersistsFullGame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	s := newStoredService(t, path)

	require.NoError(t, s.CreateGame("g1", ""))
	for _, uci := range scholarsMate {
		_, _, err := s.ApplyMove("g1", uci)
		require.NoError(t, err)
	}
	g, err := s.GetGame("g1")
	require.NoError(t, err)
	require.Equal(t, core.StatusWhiteWins, g.Status())
	require.NoError(t, s.Close())

	store := reopenStore(t, path)
	rec, err := store.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, "white_wins", rec.Status)
	assert.Equal(t, "w", rec.Winner)
	assert.Equal(t, 7, rec.MoveCount)
	assert.True(t, rec.EndTimeUTC.Valid)

	moves, err := store.GetMoves("g1")
	require.NoError(t, err)
	require.Len(t, moves, 7)
	assert.Equal(t, "e2e4", moves[0].MoveUCI)
	assert.Equal(t, "h5f7", moves[6].MoveUCI)
	assert.Equal(t, "w", moves[6].PlayerColor)
}

func TestUndoSyncsStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	s := newStoredService(t, path)

	require.NoError(t, s.CreateGame("g1", ""))
	_, _, err := s.ApplyMove("g1", "e2e4")
	require.NoError(t, err)
	_, _, err = s.ApplyMove("g1", "e7e5")
	require.NoError(t, err)

	require.NoError(t, s.UndoMoves("g1", 1))
	g, err := s.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e2e4"}, g.History())
	require.NoError(t, s.Close())

	store := reopenStore(t, path)
	moves, err := store.GetMoves("g1")
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "e2e4", moves[0].MoveUCI)
}

func TestUndoReopensStoredResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	s := newStoredService(t, path)

	require.NoError(t, s.CreateGame("g1", ""))
	for _, uci := range scholarsMate {
		_, _, err := s.ApplyMove("g1", uci)
		require.NoError(t, err)
	}
	require.NoError(t, s.UndoMoves("g1", 1))
	require.NoError(t, s.Close())

	store := reopenStore(t, path)
	rec, err := store.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", rec.Status)
	assert.Equal(t, "", rec.Winner)
	assert.False(t, rec.EndTimeUTC.Valid)
	assert.Equal(t, 6, rec.MoveCount)
}

func TestResignPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	s := newStoredService(t, path)

	require.NoError(t, s.CreateGame("g1", ""))
	_, _, err := s.ApplyMove("g1", "e2e4")
	require.NoError(t, err)
	require.NoError(t, s.Resign("g1", core.ColorBlack))
	require.NoError(t, s.Close())

	store := reopenStore(t, path)
	rec, err := store.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, "resigned", rec.Status)
	assert.Equal(t, "w", rec.Winner)
}

func TestSeededDecidedPositionRecordsResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	s := newStoredService(t, path)

	foolsMate := "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	require.NoError(t, s.CreateGame("g1", foolsMate))
	g, err := s.GetGame("g1")
	require.NoError(t, err)
	require.Equal(t, core.StatusBlackWins, g.Status())
	require.NoError(t, s.Close())

	store := reopenStore(t, path)
	rec, err := store.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, "black_wins", rec.Status)
	assert.Equal(t, "b", rec.Winner)
}
