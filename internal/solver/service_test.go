package solver

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/amphipod/internal/board"
	"github.com/lawnchairsociety/amphipod/internal/burrow"
	"github.com/lawnchairsociety/amphipod/internal/database"
	"github.com/lawnchairsociety/amphipod/internal/search"
)

const smallBoard = "#######\n#.....#\n##B#A##\n #####\n"

func parse(t *testing.T, s string) *burrow.Burrow {
	t.Helper()
	b, err := board.ParseString(s)
	require.NoError(t, err)
	return b
}

func openDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "solutions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// failingStore fails every call.
type failingStore struct {
	gets, saves int
}

func (f *failingStore) GetSolution(string) (*database.Solution, error) {
	f.gets++
	return nil, errors.New("store offline")
}

func (f *failingStore) SaveSolution(*database.Solution) error {
	f.saves++
	return errors.New("store offline")
}

func TestSolveWithoutStore(t *testing.T) {
	svc := NewService(nil)

	out, err := svc.Solve(context.Background(), parse(t, smallBoard))
	require.NoError(t, err)
	assert.Equal(t, 46, out.Cost)
	assert.False(t, out.Cached)
}

func TestSolveCachesSolution(t *testing.T) {
	db := openDB(t)
	svc := NewService(db)
	start := parse(t, smallBoard)

	first, err := svc.Solve(context.Background(), start)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	stored, err := db.GetSolution(database.BoardKey(start))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 46, stored.Cost)
	assert.Equal(t, first.Stats.Expanded, stored.Expanded)

	second, err := svc.Solve(context.Background(), start)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.False(t, second.SolvedAt.IsZero())
	assert.Equal(t, first.Cost, second.Cost)
	assert.Equal(t, first.Moves, second.Moves)
	assert.True(t, first.Final.Equal(second.Final))
}

func TestSolveIgnoresBrokenCacheEntry(t *testing.T) {
	db := openDB(t)
	start := parse(t, smallBoard)

	// A stored move list that is not legal from start.
	require.NoError(t, db.SaveSolution(&database.Solution{
		BoardKey: database.BoardKey(start),
		Layout:   start.Graph().Layout().String(),
		Cost:     1,
		Moves:    []burrow.Move{{From: 0, To: 1}},
	}))

	out, err := NewService(db).Solve(context.Background(), start)
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Equal(t, 46, out.Cost)

	// The fresh solve overwrote the broken entry.
	stored, err := db.GetSolution(database.BoardKey(start))
	require.NoError(t, err)
	assert.Equal(t, 46, stored.Cost)
}

func TestSolveStoreFailuresAreNotFatal(t *testing.T) {
	store := &failingStore{}
	out, err := NewService(store).Solve(context.Background(), parse(t, smallBoard))
	require.NoError(t, err)
	assert.Equal(t, 46, out.Cost)
	assert.Equal(t, 1, store.gets)
	assert.Equal(t, 1, store.saves)
}

func TestSolveErrors(t *testing.T) {
	db := openDB(t)
	svc := NewService(db)

	unsolvable := parse(t, "#.....#\n###A###\n  #B#\n  ###\n")
	_, err := svc.Solve(context.Background(), unsolvable)
	assert.ErrorIs(t, err, search.ErrUnsolvable)

	// Per-call options add to the service options.
	example := parse(t, "#...........#\n###B#C#B#D###\n  #A#D#C#A#\n")
	_, err = svc.Solve(context.Background(), example, search.WithMaxExpanded(10))
	assert.ErrorIs(t, err, search.ErrLimitExceeded)

	count, err := db.CountSolutions()
	require.NoError(t, err)
	assert.Zero(t, count, "failed solves are not stored")
}
