package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/amphipod/internal/burrow"
)

// fromKey builds a burrow whose occupants, in room id order, are spelled by key.
func fromKey(t *testing.T, layout burrow.Layout, key string) *burrow.Burrow {
	t.Helper()

	g, err := burrow.NewGraph(layout)
	require.NoError(t, err)
	require.Len(t, key, g.Len())

	b := burrow.New(g)
	for i, r := range key {
		k, err := burrow.ParseKind(r)
		require.NoError(t, err)
		b.Set(burrow.RoomID(i), k)
	}
	return b
}

var (
	twoColumns = burrow.Layout{HallwayLength: 5, Doorways: []int{1, 3}, Depth: 1}
	twoDeep    = burrow.Layout{HallwayLength: 5, Doorways: []int{1, 3}, Depth: 2}
	oneColumn  = burrow.Layout{HallwayLength: 5, Doorways: []int{2}, Depth: 2}
)

func exampleBurrow(t *testing.T) *burrow.Burrow {
	return fromKey(t, burrow.StandardLayout(2), "...........BCBDADCA")
}

func TestSolveOptimalCost(t *testing.T) {
	tests := []struct {
		name   string
		layout burrow.Layout
		key    string
		want   int
	}{
		{"already solved", twoColumns, ".....AB", 0},
		{"two columns swapped", twoColumns, ".....BA", 46},
		{"two deep with hallway amphipod", twoDeep, "A....A.BB", 61},
		{"reference example", burrow.StandardLayout(2), "...........BCBDADCA", 12521},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := fromKey(t, tt.layout, tt.key)
			res, err := Solve(start)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Cost)
			assert.True(t, res.Final.IsSolved())
		})
	}
}

func TestSolveUnfoldedExample(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unfolded solve in short mode")
	}

	start := fromKey(t, burrow.StandardLayout(4), "...........BCBDDCBADBACADCA")
	res, err := Solve(start)
	require.NoError(t, err)
	assert.Equal(t, 44169, res.Cost)
}

func TestSolveUnsolvable(t *testing.T) {
	// A single column holding A above B: B has nowhere to go.
	start := fromKey(t, oneColumn, ".....AB")
	_, err := Solve(start)
	if !errors.Is(err, ErrUnsolvable) {
		t.Errorf("Solve() error = %v, want ErrUnsolvable", err)
	}
}

func TestSolveDoesNotModifyStart(t *testing.T) {
	start := exampleBurrow(t)
	before := start.Key()

	_, err := Solve(start)
	require.NoError(t, err)
	assert.Equal(t, before, start.Key())
}

func TestSolveHistory(t *testing.T) {
	start := fromKey(t, twoDeep, "A....A.BB")
	res, err := Solve(start)
	require.NoError(t, err)

	require.Len(t, res.History, len(res.Moves))
	require.NotEmpty(t, res.History)
	assert.True(t, res.History[0].Equal(start), "history starts with the start configuration")

	// Walking the moves reproduces the history and the final configuration.
	cur := start
	total := 0
	for i, m := range res.Moves {
		assert.True(t, res.History[i].Equal(cur), "history[%d]", i)
		cur = cur.Apply(m)
		total += m.Cost
	}
	assert.True(t, cur.Equal(res.Final))
	assert.Equal(t, res.Cost, total)
}

func TestSolvePopsInCostOrder(t *testing.T) {
	last := -1
	pops := 0
	_, err := Solve(exampleBurrow(t), WithOnPop(func(n *Node) {
		pops++
		if n.Cost < last {
			t.Fatalf("pop %d cost %d after %d", pops, n.Cost, last)
		}
		last = n.Cost
	}))
	require.NoError(t, err)
	assert.Equal(t, 12521, last)
	assert.Greater(t, pops, 1)
}

func TestSolveDeterministic(t *testing.T) {
	first, err := Solve(exampleBurrow(t))
	require.NoError(t, err)
	second, err := Solve(exampleBurrow(t))
	require.NoError(t, err)

	assert.Equal(t, first.Moves, second.Moves)
	assert.Equal(t, first.Stats.Expanded, second.Stats.Expanded)
	assert.Equal(t, first.Stats.Generated, second.Stats.Generated)
}

func TestSolveStats(t *testing.T) {
	res, err := Solve(exampleBurrow(t), WithProgressEvery(100))
	require.NoError(t, err)

	assert.Positive(t, res.Stats.Expanded)
	assert.GreaterOrEqual(t, res.Stats.Generated, res.Stats.Expanded)
	assert.Positive(t, res.Stats.MaxFrontier)
}

func TestSolveMaxExpanded(t *testing.T) {
	_, err := Solve(exampleBurrow(t), WithMaxExpanded(10))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("Solve() error = %v, want ErrLimitExceeded", err)
	}

	// A generous bound does not interfere.
	res, err := Solve(fromKey(t, twoColumns, ".....BA"), WithMaxExpanded(1000))
	require.NoError(t, err)
	assert.Equal(t, 46, res.Cost)
}

func TestSolveContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SolveContext(ctx, exampleBurrow(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("SolveContext() error = %v, want context.Canceled", err)
	}
}

func TestReplay(t *testing.T) {
	start := exampleBurrow(t)
	solved, err := Solve(start)
	require.NoError(t, err)

	// Stored moves carry no cost; replay recomputes it.
	stored := make([]burrow.Move, len(solved.Moves))
	for i, m := range solved.Moves {
		stored[i] = burrow.Move{From: m.From, To: m.To}
	}

	res, err := Replay(start, stored)
	require.NoError(t, err)
	assert.Equal(t, 12521, res.Cost)
	assert.Equal(t, solved.Moves, res.Moves)
	assert.True(t, res.Final.Equal(solved.Final))
	assert.Len(t, res.History, len(stored))
}

func TestReplayIllegal(t *testing.T) {
	start := fromKey(t, twoColumns, ".....BA")

	tests := []struct {
		name  string
		moves []burrow.Move
	}{
		{"empty source", []burrow.Move{{From: 0, To: 4}}},
		{"doorway stop", []burrow.Move{{From: 6, To: 3}}},
		{"unknown room", []burrow.Move{{From: 6, To: 99}}},
		{"unsolved after moves", []burrow.Move{{From: 6, To: 4}}},
		{"no moves on unsolved burrow", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Replay(start, tt.moves)
			if !errors.Is(err, ErrIllegalMove) {
				t.Errorf("Replay() error = %v, want ErrIllegalMove", err)
			}
		})
	}
}

func TestNodeChain(t *testing.T) {
	root := &Node{Burrow: fromKey(t, twoColumns, ".....BA")}
	m1 := burrow.Move{From: 6, To: 4, Cost: 2}
	child := &Node{Burrow: root.Burrow.Apply(m1), Cost: 2, Move: m1, parent: root, depth: 1}
	m2 := burrow.Move{From: 5, To: 6, Cost: 40}
	grandchild := &Node{Burrow: child.Burrow.Apply(m2), Cost: 42, Move: m2, parent: child, depth: 2}

	assert.Nil(t, root.Parent())
	assert.Empty(t, root.History())
	assert.Empty(t, root.Moves())

	assert.Same(t, child, grandchild.Parent())
	assert.Equal(t, 2, grandchild.Depth())
	assert.Equal(t, []burrow.Move{m1, m2}, grandchild.Moves())
	assert.Equal(t, []*burrow.Burrow{root.Burrow, child.Burrow}, grandchild.History())
}
