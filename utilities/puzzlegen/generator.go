package main

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/amphipod/internal/board"
	"github.com/lawnchairsociety/amphipod/internal/burrow"
	"github.com/lawnchairsociety/amphipod/internal/search"
)

// PuzzleGenerator deals shuffled amphipods into the reference burrow.
type PuzzleGenerator struct {
	Depth   int
	Hallway int // amphipods placed in the hallway instead of a sideroom
	Rand    *rand.Rand
	graph   *burrow.Graph
}

// NewPuzzleGenerator creates a generator for columns of the given depth.
func NewPuzzleGenerator(depth, hallway int, seed int64) (*PuzzleGenerator, error) {
	g, err := burrow.NewGraph(burrow.StandardLayout(depth))
	if err != nil {
		return nil, err
	}
	if hallway < 0 || hallway > len(g.Hallway())-g.Columns() {
		return nil, fmt.Errorf("hallway count %d out of range", hallway)
	}
	return &PuzzleGenerator{
		Depth:   depth,
		Hallway: hallway,
		Rand:    rand.New(rand.NewSource(seed)),
		graph:   g,
	}, nil
}

// Deal returns a random starting configuration. Every kind appears Depth
// times; the first Hallway amphipods of the shuffle go to random non-doorway
// hallway rooms and the rest fill the siderooms.
func (pg *PuzzleGenerator) Deal() *burrow.Burrow {
	var tokens []burrow.Kind
	for _, k := range burrow.Kinds {
		for i := 0; i < pg.Depth; i++ {
			tokens = append(tokens, k)
		}
	}
	pg.Rand.Shuffle(len(tokens), func(i, j int) { tokens[i], tokens[j] = tokens[j], tokens[i] })

	var stops []burrow.RoomID
	for _, id := range pg.graph.Hallway() {
		if !pg.graph.IsDoorway(id) {
			stops = append(stops, id)
		}
	}
	pg.Rand.Shuffle(len(stops), func(i, j int) { stops[i], stops[j] = stops[j], stops[i] })

	b := burrow.New(pg.graph)
	for i := 0; i < pg.Hallway; i++ {
		b.Set(stops[i], tokens[i])
	}

	// Siderooms fill bottom-up so emptied rooms sit at the top of a column.
	next := pg.Hallway
	for c := 0; c < pg.graph.Columns(); c++ {
		col := pg.graph.Column(c)
		for d := len(col) - 1; d >= 0 && next < len(tokens); d-- {
			b.Set(col[d], tokens[next])
			next++
		}
	}
	return b
}

// Generate deals count puzzles. With solve set, each puzzle is solved to
// record its expected cost and unsolvable or already solved deals are
// redrawn.
func (pg *PuzzleGenerator) Generate(count int, solve bool, maxExpanded int) ([]board.Puzzle, error) {
	puzzles := make([]board.Puzzle, 0, count)
	for attempts := 0; len(puzzles) < count; attempts++ {
		if attempts > count*100 {
			return nil, fmt.Errorf("gave up after %d deals", attempts)
		}

		b := pg.Deal()
		if b.IsSolved() {
			continue
		}

		p := board.Puzzle{
			Name:  fmt.Sprintf("random-%d-%03d", pg.Depth, len(puzzles)+1),
			Board: board.Render(b),
		}
		if solve {
			res, err := search.Solve(b, search.WithMaxExpanded(maxExpanded))
			if err != nil {
				continue
			}
			p.ExpectedCost = res.Cost
		}
		puzzles = append(puzzles, p)
	}
	return puzzles, nil
}
