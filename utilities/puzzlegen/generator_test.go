package main

import (
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/amphipod/internal/board"
	"github.com/lawnchairsociety/amphipod/internal/burrow"
)

func TestDealCensus(t *testing.T) {
	gen, err := NewPuzzleGenerator(2, 3, 7)
	if err != nil {
		t.Fatalf("NewPuzzleGenerator() error = %v", err)
	}

	for i := 0; i < 20; i++ {
		b := gen.Deal()
		census := b.Census()
		for _, k := range burrow.Kinds {
			if census[k] != 2 {
				t.Fatalf("deal %d: %d of %s, want 2", i, census[k], k)
			}
		}

		inHallway := 0
		for _, id := range b.Graph().Hallway() {
			if b.IsOccupied(id) {
				if b.Graph().IsDoorway(id) {
					t.Fatalf("deal %d: amphipod on doorway %d", i, id)
				}
				inHallway++
			}
		}
		if inHallway != 3 {
			t.Fatalf("deal %d: %d amphipods in the hallway, want 3", i, inHallway)
		}
	}
}

func TestDealDeterministic(t *testing.T) {
	a, _ := NewPuzzleGenerator(2, 0, 42)
	b, _ := NewPuzzleGenerator(2, 0, 42)

	for i := 0; i < 5; i++ {
		if x, y := a.Deal().Key(), b.Deal().Key(); x != y {
			t.Fatalf("deal %d differs for the same seed: %s vs %s", i, x, y)
		}
	}
}

func TestNewPuzzleGeneratorErrors(t *testing.T) {
	if _, err := NewPuzzleGenerator(0, 0, 1); err == nil {
		t.Error("depth 0 should fail")
	}
	if _, err := NewPuzzleGenerator(2, 8, 1); err == nil {
		t.Error("more hallway amphipods than stops should fail")
	}
}

func TestGenerateAndWrite(t *testing.T) {
	gen, err := NewPuzzleGenerator(1, 0, 3)
	if err != nil {
		t.Fatalf("NewPuzzleGenerator() error = %v", err)
	}

	puzzles, err := gen.Generate(3, true, 100000)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(puzzles) != 3 {
		t.Fatalf("Generate() returned %d puzzles, want 3", len(puzzles))
	}

	path := filepath.Join(t.TempDir(), "out", "puzzles.yaml")
	if err := WriteYAML(path, 3, puzzles); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}

	set, err := board.LoadPuzzles(path)
	if err != nil {
		t.Fatalf("LoadPuzzles() error = %v", err)
	}
	if set.GeneratedSeed != 3 || len(set.Puzzles) != 3 {
		t.Fatalf("loaded seed %d with %d puzzles", set.GeneratedSeed, len(set.Puzzles))
	}
	for _, p := range set.Puzzles {
		if p.ExpectedCost <= 0 {
			t.Errorf("%s: expected cost %d, want > 0", p.Name, p.ExpectedCost)
		}
		if _, err := p.Burrow(); err != nil {
			t.Errorf("%s: %v", p.Name, err)
		}
	}
}
