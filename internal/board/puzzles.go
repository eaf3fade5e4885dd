package board

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/amphipod/internal/burrow"
)

// ErrPuzzleNotFound is returned by PuzzleSet.Find for an unknown name.
var ErrPuzzleNotFound = errors.New("board: puzzle not found")

// PuzzleSet represents the structure of a puzzle YAML file
type PuzzleSet struct {
	GeneratedSeed int64    `yaml:"generated_seed,omitempty"`
	Puzzles       []Puzzle `yaml:"puzzles"`
}

// Puzzle is one named board
type Puzzle struct {
	Name         string `yaml:"name"`
	Board        string `yaml:"board"`
	Unfold       bool   `yaml:"unfold,omitempty"`
	ExpectedCost int    `yaml:"expected_cost,omitempty"` // 0 when unknown
}

// LoadPuzzles loads a puzzle set from a YAML file
func LoadPuzzles(filename string) (*PuzzleSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle file: %w", err)
	}

	var set PuzzleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse puzzle YAML: %w", err)
	}

	seen := make(map[string]bool, len(set.Puzzles))
	for i, p := range set.Puzzles {
		if p.Name == "" {
			return nil, fmt.Errorf("puzzle %d has no name", i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate puzzle name %q", p.Name)
		}
		seen[p.Name] = true
	}

	return &set, nil
}

// Find returns the puzzle with the given name.
func (s *PuzzleSet) Find(name string) (*Puzzle, error) {
	for i := range s.Puzzles {
		if s.Puzzles[i].Name == name {
			return &s.Puzzles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrPuzzleNotFound, name)
}

// Names lists the puzzles in file order.
func (s *PuzzleSet) Names() []string {
	names := make([]string, len(s.Puzzles))
	for i, p := range s.Puzzles {
		names[i] = p.Name
	}
	return names
}

// Burrow parses the puzzle's board, unfolding it when requested.
func (p *Puzzle) Burrow() (*burrow.Burrow, error) {
	var opts []ParseOption
	if p.Unfold {
		opts = append(opts, WithUnfold())
	}
	b, err := ParseString(p.Board, opts...)
	if err != nil {
		return nil, fmt.Errorf("puzzle %q: %w", p.Name, err)
	}
	return b, nil
}
