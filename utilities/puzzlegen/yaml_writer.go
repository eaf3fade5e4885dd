package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/amphipod/internal/board"
)

// WriteYAML writes puzzles as a puzzle set readable by board.LoadPuzzles.
func WriteYAML(path string, seed int64, puzzles []board.Puzzle) error {
	set := board.PuzzleSet{
		GeneratedSeed: seed,
		Puzzles:       puzzles,
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	// Write header comment
	fmt.Fprintf(f, "# Generated by puzzlegen (seed %d)\n", seed)
	fmt.Fprintln(f, "# Regenerate with: go run ./utilities/puzzlegen")

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(&set); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
