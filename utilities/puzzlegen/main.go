package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	count := flag.Int("count", 10, "Number of puzzles to generate")
	depth := flag.Int("depth", 2, "Sideroom depth (2 for the folded board, 4 for the unfolded one)")
	hallway := flag.Int("hallway", 0, "Amphipods to start in the hallway")
	seed := flag.Int64("seed", 42, "Seed for random generation")
	solve := flag.Bool("solve", true, "Solve each puzzle to record its expected cost")
	maxExpanded := flag.Int("max-expanded", 2000000, "Search bound per puzzle when solving")
	out := flag.String("out", "data/random_puzzles.yaml", "Output file")
	flag.Parse()

	gen, err := NewPuzzleGenerator(*depth, *hallway, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating %d puzzles of depth %d (seed: %d)\n", *count, *depth, *seed)

	fmt.Print("Dealing puzzles... ")
	puzzles, err := gen.Generate(*count, *solve, *maxExpanded)
	if err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	fmt.Printf("Writing %s... ", *out)
	if err := WriteYAML(*out, *seed, puzzles); err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	if *solve {
		fmt.Println()
		for _, p := range puzzles {
			fmt.Printf("  - %s: %d\n", p.Name, p.ExpectedCost)
		}
	}
}
