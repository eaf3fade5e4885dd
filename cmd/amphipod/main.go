// Command amphipod solves one burrow and prints every configuration of the
// cheapest solution followed by its total energy cost.
//
// The board is read from stdin, from -input, or from a named puzzle in a
// -puzzles file. It exits with status 1 when the board cannot be read or has
// no solution.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/kr/pretty"

	"github.com/lawnchairsociety/amphipod/internal/board"
	"github.com/lawnchairsociety/amphipod/internal/burrow"
	"github.com/lawnchairsociety/amphipod/internal/config"
	"github.com/lawnchairsociety/amphipod/internal/database"
	"github.com/lawnchairsociety/amphipod/internal/logger"
	"github.com/lawnchairsociety/amphipod/internal/report"
	"github.com/lawnchairsociety/amphipod/internal/search"
	"github.com/lawnchairsociety/amphipod/internal/solver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	input       string
	puzzles     string
	name        string
	list        bool
	unfold      bool
	dbFile      string
	configFile  string
	loggingFile string
	history     bool
	stats       bool
	dump        bool
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("amphipod", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.input, "input", "", "Board file to solve (default: stdin)")
	fs.StringVar(&o.puzzles, "puzzles", "data/puzzles.yaml", "Puzzle set YAML file used with -name and -list")
	fs.StringVar(&o.name, "name", "", "Solve the named puzzle from -puzzles instead of reading a board")
	fs.BoolVar(&o.list, "list", false, "List the puzzles in -puzzles and exit")
	fs.BoolVar(&o.unfold, "unfold", false, "Insert the two hidden rows (DCBA, DBAC) before solving")
	fs.StringVar(&o.dbFile, "db", "", "SQLite solution cache (overrides store settings)")
	fs.StringVar(&o.configFile, "config", "data/amphipod.yaml", "Path to config YAML file")
	fs.StringVar(&o.loggingFile, "logging", "", "Path to logging config YAML file (default: the -config file)")
	fs.BoolVar(&o.history, "history", true, "Print every configuration before the solution")
	fs.BoolVar(&o.stats, "stats", false, "Print search statistics after the cost")
	fs.BoolVar(&o.dump, "dump", false, "Dump the parsed layout and search stats to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if o.loggingFile == "" {
		o.loggingFile = o.configFile
	}
	logConfig, logErr := logger.LoadConfig(o.loggingFile)
	if err := logger.Initialize(logConfig); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Close()
	if logErr != nil {
		logger.Warning("Failed to load logging config, using defaults", "path", o.loggingFile, "error", logErr)
	}

	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", o.configFile, "error", err)
	}
	// -unfold given on the command line wins over the config file.
	if !set["unfold"] {
		o.unfold = cfg.Search.Unfold
	}

	if o.list {
		return listPuzzles(o.puzzles, stdout, stderr)
	}

	start, expected, err := loadBurrow(o, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var store solver.Store
	storeCfg := cfg.Store
	if o.dbFile != "" {
		storeCfg.Enabled = true
		storeCfg.Driver = "sqlite"
		storeCfg.SQLitePath = o.dbFile
	}
	if storeCfg.Enabled {
		db, err := database.OpenWithConfig(storeCfg.DatabaseConfig())
		if err != nil {
			// The cache is an optimization; solve without it.
			logger.Warning("Failed to open solution cache", "error", err)
		} else {
			defer db.Close()
			store = db
		}
	}

	var searchOpts []search.Option
	if cfg.Search.ProgressEvery > 0 {
		searchOpts = append(searchOpts, search.WithProgressEvery(cfg.Search.ProgressEvery))
	}

	out, err := solver.NewService(store, searchOpts...).Solve(ctx, start)
	if err != nil {
		if errors.Is(err, search.ErrUnsolvable) {
			fmt.Fprintln(stderr, "Error: no solution: the amphipods can never all reach their rooms")
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}

	if o.dump {
		pretty.Fprintf(stderr, "layout: %# v\n", start.Graph().Layout())
		pretty.Fprintf(stderr, "stats: %# v\n", out.Stats)
		pretty.Fprintf(stderr, "moves: %v\n", out.Moves)
	}

	err = report.Write(stdout, out.Result, report.Options{
		History:  o.history,
		Stats:    o.stats,
		CachedAt: out.SolvedAt,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if expected > 0 && out.Cost != expected {
		fmt.Fprintf(stderr, "Error: cost %d does not match the expected cost %d\n", out.Cost, expected)
		return 1
	}
	return 0
}

// loadBurrow reads the start configuration and, for named puzzles, the
// expected cost (0 when unknown).
func loadBurrow(o options, stdin io.Reader) (*burrow.Burrow, int, error) {
	var parseOpts []board.ParseOption
	if o.unfold {
		parseOpts = append(parseOpts, board.WithUnfold())
	}

	if o.name != "" {
		set, err := board.LoadPuzzles(o.puzzles)
		if err != nil {
			return nil, 0, err
		}
		p, err := set.Find(o.name)
		if err != nil {
			return nil, 0, err
		}
		if p.Unfold && !o.unfold {
			parseOpts = append(parseOpts, board.WithUnfold())
		}
		b, err := board.ParseString(p.Board, parseOpts...)
		if err != nil {
			return nil, 0, fmt.Errorf("puzzle %q: %w", p.Name, err)
		}
		expected := p.ExpectedCost
		if o.unfold && !p.Unfold {
			// The recorded cost is for the folded board.
			expected = 0
		}
		return b, expected, nil
	}

	r := stdin
	if o.input != "" && o.input != "-" {
		f, err := os.Open(o.input)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		r = f
	}

	b, err := board.Parse(r, parseOpts...)
	if err != nil {
		return nil, 0, err
	}
	return b, 0, nil
}

func listPuzzles(path string, stdout, stderr io.Writer) int {
	set, err := board.LoadPuzzles(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	for _, p := range set.Puzzles {
		line := p.Name
		if p.Unfold {
			line += " (unfolded)"
		}
		if p.ExpectedCost > 0 {
			line += fmt.Sprintf(": %d", p.ExpectedCost)
		}
		fmt.Fprintln(stdout, line)
	}
	return 0
}
