// migrate-to-postgres copies cached solutions from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/solutions.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user amphipod \
//	    -pg-password amphipod \
//	    -pg-database amphipod
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lawnchairsociety/amphipod/internal/database"
	"github.com/lawnchairsociety/amphipod/internal/search"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/solutions.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "amphipod", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "amphipod", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "amphipod", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Migration Tool")
	log.Println("====================================")

	if _, err := os.Stat(*sqlitePath); err != nil {
		log.Fatalf("SQLite database not found: %v", err)
	}

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = *pgHost
	pgCfg.Port = *pgPort
	pgCfg.User = *pgUser
	pgCfg.Password = *pgPassword
	pgCfg.Database = *pgDatabase
	pgCfg.SSLMode = *pgSSLMode

	// Opening runs the schema migration, so a dry run never connects.
	var dst *database.Database
	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	} else {
		log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
		dst, err = database.OpenWithConfig(database.Config{Driver: "postgres", Postgres: pgCfg})
		if err != nil {
			log.Fatalf("Failed to open PostgreSQL database: %v", err)
		}
		defer dst.Close()
	}

	log.Println("Migrating table: solutions")
	stats, err := migrateSolutions(src, dst)
	if err != nil {
		log.Fatalf("Failed to migrate solutions: %v", err)
	}

	log.Println("====================================")
	log.Printf("Migration complete! %d rows migrated, %d skipped", stats.copied, stats.skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}

type migrationStats struct {
	copied  int64
	skipped int64
}

// migrateSolutions copies every solution from src to dst. Rows whose move list
// no longer replays from their board are skipped. A nil dst only counts.
func migrateSolutions(src, dst *database.Database) (migrationStats, error) {
	var stats migrationStats

	solutions, err := src.ListSolutions(0)
	if err != nil {
		return stats, fmt.Errorf("failed to read solutions: %w", err)
	}

	for i := range solutions {
		s := &solutions[i]
		if err := checkSolution(s); err != nil {
			log.Printf("  Skipping %s: %v", s.BoardKey, err)
			stats.skipped++
			continue
		}
		if dst != nil {
			// Copy keeps the original solved_at.
			s.ID = 0
			if err := dst.SaveSolution(s); err != nil {
				return stats, err
			}
		}
		stats.copied++
	}
	return stats, nil
}

// checkSolution replays s from the board encoded in its key.
func checkSolution(s *database.Solution) error {
	start, err := database.ParseBoardKey(s.BoardKey)
	if err != nil {
		return err
	}
	res, err := search.Replay(start, s.Moves)
	if err != nil {
		return err
	}
	if res.Cost != s.Cost {
		return fmt.Errorf("stored cost %d, replayed cost %d", s.Cost, res.Cost)
	}
	return nil
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Copies cached solutions from SQLite to PostgreSQL.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s -sqlite data/solutions.db -pg-host localhost -pg-user amphipod -pg-password amphipod -pg-database amphipod\n", os.Args[0])
	}
}
