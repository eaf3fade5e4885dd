// Package solver answers solve requests, consulting the solution cache before
// running a search.
package solver

import (
	"context"
	"time"

	"github.com/lawnchairsociety/amphipod/internal/burrow"
	"github.com/lawnchairsociety/amphipod/internal/database"
	"github.com/lawnchairsociety/amphipod/internal/logger"
	"github.com/lawnchairsociety/amphipod/internal/search"
)

// Store is the part of the database the service needs.
type Store interface {
	GetSolution(boardKey string) (*database.Solution, error)
	SaveSolution(s *database.Solution) error
}

// Outcome is a solve result together with where it came from.
type Outcome struct {
	*search.Result
	Cached   bool
	SolvedAt time.Time // when the cached solution was stored; zero for fresh solves
}

// Service solves burrows, remembering solutions in an optional store.
type Service struct {
	store Store
	opts  []search.Option
}

// NewService creates a service. store may be nil to disable caching.
func NewService(store Store, opts ...search.Option) *Service {
	return &Service{store: store, opts: opts}
}

// Solve returns the cheapest solution for start. Store failures are logged and
// never fail the solve.
func (s *Service) Solve(ctx context.Context, start *burrow.Burrow, opts ...search.Option) (*Outcome, error) {
	key := database.BoardKey(start)

	if s.store != nil {
		if out := s.fromCache(key, start); out != nil {
			return out, nil
		}
	}

	all := append(append([]search.Option(nil), s.opts...), opts...)
	res, err := search.SolveContext(ctx, start, all...)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		err := s.store.SaveSolution(&database.Solution{
			BoardKey: key,
			Layout:   start.Graph().Layout().String(),
			Cost:     res.Cost,
			Moves:    res.Moves,
			Expanded: res.Stats.Expanded,
		})
		if err != nil {
			logger.Warning("Failed to store solution", "board", key, "error", err)
		}
	}

	return &Outcome{Result: res}, nil
}

func (s *Service) fromCache(key string, start *burrow.Burrow) *Outcome {
	stored, err := s.store.GetSolution(key)
	if err != nil {
		logger.Warning("Solution cache lookup failed", "board", key, "error", err)
		return nil
	}
	if stored == nil {
		return nil
	}

	res, err := search.Replay(start, stored.Moves)
	if err != nil {
		logger.Warning("Stored solution does not replay", "board", key, "error", err)
		return nil
	}
	if res.Cost != stored.Cost {
		logger.Warning("Stored solution cost mismatch", "board", key, "stored", stored.Cost, "replayed", res.Cost)
		return nil
	}

	logger.Debug("Solution cache hit", "board", key, "cost", res.Cost)
	return &Outcome{Result: res, Cached: true, SolvedAt: stored.SolvedAt}
}
