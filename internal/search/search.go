// Package search finds the cheapest sequence of moves that solves a burrow
// using uniform-cost search over burrow configurations.
package search

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/amphipod/internal/burrow"
	"github.com/lawnchairsociety/amphipod/internal/logger"
)

var (
	// ErrUnsolvable is returned when every reachable configuration has been
	// explored without finding a solved one.
	ErrUnsolvable = errors.New("search: no solution")

	// ErrLimitExceeded is returned when the search expands more configurations
	// than WithMaxExpanded allows.
	ErrLimitExceeded = errors.New("search: expansion limit exceeded")

	// ErrIllegalMove is returned by Replay when a move cannot be made.
	ErrIllegalMove = errors.New("search: illegal move")
)

// ctxCheckEvery is how many pops pass between context checks.
const ctxCheckEvery = 1024

// Node is one entry of the search tree. Each node owns its burrow; the parent
// chain leads back to the start configuration.
type Node struct {
	Burrow *burrow.Burrow
	Cost   int
	Move   burrow.Move // move that produced this node; zero for the root

	parent *Node
	depth  int
	seq    uint64
}

// Parent returns the node this one was expanded from, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Depth returns the number of moves from the start configuration.
func (n *Node) Depth() int { return n.depth }

// History returns the configurations before n, oldest first.
func (n *Node) History() []*burrow.Burrow {
	history := make([]*burrow.Burrow, n.depth)
	for cur, i := n.parent, n.depth-1; cur != nil; cur, i = cur.parent, i-1 {
		history[i] = cur.Burrow
	}
	return history
}

// Moves returns the moves leading to n, in order.
func (n *Node) Moves() []burrow.Move {
	moves := make([]burrow.Move, n.depth)
	for cur, i := n, n.depth-1; cur.parent != nil; cur, i = cur.parent, i-1 {
		moves[i] = cur.Move
	}
	return moves
}

// Stats describes the work done by one search.
type Stats struct {
	Expanded    int // configurations popped and expanded
	Generated   int // children pushed onto the frontier
	Discarded   int // pops of already visited configurations
	MaxFrontier int
	Elapsed     time.Duration
}

// Result is a solved configuration and how it was reached.
type Result struct {
	Final   *burrow.Burrow
	Cost    int
	History []*burrow.Burrow // every configuration before Final, start first
	Moves   []burrow.Move
	Stats   Stats
}

type options struct {
	maxExpanded   int
	progressEvery int
	onPop         func(*Node)
}

// Option configures a search.
type Option func(*options)

// WithMaxExpanded bounds the number of expanded configurations. Zero means no
// bound.
func WithMaxExpanded(n int) Option {
	return func(o *options) { o.maxExpanded = n }
}

// WithProgressEvery logs progress at debug level every n expansions.
func WithProgressEvery(n int) Option {
	return func(o *options) { o.progressEvery = n }
}

// WithOnPop calls fn for every node taken off the frontier, including stale
// ones that are about to be discarded.
func WithOnPop(fn func(*Node)) Option {
	return func(o *options) { o.onPop = fn }
}

// Solve runs a search from start. start itself is never modified.
func Solve(start *burrow.Burrow, opts ...Option) (*Result, error) {
	return SolveContext(context.Background(), start, opts...)
}

// SolveContext is Solve with cancellation.
func SolveContext(ctx context.Context, start *burrow.Burrow, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	began := time.Now()
	var stats Stats
	var seq uint64

	visited := make(map[burrow.Key]struct{})
	pq := make(frontier, 0, 1024)
	heap.Init(&pq)
	heap.Push(&pq, &Node{Burrow: start.Clone()})
	stats.MaxFrontier = 1

	logger.Info("Search started", "layout", start.Graph().Layout().String(), "key", string(start.Key()))

	pops := 0
	for pq.Len() > 0 {
		pops++
		if pops%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		node := heap.Pop(&pq).(*Node)
		if o.onPop != nil {
			o.onPop(node)
		}

		if node.Burrow.IsSolved() {
			stats.Elapsed = time.Since(began)
			logger.Info("Search finished",
				"cost", node.Cost,
				"moves", node.depth,
				"expanded", stats.Expanded,
				"elapsed", stats.Elapsed)
			return &Result{
				Final:   node.Burrow,
				Cost:    node.Cost,
				History: node.History(),
				Moves:   node.Moves(),
				Stats:   stats,
			}, nil
		}

		key := node.Burrow.Key()
		if _, seen := visited[key]; seen {
			stats.Discarded++
			continue
		}
		visited[key] = struct{}{}

		if o.maxExpanded > 0 && stats.Expanded >= o.maxExpanded {
			logger.Warning("Search limit reached", "expanded", stats.Expanded)
			return nil, fmt.Errorf("%w: %d configurations", ErrLimitExceeded, stats.Expanded)
		}
		stats.Expanded++

		for _, m := range node.Burrow.Moves() {
			seq++
			heap.Push(&pq, &Node{
				Burrow: node.Burrow.Apply(m),
				Cost:   node.Cost + m.Cost,
				Move:   m,
				parent: node,
				depth:  node.depth + 1,
				seq:    seq,
			})
			stats.Generated++
		}
		if pq.Len() > stats.MaxFrontier {
			stats.MaxFrontier = pq.Len()
		}

		if o.progressEvery > 0 && stats.Expanded%o.progressEvery == 0 {
			logger.Debug("Search progress",
				"expanded", stats.Expanded,
				"frontier", pq.Len(),
				"visited", len(visited),
				"cost", node.Cost)
		}
	}

	logger.Info("Search exhausted", "expanded", stats.Expanded)
	return nil, ErrUnsolvable
}

// Replay applies moves to start, checking each against the legal moves of the
// current configuration, and returns the result it leads to. Only From and To
// of each move are trusted; costs are recomputed. The final configuration must
// be solved.
func Replay(start *burrow.Burrow, moves []burrow.Move) (*Result, error) {
	cur := start.Clone()
	history := make([]*burrow.Burrow, 0, len(moves))
	applied := make([]burrow.Move, 0, len(moves))
	cost := 0

	for i, want := range moves {
		legal, ok := findMove(cur, want)
		if !ok {
			return nil, fmt.Errorf("%w: move %d (%s)", ErrIllegalMove, i, want)
		}
		history = append(history, cur)
		applied = append(applied, legal)
		cost += legal.Cost
		cur = cur.Apply(legal)
	}

	if !cur.IsSolved() {
		return nil, fmt.Errorf("%w: burrow unsolved after %d moves", ErrIllegalMove, len(moves))
	}

	return &Result{Final: cur, Cost: cost, History: history, Moves: applied}, nil
}

func findMove(b *burrow.Burrow, want burrow.Move) (burrow.Move, bool) {
	if int(want.From) < 0 || int(want.From) >= b.Graph().Len() ||
		int(want.To) < 0 || int(want.To) >= b.Graph().Len() {
		return burrow.Move{}, false
	}
	for _, m := range b.Moves() {
		if m.From == want.From && m.To == want.To {
			return m, true
		}
	}
	return burrow.Move{}, false
}
