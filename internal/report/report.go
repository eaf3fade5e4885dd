// Package report prints solved burrows.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lawnchairsociety/amphipod/internal/board"
	"github.com/lawnchairsociety/amphipod/internal/search"
)

// Options selects the optional sections of a report.
type Options struct {
	History  bool      // print every configuration before the solution
	Stats    bool      // print search counters
	CachedAt time.Time // when set, the result was replayed from a solution stored at this time
}

// Write prints res to w:
//
//	state 0:
//	<diagram>
//
//	solution:
//	<diagram>
//
//	cost: 12521
func Write(w io.Writer, res *search.Result, opts Options) error {
	var sb strings.Builder

	if opts.History {
		for i, b := range res.History {
			fmt.Fprintf(&sb, "state %d:\n", i)
			sb.WriteString(board.Render(b))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("solution:\n")
	sb.WriteString(board.Render(res.Final))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "cost: %d\n", res.Cost)

	if opts.Stats {
		sb.WriteString(StatsLine(res, opts.CachedAt))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// StatsLine summarizes the work behind res in one line.
func StatsLine(res *search.Result, cachedAt time.Time) string {
	if !cachedAt.IsZero() {
		return fmt.Sprintf("%d moves replayed from a solution stored %s",
			len(res.Moves), humanize.Time(cachedAt))
	}
	s := res.Stats
	return fmt.Sprintf("%d moves, %s configurations expanded, %s generated, %s peak frontier, %s",
		len(res.Moves),
		humanize.Comma(int64(s.Expanded)),
		humanize.Comma(int64(s.Generated)),
		humanize.Comma(int64(s.MaxFrontier)),
		s.Elapsed.Round(time.Millisecond))
}
