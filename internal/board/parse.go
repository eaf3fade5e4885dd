// Package board reads and writes the text diagram of a burrow and loads named
// puzzle sets from YAML.
package board

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/lawnchairsociety/amphipod/internal/burrow"
)

var (
	// ErrEmptyBoard is returned when the input holds no hallway line.
	ErrEmptyBoard = errors.New("board: empty board")

	// ErrMalformedBoard is returned for diagrams that do not describe a burrow.
	ErrMalformedBoard = errors.New("board: malformed board")

	// ErrCannotUnfold is returned when the unfolded rows do not fit the board.
	ErrCannotUnfold = errors.New("board: cannot unfold")
)

// unfoldRows are the rows hidden in the folded diagram, inserted below its
// first sideroom row.
var unfoldRows = []string{"DCBA", "DBAC"}

type parseOptions struct {
	unfold bool
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

// WithUnfold inserts the two hidden rows below the first sideroom row.
func WithUnfold() ParseOption {
	return func(o *parseOptions) { o.unfold = true }
}

// Parse reads a burrow diagram. Blank lines and lines made only of walls are
// skipped; the first remaining line is the hallway and every later line is one
// sideroom row.
func Parse(r io.Reader, opts ...ParseOption) (*burrow.Burrow, error) {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.Trim(line, "# \t") == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read board: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyBoard
	}

	start, hallway, err := parseHallway(lines[0])
	if err != nil {
		return nil, err
	}

	var doorways []int
	var rows [][]burrow.Kind
	for i, line := range lines[1:] {
		doors, row, err := parseRow(line, start, len(hallway))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedBoard, i+2, err)
		}
		if doorways == nil {
			doorways = doors
		} else if !slices.Equal(doorways, doors) {
			return nil, fmt.Errorf("%w: line %d: columns do not line up", ErrMalformedBoard, i+2)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no sideroom rows", ErrMalformedBoard)
	}

	if o.unfold {
		if len(doorways) != len(unfoldRows[0]) {
			return nil, fmt.Errorf("%w: need %d columns, have %d", ErrCannotUnfold, len(unfoldRows[0]), len(doorways))
		}
		extra := make([][]burrow.Kind, 0, len(unfoldRows))
		for _, s := range unfoldRows {
			row := make([]burrow.Kind, 0, len(s))
			for _, r := range s {
				k, _ := burrow.ParseKind(r)
				row = append(row, k)
			}
			extra = append(extra, row)
		}
		rows = slices.Insert(rows, 1, extra...)
	}

	for _, pos := range doorways {
		if hallway[pos] != burrow.None {
			return nil, fmt.Errorf("%w: amphipod standing on doorway %d", ErrMalformedBoard, pos)
		}
	}

	g, err := burrow.NewGraph(burrow.Layout{
		HallwayLength: len(hallway),
		Doorways:      doorways,
		Depth:         len(rows),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBoard, err)
	}

	b := burrow.New(g)
	for i, k := range hallway {
		b.Set(g.Hallway()[i], k)
	}
	for depth, row := range rows {
		for c, k := range row {
			b.Set(g.Column(c)[depth], k)
		}
	}
	return b, nil
}

// ParseString is Parse over a string.
func ParseString(s string, opts ...ParseOption) (*burrow.Burrow, error) {
	return Parse(strings.NewReader(s), opts...)
}

// parseHallway returns the index of the first hallway cell and the cells
// themselves.
func parseHallway(line string) (int, []burrow.Kind, error) {
	start := strings.IndexFunc(line, func(r rune) bool { return r != '#' && r != ' ' && r != '\t' })
	end := strings.IndexByte(line[start:], '#')
	if end < 0 {
		end = len(line)
	} else {
		end += start
	}

	cells := make([]burrow.Kind, 0, end-start)
	for i, r := range line[start:end] {
		k, err := burrow.ParseKind(r)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: hallway cell %d: %v", ErrMalformedBoard, i, err)
		}
		cells = append(cells, k)
	}
	if rest := strings.Trim(line[end:], "# \t"); rest != "" {
		return 0, nil, fmt.Errorf("%w: trailing %q after hallway", ErrMalformedBoard, rest)
	}
	return start, cells, nil
}

// parseRow returns the doorway of every cell in a sideroom row, left to right,
// and the cells.
func parseRow(line string, start, hallwayLength int) ([]int, []burrow.Kind, error) {
	var doors []int
	var cells []burrow.Kind
	for i, r := range line {
		if r == '#' || r == ' ' || r == '\t' {
			continue
		}
		k, err := burrow.ParseKind(r)
		if err != nil {
			return nil, nil, err
		}
		pos := i - start
		if pos < 0 || pos >= hallwayLength {
			return nil, nil, fmt.Errorf("cell at offset %d is not below the hallway", i)
		}
		doors = append(doors, pos)
		cells = append(cells, k)
	}
	return doors, cells, nil
}
