package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/amphipod/internal/burrow"
)

// ErrMalformedMoves is returned when a stored move list cannot be decoded.
var ErrMalformedMoves = errors.New("database: malformed move list")

// EncodeMoves stores moves as comma separated "from>to" pairs. Costs are not
// stored; they are recomputed on replay.
func EncodeMoves(moves []burrow.Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, ",")
}

// DecodeMoves parses the output of EncodeMoves. The returned moves carry no cost.
func DecodeMoves(s string) ([]burrow.Move, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	moves := make([]burrow.Move, 0, len(parts))
	for _, part := range parts {
		from, to, ok := strings.Cut(part, ">")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformedMoves, part)
		}
		f, err := strconv.Atoi(from)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedMoves, part)
		}
		t, err := strconv.Atoi(to)
		if err != nil || t < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedMoves, part)
		}
		moves = append(moves, burrow.Move{From: burrow.RoomID(f), To: burrow.RoomID(t)})
	}
	return moves, nil
}
