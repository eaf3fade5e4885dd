// Package burrow models the burrow puzzle: a fixed room graph, the amphipods
// occupying it, and the legal single-amphipod moves between configurations.
package burrow

import "fmt"

// Kind identifies an amphipod type. The zero value None marks an empty room.
type Kind uint8

const (
	None Kind = iota
	Amber
	Bronze
	Copper
	Desert
)

// Kinds lists every amphipod kind in column order.
var Kinds = [...]Kind{Amber, Bronze, Copper, Desert}

var kindCosts = [...]int{0, 1, 10, 100, 1000}

// ParseKind converts a diagram rune into a Kind. '.' parses as None.
func ParseKind(r rune) (Kind, error) {
	switch r {
	case '.':
		return None, nil
	case 'A':
		return Amber, nil
	case 'B':
		return Bronze, nil
	case 'C':
		return Copper, nil
	case 'D':
		return Desert, nil
	}
	return None, fmt.Errorf("unknown amphipod %q", r)
}

// Rune returns the diagram rune for k.
func (k Kind) Rune() rune {
	switch k {
	case Amber:
		return 'A'
	case Bronze:
		return 'B'
	case Copper:
		return 'C'
	case Desert:
		return 'D'
	}
	return '.'
}

func (k Kind) String() string {
	switch k {
	case Amber:
		return "Amber"
	case Bronze:
		return "Bronze"
	case Copper:
		return "Copper"
	case Desert:
		return "Desert"
	}
	return "None"
}

// Cost returns the energy spent moving one step.
func (k Kind) Cost() int {
	if int(k) >= len(kindCosts) {
		return 0
	}
	return kindCosts[k]
}

// Column returns the index of the destination column, or -1 for None.
func (k Kind) Column() int {
	if k == None || int(k) > len(Kinds) {
		return -1
	}
	return int(k) - 1
}

// KindForColumn returns the kind that belongs in column c.
func KindForColumn(c int) Kind {
	if c < 0 || c >= len(Kinds) {
		return None
	}
	return Kinds[c]
}
