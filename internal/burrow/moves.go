package burrow

import "fmt"

// Move relocates the amphipod in From to the empty room To for Cost energy.
type Move struct {
	From RoomID
	To   RoomID
	Cost int
}

func (m Move) String() string {
	return fmt.Sprintf("%d>%d", m.From, m.To)
}

// Moves lists every legal single-amphipod move. Hallway amphipods come first in
// hallway order, then unsettled column amphipods column by column from the top.
func (b *Burrow) Moves() []Move {
	var moves []Move

	for _, id := range b.graph.Hallway() {
		k := b.occupants[id]
		if k == None {
			continue
		}
		if dest, ok := b.CandidateDestination(k); ok {
			if cost, ok := b.FindPath(id, dest); ok {
				moves = append(moves, Move{From: id, To: dest, Cost: cost})
			}
		}
	}

	for c := 0; c < b.graph.Columns(); c++ {
		for _, id := range b.graph.Column(c) {
			k := b.occupants[id]
			if k == None || b.IsSettled(id) {
				continue
			}

			if dest, ok := b.CandidateDestination(k); ok {
				if cost, ok := b.FindPath(id, dest); ok {
					moves = append(moves, Move{From: id, To: dest, Cost: cost})
					continue
				}
			}

			for _, hall := range b.graph.Hallway() {
				if cost, ok := b.FindPath(id, hall); ok {
					moves = append(moves, Move{From: id, To: hall, Cost: cost})
				}
			}
		}
	}

	return moves
}

// Apply returns a copy of b with m performed. b is left untouched.
func (b *Burrow) Apply(m Move) *Burrow {
	next := b.Clone()
	next.Swap(m.From, m.To)
	return next
}
