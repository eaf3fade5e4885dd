package burrow

import "fmt"

// Key is a comparable fingerprint of a burrow's occupants. Two burrows sharing a
// graph are equal exactly when their keys are equal.
type Key string

// Burrow is one configuration: which amphipod occupies which room. The graph is
// shared between configurations and never mutated; occupants are owned.
type Burrow struct {
	graph     *Graph
	occupants []Kind
}

// New returns an empty burrow over g.
func New(g *Graph) *Burrow {
	return &Burrow{graph: g, occupants: make([]Kind, g.Len())}
}

// FromKey rebuilds the burrow over g whose Key is key.
func FromKey(g *Graph, key Key) (*Burrow, error) {
	if len(key) != g.Len() {
		return nil, fmt.Errorf("key has %d rooms, graph has %d", len(key), g.Len())
	}
	b := New(g)
	for i, r := range string(key) {
		k, err := ParseKind(r)
		if err != nil {
			return nil, err
		}
		b.occupants[i] = k
	}
	return b, nil
}

// Graph returns the room graph.
func (b *Burrow) Graph() *Graph { return b.graph }

// Get returns the occupant of id, None when empty.
func (b *Burrow) Get(id RoomID) Kind { return b.occupants[id] }

// Set places k in room id. Only loaders should call this; moves use Swap.
func (b *Burrow) Set(id RoomID, k Kind) { b.occupants[id] = k }

// IsOccupied reports whether room id holds an amphipod.
func (b *Burrow) IsOccupied(id RoomID) bool { return b.occupants[id] != None }

// Swap exchanges the occupants of two rooms. Legality is the caller's concern.
func (b *Burrow) Swap(a, c RoomID) {
	b.occupants[a], b.occupants[c] = b.occupants[c], b.occupants[a]
}

// Clone returns an independent copy sharing the same graph.
func (b *Burrow) Clone() *Burrow {
	occupants := make([]Kind, len(b.occupants))
	copy(occupants, b.occupants)
	return &Burrow{graph: b.graph, occupants: occupants}
}

// Key returns the occupant fingerprint, one diagram rune per room.
func (b *Burrow) Key() Key {
	buf := make([]byte, len(b.occupants))
	for i, k := range b.occupants {
		buf[i] = byte(k.Rune())
	}
	return Key(buf)
}

// Equal reports whether both burrows have the same occupants.
func (b *Burrow) Equal(o *Burrow) bool {
	if len(b.occupants) != len(o.occupants) {
		return false
	}
	for i := range b.occupants {
		if b.occupants[i] != o.occupants[i] {
			return false
		}
	}
	return true
}

// Census counts the amphipods of every kind, indexed by Kind.
func (b *Burrow) Census() [len(Kinds) + 1]int {
	var counts [len(Kinds) + 1]int
	for _, k := range b.occupants {
		counts[k]++
	}
	return counts
}

// CandidateDestination returns the room of k's column that k should move into:
// the innermost empty room, provided nothing but k lives below it.
func (b *Burrow) CandidateDestination(k Kind) (RoomID, bool) {
	c := k.Column()
	if c < 0 || c >= b.graph.Columns() {
		return 0, false
	}
	column := b.graph.Column(c)
	for i := len(column) - 1; i >= 0; i-- {
		switch b.occupants[column[i]] {
		case k:
			continue
		case None:
			return column[i], true
		default:
			return 0, false
		}
	}
	return 0, false
}

// IsSettled reports whether the amphipod in id is in its own column with only
// its own kind below it. Settled amphipods never move again.
func (b *Burrow) IsSettled(id RoomID) bool {
	k := b.occupants[id]
	room := b.graph.Room(id)
	if k == None || room.IsHallway() || k.Column() != room.Column {
		return false
	}
	column := b.graph.Column(room.Column)
	for _, below := range column[room.Depth+1:] {
		if b.occupants[below] != k {
			return false
		}
	}
	return true
}

// IsSolved reports whether every column is filled with its own kind.
func (b *Burrow) IsSolved() bool {
	for c := 0; c < b.graph.Columns(); c++ {
		want := KindForColumn(c)
		for _, id := range b.graph.Column(c) {
			if b.occupants[id] != want {
				return false
			}
		}
	}
	return true
}
