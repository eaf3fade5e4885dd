package burrow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidLayout is returned when a layout cannot describe a burrow.
var ErrInvalidLayout = errors.New("burrow: invalid layout")

// RoomID is the stable index of a room inside its Graph.
type RoomID int

// Room is a single position in the burrow. Neighbors never change after the
// graph is built.
type Room struct {
	ID        RoomID
	Neighbors []RoomID
	Column    int  // sideroom column, -1 for hallway rooms
	Depth     int  // 0 is the room next to the hallway, -1 for hallway rooms
	Doorway   bool // hallway room directly above a column; amphipods never stop here
}

// IsHallway reports whether the room belongs to the hallway.
func (r *Room) IsHallway() bool { return r.Column < 0 }

// Layout describes the fixed topology: a hallway of HallwayLength rooms and one
// column of Depth rooms below every doorway position. Column i belongs to Kinds[i].
type Layout struct {
	HallwayLength int
	Doorways      []int
	Depth         int
}

// StandardLayout returns the reference burrow: an 11 room hallway with four
// columns hanging off positions 2, 4, 6 and 8.
func StandardLayout(depth int) Layout {
	return Layout{HallwayLength: 11, Doorways: []int{2, 4, 6, 8}, Depth: depth}
}

// Validate checks the layout against the supported topology class.
func (l Layout) Validate() error {
	if l.HallwayLength < 1 {
		return fmt.Errorf("%w: hallway length %d", ErrInvalidLayout, l.HallwayLength)
	}
	if len(l.Doorways) == 0 || len(l.Doorways) > len(Kinds) {
		return fmt.Errorf("%w: %d columns (want 1-%d)", ErrInvalidLayout, len(l.Doorways), len(Kinds))
	}
	if l.Depth < 1 {
		return fmt.Errorf("%w: depth %d", ErrInvalidLayout, l.Depth)
	}
	seen := make(map[int]bool, len(l.Doorways))
	for _, pos := range l.Doorways {
		if pos < 0 || pos >= l.HallwayLength {
			return fmt.Errorf("%w: doorway %d outside hallway", ErrInvalidLayout, pos)
		}
		if seen[pos] {
			return fmt.Errorf("%w: duplicate doorway %d", ErrInvalidLayout, pos)
		}
		seen[pos] = true
	}
	return nil
}

// String renders the layout as "length:d1,d2,...:depth"; stable enough to key
// stored solutions.
func (l Layout) String() string {
	doors := make([]string, len(l.Doorways))
	for i, d := range l.Doorways {
		doors[i] = strconv.Itoa(d)
	}
	return fmt.Sprintf("%d:%s:%d", l.HallwayLength, strings.Join(doors, ","), l.Depth)
}

// ParseLayout parses the String form of a layout and validates it.
func ParseLayout(s string) (Layout, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Layout{}, fmt.Errorf("%w: %q", ErrInvalidLayout, s)
	}
	length, err := strconv.Atoi(parts[0])
	if err != nil {
		return Layout{}, fmt.Errorf("%w: hallway length %q", ErrInvalidLayout, parts[0])
	}
	depth, err := strconv.Atoi(parts[2])
	if err != nil {
		return Layout{}, fmt.Errorf("%w: depth %q", ErrInvalidLayout, parts[2])
	}
	var doorways []int
	for _, d := range strings.Split(parts[1], ",") {
		pos, err := strconv.Atoi(d)
		if err != nil {
			return Layout{}, fmt.Errorf("%w: doorway %q", ErrInvalidLayout, d)
		}
		doorways = append(doorways, pos)
	}

	l := Layout{HallwayLength: length, Doorways: doorways, Depth: depth}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Graph is the static adjacency of a burrow. Rooms 0..HallwayLength-1 are the
// hallway from left to right, followed by the sideroom rooms row by row.
type Graph struct {
	layout  Layout
	rooms   []Room
	hallway []RoomID
	columns [][]RoomID // columns[c][depth]
}

// NewGraph builds the graph for a layout.
func NewGraph(layout Layout) (*Graph, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	layout.Doorways = append([]int(nil), layout.Doorways...)
	numColumns := len(layout.Doorways)
	g := &Graph{
		layout:  layout,
		rooms:   make([]Room, 0, layout.HallwayLength+numColumns*layout.Depth),
		hallway: make([]RoomID, 0, layout.HallwayLength),
		columns: make([][]RoomID, numColumns),
	}

	for i := 0; i < layout.HallwayLength; i++ {
		id := g.addRoom(-1, -1)
		g.hallway = append(g.hallway, id)
		if i > 0 {
			g.join(g.hallway[i-1], id)
		}
	}
	for _, pos := range layout.Doorways {
		g.rooms[g.hallway[pos]].Doorway = true
	}

	for depth := 0; depth < layout.Depth; depth++ {
		for c, pos := range layout.Doorways {
			id := g.addRoom(c, depth)
			if depth == 0 {
				g.join(g.hallway[pos], id)
			} else {
				g.join(g.columns[c][depth-1], id)
			}
			g.columns[c] = append(g.columns[c], id)
		}
	}

	return g, nil
}

func (g *Graph) addRoom(column, depth int) RoomID {
	id := RoomID(len(g.rooms))
	g.rooms = append(g.rooms, Room{ID: id, Column: column, Depth: depth})
	return id
}

func (g *Graph) join(a, b RoomID) {
	g.rooms[a].Neighbors = append(g.rooms[a].Neighbors, b)
	g.rooms[b].Neighbors = append(g.rooms[b].Neighbors, a)
}

// Layout returns the layout the graph was built from.
func (g *Graph) Layout() Layout { return g.layout }

// Len returns the number of rooms.
func (g *Graph) Len() int { return len(g.rooms) }

// Room returns the room with the given id. It panics on an unknown id.
func (g *Graph) Room(id RoomID) *Room { return &g.rooms[id] }

// Neighbors returns the rooms adjacent to id. The slice must not be modified.
func (g *Graph) Neighbors(id RoomID) []RoomID { return g.rooms[id].Neighbors }

// Hallway returns the hallway rooms from left to right.
func (g *Graph) Hallway() []RoomID { return g.hallway }

// Columns returns the number of sideroom columns.
func (g *Graph) Columns() int { return len(g.columns) }

// Column returns the rooms of column c ordered from the hallway inward.
func (g *Graph) Column(c int) []RoomID { return g.columns[c] }

// Depth returns the number of rooms per column.
func (g *Graph) Depth() int { return g.layout.Depth }

// IsDoorway reports whether id is a hallway room directly above a column.
func (g *Graph) IsDoorway(id RoomID) bool { return g.rooms[id].Doorway }
