package burrow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestBurrow builds a burrow from a hallway string and one string per
// sideroom row (top row first), each using diagram runes.
func newTestBurrow(t *testing.T, layout Layout, hallway string, rows ...string) *Burrow {
	t.Helper()

	layout.Depth = len(rows)
	g, err := NewGraph(layout)
	require.NoError(t, err)

	b := New(g)
	require.Len(t, hallway, layout.HallwayLength)
	for i, r := range hallway {
		k, err := ParseKind(r)
		require.NoError(t, err)
		b.Set(g.Hallway()[i], k)
	}
	for depth, row := range rows {
		require.Len(t, row, g.Columns())
		for c, r := range row {
			k, err := ParseKind(r)
			require.NoError(t, err)
			b.Set(g.Column(c)[depth], k)
		}
	}
	return b
}

func TestStandardGraph(t *testing.T) {
	g, err := NewGraph(StandardLayout(2))
	require.NoError(t, err)

	assert.Equal(t, 19, g.Len())
	assert.Equal(t, 4, g.Columns())
	assert.Equal(t, 2, g.Depth())
	assert.Len(t, g.Hallway(), 11)

	// Hallway ends have a single neighbor, the rest form a chain.
	assert.Equal(t, []RoomID{1}, g.Neighbors(0))
	assert.Equal(t, []RoomID{9}, g.Neighbors(10))
	assert.ElementsMatch(t, []RoomID{0, 2}, g.Neighbors(1))

	for c, pos := range []int{2, 4, 6, 8} {
		door := g.Hallway()[pos]
		top := g.Column(c)[0]
		bottom := g.Column(c)[1]

		assert.True(t, g.IsDoorway(door), "hallway %d should be a doorway", pos)
		assert.Len(t, g.Neighbors(door), 3)
		assert.Contains(t, g.Neighbors(door), top)
		assert.ElementsMatch(t, []RoomID{door, bottom}, g.Neighbors(top))
		assert.Equal(t, []RoomID{top}, g.Neighbors(bottom))

		room := g.Room(bottom)
		assert.Equal(t, c, room.Column)
		assert.Equal(t, 1, room.Depth)
		assert.False(t, room.IsHallway())
	}

	for _, pos := range []int{0, 1, 3, 5, 7, 9, 10} {
		assert.False(t, g.IsDoorway(g.Hallway()[pos]), "hallway %d should not be a doorway", pos)
	}
}

func TestDoorwayTaggedWithoutDegreeThree(t *testing.T) {
	// A doorway at the end of the hallway only has two neighbors.
	g, err := NewGraph(Layout{HallwayLength: 3, Doorways: []int{0, 2}, Depth: 1})
	require.NoError(t, err)

	assert.Len(t, g.Neighbors(0), 2)
	assert.True(t, g.IsDoorway(0))
	assert.True(t, g.IsDoorway(2))
	assert.False(t, g.IsDoorway(1))
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
	}{
		{"empty hallway", Layout{HallwayLength: 0, Doorways: []int{0}, Depth: 1}},
		{"no columns", Layout{HallwayLength: 5, Depth: 1}},
		{"too many columns", Layout{HallwayLength: 11, Doorways: []int{1, 2, 3, 4, 5}, Depth: 1}},
		{"zero depth", Layout{HallwayLength: 5, Doorways: []int{2}, Depth: 0}},
		{"doorway outside", Layout{HallwayLength: 5, Doorways: []int{5}, Depth: 1}},
		{"negative doorway", Layout{HallwayLength: 5, Doorways: []int{-1}, Depth: 1}},
		{"duplicate doorway", Layout{HallwayLength: 5, Doorways: []int{2, 2}, Depth: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(tt.layout)
			if !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("NewGraph() error = %v, want ErrInvalidLayout", err)
			}
		})
	}
}

func TestLayoutString(t *testing.T) {
	assert.Equal(t, "11:2,4,6,8:4", StandardLayout(4).String())
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("11:2,4,6,8:4")
	require.NoError(t, err)
	assert.Equal(t, StandardLayout(4), l)

	for _, s := range []string{"", "11:2,4", "x:2:1", "5:1,a:1", "5:1:x", "5:9:1", "5:1,1:1"} {
		_, err := ParseLayout(s)
		assert.ErrorIs(t, err, ErrInvalidLayout, "ParseLayout(%q)", s)
	}
}

func TestFromKey(t *testing.T) {
	g, err := NewGraph(StandardLayout(2))
	require.NoError(t, err)

	b, err := FromKey(g, "...........BCBDADCA")
	require.NoError(t, err)
	assert.Equal(t, Key("...........BCBDADCA"), b.Key())

	_, err = FromKey(g, "....")
	assert.Error(t, err)
	_, err = FromKey(g, "...........BCBDADCX")
	assert.Error(t, err)
}

func TestNewGraphCopiesDoorways(t *testing.T) {
	doors := []int{1, 3}
	g, err := NewGraph(Layout{HallwayLength: 5, Doorways: doors, Depth: 1})
	require.NoError(t, err)

	doors[0] = 4
	assert.Equal(t, []int{1, 3}, g.Layout().Doorways)
}

func TestKind(t *testing.T) {
	tests := []struct {
		r      rune
		kind   Kind
		cost   int
		column int
	}{
		{'.', None, 0, -1},
		{'A', Amber, 1, 0},
		{'B', Bronze, 10, 1},
		{'C', Copper, 100, 2},
		{'D', Desert, 1000, 3},
	}

	for _, tt := range tests {
		k, err := ParseKind(tt.r)
		require.NoError(t, err)
		assert.Equal(t, tt.kind, k)
		assert.Equal(t, tt.cost, k.Cost())
		assert.Equal(t, tt.column, k.Column())
		assert.Equal(t, tt.r, k.Rune())
	}

	_, err := ParseKind('E')
	assert.Error(t, err)
	assert.Equal(t, Copper, KindForColumn(2))
	assert.Equal(t, None, KindForColumn(4))
}
