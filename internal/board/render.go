package board

import (
	"strings"

	"github.com/lawnchairsociety/amphipod/internal/burrow"
)

// Render draws b as a diagram that Parse reads back into an equal burrow.
func Render(b *burrow.Burrow) string {
	g := b.Graph()
	layout := g.Layout()
	width := layout.HallwayLength + 2

	first, last := layout.Doorways[0], layout.Doorways[0]
	for _, d := range layout.Doorways {
		first = min(first, d)
		last = max(last, d)
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("#", width))
	sb.WriteByte('\n')

	sb.WriteByte('#')
	for _, id := range g.Hallway() {
		sb.WriteRune(b.Get(id).Rune())
	}
	sb.WriteString("#\n")

	// row writes one sideroom line; depth -1 is the closing wall.
	row := func(depth int) {
		line := make([]rune, width)
		for i := range line {
			switch {
			case depth == 0:
				line[i] = '#'
			case i >= first && i <= last+2:
				line[i] = '#'
			default:
				line[i] = ' '
			}
		}
		if depth >= 0 {
			for c, d := range layout.Doorways {
				line[d+1] = b.Get(g.Column(c)[depth]).Rune()
			}
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		sb.WriteByte('\n')
	}

	for depth := 0; depth < g.Depth(); depth++ {
		row(depth)
	}
	row(-1)

	return sb.String()
}
