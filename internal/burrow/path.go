package burrow

// FindPath returns the energy needed to walk the amphipod in from to the room
// to, with every room along the way empty. It reports false when from is empty,
// to is occupied or a doorway, or every route is blocked.
func (b *Burrow) FindPath(from, to RoomID) (int, bool) {
	k := b.occupants[from]
	if k == None || b.occupants[to] != None || b.graph.IsDoorway(to) {
		return 0, false
	}

	type step struct {
		room  RoomID
		steps int
	}

	visited := make([]bool, b.graph.Len())
	visited[from] = true
	queue := make([]step, 0, 8)
	for _, next := range b.graph.Neighbors(from) {
		visited[next] = true
		queue = append(queue, step{room: next, steps: 1})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.room == to {
			return cur.steps * k.Cost(), true
		}
		if b.occupants[cur.room] != None {
			continue
		}
		for _, next := range b.graph.Neighbors(cur.room) {
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, step{room: next, steps: cur.steps + 1})
		}
	}

	return 0, false
}
