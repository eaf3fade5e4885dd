package search

// frontier is a min-heap of *Node ordered by accumulated cost. Equal costs pop
// in insertion order so repeated runs explore identically.
//
// Stale entries are never removed: a configuration may sit on the heap several
// times and every copy after the first pop is discarded via the visited set.
type frontier []*Node

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].Cost != f[j].Cost {
		return f[i].Cost < f[j].Cost
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*Node)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}
