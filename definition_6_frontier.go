package scheduler

import "container/heap"

// node is a partial solution. Each node owns its slices, siblings never share them.
type node struct {
	sequence  []TaskID // reverse build order
	available []TaskID // sorted ascending
	bound     float64

	insertion uint64
}

type nodes []*node

func (h nodes) Len() int { return len(h) }

// Less keeps the lowest bound on top. On equal bounds the most recent insertion
// wins, as inserting into a sorted list at the leftmost equal key position would do.
func (h nodes) Less(i, j int) bool {
	if h[i].bound != h[j].bound {
		return h[i].bound < h[j].bound
	}

	return h[i].insertion > h[j].insertion
}

func (h nodes) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodes) Push(x any) {
	*h = append(*h, x.(*node))
}

func (h *nodes) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return item
}

// frontier orders partial solutions by bound.
type frontier struct {
	items      nodes
	insertions uint64
}

func newFrontier() *frontier {
	return &frontier{}
}

func (f *frontier) Len() int {
	return len(f.items)
}

func (f *frontier) Push(n *node) {
	f.insertions++
	n.insertion = f.insertions

	heap.Push(&f.items, n)
}

func (f *frontier) PopMin() *node {
	if len(f.items) == 0 {
		return nil
	}

	return heap.Pop(&f.items).(*node)
}

func (f *frontier) PeekMin() *node {
	if len(f.items) == 0 {
		return nil
	}

	return f.items[0]
}
