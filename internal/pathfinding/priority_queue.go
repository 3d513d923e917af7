package pathfinding

import (
	"container/heap"
	"wayfinder/internal/core"
)

// frontierItem is one open-set entry
type frontierItem struct {
	node  *core.Node
	f     float64
	seq   uint64 // Admission order, breaks fScore ties
	index int    // Index in the heap, -1 once popped
}

// frontier is a min-heap on (f, seq). Ordering ties by admission reproduces a
// linear scan of an insertion-ordered open list that keeps the first minimum.
type frontier []*frontierItem

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq frontier) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *frontier) Push(x interface{}) {
	item := x.(*frontierItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *frontier) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	*pq = old[0 : n-1]
	return item
}

// update changes the fScore of an item still in the heap
func (pq *frontier) update(item *frontierItem, f float64) {
	item.f = f
	heap.Fix(pq, item.index)
}
