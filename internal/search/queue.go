package search

import "container/heap"

// entry references a node by dense window index. Stale entries are left in
// the heap and skipped on pop.
type entry struct {
	idx       int32
	primary   float32
	secondary float32
}

// openList is a binary heap over entries. Min-first on primary unless
// maxFirst is set; ties prefer the larger secondary key either way.
type openList struct {
	items    []entry
	maxFirst bool
}

func (q *openList) Len() int { return len(q.items) }

func (q *openList) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.primary != b.primary {
		if q.maxFirst {
			return a.primary > b.primary
		}
		return a.primary < b.primary
	}
	return a.secondary > b.secondary
}

func (q *openList) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *openList) Push(x any) { q.items = append(q.items, x.(entry)) }

func (q *openList) Pop() any {
	old := q.items
	n := len(old)
	e := old[n-1]
	q.items = old[:n-1]
	return e
}

func (q *openList) push(e entry) { heap.Push(q, e) }

func (q *openList) pop() entry { return heap.Pop(q).(entry) }

func (q *openList) reset() { q.items = q.items[:0] }
