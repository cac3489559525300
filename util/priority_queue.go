package util

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

//*******************************************
// priority queue
//*******************************************

type _PQEntry[T any, P constraints.Ordered] struct {
	item T
	prio P
	// insertion counter, breaks ties so equal priorities dequeue FIFO
	seq uint64
}

type _PQHeap[T any, P constraints.Ordered] []_PQEntry[T, P]

func (self _PQHeap[T, P]) Len() int { return len(self) }
func (self _PQHeap[T, P]) Less(i, j int) bool {
	if self[i].prio == self[j].prio {
		return self[i].seq < self[j].seq
	}
	return self[i].prio < self[j].prio
}
func (self _PQHeap[T, P]) Swap(i, j int) { self[i], self[j] = self[j], self[i] }
func (self *_PQHeap[T, P]) Push(x any) {
	*self = append(*self, x.(_PQEntry[T, P]))
}
func (self *_PQHeap[T, P]) Pop() any {
	old := *self
	n := len(old)
	item := old[n-1]
	*self = old[:n-1]
	return item
}

// Min-priority queue.
type PriorityQueue[T any, P constraints.Ordered] struct {
	heap *_PQHeap[T, P]
	seq  uint64
}

func NewPriorityQueue[T any, P constraints.Ordered](cap int) PriorityQueue[T, P] {
	h := make(_PQHeap[T, P], 0, cap)
	return PriorityQueue[T, P]{
		heap: &h,
	}
}

func (self *PriorityQueue[T, P]) Enqueue(item T, prio P) {
	heap.Push(self.heap, _PQEntry[T, P]{item: item, prio: prio, seq: self.seq})
	self.seq += 1
}

// Removes the item with the lowest priority, returns false if the queue is empty.
func (self *PriorityQueue[T, P]) Dequeue() (T, bool) {
	if self.heap.Len() == 0 {
		var t T
		return t, false
	}
	entry := heap.Pop(self.heap).(_PQEntry[T, P])
	return entry.item, true
}

func (self *PriorityQueue[T, P]) Length() int {
	return self.heap.Len()
}
