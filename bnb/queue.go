package bnb

import (
	"container/heap"
	"math"
)

// entry is an open node as seen by the scheduler.
type entry struct {
	id    int
	bound float64
}

// nodeQueue holds open nodes. Not safe for concurrent use; the scheduler
// serializes access.
type nodeQueue interface {
	push(e entry)
	pop() entry
	len() int
	// minBound returns the smallest bound held, +Inf when empty.
	minBound() float64
}

func newQueue(s NodeSelection) nodeQueue {
	if s == DepthFirst {
		return &lifoQueue{}
	}

	return &boundQueue{}
}

// boundHeap orders entries by bound, then id.
type boundHeap []entry

func (h boundHeap) Len() int { return len(h) }
func (h boundHeap) Less(i, j int) bool {
	if h[i].bound == h[j].bound {
		return h[i].id < h[j].id
	}

	return h[i].bound < h[j].bound
}
func (h boundHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *boundHeap) Push(x any)   { *h = append(*h, x.(entry)) }
func (h *boundHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]

	return e
}

// boundQueue is the best-bound queue.
type boundQueue struct{ h boundHeap }

func (q *boundQueue) push(e entry) { heap.Push(&q.h, e) }
func (q *boundQueue) pop() entry   { return heap.Pop(&q.h).(entry) }
func (q *boundQueue) len() int     { return len(q.h) }
func (q *boundQueue) minBound() float64 {
	if len(q.h) == 0 {
		return math.Inf(1)
	}

	return q.h[0].bound
}

// lifoQueue is the depth-first queue.
type lifoQueue struct{ items []entry }

func (q *lifoQueue) push(e entry) { q.items = append(q.items, e) }
func (q *lifoQueue) pop() entry {
	e := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]

	return e
}
func (q *lifoQueue) len() int { return len(q.items) }
func (q *lifoQueue) minBound() float64 {
	m := math.Inf(1)
	for _, e := range q.items {
		if e.bound < m {
			m = e.bound
		}
	}

	return m
}
