package bnb

import (
	"math"
	"sync"
)

// scheduler hands open nodes to workers. The search is over when the queue
// is empty and no node is in flight; a worker pushes the children of a node
// before releasing it, so that condition cannot be observed early.
type scheduler struct {
	mu        sync.Mutex
	cond      *sync.Cond
	q         nodeQueue
	active    map[int]float64 // in-flight id → bound
	stopped   bool
	limitHit  bool
	popped    int
	nodeLimit int
}

func newScheduler(s NodeSelection, nodeLimit int) *scheduler {
	sc := &scheduler{
		q:         newQueue(s),
		active:    make(map[int]float64),
		nodeLimit: nodeLimit,
	}
	sc.cond = sync.NewCond(&sc.mu)

	return sc
}

// push adds an open node without touching the in-flight count.
func (s *scheduler) push(e entry) {
	s.mu.Lock()
	s.q.push(e)
	s.mu.Unlock()
	s.cond.Signal()
}

// next blocks until a node is available or the search is over. ok is false
// when the worker should exit.
func (s *scheduler) next() (e entry, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if s.stopped {
			return entry{}, false
		}
		if s.q.len() > 0 {
			if s.nodeLimit > 0 && s.popped >= s.nodeLimit {
				s.limitHit = true
				s.stopped = true
				s.cond.Broadcast()

				return entry{}, false
			}
			e = s.q.pop()
			s.popped++
			s.active[e.id] = e.bound

			return e, true
		}
		if len(s.active) == 0 {
			s.cond.Broadcast()

			return entry{}, false
		}
		s.cond.Wait()
	}
}

// done releases id after queueing its children.
func (s *scheduler) done(id int, children []entry) {
	s.mu.Lock()
	for _, c := range children {
		s.q.push(c)
	}
	delete(s.active, id)
	s.mu.Unlock()
	s.cond.Broadcast()
}

// requeue puts an interrupted node back.
func (s *scheduler) requeue(e entry) {
	s.mu.Lock()
	s.q.push(e)
	delete(s.active, e.id)
	s.mu.Unlock()
	s.cond.Broadcast()
}

// stop ends dispatch. Nodes already handed out still complete.
func (s *scheduler) stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cond.Broadcast()
}

// frontier returns the number of open nodes and their smallest bound.
func (s *scheduler) frontier() (open int, minBound float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	minBound = s.q.minBound()
	for _, b := range s.active {
		minBound = math.Min(minBound, b)
	}

	return s.q.len() + len(s.active), minBound
}

func (s *scheduler) nodeLimitHit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.limitHit
}
