package bnb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cvrpbb/relax"
)

func TestBoundQueueOrder(t *testing.T) {
	q := newQueue(BestBound)
	assert.True(t, math.IsInf(q.minBound(), 1))
	for _, e := range []entry{{4, 2}, {1, 3}, {3, 2}, {2, 1}} {
		q.push(e)
	}
	assert.Equal(t, 1.0, q.minBound())
	var ids []int
	for q.len() > 0 {
		ids = append(ids, q.pop().id)
	}
	assert.Equal(t, []int{2, 3, 4, 1}, ids, "bound first, then id")
}

func TestLifoQueueOrder(t *testing.T) {
	q := newQueue(DepthFirst)
	for _, e := range []entry{{1, 5}, {2, 1}, {3, 4}} {
		q.push(e)
	}
	assert.Equal(t, 1.0, q.minBound())
	assert.Equal(t, 3, q.pop().id)
	assert.Equal(t, 2, q.pop().id)
	assert.Equal(t, 1, q.pop().id)
}

func TestSchedulerTermination(t *testing.T) {
	s := newScheduler(BestBound, 0)
	s.push(entry{id: 0})
	e, ok := s.next()
	require.True(t, ok)
	s.done(e.id, []entry{{id: 1, bound: 2}})
	e, ok = s.next()
	require.True(t, ok)
	assert.Equal(t, 1, e.id)
	open, minB := s.frontier()
	assert.Equal(t, 1, open)
	assert.Equal(t, 2.0, minB)
	s.done(e.id, nil)
	_, ok = s.next()
	assert.False(t, ok, "empty queue and nothing in flight")
}

func TestSchedulerNodeLimit(t *testing.T) {
	s := newScheduler(DepthFirst, 1)
	s.push(entry{id: 0})
	e, ok := s.next()
	require.True(t, ok)
	s.done(e.id, []entry{{id: 1}, {id: 2}})
	_, ok = s.next()
	assert.False(t, ok)
	assert.True(t, s.nodeLimitHit())
	open, _ := s.frontier()
	assert.Equal(t, 2, open)
}

func TestChooseBranch(t *testing.T) {
	x := []float64{0, 0.2, 0.45, 0.7, 1}
	assert.Equal(t, 2, chooseBranch(MostFractional, x, nil))
	assert.Equal(t, 1, chooseBranch(FirstFractional, x, nil))
	assert.Equal(t, 3, chooseBranch(FirstFractional, x, []bool{true, false, false, true, true}))
	assert.Equal(t, -1, chooseBranch(MostFractional, []float64{1, 2 + 1e-9}, nil))

	// Ties go to the lowest index.
	assert.Equal(t, 0, chooseBranch(MostFractional, []float64{0.25, 0.75}, nil))
}

func TestRoundIntegers(t *testing.T) {
	got := roundIntegers([]float64{0.9999999, 0.3}, []bool{true, false})
	assert.Equal(t, []float64{1, 0.3}, got)
	assert.True(t, integral([]float64{0.9999999, 0.3}, []bool{true, false}))
	assert.False(t, integral([]float64{0.5}, nil))
}

func TestArenaPath(t *testing.T) {
	var a arena
	root := a.addRoot(math.Inf(-1))
	a.setBound(root, 3)
	a.addCuts(root, []relax.Row{{Name: "r"}})
	c, depth, b := a.addChild(root, relax.BoundChange{Var: 1, Side: relax.Upper}, NodeUnvisited)
	assert.Equal(t, 1, depth)
	assert.Equal(t, 3.0, b)
	a.addCuts(c, []relax.Row{{Name: "c"}})
	g, _, _ := a.addChild(c, relax.BoundChange{Var: 2, Side: relax.Lower, Value: 1}, NodeUnvisited)

	changes, cuts := a.path(g)
	require.Len(t, changes, 2)
	assert.Equal(t, 1, changes[0].Var)
	assert.Equal(t, 2, changes[1].Var)
	require.Len(t, cuts, 2)
	assert.Equal(t, "r", cuts[0].Name)
	assert.Equal(t, "c", cuts[1].Name)
	assert.Equal(t, 2, a.depthMax())
	assert.Equal(t, 3, a.size())
}
