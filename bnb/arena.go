package bnb

import (
	"sync"

	"github.com/katalvlaran/cvrpbb/relax"
)

const noParent = -1

// node is one entry of the search tree. Links are arena indices.
type node struct {
	parent    int
	depth     int
	change    relax.BoundChange
	hasChange bool        // false only for the root
	cuts      []relax.Row // rows found while evaluating this node
	bound     float64
	status    NodeStatus
}

// arena stores every node ever created, addressed by id.
type arena struct {
	mu       sync.RWMutex
	nodes    []node
	maxDepth int
}

func (a *arena) addRoot(bound float64) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nodes = append(a.nodes, node{parent: noParent, bound: bound})

	return len(a.nodes) - 1
}

// addChild appends a child of parent that inherits its bound.
func (a *arena) addChild(parent int, ch relax.BoundChange, status NodeStatus) (id int, depth int, bound float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.nodes[parent]
	depth = p.depth + 1
	a.nodes = append(a.nodes, node{
		parent:    parent,
		depth:     depth,
		change:    ch,
		hasChange: true,
		bound:     p.bound,
		status:    status,
	})
	if depth > a.maxDepth {
		a.maxDepth = depth
	}

	return len(a.nodes) - 1, depth, p.bound
}

func (a *arena) get(id int) node {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.nodes[id]
}

func (a *arena) setStatus(id int, s NodeStatus) {
	a.mu.Lock()
	a.nodes[id].status = s
	a.mu.Unlock()
}

func (a *arena) setBound(id int, b float64) {
	a.mu.Lock()
	a.nodes[id].bound = b
	a.mu.Unlock()
}

func (a *arena) addCuts(id int, rows []relax.Row) {
	a.mu.Lock()
	n := &a.nodes[id]
	n.cuts = append(n.cuts[:len(n.cuts):len(n.cuts)], rows...)
	a.mu.Unlock()
}

// path collects the bound changes (root first) and the cuts of every node
// from the root down to id. The returned slices are fresh.
func (a *arena) path(id int) ([]relax.BoundChange, []relax.Row) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var (
		chain []int
		nCuts int
	)
	for v := id; v != noParent; v = a.nodes[v].parent {
		chain = append(chain, v)
		nCuts += len(a.nodes[v].cuts)
	}
	changes := make([]relax.BoundChange, 0, len(chain))
	cuts := make([]relax.Row, 0, nCuts)
	for k := len(chain) - 1; k >= 0; k-- {
		nd := &a.nodes[chain[k]]
		if nd.hasChange {
			changes = append(changes, nd.change)
		}
		cuts = append(cuts, nd.cuts...)
	}

	return changes, cuts
}

func (a *arena) size() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.nodes)
}

func (a *arena) depthMax() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.maxDepth
}
