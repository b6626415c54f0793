package vrp

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/katalvlaran/cvrpbb/relax"
)

const (
	// supportTol is the smallest edge value kept in the support graph.
	supportTol = 1e-6
	// violationTol is the smallest violation reported as a cut.
	violationTol = 1e-6
)

// Separator finds violated rounded capacity inequalities
//
//	x(δ(S)) ≥ 2·max(1, ⌈d(S)/Q⌉)
//
// for customer sets S. It implements bnb.Separator and is safe for
// concurrent use.
//
// Two heuristics are tried in order:
//  1. connected components of the customer support graph;
//  2. (fractional points only, when step 1 found nothing) a minimum
//     depot–customer cut for every customer, via Edmonds–Karp.
//
// On integral points step 1 is exact: a component with x(δ(S)) below its
// right-hand side is either a cycle that misses the depot or a route whose
// load exceeds Q, and every feasible plan satisfies all component rows.
type Separator struct {
	m *Model
}

// NewSeparator returns the separator of m.
func NewSeparator(m *Model) *Separator { return &Separator{m: m} }

// Separate implements bnb.Separator.
func (s *Separator) Separate(x []float64, integral bool) []relax.Row {
	seen := make(map[string]struct{})
	var cuts []relax.Row
	add := func(set []int) {
		slices.Sort(set)
		key := setKey(set)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		rhs := s.m.capacityRHS(set)
		if s.crossing(x, set) < rhs-violationTol {
			cuts = append(cuts, s.m.cutRow(fmt.Sprintf("rci{%s}", key), set, relax.GreaterEqual, rhs))
		}
	}

	for _, comp := range s.components(x) {
		add(comp)
	}
	if len(cuts) > 0 || integral {
		return cuts
	}
	for _, set := range s.minCutSets(x) {
		add(set)
	}

	return cuts
}

// crossing returns x(δ(S)).
func (s *Separator) crossing(x []float64, set []int) float64 {
	nn := s.m.Instance.NumNodes()
	in := make([]bool, nn)
	for _, v := range set {
		in[v] = true
	}
	var sum float64
	for _, u := range set {
		for v := 0; v < nn; v++ {
			if !in[v] {
				sum += x[s.m.index[u][v]]
			}
		}
	}

	return sum
}

// components returns the connected components of the graph on customers
// 1..n whose edges carry more than supportTol. Breadth-first, ascending
// vertex order.
func (s *Separator) components(x []float64) [][]int {
	nn := s.m.Instance.NumNodes()
	visited := make([]bool, nn)
	var (
		comps [][]int
		queue []int
	)
	for start := 1; start < nn; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue = append(queue[:0], start)
		comp := []int{start}
		for head := 0; head < len(queue); head++ {
			u := queue[head]
			for v := 1; v < nn; v++ {
				if v == u || visited[v] || x[s.m.index[u][v]] <= supportTol {
					continue
				}
				visited[v] = true
				queue = append(queue, v)
				comp = append(comp, v)
			}
		}
		comps = append(comps, comp)
	}

	return comps
}

// minCutSets returns, for every customer t with max-flow(0, t) < 2, the
// customer side of a minimum depot–t cut.
func (s *Separator) minCutSets(x []float64) [][]int {
	nn := s.m.Instance.NumNodes()
	capacity := make([][]float64, nn)
	for i := range capacity {
		capacity[i] = make([]float64, nn)
	}
	for e, ed := range s.m.Edges {
		if x[e] > supportTol {
			capacity[ed.I][ed.J] = x[e]
			capacity[ed.J][ed.I] = x[e]
		}
	}

	var sets [][]int
	for t := 1; t < nn; t++ {
		flow, sourceSide := maxFlow(capacity, 0, t)
		if flow >= 2-violationTol {
			continue
		}
		set := make([]int, 0, nn)
		for v := 1; v < nn; v++ {
			if !sourceSide[v] {
				set = append(set, v)
			}
		}
		sets = append(sets, set)
	}

	return sets
}

func setKey(set []int) string {
	var b strings.Builder
	for k, v := range set {
		if k > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}

	return b.String()
}
