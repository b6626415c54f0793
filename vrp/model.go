package vrp

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/cvrpbb/bnb"
	"github.com/katalvlaran/cvrpbb/relax"
)

// Edge is the node pair behind one model variable, I < J.
type Edge struct{ I, J int }

// Model is the linear formulation of an Instance plus the edge indexing
// needed to read solutions back.
type Model struct {
	Instance    *Instance
	Formulation *relax.Formulation
	Edges       []Edge

	index [][]int // index[i][j] = variable of {i,j}, -1 on the diagonal
	fixed int
}

// BuildModel translates inst into the two-index formulation.
//
// Static fixing: x_ij has upper bound 0 whenever d_i + d_j > Q, because no
// route can carry both customers.
//
// Complexity: O(n²) variables, O(n) rows, O(n²) non-zeros.
func BuildModel(inst *Instance) *Model {
	nn := inst.NumNodes()
	m := &Model{Instance: inst, index: make([][]int, nn)}
	for i := range m.index {
		m.index[i] = make([]int, nn)
		m.index[i][i] = -1
	}
	var i, j int
	for i = 0; i < nn; i++ {
		for j = i + 1; j < nn; j++ {
			m.index[i][j] = len(m.Edges)
			m.index[j][i] = len(m.Edges)
			m.Edges = append(m.Edges, Edge{I: i, J: j})
		}
	}

	nv := len(m.Edges)
	f := &relax.Formulation{
		Objective: make([]float64, nv),
		Lower:     make([]float64, nv),
		Upper:     make([]float64, nv),
	}
	for e, ed := range m.Edges {
		f.Objective[e] = inst.Distance(ed.I, ed.J)
		switch {
		case ed.I == 0:
			f.Upper[e] = 2
		case inst.Demand(ed.I)+inst.Demand(ed.J) > inst.Capacity:
			m.fixed++
		default:
			f.Upper[e] = 1
		}
	}

	for i = 1; i < nn; i++ {
		f.Rows = append(f.Rows, m.cutRow(fmt.Sprintf("deg_%d", i), []int{i}, relax.Equal, 2))
		if d := inst.Demand(i); d > inst.Capacity {
			f.Rows = append(f.Rows, m.cutRow(fmt.Sprintf("over_%d", i), []int{i}, relax.GreaterEqual,
				float64(2*ceilDiv(d, inst.Capacity))))
		}
	}
	all := make([]int, 0, nn-1)
	for i = 1; i < nn; i++ {
		all = append(all, i)
	}
	f.Rows = append(f.Rows,
		m.cutRow("fleet", all, relax.LessEqual, float64(2*inst.Vehicles)),
		m.cutRow("rci_all", all, relax.GreaterEqual, float64(2*max(1, inst.MinVehicles()))),
	)
	m.Formulation = f

	return m
}

// Problem wraps the model for bnb.Solve with every variable integer and the
// capacity separator attached.
func (m *Model) Problem() bnb.Problem {
	return bnb.Problem{Formulation: m.Formulation, Separator: NewSeparator(m)}
}

// Var returns the variable of edge {i,j}.
func (m *Model) Var(i, j int) int { return m.index[i][j] }

// NumFixed returns how many variables static fixing closed.
func (m *Model) NumFixed() int { return m.fixed }

// cutRow builds x(δ(S)) sense rhs for the customer set S. S must not
// contain the depot.
func (m *Model) cutRow(name string, set []int, sense relax.Sense, rhs float64) relax.Row {
	nn := m.Instance.NumNodes()
	in := make([]bool, nn)
	for _, v := range set {
		in[v] = true
	}
	r := relax.Row{Name: name, Sense: sense, RHS: rhs}
	var u, v int
	for _, u = range set {
		for v = 0; v < nn; v++ {
			if in[v] {
				continue
			}
			r.Index = append(r.Index, m.index[u][v])
			r.Value = append(r.Value, 1)
		}
	}

	return r
}

// capacityRHS returns 2·max(1, ⌈d(S)/Q⌉).
func (m *Model) capacityRHS(set []int) float64 {
	var d int
	for _, v := range set {
		d += m.Instance.Demand(v)
	}

	return float64(2 * max(1, ceilDiv(d, m.Instance.Capacity)))
}

// Encode turns routes (customer sequences without the depot) into a model
// point. A single-customer route uses its depot edge twice.
func (m *Model) Encode(routes [][]int) []float64 {
	x := make([]float64, len(m.Edges))
	for _, r := range routes {
		if len(r) == 0 {
			continue
		}
		prev := 0
		for _, c := range r {
			x[m.index[prev][c]]++
			prev = c
		}
		x[m.index[prev][0]]++
	}

	return x
}

// DecodeRoutes reads routes back from an integral model point. Each route is
// oriented so that its first customer is not larger than its last one, and
// routes are sorted by first customer.
//
// It returns ErrInvalidTour if the point is not a set of depot cycles
// covering every customer exactly once.
func (m *Model) DecodeRoutes(x []float64) ([][]int, error) {
	if len(x) != len(m.Edges) {
		return nil, relax.ErrDimensionMismatch
	}
	nn := m.Instance.NumNodes()
	left := make([]int, len(x))
	deg := make([]int, nn)
	for e, v := range x {
		k := int(math.Round(v))
		if k < 0 || math.Abs(v-float64(k)) > bnb.IntegralityTol {
			return nil, fmt.Errorf("%w: edge %d carries %g", ErrInvalidTour, e, v)
		}
		left[e] = k
		deg[m.Edges[e].I] += k
		deg[m.Edges[e].J] += k
	}
	for i := 1; i < nn; i++ {
		if deg[i] != 2 {
			return nil, fmt.Errorf("%w: customer %d has degree %d", ErrInvalidTour, i, deg[i])
		}
	}

	var routes [][]int
	seen := make([]bool, nn)
	for first := 1; first < nn; first++ {
		e := m.index[0][first]
		for left[e] > 0 {
			left[e]--
			route := []int{first}
			seen[first] = true
			cur := first
			for cur != 0 {
				next := -1
				for v := 0; v < nn; v++ {
					if v == cur || left[m.index[cur][v]] == 0 {
						continue
					}
					if v == 0 || !seen[v] {
						next = v
						break
					}
				}
				if next < 0 {
					return nil, fmt.Errorf("%w: route from %d breaks at %d", ErrInvalidTour, first, cur)
				}
				left[m.index[cur][next]]--
				if next != 0 {
					route = append(route, next)
					seen[next] = true
				}
				cur = next
			}
			if route[0] > route[len(route)-1] {
				slices.Reverse(route)
			}
			routes = append(routes, route)
		}
	}
	for i := 1; i < nn; i++ {
		if !seen[i] {
			return nil, fmt.Errorf("%w: customer %d is on a cycle without the depot", ErrInvalidTour, i)
		}
	}
	slices.SortFunc(routes, func(a, b []int) int { return a[0] - b[0] })

	return routes, nil
}
