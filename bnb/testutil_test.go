package bnb_test

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/katalvlaran/cvrpbb/bnb"
	"github.com/katalvlaran/cvrpbb/relax"
)

const eps = 1e-6

// binaryLE builds min cᵀx s.t. A x ≤ b, x ∈ {0,1}ⁿ.
func binaryLE(c []float64, a [][]float64, b []float64) *relax.Formulation {
	n := len(c)
	f := &relax.Formulation{
		Objective: append([]float64(nil), c...),
		Lower:     make([]float64, n),
		Upper:     make([]float64, n),
	}
	for j := range f.Upper {
		f.Upper[j] = 1
	}
	for i := range a {
		r := relax.Row{Name: fmt.Sprintf("r%d", i), Sense: relax.LessEqual, RHS: b[i]}
		for j, v := range a[i] {
			if v != 0 {
				r.Index = append(r.Index, j)
				r.Value = append(r.Value, v)
			}
		}
		f.Rows = append(f.Rows, r)
	}

	return f
}

// knapsack: max 8x1+11x2+6x3+4x4 s.t. 5x1+7x2+4x3+3x4 ≤ 14. Optimum 21 at (0,1,1,1).
func knapsack() *relax.Formulation {
	return binaryLE([]float64{-8, -11, -6, -4}, [][]float64{{5, 7, 4, 3}}, []float64{14})
}

// threeRows: optimum −9 at (1,1,0).
func threeRows() *relax.Formulation {
	return binaryLE(
		[]float64{-5, -4, -3},
		[][]float64{{2, 3, 1}, {4, 1, 2}, {3, 4, 2}},
		[]float64{5, 11, 8},
	)
}

// randomBinary returns a small random packing problem and its optimum by
// enumeration.
func randomBinary(r *rand.Rand, n, m int) (*relax.Formulation, float64) {
	c := make([]float64, n)
	for j := range c {
		c[j] = -float64(1 + r.Intn(20))
	}
	a := make([][]float64, m)
	b := make([]float64, m)
	for i := range a {
		a[i] = make([]float64, n)
		var sum float64
		for j := range a[i] {
			a[i][j] = float64(r.Intn(10))
			sum += a[i][j]
		}
		b[i] = math.Floor(sum / 2)
	}
	f := binaryLE(c, a, b)

	best := math.Inf(1)
	x := make([]float64, n)
	for mask := 0; mask < 1<<n; mask++ {
		for j := range x {
			x[j] = float64((mask >> j) & 1)
		}
		ok := true
		for _, row := range f.Rows {
			if row.Violation(x) > 0 {
				ok = false
				break
			}
		}
		if ok {
			best = math.Min(best, f.Value(x))
		}
	}

	return f, best
}

// failingOracle returns an oracle failure on the k-th call.
type failingOracle struct {
	mu    sync.Mutex
	calls int
	k     int
	inner relax.Oracle
}

func (o *failingOracle) Solve(ctx context.Context, f *relax.Formulation, b []relax.BoundChange, c []relax.Row) (relax.Solution, error) {
	o.mu.Lock()
	o.calls++
	n := o.calls
	o.mu.Unlock()
	if n >= o.k {
		return relax.Solution{}, fmt.Errorf("%w: injected", relax.ErrOracleFailure)
	}

	return o.inner.Solve(ctx, f, b, c)
}

// countingObserver records events.
type countingObserver struct {
	bnb.NopObserver
	mu         sync.Mutex
	closed     map[bnb.NodeStatus]int
	improved   []float64
	lps, cuts  int
	finished   int
	lastStatus bnb.ProofStatus
}

func newCountingObserver() *countingObserver {
	return &countingObserver{closed: make(map[bnb.NodeStatus]int)}
}

func (o *countingObserver) NodeClosed(s bnb.NodeStatus, _ int) {
	o.mu.Lock()
	o.closed[s]++
	o.mu.Unlock()
}

func (o *countingObserver) LPSolved() {
	o.mu.Lock()
	o.lps++
	o.mu.Unlock()
}

func (o *countingObserver) CutsAdded(n int) {
	o.mu.Lock()
	o.cuts += n
	o.mu.Unlock()
}

func (o *countingObserver) IncumbentImproved(obj float64) {
	o.mu.Lock()
	o.improved = append(o.improved, obj)
	o.mu.Unlock()
}

func (o *countingObserver) SearchFinished(s bnb.ProofStatus, _, _ float64) {
	o.mu.Lock()
	o.finished++
	o.lastStatus = s
	o.mu.Unlock()
}
