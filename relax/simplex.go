package relax

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// feasTol is the slack allowed when checking bounds and constant rows.
const feasTol = 1e-9

const (
	// defaultTol is the reduced-cost tolerance used when SimplexOracle.Tol is
	// zero. lp.Simplex stops only when every reduced cost is ≥ −tol, so a zero
	// tolerance chases rounding noise through degenerate pivots.
	defaultTol = 1e-10

	// rankTol is the relative residual below which an equality row counts as
	// a combination of the rows kept before it.
	rankTol = 1e-9

	// eqTol bounds the residual of a dropped equality row at the optimum.
	eqTol = 1e-6
)

// relaxSteps are the right-hand side slacks tried, in order, when lp.Simplex
// stalls on a degenerate vertex. Only inequality rows are loosened, so each
// retry solves a relaxation of the node LP and its optimum stays a valid
// lower bound.
var relaxSteps = []float64{0, 1e-9, 1e-7}

// SimplexOracle evaluates relaxations with gonum's dense simplex
// (lp.Simplex, standard form min cᵀy s.t. Ay = b, y ≥ 0).
//
// Conversion to standard form:
//   - a variable with lo == hi is substituted by its value and never becomes
//     a column;
//   - every other variable is shifted, y = x − lo ≥ 0;
//   - a finite upper bound becomes the row y + s = hi − lo;
//   - LessEqual rows get a slack, a·y + s = b′;
//   - GreaterEqual rows get a slack after negation, −a·y + s = −b′;
//   - Equal rows are kept as a·y = b′, minus those that are linear
//     combinations of earlier Equal rows. A dropped row is checked against
//     the optimum; a mismatch means the equalities are inconsistent and the
//     node is Infeasible.
//
// Rows whose coefficients are all zero never reach the solver. A variable
// that appears in no row and has no upper bound is pinned at its lower bound
// when its cost is non-negative; otherwise the relaxation is unbounded, which
// is reported as ErrOracleFailure.
//
// SimplexOracle keeps no state; a single value may be shared by any number of
// goroutines.
type SimplexOracle struct {
	// Tol is the reduced-cost tolerance handed to lp.Simplex. Zero selects 1e-10.
	Tol float64
}

// lpRow is one row of the shifted problem before slacks are attached.
type lpRow struct {
	index []int
	value []float64
	sense Sense
	rhs   float64
}

// Solve implements Oracle.
func (o SimplexOracle) Solve(ctx context.Context, f *Formulation, bounds []BoundChange, cuts []Row) (Solution, error) {
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}
	n := f.NumVars()
	for _, c := range bounds {
		if c.Var < 0 || c.Var >= n || math.IsNaN(c.Value) {
			return Solution{}, fmt.Errorf("%w: bound change on variable %d", ErrDimensionMismatch, c.Var)
		}
	}
	for i := range cuts {
		if err := checkRow(cuts[i], n); err != nil {
			return Solution{}, fmt.Errorf("cut %d (%s): %w", i, cuts[i].Name, err)
		}
	}

	lo, hi, ok := EffectiveBounds(f, bounds)
	if !ok {
		return Solution{Status: Infeasible}, nil
	}
	fixed := make([]bool, n)
	var j int
	for j = 0; j < n; j++ {
		if hi[j]-lo[j] <= feasTol {
			fixed[j] = true
		}
	}

	rows := make([]lpRow, 0, len(f.Rows)+len(cuts)+n)
	used := make([]bool, n)
	var feasible bool
	if rows, feasible = appendShifted(rows, used, fixed, f.Rows, lo); !feasible {
		return Solution{Status: Infeasible}, nil
	}
	if rows, feasible = appendShifted(rows, used, fixed, cuts, lo); !feasible {
		return Solution{Status: Infeasible}, nil
	}

	for j = 0; j < n; j++ {
		if fixed[j] || math.IsInf(hi[j], 1) {
			continue
		}
		used[j] = true
		rows = append(rows, lpRow{
			index: []int{j},
			value: []float64{1},
			sense: LessEqual,
			rhs:   hi[j] - lo[j],
		})
	}

	// Column map: structural columns first, slacks after.
	col := make([]int, n)
	nStruct := 0
	for j = 0; j < n; j++ {
		if !used[j] {
			col[j] = -1
			if !fixed[j] && f.Objective[j] < 0 {
				return Solution{}, fmt.Errorf("%w: variable %d is unbounded below in the objective", ErrOracleFailure, j)
			}

			continue
		}
		col[j] = nStruct
		nStruct++
	}

	x := append([]float64(nil), lo...)
	rows, dropped := dropDependent(rows, col, nStruct)
	if len(rows) == 0 {
		return Solution{Status: Optimal, Objective: f.Value(x), X: x}, nil
	}

	nSlack := 0
	for i := range rows {
		if rows[i].sense != Equal {
			nSlack++
		}
	}
	m, cols := len(rows), nStruct+nSlack
	if m > cols {
		// Independent equalities never outnumber the structural columns.
		return Solution{}, fmt.Errorf("%w: %d rows exceed %d columns", ErrOracleFailure, m, cols)
	}

	A := mat.NewDense(m, cols, nil)
	b := make([]float64, m)
	c := make([]float64, cols)
	for j = 0; j < n; j++ {
		if col[j] >= 0 {
			c[col[j]] = f.Objective[j]
		}
	}
	var (
		sign float64
		next = nStruct
	)
	for i, r := range rows {
		sign = 1
		if r.sense == GreaterEqual {
			sign = -1
		}
		for k, v := range r.index {
			A.Set(i, col[v], A.At(i, col[v])+sign*r.value[k])
		}
		b[i] = sign * r.rhs
		if r.sense != Equal {
			A.Set(i, next, 1)
			next++
		}
	}

	tol := o.Tol
	if tol == 0 {
		tol = defaultTol
	}
	var (
		y   []float64
		err error
	)
	for _, step := range relaxSteps {
		y, err = runSimplex(c, A, loosen(b, rows, step), tol)
		if err == nil || errors.Is(err, lp.ErrInfeasible) || errors.Is(err, lp.ErrUnbounded) {
			break
		}
		if cerr := ctx.Err(); cerr != nil {
			return Solution{}, cerr
		}
	}
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return Solution{Status: Infeasible}, nil
		}

		return Solution{}, fmt.Errorf("%w: %v", ErrOracleFailure, err)
	}

	for j = 0; j < n; j++ {
		if col[j] < 0 {
			continue
		}
		x[j] = lo[j] + y[col[j]]
		if x[j] < lo[j] {
			x[j] = lo[j]
		}
		if x[j] > hi[j] {
			x[j] = hi[j]
		}
	}
	for _, r := range dropped {
		var act float64
		for k, v := range r.index {
			act += r.value[k] * (x[v] - lo[v])
		}
		if math.Abs(act-r.rhs) > eqTol*(1+math.Abs(r.rhs)) {
			return Solution{Status: Infeasible}, nil
		}
	}

	return Solution{Status: Optimal, Objective: f.Value(x), X: x}, nil
}

// appendShifted moves rows into y-space (b′ = b − a·lo) and marks the
// variables they touch. Fixed variables only contribute to b′. Rows left
// without a non-zero coefficient are decided on the spot; feasible is false
// if one of them cannot hold.
func appendShifted(dst []lpRow, used, fixed []bool, src []Row, lo []float64) (out []lpRow, feasible bool) {
	var (
		shift   float64
		nonzero bool
	)
	for _, r := range src {
		shift, nonzero = 0, false
		for k, j := range r.Index {
			if r.Value[k] == 0 {
				continue
			}
			shift += r.Value[k] * lo[j]
			if !fixed[j] {
				nonzero = true
			}
		}
		rhs := r.RHS - shift
		if !nonzero {
			switch {
			case r.Sense == LessEqual && rhs < -feasTol,
				r.Sense == GreaterEqual && rhs > feasTol,
				r.Sense == Equal && math.Abs(rhs) > feasTol:
				return dst, false
			}

			continue
		}
		lr := lpRow{sense: r.Sense, rhs: rhs}
		for k, j := range r.Index {
			if r.Value[k] == 0 || fixed[j] {
				continue
			}
			used[j] = true
			lr.index = append(lr.index, j)
			lr.value = append(lr.value, r.Value[k])
		}
		dst = append(dst, lr)
	}

	return dst, true
}

// dropDependent removes Equal rows that lie in the span of the Equal rows
// before them (modified Gram–Schmidt on the structural columns). lp.Simplex
// needs A with full row rank; inequality rows always have it through their
// own slack.
func dropDependent(rows []lpRow, col []int, nStruct int) (kept, dropped []lpRow) {
	kept = make([]lpRow, 0, len(rows))
	var basis [][]float64
	for _, r := range rows {
		if r.sense != Equal {
			kept = append(kept, r)
			continue
		}
		v := make([]float64, nStruct)
		for k, j := range r.index {
			v[col[j]] += r.value[k]
		}
		norm := floats.Norm(v, 2)
		for _, q := range basis {
			floats.AddScaled(v, -floats.Dot(v, q), q)
		}
		res := floats.Norm(v, 2)
		if res <= rankTol*norm {
			dropped = append(dropped, r)
			continue
		}
		floats.Scale(1/res, v)
		basis = append(basis, v)
		kept = append(kept, r)
	}

	return kept, dropped
}

// loosen returns b with every inequality row relaxed by step·(1+|b_i|).
// The per-row factor varies so that ties between rows are broken.
func loosen(b []float64, rows []lpRow, step float64) []float64 {
	if step == 0 {
		return b
	}
	out := append([]float64(nil), b...)
	for i, r := range rows {
		if r.sense == Equal {
			continue
		}
		out[i] += step * (1 + math.Abs(out[i])) * (1 + float64(i%7)/7)
	}

	return out
}

// runSimplex calls lp.Simplex and turns a solver panic into an error.
func runSimplex(c []float64, A mat.Matrix, b []float64, tol float64) (y []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			y, err = nil, fmt.Errorf("simplex panic: %v", r)
		}
	}()
	_, y, err = lp.Simplex(c, A, b, tol, nil)

	return y, err
}
