package relax

import (
	"fmt"
	"math"
)

// Validate checks the shape of the formulation and of its rows.
//
// Contract:
//   - len(Lower) == len(Upper) == NumVars() ≥ 1.
//   - Lower bounds are finite, upper bounds are not NaN or −Inf, lo ≤ hi.
//   - Every row has parallel Index/Value slices with in-range, non-repeated
//     indices, finite coefficients and a finite right-hand side.
//
// Complexity: O(n + nnz).
func (f *Formulation) Validate() error {
	n := f.NumVars()
	if n == 0 || len(f.Lower) != n || len(f.Upper) != n {
		return ErrDimensionMismatch
	}
	var (
		j      int
		lo, hi float64
	)
	for j = 0; j < n; j++ {
		lo, hi = f.Lower[j], f.Upper[j]
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, -1) || lo > hi {
			return fmt.Errorf("%w: variable %d has [%g, %g]", ErrBadBounds, j, lo, hi)
		}
		if math.IsNaN(f.Objective[j]) || math.IsInf(f.Objective[j], 0) {
			return fmt.Errorf("%w: objective coefficient %d is not finite", ErrDimensionMismatch, j)
		}
	}
	for i := range f.Rows {
		if err := checkRow(f.Rows[i], n); err != nil {
			return fmt.Errorf("row %d (%s): %w", i, f.Rows[i].Name, err)
		}
	}

	return nil
}

// checkRow validates one sparse row against n variables.
func checkRow(r Row, n int) error {
	if len(r.Index) != len(r.Value) {
		return ErrDimensionMismatch
	}
	if math.IsNaN(r.RHS) || math.IsInf(r.RHS, 0) {
		return ErrDimensionMismatch
	}
	seen := make(map[int]struct{}, len(r.Index))
	for k, j := range r.Index {
		if j < 0 || j >= n {
			return ErrDimensionMismatch
		}
		if _, dup := seen[j]; dup {
			return ErrDimensionMismatch
		}
		seen[j] = struct{}{}
		if math.IsNaN(r.Value[k]) || math.IsInf(r.Value[k], 0) {
			return ErrDimensionMismatch
		}
	}
	switch r.Sense {
	case LessEqual, GreaterEqual, Equal:
		return nil
	default:
		return ErrDimensionMismatch
	}
}

// EffectiveBounds applies the bound changes on top of the base bounds.
// Changes only ever tighten: lo = max(lo, v) and hi = min(hi, v).
// ok is false when some domain becomes empty, which makes the node infeasible
// without consulting a solver.
//
// Complexity: O(n + len(changes)).
func EffectiveBounds(f *Formulation, changes []BoundChange) (lo, hi []float64, ok bool) {
	lo = append([]float64(nil), f.Lower...)
	hi = append([]float64(nil), f.Upper...)
	for _, c := range changes {
		switch c.Side {
		case Lower:
			if c.Value > lo[c.Var] {
				lo[c.Var] = c.Value
			}
		case Upper:
			if c.Value < hi[c.Var] {
				hi[c.Var] = c.Value
			}
		}
	}
	for j := range lo {
		if lo[j] > hi[j]+feasTol {
			return lo, hi, false
		}
		if lo[j] > hi[j] {
			hi[j] = lo[j]
		}
	}

	return lo, hi, true
}
