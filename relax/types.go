// Package relax defines the linear relaxation handed to the LP oracle and the
// oracle contract itself.
//
// A Formulation is the read-only base problem:
//
//	minimize   cᵀx
//	subject to a_r·x {≤,≥,=} b_r   for every Row r
//	           lo ≤ x ≤ hi
//
// Search nodes never copy it. A node is described by the base Formulation plus
// the BoundChange deltas and cut Rows accumulated from the root, and the
// Oracle evaluates exactly that combination.
//
// Errors (sentinel):
//   - ErrDimensionMismatch: vector lengths or row indices disagree with NumVars.
//   - ErrBadBounds: NaN or infinite lower bounds, hi = −Inf or lo > hi.
//   - ErrOracleFailure: the LP solver failed for a reason other than infeasibility.
package relax

import (
	"context"
	"errors"
)

// Sentinel errors returned by the relax package.
var (
	// ErrDimensionMismatch indicates inconsistent vector/row shapes.
	ErrDimensionMismatch = errors.New("relax: dimension mismatch")

	// ErrBadBounds indicates an ill-formed bound vector in the base formulation.
	ErrBadBounds = errors.New("relax: invalid variable bounds")

	// ErrOracleFailure indicates an internal solver error unrelated to feasibility.
	// The search cannot continue soundly without a bound, so it is fatal.
	ErrOracleFailure = errors.New("relax: oracle failure")
)

// Sense is the comparison of a linear row against its right-hand side.
type Sense int

const (
	// LessEqual encodes a·x ≤ b.
	LessEqual Sense = iota
	// GreaterEqual encodes a·x ≥ b.
	GreaterEqual
	// Equal encodes a·x = b.
	Equal
)

// String implements fmt.Stringer.
func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return "?"
	}
}

// Row is a sparse linear constraint. Index and Value are parallel slices;
// an index may not repeat within one row.
type Row struct {
	Name  string
	Index []int
	Value []float64
	Sense Sense
	RHS   float64
}

// Activity returns a·x for the given point.
func (r Row) Activity(x []float64) float64 {
	var sum float64
	for k, j := range r.Index {
		sum += r.Value[k] * x[j]
	}

	return sum
}

// Violation returns how far x is from satisfying the row (0 when satisfied).
func (r Row) Violation(x []float64) float64 {
	act := r.Activity(x)
	switch r.Sense {
	case LessEqual:
		if act > r.RHS {
			return act - r.RHS
		}
	case GreaterEqual:
		if act < r.RHS {
			return r.RHS - act
		}
	case Equal:
		if act > r.RHS {
			return act - r.RHS
		}

		return r.RHS - act
	}

	return 0
}

// Formulation is the base linear relaxation shared read-only by all nodes.
type Formulation struct {
	Objective []float64
	Lower     []float64
	Upper     []float64 // math.Inf(1) for an unbounded variable
	Rows      []Row
}

// NumVars returns the number of decision variables.
func (f *Formulation) NumVars() int { return len(f.Objective) }

// Value returns cᵀx.
func (f *Formulation) Value(x []float64) float64 {
	var sum float64
	for j, c := range f.Objective {
		sum += c * x[j]
	}

	return sum
}

// BoundSide selects which side of a variable's domain a BoundChange tightens.
type BoundSide int

const (
	// Lower tightens lo: x ≥ Value.
	Lower BoundSide = iota
	// Upper tightens hi: x ≤ Value.
	Upper
)

// BoundChange is a node-local tightening of one variable's domain.
type BoundChange struct {
	Var   int
	Side  BoundSide
	Value float64
}

// Status is the verdict of one oracle call.
type Status int

const (
	// Optimal means X is an optimal relaxed point with value Objective.
	Optimal Status = iota
	// Infeasible means no point satisfies the constraints.
	Infeasible
)

// String implements fmt.Stringer.
func (s Status) String() string {
	if s == Optimal {
		return "optimal"
	}

	return "infeasible"
}

// Solution is the outcome of a relaxation. X and Objective are meaningful only
// when Status == Optimal.
type Solution struct {
	Status    Status
	Objective float64
	X         []float64
}

// Oracle solves the relaxation of a node: the base formulation with the given
// bound changes (applied in order, each only tightening) and extra rows.
//
// Implementations must be deterministic for equal inputs, must not leak state
// between calls, and must report infeasibility through Solution.Status. A
// returned error is either the context error or wraps ErrOracleFailure.
type Oracle interface {
	Solve(ctx context.Context, f *Formulation, bounds []BoundChange, cuts []Row) (Solution, error)
}
