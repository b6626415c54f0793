package bnb

import (
	"errors"
	"math"
	"time"

	"github.com/katalvlaran/cvrpbb/relax"
)

const (
	// IntegralityTol is the distance to the nearest integer under which a
	// relaxed value counts as integral.
	IntegralityTol = 1e-6

	// ImprovementTol is the margin a candidate or a bound must beat the
	// incumbent by to count as strictly better.
	ImprovementTol = 1e-9

	// maxIntegralRounds caps separation on a single integral point.
	maxIntegralRounds = 1000
)

// Sentinel errors.
var (
	// ErrInfeasibleInstance is returned when no integral point exists: either
	// the root relaxation is infeasible or the tree was exhausted empty-handed.
	ErrInfeasibleInstance = errors.New("bnb: instance is infeasible")

	// ErrBadOptions signals an invalid Options value.
	ErrBadOptions = errors.New("bnb: invalid options")

	// ErrBadProblem signals an inconsistent Problem (mask length, seed).
	ErrBadProblem = errors.New("bnb: invalid problem")

	// ErrSeparationStalled is returned when the separator keeps producing cuts
	// for the same integral point.
	ErrSeparationStalled = errors.New("bnb: separation stalled on an integral point")
)

// ProofStatus tells how far the search got.
type ProofStatus int

const (
	// ProvenOptimal means the incumbent is optimal.
	ProvenOptimal ProofStatus = iota
	// BudgetExceeded means the search was stopped early; the incumbent, if
	// any, is the best found so far.
	BudgetExceeded
	// Infeasible means there is no integral solution.
	Infeasible
)

// String implements fmt.Stringer.
func (s ProofStatus) String() string {
	switch s {
	case ProvenOptimal:
		return "optimal"
	case BudgetExceeded:
		return "budget-exceeded"
	case Infeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// NodeStatus is the lifecycle state of a search node.
type NodeStatus int

const (
	NodeUnvisited NodeStatus = iota
	NodeBounded
	NodeBranched
	NodePruned
	NodeInfeasible
	NodeIntegral
)

// String implements fmt.Stringer.
func (s NodeStatus) String() string {
	switch s {
	case NodeUnvisited:
		return "unvisited"
	case NodeBounded:
		return "bounded"
	case NodeBranched:
		return "branched"
	case NodePruned:
		return "pruned"
	case NodeInfeasible:
		return "infeasible"
	case NodeIntegral:
		return "integral"
	default:
		return "unknown"
	}
}

// Separator finds linear rows violated by x that every feasible integral
// point satisfies. integral reports whether x is integral on all integer
// variables (already rounded); in that case an empty result accepts x as a
// feasible solution of the full problem.
//
// Separate is called concurrently when Options.Workers > 1.
type Separator interface {
	Separate(x []float64, integral bool) []relax.Row
}

// SeparatorFunc adapts a function to Separator.
type SeparatorFunc func(x []float64, integral bool) []relax.Row

// Separate implements Separator.
func (f SeparatorFunc) Separate(x []float64, integral bool) []relax.Row { return f(x, integral) }

// Candidate is a known feasible assignment.
type Candidate struct {
	Objective float64
	X         []float64
}

// Problem is the input of Solve.
type Problem struct {
	Formulation *relax.Formulation

	// Integer marks integer variables. nil means every variable is integer.
	Integer []bool

	// Separator is optional.
	Separator Separator

	// Seed, when set, is checked and installed as the first incumbent.
	Seed *Candidate
}

// Stats counts search events.
type Stats struct {
	Created    int64 // nodes created, root included
	Evaluated  int64 // nodes that reached the oracle
	Pruned     int64
	Infeasible int64
	Integral   int64
	Branched   int64
	LPSolves   int64
	Cuts       int64
	Incumbents int64
	MaxDepth   int
}

// Result is the outcome of Solve.
type Result struct {
	Status      ProofStatus
	HasSolution bool
	Objective   float64 // +Inf when !HasSolution
	X           []float64

	// Bound is a proven lower bound on the optimum. It equals Objective when
	// Status == ProvenOptimal and is +Inf when Status == Infeasible.
	Bound float64

	// History holds every accepted incumbent objective, in order.
	History []float64

	// Stop says what ended the search.
	Stop StopReason

	Stats   Stats
	RunID   string
	Elapsed time.Duration
}

// StopReason records why a search ended.
type StopReason int

const (
	// StopExhausted: every open node was evaluated or prunable.
	StopExhausted StopReason = iota
	// StopNodeLimit: Options.NodeLimit nodes were handed out.
	StopNodeLimit
	// StopTimeLimit: Options.TimeLimit elapsed.
	StopTimeLimit
	// StopCancelled: the caller's context was done.
	StopCancelled
	// StopAborted: a fatal error ended the search.
	StopAborted
)

func (r StopReason) String() string {
	switch r {
	case StopExhausted:
		return "exhausted"
	case StopNodeLimit:
		return "node-limit"
	case StopTimeLimit:
		return "time-limit"
	case StopCancelled:
		return "cancelled"
	case StopAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Gap returns the relative distance between Objective and Bound, or +Inf
// when either side is missing.
func (r Result) Gap() float64 {
	if !r.HasSolution || math.IsInf(r.Bound, 0) {
		return math.Inf(1)
	}
	diff := r.Objective - r.Bound
	if diff <= 0 {
		return 0
	}

	return diff / math.Max(math.Abs(r.Objective), 1e-9)
}
