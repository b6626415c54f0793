package bnb

import (
	"fmt"
	"strings"
	"time"
)

// NodeSelection picks the next open node.
type NodeSelection int

const (
	// BestBound pops the node with the lowest bound (ties: lowest id).
	BestBound NodeSelection = iota
	// DepthFirst pops the most recently created node; the down branch
	// (x ≤ ⌊v⌋) is explored before the up branch.
	DepthFirst
)

// String implements fmt.Stringer.
func (s NodeSelection) String() string {
	switch s {
	case BestBound:
		return "best-bound"
	case DepthFirst:
		return "depth-first"
	default:
		return "unknown"
	}
}

// ParseNodeSelection accepts "best-bound" (or "best") and "depth-first"
// (or "dfs"), case-insensitively.
func ParseNodeSelection(s string) (NodeSelection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "best-bound", "best", "bestbound":
		return BestBound, nil
	case "depth-first", "dfs", "depthfirst":
		return DepthFirst, nil
	}

	return 0, fmt.Errorf("%w: unknown node selection %q", ErrBadOptions, s)
}

// BranchRule picks the fractional variable to branch on.
type BranchRule int

const (
	// MostFractional picks the value whose fraction is closest to 0.5.
	MostFractional BranchRule = iota
	// FirstFractional picks the lowest-index fractional variable.
	FirstFractional
)

// String implements fmt.Stringer.
func (r BranchRule) String() string {
	switch r {
	case MostFractional:
		return "most-fractional"
	case FirstFractional:
		return "first-fractional"
	default:
		return "unknown"
	}
}

// ParseBranchRule accepts "most-fractional" and "first-fractional",
// case-insensitively.
func ParseBranchRule(s string) (BranchRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "most-fractional", "most", "mostfractional":
		return MostFractional, nil
	case "first-fractional", "first", "firstfractional":
		return FirstFractional, nil
	}

	return 0, fmt.Errorf("%w: unknown branching rule %q", ErrBadOptions, s)
}

// Observer receives search events. Calls may come from several workers at
// once; implementations must be safe for concurrent use.
type Observer interface {
	NodeClosed(status NodeStatus, depth int)
	LPSolved()
	CutsAdded(n int)
	IncumbentImproved(objective float64)
	SearchFinished(status ProofStatus, bound, objective float64)
}

// NopObserver ignores every event. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) NodeClosed(NodeStatus, int)                   {}
func (NopObserver) LPSolved()                                    {}
func (NopObserver) CutsAdded(int)                                {}
func (NopObserver) IncumbentImproved(float64)                    {}
func (NopObserver) SearchFinished(ProofStatus, float64, float64) {}

// Options configures Solve.
type Options struct {
	Strategy  NodeSelection
	Branching BranchRule

	// Workers is the number of goroutines evaluating nodes (≥ 1).
	Workers int

	// TimeLimit bounds the wall-clock time; 0 disables it.
	TimeLimit time.Duration

	// NodeLimit bounds the number of dispatched nodes; 0 disables it.
	NodeLimit int

	// MaxCutRounds bounds separation rounds on fractional points (≥ 0).
	MaxCutRounds int

	// DisablePruning turns off every bound-based prune. The result must not
	// change; only the tree grows.
	DisablePruning bool

	// Observer is optional.
	Observer Observer
}

// DefaultOptions returns best-bound search with most-fractional branching on
// a single worker and no budget.
func DefaultOptions() Options {
	return Options{
		Strategy:     BestBound,
		Branching:    MostFractional,
		Workers:      1,
		MaxCutRounds: 20,
	}
}

// Validate reports the first invalid field.
func (o Options) Validate() error {
	switch {
	case o.Strategy != BestBound && o.Strategy != DepthFirst:
		return fmt.Errorf("%w: strategy %d", ErrBadOptions, o.Strategy)
	case o.Branching != MostFractional && o.Branching != FirstFractional:
		return fmt.Errorf("%w: branching %d", ErrBadOptions, o.Branching)
	case o.Workers < 1:
		return fmt.Errorf("%w: workers must be ≥ 1, got %d", ErrBadOptions, o.Workers)
	case o.TimeLimit < 0:
		return fmt.Errorf("%w: negative time limit", ErrBadOptions)
	case o.NodeLimit < 0:
		return fmt.Errorf("%w: negative node limit", ErrBadOptions)
	case o.MaxCutRounds < 0:
		return fmt.Errorf("%w: negative cut rounds", ErrBadOptions)
	}

	return nil
}
