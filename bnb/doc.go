// Package bnb implements an exact LP-based branch-and-bound search for pure
// integer (and mixed) linear programs.
//
// A Problem is a relax.Formulation plus an integrality mask and an optional
// Separator that supplies globally valid cutting planes. Every search node is
// described by the bound changes and cuts on its path from the root; the
// relax.Oracle re-solves the relaxation of that path on demand, so the base
// formulation is never copied or mutated.
//
// Search loop (per node):
//  1. Pop a node. If its inherited bound is not strictly better than the
//     incumbent, it is pruned without an oracle call.
//  2. Solve the relaxation. Infeasible ⇒ the node is discarded.
//  3. Ask the separator for violated cuts; if any, append them to the node
//     and solve again. Fractional points get at most Options.MaxCutRounds
//     rounds, integral points are cut until the separator accepts them.
//  4. Bound not strictly better than the incumbent ⇒ pruned.
//  5. Integral and accepted ⇒ offered to the Incumbent.
//  6. Otherwise branch on one fractional variable: x ≤ ⌊v⌋ and x ≥ ⌈v⌉.
//
// Node selection is BestBound (lowest bound first, ties by node id) or
// DepthFirst (LIFO, down branch first). Options.Workers goroutines share one
// scheduler; Workers == 1 gives a deterministic run.
//
// Termination:
//   - ProvenOptimal: the tree is exhausted with an incumbent.
//   - Infeasible: the tree is exhausted without one (ErrInfeasibleInstance).
//   - BudgetExceeded: ctx, Options.TimeLimit or Options.NodeLimit stopped the
//     search. Result.Bound is then the smallest bound still open.
//
// Any oracle failure aborts the run with an error wrapping
// relax.ErrOracleFailure.
package bnb
