package bnb

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/cvrpbb/relax"
)

// seedTol is the row/bound slack allowed when checking a seed.
const seedTol = 1e-6

// Solve runs branch-and-bound on p using oracle for every relaxation.
//
// The returned error is nil for ProvenOptimal and BudgetExceeded runs,
// wraps ErrInfeasibleInstance for Infeasible runs, and wraps the cause of a
// fatal failure (relax.ErrOracleFailure, ErrSeparationStalled) otherwise. In
// every case Result carries the best solution found and the statistics.
func Solve(ctx context.Context, p Problem, oracle relax.Oracle, opts Options) (Result, error) {
	start := time.Now()
	res := Result{Objective: math.Inf(1), Bound: math.Inf(-1), RunID: uuid.NewString()}
	if err := opts.Validate(); err != nil {
		return res, err
	}
	if p.Formulation == nil || oracle == nil {
		return res, fmt.Errorf("%w: missing formulation or oracle", ErrBadProblem)
	}
	if err := p.Formulation.Validate(); err != nil {
		return res, err
	}
	if p.Integer != nil && len(p.Integer) != p.Formulation.NumVars() {
		return res, fmt.Errorf("%w: integer mask has %d entries for %d variables",
			ErrBadProblem, len(p.Integer), p.Formulation.NumVars())
	}
	f, ok := roundIntegerBounds(p.Formulation, p.Integer)
	if !ok {
		res.Status, res.Bound = Infeasible, math.Inf(1)
		return res, fmt.Errorf("%w: integer variable with an empty domain", ErrInfeasibleInstance)
	}

	e := &engine{
		f:      f,
		mask:   p.Integer,
		sep:    p.Separator,
		oracle: oracle,
		opts:   opts,
		obs:    opts.Observer,
		runID:  res.RunID,
		inc:    NewIncumbent(),
		arena:  &arena{},
		sched:  newScheduler(opts.Strategy, opts.NodeLimit),
	}
	if e.obs == nil {
		e.obs = NopObserver{}
	}
	if p.Seed != nil {
		obj, err := checkSeed(f, p.Integer, p.Separator, p.Seed)
		if err != nil {
			return res, err
		}
		e.inc.TryImprove(obj, p.Seed.X)
		e.stats.incumbents.Add(1)
		e.obs.IncumbentImproved(obj)
	}

	log.Infof("bnb[%s]: start vars=%d rows=%d strategy=%s branching=%s workers=%d",
		res.RunID, f.NumVars(), len(f.Rows), opts.Strategy, opts.Branching, opts.Workers)

	caller := ctx
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}
	root := e.arena.addRoot(math.Inf(-1))
	e.sched.push(entry{id: root, bound: math.Inf(-1)})

	g, gctx := errgroup.WithContext(ctx)
	release := context.AfterFunc(gctx, e.sched.stop)
	defer release()
	for w := 0; w < opts.Workers; w++ {
		g.Go(func() error { return e.work(gctx) })
	}
	runErr := g.Wait()

	res = e.result(res.RunID, start)
	switch {
	case runErr != nil:
		res.Stop = StopAborted
	case res.Status != BudgetExceeded:
		res.Stop = StopExhausted
	case e.sched.nodeLimitHit():
		res.Stop = StopNodeLimit
	case caller.Err() != nil:
		res.Stop = StopCancelled
	case ctx.Err() != nil:
		res.Stop = StopTimeLimit
	}
	e.obs.SearchFinished(res.Status, res.Bound, res.Objective)
	log.Infof("bnb[%s]: %s (%s) objective=%g bound=%g nodes=%d lp=%d elapsed=%s",
		res.RunID, res.Status, res.Stop, res.Objective, res.Bound, res.Stats.Evaluated, res.Stats.LPSolves, res.Elapsed)

	if runErr != nil {
		res.Status = BudgetExceeded
		return res, fmt.Errorf("bnb: search aborted: %w", runErr)
	}
	if res.Status == Infeasible {
		if e.arena.get(root).status == NodeInfeasible {
			return res, fmt.Errorf("%w: root relaxation is infeasible", ErrInfeasibleInstance)
		}

		return res, fmt.Errorf("%w: search tree exhausted without an integral point", ErrInfeasibleInstance)
	}

	return res, nil
}

// result assembles the final Result once every worker has returned.
func (e *engine) result(runID string, start time.Time) Result {
	res := Result{RunID: runID, Objective: math.Inf(1)}
	obj, x, has := e.inc.CurrentBest()
	if has {
		res.Objective, res.X, res.HasSolution = obj, x, true
	}
	res.History = e.inc.History()

	open, minBound := e.sched.frontier()
	switch {
	case open == 0:
		if has {
			res.Status, res.Bound = ProvenOptimal, obj
		} else {
			res.Status, res.Bound = Infeasible, math.Inf(1)
		}
	case has && minBound >= obj-ImprovementTol:
		// Everything left open would be pruned on pop.
		res.Status, res.Bound = ProvenOptimal, obj
	default:
		res.Status, res.Bound = BudgetExceeded, math.Min(minBound, obj)
	}

	res.Stats = Stats{
		Created:    int64(e.arena.size()),
		Evaluated:  e.stats.evaluated.Load(),
		Pruned:     e.stats.pruned.Load(),
		Infeasible: e.stats.infeasible.Load(),
		Integral:   e.stats.integral.Load(),
		Branched:   e.stats.branched.Load(),
		LPSolves:   e.stats.lpSolves.Load(),
		Cuts:       e.stats.cuts.Load(),
		Incumbents: e.stats.incumbents.Load(),
		MaxDepth:   e.arena.depthMax(),
	}
	res.Elapsed = time.Since(start)

	return res
}

// roundIntegerBounds tightens integer bounds to integers (lo ↑, hi ↓). The
// base formulation is shared, so a shallow copy carries the new bounds.
func roundIntegerBounds(f *relax.Formulation, mask []bool) (*relax.Formulation, bool) {
	out := *f
	out.Lower = append([]float64(nil), f.Lower...)
	out.Upper = append([]float64(nil), f.Upper...)
	for j := range out.Lower {
		if !isInteger(mask, j) {
			continue
		}
		out.Lower[j] = math.Ceil(out.Lower[j] - IntegralityTol)
		if !math.IsInf(out.Upper[j], 1) {
			out.Upper[j] = math.Floor(out.Upper[j] + IntegralityTol)
		}
		if out.Lower[j] > out.Upper[j] {
			return &out, false
		}
	}

	return &out, true
}

// checkSeed verifies that a seed is feasible and returns its objective.
func checkSeed(f *relax.Formulation, mask []bool, sep Separator, c *Candidate) (float64, error) {
	if len(c.X) != f.NumVars() {
		return 0, fmt.Errorf("%w: seed has %d values for %d variables", ErrBadProblem, len(c.X), f.NumVars())
	}
	for j, v := range c.X {
		if v < f.Lower[j]-seedTol || v > f.Upper[j]+seedTol {
			return 0, fmt.Errorf("%w: seed violates the bounds of variable %d", ErrBadProblem, j)
		}
		if isInteger(mask, j) && fractional(v) {
			return 0, fmt.Errorf("%w: seed value %d is fractional", ErrBadProblem, j)
		}
	}
	for i := range f.Rows {
		if f.Rows[i].Violation(c.X) > seedTol {
			return 0, fmt.Errorf("%w: seed violates row %d (%s)", ErrBadProblem, i, f.Rows[i].Name)
		}
	}
	if sep != nil && len(sep.Separate(c.X, true)) > 0 {
		return 0, fmt.Errorf("%w: seed rejected by the separator", ErrBadProblem)
	}

	return f.Value(c.X), nil
}
