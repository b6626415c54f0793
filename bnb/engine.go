package bnb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	log "github.com/golang/glog"

	"github.com/katalvlaran/cvrpbb/relax"
)

// counters are the live form of Stats.
type counters struct {
	evaluated, pruned, infeasible atomic.Int64
	integral, branched, lpSolves, cuts     atomic.Int64
	incumbents                             atomic.Int64
}

// engine holds everything the workers share. Only the incumbent, the
// scheduler, the arena and the counters are written during the search.
type engine struct {
	f      *relax.Formulation
	mask   []bool
	sep    Separator
	oracle relax.Oracle
	opts   Options
	obs    Observer
	runID  string

	inc   *Incumbent
	arena *arena
	sched *scheduler
	stats counters
}

// prunable reports whether bound cannot beat the incumbent.
func (e *engine) prunable(bound float64) bool {
	if e.opts.DisablePruning {
		return false
	}

	return bound >= e.inc.Objective()-ImprovementTol
}

func (e *engine) close(id, depth int, s NodeStatus) {
	e.arena.setStatus(id, s)
	switch s {
	case NodePruned:
		e.stats.pruned.Add(1)
	case NodeInfeasible:
		e.stats.infeasible.Add(1)
	case NodeIntegral:
		e.stats.integral.Add(1)
	case NodeBranched:
		e.stats.branched.Add(1)
	}
	e.obs.NodeClosed(s, depth)
	if log.V(2) {
		log.Infof("bnb[%s]: node %d depth %d %s", e.runID, id, depth, s)
	}
}

// work is the worker loop. It returns nil when the search is over or
// stopped, and the first fatal error otherwise.
func (e *engine) work(ctx context.Context) error {
	for {
		ent, ok := e.sched.next()
		if !ok {
			return nil
		}
		children, err := e.evaluate(ctx, ent)
		if err != nil {
			if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				e.sched.requeue(ent)

				return nil
			}
			e.sched.done(ent.id, nil)

			return err
		}
		e.sched.done(ent.id, children)
	}
}

// evaluate runs one node through bound, cut, incumbent and branch steps and
// returns the children to open.
func (e *engine) evaluate(ctx context.Context, ent entry) ([]entry, error) {
	nd := e.arena.get(ent.id)
	if e.prunable(nd.bound) {
		e.close(ent.id, nd.depth, NodePruned)

		return nil, nil
	}
	e.stats.evaluated.Add(1)
	changes, cuts := e.arena.path(ent.id)

	var (
		fracRounds, intRounds int
		bound                 float64
		isIntegral            bool
		x                     []float64
	)
	for {
		sol, err := e.oracle.Solve(ctx, e.f, changes, cuts)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", ent.id, err)
		}
		e.stats.lpSolves.Add(1)
		e.obs.LPSolved()
		if sol.Status == relax.Infeasible {
			e.close(ent.id, nd.depth, NodeInfeasible)

			return nil, nil
		}
		bound = math.Max(sol.Objective, nd.bound)
		e.arena.setBound(ent.id, bound)
		if e.prunable(bound) {
			e.close(ent.id, nd.depth, NodePruned)

			return nil, nil
		}

		x = sol.X
		isIntegral = integral(x, e.mask)
		if isIntegral {
			x = roundIntegers(x, e.mask)
		}
		if e.sep == nil || (!isIntegral && fracRounds >= e.opts.MaxCutRounds) {
			break
		}
		found := e.sep.Separate(x, isIntegral)
		if len(found) == 0 {
			break
		}
		if isIntegral {
			intRounds++
			if intRounds > maxIntegralRounds {
				return nil, fmt.Errorf("node %d: %w", ent.id, ErrSeparationStalled)
			}
		} else {
			fracRounds++
		}
		e.arena.addCuts(ent.id, found)
		cuts = append(cuts, found...)
		e.stats.cuts.Add(int64(len(found)))
		e.obs.CutsAdded(len(found))
	}
	e.arena.setStatus(ent.id, NodeBounded)

	if isIntegral {
		obj := e.f.Value(x)
		if e.inc.TryImprove(obj, x) {
			e.stats.incumbents.Add(1)
			e.obs.IncumbentImproved(obj)
			if log.V(1) {
				log.Infof("bnb[%s]: incumbent %.6f at node %d (bound %.6f)", e.runID, obj, ent.id, bound)
			}
		}
		e.close(ent.id, nd.depth, NodeIntegral)

		return nil, nil
	}

	j := chooseBranch(e.opts.Branching, x, e.mask)
	v := x[j]
	e.close(ent.id, nd.depth, NodeBranched)
	down := relax.BoundChange{Var: j, Side: relax.Upper, Value: math.Floor(v)}
	up := relax.BoundChange{Var: j, Side: relax.Lower, Value: math.Ceil(v)}

	// Down is created first so it wins bound ties; it is returned last so
	// the LIFO queue pops it first.
	open := make([]entry, 0, 2)
	var ids [2]int
	for k, ch := range [2]relax.BoundChange{down, up} {
		id, depth, b := e.arena.addChild(ent.id, ch, NodeUnvisited)
		ids[k] = id
		if e.prunable(b) {
			e.close(id, depth, NodePruned)
			ids[k] = -1
		}
	}
	for k := len(ids) - 1; k >= 0; k-- {
		if ids[k] >= 0 {
			open = append(open, entry{id: ids[k], bound: bound})
		}
	}

	return open, nil
}
