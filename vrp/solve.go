package vrp

import (
	"context"
	"fmt"
	"time"

	log "github.com/golang/glog"

	"github.com/katalvlaran/cvrpbb/bnb"
	"github.com/katalvlaran/cvrpbb/relax"
)

// SolveOptions configures Solve.
type SolveOptions struct {
	Search bnb.Options

	// Oracle evaluates relaxations; nil selects relax.SimplexOracle.
	Oracle relax.Oracle

	// NoSeed skips the heuristic first incumbent.
	NoSeed bool
}

// DefaultSolveOptions returns bnb.DefaultOptions with seeding enabled.
func DefaultSolveOptions() SolveOptions {
	return SolveOptions{Search: bnb.DefaultOptions()}
}

// Solution is the outcome of Solve.
type Solution struct {
	Instance    string
	Status      bnb.ProofStatus
	Stop        bnb.StopReason
	HasSolution bool
	Cost        float64
	Routes      [][]int // customer sequences, depot omitted
	Bound       float64
	Stats       bnb.Stats
	Elapsed     time.Duration
	RunID       string
}

// Optimal reports whether Cost is proven optimal.
func (s Solution) Optimal() bool { return s.HasSolution && s.Status == bnb.ProvenOptimal }

// Solve finds a minimum-cost plan for inst.
//
// Errors: bnb.ErrInfeasibleInstance when no plan exists (Solution.Status ==
// bnb.Infeasible), relax.ErrOracleFailure and the option/shape sentinels of
// bnb and relax. A budget stop is not an error: the best plan found so far
// is returned with bnb.BudgetExceeded.
func Solve(ctx context.Context, inst *Instance, opts SolveOptions) (Solution, error) {
	start := time.Now()
	sol := Solution{Instance: inst.Name}
	oracle := opts.Oracle
	if oracle == nil {
		oracle = relax.SimplexOracle{}
	}

	model := BuildModel(inst)
	prob := model.Problem()
	if !opts.NoSeed {
		if routes, ok := SeedPlan(inst); ok {
			prob.Seed = &bnb.Candidate{Objective: inst.PlanCost(routes), X: model.Encode(routes)}
			log.V(1).Infof("vrp[%s]: seed plan with %d routes, cost %.4f", inst.Name, len(routes), prob.Seed.Objective)
		} else {
			log.V(1).Infof("vrp[%s]: no seed plan", inst.Name)
		}
	}
	log.Infof("vrp[%s]: %d customers, Q=%d, K=%d, %d variables (%d fixed)",
		inst.Name, inst.NumCustomers(), inst.Capacity, inst.Vehicles, len(model.Edges), model.NumFixed())

	res, err := bnb.Solve(ctx, prob, oracle, opts.Search)
	sol.Status, sol.Stop, sol.Bound, sol.Stats, sol.RunID = res.Status, res.Stop, res.Bound, res.Stats, res.RunID
	if res.HasSolution {
		routes, derr := model.DecodeRoutes(res.X)
		if derr != nil {
			return sol, fmt.Errorf("vrp: decoding the incumbent: %w", derr)
		}
		if verr := ValidatePlan(inst, routes); verr != nil {
			return sol, fmt.Errorf("vrp: incumbent is not a feasible plan: %w", verr)
		}
		sol.HasSolution, sol.Routes, sol.Cost = true, routes, inst.PlanCost(routes)
	}
	sol.Elapsed = time.Since(start)

	return sol, err
}
