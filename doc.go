// Package cvrpbb solves the Capacitated Vehicle Routing Problem to proven
// optimality with LP-based branch-and-bound and lazy capacity cuts.
//
// 🚚 What is cvrpbb?
//
//	A small, concurrent exact solver that brings together:
//		• A relaxation oracle: bounded LPs with cuts, solved by gonum's simplex
//		• A generic branch-and-bound engine: best-bound or depth-first, N workers
//		• A shared incumbent with monotone, race-free improvement
//		• A CVRP model builder: two-index edge formulation + capacity separation
//
// Packages:
//
//	relax           Formulation, Row, BoundChange and the Oracle interface
//	bnb             the search engine, options, YAML config and incumbent store
//	vrp             instances, the edge model, cut separation, seeding, file formats
//	metrics         Prometheus collector implementing bnb.Observer
//	cmd/cvrpsolve   command-line solver
//
// Quick example, four customers on a square (Q = 10, K = 2, d = 4 each):
//
//	    3   1
//	    │╲ ╱│
//	    │ 0 │      cost = 4 + 4√2
//	    │╱ ╲│
//	    4   2
//
//	inst, _ := vrp.NewInstance("square", nodes, 10, 2)
//	sol, err := vrp.Solve(ctx, inst, vrp.DefaultSolveOptions())
//	// sol.Routes == [[1 2] [3 4]], sol.Optimal() == true
package cvrpbb
