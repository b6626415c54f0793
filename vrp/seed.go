package vrp

import "math"

// SeedPlan builds a feasible plan heuristically, used only as the first
// incumbent of the exact search:
//
//  1. nearest-neighbour giant tour from the depot (ties: lowest index);
//  2. 2-opt on the giant tour;
//  3. for every rotation of the tour, first-fit the customers in tour order
//     into inst.Vehicles vehicles and keep the cheapest feasible partition;
//  4. 2-opt inside every route.
//
// ok is false when no rotation yields a feasible partition.
//
// Complexity: O(n²) for the tour, O(n·(n + K)) for the partitions plus
// local search.
func SeedPlan(inst *Instance) (routes [][]int, ok bool) {
	tour := inst.twoOpt(inst.nearestNeighbourTour())

	bestCost := math.Inf(1)
	n := len(tour)
	rotated := make([]int, n)
	for shift := 0; shift < n; shift++ {
		copy(rotated, tour[shift:])
		copy(rotated[n-shift:], tour[:shift])
		plan := inst.firstFit(rotated)
		if plan == nil || ValidatePlan(inst, plan) != nil {
			continue
		}
		if cost := inst.PlanCost(plan); cost < bestCost {
			bestCost, routes = cost, plan
		}
	}
	if routes == nil {
		return nil, false
	}
	for k := range routes {
		routes[k] = inst.twoOpt(routes[k])
	}

	return routes, true
}

// nearestNeighbourTour returns every customer once, starting next to the
// depot.
func (in *Instance) nearestNeighbourTour() []int {
	nn := in.NumNodes()
	visited := make([]bool, nn)
	tour := make([]int, 0, nn-1)
	cur := 0
	for len(tour) < nn-1 {
		next, best := -1, math.Inf(1)
		for v := 1; v < nn; v++ {
			if !visited[v] && in.Distance(cur, v) < best {
				next, best = v, in.Distance(cur, v)
			}
		}
		visited[next] = true
		tour = append(tour, next)
		cur = next
	}

	return tour
}

// firstFit puts each customer into the first vehicle with room left. It
// returns nil if some customer fits nowhere. Empty vehicles are dropped.
func (in *Instance) firstFit(order []int) [][]int {
	routes := make([][]int, in.Vehicles)
	load := make([]int, in.Vehicles)
	for _, c := range order {
		placed := false
		for v := range routes {
			if load[v]+in.demand[c] <= in.Capacity {
				routes[v] = append(routes[v], c)
				load[v] += in.demand[c]
				placed = true
				break
			}
		}
		if !placed {
			return nil
		}
	}
	out := routes[:0]
	for _, r := range routes {
		if len(r) > 0 {
			out = append(out, r)
		}
	}

	return out
}
