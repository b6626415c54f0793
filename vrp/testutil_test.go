package vrp_test

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/cvrpbb/vrp"
)

const eps = 1e-6

// square: depot at the origin, four customers on the corners of a 2×2
// square, Q = 10, demands 4, K = 2. Two routes of two neighbours each:
// 2·(√2 + 2 + √2) = 4 + 4√2.
func square(demands ...int) []vrp.Node {
	if len(demands) == 0 {
		demands = []int{4, 4, 4, 4}
	}

	return []vrp.Node{
		{X: 0, Y: 0},
		{X: 1, Y: 1, Demand: demands[0]},
		{X: 1, Y: -1, Demand: demands[1]},
		{X: -1, Y: 1, Demand: demands[2]},
		{X: -1, Y: -1, Demand: demands[3]},
	}
}

// randomNodes places n customers on an integer grid.
func randomNodes(r *rand.Rand, n, maxDemand int) []vrp.Node {
	nodes := []vrp.Node{{X: 10, Y: 10}}
	for i := 0; i < n; i++ {
		nodes = append(nodes, vrp.Node{
			X:      float64(r.Intn(21)),
			Y:      float64(r.Intn(21)),
			Demand: 1 + r.Intn(maxDemand),
		})
	}

	return nodes
}

// bruteForce returns the optimal plan cost by enumerating set partitions
// and route orders; +Inf when no plan exists.
func bruteForce(inst *vrp.Instance) float64 {
	n := inst.NumCustomers()
	groups := make([][]int, 0, n)
	best := math.Inf(1)

	var rec func(c int)
	rec = func(c int) {
		if c > n {
			if len(groups) > inst.Vehicles {
				return
			}
			var total float64
			for _, g := range groups {
				if inst.RouteLoad(g) > inst.Capacity {
					return
				}
				total += bestOrder(inst, g)
			}
			best = math.Min(best, total)
			return
		}
		for k := range groups {
			groups[k] = append(groups[k], c)
			rec(c + 1)
			groups[k] = groups[k][:len(groups[k])-1]
		}
		groups = append(groups, []int{c})
		rec(c + 1)
		groups = groups[:len(groups)-1]
	}
	rec(1)

	return best
}

// bestOrder returns the cheapest depot cycle through g.
func bestOrder(inst *vrp.Instance, g []int) float64 {
	perm := append([]int(nil), g...)
	best := math.Inf(1)
	var rec func(k int)
	rec = func(k int) {
		if k == len(perm) {
			best = math.Min(best, inst.RouteCost(perm))
			return
		}
		for i := k; i < len(perm); i++ {
			perm[k], perm[i] = perm[i], perm[k]
			rec(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	rec(0)

	return best
}
