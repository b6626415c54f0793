package vrp

import "math"

// roundScale stabilizes reported costs to 1e-9.
const roundScale = 1e9

// RouteCost returns the length of depot → route... → depot. An empty route
// costs 0.
//
// Complexity: O(len(route)).
func (in *Instance) RouteCost(route []int) float64 {
	if len(route) == 0 {
		return 0
	}

	return round1e9(in.routeLength(route))
}

// PlanCost returns the total length of routes.
func (in *Instance) PlanCost(routes [][]int) float64 {
	var sum float64
	for _, r := range routes {
		if len(r) > 0 {
			sum += in.routeLength(r)
		}
	}

	return round1e9(sum)
}

// RouteLoad returns Σ demand over route.
func (in *Instance) RouteLoad(route []int) int {
	var sum int
	for _, c := range route {
		sum += in.demand[c]
	}

	return sum
}

func (in *Instance) routeLength(route []int) float64 {
	sum := in.Distance(0, route[0])
	for k := 1; k < len(route); k++ {
		sum += in.Distance(route[k-1], route[k])
	}

	return sum + in.Distance(route[len(route)-1], 0)
}

// round1e9 returns x rounded to 1e-9 absolute precision.
func round1e9(x float64) float64 {
	return math.Round(x*roundScale) / roundScale
}
