package vrp

import "fmt"

// ValidatePlan checks that routes form a feasible plan for inst:
//
//   - at most inst.Vehicles non-empty routes (ErrTooManyVehicles);
//   - every customer 1..n exactly once, no depot inside a route
//     (ErrInvalidTour);
//   - every route load ≤ inst.Capacity (ErrCapacityExceeded).
//
// Empty routes are ignored.
func ValidatePlan(inst *Instance, routes [][]int) error {
	used := 0
	for _, r := range routes {
		if len(r) > 0 {
			used++
		}
	}
	if used > inst.Vehicles {
		return fmt.Errorf("%w: %d routes for %d vehicles", ErrTooManyVehicles, used, inst.Vehicles)
	}

	nn := inst.NumNodes()
	seen := make([]bool, nn)
	for ri, r := range routes {
		for _, c := range r {
			if c < 1 || c >= nn {
				return fmt.Errorf("%w: route %d visits node %d", ErrInvalidTour, ri, c)
			}
			if seen[c] {
				return fmt.Errorf("%w: customer %d visited twice", ErrInvalidTour, c)
			}
			seen[c] = true
		}
		if load := inst.RouteLoad(r); load > inst.Capacity {
			return fmt.Errorf("%w: route %d carries %d > %d", ErrCapacityExceeded, ri, load, inst.Capacity)
		}
	}
	for c := 1; c < nn; c++ {
		if !seen[c] {
			return fmt.Errorf("%w: customer %d not visited", ErrInvalidTour, c)
		}
	}

	return nil
}
