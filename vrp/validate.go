package vrp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// symTol is the structural tolerance for symmetry and diagonal checks.
const symTol = 1e-12

// validateFleet checks demands, capacity and vehicle count.
//
// Contract:
//   - at least one customer besides the depot;
//   - depot demand 0, customer demands ≥ 0;
//   - capacity ≥ 1, vehicles ≥ 1.
//
// A customer whose demand exceeds the capacity is not rejected here; the
// model makes such instances infeasible.
func validateFleet(demands []int, capacity, vehicles int) error {
	if len(demands) < 2 {
		return ErrNoCustomers
	}
	if demands[0] != 0 {
		return fmt.Errorf("%w: depot demand %d", ErrBadDemand, demands[0])
	}
	for i, d := range demands {
		if d < 0 {
			return fmt.Errorf("%w: customer %d has demand %d", ErrBadDemand, i, d)
		}
	}
	if capacity < 1 {
		return ErrBadCapacity
	}
	if vehicles < 1 {
		return ErrBadVehicles
	}

	return nil
}

// symmetricMatrix validates a dense distance table and packs it.
//
// Contract:
//   - n×n with n == len(demands);
//   - finite, non-negative entries;
//   - zero diagonal and |a_ij − a_ji| ≤ symTol.
//
// Complexity: O(n²).
func symmetricMatrix(a [][]float64, n int) (*mat.SymDense, error) {
	if len(a) != n {
		return nil, ErrNonSquare
	}
	for _, row := range a {
		if len(row) != n {
			return nil, ErrNonSquare
		}
	}
	d := mat.NewSymDense(n, nil)
	var (
		i, j int
		x    float64
	)
	for i = 0; i < n; i++ {
		if math.Abs(a[i][i]) > symTol {
			return nil, fmt.Errorf("%w: non-zero diagonal at %d", ErrNegativeDistance, i)
		}
		for j = i + 1; j < n; j++ {
			x = a[i][j]
			if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
				return nil, fmt.Errorf("%w: (%d,%d)", ErrNegativeDistance, i, j)
			}
			if math.Abs(x-a[j][i]) > symTol {
				return nil, fmt.Errorf("%w: (%d,%d)", ErrAsymmetry, i, j)
			}
			d.SetSym(i, j, x)
		}
	}

	return d, nil
}
