package bnb

import "math"

// isInteger reports whether variable j is integer-constrained.
func isInteger(mask []bool, j int) bool { return mask == nil || mask[j] }

// fractional reports whether v is farther than IntegralityTol from an integer.
func fractional(v float64) bool {
	return math.Abs(v-math.Round(v)) > IntegralityTol
}

// integral reports whether every integer variable of x is integral.
func integral(x []float64, mask []bool) bool {
	for j, v := range x {
		if isInteger(mask, j) && fractional(v) {
			return false
		}
	}

	return true
}

// roundIntegers returns a copy of x with integer variables rounded.
func roundIntegers(x []float64, mask []bool) []float64 {
	out := append([]float64(nil), x...)
	for j := range out {
		if !isInteger(mask, j) {
			continue
		}
		out[j] = math.Round(out[j])
		if out[j] == 0 {
			out[j] = 0 // drop the sign of -0
		}
	}

	return out
}

// chooseBranch returns the variable to branch on, or -1 if x is integral.
//
//   - MostFractional: smallest |frac(v) − 0.5|, ties to the lowest index.
//   - FirstFractional: lowest fractional index.
func chooseBranch(rule BranchRule, x []float64, mask []bool) int {
	best, bestScore := -1, math.Inf(1)
	var score float64
	for j, v := range x {
		if !isInteger(mask, j) || !fractional(v) {
			continue
		}
		if rule == FirstFractional {
			return j
		}
		score = math.Abs(v - math.Floor(v) - 0.5)
		if score < bestScore {
			best, bestScore = j, score
		}
	}

	return best
}
