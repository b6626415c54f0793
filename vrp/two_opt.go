package vrp

// twoOptEps is the minimum gain for an accepted move.
const twoOptEps = 1e-12

// twoOpt runs deterministic first-improvement 2-opt on the closed tour
// depot → seq... → depot and returns the improved sequence (a new slice).
//
// For a = T[i−1], b = T[i], c = T[k], d = T[k+1] the move reverses T[i..k]:
//
//	Δ = w(a,c) + w(b,d) − w(a,b) − w(c,d)
//
// and is applied when Δ < −twoOptEps. The scan restarts after every move.
//
// Complexity: O(iter · m²) for m = len(seq).
func (in *Instance) twoOpt(seq []int) []int {
	m := len(seq)
	t := make([]int, m+2) // t[0] = t[m+1] = depot
	copy(t[1:], seq)
	if m < 3 {
		return append([]int(nil), seq...)
	}

	var (
		i, k       int
		a, b, c, d int
		delta      float64
	)
	for improved := true; improved; {
		improved = false
		for i = 1; i <= m-1 && !improved; i++ {
			for k = i + 1; k <= m; k++ {
				a, b, c, d = t[i-1], t[i], t[k], t[k+1]
				delta = in.Distance(a, c) + in.Distance(b, d) - in.Distance(a, b) - in.Distance(c, d)
				if delta < -twoOptEps {
					reverseInPlace(t, i, k)
					improved = true
					break
				}
			}
		}
	}

	return append([]int(nil), t[1:m+1]...)
}

// reverseInPlace reverses t[i..k].
func reverseInPlace(t []int, i, k int) {
	for i < k {
		t[i], t[k] = t[k], t[i]
		i++
		k--
	}
}
