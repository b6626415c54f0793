package vrp

// flowEps treats residual capacities at or below it as saturated.
const flowEps = 1e-9

// maxFlow computes a maximum s→t flow with Edmonds–Karp (BFS shortest
// augmenting paths) on a dense capacity matrix, which it does not modify.
//
// It returns the flow value and the source side of a minimum cut: the
// vertices still reachable from s in the final residual graph.
//
// Complexity: O(V · E²) augmentations bound, O(V²) per BFS on the dense
// matrix. Memory: O(V²).
func maxFlow(capacity [][]float64, s, t int) (float64, []bool) {
	n := len(capacity)
	residual := make([][]float64, n)
	for i := range capacity {
		residual[i] = append([]float64(nil), capacity[i]...)
	}
	parent := make([]int, n)
	var total float64
	for {
		reached := bfsResidual(residual, s, t, parent)
		if !reached[t] {
			return total, reached
		}

		// Bottleneck along the path found.
		bottle := residual[parent[t]][t]
		for v := t; v != s; v = parent[v] {
			if r := residual[parent[v]][v]; r < bottle {
				bottle = r
			}
		}
		if bottle <= flowEps {
			return total, reached
		}
		for v := t; v != s; v = parent[v] {
			u := parent[v]
			residual[u][v] -= bottle
			residual[v][u] += bottle
		}
		total += bottle
	}
}

// bfsResidual marks the vertices reachable from s through residual
// capacity above flowEps and records BFS parents.
func bfsResidual(residual [][]float64, s, t int, parent []int) []bool {
	n := len(residual)
	seen := make([]bool, n)
	seen[s] = true
	queue := []int{s}
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for v := 0; v < n; v++ {
			if seen[v] || residual[u][v] <= flowEps {
				continue
			}
			seen[v] = true
			parent[v] = u
			if v == t {
				return seen
			}
			queue = append(queue, v)
		}
	}

	return seen
}
