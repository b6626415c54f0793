package bnb

import (
	"math"
	"sync"
	"sync/atomic"
)

// Incumbent is the best integral solution found so far, shared by all
// workers. Updates are a compare-and-swap on strict improvement; reads of the
// objective are lock-free and may lag behind, never ahead.
type Incumbent struct {
	mu      sync.Mutex
	obj     atomic.Uint64 // math.Float64bits of the objective
	x       []float64
	has     bool
	history []float64
}

// NewIncumbent returns an empty store with objective +Inf.
func NewIncumbent() *Incumbent {
	in := &Incumbent{}
	in.obj.Store(math.Float64bits(math.Inf(1)))

	return in
}

// TryImprove installs (objective, x) if objective < current − ImprovementTol.
// x is copied. It reports whether the candidate was accepted.
func (in *Incumbent) TryImprove(objective float64, x []float64) bool {
	if math.IsNaN(objective) || math.IsInf(objective, 0) {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	cur := math.Float64frombits(in.obj.Load())
	if in.has && objective >= cur-ImprovementTol {
		return false
	}
	in.x = append([]float64(nil), x...)
	in.has = true
	in.history = append(in.history, objective)
	in.obj.Store(math.Float64bits(objective))

	return true
}

// Objective returns the current objective, +Inf when empty.
func (in *Incumbent) Objective() float64 {
	return math.Float64frombits(in.obj.Load())
}

// HasSolution reports whether any candidate was accepted.
func (in *Incumbent) HasSolution() bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.has
}

// CurrentBest returns a consistent snapshot. x is a copy.
func (in *Incumbent) CurrentBest() (objective float64, x []float64, ok bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.has {
		return math.Inf(1), nil, false
	}

	return math.Float64frombits(in.obj.Load()), append([]float64(nil), in.x...), true
}

// History returns every accepted objective in acceptance order.
func (in *Incumbent) History() []float64 {
	in.mu.Lock()
	defer in.mu.Unlock()

	return append([]float64(nil), in.history...)
}
