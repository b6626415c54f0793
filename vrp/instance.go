// Package vrp builds and solves Capacitated Vehicle Routing Problem instances
// with the exact branch-and-bound engine of package bnb.
//
// Model (two-index, undirected): one variable x_ij per node pair i < j, where
// node 0 is the depot and 1..n are customers.
//
//	minimize   Σ c_ij x_ij
//	subject to x(δ(i)) = 2                       every customer i
//	           x(δ(0)) ≤ 2K                      fleet size
//	           x(δ(S)) ≥ 2·max(1, ⌈d(S)/Q⌉)       every customer set S (lazy)
//	           x_0j ∈ {0,1,2}, x_ij ∈ {0,1}
//
// x_0j = 2 is a route serving j alone. Capacity inequalities for S = V and for
// single overloaded customers are part of the base model; the rest are added
// by the separator, which also rejects integral points with subtours or
// overloaded routes.
//
// Errors (sentinel):
//   - ErrNoCustomers, ErrBadDemand, ErrBadCapacity, ErrBadVehicles: instance shape.
//   - ErrNonSquare, ErrAsymmetry, ErrNegativeDistance: distance matrix.
//   - ErrTooManyVehicles, ErrCapacityExceeded, ErrInvalidTour: route plans.
//   - ErrBadFormat: instance files.
package vrp

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoCustomers      = errors.New("vrp: instance has no customers")
	ErrBadDemand        = errors.New("vrp: invalid demand")
	ErrBadCapacity      = errors.New("vrp: vehicle capacity must be positive")
	ErrBadVehicles      = errors.New("vrp: vehicle count must be positive")
	ErrNonSquare        = errors.New("vrp: distance matrix is not square")
	ErrAsymmetry        = errors.New("vrp: distance matrix is not symmetric")
	ErrNegativeDistance = errors.New("vrp: negative or non-finite distance")

	ErrTooManyVehicles  = errors.New("vrp: plan uses more routes than vehicles")
	ErrCapacityExceeded = errors.New("vrp: route exceeds vehicle capacity")
	ErrInvalidTour      = errors.New("vrp: plan does not visit every customer exactly once")

	ErrBadFormat = errors.New("vrp: malformed instance file")
)

// Node is a depot or customer location with its demand.
type Node struct {
	X, Y   float64
	Demand int
}

// Instance is an immutable CVRP instance. Node 0 is the depot.
type Instance struct {
	Name     string
	Capacity int
	Vehicles int

	demand []int
	coords []Node // nil when built from a matrix
	dist   *mat.SymDense
}

// NewInstance builds an instance with Euclidean distances. nodes[0] is the
// depot and must have zero demand.
func NewInstance(name string, nodes []Node, capacity, vehicles int) (*Instance, error) {
	demand := make([]int, len(nodes))
	for i, nd := range nodes {
		if math.IsNaN(nd.X) || math.IsNaN(nd.Y) || math.IsInf(nd.X, 0) || math.IsInf(nd.Y, 0) {
			return nil, ErrNegativeDistance
		}
		demand[i] = nd.Demand
	}
	if err := validateFleet(demand, capacity, vehicles); err != nil {
		return nil, err
	}
	n := len(nodes)
	d := mat.NewSymDense(n, nil)
	var i, j int
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			d.SetSym(i, j, math.Hypot(nodes[i].X-nodes[j].X, nodes[i].Y-nodes[j].Y))
		}
	}

	return &Instance{
		Name:     name,
		Capacity: capacity,
		Vehicles: vehicles,
		demand:   demand,
		coords:   append([]Node(nil), nodes...),
		dist:     d,
	}, nil
}

// NewInstanceFromMatrix builds an instance from explicit distances.
// demands[0] belongs to the depot and must be zero.
func NewInstanceFromMatrix(name string, dist [][]float64, demands []int, capacity, vehicles int) (*Instance, error) {
	if err := validateFleet(demands, capacity, vehicles); err != nil {
		return nil, err
	}
	d, err := symmetricMatrix(dist, len(demands))
	if err != nil {
		return nil, err
	}

	return &Instance{
		Name:     name,
		Capacity: capacity,
		Vehicles: vehicles,
		demand:   append([]int(nil), demands...),
		dist:     d,
	}, nil
}

// NumCustomers returns n.
func (in *Instance) NumCustomers() int { return len(in.demand) - 1 }

// NumNodes returns n + 1.
func (in *Instance) NumNodes() int { return len(in.demand) }

// Distance returns c_ij.
func (in *Instance) Distance(i, j int) float64 { return in.dist.At(i, j) }

// Demand returns the demand of node i (0 for the depot).
func (in *Instance) Demand(i int) int { return in.demand[i] }

// Node returns the coordinates of node i; ok is false for matrix instances.
func (in *Instance) Node(i int) (Node, bool) {
	if in.coords == nil {
		return Node{}, false
	}

	return in.coords[i], true
}

// TotalDemand returns d(V).
func (in *Instance) TotalDemand() int {
	var sum int
	for _, d := range in.demand {
		sum += d
	}

	return sum
}

// MinVehicles returns ⌈d(V)/Q⌉, the fewest routes any feasible plan needs.
func (in *Instance) MinVehicles() int { return ceilDiv(in.TotalDemand(), in.Capacity) }

func ceilDiv(a, b int) int { return (a + b - 1) / b }
