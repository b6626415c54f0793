package vrp_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/cvrpbb/bnb"
	"github.com/katalvlaran/cvrpbb/vrp"
)

// SolveSuite runs the exact solver end to end.
type SolveSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *SolveSuite) SetupTest() {
	s.ctx = context.Background()
}

// TestGoldenSquare: demands [4,4,4,4], Q = 10, two routes, cost 4 + 4√2.
func (s *SolveSuite) TestGoldenSquare() {
	inst, err := vrp.NewInstance("square", square(), 10, 2)
	require.NoError(s.T(), err)

	sol, err := vrp.Solve(s.ctx, inst, vrp.DefaultSolveOptions())
	require.NoError(s.T(), err)
	require.True(s.T(), sol.Optimal())
	require.InDelta(s.T(), 4+4*math.Sqrt2, sol.Cost, eps)
	require.Len(s.T(), sol.Routes, 2)
	for _, r := range sol.Routes {
		require.Len(s.T(), r, 2)
	}
	require.NoError(s.T(), vrp.ValidatePlan(inst, sol.Routes))
	require.InDelta(s.T(), sol.Cost, sol.Bound, eps)
}

// TestGoldenRectangle has a unique optimum: pair the customers that share x.
func (s *SolveSuite) TestGoldenRectangle() {
	nodes := []vrp.Node{
		{X: 0, Y: 0},
		{X: 2, Y: 1, Demand: 4},
		{X: 2, Y: -1, Demand: 4},
		{X: -2, Y: 1, Demand: 4},
		{X: -2, Y: -1, Demand: 4},
	}
	inst, err := vrp.NewInstance("rect", nodes, 10, 2)
	require.NoError(s.T(), err)

	for _, noSeed := range []bool{false, true} {
		opts := vrp.DefaultSolveOptions()
		opts.NoSeed = noSeed
		sol, err := vrp.Solve(s.ctx, inst, opts)
		require.NoError(s.T(), err)
		require.Equal(s.T(), bnb.ProvenOptimal, sol.Status)
		require.InDelta(s.T(), 4+4*math.Sqrt(5), sol.Cost, eps)
		if diff := cmp.Diff([][]int{{1, 2}, {3, 4}}, sol.Routes); diff != "" {
			s.T().Errorf("routes mismatch (-want +got):\n%s", diff)
		}
	}
}

// TestFleetBoundary: total demand equal to K·Q is feasible, one more unit is not.
func (s *SolveSuite) TestFleetBoundary() {
	inst, err := vrp.NewInstance("tight", square(5, 5, 5, 5), 10, 2)
	require.NoError(s.T(), err)
	sol, err := vrp.Solve(s.ctx, inst, vrp.DefaultSolveOptions())
	require.NoError(s.T(), err)
	require.True(s.T(), sol.Optimal())
	require.Len(s.T(), sol.Routes, 2)

	for k := 0; k < 4; k++ {
		d := []int{5, 5, 5, 5}
		d[k]++
		inst, err = vrp.NewInstance("over", square(d...), 10, 2)
		require.NoError(s.T(), err)
		sol, err = vrp.Solve(s.ctx, inst, vrp.DefaultSolveOptions())
		require.ErrorIs(s.T(), err, bnb.ErrInfeasibleInstance)
		require.Equal(s.T(), bnb.Infeasible, sol.Status)
		require.False(s.T(), sol.HasSolution)
	}
}

// TestOversizedCustomer: one demand above Q makes the instance infeasible
// even with a large fleet.
func (s *SolveSuite) TestOversizedCustomer() {
	inst, err := vrp.NewInstance("big", square(4, 11, 4, 4), 10, 4)
	require.NoError(s.T(), err)
	_, err = vrp.Solve(s.ctx, inst, vrp.DefaultSolveOptions())
	require.ErrorIs(s.T(), err, bnb.ErrInfeasibleInstance)
}

// TestSingleCustomer: one out-and-back route.
func (s *SolveSuite) TestSingleCustomer() {
	inst, err := vrp.NewInstance("one", []vrp.Node{{}, {X: 3, Y: 4, Demand: 1}}, 5, 1)
	require.NoError(s.T(), err)
	sol, err := vrp.Solve(s.ctx, inst, vrp.DefaultSolveOptions())
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 10, sol.Cost, eps)
	require.Equal(s.T(), [][]int{{1}}, sol.Routes)
}

// TestMatrixInstance solves a line where one route is best.
func (s *SolveSuite) TestMatrixInstance() {
	dist := [][]float64{
		{0, 1, 2, 3},
		{1, 0, 1, 2},
		{2, 1, 0, 1},
		{3, 2, 1, 0},
	}
	inst, err := vrp.NewInstanceFromMatrix("line", dist, []int{0, 1, 1, 1}, 3, 3)
	require.NoError(s.T(), err)
	sol, err := vrp.Solve(s.ctx, inst, vrp.DefaultSolveOptions())
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 6, sol.Cost, eps)
	require.Equal(s.T(), [][]int{{1, 2, 3}}, sol.Routes)
}

// TestAgainstBruteForce compares random small instances with enumeration.
func (s *SolveSuite) TestAgainstBruteForce() {
	r := rand.New(rand.NewSource(11))
	for trial := 0; trial < 15; trial++ {
		n := 3 + trial%3
		q := 6 + r.Intn(5)
		k := 1 + r.Intn(n)
		inst, err := vrp.NewInstance("rand", randomNodes(r, n, 5), q, k)
		require.NoError(s.T(), err)
		want := bruteForce(inst)

		opts := vrp.DefaultSolveOptions()
		if trial%2 == 1 {
			opts.Search.Strategy = bnb.DepthFirst
			opts.Search.Workers = 3
			opts.NoSeed = true
		}
		sol, err := vrp.Solve(s.ctx, inst, opts)
		if math.IsInf(want, 1) {
			require.ErrorIs(s.T(), err, bnb.ErrInfeasibleInstance, "trial %d", trial)
			continue
		}
		require.NoError(s.T(), err, "trial %d", trial)
		require.True(s.T(), sol.Optimal())
		require.InDelta(s.T(), want, sol.Cost, eps, "trial %d", trial)
		require.LessOrEqual(s.T(), sol.Bound, sol.Cost+eps)
		require.NoError(s.T(), vrp.ValidatePlan(inst, sol.Routes))
	}
}

// TestMidSizeInstances runs complete solves with seven and eight customers
// and tight capacity, so that static fixing and branching both pin edges.
func (s *SolveSuite) TestMidSizeInstances() {
	r := rand.New(rand.NewSource(19))
	for trial := 0; trial < 4; trial++ {
		n := 7 + trial%2
		inst, err := vrp.NewInstance("mid", randomNodes(r, n, 7), 10, n)
		require.NoError(s.T(), err)

		opts := vrp.DefaultSolveOptions()
		opts.Search.Workers = 2
		sol, err := vrp.Solve(s.ctx, inst, opts)
		require.NoError(s.T(), err, "trial %d", trial)
		require.True(s.T(), sol.Optimal(), "trial %d", trial)
		require.NoError(s.T(), vrp.ValidatePlan(inst, sol.Routes))
		require.InDelta(s.T(), sol.Cost, sol.Bound, eps)
		require.Equal(s.T(), bnb.StopExhausted, sol.Stop)
	}
}

// TestNodeLimit returns the seed as a best-effort answer.
func (s *SolveSuite) TestNodeLimit() {
	r := rand.New(rand.NewSource(3))
	inst, err := vrp.NewInstance("budget", randomNodes(r, 6, 4), 8, 6)
	require.NoError(s.T(), err)
	opts := vrp.DefaultSolveOptions()
	opts.Search.NodeLimit = 1
	sol, err := vrp.Solve(s.ctx, inst, opts)
	require.NoError(s.T(), err)
	require.True(s.T(), sol.HasSolution)
	require.NoError(s.T(), vrp.ValidatePlan(inst, sol.Routes))
	require.LessOrEqual(s.T(), sol.Bound, sol.Cost+eps)
	if sol.Status == bnb.BudgetExceeded {
		require.False(s.T(), sol.Optimal())
		require.Equal(s.T(), bnb.StopNodeLimit, sol.Stop)
	}
}

func TestSolveSuite(t *testing.T) {
	suite.Run(t, new(SolveSuite))
}
