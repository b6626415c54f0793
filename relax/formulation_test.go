package relax_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cvrpbb/relax"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		f    relax.Formulation
		want error
	}{
		{"empty", relax.Formulation{}, relax.ErrDimensionMismatch},
		{"short upper", relax.Formulation{Objective: []float64{1}, Lower: []float64{0}}, relax.ErrDimensionMismatch},
		{"crossed", relax.Formulation{Objective: []float64{1}, Lower: []float64{2}, Upper: []float64{1}}, relax.ErrBadBounds},
		{"infinite lower", relax.Formulation{Objective: []float64{1}, Lower: []float64{math.Inf(-1)}, Upper: []float64{1}}, relax.ErrBadBounds},
		{"nan upper", relax.Formulation{Objective: []float64{1}, Lower: []float64{0}, Upper: []float64{math.NaN()}}, relax.ErrBadBounds},
		{"row out of range", relax.Formulation{
			Objective: []float64{1}, Lower: []float64{0}, Upper: []float64{1},
			Rows: []relax.Row{{Index: []int{1}, Value: []float64{1}}},
		}, relax.ErrDimensionMismatch},
		{"row ragged", relax.Formulation{
			Objective: []float64{1}, Lower: []float64{0}, Upper: []float64{1},
			Rows: []relax.Row{{Index: []int{0}, Value: []float64{1, 2}}},
		}, relax.ErrDimensionMismatch},
		{"bad sense", relax.Formulation{
			Objective: []float64{1}, Lower: []float64{0}, Upper: []float64{1},
			Rows: []relax.Row{{Index: []int{0}, Value: []float64{1}, Sense: relax.Sense(9)}},
		}, relax.ErrDimensionMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.f.Validate(), tc.want)
		})
	}

	ok := relax.Formulation{Objective: []float64{1, 2}, Lower: []float64{0, 0}, Upper: []float64{1, math.Inf(1)}}
	require.NoError(t, ok.Validate())
}

func TestEffectiveBounds(t *testing.T) {
	f := unitBox(0, 0, 0)
	lo, hi, ok := relax.EffectiveBounds(f, []relax.BoundChange{
		{Var: 0, Side: relax.Upper, Value: 0},
		{Var: 2, Side: relax.Lower, Value: 1},
		{Var: 2, Side: relax.Lower, Value: 0}, // looser, ignored
	})
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0, 1}, lo)
	assert.Equal(t, []float64{0, 1, 1}, hi)
	assert.Equal(t, []float64{0, 0, 0}, f.Lower, "base bounds are never written")

	_, _, ok = relax.EffectiveBounds(f, []relax.BoundChange{
		{Var: 1, Side: relax.Lower, Value: 1},
		{Var: 1, Side: relax.Upper, Value: 0},
	})
	require.False(t, ok)
}

func TestRowViolation(t *testing.T) {
	x := []float64{1, 2}
	le := relax.Row{Index: []int{0, 1}, Value: []float64{1, 1}, Sense: relax.LessEqual, RHS: 2}
	ge := relax.Row{Index: []int{0, 1}, Value: []float64{1, 1}, Sense: relax.GreaterEqual, RHS: 4}
	eq := relax.Row{Index: []int{1}, Value: []float64{1}, Sense: relax.Equal, RHS: 2}

	assert.Equal(t, 3.0, le.Activity(x))
	assert.Equal(t, 1.0, le.Violation(x))
	assert.Equal(t, 1.0, ge.Violation(x))
	assert.Equal(t, 0.0, eq.Violation(x))
	assert.Equal(t, "<=", le.Sense.String())
	assert.Equal(t, "infeasible", relax.Infeasible.String())
}
