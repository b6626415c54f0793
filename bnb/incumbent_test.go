package bnb_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cvrpbb/bnb"
)

func TestIncumbent_Empty(t *testing.T) {
	in := bnb.NewIncumbent()
	assert.False(t, in.HasSolution())
	assert.True(t, math.IsInf(in.Objective(), 1))
	obj, x, ok := in.CurrentBest()
	assert.False(t, ok)
	assert.Nil(t, x)
	assert.True(t, math.IsInf(obj, 1))
}

func TestIncumbent_StrictImprovement(t *testing.T) {
	in := bnb.NewIncumbent()
	x := []float64{1, 0}
	require.True(t, in.TryImprove(10, x))
	x[0] = 7 // stored copy must not change

	require.False(t, in.TryImprove(10, []float64{0, 1}), "equal objective is not an improvement")
	require.False(t, in.TryImprove(10-bnb.ImprovementTol/2, nil), "within tolerance")
	require.False(t, in.TryImprove(11, nil))
	require.False(t, in.TryImprove(math.NaN(), nil))
	require.True(t, in.TryImprove(9, []float64{0, 0}))

	obj, got, ok := in.CurrentBest()
	require.True(t, ok)
	assert.Equal(t, 9.0, obj)
	assert.Equal(t, []float64{0, 0}, got)
	assert.Equal(t, []float64{10, 9}, in.History())

	got[0] = 42
	_, again, _ := in.CurrentBest()
	assert.Equal(t, 0.0, again[0], "snapshot is a copy")
}

func TestIncumbent_Concurrent(t *testing.T) {
	in := bnb.NewIncumbent()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for k := 0; k < 200; k++ {
				v := float64((k*7+w*13)%500) + 1
				in.TryImprove(v, []float64{v})
			}
		}(w)
	}
	wg.Wait()

	obj, x, ok := in.CurrentBest()
	require.True(t, ok)
	assert.Equal(t, 1.0, obj)
	assert.Equal(t, []float64{1}, x)
	h := in.History()
	for k := 1; k < len(h); k++ {
		require.Less(t, h[k], h[k-1])
	}
}
