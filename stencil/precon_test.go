// SPDX-License-Identifier: MIT

package stencil_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/meshblas/blas"
	"github.com/katalvlaran/meshblas/procgrid"
	"github.com/katalvlaran/meshblas/stencil"
)

func TestNewPrecon_Validation(t *testing.T) {
	_, err := stencil.NewPrecon([]float64{1, 2, 3}, 2)
	require.ErrorIs(t, err, stencil.ErrWeightStride)

	_, err = stencil.NewPrecon(nil, 0)
	require.ErrorIs(t, err, stencil.ErrWeightStride)

	p, err := stencil.NewPrecon([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	require.Equal(t, 2, p.N())
	require.Equal(t, 3.0, p.At(1, 0))
}

func TestIdentity(t *testing.T) {
	p := stencil.Identity(3)
	require.Equal(t, 3, p.N())
	for k := 0; k < 3; k++ {
		for l := 0; l < 3; l++ {
			require.Equal(t, 1.0, p.At(k, l))
		}
	}
}

func TestPrecon_Apply(t *testing.T) {
	cart := singleCart(t, [2]bool{true, true})
	p, err := stencil.NewPrecon([]float64{2, 3, 4, 5}, 2)
	require.NoError(t, err)

	x, err := stencil.NewVector(cart, 1, 3, 3, 2)
	require.NoError(t, err)
	y, err := stencil.NewVector(cart, 1, 3, 3, 2)
	require.NoError(t, err)
	fillAll(x, func(s, i, k, j, l int) float64 { return 10 })

	require.NoError(t, p.Apply(x, y))

	require.Equal(t, 20.0, y.Data()[y.Index(0, 1, 0, 1, 0)])
	require.Equal(t, 30.0, y.Data()[y.Index(0, 1, 0, 1, 1)])
	require.Equal(t, 40.0, y.Data()[y.Index(0, 1, 1, 1, 0)])
	require.Equal(t, 50.0, y.Data()[y.Index(0, 1, 1, 1, 1)])
	// ghost layers stay untouched
	require.Zero(t, y.Data()[y.Index(0, 0, 0, 0, 0)])
}

func TestPrecon_ApplyScaled(t *testing.T) {
	cart := singleCart(t, [2]bool{true, true})
	p, err := stencil.NewPrecon([]float64{2}, 1)
	require.NoError(t, err)

	x, err := stencil.NewVector(cart, 1, 3, 3, 1)
	require.NoError(t, err)
	y, err := stencil.NewVector(cart, 1, 3, 3, 1)
	require.NoError(t, err)
	fillOwned(x, func(s, i, k, j, l int) float64 { return 4 })
	fillOwned(y, func(s, i, k, j, l int) float64 { return 100 })

	// y = 3·w·x + 0.5·y = 3·2·4 + 50 = 74
	require.NoError(t, p.ApplyScaled(3, x, 0.5, y))
	require.Equal(t, 74.0, y.Data()[y.Index(0, 1, 0, 1, 0)])

	// aliased in-place scaling: x = 1·w·x
	require.NoError(t, p.ApplyScaled(1, x, 0, x))
	require.Equal(t, 8.0, x.Data()[x.Index(0, 1, 0, 1, 0)])
}

func TestPrecon_Errors(t *testing.T) {
	cart := singleCart(t, [2]bool{true, true})
	p, err := stencil.NewPrecon([]float64{1, 1, 1, 1}, 2)
	require.NoError(t, err)

	v1, err := stencil.NewVector(cart, 1, 3, 3, 1)
	require.NoError(t, err)
	v2, err := stencil.NewVector(cart, 1, 3, 3, 2)
	require.NoError(t, err)
	v3, err := stencil.NewVector(cart, 1, 3, 4, 2)
	require.NoError(t, err)

	require.ErrorIs(t, p.Apply(nil, v2), blas.ErrNilContainer)
	require.ErrorIs(t, p.Apply(v1, v1), stencil.ErrBlockSize)
	require.ErrorIs(t, p.Apply(v2, v3), stencil.ErrShapeMismatch)

	_, err = stencil.WeightedDot(v1, p, v1)
	require.ErrorIs(t, err, stencil.ErrBlockSize)
	_, err = stencil.WeightedDot(v2, p, v3)
	require.ErrorIs(t, err, stencil.ErrShapeMismatch)
	_, err = stencil.WeightedDot(nil, p, v2)
	require.ErrorIs(t, err, blas.ErrNilContainer)
}

func TestWeightedDot_UnitWeightsMatchDot(t *testing.T) {
	cart := singleCart(t, [2]bool{true, true})
	x, err := stencil.NewVector(cart, 1, 4, 4, 2)
	require.NoError(t, err)
	y, err := stencil.NewVector(cart, 1, 4, 4, 2)
	require.NoError(t, err)
	fillOwned(x, func(s, i, k, j, l int) float64 {
		return float64(x.Index(s, i, k, j, l)) / 7
	})
	fillOwned(y, func(s, i, k, j, l int) float64 {
		return float64(y.Index(s, i, k, j, l)) / 13
	})

	want, err := blas.Dot(x, y)
	require.NoError(t, err)
	got, err := stencil.WeightedDot(x, stencil.Identity(2), y)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestWeightedDot_AcrossRanks(t *testing.T) {
	weights := []float64{0.25, 0.5, 0.5, 1}

	// single rank owning a 2×2 cell patch
	cart := singleCart(t, [2]bool{true, true})
	p, err := stencil.NewPrecon(weights, 2)
	require.NoError(t, err)
	whole, err := stencil.NewVector(cart, 1, 4, 4, 2)
	require.NoError(t, err)
	fillOwned(whole, func(s, i, k, j, l int) float64 {
		return float64((i-1)*2+j) + 0.5*float64(2*k+l)
	})
	want, err := stencil.WeightedDot(whole, p, whole)
	require.NoError(t, err)

	// the same patch split over a 2×2 grid, one cell per rank
	g, err := procgrid.NewGroup(4)
	require.NoError(t, err)
	got := make([]float64, 4)
	err = g.Run(func(comm procgrid.Communicator) error {
		cart, err := procgrid.NewCart(comm, [2]int{2, 2}, [2]bool{true, true})
		if err != nil {
			return err
		}
		p, err := stencil.NewPrecon(weights, 2)
		if err != nil {
			return err
		}
		v, err := stencil.NewVector(cart, 1, 3, 3, 2)
		if err != nil {
			return err
		}
		cx, cy := cart.Coords()[0], cart.Coords()[1]
		fillOwned(v, func(s, i, k, j, l int) float64 {
			return float64(cy*2+cx+1) + 0.5*float64(2*k+l)
		})
		d, err := stencil.WeightedDot(v, p, v)
		if err != nil {
			return err
		}
		got[comm.Rank()] = d
		return nil
	})
	require.NoError(t, err)

	for rank, d := range got {
		require.Equal(t, want, d, "rank %d", rank)
	}
}
