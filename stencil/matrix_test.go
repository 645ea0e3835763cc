// SPDX-License-Identifier: MIT

package stencil_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/meshblas/blas"
	"github.com/katalvlaran/meshblas/procgrid"
	"github.com/katalvlaran/meshblas/stencil"
)

func identityBlock(n int) []float64 {
	b := make([]float64, n*n)
	for i := 0; i < n; i++ {
		b[i*n+i] = 1
	}
	return b
}

func TestNewMatrix_Validation(t *testing.T) {
	cart := singleCart(t, [2]bool{true, true})

	_, err := stencil.NewMatrix(nil, 2)
	require.ErrorIs(t, err, stencil.ErrNilCart)

	_, err = stencil.NewMatrix(cart, 0)
	require.ErrorIs(t, err, stencil.ErrBlockSize)

	p, err := stencil.NewPrecon([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	_, err = stencil.NewMatrix(cart, 3, stencil.WithPrecon(p))
	require.ErrorIs(t, err, stencil.ErrBlockSize)

	m, err := stencil.NewMatrix(cart, 2,
		stencil.WithBCX(stencil.Dirichlet), stencil.WithBCY(stencil.Neumann))
	require.NoError(t, err)
	require.Equal(t, stencil.Dirichlet, m.BCX())
	require.Equal(t, stencil.Neumann, m.BCY())
}

func TestMatrix_AddStencil_Validation(t *testing.T) {
	cart := singleCart(t, [2]bool{true, true})
	m, err := stencil.NewMatrix(cart, 2)
	require.NoError(t, err)

	require.ErrorIs(t, m.AddStencilX([]float64{1}, 0), stencil.ErrBlockSize)
	require.ErrorIs(t, m.AddStencilX(identityBlock(2), 2), stencil.ErrOffsetRange)
	require.ErrorIs(t, m.AddStencilY(identityBlock(2), -2), stencil.ErrOffsetRange)
	require.NoError(t, m.AddStencilX(identityBlock(2), -1))

	require.ErrorIs(t,
		m.AddBoundaryTermX(stencil.BoundaryTerm{Row: 0, Col: 1, Block: identityBlock(2)}),
		stencil.ErrCellRange)
	require.ErrorIs(t,
		m.AddBoundaryTermY(stencil.BoundaryTerm{Row: 1, Col: 1, Block: []float64{1}}),
		stencil.ErrBlockSize)
}

func TestSymv_Validation(t *testing.T) {
	cartA := singleCart(t, [2]bool{true, true})
	cartB := singleCart(t, [2]bool{true, true})
	m, err := stencil.NewMatrix(cartA, 1)
	require.NoError(t, err)

	x, err := stencil.NewVector(cartA, 1, 3, 3, 1)
	require.NoError(t, err)
	y, err := stencil.NewVector(cartA, 1, 3, 3, 1)
	require.NoError(t, err)
	other, err := stencil.NewVector(cartB, 1, 3, 3, 1)
	require.NoError(t, err)
	wide, err := stencil.NewVector(cartA, 1, 3, 4, 1)
	require.NoError(t, err)
	big, err := stencil.NewVector(cartA, 1, 3, 3, 2)
	require.NoError(t, err)

	require.ErrorIs(t, m.Symv(nil, y), blas.ErrNilContainer)
	require.ErrorIs(t, m.Symv(x, x), stencil.ErrAliased)
	require.ErrorIs(t, m.Symv(big, big.Clone()), stencil.ErrBlockSize)
	require.ErrorIs(t, m.Symv(x, wide), stencil.ErrShapeMismatch)
	require.ErrorIs(t, m.Symv(other, other.Clone()), stencil.ErrCommMismatch)

	// a term targeting a cell the vector does not own
	require.NoError(t, m.AddBoundaryTermX(stencil.BoundaryTerm{Row: 5, Col: 1, Block: []float64{1}}))
	require.ErrorIs(t, m.Symv(x, y), stencil.ErrCellRange)
}

func TestSymv_ZeroStencil(t *testing.T) {
	cart := singleCart(t, [2]bool{true, true})
	m, err := stencil.NewMatrix(cart, 2)
	require.NoError(t, err)

	x, err := stencil.NewVector(cart, 1, 4, 4, 2)
	require.NoError(t, err)
	y, err := stencil.NewVector(cart, 1, 4, 4, 2)
	require.NoError(t, err)
	fillAll(x, func(s, i, k, j, l int) float64 { return 3 })
	fillAll(y, func(s, i, k, j, l int) float64 { return 9 }) // stale content

	require.NoError(t, m.Symv(x, y))
	for _, got := range y.Data() {
		require.Zero(t, got)
	}
}

func TestSymv_IdentityStencil(t *testing.T) {
	cart := singleCart(t, [2]bool{true, true})
	m, err := stencil.NewMatrix(cart, 2)
	require.NoError(t, err)
	require.NoError(t, m.AddStencilX(identityBlock(2), 0))

	x, err := stencil.NewVector(cart, 1, 4, 4, 2)
	require.NoError(t, err)
	y, err := stencil.NewVector(cart, 1, 4, 4, 2)
	require.NoError(t, err)
	fillOwned(x, func(s, i, k, j, l int) float64 {
		return float64(x.Index(s, i, k, j, l))
	})

	require.NoError(t, m.Symv(x, y))

	for i := 1; i < 3; i++ {
		for k := 0; k < 2; k++ {
			for j := 1; j < 3; j++ {
				for l := 0; l < 2; l++ {
					idx := y.Index(0, i, k, j, l)
					require.Equal(t, x.Data()[idx], y.Data()[idx])
				}
			}
		}
	}
	// the output ghost ring stays clear
	require.Zero(t, y.Data()[y.Index(0, 0, 0, 0, 0)])
	require.Zero(t, y.Data()[y.Index(0, 3, 1, 3, 1)])
}

// TestSymv_ShiftAcrossRanks applies a pure x-shift on a periodic
// two-rank axis: each owned cell must pick up its global right neighbor,
// including across the rank boundary and the periodic wrap.
func TestSymv_ShiftAcrossRanks(t *testing.T) {
	g, err := procgrid.NewGroup(2)
	require.NoError(t, err)

	got := make([][]float64, 2)
	err = g.Run(func(comm procgrid.Communicator) error {
		cart, err := procgrid.NewCart(comm, [2]int{2, 1}, [2]bool{true, true})
		if err != nil {
			return err
		}
		m, err := stencil.NewMatrix(cart, 1)
		if err != nil {
			return err
		}
		if err := m.AddStencilX([]float64{1}, 1); err != nil {
			return err
		}
		x, err := stencil.NewVector(cart, 1, 3, 4, 1)
		if err != nil {
			return err
		}
		y, err := stencil.NewVector(cart, 1, 3, 4, 1)
		if err != nil {
			return err
		}
		// global cell index 0..3 along x, two owned cells per rank
		base := 2 * cart.Coords()[0]
		fillOwned(x, func(s, i, k, j, l int) float64 {
			return float64(base + j - 1)
		})
		if err := m.Symv(x, y); err != nil {
			return err
		}
		got[comm.Rank()] = []float64{
			y.Data()[y.Index(0, 1, 0, 1, 0)],
			y.Data()[y.Index(0, 1, 0, 2, 0)],
		}
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, []float64{1, 2}, got[0])
	require.Equal(t, []float64{3, 0}, got[1]) // global cell 3 wraps to 0
}

func TestUpdateBoundaryCol_Reflection(t *testing.T) {
	tests := []struct {
		name      string
		bc        stencil.BC
		low, high float64
	}{
		{"dirichlet", stencil.Dirichlet, -1, -1},
		{"neumann", stencil.Neumann, 1, 1},
		{"dirichlet-neumann", stencil.DirichletNeumann, -1, 1},
		{"neumann-dirichlet", stencil.NeumannDirichlet, 1, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cart := singleCart(t, [2]bool{false, true})
			m, err := stencil.NewMatrix(cart, 2, stencil.WithBCX(tc.bc))
			require.NoError(t, err)

			v, err := stencil.NewVector(cart, 1, 3, 4, 2)
			require.NoError(t, err)
			fillOwned(v, func(s, i, k, j, l int) float64 {
				return float64(10*j + 2*k + l + 1)
			})
			require.NoError(t, m.UpdateBoundaryCol(v))

			data := v.Data()
			for i := 0; i < 3; i++ {
				for k := 0; k < 2; k++ {
					for l := 0; l < 2; l++ {
						// ghost node order is reversed against the edge cell
						require.Equal(t,
							tc.low*data[v.Index(0, i, k, 1, 1-l)],
							data[v.Index(0, i, k, 0, l)])
						require.Equal(t,
							tc.high*data[v.Index(0, i, k, 2, 1-l)],
							data[v.Index(0, i, k, 3, l)])
					}
				}
			}
		})
	}
}

func TestUpdateBoundaryRow_Reflection(t *testing.T) {
	cart := singleCart(t, [2]bool{true, false})
	m, err := stencil.NewMatrix(cart, 2, stencil.WithBCY(stencil.Dirichlet))
	require.NoError(t, err)

	v, err := stencil.NewVector(cart, 1, 4, 3, 2)
	require.NoError(t, err)
	fillOwned(v, func(s, i, k, j, l int) float64 {
		return float64(100*i + 10*k + j)
	})
	require.NoError(t, m.UpdateBoundaryRow(v))

	data := v.Data()
	for k := 0; k < 2; k++ {
		for j := 0; j < 3; j++ {
			for l := 0; l < 2; l++ {
				require.Equal(t,
					-data[v.Index(0, 1, 1-k, j, l)],
					data[v.Index(0, 0, k, j, l)])
				require.Equal(t,
					-data[v.Index(0, 2, 1-k, j, l)],
					data[v.Index(0, 3, k, j, l)])
			}
		}
	}
}

func TestUpdateBoundaryCol_PeriodicUnchanged(t *testing.T) {
	cart := singleCart(t, [2]bool{true, true})
	m, err := stencil.NewMatrix(cart, 1)
	require.NoError(t, err)

	v, err := stencil.NewVector(cart, 1, 3, 4, 1)
	require.NoError(t, err)
	fillOwned(v, func(s, i, k, j, l int) float64 { return float64(j) })
	require.NoError(t, m.UpdateBoundaryCol(v))

	// plain periodic wrap, no sign or node reversal
	require.Equal(t, 2.0, v.Data()[v.Index(0, 1, 0, 0, 0)])
	require.Equal(t, 1.0, v.Data()[v.Index(0, 1, 0, 3, 0)])
}

func TestSymv_BoundaryTerms(t *testing.T) {
	cart := singleCart(t, [2]bool{false, true})
	m, err := stencil.NewMatrix(cart, 1, stencil.WithBCX(stencil.Neumann))
	require.NoError(t, err)
	// interior stencil writes 5·x everywhere, the boundary term then
	// overwrites column 1 with 2·x from column 2
	require.NoError(t, m.AddStencilX([]float64{5}, 0))
	require.NoError(t, m.AddBoundaryTermX(stencil.BoundaryTerm{
		Row: 1, Col: 2, Block: []float64{2},
	}))

	x, err := stencil.NewVector(cart, 1, 3, 5, 1)
	require.NoError(t, err)
	y, err := stencil.NewVector(cart, 1, 3, 5, 1)
	require.NoError(t, err)
	fillOwned(x, func(s, i, k, j, l int) float64 { return float64(j) })

	require.NoError(t, m.Symv(x, y))

	require.Equal(t, 4.0, y.Data()[y.Index(0, 1, 0, 1, 0)])  // 2·x[2]
	require.Equal(t, 10.0, y.Data()[y.Index(0, 1, 0, 2, 0)]) // 5·x[2]
	require.Equal(t, 15.0, y.Data()[y.Index(0, 1, 0, 3, 0)]) // 5·x[3]
}

func TestSymv_RowBoundaryTerms(t *testing.T) {
	cart := singleCart(t, [2]bool{true, false})
	m, err := stencil.NewMatrix(cart, 1, stencil.WithBCY(stencil.Neumann))
	require.NoError(t, err)
	require.NoError(t, m.AddBoundaryTermY(stencil.BoundaryTerm{
		Row: 2, Col: 1, Block: []float64{3},
	}))

	x, err := stencil.NewVector(cart, 1, 5, 3, 1)
	require.NoError(t, err)
	y, err := stencil.NewVector(cart, 1, 5, 3, 1)
	require.NoError(t, err)
	fillOwned(x, func(s, i, k, j, l int) float64 { return float64(i) })

	require.NoError(t, m.Symv(x, y))

	require.Equal(t, 3.0, y.Data()[y.Index(0, 2, 0, 1, 0)]) // 3·x[row 1]
	require.Zero(t, y.Data()[y.Index(0, 1, 0, 1, 0)])
	require.Zero(t, y.Data()[y.Index(0, 3, 0, 1, 0)])
}

func TestSymv_WithPrecon(t *testing.T) {
	cart := singleCart(t, [2]bool{true, true})
	p, err := stencil.NewPrecon([]float64{2, 3, 4, 5}, 2)
	require.NoError(t, err)
	m, err := stencil.NewMatrix(cart, 2, stencil.WithPrecon(p))
	require.NoError(t, err)
	require.NoError(t, m.AddStencilX(identityBlock(2), 0))

	x, err := stencil.NewVector(cart, 1, 3, 3, 2)
	require.NoError(t, err)
	y, err := stencil.NewVector(cart, 1, 3, 3, 2)
	require.NoError(t, err)
	fillOwned(x, func(s, i, k, j, l int) float64 { return 1 })

	require.NoError(t, m.Symv(x, y))

	require.Equal(t, 2.0, y.Data()[y.Index(0, 1, 0, 1, 0)])
	require.Equal(t, 3.0, y.Data()[y.Index(0, 1, 0, 1, 1)])
	require.Equal(t, 4.0, y.Data()[y.Index(0, 1, 1, 1, 0)])
	require.Equal(t, 5.0, y.Data()[y.Index(0, 1, 1, 1, 1)])
}

func TestSymvScaled_Algebra(t *testing.T) {
	cart := singleCart(t, [2]bool{true, true})
	m, err := stencil.NewMatrix(cart, 1)
	require.NoError(t, err)
	require.NoError(t, m.AddStencilX([]float64{1}, 0))

	x, err := stencil.NewVector(cart, 1, 3, 4, 1)
	require.NoError(t, err)
	y, err := stencil.NewVector(cart, 1, 3, 4, 1)
	require.NoError(t, err)
	fillOwned(x, func(s, i, k, j, l int) float64 { return float64(j) })
	fillOwned(y, func(s, i, k, j, l int) float64 { return 10 })

	// y = 2·(M x) + 3·y with M the identity over owned cells
	require.NoError(t, m.SymvScaled(2, x, 3, y))

	for j := 1; j < 3; j++ {
		require.Equal(t, 2*float64(j)+30, y.Data()[y.Index(0, 1, 0, j, 0)])
	}

	// a second call reuses the scratch buffer
	require.NoError(t, m.SymvScaled(0, x, 1, y))
	for j := 1; j < 3; j++ {
		require.Equal(t, 2*float64(j)+30, y.Data()[y.Index(0, 1, 0, j, 0)])
	}
}

func TestBC_String(t *testing.T) {
	require.Equal(t, "periodic", stencil.Periodic.String())
	require.Equal(t, "dirichlet", stencil.Dirichlet.String())
	require.Equal(t, "neumann", stencil.Neumann.String())
	require.Equal(t, "dirichlet/neumann", stencil.DirichletNeumann.String())
	require.Equal(t, "neumann/dirichlet", stencil.NeumannDirichlet.String())
}
