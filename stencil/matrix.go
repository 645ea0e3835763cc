// SPDX-License-Identifier: MIT

package stencil

import (
	"github.com/katalvlaran/meshblas/blas"
	"github.com/katalvlaran/meshblas/procgrid"
)

// stencilEntry couples a cell to a neighbor at the given offset along
// one axis through a dense n×n node block.
type stencilEntry struct {
	block  []float64
	offset int
}

// Matrix is a distributed block-stencil operator. It holds per-direction
// stencil entries and boundary corrections, the boundary conditions of
// both axes, an optional diagonal preconditioner, and the topology it
// operates on. Assemble once, then reuse across Symv calls.
//
// A Matrix is not safe for concurrent Symv calls: SymvScaled shares one
// internal scratch vector.
type Matrix struct {
	n    int
	cart *procgrid.Cart

	bcx, bcy BC

	colEntries []stencilEntry
	rowEntries []stencilEntry
	colTerms   boundaryTerms
	rowTerms   boundaryTerms

	precon  *Precon
	scratch *Vector
}

// MatrixOption configures a Matrix at construction.
type MatrixOption func(*Matrix)

// WithBCX sets the boundary condition of the x axis (default Periodic).
func WithBCX(bc BC) MatrixOption {
	return func(m *Matrix) { m.bcx = bc }
}

// WithBCY sets the boundary condition of the y axis (default Periodic).
func WithBCY(bc BC) MatrixOption {
	return func(m *Matrix) { m.bcy = bc }
}

// WithPrecon attaches a diagonal preconditioner applied as the final
// Symv phase.
func WithPrecon(p *Precon) MatrixOption {
	return func(m *Matrix) { m.precon = p }
}

// NewMatrix creates an empty operator of block size n on the topology.
func NewMatrix(cart *procgrid.Cart, n int, opts ...MatrixOption) (*Matrix, error) {
	if cart == nil {
		return nil, ErrNilCart
	}
	if n < 1 {
		return nil, ErrBlockSize
	}
	m := &Matrix{n: n, cart: cart, bcx: Periodic, bcy: Periodic}
	for _, opt := range opts {
		opt(m)
	}
	if m.precon != nil && m.precon.n != n {
		return nil, ErrBlockSize
	}
	return m, nil
}

// N returns the node block size.
func (m *Matrix) N() int { return m.n }

// BCX returns the x-axis boundary condition.
func (m *Matrix) BCX() BC { return m.bcx }

// BCY returns the y-axis boundary condition.
func (m *Matrix) BCY() BC { return m.bcy }

// AddStencilX appends an x-direction entry: the n×n block couples each
// cell to its x-neighbor at the given offset. With one ghost layer the
// offset must stay within ±1.
func (m *Matrix) AddStencilX(block []float64, offset int) error {
	return m.addStencil(&m.colEntries, block, offset)
}

// AddStencilY appends a y-direction entry; see AddStencilX.
func (m *Matrix) AddStencilY(block []float64, offset int) error {
	return m.addStencil(&m.rowEntries, block, offset)
}

func (m *Matrix) addStencil(dst *[]stencilEntry, block []float64, offset int) error {
	if len(block) != m.n*m.n {
		return ErrBlockSize
	}
	if offset < -1 || offset > 1 {
		return ErrOffsetRange
	}
	*dst = append(*dst, stencilEntry{
		block:  append([]float64(nil), block...),
		offset: offset,
	})
	return nil
}

// AddBoundaryTermX appends an x-direction boundary correction. Row and
// Col are owned cell indices along x, so they must lie in [1, nx-1) of
// every vector the matrix is applied to; that range is checked at Symv
// time against the actual shape.
func (m *Matrix) AddBoundaryTermX(t BoundaryTerm) error {
	return m.addBoundaryTerm(&m.colTerms, t)
}

// AddBoundaryTermY appends a y-direction boundary correction.
func (m *Matrix) AddBoundaryTermY(t BoundaryTerm) error {
	return m.addBoundaryTerm(&m.rowTerms, t)
}

func (m *Matrix) addBoundaryTerm(dst *boundaryTerms, t BoundaryTerm) error {
	if len(t.Block) != m.n*m.n {
		return ErrBlockSize
	}
	if t.Row < 1 || t.Col < 1 {
		return ErrCellRange
	}
	t.Block = append([]float64(nil), t.Block...)
	dst.terms = append(dst.terms, t)
	return nil
}

// Symv computes y = M·x. Phases, in fixed order: ghost update along each
// direction with entries, clear y, interior stencil accumulation,
// boundary-term correction, preconditioner. Blocking symmetric
// collective when a ghost update runs. x is modified in its ghost
// layers; x and y must not alias.
func (m *Matrix) Symv(x, y *Vector) error {
	if x == nil || y == nil {
		return blas.ErrNilContainer
	}
	if x == y {
		return ErrAliased
	}
	if x.n != m.n {
		return ErrBlockSize
	}
	if !x.sameShape(y) {
		return ErrShapeMismatch
	}
	if x.cart != m.cart || y.cart != m.cart {
		return ErrCommMismatch
	}
	if err := m.checkTermRange(x); err != nil {
		return err
	}

	if len(m.colEntries) > 0 || !m.colTerms.empty() {
		if err := m.UpdateBoundaryCol(x); err != nil {
			return err
		}
	}
	if len(m.rowEntries) > 0 || !m.rowTerms.empty() {
		if err := m.UpdateBoundaryRow(x); err != nil {
			return err
		}
	}

	for i := range y.data {
		y.data[i] = 0
	}
	m.applyInterior(x, y)

	if !m.colTerms.empty() {
		m.colTerms.applyCols(x, y)
	}
	if !m.rowTerms.empty() {
		m.rowTerms.applyRows(x, y)
	}

	if m.precon != nil {
		return m.precon.Apply(y, y)
	}
	return nil
}

// SymvScaled computes y = alpha·(M·x) + beta·y through an internal
// scratch vector.
func (m *Matrix) SymvScaled(alpha float64, x *Vector, beta float64, y *Vector) error {
	if x == nil || y == nil {
		return blas.ErrNilContainer
	}
	if m.scratch == nil || !m.scratch.sameShape(x) {
		s, err := NewVector(m.cart, x.nz, x.ny, x.nx, x.n)
		if err != nil {
			return err
		}
		m.scratch = s
	}
	if err := m.Symv(x, m.scratch); err != nil {
		return err
	}
	return blas.Axpby(alpha, m.scratch, beta, y)
}

// applyInterior accumulates all stencil entries over the owned cells.
// x-entries contract the x-node index against the x-neighbor cell,
// y-entries the y-node index against the y-neighbor cell.
func (m *Matrix) applyInterior(x, y *Vector) {
	n := m.n
	for _, e := range m.colEntries {
		for s := 0; s < y.nz; s++ {
			for i := 1; i < y.ny-1; i++ {
				for k := 0; k < n; k++ {
					for j := 1; j < y.nx-1; j++ {
						dst := y.Index(s, i, k, j, 0)
						src := x.Index(s, i, k, j+e.offset, 0)
						for l := 0; l < n; l++ {
							acc := y.data[dst+l]
							for q := 0; q < n; q++ {
								acc += e.block[l*n+q] * x.data[src+q]
							}
							y.data[dst+l] = acc
						}
					}
				}
			}
		}
	}
	for _, e := range m.rowEntries {
		for s := 0; s < y.nz; s++ {
			for i := 1; i < y.ny-1; i++ {
				for k := 0; k < n; k++ {
					for j := 1; j < y.nx-1; j++ {
						dst := y.Index(s, i, k, j, 0)
						for l := 0; l < n; l++ {
							acc := y.data[dst+l]
							for q := 0; q < n; q++ {
								acc += e.block[k*n+q] * x.data[x.Index(s, i+e.offset, q, j, l)]
							}
							y.data[dst+l] = acc
						}
					}
				}
			}
		}
	}
}

// checkTermRange verifies every boundary-term cell index against the
// owned range of v.
func (m *Matrix) checkTermRange(v *Vector) error {
	for _, t := range m.colTerms.terms {
		if t.Row >= v.nx-1 || t.Col >= v.nx-1 {
			return ErrCellRange
		}
	}
	for _, t := range m.rowTerms.terms {
		if t.Row >= v.ny-1 || t.Col >= v.ny-1 {
			return ErrCellRange
		}
	}
	return nil
}

// UpdateBoundaryCol refreshes the x ghost layers of v: halo exchange
// with the x-neighbors, then on non-periodic physical edges the ghost
// column becomes the reflected edge column, node order reversed and
// scaled by the condition's sign. Blocking symmetric collective.
func (m *Matrix) UpdateBoundaryCol(v *Vector) error {
	if v.n != m.n {
		return ErrBlockSize
	}
	if v.cart != m.cart {
		return ErrCommMismatch
	}
	if err := v.ExchangeCol(); err != nil {
		return err
	}
	if m.bcx == Periodic {
		return nil
	}
	lowSign, highSign := m.bcx.signs()
	n := v.n
	if m.cart.OnLowEdge(0) {
		for s := 0; s < v.nz; s++ {
			for i := 0; i < v.ny; i++ {
				for k := 0; k < n; k++ {
					ghost := v.Index(s, i, k, 0, 0)
					edge := v.Index(s, i, k, 1, 0)
					for l := 0; l < n; l++ {
						v.data[ghost+l] = lowSign * v.data[edge+(n-1-l)]
					}
				}
			}
		}
	}
	if m.cart.OnHighEdge(0) {
		for s := 0; s < v.nz; s++ {
			for i := 0; i < v.ny; i++ {
				for k := 0; k < n; k++ {
					ghost := v.Index(s, i, k, v.nx-1, 0)
					edge := v.Index(s, i, k, v.nx-2, 0)
					for l := 0; l < n; l++ {
						v.data[ghost+l] = highSign * v.data[edge+(n-1-l)]
					}
				}
			}
		}
	}
	return nil
}

// UpdateBoundaryRow is the y-direction analog of UpdateBoundaryCol: the
// reflection reverses the y-node index.
func (m *Matrix) UpdateBoundaryRow(v *Vector) error {
	if v.n != m.n {
		return ErrBlockSize
	}
	if v.cart != m.cart {
		return ErrCommMismatch
	}
	if err := v.ExchangeRow(); err != nil {
		return err
	}
	if m.bcy == Periodic {
		return nil
	}
	lowSign, highSign := m.bcy.signs()
	n := v.n
	if m.cart.OnLowEdge(1) {
		for s := 0; s < v.nz; s++ {
			for k := 0; k < n; k++ {
				for j := 0; j < v.nx; j++ {
					ghost := v.Index(s, 0, k, j, 0)
					edge := v.Index(s, 1, n-1-k, j, 0)
					for l := 0; l < n; l++ {
						v.data[ghost+l] = lowSign * v.data[edge+l]
					}
				}
			}
		}
	}
	if m.cart.OnHighEdge(1) {
		for s := 0; s < v.nz; s++ {
			for k := 0; k < n; k++ {
				for j := 0; j < v.nx; j++ {
					ghost := v.Index(s, v.ny-1, k, j, 0)
					edge := v.Index(s, v.ny-2, n-1-k, j, 0)
					for l := 0; l < n; l++ {
						v.data[ghost+l] = highSign * v.data[edge+l]
					}
				}
			}
		}
	}
	return nil
}
