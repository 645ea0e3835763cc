// SPDX-License-Identifier: MIT

// Package stencil: the process-distributed vector. One ghost cell layer
// along x and y mirrors the neighboring ranks; z is not decomposed.
// Element (s, i, k, j, l) = (z-plane, y-cell, y-node, x-cell, x-node)
// lives at flat index (((s*Ny+i)*n+k)*Nx+j)*n+l.

package stencil

import (
	"runtime"
	"sync"

	"github.com/katalvlaran/meshblas/accum"
	"github.com/katalvlaran/meshblas/blas"
	"github.com/katalvlaran/meshblas/procgrid"
)

// Vector is the rank-local share of a process-distributed field.
// The local cell counts ny and nx include the two ghost layers; owned
// cells are i in [1, ny-1) and j in [1, nx-1).
type Vector struct {
	data []float64

	nz, ny, nx, n int

	cart    *procgrid.Cart
	policy  blas.Policy
	workers int
}

// NewVector allocates a zeroed local buffer of shape nz×ny×nx cells of
// n×n nodes on the given topology. ny and nx include the ghost layers,
// so both must be at least 3.
// Complexity: O(nz·ny·nx·n²).
func NewVector(cart *procgrid.Cart, nz, ny, nx, n int, opts ...VectorOption) (*Vector, error) {
	if cart == nil {
		return nil, ErrNilCart
	}
	if nz < 1 || ny < 3 || nx < 3 || n < 1 {
		return nil, ErrBadShape
	}
	v := &Vector{
		data: make([]float64, nz*ny*nx*n*n),
		nz:   nz, ny: ny, nx: nx, n: n,
		cart: cart,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// VectorOption configures a Vector at construction.
type VectorOption func(*Vector)

// WithPolicy sets the execution policy used when the vector participates
// in elementwise dispatch.
func WithPolicy(p blas.Policy) VectorOption {
	return func(v *Vector) { v.policy = p }
}

// WithWorkers sets the worker count used under the Parallel policy
// (0 = runtime.NumCPU()).
func WithWorkers(w int) VectorOption {
	return func(v *Vector) { v.workers = w }
}

// Nz returns the number of z-planes.
func (v *Vector) Nz() int { return v.nz }

// Ny returns the local y cell count, ghost layers included.
func (v *Vector) Ny() int { return v.ny }

// Nx returns the local x cell count, ghost layers included.
func (v *Vector) Nx() int { return v.nx }

// N returns the per-cell block size n.
func (v *Vector) N() int { return v.n }

// Cart returns the topology the vector lives on.
func (v *Vector) Cart() *procgrid.Cart { return v.cart }

// Data returns the backing buffer, ghost cells included.
func (v *Vector) Data() []float64 { return v.data }

// Index returns the flat position of element (s, i, k, j, l).
func (v *Vector) Index(s, i, k, j, l int) int {
	return (((s*v.ny+i)*v.n+k)*v.nx+j)*v.n + l
}

// Clone returns an independent vector of the same shape, topology, and
// policy with a copy of the local data.
func (v *Vector) Clone() *Vector {
	c := *v
	c.data = append([]float64(nil), v.data...)
	return &c
}

// sameShape reports whether w has identical local dimensions.
func (v *Vector) sameShape(w *Vector) bool {
	return v.nz == w.nz && v.ny == w.ny && v.nx == w.nx && v.n == w.n
}

//----------------------------------------------------------------------------//
// Halo exchange
//----------------------------------------------------------------------------//

// ExchangeCol refreshes the x-direction ghost layers: the owned edge
// column goes to each x-neighbor and the neighbor's edge column arrives
// in the local ghost column. Blocking symmetric collective; ghosts at
// non-periodic physical edges are zero-filled.
func (v *Vector) ExchangeCol() error {
	low, high := v.cart.Shift(0)
	buf := make([]float64, v.nz*v.ny*v.n*v.n)
	recv := make([]float64, len(buf))

	// Own high edge feeds the high neighbor's low ghost, and vice versa.
	v.packCol(v.nx-2, buf)
	if err := v.cart.SendRecv(high, low, buf, recv); err != nil {
		return err
	}
	v.unpackCol(0, recv)

	v.packCol(1, buf)
	if err := v.cart.SendRecv(low, high, buf, recv); err != nil {
		return err
	}
	v.unpackCol(v.nx-1, recv)
	return nil
}

// ExchangeRow refreshes the y-direction ghost layers; see ExchangeCol.
func (v *Vector) ExchangeRow() error {
	low, high := v.cart.Shift(1)
	buf := make([]float64, v.nz*v.n*v.nx*v.n)
	recv := make([]float64, len(buf))

	v.packRow(v.ny-2, buf)
	if err := v.cart.SendRecv(high, low, buf, recv); err != nil {
		return err
	}
	v.unpackRow(0, recv)

	v.packRow(1, buf)
	if err := v.cart.SendRecv(low, high, buf, recv); err != nil {
		return err
	}
	v.unpackRow(v.ny-1, recv)
	return nil
}

// packCol gathers cell column j into buf.
func (v *Vector) packCol(j int, buf []float64) {
	p := 0
	for s := 0; s < v.nz; s++ {
		for i := 0; i < v.ny; i++ {
			for k := 0; k < v.n; k++ {
				base := v.Index(s, i, k, j, 0)
				for l := 0; l < v.n; l++ {
					buf[p] = v.data[base+l]
					p++
				}
			}
		}
	}
}

// unpackCol scatters buf into cell column j.
func (v *Vector) unpackCol(j int, buf []float64) {
	p := 0
	for s := 0; s < v.nz; s++ {
		for i := 0; i < v.ny; i++ {
			for k := 0; k < v.n; k++ {
				base := v.Index(s, i, k, j, 0)
				for l := 0; l < v.n; l++ {
					v.data[base+l] = buf[p]
					p++
				}
			}
		}
	}
}

// packRow gathers cell row i into buf.
func (v *Vector) packRow(i int, buf []float64) {
	p := 0
	for s := 0; s < v.nz; s++ {
		for k := 0; k < v.n; k++ {
			base := v.Index(s, i, k, 0, 0)
			rowLen := v.nx * v.n
			copy(buf[p:p+rowLen], v.data[base:base+rowLen])
			p += rowLen
		}
	}
}

// unpackRow scatters buf into cell row i.
func (v *Vector) unpackRow(i int, buf []float64) {
	p := 0
	for s := 0; s < v.nz; s++ {
		for k := 0; k < v.n; k++ {
			base := v.Index(s, i, k, 0, 0)
			rowLen := v.nx * v.n
			copy(v.data[base:base+rowLen], buf[p:p+rowLen])
			p += rowLen
		}
	}
}

//----------------------------------------------------------------------------//
// blas integration
//----------------------------------------------------------------------------//

// ContainerShape reports blas.ShapeDistributed.
func (v *Vector) ContainerShape() blas.Shape { return blas.ShapeDistributed }

// Len returns the local element count, ghosts included.
func (v *Vector) Len() int { return len(v.data) }

// Slice returns the local buffer for elementwise dispatch; elementwise
// operations are purely rank-local and cover the ghost cells too.
func (v *Vector) Slice() []float64 { return v.data }

// ExecPolicy returns the elementwise loop strategy.
func (v *Vector) ExecPolicy() blas.Policy { return v.policy }

// Workers returns the configured worker count.
func (v *Vector) Workers() int { return v.workers }

// LocalDotSuperacc accumulates this rank's share of dot(v, y) over owned
// cells only; ghost layers are excluded so no term is counted twice
// across the group. Under the Parallel policy the owned rows split over
// workers with one accumulator each; the bin-wise merge keeps the result
// bit-identical to the serial loop. No collective call happens here.
func (v *Vector) LocalDotSuperacc(y blas.Container) (*accum.Accumulator, error) {
	w, ok := y.(*Vector)
	if !ok {
		return nil, blas.ErrShapeMismatch
	}
	if v.cart != w.cart {
		return nil, ErrCommMismatch
	}
	if !v.sameShape(w) {
		return nil, ErrShapeMismatch
	}

	ownedRows := v.nz * (v.ny - 2)
	wk := 1
	if v.policy == blas.Parallel {
		wk = v.workers
		if wk <= 0 {
			wk = runtime.NumCPU()
		}
		if wk > ownedRows {
			wk = ownedRows
		}
	}
	if wk > 1 {
		parts := make([]accum.Accumulator, wk)
		var wg sync.WaitGroup
		for r := 0; r < wk; r++ {
			lo, hi := r*ownedRows/wk, (r+1)*ownedRows/wk
			wg.Add(1)
			go func(a *accum.Accumulator, lo, hi int) {
				defer wg.Done()
				for q := lo; q < hi; q++ {
					v.dotCellRow(a, w, q/(v.ny-2), 1+q%(v.ny-2))
				}
			}(&parts[r], lo, hi)
		}
		wg.Wait()
		total := accum.New()
		for r := range parts {
			total.Merge(&parts[r])
		}
		return total, nil
	}

	a := accum.New()
	for s := 0; s < v.nz; s++ {
		for i := 1; i < v.ny-1; i++ {
			v.dotCellRow(a, w, s, i)
		}
	}
	return a, nil
}

// dotCellRow deposits the products of one owned cell row into a.
func (v *Vector) dotCellRow(a *accum.Accumulator, w *Vector, s, i int) {
	for k := 0; k < v.n; k++ {
		for j := 1; j < v.nx-1; j++ {
			base := v.Index(s, i, k, j, 0)
			for l := 0; l < v.n; l++ {
				a.AccumulateProduct(v.data[base+l], w.data[base+l])
			}
		}
	}
}

// ReduceSuperacc replaces a with the bin-wise sum over all ranks of the
// topology. Blocking symmetric collective; afterwards every rank rounds
// the identical accumulator to the identical scalar.
func (v *Vector) ReduceSuperacc(a *accum.Accumulator) error {
	bins := a.Bins()
	if err := v.cart.AllReduce(bins); err != nil {
		return err
	}
	a.SetBins(bins)
	return nil
}
