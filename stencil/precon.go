// SPDX-License-Identifier: MIT

package stencil

import (
	"github.com/katalvlaran/meshblas/accum"
	"github.com/katalvlaran/meshblas/blas"
)

// Precon is a diagonal weight pattern repeated over every cell: entry
// (k, l) of the n×n tile scales node (k, l) of each cell. A typical use
// is the tensor product of 1-d quadrature weights.
type Precon struct {
	weights []float64
	n       int
}

// NewPrecon builds a preconditioner from an n×n weight tile stored
// row-major. The tile is copied.
func NewPrecon(weights []float64, n int) (*Precon, error) {
	if n < 1 || len(weights) != n*n {
		return nil, ErrWeightStride
	}
	p := &Precon{
		weights: append([]float64(nil), weights...),
		n:       n,
	}
	return p, nil
}

// Identity returns the unit preconditioner of block size n.
func Identity(n int) *Precon {
	w := make([]float64, n*n)
	for i := range w {
		w[i] = 1
	}
	return &Precon{weights: w, n: n}
}

// N returns the block size of the weight tile.
func (p *Precon) N() int { return p.n }

// At returns tile entry (k, l).
func (p *Precon) At(k, l int) float64 { return p.weights[k*p.n+l] }

// Apply computes y = W∘x over owned cells, where W is the repeated tile
// weight. x and y may alias. Ghost layers are left untouched.
func (p *Precon) Apply(x, y *Vector) error {
	return p.ApplyScaled(1, x, 0, y)
}

// ApplyScaled computes y = alpha·W∘x + beta·y over owned cells.
// x and y may alias.
func (p *Precon) ApplyScaled(alpha float64, x *Vector, beta float64, y *Vector) error {
	if x == nil || y == nil {
		return blas.ErrNilContainer
	}
	if !x.sameShape(y) {
		return ErrShapeMismatch
	}
	if x.n != p.n {
		return ErrBlockSize
	}
	for s := 0; s < x.nz; s++ {
		for i := 1; i < x.ny-1; i++ {
			for k := 0; k < x.n; k++ {
				for j := 1; j < x.nx-1; j++ {
					base := x.Index(s, i, k, j, 0)
					if beta == 0 {
						// assignment form so stale y content never leaks in
						for l := 0; l < x.n; l++ {
							y.data[base+l] = alpha * p.weights[k*p.n+l] * x.data[base+l]
						}
						continue
					}
					for l := 0; l < x.n; l++ {
						y.data[base+l] = alpha*p.weights[k*p.n+l]*x.data[base+l] + beta*y.data[base+l]
					}
				}
			}
		}
	}
	return nil
}

// WeightedDot computes the group-wide sum of x[i]·w[i]·y[i] over owned
// cells, with w the repeated tile weight, in exact superaccumulator
// arithmetic. Every rank returns the identical scalar. Blocking
// symmetric collective.
func WeightedDot(x *Vector, p *Precon, y *Vector) (float64, error) {
	if x == nil || y == nil || p == nil {
		return 0, blas.ErrNilContainer
	}
	if x.cart != y.cart {
		return 0, ErrCommMismatch
	}
	if !x.sameShape(y) {
		return 0, ErrShapeMismatch
	}
	if x.n != p.n {
		return 0, ErrBlockSize
	}

	a := accum.New()
	for s := 0; s < x.nz; s++ {
		for i := 1; i < x.ny-1; i++ {
			for k := 0; k < x.n; k++ {
				for j := 1; j < x.nx-1; j++ {
					base := x.Index(s, i, k, j, 0)
					for l := 0; l < x.n; l++ {
						// weight folds into the left factor before the
						// exact two-product
						a.AccumulateProduct(x.data[base+l]*p.weights[k*p.n+l], y.data[base+l])
					}
				}
			}
		}
	}
	if err := x.ReduceSuperacc(a); err != nil {
		return 0, err
	}
	return a.Round(), nil
}
