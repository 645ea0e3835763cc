// SPDX-License-Identifier: MIT

package stencil

// BoundaryTerm is a sparse correction entry for one direction: the dense
// n×n block couples target cell Row to source cell Col along that axis.
// Applied only on ranks owning a physical (non-periodic) edge.
type BoundaryTerm struct {
	Row   int
	Col   int
	Block []float64
}

// boundaryTerms holds the correction entries of one direction.
type boundaryTerms struct {
	terms []BoundaryTerm
}

func (b *boundaryTerms) empty() bool { return len(b.terms) == 0 }

// applyCols overwrites the targeted x-cell columns of y with the block
// corrections: first all target columns are zeroed, then every term
// accumulates block·x over its source column. The block contracts the
// x-node index.
func (b *boundaryTerms) applyCols(x, y *Vector) {
	n := y.n
	for _, t := range b.terms {
		for s := 0; s < y.nz; s++ {
			for i := 1; i < y.ny-1; i++ {
				for k := 0; k < n; k++ {
					base := y.Index(s, i, k, t.Row, 0)
					for l := 0; l < n; l++ {
						y.data[base+l] = 0
					}
				}
			}
		}
	}
	for _, t := range b.terms {
		for s := 0; s < y.nz; s++ {
			for i := 1; i < y.ny-1; i++ {
				for k := 0; k < n; k++ {
					dst := y.Index(s, i, k, t.Row, 0)
					src := x.Index(s, i, k, t.Col, 0)
					for l := 0; l < n; l++ {
						acc := y.data[dst+l]
						for m := 0; m < n; m++ {
							acc += t.Block[l*n+m] * x.data[src+m]
						}
						y.data[dst+l] = acc
					}
				}
			}
		}
	}
}

// applyRows is the y-direction analog of applyCols: target cell rows are
// zeroed, then the block contracts the y-node index.
func (b *boundaryTerms) applyRows(x, y *Vector) {
	n := y.n
	for _, t := range b.terms {
		for s := 0; s < y.nz; s++ {
			for k := 0; k < n; k++ {
				for j := 1; j < y.nx-1; j++ {
					base := y.Index(s, t.Row, k, j, 0)
					for l := 0; l < n; l++ {
						y.data[base+l] = 0
					}
				}
			}
		}
	}
	for _, t := range b.terms {
		for s := 0; s < y.nz; s++ {
			for k := 0; k < n; k++ {
				for j := 1; j < y.nx-1; j++ {
					dst := y.Index(s, t.Row, k, j, 0)
					for l := 0; l < n; l++ {
						acc := y.data[dst+l]
						for m := 0; m < n; m++ {
							acc += t.Block[k*n+m] * x.data[x.Index(s, t.Col, m, j, l)]
						}
						y.data[dst+l] = acc
					}
				}
			}
		}
	}
}
