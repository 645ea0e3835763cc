// Package meshblas is a reproducible linear-algebra core for mesh-based
// differential operators — exact reductions, policy-driven vector
// kernels, and distributed block-stencil matrices.
//
// 🚀 What is meshblas?
//
//	A building block for discontinuous-Galerkin style grids that brings
//	together:
//		• Exact sums: a long fixed-point superaccumulator whose dot
//		  products are bit-identical for any summation order
//		• Generic dispatch: one elementwise subroutine over scalars,
//		  vectors, nested vectors, and distributed vectors
//		• Execution policies: serial, unrolled, or multi-goroutine
//		  loops chosen per container
//		• Process grids: an in-process communicator with cartesian
//		  topologies, halo exchange, and deterministic all-reduce
//		• Stencil matrices: dense per-cell node blocks, boundary
//		  corrections, ghost reflection, diagonal preconditioners
//
// ✨ Why choose meshblas?
//
//   - Reproducible – the same field gives the same norm on 1 rank or
//     64, threaded or not, down to the last bit
//   - Composable – new container types plug into the dispatch layer
//     through two small interfaces
//   - Pure Go – goroutines stand in for processes, channels for
//     messages, no cgo
//
// Everything is organized under four subpackages:
//
//	accum/    — the superaccumulator: exact deposits, merge, rounding
//	blas/     — containers, policies, elementwise dispatch, dot products
//	procgrid/ — communicator groups, cartesian topologies, collectives
//	stencil/  — distributed vectors and block-stencil matrix operators
//
// Quick start:
//
//	group, _ := procgrid.NewGroup(4)
//	err := group.Run(func(comm procgrid.Communicator) error {
//		cart, err := procgrid.NewCart(comm, [2]int{2, 2}, [2]bool{true, true})
//		if err != nil {
//			return err
//		}
//		v, err := stencil.NewVector(cart, 1, 18, 18, 3)
//		if err != nil {
//			return err
//		}
//		// ... fill the owned cells, assemble a Matrix, apply it ...
//		norm2, err := blas.Dot(v, v) // identical bits on every rank
//		_ = norm2
//		return err
//	})
//
// See each subpackage's doc.go for the full contract.
package meshblas
