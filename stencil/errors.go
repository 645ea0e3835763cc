// SPDX-License-Identifier: MIT
// Package stencil: sentinel error set. Shape and topology contracts are
// checked once at operation boundaries; the accumulation loops never
// produce errors.

package stencil

import "errors"

var (
	// ErrNilCart indicates a vector or matrix built without a topology.
	ErrNilCart = errors.New("stencil: nil cartesian topology")

	// ErrBadShape indicates a local shape with no interior cells
	// (nz < 1, ny < 3, nx < 3, or n < 1).
	ErrBadShape = errors.New("stencil: invalid local shape")

	// ErrShapeMismatch indicates operand vectors whose local shapes
	// differ.
	ErrShapeMismatch = errors.New("stencil: vector shape mismatch")

	// ErrCommMismatch indicates operand vectors living on different
	// topologies.
	ErrCommMismatch = errors.New("stencil: topology mismatch")

	// ErrAliased indicates that the input and output vector of a matrix
	// application are the same object.
	ErrAliased = errors.New("stencil: input aliases output")

	// ErrBlockSize indicates a stencil or boundary block whose length is
	// not n*n.
	ErrBlockSize = errors.New("stencil: block is not n×n")

	// ErrOffsetRange indicates a stencil cell offset whose reads would
	// cross the single ghost layer.
	ErrOffsetRange = errors.New("stencil: cell offset beyond ghost layer")

	// ErrWeightStride indicates preconditioner weights whose length is
	// not n*n.
	ErrWeightStride = errors.New("stencil: weight stride is not n×n")

	// ErrCellRange indicates a boundary-term cell index outside the
	// owned cell range.
	ErrCellRange = errors.New("stencil: boundary cell index out of range")
)
