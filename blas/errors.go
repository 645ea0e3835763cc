// SPDX-License-Identifier: MIT
// Package blas: sentinel error set.
// All public operations return these sentinels and tests check them via
// errors.Is. Hot per-element loops never produce errors; every condition
// below is detected once at the operation boundary.

package blas

import "errors"

var (
	// ErrNilContainer indicates a nil container operand.
	ErrNilContainer = errors.New("blas: nil container")

	// ErrEmpty indicates an empty operand list or a zero-length container
	// where at least one element is required.
	ErrEmpty = errors.New("blas: empty operand")

	// ErrSizeMismatch indicates vector operands of differing lengths.
	ErrSizeMismatch = errors.New("blas: operand size mismatch")

	// ErrShapeMismatch indicates operands of incompatible shapes or
	// nesting depths participating in one operation.
	ErrShapeMismatch = errors.New("blas: operand shape mismatch")

	// ErrScalarOutput indicates that the operand an operation writes to
	// is a Scalar; scalars broadcast and are never written.
	ErrScalarOutput = errors.New("blas: output operand is a scalar")
)
