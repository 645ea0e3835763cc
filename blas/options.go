// SPDX-License-Identifier: MIT

// Package blas: functional configuration for Vector construction.
// Defaults are documented constants; WithX constructors panic only on
// nonsensical parameters (programmer error), mirroring the package-wide
// convention.

package blas

// Defaults for Vector construction.
const (
	// DefaultPolicy is the loop strategy a fresh Vector carries.
	DefaultPolicy = Serial

	// DefaultWorkers means "use runtime.NumCPU()" under Parallel policy.
	DefaultWorkers = 0
)

// VectorOption configures a Vector at construction.
type VectorOption func(*Vector)

// WithPolicy sets the vector's execution policy.
func WithPolicy(p Policy) VectorOption {
	if p > Accelerated {
		panic("blas: unknown policy")
	}
	return func(v *Vector) { v.policy = p }
}

// WithWorkers sets the worker count used under Parallel policy.
// w <= 0 selects runtime.NumCPU().
func WithWorkers(w int) VectorOption {
	return func(v *Vector) { v.workers = w }
}
