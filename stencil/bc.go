// SPDX-License-Identifier: MIT

// Package stencil: boundary-condition kinds per axis. Supplied at matrix
// construction and immutable for the matrix's lifetime.

package stencil

// BC selects the boundary condition of one axis.
type BC uint8

const (
	// Periodic wraps the axis; there are no physical edges.
	Periodic BC = iota
	// Dirichlet fixes the value at both edges.
	Dirichlet
	// Neumann fixes the normal derivative at both edges.
	Neumann
	// DirichletNeumann is Dirichlet at the low edge, Neumann at the high.
	DirichletNeumann
	// NeumannDirichlet is Neumann at the low edge, Dirichlet at the high.
	NeumannDirichlet
)

// String returns the boundary-condition name.
func (b BC) String() string {
	switch b {
	case Periodic:
		return "periodic"
	case Dirichlet:
		return "dirichlet"
	case Neumann:
		return "neumann"
	case DirichletNeumann:
		return "dirichlet/neumann"
	case NeumannDirichlet:
		return "neumann/dirichlet"
	}
	return "unknown"
}

// signs returns the reflection signs applied at the (low, high) physical
/// edges: Dirichlet reflects with -1 (odd extension), Neumann with +1
// (even extension).
func (b BC) signs() (low, high float64) {
	switch b {
	case Dirichlet:
		return -1, -1
	case Neumann:
		return +1, +1
	case DirichletNeumann:
		return -1, +1
	case NeumannDirichlet:
		return +1, -1
	}
	return 0, 0 // periodic: never used
}
