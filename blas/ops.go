// SPDX-License-Identifier: MIT

// Package blas: stock elementwise operations built on Subroutine. Each is
// a thin wrapper: validate the output operand, then dispatch. The
// operand(s) written by each operation are named in its doc comment.

package blas

// Axpby computes y = alpha*x + beta*y elementwise. x may be a Scalar
// (broadcast); y must be a vector shape.
func Axpby(alpha float64, x Container, beta float64, y Container) error {
	if err := checkOutput(y); err != nil {
		return err
	}
	return Subroutine(func(args []*float64) {
		*args[1] = alpha*(*args[0]) + beta*(*args[1])
	}, x, y)
}

// Scal computes x = alpha*x elementwise.
func Scal(alpha float64, x Container) error {
	if err := checkOutput(x); err != nil {
		return err
	}
	return Subroutine(func(args []*float64) {
		*args[0] = alpha * (*args[0])
	}, x)
}

// Plus computes x = x + c elementwise.
func Plus(c float64, x Container) error {
	if err := checkOutput(x); err != nil {
		return err
	}
	return Subroutine(func(args []*float64) {
		*args[0] += c
	}, x)
}

// Copy assigns y = x elementwise. x may be a Scalar (fill).
func Copy(x, y Container) error {
	if err := checkOutput(y); err != nil {
		return err
	}
	return Subroutine(func(args []*float64) {
		*args[1] = *args[0]
	}, x, y)
}

// PointwiseDot computes z = alpha*x*y + beta*z elementwise. x and y may
// be Scalars.
func PointwiseDot(alpha float64, x, y Container, beta float64, z Container) error {
	if err := checkOutput(z); err != nil {
		return err
	}
	return Subroutine(func(args []*float64) {
		*args[2] = alpha*(*args[0])*(*args[1]) + beta*(*args[2])
	}, x, y, z)
}

// PointwiseDivide computes z = x/y elementwise. x and y may be Scalars.
func PointwiseDivide(x, y, z Container) error {
	if err := checkOutput(z); err != nil {
		return err
	}
	return Subroutine(func(args []*float64) {
		*args[2] = *args[0] / *args[1]
	}, x, y, z)
}

// Transform computes y = g(x) elementwise.
func Transform(g func(float64) float64, x, y Container) error {
	if err := checkOutput(y); err != nil {
		return err
	}
	return Subroutine(func(args []*float64) {
		*args[1] = g(*args[0])
	}, x, y)
}

// checkOutput rejects nil or scalar output operands before dispatch.
func checkOutput(out Container) error {
	if out == nil {
		return ErrNilContainer
	}
	if out.ContainerShape() == ShapeScalar {
		return ErrScalarOutput
	}
	return nil
}
