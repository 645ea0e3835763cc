// SPDX-License-Identifier: MIT

package stencil_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/meshblas/procgrid"
	"github.com/katalvlaran/meshblas/stencil"
)

// SymvProtocolSuite drives a centered difference with Dirichlet walls
// through the full application protocol on a fresh operator per test.
type SymvProtocolSuite struct {
	suite.Suite
	m *stencil.Matrix
	x *stencil.Vector
	y *stencil.Vector
}

func (s *SymvProtocolSuite) SetupTest() {
	g, err := procgrid.NewGroup(1)
	s.Require().NoError(err)
	comm, err := g.Comm(0)
	s.Require().NoError(err)
	cart, err := procgrid.NewCart(comm, [2]int{1, 1}, [2]bool{false, true})
	s.Require().NoError(err)

	s.m, err = stencil.NewMatrix(cart, 1, stencil.WithBCX(stencil.Dirichlet))
	s.Require().NoError(err)
	s.Require().NoError(s.m.AddStencilX([]float64{-1}, -1))
	s.Require().NoError(s.m.AddStencilX([]float64{1}, 1))

	s.x, err = stencil.NewVector(cart, 1, 3, 5, 1)
	s.Require().NoError(err)
	s.y, err = stencil.NewVector(cart, 1, 3, 5, 1)
	s.Require().NoError(err)
	for j := 1; j < 4; j++ {
		s.x.Data()[s.x.Index(0, 1, 0, j, 0)] = float64(j)
	}
}

func (s *SymvProtocolSuite) owned() []float64 {
	out := make([]float64, 3)
	for j := 1; j < 4; j++ {
		out[j-1] = s.y.Data()[s.y.Index(0, 1, 0, j, 0)]
	}
	return out
}

// TestDifferenceValues works the wall reflection into the difference:
// the low ghost is -x[1] and the high ghost is -x[3].
func (s *SymvProtocolSuite) TestDifferenceValues() {
	s.Require().NoError(s.m.Symv(s.x, s.y))
	s.Equal([]float64{3, 2, -5}, s.owned())
}

// TestRepeatable applies the operator twice; the ghost update must
// recompute the same reflection, not compound it.
func (s *SymvProtocolSuite) TestRepeatable() {
	s.Require().NoError(s.m.Symv(s.x, s.y))
	first := s.owned()
	s.Require().NoError(s.m.Symv(s.x, s.y))
	s.Equal(first, s.owned())
}

// TestScaledMatchesPlain checks the scratch path degenerates to Symv at
// alpha=1, beta=0.
func (s *SymvProtocolSuite) TestScaledMatchesPlain() {
	s.Require().NoError(s.m.Symv(s.x, s.y))
	want := append([]float64(nil), s.y.Data()...)

	s.Require().NoError(s.m.SymvScaled(1, s.x, 0, s.y))
	s.Equal(want, s.y.Data())
}

func TestSymvProtocolSuite(t *testing.T) {
	suite.Run(t, new(SymvProtocolSuite))
}
