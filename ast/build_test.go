// Copyright 2021 Torben Schinke
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glsld-lang/glsld/constant"
	"github.com/glsld-lang/glsld/lexcontext"
	"github.com/glsld-lang/glsld/types"
)

func newTestBuilder() (*Builder, *types.Universe) {
	u := types.NewUniverse()
	return NewBuilder(NewArena(), u), u
}

var zeroTok lexcontext.TokenID

func TestBuildLiteralFoldsConstant(t *testing.T) {
	b, u := newTestBuilder()

	id := b.BuildLiteral(zeroTok, zeroTok, "3", constant.Int(3))
	n := b.Arena.Node(id)

	assert.Equal(t, LiteralExpr, n.Tag)
	assert.Equal(t, int64(3), n.ConstValue.AsInt())
	assert.Same(t, u.Scalar(types.Int), n.DeducedType)
}

func TestBuildBinaryFoldsThroughOperands(t *testing.T) {
	b, u := newTestBuilder()

	lhs := b.BuildLiteral(zeroTok, zeroTok, "2", constant.Int(2))
	rhs := b.BuildLiteral(zeroTok, zeroTok, "3", constant.Int(3))

	sum := b.BuildBinary(zeroTok, zeroTok, "+", lhs, rhs, u.Scalar(types.Int))
	n := b.Arena.Node(sum)

	require.False(t, n.ConstValue.Error)
	assert.Equal(t, int64(5), n.ConstValue.AsInt())
}

func TestBuildImplicitCastFoldsConstant(t *testing.T) {
	b, u := newTestBuilder()

	lit := b.BuildLiteral(zeroTok, zeroTok, "2", constant.Int(2))
	cast := b.BuildImplicitCast(lit, u.Scalar(types.Float))
	n := b.Arena.Node(cast)

	assert.Equal(t, ImplicitCastExpr, n.Tag)
	assert.Same(t, u.Scalar(types.Float), n.DeducedType)
	assert.False(t, n.ConstValue.Error)
	assert.Equal(t, types.Float, n.ConstValue.Kind)
}

func TestBuildArraySpecFoldsDimensionSizes(t *testing.T) {
	b, _ := newTestBuilder()

	size := b.BuildLiteral(zeroTok, zeroTok, "4", constant.Int(4))
	spec := b.BuildArraySpec(zeroTok, zeroTok, []NodeID{size})
	n := b.Arena.Node(spec)

	require.Len(t, n.DimSizes, 1)
	assert.Equal(t, 4, n.DimSizes[0])
}

func TestBuildArraySpecUnsizedDimension(t *testing.T) {
	b, _ := newTestBuilder()

	spec := b.BuildArraySpec(zeroTok, zeroTok, []NodeID{InvalidNode})
	n := b.Arena.Node(spec)

	require.Len(t, n.DimSizes, 1)
	assert.Equal(t, 0, n.DimSizes[0])
}

func TestBuildInitListNeverConstant(t *testing.T) {
	b, u := newTestBuilder()

	x := b.BuildLiteral(zeroTok, zeroTok, "1", constant.Float(1))
	y := b.BuildLiteral(zeroTok, zeroTok, "2", constant.Float(2))
	init := b.BuildInitList(zeroTok, zeroTok, []NodeID{x, y}, u.Vector(types.Float, 2))

	// InitListExpr never folds (GLSL initializer lists are not constant
	// expressions), so ConstValue stays the error value.
	n := b.Arena.Node(init)
	assert.True(t, n.ConstValue.Error)
}

func TestArenaInvalidNodePanics(t *testing.T) {
	a := NewArena()
	assert.Panics(t, func() { a.Node(InvalidNode) })
}

func TestArenaIDsOrder(t *testing.T) {
	b, _ := newTestBuilder()

	a := b.BuildLiteral(zeroTok, zeroTok, "1", constant.Int(1))
	c := b.BuildLiteral(zeroTok, zeroTok, "2", constant.Int(2))

	ids := b.Arena.IDs()
	require.Len(t, ids, 2)
	assert.Equal(t, a, ids[0])
	assert.Equal(t, c, ids[1])
}

func TestQualifierGroupHasAny(t *testing.T) {
	g := QualConst | QualHighp

	assert.True(t, g.Has(QualConst))
	assert.True(t, g.Any(QualConst|QualUniform))
	assert.False(t, g.Has(QualConst|QualUniform))
	assert.False(t, g.Any(QualBuffer))
}
