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

package constant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glsld-lang/glsld/types"
)

func TestUnaryOp(t *testing.T) {
	tests := []struct {
		name string
		op   string
		in   Value
		want Value
	}{
		{"negate int", "-", Int(5), Int(-5)},
		{"unary plus", "+", Int(5), Int(5)},
		{"logical not true", "!", Bool(true), Bool(false)},
		{"logical not on int is error", "!", Int(1), ErrorValue},
		{"bitwise not on float is error", "~", Float(1), ErrorValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnaryOp(tt.op, tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnaryOpBitwiseNot(t *testing.T) {
	got := UnaryOp("~", Int(0))
	require.True(t, got.IsScalar())
	assert.Equal(t, int64(-1), got.AsInt())
}

func TestUnaryOpLength(t *testing.T) {
	v := Vector(types.Float, []elem{{f: 1}, {f: 2}, {f: 3}})
	got := UnaryOp("length", v)
	require.True(t, got.IsScalar())
	assert.Equal(t, int64(3), got.AsInt())
}

func TestUnaryOpPropagatesError(t *testing.T) {
	assert.True(t, UnaryOp("-", ErrorValue).Error)
}

func TestBinaryOpArith(t *testing.T) {
	assert.Equal(t, Int(7), BinaryOp("+", Int(3), Int(4)))
	assert.Equal(t, Int(12), BinaryOp("*", Int(3), Int(4)))
	assert.True(t, BinaryOp("/", Int(1), Int(0)).Error, "division by zero folds to error")
	assert.True(t, BinaryOp("%", Uint(1), Uint(0)).Error)
}

func TestBinaryOpMixedShapeIsError(t *testing.T) {
	v3 := Vector(types.Float, []elem{{f: 1}, {f: 2}, {f: 3}})
	got := BinaryOp("+", v3, Float(1))
	assert.True(t, got.Error, "mismatched shapes never fold, the AST builder must coerce first")
}

func TestBinaryOpComparison(t *testing.T) {
	assert.Equal(t, Bool(true), BinaryOp("<", Int(1), Int(2)))
	assert.Equal(t, Bool(false), BinaryOp(">=", Int(1), Int(2)))
	assert.Equal(t, Bool(true), BinaryOp("==", Int(5), Int(5)))
}

func TestBinaryOpLogical(t *testing.T) {
	assert.Equal(t, Bool(true), BinaryOp("&&", Bool(true), Bool(true)))
	assert.Equal(t, Bool(true), BinaryOp("||", Bool(false), Bool(true)))
	assert.Equal(t, Bool(true), BinaryOp("^^", Bool(true), Bool(false)))
	assert.True(t, BinaryOp("&&", Int(1), Bool(true)).Error)
}

func TestTernaryOp(t *testing.T) {
	assert.Equal(t, Int(1), TernaryOp(Bool(true), Int(1), Int(2)))
	assert.Equal(t, Int(2), TernaryOp(Bool(false), Int(1), Int(2)))
	assert.True(t, TernaryOp(Int(1), Int(1), Int(2)).Error, "non-bool condition is an error")
}

func TestIndexVector(t *testing.T) {
	v := Vector(types.Float, []elem{{f: 10}, {f: 20}, {f: 30}})

	got := Index(v, Int(1))
	require.True(t, got.IsScalar())
	assert.InEpsilon(t, float64(20), got.Elems[0].f, 1e-9)

	assert.True(t, Index(v, Int(5)).Error, "out of range index is an error")
}

func TestSwizzle(t *testing.T) {
	v := Vector(types.Float, []elem{{f: 1}, {f: 2}, {f: 3}, {f: 4}})

	got := Swizzle(v, []int{2, 0})
	require.True(t, got.IsVector())
	assert.Equal(t, 2, got.Rows)
	assert.InEpsilon(t, float64(3), got.Elems[0].f, 1e-9)
	assert.InEpsilon(t, float64(1), got.Elems[1].f, 1e-9)

	single := Swizzle(v, []int{1})
	assert.True(t, single.IsScalar())

	assert.True(t, Swizzle(v, []int{9}).Error, "out of range swizzle index is an error")
}

func TestValueType(t *testing.T) {
	u := types.NewUniverse()

	assert.Same(t, u.Scalar(types.Int), Int(1).Type(u))
	assert.Same(t, u.Error(), ErrorValue.Type(u))

	v := Vector(types.Float, []elem{{f: 1}, {f: 2}})
	assert.Same(t, u.Vector(types.Float, 2), v.Type(u))
}
