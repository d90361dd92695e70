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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertScalar(t *testing.T) {
	tests := []struct {
		name     string
		from, to ScalarKind
		want     Conversion
	}{
		{"identical", Int, Int, Exact},
		{"int to uint", Int, Uint, IntegralConversion},
		{"int8 to int", Int8, Int, IntegralPromotion},
		{"uint8 to uint", Uint8, Uint, IntegralPromotion},
		{"int16 to uint", Int16, Uint, IntegralConversion},
		{"float16 to float", Float16, Float, FloatPromotion},
		{"float to double", Float, Double, FloatPromotion},
		{"double to float", Double, Float, FloatConversion},
		{"int to float", Int, Float, FloatIntegralToFloat},
		{"int to double", Int, Double, FloatIntegralToDouble},
		{"bool to int", Bool, Int, None},
		{"int to bool", Int, Bool, None},
		{"float to int", Float, Int, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertScalar(tt.from, tt.to)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBetter(t *testing.T) {
	assert.True(t, Better(Exact, IntegralPromotion))
	assert.True(t, Better(IntegralPromotion, FloatConversion))
	assert.False(t, Better(None, Exact))
	assert.True(t, Better(Exact, None))
	assert.False(t, Better(Exact, Exact))
}

func TestConvertible(t *testing.T) {
	u := NewUniverse()

	require.Equal(t, Exact, Convertible(u.Scalar(Int), u.Scalar(Int)))
	require.Equal(t, FloatIntegralToFloat, Convertible(u.Scalar(Int), u.Scalar(Float)))
	require.Equal(t, None, Convertible(u.Scalar(Float), u.Scalar(Int)))

	vi3 := u.Vector(Int, 3)
	vf3 := u.Vector(Float, 3)
	vf4 := u.Vector(Float, 4)

	assert.Equal(t, FloatIntegralToFloat, Convertible(vi3, vf3))
	assert.Equal(t, None, Convertible(vi3, vf4), "mismatched vector length never converts")

	m1 := u.Matrix(Float, 3, 3)
	m2 := u.Matrix(Float, 4, 4)
	assert.Equal(t, None, Convertible(m1, m2))

	assert.Equal(t, None, Convertible(nil, u.Scalar(Int)))
	assert.Equal(t, None, Convertible(u.Error(), u.Scalar(Int)))
}

func TestUniverseInterning(t *testing.T) {
	u := NewUniverse()

	v1 := u.Vector(Float, 3)
	v2 := u.Vector(Float, 3)
	assert.Same(t, v1, v2, "same (scalar, n) must return the identical pointer")

	a1 := u.Array(v1, 4)
	a2 := u.Array(v1, 4)
	assert.Same(t, a1, a2)

	assert.Same(t, u.Error(), u.Array(u.Error(), 4), "array of error collapses to error")
}

func TestStructIdentity(t *testing.T) {
	u := NewUniverse()

	a := u.NewStruct("Foo", []Member{{Name: "x", Type: u.Scalar(Float)}}, nil)
	b := u.NewStruct("Foo", []Member{{Name: "x", Type: u.Scalar(Float)}}, nil)

	assert.NotSame(t, a, b, "structurally identical structs are still distinct types")
	assert.Equal(t, None, Convertible(a, b))

	m, ok := a.Member("x")
	require.True(t, ok)
	assert.Equal(t, u.Scalar(Float), m.Type)

	_, ok = a.Member("missing")
	assert.False(t, ok)
}

func TestTypeString(t *testing.T) {
	u := NewUniverse()

	assert.Equal(t, "float", u.Scalar(Float).String())
	assert.Equal(t, "ivec3", u.Vector(Int, 3).String())
	assert.Equal(t, "dmat4", u.Matrix(Double, 4, 4).String())
	assert.Equal(t, "mat3x4", u.Matrix(Float, 3, 4).String())
	assert.Equal(t, "float[4]", u.Array(u.Scalar(Float), 4).String())
	assert.Equal(t, "float[]", u.Array(u.Scalar(Float), 0).String())
	assert.Equal(t, "<error>", (*Type)(nil).String())
}
