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

package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glsld-lang/glsld/types"
)

func TestFindFunctionExactMatchWins(t *testing.T) {
	u := types.NewUniverse()
	table := New()

	intFn := &FunctionEntry{Name: "f", Params: []Param{{Type: u.Scalar(types.Int), Dir: DirIn}}, ReturnType: u.Scalar(types.Int)}
	floatFn := &FunctionEntry{Name: "f", Params: []Param{{Type: u.Scalar(types.Float), Dir: DirIn}}, ReturnType: u.Scalar(types.Float)}
	table.DefineFunction(intFn)
	table.DefineFunction(floatFn)

	res := table.FindFunction("f", []*types.Type{u.Scalar(types.Int)})
	require.NotNil(t, res.Entry)
	assert.Same(t, intFn, res.Entry)
	assert.False(t, res.Ambiguous)
}

func TestFindFunctionBestMatchAmongConvertible(t *testing.T) {
	u := types.NewUniverse()
	table := New()

	floatFn := &FunctionEntry{Name: "g", Params: []Param{{Type: u.Scalar(types.Float), Dir: DirIn}}}
	doubleFn := &FunctionEntry{Name: "g", Params: []Param{{Type: u.Scalar(types.Double), Dir: DirIn}}}
	table.DefineFunction(floatFn)
	table.DefineFunction(doubleFn)

	// int -> float is FloatIntegralToFloat, int -> double is
	// FloatIntegralToDouble; float is preferred.
	res := table.FindFunction("g", []*types.Type{u.Scalar(types.Int)})
	require.NotNil(t, res.Entry)
	assert.Same(t, floatFn, res.Entry)
}

func TestFindFunctionNoCandidate(t *testing.T) {
	u := types.NewUniverse()
	table := New()

	table.DefineFunction(&FunctionEntry{Name: "h", Params: []Param{{Type: u.Scalar(types.Bool), Dir: DirIn}}})

	res := table.FindFunction("h", []*types.Type{u.Scalar(types.Int)})
	assert.Nil(t, res.Entry)
	assert.False(t, res.Ambiguous)
	assert.Empty(t, res.Candidates)
}

func TestFindFunctionWrongArity(t *testing.T) {
	u := types.NewUniverse()
	table := New()

	table.DefineFunction(&FunctionEntry{Name: "k", Params: []Param{{Type: u.Scalar(types.Int), Dir: DirIn}}})

	res := table.FindFunction("k", []*types.Type{u.Scalar(types.Int), u.Scalar(types.Int)})
	assert.Nil(t, res.Entry)
}

func TestFindFunctionOutParameterDirection(t *testing.T) {
	u := types.NewUniverse()
	table := New()

	// an "out float" parameter only needs param->arg convertibility; a
	// float argument receives the float result exactly, but an int
	// argument cannot (float -> int is None, so this candidate is
	// filtered out).
	table.DefineFunction(&FunctionEntry{Name: "modf", Params: []Param{
		{Type: u.Scalar(types.Float), Dir: DirIn},
		{Type: u.Scalar(types.Float), Dir: DirOut},
	}})

	res := table.FindFunction("modf", []*types.Type{u.Scalar(types.Float), u.Scalar(types.Float)})
	require.NotNil(t, res.Entry)

	res = table.FindFunction("modf", []*types.Type{u.Scalar(types.Float), u.Scalar(types.Int)})
	assert.Nil(t, res.Entry, "int cannot receive a float out-parameter result")
}

func TestScopeInsertFirstWins(t *testing.T) {
	s := newScope(ScopeBlock)

	ok := s.Insert(&Binding{Name: "x"})
	assert.True(t, ok)

	ok = s.Insert(&Binding{Name: "x"})
	assert.False(t, ok, "duplicate name in the same scope is rejected")

	all := s.All()
	require.Len(t, all, 1)
}

func TestTableFindSymbolShadowing(t *testing.T) {
	u := types.NewUniverse()
	table := New()

	table.Global().Insert(&Binding{Name: "x", Type: u.Scalar(types.Int)})
	table.Push(ScopeBlock)
	table.Current().Insert(&Binding{Name: "x", Type: u.Scalar(types.Float)})

	b, ok := table.FindSymbol("x")
	require.True(t, ok)
	assert.Equal(t, u.Scalar(types.Float), b.Type, "inner scope shadows the outer declaration")

	table.Pop()

	b, ok = table.FindSymbol("x")
	require.True(t, ok)
	assert.Equal(t, u.Scalar(types.Int), b.Type)
}

func TestTablePopGlobalPanics(t *testing.T) {
	table := New()
	assert.Panics(t, func() { table.Pop() })
}
