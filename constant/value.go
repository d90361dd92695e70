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

// Package constant is the compile-time constant-folding engine (spec.md
// §4.8), invoked by the AST builder on every expression and on every
// ArraySpec dimension.
package constant

import "github.com/glsld-lang/glsld/types"

// Value is either an error value or a scalar/vector/matrix tuple
// (scalarKind, rows, cols, buffer), matching spec.md §4.8 exactly. Rows
// and Cols are both 1 for a scalar, Cols is 1 for a vector of length
// Rows, and a matrix has both > 1.
type Value struct {
	Error bool
	Kind  types.ScalarKind
	Rows  int
	Cols  int
	Elems []elem
}

// elem stores one component's bit pattern in whichever field matches its
// scalar kind; only one of b/i/u/f is meaningful for a given Kind.
type elem struct {
	b bool
	i int64
	u uint64
	f float64
}

// ErrorValue is the bottom constant value: convertible to and from
// everything, and propagates through every operation below.
var ErrorValue = Value{Error: true}

// Bool wraps a single boolean constant.
func Bool(b bool) Value {
	return Value{Kind: types.Bool, Rows: 1, Cols: 1, Elems: []elem{{b: b}}}
}

// Int wraps a single signed-integer constant.
func Int(i int64) Value {
	return Value{Kind: types.Int, Rows: 1, Cols: 1, Elems: []elem{{i: i}}}
}

// Uint wraps a single unsigned-integer constant.
func Uint(u uint64) Value {
	return Value{Kind: types.Uint, Rows: 1, Cols: 1, Elems: []elem{{u: u}}}
}

// Float wraps a single single-precision float constant.
func Float(f float64) Value {
	return Value{Kind: types.Float, Rows: 1, Cols: 1, Elems: []elem{{f: float64(float32(f))}}}
}

// Double wraps a single double-precision float constant.
func Double(f float64) Value {
	return Value{Kind: types.Double, Rows: 1, Cols: 1, Elems: []elem{{f: f}}}
}

// Vector builds a vector constant of kind with the given components; its length is len(comp).
func Vector(kind types.ScalarKind, comp []elem) Value {
	return Value{Kind: kind, Rows: len(comp), Cols: 1, Elems: comp}
}

func (v Value) IsScalar() bool { return !v.Error && v.Rows == 1 && v.Cols == 1 }
func (v Value) IsVector() bool { return !v.Error && v.Rows > 1 && v.Cols == 1 }
func (v Value) IsMatrix() bool { return !v.Error && v.Cols > 1 }

// AsBool returns the scalar bool payload; only valid when IsScalar and Kind == types.Bool.
func (v Value) AsBool() bool { return v.Elems[0].b }

// AsInt returns the first element's signed-integer payload.
func (v Value) AsInt() int64 { return v.Elems[0].i }

// Type reconstructs the universe Type this value would have, used by the
// AST builder to stamp an expression's deduced type from its folded
// constant (e.g. the element count result of a length() fold).
func (v Value) Type(u *types.Universe) *types.Type {
	if v.Error {
		return u.Error()
	}

	switch {
	case v.Rows == 1 && v.Cols == 1:
		return u.Scalar(v.Kind)
	case v.Cols == 1:
		return u.Vector(v.Kind, v.Rows)
	default:
		return u.Matrix(v.Kind, v.Rows, v.Cols)
	}
}

func sameShape(a, b Value) bool {
	return a.Kind == b.Kind && a.Rows == b.Rows && a.Cols == b.Cols
}

func floatBits(kind types.ScalarKind, f float64) float64 {
	if kind == types.Float || kind == types.Float16 {
		return float64(float32(f))
	}

	return f
}

func isFloatKind(k types.ScalarKind) bool {
	return k == types.Float || k == types.Double || k == types.Float16
}

func isSignedKind(k types.ScalarKind) bool {
	return k == types.Int || k == types.Int8 || k == types.Int16 || k == types.Int64
}

// isZero reports whether element e of scalar kind k is zero, used to detect
// division/modulo by zero componentwise.
func isZero(k types.ScalarKind, e elem) bool {
	switch {
	case isFloatKind(k):
		return e.f == 0
	case isSignedKind(k):
		return e.i == 0
	default:
		return e.u == 0
	}
}
