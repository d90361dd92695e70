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

import "github.com/glsld-lang/glsld/types"

// UnaryOp implements spec.md §4.8's unary operators: identity, negate,
// bit-not (integrals), logical-not (bool), and length (vectors/matrices
// return their component/column count).
func UnaryOp(op string, v Value) Value {
	if v.Error {
		return ErrorValue
	}

	switch op {
	case "+":
		return v
	case "-":
		return perElem(v, func(e elem) elem { return negateElem(v.Kind, e) })
	case "~":
		if isFloatKind(v.Kind) || v.Kind == types.Bool {
			return ErrorValue
		}

		return perElem(v, func(e elem) elem { return elem{i: ^e.i, u: ^e.u} })
	case "!":
		if v.Kind != types.Bool {
			return ErrorValue
		}

		return perElem(v, func(e elem) elem { return elem{b: !e.b} })
	case "length":
		if v.Cols > 1 {
			return Int(int64(v.Cols))
		}

		return Int(int64(v.Rows))
	default:
		return ErrorValue
	}
}

func negateElem(k types.ScalarKind, e elem) elem {
	if isFloatKind(k) {
		return elem{f: floatBits(k, -e.f)}
	}

	if isSignedKind(k) {
		return elem{i: -e.i}
	}

	return elem{u: -e.u}
}

func perElem(v Value, f func(elem) elem) Value {
	out := make([]elem, len(v.Elems))

	for i, e := range v.Elems {
		out[i] = f(e)
	}

	return Value{Kind: v.Kind, Rows: v.Rows, Cols: v.Cols, Elems: out}
}

// BinaryOp implements spec.md §4.8's binary operators. Both operands must
// already share identical type (no implicit coercion happens here; the
// AST builder inserts explicit ImplicitCast nodes before folding).
func BinaryOp(op string, a, b Value) Value {
	if a.Error || b.Error {
		return ErrorValue
	}

	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return compare(op, a, b)
	case "&&", "||", "^^":
		return logical(op, a, b)
	}

	if !sameShape(a, b) {
		return ErrorValue
	}

	switch op {
	case "+", "-", "*", "/", "%":
		return arith(op, a, b)
	case "&", "|", "^", "<<", ">>":
		return bitwise(op, a, b)
	default:
		return ErrorValue
	}
}

func arith(op string, a, b Value) Value {
	out := make([]elem, len(a.Elems))

	for i := range a.Elems {
		ea, eb := a.Elems[i], b.Elems[i]

		switch {
		case isFloatKind(a.Kind):
			var r float64

			switch op {
			case "+":
				r = ea.f + eb.f
			case "-":
				r = ea.f - eb.f
			case "*":
				r = ea.f * eb.f
			case "/":
				if eb.f == 0 {
					return ErrorValue
				}

				r = ea.f / eb.f
			default:
				return ErrorValue
			}

			out[i] = elem{f: floatBits(a.Kind, r)}
		case isSignedKind(a.Kind):
			if (op == "/" || op == "%") && eb.i == 0 {
				return ErrorValue
			}

			var r int64

			switch op {
			case "+":
				r = ea.i + eb.i
			case "-":
				r = ea.i - eb.i
			case "*":
				r = ea.i * eb.i
			case "/":
				r = ea.i / eb.i
			case "%":
				r = ea.i % eb.i
			}

			out[i] = elem{i: r}
		default:
			if (op == "/" || op == "%") && eb.u == 0 {
				return ErrorValue
			}

			var r uint64

			switch op {
			case "+":
				r = ea.u + eb.u
			case "-":
				r = ea.u - eb.u
			case "*":
				r = ea.u * eb.u
			case "/":
				r = ea.u / eb.u
			case "%":
				r = ea.u % eb.u
			}

			out[i] = elem{u: r}
		}
	}

	return Value{Kind: a.Kind, Rows: a.Rows, Cols: a.Cols, Elems: out}
}

func bitwise(op string, a, b Value) Value {
	if isFloatKind(a.Kind) || a.Kind == types.Bool {
		return ErrorValue
	}

	out := make([]elem, len(a.Elems))

	for i := range a.Elems {
		ea, eb := a.Elems[i], b.Elems[i]

		if isSignedKind(a.Kind) {
			var r int64

			switch op {
			case "&":
				r = ea.i & eb.i
			case "|":
				r = ea.i | eb.i
			case "^":
				r = ea.i ^ eb.i
			case "<<":
				r = ea.i << uint(eb.i)
			case ">>":
				r = ea.i >> uint(eb.i)
			}

			out[i] = elem{i: r}

			continue
		}

		var r uint64

		switch op {
		case "&":
			r = ea.u & eb.u
		case "|":
			r = ea.u | eb.u
		case "^":
			r = ea.u ^ eb.u
		case "<<":
			r = ea.u << eb.u
		case ">>":
			r = ea.u >> eb.u
		}

		out[i] = elem{u: r}
	}

	return Value{Kind: a.Kind, Rows: a.Rows, Cols: a.Cols, Elems: out}
}

func compare(op string, a, b Value) Value {
	if !sameShape(a, b) || !a.IsScalar() {
		if op == "==" || op == "!=" {
			eq := sameShape(a, b) && elemsEqual(a, b)
			if op == "!=" {
				eq = !eq
			}

			return Bool(eq)
		}

		return ErrorValue
	}

	ea, eb := a.Elems[0], b.Elems[0]

	var less, equal bool

	switch {
	case isFloatKind(a.Kind):
		less, equal = ea.f < eb.f, ea.f == eb.f
	case isSignedKind(a.Kind):
		less, equal = ea.i < eb.i, ea.i == eb.i
	case a.Kind == types.Bool:
		equal = ea.b == eb.b
	default:
		less, equal = ea.u < eb.u, ea.u == eb.u
	}

	switch op {
	case "==":
		return Bool(equal)
	case "!=":
		return Bool(!equal)
	case "<":
		return Bool(less)
	case "<=":
		return Bool(less || equal)
	case ">":
		return Bool(!less && !equal)
	case ">=":
		return Bool(!less || equal)
	default:
		return ErrorValue
	}
}

func elemsEqual(a, b Value) bool {
	for i := range a.Elems {
		ea, eb := a.Elems[i], b.Elems[i]

		switch {
		case isFloatKind(a.Kind):
			if ea.f != eb.f {
				return false
			}
		case a.Kind == types.Bool:
			if ea.b != eb.b {
				return false
			}
		case isSignedKind(a.Kind):
			if ea.i != eb.i {
				return false
			}
		default:
			if ea.u != eb.u {
				return false
			}
		}
	}

	return true
}

func logical(op string, a, b Value) Value {
	if a.Kind != types.Bool || b.Kind != types.Bool || !a.IsScalar() || !b.IsScalar() {
		return ErrorValue
	}

	x, y := a.AsBool(), b.AsBool()

	switch op {
	case "&&":
		return Bool(x && y)
	case "||":
		return Bool(x || y)
	case "^^":
		return Bool(x != y)
	default:
		return ErrorValue
	}
}

// TernaryOp folds `cond ? a : b`; cond must be a scalar bool.
func TernaryOp(cond, a, b Value) Value {
	if cond.Error || a.Error || b.Error {
		return ErrorValue
	}

	if cond.Kind != types.Bool || !cond.IsScalar() {
		return ErrorValue
	}

	if cond.AsBool() {
		return a
	}

	return b
}

// Index folds `v[i]`: for a vector, returns the i-th component as a
// scalar; for a matrix, returns the i-th column as a vector.
func Index(v, i Value) Value {
	if v.Error || i.Error || !i.IsScalar() || isFloatKind(i.Kind) || i.Kind == types.Bool {
		return ErrorValue
	}

	idx := int(i.AsInt())

	if v.Cols > 1 {
		if idx < 0 || idx >= v.Cols {
			return ErrorValue
		}

		col := make([]elem, v.Rows)

		for r := 0; r < v.Rows; r++ {
			col[r] = v.Elems[idx*v.Rows+r]
		}

		return Vector(v.Kind, col)
	}

	if idx < 0 || idx >= v.Rows {
		return ErrorValue
	}

	return Value{Kind: v.Kind, Rows: 1, Cols: 1, Elems: []elem{v.Elems[idx]}}
}

// Swizzle extracts components at the given 0-based indices (already
// resolved from a char-set like "xyzw") into a new constant, a scalar
// when exactly one component is selected.
func Swizzle(v Value, indices []int) Value {
	if v.Error || v.Cols > 1 {
		return ErrorValue
	}

	out := make([]elem, len(indices))

	for i, idx := range indices {
		if idx < 0 || idx >= v.Rows {
			return ErrorValue
		}

		out[i] = v.Elems[idx]
	}

	if len(out) == 1 {
		return Value{Kind: v.Kind, Rows: 1, Cols: 1, Elems: out}
	}

	return Vector(v.Kind, out)
}
