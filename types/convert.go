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

// Conversion ranks the implicit conversion from one scalar/vector/matrix
// type to another, ordered worst (None) to best (Exact). Package symtab's
// overload resolution (spec.md §4.7) compares two Conversion values with
// Better to pick the winning candidate.
type Conversion int

const (
	// None means the two types are not implicitly convertible.
	None Conversion = iota
	FloatIntegralToDouble
	FloatIntegralToFloat
	FloatConversion
	IntegralConversion
	FloatPromotion
	IntegralPromotion
	Exact
)

// rank gives each Conversion its position in the preference order spec.md
// §4.7 specifies: "exact > integral promotion > FP promotion > integral
// conversion > FP conversion > FP/integral conversion", with float
// preferred over double among the FP/integral conversions. Conversion's
// own int values already increase with preference, so rank is just the
// identity; it exists to make callers' intent explicit rather than
// comparing raw Conversion values.
func rank(c Conversion) int { return int(c) }

// Better reports whether conversion a is strictly preferred over b. None
// is never better than anything, including itself.
func Better(a, b Conversion) bool {
	if a == None {
		return false
	}

	if b == None {
		return true
	}

	return rank(a) > rank(b)
}

var integralKinds = map[ScalarKind]bool{
	Int: true, Uint: true, Int8: true, Int16: true, Int64: true,
	Uint8: true, Uint16: true, Uint64: true,
}

var floatKinds = map[ScalarKind]bool{
	Float: true, Double: true, Float16: true,
}

// narrowIntegralKinds promote to Int or Uint without loss of the original
// sign, matching the usual C-family "integral promotion" rule.
var narrowIntegralKinds = map[ScalarKind]bool{
	Int8: true, Int16: true, Uint8: true, Uint16: true,
}

// ConvertScalar classifies the implicit conversion from one scalar kind to
// another (spec.md §4.7's per-scalar-pair rule, which Convertible lifts
// pointwise across vectors and matrices).
func ConvertScalar(from, to ScalarKind) Conversion {
	if from == to {
		return Exact
	}

	if from == Bool || to == Bool {
		return None
	}

	fromFloat, toFloat := floatKinds[from], floatKinds[to]

	switch {
	case !fromFloat && !toFloat:
		signedNarrow := from == Int8 || from == Int16
		if narrowIntegralKinds[from] && (to == Int || (to == Uint && !signedNarrow)) {
			return IntegralPromotion
		}

		return IntegralConversion
	case fromFloat && toFloat:
		if from == Float16 {
			return FloatPromotion
		}

		if from == Float && to == Double {
			return FloatPromotion
		}

		return FloatConversion
	case !fromFloat && toFloat:
		if to == Float {
			return FloatIntegralToFloat
		}

		return FloatIntegralToDouble
	default:
		// float -> integral narrows and GLSL never performs it implicitly.
		return None
	}
}

// Convertible reports the implicit-conversion rank from "from" to "to",
// lifting the scalar rule pointwise across vectors and matrices of
// matching shape; arrays, structs, and opaque types only convert to
// themselves (pointer identity).
func Convertible(from, to *Type) Conversion {
	if from == nil || to == nil || from.IsError() || to.IsError() {
		return None
	}

	if from == to {
		return Exact
	}

	switch {
	case from.Tag == TagScalar && to.Tag == TagScalar:
		return ConvertScalar(from.Scalar, to.Scalar)
	case from.Tag == TagVector && to.Tag == TagVector:
		if from.N != to.N {
			return None
		}

		return ConvertScalar(from.Scalar, to.Scalar)
	case from.Tag == TagMatrix && to.Tag == TagMatrix:
		if from.N != to.N || from.Cols != to.Cols {
			return None
		}

		return ConvertScalar(from.Scalar, to.Scalar)
	default:
		// Array, struct, sampler/image/opaque: identity only, already
		// handled by the from == to check above.
		return None
	}
}
