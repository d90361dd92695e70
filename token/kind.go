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

package token

// Kind is the closed enumeration of preprocessing-token categories
// (spec.md §3 TokenKind).
type Kind int

const (
	Invalid Kind = iota
	Error        // malformed token recovered from a lexical error
	Eof

	Identifier
	IntegerConstant
	FloatConstant
	QuotedString // "..." as seen after #include
	AngleString  // <...> as seen after #include
	Comment

	Hash     // '#' at the start of a directive line
	HashHash // '##' token-pasting operator (out of scope, see DESIGN.md)

	// Punctuators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Dot
	Comma
	Semicolon
	Colon
	Question

	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Pipe
	Caret
	Tilde
	Bang
	Less
	Greater
	Equal

	PlusPlus
	MinusMinus
	LShift
	RShift
	LessEqual
	GreaterEqual
	EqualEqual
	BangEqual
	AmpAmp
	PipePipe
	CaretCaret

	PlusEqual
	MinusEqual
	StarEqual
	SlashEqual
	PercentEqual
	AmpEqual
	PipeEqual
	CaretEqual
	LShiftEqual
	RShiftEqual

	firstKeyword
	// Keywords, one entry per keyword (spec.md §3).
	KwConst
	KwUniform
	KwBuffer
	KwShared
	KwIn
	KwOut
	KwInout
	KwLayout
	KwCentroid
	KwFlat
	KwSmooth
	KwNoperspective
	KwPatch
	KwSample
	KwCoherent
	KwVolatile
	KwRestrict
	KwReadonly
	KwWriteonly
	KwPrecise
	KwHighp
	KwMediump
	KwLowp
	KwPrecision

	KwStruct
	KwVoid
	KwBool
	KwInt
	KwUint
	KwFloat
	KwDouble

	KwVec2
	KwVec3
	KwVec4
	KwIvec2
	KwIvec3
	KwIvec4
	KwUvec2
	KwUvec3
	KwUvec4
	KwBvec2
	KwBvec3
	KwBvec4
	KwDvec2
	KwDvec3
	KwDvec4

	KwMat2
	KwMat3
	KwMat4
	KwMat2x2
	KwMat2x3
	KwMat2x4
	KwMat3x2
	KwMat3x3
	KwMat3x4
	KwMat4x2
	KwMat4x3
	KwMat4x4

	KwSampler2D
	KwSampler3D
	KwSamplerCube
	KwSampler2DArray
	KwImage2D

	KwIf
	KwElse
	KwSwitch
	KwCase
	KwDefault
	KwFor
	KwWhile
	KwDo
	KwBreak
	KwContinue
	KwReturn
	KwDiscard
	KwTrue
	KwFalse

	lastKeyword
)

// keywordAtoms maps the textual spelling of every keyword to its Kind. The
// tokenizer rewrites an Identifier token's Kind to the keyword Kind when its
// interned text matches one of these entries (spec.md §4.2).
var keywordAtoms = map[string]Kind{
	"const": KwConst, "uniform": KwUniform, "buffer": KwBuffer, "shared": KwShared,
	"in": KwIn, "out": KwOut, "inout": KwInout, "layout": KwLayout,
	"centroid": KwCentroid, "flat": KwFlat, "smooth": KwSmooth, "noperspective": KwNoperspective,
	"patch": KwPatch, "sample": KwSample, "coherent": KwCoherent, "volatile": KwVolatile,
	"restrict": KwRestrict, "readonly": KwReadonly, "writeonly": KwWriteonly, "precise": KwPrecise,
	"highp": KwHighp, "mediump": KwMediump, "lowp": KwLowp, "precision": KwPrecision,
	"struct": KwStruct, "void": KwVoid, "bool": KwBool, "int": KwInt, "uint": KwUint,
	"float": KwFloat, "double": KwDouble,
	"vec2": KwVec2, "vec3": KwVec3, "vec4": KwVec4,
	"ivec2": KwIvec2, "ivec3": KwIvec3, "ivec4": KwIvec4,
	"uvec2": KwUvec2, "uvec3": KwUvec3, "uvec4": KwUvec4,
	"bvec2": KwBvec2, "bvec3": KwBvec3, "bvec4": KwBvec4,
	"dvec2": KwDvec2, "dvec3": KwDvec3, "dvec4": KwDvec4,
	"mat2": KwMat2, "mat3": KwMat3, "mat4": KwMat4,
	"mat2x2": KwMat2x2, "mat2x3": KwMat2x3, "mat2x4": KwMat2x4,
	"mat3x2": KwMat3x2, "mat3x3": KwMat3x3, "mat3x4": KwMat3x4,
	"mat4x2": KwMat4x2, "mat4x3": KwMat4x3, "mat4x4": KwMat4x4,
	"sampler2D": KwSampler2D, "sampler3D": KwSampler3D, "samplerCube": KwSamplerCube,
	"sampler2DArray": KwSampler2DArray, "image2D": KwImage2D,
	"if": KwIf, "else": KwElse, "switch": KwSwitch, "case": KwCase, "default": KwDefault,
	"for": KwFor, "while": KwWhile, "do": KwDo, "break": KwBreak, "continue": KwContinue,
	"return": KwReturn, "discard": KwDiscard, "true": KwTrue, "false": KwFalse,
}

// LookupKeyword returns the keyword Kind for text, or (Invalid, false) if
// text is not a keyword.
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywordAtoms[text]
	return k, ok
}

// IsKeyword reports whether k is one of the per-keyword Kind values.
func IsKeyword(k Kind) bool {
	return k > firstKeyword && k < lastKeyword
}

// IsTypeKeyword reports whether k spells a built-in scalar/vector/matrix/
// sampler type name, as opposed to a qualifier or control-flow keyword.
func IsTypeKeyword(k Kind) bool {
	return k >= KwVoid && k <= KwImage2D
}

var kindNames = map[Kind]string{
	Invalid: "<invalid>", Error: "<error>", Eof: "<eof>",
	Identifier: "identifier", IntegerConstant: "integer", FloatConstant: "float",
	QuotedString: "string", AngleString: "<string>", Comment: "comment",
	Hash: "#", HashHash: "##",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Dot: ".", Comma: ",", Semicolon: ";", Colon: ":", Question: "?",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", Bang: "!", Less: "<", Greater: ">", Equal: "=",
	PlusPlus: "++", MinusMinus: "--", LShift: "<<", RShift: ">>",
	LessEqual: "<=", GreaterEqual: ">=", EqualEqual: "==", BangEqual: "!=",
	AmpAmp: "&&", PipePipe: "||", CaretCaret: "^^",
	PlusEqual: "+=", MinusEqual: "-=", StarEqual: "*=", SlashEqual: "/=", PercentEqual: "%=",
	AmpEqual: "&=", PipeEqual: "|=", CaretEqual: "^=", LShiftEqual: "<<=", RShiftEqual: ">>=",
}

// String renders a human-readable spelling for k, used in diagnostics.
func (k Kind) String() string {
	if IsKeyword(k) {
		for text, kk := range keywordAtoms {
			if kk == k {
				return text
			}
		}
	}

	if s, ok := kindNames[k]; ok {
		return s
	}

	return "?"
}
