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

// Package types is the canonicalised GLSL type universe (spec.md §3/§4.6):
// immutable, pointer-comparable Type values plus the arithmetic-conversion
// and overload-ranking relations the symbol table's overload resolution
// (package symtab) and the AST builder (package ast) both depend on.
package types

// ScalarKind enumerates the built-in scalar element kinds.
type ScalarKind int

const (
	Bool ScalarKind = iota
	Int
	Uint
	Float
	Double
	Int8
	Int16
	Int64
	Uint8
	Uint16
	Uint64
	Float16

	numScalarKinds
)

func (k ScalarKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Float:
		return "float"
	case Double:
		return "double"
	case Int8:
		return "int8_t"
	case Int16:
		return "int16_t"
	case Int64:
		return "int64_t"
	case Uint8:
		return "uint8_t"
	case Uint16:
		return "uint16_t"
	case Uint64:
		return "uint64_t"
	case Float16:
		return "float16_t"
	default:
		return "?"
	}
}

// Tag is the closed set of Type shapes (spec.md §3).
type Tag int

const (
	TagError Tag = iota
	TagScalar
	TagVector
	TagMatrix
	TagArray
	TagStruct
	TagSampler
	TagImage
	TagOpaque
)

// Member is one named field of a Struct type.
type Member struct {
	Name string
	Type *Type
}

// Type is immutable once constructed. Built-in scalar/vector/matrix/array
// values are interned by Universe and therefore pointer-comparable; Struct
// values are allocated once per StructDecl and never interned, matching
// spec.md's "structural equality is not used, identity is" rule.
type Type struct {
	Tag    Tag
	Scalar ScalarKind // valid when Tag is Scalar, Vector, or Matrix (element kind)
	N      int        // vector length, or matrix row count
	Cols   int         // matrix column count

	Elem *Type // array element type
	Size int    // array size; 0 means runtime-sized

	StructName string
	Members    []Member
	Decl       interface{} // weak back-reference to the owning *ast.Node (spec.md §9 "Parent/child cycles")

	Descriptor string // sampler/image/opaque spelling, e.g. "sampler2D"
}

func (t *Type) IsError() bool  { return t == nil || t.Tag == TagError }
func (t *Type) IsScalar() bool { return t.Tag == TagScalar }
func (t *Type) IsVector() bool { return t.Tag == TagVector }
func (t *Type) IsMatrix() bool { return t.Tag == TagMatrix }
func (t *Type) IsArray() bool  { return t.Tag == TagArray }
func (t *Type) IsStruct() bool { return t.Tag == TagStruct }

// String renders the GLSL spelling of t, used in diagnostics and hover text.
func (t *Type) String() string {
	if t == nil {
		return "<error>"
	}

	switch t.Tag {
	case TagError:
		return "<error>"
	case TagScalar:
		return t.Scalar.String()
	case TagVector:
		return vectorName(t.Scalar, t.N)
	case TagMatrix:
		return matrixName(t.Scalar, t.N, t.Cols)
	case TagArray:
		if t.Size == 0 {
			return t.Elem.String() + "[]"
		}

		return t.Elem.String() + "[" + itoa(t.Size) + "]"
	case TagStruct:
		return t.StructName
	case TagSampler, TagImage, TagOpaque:
		return t.Descriptor
	default:
		return "?"
	}
}

func vectorName(k ScalarKind, n int) string {
	prefix := ""

	switch k {
	case Int:
		prefix = "i"
	case Uint:
		prefix = "u"
	case Bool:
		prefix = "b"
	case Double:
		prefix = "d"
	case Float:
		prefix = ""
	}

	return prefix + "vec" + itoa(n)
}

func matrixName(k ScalarKind, rows, cols int) string {
	prefix := ""
	if k == Double {
		prefix = "d"
	}

	if rows == cols {
		return prefix + "mat" + itoa(rows)
	}

	return prefix + "mat" + itoa(rows) + "x" + itoa(cols)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte
	i := len(buf)

	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

type vectorKey struct {
	scalar ScalarKind
	n      int
}

type matrixKey struct {
	scalar     ScalarKind
	rows, cols int
}

type arrayKey struct {
	elem *Type
	size int
}

// Universe lazily interns every built-in Type value reachable in one
// compilation, caching arrays by (element, size) as spec.md §3 requires.
// One Universe is created per Compilation; a compilation that inherits a
// preamble reuses the preamble's Universe and interns further types into it.
type Universe struct {
	errorType *Type
	scalars   [numScalarKinds]*Type
	vectors   map[vectorKey]*Type
	matrices  map[matrixKey]*Type
	arrays    map[arrayKey]*Type
	samplers  map[string]*Type
}

// NewUniverse creates a Universe with every scalar kind pre-interned.
func NewUniverse() *Universe {
	u := &Universe{
		errorType: &Type{Tag: TagError},
		vectors:   make(map[vectorKey]*Type),
		matrices:  make(map[matrixKey]*Type),
		arrays:    make(map[arrayKey]*Type),
		samplers:  make(map[string]*Type),
	}

	for k := ScalarKind(0); k < numScalarKinds; k++ {
		u.scalars[k] = &Type{Tag: TagScalar, Scalar: k}
	}

	return u
}

func (u *Universe) Error() *Type { return u.errorType }

func (u *Universe) Scalar(k ScalarKind) *Type { return u.scalars[k] }

func (u *Universe) Vector(k ScalarKind, n int) *Type {
	key := vectorKey{k, n}

	if t, ok := u.vectors[key]; ok {
		return t
	}

	t := &Type{Tag: TagVector, Scalar: k, N: n}
	u.vectors[key] = t

	return t
}

func (u *Universe) Matrix(k ScalarKind, rows, cols int) *Type {
	key := matrixKey{k, rows, cols}

	if t, ok := u.matrices[key]; ok {
		return t
	}

	t := &Type{Tag: TagMatrix, Scalar: k, N: rows, Cols: cols}
	u.matrices[key] = t

	return t
}

// Array returns the (cached) array type over elem with the given size (0
// meaning runtime-sized). Array(Error, _) collapses to Error, per spec.md
// §3.
func (u *Universe) Array(elem *Type, size int) *Type {
	if elem.IsError() {
		return u.errorType
	}

	key := arrayKey{elem, size}

	if t, ok := u.arrays[key]; ok {
		return t
	}

	t := &Type{Tag: TagArray, Elem: elem, Size: size}
	u.arrays[key] = t

	return t
}

// Sampler/Image/Opaque interns descriptor types like "sampler2D" by their
// textual spelling; GLSL never parameterises them beyond the name.
func (u *Universe) Sampler(descriptor string) *Type { return u.opaque(TagSampler, descriptor) }
func (u *Universe) Image(descriptor string) *Type   { return u.opaque(TagImage, descriptor) }
func (u *Universe) Opaque(descriptor string) *Type  { return u.opaque(TagOpaque, descriptor) }

func (u *Universe) opaque(tag Tag, descriptor string) *Type {
	if t, ok := u.samplers[descriptor]; ok {
		return t
	}

	t := &Type{Tag: tag, Descriptor: descriptor}
	u.samplers[descriptor] = t

	return t
}

// NewStruct allocates a fresh, never-interned struct type, owned by the
// AST arena's StructDecl node (decl). Two structurally identical structs
// declared twice are deliberately distinct types (spec.md §3: "structural
// equality is not used, identity is").
func (u *Universe) NewStruct(name string, members []Member, decl interface{}) *Type {
	return &Type{Tag: TagStruct, StructName: name, Members: members, Decl: decl}
}

// Member looks up a struct member by name.
func (t *Type) Member(name string) (Member, bool) {
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}

	return Member{}, false
}
