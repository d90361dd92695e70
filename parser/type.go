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

package parser

import (
	"github.com/glsld-lang/glsld/ast"
	"github.com/glsld-lang/glsld/lexcontext"
	"github.com/glsld-lang/glsld/symtab"
	"github.com/glsld-lang/glsld/token"
	"github.com/glsld-lang/glsld/types"
	"github.com/glsld-lang/glsld/util"
)

var qualifierKeywords = map[token.Kind]ast.QualifierGroup{
	token.KwConst:         ast.QualConst,
	token.KwUniform:       ast.QualUniform,
	token.KwBuffer:        ast.QualBuffer,
	token.KwShared:        ast.QualShared,
	token.KwIn:            ast.QualIn,
	token.KwOut:           ast.QualOut,
	token.KwInout:         ast.QualInOut,
	token.KwHighp:         ast.QualHighp,
	token.KwMediump:       ast.QualMediump,
	token.KwLowp:          ast.QualLowp,
	token.KwFlat:          ast.QualFlat,
	token.KwSmooth:        ast.QualSmooth,
	token.KwNoperspective: ast.QualNoperspective,
	token.KwCentroid:      ast.QualCentroid,
	token.KwSample:        ast.QualSample,
	token.KwCoherent:      ast.QualCoherent,
	token.KwVolatile:      ast.QualVolatile,
	token.KwRestrict:      ast.QualRestrict,
	token.KwReadonly:      ast.QualReadonly,
	token.KwWriteonly:     ast.QualWriteonly,
	token.KwPrecise:       ast.QualPrecise,
}

// parseQualifiers consumes every qualifier keyword and layout(...) block
// preceding a declaration (spec.md §4.5).
func (p *Parser) parseQualifiers() ast.Qualifiers {
	q := ast.Qualifiers{Layout: util.NewLayoutQualifiers()}

	for {
		if p.at(token.KwLayout) {
			p.next()
			p.parseLayoutQualifier(&q.Layout)

			continue
		}

		bit, ok := qualifierKeywords[p.peek().Kind]
		if !ok {
			break
		}

		p.next()
		q.Group |= bit
	}

	return q
}

// parseLayoutQualifier parses `layout ( id [= expr] , ... )`. A well-known
// identifier (`binding`, `location`, `local_size_x`, ...) is folded to its
// typed integer value; anything else — a vendor or extension qualifier
// such as `std430` or `push_constant` — is kept as a raw key/value pair.
// Later occurrences on the same declaration win.
func (p *Parser) parseLayoutQualifier(list *util.LayoutQualifiers) {
	p.expect(token.LParen)

	for !p.at(token.RParen) && !p.atEnd() {
		key := p.expect(token.Identifier).String()
		value := ""
		hasValue := false

		if _, ok := p.accept(token.Equal); ok {
			value = p.expect(token.IntegerConstant).String()
			hasValue = true
		}

		if id := util.LookupLayoutID(key); id != util.LayoutUnknown {
			n := 0
			if hasValue {
				n = int(parseIntegerLiteral(value).AsInt())
			}

			list.SetInt(id, n)
		} else {
			list.SetExtra(key, value)
		}

		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}

	p.expect(token.RParen)
}

var builtinScalarKeywords = map[token.Kind]types.ScalarKind{
	token.KwBool: types.Bool, token.KwInt: types.Int, token.KwUint: types.Uint,
	token.KwFloat: types.Float, token.KwDouble: types.Double,
}

var vectorKeywords = map[token.Kind]struct {
	Kind types.ScalarKind
	N    int
}{
	token.KwVec2: {types.Float, 2}, token.KwVec3: {types.Float, 3}, token.KwVec4: {types.Float, 4},
	token.KwIvec2: {types.Int, 2}, token.KwIvec3: {types.Int, 3}, token.KwIvec4: {types.Int, 4},
	token.KwUvec2: {types.Uint, 2}, token.KwUvec3: {types.Uint, 3}, token.KwUvec4: {types.Uint, 4},
	token.KwBvec2: {types.Bool, 2}, token.KwBvec3: {types.Bool, 3}, token.KwBvec4: {types.Bool, 4},
	token.KwDvec2: {types.Double, 2}, token.KwDvec3: {types.Double, 3}, token.KwDvec4: {types.Double, 4},
}

var matrixKeywords = map[token.Kind]struct{ Rows, Cols int }{
	token.KwMat2: {2, 2}, token.KwMat3: {3, 3}, token.KwMat4: {4, 4},
	token.KwMat2x2: {2, 2}, token.KwMat2x3: {2, 3}, token.KwMat2x4: {2, 4},
	token.KwMat3x2: {3, 2}, token.KwMat3x3: {3, 3}, token.KwMat3x4: {3, 4},
	token.KwMat4x2: {4, 2}, token.KwMat4x3: {4, 3}, token.KwMat4x4: {4, 4},
}

var samplerKeywords = map[token.Kind]string{
	token.KwSampler2D: "sampler2D", token.KwSampler3D: "sampler3D",
	token.KwSamplerCube: "samplerCube", token.KwSampler2DArray: "sampler2DArray",
	token.KwImage2D: "image2D",
}

// isTypeStart reports whether the next token can begin a type-specifier,
// distinguishing a declaration from an expression statement without
// backtracking (spec.md §4.5 "type-specifier-vs-identifier
// disambiguation").
func (p *Parser) isTypeStart() bool {
	k := p.peek().Kind

	if k == token.KwVoid || k == token.KwStruct {
		return true
	}

	if _, ok := builtinScalarKeywords[k]; ok {
		return true
	}

	if _, ok := vectorKeywords[k]; ok {
		return true
	}

	if _, ok := matrixKeywords[k]; ok {
		return true
	}

	if _, ok := samplerKeywords[k]; ok {
		return true
	}

	if k == token.Identifier {
		// A bare identifier only starts a type when it names a struct
		// previously declared; variable/function names fall through to
		// expression parsing.
		if b, ok := p.symbols.FindSymbol(p.peek().String()); ok {
			return b.Type != nil && b.Type.IsStruct()
		}
	}

	return false
}

// parseTypeSpecifier parses a base type name (builtin or a previously
// declared struct name) and resolves it to a *types.Type, building a
// QualType node around it.
func (p *Parser) parseTypeSpecifier() ast.NodeID {
	begin := p.curTokenID()
	tok := p.next()

	var resolved *types.Type
	structDecl := ast.InvalidNode

	switch {
	case tok.Kind == token.KwVoid:
		resolved = nil // void: FunctionDecl parsing checks for the raw keyword rather than a Type
	case tok.Kind == token.KwStruct:
		return p.parseStructSpecifier(begin)
	default:
		if sk, ok := builtinScalarKeywords[tok.Kind]; ok {
			resolved = p.units.Scalar(sk)
		} else if v, ok := vectorKeywords[tok.Kind]; ok {
			resolved = p.units.Vector(v.Kind, v.N)
		} else if m, ok := matrixKeywords[tok.Kind]; ok {
			resolved = p.units.Matrix(types.Float, m.Rows, m.Cols)
		} else if desc, ok := samplerKeywords[tok.Kind]; ok {
			resolved = p.units.Sampler(desc)
		} else if tok.Kind == token.Identifier {
			if b, ok := p.symbols.FindSymbol(tok.String()); ok && b.Type != nil && b.Type.IsStruct() {
				resolved = b.Type
				if decl, ok := b.Decl.(ast.NodeID); ok {
					structDecl = decl
				}
			} else {
				p.report(tok, "unknown type name "+tok.String())
				resolved = p.units.Error()
			}
		} else {
			p.report(tok, "expected a type, found "+tok.Kind.String())
			resolved = p.units.Error()
		}
	}

	end := p.curTokenID()

	return p.builder.BuildQualType(begin, end, resolved, structDecl)
}

// parseStructSpecifier parses `struct Name { members... }` appearing
// inline as a type specifier (as opposed to a standalone StructDecl
// statement, which wraps this).
func (p *Parser) parseStructSpecifier(begin lexcontext.TokenID) ast.NodeID {
	name := ""
	if tok, ok := p.accept(token.Identifier); ok {
		name = tok.String()
	}

	members, memberType := p.parseMemberBlock(name)

	declBegin := begin
	declEnd := p.curTokenID()
	decl := p.builder.BuildStructDecl(declBegin, declEnd, name, members, memberType)

	if name != "" {
		p.symbols.Global().Insert(&symtab.Binding{Name: name, Decl: decl, Type: memberType})
	}

	return p.builder.BuildQualType(declBegin, declEnd, memberType, decl)
}

// parseMemberBlock parses the `{ member-decls... }` body shared by struct
// specifiers and interface blocks, returning both the member VariableDecl
// nodes and the aggregate struct Type built from them.
func (p *Parser) parseMemberBlock(typeName string) ([]ast.NodeID, *types.Type) {
	p.expect(token.LBrace)

	var members []ast.NodeID
	var fields []types.Member

	for !p.at(token.RBrace) && !p.atEnd() {
		qual := p.parseQualifiers()
		qualType := p.parseTypeSpecifier()
		decl, names, arraySpecs := p.parseDeclarators(qual, qualType, nil)
		members = append(members, decl)

		baseType := p.builder.Arena.Node(qualType).ResolvedType

		for i, n := range names {
			memberTy := baseType
			if arraySpecs[i] != ast.InvalidNode {
				memberTy = arrayTypeOf(p, baseType, arraySpecs[i])
			}

			fields = append(fields, types.Member{Name: n, Type: memberTy})
		}

		p.expect(token.Semicolon)
	}

	p.expect(token.RBrace)

	return members, p.units.NewStruct(typeName, fields, nil)
}

func arrayTypeOf(p *Parser, elem *types.Type, spec ast.NodeID) *types.Type {
	n := p.builder.Arena.Node(spec)
	if len(n.DimSizes) == 0 {
		return elem
	}

	t := elem
	for i := len(n.DimSizes) - 1; i >= 0; i-- {
		t = p.units.Array(t, n.DimSizes[i])
	}

	return t
}
