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
)

// ParseTranslationUnit parses the whole token stream into one
// TranslationUnit node, the parser's single entry point (spec.md §4.5).
func (p *Parser) ParseTranslationUnit() ast.NodeID {
	begin := p.curTokenID()

	var decls []ast.NodeID

	for !p.atEnd() {
		decls = append(decls, p.parseExternalDeclaration())
	}

	end := p.curTokenID()

	return p.builder.BuildTranslationUnit(begin, end, decls)
}

// parseExternalDeclaration parses one top-level construct: a function
// definition/prototype, a variable declaration, a struct declaration, an
// interface block, or a precision statement.
func (p *Parser) parseExternalDeclaration() ast.NodeID {
	begin := p.curTokenID()

	if p.at(token.KwPrecision) {
		return p.parsePrecisionDecl()
	}

	if isInterfaceBlockStart(p) {
		return p.parseInterfaceBlockDecl()
	}

	qual := p.parseQualifiers()

	if p.at(token.KwStruct) && p.peekAt(1).Kind == token.Identifier &&
		(p.peekAt(2).Kind == token.LBrace) {
		decl := p.parseTypeSpecifier()

		if _, ok := p.accept(token.Semicolon); !ok {
			p.report(p.peek(), "expected ';' after struct declaration")
			p.synchronize(token.Semicolon, token.RBrace)
			p.accept(token.Semicolon)
		}

		return decl
	}

	if !p.isTypeStart() && !p.at(token.KwVoid) {
		p.report(p.peek(), "expected a declaration")
		p.synchronize(token.Semicolon)
		p.accept(token.Semicolon)

		return p.builder.BuildErrorDecl(begin, p.curTokenID())
	}

	isVoid := p.at(token.KwVoid)
	qualType := p.parseTypeSpecifier()

	name := p.expect(token.Identifier).String()

	if p.at(token.LParen) {
		return p.parseFunctionDecl(begin, qual, qualType, isVoid, name)
	}

	decl, _, _ := p.parseDeclarators(qual, qualType, &name)

	if _, ok := p.accept(token.Semicolon); !ok {
		p.report(p.peek(), "expected ';' after declaration")
		p.synchronize(token.Semicolon)
		p.accept(token.Semicolon)
	}

	return decl
}

// isInterfaceBlockStart looks ahead for `qualifier... Identifier {`, the
// shape that distinguishes an interface block from a variable declaration
// whose type name happens to be a struct.
func isInterfaceBlockStart(p *Parser) bool {
	n := 0

	for {
		k := p.peekAt(n).Kind

		if k == token.KwLayout {
			n++

			for p.peekAt(n).Kind != token.RParen && p.peekAt(n).Kind != token.Eof {
				n++
			}

			n++

			continue
		}

		if _, ok := qualifierKeywords[k]; ok {
			n++
			continue
		}

		break
	}

	return p.peekAt(n).Kind == token.Identifier && p.peekAt(n+1).Kind == token.LBrace
}

// parseDeclarators parses the comma-separated declarator list following a
// type specifier: `name1[N] = init1, name2 = init2, ...`. If fixedName is
// non-nil the first declarator's name is already consumed (external
// declaration lookahead already ate it to decide function-vs-variable).
func (p *Parser) parseDeclarators(qual ast.Qualifiers, qualType ast.NodeID, fixedName *string) (ast.NodeID, []string, []ast.NodeID) {
	begin := p.curTokenID()

	var names []string
	var arraySpecs []ast.NodeID
	var inits []ast.NodeID

	first := true

	for {
		var name string

		if first && fixedName != nil {
			name = *fixedName
		} else {
			name = p.expect(token.Identifier).String()
		}

		first = false

		arraySpec := ast.InvalidNode
		if p.at(token.LBracket) {
			arraySpec = p.parseArraySpec()
		}

		init := ast.InvalidNode
		if _, ok := p.accept(token.Equal); ok {
			init = p.parseAssignmentExpr()
		}

		names = append(names, name)
		arraySpecs = append(arraySpecs, arraySpec)
		inits = append(inits, init)

		baseType := p.builder.Arena.Node(qualType).ResolvedType
		declType := baseType

		if arraySpec != ast.InvalidNode {
			declType = arrayTypeOf(p, baseType, arraySpec)
		}

		p.symbols.Current().Insert(&symtab.Binding{Name: name, Decl: ast.InvalidNode, Type: declType})

		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}

	end := p.curTokenID()
	decl := p.builder.BuildVariableDecl(begin, end, qual, qualType, names, arraySpecs, inits)

	// Re-bind with the real decl NodeID now that it exists, so later
	// symtab.FindSymbol callers can walk back to the declaring node.
	for _, n := range names {
		if b, ok := p.symbols.Current().Lookup(n); ok {
			b.Decl = ast.DeclView{Decl: decl, Index: indexOf(names, n)}
		}
	}

	return decl, names, arraySpecs
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}

	return -1
}

// parseArraySpec parses one or more `[expr]`/`[]` dimensions.
func (p *Parser) parseArraySpec() ast.NodeID {
	begin := p.curTokenID()

	var dims []ast.NodeID

	for p.at(token.LBracket) {
		p.next()

		dim := ast.InvalidNode
		if !p.at(token.RBracket) {
			dim = p.parseConditionalExpr()
		}

		p.expect(token.RBracket)
		dims = append(dims, dim)
	}

	end := p.curTokenID()

	return p.builder.BuildArraySpec(begin, end, dims)
}

// parseFunctionDecl parses a function prototype or definition; name and
// its return-type QualType have already been consumed by the caller.
func (p *Parser) parseFunctionDecl(begin lexcontext.TokenID, qual ast.Qualifiers, qualType ast.NodeID, isVoid bool, name string) ast.NodeID {
	p.expect(token.LParen)

	p.symbols.Push(symtab.ScopeFunction)
	defer p.symbols.Pop()

	var params []ast.NodeID
	var paramTypes []*types.Type
	var fnParams []symtab.Param

	if !p.at(token.RParen) && !(p.at(token.KwVoid) && p.peekAt(1).Kind == token.RParen) {
		for {
			params = append(params, p.parseParamDecl())

			pn := p.builder.Arena.Node(params[len(params)-1])
			paramType := pn.QualTypeNode
			ty := p.builder.Arena.Node(paramType).ResolvedType
			if len(pn.ArraySpecs) > 0 && pn.ArraySpecs[0] != ast.InvalidNode {
				ty = arrayTypeOf(p, ty, pn.ArraySpecs[0])
			}

			paramTypes = append(paramTypes, ty)
			fnParams = append(fnParams, symtab.Param{Type: ty, Dir: directionOf(pn.Qual)})

			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	} else if p.at(token.KwVoid) {
		p.next()
	}

	p.expect(token.RParen)

	returnType := p.builder.Arena.Node(qualType).ResolvedType
	if isVoid {
		returnType = nil
	}

	body := ast.InvalidNode

	if p.at(token.LBrace) {
		body = p.parseBlock()
	} else {
		p.expect(token.Semicolon)
	}

	end := p.curTokenID()
	decl := p.builder.BuildFunctionDecl(begin, end, name, params, paramTypes, returnType, body)

	p.symbols.DefineFunction(&symtab.FunctionEntry{Name: name, Decl: decl, Params: fnParams, ReturnType: returnType})

	return decl
}

func directionOf(q ast.QualifierGroup) symtab.ParamDirection {
	switch {
	case q.Has(ast.QualInOut):
		return symtab.DirInOut
	case q.Has(ast.QualOut):
		return symtab.DirOut
	default:
		return symtab.DirIn
	}
}

func (p *Parser) parseParamDecl() ast.NodeID {
	begin := p.curTokenID()
	qual := p.parseQualifiers()
	qualType := p.parseTypeSpecifier()

	name := ""
	if tok, ok := p.accept(token.Identifier); ok {
		name = tok.String()
	}

	arraySpec := ast.InvalidNode
	if p.at(token.LBracket) {
		arraySpec = p.parseArraySpec()
	}

	end := p.curTokenID()
	decl := p.builder.BuildParamDecl(begin, end, qual, qualType, name, arraySpec)

	if name != "" {
		ty := p.builder.Arena.Node(qualType).ResolvedType
		if arraySpec != ast.InvalidNode {
			ty = arrayTypeOf(p, ty, arraySpec)
		}

		p.symbols.Current().Insert(&symtab.Binding{Name: name, Decl: decl, Type: ty})
	}

	return decl
}

// parseInterfaceBlockDecl parses `qualifiers BlockName { members... }
// [instanceName];`.
func (p *Parser) parseInterfaceBlockDecl() ast.NodeID {
	begin := p.curTokenID()
	qual := p.parseQualifiers()
	name := p.expect(token.Identifier).String()

	members, memberType := p.parseMemberBlock(name)

	instanceName := ""
	if tok, ok := p.accept(token.Identifier); ok {
		instanceName = tok.String()
	}

	p.expect(token.Semicolon)

	end := p.curTokenID()
	decl := p.builder.BuildInterfaceBlockDecl(begin, end, qual, name, members, memberType, instanceName)

	bindName := name
	bindType := memberType

	if instanceName != "" {
		bindName = instanceName
	}

	p.symbols.Global().Insert(&symtab.Binding{Name: bindName, Decl: decl, Type: bindType})

	return decl
}

// parsePrecisionDecl parses `precision highp float;`.
func (p *Parser) parsePrecisionDecl() ast.NodeID {
	begin := p.curTokenID()
	p.next() // 'precision'

	qual := p.parseQualifiers()
	qualType := p.parseTypeSpecifier()

	p.expect(token.Semicolon)

	end := p.curTokenID()

	return p.builder.BuildPrecisionDecl(begin, end, qual, qualType)
}
