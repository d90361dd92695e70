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
	"github.com/glsld-lang/glsld/symtab"
	"github.com/glsld-lang/glsld/token"
)

// parseBlock parses `{ stmt... }`, opening a new Block scope.
func (p *Parser) parseBlock() ast.NodeID {
	begin := p.curTokenID()
	p.expect(token.LBrace)

	p.symbols.Push(symtab.ScopeBlock)
	defer p.symbols.Pop()

	var stmts []ast.NodeID

	for !p.at(token.RBrace) && !p.atEnd() {
		stmts = append(stmts, p.parseStatement())
	}

	p.expect(token.RBrace)
	end := p.curTokenID()

	return p.builder.BuildBlock(begin, end, stmts)
}

// parseStatement dispatches on the next token's kind to parse one
// statement, recovering with an ErrorStmt node on failure (spec.md §4.5
// error recovery).
func (p *Parser) parseStatement() ast.NodeID {
	begin := p.curTokenID()

	switch p.peek().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwDo:
		return p.parseDoWhileStmt()
	case token.KwSwitch:
		return p.parseSwitchStmt()
	case token.KwCase, token.KwDefault:
		return p.parseCaseLabelStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwBreak:
		p.next()
		p.expect(token.Semicolon)

		return p.builder.BuildBreak(begin, p.curTokenID())
	case token.KwContinue:
		p.next()
		p.expect(token.Semicolon)

		return p.builder.BuildContinue(begin, p.curTokenID())
	case token.KwDiscard:
		p.next()
		p.expect(token.Semicolon)

		return p.builder.BuildDiscard(begin, p.curTokenID())
	case token.Semicolon:
		p.next()

		return p.builder.BuildExprStmt(begin, p.curTokenID(), ast.InvalidNode)
	}

	if p.isDeclarationStart() {
		return p.parseDeclStmt()
	}

	expr := p.parseExpr()

	if _, ok := p.accept(token.Semicolon); !ok {
		p.report(p.peek(), "expected ';' after expression")
		p.synchronize(token.Semicolon, token.RBrace)
		p.accept(token.Semicolon)

		return p.builder.BuildErrorStmt(begin, p.curTokenID())
	}

	return p.builder.BuildExprStmt(begin, p.curTokenID(), expr)
}

// isDeclarationStart reports whether the statement beginning at the
// cursor is a local variable declaration rather than an expression
// statement.
func (p *Parser) isDeclarationStart() bool {
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

	k := p.peekAt(n).Kind

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
		if b, ok := p.symbols.FindSymbol(p.peekAt(n).String()); ok {
			return b.Type != nil && b.Type.IsStruct()
		}
	}

	return false
}

func (p *Parser) parseDeclStmt() ast.NodeID {
	begin := p.curTokenID()
	qual := p.parseQualifiers()
	qualType := p.parseTypeSpecifier()

	decl, _, _ := p.parseDeclarators(qual, qualType, nil)

	if _, ok := p.accept(token.Semicolon); !ok {
		p.report(p.peek(), "expected ';' after declaration")
		p.synchronize(token.Semicolon, token.RBrace)
		p.accept(token.Semicolon)
	}

	return p.builder.BuildDeclStmt(begin, p.curTokenID(), decl)
}

func (p *Parser) parseIfStmt() ast.NodeID {
	begin := p.curTokenID()
	p.next() // 'if'
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)

	thenS := p.parseStatement()

	elseS := ast.InvalidNode
	if _, ok := p.accept(token.KwElse); ok {
		elseS = p.parseStatement()
	}

	return p.builder.BuildIf(begin, p.curTokenID(), cond, thenS, elseS)
}

func (p *Parser) parseForStmt() ast.NodeID {
	begin := p.curTokenID()
	p.next() // 'for'
	p.expect(token.LParen)

	p.symbols.Push(symtab.ScopeBlock)
	defer p.symbols.Pop()

	init := ast.InvalidNode
	if !p.at(token.Semicolon) {
		if p.isDeclarationStart() {
			init = p.parseDeclStmtNoConsume()
		} else {
			exprBegin := p.curTokenID()
			e := p.parseExpr()
			init = p.builder.BuildExprStmt(exprBegin, p.curTokenID(), e)
		}
	} else {
		init = p.builder.BuildExprStmt(p.curTokenID(), p.curTokenID(), ast.InvalidNode)
	}

	p.expect(token.Semicolon)

	cond := ast.InvalidNode
	if !p.at(token.Semicolon) {
		cond = p.parseExpr()
	}

	p.expect(token.Semicolon)

	post := ast.InvalidNode
	if !p.at(token.RParen) {
		post = p.parseExpr()
	}

	p.expect(token.RParen)

	body := p.parseStatement()

	return p.builder.BuildFor(begin, p.curTokenID(), init, cond, post, body)
}

// parseDeclStmtNoConsume parses a declaration for a for-loop initializer,
// where the trailing ';' is consumed by the caller rather than here.
func (p *Parser) parseDeclStmtNoConsume() ast.NodeID {
	begin := p.curTokenID()
	qual := p.parseQualifiers()
	qualType := p.parseTypeSpecifier()
	decl, _, _ := p.parseDeclarators(qual, qualType, nil)

	return p.builder.BuildDeclStmt(begin, p.curTokenID(), decl)
}

func (p *Parser) parseWhileStmt() ast.NodeID {
	begin := p.curTokenID()
	p.next() // 'while'
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)

	body := p.parseStatement()

	return p.builder.BuildWhile(begin, p.curTokenID(), cond, body)
}

func (p *Parser) parseDoWhileStmt() ast.NodeID {
	begin := p.curTokenID()
	p.next() // 'do'
	body := p.parseStatement()

	p.expect(token.KwWhile)
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	p.expect(token.Semicolon)

	return p.builder.BuildDoWhile(begin, p.curTokenID(), body, cond)
}

func (p *Parser) parseSwitchStmt() ast.NodeID {
	begin := p.curTokenID()
	p.next() // 'switch'
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)

	body := p.parseBlock()

	return p.builder.BuildSwitch(begin, p.curTokenID(), cond, body)
}

func (p *Parser) parseCaseLabelStmt() ast.NodeID {
	begin := p.curTokenID()

	value := ast.InvalidNode

	if _, ok := p.accept(token.KwCase); ok {
		value = p.parseExpr()
	} else {
		p.expect(token.KwDefault)
	}

	p.expect(token.Colon)

	return p.builder.BuildCaseLabel(begin, p.curTokenID(), value)
}

func (p *Parser) parseReturnStmt() ast.NodeID {
	begin := p.curTokenID()
	p.next() // 'return'

	value := ast.InvalidNode
	if !p.at(token.Semicolon) {
		value = p.parseExpr()
	}

	p.expect(token.Semicolon)

	return p.builder.BuildReturn(begin, p.curTokenID(), value)
}
