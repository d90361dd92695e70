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

// Package parser is the hand-written recursive-descent GLSL parser
// (spec.md §4.5), grounded on the teacher's parser.Visitor next()/peek()
// single-token-lookahead buffer (parser/vistor.go), generalized here from
// a tree-visitor token buffer to a flat index into one translation
// unit's lexcontext.LexContext.
package parser

import (
	"github.com/glsld-lang/glsld/ast"
	"github.com/glsld-lang/glsld/lexcontext"
	"github.com/glsld-lang/glsld/symtab"
	"github.com/glsld-lang/glsld/token"
	"github.com/glsld-lang/glsld/types"
)

// Parser walks one translation unit's LexContext, building an AST through
// Builder and resolving names/overloads through Table as it goes (spec.md
// §4.6's "parser owns symtab lookups, ast.Build* only stamps payloads"
// split, chosen to keep package ast free of a dependency on package
// symtab).
type Parser struct {
	lc      *lexcontext.LexContext
	pos     int // index of the next unconsumed token
	builder *ast.Builder
	symbols *symtab.Table
	units   *types.Universe

	diags Diagnostics

	errorCount int
}

// Diagnostics receives every recovered parse error; a nil Diagnostics is
// valid and simply discards them.
type Diagnostics interface {
	Report(err *token.PosError)
}

// New creates a Parser over lc, building nodes into builder and resolving
// names through symbols.
func New(lc *lexcontext.LexContext, builder *ast.Builder, symbols *symtab.Table, units *types.Universe, diags Diagnostics) *Parser {
	return &Parser{lc: lc, builder: builder, symbols: symbols, units: units, diags: diags}
}

// ErrorCount returns how many recovered syntax errors were reported.
func (p *Parser) ErrorCount() int { return p.errorCount }

func (p *Parser) report(tok token.PPToken, msg string) {
	p.errorCount++

	if p.diags != nil {
		p.diags.Report(token.NewPosError(tok, msg))
	}
}

// peek returns the next unconsumed token without advancing.
func (p *Parser) peek() token.PPToken {
	return p.peekAt(0)
}

// peekAt returns the token n positions ahead of the cursor without
// advancing; requesting past the end of the stream returns the sentinel
// Eof token at the last known position.
func (p *Parser) peekAt(n int) token.PPToken {
	i := p.pos + n
	if i >= p.lc.Len() {
		last := p.lc.Len() - 1
		if last < 0 {
			return token.EOF(token.Pos{})
		}

		return token.EOF(p.lc.Token(last).End())
	}

	return p.lc.Token(i)
}

// next consumes and returns the next token.
func (p *Parser) next() token.PPToken {
	tok := p.peek()
	if p.pos < p.lc.Len() {
		p.pos++
	}

	return tok
}

// curTokenID returns the TokenID of the token peek() currently returns.
func (p *Parser) curTokenID() lexcontext.TokenID {
	if p.pos >= p.lc.Len() {
		return lexcontext.TokenID{TU: p.lc.TUTag(), Index: int32(p.lc.Len())}
	}

	return lexcontext.TokenID{TU: p.lc.TUTag(), Index: int32(p.pos)}
}

// at reports whether the next token has kind k.
func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

// atEnd reports whether the cursor has reached the end of the stream.
func (p *Parser) atEnd() bool { return p.peek().Kind == token.Eof }

// accept consumes and returns the next token if it has kind k.
func (p *Parser) accept(k token.Kind) (token.PPToken, bool) {
	if p.at(k) {
		return p.next(), true
	}

	return token.PPToken{}, false
}

// expect consumes the next token, reporting an error if its kind is not k;
// it still advances past whatever token was actually present, leaving
// synchronization to the caller.
func (p *Parser) expect(k token.Kind) token.PPToken {
	if tok, ok := p.accept(k); ok {
		return tok
	}

	tok := p.peek()
	p.report(tok, "expected "+k.String()+", found "+tok.Kind.String())

	return tok
}

// synchronize discards tokens until it finds one of the given kinds (which
// it does not consume) or reaches end of stream, implementing spec.md
// §4.5's error-recovery synchronization points (`;`, `}`, `)`, `,`).
func (p *Parser) synchronize(kinds ...token.Kind) {
	for !p.atEnd() {
		for _, k := range kinds {
			if p.at(k) {
				return
			}
		}

		p.next()
	}
}
