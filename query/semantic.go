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

package query

import (
	"sort"

	"github.com/glsld-lang/glsld/ast"
	"github.com/glsld-lang/glsld/ppstore"
	"github.com/glsld-lang/glsld/token"
)

// SemanticTokenKind is a coarse coloring category, independent of any one
// editor protocol's numbering.
type SemanticTokenKind int

const (
	TokenKeyword SemanticTokenKind = iota
	TokenNumber
	TokenComment
	TokenMacro
	TokenHeaderName
	TokenFunction
	TokenVariable
	TokenType
	TokenSwizzle
)

// SemanticToken is one colored span, already sorted by (Line, Char) and
// ready for delta-encoding by a caller that speaks a specific wire format.
type SemanticToken struct {
	Range token.Range
	Kind  SemanticTokenKind
}

// SemanticTokens merges three sources into one sorted span list (spec.md
// §4.9): the raw token stream's keyword/number/comment categorization, the
// ppstore's macro-expansion and #include header-name sites, and the AST's
// resolved name/field-access coloring (function vs. variable vs.
// constructor vs. swizzle).
func (q *Query) SemanticTokens() []SemanticToken {
	var out []SemanticToken

	n := q.LC.Len()
	for i := 0; i < n; i++ {
		tok := q.LC.Token(i)

		switch {
		case token.IsKeyword(tok.Kind):
			out = append(out, SemanticToken{Range: tok.Spelled(), Kind: TokenKeyword})
		case tok.Kind == token.IntegerConstant || tok.Kind == token.FloatConstant:
			out = append(out, SemanticToken{Range: tok.Spelled(), Kind: TokenNumber})
		case tok.Kind == token.Comment:
			out = append(out, SemanticToken{Range: tok.Spelled(), Kind: TokenComment})
		}
	}

	for _, occ := range q.PP.All() {
		switch occ.Kind {
		case ppstore.MacroExpansion:
			out = append(out, SemanticToken{Range: occ.Range, Kind: TokenMacro})
		case ppstore.Include:
			out = append(out, SemanticToken{Range: occ.Range, Kind: TokenHeaderName})
		}
	}

	for _, id := range q.Arena.IDs() {
		node := q.Arena.Node(id)
		if node.Tag != ast.NameAccessExpr && node.Tag != ast.FieldAccessExpr {
			continue
		}

		kind := TokenVariable

		switch node.AccessKind {
		case ast.AccessFunction:
			kind = TokenFunction
		case ast.AccessConstructor:
			kind = TokenType
		case ast.AccessSwizzle:
			kind = TokenSwizzle
		}

		out = append(out, SemanticToken{Range: q.rangeOf(node), Kind: kind})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Range.Begin != out[j].Range.Begin {
			return out[i].Range.Begin.Less(out[j].Range.Begin)
		}

		return out[i].Kind < out[j].Kind
	})

	return out
}
