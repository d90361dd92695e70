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

// Package query is the read-only layer answering the position- and
// symbol-keyed questions a language-server poses (spec.md §4.9):
// SymbolAtPosition, DocumentSymbols, References, Hover, InlayHints, and
// SemanticTokens, plus CodeCompletion and SignatureHelp supplemented from
// original_source/glsld-server's SymbolTable.h scope-stack shape.
package query

import (
	"github.com/glsld-lang/glsld/ast"
	"github.com/glsld-lang/glsld/constant"
	"github.com/glsld-lang/glsld/lexcontext"
	"github.com/glsld-lang/glsld/ppstore"
	"github.com/glsld-lang/glsld/symtab"
	"github.com/glsld-lang/glsld/token"
	"github.com/glsld-lang/glsld/types"
)

// Query answers questions about one compiled translation unit. It never
// mutates Arena, LC, Symbols, or PP.
type Query struct {
	Arena   *ast.Arena
	LC      *lexcontext.LexContext
	Symbols *symtab.Table
	PP      *ppstore.Store
	Units   *types.Universe
}

// New creates a Query over an already-built translation unit.
func New(arena *ast.Arena, lc *lexcontext.LexContext, symbols *symtab.Table, pp *ppstore.Store, units *types.Universe) *Query {
	return &Query{Arena: arena, LC: lc, Symbols: symbols, PP: pp, Units: units}
}

func (q *Query) rangeOf(n *ast.Node) token.Range {
	return token.Range{Begin: q.LC.Get(n.Begin).Begin(), End: q.LC.Get(n.End).End()}
}

// SymbolResult is the outcome of SymbolAtPosition: PP is set for a
// preprocessor occurrence; otherwise Node, Name and AccessKind describe the
// access node and Decl its resolved declaration (invalid when unresolved).
type SymbolResult struct {
	PP        *ppstore.Occurrence
	Node      ast.NodeID
	Name      string
	AccessKind ast.AccessKind
	Decl      ast.DeclView
}

// SymbolAtPosition returns the first recorded PP occurrence whose range
// contains pos or, when there is none, the narrowest AST
// name-access/field-access node whose range contains pos (spec.md §4.9).
func (q *Query) SymbolAtPosition(pos token.Pos) (SymbolResult, bool) {
	for _, occ := range q.PP.At(pos) {
		o := occ

		return SymbolResult{PP: &o}, true
	}

	var best SymbolResult
	found := false
	bestWidth := -1

	for _, id := range q.Arena.IDs() {
		n := q.Arena.Node(id)
		if n.Tag != ast.NameAccessExpr && n.Tag != ast.FieldAccessExpr {
			continue
		}

		rng := q.rangeOf(n)
		if !rng.Contains(pos) {
			continue
		}

		width := rng.End.Offset - rng.Begin.Offset
		if !found || width < bestWidth {
			found = true
			bestWidth = width
			best = SymbolResult{Node: id, Name: symbolName(n), AccessKind: n.AccessKind, Decl: n.ResolvedDecl}
		}
	}

	return best, found
}

func symbolName(n *ast.Node) string {
	if n.Tag == ast.NameAccessExpr {
		return n.Name
	}

	return n.Field
}

// DocumentSymbolKind classifies a top-level declaration for
// DocumentSymbols.
type DocumentSymbolKind int

const (
	SymbolFunction DocumentSymbolKind = iota
	SymbolVariable
	SymbolStruct
	SymbolInterfaceBlock
	SymbolMacro
)

// DocumentSymbol is one entry of DocumentSymbols' result.
type DocumentSymbol struct {
	Kind  DocumentSymbolKind
	Name  string
	Node  ast.NodeID
	Range token.Range
}

// DocumentSymbols collects every function, variable, struct, and
// interface-block declaration node in the arena plus every #define
// occurrence (spec.md §4.9). It does not filter to top-level declarations:
// local variables and struct/block member declarations are listed too.
func (q *Query) DocumentSymbols() []DocumentSymbol {
	var out []DocumentSymbol

	for _, id := range q.Arena.IDs() {
		n := q.Arena.Node(id)

		switch n.Tag {
		case ast.FunctionDecl:
			out = append(out, DocumentSymbol{Kind: SymbolFunction, Name: n.Name, Node: id, Range: q.rangeOf(n)})
		case ast.VariableDecl:
			for _, name := range n.Names {
				out = append(out, DocumentSymbol{Kind: SymbolVariable, Name: name, Node: id, Range: q.rangeOf(n)})
			}
		case ast.StructDecl:
			out = append(out, DocumentSymbol{Kind: SymbolStruct, Name: n.Name, Node: id, Range: q.rangeOf(n)})
		case ast.InterfaceBlockDecl:
			out = append(out, DocumentSymbol{Kind: SymbolInterfaceBlock, Name: n.Name, Node: id, Range: q.rangeOf(n)})
		}
	}

	for _, occ := range q.PP.All() {
		if occ.Kind == ppstore.Define {
			out = append(out, DocumentSymbol{Kind: SymbolMacro, Name: occ.Text, Range: occ.Range})
		}
	}

	return out
}

// References visits the AST collecting every name/field-access node whose
// resolved declaration matches decl; includeDeclaration additionally
// reports the declaring node's own range (spec.md §4.9).
func (q *Query) References(decl ast.DeclView, includeDeclaration bool) []token.Range {
	var out []token.Range

	if includeDeclaration && decl.IsValid() {
		out = append(out, q.rangeOf(q.Arena.Node(decl.Decl)))
	}

	for _, id := range q.Arena.IDs() {
		n := q.Arena.Node(id)
		if n.Tag != ast.NameAccessExpr && n.Tag != ast.FieldAccessExpr {
			continue
		}

		if n.ResolvedDecl == decl {
			out = append(out, q.rangeOf(n))
		}
	}

	return out
}

// Hover reconstructs a readable declaration string for the symbol at pos
// and, for a const variable with an initializer, folds and reports its
// constant value (spec.md §4.9, §4.8).
func (q *Query) Hover(pos token.Pos) (text string, constVal constant.Value, ok bool) {
	sym, found := q.SymbolAtPosition(pos)
	if !found || sym.PP != nil {
		return "", constant.ErrorValue, false
	}

	if !sym.Decl.IsValid() {
		return sym.Name, constant.ErrorValue, true
	}

	decl := q.Arena.Node(sym.Decl.Decl)
	text = SourceReconstruction(decl, sym.Decl.Index)

	cv := constant.ErrorValue

	if decl.Tag == ast.VariableDecl && decl.Qual.Has(ast.QualConst) && sym.Decl.Index < len(decl.Init) {
		init := decl.Init[sym.Decl.Index]
		if init != ast.InvalidNode {
			cv = q.Arena.Node(init).ConstValue
		}
	}

	return text, cv, true
}

// SourceReconstruction renders a readable one-line declaration string for
// decl's declIndex-th declarator (spec.md §4.9's Hover helper).
func SourceReconstruction(decl *ast.Node, declIndex int) string {
	switch decl.Tag {
	case ast.FunctionDecl:
		s := ""
		if decl.ReturnType != nil {
			s = decl.ReturnType.String()
		} else {
			s = "void"
		}

		s += " " + decl.Name + "("

		for i, pt := range decl.ParamTypes {
			if i > 0 {
				s += ", "
			}

			s += pt.String()
		}

		return s + ")"
	case ast.VariableDecl:
		ty := ""
		if decl.ResolvedType != nil {
			ty = decl.ResolvedType.String()
		}

		name := ""
		if declIndex >= 0 && declIndex < len(decl.Names) {
			name = decl.Names[declIndex]
		}

		return ty + " " + name
	case ast.StructDecl:
		return "struct " + decl.Name
	case ast.InterfaceBlockDecl:
		return decl.Name
	default:
		return decl.Name
	}
}
