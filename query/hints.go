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
	"github.com/glsld-lang/glsld/symtab"
	"github.com/glsld-lang/glsld/token"
)

// InlayHintKind classifies one rendered hint.
type InlayHintKind int

const (
	HintParameterName InlayHintKind = iota
	HintImplicitCast
	HintFunctionBodyLines
)

// InlayHint is one rendered hint anchored at Pos (spec.md §4.9).
type InlayHint struct {
	Kind InlayHintKind
	Pos  token.Pos
	Text string
}

// functionBodyLineThreshold is the statement count above which a closing
// '}' gets a hint carrying the function's name, mirroring how long
// functions get labeled in an editor minimap.
const functionBodyLineThreshold = 25

// InlayHints computes parameter-name, implicit-cast, and long-function
// hints for every node whose range intersects rng (spec.md §4.9).
func (q *Query) InlayHints(rng token.Range) []InlayHint {
	var out []InlayHint

	for _, id := range q.Arena.IDs() {
		n := q.Arena.Node(id)
		nodeRng := q.rangeOf(n)

		if !rangesIntersect(nodeRng, rng) {
			continue
		}

		switch n.Tag {
		case ast.CallExpr:
			out = append(out, q.callArgumentHints(n)...)
		case ast.ImplicitCastExpr:
			out = append(out, InlayHint{
				Kind: HintImplicitCast,
				Pos:  nodeRng.Begin,
				Text: n.CastTarget.String() + "(",
			})
		case ast.FunctionDecl:
			if h, ok := q.functionBodyHint(n, nodeRng); ok {
				out = append(out, h)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Pos.Less(out[j].Pos) })

	return out
}

func rangesIntersect(a, b token.Range) bool {
	if a.Begin.File != b.Begin.File {
		return false
	}

	return !b.End.Less(a.Begin) && !a.End.Less(b.Begin)
}

// callArgumentHints pairs each argument with its resolved parameter name,
// prefixing output parameters with '&' (spec.md §4.9, §4.7 ParamDirection).
func (q *Query) callArgumentHints(call *ast.Node) []InlayHint {
	if call.CallKind != ast.CallFunction || call.Callee == ast.InvalidNode {
		return nil
	}

	callee := q.Arena.Node(call.Callee)
	if callee.AccessKind != ast.AccessFunction || !callee.ResolvedDecl.IsValid() {
		return nil
	}

	decl := q.Arena.Node(callee.ResolvedDecl.Decl)
	if decl.Tag != ast.FunctionDecl {
		return nil
	}

	var out []InlayHint

	for i, argID := range call.Args {
		if i >= len(decl.Params) {
			break
		}

		param := q.Arena.Node(decl.Params[i])
		arg := q.Arena.Node(argID)

		prefix := ""
		if param.Qual.Has(ast.QualOut) || param.Qual.Has(ast.QualInOut) {
			prefix = "&"
		}

		out = append(out, InlayHint{
			Kind: HintParameterName,
			Pos:  q.rangeOf(arg).Begin,
			Text: prefix + param.Name + ":",
		})
	}

	return out
}

func (q *Query) functionBodyHint(decl *ast.Node, rng token.Range) (InlayHint, bool) {
	if decl.Body == ast.InvalidNode {
		return InlayHint{}, false
	}

	body := q.Arena.Node(decl.Body)
	if len(body.Stmts) <= functionBodyLineThreshold {
		return InlayHint{}, false
	}

	return InlayHint{Kind: HintFunctionBodyLines, Pos: rng.End, Text: decl.Name}, true
}

// CompletionItem is one ranked candidate for CodeCompletion.
type CompletionItem struct {
	Name     string
	IsFunc   bool
	ScopeGap int // number of scope levels between the cursor and the binding
}

// CodeCompletion ranks every name visible from the scope stack's current
// shape by distance from the innermost scope, closest first (supplemented
// from original_source/glsld-server's SymbolTable.h scope-stack shape).
func (q *Query) CodeCompletion() []CompletionItem {
	var out []CompletionItem

	scopes := q.Symbols.Scopes()

	for depth := len(scopes) - 1; depth >= 0; depth-- {
		gap := len(scopes) - 1 - depth

		for _, b := range scopes[depth].All() {
			out = append(out, CompletionItem{Name: b.Name, ScopeGap: gap})
		}
	}

	for _, name := range q.Symbols.FunctionNames() {
		out = append(out, CompletionItem{Name: name, IsFunc: true, ScopeGap: len(scopes)})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ScopeGap < out[j].ScopeGap })

	return out
}

// SignatureHelpResult is the candidate overload set and active-parameter
// index for SignatureHelp.
type SignatureHelpResult struct {
	Candidates       []*symtab.FunctionEntry
	ActiveParam      int
}

// SignatureHelp finds the enclosing CallExpr's callee name at pos and
// returns every overload plus which argument position the cursor sits in,
// reusing §4.7's candidate set without narrowing by argument types yet
// (the client narrows visually as the user types).
func (q *Query) SignatureHelp(pos token.Pos) (SignatureHelpResult, bool) {
	var best *ast.Node
	bestWidth := -1

	for _, id := range q.Arena.IDs() {
		n := q.Arena.Node(id)
		if n.Tag != ast.CallExpr {
			continue
		}

		rng := q.rangeOf(n)
		if !rng.Contains(pos) {
			continue
		}

		width := rng.End.Offset - rng.Begin.Offset
		if best == nil || width < bestWidth {
			best = n
			bestWidth = width
		}
	}

	if best == nil || best.Callee == ast.InvalidNode {
		return SignatureHelpResult{}, false
	}

	callee := q.Arena.Node(best.Callee)

	active := 0

	for i, argID := range best.Args {
		arg := q.Arena.Node(argID)
		if q.rangeOf(arg).Begin.Less(pos) || q.rangeOf(arg).Begin == pos {
			active = i
		}
	}

	return SignatureHelpResult{Candidates: q.Symbols.Overloads(callee.Name), ActiveParam: active}, true
}
