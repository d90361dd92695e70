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
	"strconv"
	"strings"

	"github.com/glsld-lang/glsld/ast"
	"github.com/glsld-lang/glsld/constant"
	"github.com/glsld-lang/glsld/lexcontext"
	"github.com/glsld-lang/glsld/token"
	"github.com/glsld-lang/glsld/types"
)

var assignmentOps = map[token.Kind]string{
	token.Equal: "=", token.PlusEqual: "+=", token.MinusEqual: "-=", token.StarEqual: "*=",
	token.SlashEqual: "/=", token.PercentEqual: "%=", token.AmpEqual: "&=", token.PipeEqual: "|=",
	token.CaretEqual: "^=", token.LShiftEqual: "<<=", token.RShiftEqual: ">>=",
}

// binaryPrecedence maps every left-associative binary operator to its
// precedence level (higher binds tighter), implementing the GLSL operator
// grid (spec.md §4.5 "Pratt-precedence expressions").
var binaryPrecedence = map[token.Kind]int{
	token.PipePipe:   1,
	token.CaretCaret: 2,
	token.AmpAmp:     3,
	token.Pipe:       4,
	token.Caret:      5,
	token.Amp:        6,
	token.EqualEqual: 7, token.BangEqual: 7,
	token.Less: 8, token.Greater: 8, token.LessEqual: 8, token.GreaterEqual: 8,
	token.LShift: 9, token.RShift: 9,
	token.Plus: 10, token.Minus: 10,
	token.Star: 11, token.Slash: 11, token.Percent: 11,
}

var binaryOpText = map[token.Kind]string{
	token.PipePipe: "||", token.CaretCaret: "^^", token.AmpAmp: "&&",
	token.Pipe: "|", token.Caret: "^", token.Amp: "&",
	token.EqualEqual: "==", token.BangEqual: "!=",
	token.Less: "<", token.Greater: ">", token.LessEqual: "<=", token.GreaterEqual: ">=",
	token.LShift: "<<", token.RShift: ">>",
	token.Plus: "+", token.Minus: "-",
	token.Star: "*", token.Slash: "/", token.Percent: "%",
}

// parseExpr parses a comma-sequence of assignment-expressions, the
// top-level "expression" production; the sequence's value is its last
// element.
func (p *Parser) parseExpr() ast.NodeID {
	e := p.parseAssignmentExpr()

	for {
		if _, ok := p.accept(token.Comma); !ok {
			return e
		}

		e = p.parseAssignmentExpr()
	}
}

// parseAssignmentExpr parses `lhs = rhs` (right-associative) or falls
// through to the ternary conditional.
func (p *Parser) parseAssignmentExpr() ast.NodeID {
	lhs := p.parseConditionalExpr()

	op, ok := assignmentOps[p.peek().Kind]
	if !ok {
		return lhs
	}

	begin := p.builder.Arena.Node(lhs).Begin
	p.next()

	rhs := p.parseAssignmentExpr()

	lhsType := p.builder.Arena.Node(lhs).DeducedType
	rhs = p.coerceTo(rhs, lhsType)

	return p.builder.BuildBinary(begin, p.curTokenID(), op, lhs, rhs, lhsType)
}

func (p *Parser) parseConditionalExpr() ast.NodeID {
	cond := p.parseBinaryExpr(1)

	if _, ok := p.accept(token.Question); !ok {
		return cond
	}

	begin := p.builder.Arena.Node(cond).Begin

	thenE := p.parseExpr()
	p.expect(token.Colon)
	elseE := p.parseAssignmentExpr()

	resultType := p.commonType(
		p.builder.Arena.Node(thenE).DeducedType,
		p.builder.Arena.Node(elseE).DeducedType,
	)

	thenE = p.coerceTo(thenE, resultType)
	elseE = p.coerceTo(elseE, resultType)

	return p.builder.BuildTernary(begin, p.curTokenID(), cond, thenE, elseE, resultType)
}

// parseBinaryExpr implements precedence-climbing over binaryPrecedence.
func (p *Parser) parseBinaryExpr(minPrec int) ast.NodeID {
	lhs := p.parseUnaryExpr()

	for {
		prec, ok := binaryPrecedence[p.peek().Kind]
		if !ok || prec < minPrec {
			return lhs
		}

		opKind := p.next().Kind
		op := binaryOpText[opKind]

		rhs := p.parseBinaryExpr(prec + 1)

		begin := p.builder.Arena.Node(lhs).Begin
		resultType := p.binaryResultType(op, lhs, rhs)

		lhsType := p.builder.Arena.Node(lhs).DeducedType
		rhsType := p.builder.Arena.Node(rhs).DeducedType

		operandType := resultType
		if isComparisonOp(op) || isLogicalOp(op) {
			operandType = p.commonType(lhsType, rhsType)
		}

		lhs = p.coerceTo(lhs, operandType)
		rhs = p.coerceTo(rhs, operandType)

		lhs = p.builder.BuildBinary(begin, p.curTokenID(), op, lhs, rhs, resultType)
	}
}

func isComparisonOp(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	default:
		return false
	}
}

func isLogicalOp(op string) bool {
	switch op {
	case "&&", "||", "^^":
		return true
	default:
		return false
	}
}

// binaryResultType computes a binary expression's deduced type: bool for
// comparisons and logical operators, otherwise the wider of the two
// operand types (spec.md §4.6 "insert an ImplicitCast wrapper on
// operand(s) whose deduced type ... is convertible").
func (p *Parser) binaryResultType(op string, lhs, rhs ast.NodeID) *types.Type {
	if isComparisonOp(op) || isLogicalOp(op) {
		return p.units.Scalar(types.Bool)
	}

	return p.commonType(p.builder.Arena.Node(lhs).DeducedType, p.builder.Arena.Node(rhs).DeducedType)
}

// commonType picks the operand type the other converts to, preferring
// whichever direction types.Convertible ranks better; identical types
// return immediately.
func (p *Parser) commonType(a, b *types.Type) *types.Type {
	if a == b {
		return a
	}

	if a.IsError() || b.IsError() {
		return p.units.Error()
	}

	ab := types.Convertible(a, b)
	ba := types.Convertible(b, a)

	switch {
	case ab == types.None && ba == types.None:
		return p.units.Error()
	case ab == types.None:
		return a
	case ba == types.None:
		return b
	case types.Better(ba, ab):
		return a
	default:
		return b
	}
}

// coerceTo wraps expr in an ImplicitCast to target when its deduced type
// differs and is convertible; otherwise expr is returned unchanged
// (including when no conversion exists, leaving the mismatch for a later
// diagnostic pass to report).
func (p *Parser) coerceTo(expr ast.NodeID, target *types.Type) ast.NodeID {
	n := p.builder.Arena.Node(expr)

	if n.DeducedType == target || target.IsError() {
		return expr
	}

	if types.Convertible(n.DeducedType, target) == types.None {
		return expr
	}

	if types.Convertible(n.DeducedType, target) == types.Exact {
		return expr
	}

	return p.builder.BuildImplicitCast(expr, target)
}

func (p *Parser) parseUnaryExpr() ast.NodeID {
	begin := p.curTokenID()

	switch p.peek().Kind {
	case token.Plus, token.Minus, token.Tilde, token.Bang:
		opKind := p.next().Kind
		op := map[token.Kind]string{
			token.Plus: "+", token.Minus: "-", token.Tilde: "~", token.Bang: "!",
		}[opKind]

		operand := p.parseUnaryExpr()
		resultType := p.builder.Arena.Node(operand).DeducedType

		if op == "!" {
			resultType = p.units.Scalar(types.Bool)
			operand = p.coerceTo(operand, resultType)
		}

		return p.builder.BuildUnary(begin, p.curTokenID(), op, operand, resultType)
	case token.PlusPlus, token.MinusMinus:
		opKind := p.next().Kind
		op := "++"
		if opKind == token.MinusMinus {
			op = "--"
		}

		operand := p.parseUnaryExpr()

		return p.builder.BuildUnary(begin, p.curTokenID(), "pre"+op, operand, p.builder.Arena.Node(operand).DeducedType)
	}

	return p.parsePostfixExpr()
}

func (p *Parser) parsePostfixExpr() ast.NodeID {
	expr := p.parsePrimaryExpr()

	for {
		begin := p.builder.Arena.Node(expr).Begin

		switch p.peek().Kind {
		case token.LBracket:
			p.next()
			index := p.parseExpr()
			p.expect(token.RBracket)

			resultType := indexResultType(p, p.builder.Arena.Node(expr).DeducedType)
			expr = p.builder.BuildIndex(begin, p.curTokenID(), expr, index, resultType)
		case token.Dot:
			p.next()
			field := p.expect(token.Identifier).String()
			expr = p.parseFieldAccess(begin, expr, field)
		case token.PlusPlus, token.MinusMinus:
			opKind := p.next().Kind
			op := "post++"
			if opKind == token.MinusMinus {
				op = "post--"
			}

			expr = p.builder.BuildUnary(begin, p.curTokenID(), op, expr, p.builder.Arena.Node(expr).DeducedType)
		default:
			return expr
		}
	}
}

func indexResultType(p *Parser, base *types.Type) *types.Type {
	if base.IsError() {
		return p.units.Error()
	}

	switch {
	case base.IsVector():
		return p.units.Scalar(base.Scalar)
	case base.IsMatrix():
		return p.units.Vector(base.Scalar, base.N)
	case base.IsArray():
		return base.Elem
	default:
		return p.units.Error()
	}
}

var swizzleSets = []string{"xyzw", "rgba", "stpq"}

// parseFieldAccess resolves `base.field` to a swizzle when base is a
// vector, or to a struct/interface-block member lookup otherwise (spec.md
// §4.6).
func (p *Parser) parseFieldAccess(begin lexcontext.TokenID, base ast.NodeID, field string) ast.NodeID {
	baseType := p.builder.Arena.Node(base).DeducedType

	if baseType.IsVector() {
		indices, ok := decodeSwizzle(field, baseType.N)
		if !ok {
			p.report(p.peek(), "invalid swizzle "+field)

			return p.builder.BuildSwizzle(begin, p.curTokenID(), base, field, nil, p.units.Error())
		}

		var resultType *types.Type
		if len(indices) == 1 {
			resultType = p.units.Scalar(baseType.Scalar)
		} else {
			resultType = p.units.Vector(baseType.Scalar, len(indices))
		}

		return p.builder.BuildSwizzle(begin, p.curTokenID(), base, field, indices, resultType)
	}

	if baseType.IsStruct() {
		if m, ok := baseType.Member(field); ok {
			return p.builder.BuildFieldAccess(begin, p.curTokenID(), base, field, m.Type)
		}

		p.report(p.peek(), "no member named "+field)

		return p.builder.BuildFieldAccess(begin, p.curTokenID(), base, field, p.units.Error())
	}

	p.report(p.peek(), "cannot access field "+field)

	return p.builder.BuildFieldAccess(begin, p.curTokenID(), base, field, p.units.Error())
}

func decodeSwizzle(field string, n int) ([]int, bool) {
	if len(field) == 0 || len(field) > 4 {
		return nil, false
	}

	var set string

	for _, s := range swizzleSets {
		if strings.ContainsRune(s, rune(field[0])) {
			set = s
			break
		}
	}

	if set == "" {
		return nil, false
	}

	indices := make([]int, len(field))

	for i, c := range field {
		idx := strings.IndexRune(set, c)
		if idx < 0 || idx >= n {
			return nil, false
		}

		indices[i] = idx
	}

	return indices, true
}

func (p *Parser) parsePrimaryExpr() ast.NodeID {
	begin := p.curTokenID()
	tok := p.peek()

	switch {
	case tok.Kind == token.IntegerConstant:
		p.next()
		return p.builder.BuildLiteral(begin, p.curTokenID(), tok.String(), parseIntegerLiteral(tok.String()))
	case tok.Kind == token.FloatConstant:
		p.next()
		return p.builder.BuildLiteral(begin, p.curTokenID(), tok.String(), parseFloatLiteral(tok.String()))
	case tok.Kind == token.KwTrue:
		p.next()
		return p.builder.BuildLiteral(begin, p.curTokenID(), tok.String(), constant.Bool(true))
	case tok.Kind == token.KwFalse:
		p.next()
		return p.builder.BuildLiteral(begin, p.curTokenID(), tok.String(), constant.Bool(false))
	case tok.Kind == token.LParen:
		p.next()
		e := p.parseExpr()
		p.expect(token.RParen)

		return e
	case p.isConstructorStart():
		return p.parseConstructorCall(begin)
	case tok.Kind == token.Identifier:
		return p.parseNameOrCall(begin)
	}

	p.report(tok, "expected an expression")
	p.next()

	return p.builder.BuildErrorExpr(begin, p.curTokenID())
}

func (p *Parser) isConstructorStart() bool {
	k := p.peek().Kind
	if _, ok := builtinScalarKeywords[k]; ok {
		return p.peekAt(1).Kind == token.LParen
	}

	if _, ok := vectorKeywords[k]; ok {
		return p.peekAt(1).Kind == token.LParen
	}

	if _, ok := matrixKeywords[k]; ok {
		return p.peekAt(1).Kind == token.LParen
	}

	return false
}

func (p *Parser) parseConstructorCall(begin lexcontext.TokenID) ast.NodeID {
	resultType := p.builder.Arena.Node(p.parseTypeSpecifier()).ResolvedType

	p.expect(token.LParen)
	args := p.parseArgList()
	p.expect(token.RParen)

	return p.builder.BuildCall(begin, p.curTokenID(), ast.CallConstructor, ast.InvalidNode, args, resultType)
}

func (p *Parser) parseNameOrCall(begin lexcontext.TokenID) ast.NodeID {
	name := p.next().String()
	nameEnd := p.curTokenID()

	if p.at(token.LParen) {
		p.next()
		args := p.parseArgList()
		p.expect(token.RParen)

		argTypes := make([]*types.Type, len(args))
		for i, a := range args {
			argTypes[i] = p.builder.Arena.Node(a).DeducedType
		}

		result := p.symbols.FindFunction(name, argTypes)

		resultType := p.units.Error()
		var decl ast.NodeID = ast.InvalidNode

		if result.Entry != nil {
			resultType = result.Entry.ReturnType
			if resultType == nil {
				resultType = p.units.Error()
			}

			if id, ok := result.Entry.Decl.(ast.NodeID); ok {
				decl = id
			}

			for i, param := range result.Entry.Params {
				args[i] = p.coerceTo(args[i], param.Type)
			}
		} else if result.Ambiguous {
			p.report(p.peek(), "ambiguous call to "+name)
		} else {
			p.report(p.peek(), "no matching function for call to "+name)
		}

		accessKind, view := ast.AccessUnknown, ast.DeclView{}
		if decl != ast.InvalidNode {
			accessKind, view = ast.AccessFunction, ast.DeclView{Decl: decl}
		}

		callee := p.builder.BuildName(begin, nameEnd, name, accessKind, view, resultType, constant.ErrorValue)

		return p.builder.BuildCall(begin, p.curTokenID(), ast.CallFunction, callee, args, resultType)
	}

	binding, ok := p.symbols.FindSymbol(name)
	if !ok {
		p.report(p.peek(), "undeclared identifier "+name)

		return p.builder.BuildName(begin, p.curTokenID(), name, ast.AccessUnknown, ast.DeclView{}, p.units.Error(), constant.ErrorValue)
	}

	kind := ast.AccessVariable
	decl, _ := binding.Decl.(ast.DeclView)

	return p.builder.BuildName(begin, p.curTokenID(), name, kind, decl, binding.Type, p.constValueOf(decl))
}

// constValueOf reaches through a resolved const-qualified VariableDecl's
// already-folded initializer, so a named-constant reference folds the
// same way its literal initializer did (mirrors query.Query.Hover's
// const-variable handling).
func (p *Parser) constValueOf(decl ast.DeclView) constant.Value {
	if !decl.IsValid() {
		return constant.ErrorValue
	}

	declNode := p.builder.Arena.Node(decl.Decl)
	if declNode.Tag != ast.VariableDecl || !declNode.Qual.Has(ast.QualConst) {
		return constant.ErrorValue
	}

	if decl.Index >= len(declNode.Init) {
		return constant.ErrorValue
	}

	init := declNode.Init[decl.Index]
	if init == ast.InvalidNode {
		return constant.ErrorValue
	}

	return p.builder.Arena.Node(init).ConstValue
}

func (p *Parser) parseArgList() []ast.NodeID {
	var args []ast.NodeID

	if p.at(token.RParen) {
		return args
	}

	for {
		args = append(args, p.parseAssignmentExpr())

		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}

	return args
}

func parseIntegerLiteral(text string) constant.Value {
	t := strings.TrimRight(text, "uU")
	base := 10

	switch {
	case strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X"):
		base = 16
		t = t[2:]
	case len(t) > 1 && t[0] == '0':
		base = 8
	}

	isUnsigned := strings.ContainsAny(text, "uU")

	if isUnsigned {
		v, err := strconv.ParseUint(t, base, 64)
		if err != nil {
			return constant.ErrorValue
		}

		return constant.Uint(v)
	}

	v, err := strconv.ParseInt(t, base, 64)
	if err != nil {
		return constant.ErrorValue
	}

	return constant.Int(v)
}

func parseFloatLiteral(text string) constant.Value {
	isDouble := strings.HasSuffix(text, "lf") || strings.HasSuffix(text, "LF")
	t := strings.TrimRight(text, "fFlLhH")

	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return constant.ErrorValue
	}

	if isDouble {
		return constant.Double(v)
	}

	return constant.Float(v)
}
