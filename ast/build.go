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

package ast

import (
	"github.com/glsld-lang/glsld/constant"
	"github.com/glsld-lang/glsld/lexcontext"
	"github.com/glsld-lang/glsld/types"
)

// Builder drives every Build* call for one translation unit, stamping
// semantic payloads (deduced type, folded constant, resolved declaration)
// onto each node as it is constructed rather than in a separate pass
// (spec.md §4.6 "single-pass semantic construction").
type Builder struct {
	Arena    *Arena
	Universe *types.Universe
}

// NewBuilder creates a Builder writing into arena against universe.
func NewBuilder(arena *Arena, universe *types.Universe) *Builder {
	return &Builder{Arena: arena, Universe: universe}
}

func (b *Builder) new(n Node) NodeID {
	return b.Arena.alloc(n)
}

// BuildErrorDecl/BuildErrorStmt/BuildErrorExpr construct the synchronization
// placeholder nodes the parser emits after a recovery (spec.md §4.6 "error
// recovery never fails semantic construction").
func (b *Builder) BuildErrorDecl(begin, end lexcontext.TokenID) NodeID {
	return b.new(Node{Tag: ErrorDecl, Begin: begin, End: end})
}

func (b *Builder) BuildErrorStmt(begin, end lexcontext.TokenID) NodeID {
	return b.new(Node{Tag: ErrorStmt, Begin: begin, End: end})
}

func (b *Builder) BuildErrorExpr(begin, end lexcontext.TokenID) NodeID {
	return b.new(Node{
		Tag: ErrorExpr, Begin: begin, End: end,
		DeducedType: b.Universe.Error(), ConstValue: constant.ErrorValue,
	})
}

// BuildQualType stamps a QualType node's resolved type, either a built-in
// scalar/vector/matrix/sampler Type the parser already looked up, or a
// struct Type resolved through an earlier StructDecl.
func (b *Builder) BuildQualType(begin, end lexcontext.TokenID, resolved *types.Type, structDecl NodeID) NodeID {
	return b.new(Node{
		Tag: QualType, Begin: begin, End: end,
		ResolvedType: resolved, ResolvedStructDecl: structDecl,
	})
}

// BuildArraySpec folds each dimension expression's constant value into
// DimSizes; a dimension left as InvalidNode (an unsized "[]" dimension)
// folds to size 0, matching types.Universe.Array's runtime-sized
// convention.
func (b *Builder) BuildArraySpec(begin, end lexcontext.TokenID, dims []NodeID) NodeID {
	sizes := make([]int, len(dims))

	for i, d := range dims {
		if d == InvalidNode {
			sizes[i] = 0
			continue
		}

		cv := b.Arena.Node(d).ConstValue
		if cv.Error || !cv.IsScalar() {
			sizes[i] = 0
			continue
		}

		sizes[i] = int(cv.AsInt())
	}

	return b.new(Node{Tag: ArraySpec, Begin: begin, End: end, Dims: dims, DimSizes: sizes})
}

// BuildLiteral folds a scanned literal token's text into a constant Value
// and stamps both DeducedType and ConstValue from it.
func (b *Builder) BuildLiteral(begin, end lexcontext.TokenID, text string, value constant.Value) NodeID {
	return b.new(Node{
		Tag: LiteralExpr, Begin: begin, End: end,
		LiteralText: text, ConstValue: value, DeducedType: value.Type(b.Universe),
	})
}

// BuildName stamps a NameAccessExpr from the already-resolved symbol the
// parser found via symtab.FindSymbol; resolvedType is that symbol's type
// and, for a const-qualified variable whose initializer already folded,
// resolvedConst carries its value so later expressions can fold through it.
func (b *Builder) BuildName(
	begin, end lexcontext.TokenID, name string, kind AccessKind,
	decl DeclView, resolvedType *types.Type, resolvedConst constant.Value,
) NodeID {
	return b.new(Node{
		Tag: NameAccessExpr, Begin: begin, End: end,
		Name: name, AccessKind: kind, ResolvedDecl: decl,
		DeducedType: resolvedType, ConstValue: resolvedConst,
	})
}

// BuildImplicitCast wraps source in an ImplicitCastExpr targeting target,
// folding source's constant value through the conversion when source was
// itself constant. The parser inserts this whenever Convertible(from, to)
// is anything but types.Exact at an implicit-conversion site (spec.md
// §4.7).
func (b *Builder) BuildImplicitCast(source NodeID, target *types.Type) NodeID {
	src := b.Arena.Node(source)

	id := b.new(Node{
		Tag: ImplicitCastExpr, Begin: src.Begin, End: src.End,
		Source: source, CastTarget: target,
		DeducedType: target, ConstValue: castConstant(src.ConstValue, target),
	})

	return id
}

func castConstant(v constant.Value, target *types.Type) constant.Value {
	if v.Error || target.IsError() {
		return constant.ErrorValue
	}

	if !target.IsScalar() {
		return v
	}

	if !v.IsScalar() {
		return constant.ErrorValue
	}

	switch target.Scalar {
	case types.Bool:
		return constant.Bool(v.AsBool())
	case types.Float:
		return constant.Float(scalarAsFloat(v))
	case types.Double:
		return constant.Double(scalarAsFloat(v))
	case types.Int:
		return constant.Int(v.AsInt())
	case types.Uint:
		return constant.Uint(uint64(v.AsInt()))
	default:
		return v
	}
}

func scalarAsFloat(v constant.Value) float64 {
	if v.Kind == types.Bool {
		if v.AsBool() {
			return 1
		}

		return 0
	}

	return float64(v.AsInt())
}

// BuildUnary folds op on operand's constant value (when present) and
// stamps the already-resolved result type, computed by the parser from
// the builtin unary-operator table.
func (b *Builder) BuildUnary(begin, end lexcontext.TokenID, op string, operand NodeID, resultType *types.Type) NodeID {
	o := b.Arena.Node(operand)

	return b.new(Node{
		Tag: UnaryExpr, Begin: begin, End: end,
		Op: op, Operand: operand,
		DeducedType: resultType, ConstValue: constant.UnaryOp(op, o.ConstValue),
	})
}

// BuildBinary folds op over lhs/rhs's already-cast operands; the parser is
// responsible for first wrapping either side in BuildImplicitCast so both
// share one type before calling this.
func (b *Builder) BuildBinary(begin, end lexcontext.TokenID, op string, lhs, rhs NodeID, resultType *types.Type) NodeID {
	l, r := b.Arena.Node(lhs), b.Arena.Node(rhs)

	return b.new(Node{
		Tag: BinaryExpr, Begin: begin, End: end,
		Op: op, LHS: lhs, RHS: rhs,
		DeducedType: resultType, ConstValue: constant.BinaryOp(op, l.ConstValue, r.ConstValue),
	})
}

// BuildTernary folds `cond ? thenE : elseE`; thenE and elseE must already
// share resultType (the parser inserts implicit casts as needed).
func (b *Builder) BuildTernary(begin, end lexcontext.TokenID, cond, thenE, elseE NodeID, resultType *types.Type) NodeID {
	c, t, e := b.Arena.Node(cond), b.Arena.Node(thenE), b.Arena.Node(elseE)

	return b.new(Node{
		Tag: TernaryExpr, Begin: begin, End: end,
		CondE: cond, ThenE: thenE, ElseE: elseE,
		DeducedType: resultType,
		ConstValue:  constant.TernaryOp(c.ConstValue, t.ConstValue, e.ConstValue),
	})
}

// BuildIndex folds `base[index]`.
func (b *Builder) BuildIndex(begin, end lexcontext.TokenID, base, index NodeID, resultType *types.Type) NodeID {
	bn, in := b.Arena.Node(base), b.Arena.Node(index)

	return b.new(Node{
		Tag: IndexExpr, Begin: begin, End: end,
		Base: base, Index: index,
		DeducedType: resultType,
		ConstValue:  constant.Index(bn.ConstValue, in.ConstValue),
	})
}

// BuildSwizzle builds a FieldAccessExpr whose field names a swizzle mask
// (e.g. "xy", "rgba"); indices are the already-validated 0-based component
// positions the parser decoded from field.
func (b *Builder) BuildSwizzle(begin, end lexcontext.TokenID, base NodeID, field string, indices []int, resultType *types.Type) NodeID {
	bn := b.Arena.Node(base)

	return b.new(Node{
		Tag: FieldAccessExpr, Begin: begin, End: end,
		Base: base, Field: field, AccessKind: AccessSwizzle,
		DeducedType: resultType,
		ConstValue:  constant.Swizzle(bn.ConstValue, indices),
	})
}

// BuildFieldAccess builds a struct-member FieldAccessExpr; member's
// constant folding is left as ErrorValue since struct members are never
// themselves constant expressions in GLSL.
func (b *Builder) BuildFieldAccess(begin, end lexcontext.TokenID, base NodeID, field string, resultType *types.Type) NodeID {
	return b.new(Node{
		Tag: FieldAccessExpr, Begin: begin, End: end,
		Base: base, Field: field, AccessKind: AccessVariable,
		DeducedType: resultType, ConstValue: constant.ErrorValue,
	})
}

// BuildCall builds a CallExpr for an already-resolved function or
// constructor invocation; the parser performs overload resolution via
// symtab.FindFunction (or a constructor lookup) before calling this and
// passes in the winning candidate's return type.
func (b *Builder) BuildCall(begin, end lexcontext.TokenID, kind CallKind, callee NodeID, args []NodeID, resultType *types.Type) NodeID {
	return b.new(Node{
		Tag: CallExpr, Begin: begin, End: end,
		CallKind: kind, Callee: callee, Args: args,
		DeducedType: resultType, ConstValue: constant.ErrorValue,
	})
}

// BuildInitList builds a `{...}` initializer-list expression; GLSL never
// treats these as constant expressions, so ConstValue is always the error
// value.
func (b *Builder) BuildInitList(begin, end lexcontext.TokenID, elems []NodeID, resultType *types.Type) NodeID {
	return b.new(Node{
		Tag: InitListExpr, Begin: begin, End: end,
		Args: elems, DeducedType: resultType, ConstValue: constant.ErrorValue,
	})
}

// BuildVariableDecl constructs a (possibly multi-declarator) variable
// declaration; names[i]/arraySpecs[i]/init[i] describe the i-th
// declarator.
func (b *Builder) BuildVariableDecl(
	begin, end lexcontext.TokenID, qual Qualifiers, qualType NodeID,
	names []string, arraySpecs, init []NodeID,
) NodeID {
	return b.new(Node{
		Tag: VariableDecl, Begin: begin, End: end,
		Qual: qual.Group, Layout: qual.Layout, QualTypeNode: qualType,
		Names: names, ArraySpecs: arraySpecs, Init: init,
	})
}

// BuildParamDecl constructs one FunctionDecl parameter.
func (b *Builder) BuildParamDecl(begin, end lexcontext.TokenID, qual Qualifiers, qualType NodeID, name string, arraySpec NodeID) NodeID {
	return b.new(Node{
		Tag: ParamDecl, Begin: begin, End: end,
		Qual: qual.Group, Layout: qual.Layout, QualTypeNode: qualType,
		Name: name, ArraySpecs: []NodeID{arraySpec},
	})
}

// BuildFunctionDecl constructs a function declaration or definition;
// body is InvalidNode for a bare prototype.
func (b *Builder) BuildFunctionDecl(
	begin, end lexcontext.TokenID, name string, params []NodeID,
	paramTypes []*types.Type, returnType *types.Type, body NodeID,
) NodeID {
	return b.new(Node{
		Tag: FunctionDecl, Begin: begin, End: end,
		Name: name, Params: params, ParamTypes: paramTypes,
		ReturnType: returnType, Body: body,
	})
}

// BuildStructDecl constructs a struct declaration; memberType is the
// types.Universe struct Type the caller allocated via Universe.NewStruct
// before calling this, so the Type's Decl back-reference can be wired to
// the returned NodeID by the caller.
func (b *Builder) BuildStructDecl(begin, end lexcontext.TokenID, name string, members []NodeID, memberType *types.Type) NodeID {
	return b.new(Node{
		Tag: StructDecl, Begin: begin, End: end,
		Name: name, Members: members, MemberType: memberType,
	})
}

// BuildInterfaceBlockDecl constructs a named interface block (`uniform
// Block { ... } instanceName;`); instanceName is empty when the block's
// members are accessed unqualified.
func (b *Builder) BuildInterfaceBlockDecl(
	begin, end lexcontext.TokenID, qual Qualifiers, name string,
	members []NodeID, memberType *types.Type, instanceName string,
) NodeID {
	return b.new(Node{
		Tag: InterfaceBlockDecl, Begin: begin, End: end,
		Qual: qual.Group, Layout: qual.Layout,
		Name: name, Members: members, MemberType: memberType, InstanceName: instanceName,
	})
}

// BuildPrecisionDecl constructs a `precision highp float;` statement.
func (b *Builder) BuildPrecisionDecl(begin, end lexcontext.TokenID, qual Qualifiers, qualType NodeID) NodeID {
	return b.new(Node{Tag: PrecisionDecl, Begin: begin, End: end, Qual: qual.Group, QualTypeNode: qualType})
}

// BuildBlock, BuildIf, BuildFor, BuildWhile, BuildDoWhile, BuildSwitch,
// BuildCaseLabel, BuildReturn, BuildBreak, BuildContinue, BuildDiscard,
// BuildExprStmt, and BuildDeclStmt construct the statement nodes; none of
// them perform semantic computation beyond recording their substructure,
// since statements never have a deduced type or constant value.

func (b *Builder) BuildBlock(begin, end lexcontext.TokenID, stmts []NodeID) NodeID {
	return b.new(Node{Tag: Block, Begin: begin, End: end, Stmts: stmts})
}

func (b *Builder) BuildIf(begin, end lexcontext.TokenID, cond, thenS, elseS NodeID) NodeID {
	return b.new(Node{Tag: IfStmt, Begin: begin, End: end, StmtCond: cond, StmtThen: thenS, StmtElse: elseS})
}

func (b *Builder) BuildFor(begin, end lexcontext.TokenID, init, cond, post, body NodeID) NodeID {
	return b.new(Node{
		Tag: ForStmt, Begin: begin, End: end,
		StmtInit: init, StmtCond: cond, StmtPost: post, StmtBody: body,
	})
}

func (b *Builder) BuildWhile(begin, end lexcontext.TokenID, cond, body NodeID) NodeID {
	return b.new(Node{Tag: WhileStmt, Begin: begin, End: end, StmtCond: cond, StmtBody: body})
}

func (b *Builder) BuildDoWhile(begin, end lexcontext.TokenID, body, cond NodeID) NodeID {
	return b.new(Node{Tag: DoWhileStmt, Begin: begin, End: end, StmtBody: body, StmtCond: cond})
}

func (b *Builder) BuildSwitch(begin, end lexcontext.TokenID, cond, body NodeID) NodeID {
	return b.new(Node{Tag: SwitchStmt, Begin: begin, End: end, StmtCond: cond, StmtBody: body})
}

func (b *Builder) BuildCaseLabel(begin, end lexcontext.TokenID, value NodeID) NodeID {
	return b.new(Node{Tag: CaseLabelStmt, Begin: begin, End: end, StmtExpr: value})
}

func (b *Builder) BuildReturn(begin, end lexcontext.TokenID, value NodeID) NodeID {
	return b.new(Node{Tag: ReturnStmt, Begin: begin, End: end, StmtExpr: value})
}

func (b *Builder) BuildBreak(begin, end lexcontext.TokenID) NodeID {
	return b.new(Node{Tag: BreakStmt, Begin: begin, End: end})
}

func (b *Builder) BuildContinue(begin, end lexcontext.TokenID) NodeID {
	return b.new(Node{Tag: ContinueStmt, Begin: begin, End: end})
}

func (b *Builder) BuildDiscard(begin, end lexcontext.TokenID) NodeID {
	return b.new(Node{Tag: DiscardStmt, Begin: begin, End: end})
}

func (b *Builder) BuildExprStmt(begin, end lexcontext.TokenID, expr NodeID) NodeID {
	return b.new(Node{Tag: ExprStmt, Begin: begin, End: end, StmtExpr: expr})
}

func (b *Builder) BuildDeclStmt(begin, end lexcontext.TokenID, decl NodeID) NodeID {
	return b.new(Node{Tag: DeclStmt, Begin: begin, End: end, StmtDecl: decl})
}

// BuildTranslationUnit is the root node of one compiled file.
func (b *Builder) BuildTranslationUnit(begin, end lexcontext.TokenID, decls []NodeID) NodeID {
	return b.new(Node{Tag: TranslationUnit, Begin: begin, End: end, Children: decls})
}
