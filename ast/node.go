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
	"github.com/glsld-lang/glsld/util"
)

// Tag is the closed set of AST node variants (spec.md §9 "Polymorphic
// AST"). Every Node carries exactly one Tag and only the payload fields
// that Tag documents are meaningful.
type Tag int

const (
	Invalid Tag = iota

	TranslationUnit

	ErrorDecl
	ErrorStmt
	ErrorExpr

	VariableDecl
	FunctionDecl
	ParamDecl
	StructDecl
	InterfaceBlockDecl
	PrecisionDecl

	QualType
	ArraySpec

	Block
	IfStmt
	ForStmt
	WhileStmt
	DoWhileStmt
	SwitchStmt
	CaseLabelStmt
	ReturnStmt
	BreakStmt
	ContinueStmt
	DiscardStmt
	ExprStmt
	DeclStmt

	LiteralExpr
	NameAccessExpr
	UnaryExpr
	BinaryExpr
	TernaryExpr
	IndexExpr
	FieldAccessExpr
	CallExpr
	ImplicitCastExpr
	InitListExpr
)

// AccessKind classifies what a NameAccessExpr or FieldAccessExpr resolved
// to (spec.md §3).
type AccessKind int

const (
	AccessUnknown AccessKind = iota
	AccessVariable
	AccessFunction
	AccessConstructor
	AccessSwizzle
)

// CallKind distinguishes an ordinary function call from a type
// constructor invocation, both represented by a CallExpr node.
type CallKind int

const (
	CallFunction CallKind = iota
	CallConstructor
)

// DeclView addresses one declarator inside a (possibly multi-declarator)
// declaration: `int a, b[3];` produces one VariableDecl node with two
// declarators, each individually addressable.
type DeclView struct {
	Decl  NodeID
	Index int
}

// IsValid reports whether v actually names a declarator.
func (v DeclView) IsValid() bool { return v.Decl != InvalidNode }

// Node is the single struct every AST variant is built from; which fields
// are populated is determined entirely by Tag (spec.md §9).
type Node struct {
	Tag Tag

	// Begin/End delimit the node's syntaxRange in the owning LexContext
	// (spec.md §3 invariant: "syntaxRange [beginTokenID, endTokenID)").
	Begin, End lexcontext.TokenID

	Children []NodeID

	// Decl payload (VariableDecl/ParamDecl/FunctionDecl/StructDecl/
	// InterfaceBlockDecl/PrecisionDecl).
	Name         string
	Names        []string // one per declarator, for multi-declarator VariableDecl
	Qual         QualifierGroup
	Layout       util.LayoutQualifiers
	QualTypeNode NodeID  // the QualType child carrying the base type specifier
	ArraySpecs   []NodeID // one per declarator, ArraySpec or InvalidNode
	Init         []NodeID // one per declarator, Expr or InvalidNode

	// QualType payload.
	ResolvedType       *types.Type
	ResolvedStructDecl NodeID

	// ArraySpec payload: one NodeID per dimension (Expr, or InvalidNode
	// for an unsized "[]" dimension), plus the folded sizes.
	Dims     []NodeID
	DimSizes []int

	// FunctionDecl payload.
	Params       []NodeID // ParamDecl children
	ParamTypes   []*types.Type
	ReturnType   *types.Type
	Body         NodeID // Block, or InvalidNode for a prototype

	// StructDecl/InterfaceBlockDecl payload.
	Members    []NodeID // VariableDecl children; one member declaration may carry several declarators
	MemberType *types.Type
	InstanceName string // InterfaceBlockDecl's optional instance name declarator

	// Expr payload (every Expr-tagged node).
	DeducedType *types.Type
	ConstValue  constant.Value

	// NameAccessExpr / FieldAccessExpr payload.
	AccessKind   AccessKind
	SwizzleChars string
	ResolvedDecl DeclView

	// UnaryExpr/BinaryExpr/TernaryExpr payload.
	Op        string
	Operand   NodeID
	LHS, RHS  NodeID
	CondE, ThenE, ElseE NodeID

	// IndexExpr/FieldAccessExpr/CallExpr payload.
	Base     NodeID
	Index    NodeID
	Field    string
	Callee   NodeID
	CallKind CallKind
	Args     []NodeID

	// ImplicitCastExpr payload.
	CastTarget *types.Type
	Source     NodeID

	// LiteralExpr payload.
	LiteralText string

	// Statement payload (If/For/While/DoWhile/Switch/Block/ExprStmt/DeclStmt).
	StmtCond NodeID
	StmtInit NodeID
	StmtPost NodeID
	StmtThen NodeID
	StmtElse NodeID
	StmtBody NodeID
	StmtExpr NodeID
	StmtDecl NodeID
	Stmts    []NodeID
}
