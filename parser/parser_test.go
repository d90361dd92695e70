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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glsld-lang/glsld/ast"
	"github.com/glsld-lang/glsld/atom"
	"github.com/glsld-lang/glsld/lexcontext"
	"github.com/glsld-lang/glsld/preprocessor"
	"github.com/glsld-lang/glsld/source"
	"github.com/glsld-lang/glsld/symtab"
	"github.com/glsld-lang/glsld/types"
	"github.com/glsld-lang/glsld/util"
)

func parseSource(t *testing.T, src string) (*ast.Arena, *Parser, ast.NodeID) {
	t.Helper()

	mgr := source.NewManager(source.MapFS{"a.glsl": src})

	f, err := mgr.Open("a.glsl")
	require.NoError(t, err)

	pp := preprocessor.New(mgr, atom.NewTable(), preprocessor.NewTable(), nil, nil, preprocessor.Config{})

	stream, err := pp.Process(f.ID)
	require.NoError(t, err)

	lc := lexcontext.New(int32(f.ID))
	lc.Build(stream)

	units := types.NewUniverse()
	arena := ast.NewArena()
	builder := ast.NewBuilder(arena, units)
	p := New(lc, builder, symtab.New(), units, nil)

	tu := p.ParseTranslationUnit()

	return arena, p, tu
}

func TestParseTranslationUnitCollectsFunctionAndVariableDecls(t *testing.T) {
	arena, _, tu := parseSource(t, `
uniform vec3 uColor;

float square(float x) {
	return x * x;
}
`)

	tuNode := arena.Node(tu)
	require.Equal(t, ast.TranslationUnit, tuNode.Tag)
	require.Len(t, tuNode.Children, 2)

	v := arena.Node(tuNode.Children[0])
	assert.Equal(t, ast.VariableDecl, v.Tag)
	assert.Contains(t, v.Names, "uColor")

	fn := arena.Node(tuNode.Children[1])
	assert.Equal(t, ast.FunctionDecl, fn.Tag)
	assert.Equal(t, "square", fn.Name)
	require.Len(t, fn.Params, 1)
}

func TestParseFunctionDeclPrototypeHasNoBody(t *testing.T) {
	arena, _, tu := parseSource(t, `float square(float x);`)

	tuNode := arena.Node(tu)
	require.Len(t, tuNode.Children, 1)

	fn := arena.Node(tuNode.Children[0])
	assert.Equal(t, ast.FunctionDecl, fn.Tag)
	assert.Equal(t, ast.InvalidNode, fn.Body)
}

func TestParseIfStatementBuildsBothBranches(t *testing.T) {
	arena, _, tu := parseSource(t, `
void main() {
	if (1 > 0) {
		int a;
	} else {
		int b;
	}
}
`)

	tuNode := arena.Node(tu)
	fn := arena.Node(tuNode.Children[0])
	body := arena.Node(fn.Body)
	require.Len(t, body.Stmts, 1)

	ifStmt := arena.Node(body.Stmts[0])
	assert.Equal(t, ast.IfStmt, ifStmt.Tag)
	assert.NotEqual(t, ast.InvalidNode, ifStmt.StmtThen)
	assert.NotEqual(t, ast.InvalidNode, ifStmt.StmtElse)
}

func TestParseForLoopBuildsInitCondPostBody(t *testing.T) {
	arena, _, tu := parseSource(t, `
void main() {
	for (int i = 0; i < 4; i++) {
		int x;
	}
}
`)

	tuNode := arena.Node(tu)
	fn := arena.Node(tuNode.Children[0])
	body := arena.Node(fn.Body)
	require.Len(t, body.Stmts, 1)

	forStmt := arena.Node(body.Stmts[0])
	assert.Equal(t, ast.ForStmt, forStmt.Tag)
	assert.NotEqual(t, ast.InvalidNode, forStmt.StmtInit)
	assert.NotEqual(t, ast.InvalidNode, forStmt.StmtCond)
	assert.NotEqual(t, ast.InvalidNode, forStmt.StmtPost)
	assert.NotEqual(t, ast.InvalidNode, forStmt.StmtBody)
}

func TestParseBinaryExprPrecedence(t *testing.T) {
	arena, _, tu := parseSource(t, `
void main() {
	float v = 1.0 + 2.0 * 3.0;
}
`)

	tuNode := arena.Node(tu)
	fn := arena.Node(tuNode.Children[0])
	body := arena.Node(fn.Body)
	declStmt := arena.Node(body.Stmts[0])

	decl := arena.Node(declStmt.StmtDecl)
	require.Len(t, decl.Init, 1)

	add := arena.Node(decl.Init[0])
	assert.Equal(t, ast.BinaryExpr, add.Tag)
	assert.Equal(t, "+", add.Op)

	rhs := arena.Node(add.RHS)
	assert.Equal(t, ast.BinaryExpr, rhs.Tag)
	assert.Equal(t, "*", rhs.Op)
}

func TestParseSwizzleFieldAccess(t *testing.T) {
	arena, _, tu := parseSource(t, `
void main() {
	vec3 c = vec3(1.0, 2.0, 3.0);
	float r = c.xyz.x;
}
`)

	tuNode := arena.Node(tu)
	fn := arena.Node(tuNode.Children[0])
	body := arena.Node(fn.Body)
	require.Len(t, body.Stmts, 2)

	declStmt := arena.Node(body.Stmts[1])
	decl := arena.Node(declStmt.StmtDecl)
	field := arena.Node(decl.Init[0])
	assert.Equal(t, ast.FieldAccessExpr, field.Tag)
	assert.Equal(t, ast.AccessSwizzle, field.AccessKind)
}

func TestParseConstructorCallBuildsCallConstructor(t *testing.T) {
	arena, _, tu := parseSource(t, `
void main() {
	vec3 c = vec3(1.0, 2.0, 3.0);
}
`)

	tuNode := arena.Node(tu)
	fn := arena.Node(tuNode.Children[0])
	body := arena.Node(fn.Body)
	declStmt := arena.Node(body.Stmts[0])
	decl := arena.Node(declStmt.StmtDecl)

	call := arena.Node(decl.Init[0])
	assert.Equal(t, ast.CallExpr, call.Tag)
	assert.Equal(t, ast.CallConstructor, call.CallKind)
	assert.Equal(t, ast.InvalidNode, call.Callee)
	require.Len(t, call.Args, 3)
}

func TestParseLayoutQualifierFoldsKnownIdentifiersTyped(t *testing.T) {
	arena, _, tu := parseSource(t, `
layout(binding = 2, set = 1, std430) buffer Particles {
	vec4 pos;
};
`)

	tuNode := arena.Node(tu)
	require.Len(t, tuNode.Children, 1)

	block := arena.Node(tuNode.Children[0])
	require.Equal(t, ast.InterfaceBlockDecl, block.Tag)

	binding, ok := block.Layout.Int(util.LayoutBinding)
	require.True(t, ok)
	assert.Equal(t, 2, binding)

	set, ok := block.Layout.Int(util.LayoutSet)
	require.True(t, ok)
	assert.Equal(t, 1, set)

	_, ok = block.Layout.Extra("std430")
	assert.True(t, ok, "a vendor qualifier with no typed meaning is still recorded, not dropped")
}

func TestParseConstArraySizeReferenceFoldsThroughNamedConstant(t *testing.T) {
	arena, _, tu := parseSource(t, `
const int K = 1 + 2 * 3;
float a[K];
`)

	tuNode := arena.Node(tu)
	require.Len(t, tuNode.Children, 2)

	arrDecl := arena.Node(tuNode.Children[1])
	require.Equal(t, ast.VariableDecl, arrDecl.Tag)
	require.Len(t, arrDecl.ArraySpecs, 1)

	spec := arena.Node(arrDecl.ArraySpecs[0])
	require.Len(t, spec.DimSizes, 1)
	assert.Equal(t, 7, spec.DimSizes[0],
		"K must fold through its NameAccessExpr reference to the constant its initializer already folded to, not force an unsized/zero dimension")
}

func TestParseErrorRecoveryReportsAndReachesEndOfBlock(t *testing.T) {
	arena, p, tu := parseSource(t, `
void main() {
	int a = ;
	int b = 1;
}
`)

	assert.Greater(t, p.ErrorCount(), 0)

	tuNode := arena.Node(tu)
	fn := arena.Node(tuNode.Children[0])
	body := arena.Node(fn.Body)

	// the malformed initializer is reported and synchronized past, and the
	// block still closes cleanly rather than the parser running away.
	assert.NotEmpty(t, body.Stmts)
	assert.Equal(t, ast.Block, arena.Node(fn.Body).Tag)
}
