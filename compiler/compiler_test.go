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

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glsld-lang/glsld/ast"
	"github.com/glsld-lang/glsld/query"
	"github.com/glsld-lang/glsld/source"
)

func TestCompileSimpleFragmentShader(t *testing.T) {
	const src = `#version 450
uniform vec3 uColor;

float square(float x) {
	return x * x;
}

void main() {
	float v = square(2);
}
`

	mgr := source.NewManager(source.MapFS{"main.frag": src})
	c := NewCompiler()

	comp, err := c.Compile(mgr, mustOpen(t, mgr, "main.frag"), LanguageConfig{Version: 450, Profile: "core", Stage: "fragment"}, CompilerConfig{})
	require.NoError(t, err)
	require.NotNil(t, comp)

	assert.Empty(t, comp.Diagnostics, "a well-formed shader reports no diagnostics")

	tu := comp.Arena.Node(comp.TranslationUnit)
	assert.Equal(t, ast.TranslationUnit, tu.Tag)

	q := query.New(comp.Arena, comp.LC, comp.Symbols, comp.PP, comp.Units)
	syms := q.DocumentSymbols()

	var names []string
	for _, s := range syms {
		names = append(names, s.Name)
	}

	assert.Contains(t, names, "square")
	assert.Contains(t, names, "main")
	assert.Contains(t, names, "uColor")
}

func TestCompilePreambleIsCachedPerLanguage(t *testing.T) {
	mgr := source.NewManager(source.MapFS{
		"a.frag": "#version 450\nvoid main() {}\n",
		"b.frag": "#version 450\nvoid main() {}\n",
	})

	c := NewCompiler()
	lang := LanguageConfig{Version: 450, Profile: "core", Stage: "fragment"}

	_, err := c.Compile(mgr, mustOpen(t, mgr, "a.frag"), lang, CompilerConfig{})
	require.NoError(t, err)

	preamble1, ok := c.Cache.Get(lang)
	require.True(t, ok)

	_, err = c.Compile(mgr, mustOpen(t, mgr, "b.frag"), lang, CompilerConfig{})
	require.NoError(t, err)

	preamble2, ok := c.Cache.Get(lang)
	require.True(t, ok)

	assert.Same(t, preamble1, preamble2, "the second compile reuses the cached preamble")
}

func mustOpen(t *testing.T, mgr *source.Manager, path string) source.FileID {
	t.Helper()

	f, err := mgr.Open(path)
	require.NoError(t, err)

	return f.ID
}
