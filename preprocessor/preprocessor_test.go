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

package preprocessor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glsld-lang/glsld/atom"
	"github.com/glsld-lang/glsld/source"
	"github.com/glsld-lang/glsld/token"
)

func process(t *testing.T, files source.MapFS, root string, cfg Config) ([]token.PPToken, *Preprocessor) {
	t.Helper()

	mgr := source.NewManager(files)
	f, err := mgr.Open(root)
	require.NoError(t, err)

	p := New(mgr, atom.NewTable(), NewTable(), nil, nil, cfg)
	toks, err := p.Process(f.ID)
	require.NoError(t, err)

	return toks, p
}

func spelling(toks []token.PPToken) string {
	var sb strings.Builder

	for _, t := range toks {
		if t.Kind == token.Eof {
			continue
		}

		sb.WriteString(t.String())
		sb.WriteByte(' ')
	}

	return strings.TrimSpace(sb.String())
}

func TestObjectLikeMacroExpansion(t *testing.T) {
	toks, _ := process(t, source.MapFS{
		"a.glsl": "#define SIZE 4\nfloat arr[SIZE];\n",
	}, "a.glsl", Config{})

	assert.Equal(t, "float arr [ 4 ] ;", spelling(toks))
}

func TestFunctionLikeMacroExpansion(t *testing.T) {
	toks, _ := process(t, source.MapFS{
		"a.glsl": "#define MAX(a, b) ((a) > (b) ? (a) : (b))\nint x = MAX(1, 2);\n",
	}, "a.glsl", Config{})

	assert.Equal(t, "int x = ( ( 1 ) > ( 2 ) ? ( 1 ) : ( 2 ) ) ;", spelling(toks))
}

func TestFunctionLikeMacroSuppressesSelfRecursion(t *testing.T) {
	toks, _ := process(t, source.MapFS{
		"a.glsl": "#define F(x) F(x) + 1\nF(1);\n",
	}, "a.glsl", Config{})

	// Self-recursive invocation must not expand a second time: the inner
	// "F(x)" stays unexpanded once painted blue.
	assert.Equal(t, "F ( 1 ) + 1 ;", spelling(toks))
}

func TestIfdefSkipsInactiveBranch(t *testing.T) {
	toks, _ := process(t, source.MapFS{
		"a.glsl": "#ifdef DEBUG\nint debugOnly;\n#else\nint releaseOnly;\n#endif\n",
	}, "a.glsl", Config{})

	assert.Equal(t, "int releaseOnly ;", spelling(toks))
}

func TestIfConstantExpression(t *testing.T) {
	toks, _ := process(t, source.MapFS{
		"a.glsl": "#define LEVEL 2\n#if LEVEL > 1\nint highDetail;\n#endif\n",
	}, "a.glsl", Config{})

	assert.Equal(t, "int highDetail ;", spelling(toks))
}

func TestIncludeCrossFile(t *testing.T) {
	// Angle-bracket form resolves purely against Config.IncludePaths, which
	// stay relative MapFS keys; quoted-form resolution instead joins
	// against the including file's canonicalised (OS-absolute) directory,
	// which only ever matches a real OSFileSystem, not MapFS.
	files := source.MapFS{
		"main.glsl":       "#include <common.glsl>\nvoid main() { helper(); }\n",
		"lib/common.glsl": "void helper() {}\n",
	}

	mgr := source.NewManager(files)
	f, err := mgr.Open("main.glsl")
	require.NoError(t, err)

	cb := &fileEntryRecorder{}
	p := New(mgr, atom.NewTable(), NewTable(), cb, nil, Config{IncludePaths: []string{"lib"}})
	toks, err := p.Process(f.ID)
	require.NoError(t, err)

	assert.Contains(t, spelling(toks), "void helper ( ) { }")
	assert.Contains(t, spelling(toks), "void main ( ) { helper ( ) ; }")
	assert.Len(t, cb.entered, 2, "both the root file and the included header must be entered exactly once")
}

// fileEntryRecorder is a minimal Callback used only to observe
// OnEnterFile/OnExitFile pairing; ppstore.Store itself cannot be imported
// here (it imports this package, which would create an import cycle for a
// white-box test file).
type fileEntryRecorder struct {
	NopCallback
	entered []source.FileID
}

func (r *fileEntryRecorder) OnEnterFile(file source.FileID, includedFrom token.Pos) {
	r.entered = append(r.entered, file)
}

func TestUndefRemovesMacro(t *testing.T) {
	toks, _ := process(t, source.MapFS{
		"a.glsl": "#define FOO 1\n#undef FOO\n#ifdef FOO\nint shouldNotAppear;\n#else\nint shouldAppear;\n#endif\n",
	}, "a.glsl", Config{})

	assert.Equal(t, "int shouldAppear ;", spelling(toks))
}

func TestElifChain(t *testing.T) {
	toks, _ := process(t, source.MapFS{
		"a.glsl": "#define MODE 2\n#if MODE == 1\nint one;\n#elif MODE == 2\nint two;\n#else\nint other;\n#endif\n",
	}, "a.glsl", Config{})

	assert.Equal(t, "int two ;", spelling(toks))
}
