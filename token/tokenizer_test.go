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

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glsld-lang/glsld/atom"
	"github.com/glsld-lang/glsld/scanner"
)

func newTokenizer(text string) *Tokenizer {
	return New(scanner.New(3, []byte(text), false), atom.NewTable())
}

func allTokens(t *testing.T, text string) []PPToken {
	t.Helper()
	tz := newTokenizer(text)

	var out []PPToken

	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		out = append(out, tok)

		if tok.Kind == Eof {
			return out
		}
	}
}

func TestTokenizerIdentifiersAndKeywords(t *testing.T) {
	toks := allTokens(t, "float x")

	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, KwFloat, toks[0].Kind)
	assert.Equal(t, Identifier, toks[1].Kind)
	assert.Equal(t, "x", toks[1].String())
	assert.True(t, toks[1].LeadingWhitespace)
}

func TestTokenizerIntegerAndFloatConstants(t *testing.T) {
	toks := allTokens(t, "1 2.5 1e3 0x1F")

	require.GreaterOrEqual(t, len(toks), 4)
	assert.Equal(t, IntegerConstant, toks[0].Kind)
	assert.Equal(t, FloatConstant, toks[1].Kind)
	assert.Equal(t, FloatConstant, toks[2].Kind)
	assert.Equal(t, IntegerConstant, toks[3].Kind)
	assert.Equal(t, "0x1F", toks[3].String())
}

func TestTokenizerFloatSuffix(t *testing.T) {
	toks := allTokens(t, "1.0f")
	assert.Equal(t, FloatConstant, toks[0].Kind)
}

func TestTokenizerLineComment(t *testing.T) {
	toks := allTokens(t, "// hi\nx")

	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, Comment, toks[0].Kind)
	assert.Equal(t, Identifier, toks[1].Kind)
	assert.True(t, toks[1].FirstOfLine)
}

func TestTokenizerBlockComment(t *testing.T) {
	toks := allTokens(t, "/* multi\nline */x")
	assert.Equal(t, Comment, toks[0].Kind)
	assert.Equal(t, Identifier, toks[1].Kind)
}

func TestTokenizerUnterminatedBlockCommentErrors(t *testing.T) {
	tz := newTokenizer("/* never closes")
	_, err := tz.Next()
	assert.Error(t, err)
}

func TestTokenizerPunctuatorsLongestMatch(t *testing.T) {
	toks := allTokens(t, "<<= << <= < + ++")

	kinds := make([]Kind, 0, len(toks)-1)
	for _, tok := range toks {
		if tok.Kind == Eof {
			break
		}
		kinds = append(kinds, tok.Kind)
	}

	assert.Equal(t, []Kind{LShiftEqual, LShift, LessEqual, Less, Plus, PlusPlus}, kinds)
}

func TestTokenizerHeaderNameQuoted(t *testing.T) {
	tz := newTokenizer(`"common.glsl"`)
	tz.WantHeaderName(QuotedHeader)

	tok, err := tz.Next()
	require.NoError(t, err)
	assert.Equal(t, QuotedString, tok.Kind)
	assert.Equal(t, "common.glsl", tok.String())
}

func TestTokenizerHeaderNameAngle(t *testing.T) {
	tz := newTokenizer(`<common.glsl>`)
	tz.WantHeaderName(AngleHeader)

	tok, err := tz.Next()
	require.NoError(t, err)
	assert.Equal(t, AngleString, tok.Kind)
	assert.Equal(t, "common.glsl", tok.String())
}

func TestTokenizerHeaderNameAutoSniffsQuote(t *testing.T) {
	tz := newTokenizer(`"a.glsl"`)
	tz.WantHeaderName(AutoHeader)

	tok, err := tz.Next()
	require.NoError(t, err)
	assert.Equal(t, QuotedString, tok.Kind)
}

func TestTokenizerEofIsSticky(t *testing.T) {
	tz := newTokenizer("")

	tok1, err := tz.Next()
	require.NoError(t, err)
	assert.Equal(t, Eof, tok1.Kind)

	tok2, err := tz.Next()
	require.NoError(t, err)
	assert.Equal(t, Eof, tok2.Kind)
}

func TestTokenizerUnknownByteRecoversAsError(t *testing.T) {
	toks := allTokens(t, "@")
	assert.Equal(t, Error, toks[0].Kind)
}
