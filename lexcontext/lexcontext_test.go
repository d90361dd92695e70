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

package lexcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glsld-lang/glsld/atom"
	"github.com/glsld-lang/glsld/token"
)

func tok(text string) token.PPToken {
	s := text
	return token.PPToken{Kind: token.Identifier, Text: atom.Atom(&s)}
}

func TestBuildAppendsInOrder(t *testing.T) {
	c := New(1)

	ids := c.Build([]token.PPToken{tok("a"), tok("b"), tok("c")})

	require.Len(t, ids, 3)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "b", c.Get(ids[1]).String())
}

func TestExtendSharesBasePrefix(t *testing.T) {
	base := New(0)
	base.Build([]token.PPToken{tok("preamble")})

	ext := Extend(1, base)
	ids := ext.Build([]token.PPToken{tok("main")})

	assert.Equal(t, 2, ext.Len())
	assert.Equal(t, "preamble", ext.Token(0).String())
	assert.Equal(t, "main", ext.Token(1).String())
	assert.Equal(t, "main", ext.Get(ids[0]).String())
}

func TestGetResolvesThroughBaseForBaseMintedID(t *testing.T) {
	base := New(0)
	baseIDs := base.Build([]token.PPToken{tok("preamble")})

	ext := Extend(1, base)
	ext.Build([]token.PPToken{tok("main")})

	assert.Equal(t, "preamble", ext.Get(baseIDs[0]).String())
}

func TestGetUnrelatedTUPanics(t *testing.T) {
	c := New(1)
	c.Build([]token.PPToken{tok("a")})

	assert.Panics(t, func() { c.Get(TokenID{TU: 99, Index: 0}) })
}

func TestSliceReturnsContiguousWindow(t *testing.T) {
	c := New(0)
	c.Build([]token.PPToken{tok("a"), tok("b"), tok("c")})

	out := c.Slice(1, 3)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].String())
	assert.Equal(t, "c", out[1].String())
}
