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

// Package lexcontext holds the final, post-expansion token stream one
// translation unit's parser walks (spec.md §4.5). It is an append-only
// table addressed by small integer handles, the same technique package
// source uses for FileIDs (package atom hands out pointer handles instead),
// generalised here to whole tokens so the parser and AST can cheaply refer
// back into the stream without holding a slice header everywhere.
package lexcontext

import "github.com/glsld-lang/glsld/token"

// TokenID addresses one token within a translation unit's lexed stream.
// TU distinguishes a shared preamble's context from the user file's own,
// so a TokenID is only meaningful together with the LexContext it came
// from.
type TokenID struct {
	TU    int32
	Index int32
}

// InvalidTokenID is the zero value, never produced by Append.
var InvalidTokenID = TokenID{}

// LexContext is the append-only RawSyntaxToken table for one translation
// unit. A user file's LexContext may extend a precompiled preamble's
// LexContext (base), so the preamble's tokens are shared by reference
// rather than copied into every compilation (spec.md §8, artefact cache).
type LexContext struct {
	tuTag  int32
	base   *LexContext
	offset int32 // base.Len(), cached so Get/Len avoid an extra call
	tokens []token.PPToken
}

// New creates an empty LexContext tagged tuTag with no shared base.
func New(tuTag int32) *LexContext {
	return &LexContext{tuTag: tuTag}
}

// Extend creates a LexContext that reuses base's tokens under indices
// [0, base.Len()) and appends new tokens of its own starting at
// base.Len(). tuTag is independent of base's tag: two extensions of the
// same preamble carry different tags but resolve through the same base.
func Extend(tuTag int32, base *LexContext) *LexContext {
	return &LexContext{tuTag: tuTag, base: base, offset: int32(base.Len())}
}

// TUTag returns this context's translation-unit tag.
func (c *LexContext) TUTag() int32 { return c.tuTag }

// Append adds tok to the table and returns its new TokenID.
func (c *LexContext) Append(tok token.PPToken) TokenID {
	id := TokenID{TU: c.tuTag, Index: c.offset + int32(len(c.tokens))}
	c.tokens = append(c.tokens, tok)

	return id
}

// Build appends every token in stream in order, returning their TokenIDs.
// Used once, right after the preprocessor hands back its final token
// slice (spec.md §4.5).
func (c *LexContext) Build(stream []token.PPToken) []TokenID {
	ids := make([]TokenID, len(stream))

	for i, t := range stream {
		ids[i] = c.Append(t)
	}

	return ids
}

// Len returns the number of tokens reachable through this context,
// including any shared base prefix.
func (c *LexContext) Len() int {
	return int(c.offset) + len(c.tokens)
}

// Token returns the PPToken at index i (0-based, spanning the shared base
// prefix followed by this context's own tokens).
func (c *LexContext) Token(i int) token.PPToken {
	if i < int(c.offset) {
		return c.base.Token(i)
	}

	return c.tokens[i-int(c.offset)]
}

// Get resolves id against this context. A TokenID minted by a different
// TU tag than either this context or its base is a programming error and
// panics, since it can never be valid.
func (c *LexContext) Get(id TokenID) token.PPToken {
	if id.TU == c.tuTag {
		return c.tokens[id.Index-c.offset]
	}

	if c.base != nil {
		return c.base.Get(id)
	}

	panic("lexcontext: token id from an unrelated translation unit")
}

// Slice returns the tokens in [from, to) as a fresh slice, used by query
// operations that need a contiguous window (e.g. source reconstruction).
func (c *LexContext) Slice(from, to int) []token.PPToken {
	out := make([]token.PPToken, 0, to-from)

	for i := from; i < to; i++ {
		out = append(out, c.Token(i))
	}

	return out
}
