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
	"strconv"

	"github.com/glsld-lang/glsld/source"
)

// Node contains access to the start and end positions of a token or AST node.
type Node interface {
	Begin() Pos
	End() Pos
}

// Pos is a zero-based TextPosition resolved within one file. Char counts
// UTF-8 bytes by default; when a compilation's CompilerConfig sets
// CountUTF16, Unit additionally carries the UTF-16 code-unit column so
// language-server positions match what an LSP client requested.
type Pos struct {
	File   source.FileID
	Line   int // zero-based
	Char   int // zero-based, UTF-8 byte count within Line unless Unit is used
	Offset int // zero-based byte offset within File
	Unit   int // zero-based UTF-16 code-unit count within Line (only when configured)
}

// Less orders positions first by File (arbitrarily, by ID), then by Line, then Char.
func (p Pos) Less(o Pos) bool {
	if p.File != o.File {
		return p.File < o.File
	}

	if p.Line != o.Line {
		return p.Line < o.Line
	}

	return p.Char < o.Char
}

// String renders "file:line:col" in one-based form for human-readable diagnostics.
func (p Pos) String(path string) string {
	return path + ":" + strconv.Itoa(p.Line+1) + ":" + strconv.Itoa(p.Char+1)
}

// Range is a half-open [Begin, End) span; empty when Begin == End.
type Range struct {
	Begin, End Pos
}

// Contains reports whether pos lies in [r.Begin, r.End).
func (r Range) Contains(pos Pos) bool {
	if pos.File != r.Begin.File {
		return false
	}

	return !pos.Less(r.Begin) && pos.Less(r.End)
}

// Empty reports whether the range spans zero characters.
func (r Range) Empty() bool {
	return r.Begin == r.End
}

type defaultNode struct {
	begin, end Pos
}

func (d defaultNode) Begin() Pos { return d.begin }
func (d defaultNode) End() Pos   { return d.end }

// NewNode wraps a begin/end pair as a Node, e.g. for constructing synthetic
// positions to anchor diagnostics that do not originate from a single token.
func NewNode(begin, end Pos) Node {
	return defaultNode{begin, end}
}
