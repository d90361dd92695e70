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

import "github.com/glsld-lang/glsld/atom"

// PPToken is a pre-expansion token, as produced by the Tokenizer straight
// off the Scanner (spec.md §3). Its SpelledFile range always refers to the file
// it was literally read from.
type PPToken struct {
	Kind              Kind
	SpelledFile       Range // Begin/End share File; Range used for convenience
	Text              atom.Atom
	FirstOfLine       bool
	LeadingWhitespace bool
}

// Spelled returns the token's spelled range.
func (t PPToken) Spelled() Range { return t.SpelledFile }

func (t PPToken) Begin() Pos { return t.SpelledFile.Begin }
func (t PPToken) End() Pos   { return t.SpelledFile.End }

// String returns the token's interned spelling.
func (t PPToken) String() string { return atom.String(t.Text) }

// EOF builds the sentinel end-of-stream PPToken at pos.
func EOF(pos Pos) PPToken {
	return PPToken{Kind: Eof, SpelledFile: Range{Begin: pos, End: pos}}
}
