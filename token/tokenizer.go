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
	"bytes"

	"github.com/glsld-lang/glsld/atom"
	"github.com/glsld-lang/glsld/scanner"
)

// HeaderMode tells the Tokenizer the upcoming token should be lexed as a
// #include header name rather than ordinary punctuation; the Preprocessor
// sets this right after recognising the "include" directive keyword.
type HeaderMode int

const (
	NoHeader HeaderMode = iota
	QuotedHeader
	AngleHeader
	// AutoHeader sniffs the next non-whitespace byte to choose quoted vs
	// angle form; the preprocessor uses this right after "#include" since
	// it has not looked past the directive name yet.
	AutoHeader
)

// Tokenizer turns a scanner over one source buffer into PPTokens (spec.md
// §4.2). Comments and header-name literals get hand-written paths; every
// other token is produced by a maximal-munch switch over punctuators,
// numbers, and identifiers.
type Tokenizer struct {
	s        *scanner.Scanner
	atoms    *atom.Table
	header   HeaderMode
	atLineStart bool
}

// New creates a Tokenizer over s, interning identifier/number/string text
// into atoms.
func New(s *scanner.Scanner, atoms *atom.Table) *Tokenizer {
	return &Tokenizer{s: s, atoms: atoms, atLineStart: true}
}

// WantHeaderName arms the tokenizer to lex the next token as a quoted or
// angle-bracketed header name instead of ordinary syntax. Cleared after one
// token is produced.
func (t *Tokenizer) WantHeaderName(mode HeaderMode) {
	t.header = mode
}

// Next returns the next PPToken. At end of input it returns an Eof token
// forever (the lex context appends exactly one before stopping).
func (t *Tokenizer) Next() (PPToken, error) {
	leadingWS, crossedNewline := t.s.SkipWhitespace()
	firstOfLine := t.atLineStart || crossedNewline
	begin := t.s.Pos()

	if t.s.AtEOF() {
		return PPToken{Kind: Eof, SpelledFile: Range{Begin: begin, End: begin},
			FirstOfLine: firstOfLine, LeadingWhitespace: leadingWS}, nil
	}

	if t.header != NoHeader {
		mode := t.header
		t.header = NoHeader

		if mode == AutoHeader {
			switch b, _ := t.s.PeekByte(); b {
			case '"':
				mode = QuotedHeader
			case '<':
				mode = AngleHeader
			default:
				return PPToken{}, NewPosError(NewNode(begin, begin), "expected a header name after #include")
			}
		}

		return t.headerName(mode, begin, leadingWS, firstOfLine)
	}

	b, _ := t.s.PeekByte()

	var (
		tok PPToken
		err error
	)

	switch {
	case b == '/' && t.peekIs(1, '/'):
		tok, err = t.lineComment(begin)
	case b == '/' && t.peekIs(1, '*'):
		tok, err = t.blockComment(begin)
	case b == '"':
		tok, err = t.quotedString(begin)
	case isDigit(b):
		tok, err = t.number(begin)
	case isIdentStart(b):
		tok, err = t.identifierOrKeyword(begin)
	default:
		tok, err = t.punctuator(begin)
	}

	if err != nil {
		return PPToken{}, err
	}

	tok.FirstOfLine = firstOfLine
	tok.LeadingWhitespace = leadingWS
	t.atLineStart = false

	return tok, nil
}

func (t *Tokenizer) peekIs(offset int, b byte) bool {
	nb, ok := t.s.PeekByteAt(offset)
	return ok && nb == b
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func (t *Tokenizer) span(begin Pos) Range {
	return Range{Begin: begin, End: t.s.Pos()}
}

func (t *Tokenizer) lineComment(begin Pos) (PPToken, error) {
	var buf bytes.Buffer

	t.s.TryConsumeLiteral("//")

	for {
		b, ok := t.s.PeekByte()
		if !ok || b == '\n' {
			break
		}

		r, nb, err := t.s.ConsumeRune(nil)
		if err != nil {
			break
		}

		_ = r
		buf.Write(nb)
	}

	return PPToken{Kind: Comment, SpelledFile: t.span(begin), Text: t.atoms.Intern(buf.String())}, nil
}

func (t *Tokenizer) blockComment(begin Pos) (PPToken, error) {
	var buf bytes.Buffer

	t.s.TryConsumeLiteral("/*")

	for {
		if t.s.TryConsumeLiteral("*/") {
			return PPToken{Kind: Comment, SpelledFile: t.span(begin), Text: t.atoms.Intern(buf.String())}, nil
		}

		if t.s.AtEOF() {
			return PPToken{}, NewPosError(NewNode(begin, t.s.Pos()), "unterminated block comment")
		}

		_, nb, err := t.s.ConsumeRune(nil)
		if err != nil {
			return PPToken{}, NewPosError(NewNode(begin, t.s.Pos()), "unterminated block comment").SetCause(err)
		}

		buf.Write(nb)
	}
}

// headerName reads a quoted or angle-bracketed header name for #include.
func (t *Tokenizer) headerName(mode HeaderMode, begin Pos, leadingWS, firstOfLine bool) (PPToken, error) {
	open, close := byte('"'), byte('"')
	kind := QuotedString

	if mode == AngleHeader {
		open, close, kind = '<', '>', AngleString
	}

	if !t.s.TryConsumeByte(open) {
		return PPToken{}, NewPosError(NewNode(begin, begin), "expected header name")
	}

	var buf bytes.Buffer

	for {
		b, ok := t.s.PeekByte()
		if !ok || b == '\n' {
			return PPToken{}, NewPosError(NewNode(begin, t.s.Pos()), "unterminated header name")
		}

		if b == close {
			t.s.TryConsumeByte(close)

			break
		}

		_, nb, err := t.s.ConsumeRune(nil)
		if err != nil {
			return PPToken{}, err
		}

		buf.Write(nb)
	}

	return PPToken{Kind: kind, SpelledFile: t.span(begin), Text: t.atoms.Intern(buf.String()),
		FirstOfLine: firstOfLine, LeadingWhitespace: leadingWS}, nil
}

func (t *Tokenizer) quotedString(begin Pos) (PPToken, error) {
	t.s.TryConsumeByte('"')

	var buf bytes.Buffer

	for {
		b, ok := t.s.PeekByte()
		if !ok || b == '\n' {
			return PPToken{}, NewPosError(NewNode(begin, t.s.Pos()), "unterminated string")
		}

		if b == '"' {
			t.s.TryConsumeByte('"')

			break
		}

		_, nb, err := t.s.ConsumeRune(nil)
		if err != nil {
			return PPToken{}, err
		}

		buf.Write(nb)
	}

	return PPToken{Kind: QuotedString, SpelledFile: t.span(begin), Text: t.atoms.Intern(buf.String())}, nil
}

// number performs maximal-munch scanning of an integer or floating-point
// constant, including an optional suffix (u/U, f/F, lf/LF) and hex/octal
// prefixes.
func (t *Tokenizer) number(begin Pos) (PPToken, error) {
	var buf bytes.Buffer

	kind := IntegerConstant

	consumeDigits := func(pred func(byte) bool) {
		for {
			b, ok := t.s.PeekByte()
			if !ok || !pred(b) {
				return
			}

			_, nb, _ := t.s.ConsumeRune(nil)
			buf.Write(nb)
		}
	}

	isHexDigit := func(b byte) bool {
		return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
	}

	if b, _ := t.s.PeekByte(); b == '0' {
		_, nb, _ := t.s.ConsumeRune(nil)
		buf.Write(nb)

		if b2, ok := t.s.PeekByte(); ok && (b2 == 'x' || b2 == 'X') {
			_, nb, _ := t.s.ConsumeRune(nil)
			buf.Write(nb)
			consumeDigits(isHexDigit)

			return t.finishNumberSuffix(begin, buf, IntegerConstant)
		}
	}

	consumeDigits(isDigit)

	if b, ok := t.s.PeekByte(); ok && b == '.' {
		kind = FloatConstant

		_, nb, _ := t.s.ConsumeRune(nil)
		buf.Write(nb)
		consumeDigits(isDigit)
	}

	if b, ok := t.s.PeekByte(); ok && (b == 'e' || b == 'E') {
		kind = FloatConstant

		_, nb, _ := t.s.ConsumeRune(nil)
		buf.Write(nb)

		if sb, ok := t.s.PeekByte(); ok && (sb == '+' || sb == '-') {
			_, nb, _ := t.s.ConsumeRune(nil)
			buf.Write(nb)
		}

		consumeDigits(isDigit)
	}

	return t.finishNumberSuffix(begin, buf, kind)
}

func (t *Tokenizer) finishNumberSuffix(begin Pos, buf bytes.Buffer, kind Kind) (PPToken, error) {
	for {
		b, ok := t.s.PeekByte()
		if !ok {
			break
		}

		switch b {
		case 'u', 'U', 'f', 'F', 'l', 'L', 'h', 'H':
			_, nb, _ := t.s.ConsumeRune(nil)
			buf.Write(nb)

			if b == 'f' || b == 'F' || b == 'h' || b == 'H' {
				kind = FloatConstant
			}

			continue
		}

		break
	}

	return PPToken{Kind: kind, SpelledFile: t.span(begin), Text: t.atoms.Intern(buf.String())}, nil
}

func (t *Tokenizer) identifierOrKeyword(begin Pos) (PPToken, error) {
	var buf bytes.Buffer

	for {
		b, ok := t.s.PeekByte()
		if !ok || !isIdentCont(b) {
			break
		}

		_, nb, _ := t.s.ConsumeRune(nil)
		buf.Write(nb)
	}

	text := buf.String()
	kind := Identifier

	if kw, ok := LookupKeyword(text); ok {
		kind = kw
	}

	return PPToken{Kind: kind, SpelledFile: t.span(begin), Text: t.atoms.Intern(text)}, nil
}

// punctuator recognises hash/hashhash and every operator/separator via
// longest-match on 1-3 byte lookahead.
func (t *Tokenizer) punctuator(begin Pos) (PPToken, error) {
	three := map[string]Kind{"<<=": LShiftEqual, ">>=": RShiftEqual}
	two := map[string]Kind{
		"##": HashHash, "++": PlusPlus, "--": MinusMinus, "<<": LShift, ">>": RShift,
		"<=": LessEqual, ">=": GreaterEqual, "==": EqualEqual, "!=": BangEqual,
		"&&": AmpAmp, "||": PipePipe, "^^": CaretCaret,
		"+=": PlusEqual, "-=": MinusEqual, "*=": StarEqual, "/=": SlashEqual, "%=": PercentEqual,
		"&=": AmpEqual, "|=": PipeEqual, "^=": CaretEqual,
	}
	one := map[byte]Kind{
		'(': LParen, ')': RParen, '{': LBrace, '}': RBrace, '[': LBracket, ']': RBracket,
		'.': Dot, ',': Comma, ';': Semicolon, ':': Colon, '?': Question,
		'+': Plus, '-': Minus, '*': Star, '/': Slash, '%': Percent,
		'&': Amp, '|': Pipe, '^': Caret, '~': Tilde, '!': Bang, '<': Less, '>': Greater, '=': Equal,
		'#': Hash,
	}

	var b3 [3]byte

	for i := range b3 {
		nb, ok := t.s.PeekByteAt(i)
		if !ok {
			break
		}

		b3[i] = nb
	}

	if k, ok := three[string(b3[:3])]; ok && b3[2] != 0 {
		t.s.TryConsumeLiteral(string(b3[:3]))

		return PPToken{Kind: k, SpelledFile: t.span(begin), Text: t.atoms.Intern(string(b3[:3]))}, nil
	}

	if k, ok := two[string(b3[:2])]; ok && b3[1] != 0 {
		t.s.TryConsumeLiteral(string(b3[:2]))

		return PPToken{Kind: k, SpelledFile: t.span(begin), Text: t.atoms.Intern(string(b3[:2]))}, nil
	}

	b, _ := t.s.PeekByte()

	if k, ok := one[b]; ok {
		_, nb, _ := t.s.ConsumeRune(nil)

		return PPToken{Kind: k, SpelledFile: t.span(begin), Text: t.atoms.Intern(string(nb))}, nil
	}

	// Unrecognised character: recover with an Error token covering one code point.
	_, nb, err := t.s.ConsumeRune(nil)
	if err != nil {
		return PPToken{}, NewPosError(NewNode(begin, begin), "unable to read next rune").SetCause(err)
	}

	return PPToken{Kind: Error, SpelledFile: t.span(begin), Text: t.atoms.Intern(string(nb))}, nil
}
