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

// Package scanner implements a UTF-8 byte cursor with line/column
// tracking, line-continuation folding, and optional UTF-16 code-unit
// counting (spec.md §4.1). It is grounded on the teacher's
// token/lexer.go nextR/prevR rune-buffer technique, generalised from one
// grammar-coupled lexer into a standalone, mode-agnostic scanner that the
// token package's Tokenizer drives.
package scanner

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/glsld-lang/glsld/source"
	"github.com/glsld-lang/glsld/token"
)

// Scanner walks buf byte-by-byte, transparently folding "\<NL>" and
// "\<CR><NL>" line continuations.
type Scanner struct {
	file     source.FileID
	buf      []byte
	pos      int // next byte to read
	line     int
	char     int // UTF-8 byte column within line
	unit     int // UTF-16 code-unit column within line
	countU16 bool
}

// New creates a Scanner over buf, which originated from file.
func New(file source.FileID, buf []byte, countUTF16 bool) *Scanner {
	return &Scanner{file: file, buf: buf, countU16: countUTF16}
}

// Pos returns the position of the byte that would be read next.
func (s *Scanner) Pos() token.Pos {
	return token.Pos{File: s.file, Line: s.line, Char: s.char, Offset: s.pos, Unit: s.unit}
}

// Snapshot captures the scanner's state so it can be restored later with
// Restore.
type Snapshot struct {
	pos, line, char, unit int
}

func (s *Scanner) Snapshot() Snapshot {
	return Snapshot{s.pos, s.line, s.char, s.unit}
}

func (s *Scanner) Restore(snap Snapshot) {
	s.pos, s.line, s.char, s.unit = snap.pos, snap.line, snap.char, snap.unit
}

// AtEOF reports whether the scanner has consumed the whole buffer.
func (s *Scanner) AtEOF() bool {
	return s.pos >= len(s.buf)
}

// PeekByte returns the next byte without consuming it, or (0, false) at EOF.
func (s *Scanner) PeekByte() (byte, bool) {
	if s.AtEOF() {
		return 0, false
	}

	return s.buf[s.pos], true
}

// PeekByteAt returns the byte offset bytes ahead of the cursor without
// consuming anything, or (0, false) if that would read past EOF.
func (s *Scanner) PeekByteAt(offset int) (byte, bool) {
	i := s.pos + offset
	if i < 0 || i >= len(s.buf) {
		return 0, false
	}

	return s.buf[i], true
}

// TryConsumeByte consumes the next byte if it equals b.
func (s *Scanner) TryConsumeByte(b byte) bool {
	nb, ok := s.PeekByte()
	if !ok || nb != b {
		return false
	}

	s.advanceByte(nb)

	return true
}

// TryConsumeLiteral consumes lit in full if the upcoming bytes match it exactly.
func (s *Scanner) TryConsumeLiteral(lit string) bool {
	if s.pos+len(lit) > len(s.buf) {
		return false
	}

	if string(s.buf[s.pos:s.pos+len(lit)]) != lit {
		return false
	}

	for i := 0; i < len(lit); i++ {
		s.advanceByte(lit[i])
	}

	return true
}

// ConsumeRune consumes one UTF-8 code point, appending its bytes to dst and
// returning the rune and new dst. Fails softly on malformed UTF-8: the
// leading byte's implied length (via utf8.RuneLen-style counting) is used
// so the cursor never walks past the end of the buffer.
func (s *Scanner) ConsumeRune(dst []byte) (rune, []byte, error) {
	if s.AtEOF() {
		return 0, dst, errEOF
	}

	r, size := utf8.DecodeRune(s.buf[s.pos:])
	if r == utf8.RuneError && size <= 1 {
		// Malformed lead byte: advance past it alone rather than stalling.
		size = leadByteLen(s.buf[s.pos])
		if size == 0 {
			size = 1
		}

		if s.pos+size > len(s.buf) {
			size = len(s.buf) - s.pos
		}
	}

	raw := s.buf[s.pos : s.pos+size]
	dst = append(dst, raw...)

	for _, b := range raw {
		s.advanceByte(b)
	}

	s.foldLineContinuation()

	if r == utf8.RuneError && size > 1 {
		r, _ = utf8.DecodeRune(raw)
	}

	return r, dst, nil
}

// leadByteLen approximates countl_one: the number of leading one-bits in a
// UTF-8 lead byte, which is the encoded rune's byte length.
func leadByteLen(b byte) int {
	switch {
	case b&0x80 == 0:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

// foldLineContinuation advances past a trailing "\<NL>" or "\<CR><NL>" that
// directly follows the cursor, bumping the line counter so the fold is
// transparent to callers.
func (s *Scanner) foldLineContinuation() {
	for {
		if b, ok := s.PeekByte(); !ok || b != '\\' {
			return
		}

		if b1, ok := s.PeekByteAt(1); ok && b1 == '\n' {
			s.advanceByte('\\')
			s.advanceByte('\n')

			continue
		}

		if b1, ok := s.PeekByteAt(1); ok && b1 == '\r' {
			if b2, ok := s.PeekByteAt(2); ok && b2 == '\n' {
				s.advanceByte('\\')
				s.advanceByte('\r')
				s.advanceByte('\n')

				continue
			}
		}

		return
	}
}

func (s *Scanner) advanceByte(b byte) {
	s.pos++

	if b == '\n' {
		s.line++
		s.char = 0
		s.unit = 0

		return
	}

	// char counts every UTF-8 byte. Continuation bytes (10xxxxxx) do not
	// start a new UTF-16 unit; only lead bytes bump unit.
	s.char++

	if s.countU16 && b&0xC0 != 0x80 {
		// Approximate: count this lead byte's rune as 1 unit, except
		// for the small set of lead bytes that start a 4-byte
		// sequence (outside the BMP), which are 2 UTF-16 units.
		if b&0xF8 == 0xF0 {
			s.unit += 2
		} else {
			s.unit++
		}
	}
}

// SkipWhitespace skips ASCII space/tab/CR/LF (and folded continuations),
// reporting whether anything was skipped at all and whether a newline was
// crossed while doing so.
func (s *Scanner) SkipWhitespace() (skippedAny, crossedNewline bool) {
	for {
		b, ok := s.PeekByte()
		if !ok {
			return skippedAny, crossedNewline
		}

		switch b {
		case ' ', '\t', '\r':
			s.advanceByte(b)
			skippedAny = true
		case '\n':
			s.advanceByte(b)
			skippedAny = true
			crossedNewline = true
		default:
			return skippedAny, crossedNewline
		}
	}
}

var errEOF = scanErr("scanner: eof")

type scanErr string

func (e scanErr) Error() string { return string(e) }

// IsEOF reports whether err is the scanner's own end-of-buffer sentinel.
func IsEOF(err error) bool { return err == errEOF }

// Utf16Len returns the UTF-16 code-unit length of s, used by callers that
// need to cross-check the incremental Unit counter against a whole string.
func Utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
