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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/glsld-lang/glsld/source"
)

// Severity classifies a diagnostic so a Diagnostics sink can decide how to
// surface it (spec.md §7: recoverable diagnostics vs. fatal ones never
// travel as Severity, only as a panic).
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}

	return "error"
}

type ErrDetail struct {
	Node    Node
	Message string
}

func NewErrDetail(node Node, msg string) ErrDetail {
	return ErrDetail{Node: node, Message: msg}
}

// PosError is a positional diagnostic. Its Explain method renders the
// classic "file:line:col" + source-snippet + caret form.
type PosError struct {
	Details  []ErrDetail
	Cause    error
	Hint     string
	Severity Severity
}

// NewPosError creates a new PosError with the given root cause and optional details.
func NewPosError(node Node, msg string, details ...ErrDetail) *PosError {
	tmp := append([]ErrDetail{}, ErrDetail{Node: node, Message: msg})
	tmp = append(tmp, details...)

	return &PosError{Details: tmp}
}

// NewPosWarning is NewPosError with Severity set to Warning.
func NewPosWarning(node Node, msg string, details ...ErrDetail) *PosError {
	e := NewPosError(node, msg, details...)
	e.Severity = Warning

	return e
}

func (p *PosError) SetCause(err error) *PosError {
	p.Cause = err
	return p
}

func (p *PosError) SetHint(str string) *PosError {
	p.Hint = str
	return p
}

func (p *PosError) Unwrap() error {
	return p.Cause
}

func (p *PosError) firstDetail() ErrDetail {
	if len(p.Details) > 0 {
		return p.Details[0]
	}

	return ErrDetail{}
}

func (p *PosError) Error() string {
	if p.Cause == nil {
		return p.firstDetail().Message
	}

	return p.firstDetail().Message + ": " + p.Cause.Error()
}

// LineSource resolves a rendered source line for a diagnostic snippet. The
// core never reads files on its own behalf when explaining an error; callers
// pass a LineSource backed by their source.Manager so PosError stays
// decoupled from file I/O.
type LineSource func(file source.FileID, line int) (text string, path string, ok bool)

// Explain returns a multi-line text suited to be printed into the console.
// lines may be nil, in which case source snippets are omitted and only the
// position and message are rendered.
func (p PosError) Explain(lines LineSource) string {
	indent := 0

	for _, detail := range p.Details {
		l := len(strconv.Itoa(detail.Node.Begin().Line + 1))
		if l > indent {
			indent = l
		}
	}

	sb := &strings.Builder{}

	for i, detail := range p.Details {
		begin := detail.Node.Begin()

		var path string
		var line string
		var ok bool

		if lines != nil {
			line, path, ok = lines(begin.File, begin.Line)
		}

		if i == 0 || (i > 0 && begin.File != p.Details[i-1].Node.Begin().File) {
			sb.WriteString(begin.String(path))
			sb.WriteString("\n")
		}

		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s |\n", ""))
		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"d |", begin.Line+1))

		if ok {
			sb.WriteString(line)
		}

		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s |", ""))

		end := detail.Node.End()
		width := end.Char - begin.Char

		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(begin.Char)+"s", ""))

		if width <= 1 {
			sb.WriteString("^~~~ ")
		} else {
			for i := 0; i < width; i++ {
				sb.WriteRune('^')
			}

			sb.WriteRune(' ')
		}

		sb.WriteString(detail.Message)
		sb.WriteString("\n")

		if i < len(p.Details)-1 {
			for i := 0; i < indent; i++ {
				sb.WriteByte(' ')
			}

			sb.WriteString("...\n")
		}
	}

	if p.Hint != "" {
		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s |\n", ""))
		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s = hint: %s\n", "", p.Hint))
	}

	return sb.String()
}

// Explain takes the given wrapped error chain and explains it, if it can,
// including translating participle's own positional errors (raised by the
// preprocessor's constant-expression sub-grammar, see package preprocessor).
func Explain(err error, lines LineSource) string {
	var posErr *PosError
	if errors.As(err, &posErr) {
		sb := &strings.Builder{}
		sb.WriteString(posErr.Severity.String())
		sb.WriteString(": ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
		sb.WriteString(posErr.Explain(lines))

		return sb.String()
	}

	var particpleErr participle.Error
	if errors.As(err, &particpleErr) {
		return Explain(NewPosError(adapterNode{particpleErr.Position()}, particpleErr.Message()), lines)
	}

	return err.Error()
}

type adapterNode struct {
	pos plexer.Position
}

func (a adapterNode) Begin() Pos {
	return Pos{Line: a.pos.Line - 1, Char: a.pos.Column - 1, Offset: a.pos.Offset}
}

func (a adapterNode) End() Pos {
	return a.Begin()
}
