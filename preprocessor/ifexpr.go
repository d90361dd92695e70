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
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer/stateful"
)

// This file is the one place the preprocessor borrows a parser-combinator
// instead of hand-written recursive descent (spec.md explicitly scopes
// participle to #if/#elif constant expressions; the main GLSL grammar in
// package parser stays hand-written). The lexer rules below follow the
// teacher's parser/parser.go stateful.MustSimple table, just re-purposed
// for C-style integer constant expressions instead of tadl markup.
var ifExprLexer = stateful.MustSimple([]stateful.Rule{
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Int", Pattern: `0[xX][0-9a-fA-F]+|0[0-7]*|[1-9][0-9]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "ShiftLeft", Pattern: `<<`},
	{Name: "ShiftRight", Pattern: `>>`},
	{Name: "Le", Pattern: `<=`},
	{Name: "Ge", Pattern: `>=`},
	{Name: "EqEq", Pattern: `==`},
	{Name: "NotEq", Pattern: `!=`},
	{Name: "AndAnd", Pattern: `&&`},
	{Name: "OrOr", Pattern: `\|\|`},
	{Name: "Punct", Pattern: `[-+*/%&|^~!<>()?:]`},
})

var ifExprParser = participle.MustBuild(&conditionalExpr{},
	participle.Lexer(ifExprLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// conditionalExpr is the grammar root: a ?: chain over the usual C
// operator-precedence cascade, bottoming out at primaryExpr.
type conditionalExpr struct {
	Cond  *logicalOrExpr   `@@`
	True  *conditionalExpr `( "?" @@`
	False *conditionalExpr `  ":" @@ )?`
}

type logicalOrExpr struct {
	Left *logicalAndExpr   `@@`
	Rest []*logicalOrRest  `@@*`
}

type logicalOrRest struct {
	Right *logicalAndExpr `"||" @@`
}

type logicalAndExpr struct {
	Left *inclusiveOrExpr  `@@`
	Rest []*logicalAndRest `@@*`
}

type logicalAndRest struct {
	Right *inclusiveOrExpr `"&&" @@`
}

type inclusiveOrExpr struct {
	Left *exclusiveOrExpr  `@@`
	Rest []*inclusiveOrRest `@@*`
}

type inclusiveOrRest struct {
	Right *exclusiveOrExpr `"|" @@`
}

type exclusiveOrExpr struct {
	Left *andExpr          `@@`
	Rest []*exclusiveOrRest `@@*`
}

type exclusiveOrRest struct {
	Right *andExpr `"^" @@`
}

type andExpr struct {
	Left *equalityExpr `@@`
	Rest []*andRest    `@@*`
}

type andRest struct {
	Right *equalityExpr `"&" @@`
}

type equalityExpr struct {
	Left *relationalExpr `@@`
	Rest []*equalityRest `@@*`
}

type equalityRest struct {
	Op    string          `@("==" | "!=")`
	Right *relationalExpr `@@`
}

type relationalExpr struct {
	Left *shiftExpr        `@@`
	Rest []*relationalRest `@@*`
}

type relationalRest struct {
	Op    string     `@("<=" | ">=" | "<" | ">")`
	Right *shiftExpr `@@`
}

type shiftExpr struct {
	Left *additiveExpr `@@`
	Rest []*shiftRest  `@@*`
}

type shiftRest struct {
	Op    string        `@("<<" | ">>")`
	Right *additiveExpr `@@`
}

type additiveExpr struct {
	Left *multiplicativeExpr `@@`
	Rest []*additiveRest     `@@*`
}

type additiveRest struct {
	Op    string              `@("+" | "-")`
	Right *multiplicativeExpr `@@`
}

type multiplicativeExpr struct {
	Left *unaryExpr          `@@`
	Rest []*multiplicativeRest `@@*`
}

type multiplicativeRest struct {
	Op    string     `@("*" | "/" | "%")`
	Right *unaryExpr `@@`
}

type unaryExpr struct {
	Op      string     `( @("!" | "~" | "-" | "+")`
	Operand *unaryExpr `  @@`
	Primary *primary   `| @@ )`
}

type primary struct {
	Int    *string          `  @Int`
	Ident  *string          `| @Ident`
	Paren  *conditionalExpr `| "(" @@ ")"`
}

// EvalConstantExpression parses and evaluates the #if/#elif constant
// expression in src, where any defined(NAME)/defined NAME occurrences have
// already been substituted with "1" or "0" by the caller (spec.md §4.2:
// defined must see macro names before expansion, so it is resolved before
// this function ever runs). Any remaining identifier denotes a macro name
// that failed to expand, and evaluates to 0 per the GLSL preprocessor
// rules this is modelled on.
func EvalConstantExpression(src string) (int64, bool, error) {
	expr := &conditionalExpr{}

	if err := ifExprParser.Parse("#if", bytes.NewReader([]byte(src)), expr); err != nil {
		return 0, false, fmt.Errorf("preprocessor: malformed constant expression %q: %w", src, err)
	}

	v, err := expr.eval()
	if err != nil {
		return 0, false, err
	}

	return v, v != 0, nil
}

func (e *conditionalExpr) eval() (int64, error) {
	cond, err := e.Cond.eval()
	if err != nil {
		return 0, err
	}

	if e.True == nil {
		return cond, nil
	}

	if cond != 0 {
		return e.True.eval()
	}

	return e.False.eval()
}

func (e *logicalOrExpr) eval() (int64, error) {
	v, err := e.Left.eval()
	if err != nil {
		return 0, err
	}

	for _, r := range e.Rest {
		if v != 0 {
			continue // short-circuit, but still parse/validate the rest
		}

		rv, err := r.Right.eval()
		if err != nil {
			return 0, err
		}

		v = boolToInt(rv != 0)
	}

	if len(e.Rest) > 0 && v != 0 {
		v = 1
	}

	return v, nil
}

func (e *logicalAndExpr) eval() (int64, error) {
	v, err := e.Left.eval()
	if err != nil {
		return 0, err
	}

	for _, r := range e.Rest {
		if v == 0 {
			continue
		}

		rv, err := r.Right.eval()
		if err != nil {
			return 0, err
		}

		v = boolToInt(rv != 0)
	}

	if len(e.Rest) > 0 && v != 0 {
		v = 1
	}

	return v, nil
}

func (e *inclusiveOrExpr) eval() (int64, error) {
	v, err := e.Left.eval()
	if err != nil {
		return 0, err
	}

	for _, r := range e.Rest {
		rv, err := r.Right.eval()
		if err != nil {
			return 0, err
		}

		v |= rv
	}

	return v, nil
}

func (e *exclusiveOrExpr) eval() (int64, error) {
	v, err := e.Left.eval()
	if err != nil {
		return 0, err
	}

	for _, r := range e.Rest {
		rv, err := r.Right.eval()
		if err != nil {
			return 0, err
		}

		v ^= rv
	}

	return v, nil
}

func (e *andExpr) eval() (int64, error) {
	v, err := e.Left.eval()
	if err != nil {
		return 0, err
	}

	for _, r := range e.Rest {
		rv, err := r.Right.eval()
		if err != nil {
			return 0, err
		}

		v &= rv
	}

	return v, nil
}

func (e *equalityExpr) eval() (int64, error) {
	v, err := e.Left.eval()
	if err != nil {
		return 0, err
	}

	for _, r := range e.Rest {
		rv, err := r.Right.eval()
		if err != nil {
			return 0, err
		}

		switch r.Op {
		case "==":
			v = boolToInt(v == rv)
		case "!=":
			v = boolToInt(v != rv)
		}
	}

	return v, nil
}

func (e *relationalExpr) eval() (int64, error) {
	v, err := e.Left.eval()
	if err != nil {
		return 0, err
	}

	for _, r := range e.Rest {
		rv, err := r.Right.eval()
		if err != nil {
			return 0, err
		}

		switch r.Op {
		case "<":
			v = boolToInt(v < rv)
		case ">":
			v = boolToInt(v > rv)
		case "<=":
			v = boolToInt(v <= rv)
		case ">=":
			v = boolToInt(v >= rv)
		}
	}

	return v, nil
}

func (e *shiftExpr) eval() (int64, error) {
	v, err := e.Left.eval()
	if err != nil {
		return 0, err
	}

	for _, r := range e.Rest {
		rv, err := r.Right.eval()
		if err != nil {
			return 0, err
		}

		switch r.Op {
		case "<<":
			v <<= uint(rv)
		case ">>":
			v >>= uint(rv)
		}
	}

	return v, nil
}

func (e *additiveExpr) eval() (int64, error) {
	v, err := e.Left.eval()
	if err != nil {
		return 0, err
	}

	for _, r := range e.Rest {
		rv, err := r.Right.eval()
		if err != nil {
			return 0, err
		}

		switch r.Op {
		case "+":
			v += rv
		case "-":
			v -= rv
		}
	}

	return v, nil
}

func (e *multiplicativeExpr) eval() (int64, error) {
	v, err := e.Left.eval()
	if err != nil {
		return 0, err
	}

	for _, r := range e.Rest {
		rv, err := r.Right.eval()
		if err != nil {
			return 0, err
		}

		switch r.Op {
		case "*":
			v *= rv
		case "/":
			if rv == 0 {
				return 0, fmt.Errorf("preprocessor: division by zero in constant expression")
			}

			v /= rv
		case "%":
			if rv == 0 {
				return 0, fmt.Errorf("preprocessor: modulo by zero in constant expression")
			}

			v %= rv
		}
	}

	return v, nil
}

func (e *unaryExpr) eval() (int64, error) {
	if e.Operand != nil {
		v, err := e.Operand.eval()
		if err != nil {
			return 0, err
		}

		switch e.Op {
		case "-":
			return -v, nil
		case "+":
			return v, nil
		case "!":
			return boolToInt(v == 0), nil
		case "~":
			return ^v, nil
		}

		return v, nil
	}

	return e.Primary.eval()
}

func (e *primary) eval() (int64, error) {
	switch {
	case e.Int != nil:
		text := *e.Int

		base := 10
		trimmed := text

		switch {
		case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
			base = 16
			trimmed = text[2:]
		case len(text) > 1 && text[0] == '0':
			base = 8
			trimmed = text[1:]
		}

		v, err := strconv.ParseInt(trimmed, base, 64)
		if err != nil {
			return 0, fmt.Errorf("preprocessor: invalid integer literal %q: %w", text, err)
		}

		return v, nil
	case e.Ident != nil:
		// An identifier reaching here is a macro name that never expanded
		// to a value (spec.md §4.2): treated as 0, matching undefined
		// macro behaviour in #if expressions.
		return 0, nil
	case e.Paren != nil:
		return e.Paren.eval()
	default:
		return 0, fmt.Errorf("preprocessor: empty constant expression operand")
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}

	return 0
}
