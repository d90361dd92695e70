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
	"github.com/glsld-lang/glsld/token"
)

// Expander implements token-driven, C-preprocessor-style macro expansion
// (spec.md §4.4). A Feed method consumes one PPToken at a time and drives
// a small state machine; this is modelled on the teacher's Visitor
// peek/next token-buffer technique (parser/vistor.go), generalised from a
// tree visitor into a macro-rescanning sink.
type Expander struct {
	table    *Table
	sink     func(token.PPToken)
	callback Callback

	// disabled blocks self-recursive expansion: a macro name currently
	// being (re)scanned cannot trigger itself again. Not part of
	// MacroDefinition, as the spec requires: this is pure expansion state.
	disabled map[string]bool

	// awaiting holds a function-like macro identifier that has been
	// matched but is still waiting to see whether '(' follows.
	awaiting *pendingIdent

	// collecting holds in-progress argument collection for a function-like
	// macro invocation.
	collecting *pendingCall
}

type pendingIdent struct {
	macro *MacroDefinition
	use   token.PPToken
}

type pendingCall struct {
	macro     *MacroDefinition
	use       token.PPToken // the macro-name token; anchors the collapsed range
	depth     int           // unmatched '(' depth, starts at 1 after the opening '('
	args      [][]token.PPToken
	current   []token.PPToken
	sawAnyArg bool
	sawAnyTok bool
}

// NewExpander creates an Expander over table, sending fully expanded
// tokens to sink and reporting expansion-boundary events to cb (may be
// NopCallback{}).
func NewExpander(table *Table, cb Callback, sink func(token.PPToken)) *Expander {
	if cb == nil {
		cb = NopCallback{}
	}

	return &Expander{table: table, sink: sink, callback: cb, disabled: map[string]bool{}}
}

// Feed consumes one pre-expansion token, possibly yielding zero or more
// post-expansion tokens to the sink (expansion may buffer tokens across
// several Feed calls while collecting a function-like macro's arguments).
func (e *Expander) Feed(tok token.PPToken) error {
	if e.collecting != nil {
		return e.feedCollecting(tok)
	}

	if e.awaiting != nil {
		pending := e.awaiting
		e.awaiting = nil

		if tok.Kind == token.LParen {
			e.collecting = &pendingCall{macro: pending.macro, use: pending.use, depth: 1}
			return nil
		}

		// Not a call after all: yield the identifier unexpanded and
		// re-process tok (it may itself start a macro invocation).
		e.sink(pending.use)

		return e.Feed(tok)
	}

	if tok.Kind != token.Identifier {
		e.sink(tok)
		return nil
	}

	name := tok.String()

	macro, ok := e.table.Lookup(name)
	if !ok || e.disabled[name] {
		e.sink(tok)
		return nil
	}

	if macro.IsFunctionLike {
		e.awaiting = &pendingIdent{macro: macro, use: tok}
		return nil
	}

	return e.expandObjectLike(macro, tok)
}

// Flush must be called once the underlying token stream is exhausted. If
// a function-like macro name was seen but never followed by '(', it is
// emitted unexpanded (spec.md §4.4 item 2).
func (e *Expander) Flush() {
	if e.awaiting != nil {
		e.sink(e.awaiting.use)
		e.awaiting = nil
	}
}

func (e *Expander) feedCollecting(tok token.PPToken) error {
	c := e.collecting

	switch tok.Kind {
	case token.LParen:
		c.depth++
	case token.RParen:
		c.depth--

		if c.depth == 0 {
			e.collecting = nil

			if c.sawAnyTok || c.sawAnyArg {
				c.args = append(c.args, c.current)
			}

			return e.invokeFunctionLike(c)
		}
	case token.Comma:
		if c.depth == 1 {
			c.args = append(c.args, c.current)
			c.current = nil
			c.sawAnyArg = true

			return nil
		}
	}

	c.current = append(c.current, tok)
	c.sawAnyTok = true

	return nil
}

// invokeFunctionLike pre-expands each collected argument, substitutes the
// result into the macro's replacement list, and re-scans the substituted
// tokens by feeding them back through e.Feed (spec.md §4.4 item 1).
func (e *Expander) invokeFunctionLike(c *pendingCall) error {
	useRange := collapse(c.use.SpelledFile)
	e.callback.OnMacroExpansionBegin(c.use.Spelled(), c.macro)

	expandedArgs := make([][]token.PPToken, len(c.args))

	for i, arg := range c.args {
		expandedArgs[i] = e.preExpandArgument(arg)
	}

	substituted := substitute(c.macro, expandedArgs, useRange)

	e.disabled[c.macro.Name] = true

	for _, t := range substituted {
		if err := e.Feed(t); err != nil {
			return err
		}
	}

	delete(e.disabled, c.macro.Name)
	e.callback.OnMacroExpansionEnd(c.use.Spelled())

	return nil
}

func (e *Expander) expandObjectLike(macro *MacroDefinition, use token.PPToken) error {
	useRange := collapse(use.SpelledFile)
	e.callback.OnMacroExpansionBegin(use.Spelled(), macro)

	e.disabled[macro.Name] = true

	for _, t := range macro.ExpansionTokens {
		rewritten := t
		rewritten.SpelledFile = useRange

		if err := e.Feed(rewritten); err != nil {
			return err
		}
	}

	delete(e.disabled, macro.Name)
	e.callback.OnMacroExpansionEnd(use.Spelled())

	return nil
}

// preExpandArgument runs a nested Expander instance, sinking into a
// buffer, exactly as spec.md §4.4 item 1 requires ("each argument is
// pre-expanded through a nested expander whose sink is a per-argument
// buffer").
func (e *Expander) preExpandArgument(arg []token.PPToken) []token.PPToken {
	var buf []token.PPToken

	nested := NewExpander(e.table, NopCallback{}, func(t token.PPToken) {
		buf = append(buf, t)
	})

	// A nested expander must not re-expand a macro that an enclosing
	// expansion has already disabled.
	for name := range e.disabled {
		nested.disabled[name] = true
	}

	for _, t := range arg {
		_ = nested.Feed(t)
	}

	nested.Flush()

	return buf
}

// substitute walks macro's replacement list, splicing in each parameter's
// pre-expanded argument and rewriting every token's spelled range to the
// collapsed macro-use range (spec.md invariant: "each tⱼ.spelledRange
// lies within macroUse.spelledRange").
func substitute(macro *MacroDefinition, args [][]token.PPToken, useRange token.Range) []token.PPToken {
	paramIndex := make(map[string]int, len(macro.ParamTokens))

	for i, p := range macro.ParamTokens {
		paramIndex[p.String()] = i
	}

	var out []token.PPToken

	for _, t := range macro.ExpansionTokens {
		if t.Kind == token.Identifier {
			if i, ok := paramIndex[t.String()]; ok && i < len(args) {
				for _, at := range args[i] {
					rewritten := at
					rewritten.SpelledFile = useRange
					out = append(out, rewritten)
				}

				continue
			}
		}

		rewritten := t
		rewritten.SpelledFile = useRange
		out = append(out, rewritten)
	}

	return out
}

// collapse returns a zero-width range at r's start, used so every token
// produced by an expansion carries the spelled start of the macro-use
// token (spec.md invariant 2).
func collapse(r token.Range) token.Range {
	return token.Range{Begin: r.Begin, End: r.Begin}
}
