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

// Package preprocessor turns the raw PPToken stream of one or more source
// files into the final, macro-expanded PPToken stream the lex context
// consumes (spec.md §4). It owns the conditional-inclusion stack, the
// #define table, and the #include recursion; the only sub-grammar it does
// not hand-parse itself is the #if/#elif constant expression (ifexpr.go).
package preprocessor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/glsld-lang/glsld/atom"
	"github.com/glsld-lang/glsld/scanner"
	"github.com/glsld-lang/glsld/source"
	"github.com/glsld-lang/glsld/token"
)

// Config holds the knobs a Compilation supplies (spec.md §5/§6).
type Config struct {
	IncludePaths    []string
	MaxIncludeDepth int // 0 means DefaultMaxIncludeDepth
	CountUTF16      bool
}

// DefaultMaxIncludeDepth bounds #include recursion, mirroring common
// compiler front-end limits against runaway self-inclusion.
const DefaultMaxIncludeDepth = 32

// Preprocessor drives one compilation's worth of tokenizing, directive
// handling, and macro expansion.
type Preprocessor struct {
	mgr      *source.Manager
	atoms    *atom.Table
	macros   *Table
	callback Callback
	diags    Diagnostics
	cfg      Config

	stack []*fileFrame
	cond  []condFrame

	out []token.PPToken
}

type fileFrame struct {
	file         source.FileID
	tok          *token.Tokenizer
	peeked       *token.PPToken
	includedFrom token.Pos
}

func (f *fileFrame) next() (token.PPToken, error) {
	if f.peeked != nil {
		t := *f.peeked
		f.peeked = nil

		return t, nil
	}

	return f.tok.Next()
}

func (f *fileFrame) pushback(t token.PPToken) {
	f.peeked = &t
}

// condFrame is one level of the #if/#ifdef/#ifndef conditional stack.
type condFrame struct {
	parentActive     bool
	branchActive     bool
	seenActiveBranch bool
	seenElse         bool
	openedAt         token.Range
}

func (c condFrame) active() bool { return c.parentActive && c.branchActive }

// New creates a Preprocessor sharing mgr and atoms with the rest of the
// compilation. cb and diags may be nil, in which case no-op
// implementations are used.
func New(mgr *source.Manager, atoms *atom.Table, macros *Table, cb Callback, diags Diagnostics, cfg Config) *Preprocessor {
	if cb == nil {
		cb = NopCallback{}
	}

	if diags == nil {
		diags = DiscardDiagnostics{}
	}

	if cfg.MaxIncludeDepth == 0 {
		cfg.MaxIncludeDepth = DefaultMaxIncludeDepth
	}

	return &Preprocessor{mgr: mgr, atoms: atoms, macros: macros, callback: cb, diags: diags, cfg: cfg}
}

// Process runs the preprocessor over file end to end and returns the final
// macro-expanded token stream, terminated by a single Eof token.
func (p *Preprocessor) Process(file source.FileID) ([]token.PPToken, error) {
	expander := NewExpander(p.macros, p.callback, func(t token.PPToken) {
		p.out = append(p.out, t)
	})

	if err := p.pushFile(file, token.Pos{}); err != nil {
		return nil, err
	}

	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]

		tok, err := top.next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == token.Eof {
			p.callback.OnExitFile(top.file)
			p.stack = p.stack[:len(p.stack)-1]

			continue
		}

		if tok.Kind == token.Hash && tok.FirstOfLine {
			if err := p.handleDirective(top, tok.SpelledFile); err != nil {
				return nil, err
			}

			continue
		}

		if tok.Kind == token.Comment {
			continue
		}

		if !p.active() {
			continue
		}

		if err := expander.Feed(tok); err != nil {
			return nil, err
		}
	}

	expander.Flush()

	if len(p.cond) > 0 {
		p.diags.Report(token.NewPosError(token.NewNode(p.cond[len(p.cond)-1].openedAt.Begin, p.cond[len(p.cond)-1].openedAt.End),
			"unterminated #if"))
	}

	eofPos := token.Pos{File: file}
	if f := p.mgr.File(file); f != nil {
		eofPos = token.Pos{File: file, Offset: len(f.Text)}
	}

	p.out = append(p.out, token.EOF(eofPos))

	return p.out, nil
}

func (p *Preprocessor) active() bool {
	if len(p.cond) == 0 {
		return true
	}

	return p.cond[len(p.cond)-1].active()
}

func (p *Preprocessor) pushFile(file source.FileID, includedFrom token.Pos) error {
	if len(p.stack) >= p.cfg.MaxIncludeDepth {
		return token.NewPosError(token.NewNode(includedFrom, includedFrom), "#include nested too deeply")
	}

	f := p.mgr.File(file)
	if f == nil {
		return fmt.Errorf("preprocessor: unknown file id %d", file)
	}

	s := scanner.New(file, f.Text, p.cfg.CountUTF16)
	frame := &fileFrame{file: file, tok: token.New(s, p.atoms), includedFrom: includedFrom}

	p.stack = append(p.stack, frame)
	p.callback.OnEnterFile(file, includedFrom)

	return nil
}

// handleDirective reads and dispatches one "#..." line, having already
// consumed the leading Hash token. hashRange anchors diagnostics raised
// while the directive name itself is still being read.
func (p *Preprocessor) handleDirective(f *fileFrame, hashRange token.Range) error {
	name, err := f.next()
	if err != nil {
		return err
	}

	if name.FirstOfLine {
		// A bare "#" followed by nothing on the line (or by the next
		// line's first token): a null directive, legal and a no-op.
		f.pushback(name)

		return nil
	}

	if name.Kind == token.Eof {
		return nil
	}

	directive := name.String()

	// Directives that affect conditional inclusion must still be
	// recognised while inactive, so nesting and #endif matching stay
	// correct even inside a skipped branch.
	switch directive {
	case "ifdef", "ifndef", "if":
		return p.handleIf(f, directive, hashRange)
	case "elif":
		return p.handleElif(f, hashRange)
	case "else":
		return p.handleElse(f, hashRange)
	case "endif":
		return p.handleEndif(f, hashRange)
	}

	if !p.active() {
		p.skipRestOfLine(f)
		return nil
	}

	switch directive {
	case "define":
		return p.handleDefine(f)
	case "undef":
		return p.handleUndef(f, hashRange)
	case "include":
		return p.handleInclude(f, hashRange)
	case "version":
		return p.handleVersion(f, hashRange)
	case "extension":
		return p.handleExtension(f, hashRange)
	case "error":
		toks := p.readLine(f)
		p.diags.Report(token.NewPosError(token.NewNode(hashRange.Begin, hashRange.End), spellJoin(toks)))

		return nil
	case "pragma":
		p.skipRestOfLine(f)
		return nil
	default:
		p.diags.Report(token.NewPosWarning(token.NewNode(hashRange.Begin, hashRange.End),
			fmt.Sprintf("unknown preprocessing directive %q", directive)))
		p.skipRestOfLine(f)

		return nil
	}
}

// readLine collects every token through the rest of the current line
// (comments dropped), leaving the first token of the next line pushed back.
func (p *Preprocessor) readLine(f *fileFrame) []token.PPToken {
	var out []token.PPToken

	for {
		tok, err := f.next()
		if err != nil || tok.Kind == token.Eof {
			if tok.Kind == token.Eof {
				f.pushback(tok)
			}

			return out
		}

		if tok.FirstOfLine {
			f.pushback(tok)
			return out
		}

		if tok.Kind == token.Comment {
			continue
		}

		out = append(out, tok)
	}
}

func (p *Preprocessor) skipRestOfLine(f *fileFrame) {
	p.readLine(f)
}

func (p *Preprocessor) handleDefine(f *fileFrame) error {
	nameTok, err := f.next()
	if err != nil {
		return err
	}

	if nameTok.Kind != token.Identifier {
		return token.NewPosError(token.NewNode(nameTok.Begin(), nameTok.End()), "expected a macro name after #define")
	}

	def := &MacroDefinition{Name: nameTok.String(), NameTok: nameTok}

	next, err := f.next()
	if err != nil {
		return err
	}

	if next.Kind == token.LParen && !next.LeadingWhitespace {
		def.IsFunctionLike = true

		for {
			ptok, err := f.next()
			if err != nil {
				return err
			}

			if ptok.Kind == token.RParen {
				break
			}

			if ptok.Kind != token.Identifier {
				return token.NewPosError(token.NewNode(ptok.Begin(), ptok.End()), "expected a parameter name")
			}

			def.ParamTokens = append(def.ParamTokens, ptok)

			sep, err := f.next()
			if err != nil {
				return err
			}

			if sep.Kind == token.RParen {
				break
			}

			if sep.Kind != token.Comma {
				return token.NewPosError(token.NewNode(sep.Begin(), sep.End()), "expected ',' or ')' in macro parameter list")
			}
		}

		def.ExpansionTokens = p.readLine(f)
	} else {
		f.pushback(next)
		def.ExpansionTokens = p.readLine(f)
	}

	def.DefinedAt = token.Range{Begin: nameTok.Begin(), End: nameTok.End()}

	previous, redefined := p.macros.Define(def)

	if redefined && !sameExpansion(previous, def) {
		p.diags.Report(token.NewPosWarning(token.NewNode(nameTok.Begin(), nameTok.End()),
			fmt.Sprintf("%q redefined with a different expansion", def.Name)))
	}

	p.callback.OnDefine(def.DefinedAt, def)

	return nil
}

func sameExpansion(a, b *MacroDefinition) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.IsFunctionLike != b.IsFunctionLike || len(a.ParamTokens) != len(b.ParamTokens) || len(a.ExpansionTokens) != len(b.ExpansionTokens) {
		return false
	}

	for i := range a.ParamTokens {
		if a.ParamTokens[i].String() != b.ParamTokens[i].String() {
			return false
		}
	}

	for i := range a.ExpansionTokens {
		if a.ExpansionTokens[i].Kind != b.ExpansionTokens[i].Kind || a.ExpansionTokens[i].String() != b.ExpansionTokens[i].String() {
			return false
		}
	}

	return true
}

func (p *Preprocessor) handleUndef(f *fileFrame, hashRange token.Range) error {
	nameTok, err := f.next()
	if err != nil {
		return err
	}

	if nameTok.Kind != token.Identifier {
		return token.NewPosError(token.NewNode(nameTok.Begin(), nameTok.End()), "expected a macro name after #undef")
	}

	p.skipRestOfLine(f)

	name := nameTok.String()
	p.macros.Undef(name)
	p.callback.OnUndef(token.Range{Begin: nameTok.Begin(), End: nameTok.End()}, name)

	return nil
}

func (p *Preprocessor) handleInclude(f *fileFrame, hashRange token.Range) error {
	f.tok.WantHeaderName(token.AutoHeader)

	header, err := f.next()
	if err != nil {
		return err
	}

	if header.Kind != token.QuotedString && header.Kind != token.AngleString {
		return token.NewPosError(token.NewNode(header.Begin(), header.End()), "expected a header name after #include")
	}

	p.skipRestOfLine(f)

	quoted := header.Kind == token.QuotedString
	path := header.String()
	dir := source.Canonicalize(".")

	if cf := p.mgr.File(f.file); cf != nil {
		dir = parentDir(cf.Path)
	}

	resolved, err := source.ResolveInclude(osOrVirtualFS(p.mgr), p.cfg.IncludePaths, dir, path, quoted)
	if err != nil {
		return token.NewPosError(token.NewNode(header.Begin(), header.End()), fmt.Sprintf("cannot find header %q", path)).SetCause(err)
	}

	opened, err := p.mgr.Open(resolved)
	if err != nil {
		return token.NewPosError(token.NewNode(header.Begin(), header.End()), fmt.Sprintf("cannot open header %q", path)).SetCause(err)
	}

	p.callback.OnInclude(token.Range{Begin: header.Begin(), End: header.End()}, resolved)

	return p.pushFile(opened.ID, header.Begin())
}

func (p *Preprocessor) handleVersion(f *fileFrame, hashRange token.Range) error {
	toks := p.readLine(f)

	version := 0
	profile := ""

	if len(toks) > 0 && toks[0].Kind == token.IntegerConstant {
		version, _ = strconv.Atoi(toks[0].String())
	}

	if len(toks) > 1 && toks[1].Kind == token.Identifier {
		profile = toks[1].String()
	}

	p.callback.OnVersion(hashRange, version, profile)

	return nil
}

func (p *Preprocessor) handleExtension(f *fileFrame, hashRange token.Range) error {
	toks := p.readLine(f)

	name, behavior := "", ""

	if len(toks) > 0 {
		name = toks[0].String()
	}

	if len(toks) > 2 {
		behavior = toks[2].String()
	}

	p.callback.OnExtension(hashRange, name, behavior)

	return nil
}

func (p *Preprocessor) handleIf(f *fileFrame, directive string, hashRange token.Range) error {
	parentActive := p.active()

	var branchActive bool

	switch directive {
	case "ifdef", "ifndef":
		nameTok, err := f.next()
		if err != nil {
			return err
		}

		p.skipRestOfLine(f)

		name := nameTok.String()
		defined := p.macros.IsDefined(name)

		if directive == "ifndef" {
			defined = !defined
		}

		branchActive = defined
		p.callback.OnIfdef(hashRange, name, p.macros.IsDefined(name))
	case "if":
		toks := p.readLine(f)

		if parentActive {
			v, err := p.evalConditionTokens(toks, hashRange)
			if err != nil {
				return err
			}

			branchActive = v
		}
	}

	p.cond = append(p.cond, condFrame{
		parentActive:     parentActive,
		branchActive:     branchActive,
		seenActiveBranch: branchActive,
		openedAt:         hashRange,
	})

	return nil
}

func (p *Preprocessor) handleElif(f *fileFrame, hashRange token.Range) error {
	toks := p.readLine(f)

	if len(p.cond) == 0 {
		return token.NewPosError(token.NewNode(hashRange.Begin, hashRange.End), "#elif without matching #if")
	}

	top := &p.cond[len(p.cond)-1]

	if top.seenElse {
		return token.NewPosError(token.NewNode(hashRange.Begin, hashRange.End), "#elif after #else")
	}

	if !top.parentActive || top.seenActiveBranch {
		top.branchActive = false
		return nil
	}

	v, err := p.evalConditionTokens(toks, hashRange)
	if err != nil {
		return err
	}

	top.branchActive = v
	top.seenActiveBranch = top.seenActiveBranch || v

	return nil
}

func (p *Preprocessor) handleElse(f *fileFrame, hashRange token.Range) error {
	p.skipRestOfLine(f)

	if len(p.cond) == 0 {
		return token.NewPosError(token.NewNode(hashRange.Begin, hashRange.End), "#else without matching #if")
	}

	top := &p.cond[len(p.cond)-1]

	if top.seenElse {
		return token.NewPosError(token.NewNode(hashRange.Begin, hashRange.End), "duplicate #else")
	}

	top.seenElse = true
	top.branchActive = top.parentActive && !top.seenActiveBranch
	top.seenActiveBranch = true

	return nil
}

func (p *Preprocessor) handleEndif(f *fileFrame, hashRange token.Range) error {
	p.skipRestOfLine(f)

	if len(p.cond) == 0 {
		return token.NewPosError(token.NewNode(hashRange.Begin, hashRange.End), "#endif without matching #if")
	}

	p.cond = p.cond[:len(p.cond)-1]

	return nil
}

// evalConditionTokens implements the "defined" special form, macro-expands
// everything else, then hands the rendered text to the participle-based
// constant-expression evaluator (ifexpr.go).
func (p *Preprocessor) evalConditionTokens(toks []token.PPToken, hashRange token.Range) (bool, error) {
	resolved := p.resolveDefinedOperator(toks)

	var expanded []token.PPToken

	expander := NewExpander(p.macros, NopCallback{}, func(t token.PPToken) {
		expanded = append(expanded, t)
	})

	for _, t := range resolved {
		if err := expander.Feed(t); err != nil {
			return false, err
		}
	}

	expander.Flush()

	if len(expanded) == 0 {
		return false, token.NewPosError(token.NewNode(hashRange.Begin, hashRange.End), "empty constant expression")
	}

	_, truthy, err := EvalConstantExpression(spellJoin(expanded))
	if err != nil {
		return false, token.NewPosError(token.NewNode(hashRange.Begin, hashRange.End), err.Error())
	}

	return truthy, nil
}

// resolveDefinedOperator rewrites "defined ( NAME )" and "defined NAME"
// into a single literal "1"/"0" token, before any macro expansion sees the
// operand name (otherwise a macro named like the operand could expand away
// before defined() gets to inspect it).
func (p *Preprocessor) resolveDefinedOperator(toks []token.PPToken) []token.PPToken {
	var out []token.PPToken

	for i := 0; i < len(toks); i++ {
		t := toks[i]

		if t.Kind != token.Identifier || t.String() != "defined" {
			out = append(out, t)
			continue
		}

		j := i + 1
		paren := false

		if j < len(toks) && toks[j].Kind == token.LParen {
			paren = true
			j++
		}

		if j >= len(toks) || toks[j].Kind != token.Identifier {
			out = append(out, t)
			continue
		}

		name := toks[j].String()
		j++

		if paren {
			if j >= len(toks) || toks[j].Kind != token.RParen {
				out = append(out, t)
				continue
			}

			j++
		}

		lit := "0"
		if p.macros.IsDefined(name) {
			lit = "1"
		}

		out = append(out, token.PPToken{Kind: token.IntegerConstant, SpelledFile: t.SpelledFile, Text: p.atoms.Intern(lit)})
		i = j - 1
	}

	return out
}

func spellJoin(toks []token.PPToken) string {
	var sb strings.Builder

	for i, t := range toks {
		if i > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(t.String())
	}

	return sb.String()
}

func parentDir(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[:i]
	}

	return "."
}

// osOrVirtualFS adapts Manager's private FileSystem for ResolveInclude's
// existence probing. The manager already owns the real FileSystem; this
// thin wrapper routes each probe through Manager.Open, so every candidate
// path that exists is registered as a File as a side effect of probing.
type managerProbe struct{ mgr *source.Manager }

func (m managerProbe) Open(path string) ([]byte, error) {
	f, err := m.mgr.Open(path)
	if err != nil {
		return nil, err
	}

	return f.Text, nil
}

func osOrVirtualFS(mgr *source.Manager) source.FileSystem {
	return managerProbe{mgr: mgr}
}
