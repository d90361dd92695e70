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

// Package compiler is the composition root (spec.md §5/§6/§8): it wires
// source, atom, scanner, token, preprocessor, lexcontext, types, ast,
// parser, symtab and ppstore into one Compilation, and caches the
// precompiled preamble artefact a LanguageConfig produces so repeated
// compiles of many shader stages against the same standard headers don't
// redo that work.
package compiler

import (
	"github.com/glsld-lang/glsld/ast"
	"github.com/glsld-lang/glsld/atom"
	"github.com/glsld-lang/glsld/lexcontext"
	"github.com/glsld-lang/glsld/parser"
	"github.com/glsld-lang/glsld/ppstore"
	"github.com/glsld-lang/glsld/preprocessor"
	"github.com/glsld-lang/glsld/source"
	"github.com/glsld-lang/glsld/symtab"
	"github.com/glsld-lang/glsld/token"
	"github.com/glsld-lang/glsld/types"
)

// LanguageConfig fixes the GLSL dialect a Compilation targets (spec.md
// §6): version, profile, and the stage determining which builtins and
// interface-block shapes are in scope.
type LanguageConfig struct {
	Version     int    // e.g. 450
	Profile     string // "core", "compatibility", "es"
	Stage       string // "vertex", "fragment", "geometry", "compute", ...
	ExtraMacros map[string]string
}

// CompilerConfig supplies per-compile knobs that do not affect the
// preamble cache key: include search path and UTF-16 column tracking for
// LSP clients that count in UTF-16 code units.
type CompilerConfig struct {
	IncludePaths []string
	CountUTF16   bool
}

// Preamble is the reusable artefact of compiling a LanguageConfig's
// built-in headers once: its LexContext becomes the shared `base` every
// user-file LexContext extends (lexcontext.Extend), and its Table is
// copied into every fresh Compilation's own Table rather than mutated in
// place.
type Preamble struct {
	LC      *lexcontext.LexContext
	Symbols *symtab.Table
	Units   *types.Universe
}

// Diagnostics is the sink every stage of a Compilation reports through.
type Diagnostics interface {
	Report(err *token.PosError)
}

// collectingDiagnostics accumulates every reported PosError, used when the
// caller passes a nil Diagnostics.
type collectingDiagnostics struct {
	errs []*token.PosError
}

func (d *collectingDiagnostics) Report(err *token.PosError) { d.errs = append(d.errs, err) }

// Compilation is the result of compiling one source file: its parsed
// tree, the tables a Query needs, and every diagnostic collected along
// the way.
type Compilation struct {
	Arena       *ast.Arena
	LC          *lexcontext.LexContext
	Symbols     *symtab.Table
	Units       *types.Universe
	PP          *ppstore.Store
	Diagnostics []*token.PosError
	TranslationUnit ast.NodeID
}

// Compile runs the full pipeline — preprocess, lex-context build, parse —
// over file, reusing preamble's shared token context and symbol table
// when preamble is non-nil.
func Compile(mgr *source.Manager, atoms *atom.Table, macros *preprocessor.Table, file source.FileID, lang LanguageConfig, cfg CompilerConfig, preamble *Preamble) (*Compilation, error) {
	diags := &collectingDiagnostics{}
	store := ppstore.NewStore()

	ppCfg := preprocessor.Config{
		IncludePaths:    cfg.IncludePaths,
		MaxIncludeDepth: preprocessor.DefaultMaxIncludeDepth,
		CountUTF16:      cfg.CountUTF16,
	}

	pp := preprocessor.New(mgr, atoms, macros, store, diags, ppCfg)

	stream, err := pp.Process(file)
	if err != nil {
		return nil, err
	}

	var lc *lexcontext.LexContext

	var symbols *symtab.Table

	var units *types.Universe

	if preamble != nil {
		lc = lexcontext.Extend(int32(file), preamble.LC)
		symbols = cloneTable(preamble.Symbols)
		units = preamble.Units
	} else {
		lc = lexcontext.New(int32(file))
		symbols = symtab.New()
		units = types.NewUniverse()
	}

	lc.Build(stream)

	arena := ast.NewArena()
	builder := ast.NewBuilder(arena, units)
	prs := parser.New(lc, builder, symbols, units, diags)

	tu := prs.ParseTranslationUnit()

	return &Compilation{
		Arena: arena, LC: lc, Symbols: symbols, Units: units,
		PP: store, Diagnostics: diags.errs, TranslationUnit: tu,
	}, nil
}

// cloneTable copies a preamble's global scope bindings and function
// overloads into a fresh Table, so one Compilation's local declarations
// never leak into the shared preamble.
func cloneTable(src *symtab.Table) *symtab.Table {
	dst := symtab.New()

	for _, b := range src.Global().All() {
		dst.Global().Insert(&symtab.Binding{Name: b.Name, Decl: b.Decl, Type: b.Type})
	}

	for _, name := range src.FunctionNames() {
		for _, e := range src.Overloads(name) {
			dst.DefineFunction(e)
		}
	}

	return dst
}
