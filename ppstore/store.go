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

// Package ppstore records every preprocessor occurrence (directive,
// include, macro expansion) in source order, keyed by spelled range, so
// the query layer can answer position-based questions about preprocessor
// activity the same way it answers them about the AST (spec.md §4.9,
// supplemented from original_source/glsld-server's
// PreprocessSymbolStore.h, whose occurrence-list shape this mirrors —
// the transport/wire code around it stays out of scope).
package ppstore

import (
	"strconv"

	"github.com/glsld-lang/glsld/preprocessor"
	"github.com/glsld-lang/glsld/source"
	"github.com/glsld-lang/glsld/token"
)

// OccurrenceKind classifies one recorded event.
type OccurrenceKind int

const (
	Include OccurrenceKind = iota
	Define
	Undef
	Ifdef
	Version
	Extension
	MacroExpansion
)

// Occurrence is one recorded preprocessor event, in the source order it
// was observed.
type Occurrence struct {
	Kind          OccurrenceKind
	Range         token.Range
	Text          string // directive-specific detail: resolved path, macro/name, version+profile
	MacroAtDefine *preprocessor.MacroDefinition
}

// Store implements preprocessor.Callback, accumulating Occurrences plus a
// per-file open/close stack for header-inclusion queries.
type Store struct {
	occurrences []Occurrence
	files       []fileSpan
	stack       []int // indices into files, currently open
}

type fileSpan struct {
	File         source.FileID
	IncludedFrom token.Pos
	EnterIndex   int // index into occurrences at the point this file was entered
}

// NewStore creates an empty Store.
func NewStore() *Store { return &Store{} }

func (s *Store) record(o Occurrence) { s.occurrences = append(s.occurrences, o) }

func (s *Store) OnInclude(rng token.Range, resolvedPath string) {
	s.record(Occurrence{Kind: Include, Range: rng, Text: resolvedPath})
}

func (s *Store) OnDefine(rng token.Range, macro *preprocessor.MacroDefinition) {
	s.record(Occurrence{Kind: Define, Range: rng, Text: macro.Name, MacroAtDefine: macro})
}

func (s *Store) OnUndef(rng token.Range, name string) {
	s.record(Occurrence{Kind: Undef, Range: rng, Text: name})
}

func (s *Store) OnIfdef(rng token.Range, name string, isDefined bool) {
	text := name
	if isDefined {
		text = name + " (defined)"
	} else {
		text = name + " (undefined)"
	}

	s.record(Occurrence{Kind: Ifdef, Range: rng, Text: text})
}

func (s *Store) OnVersion(rng token.Range, version int, profile string) {
	text := strconv.Itoa(version)
	if profile != "" {
		text += " " + profile
	}

	s.record(Occurrence{Kind: Version, Range: rng, Text: text})
}

func (s *Store) OnExtension(rng token.Range, name, behavior string) {
	s.record(Occurrence{Kind: Extension, Range: rng, Text: name + " " + behavior})
}

func (s *Store) OnEnterFile(file source.FileID, includedFrom token.Pos) {
	s.files = append(s.files, fileSpan{File: file, IncludedFrom: includedFrom, EnterIndex: len(s.occurrences)})
	s.stack = append(s.stack, len(s.files)-1)
}

func (s *Store) OnExitFile(file source.FileID) {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *Store) OnMacroExpansionBegin(use token.Range, macro *preprocessor.MacroDefinition) {
	s.record(Occurrence{Kind: MacroExpansion, Range: use, Text: macro.Name})
}

func (s *Store) OnMacroExpansionEnd(use token.Range) {}

// All returns every recorded occurrence in source order.
func (s *Store) All() []Occurrence { return s.occurrences }

// At returns every occurrence whose range contains pos, ordered as
// recorded (spec.md §4.9 "position-based questions").
func (s *Store) At(pos token.Pos) []Occurrence {
	var out []Occurrence

	for _, o := range s.occurrences {
		if o.Range.Contains(pos) {
			out = append(out, o)
		}
	}

	return out
}

// Files returns the FileID of every file visited, in the order they were
// entered (the root file followed by every #include,
// possibly nested).
func (s *Store) Files() []source.FileID {
	out := make([]source.FileID, len(s.files))

	for i, f := range s.files {
		out[i] = f.File
	}

	return out
}
