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

import "github.com/glsld-lang/glsld/token"

// MacroDefinition is the persistent record of one #define (spec.md §3).
// The "disabled" self-recursion guard is deliberately NOT part of this
// struct: it lives only inside the Expander's call stack (spec.md §4.4),
// since it is transient expansion state, not a property of the macro.
type MacroDefinition struct {
	Name            string
	IsFunctionLike  bool
	IsBuiltin       bool
	IsVariadic      bool
	NameTok         token.PPToken
	ParamTokens     []token.PPToken // parameter names, in declared order
	ExpansionTokens []token.PPToken
	DefinedAt       token.Range
}

// Table is the current #define/#undef state for one compilation. Object-
// like and function-like macros share one namespace, matching the C
// preprocessor rule the spec is modelled on.
type Table struct {
	macros map[string]*MacroDefinition
}

// NewTable creates an empty macro table.
func NewTable() *Table {
	return &Table{macros: make(map[string]*MacroDefinition)}
}

// Define registers def, returning the previous definition if NAME was
// already defined (spec.md §4.3: redefinition is allowed but reported by
// the caller).
func (t *Table) Define(def *MacroDefinition) (previous *MacroDefinition, redefined bool) {
	previous, redefined = t.macros[def.Name]
	t.macros[def.Name] = def

	return previous, redefined
}

// Undef removes NAME, reporting whether it was defined.
func (t *Table) Undef(name string) bool {
	_, ok := t.macros[name]
	delete(t.macros, name)

	return ok
}

// Lookup returns the macro definition for name, if any.
func (t *Table) Lookup(name string) (*MacroDefinition, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// IsDefined reports whether name currently names a macro (used by both
// #ifdef and the "defined(X)" operator in #if expressions).
func (t *Table) IsDefined(name string) bool {
	_, ok := t.macros[name]
	return ok
}
