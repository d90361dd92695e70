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
	"github.com/glsld-lang/glsld/source"
	"github.com/glsld-lang/glsld/token"
)

// Callback is the preprocessor collaborator the core produces events to
// (spec.md §6): one method per directive, plus include enter/exit and
// macro-expansion start/end. Implementations never influence parsing; the
// core uses them but never depends on their reaction.
type Callback interface {
	OnInclude(rng token.Range, resolvedPath string)
	OnDefine(rng token.Range, macro *MacroDefinition)
	OnUndef(rng token.Range, name string)
	OnIfdef(rng token.Range, name string, isDefined bool)
	OnVersion(rng token.Range, version int, profile string)
	OnExtension(rng token.Range, name, behavior string)
	OnEnterFile(file source.FileID, includedFrom token.Pos)
	OnExitFile(file source.FileID)
	OnMacroExpansionBegin(use token.Range, macro *MacroDefinition)
	OnMacroExpansionEnd(use token.Range)
}

// NopCallback implements Callback with no-op methods; embed it to satisfy
// the interface while overriding only the events of interest.
type NopCallback struct{}

func (NopCallback) OnInclude(token.Range, string)                     {}
func (NopCallback) OnDefine(token.Range, *MacroDefinition)             {}
func (NopCallback) OnUndef(token.Range, string)                        {}
func (NopCallback) OnIfdef(token.Range, string, bool)                  {}
func (NopCallback) OnVersion(token.Range, int, string)                 {}
func (NopCallback) OnExtension(token.Range, string, string)            {}
func (NopCallback) OnEnterFile(source.FileID, token.Pos)               {}
func (NopCallback) OnExitFile(source.FileID)                           {}
func (NopCallback) OnMacroExpansionBegin(token.Range, *MacroDefinition) {}
func (NopCallback) OnMacroExpansionEnd(token.Range)                     {}

// Diagnostics is the diagnostic sink the core reports recoverable issues
// to (spec.md §6/§7): report(range, severity, message).
type Diagnostics interface {
	Report(err *token.PosError)
}

// DiscardDiagnostics drops every diagnostic; useful for tests that only
// care about the resulting token stream.
type DiscardDiagnostics struct{}

func (DiscardDiagnostics) Report(*token.PosError) {}
