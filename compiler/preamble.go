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

package compiler

import (
	"github.com/glsld-lang/glsld/atom"
	"github.com/glsld-lang/glsld/preprocessor"
	"github.com/glsld-lang/glsld/source"
)

// stageBuiltins holds the built-in variable declarations visible in a
// given shader stage, a small slice of the real GLSL built-in surface
// sufficient to let CodeCompletion and overload resolution see them as
// ordinary global declarations rather than special-cased names.
var stageBuiltins = map[string]string{
	"vertex":   "out gl_PerVertex { vec4 gl_Position; float gl_PointSize; };\n",
	"fragment": "layout(location = 0) out vec4 glsld_FragColor;\n",
	"geometry": "out gl_PerVertex { vec4 gl_Position; float gl_PointSize; };\n",
	"compute":  "const uvec3 gl_WorkGroupSize = uvec3(1, 1, 1);\n",
}

// preambleSource renders the full builtin header text for lang: a
// #version line, every ExtraMacros entry as a #define, and the stage's
// builtin declarations.
func preambleSource(lang LanguageConfig) string {
	text := "#version " + itoa(lang.Version)
	if lang.Profile != "" {
		text += " " + lang.Profile
	}

	text += "\n"

	for name, value := range lang.ExtraMacros {
		text += "#define " + name + " " + value + "\n"
	}

	text += stageBuiltins[lang.Stage]

	return text
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

// BuildPreamble compiles lang's builtin header text once into a
// reusable Preamble, registering it under source.SystemPreamble so every
// user Compile call can extend its LexContext and clone its Table
// (spec.md §5/§8 artefact cache).
func BuildPreamble(mgr *source.Manager, atoms *atom.Table, macros *preprocessor.Table, lang LanguageConfig) (*Preamble, error) {
	mgr.OpenVirtual(source.SystemPreamble, "<builtin>", []byte(preambleSource(lang)))

	comp, err := Compile(mgr, atoms, macros, source.SystemPreamble, lang, CompilerConfig{}, nil)
	if err != nil {
		return nil, err
	}

	return &Preamble{LC: comp.LC, Symbols: comp.Symbols, Units: comp.Units}, nil
}

// Compiler bundles a Cache with the atom/macro tables shared across every
// compile, giving callers one object to hold onto per language session.
type Compiler struct {
	Atoms  *atom.Table
	Macros *preprocessor.Table
	Cache  *Cache
}

// NewCompiler creates a Compiler with fresh atom/macro tables and an empty
// Cache.
func NewCompiler() *Compiler {
	return &Compiler{Atoms: atom.NewTable(), Macros: preprocessor.NewTable(), Cache: NewCache()}
}

// Compile preprocesses and parses file under mgr, building and caching
// lang's preamble on first use.
func (c *Compiler) Compile(mgr *source.Manager, file source.FileID, lang LanguageConfig, cfg CompilerConfig) (*Compilation, error) {
	preamble, ok := c.Cache.Get(lang)
	if !ok {
		p, err := BuildPreamble(mgr, c.Atoms, c.Macros, lang)
		if err != nil {
			return nil, err
		}

		c.Cache.Store(lang, p)
		preamble = p
	}

	return Compile(mgr, c.Atoms, c.Macros, file, lang, cfg, preamble)
}
