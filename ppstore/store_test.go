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

package ppstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glsld-lang/glsld/preprocessor"
	"github.com/glsld-lang/glsld/source"
	"github.com/glsld-lang/glsld/token"
)

func rng(file source.FileID, beginChar, endChar int) token.Range {
	return token.Range{
		Begin: token.Pos{File: file, Line: 0, Char: beginChar},
		End:   token.Pos{File: file, Line: 0, Char: endChar},
	}
}

func TestStoreRecordsOccurrencesInOrder(t *testing.T) {
	s := NewStore()

	s.OnVersion(rng(3, 0, 12), 450, "core")
	s.OnDefine(rng(3, 13, 30), &preprocessor.MacroDefinition{Name: "FOO"})
	s.OnUndef(rng(3, 31, 40), "FOO")

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, Version, all[0].Kind)
	assert.Equal(t, Define, all[1].Kind)
	assert.Equal(t, "FOO", all[1].Text)
	assert.Equal(t, Undef, all[2].Kind)
}

func TestStoreAtFindsContainingOccurrence(t *testing.T) {
	s := NewStore()
	s.OnMacroExpansionBegin(rng(3, 10, 20), &preprocessor.MacroDefinition{Name: "MAX"})

	inside := token.Pos{File: 3, Line: 0, Char: 15}
	outside := token.Pos{File: 3, Line: 0, Char: 25}

	got := s.At(inside)
	require.Len(t, got, 1)
	assert.Equal(t, "MAX", got[0].Text)

	assert.Empty(t, s.At(outside))
}

func TestStoreOnIfdefRecordsDefinedState(t *testing.T) {
	s := NewStore()
	s.OnIfdef(rng(3, 0, 10), "DEBUG", true)
	s.OnIfdef(rng(3, 10, 20), "RELEASE", false)

	all := s.All()
	require.Len(t, all, 2)
	assert.Contains(t, all[0].Text, "defined")
	assert.Contains(t, all[1].Text, "undefined")
}

func TestStoreFilesTracksEnterOrder(t *testing.T) {
	s := NewStore()

	s.OnEnterFile(3, token.Pos{})
	s.OnEnterFile(4, token.Pos{File: 3, Line: 1})
	s.OnExitFile(4)
	s.OnExitFile(3)

	assert.Equal(t, []source.FileID{3, 4}, s.Files())
}

func TestStoreOnExitFileWithEmptyStackIsNoop(t *testing.T) {
	s := NewStore()
	assert.NotPanics(t, func() { s.OnExitFile(3) })
}
