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

package atom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternReturnsSamePointerForSameText(t *testing.T) {
	tbl := NewTable()

	a := tbl.Intern("foo")
	b := tbl.Intern("foo")

	assert.Same(t, a, b)
	assert.Equal(t, 1, tbl.Len())
}

func TestInternDistinctTextsGetDistinctAtoms(t *testing.T) {
	tbl := NewTable()

	a := tbl.Intern("foo")
	b := tbl.Intern("bar")

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, tbl.Len())
}

func TestLookupMissing(t *testing.T) {
	tbl := NewTable()

	_, ok := tbl.Lookup("missing")
	assert.False(t, ok)

	tbl.Intern("present")
	a, ok := tbl.Lookup("present")
	require.True(t, ok)
	assert.Equal(t, "present", String(a))
}

func TestStringOfNilAtomIsEmpty(t *testing.T) {
	assert.Equal(t, "", String(nil))
}

func TestInternCopiesBackingBytes(t *testing.T) {
	tbl := NewTable()

	buf := []byte("mutable")
	a := tbl.Intern(string(buf))
	buf[0] = 'X'

	assert.Equal(t, "mutable", String(a), "mutating the caller's slice must not corrupt the interned atom")
}

func TestPreloadKeywords(t *testing.T) {
	tbl := NewTable()
	tbl.PreloadKeywords([]string{"void", "float", "if"})

	assert.Equal(t, 3, tbl.Len())

	a, ok := tbl.Lookup("void")
	require.True(t, ok)
	assert.Equal(t, "void", String(a))
}
