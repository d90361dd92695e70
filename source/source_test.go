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

package source

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapFSOpenMissing(t *testing.T) {
	fs := MapFS{"a.frag": "void main() {}"}

	_, err := fs.Open("missing.frag")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerOpenDeduplicatesSamePath(t *testing.T) {
	mgr := NewManager(MapFS{"a.frag": "hello"})

	f1, err := mgr.Open("a.frag")
	require.NoError(t, err)

	f2, err := mgr.Open("a.frag")
	require.NoError(t, err)

	assert.Same(t, f1, f2, "opening the same canonical path twice must return the same File")
}

func TestManagerOpenAssignsFileIDsAboveReserved(t *testing.T) {
	mgr := NewManager(MapFS{"a.frag": "hello"})

	f, err := mgr.Open("a.frag")
	require.NoError(t, err)

	assert.Greater(t, int(f.ID), int(UserPreamble))
}

func TestManagerOpenVirtualUsesReservedID(t *testing.T) {
	mgr := NewManager(MapFS{})

	f := mgr.OpenVirtual(SystemPreamble, "<preamble>", []byte("#version 450\n"))

	assert.Equal(t, SystemPreamble, f.ID)
	assert.Same(t, f, mgr.File(SystemPreamble))
	assert.Equal(t, "<preamble>", mgr.Path(SystemPreamble))
}

func TestManagerFileUnknownIDReturnsNil(t *testing.T) {
	mgr := NewManager(MapFS{})
	assert.Nil(t, mgr.File(FileID(999)))
}

func TestFileReaderReadsAllBytes(t *testing.T) {
	mgr := NewManager(MapFS{"a.frag": "abc"})
	f, err := mgr.Open("a.frag")
	require.NoError(t, err)

	buf, err := io.ReadAll(f.Reader())
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf))
}

func TestResolveIncludeQuotedPrefersIncludingDir(t *testing.T) {
	fs := MapFS{"dir/local.glsl": "x"}

	path, err := ResolveInclude(fs, nil, "dir", "local.glsl", true)
	require.NoError(t, err)
	assert.Equal(t, "dir/local.glsl", path)
}

func TestResolveIncludeAngleSearchesIncludePaths(t *testing.T) {
	fs := MapFS{"lib/common.glsl": "x"}

	path, err := ResolveInclude(fs, []string{"lib"}, "dir", "common.glsl", false)
	require.NoError(t, err)
	assert.Equal(t, "lib/common.glsl", path)
}

func TestResolveIncludeNotFound(t *testing.T) {
	fs := MapFS{}

	_, err := ResolveInclude(fs, []string{"lib"}, "dir", "missing.glsl", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerCloseDropsBuffers(t *testing.T) {
	mgr := NewManager(MapFS{"a.frag": "hello"})
	_, err := mgr.Open("a.frag")
	require.NoError(t, err)

	mgr.Close()
	mgr.Close() // idempotent

	assert.Nil(t, mgr.File(firstUserFile))
}
