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

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupLayoutIDRecognizesWellKnownIdentifiers(t *testing.T) {
	assert.Equal(t, LayoutBinding, LookupLayoutID("binding"))
	assert.Equal(t, LayoutLocalSizeX, LookupLayoutID("local_size_x"))
	assert.Equal(t, LayoutUnknown, LookupLayoutID("push_constant"))
}

func TestLayoutQualifiersSetIntOverwritesExisting(t *testing.T) {
	var l LayoutQualifiers
	l.SetInt(LayoutBinding, 0)

	v, ok := l.Int(LayoutBinding)
	require.True(t, ok)
	assert.Equal(t, 0, v)

	l.SetInt(LayoutBinding, 2)
	v, ok = l.Int(LayoutBinding)
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = l.Int(LayoutSet)
	assert.False(t, ok)
}

func TestLayoutQualifiersSetExtraKeepsVendorIdentifiers(t *testing.T) {
	var l LayoutQualifiers
	l.SetExtra("std430", "")
	l.SetExtra("push_constant", "")

	_, ok := l.Extra("std430")
	assert.True(t, ok)
	_, ok = l.Extra("early_fragment_tests")
	assert.False(t, ok)
}

func TestLayoutQualifiersSetIntLaterCallWinsOnCollision(t *testing.T) {
	l := NewLayoutQualifiers()
	l.SetInt(LayoutBinding, 0)
	l.SetInt(LayoutBinding, 5)
	l.SetInt(LayoutLocation, 2)

	v, ok := l.Int(LayoutBinding)
	require.True(t, ok)
	assert.Equal(t, 5, v, "a repeated layout(...) on the same declaration wins")

	v, ok = l.Int(LayoutLocation)
	require.True(t, ok)
	assert.Equal(t, 2, v)
}
