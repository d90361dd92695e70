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

// Package atom interns identifier text into pointer-equal handles. The
// table owns the string storage; comparing two Atoms by pointer equality
// is always equivalent to comparing the underlying strings.
package atom

// Atom is an interned, pointer-equal handle to a string.
type Atom *string

// Table interns strings into Atoms. The zero Table is not usable; use
// NewTable.
type Table struct {
	entries map[string]Atom
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Atom)}
}

// Intern returns the Atom for s, creating it if this is the first time s
// has been seen by this table.
func (t *Table) Intern(s string) Atom {
	if a, ok := t.entries[s]; ok {
		return a
	}

	// Copy s so later mutation of a caller-owned byte slice backing s can
	// never corrupt the interned string.
	owned := string([]byte(s))
	a := Atom(&owned)
	t.entries[s] = a

	return a
}

// Lookup returns the Atom for s without creating it, and whether it exists.
func (t *Table) Lookup(s string) (Atom, bool) {
	a, ok := t.entries[s]
	return a, ok
}

// String returns the text an Atom was interned from.
func String(a Atom) string {
	if a == nil {
		return ""
	}

	return *a
}

// Len returns the number of distinct strings interned so far.
func (t *Table) Len() int {
	return len(t.entries)
}

// PreloadKeywords interns every string in keywords. Used at table
// construction so keyword atoms are stable across the lifetime of a
// compilation and its preambles.
func (t *Table) PreloadKeywords(keywords []string) {
	for _, kw := range keywords {
		t.Intern(kw)
	}
}
