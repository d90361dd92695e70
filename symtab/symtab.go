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

// Package symtab is the scope stack and overload-resolution engine
// (spec.md §4.7), grounded on the teacher's parser.Visitor peek/next
// buffer discipline generalized here to a stack of lexical scopes rather
// than a token stream.
package symtab

import "github.com/glsld-lang/glsld/types"

// ScopeKind classifies one entry of the scope stack.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeStruct
)

// Binding is one name→declaration entry in a scope, global or nested.
type Binding struct {
	Name string
	Decl interface{} // weak reference to the declaring node (an ast.DeclView or ast.NodeID), opaque to symtab
	Type *types.Type
}

// ParamDirection classifies a function parameter for overload resolution's
// direction-aware convertibility check (spec.md §4.7).
type ParamDirection int

const (
	DirIn ParamDirection = iota
	DirOut
	DirInOut
)

// Param is one formal parameter of a FunctionEntry.
type Param struct {
	Type *types.Type
	Dir  ParamDirection
}

// FunctionEntry is one overload of a global function name.
type FunctionEntry struct {
	Name       string
	Decl       interface{} // weak reference to the owning FunctionDecl's ast.NodeID
	Params     []Param
	ReturnType *types.Type
}

// Scope is one level of the lexical scope stack.
type Scope struct {
	Kind     ScopeKind
	bindings map[string]*Binding
	order    []string // insertion order, for deterministic iteration
}

func newScope(kind ScopeKind) *Scope {
	return &Scope{Kind: kind, bindings: make(map[string]*Binding)}
}

// Insert adds name to the scope. First insertion wins: a duplicate name
// is rejected (ok is false) and the original binding is left untouched,
// per spec.md §4.7.
func (s *Scope) Insert(b *Binding) (ok bool) {
	if _, exists := s.bindings[b.Name]; exists {
		return false
	}

	s.bindings[b.Name] = b
	s.order = append(s.order, b.Name)

	return true
}

// Lookup finds a binding by name in this scope only (no parent search).
func (s *Scope) Lookup(name string) (*Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// All returns this scope's bindings in insertion order.
func (s *Scope) All() []*Binding {
	out := make([]*Binding, 0, len(s.order))

	for _, name := range s.order {
		out = append(out, s.bindings[name])
	}

	return out
}

// Table is the full scope stack for one translation unit plus the
// global function-overload multimap (spec.md §4.7).
type Table struct {
	stack     []*Scope
	functions map[string][]*FunctionEntry
	funcOrder []string
}

// New creates a Table with its global scope already pushed.
func New() *Table {
	t := &Table{functions: make(map[string][]*FunctionEntry)}
	t.stack = append(t.stack, newScope(ScopeGlobal))

	return t
}

// Push opens a new scope of kind on top of the stack.
func (t *Table) Push(kind ScopeKind) *Scope {
	s := newScope(kind)
	t.stack = append(t.stack, s)

	return s
}

// Pop closes the innermost scope. Popping the global scope is a
// programming error.
func (t *Table) Pop() {
	if len(t.stack) <= 1 {
		panic("symtab: you found a bug: popping the global scope")
	}

	t.stack = t.stack[:len(t.stack)-1]
}

// Current returns the innermost open scope.
func (t *Table) Current() *Scope { return t.stack[len(t.stack)-1] }

// Global returns the outermost scope.
func (t *Table) Global() *Scope { return t.stack[0] }

// FindSymbol searches scopes top-down and returns the first binding
// found (spec.md §4.7).
func (t *Table) FindSymbol(name string) (*Binding, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if b, ok := t.stack[i].Lookup(name); ok {
			return b, true
		}
	}

	return nil, false
}

// DefineFunction registers one overload of name in the global
// function-overload multimap.
func (t *Table) DefineFunction(e *FunctionEntry) {
	if _, seen := t.functions[e.Name]; !seen {
		t.funcOrder = append(t.funcOrder, e.Name)
	}

	t.functions[e.Name] = append(t.functions[e.Name], e)
}

// Overloads returns every registered overload of name, in declaration order.
func (t *Table) Overloads(name string) []*FunctionEntry {
	return t.functions[name]
}

// Scopes returns the live scope stack, outermost (global) first, used by
// package query's CodeCompletion to rank candidates by scope distance.
func (t *Table) Scopes() []*Scope {
	return t.stack
}

// FunctionNames returns every distinct registered function name, in
// first-declaration order.
func (t *Table) FunctionNames() []string {
	return t.funcOrder
}
