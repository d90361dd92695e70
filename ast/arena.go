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

// Package ast is the bump-allocated, closed-tag AST (spec.md §3/§4.6):
// one Node struct discriminated by Tag, built by the Build* entry points
// that compute and store type/constant/resolution payloads at
// construction time rather than in a later pass.
package ast

import "github.com/glsld-lang/glsld/lexcontext"

// NodeID addresses a Node inside an Arena. The zero value is invalid and
// never returned by New.
type NodeID int32

// InvalidNode is the zero NodeID.
const InvalidNode NodeID = 0

// Arena owns every Node for one translation unit (and, when inherited,
// for the preamble it was built on top of). Freeing the Arena frees every
// node in one step (spec.md §9 "Arena ownership").
type Arena struct {
	nodes []Node // index 0 reserved, never a real node
}

// NewArena creates an empty Arena with its zero slot reserved.
func NewArena() *Arena {
	return &Arena{nodes: make([]Node, 1)}
}

// alloc appends n and returns its NodeID.
func (a *Arena) alloc(n Node) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)

	return id
}

// Node dereferences id. Passing InvalidNode or an id from a foreign Arena
// is a programming error.
func (a *Arena) Node(id NodeID) *Node {
	if int(id) <= 0 || int(id) >= len(a.nodes) {
		panic("ast: you found a bug: dereferencing an invalid NodeID")
	}

	return &a.nodes[id]
}

// Len returns the number of live nodes (excluding the reserved zero slot).
func (a *Arena) Len() int { return len(a.nodes) - 1 }

// IDs returns every live NodeID in allocation order, used by package
// query's linear scans (spec.md §4.9) instead of a dedicated tree walker.
func (a *Arena) IDs() []NodeID {
	ids := make([]NodeID, 0, a.Len())

	for i := 1; i < len(a.nodes); i++ {
		ids = append(ids, NodeID(i))
	}

	return ids
}

// Range returns the begin/end TokenIDs stored on a node. lc is not
// consulted; the IDs are not resolved into spelled positions.
func (a *Arena) Range(id NodeID, lc *lexcontext.LexContext) (begin, end lexcontext.TokenID) {
	n := a.Node(id)
	return n.Begin, n.End
}
