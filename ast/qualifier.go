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

package ast

import "github.com/glsld-lang/glsld/util"

// QualifierGroup is a bitset recording every non-layout qualifier keyword
// that preceded a declaration (spec.md §4.5). Layout-qualifier items
// (`layout(binding = 0, ...)`) are kept separately in a
// util.LayoutQualifiers since they carry typed values, not just presence.
type QualifierGroup uint64

const (
	QualConst QualifierGroup = 1 << iota
	QualUniform
	QualBuffer
	QualShared
	QualIn
	QualOut
	QualInOut

	QualHighp
	QualMediump
	QualLowp

	QualFlat
	QualSmooth
	QualNoperspective
	QualCentroid
	QualSample

	QualCoherent
	QualVolatile
	QualRestrict
	QualReadonly
	QualWriteonly

	QualPrecise
	QualInvariant
)

// Has reports whether every bit in want is set in g.
func (g QualifierGroup) Has(want QualifierGroup) bool {
	return g&want == want
}

// Any reports whether g has at least one bit in common with want.
func (g QualifierGroup) Any(want QualifierGroup) bool {
	return g&want != 0
}

// Qualifiers bundles a declaration's keyword QualifierGroup with its
// layout-qualifier items, since the parser always produces them together.
type Qualifiers struct {
	Group  QualifierGroup
	Layout util.LayoutQualifiers
}
