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

package symtab

import "github.com/glsld-lang/glsld/types"

// FindResult is the outcome of FindFunction.
type FindResult struct {
	Entry      *FunctionEntry // nil when no single best match exists
	Ambiguous  bool           // true when more than one candidate is equally good
	Candidates []*FunctionEntry
}

// FindFunction implements spec.md §4.7's two-step overload resolution:
// candidate filtering by direction-aware convertibility followed by
// best-match selection. An entry whose parameters exactly match argTypes
// componentwise is returned immediately (step 1's "exact match wins"
// shortcut); otherwise every strictly-better-than-all-others candidate
// wins, and anything else is reported ambiguous.
func (t *Table) FindFunction(name string, argTypes []*types.Type) FindResult {
	overloads := t.functions[name]

	var candidates []*FunctionEntry

	for _, e := range overloads {
		if len(e.Params) != len(argTypes) {
			continue
		}

		if isExactMatch(e, argTypes) {
			return FindResult{Entry: e, Candidates: []*FunctionEntry{e}}
		}

		if isCandidate(e, argTypes) {
			candidates = append(candidates, e)
		}
	}

	if len(candidates) == 0 {
		return FindResult{}
	}

	if len(candidates) == 1 {
		return FindResult{Entry: candidates[0], Candidates: candidates}
	}

	best := bestMatch(candidates, argTypes)
	if best == nil {
		return FindResult{Ambiguous: true, Candidates: candidates}
	}

	return FindResult{Entry: best, Candidates: candidates}
}

func isExactMatch(e *FunctionEntry, argTypes []*types.Type) bool {
	for i, p := range e.Params {
		if types.Convertible(argTypes[i], p.Type) != types.Exact {
			return false
		}
	}

	return true
}

// paramConversion returns the conversion(s) required by one parameter's
// direction: "in" only needs arg->param, "out" only param->arg, "inout"
// needs both directions to succeed, and the weaker of the two directions
// is the one that counts toward best-match comparison.
func paramConversion(p Param, arg *types.Type) (types.Conversion, bool) {
	switch p.Dir {
	case DirIn:
		c := types.Convertible(arg, p.Type)
		return c, c != types.None
	case DirOut:
		c := types.Convertible(p.Type, arg)
		return c, c != types.None
	default: // DirInOut
		in := types.Convertible(arg, p.Type)
		out := types.Convertible(p.Type, arg)

		if in == types.None || out == types.None {
			return types.None, false
		}

		if types.Better(in, out) {
			return out, true
		}

		return in, true
	}
}

func isCandidate(e *FunctionEntry, argTypes []*types.Type) bool {
	for i, p := range e.Params {
		if _, ok := paramConversion(p, argTypes[i]); !ok {
			return false
		}
	}

	return true
}

// conversions computes one candidate's per-parameter conversion vector
// against argTypes; isCandidate has already verified every slot succeeds.
func conversions(e *FunctionEntry, argTypes []*types.Type) []types.Conversion {
	out := make([]types.Conversion, len(e.Params))

	for i, p := range e.Params {
		c, _ := paramConversion(p, argTypes[i])
		out[i] = c
	}

	return out
}

// better reports whether candidate a is strictly preferred over b: no
// conversion in a is worse than b's and at least one is strictly better
// (spec.md §4.7's Better(F1, F2, args), asymmetric form per Open Question
// (a)).
func better(a, b *FunctionEntry, argTypes []*types.Type) bool {
	ca, cb := conversions(a, argTypes), conversions(b, argTypes)

	strictlyBetter := false

	for i := range ca {
		if types.Better(cb[i], ca[i]) {
			return false
		}

		if types.Better(ca[i], cb[i]) {
			strictlyBetter = true
		}
	}

	return strictlyBetter
}

// bestMatch returns the one candidate strictly better than every other,
// or nil if none exists (an ambiguous call).
func bestMatch(candidates []*FunctionEntry, argTypes []*types.Type) *FunctionEntry {
	for _, cand := range candidates {
		winner := true

		for _, other := range candidates {
			if other == cand {
				continue
			}

			if !better(cand, other, argTypes) {
				winner = false
				break
			}
		}

		if winner {
			return cand
		}
	}

	return nil
}
