// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package monitor

import (
	"cmp"
	"slices"

	"github.com/consensys/go-verimon/pkg/constraint"
	"github.com/consensys/go-verimon/pkg/symbolic"
	log "github.com/sirupsen/logrus"
)

// bound shrinks a disjunctive state back within configured limits.  The
// pipeline runs cheapest reduction first: per-disjunct simplification, then
// garbage filtering, then the (expensive) feasibility filter, then
// deduplication; score-based truncation is the last resort.  Nothing runs at
// all while the disjunction is within its size limit, which is the common
// case.  Precision lost here degrades soundness beyond the bounds silently,
// as configured.
func (p *Monitor) bound(state State, keep symbolic.Set, oracle constraint.Oracle,
	path constraint.Path) State {
	//
	if uint(len(state)) <= p.config.MaxDisjuncts {
		return state
	}
	//
	state = simplify(state)
	state = p.dropGarbage(state, keep)
	state = dropInfeasible(state, oracle, path)
	state = state.Normalize()
	//
	if uint(len(state)) > p.config.MaxDisjuncts {
		state = p.dropDisjuncts(state)
	}
	//
	return state
}

// FilterForSummary removes disjuncts infeasible against the final path
// condition, using the oracle's full normalisation mode.  The host calls this
// once per analysed procedure, at summary-emission time, before asking for
// error reports.
func (p *Monitor) FilterForSummary(state State, oracle constraint.Oracle, path constraint.Path) State {
	var result State
	//
	for _, s := range state {
		if _, sat := constraint.PrunePath(oracle, constraint.FULL, path, s.Pruned); sat {
			result = append(result, s)
		}
	}
	//
	return result
}

// simplify drops, per disjunct, every predicate mentioning a value no longer
// reachable from the disjunct's own memories.  A sound under-approximation
// (facts may be forgotten, never invented).
func simplify(state State) State {
	result := make(State, len(state))
	//
	for i, s := range state {
		live := symbolic.NewSet()
		s.Pre.Values(live)
		s.Post.Values(live)
		//
		result[i] = &SimpleState{s.Pre, s.Post, constraint.EliminateExists(live, s.Pruned), s.LastStep}
	}
	//
	return result
}

// dropGarbage discards disjuncts whose post memory holds a value the host no
// longer considers live (extended with the disjunct's own pre-memory values,
// which remain meaningful for summary composition).  A disjunct already at an
// error vertex is never dropped here: it must stay reportable whatever its
// memory holds.
func (p *Monitor) dropGarbage(state State, keep symbolic.Set) State {
	var result State
	//
	for _, s := range state {
		if p.property.IsError(s.Post.Vertex) {
			result = append(result, s)
			continue
		}
		//
		live := keep.Clone()
		s.Pre.Values(live)
		//
		if postLive(s, live) {
			result = append(result, s)
		}
	}
	//
	return result
}

func postLive(s *SimpleState, live symbolic.Set) bool {
	for _, b := range s.Post.Memory {
		if !live.Contains(b.Value) {
			return false
		}
	}
	//
	return true
}

// dropInfeasible asks the oracle, in cheap mode, whether each disjunct's
// constraint is satisfiable against the path condition, discarding those
// which are not.  Infeasibility is normal control flow, not an error.
func dropInfeasible(state State, oracle constraint.Oracle, path constraint.Path) State {
	var result State
	//
	for _, s := range state {
		if _, sat := constraint.PrunePath(oracle, constraint.CHEAP, path, s.Pruned); sat {
			result = append(result, s)
		}
	}
	//
	return result
}

// dropDisjuncts truncates an oversized disjunction by constraint size
// (smaller scores kept preferentially).  Disjuncts over the per-disjunct
// conjunct limit go outright; the rest are sorted ascending and cut to
// limit/2+1.  Error-vertex disjuncts are exempt from both cuts, so a reached
// violation is never truncated away.
func (p *Monitor) dropDisjuncts(state State) State {
	var errors, rest State
	//
	for _, s := range state {
		switch {
		case p.property.IsError(s.Post.Vertex):
			errors = append(errors, s)
		case s.Pruned.Size() <= p.config.MaxConjuncts:
			rest = append(rest, s)
		}
	}
	//
	slices.SortStableFunc(rest, func(a, b *SimpleState) int {
		return cmp.Compare(a.Pruned.Size(), b.Pruned.Size())
	})
	//
	limit := p.config.MaxDisjuncts/2 + 1
	//
	if uint(len(rest)) > limit {
		excess := uint(len(rest)) - limit
		p.dropped += excess
		rest = rest[:limit]
		//
		log.Debugf("truncated %d disjuncts (limit %d)", excess, p.config.MaxDisjuncts)
	}
	//
	return append(errors, rest...)
}
