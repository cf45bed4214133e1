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
	"fmt"

	"github.com/consensys/go-verimon/pkg/constraint"
	"github.com/consensys/go-verimon/pkg/diag"
	"github.com/consensys/go-verimon/pkg/symbolic"
)

// LargeStep advances the monitor's disjunctive state across one procedure
// call, by relational composition of the caller state with a precomputed
// callee summary.  A caller disjunct p composes with a callee disjunct q only
// when p's post vertex equals q's pre vertex.  The callee's value space is
// aligned to the caller's by unifying the caller post memory with the callee
// pre memory register by register; memories are positionally alignable
// because both are kept in canonical register order by construction.  The
// result passes through bounding.
func (p *Monitor) LargeStep(caller State, procedure string, loc diag.Location, callee State,
	keep symbolic.Set, oracle constraint.Oracle, path constraint.Path) State {
	//
	var result State
	//
	for _, cs := range caller {
		for _, qs := range callee {
			if cs.Post.Vertex != qs.Pre.Vertex {
				continue
			}
			//
			result = append(result, p.compose(cs, procedure, loc, qs))
		}
	}
	//
	return p.bound(result, keep, oracle, path)
}

// compose joins one caller disjunct with one callee disjunct along their
// shared vertex.
func (p *Monitor) compose(cs *SimpleState, procedure string, loc diag.Location, qs *SimpleState) *SimpleState {
	var (
		sub        = symbolic.NewSubstitution(p.alloc)
		equalities = constraint.True()
		callerMem  = cs.Post.Memory
		calleeMem  = qs.Pre.Memory
	)
	//
	if len(callerMem) != len(calleeMem) {
		panic(fmt.Sprintf("register arity mismatch across call to '%s' (%d vs %d)",
			procedure, len(callerMem), len(calleeMem)))
	}
	// Unify register by register.  The first occurrence of a callee value
	// establishes its mapping; a repeated occurrence must not silently
	// conflate two distinct caller values, so it emits an equality instead.
	for i := range calleeMem {
		var (
			callerValue = callerMem[i].Value
			calleeValue = calleeMem[i].Value
		)
		//
		if mapped, ok := sub.Lookup(calleeValue); ok {
			equalities = equalities.And(constraint.Equals(mapped, callerValue))
		} else {
			sub.Bind(calleeValue, callerValue)
		}
	}
	// Carry the rest of the callee disjunct into the caller's value space.
	// Callee values unseen during unification are minted fresh as the
	// substitution encounters them.
	var (
		calleePre    = qs.Pre.substitute(sub)
		calleePost   = qs.Post.substitute(sub)
		calleePruned = constraint.Substitute(sub, qs.Pruned)
	)
	// Substituted view of the callee run, retained for trace expansion.
	substituted := &SimpleState{
		Pre:      calleePre,
		Post:     calleePost,
		Pruned:   calleePruned,
		LastStep: qs.LastStep,
	}
	//
	return &SimpleState{
		Pre:      cs.Pre,
		Post:     calleePost,
		Pruned:   constraint.AndN(equalities, calleePruned, cs.Pruned),
		LastStep: newLargeStep(loc, cs, procedure, substituted),
	}
}
