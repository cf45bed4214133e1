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
	"testing"

	"github.com/consensys/go-verimon/pkg/automaton"
	"github.com/consensys/go-verimon/pkg/constraint"
	"github.com/consensys/go-verimon/pkg/symbolic"
)

func Test_Bound_01(t *testing.T) {
	// bounding a state already within limits is a no-op
	mon, _ := newTestMonitor(badCallProperty(), DefaultConfig())
	state := mon.Initial()
	//
	bounded := mon.bound(state, symbolic.NewSet(), constraint.SyntacticOracle{}, nil)
	//
	if !bounded.Equal(state) {
		t.Errorf("bounding changed an in-bounds state")
	}
}

func Test_Bound_02(t *testing.T) {
	// truncation keeps the smallest-constraint disjuncts
	mon, alloc := newTestMonitor(plainProperty(), Config{MaxDisjuncts: 2, MaxConjuncts: 20})
	//
	var (
		state State
		keep  = symbolic.NewSet()
	)
	//
	for i := 0; i < 5; i++ {
		s := disjunctOfSize(alloc, 0, uint(i+1))
		s.Post.Memory.Values(keep)
		state = append(state, s)
	}
	//
	bounded := mon.bound(state, keep, constraint.SyntacticOracle{}, nil)
	//
	if len(bounded) != 2 {
		t.Fatalf("expected 2 disjuncts, got %d", len(bounded))
	}
	//
	for _, s := range bounded {
		if s.Pruned.Size() > 2 {
			t.Errorf("kept a large disjunct over a smaller one: %s", s)
		}
	}
	//
	if mon.DroppedDisjuncts() != 3 {
		t.Errorf("expected 3 dropped disjuncts, recorded %d", mon.DroppedDisjuncts())
	}
}

func Test_Bound_03(t *testing.T) {
	// a disjunct already at an error vertex survives truncation even with
	// the worst score
	mon, alloc := newTestMonitor(errorProperty(), Config{MaxDisjuncts: 2, MaxConjuncts: 20})
	//
	var (
		state State
		keep  = symbolic.NewSet()
	)
	//
	for i := 0; i < 4; i++ {
		s := disjunctOfSize(alloc, 0, uint(i+1))
		s.Post.Memory.Values(keep)
		state = append(state, s)
	}
	//
	erroneous := disjunctOfSize(alloc, 1, 10)
	erroneous.Post.Memory.Values(keep)
	state = append(state, erroneous)
	//
	bounded := mon.bound(state, keep, constraint.SyntacticOracle{}, nil)
	//
	if find(bounded, 1, 1) == nil {
		t.Errorf("error disjunct truncated away: %v", bounded)
	}
	// the remainder is still cut to the truncation limit
	if n := len(bounded); n != 3 {
		t.Errorf("expected 2 plain disjuncts plus the error one, got %d", n)
	}
}

func Test_Bound_04(t *testing.T) {
	// disjuncts over the per-disjunct conjunct limit go outright
	mon, alloc := newTestMonitor(plainProperty(), Config{MaxDisjuncts: 2, MaxConjuncts: 3})
	//
	var (
		state State
		keep  = symbolic.NewSet()
	)
	//
	for i := 0; i < 5; i++ {
		s := disjunctOfSize(alloc, 0, 4)
		s.Post.Memory.Values(keep)
		state = append(state, s)
	}
	//
	bounded := mon.bound(state, keep, constraint.SyntacticOracle{}, nil)
	//
	if len(bounded) != 0 {
		t.Errorf("oversized disjuncts kept: %v", bounded)
	}
}

func Test_Garbage_01(t *testing.T) {
	// an error-vertex disjunct is never dropped as garbage
	mon, alloc := newTestMonitor(errorProperty(), DefaultConfig())
	//
	var (
		pre     = Configuration{0, NewMemory([]string{"x"}, alloc)}
		garbage = NewMemory([]string{"x"}, alloc)
	)
	//
	state := State{
		{Pre: pre, Post: Configuration{0, garbage}},
		{Pre: pre, Post: Configuration{1, garbage}},
	}
	// neither post memory is live, but vertex 1 is an error vertex
	result := mon.dropGarbage(state, symbolic.NewSet())
	//
	if len(result) != 1 || result[0].Post.Vertex != 1 {
		t.Errorf("garbage filtering wrong: %v", result)
	}
}

func Test_Garbage_02(t *testing.T) {
	// pre-memory values count as live for garbage purposes
	mon, alloc := newTestMonitor(errorProperty(), DefaultConfig())
	memory := NewMemory([]string{"x"}, alloc)
	//
	state := State{
		{Pre: Configuration{0, memory}, Post: Configuration{0, memory}},
	}
	//
	if result := mon.dropGarbage(state, symbolic.NewSet()); len(result) != 1 {
		t.Errorf("live disjunct dropped: %v", result)
	}
}

func Test_Infeasible_01(t *testing.T) {
	mon, alloc := newTestMonitor(plainProperty(), Config{MaxDisjuncts: 1, MaxConjuncts: 20})
	//
	var (
		keep = symbolic.NewSet()
		v    = alloc.Fresh()
	)
	//
	keep.Insert(v)
	//
	memory := Memory{{"x", v}}
	config := Configuration{0, memory}
	//
	feasible := &SimpleState{Pre: config, Post: config,
		Pruned: constraint.True().And(predEq(v, 1))}
	contradictory := &SimpleState{Pre: config, Post: config,
		Pruned: constraint.True().And(predEq(v, 1)).And(predEq(v, 2))}
	//
	bounded := mon.bound(State{feasible, contradictory}, keep, constraint.SyntacticOracle{}, nil)
	//
	if len(bounded) != 1 || bounded[0].Pruned.Size() != 1 {
		t.Errorf("infeasible disjunct survived: %v", bounded)
	}
}

// ============================================================================
// Helpers
// ============================================================================

// plainProperty has two vertices and no error marking.
func plainProperty() *automaton.Machine {
	machine := automaton.NewMachine("plain", []string{"a", "b"}, []string{"x"})
	machine.MarkStart(0)
	//
	return machine
}

// errorProperty marks vertex 1 as an error.
func errorProperty() *automaton.Machine {
	machine := automaton.NewMachine("erroneous", []string{"a", "b"}, []string{"x"})
	machine.MarkStart(0)
	machine.MarkError(1, "boom")
	//
	return machine
}

// disjunctOfSize builds a disjunct at the given vertex whose constraint holds
// the given number of non-contradictory predicates over its own memory value.
func disjunctOfSize(alloc symbolic.Allocator, vertex automaton.Vertex, size uint) *SimpleState {
	var (
		memory = NewMemory([]string{"x"}, alloc)
		v, _   = memory.Get("x")
		pruned = constraint.True()
	)
	//
	for i := uint(0); i < size; i++ {
		pruned = pruned.And(constraint.NewPredicate(constraint.NEQ,
			constraint.Sym(v), constraint.ConstInt(int64(i))))
	}
	//
	config := Configuration{vertex, memory}
	//
	return &SimpleState{Pre: config, Post: config, Pruned: pruned}
}

func predEq(v symbolic.Value, k int64) constraint.Predicate {
	return constraint.NewPredicate(constraint.EQ, constraint.Sym(v), constraint.ConstInt(k))
}
