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

	"github.com/consensys/go-verimon/pkg/automaton"
	"github.com/consensys/go-verimon/pkg/constraint"
	"github.com/consensys/go-verimon/pkg/symbolic"
)

// SmallStep advances the monitor's disjunctive state across one event.  For
// every disjunct sat at a source of some matching transition, one "nonskip"
// successor is produced per matching transition, carrying that transition's
// guard, plus zero or more "skip" successors representing "no transition
// fires", whose guards are the negation of the disjunction of all nonskip
// guards.  Negating first and re-conjoining the original constraint afterwards
// keeps the successor disjunction exhaustive and disjoint relative to the
// original disjunct, which the soundness of the product construction rests
// on.  The result is passed through bounding before being returned.
func (p *Monitor) SmallStep(state State, ev automaton.Event, keep symbolic.Set,
	oracle constraint.Oracle, path constraint.Path) State {
	//
	matches := p.property.TransitionsMatching(ev)
	//
	for _, m := range matches {
		p.matched.Set(m.Transition.Index)
	}
	//
	var result State
	//
	for _, s := range state {
		result = append(result, p.smallStep(s, ev, matches)...)
	}
	//
	return p.bound(result, keep, oracle, path)
}

// smallStep computes the successors of a single disjunct.
func (p *Monitor) smallStep(s *SimpleState, ev automaton.Event, matches []automaton.Match) State {
	var (
		successors State
		guards     []constraint.Constraint
	)
	//
	for _, m := range matches {
		if m.Transition.Source != s.Post.Vertex {
			continue
		}
		//
		guard, memory := p.fire(s, m)
		//
		succ := &SimpleState{
			Pre:    s.Pre,
			Post:   Configuration{m.Transition.Target, memory},
			Pruned: guard,
		}
		// Unlabelled self-loops would bloat traces with uninformative
		// entries, so they leave the back-pointer untouched.
		if m.Transition.Label == nil && m.Transition.Source == m.Transition.Target {
			succ.LastStep = s.LastStep
		} else {
			succ.LastStep = newSmallStep(s, ev)
		}
		//
		guards = append(guards, guard)
		successors = append(successors, succ)
	}
	// No transition leaves this vertex on this event: the disjunct passes
	// through unchanged (its skip guard is vacuously true).
	if len(successors) == 0 {
		return State{s}
	}
	// Skip branch: no matched transition actually fires.
	for _, g := range constraint.Negate(guards) {
		successors = append(successors, &SimpleState{
			Pre:      s.Pre,
			Post:     s.Post,
			Pruned:   g,
			LastStep: s.LastStep,
		})
	}
	// Re-conjoin the original constraint, withheld until after negation.
	for _, succ := range successors {
		succ.Pruned = constraint.And2(succ.Pruned, s.Pruned)
	}
	//
	return successors
}

// fire evaluates one matched transition against a disjunct, producing the
// transition's guard constraint and the updated register memory.
func (p *Monitor) fire(s *SimpleState, m automaton.Match) (constraint.Constraint, Memory) {
	label := m.Transition.Label
	if label == nil {
		return constraint.True(), s.Post.Memory
	}
	//
	guard := constraint.True()
	//
	for _, g := range label.Guard {
		guard = guard.And(p.translateGuard(g, s.Post.Memory, m))
	}
	// Assignments execute sequentially against the evolving memory, so a
	// later assignment observes an earlier one's result.
	memory := s.Post.Memory
	//
	for _, a := range label.Action {
		memory = memory.Set(a.Register, p.resolve(a.Source, memory, m))
	}
	//
	return guard, memory
}

// translateGuard turns one guard test into an atomic predicate over abstract
// values and constants.
func (p *Monitor) translateGuard(g automaton.Guard, memory Memory, m automaton.Match) constraint.Predicate {
	if g.Truth {
		v := p.resolve(g.Left.Name, memory, m)
		return constraint.NewPredicate(constraint.NEQ, constraint.Sym(v), constraint.ConstInt(0))
	}
	//
	left := p.translateOperand(g.Left, memory, m)
	right := p.translateOperand(g.Right, memory, m)
	//
	return constraint.NewPredicate(g.Op, left, right)
}

func (p *Monitor) translateOperand(o automaton.Operand, memory Memory, m automaton.Match) constraint.Operand {
	if o.IsName() {
		return constraint.Sym(p.resolve(o.Name, memory, m))
	}
	//
	return constraint.Const(o.Constant)
}

// resolve looks a name up in the match bindings first, then in the
// register memory.  A name bound by neither means the automaton compiler or
// matcher produced inconsistent data, which is fatal.
func (p *Monitor) resolve(name string, memory Memory, m automaton.Match) symbolic.Value {
	if v, ok := m.Bindings[name]; ok {
		return v
	}
	//
	if v, ok := memory.Get(name); ok {
		return v
	}
	//
	panic(fmt.Sprintf("unbound variable '%s' on transition %d", name, m.Transition.Index))
}
