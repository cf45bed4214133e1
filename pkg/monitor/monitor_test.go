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
	"regexp"
	"testing"

	"github.com/consensys/go-verimon/pkg/automaton"
	"github.com/consensys/go-verimon/pkg/constraint"
	"github.com/consensys/go-verimon/pkg/diag"
	"github.com/consensys/go-verimon/pkg/symbolic"
)

func Test_Initial_01(t *testing.T) {
	mon, _ := newTestMonitor(badCallProperty(), DefaultConfig())
	state := mon.Initial()
	//
	if len(state) != 2 {
		t.Fatalf("expected one disjunct per vertex, got %d", len(state))
	}
	//
	for _, s := range state {
		if s.Pre.Cmp(s.Post) != 0 || s.Pruned.Size() != 0 || s.LastStep != nil {
			t.Errorf("malformed initial disjunct: %s", s)
		}
	}
}

// Small step

func Test_Small_01(t *testing.T) {
	mon, _ := newTestMonitor(badCallProperty(), DefaultConfig())
	oracle := constraint.SyntacticOracle{}
	//
	state := mon.SmallStep(mon.Initial(), callEvent("bad"), symbolic.NewSet(), oracle, nil)
	//
	if len(state) != 2 {
		t.Fatalf("expected 2 disjuncts, got %d", len(state))
	}
	// the violating disjunct: start to error under no constraint
	hit := find(state, 0, 1)
	//
	if hit == nil {
		t.Fatalf("no disjunct runs start to error: %v", state)
	}
	//
	if hit.Pruned.Size() != 0 {
		t.Errorf("unexpected constraint on unguarded transition: %s", hit.Pruned)
	}
	// exactly one diagnostic for it
	var buffer diag.Buffer
	mon.ReportErrors(state, &buffer)
	//
	if n := len(buffer.Diagnostics); n != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", n)
	}
	//
	d := buffer.Diagnostics[0]
	//
	if d.Message != "call to bad procedure" || d.Category != IssueCategory {
		t.Errorf("unexpected diagnostic: %v", d)
	}
	//
	if len(d.Trace) != 1 || d.Trace[0].Description != "call to bad" {
		t.Errorf("unexpected trace: %v", d.Trace)
	}
	//
	if d.Loc.File != "main.c" || d.Loc.Line != 10 {
		t.Errorf("unexpected location: %s", d.Loc)
	}
}

func Test_Small_02(t *testing.T) {
	mon, _ := newTestMonitor(badCallProperty(), DefaultConfig())
	oracle := constraint.SyntacticOracle{}
	initial := mon.Initial()
	// nothing matches, so every disjunct passes through unchanged
	state := mon.SmallStep(initial, callEvent("good"), symbolic.NewSet(), oracle, nil)
	//
	if !state.Equal(initial) {
		t.Errorf("skip-only step changed the state: %v", state)
	}
	//
	var buffer diag.Buffer
	mon.ReportErrors(state, &buffer)
	//
	if len(buffer.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", buffer.Diagnostics)
	}
}

func Test_Small_03(t *testing.T) {
	// closure: the nonskip guard and the skip guard partition the original
	// disjunct on a guarded transition
	mon, _ := newTestMonitor(guardedProperty(), DefaultConfig())
	oracle := constraint.SyntacticOracle{}
	arg := symbolic.Value(500)
	//
	state := mon.SmallStep(mon.Initial(), callEvent("set", arg), symbolic.NewSet(), oracle, nil)
	//
	var (
		nonskip = find(state, 0, 1)
		skip    = find(state, 0, 0)
	)
	//
	if nonskip == nil || skip == nil {
		t.Fatalf("missing successor: %v", state)
	}
	//
	if nonskip.Pruned.Size() != 1 || skip.Pruned.Size() != 1 {
		t.Fatalf("unexpected guard sizes: %s vs %s", nonskip.Pruned, skip.Pruned)
	}
	// skip guard is exactly the negated nonskip guard
	if skip.Pruned[0].Cmp(nonskip.Pruned[0].Negate()) != 0 {
		t.Errorf("branches do not partition: %s vs %s", nonskip.Pruned, skip.Pruned)
	}
}

func Test_Small_04(t *testing.T) {
	// actions execute sequentially against the evolving memory
	machine := automaton.NewMachine("swap", []string{"a", "b"}, []string{"x", "y"})
	machine.MarkStart(0)
	machine.AddTransition(0, 1, &automaton.Label{
		Pattern: anchored("set", "p"),
		Action: []automaton.Assignment{
			{Register: "y", Source: "x"},
			{Register: "x", Source: "p"},
		},
	})
	//
	mon, _ := newTestMonitor(machine, DefaultConfig())
	initial := mon.Initial()
	arg := symbolic.Value(500)
	//
	state := mon.SmallStep(initial, callEvent("set", arg), symbolic.NewSet(), constraint.SyntacticOracle{}, nil)
	hit := find(state, 0, 1)
	//
	if hit == nil {
		t.Fatalf("transition did not fire: %v", state)
	}
	//
	var (
		oldX, _ = initial[0].Post.Memory.Get("x")
		newX, _ = hit.Post.Memory.Get("x")
		newY, _ = hit.Post.Memory.Get("y")
	)
	// y received x's old value, then x received the argument
	if newY != oldX || newX != arg {
		t.Errorf("unexpected memory: %s", hit.Post.Memory)
	}
}

// Run diagnostics

func Test_Flush_01(t *testing.T) {
	// the run context tracks which transitions ever structurally matched
	config := DefaultConfig()
	config.TraceEnabled = true
	//
	mon, _ := newTestMonitor(openBadProperty(), config)
	oracle := constraint.SyntacticOracle{}
	//
	state := mon.SmallStep(mon.Initial(), callEventAt("open", 10), symbolic.NewSet(), oracle, nil)
	// only the "open" transition has matched so far
	if !mon.matched.Test(0) || mon.matched.Test(1) {
		t.Errorf("matched tracker wrong after one event: %v", mon.matched)
	}
	//
	mon.SmallStep(state, callEventAt("bad", 20), symbolic.NewSet(), oracle, nil)
	//
	if !mon.matched.Test(0) || !mon.matched.Test(1) {
		t.Errorf("matched tracker wrong after two events: %v", mon.matched)
	}
	//
	if mon.DroppedDisjuncts() != 0 {
		t.Errorf("no disjuncts were truncated, recorded %d", mon.DroppedDisjuncts())
	}
	//
	mon.Flush()
}

// Substitution

func Test_Subst_01(t *testing.T) {
	// substituting a fresh configuration with a substitution built from
	// itself is the identity
	alloc := symbolic.NewCounter(0)
	memory := NewMemory([]string{"x", "y"}, alloc)
	config := Configuration{0, memory}
	//
	sub := symbolic.NewSubstitution(alloc)
	for _, b := range memory {
		sub.Bind(b.Value, b.Value)
	}
	//
	if config.substitute(sub).Cmp(config) != 0 {
		t.Errorf("identity substitution changed the configuration")
	}
}

// ============================================================================
// Helpers
// ============================================================================

// badCallProperty is the automaton with two vertices {0 (start), 1 (error)}
// and one transition 0 to 1 on any call to "bad".
func badCallProperty() *automaton.Machine {
	machine := automaton.NewMachine("bad-call", []string{"start", "error"}, nil)
	machine.MarkStart(0)
	machine.MarkError(1, "call to bad procedure")
	machine.AddTransition(0, 1, &automaton.Label{
		Pattern: &automaton.CallPattern{Procedure: regexp.MustCompile("^(?:bad)$")},
	})
	//
	return machine
}

// guardedProperty moves 0 to 1 on "set(p)" guarded by p = x.
func guardedProperty() *automaton.Machine {
	machine := automaton.NewMachine("guarded", []string{"start", "hit"}, []string{"x"})
	machine.MarkStart(0)
	machine.MarkError(1, "guard hit")
	machine.AddTransition(0, 1, &automaton.Label{
		Pattern: anchored("set", "p"),
		Guard: []automaton.Guard{
			automaton.Compare(constraint.EQ, automaton.Name("p"), automaton.Name("x")),
		},
	})
	//
	return machine
}

func anchored(procedure string, params ...string) *automaton.CallPattern {
	return &automaton.CallPattern{
		Procedure:  regexp.MustCompile("^(?:" + procedure + ")$"),
		Formals:    true,
		Parameters: params,
	}
}

// newTestMonitor mints monitor-internal values from 1000 upwards, keeping
// them apart from the small values used for event arguments.
func newTestMonitor(machine *automaton.Machine, config Config) (*Monitor, *symbolic.Counter) {
	alloc := symbolic.NewCounter(1000)
	return New(machine, alloc, config), alloc
}

func callEvent(procedure string, args ...symbolic.Value) *automaton.Call {
	return &automaton.Call{
		Procedure: procedure,
		Arguments: args,
		Loc:       diag.Location{File: "main.c", Line: 10},
	}
}

// find returns the first disjunct running from pre vertex to post vertex, or
// nil.
func find(state State, pre automaton.Vertex, post automaton.Vertex) *SimpleState {
	for _, s := range state {
		if s.Pre.Vertex == pre && s.Post.Vertex == post {
			return s
		}
	}
	//
	return nil
}
