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
	"slices"
	"sort"
	"strings"

	"github.com/consensys/go-verimon/pkg/automaton"
	"github.com/consensys/go-verimon/pkg/constraint"
	"github.com/consensys/go-verimon/pkg/symbolic"
)

// Binding associates one register with its current abstract value.
type Binding struct {
	// Register name.
	Register string
	// Value currently held.
	Value symbolic.Value
}

// Memory is a snapshot of every register's value.  All registers of the
// property's alphabet are bound, without duplicates, and bindings are kept in
// canonical (sorted) register order, so that two memories over the same
// alphabet can be aligned positionally.
type Memory []Binding

// NewMemory binds every register of the given alphabet to a fresh value.
func NewMemory(registers []string, alloc symbolic.Allocator) Memory {
	sorted := slices.Clone(registers)
	slices.Sort(sorted)
	//
	memory := make(Memory, len(sorted))
	//
	for i, r := range sorted {
		memory[i] = Binding{r, alloc.Fresh()}
	}
	//
	return memory
}

// Get returns the value bound to a register.
func (p Memory) Get(register string) (symbolic.Value, bool) {
	i := sort.Search(len(p), func(i int) bool {
		return p[i].Register >= register
	})
	//
	if i < len(p) && p[i].Register == register {
		return p[i].Value, true
	}
	//
	return 0, false
}

// Set rebinds a register, returning a fresh memory (the receiver is never
// mutated).  Assigning a register outside the alphabet means the automaton
// compiler produced inconsistent data, which is fatal.
func (p Memory) Set(register string, v symbolic.Value) Memory {
	i := sort.Search(len(p), func(i int) bool {
		return p[i].Register >= register
	})
	//
	if i >= len(p) || p[i].Register != register {
		panic(fmt.Sprintf("assignment to unknown register '%s'", register))
	}
	//
	memory := slices.Clone(p)
	memory[i].Value = v
	//
	return memory
}

// Values adds every value bound by this memory to the given set.
func (p Memory) Values(set symbolic.Set) {
	for _, b := range p {
		set.Insert(b.Value)
	}
}

// Cmp provides a total ordering of memories over the same register alphabet.
func (p Memory) Cmp(o Memory) int {
	if len(p) != len(o) {
		panic(fmt.Sprintf("comparing memories of different arity (%d vs %d)", len(p), len(o)))
	}
	//
	for i := range p {
		if p[i].Register != o[i].Register {
			panic(fmt.Sprintf("comparing memories over different alphabets ('%s' vs '%s')",
				p[i].Register, o[i].Register))
		}
		//
		if c := p[i].Value.Cmp(o[i].Value); c != 0 {
			return c
		}
	}
	//
	return 0
}

func (p Memory) substitute(sub *symbolic.Substitution) Memory {
	memory := make(Memory, len(p))
	//
	for i, b := range p {
		memory[i] = Binding{b.Register, sub.Apply(b.Value)}
	}
	//
	return memory
}

func (p Memory) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, b := range p {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		fmt.Fprintf(&builder, "%s↦%s", b.Register, b.Value)
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

// ============================================================================
// Configuration
// ============================================================================

// Configuration is where the monitor is (an automaton vertex) together with
// what it currently remembers (a register memory).
type Configuration struct {
	// Vertex the automaton sits at.
	Vertex automaton.Vertex
	// Memory of register values.
	Memory Memory
}

// Cmp provides a total ordering of configurations.
func (p Configuration) Cmp(o Configuration) int {
	if p.Vertex != o.Vertex {
		if p.Vertex < o.Vertex {
			return -1
		}
		//
		return 1
	}
	//
	return p.Memory.Cmp(o.Memory)
}

// Values adds every value reachable from this configuration to the given set.
func (p Configuration) Values(set symbolic.Set) {
	p.Memory.Values(set)
}

func (p Configuration) substitute(sub *symbolic.Substitution) Configuration {
	return Configuration{p.Vertex, p.Memory.substitute(sub)}
}

func (p Configuration) String() string {
	return fmt.Sprintf("%d:%s", p.Vertex, p.Memory)
}

// ============================================================================
// Simple state
// ============================================================================

// SimpleState is one disjunct of the monitor's state: the configuration the
// automaton had at procedure entry, the configuration it has now, the path
// constraint accumulated between the two, and a back-pointer for trace
// reconstruction.  Pre is fixed for the lifetime of a simple state derived by
// small-steps within one procedure; only large-step composition changes it.
// Simple states are immutable once constructed and may be freely shared.
type SimpleState struct {
	// Pre configuration, at procedure entry.
	Pre Configuration
	// Post configuration, at the current program point.
	Post Configuration
	// Pruned is the accumulated path constraint local to this disjunct.
	Pruned constraint.Constraint
	// LastStep back-pointer, or nil for an initial state.
	LastStep *Step
}

// Cmp provides a total ordering of simple states, ignoring traces (two
// disjuncts differing only in their history are semantically equal).  For an
// order-independent comparison, normalize both sides first.
func (p *SimpleState) Cmp(o *SimpleState) int {
	if c := p.Pre.Cmp(o.Pre); c != 0 {
		return c
	}
	//
	if c := p.Post.Cmp(o.Post); c != 0 {
		return c
	}
	//
	return p.Pruned.Cmp(o.Pruned)
}

// normalize returns a copy of this simple state whose constraint is in
// canonical order (memories are canonical by construction).  The back-pointer
// chain is shared, not copied.
func (p *SimpleState) normalize() *SimpleState {
	return &SimpleState{p.Pre, p.Post, p.Pruned.Normalize(), p.LastStep}
}

func (p *SimpleState) String() string {
	return fmt.Sprintf("⟨%s ⇝ %s | %s⟩", p.Pre, p.Post, p.Pruned)
}

// ============================================================================
// State
// ============================================================================

// State is the monitor's disjunctive state: an ordered sequence of simple
// states read as an unordered disjunction.  Sequence order carries no
// meaning; normalisation exists purely to make comparison and deduplication
// deterministic.
type State []*SimpleState

// Normalize returns a canonically ordered, duplicate-free copy of this state,
// with each disjunct's constraint itself normalized.  Back-pointer chains are
// shared with the input.
func (p State) Normalize() State {
	result := make(State, len(p))
	//
	for i, s := range p {
		result[i] = s.normalize()
	}
	//
	slices.SortFunc(result, func(a, b *SimpleState) int {
		return a.Cmp(b)
	})
	//
	return slices.CompactFunc(result, func(a, b *SimpleState) bool {
		return a.Cmp(b) == 0
	})
}

// Equal checks whether two states are compare-equal once normalized.
func (p State) Equal(o State) bool {
	a, b := p.Normalize(), o.Normalize()
	//
	if len(a) != len(b) {
		return false
	}
	//
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	//
	return true
}
