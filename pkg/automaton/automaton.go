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

// Package automaton provides the compiled form of a temporal property: a
// finite automaton whose transitions are labelled with event patterns, guards
// over a small alphabet of monitor-local registers, and register assignments.
// The monitor consumes automata through the Automaton interface; Machine is
// the concrete implementation produced by the YAML loader and by tests.
package automaton

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Vertex is an automaton vertex index.
type Vertex uint

// Transition connects two vertices.  An absent label means "any": the
// transition matches every event, with no bindings.
type Transition struct {
	// Index of this transition within its automaton, used for diagnostics
	// about transitions which never match.
	Index uint
	// Source vertex.
	Source Vertex
	// Target vertex.
	Target Vertex
	// Label, or nil for "any".
	Label *Label
}

// Match pairs a transition with the binding context produced by its pattern: the
// bindings from pattern-local variable names to abstract values, valid only
// for this one transition evaluation.
type Match struct {
	Transition *Transition
	Bindings   Bindings
}

// Automaton is the interface through which the monitor consumes a compiled
// property.
type Automaton interface {
	// VertexCount returns the number of vertices.
	VertexCount() uint
	// Registers returns the property's register alphabet, in canonical
	// order.
	Registers() []string
	// TransitionCount returns the number of transitions.
	TransitionCount() uint
	// TransitionsMatching returns every transition whose pattern matches
	// the given event, paired with its bindings.  Matching is purely
	// syntactic.
	TransitionsMatching(ev Event) []Match
	// IsStart indicates whether the given vertex is a start vertex.
	IsStart(v Vertex) bool
	// IsError indicates whether the given vertex is an error vertex.
	IsError(v Vertex) bool
	// Message returns the diagnostic message configured for an error
	// vertex.
	Message(v Vertex) string
}

// ============================================================================
// Machine
// ============================================================================

// Machine is a concrete Automaton.
type Machine struct {
	// Name of the property this machine was compiled from.
	name string
	// Vertex names, defining the vertex count.
	vertices []string
	// Start vertices.
	start *bitset.BitSet
	// Error vertices.
	errors *bitset.BitSet
	// Messages configured on error vertices.
	messages map[Vertex]string
	// Register alphabet, in canonical order.
	registers []string
	// Transitions, in declaration order.
	transitions []Transition
}

// NewMachine constructs an empty machine over the given vertices and register
// alphabet.
func NewMachine(name string, vertices []string, registers []string) *Machine {
	n := uint(len(vertices))
	//
	return &Machine{
		name:      name,
		vertices:  vertices,
		start:     bitset.New(n),
		errors:    bitset.New(n),
		messages:  make(map[Vertex]string),
		registers: registers,
	}
}

// Name returns the property name this machine was compiled from.
func (p *Machine) Name() string {
	return p.name
}

// MarkStart marks a vertex as a start vertex.
func (p *Machine) MarkStart(v Vertex) {
	p.checkVertex(v)
	p.start.Set(uint(v))
}

// MarkError marks a vertex as an error vertex carrying the given diagnostic
// message.
func (p *Machine) MarkError(v Vertex, message string) {
	p.checkVertex(v)
	p.errors.Set(uint(v))
	p.messages[v] = message
}

// AddTransition appends a transition.  A nil label means "any".
func (p *Machine) AddTransition(source Vertex, target Vertex, label *Label) {
	p.checkVertex(source)
	p.checkVertex(target)
	//
	p.transitions = append(p.transitions, Transition{
		Index:  uint(len(p.transitions)),
		Source: source,
		Target: target,
		Label:  label,
	})
}

// VertexCount implementation for the Automaton interface.
func (p *Machine) VertexCount() uint {
	return uint(len(p.vertices))
}

// VertexName returns the declared name of a vertex.
func (p *Machine) VertexName(v Vertex) string {
	p.checkVertex(v)
	return p.vertices[v]
}

// Registers implementation for the Automaton interface.
func (p *Machine) Registers() []string {
	return p.registers
}

// TransitionCount implementation for the Automaton interface.
func (p *Machine) TransitionCount() uint {
	return uint(len(p.transitions))
}

// IsStart implementation for the Automaton interface.
func (p *Machine) IsStart(v Vertex) bool {
	return p.start.Test(uint(v))
}

// IsError implementation for the Automaton interface.
func (p *Machine) IsError(v Vertex) bool {
	return p.errors.Test(uint(v))
}

// Message implementation for the Automaton interface.
func (p *Machine) Message(v Vertex) string {
	return p.messages[v]
}

func (p *Machine) checkVertex(v Vertex) {
	if uint(v) >= uint(len(p.vertices)) {
		panic(fmt.Sprintf("vertex %d out of bounds (%d vertices)", v, len(p.vertices)))
	}
}
