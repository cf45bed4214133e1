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

// Package monitor implements a symbolic monitor tracking whether an execution
// path explored by a host abstract interpreter can reach a violation of a
// temporal property automaton.  The monitor's state is a disjunction of
// simple states, each pairing an automaton configuration at procedure entry
// with one at the current point, under a path-local constraint.  The host
// drives the monitor forward with SmallStep (one event) and LargeStep (one
// procedure call, composed from a precomputed callee summary); the monitor
// bounds its own disjunction and reports counterexample traces when an error
// vertex becomes reachable.
package monitor

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-verimon/pkg/automaton"
	"github.com/consensys/go-verimon/pkg/symbolic"
	log "github.com/sirupsen/logrus"
)

// Config carries the recognised monitor options.
type Config struct {
	// MaxDisjuncts bounds the number of simple states retained in one
	// disjunctive state.  Beyond it, precision degrades silently.
	MaxDisjuncts uint
	// MaxConjuncts bounds the predicate count of any one disjunct's
	// constraint during truncation.
	MaxConjuncts uint
	// TraceEnabled gates verbose end-of-run diagnostics about transitions
	// which never structurally matched.
	TraceEnabled bool
}

// DefaultConfig returns the default option values.
func DefaultConfig() Config {
	return Config{MaxDisjuncts: 20, MaxConjuncts: 20}
}

// Monitor is the context for one analysis run.  It holds the compiled
// property, the host's value allocator, the configured bounds, and the run's
// diagnostic counters (kept here as explicit fields rather than as ambient
// process-wide state).  A monitor instance is private to one procedure
// analysis and is never shared across goroutines.
type Monitor struct {
	property automaton.Automaton
	alloc    symbolic.Allocator
	config   Config
	// Transitions which structurally matched at least one event.
	matched *bitset.BitSet
	// Disjuncts discarded by score-based truncation.
	dropped uint
}

// New constructs a monitor for one analysis run.
func New(property automaton.Automaton, alloc symbolic.Allocator, config Config) *Monitor {
	return &Monitor{
		property: property,
		alloc:    alloc,
		config:   config,
		matched:  bitset.New(property.TransitionCount()),
	}
}

// Initial returns the monitor state at the start of an analysed procedure:
// one simple state per automaton vertex, each with freshly minted register
// values, representing "the monitor could start anywhere" before any
// property-start predicate narrows it down.
func (p *Monitor) Initial() State {
	n := p.property.VertexCount()
	registers := p.property.Registers()
	state := make(State, n)
	//
	for v := uint(0); v < n; v++ {
		memory := NewMemory(registers, p.alloc)
		config := Configuration{automaton.Vertex(v), memory}
		state[v] = &SimpleState{Pre: config, Post: config}
	}
	//
	return state
}

// DroppedDisjuncts returns how many disjuncts were discarded by truncation
// over the course of this run.
func (p *Monitor) DroppedDisjuncts() uint {
	return p.dropped
}

// Flush emits the run's accumulated diagnostics.  Called once, at the end of
// an analysis run.
func (p *Monitor) Flush() {
	if p.config.TraceEnabled {
		for i := uint(0); i < p.property.TransitionCount(); i++ {
			if !p.matched.Test(i) {
				log.Debugf("transition %d never matched any event", i)
			}
		}
	}
	//
	if p.dropped > 0 {
		log.Debugf("%d disjuncts dropped to stay within bounds", p.dropped)
	}
}
