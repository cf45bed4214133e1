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
	"github.com/consensys/go-verimon/pkg/automaton"
	"github.com/consensys/go-verimon/pkg/diag"
)

// Step is one node of the backward-linked trace retained for counterexample
// reporting.  Steps form a DAG: a step is never mutated after creation, and a
// predecessor state may be shared by many successors.  A step records either
// a small event or, for procedure calls, the callee's (substituted) post
// state, which trace reconstruction recurses into.
type Step struct {
	// Loc of the program action this step corresponds to.
	Loc diag.Location
	// Prev is the simple state this step extends.
	Prev *SimpleState
	// Event observed, for small steps (nil otherwise).
	Event automaton.Event
	// Procedure called, for large steps.
	Procedure string
	// Callee post state, for large steps (nil otherwise).
	Callee *SimpleState
}

func newSmallStep(prev *SimpleState, ev automaton.Event) *Step {
	return &Step{Loc: ev.Location(), Prev: prev, Event: ev}
}

func newLargeStep(loc diag.Location, prev *SimpleState, procedure string, callee *SimpleState) *Step {
	return &Step{Loc: loc, Prev: prev, Procedure: procedure, Callee: callee}
}

// IsLarge indicates whether this step records a procedure call (as opposed to
// a single event).
func (p *Step) IsLarge() bool {
	return p.Callee != nil
}
