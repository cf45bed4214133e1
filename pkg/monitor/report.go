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
	"github.com/consensys/go-verimon/pkg/diag"
)

// IssueCategory classifies diagnostics produced by this package.
const IssueCategory = "temporal-safety"

// ReportErrors reconstructs and emits one diagnostic per disjunct which runs
// from a start vertex into an error vertex, walking back-pointers to build the
// counterexample trace.  Large steps expand recursively into their callee's
// own trace, one nesting level deeper.
func (p *Monitor) ReportErrors(state State, sink diag.Sink) {
	for _, s := range state {
		if !p.property.IsStart(s.Pre.Vertex) || !p.property.IsError(s.Post.Vertex) {
			continue
		}
		// Rewind to the first crossing into error, so that an already
		// erroneous suffix is not reported over and over.
		s = p.rewind(s)
		// A trace which is nothing but one nested start-to-error call is
		// already reported at the deeper level.
		if p.nestedOnly(s) {
			continue
		}
		//
		var loc diag.Location
		if s.LastStep != nil {
			loc = s.LastStep.Loc
		}
		//
		sink.Report(diag.Diagnostic{
			Loc:      loc,
			Category: IssueCategory,
			Message:  p.property.Message(s.Post.Vertex),
			Trace:    p.trace(s, 0),
		})
	}
}

// rewind walks back-pointers to the first ancestor whose own predecessor is
// not already past an error vertex.
func (p *Monitor) rewind(s *SimpleState) *SimpleState {
	for s.LastStep != nil {
		prev := s.LastStep.Prev
		//
		if !p.property.IsError(prev.Post.Vertex) {
			break
		}
		//
		s = prev
	}
	//
	return s
}

// nestedOnly checks whether a disjunct's entire trace is a single large step
// whose callee itself runs start to error; reporting it here would duplicate
// the callee's own report at another nesting level.
func (p *Monitor) nestedOnly(s *SimpleState) bool {
	step := s.LastStep
	//
	if step == nil || !step.IsLarge() || step.Prev.LastStep != nil {
		return false
	}
	//
	callee := step.Callee
	//
	return p.property.IsStart(callee.Pre.Vertex) && p.property.IsError(callee.Post.Vertex)
}

// trace reconstructs the ordered trace elements for a disjunct, recursing
// into large steps at the next nesting level.  A large step whose callee
// contributes no elements is elided altogether.
func (p *Monitor) trace(s *SimpleState, depth uint) []diag.Element {
	step := s.LastStep
	if step == nil {
		return nil
	}
	//
	elements := p.trace(step.Prev, depth)
	//
	if step.IsLarge() {
		nested := p.trace(step.Callee, depth+1)
		if len(nested) == 0 {
			return elements
		}
		//
		elements = append(elements, diag.Element{
			Depth:       depth,
			Loc:         step.Loc,
			Description: "call to " + step.Procedure,
		})
		//
		return append(elements, nested...)
	}
	//
	return append(elements, diag.Element{
		Depth:       depth,
		Loc:         step.Loc,
		Description: step.Event.String(),
	})
}
