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
package automaton

import (
	"fmt"
	"strings"

	"github.com/consensys/go-verimon/pkg/diag"
	"github.com/consensys/go-verimon/pkg/symbolic"
	"github.com/consensys/go-verimon/pkg/util"
)

// Event is one observable program action, constructed by the host analyser
// for every instruction or call and consumed immediately by the monitor
// (events are never retained).
type Event interface {
	// Location returns where in the analysed program this event arose.
	Location() diag.Location
	// String returns a human-readable description, used in counterexample
	// traces.
	String() string
}

// ArrayWrite is an event recording a write through an array at some index.
type ArrayWrite struct {
	// Array being written.
	Array symbolic.Value
	// Index being written at.
	Index symbolic.Value
	// Loc of the write.
	Loc diag.Location
}

// Location implementation for the Event interface.
func (p *ArrayWrite) Location() diag.Location {
	return p.Loc
}

func (p *ArrayWrite) String() string {
	return "array write"
}

// Call is an event recording a procedure call, along with its actual
// arguments and (optional) returned value.
type Call struct {
	// Procedure being called.
	Procedure string
	// Return value, if the call produced one.
	Return util.Option[symbolic.Value]
	// Arguments passed, in order.
	Arguments []symbolic.Value
	// Loc of the call.
	Loc diag.Location
}

// Location implementation for the Event interface.
func (p *Call) Location() diag.Location {
	return p.Loc
}

func (p *Call) String() string {
	name := p.Procedure
	// Strip any path qualification for readability.
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	//
	return fmt.Sprintf("call to %s", name)
}
