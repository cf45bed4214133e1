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
package diag

import "fmt"

// Location identifies a point in the analysed program.
type Location struct {
	// File being analysed.
	File string
	// Line within that file (1-based; 0 means unknown).
	Line uint
}

// IsUnknown indicates whether this location carries any information at all.
func (p Location) IsUnknown() bool {
	return p.File == "" && p.Line == 0
}

func (p Location) String() string {
	if p.IsUnknown() {
		return "<unknown>"
	}
	//
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Element is one line of a counterexample trace.  Depth records how many
// procedure calls deep this element sits relative to the reported procedure.
type Element struct {
	Depth       uint
	Loc         Location
	Description string
}

// Diagnostic is one reported property violation, carrying the trace leading
// up to it.
type Diagnostic struct {
	// Loc is where the violation manifests.
	Loc Location
	// Category classifies the issue kind.
	Category string
	// Message is the human-readable description configured on the
	// property's error vertex.
	Message string
	// Trace is the ordered sequence of steps leading into the error.
	Trace []Element
}

// Sink consumes diagnostics, one call per reported violation.  Rendering is
// the sink's concern, not the monitor's.
type Sink interface {
	Report(d Diagnostic)
}

// Buffer is a sink which simply retains every diagnostic reported to it.
type Buffer struct {
	Diagnostics []Diagnostic
}

// Report implementation for the Sink interface.
func (p *Buffer) Report(d Diagnostic) {
	p.Diagnostics = append(p.Diagnostics, d)
}
