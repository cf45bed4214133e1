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
	"math/big"
	"regexp"

	"github.com/consensys/go-verimon/pkg/constraint"
	"github.com/consensys/go-verimon/pkg/symbolic"
	"github.com/consensys/go-verimon/pkg/util"
)

// Label decorates a transition with a pattern over events, guard tests over
// the matched bindings, and register assignments to perform when the
// transition fires.  A transition without a label ("any") matches every event
// unconditionally, binding nothing.
type Label struct {
	// Pattern determines which events this transition can fire on.
	Pattern Pattern
	// Guard tests, all of which must hold for the transition to fire.
	Guard []Guard
	// Action assignments, executed in order; a later assignment observes
	// the effect of an earlier one.
	Action []Assignment
}

// ============================================================================
// Patterns
// ============================================================================

// Pattern is a purely syntactic test of an event.  A successful match
// produces bindings from the pattern's local variable names to
// abstract values, scoped to one transition evaluation.  Matching never
// consults the path condition.
type Pattern interface {
	Match(ev Event) (Bindings, bool)
}

// Bindings maps pattern-local variable names to abstract values.
type Bindings = map[string]symbolic.Value

// ArrayWritePattern matches an ArrayWrite event, binding the array and index
// to two formal names.
type ArrayWritePattern struct {
	// Array formal name.
	Array string
	// Index formal name.
	Index string
}

// Match implementation for the Pattern interface.
func (p *ArrayWritePattern) Match(ev Event) (Bindings, bool) {
	aw, ok := ev.(*ArrayWrite)
	if !ok {
		return nil, false
	}
	//
	return Bindings{p.Array: aw.Array, p.Index: aw.Index}, true
}

// CallPattern matches a Call event whose procedure name matches a regular
// expression.  If formals are declared, the (optional) return formal and the
// parameter formals are bound positionally against the event's actual return
// and arguments; any arity mismatch (including a declared return with no
// actual, or vice versa) is a non-match, not an error.
type CallPattern struct {
	// Procedure name pattern.
	Procedure *regexp.Regexp
	// Formals indicates whether any formals were declared at all.  A
	// pattern without formals matches any arity and binds nothing.
	Formals bool
	// Return formal name, if declared.
	Return util.Option[string]
	// Parameters formal names, in order.
	Parameters []string
}

// Match implementation for the Pattern interface.
func (p *CallPattern) Match(ev Event) (Bindings, bool) {
	call, ok := ev.(*Call)
	if !ok || !p.Procedure.MatchString(call.Procedure) {
		return nil, false
	}
	//
	if !p.Formals {
		return Bindings{}, true
	}
	// Arity checks
	if p.Return.HasValue() != call.Return.HasValue() {
		return nil, false
	} else if len(p.Parameters) != len(call.Arguments) {
		return nil, false
	}
	//
	bindings := make(Bindings, len(p.Parameters)+1)
	//
	if p.Return.HasValue() {
		bindings[p.Return.Unwrap()] = call.Return.Unwrap()
	}
	//
	for i, name := range p.Parameters {
		bindings[name] = call.Arguments[i]
	}
	//
	return bindings, true
}

// ============================================================================
// Guards & actions
// ============================================================================

// Operand of a guard test: either a name (register or pattern-local variable,
// resolved at step time) or an integer constant.
type Operand struct {
	// Name of a register or local; empty for constants.
	Name string
	// Constant value, when Name is empty.
	Constant big.Int
}

// Name constructs a named guard operand.
func Name(name string) Operand {
	return Operand{Name: name}
}

// Number constructs a constant guard operand.
func Number(k int64) Operand {
	return Operand{Constant: *big.NewInt(k)}
}

// IsName indicates whether this operand is a name (as opposed to a constant).
func (p Operand) IsName() bool {
	return p.Name != ""
}

// Guard is one boolean test on a transition: either a binary comparison
// between two operands, or a bare-variable truth test (which the step engine
// translates to "v ≠ 0").
type Guard struct {
	// Truth indicates a bare-variable truth test on Left.
	Truth bool
	// Op is the comparison operator (ignored for truth tests).
	Op constraint.RelOp
	// Left operand
	Left Operand
	// Right operand (ignored for truth tests).
	Right Operand
}

// Compare constructs a binary comparison guard.
func Compare(op constraint.RelOp, left Operand, right Operand) Guard {
	return Guard{Op: op, Left: left, Right: right}
}

// Truthy constructs a bare-variable truth test.
func Truthy(name string) Guard {
	return Guard{Truth: true, Left: Name(name)}
}

// Assignment stores one value into a register when a transition fires.  The
// source names either a pattern-local binding or a register; register reads
// observe earlier assignments of the same action list.
type Assignment struct {
	// Register being assigned.
	Register string
	// Source variable being read.
	Source string
}
