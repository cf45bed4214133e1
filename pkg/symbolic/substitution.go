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
package symbolic

import "fmt"

// Substitution maps values of one value space into another.  It is built
// lazily: applying it to a value which has no mapping yet mints a fresh value
// and records the mapping, so that every subsequent application of the same
// substitution agrees.  This is how a callee summary's value space is aligned
// with a caller's during composition.
type Substitution struct {
	alloc   Allocator
	mapping map[Value]Value
}

// NewSubstitution constructs an empty substitution minting fresh values from
// the given allocator.
func NewSubstitution(alloc Allocator) *Substitution {
	return &Substitution{alloc, make(map[Value]Value)}
}

// Lookup returns the mapping for a value, if one has been established.
func (p *Substitution) Lookup(v Value) (Value, bool) {
	w, ok := p.mapping[v]
	return w, ok
}

// Bind establishes an explicit mapping from one value to another.  Rebinding
// an already-mapped value indicates the caller lost track of its own
// unification and is a fatal internal error.
func (p *Substitution) Bind(from Value, to Value) {
	if w, ok := p.mapping[from]; ok && w != to {
		panic(fmt.Sprintf("value %s already bound to %s (rebinding to %s)", from, w, to))
	}
	//
	p.mapping[from] = to
}

// Apply maps a value through this substitution, minting (and recording) a
// fresh value the first time a given value is seen.
func (p *Substitution) Apply(v Value) Value {
	if w, ok := p.mapping[v]; ok {
		return w
	}
	// First occurrence, mint a fresh image.
	w := p.alloc.Fresh()
	p.mapping[v] = w
	//
	return w
}
