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
package constraint

import (
	"slices"
	"strings"

	"github.com/consensys/go-verimon/pkg/symbolic"
)

// Constraint is a set of atomic predicates interpreted conjunctively.  The
// empty constraint is logical truth.  A constraint is owned exclusively by the
// simple state holding it and is never mutated after construction; every
// operation below returns a fresh constraint.
type Constraint []Predicate

// True returns the empty (always satisfiable) constraint.
func True() Constraint {
	return nil
}

// And conjoins one predicate onto this constraint, eliding syntactically
// trivial equalities (v = v).
func (c Constraint) And(p Predicate) Constraint {
	if p.Trivial() {
		return c
	}
	//
	return append(Constraint{p}, c...)
}

// And2 conjoins two constraints.
func And2(a Constraint, b Constraint) Constraint {
	if len(a) == 0 {
		return b
	} else if len(b) == 0 {
		return a
	}
	//
	return append(slices.Clone(a), b...)
}

// AndN conjoins any number of constraints.
func AndN(cs ...Constraint) Constraint {
	result := True()
	//
	for _, c := range cs {
		result = And2(result, c)
	}
	//
	return result
}

// Negate computes the complement of a disjunction of conjunctions, itself
// expressed as a disjunction of conjunctions: each resulting conjunction picks
// one negated atom from every input conjunction (De Morgan followed by
// distribution).  The result size is the product of the input conjunction
// lengths, hence worst-case exponential; callers keep conjunctions small via
// the same conjunct bound applied elsewhere.  Note the boundary cases fall out
// naturally: negating the empty disjunction (false) yields the singleton true
// disjunction, and negating a disjunction containing the empty conjunction
// (true) yields the empty disjunction.
func Negate(disjuncts []Constraint) []Constraint {
	result := []Constraint{True()}
	//
	for _, conjunction := range disjuncts {
		var expanded []Constraint
		//
		for _, partial := range result {
			for _, atom := range conjunction {
				expanded = append(expanded, partial.And(atom.Negate()))
			}
		}
		//
		result = expanded
	}
	//
	return result
}

// Substitute applies a value substitution to every operand of this
// constraint, minting a fresh value (and recording it in the substitution)
// the first time an unmapped value is encountered.
func Substitute(sub *symbolic.Substitution, c Constraint) Constraint {
	if len(c) == 0 {
		return c
	}
	//
	result := make(Constraint, len(c))
	//
	for i, p := range c {
		result[i] = Predicate{p.Op, p.Left.substitute(sub), p.Right.substitute(sub)}
	}
	//
	return result
}

// EliminateExists drops every predicate mentioning a value operand outside the
// keep set.  This is a conservative under-approximation of existential
// elimination: it may discard true facts, but never fabricates false ones.
func EliminateExists(keep symbolic.Set, c Constraint) Constraint {
	var result Constraint
	//
	for _, p := range c {
		if mentionsOutside(p, keep) {
			continue
		}
		//
		result = append(result, p)
	}
	//
	return result
}

// Size returns the number of predicates in this constraint, used as a score
// during bounding.
func (c Constraint) Size() uint {
	return uint(len(c))
}

// Values adds every abstract value mentioned by this constraint to the given
// set.
func (c Constraint) Values(set symbolic.Set) {
	for _, p := range c {
		if p.Left.IsValue() {
			set.Insert(p.Left.Value())
		}
		//
		if p.Right.IsValue() {
			set.Insert(p.Right.Value())
		}
	}
}

// Normalize returns a canonically sorted, duplicate-free copy of this
// constraint, enabling order-independent comparison of simple states.
func (c Constraint) Normalize() Constraint {
	if len(c) == 0 {
		return c
	}
	//
	result := slices.Clone(c)
	//
	slices.SortFunc(result, func(a, b Predicate) int {
		return a.Cmp(b)
	})
	//
	return slices.CompactFunc(result, func(a, b Predicate) bool {
		return a.Cmp(b) == 0
	})
}

// Cmp provides a syntactic total ordering of constraints.  Callers wanting an
// order-independent comparison normalize both sides first.
func (c Constraint) Cmp(o Constraint) int {
	if len(c) != len(o) {
		if len(c) < len(o) {
			return -1
		}
		//
		return 1
	}
	//
	for i := range c {
		if r := c[i].Cmp(o[i]); r != 0 {
			return r
		}
	}
	//
	return 0
}

func (c Constraint) String() string {
	if len(c) == 0 {
		return "⊤"
	}
	//
	var builder strings.Builder
	//
	for i, p := range c {
		if i != 0 {
			builder.WriteString(" ∧ ")
		}
		//
		builder.WriteString(p.String())
	}
	//
	return builder.String()
}

func mentionsOutside(p Predicate, keep symbolic.Set) bool {
	if p.Left.IsValue() && !keep.Contains(p.Left.Value()) {
		return true
	}
	//
	return p.Right.IsValue() && !keep.Contains(p.Right.Value())
}
