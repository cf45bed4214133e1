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
	"testing"

	"github.com/consensys/go-verimon/pkg/symbolic"
)

func Test_Constraint_01(t *testing.T) {
	if True().Size() != 0 {
		t.Errorf("true constraint has non-zero size")
	}
}

func Test_Constraint_02(t *testing.T) {
	// trivial equalities (v = v) are elided on construction
	c := True().And(Equals(1, 1))
	//
	if c.Size() != 0 {
		t.Errorf("trivial equality not elided: %s", c)
	}
}

func Test_Constraint_03(t *testing.T) {
	c := True().And(eqc(1, 0)).And(eqc(2, 1))
	// most recent predicate sits at the front
	if c.Size() != 2 || c[0].Cmp(eqc(2, 1)) != 0 {
		t.Errorf("unexpected conjunction: %s", c)
	}
}

func Test_Constraint_04(t *testing.T) {
	a := True().And(eqc(1, 0))
	b := True().And(eqc(2, 1))
	c := And2(a, b)
	//
	if c.Size() != 2 {
		t.Errorf("unexpected conjunction: %s", c)
	}
	// inputs untouched
	if a.Size() != 1 || b.Size() != 1 {
		t.Errorf("inputs mutated by conjunction")
	}
}

// Negation

func Test_Negate_01(t *testing.T) {
	// complement of the empty disjunction (false) is true
	ds := Negate(nil)
	//
	if len(ds) != 1 || ds[0].Size() != 0 {
		t.Errorf("expected singleton true disjunction, got %v", ds)
	}
}

func Test_Negate_02(t *testing.T) {
	// complement of true is the empty disjunction
	ds := Negate([]Constraint{True()})
	//
	if len(ds) != 0 {
		t.Errorf("expected empty disjunction, got %v", ds)
	}
}

func Test_Negate_03(t *testing.T) {
	// single-predicate round trip (De Morgan duality)
	c := True().And(eqc(1, 7))
	ds := Negate(Negate([]Constraint{c}))
	//
	if len(ds) != 1 || ds[0].Cmp(c) != 0 {
		t.Errorf("round trip lost %s, got %v", c, ds)
	}
}

func Test_Negate_04(t *testing.T) {
	// one conjunction of two atoms expands to two singleton conjunctions
	c := True().And(eqc(1, 0)).And(eqc(2, 0))
	ds := Negate([]Constraint{c})
	//
	if len(ds) != 2 || ds[0].Size() != 1 || ds[1].Size() != 1 {
		t.Errorf("unexpected complement: %v", ds)
	}
}

func Test_Negate_05(t *testing.T) {
	// Cartesian product across conjunctions: |c1| * |c2| = 2 * 1
	c1 := True().And(eqc(1, 0)).And(eqc(2, 0))
	c2 := True().And(eqc(3, 0))
	ds := Negate([]Constraint{c1, c2})
	//
	if len(ds) != 2 {
		t.Errorf("expected 2 conjunctions, got %d", len(ds))
	}
	//
	for _, d := range ds {
		if d.Size() != 2 {
			t.Errorf("expected 2 atoms per conjunction, got %s", d)
		}
	}
}

// Substitution

func Test_Substitute_01(t *testing.T) {
	var (
		sub = symbolic.NewSubstitution(symbolic.NewCounter(100))
		c   = True().And(Equals(1, 2)).And(Equals(1, 3))
	)
	//
	d := Substitute(sub, c)
	// value 1 occurs twice and must map to one image
	if d[0].Left.Value() != d[1].Left.Value() {
		t.Errorf("inconsistent substitution: %s", d)
	}
	// images are freshly minted
	if d[0].Left.Value() < 100 {
		t.Errorf("expected fresh value, got %s", d[0].Left)
	}
	// reapplying the same substitution is stable
	if e := Substitute(sub, c); e.Cmp(d) != 0 {
		t.Errorf("substitution not stable: %s vs %s", d, e)
	}
}

func Test_Substitute_02(t *testing.T) {
	var (
		sub = symbolic.NewSubstitution(symbolic.NewCounter(100))
		c   = True().And(eqc(1, 42))
	)
	// constants pass through untouched
	d := Substitute(sub, c)
	//
	if d[0].Right.IsValue() {
		t.Errorf("constant operand was substituted: %s", d)
	}
}

// Existential elimination

func Test_Eliminate_01(t *testing.T) {
	c := True().And(Equals(1, 2)).And(eqc(3, 0)).And(eqc(1, 5))
	d := EliminateExists(symbolic.NewSet(1), c)
	// only the predicate mentioning value 1 alone survives
	if d.Size() != 1 || d[0].Cmp(eqc(1, 5)) != 0 {
		t.Errorf("unexpected elimination result: %s", d)
	}
}

func Test_Eliminate_02(t *testing.T) {
	// constant-only predicates mention no values and always survive
	c := True().And(NewPredicate(LT, ConstInt(1), ConstInt(2)))
	d := EliminateExists(symbolic.NewSet(), c)
	//
	if d.Size() != 1 {
		t.Errorf("constant predicate dropped: %s", d)
	}
}

// Normalisation

func Test_Normalize_01(t *testing.T) {
	c := True().And(eqc(2, 0)).And(eqc(1, 0)).And(eqc(2, 0))
	d := c.Normalize()
	//
	if d.Size() != 2 {
		t.Errorf("duplicates not removed: %s", d)
	}
	//
	if d[0].Cmp(d[1]) >= 0 {
		t.Errorf("not canonically sorted: %s", d)
	}
	// original untouched
	if c.Size() != 3 {
		t.Errorf("input mutated by normalisation")
	}
}

// Feasibility

func Test_Prune_01(t *testing.T) {
	// x=1 ∧ x=2 is syntactically unsatisfiable
	c := True().And(eqc(1, 1)).And(eqc(1, 2))
	//
	if _, sat := PrunePath(SyntacticOracle{}, CHEAP, nil, c); sat {
		t.Errorf("expected unsat for %s", c)
	}
}

func Test_Prune_02(t *testing.T) {
	c := True().And(eqc(1, 1)).And(eqc(2, 2))
	path, sat := PrunePath(SyntacticOracle{}, CHEAP, nil, c)
	//
	if !sat {
		t.Errorf("expected sat for %s", c)
	}
	//
	if accumulated := path.(Constraint); accumulated.Size() != 2 {
		t.Errorf("expected both predicates recorded, got %s", accumulated)
	}
}

func Test_Prune_03(t *testing.T) {
	// p ∧ ¬p
	c := True().And(Equals(1, 2)).And(Equals(1, 2).Negate())
	//
	if _, sat := PrunePath(SyntacticOracle{}, FULL, nil, c); sat {
		t.Errorf("expected unsat for %s", c)
	}
}

func Test_Prune_04(t *testing.T) {
	// refuted constant comparison
	c := True().And(NewPredicate(EQ, ConstInt(1), ConstInt(2)))
	//
	if _, sat := PrunePath(SyntacticOracle{}, CHEAP, nil, c); sat {
		t.Errorf("expected unsat for %s", c)
	}
}

// Operators

func Test_RelOp_01(t *testing.T) {
	pairs := [][2]RelOp{{EQ, NEQ}, {GTEQ, LT}, {GT, LTEQ}}
	//
	for _, p := range pairs {
		if p[0].Negate() != p[1] || p[1].Negate() != p[0] {
			t.Errorf("%s and %s are not complementary", p[0], p[1])
		}
	}
}

// eqc builds the predicate "v = k" for a value and a small constant.
func eqc(v symbolic.Value, k int64) Predicate {
	return NewPredicate(EQ, Sym(v), ConstInt(k))
}
