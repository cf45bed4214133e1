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
	"fmt"
	"math/big"

	"github.com/consensys/go-verimon/pkg/symbolic"
)

// RelOp is a binary relational operator over abstract values and constants.
type RelOp uint8

const (
	// EQ represents equality (=)
	EQ RelOp = iota
	// NEQ represents non-equality (≠)
	NEQ
	// LT represents strictly-below (<)
	LT
	// LTEQ represents below-or-equal (≤)
	LTEQ
	// GT represents strictly-above (>)
	GT
	// GTEQ represents above-or-equal (≥)
	GTEQ
)

// Negate returns the complementary operator (e.g. = becomes ≠, ≥ becomes <).
func (p RelOp) Negate() RelOp {
	switch p {
	case EQ:
		return NEQ
	case NEQ:
		return EQ
	case LT:
		return GTEQ
	case LTEQ:
		return GT
	case GT:
		return LTEQ
	case GTEQ:
		return LT
	}
	//
	panic(fmt.Sprintf("unknown relational operator (%d)", p))
}

func (p RelOp) String() string {
	switch p {
	case EQ:
		return "="
	case NEQ:
		return "≠"
	case LT:
		return "<"
	case LTEQ:
		return "≤"
	case GT:
		return ">"
	case GTEQ:
		return "≥"
	}
	//
	return "?"
}

// holds returns the truth of "l op r" for two integer constants.
func (p RelOp) holds(l *big.Int, r *big.Int) bool {
	c := l.Cmp(r)
	//
	switch p {
	case EQ:
		return c == 0
	case NEQ:
		return c != 0
	case LT:
		return c < 0
	case LTEQ:
		return c <= 0
	case GT:
		return c > 0
	case GTEQ:
		return c >= 0
	}
	//
	panic(fmt.Sprintf("unknown relational operator (%d)", p))
}

// ============================================================================
// Operand
// ============================================================================

// Operand is either an abstract value or an integer constant.
type Operand struct {
	// Indicates whether this operand is a symbolic value.
	sym   bool
	value symbolic.Value
	konst big.Int
}

// Sym constructs an operand holding an abstract value.
func Sym(v symbolic.Value) Operand {
	return Operand{sym: true, value: v}
}

// Const constructs an operand holding an integer constant.
func Const(k big.Int) Operand {
	return Operand{konst: k}
}

// ConstInt constructs an operand holding a small integer constant.
func ConstInt(k int64) Operand {
	return Operand{konst: *big.NewInt(k)}
}

// IsValue indicates whether this operand is an abstract value (as opposed to a
// constant).
func (p Operand) IsValue() bool {
	return p.sym
}

// Value returns the abstract value held by this operand, or panics if it holds
// a constant.
func (p Operand) Value() symbolic.Value {
	if !p.sym {
		panic("operand is a constant, not a value")
	}
	//
	return p.value
}

// Cmp provides a total ordering of operands, with values ordering before
// constants.
func (p Operand) Cmp(o Operand) int {
	switch {
	case p.sym && !o.sym:
		return -1
	case !p.sym && o.sym:
		return 1
	case p.sym:
		return p.value.Cmp(o.value)
	default:
		return p.konst.Cmp(&o.konst)
	}
}

// substitute maps this operand through the given substitution.  Constants are
// untouched; values are (lazily) mapped into the target value space.
func (p Operand) substitute(sub *symbolic.Substitution) Operand {
	if !p.sym {
		return p
	}
	//
	return Sym(sub.Apply(p.value))
}

func (p Operand) String() string {
	if p.sym {
		return p.value.String()
	}
	//
	return p.konst.String()
}

// ============================================================================
// Predicate
// ============================================================================

// Predicate is an atomic relational fact over two operands.  Predicates are
// immutable once constructed.
type Predicate struct {
	// Op is the relational operator.
	Op RelOp
	// Left operand
	Left Operand
	// Right operand
	Right Operand
}

// NewPredicate constructs a predicate from an operator and two operands.
func NewPredicate(op RelOp, left Operand, right Operand) Predicate {
	return Predicate{op, left, right}
}

// Equals is a convenience constructor for an equality over two values.
func Equals(l symbolic.Value, r symbolic.Value) Predicate {
	return Predicate{EQ, Sym(l), Sym(r)}
}

// Negate returns the complementary predicate (same operands, negated
// operator).
func (p Predicate) Negate() Predicate {
	return Predicate{p.Op.Negate(), p.Left, p.Right}
}

// Trivial indicates whether this predicate is a syntactically trivial equality
// (i.e. v = v), which carries no information and is elided on construction of
// constraints.
func (p Predicate) Trivial() bool {
	return p.Op == EQ && p.Left.Cmp(p.Right) == 0
}

// Eval attempts to decide this predicate syntactically.  The second result
// indicates whether a decision was possible (both operands constant, or
// identical operands).
func (p Predicate) Eval() (bool, bool) {
	if !p.Left.IsValue() && !p.Right.IsValue() {
		return p.Op.holds(&p.Left.konst, &p.Right.konst), true
	}
	//
	if p.Left.Cmp(p.Right) == 0 {
		// v op v is decidable for every operator.
		switch p.Op {
		case EQ, LTEQ, GTEQ:
			return true, true
		default:
			return false, true
		}
	}
	//
	return false, false
}

// Contradicts determines whether this predicate syntactically contradicts
// another.  Only the cheap cases are caught (p ∧ ¬p, and two equalities
// binding one value to distinct constants); anything subtler is the
// feasibility oracle's job.
func (p Predicate) Contradicts(o Predicate) bool {
	if p.Cmp(o.Negate()) == 0 {
		return true
	}
	// x=c1 ∧ x=c2 with c1≠c2
	if p.Op == EQ && o.Op == EQ && p.Left.IsValue() && o.Left.IsValue() &&
		!p.Right.IsValue() && !o.Right.IsValue() {
		return p.Left.Cmp(o.Left) == 0 && p.Right.Cmp(o.Right) != 0
	}
	//
	return false
}

// Cmp provides a total (syntactic) ordering of predicates, used for canonical
// sorting and deduplication.
func (p Predicate) Cmp(o Predicate) int {
	if p.Op != o.Op {
		if p.Op < o.Op {
			return -1
		}
		//
		return 1
	}
	//
	if c := p.Left.Cmp(o.Left); c != 0 {
		return c
	}
	//
	return p.Right.Cmp(o.Right)
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s%s%s", p.Left, p.Op, p.Right)
}
