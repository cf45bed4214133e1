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

// Path is the host analyser's path condition.  It is opaque to the monitor,
// which only ever threads it through the feasibility oracle.
type Path any

// Mode selects how much effort the oracle spends on a feasibility query.
type Mode uint8

const (
	// CHEAP requests an incremental check without normalisation.  Used on
	// the hot path of bounding.
	CHEAP Mode = iota
	// FULL requests a complete check, including normalisation against
	// whatever dynamic-type information the host holds.  Used once, at
	// summary-emission time.
	FULL
)

// Oracle is the external feasibility engine.  Assert conjoins a single
// predicate onto the path condition, returning the strengthened condition, or
// false if the result is unsatisfiable.  An oracle call is a potentially
// expensive pure function: it must have no side effects on monitor state.
type Oracle interface {
	Assert(mode Mode, path Path, pred Predicate) (Path, bool)
}

// PrunePath folds every predicate of a constraint into the path condition via
// the oracle, short-circuiting to unsatisfiable as soon as any step fails.
func PrunePath(oracle Oracle, mode Mode, path Path, c Constraint) (Path, bool) {
	for _, p := range c {
		var sat bool
		//
		if path, sat = oracle.Assert(mode, path, p); !sat {
			return nil, false
		}
	}
	//
	return path, true
}

// ============================================================================
// Syntactic oracle
// ============================================================================

// SyntacticOracle is a built-in stand-in for a real solver: the path condition
// is simply the constraint accumulated so far, and a query fails only on
// syntactic contradictions (p ∧ ¬p, one value equated to two distinct
// constants, or a refuted constant comparison).  It is used by the replay tool
// and by tests; a host analyser plugs in its own theorem prover instead.
type SyntacticOracle struct{}

// Assert implementation for the Oracle interface.  Both modes behave
// identically since there is nothing to normalise.
func (SyntacticOracle) Assert(_ Mode, path Path, pred Predicate) (Path, bool) {
	seen, _ := path.(Constraint)
	//
	if truth, decided := pred.Eval(); decided {
		if !truth {
			return nil, false
		}
		// Trivially true, nothing to record.
		return seen, true
	}
	//
	for _, q := range seen {
		if pred.Contradicts(q) {
			return nil, false
		}
	}
	//
	return seen.And(pred), true
}
