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

// TransitionsMatching implementation for the Automaton interface.  This scans
// every transition and applies its pattern test; a non-matching transition is
// simply absent from the result.
func (p *Machine) TransitionsMatching(ev Event) []Match {
	var matches []Match
	//
	for i := range p.transitions {
		t := &p.transitions[i]
		// Unlabelled transitions match unconditionally, binding nothing.
		if t.Label == nil {
			matches = append(matches, Match{t, nil})
			continue
		}
		//
		if bindings, ok := t.Label.Pattern.Match(ev); ok {
			matches = append(matches, Match{t, bindings})
		}
	}
	//
	return matches
}
