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

// Set is an unordered collection of abstract values, used for liveness and
// garbage filtering.
type Set map[Value]struct{}

// NewSet constructs a set from zero or more values.
func NewSet(values ...Value) Set {
	set := make(Set, len(values))
	//
	for _, v := range values {
		set[v] = struct{}{}
	}
	//
	return set
}

// Contains checks whether the given value is in this set.
func (p Set) Contains(v Value) bool {
	_, ok := p[v]
	return ok
}

// Insert adds a value to this set.
func (p Set) Insert(v Value) {
	p[v] = struct{}{}
}

// Clone returns an independent copy of this set.
func (p Set) Clone() Set {
	set := make(Set, len(p))
	//
	for v := range p {
		set[v] = struct{}{}
	}
	//
	return set
}
