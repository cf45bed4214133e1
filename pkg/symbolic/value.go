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

import (
	"cmp"
	"fmt"
)

// Value is an opaque symbolic identifier minted by the host analyser.  The
// monitor never interprets a value; it only compares values for equality and
// ordering, and maps them through substitutions.  A value is never destroyed
// by this package.
type Value uint64

// Cmp returns <0, 0 or >0 depending on how this value orders against another.
func (v Value) Cmp(o Value) int {
	return cmp.Compare(v, o)
}

func (v Value) String() string {
	return fmt.Sprintf("v%d", uint64(v))
}

// Allocator mints fresh abstract values.  The host analyser owns the value
// space and, hence, supplies the allocator; values returned by Fresh must
// never collide with values previously handed to the monitor.
type Allocator interface {
	// Fresh returns a value not seen before.
	Fresh() Value
}

// Counter is a trivial Allocator which hands out consecutive values.  It is
// used by the replay tool and by tests; a real host analyser supplies its own
// allocator instead.
type Counter struct {
	next Value
}

// NewCounter constructs a counter whose first fresh value is the given one.
func NewCounter(first Value) *Counter {
	return &Counter{first}
}

// Fresh implementation for the Allocator interface.
func (c *Counter) Fresh() Value {
	v := c.next
	c.next++
	//
	return v
}
